package cli

import (
	"fmt"

	"github.com/doeshing/diarisk/internal/domain"
)

// Exit codes for explain and predict when the explanation fell back.
const (
	ExitConfigError   = 2
	ExitProviderError = 3
	ExitEmptyResponse = 4
)

// ExitError carries a process exit code. The fallback text has already been
// printed when it is returned.
type ExitError struct {
	Code    int
	Outcome domain.ExplainOutcome
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("explanation unavailable (%s)", e.Outcome)
}

// outcomeError maps a non-ok outcome to an ExitError.
func outcomeError(outcome domain.ExplainOutcome) error {
	switch outcome {
	case domain.OutcomeOK:
		return nil
	case domain.OutcomeConfigError:
		return &ExitError{Code: ExitConfigError, Outcome: outcome}
	case domain.OutcomeEmptyResponse:
		return &ExitError{Code: ExitEmptyResponse, Outcome: outcome}
	default:
		return &ExitError{Code: ExitProviderError, Outcome: outcome}
	}
}
