// Package explain requests a natural-language explanation of a risk
// assessment from the remote text-generation service.
//
// Every failure is resolved to display-safe text at this boundary; callers
// always receive a string they can render.
package explain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/doeshing/diarisk/internal/application/scoring"
	"github.com/doeshing/diarisk/internal/domain"
	"github.com/doeshing/diarisk/internal/pkg/logger"
	"github.com/doeshing/diarisk/internal/ports"
)

// Fallback messages returned instead of errors.
const (
	MsgUnavailable = "We were unable to generate an analysis at this time. Please try again later."
	MsgNoAnalysis  = "No analysis could be generated for the provided data."
)

// ConfigurationErrorMessage is returned when the credential is missing.
func ConfigurationErrorMessage(credentialName string) string {
	if credentialName == "" {
		credentialName = domain.DefaultAuthEnvVar
	}
	return fmt.Sprintf("Configuration error: the %s API credential is not set, so no analysis was requested.", credentialName)
}

// Config is the explicit configuration of a Requester.
type Config struct {
	Credential     string
	CredentialName string
	Model          string
}

// Requester builds the prompt and calls the generator once per request.
// It holds no per-call state.
type Requester struct {
	cfg       Config
	generator ports.Generator
	logger    ports.Logger
}

// NewRequester builds a Requester. generator may be nil when the credential is
// missing; it is never called in that case. A nil log discards output.
func NewRequester(cfg Config, generator ports.Generator, log ports.Logger) *Requester {
	if log == nil {
		log = logger.NewNop()
	}
	return &Requester{cfg: cfg, generator: generator, logger: log}
}

// Explain returns the explanation text for metrics at risk, or a fallback
// message describing why none could be produced.
func (r *Requester) Explain(ctx context.Context, metrics domain.HealthMetrics, risk domain.RiskLevel) string {
	text, _ := r.ExplainDetailed(ctx, metrics, risk)
	return text
}

// ExplainDetailed is Explain plus the outcome classification.
func (r *Requester) ExplainDetailed(ctx context.Context, metrics domain.HealthMetrics, risk domain.RiskLevel) (string, domain.ExplainOutcome) {
	if strings.TrimSpace(r.cfg.Credential) == "" {
		r.logger.Warn("explanation skipped: credential missing", map[string]interface{}{
			"credential": r.cfg.CredentialName,
		})
		return ConfigurationErrorMessage(r.cfg.CredentialName), domain.OutcomeConfigError
	}
	if r.generator == nil {
		r.logger.Error("explanation skipped: no generator configured", errors.New("nil generator"), nil)
		return MsgUnavailable, domain.OutcomeProviderError
	}

	prompt, err := r.prompt(metrics, risk)
	if err != nil {
		r.logger.Error("build prompt failed", err, nil)
		return MsgUnavailable, domain.OutcomeProviderError
	}

	start := time.Now()
	text, err := r.generate(ctx, prompt)
	elapsed := time.Since(start)
	if err != nil {
		r.logger.Error("explanation request failed", err, map[string]interface{}{
			"model":      r.cfg.Model,
			"risk":       risk.String(),
			"elapsed_ms": elapsed.Milliseconds(),
		})
		return MsgUnavailable, domain.OutcomeProviderError
	}

	if strings.TrimSpace(text) == "" {
		r.logger.Warn("explanation response was empty", map[string]interface{}{
			"model": r.cfg.Model,
		})
		return MsgNoAnalysis, domain.OutcomeEmptyResponse
	}

	r.logger.Debug("explanation generated", map[string]interface{}{
		"model":      r.cfg.Model,
		"risk":       risk.String(),
		"chars":      len(text),
		"elapsed_ms": elapsed.Milliseconds(),
	})
	return text, domain.OutcomeOK
}

// prompt includes the score breakdown only when it agrees with risk.
func (r *Requester) prompt(metrics domain.HealthMetrics, risk domain.RiskLevel) (string, error) {
	assessment := scoring.Evaluate(metrics)
	if assessment.Risk != risk {
		r.logger.Debug("supplied risk differs from scored risk", map[string]interface{}{
			"supplied": risk.String(),
			"scored":   assessment.Risk.String(),
		})
		return BuildLabelPrompt(metrics, risk)
	}
	return BuildPrompt(metrics, assessment, scoring.MaxScore)
}

// generate calls the generator, turning a panic in the adapter into an error.
func (r *Requester) generate(ctx context.Context, prompt string) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("generator panic: %v", rec)
		}
	}()
	return r.generator.Generate(ctx, prompt)
}

var _ ports.Explainer = (*Requester)(nil)
