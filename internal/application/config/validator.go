package config

import (
	"fmt"
	"strings"

	"github.com/doeshing/diarisk/internal/domain"
)

// Result separates problems that make the config unusable from ones that
// only degrade it (e.g. explanations falling back to the configuration message).
type Result struct {
	Errors   []error
	Warnings []string
}

// OK reports whether no errors were found.
func (r Result) OK() bool {
	return len(r.Errors) == 0
}

// Validate ensures config structure is consistent.
func Validate(cfg domain.Config) Result {
	var result Result
	if err := cfg.ValidateConsistency(); err != nil {
		result.Errors = append(result.Errors, err)
	}
	if err := validateServer(cfg.Server); err != nil {
		result.Errors = append(result.Errors, err)
	}
	if err := validateLogging(cfg.Logging); err != nil {
		result.Errors = append(result.Errors, err)
	}
	if !cfg.HasCredential() {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%s is not set; explanations will return a configuration message", cfg.GetCredentialName()))
	}
	if cfg.Model.TimeoutSeconds < 0 {
		result.Warnings = append(result.Warnings, "model.timeout_seconds is negative; the default is used")
	}
	return result
}

func validateServer(server domain.ServerSettings) error {
	switch strings.ToLower(server.Mode) {
	case "", "release", "debug", "test":
	default:
		return fmt.Errorf("server.mode must be release|debug|test, got %s", server.Mode)
	}
	if server.MaxBodyBytes < 0 {
		return fmt.Errorf("server.max_body_bytes must be >= 0")
	}
	return nil
}

func validateLogging(logging domain.LoggingSettings) error {
	switch strings.ToLower(logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug|info|warn|error, got %s", logging.Level)
	}
	switch strings.ToLower(logging.Encoding) {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.encoding must be console|json, got %s", logging.Encoding)
	}
	return nil
}
