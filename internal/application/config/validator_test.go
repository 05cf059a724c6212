package config

import (
	"strings"
	"testing"

	"github.com/doeshing/diarisk/internal/domain"
)

func validConfig() domain.Config {
	return domain.Config{
		Model: domain.ModelDefinition{
			Endpoint: domain.DefaultModelEndpoint,
			ModelID:  domain.DefaultModelID,
		},
		Credential: "key",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*domain.Config)
		wantOK    bool
		wantWarn  string
		wantError string
	}{
		{name: "valid", mutate: func(*domain.Config) {}, wantOK: true},
		{name: "missing model id", mutate: func(c *domain.Config) { c.Model.ModelID = "" }, wantError: "model_id"},
		{name: "bad server mode", mutate: func(c *domain.Config) { c.Server.Mode = "prod" }, wantError: "server.mode"},
		{name: "bad log level", mutate: func(c *domain.Config) { c.Logging.Level = "trace" }, wantError: "logging.level"},
		{name: "bad encoding", mutate: func(c *domain.Config) { c.Logging.Encoding = "xml" }, wantError: "logging.encoding"},
		{name: "no credential", mutate: func(c *domain.Config) { c.Credential = "" }, wantOK: true, wantWarn: domain.DefaultAuthEnvVar},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			got := Validate(cfg)

			if got.OK() != tt.wantOK {
				t.Fatalf("OK() = %v, errors = %v", got.OK(), got.Errors)
			}
			if tt.wantError != "" && !strings.Contains(got.Errors[0].Error(), tt.wantError) {
				t.Errorf("error = %v, want mention of %q", got.Errors[0], tt.wantError)
			}
			if tt.wantWarn != "" {
				if len(got.Warnings) == 0 || !strings.Contains(got.Warnings[0], tt.wantWarn) {
					t.Errorf("warnings = %v, want mention of %q", got.Warnings, tt.wantWarn)
				}
			} else if len(got.Warnings) != 0 {
				t.Errorf("unexpected warnings: %v", got.Warnings)
			}
		})
	}
}
