package doctor

import (
	"context"
	"errors"
	"testing"

	"github.com/doeshing/diarisk/internal/domain"
	"github.com/doeshing/diarisk/internal/ports"
)

type stubConfigProvider struct {
	cfg domain.Config
	err error
}

func (s stubConfigProvider) Load(context.Context) (domain.Config, error) {
	return s.cfg, s.err
}

type stubFactory struct {
	err   error
	calls int
}

func (f *stubFactory) ForModel(domain.ModelDefinition, string) (ports.Generator, error) {
	f.calls++
	return nil, f.err
}

func baseConfig() domain.Config {
	return domain.Config{
		ConfigFormatVersion: "1",
		Path:                "/tmp/config.yaml",
		Model: domain.ModelDefinition{
			Name:     domain.DefaultModelName,
			Endpoint: domain.DefaultModelEndpoint,
			ModelID:  domain.DefaultModelID,
		},
		Credential:       "key",
		CredentialSource: domain.DefaultAuthEnvVar,
	}
}

func statusOf(report domain.HealthReport, name string) domain.HealthStatus {
	for _, check := range report.Checks {
		if check.Name == name {
			return check.Status
		}
	}
	return ""
}

func TestRunHealthy(t *testing.T) {
	factory := &stubFactory{}
	svc := &Service{ConfigProvider: stubConfigProvider{cfg: baseConfig()}, GeneratorFactory: factory}

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !report.Healthy() {
		t.Fatalf("report unhealthy: %+v", report.Checks)
	}
	for _, name := range []string{"Config file", "Config values", "API key", "Endpoint", "Generator"} {
		if got := statusOf(report, name); got != domain.HealthOK {
			t.Errorf("%s = %q, want ok", name, got)
		}
	}
	if factory.calls != 1 {
		t.Errorf("factory calls = %d", factory.calls)
	}
}

func TestRunMissingCredentialWarns(t *testing.T) {
	cfg := baseConfig()
	cfg.Credential = ""
	factory := &stubFactory{}
	svc := &Service{ConfigProvider: stubConfigProvider{cfg: cfg}, GeneratorFactory: factory}

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got := statusOf(report, "API key"); got != domain.HealthWarn {
		t.Errorf("API key = %q, want warn", got)
	}
	if factory.calls != 0 {
		t.Errorf("factory must not be called without a credential")
	}
	if !report.Healthy() {
		t.Error("a missing credential is a warning, not a failure")
	}
}

func TestRunInvalidConfig(t *testing.T) {
	cfg := baseConfig()
	cfg.Model.Endpoint = "not a url"
	svc := &Service{ConfigProvider: stubConfigProvider{cfg: cfg}}

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if report.Healthy() {
		t.Fatal("expected failure")
	}
	if got := statusOf(report, "Endpoint"); got != domain.HealthError {
		t.Errorf("Endpoint = %q", got)
	}
}

func TestRunGeneratorFactoryFailure(t *testing.T) {
	svc := &Service{
		ConfigProvider:   stubConfigProvider{cfg: baseConfig()},
		GeneratorFactory: &stubFactory{err: errors.New("boom")},
	}
	report, _ := svc.Run(context.Background())
	if got := statusOf(report, "Generator"); got != domain.HealthError {
		t.Errorf("Generator = %q", got)
	}
}

func TestRunLoadError(t *testing.T) {
	svc := &Service{ConfigProvider: stubConfigProvider{err: errors.New("denied")}}
	report, err := svc.Run(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if report.Healthy() {
		t.Error("expected failing report")
	}
}
