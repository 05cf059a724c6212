package doctor

import (
	"context"
	"fmt"
	"net/url"

	appconfig "github.com/doeshing/diarisk/internal/application/config"
	"github.com/doeshing/diarisk/internal/domain"
	"github.com/doeshing/diarisk/internal/ports"
)

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider   ports.ConfigProvider
	GeneratorFactory ports.GeneratorFactory
}

// Run executes checks and returns a report.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	checks = append(checks, ok("Config file", fmt.Sprintf("loaded %s (format %s)", cfg.Path, cfg.ConfigFormatVersion)))

	result := appconfig.Validate(cfg)
	if result.OK() {
		checks = append(checks, ok("Config values", "consistent"))
	} else {
		for _, verr := range result.Errors {
			checks = append(checks, fail("Config values", verr.Error()))
		}
	}

	checks = append(checks, credentialCheck(cfg))
	checks = append(checks, endpointCheck(cfg.Model))

	if s.GeneratorFactory != nil && cfg.HasCredential() {
		if _, err := s.GeneratorFactory.ForModel(cfg.Model, cfg.Credential); err != nil {
			checks = append(checks, fail("Generator", err.Error()))
		} else {
			checks = append(checks, ok("Generator", fmt.Sprintf("%s (%s)", cfg.Model.Name, cfg.Model.APIFormat.GetRequestStyle())))
		}
	}

	return domain.HealthReport{Checks: checks}, nil
}

func credentialCheck(cfg domain.Config) domain.HealthCheck {
	if !cfg.HasCredential() {
		return warn("API key", fmt.Sprintf("%s missing; explanations will show a configuration message", cfg.GetCredentialName()))
	}
	return ok("API key", fmt.Sprintf("found in %s", cfg.GetCredentialName()))
}

func endpointCheck(model domain.ModelDefinition) domain.HealthCheck {
	endpoint := model.ResolvedEndpoint()
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return fail("Endpoint", fmt.Sprintf("invalid endpoint %q", endpoint))
	}
	if u.Scheme != "https" {
		return warn("Endpoint", fmt.Sprintf("%s is not https", u.Host))
	}
	return ok("Endpoint", fmt.Sprintf("%s model %s", u.Host, model.ModelID))
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
