// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and external
// adapters (infrastructure). The scoring and explanation services depend only on
// these interfaces, so the remote text-generation service, configuration storage
// and logging backend can be swapped or stubbed in tests.
//
// Key architectural concepts:
//   - Ports: Interfaces defined here (e.g., Generator, ConfigProvider)
//   - Adapters: Concrete implementations in the infrastructure layer
//   - Dependency inversion: Application depends on abstractions, not implementations
package ports

import (
	"context"
	"time"

	"github.com/doeshing/diarisk/internal/domain"
)

// ConfigProvider loads the latest configuration.
// Implementations typically read from ~/.diarisk/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// Generator is the remote text-generation service: prompt in, text out.
// A non-nil error is a provider failure; an empty string is a degenerate
// response and is not an error.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFactory builds a Generator for a model definition and an
// explicitly supplied credential.
type GeneratorFactory interface {
	ForModel(model domain.ModelDefinition, credential string) (Generator, error)
}

// Explainer turns metrics and a risk level into display text.
type Explainer interface {
	ExplainDetailed(ctx context.Context, metrics domain.HealthMetrics, risk domain.RiskLevel) (string, domain.ExplainOutcome)
}

// Recorder receives prediction telemetry.
type Recorder interface {
	RecordPrediction(ctx context.Context, risk domain.RiskLevel)
	RecordExplanation(ctx context.Context, outcome domain.ExplainOutcome, elapsed time.Duration)
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
