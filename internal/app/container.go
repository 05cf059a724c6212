package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/doeshing/diarisk/internal/application/doctor"
	"github.com/doeshing/diarisk/internal/application/explain"
	"github.com/doeshing/diarisk/internal/application/prediction"
	"github.com/doeshing/diarisk/internal/domain"
	"github.com/doeshing/diarisk/internal/infrastructure/ai"
	"github.com/doeshing/diarisk/internal/infrastructure/config"
	"github.com/doeshing/diarisk/internal/infrastructure/telemetry"
	"github.com/doeshing/diarisk/internal/pkg/logger"
	"github.com/doeshing/diarisk/internal/ports"
)

// Options selects how the container is built.
type Options struct {
	// ConfigPath overrides ~/.diarisk/config.yaml and DIARISK_CONFIG.
	ConfigPath string
	// Verbose forces debug logging regardless of the config.
	Verbose bool
	// Generator replaces the HTTP adapter, for tests.
	Generator ports.Generator
}

// Container wires up application services with infrastructure adapters.
type Container struct {
	Config            domain.Config
	ConfigLoader      *config.FileLoader
	Logger            *logger.ZapLogger
	Explainer         *explain.Requester
	PredictionService *prediction.Service
	DoctorService     *doctor.Service
}

// BuildContainer constructs the dependency graph.
func BuildContainer(ctx context.Context, opts Options) (*Container, error) {
	cfgLoader := config.NewFileLoader(opts.ConfigPath)
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	level := cfg.Logging.Level
	if opts.Verbose {
		level = "debug"
	}
	log, err := logger.New(level, cfg.Logging.Encoding)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	factory := ai.NewFactory(&http.Client{Timeout: cfg.GetRequestTimeout()}).WithLogger(log)
	generator := opts.Generator
	if generator == nil && cfg.HasCredential() {
		generator, err = factory.ForModel(cfg.Model, cfg.Credential)
		if err != nil {
			return nil, fmt.Errorf("init generator: %w", err)
		}
	}

	requester := explain.NewRequester(explain.Config{
		Credential:     cfg.Credential,
		CredentialName: cfg.GetCredentialName(),
		Model:          cfg.Model.ModelID,
	}, generator, log)

	recorder, err := telemetry.NewRecorder(nil)
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	log.Debug("container ready", map[string]interface{}{
		"config":     cfg.Path,
		"model":      cfg.Model.ModelID,
		"credential": cfg.HasCredential(),
	})

	return &Container{
		Config:       cfg,
		ConfigLoader: cfgLoader,
		Logger:       log,
		Explainer:    requester,
		PredictionService: &prediction.Service{
			Explainer: requester,
			Recorder:  recorder,
			Logger:    log,
		},
		DoctorService: &doctor.Service{
			ConfigProvider:   cfgLoader,
			GeneratorFactory: factory,
		},
	}, nil
}

// Close flushes buffered log entries.
func (c *Container) Close() {
	if c.Logger != nil {
		_ = c.Logger.Sync()
	}
}
