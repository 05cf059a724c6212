// Package server exposes the risk form and the JSON API over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/doeshing/diarisk/assets"
	"github.com/doeshing/diarisk/internal/application/scoring"
	"github.com/doeshing/diarisk/internal/domain"
	"github.com/doeshing/diarisk/internal/ports"
)

// MsgInProgress is shown when a prediction is submitted while another runs.
const MsgInProgress = "A request is already in progress. Please wait for it to finish."

const shutdownTimeout = 5 * time.Second

// Predictor is the pipeline the server drives.
type Predictor interface {
	Assess(metrics domain.HealthMetrics) domain.Assessment
	Predict(ctx context.Context, metrics domain.HealthMetrics) (domain.PredictionResult, error)
}

// Options configures the server.
type Options struct {
	Addr           string
	AllowedOrigins []string
	MaxBodyBytes   int64
	Mode           string
	// RequestTimeout bounds a single prediction, explanation included.
	RequestTimeout time.Duration
	// CredentialName is reported by /readyz; Ready is false when the
	// credential is missing.
	CredentialName string
	Ready          bool
	// ModelID is named in downloaded reports.
	ModelID string
}

// Server owns the gin engine and the in-flight guard.
type Server struct {
	opts      Options
	predictor Predictor
	logger    ports.Logger
	guard     *InFlight
	engine    *gin.Engine
}

// New builds the router.
func New(predictor Predictor, logger ports.Logger, opts Options) (*Server, error) {
	if predictor == nil || logger == nil {
		return nil, errors.New("server dependencies not satisfied")
	}
	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = domain.DefaultMaxBodyBytes
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	tmpl, err := template.New("page").Funcs(template.FuncMap{
		"formatNumber": formatNumber,
		"markdown":     renderMarkdown,
	}).Parse(assets.IndexTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse form template: %w", err)
	}

	s := &Server{
		opts:      opts,
		predictor: predictor,
		logger:    logger,
		guard:     &InFlight{},
	}
	s.engine = s.setupRouter(tmpl)
	return s, nil
}

func (s *Server) setupRouter(tmpl *template.Template) *gin.Engine {
	router := gin.New()
	router.Use(
		requestLogger(s.logger),
		gin.Recovery(),
		limitBodySize(s.opts.MaxBodyBytes),
		cors.New(cors.Config{
			AllowOrigins: s.opts.AllowedOrigins,
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type"},
			MaxAge:       12 * time.Hour,
		}),
	)
	router.SetHTMLTemplate(tmpl)

	router.GET("/", s.handleForm)
	router.POST("/", s.handleFormSubmit)
	router.POST("/report", s.handleFormReport)

	api := router.Group("/api")
	api.POST("/score", s.handleScore)
	api.POST("/predict", s.handlePredict)
	api.POST("/report", s.handleReport)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/readyz", s.handleReady)

	return router
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Guard exposes the in-flight flag.
func (s *Server) Guard() *InFlight {
	return s.guard
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	addr := s.opts.Addr
	if addr == "" {
		addr = domain.DefaultServerAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("server listening", map[string]interface{}{"addr": addr})

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

func (s *Server) page(metrics domain.HealthMetrics) pageData {
	return pageData{Fields: fieldViews(metrics), MaxScore: scoring.MaxScore}
}

func (s *Server) predictContext(parent context.Context) (context.Context, context.CancelFunc) {
	if s.opts.RequestTimeout > 0 {
		return context.WithTimeout(parent, s.opts.RequestTimeout)
	}
	return context.WithCancel(parent)
}
