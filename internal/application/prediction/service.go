// Package prediction runs the full pipeline for one metrics record:
// score, explain, compare.
package prediction

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/diarisk/internal/application/scoring"
	"github.com/doeshing/diarisk/internal/domain"
	"github.com/doeshing/diarisk/internal/ports"
)

// Service orchestrates the prediction lifecycle end-to-end.
type Service struct {
	Explainer ports.Explainer
	Recorder  ports.Recorder
	Logger    ports.Logger

	// Now and NewID default to time.Now and uuid.NewString.
	Now   func() time.Time
	NewID func() string
}

// Assess scores metrics without requesting an explanation.
func (s *Service) Assess(metrics domain.HealthMetrics) domain.Assessment {
	return scoring.Evaluate(metrics)
}

// Predict scores metrics, requests the explanation and attaches the
// population comparison. The explanation is always populated; provider
// failures surface only through Outcome.
func (s *Service) Predict(ctx context.Context, metrics domain.HealthMetrics) (domain.PredictionResult, error) {
	if s.Explainer == nil || s.Logger == nil {
		return domain.PredictionResult{}, errors.New("prediction.Service dependencies not satisfied")
	}

	assessment := scoring.Evaluate(metrics)
	s.Logger.Info("risk scored", map[string]interface{}{
		"risk":    assessment.Risk.String(),
		"score":   assessment.Score,
		"factors": len(assessment.Factors),
	})

	start := time.Now()
	explanation, outcome := s.Explainer.ExplainDetailed(ctx, metrics, assessment.Risk)
	elapsed := time.Since(start)

	if s.Recorder != nil {
		s.Recorder.RecordPrediction(ctx, assessment.Risk)
		s.Recorder.RecordExplanation(ctx, outcome, elapsed)
	}

	result := domain.PredictionResult{
		ID:          s.newID(),
		Risk:        assessment.Risk,
		Score:       assessment.Score,
		Factors:     assessment.Factors,
		Explanation: explanation,
		Outcome:     outcome,
		Comparison:  domain.Compare(metrics),
		Metrics:     metrics,
		CreatedAt:   s.now(),
	}

	s.Logger.Info("prediction completed", map[string]interface{}{
		"id":         result.ID,
		"risk":       result.Risk.String(),
		"outcome":    string(outcome),
		"elapsed_ms": elapsed.Milliseconds(),
	})
	return result, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}
