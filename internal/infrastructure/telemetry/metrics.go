// Package telemetry records prediction metrics through the OpenTelemetry
// metric API. Without an SDK meter provider installed the instruments are no-ops.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/doeshing/diarisk/internal/domain"
	"github.com/doeshing/diarisk/internal/ports"
)

const meterName = "github.com/doeshing/diarisk"

// Instrument names.
const (
	PredictionsTotal    = "diarisk_predictions_total"
	ExplanationsTotal   = "diarisk_explanations_total"
	ExplanationDuration = "diarisk_explanation_duration_seconds"
)

// Recorder implements ports.Recorder.
type Recorder struct {
	predictions  metric.Int64Counter
	explanations metric.Int64Counter
	duration     metric.Float64Histogram
}

// NewRecorder builds instruments from provider, or from the global provider when nil.
func NewRecorder(provider metric.MeterProvider) (*Recorder, error) {
	if provider == nil {
		provider = otel.GetMeterProvider()
	}
	meter := provider.Meter(meterName)

	predictions, err := meter.Int64Counter(PredictionsTotal,
		metric.WithDescription("Risk predictions by level"))
	if err != nil {
		return nil, err
	}
	explanations, err := meter.Int64Counter(ExplanationsTotal,
		metric.WithDescription("Explanation requests by outcome"))
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram(ExplanationDuration,
		metric.WithDescription("Time spent waiting for the explanation"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	return &Recorder{predictions: predictions, explanations: explanations, duration: duration}, nil
}

// RecordPrediction counts one scored record.
func (r *Recorder) RecordPrediction(ctx context.Context, risk domain.RiskLevel) {
	r.predictions.Add(ctx, 1, metric.WithAttributes(attribute.String("risk", risk.String())))
}

// RecordExplanation counts one explanation request and its latency.
func (r *Recorder) RecordExplanation(ctx context.Context, outcome domain.ExplainOutcome, elapsed time.Duration) {
	attrs := metric.WithAttributes(attribute.String("outcome", string(outcome)))
	r.explanations.Add(ctx, 1, attrs)
	r.duration.Record(ctx, elapsed.Seconds(), attrs)
}

var _ ports.Recorder = (*Recorder)(nil)
