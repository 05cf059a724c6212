package domain

import (
	"fmt"
	"strings"
	"time"
)

// RiskLevel is the three-valued output of the risk scorer.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// Rank orders levels Low < Medium < High. Unknown levels rank -1.
func (r RiskLevel) Rank() int {
	switch r {
	case RiskLow:
		return 0
	case RiskMedium:
		return 1
	case RiskHigh:
		return 2
	default:
		return -1
	}
}

// Valid reports whether r is one of the three levels.
func (r RiskLevel) Valid() bool {
	return r.Rank() >= 0
}

func (r RiskLevel) String() string {
	return string(r)
}

// ParseRiskLevel decodes a level name case-insensitively.
func ParseRiskLevel(s string) (RiskLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return RiskLow, nil
	case "medium":
		return RiskMedium, nil
	case "high":
		return RiskHigh, nil
	default:
		return "", fmt.Errorf("unknown risk level %q", s)
	}
}

// RiskFactor records one rule group that contributed points.
type RiskFactor struct {
	Field     MetricField `json:"field"`
	Label     string      `json:"label"`
	Value     float64     `json:"value"`
	Threshold float64     `json:"threshold"`
	Points    int         `json:"points"`
}

// Assessment is the scorer's breakdown for one metrics record.
type Assessment struct {
	Risk    RiskLevel    `json:"risk"`
	Score   int          `json:"score"`
	Factors []RiskFactor `json:"factors"`
}

// PredictionResult pairs a risk level with its explanation. Explanation is
// never empty; failed requests carry a fallback message.
type PredictionResult struct {
	ID          string            `json:"id"`
	Risk        RiskLevel         `json:"risk"`
	Score       int               `json:"score"`
	Factors     []RiskFactor      `json:"factors"`
	Explanation string            `json:"explanation"`
	Outcome     ExplainOutcome    `json:"outcome"`
	Comparison  []ComparisonPoint `json:"comparison"`
	Metrics     HealthMetrics     `json:"metrics"`
	CreatedAt   time.Time         `json:"created_at"`
}

// ExplainOutcome classifies how an explanation request resolved.
type ExplainOutcome string

const (
	OutcomeOK            ExplainOutcome = "ok"
	OutcomeConfigError   ExplainOutcome = "config_error"
	OutcomeProviderError ExplainOutcome = "provider_error"
	OutcomeEmptyResponse ExplainOutcome = "empty_response"
)
