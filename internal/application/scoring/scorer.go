// Package scoring maps a health metrics record to a diabetes risk level by
// additive, thresholded point accumulation.
//
// The thresholds and weights are heuristic and fixed. They are not sourced from
// a validated clinical model and must be reproduced exactly.
package scoring

import "github.com/doeshing/diarisk/internal/domain"

// Bucket boundaries on the accumulated score.
const (
	HighThreshold   = 5
	MediumThreshold = 3
	MaxScore        = 10
)

// Tier awards Points when the metric is strictly greater than Above.
type Tier struct {
	Above  float64
	Points int
}

// RuleGroup is an ordered list of tiers for one metric. Tiers are evaluated
// top to bottom and only the first match contributes, so a group adds the
// points of at most one tier.
type RuleGroup struct {
	Field domain.MetricField
	Tiers []Tier
}

// Rules is the fixed scoring table.
var Rules = []RuleGroup{
	{Field: domain.FieldGlucose, Tiers: []Tier{{Above: 140, Points: 3}, {Above: 125, Points: 2}}},
	{Field: domain.FieldBMI, Tiers: []Tier{{Above: 30, Points: 2}, {Above: 25, Points: 1}}},
	{Field: domain.FieldAge, Tiers: []Tier{{Above: 50, Points: 2}, {Above: 40, Points: 1}}},
	{Field: domain.FieldBloodPressure, Tiers: []Tier{{Above: 90, Points: 1}}},
	{Field: domain.FieldPregnancies, Tiers: []Tier{{Above: 3, Points: 1}}},
	{Field: domain.FieldDiabetesPedigreeFunction, Tiers: []Tier{{Above: 0.5, Points: 1}}},
}

// Score returns the risk level for m. It is pure and total.
func Score(m domain.HealthMetrics) domain.RiskLevel {
	return Evaluate(m).Risk
}

// Evaluate returns the risk level together with the score and the rule groups
// that contributed to it.
func Evaluate(m domain.HealthMetrics) domain.Assessment {
	score := 0
	factors := []domain.RiskFactor{}

	for _, group := range Rules {
		value := m.Value(group.Field)
		tier, ok := group.match(value)
		if !ok {
			continue
		}
		score += tier.Points
		factors = append(factors, domain.RiskFactor{
			Field:     group.Field,
			Label:     label(group.Field),
			Value:     value,
			Threshold: tier.Above,
			Points:    tier.Points,
		})
	}

	return domain.Assessment{
		Risk:    Bucket(score),
		Score:   score,
		Factors: factors,
	}
}

// Bucket maps an accumulated score to a risk level.
func Bucket(score int) domain.RiskLevel {
	switch {
	case score >= HighThreshold:
		return domain.RiskHigh
	case score >= MediumThreshold:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

// Points returns the points group contributes for value.
func (g RuleGroup) Points(value float64) int {
	if tier, ok := g.match(value); ok {
		return tier.Points
	}
	return 0
}

func (g RuleGroup) match(value float64) (Tier, bool) {
	for _, tier := range g.Tiers {
		if value > tier.Above {
			return tier, true
		}
	}
	return Tier{}, false
}

func label(field domain.MetricField) string {
	if spec, ok := domain.Spec(field); ok {
		return spec.Label
	}
	return string(field)
}
