package domain_test

import (
	"testing"

	"github.com/doeshing/diarisk/internal/domain"
)

func TestRiskLevelOrdering(t *testing.T) {
	if !(domain.RiskLow.Rank() < domain.RiskMedium.Rank() && domain.RiskMedium.Rank() < domain.RiskHigh.Rank()) {
		t.Fatal("expected Low < Medium < High")
	}
	if domain.RiskLevel("Severe").Valid() {
		t.Fatal("unexpected valid level")
	}
}

func TestParseRiskLevel(t *testing.T) {
	tests := map[string]domain.RiskLevel{
		"low":     domain.RiskLow,
		"Medium":  domain.RiskMedium,
		" HIGH  ": domain.RiskHigh,
	}
	for input, want := range tests {
		got, err := domain.ParseRiskLevel(input)
		if err != nil {
			t.Fatalf("ParseRiskLevel(%q) error = %v", input, err)
		}
		if got != want {
			t.Errorf("ParseRiskLevel(%q) = %s, want %s", input, got, want)
		}
	}

	if _, err := domain.ParseRiskLevel("extreme"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestHealthMetricsSetDoesNotMutate(t *testing.T) {
	original := domain.DefaultHealthMetrics()
	updated := original.Set(domain.FieldGlucose, 150)

	if original.Glucose != 120 {
		t.Errorf("original mutated: %v", original.Glucose)
	}
	if updated.Value(domain.FieldGlucose) != 150 {
		t.Errorf("updated glucose = %v, want 150", updated.Glucose)
	}
}

func TestFieldSpecsCoverEveryMetric(t *testing.T) {
	if len(domain.FieldSpecs) != 8 {
		t.Fatalf("expected 8 field specs, got %d", len(domain.FieldSpecs))
	}
	seen := map[domain.MetricField]bool{}
	for _, spec := range domain.FieldSpecs {
		if seen[spec.Field] {
			t.Errorf("duplicate field %s", spec.Field)
		}
		seen[spec.Field] = true
	}
}

func TestCompare(t *testing.T) {
	metrics := domain.HealthMetrics{Glucose: 250, BMI: 33.5, Age: 0, DiabetesPedigreeFunction: 0.6}
	points := domain.Compare(metrics)

	if len(points) != 6 {
		t.Fatalf("expected 6 comparison points, got %d", len(points))
	}

	byField := map[domain.MetricField]domain.ComparisonPoint{}
	for _, p := range points {
		byField[p.Field] = p
	}

	if got := byField[domain.FieldGlucose].UserPercent; got != 100 {
		t.Errorf("glucose percent = %d, want capped 100", got)
	}
	if got := byField[domain.FieldGlucose].LowRiskPercent; got != 50 {
		t.Errorf("glucose low-risk percent = %d, want 50", got)
	}
	if got := byField[domain.FieldBMI].UserPercent; got != 50 {
		t.Errorf("bmi percent = %d, want 50", got)
	}
	if got := byField[domain.FieldAge].UserPercent; got != 0 {
		t.Errorf("age percent = %d, want 0", got)
	}
	if got := byField[domain.FieldDiabetesPedigreeFunction].UserPercent; got != 25 {
		t.Errorf("pedigree percent = %d, want 25", got)
	}
}

func TestHealthReportHealthy(t *testing.T) {
	report := domain.HealthReport{Checks: []domain.HealthCheck{{Status: domain.HealthOK}, {Status: domain.HealthWarn}}}
	if !report.Healthy() {
		t.Error("warnings should not make the report unhealthy")
	}
	report.Checks = append(report.Checks, domain.HealthCheck{Status: domain.HealthError})
	if report.Healthy() {
		t.Error("expected unhealthy report")
	}
}
