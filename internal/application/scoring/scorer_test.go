package scoring

import (
	"testing"

	"github.com/doeshing/diarisk/internal/domain"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name    string
		metrics domain.HealthMetrics
		want    domain.RiskLevel
	}{
		{
			name:    "all zeros is low",
			metrics: domain.HealthMetrics{},
			want:    domain.RiskLow,
		},
		{
			name:    "glucose above 140 alone reaches medium",
			metrics: domain.HealthMetrics{Glucose: 141},
			want:    domain.RiskMedium,
		},
		{
			name: "every rule at its top tier is high",
			metrics: domain.HealthMetrics{
				Glucose: 141, BMI: 31, Age: 51, BloodPressure: 91,
				Pregnancies: 4, DiabetesPedigreeFunction: 0.6,
			},
			want: domain.RiskHigh,
		},
		{
			name:    "form defaults are low",
			metrics: domain.DefaultHealthMetrics(),
			want:    domain.RiskLow,
		},
		{
			name:    "score of four stays medium",
			metrics: domain.HealthMetrics{Glucose: 130, BMI: 28, Age: 45},
			want:    domain.RiskMedium,
		},
		{
			name:    "score of five is high",
			metrics: domain.HealthMetrics{Glucose: 141, BMI: 31},
			want:    domain.RiskHigh,
		},
		{
			name:    "skin thickness and insulin never score",
			metrics: domain.HealthMetrics{SkinThickness: 99, Insulin: 846},
			want:    domain.RiskLow,
		},
		{
			name:    "negative values score low",
			metrics: domain.HealthMetrics{Glucose: -1, BMI: -30, Age: -50},
			want:    domain.RiskLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.metrics); got != tt.want {
				t.Errorf("Score() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestEvaluateMaxScore(t *testing.T) {
	got := Evaluate(domain.HealthMetrics{
		Glucose: 141, BMI: 31, Age: 51, BloodPressure: 91,
		Pregnancies: 4, DiabetesPedigreeFunction: 0.6,
	})
	if got.Score != MaxScore {
		t.Fatalf("Score = %d, want %d", got.Score, MaxScore)
	}
	if len(got.Factors) != len(Rules) {
		t.Fatalf("expected %d factors, got %d", len(Rules), len(got.Factors))
	}
}

func TestEvaluateAllZeros(t *testing.T) {
	got := Evaluate(domain.HealthMetrics{})
	if got.Score != 0 || got.Risk != domain.RiskLow || len(got.Factors) != 0 {
		t.Fatalf("unexpected assessment %+v", got)
	}
}

func TestGroupBoundaries(t *testing.T) {
	tests := []struct {
		field domain.MetricField
		value float64
		want  int
	}{
		{domain.FieldGlucose, 125, 0},
		{domain.FieldGlucose, 126, 2},
		{domain.FieldGlucose, 140, 2},
		{domain.FieldGlucose, 141, 3},
		{domain.FieldGlucose, 140.0001, 3},
		{domain.FieldBMI, 25, 0},
		{domain.FieldBMI, 25.1, 1},
		{domain.FieldBMI, 30, 1},
		{domain.FieldBMI, 30.1, 2},
		{domain.FieldAge, 40, 0},
		{domain.FieldAge, 41, 1},
		{domain.FieldAge, 50, 1},
		{domain.FieldAge, 51, 2},
		{domain.FieldBloodPressure, 90, 0},
		{domain.FieldBloodPressure, 91, 1},
		{domain.FieldPregnancies, 3, 0},
		{domain.FieldPregnancies, 4, 1},
		{domain.FieldDiabetesPedigreeFunction, 0.5, 0},
		{domain.FieldDiabetesPedigreeFunction, 0.51, 1},
	}

	for _, tt := range tests {
		group := groupFor(t, tt.field)
		if got := group.Points(tt.value); got != tt.want {
			t.Errorf("%s=%v points = %d, want %d", tt.field, tt.value, got, tt.want)
		}
	}
}

func TestGroupsAreMutuallyExclusive(t *testing.T) {
	for _, group := range Rules {
		for _, tier := range group.Tiers {
			value := tier.Above + 1000
			if got := group.Points(value); got != group.Tiers[0].Points {
				t.Errorf("%s=%v contributed %d points, want only the top tier %d", group.Field, value, got, group.Tiers[0].Points)
			}
		}
	}
}

func TestEvaluateGlucoseFactor(t *testing.T) {
	got := Evaluate(domain.HealthMetrics{Glucose: 126})
	if got.Score != 2 {
		t.Fatalf("Score = %d, want 2", got.Score)
	}
	if got.Risk != domain.RiskLow {
		t.Fatalf("Risk = %s, want Low", got.Risk)
	}
	factor := got.Factors[0]
	if factor.Field != domain.FieldGlucose || factor.Threshold != 125 || factor.Points != 2 || factor.Label != "Glucose" {
		t.Fatalf("unexpected factor %+v", factor)
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	inputs := []domain.HealthMetrics{
		{},
		domain.DefaultHealthMetrics(),
		{Glucose: 141, BMI: 31, Age: 51},
		{Glucose: 126, BloodPressure: 95, Pregnancies: 6},
	}
	for _, in := range inputs {
		first := Evaluate(in)
		for i := 0; i < 50; i++ {
			again := Evaluate(in)
			if again.Risk != first.Risk || again.Score != first.Score {
				t.Fatalf("non-deterministic result for %+v: %+v vs %+v", in, first, again)
			}
		}
	}
}

func TestBucket(t *testing.T) {
	want := []domain.RiskLevel{
		domain.RiskLow, domain.RiskLow, domain.RiskLow,
		domain.RiskMedium, domain.RiskMedium,
		domain.RiskHigh, domain.RiskHigh, domain.RiskHigh, domain.RiskHigh, domain.RiskHigh, domain.RiskHigh,
	}
	for score, level := range want {
		if got := Bucket(score); got != level {
			t.Errorf("Bucket(%d) = %s, want %s", score, got, level)
		}
	}
}

func groupFor(t *testing.T, field domain.MetricField) RuleGroup {
	t.Helper()
	for _, group := range Rules {
		if group.Field == field {
			return group
		}
	}
	t.Fatalf("no rule group for %s", field)
	return RuleGroup{}
}
