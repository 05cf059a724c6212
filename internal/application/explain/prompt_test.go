package explain

import (
	"strings"
	"testing"

	"github.com/doeshing/diarisk/internal/application/scoring"
	"github.com/doeshing/diarisk/internal/domain"
)

func TestBuildPromptEmbedsEveryMetric(t *testing.T) {
	metrics := domain.HealthMetrics{
		Pregnancies:              2,
		Glucose:                  148,
		BloodPressure:            72,
		SkinThickness:            35,
		Insulin:                  94,
		BMI:                      33.6,
		DiabetesPedigreeFunction: 0.627,
		Age:                      50,
	}
	assessment := scoring.Evaluate(metrics)

	prompt, err := BuildPrompt(metrics, assessment, scoring.MaxScore)
	if err != nil {
		t.Fatalf("BuildPrompt() error = %v", err)
	}

	wants := []string{
		"- Pregnancies: 2",
		"- Glucose: 148 mg/dL",
		"- Blood Pressure: 72 mm Hg",
		"- Skin Thickness: 35 mm",
		"- Insulin: 94 mu U/ml",
		"- BMI: 33.6 kg/m²",
		"- Diabetes Pedigree Function: 0.627",
		"- Age: 50 years",
		"**Prediction Result:** High Risk",
	}
	for _, want := range wants {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q\n%s", want, prompt)
		}
	}
}

func TestBuildPromptInstructions(t *testing.T) {
	prompt, err := BuildPrompt(domain.HealthMetrics{}, scoring.Evaluate(domain.HealthMetrics{}), scoring.MaxScore)
	if err != nil {
		t.Fatalf("BuildPrompt() error = %v", err)
	}

	for _, want := range []string{
		"DO NOT** provide a medical diagnosis",
		"prescribe any treatment",
		"consulting a qualified healthcare professional",
		"Markdown",
		`hyphen-prefixed bullet points`,
		"**bold**",
		"None of the scored thresholds were exceeded.",
		"Low Risk",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	last := -1
	for i, section := range Sections {
		idx := strings.Index(prompt, section)
		if idx < 0 {
			t.Fatalf("section %q missing", section)
		}
		if idx < last {
			t.Errorf("section %d (%q) out of order", i, section)
		}
		last = idx
	}
}

func TestBuildPromptListsFactors(t *testing.T) {
	metrics := domain.HealthMetrics{Glucose: 130, BloodPressure: 95}
	prompt, err := BuildPrompt(metrics, scoring.Evaluate(metrics), scoring.MaxScore)
	if err != nil {
		t.Fatalf("BuildPrompt() error = %v", err)
	}
	if !strings.Contains(prompt, "- Glucose above 125 (+2 points)") {
		t.Errorf("glucose factor missing:\n%s", prompt)
	}
	if !strings.Contains(prompt, "- Blood Pressure above 90 (+1 points)") {
		t.Errorf("blood pressure factor missing:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Medium Risk (score 3 of 10)") {
		t.Errorf("risk line missing:\n%s", prompt)
	}
}

func TestBuildLabelPromptOmitsScore(t *testing.T) {
	prompt, err := BuildLabelPrompt(domain.HealthMetrics{Glucose: 90}, domain.RiskMedium)
	if err != nil {
		t.Fatalf("BuildLabelPrompt() error = %v", err)
	}
	if !strings.HasSuffix(strings.TrimSpace(strings.Split(prompt, "\n\nNow,")[0]), "**Prediction Result:** Medium Risk") {
		t.Errorf("result line should carry the label only:\n%s", prompt)
	}
	if strings.Contains(prompt, "Contributing Factors") {
		t.Errorf("factors section should be omitted:\n%s", prompt)
	}
	if !strings.Contains(prompt, "- Glucose: 90 mg/dL") {
		t.Errorf("metric data missing:\n%s", prompt)
	}
}
