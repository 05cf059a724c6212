package explain

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/doeshing/diarisk/internal/domain"
)

// Sections the remote model is asked to produce, in order.
var Sections = []string{
	"Introduction",
	"Analysis of provided metrics",
	"Wellness recommendations",
	"Conclusion",
}

const promptTemplate = `You are a helpful AI assistant providing information about diabetes risk factors.
A user has entered their health data and received a diabetes risk assessment.
Your task is to give a clear, concise and encouraging explanation of the result.

**Important Rules:**
1. **DO NOT** provide a medical diagnosis and **DO NOT** prescribe any treatment or medication.
2. **ALWAYS** include a disclaimer that strongly recommends consulting a qualified healthcare professional before acting on this information or making lifestyle changes.
3. Explain which of the provided metrics contributed most to the risk level.
4. Offer only general, well-known wellness tips about diet, exercise and stress management.
5. Keep the tone positive and supportive.

**Formatting:**
- Respond in Markdown with exactly these sections, in this order, each as a "##" heading:
{{- range $i, $s := .Sections}}
  {{inc $i}}. {{$s}}
{{- end}}
- Use hyphen-prefixed bullet points ("- ") for every list.
- Use **bold** text for key terms.

**User's Data:**
{{- range .Metrics}}
- {{.Label}}: {{.Value}}{{if .Unit}} {{.Unit}}{{end}}
{{- end}}

{{- if .Scored}}

**Contributing Factors:**
{{- if .Factors}}
{{- range .Factors}}
- {{.Label}} above {{.Threshold}} (+{{.Points}} points)
{{- end}}
{{- else}}
- None of the scored thresholds were exceeded.
{{- end}}
{{- end}}

**Prediction Result:** {{.Risk}} Risk{{if .Scored}} (score {{.Score}} of {{.MaxScore}}){{end}}

Now, please generate the explanation and wellness tips based on this information.`

var promptTmpl = template.Must(template.New("prompt").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(promptTemplate))

type promptMetric struct {
	Label string
	Value string
	Unit  string
}

type promptFactor struct {
	Label     string
	Threshold string
	Points    int
}

type promptData struct {
	Sections []string
	Metrics  []promptMetric
	Factors  []promptFactor
	Scored   bool
	Risk     domain.RiskLevel
	Score    int
	MaxScore int
}

// promptOrder lists the metrics the way the prompt presents them.
var promptOrder = []domain.MetricField{
	domain.FieldPregnancies,
	domain.FieldGlucose,
	domain.FieldBloodPressure,
	domain.FieldSkinThickness,
	domain.FieldInsulin,
	domain.FieldBMI,
	domain.FieldDiabetesPedigreeFunction,
	domain.FieldAge,
}

// BuildPrompt renders the prompt for metrics and assessment. Score, factors
// and label all come from the one assessment.
func BuildPrompt(metrics domain.HealthMetrics, assessment domain.Assessment, maxScore int) (string, error) {
	data := promptData{
		Sections: Sections,
		Scored:   true,
		Risk:     assessment.Risk,
		Score:    assessment.Score,
		MaxScore: maxScore,
	}
	for _, factor := range assessment.Factors {
		data.Factors = append(data.Factors, promptFactor{
			Label:     factor.Label,
			Threshold: formatNumber(factor.Threshold),
			Points:    factor.Points,
		})
	}
	return renderPrompt(metrics, data)
}

// BuildLabelPrompt renders the prompt for a risk level that was not derived
// from metrics. No score or factors are included.
func BuildLabelPrompt(metrics domain.HealthMetrics, risk domain.RiskLevel) (string, error) {
	return renderPrompt(metrics, promptData{Sections: Sections, Risk: risk})
}

func renderPrompt(metrics domain.HealthMetrics, data promptData) (string, error) {
	for _, field := range promptOrder {
		spec, _ := domain.Spec(field)
		data.Metrics = append(data.Metrics, promptMetric{
			Label: promptLabel(field, spec),
			Value: formatNumber(metrics.Value(field)),
			Unit:  spec.Unit,
		})
	}

	var buf bytes.Buffer
	if err := promptTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func promptLabel(field domain.MetricField, spec domain.FieldSpec) string {
	if field == domain.FieldDiabetesPedigreeFunction {
		return "Diabetes Pedigree Function"
	}
	return spec.Label
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
