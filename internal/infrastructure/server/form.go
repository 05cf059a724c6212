package server

import (
	"bytes"
	"html/template"
	"math"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/doeshing/diarisk/internal/domain"
)

// fieldView is one form input.
type fieldView struct {
	Name        string
	Label       string
	Unit        string
	Description string
	Placeholder string
	Value       string
}

type pageData struct {
	Fields   []fieldView
	Result   *domain.PredictionResult
	Notice   string
	MaxScore int
}

// parseMetric coerces a submitted value: blank, unparsable or non-finite input becomes 0.
func parseMetric(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// metricsFromForm reads every field through get, coercing as parseMetric does.
func metricsFromForm(get func(string) string) domain.HealthMetrics {
	var m domain.HealthMetrics
	for _, spec := range domain.FieldSpecs {
		m = m.Set(spec.Field, parseMetric(get(string(spec.Field))))
	}
	return m
}

func fieldViews(m domain.HealthMetrics) []fieldView {
	views := make([]fieldView, 0, len(domain.FieldSpecs))
	for _, spec := range domain.FieldSpecs {
		views = append(views, fieldView{
			Name:        string(spec.Field),
			Label:       spec.Label,
			Unit:        spec.Unit,
			Description: spec.Description,
			Placeholder: spec.Placeholder,
			Value:       formatNumber(m.Value(spec.Field)),
		})
	}
	return views
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// explanationMarkdown renders headings, emphasis and lists. Raw HTML in the
// source is omitted and unsafe link targets are dropped.
var explanationMarkdown = goldmark.New()

// renderMarkdown converts explanation text to HTML for the result page,
// falling back to escaped preformatted text.
func renderMarkdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := explanationMarkdown.Convert([]byte(src), &buf); err != nil {
		return template.HTML("<pre>" + template.HTMLEscapeString(src) + "</pre>")
	}
	return template.HTML(buf.String())
}
