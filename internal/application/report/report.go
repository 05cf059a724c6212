// Package report renders a downloadable LaTeX report of one assessment:
// the submitted metrics, the scoring method, the risk classification, the
// explanation text and a disclaimer.
package report

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/doeshing/diarisk/internal/application/scoring"
	"github.com/doeshing/diarisk/internal/domain"
)

// Download metadata.
const (
	FileName    = "diabetes_risk_report.tex"
	ContentType = "application/x-latex; charset=utf-8"
)

// MsgNoExplanation fills the explanation chapter when none was supplied.
const MsgNoExplanation = "No explanation is available for this assessment."

// Report is the input of one rendered document.
type Report struct {
	Metrics     domain.HealthMetrics
	Assessment  domain.Assessment
	Explanation string
	Model       string
	GeneratedAt time.Time
}

// FromPrediction builds a Report from a finished prediction.
func FromPrediction(result domain.PredictionResult, model string) Report {
	return Report{
		Metrics: result.Metrics,
		Assessment: domain.Assessment{
			Risk:    result.Risk,
			Score:   result.Score,
			Factors: result.Factors,
		},
		Explanation: result.Explanation,
		Model:       model,
		GeneratedAt: result.CreatedAt,
	}
}

// FromExplanation scores metrics and pairs them with an explanation that was
// produced earlier.
func FromExplanation(metrics domain.HealthMetrics, explanation, model string, now time.Time) Report {
	return Report{
		Metrics:     metrics,
		Assessment:  scoring.Evaluate(metrics),
		Explanation: explanation,
		Model:       model,
		GeneratedAt: now,
	}
}

type metricRow struct {
	Label string
	Value string
}

type factorRow struct {
	Label     string
	Value     string
	Threshold string
	Points    int
}

type documentData struct {
	Date        string
	Risk        string
	Score       int
	MaxScore    int
	Metrics     []metricRow
	Factors     []factorRow
	Model       string
	Explanation string
}

// WriteLaTeX renders the document to w.
func (r Report) WriteLaTeX(w io.Writer) error {
	var buf bytes.Buffer
	if err := documentTmpl.Execute(&buf, r.data()); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// Bytes renders the document into memory.
func (r Report) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := r.WriteLaTeX(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r Report) data() documentData {
	generated := r.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}
	data := documentData{
		Date:     generated.Format("January 2, 2006"),
		Risk:     r.Assessment.Risk.String(),
		Score:    r.Assessment.Score,
		MaxScore: scoring.MaxScore,
		Model:    r.Model,
	}
	for _, field := range tableOrder {
		spec, _ := domain.Spec(field)
		value := formatNumber(r.Metrics.Value(field))
		if spec.Unit != "" {
			value += " " + spec.Unit
		}
		data.Metrics = append(data.Metrics, metricRow{Label: tableLabel(field, spec), Value: value})
	}
	for _, factor := range r.Assessment.Factors {
		data.Factors = append(data.Factors, factorRow{
			Label:     factor.Label,
			Value:     formatNumber(factor.Value),
			Threshold: formatNumber(factor.Threshold),
			Points:    factor.Points,
		})
	}

	explanation := strings.TrimSpace(r.Explanation)
	if explanation == "" {
		explanation = MsgNoExplanation
	}
	data.Explanation = MarkdownToLaTeX(explanation)
	return data
}

var tableOrder = []domain.MetricField{
	domain.FieldPregnancies,
	domain.FieldGlucose,
	domain.FieldBloodPressure,
	domain.FieldSkinThickness,
	domain.FieldInsulin,
	domain.FieldBMI,
	domain.FieldDiabetesPedigreeFunction,
	domain.FieldAge,
}

func tableLabel(field domain.MetricField, spec domain.FieldSpec) string {
	switch field {
	case domain.FieldBMI:
		return "BMI (Body Mass Index)"
	case domain.FieldDiabetesPedigreeFunction:
		return "Diabetes Pedigree Function"
	}
	return spec.Label
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// The document uses [[ ]] delimiters so LaTeX braces pass through untouched.
var documentTmpl = template.Must(template.New("report").
	Delims("[[", "]]").
	Funcs(template.FuncMap{"tex": EscapeTeX}).
	Parse(documentTemplate))

const documentTemplate = `\documentclass[12pt, a4paper]{report}
\usepackage[utf8]{inputenc}
\usepackage{geometry}
\geometry{a4paper, margin=1in}
\usepackage{hyperref}
\usepackage{times}
\usepackage{setspace}
\onehalfspacing
\usepackage{array}

\hypersetup{
    colorlinks=true,
    linkcolor=blue,
    urlcolor=cyan,
    pdftitle={Diabetes Risk Assessment Report},
}

\title{
    \vspace*{\fill}
    {\Huge\bfseries Diabetes Risk Assessment Report}
    \vspace{0.5cm}
    \hrule
    \vspace{0.5cm}
    {\Large Generated by diarisk}
    \vspace*{\fill}
}
\author{}
\date{Report generated on: [[tex .Date]]}

\begin{document}

\begin{titlepage}
    \maketitle
    \thispagestyle{empty}
\end{titlepage}

\tableofcontents
\newpage

\chapter*{Abstract}
\addcontentsline{toc}{chapter}{Abstract}
Based on the provided health metrics, the calculated diabetes risk is \textbf{[[tex .Risk]]}. This report lists the contributing factors, includes a general explanation with wellness recommendations, and describes the method used for this preliminary assessment. It is for informational purposes only and does not constitute medical advice. A consultation with a qualified healthcare professional is strongly recommended.

\chapter{Assessment Details}

\section{Provided Health Metrics}
The following data was used for this assessment:
\begin{center}
\begin{tabular}{l >{\bfseries}l}
    \hline
    Metric & Value \\
    \hline
[[- range .Metrics]]
    [[tex .Label]] & [[tex .Value]] \\
[[- end]]
    \hline
\end{tabular}
\end{center}

\section{Methodology}
The risk category comes from a rule-based score. Glucose, BMI, Age, Blood Pressure, Pregnancies and the Diabetes Pedigree Function each add points when they exceed fixed thresholds; only the highest tier reached by each metric counts. A score of 5 or more is High, 3 or 4 is Medium, and anything lower is Low. The maximum score is [[.MaxScore]].

The explanation in the following chapter was written by a generative language model[[if .Model]] ([[tex .Model]])[[end]] from the same data. It is general information, not an individual assessment.

\section{Risk Classification}
The total score is [[.Score]] of [[.MaxScore]].
[[- if .Factors]]
\begin{itemize}
[[- range .Factors]]
    \item [[tex .Label]] [[tex .Value]] is above [[tex .Threshold]] (+[[.Points]])
[[- end]]
\end{itemize}
[[- else]] None of the scored thresholds were exceeded.
[[- end]]

The estimated risk level is:
\begin{center}
    {\Huge\bfseries [[tex .Risk]]}
\end{center}

\chapter{Explanation}
[[.Explanation]]

\chapter*{Disclaimer}
\addcontentsline{toc}{chapter}{Disclaimer}
This report is generated by an automated system and is for informational purposes only. It is not a substitute for professional medical advice, diagnosis, or treatment. The risk assessment is based on a simplified model and the provided data. Always seek the advice of your physician or other qualified health provider with any questions you may have regarding a medical condition. Do not disregard professional medical advice or delay in seeking it because of something you have read in this report.

\end{document}
`
