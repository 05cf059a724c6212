package domain

import "math"

// ComparisonPoint places one metric next to population averages, both raw
// and normalized to 0-100 against the dataset maximum.
type ComparisonPoint struct {
	Subject           string      `json:"subject"`
	Field             MetricField `json:"field"`
	Unit              string      `json:"unit"`
	Description       string      `json:"description"`
	User              float64     `json:"user"`
	LowRiskAverage    float64     `json:"low_risk_average"`
	HighRiskAverage   float64     `json:"high_risk_average"`
	UserPercent       int         `json:"user_percent"`
	LowRiskPercent    int         `json:"low_risk_percent"`
	HighRiskPercent   int         `json:"high_risk_percent"`
	NormalizationBase float64     `json:"normalization_base"`
}

type comparisonAxis struct {
	subject     string
	field       MetricField
	unit        string
	description string
	lowRisk     float64
	highRisk    float64
	max         float64
}

// Averages and maxima come from the Pima Indians diabetes dataset.
var comparisonAxes = []comparisonAxis{
	{subject: "Glucose", field: FieldGlucose, unit: "mg/dL", description: "Blood sugar level", lowRisk: 100, highRisk: 145, max: 200},
	{subject: "BMI", field: FieldBMI, unit: "kg/m²", description: "Body Mass Index", lowRisk: 28, highRisk: 34, max: 67},
	{subject: "Age", field: FieldAge, unit: "yrs", description: "Age in years", lowRisk: 28, highRisk: 45, max: 81},
	{subject: "Pregnancies", field: FieldPregnancies, unit: "", description: "Number of pregnancies", lowRisk: 2, highRisk: 5, max: 17},
	{subject: "BP", field: FieldBloodPressure, unit: "mm Hg", description: "Blood Pressure", lowRisk: 68, highRisk: 75, max: 122},
	{subject: "Pedigree", field: FieldDiabetesPedigreeFunction, unit: "", description: "Diabetes Pedigree Function", lowRisk: 0.35, highRisk: 0.6, max: 2.4},
}

// Compare builds the comparison profile for m.
func Compare(m HealthMetrics) []ComparisonPoint {
	points := make([]ComparisonPoint, 0, len(comparisonAxes))
	for _, axis := range comparisonAxes {
		user := m.Value(axis.field)
		points = append(points, ComparisonPoint{
			Subject:           axis.subject,
			Field:             axis.field,
			Unit:              axis.unit,
			Description:       axis.description,
			User:              user,
			LowRiskAverage:    axis.lowRisk,
			HighRiskAverage:   axis.highRisk,
			UserPercent:       normalize(user, axis.max),
			LowRiskPercent:    normalize(axis.lowRisk, axis.max),
			HighRiskPercent:   normalize(axis.highRisk, axis.max),
			NormalizationBase: axis.max,
		})
	}
	return points
}

// normalize maps value onto 0-100 of max, capped at 100.
func normalize(value, max float64) int {
	if max == 0 {
		return 0
	}
	pct := int(math.Round(value / max * 100))
	if pct > 100 {
		return 100
	}
	return pct
}
