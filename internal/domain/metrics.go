package domain

// HealthMetrics is the eight-field input record scored by the risk scorer.
// Values are taken as given; coercion of absent or invalid input to zero
// happens in the caller (form parsing, CLI flags).
type HealthMetrics struct {
	Pregnancies              float64 `json:"pregnancies" yaml:"pregnancies"`
	Glucose                  float64 `json:"glucose" yaml:"glucose"`
	BloodPressure            float64 `json:"blood_pressure" yaml:"blood_pressure"`
	SkinThickness            float64 `json:"skin_thickness" yaml:"skin_thickness"`
	Insulin                  float64 `json:"insulin" yaml:"insulin"`
	BMI                      float64 `json:"bmi" yaml:"bmi"`
	DiabetesPedigreeFunction float64 `json:"diabetes_pedigree_function" yaml:"diabetes_pedigree_function"`
	Age                      float64 `json:"age" yaml:"age"`
}

// MetricField identifies one HealthMetrics field.
type MetricField string

const (
	FieldGlucose                  MetricField = "glucose"
	FieldBMI                      MetricField = "bmi"
	FieldAge                      MetricField = "age"
	FieldPregnancies              MetricField = "pregnancies"
	FieldBloodPressure            MetricField = "blood_pressure"
	FieldDiabetesPedigreeFunction MetricField = "diabetes_pedigree_function"
	FieldSkinThickness            MetricField = "skin_thickness"
	FieldInsulin                  MetricField = "insulin"
)

// FieldSpec describes how a metric is labelled and entered.
type FieldSpec struct {
	Field       MetricField
	Label       string
	Unit        string
	Placeholder string
	Description string
}

// FieldSpecs lists the metrics in form order.
var FieldSpecs = []FieldSpec{
	{Field: FieldGlucose, Label: "Glucose", Unit: "mg/dL", Placeholder: "e.g., 120", Description: "Plasma glucose concentration (mg/dL)"},
	{Field: FieldBMI, Label: "BMI", Unit: "kg/m²", Placeholder: "e.g., 25.0", Description: "Body Mass Index (weight in kg/(height in m)^2)"},
	{Field: FieldAge, Label: "Age", Unit: "years", Placeholder: "e.g., 30", Description: "Age in years"},
	{Field: FieldPregnancies, Label: "Pregnancies", Unit: "", Placeholder: "e.g., 1", Description: "Number of times pregnant"},
	{Field: FieldBloodPressure, Label: "Blood Pressure", Unit: "mm Hg", Placeholder: "e.g., 80", Description: "Diastolic blood pressure (mm Hg)"},
	{Field: FieldDiabetesPedigreeFunction, Label: "Diabetes Pedigree", Unit: "", Placeholder: "e.g., 0.5", Description: "A function that scores likelihood of diabetes based on family history"},
	{Field: FieldSkinThickness, Label: "Skin Thickness", Unit: "mm", Placeholder: "e.g., 20", Description: "Triceps skin fold thickness (mm)"},
	{Field: FieldInsulin, Label: "Insulin", Unit: "mu U/ml", Placeholder: "e.g., 80", Description: "2-Hour serum insulin (mu U/ml)"},
}

// DefaultHealthMetrics are the values the form starts with.
func DefaultHealthMetrics() HealthMetrics {
	return HealthMetrics{
		Pregnancies:              0,
		Glucose:                  120,
		BloodPressure:            80,
		SkinThickness:            20,
		Insulin:                  80,
		BMI:                      25,
		DiabetesPedigreeFunction: 0.47,
		Age:                      30,
	}
}

// Value returns the value of field f.
func (m HealthMetrics) Value(f MetricField) float64 {
	switch f {
	case FieldGlucose:
		return m.Glucose
	case FieldBMI:
		return m.BMI
	case FieldAge:
		return m.Age
	case FieldPregnancies:
		return m.Pregnancies
	case FieldBloodPressure:
		return m.BloodPressure
	case FieldDiabetesPedigreeFunction:
		return m.DiabetesPedigreeFunction
	case FieldSkinThickness:
		return m.SkinThickness
	case FieldInsulin:
		return m.Insulin
	default:
		return 0
	}
}

// Set returns a copy of m with field f replaced by v.
func (m HealthMetrics) Set(f MetricField, v float64) HealthMetrics {
	switch f {
	case FieldGlucose:
		m.Glucose = v
	case FieldBMI:
		m.BMI = v
	case FieldAge:
		m.Age = v
	case FieldPregnancies:
		m.Pregnancies = v
	case FieldBloodPressure:
		m.BloodPressure = v
	case FieldDiabetesPedigreeFunction:
		m.DiabetesPedigreeFunction = v
	case FieldSkinThickness:
		m.SkinThickness = v
	case FieldInsulin:
		m.Insulin = v
	}
	return m
}

// Spec returns the FieldSpec for f.
func Spec(f MetricField) (FieldSpec, bool) {
	for _, spec := range FieldSpecs {
		if spec.Field == f {
			return spec, true
		}
	}
	return FieldSpec{}, false
}
