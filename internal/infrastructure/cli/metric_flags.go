package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/diarisk/internal/domain"
)

// metricFlags binds one float flag per metric, defaulting to the form's initial values.
type metricFlags struct {
	flags  *pflag.FlagSet
	values map[domain.MetricField]*float64
	input  string
}

func flagName(field domain.MetricField) string {
	return strings.ReplaceAll(string(field), "_", "-")
}

func addMetricFlags(fs *pflag.FlagSet) *metricFlags {
	defaults := domain.DefaultHealthMetrics()
	mf := &metricFlags{flags: fs, values: make(map[domain.MetricField]*float64, len(domain.FieldSpecs))}
	for _, spec := range domain.FieldSpecs {
		usage := spec.Description
		mf.values[spec.Field] = fs.Float64(flagName(spec.Field), defaults.Value(spec.Field), usage)
	}
	fs.StringVarP(&mf.input, "input", "i", "", "Read metrics from a YAML or JSON file (flags override file values)")
	return mf
}

// metrics resolves the record: file values first when --input is set,
// otherwise flag defaults, then any flag set explicitly.
func (mf *metricFlags) metrics() (domain.HealthMetrics, error) {
	m := domain.DefaultHealthMetrics()
	if mf.input != "" {
		raw, err := os.ReadFile(mf.input)
		if err != nil {
			return domain.HealthMetrics{}, fmt.Errorf("read metrics: %w", err)
		}
		m = domain.HealthMetrics{}
		if err := yaml.Unmarshal(raw, &m); err != nil {
			return domain.HealthMetrics{}, fmt.Errorf("parse metrics %s: %w", mf.input, err)
		}
	}
	for _, spec := range domain.FieldSpecs {
		name := flagName(spec.Field)
		if mf.input == "" || mf.flags.Changed(name) {
			m = m.Set(spec.Field, *mf.values[spec.Field])
		}
	}
	return m, nil
}
