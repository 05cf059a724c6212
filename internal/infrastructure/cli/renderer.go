package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/doeshing/diarisk/internal/application/scoring"
	"github.com/doeshing/diarisk/internal/domain"
)

// RenderAssessment prints the risk level and contributing factors in a friendly, ASCII-only format.
func RenderAssessment(out io.Writer, a domain.Assessment) {
	fmt.Fprintf(out, "Risk: %s (score %d of %d)\n", strings.ToUpper(a.Risk.String()), a.Score, scoring.MaxScore)
	if len(a.Factors) == 0 {
		fmt.Fprintln(out, "No scored thresholds exceeded.")
		return
	}
	fmt.Fprintln(out, "Contributing factors:")
	for _, f := range a.Factors {
		fmt.Fprintf(out, " - %s %s > %s (+%d)\n", f.Label, formatNumber(f.Value), formatNumber(f.Threshold), f.Points)
	}
}

// RenderComparison prints the population comparison table.
func RenderComparison(out io.Writer, points []domain.ComparisonPoint) {
	fmt.Fprintln(out, "Comparison (you / low-risk avg / high-risk avg):")
	for _, p := range points {
		unit := ""
		if p.Unit != "" {
			unit = " " + p.Unit
		}
		fmt.Fprintf(out, " - %-12s %s / %s / %s%s\n", p.Subject,
			formatNumber(p.User), formatNumber(p.LowRiskAverage), formatNumber(p.HighRiskAverage), unit)
	}
}

// RenderPrediction prints a full prediction result.
func RenderPrediction(out io.Writer, r domain.PredictionResult) {
	RenderAssessment(out, domain.Assessment{Risk: r.Risk, Score: r.Score, Factors: r.Factors})
	fmt.Fprintln(out)
	fmt.Fprintln(out, r.Explanation)
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
