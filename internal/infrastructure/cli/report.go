package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/doeshing/diarisk/internal/application/report"
	"github.com/doeshing/diarisk/internal/domain"
	"github.com/doeshing/diarisk/internal/infrastructure/cli/commands"
)

func newReportCommand(loader *commands.Loader) *cobra.Command {
	var (
		timeout         time.Duration
		output          string
		explanationFile string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write a LaTeX report of the assessment and its explanation",
		Long: "report scores the metrics, requests the explanation and writes a LaTeX document\n" +
			"(" + report.FileName + " by default). With --explanation-file the explanation is\n" +
			"read from a Markdown file and no remote request is made.",
		Args: cobra.NoArgs,
	}
	metrics := addMetricFlags(cmd.Flags())
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Override request timeout (default from config)")
	cmd.Flags().StringVarP(&output, "output", "o", report.FileName, `Output file, or "-" for stdout`)
	cmd.Flags().StringVar(&explanationFile, "explanation-file", "", "Use this Markdown explanation instead of requesting one")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		m, err := metrics.metrics()
		if err != nil {
			return err
		}
		container, err := loader.Container(cmd.Context())
		if err != nil {
			return err
		}
		model := container.Config.Model.ModelID

		var (
			doc     report.Report
			outcome = domain.OutcomeOK
		)
		if explanationFile != "" {
			raw, err := os.ReadFile(explanationFile)
			if err != nil {
				return fmt.Errorf("read explanation: %w", err)
			}
			doc = report.FromExplanation(m, string(raw), model, time.Now())
		} else {
			ctx, cancel := withTimeout(cmd.Context(), timeout, container.Config.GetRequestTimeout())
			defer cancel()

			spinner := NewSpinner(cmd.ErrOrStderr(), "Requesting explanation...")
			spinner.Start()
			result, err := container.PredictionService.Predict(ctx, m)
			spinner.Stop()
			if err != nil {
				return err
			}
			doc = report.FromPrediction(result, model)
			outcome = result.Outcome
		}

		if output == "-" {
			if err := doc.WriteLaTeX(cmd.OutOrStdout()); err != nil {
				return err
			}
			return outcomeError(outcome)
		}

		data, err := doc.Bytes()
		if err != nil {
			return err
		}
		if err := os.WriteFile(output, data, domain.SecureFilePermissions); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s (risk %s)\n", output, doc.Assessment.Risk)
		return outcomeError(outcome)
	}
	return cmd
}
