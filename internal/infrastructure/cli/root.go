package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/doeshing/diarisk/internal/app"
	"github.com/doeshing/diarisk/internal/application/scoring"
	"github.com/doeshing/diarisk/internal/domain"
	"github.com/doeshing/diarisk/internal/infrastructure/cli/commands"
	"github.com/doeshing/diarisk/internal/ports"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose    bool
	ConfigPath string
	// Generator replaces the HTTP adapter, for tests.
	Generator ports.Generator
}

// Execute runs the root command with os.Args and releases the container
// afterwards, on error paths too.
func Execute(ctx context.Context, opts Options) error {
	root, loader := newRootCmd(ctx, opts)
	return runRoot(ctx, root, loader)
}

func runRoot(ctx context.Context, root *cobra.Command, loader *commands.Loader) error {
	defer loader.Close()
	return root.ExecuteContext(ctx)
}

// NewRootCmd wires the cobra root command. The container is built lazily,
// after persistent flags are parsed. Callers that execute it directly own
// no cleanup hook; use Execute to flush the logger on exit.
func NewRootCmd(ctx context.Context, opts Options) *cobra.Command {
	root, _ := newRootCmd(ctx, opts)
	return root
}

func newRootCmd(ctx context.Context, opts Options) (*cobra.Command, *commands.Loader) {
	loader := commands.NewLoader(app.Options{
		ConfigPath: opts.ConfigPath,
		Verbose:    opts.Verbose,
		Generator:  opts.Generator,
	})

	root := &cobra.Command{
		Use:   "diarisk",
		Short: "diarisk - diabetes risk estimate with a plain-language explanation",
		Long: "diarisk scores eight health metrics into a Low/Medium/High diabetes risk category " +
			"and asks a generative-language service to explain the result.\n\n" +
			"This is not a medical diagnosis. Consult a healthcare professional.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetContext(ctx)

	root.PersistentFlags().StringVar(&loader.Options.ConfigPath, "config", opts.ConfigPath, "Config file (default ~/.diarisk/config.yaml, or $DIARISK_CONFIG)")
	root.PersistentFlags().BoolVarP(&loader.Options.Verbose, "verbose", "v", opts.Verbose, "Enable debug logging")

	root.AddCommand(newScoreCommand())
	root.AddCommand(newExplainCommand(loader))
	root.AddCommand(newPredictCommand(loader))
	root.AddCommand(newReportCommand(loader))
	root.AddCommand(commands.NewServeCommand(loader))
	root.AddCommand(commands.NewDoctorCommand(loader))
	root.AddCommand(commands.NewConfigCommand(loader))
	root.AddCommand(commands.NewVersionCommand())
	return root, loader
}

func newScoreCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score metrics into a risk level (no network access)",
		Args:  cobra.NoArgs,
	}
	metrics := addMetricFlags(cmd.Flags())
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the assessment as JSON")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		m, err := metrics.metrics()
		if err != nil {
			return err
		}
		assessment := scoring.Evaluate(m)
		if asJSON {
			return writeJSON(cmd.OutOrStdout(), assessment)
		}
		RenderAssessment(cmd.OutOrStdout(), assessment)
		return nil
	}
	return cmd
}

func newExplainCommand(loader *commands.Loader) *cobra.Command {
	var (
		timeout time.Duration
		risk    string
	)

	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Score metrics and request a plain-language explanation",
		Args:  cobra.NoArgs,
	}
	metrics := addMetricFlags(cmd.Flags())
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Override request timeout (default from config)")
	cmd.Flags().StringVar(&risk, "risk", "", "Explain this already-scored level (low|medium|high) instead of scoring")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		m, err := metrics.metrics()
		if err != nil {
			return err
		}
		var level domain.RiskLevel
		if risk != "" {
			if level, err = domain.ParseRiskLevel(risk); err != nil {
				return err
			}
		}
		container, err := loader.Container(cmd.Context())
		if err != nil {
			return err
		}

		ctx, cancel := withTimeout(cmd.Context(), timeout, container.Config.GetRequestTimeout())
		defer cancel()

		out := cmd.OutOrStdout()
		spinner := NewSpinner(cmd.ErrOrStderr(), "Requesting explanation...")

		if level != "" {
			spinner.Start()
			text, outcome := container.Explainer.ExplainDetailed(ctx, m, level)
			spinner.Stop()
			fmt.Fprintf(out, "Risk: %s (supplied)\n\n%s\n", strings.ToUpper(level.String()), text)
			return outcomeError(outcome)
		}

		spinner.Start()
		result, err := container.PredictionService.Predict(ctx, m)
		spinner.Stop()
		if err != nil {
			return err
		}
		RenderPrediction(out, result)
		return outcomeError(result.Outcome)
	}
	return cmd
}

func newPredictCommand(loader *commands.Loader) *cobra.Command {
	var (
		timeout time.Duration
		text    bool
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Run the full pipeline and print the result as JSON",
		Args:  cobra.NoArgs,
	}
	metrics := addMetricFlags(cmd.Flags())
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Override request timeout (default from config)")
	cmd.Flags().BoolVar(&text, "text", false, "Print a human-readable report instead of JSON")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		m, err := metrics.metrics()
		if err != nil {
			return err
		}
		container, err := loader.Container(cmd.Context())
		if err != nil {
			return err
		}

		ctx, cancel := withTimeout(cmd.Context(), timeout, container.Config.GetRequestTimeout())
		defer cancel()

		result, err := container.PredictionService.Predict(ctx, m)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if text {
			RenderPrediction(out, result)
			RenderComparison(out, result.Comparison)
		} else if err := writeJSON(out, result); err != nil {
			return err
		}
		return outcomeError(result.Outcome)
	}
	return cmd
}

func withTimeout(ctx context.Context, override, fallback time.Duration) (context.Context, context.CancelFunc) {
	if override <= 0 {
		override = fallback
	}
	if override <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, override)
}
