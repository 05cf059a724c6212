package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/diarisk/internal/domain"
)

type stubGenerator struct {
	text  string
	err   error
	calls int
}

func (s *stubGenerator) Generate(context.Context, string) (string, error) {
	s.calls++
	return s.text, s.err
}

func execute(t *testing.T, opts Options, args ...string) (string, error) {
	t.Helper()
	if opts.ConfigPath == "" {
		opts.ConfigPath = filepath.Join(t.TempDir(), "config.yaml")
	}
	root := NewRootCmd(context.Background(), opts)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func withCredential(t *testing.T, value string) {
	t.Helper()
	t.Setenv("GEMINI_API_KEY", value)
	t.Setenv("API_KEY", "")
}

func TestScoreCommand(t *testing.T) {
	out, err := execute(t, Options{}, "score", "--glucose", "141")
	require.NoError(t, err)
	assert.Contains(t, out, "Risk: MEDIUM (score 3 of 10)")
	assert.Contains(t, out, "Glucose 141 > 140 (+3)")
}

func TestScoreCommandDefaultsAreLow(t *testing.T) {
	out, err := execute(t, Options{}, "score")
	require.NoError(t, err)
	assert.Contains(t, out, "Risk: LOW (score 0 of 10)")
	assert.Contains(t, out, "No scored thresholds exceeded.")
}

func TestScoreCommandJSON(t *testing.T) {
	out, err := execute(t, Options{}, "score", "--json",
		"--glucose", "200", "--bmi", "40", "--age", "60",
		"--blood-pressure", "100", "--pregnancies", "5", "--diabetes-pedigree-function", "1.2")
	require.NoError(t, err)

	var got domain.Assessment
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, domain.RiskHigh, got.Risk)
	assert.Equal(t, 10, got.Score)
	assert.Len(t, got.Factors, 6)
}

func TestScoreCommandInputFile(t *testing.T) {
	input := filepath.Join(t.TempDir(), "metrics.yaml")
	require.NoError(t, os.WriteFile(input, []byte("glucose: 150\nbmi: 31\n"), 0o600))

	out, err := execute(t, Options{}, "score", "--json", "--input", input, "--age", "55")
	require.NoError(t, err)

	var got domain.Assessment
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, domain.RiskHigh, got.Risk)
	assert.Equal(t, 7, got.Score)
}

func TestExplainCommand(t *testing.T) {
	withCredential(t, "test-key")
	gen := &stubGenerator{text: "## Introduction\nStay active."}

	out, err := execute(t, Options{Generator: gen}, "explain", "--glucose", "141")
	require.NoError(t, err)
	assert.Equal(t, 1, gen.calls)
	assert.Contains(t, out, "Risk: MEDIUM")
	assert.Contains(t, out, "Stay active.")
}

func TestExplainCommandMissingCredential(t *testing.T) {
	withCredential(t, "")
	gen := &stubGenerator{text: "unused"}

	out, err := execute(t, Options{Generator: gen}, "explain")
	require.Error(t, err)

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, ExitConfigError, exitErr.Code)
	assert.Equal(t, 0, gen.calls)
	assert.Contains(t, out, "Configuration error")
	assert.Contains(t, out, "GEMINI_API_KEY")
}

func TestExplainCommandProviderFailure(t *testing.T) {
	withCredential(t, "test-key")
	gen := &stubGenerator{err: errors.New("HTTP 503")}

	out, err := execute(t, Options{Generator: gen}, "explain")
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, ExitProviderError, exitErr.Code)
	assert.Contains(t, out, "unable to generate an analysis")
}

func TestPredictCommandJSON(t *testing.T) {
	withCredential(t, "test-key")
	gen := &stubGenerator{text: "analysis"}

	out, err := execute(t, Options{Generator: gen}, "predict", "--bmi", "31")
	require.NoError(t, err)

	var got domain.PredictionResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, domain.RiskLow, got.Risk)
	assert.Equal(t, 2, got.Score)
	assert.Equal(t, "analysis", got.Explanation)
	assert.Equal(t, domain.OutcomeOK, got.Outcome)
	assert.Len(t, got.Comparison, 6)
}

func TestPredictCommandText(t *testing.T) {
	withCredential(t, "test-key")
	out, err := execute(t, Options{Generator: &stubGenerator{text: "analysis"}}, "predict", "--text")
	require.NoError(t, err)
	assert.Contains(t, out, "Comparison (you / low-risk avg / high-risk avg):")
	assert.Contains(t, out, "Glucose")
}

func TestConfigCommands(t *testing.T) {
	withCredential(t, "super-secret")
	path := filepath.Join(t.TempDir(), "cfg", "config.yaml")
	opts := Options{ConfigPath: path}

	out, err := execute(t, opts, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, path)
	_, err = os.Stat(path)
	require.NoError(t, err)

	_, err = execute(t, opts, "config", "init")
	assert.Error(t, err)

	out, err = execute(t, opts, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "model_id: gemini-2.5-flash")
	assert.NotContains(t, out, "super-secret")

	out, err = execute(t, opts, "config", "get", "model.model_id")
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash", strings.TrimSpace(out))

	out, err = execute(t, opts, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration valid")

	out, err = execute(t, opts, "config", "diff")
	require.NoError(t, err)
	assert.Contains(t, out, "No differences from default configuration.")
}

func TestDoctorCommand(t *testing.T) {
	withCredential(t, "test-key")
	out, err := execute(t, Options{}, "doctor")
	require.NoError(t, err)
	assert.Contains(t, out, "[OK] Config file")
	assert.Contains(t, out, "[OK] API key")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, Options{}, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "diarisk version")
}

func TestExplainCommandSuppliedRisk(t *testing.T) {
	withCredential(t, "test-key")
	gen := &stubGenerator{text: "explained"}

	out, err := execute(t, Options{Generator: gen}, "explain", "--risk", "high")
	require.NoError(t, err)
	assert.Contains(t, out, "Risk: HIGH (supplied)")
	assert.Contains(t, out, "explained")

	_, err = execute(t, Options{Generator: gen}, "explain", "--risk", "severe")
	assert.Error(t, err)
}

func TestRunRootClosesContainerOnExitError(t *testing.T) {
	withCredential(t, "test-key")
	gen := &stubGenerator{err: errors.New("HTTP 503")}
	root, loader := newRootCmd(context.Background(), Options{
		ConfigPath: filepath.Join(t.TempDir(), "config.yaml"),
		Generator:  gen,
	})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"explain"})

	err := runRoot(context.Background(), root, loader)

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, ExitProviderError, exitErr.Code)
	assert.True(t, loader.Closed(), "container must be released after a failing command")
}

func TestReportCommandWritesFile(t *testing.T) {
	withCredential(t, "test-key")
	gen := &stubGenerator{text: "## Conclusion\n\n- Keep **moving**"}
	path := filepath.Join(t.TempDir(), "out.tex")

	out, err := execute(t, Options{Generator: gen}, "report", "--glucose", "141", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Report written to "+path)
	assert.Equal(t, 1, gen.calls)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	doc := string(raw)
	assert.Contains(t, doc, `{\Huge\bfseries Medium}`)
	assert.Contains(t, doc, `\item Keep \textbf{moving}`)
}

func TestReportCommandFromExplanationFile(t *testing.T) {
	withCredential(t, "")
	gen := &stubGenerator{text: "unused"}
	md := filepath.Join(t.TempDir(), "explanation.md")
	require.NoError(t, os.WriteFile(md, []byte("Saved text with 10% & more"), 0o600))

	out, err := execute(t, Options{Generator: gen}, "report", "--explanation-file", md, "-o", "-")
	require.NoError(t, err)
	assert.Equal(t, 0, gen.calls)
	assert.Contains(t, out, `Saved text with 10\% \& more`)
	assert.Contains(t, out, `\end{document}`)
}

func TestReportCommandProviderFailureStillWrites(t *testing.T) {
	withCredential(t, "test-key")
	gen := &stubGenerator{err: errors.New("HTTP 503")}

	out, err := execute(t, Options{Generator: gen}, "report", "-o", "-")
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, ExitProviderError, exitErr.Code)
	assert.Contains(t, out, "unable to generate an analysis")
}
