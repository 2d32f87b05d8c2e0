package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/tabml/evaluation"
	"github.com/YuminosukeSato/tabml/pkg/errors"
)

// writeCensusCSV writes 20 rows where income is ">50K" exactly for "blue"
// and hours.per.week = 2*age + 1.
func writeCensusCSV(t *testing.T) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("age,color,hours.per.week,income\n")
	for i := 0; i < 20; i++ {
		color, income := "red", "<=50K"
		if i%2 == 1 {
			color, income = "blue", ">50K"
		}
		age := 20 + i
		fmt.Fprintf(&b, "%d,%s,%d,%s\n", age, color, 2*age+1, income)
	}
	path := filepath.Join(t.TempDir(), "census.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 0.8, cfg.Ratio)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, "hours.per.week", cfg.RegressionTarget)
	assert.Equal(t, "income", cfg.ClassificationTarget)
	assert.Len(t, cfg.Algorithms, len(evaluation.Algorithms))

	assert.Equal(t, evaluation.DefaultModelConfig(), cfg.ModelConfig())
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tabml.yaml")
	require.NoError(t, os.WriteFile(path, []byte("k: 3\nratio: 0.7\nmax_depth: 4\nlog_level: info\n"), 0o600))

	t.Run("file overrides defaults", func(t *testing.T) {
		cfg, err := LoadConfig(path, nil)
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.K)
		assert.Equal(t, 0.7, cfg.Ratio)
		assert.Equal(t, 4, cfg.MaxDepth)
		assert.Equal(t, "info", cfg.LogLevel)
	})

	t.Run("env overrides file", func(t *testing.T) {
		t.Setenv("TABML_K", "9")
		cfg, err := LoadConfig(path, nil)
		require.NoError(t, err)
		assert.Equal(t, 9, cfg.K)
		assert.Equal(t, 0.7, cfg.Ratio)
	})

	t.Run("changed flags override env", func(t *testing.T) {
		t.Setenv("TABML_K", "9")
		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flags.Int("k", 5, "")
		flags.Int("max-depth", 10, "")
		require.NoError(t, flags.Parse([]string{"--k", "11"}))

		cfg, err := LoadConfig(path, flags)
		require.NoError(t, err)
		assert.Equal(t, 11, cfg.K)
		// max-depth keeps the file value because the flag was not set
		assert.Equal(t, 4, cfg.MaxDepth)
	})
}

func TestLoadConfig_AlgorithmList(t *testing.T) {
	t.Setenv("TABML_ALGORITHMS", "knn, tree")
	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"knn", "tree"}, cfg.Algorithms)

	algs, err := cfg.ParsedAlgorithms()
	require.NoError(t, err)
	assert.Equal(t, []evaluation.Algorithm{evaluation.KNN, evaluation.Tree}, algs)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		param string
	}{
		{"unknown algorithm", map[string]string{"TABML_ALGORITHMS": "svm"}, "algorithm"},
		{"bad log level", map[string]string{"TABML_LOG_LEVEL": "loud"}, "log_level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig("", nil)
			require.Error(t, err)
			var valErr *errors.ValidationError
			require.True(t, errors.As(err, &valErr))
			assert.Equal(t, tt.param, valErr.ParamName)
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestConfigTarget(t *testing.T) {
	cfg := &Config{RegressionTarget: "hours", ClassificationTarget: "income"}
	assert.Equal(t, "hours", cfg.Target(evaluation.Regression))
	assert.Equal(t, "income", cfg.Target(evaluation.Classification))
}

func TestRunCommand(t *testing.T) {
	data := writeCensusCSV(t)

	out, err := execute(t, "run", "--data", data, "--log-level", "error",
		"--algorithms", "linear,knn,naive_bayes", "--k", "3")
	require.NoError(t, err)

	assert.Contains(t, out, "Linear Regression")
	assert.Contains(t, out, "k-Nearest Neighbors")
	assert.Contains(t, out, "Gaussian Naive Bayes")
	assert.Contains(t, out, "RMSE")
	assert.Contains(t, out, "Macro-F1")
	assert.Contains(t, out, "best regression model by R2: Linear Regression")
	assert.Contains(t, out, "best classification model by Macro-F1")
	assert.NotContains(t, out, "Decision Tree")
}

func TestRunCommand_Chart(t *testing.T) {
	data := writeCensusCSV(t)
	dir := t.TempDir()

	_, err := execute(t, "run", "--data", data, "--log-level", "error",
		"--algorithms", "linear,tree", "--chart", filepath.Join(dir, "scores.png"))
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "scores_regression.png"))
	assert.FileExists(t, filepath.Join(dir, "scores_classification.png"))
}

func TestRunCommand_Errors(t *testing.T) {
	t.Run("missing data flag", func(t *testing.T) {
		_, err := execute(t, "run", "--log-level", "error")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "data")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := execute(t, "run", "--log-level", "error", "--data", filepath.Join(t.TempDir(), "none.csv"))
		assert.Error(t, err)
	})

	t.Run("every evaluation fails", func(t *testing.T) {
		_, err := execute(t, "run", "--log-level", "error", "--data", writeCensusCSV(t),
			"--algorithms", "knn", "--classification-target", "missing")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "all 1 evaluations failed")
	})
}

func TestDescribeCommand(t *testing.T) {
	out, err := execute(t, "describe", "--log-level", "error", "--data", writeCensusCSV(t))
	require.NoError(t, err)

	assert.Contains(t, out, "20 rows, 4 columns")
	assert.Contains(t, out, "numeric: age, hours.per.week")
	assert.Contains(t, out, "categorical: color, income")
}

func TestChartPath(t *testing.T) {
	assert.Equal(t, "out/scores_regression.png", chartPath("out/scores.png", evaluation.Regression))
	assert.Equal(t, "scores_classification", chartPath("scores", evaluation.Classification))
}

func TestSaveCharts_RecoversPanic(t *testing.T) {
	orig := saveChart
	defer func() { saveChart = orig }()
	saveChart = func(*evaluation.Log, evaluation.Task, int, string) error {
		panic("font cache unavailable")
	}

	var results evaluation.Log
	results.Append(evaluation.Record{
		Algorithm:   evaluation.Linear,
		Task:        evaluation.Regression,
		Metric1Name: "RMSE",
		Metric2Name: "R2",
	})

	err := saveCharts(&results, filepath.Join(t.TempDir(), "scores.png"))
	var panicErr *errors.PanicError
	require.True(t, errors.As(err, &panicErr), "got %v", err)
	assert.Equal(t, "SaveChart", panicErr.Operation)
	assert.Equal(t, "font cache unavailable", panicErr.PanicValue)
}

func TestNewVersionCommand(t *testing.T) {
	tests := []struct {
		name    string
		version string
		wantOut []string
	}{
		{name: "default version", version: "0.1.0", wantOut: []string{"tabml v0.1.0", "commit"}},
		{name: "dev version", version: "dev", wantOut: []string{"tabml vdev"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewVersionCommand(tt.version)
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)

			require.NoError(t, cmd.Execute())
			for _, want := range tt.wantOut {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestRootCommandWiring(t *testing.T) {
	root := NewRootCmd()
	names := make([]string, 0, len(root.Commands()))
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"run", "describe", "version"})
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
	assert.NotNil(t, root.PersistentFlags().Lookup("data"))
}
