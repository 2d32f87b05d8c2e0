package cli

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/YuminosukeSato/tabml/evaluation"
	"github.com/YuminosukeSato/tabml/pkg/errors"
	"github.com/YuminosukeSato/tabml/pkg/log"
)

const (
	// DefaultConfigFile is read from the working directory when --config is not given.
	DefaultConfigFile = "tabml.yaml"

	envPrefix = "TABML_"
)

// Config is the resolved CLI configuration.
type Config struct {
	Data                 string   `koanf:"data"`
	LogLevel             string   `koanf:"log_level"`
	Ratio                float64  `koanf:"ratio"`
	Seed                 int64    `koanf:"seed"`
	RegressionTarget     string   `koanf:"regression_target"`
	ClassificationTarget string   `koanf:"classification_target"`
	Algorithms           []string `koanf:"algorithms"`
	Chart                string   `koanf:"chart"`

	L2           float64 `koanf:"l2"`
	LearningRate float64 `koanf:"learning_rate"`
	Epochs       int     `koanf:"epochs"`
	K            int     `koanf:"k"`
	MaxDepth     int     `koanf:"max_depth"`
}

func defaults() map[string]interface{} {
	mc := evaluation.DefaultModelConfig()
	algs := make([]string, len(evaluation.Algorithms))
	for i, a := range evaluation.Algorithms {
		algs[i] = string(a)
	}
	return map[string]interface{}{
		"log_level":             "warn",
		"ratio":                 0.8,
		"seed":                  int64(42),
		"regression_target":     "hours.per.week",
		"classification_target": "income",
		"algorithms":            algs,
		"l2":                    mc.LinearL2,
		"learning_rate":         mc.LearningRate,
		"epochs":                mc.Epochs,
		"k":                     mc.K,
		"max_depth":             mc.MaxDepth,
	}
}

// LoadConfig resolves the configuration. Later sources override earlier ones:
// defaults, the YAML file, TABML_ environment variables, then flags that
// were set explicitly on the command line.
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, errors.Wrap(err, "loading defaults")
	}

	if path := findConfigFile(cfgFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "loading config file %s", path)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, errors.Wrap(err, "loading environment")
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, errors.Wrap(err, "loading flags")
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}
	cfg.Algorithms = splitList(cfg.Algorithms)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// findConfigFile returns the explicit path, or tabml.yaml when it exists.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(DefaultConfigFile); err == nil {
		return DefaultConfigFile
	}
	return ""
}

// splitList flattens comma separated entries, as given by TABML_ALGORITHMS=linear,knn.
func splitList(in []string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Validate checks the values that can be rejected before any data is read.
// Split ratio and hyperparameter ranges are checked by the components.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return errors.NewValidationError("log_level", "unknown log level", c.LogLevel)
	}
	if len(c.Algorithms) == 0 {
		return errors.NewValidationError("algorithms", "at least one algorithm is required", c.Algorithms)
	}
	_, err := c.ParsedAlgorithms()
	return err
}

// ParsedAlgorithms resolves the configured algorithm names in order.
func (c *Config) ParsedAlgorithms() ([]evaluation.Algorithm, error) {
	algs := make([]evaluation.Algorithm, 0, len(c.Algorithms))
	for _, name := range c.Algorithms {
		a, err := evaluation.ParseAlgorithm(name)
		if err != nil {
			return nil, err
		}
		algs = append(algs, a)
	}
	return algs, nil
}

// ModelConfig maps the CLI hyperparameters onto the model factory config.
func (c *Config) ModelConfig() evaluation.ModelConfig {
	mc := evaluation.DefaultModelConfig()
	mc.LinearL2 = c.L2
	mc.LearningRate = c.LearningRate
	mc.Epochs = c.Epochs
	mc.K = c.K
	mc.MaxDepth = c.MaxDepth
	return mc
}

// Target returns the target column evaluated for the task.
func (c *Config) Target(task evaluation.Task) string {
	if task == evaluation.Regression {
		return c.RegressionTarget
	}
	return c.ClassificationTarget
}
