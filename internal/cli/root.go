// Package cli provides the tabml command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/tabml/pkg/log"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// configKey is used to store config in context.
type configKey struct{}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "tabml",
		Short: "tabml - classical ML on tabular data",
		Long: `tabml trains linear regression, logistic regression, k-nearest neighbors,
an ID3 decision tree and Gaussian naive Bayes on a CSV file and reports
RMSE/R2 or accuracy/macro-F1 on a held-out split.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := LoadConfig(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			if err := setupLogging(cmd.ErrOrStderr(), cfg.LogLevel); err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(context.WithValue(ctx, configKey{}, cfg))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: ./"+DefaultConfigFile+")")
	pf.String("data", "", "Path to the CSV dataset")
	pf.String("log-level", "", "Log level (debug|info|warn|error)")

	rootCmd.AddCommand(NewVersionCommand(Version))
	rootCmd.AddCommand(NewRunCommand())
	rootCmd.AddCommand(NewDescribeCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// GetConfig retrieves the config from the command context.
func GetConfig(ctx context.Context) *Config {
	if ctx != nil {
		if c, ok := ctx.Value(configKey{}).(*Config); ok {
			return c
		}
	}
	cfg, err := LoadConfig("", nil)
	if err != nil {
		return &Config{}
	}
	return cfg
}

// setupLogging points both the slog default and the zerolog provider used by
// the models at w.
func setupLogging(w io.Writer, level string) error {
	if err := log.SetupLogger(w, level); err != nil {
		return err
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetProvider(log.NewZerologProviderWithWriter(
		zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: "15:04:05"},
		lvl,
	))
	return nil
}
