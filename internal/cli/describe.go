package cli

import (
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/tabml/dataset"
	"github.com/YuminosukeSato/tabml/pkg/errors"
)

// NewDescribeCommand creates the describe command.
func NewDescribeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "describe",
		Short: "Summarize the columns of a CSV file",
		Long: `Print the row and column counts of the dataset and whether each column
is treated as numeric or categorical. A column is numeric when its first
ten values parse as numbers.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := GetConfig(cmd.Context())
			if cfg.Data == "" {
				return errors.NewValidationError("data", "a CSV file is required", cfg.Data)
			}
			tbl, err := dataset.LoadCSVFile(cfg.Data)
			if err != nil {
				return err
			}
			renderSummary(cmd.OutOrStdout(), tbl)
			return nil
		},
	}
}
