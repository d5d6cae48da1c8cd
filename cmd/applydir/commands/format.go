package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/walteh/applydir/pkg/patch"
)

// NewFormatCmd creates a new format command
func NewFormatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "format",
		Short: "Print the changes JSON format description",
		Long: `Format prints a description of the JSON changes document, suitable for
embedding in an LLM prompt so the generating tool produces documents
applydir accepts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), patch.FormatDescription)
			return nil
		},
	}
}
