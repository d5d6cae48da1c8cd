package commands

import (
	"github.com/spf13/cobra"
	"github.com/walteh/applydir/cmd/applydir/opts"
	"github.com/walteh/applydir/pkg/apply"
	"github.com/walteh/applydir/pkg/patch"
	"gitlab.com/tozd/go/errors"
)

// NewPreviewCmd creates a new preview command
func NewPreviewCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview <changes.json>",
		Short: "Show the diffs a changes document would produce",
		Long: `Preview runs the full validation and matching pipeline against the base
directory and prints the unified diff each entry would produce, without
touching any file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			entries, err := patch.LoadChanges(ctx, args[0])
			if err != nil {
				return errors.Errorf("loading changes: %w", err)
			}

			applicator, err := apply.New(opts.BaseDir, opts.Config)
			if err != nil {
				return errors.Errorf("creating applicator: %w", err)
			}

			return renderPreviews(cmd, opts.Formatter, applicator.PreviewAll(ctx, entries))
		},
	}

	return cmd
}
