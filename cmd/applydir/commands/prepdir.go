package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/walteh/applydir/cmd/applydir/opts"
	"github.com/walteh/applydir/pkg/apply"
	"github.com/walteh/applydir/pkg/prepdir"
	"gitlab.com/tozd/go/errors"
)

// NewPrepdirCmd creates a new prepdir command
func NewPrepdirCmd(opts *opts.RootOpts) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "prepdir <prepped_dir.txt>",
		Short: "Apply a legacy prepped-dir document to the base directory",
		Long: `Prepdir handles the legacy free-text format: whole-file contents between
Begin File / End File markers. It will:
1. Parse the prepped-dir document
2. Snapshot the base directory (binary files are skipped)
3. Convert changed and new files into file entries
4. Apply them through the same engine as the JSON flow

Additional commands found in the document are printed for manual review;
they are never executed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			doc, err := prepdir.ParseFile(ctx, args[0])
			if err != nil {
				return errors.Errorf("parsing prepped-dir document: %w", err)
			}

			snapshot, err := prepdir.Snapshot(ctx, opts.BaseDir)
			if err != nil {
				return errors.Errorf("snapshotting base directory: %w", err)
			}

			entries := prepdir.ToEntries(doc, snapshot)
			if len(entries) == 0 && len(doc.Commands) == 0 {
				fmt.Fprintln(out, "no changes or commands detected")
				return nil
			}

			var runErr error
			if dryRun {
				applicator, err := apply.New(opts.BaseDir, opts.Config)
				if err != nil {
					return errors.Errorf("creating applicator: %w", err)
				}
				runErr = renderPreviews(cmd, opts.Formatter, applicator.PreviewAll(ctx, entries))
			} else {
				results, err := apply.Run(ctx, entries, opts.BaseDir, opts.Config)
				if err != nil {
					return errors.Errorf("applying changes: %w", err)
				}
				for _, res := range results {
					opts.UserLogger.LogResult(res)
				}
				opts.UserLogger.LogSummary(results)
				if !apply.AllSucceeded(results) {
					runErr = errors.New("one or more entries failed")
				}
			}

			if len(doc.Commands) > 0 {
				fmt.Fprintln(out, "\nProposed additional commands (not executed):")
				for _, c := range doc.Commands {
					fmt.Fprintf(out, "  %s\n", c)
				}
			}

			return runErr
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show proposed changes without applying them")

	return cmd
}
