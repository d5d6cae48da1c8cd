package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/walteh/applydir/cmd/applydir/opts"
	"github.com/walteh/applydir/pkg/apply"
	"github.com/walteh/applydir/pkg/config"
	"github.com/walteh/applydir/pkg/patch"
	"github.com/walteh/applydir/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// NewApplyCmd creates a new apply command
func NewApplyCmd(opts *opts.RootOpts) *cobra.Command {
	var (
		dryRun         bool
		allowDeletion  bool
		nonASCIIAction string
	)

	cmd := &cobra.Command{
		Use:   "apply <changes.json>",
		Short: "Apply a JSON changes document to the base directory",
		Long: `Apply reads a JSON changes document and applies it to the base directory.
It will:
1. Parse and validate the changes document
2. Validate each change against the configured content policy
3. Locate each replacement range (exact first, then fuzzy if enabled)
4. Mutate the files and report one result per file entry`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if allowDeletion {
				opts.Config.AllowFileDeletion = true
			}
			if nonASCIIAction != "" {
				action := config.NonASCIIAction(nonASCIIAction)
				opts.Config.Validation.NonASCII.Default = action
				if err := opts.Config.Validate(); err != nil {
					return errors.Errorf("applying --non-ascii-action: %w", err)
				}
			}

			entries, err := patch.LoadChanges(ctx, args[0])
			if err != nil {
				return errors.Errorf("loading changes: %w", err)
			}

			if dryRun {
				applicator, err := apply.New(opts.BaseDir, opts.Config)
				if err != nil {
					return errors.Errorf("creating applicator: %w", err)
				}
				return renderPreviews(cmd, opts.Formatter, applicator.PreviewAll(ctx, entries))
			}

			results, err := apply.Run(ctx, entries, opts.BaseDir, opts.Config)
			if err != nil {
				return errors.Errorf("applying changes: %w", err)
			}

			for _, res := range results {
				opts.UserLogger.LogResult(res)
			}
			opts.UserLogger.LogSummary(results)

			if !apply.AllSucceeded(results) {
				return errors.New("one or more entries failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show proposed changes without applying them")
	cmd.Flags().BoolVar(&allowDeletion, "allow-deletion", false, "permit delete_file entries for this run")
	cmd.Flags().StringVar(&nonASCIIAction, "non-ascii-action", "", "override the default non-ASCII policy (error|warning|ignore)")

	return cmd
}

// renderPreviews prints per-entry diffs and records to the command output
func renderPreviews(cmd *cobra.Command, formatter status.ResultFormatter, previews []apply.Preview) error {
	out := cmd.OutOrStdout()
	failed := false
	for _, pv := range previews {
		if pv.Diff != "" {
			fmt.Fprintf(out, "\nProposed changes for %s:\n%s", pv.File, pv.Diff)
		}
		for _, rec := range pv.Records {
			fmt.Fprintln(out, formatter.FormatRecord(rec))
			if rec.IsError() {
				failed = true
			}
		}
	}
	if failed {
		return errors.New("one or more entries would fail")
	}
	return nil
}
