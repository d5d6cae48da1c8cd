// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/walteh/applydir/cmd/applydir/commands"
	"github.com/walteh/applydir/cmd/applydir/opts"
)

func main() {
	rootOpts := &opts.RootOpts{}

	rootCmd := &cobra.Command{
		Use:   "applydir",
		Short: "Apply LLM-generated changes to a codebase",
		Long: `applydir applies a structured description of code edits to files on disk.
Each edit names a target file, an action (replace lines, create or delete a
file) and the exact lines expected to exist. Target ranges are located with
an exact pass first and an optional fuzzy pass, and ambiguous locations fail
loudly instead of guessing.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Flags are parsed by now; logging level depends on --debug.
			setupLogging()
			ro, err := newRootOpts(cmd.Context())
			if err != nil {
				return err
			}
			*rootOpts = *ro
			return nil
		},
	}

	addRootFlags(rootCmd)

	rootCmd.AddCommand(
		commands.NewApplyCmd(rootOpts),
		commands.NewPreviewCmd(rootOpts),
		commands.NewPrepdirCmd(rootOpts),
		commands.NewFormatCmd(),
	)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
