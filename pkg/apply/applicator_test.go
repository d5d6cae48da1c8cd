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

package apply_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/applydir/pkg/apply"
	"github.com/walteh/applydir/pkg/config"
	"github.com/walteh/applydir/pkg/patch"
)

// 🧪 testContext creates a context with a test logger
func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

// 🧪 writeFile writes content at a path relative to dir
func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// 🧪 readFile reads content at a path relative to dir
func readFile(t *testing.T, dir, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, rel))
	require.NoError(t, err)
	return string(data)
}

// 🧪 newApplicator creates an applicator for a temp base directory
func newApplicator(t *testing.T, dir string, cfg *config.Config) *apply.Applicator {
	t.Helper()
	a, err := apply.New(dir, cfg)
	require.NoError(t, err)
	return a
}

// 🧪 TestNew tests applicator construction preconditions
func TestNew(t *testing.T) {
	dir := t.TempDir()

	_, err := apply.New(dir, nil)
	require.Error(t, err)

	_, err = apply.New(filepath.Join(dir, "does-not-exist"), config.Default())
	require.Error(t, err)

	writeFile(t, dir, "a-file", "x\n")
	_, err = apply.New(filepath.Join(dir, "a-file"), config.Default())
	require.Error(t, err)

	_, err = apply.New(dir, config.Default())
	require.NoError(t, err)
}

// 🧪 TestEntry_ReplaceLines tests a full single-change replacement
func TestEntry_ReplaceLines(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "src/main.py", "def main():\n    print('Hello')\n    return 0\n")

	a := newApplicator(t, dir, config.Default())
	res := a.Entry(testContext(t), patch.FileEntry{
		File:   "src/main.py",
		Action: patch.ActionReplaceLines,
		Changes: []patch.LineChange{
			{
				OriginalLines: []string{"    print('Hello')"},
				ChangedLines:  []string{"    print('Hello, World!')"},
			},
		},
	})

	assert.True(t, res.Success())
	assert.Equal(t, 1, res.Applied)
	assert.Empty(t, res.Records)
	assert.Equal(t, "def main():\n    print('Hello, World!')\n    return 0\n", readFile(t, dir, "src/main.py"))
}

// 🧪 TestEntry_SequentialChangesSeePriorEdits tests that later changes in an
// entry match against the already-patched content
func TestEntry_SequentialChangesSeePriorEdits(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app.go", "alpha\nbeta\ngamma\n")

	a := newApplicator(t, dir, config.Default())
	res := a.Entry(testContext(t), patch.FileEntry{
		File:   "app.go",
		Action: patch.ActionReplaceLines,
		Changes: []patch.LineChange{
			{
				OriginalLines: []string{"beta"},
				ChangedLines:  []string{"beta-one", "beta-two"},
			},
			{
				// Matches a line introduced by the previous change.
				OriginalLines: []string{"beta-two", "gamma"},
				ChangedLines:  []string{"delta"},
			},
		},
	})

	assert.True(t, res.Success())
	assert.Equal(t, 2, res.Applied)
	assert.Equal(t, "alpha\nbeta-one\ndelta\n", readFile(t, dir, "app.go"))
}

// 🧪 TestEntry_NoRollback tests that an applied change stays applied when a
// later sibling fails
func TestEntry_NoRollback(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app.go", "alpha\nbeta\n")

	cfg := config.Default()
	cfg.Matching.UseFuzzy.Default = false

	a := newApplicator(t, dir, cfg)
	res := a.Entry(testContext(t), patch.FileEntry{
		File:   "app.go",
		Action: patch.ActionReplaceLines,
		Changes: []patch.LineChange{
			{OriginalLines: []string{"alpha"}, ChangedLines: []string{"alpha-new"}},
			{OriginalLines: []string{"no such line"}, ChangedLines: []string{"whatever"}},
		},
	})

	assert.False(t, res.Success())
	assert.Equal(t, 1, res.Applied)
	require.Len(t, res.Records, 1)
	assert.Equal(t, patch.ErrNoMatch, res.Records[0].Type)
	assert.Equal(t, 1, res.Records[0].ChangeIndex)
	assert.Equal(t, "alpha-new\nbeta\n", readFile(t, dir, "app.go"))
}

// 🧪 TestEntry_AmbiguousMatchLeavesFileUntouched tests that a duplicate
// pattern fails loudly without mutating anything
func TestEntry_AmbiguousMatchLeavesFileUntouched(t *testing.T) {
	dir := t.TempDir()
	original := "print('Hello')\nother\nprint('Hello')\n"
	writeFile(t, dir, "dup.py", original)

	a := newApplicator(t, dir, config.Default())
	res := a.Entry(testContext(t), patch.FileEntry{
		File:   "dup.py",
		Action: patch.ActionReplaceLines,
		Changes: []patch.LineChange{
			{OriginalLines: []string{"print('Hello')"}, ChangedLines: []string{"print('Bye')"}},
		},
	})

	assert.False(t, res.Success())
	assert.Equal(t, 0, res.Applied)
	require.Len(t, res.Records, 1)
	assert.Equal(t, patch.ErrMultipleMatches, res.Records[0].Type)
	assert.Equal(t, original, readFile(t, dir, "dup.py"))
}

// 🧪 TestEntry_ValidationBlocksOnlyTheOffendingChange tests per-change
// validation isolation within one entry
func TestEntry_ValidationBlocksOnlyTheOffendingChange(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app.go", "alpha\nbeta\n")

	a := newApplicator(t, dir, config.Default())
	res := a.Entry(testContext(t), patch.FileEntry{
		File:   "app.go",
		Action: patch.ActionReplaceLines,
		Changes: []patch.LineChange{
			{OriginalLines: []string{"alpha"}}, // empty changed_lines, blocked
			{OriginalLines: []string{"beta"}, ChangedLines: []string{"beta-new"}},
		},
	})

	assert.False(t, res.Success())
	assert.Equal(t, 1, res.Applied)
	require.Len(t, res.Records, 1)
	assert.Equal(t, patch.ErrEmptyChangedLines, res.Records[0].Type)
	assert.Equal(t, 0, res.Records[0].ChangeIndex)
	assert.Equal(t, "alpha\nbeta-new\n", readFile(t, dir, "app.go"))
}

// 🧪 TestEntry_ReplaceMissingFile tests replace_lines against an absent file
func TestEntry_ReplaceMissingFile(t *testing.T) {
	a := newApplicator(t, t.TempDir(), config.Default())
	res := a.Entry(testContext(t), patch.FileEntry{
		File:   "nope.go",
		Action: patch.ActionReplaceLines,
		Changes: []patch.LineChange{
			{OriginalLines: []string{"x"}, ChangedLines: []string{"y"}},
		},
	})

	assert.False(t, res.Success())
	require.Len(t, res.Records, 1)
	assert.Equal(t, patch.ErrFileNotFound, res.Records[0].Type)
}

// 🧪 TestEntry_NoTrailingNewlinePreserved tests byte-for-byte newline policy
func TestEntry_NoTrailingNewlinePreserved(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "raw.txt", "first\nsecond")

	a := newApplicator(t, dir, config.Default())
	res := a.Entry(testContext(t), patch.FileEntry{
		File:   "raw.txt",
		Action: patch.ActionReplaceLines,
		Changes: []patch.LineChange{
			{OriginalLines: []string{"second"}, ChangedLines: []string{"2nd"}},
		},
	})

	assert.True(t, res.Success())
	assert.Equal(t, "first\n2nd", readFile(t, dir, "raw.txt"))
}

// 🧪 TestEntry_IdenticalReplacementIsIdentity tests that replacing a range
// with the same lines leaves the file byte-identical
func TestEntry_IdenticalReplacementIsIdentity(t *testing.T) {
	dir := t.TempDir()
	original := "one\ntwo\nthree\n"
	writeFile(t, dir, "same.txt", original)

	a := newApplicator(t, dir, config.Default())
	res := a.Entry(testContext(t), patch.FileEntry{
		File:   "same.txt",
		Action: patch.ActionReplaceLines,
		Changes: []patch.LineChange{
			{OriginalLines: []string{"two"}, ChangedLines: []string{"two"}},
		},
	})

	assert.True(t, res.Success())
	assert.Equal(t, 1, res.Applied)
	assert.Equal(t, original, readFile(t, dir, "same.txt"))
}

// 🧪 TestEntry_CreateFile tests file creation including nested directories
func TestEntry_CreateFile(t *testing.T) {
	dir := t.TempDir()
	a := newApplicator(t, dir, config.Default())

	entry := patch.FileEntry{
		File:   "docs/guide/intro.md",
		Action: patch.ActionCreateFile,
		Changes: []patch.LineChange{
			{ChangedLines: []string{"# Intro", "", "Welcome."}},
		},
	}

	res := a.Entry(testContext(t), entry)
	assert.True(t, res.Success())
	assert.Equal(t, 1, res.Applied)
	assert.Equal(t, "# Intro\n\nWelcome.\n", readFile(t, dir, "docs/guide/intro.md"))

	// A second create against the same path must not overwrite.
	res = a.Entry(testContext(t), entry)
	assert.False(t, res.Success())
	require.Len(t, res.Records, 1)
	assert.Equal(t, patch.ErrFileAlreadyExists, res.Records[0].Type)
	assert.Equal(t, "# Intro\n\nWelcome.\n", readFile(t, dir, "docs/guide/intro.md"))
}

// 🧪 TestEntry_DeleteFile tests the deletion permission gate
func TestEntry_DeleteFile(t *testing.T) {
	t.Run("denied_by_default", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "victim.txt", "bye\n")

		a := newApplicator(t, dir, config.Default())
		res := a.Entry(testContext(t), patch.FileEntry{File: "victim.txt", Action: patch.ActionDeleteFile})

		assert.False(t, res.Success())
		require.Len(t, res.Records, 1)
		assert.Equal(t, patch.ErrPermissionDenied, res.Records[0].Type)
		assert.FileExists(t, filepath.Join(dir, "victim.txt"))
	})

	t.Run("allowed_by_config", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "victim.txt", "bye\n")

		cfg := config.Default()
		cfg.AllowFileDeletion = true

		a := newApplicator(t, dir, cfg)
		res := a.Entry(testContext(t), patch.FileEntry{File: "victim.txt", Action: patch.ActionDeleteFile})

		assert.True(t, res.Success())
		assert.Equal(t, 1, res.Applied)
		assert.NoFileExists(t, filepath.Join(dir, "victim.txt"))
	})

	t.Run("missing_file", func(t *testing.T) {
		cfg := config.Default()
		cfg.AllowFileDeletion = true

		a := newApplicator(t, t.TempDir(), cfg)
		res := a.Entry(testContext(t), patch.FileEntry{File: "ghost.txt", Action: patch.ActionDeleteFile})

		assert.False(t, res.Success())
		require.Len(t, res.Records, 1)
		assert.Equal(t, patch.ErrFileNotFound, res.Records[0].Type)
	})
}

// 🧪 TestEntry_PathContainment tests that entry paths cannot leave the base
// directory
func TestEntry_PathContainment(t *testing.T) {
	a := newApplicator(t, t.TempDir(), config.Default())

	tests := []struct {
		name string
		path string
	}{
		{name: "parent_escape", path: "../outside.txt"},
		{name: "nested_escape", path: "sub/../../outside.txt"},
		{name: "absolute_path", path: string(filepath.Separator) + "etc/passwd"},
		{name: "empty_path", path: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := a.Entry(testContext(t), patch.FileEntry{
				File:   tt.path,
				Action: patch.ActionReplaceLines,
				Changes: []patch.LineChange{
					{OriginalLines: []string{"x"}, ChangedLines: []string{"y"}},
				},
			})

			assert.False(t, res.Success())
			require.Len(t, res.Records, 1)
			assert.Equal(t, patch.ErrPermissionDenied, res.Records[0].Type)
		})
	}
}

// 🧪 TestEntry_IgnorePattern tests doublestar ignore pattern skipping
func TestEntry_IgnorePattern(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "deps/go.lock", "pinned\n")

	cfg := config.Default()
	cfg.IgnorePatterns = []string{"**/*.lock"}

	a := newApplicator(t, dir, cfg)
	res := a.Entry(testContext(t), patch.FileEntry{
		File:   "deps/go.lock",
		Action: patch.ActionReplaceLines,
		Changes: []patch.LineChange{
			{OriginalLines: []string{"pinned"}, ChangedLines: []string{"changed"}},
		},
	})

	assert.True(t, res.Skipped)
	assert.True(t, res.Success())
	assert.Equal(t, 0, res.Applied)
	assert.Equal(t, "pinned\n", readFile(t, dir, "deps/go.lock"))
}

// 🧪 TestEntry_InvalidAction tests the exhaustive-switch fallback
func TestEntry_InvalidAction(t *testing.T) {
	a := newApplicator(t, t.TempDir(), config.Default())
	res := a.Entry(testContext(t), patch.FileEntry{File: "a.go", Action: patch.Action("truncate_file")})

	assert.False(t, res.Success())
	require.Len(t, res.Records, 1)
	assert.Equal(t, patch.ErrInvalidAction, res.Records[0].Type)
}

// 🧪 TestResultInfo tests the aggregated success record for an entry
func TestResultInfo(t *testing.T) {
	res := apply.Result{File: "a.go", Action: patch.ActionReplaceLines, Applied: 2}
	info := res.Info()

	assert.Equal(t, patch.SeverityInfo, info.Severity)
	assert.False(t, info.IsError())
	assert.Equal(t, "a.go", info.File)
	assert.Equal(t, "applied 2 change(s)", info.Message)
	assert.Equal(t, "replace_lines", info.Details["action"])
	assert.Equal(t, 2, info.Details["count"])
}

// 🧪 TestRun tests the package entry point with a mixed batch: every entry is
// attempted and the aggregate reflects per-entry outcomes
func TestRun(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ok.txt", "hello\n")

	entries := []patch.FileEntry{
		{
			File:   "ok.txt",
			Action: patch.ActionReplaceLines,
			Changes: []patch.LineChange{
				{OriginalLines: []string{"hello"}, ChangedLines: []string{"goodbye"}},
			},
		},
		{
			File:   "missing.txt",
			Action: patch.ActionReplaceLines,
			Changes: []patch.LineChange{
				{OriginalLines: []string{"x"}, ChangedLines: []string{"y"}},
			},
		},
		{
			File:   "fresh.txt",
			Action: patch.ActionCreateFile,
			Changes: []patch.LineChange{
				{ChangedLines: []string{"new content"}},
			},
		},
	}

	results, err := apply.Run(testContext(t), entries, dir, config.Default())
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.True(t, results[0].Success())
	assert.False(t, results[1].Success())
	assert.True(t, results[2].Success())
	assert.False(t, apply.AllSucceeded(results))

	// The failing middle entry did not stop its siblings.
	assert.Equal(t, "goodbye\n", readFile(t, dir, "ok.txt"))
	assert.Equal(t, "new content\n", readFile(t, dir, "fresh.txt"))
}
