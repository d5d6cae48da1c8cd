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

// Package apply orchestrates change application: per-entry precondition
// checks, validation, matching, and the actual file mutation. Every failure
// is recovered locally into the entry's result; one bad change never aborts
// its siblings and one bad entry never aborts the run.
package apply

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/applydir/pkg/config"
	"github.com/walteh/applydir/pkg/matcher"
	"github.com/walteh/applydir/pkg/patch"
	"github.com/walteh/applydir/pkg/validate"
	"gitlab.com/tozd/go/errors"
)

// 🎮 Applicator applies file entries under a base directory
type Applicator struct {
	cfg     *config.Config
	baseDir string
	matcher *matcher.Matcher
}

// 🏭 New creates an applicator rooted at baseDir. The base directory must
// exist; every entry path must resolve inside it.
func New(baseDir string, cfg *config.Config) (*Applicator, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, errors.Errorf("resolving base directory: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, errors.Errorf("base directory: %w", err)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("base directory %s is not a directory", abs)
	}
	return &Applicator{
		cfg:     cfg,
		baseDir: abs,
		matcher: matcher.New(cfg),
	}, nil
}

// 🚀 Run is the single entry point for a full run: it builds an applicator
// for baseDir and applies every entry in input order.
func Run(ctx context.Context, entries []patch.FileEntry, baseDir string, cfg *config.Config) ([]Result, error) {
	a, err := New(baseDir, cfg)
	if err != nil {
		return nil, errors.Errorf("creating applicator: %w", err)
	}
	return a.All(ctx, entries), nil
}

// 🎯 All applies every entry in input order and returns one result per
// entry. Entries are attempted regardless of earlier outcomes; overall
// success is the AND of the per-entry results (see AllSucceeded).
func (a *Applicator) All(ctx context.Context, entries []patch.FileEntry) []Result {
	logger := zerolog.Ctx(ctx)
	results := make([]Result, 0, len(entries))
	for _, entry := range entries {
		res := a.Entry(ctx, entry)
		logger.Info().
			Str("file", res.File).
			Str("action", res.Action.String()).
			Int("applied", res.Applied).
			Bool("success", res.Success()).
			Msg("processed file entry")
		results = append(results, res)
	}
	return results
}

// 📦 Entry applies a single file entry
func (a *Applicator) Entry(ctx context.Context, entry patch.FileEntry) Result {
	res := Result{File: entry.File, Action: entry.Action}

	if pattern := a.matchIgnore(entry.File); pattern != "" {
		zerolog.Ctx(ctx).Debug().Str("file", entry.File).Str("pattern", pattern).Msg("entry ignored")
		res.Skipped = true
		res.Records = append(res.Records, patch.ErrorRecord{
			Severity: patch.SeverityInfo,
			Message:  "entry skipped by ignore pattern",
			File:     entry.File,
			Details:  map[string]any{"pattern": pattern},
		})
		return res
	}

	target, err := a.resolvePath(entry.File)
	if err != nil {
		res.Records = append(res.Records, patch.NewError(patch.ErrPermissionDenied, entry.File, 0,
			err.Error(), map[string]any{"reason": "path_escape"}))
		return res
	}

	switch entry.Action {
	case patch.ActionDeleteFile:
		a.deleteFile(ctx, entry, target, &res)
	case patch.ActionCreateFile, patch.ActionReplaceLines:
		for i, change := range entry.Changes {
			a.applyChange(ctx, entry, i, change, target, &res)
		}
	default:
		res.Records = append(res.Records, patch.NewError(patch.ErrInvalidAction, entry.File, 0,
			"unknown action", map[string]any{"action": string(entry.Action)}))
	}

	return res
}

// applyChange runs one change through validation, matching and mutation.
// An Error-severity validation record skips the change but never its
// siblings; warnings are recorded and the change proceeds.
func (a *Applicator) applyChange(ctx context.Context, entry patch.FileEntry, idx int, change patch.LineChange, target string, res *Result) {
	records := validate.Change(entry.Action, change, entry.File, a.cfg)
	blocked := false
	for _, rec := range records {
		rec.ChangeIndex = idx
		res.Records = append(res.Records, rec)
		if rec.IsError() {
			blocked = true
		}
	}
	if blocked {
		return
	}

	switch entry.Action {
	case patch.ActionCreateFile:
		a.createFile(ctx, entry, idx, change, target, res)
	case patch.ActionReplaceLines:
		a.replaceLines(ctx, entry, idx, change, target, res)
	}
}

// createFile writes changed_lines as a new file. An existing file is never
// overwritten.
func (a *Applicator) createFile(ctx context.Context, entry patch.FileEntry, idx int, change patch.LineChange, target string, res *Result) {
	if _, err := os.Stat(target); err == nil {
		res.Records = append(res.Records, patch.NewError(patch.ErrFileAlreadyExists, entry.File, idx,
			"file already exists", nil))
		return
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		res.Records = append(res.Records, fsError(entry.File, idx, "creating parent directory", err))
		return
	}
	content := strings.Join(change.ChangedLines, "\n") + "\n"
	if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
		res.Records = append(res.Records, fsError(entry.File, idx, "writing file", err))
		return
	}

	zerolog.Ctx(ctx).Debug().Str("file", entry.File).Msg("created file")
	res.Applied++
}

// replaceLines locates original_lines in the current on-disk content and
// splices changed_lines over the matched range. The file is re-read for
// every change, so later changes in the same entry match against the
// already-patched content.
func (a *Applicator) replaceLines(ctx context.Context, entry patch.FileEntry, idx int, change patch.LineChange, target string, res *Result) {
	if _, err := os.Stat(target); err != nil {
		if os.IsNotExist(err) {
			res.Records = append(res.Records, patch.NewError(patch.ErrFileNotFound, entry.File, idx,
				"file not found", nil))
		} else {
			res.Records = append(res.Records, fsError(entry.File, idx, "checking file", err))
		}
		return
	}

	lines, hadTrailingNewline, err := readLines(target)
	if err != nil {
		res.Records = append(res.Records, fsError(entry.File, idx, "reading file", err))
		return
	}

	rng, matchErr := a.matcher.Match(ctx, lines, change, entry.File)
	if matchErr != nil {
		rec := *matchErr
		rec.ChangeIndex = idx
		res.Records = append(res.Records, rec)
		return
	}

	patched := make([]string, 0, len(lines)-rng.Len()+len(change.ChangedLines))
	patched = append(patched, lines[:rng.Start]...)
	patched = append(patched, change.ChangedLines...)
	patched = append(patched, lines[rng.End:]...)

	if err := writeLines(target, patched, hadTrailingNewline); err != nil {
		res.Records = append(res.Records, fsError(entry.File, idx, "writing file", err))
		return
	}

	zerolog.Ctx(ctx).Debug().
		Str("file", entry.File).
		Int("start", rng.Start).
		Int("end", rng.End).
		Msg("replaced lines")
	res.Applied++
}

// deleteFile removes the target if deletion is allowed and the file exists
func (a *Applicator) deleteFile(ctx context.Context, entry patch.FileEntry, target string, res *Result) {
	if !a.cfg.AllowFileDeletion {
		res.Records = append(res.Records, patch.NewError(patch.ErrPermissionDenied, entry.File, 0,
			"file deletion is disabled by configuration", nil))
		return
	}
	if _, err := os.Stat(target); err != nil {
		if os.IsNotExist(err) {
			res.Records = append(res.Records, patch.NewError(patch.ErrFileNotFound, entry.File, 0,
				"file not found", nil))
		} else {
			res.Records = append(res.Records, fsError(entry.File, 0, "checking file", err))
		}
		return
	}
	if err := os.Remove(target); err != nil {
		res.Records = append(res.Records, fsError(entry.File, 0, "deleting file", err))
		return
	}

	zerolog.Ctx(ctx).Debug().Str("file", entry.File).Msg("deleted file")
	res.Applied = 1
}

// resolvePath joins a relative entry path onto the base directory and
// rejects anything that escapes it.
func (a *Applicator) resolvePath(rel string) (string, error) {
	if rel == "" {
		return "", errors.New("file path is empty")
	}
	if filepath.IsAbs(rel) {
		return "", errors.Errorf("file path %s must be relative", rel)
	}
	target := filepath.Join(a.baseDir, rel)
	inside, err := filepath.Rel(a.baseDir, target)
	if err != nil {
		return "", errors.Errorf("resolving path %s: %w", rel, err)
	}
	if inside == ".." || strings.HasPrefix(inside, ".."+string(filepath.Separator)) {
		return "", errors.Errorf("file path %s escapes the base directory", rel)
	}
	return target, nil
}

// matchIgnore returns the first ignore pattern matching the entry path
func (a *Applicator) matchIgnore(rel string) string {
	for _, pattern := range a.cfg.IgnorePatterns {
		matched, err := doublestar.Match(pattern, filepath.ToSlash(rel))
		if err == nil && matched {
			return pattern
		}
	}
	return ""
}

// fsError wraps an unexpected I/O failure into a file_system record
func fsError(file string, idx int, op string, err error) patch.ErrorRecord {
	return patch.NewError(patch.ErrFileSystem, file, idx, op+" failed", map[string]any{
		"cause": err.Error(),
	})
}

// readLines splits a file into lines, remembering whether it ended with a
// newline so the write side can preserve it byte-for-byte.
func readLines(path string) ([]string, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, err
	}
	lines, hadTrailingNewline := splitContent(string(data))
	return lines, hadTrailingNewline, nil
}

// writeLines joins lines back into file content
func writeLines(path string, lines []string, trailingNewline bool) error {
	content := strings.Join(lines, "\n")
	if trailingNewline {
		content += "\n"
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
