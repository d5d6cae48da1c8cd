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

package apply

import (
	"context"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/applydir/pkg/patch"
	"github.com/walteh/applydir/pkg/validate"
)

// 👀 Preview is the dry-run outcome for one entry: the unified diff the
// entry would produce, plus any records the real run would have hit.
type Preview struct {
	File    string              `json:"file"`
	Action  patch.Action        `json:"action"`
	Diff    string              `json:"diff,omitempty"`
	Records []patch.ErrorRecord `json:"records,omitempty"`
}

// 🔮 PreviewAll runs the same validation and matching as All but splices
// into an in-memory buffer instead of writing, so changes within one entry
// still see their predecessors' edits.
func (a *Applicator) PreviewAll(ctx context.Context, entries []patch.FileEntry) []Preview {
	previews := make([]Preview, 0, len(entries))
	for _, entry := range entries {
		previews = append(previews, a.previewEntry(ctx, entry))
	}
	return previews
}

func (a *Applicator) previewEntry(ctx context.Context, entry patch.FileEntry) Preview {
	pv := Preview{File: entry.File, Action: entry.Action}

	// Same gate as Entry: an ignored entry previews as skipped, not as a diff.
	if pattern := a.matchIgnore(entry.File); pattern != "" {
		zerolog.Ctx(ctx).Debug().Str("file", entry.File).Str("pattern", pattern).Msg("entry ignored")
		pv.Records = append(pv.Records, patch.ErrorRecord{
			Severity: patch.SeverityInfo,
			Message:  "entry skipped by ignore pattern",
			File:     entry.File,
			Details:  map[string]any{"pattern": pattern},
		})
		return pv
	}

	target, err := a.resolvePath(entry.File)
	if err != nil {
		pv.Records = append(pv.Records, patch.NewError(patch.ErrPermissionDenied, entry.File, 0,
			err.Error(), map[string]any{"reason": "path_escape"}))
		return pv
	}

	switch entry.Action {
	case patch.ActionDeleteFile:
		if !a.cfg.AllowFileDeletion {
			pv.Records = append(pv.Records, patch.NewError(patch.ErrPermissionDenied, entry.File, 0,
				"file deletion is disabled by configuration", nil))
			return pv
		}
		if _, err := os.Stat(target); err != nil {
			pv.Records = append(pv.Records, patch.NewError(patch.ErrFileNotFound, entry.File, 0,
				"file not found", nil))
			return pv
		}
		pv.Diff = "would delete " + entry.File + "\n"
		return pv

	case patch.ActionCreateFile:
		for i, change := range entry.Changes {
			for _, rec := range validate.Change(entry.Action, change, entry.File, a.cfg) {
				rec.ChangeIndex = i
				pv.Records = append(pv.Records, rec)
			}
		}
		if patch.HasBlockingError(pv.Records) {
			return pv
		}
		if _, err := os.Stat(target); err == nil {
			pv.Records = append(pv.Records, patch.NewError(patch.ErrFileAlreadyExists, entry.File, 0,
				"file already exists", nil))
			return pv
		}
		content := strings.Join(entry.Changes[0].ChangedLines, "\n") + "\n"
		pv.Diff, _ = patch.UnifiedDiff("", content, entry.File)
		return pv
	}

	// replace_lines: splice into an in-memory buffer change by change.
	before := ""
	if data, err := os.ReadFile(target); err == nil {
		before = string(data)
	} else if os.IsNotExist(err) {
		pv.Records = append(pv.Records, patch.NewError(patch.ErrFileNotFound, entry.File, 0,
			"file not found", nil))
		return pv
	} else {
		pv.Records = append(pv.Records, fsError(entry.File, 0, "reading file", err))
		return pv
	}

	lines, hadTrailingNewline := splitContent(before)
	for i, change := range entry.Changes {
		blocked := false
		for _, rec := range validate.Change(entry.Action, change, entry.File, a.cfg) {
			rec.ChangeIndex = i
			pv.Records = append(pv.Records, rec)
			if rec.IsError() {
				blocked = true
			}
		}
		if blocked {
			continue
		}

		rng, matchErr := a.matcher.Match(ctx, lines, change, entry.File)
		if matchErr != nil {
			rec := *matchErr
			rec.ChangeIndex = i
			pv.Records = append(pv.Records, rec)
			continue
		}

		patched := make([]string, 0, len(lines)-rng.Len()+len(change.ChangedLines))
		patched = append(patched, lines[:rng.Start]...)
		patched = append(patched, change.ChangedLines...)
		patched = append(patched, lines[rng.End:]...)
		lines = patched
	}

	after := strings.Join(lines, "\n")
	if hadTrailingNewline {
		after += "\n"
	}
	if after != before {
		diff, err := patch.UnifiedDiff(before, after, entry.File)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("file", entry.File).Msg("rendering diff")
		}
		pv.Diff = diff
	}
	return pv
}

func splitContent(content string) ([]string, bool) {
	if content == "" {
		return nil, false
	}
	hadTrailingNewline := strings.HasSuffix(content, "\n")
	if hadTrailingNewline {
		content = content[:len(content)-1]
	}
	return strings.Split(content, "\n"), hadTrailingNewline
}
