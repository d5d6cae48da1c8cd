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

// Package validate enforces the structural invariants and content policy a
// line change must satisfy before the applicator attempts it.
package validate

import (
	"fmt"

	"github.com/walteh/applydir/pkg/config"
	"github.com/walteh/applydir/pkg/patch"
)

// ✅ Change checks a single line change against its entry's action and the
// run config. An empty result means the change is valid. Checks are
// independent and cumulative: one change can produce several records.
//
// A replace_lines change with empty changed_lines is a validation error, not
// a delete-these-lines operation: deleting lines is expressed by replacing a
// larger range with its surviving subset. Allowing an empty replacement
// silently would make a truncated generator response destructive.
func Change(action patch.Action, change patch.LineChange, filePath string, cfg *config.Config) []patch.ErrorRecord {
	var records []patch.ErrorRecord

	switch action {
	case patch.ActionCreateFile:
		if len(change.OriginalLines) > 0 {
			records = append(records, patch.NewError(patch.ErrOrigLinesNotEmpty, filePath, 0,
				"original_lines must be empty for create_file", map[string]any{
					"original_line_count": len(change.OriginalLines),
				}))
		}
		if len(change.ChangedLines) == 0 {
			records = append(records, patch.NewError(patch.ErrEmptyChangedLines, filePath, 0,
				"changed_lines must not be empty for create_file", nil))
		}
	case patch.ActionReplaceLines:
		if len(change.OriginalLines) == 0 {
			records = append(records, patch.NewError(patch.ErrOrigLinesEmpty, filePath, 0,
				"original_lines must not be empty for replace_lines", nil))
		}
		if len(change.ChangedLines) == 0 {
			records = append(records, patch.NewError(patch.ErrEmptyChangedLines, filePath, 0,
				"changed_lines must not be empty for replace_lines", nil))
		}
	}

	records = append(records, scanNonASCII(change, filePath, cfg)...)
	return records
}

// scanNonASCII applies the resolved non-ASCII content policy to the
// replacement lines, one record per offending line.
func scanNonASCII(change patch.LineChange, filePath string, cfg *config.Config) []patch.ErrorRecord {
	action := cfg.NonASCIIFor(filePath)
	if action == config.NonASCIIIgnore {
		return nil
	}

	var records []patch.ErrorRecord
	for i, line := range change.ChangedLines {
		if !hasNonASCII(line) {
			continue
		}
		details := map[string]any{
			"line":        line,
			"line_number": i + 1,
		}
		msg := fmt.Sprintf("non-ASCII characters found in changed_lines line %d", i+1)
		if action == config.NonASCIIError {
			records = append(records, patch.NewError(patch.ErrNonASCIIChars, filePath, 0, msg, details))
		} else {
			records = append(records, patch.NewWarning(patch.ErrNonASCIIChars, filePath, 0, msg, details))
		}
	}
	return records
}

func hasNonASCII(line string) bool {
	for _, r := range line {
		if r > 127 {
			return true
		}
	}
	return false
}
