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

// Package patch defines the structured change model consumed by the
// applicator: file entries, line changes and the error taxonomy.
package patch

import (
	"gitlab.com/tozd/go/errors"
)

// 🎬 Action is the operation requested for a file entry
type Action string

const (
	ActionReplaceLines Action = "replace_lines"
	ActionCreateFile   Action = "create_file"
	ActionDeleteFile   Action = "delete_file"
)

// ParseAction converts the wire representation of an action into an Action.
// Unknown values are rejected here, at the boundary, so the applicator can
// switch exhaustively.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionReplaceLines, ActionCreateFile, ActionDeleteFile:
		return Action(s), nil
	default:
		return "", errors.Errorf("invalid action: %q", s)
	}
}

// String returns the wire representation of the action
func (a Action) String() string {
	return string(a)
}

// 🔄 LineChange is one expected-lines to replacement-lines pair.
// OriginalLines is the content expected to exist in the file (empty for
// create_file), ChangedLines is what replaces it.
type LineChange struct {
	OriginalLines []string `json:"original_lines"`
	ChangedLines  []string `json:"changed_lines"`
}

// 📦 FileEntry is one file's worth of requested changes
type FileEntry struct {
	File    string       `json:"file"`   // path relative to the base directory
	Action  Action       `json:"action"` // what to do with the file
	Changes []LineChange `json:"changes"`
}

// 📐 MatchRange is a half-open [Start,End) line index range located by the
// matcher in the file content current at match time. It is only meaningful
// for the single change application that produced it.
type MatchRange struct {
	Start int
	End   int
}

// Len returns the number of lines covered by the range
func (r MatchRange) Len() int {
	return r.End - r.Start
}
