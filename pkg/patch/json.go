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

package patch

import (
	"context"
	"encoding/json"
	"os"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// wireEntry mirrors the JSON envelope produced by the generating tool. The
// action is kept as a raw string so unknown tags are rejected in one place.
type wireEntry struct {
	File    string       `json:"file"`
	Action  string       `json:"action"`
	Changes []LineChange `json:"changes"`
}

type wireEnvelope struct {
	Files []wireEntry `json:"files"`
}

// 📝 ParseChanges decodes the JSON changes document into file entries. Both
// shapes observed in the wild are accepted: a bare array of entries, or an
// object with a top-level "files" array. An entry with a missing path, an
// unknown action or an empty change list (for non-delete actions) fails the
// whole parse: a malformed envelope is caller misuse, not a per-change
// condition.
func ParseChanges(ctx context.Context, data []byte) ([]FileEntry, error) {
	logger := zerolog.Ctx(ctx)

	var raw []wireEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		var env wireEnvelope
		if err2 := json.Unmarshal(data, &env); err2 != nil {
			return nil, errors.Errorf("parsing changes JSON: %w", err)
		}
		raw = env.Files
	}

	if len(raw) == 0 {
		return nil, errors.New("changes JSON must contain a non-empty array of files")
	}

	entries := make([]FileEntry, 0, len(raw))
	for i, we := range raw {
		if we.File == "" {
			return nil, errors.Errorf("entry %d: file path missing or empty", i)
		}

		// Default for envelopes that predate the action field.
		if we.Action == "" {
			we.Action = string(ActionReplaceLines)
		}
		action, err := ParseAction(we.Action)
		if err != nil {
			return nil, errors.Errorf("entry %d (%s): %w", i, we.File, err)
		}

		if action == ActionDeleteFile {
			if len(we.Changes) > 0 {
				return nil, errors.Errorf("entry %d (%s): delete_file must not carry changes", i, we.File)
			}
		} else if len(we.Changes) == 0 {
			return nil, errors.Errorf("entry %d (%s): changes array is empty", i, we.File)
		}

		entries = append(entries, FileEntry{
			File:    we.File,
			Action:  action,
			Changes: we.Changes,
		})
	}

	logger.Debug().Int("entries", len(entries)).Msg("parsed changes document")
	return entries, nil
}

// 🎯 LoadChanges reads and parses a changes document from disk
func LoadChanges(ctx context.Context, path string) ([]FileEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading changes file: %w", err)
	}
	return ParseChanges(ctx, data)
}
