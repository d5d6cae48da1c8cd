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

package prepdir

import (
	"strings"

	"github.com/walteh/applydir/pkg/patch"
)

// 🔄 ToEntries compares the parsed document against the snapshot and builds
// file entries in document order: create_file for paths missing from the
// snapshot, whole-content replace_lines for paths whose content changed.
// Unchanged files produce no entry.
func ToEntries(doc *Document, snapshot map[string]string) []patch.FileEntry {
	var entries []patch.FileEntry
	for _, path := range doc.Order {
		content := doc.Files[path]
		original, exists := snapshot[path]
		if !exists {
			entries = append(entries, patch.FileEntry{
				File:   path,
				Action: patch.ActionCreateFile,
				Changes: []patch.LineChange{{
					ChangedLines: splitLines(content),
				}},
			})
			continue
		}
		if strings.TrimSpace(original) == content {
			continue
		}
		entries = append(entries, patch.FileEntry{
			File:   path,
			Action: patch.ActionReplaceLines,
			Changes: []patch.LineChange{{
				OriginalLines: splitLines(strings.TrimRight(original, "\n")),
				ChangedLines:  splitLines(content),
			}},
		})
	}
	return entries
}

func splitLines(content string) []string {
	if content == "" {
		return []string{""}
	}
	return strings.Split(content, "\n")
}
