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

package matcher

import (
	"strings"
	"unicode"

	"github.com/walteh/applydir/pkg/config"
)

// normalizeLine applies the resolved whitespace mode and optional case
// folding to a single line. Both sides of a comparison always go through the
// same normalization.
func normalizeLine(line string, mode config.WhitespaceMode, caseInsensitive bool) string {
	var norm string
	switch mode {
	case config.WhitespaceStrict:
		norm = line
	case config.WhitespaceRemove, config.WhitespaceIgnore:
		norm = stripSpaces(line)
	case config.WhitespaceCollapse:
		norm = collapseSpaces(strings.TrimSpace(line))
	default:
		// Unknown modes fall back to collapse, same as the config default.
		norm = collapseSpaces(strings.TrimSpace(line))
	}
	if caseInsensitive {
		norm = strings.ToLower(norm)
	}
	return norm
}

// normalizeLines normalizes every line in a slice
func normalizeLines(lines []string, mode config.WhitespaceMode, caseInsensitive bool) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = normalizeLine(line, mode, caseInsensitive)
	}
	return out
}

// collapseSpaces replaces runs of whitespace with a single space
func collapseSpaces(s string) string {
	var b strings.Builder
	inSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte(' ')
				inSpace = true
			}
		} else {
			b.WriteRune(r)
			inSpace = false
		}
	}
	return b.String()
}

// stripSpaces removes all whitespace characters
func stripSpaces(s string) string {
	var b strings.Builder
	for _, r := range s {
		if !unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
