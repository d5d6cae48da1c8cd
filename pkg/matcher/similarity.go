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
	"unicode/utf8"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// sequenceRatio computes the matched-block similarity ratio between a
// candidate window and the pattern, line-wise. Order-sensitive; 1.0 means
// the normalized windows are identical.
func sequenceRatio(window, pattern []string) float64 {
	return difflib.NewMatcher(window, pattern).Ratio()
}

// levenshteinRatio computes 1 - distance/maxLen over the newline-joined
// window and pattern. Two empty strings are identical (ratio 1.0). Windows
// are always the pattern's line count, so a line-count mismatch means the
// caller passed the wrong slice. DiffLevenshtein counts runes, so maxLen
// must be a rune count too or multibyte text inflates the ratio.
func levenshteinRatio(window, pattern []string) float64 {
	if len(window) != len(pattern) {
		return 0.0
	}
	a := strings.Join(window, "\n")
	b := strings.Join(pattern, "\n")
	if a == b {
		return 1.0
	}
	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 1.0
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(a, b, false)
	distance := dmp.DiffLevenshtein(diffs)
	return 1.0 - float64(distance)/float64(maxLen)
}
