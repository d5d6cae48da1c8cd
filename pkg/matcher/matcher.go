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

// Package matcher locates the line range a change's original_lines refer to
// in the current file content. An exact pass over normalized windows runs
// first; a fuzzy pass runs only when the exact pass finds nothing and fuzzy
// matching is enabled for the file's extension. The two passes never mix:
// exact matches are ground truth, and a fuzzy near-duplicate must never
// outrank or tie with one.
package matcher

import (
	"context"
	"slices"

	"github.com/rs/zerolog"
	"github.com/walteh/applydir/pkg/config"
	"github.com/walteh/applydir/pkg/patch"
)

// 🔍 Matcher finds line ranges using the run's matching configuration
type Matcher struct {
	cfg *config.Config
}

// 🏭 New creates a new matcher
func New(cfg *config.Config) *Matcher {
	return &Matcher{cfg: cfg}
}

// 🎯 Match returns the single line range where change.OriginalLines occur in
// fileLines, or a classified failure record. It never returns more than one
// range: zero or multiple candidates at whichever pass ran are reported as
// no_match / multiple_matches and the caller must not guess.
func (m *Matcher) Match(ctx context.Context, fileLines []string, change patch.LineChange, filePath string) (patch.MatchRange, *patch.ErrorRecord) {
	logger := zerolog.Ctx(ctx)

	if len(fileLines) == 0 {
		rec := patch.NewError(patch.ErrNoMatch, filePath, 0, "no match: file is empty", map[string]any{
			"reason": "empty_file",
		})
		return patch.MatchRange{}, &rec
	}
	if len(change.OriginalLines) == 0 {
		rec := patch.NewError(patch.ErrNoMatch, filePath, 0, "no match: original_lines is empty", map[string]any{
			"reason": "empty_pattern",
		})
		return patch.MatchRange{}, &rec
	}

	mode := m.cfg.WhitespaceFor(filePath)
	caseInsensitive := m.cfg.Matching.CaseInsensitive
	pattern := normalizeLines(change.OriginalLines, mode, caseInsensitive)
	content := normalizeLines(fileLines, mode, caseInsensitive)

	n := len(content)
	size := len(pattern)
	logger.Debug().
		Str("file", filePath).
		Str("whitespace", string(mode)).
		Int("file_lines", n).
		Int("pattern_lines", size).
		Msg("matching original_lines")

	// Exact pass: collect every offset whose window equals the pattern.
	var exact []int
	for i := 0; i+size <= n; i++ {
		if slices.Equal(content[i:i+size], pattern) {
			exact = append(exact, i)
		}
	}

	switch {
	case len(exact) == 1:
		return patch.MatchRange{Start: exact[0], End: exact[0] + size}, nil
	case len(exact) > 1:
		rec := patch.NewError(patch.ErrMultipleMatches, filePath, 0, "multiple matches found for original_lines", map[string]any{
			"match_count":   len(exact),
			"match_indices": exact,
		})
		return patch.MatchRange{}, &rec
	}

	if !m.cfg.UseFuzzyFor(filePath) {
		rec := patch.NewError(patch.ErrNoMatch, filePath, 0, "no matching lines found", map[string]any{
			"fuzzy": false,
		})
		return patch.MatchRange{}, &rec
	}

	// Fuzzy pass: only reached with zero exact matches.
	threshold := m.cfg.SimilarityThresholdFor(filePath)
	metric := m.cfg.SimilarityMetricFor(filePath)
	logger.Debug().
		Str("file", filePath).
		Str("metric", string(metric)).
		Float64("threshold", threshold).
		Msg("exact pass found nothing, trying fuzzy")

	var fuzzy []int
	for i := 0; i+size <= n; i++ {
		window := content[i : i+size]
		var ratio float64
		if metric == config.MetricLevenshtein {
			ratio = levenshteinRatio(window, pattern)
		} else {
			ratio = sequenceRatio(window, pattern)
		}
		if ratio >= threshold {
			fuzzy = append(fuzzy, i)
		}
	}

	switch {
	case len(fuzzy) == 0:
		rec := patch.NewError(patch.ErrNoMatch, filePath, 0, "no matching lines found", map[string]any{
			"fuzzy":     true,
			"metric":    string(metric),
			"threshold": threshold,
		})
		return patch.MatchRange{}, &rec
	case len(fuzzy) > 1:
		rec := patch.NewError(patch.ErrMultipleMatches, filePath, 0, "multiple fuzzy matches found for original_lines", map[string]any{
			"match_count":   len(fuzzy),
			"match_indices": fuzzy,
			"metric":        string(metric),
			"threshold":     threshold,
		})
		return patch.MatchRange{}, &rec
	}

	return patch.MatchRange{Start: fuzzy[0], End: fuzzy[0] + size}, nil
}
