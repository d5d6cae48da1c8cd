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

// Package status renders apply results for the console.
package status

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/walteh/applydir/pkg/apply"
	"github.com/walteh/applydir/pkg/patch"
)

// ResultFormatter defines how apply results are rendered for the user
type ResultFormatter interface {
	// FormatResult formats one file entry's outcome
	FormatResult(res apply.Result) string

	// FormatRecord formats one error/warning record
	FormatRecord(rec patch.ErrorRecord) string

	// FormatSummary formats the run-wide summary line
	FormatSummary(results []apply.Result) string
}

// DefaultFormatter provides the default colorized implementation
type DefaultFormatter struct{}

// NewDefaultFormatter creates a new DefaultFormatter
func NewDefaultFormatter() *DefaultFormatter {
	return &DefaultFormatter{}
}

// FormatResult formats one file entry's outcome
func (f *DefaultFormatter) FormatResult(res apply.Result) string {
	switch {
	case res.Skipped:
		return fmt.Sprintf("%s %s (%s)",
			color.New(color.FgYellow).Sprint("-"), res.File, "skipped")
	case !res.Success():
		return fmt.Sprintf("%s %s (%s, %d error(s))",
			color.New(color.FgRed).Sprint("✗"), res.File, res.Action, len(res.Errors()))
	case res.Action == patch.ActionDeleteFile:
		return fmt.Sprintf("%s %s (deleted)",
			color.New(color.FgRed).Sprint("✓"), res.File)
	case res.Action == patch.ActionCreateFile:
		return fmt.Sprintf("%s %s (created)",
			color.New(color.FgGreen).Sprint("✓"), res.File)
	default:
		return fmt.Sprintf("%s %s (%d change(s) applied)",
			color.New(color.FgBlue).Sprint("⟳"), res.File, res.Applied)
	}
}

// FormatRecord formats one error/warning record
func (f *DefaultFormatter) FormatRecord(rec patch.ErrorRecord) string {
	var c *color.Color
	switch rec.Severity {
	case patch.SeverityError:
		c = color.New(color.FgRed)
	case patch.SeverityWarning:
		c = color.New(color.FgYellow)
	default:
		c = color.New(color.FgCyan)
	}
	return fmt.Sprintf("  %s %s", c.Sprintf("[%s]", rec.Severity), rec.String())
}

// FormatSummary formats the run-wide summary line
func (f *DefaultFormatter) FormatSummary(results []apply.Result) string {
	var applied, failed, skipped int
	for _, res := range results {
		switch {
		case res.Skipped:
			skipped++
		case res.Success():
			applied++
		default:
			failed++
		}
	}

	parts := []string{fmt.Sprintf("%d applied", applied)}
	if failed > 0 {
		parts = append(parts, color.New(color.FgRed).Sprintf("%d failed", failed))
	}
	if skipped > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped", skipped))
	}

	if failed == 0 {
		return fmt.Sprintf("✅ %s", strings.Join(parts, ", "))
	}
	return fmt.Sprintf("❌ %s", strings.Join(parts, ", "))
}
