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
	"fmt"
	"strings"
)

// 🏷️ ErrorType is the closed taxonomy of failures the engine can report.
// Processing problems are surfaced as ErrorRecord values, never as panics,
// so one failing change can't take down its siblings.
type ErrorType string

const (
	ErrOrigLinesEmpty    ErrorType = "orig_lines_empty"    // replace_lines with no original_lines
	ErrOrigLinesNotEmpty ErrorType = "orig_lines_not_empty" // create_file with original_lines
	ErrEmptyChangedLines ErrorType = "empty_changed_lines"  // no replacement content
	ErrNonASCIIChars     ErrorType = "non_ascii_chars"      // content policy violation
	ErrFileNotFound      ErrorType = "file_not_found"
	ErrFileAlreadyExists ErrorType = "file_already_exists"
	ErrPermissionDenied  ErrorType = "permission_denied"
	ErrNoMatch           ErrorType = "no_match"
	ErrMultipleMatches   ErrorType = "multiple_matches"
	ErrFileSystem        ErrorType = "file_system" // unexpected I/O failure, carries cause
	ErrInvalidAction     ErrorType = "invalid_action"
)

// 🚦 Severity classifies an ErrorRecord
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// 📋 ErrorRecord is one reportable condition produced while processing a
// change. File and ChangeIndex identify the offending change by value, not by
// pointer, since records may outlive the change buffer.
type ErrorRecord struct {
	Type        ErrorType      `json:"error_type"`
	Severity    Severity       `json:"severity"`
	Message     string         `json:"message"`
	Details     map[string]any `json:"details,omitempty"`
	File        string         `json:"file,omitempty"`
	ChangeIndex int            `json:"change_index"`
}

// NewError builds an Error-severity record
func NewError(typ ErrorType, file string, changeIdx int, msg string, details map[string]any) ErrorRecord {
	return ErrorRecord{
		Type:        typ,
		Severity:    SeverityError,
		Message:     msg,
		Details:     details,
		File:        file,
		ChangeIndex: changeIdx,
	}
}

// NewWarning builds a Warning-severity record
func NewWarning(typ ErrorType, file string, changeIdx int, msg string, details map[string]any) ErrorRecord {
	r := NewError(typ, file, changeIdx, msg, details)
	r.Severity = SeverityWarning
	return r
}

// IsError reports whether the record blocks the change it belongs to
func (r ErrorRecord) IsError() bool {
	return r.Severity == SeverityError
}

// String renders the record for console output
func (r ErrorRecord) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s: %s", r.Severity, r.Type, r.Message)
	if r.File != "" {
		fmt.Fprintf(&b, " (file=%s change=%d)", r.File, r.ChangeIndex)
	}
	return b.String()
}

// HasBlockingError reports whether any record in the list is Error severity.
// Warnings and infos never flip a result to failure.
func HasBlockingError(records []ErrorRecord) bool {
	for _, r := range records {
		if r.IsError() {
			return true
		}
	}
	return false
}
