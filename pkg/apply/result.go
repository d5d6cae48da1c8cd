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
	"fmt"

	"github.com/walteh/applydir/pkg/patch"
)

// 📋 Result is the outcome of processing one file entry. Applied counts the
// changes that actually mutated the filesystem; Records carries every error
// and warning produced along the way. Already-applied changes stay applied
// even when later siblings fail: there is no rollback.
type Result struct {
	File    string              `json:"file"`
	Action  patch.Action        `json:"action"`
	Applied int                 `json:"applied"`
	Skipped bool                `json:"skipped,omitempty"`
	Records []patch.ErrorRecord `json:"records,omitempty"`
}

// ✅ Success reports whether the entry completed without any Error-severity
// record. Warnings do not flip an entry to failure.
func (r Result) Success() bool {
	return !patch.HasBlockingError(r.Records)
}

// Errors returns only the Error-severity records
func (r Result) Errors() []patch.ErrorRecord {
	var out []patch.ErrorRecord
	for _, rec := range r.Records {
		if rec.IsError() {
			out = append(out, rec)
		}
	}
	return out
}

// 📝 Info renders the aggregated success record for the entry
func (r Result) Info() patch.ErrorRecord {
	return patch.ErrorRecord{
		Severity: patch.SeverityInfo,
		Message:  fmt.Sprintf("applied %d change(s)", r.Applied),
		File:     r.File,
		Details: map[string]any{
			"action": r.Action.String(),
			"count":  r.Applied,
		},
	}
}

// 🎯 AllSucceeded reports whether every entry in a run succeeded
func AllSucceeded(results []Result) bool {
	for _, r := range results {
		if !r.Success() {
			return false
		}
	}
	return true
}
