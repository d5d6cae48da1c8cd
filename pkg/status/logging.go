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

package status

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/applydir/pkg/apply"
	"github.com/walteh/applydir/pkg/patch"
)

// 📢 UserLogger provides user-friendly feedback about apply results
type UserLogger struct {
	log zerolog.Logger // for debug/error logging
}

// 🎯 NewUserLogger creates a new user logger
func NewUserLogger(ctx context.Context) *UserLogger {
	return &UserLogger{
		log: *zerolog.Ctx(ctx),
	}
}

// 📝 LogResult logs one entry's outcome with appropriate prefix and severity
func (u *UserLogger) LogResult(res apply.Result) {
	var printer *pterm.PrefixPrinter
	var action string
	switch {
	case res.Skipped:
		action = "Skipped"
		printer = pterm.Debug.WithPrefix(pterm.Prefix{Text: "⏭️"})
	case !res.Success():
		action = "Failed"
		printer = pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"})
	case res.Action == patch.ActionCreateFile:
		action = "Created"
		printer = pterm.Success.WithPrefix(pterm.Prefix{Text: "✨"})
	case res.Action == patch.ActionDeleteFile:
		action = "Deleted"
		printer = pterm.Warning.WithPrefix(pterm.Prefix{Text: "🗑️"})
	default:
		action = "Updated"
		printer = pterm.Info.WithPrefix(pterm.Prefix{Text: "🔄"})
	}

	msg := fmt.Sprintf("%s %s", action, res.File)
	if res.Applied > 0 && res.Action == patch.ActionReplaceLines {
		msg += fmt.Sprintf(" (%d change(s))", res.Applied)
	}
	printer.Println(msg)

	if !res.Skipped && res.Success() {
		info := res.Info()
		u.log.Info().
			Str("file", info.File).
			Str("action", res.Action.String()).
			Int("count", res.Applied).
			Msg(info.Message)
	}

	for _, rec := range res.Records {
		switch rec.Severity {
		case patch.SeverityError:
			pterm.Error.Println(rec.String())
			u.log.Error().Str("file", rec.File).Str("type", string(rec.Type)).Msg(rec.Message)
		case patch.SeverityWarning:
			pterm.Warning.Println(rec.String())
			u.log.Warn().Str("file", rec.File).Str("type", string(rec.Type)).Msg(rec.Message)
		default:
			u.log.Info().Str("file", rec.File).Msg(rec.Message)
		}
	}
}

// 📊 LogSummary logs the run-wide outcome
func (u *UserLogger) LogSummary(results []apply.Result) {
	if apply.AllSucceeded(results) {
		pterm.Success.Println("all changes applied")
		u.log.Info().Int("entries", len(results)).Msg("all changes applied")
		return
	}
	var failed int
	for _, res := range results {
		if !res.Success() {
			failed++
		}
	}
	pterm.Error.Printfln("%d of %d entries failed", failed, len(results))
	u.log.Error().Int("failed", failed).Int("entries", len(results)).Msg("run completed with errors")
}
