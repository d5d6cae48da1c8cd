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

// Package prepdir handles the legacy free-text "prepped directory" format:
// whole-file contents between Begin File / End File markers, optionally
// followed by an Additional Commands block. The parsed document is compared
// against a snapshot of the base directory and converted into the same file
// entries the structured JSON flow uses.
package prepdir

import (
	"bufio"
	"context"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📄 Document is a parsed prepped-dir file: per-path contents plus any
// additional commands. Commands are surfaced to the user, never executed.
type Document struct {
	Files    map[string]string
	Order    []string // paths in document order
	Commands []string
}

var (
	// Marker lines are a run of = (optionally mixed with -) around the text.
	delim               = `\s*=*-*=+\s*`
	beginFilePattern    = regexp.MustCompile(`^` + delim + `Begin File:\s*['"](.+?)['"]` + delim)
	endFilePattern      = regexp.MustCompile(`^` + delim + `End File:\s*['"](.+?)['"]` + delim)
	beginCommandPattern = regexp.MustCompile(`^` + delim + `Begin Additional Commands` + delim)
	endCommandPattern   = regexp.MustCompile(`^` + delim + `End Additional Commands` + delim)
)

// 📝 Parse reads a prepped-dir document from r. A mismatched End File marker
// is a hard error: the document was mangled by the generator and nothing in
// it can be trusted.
func Parse(ctx context.Context, r io.Reader) (*Document, error) {
	doc := &Document{Files: map[string]string{}}

	var (
		currentFile    string
		currentContent []string
		inContent      bool
		inCommands     bool
	)

	flush := func() {
		if currentFile != "" && inContent && len(currentContent) > 0 {
			doc.Files[currentFile] = strings.TrimSpace(strings.Join(currentContent, "\n"))
			doc.Order = append(doc.Order, currentFile)
		}
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\n")

		if m := beginFilePattern.FindStringSubmatch(line); m != nil {
			flush()
			currentFile = m[1]
			currentContent = nil
			inContent = true
			inCommands = false
			continue
		}

		if m := endFilePattern.FindStringSubmatch(line); m != nil {
			if currentFile != "" && inContent {
				if m[1] != currentFile {
					return nil, errors.Errorf("mismatched End File marker: expected %q, got %q", currentFile, m[1])
				}
				flush()
			}
			currentFile = ""
			currentContent = nil
			inContent = false
			continue
		}

		if beginCommandPattern.MatchString(line) {
			flush()
			currentFile = ""
			currentContent = nil
			inContent = false
			inCommands = true
			continue
		}

		if endCommandPattern.MatchString(line) {
			inCommands = false
			continue
		}

		// Header lines emitted by the prepping tool.
		if strings.HasPrefix(line, "File listing generated") || strings.HasPrefix(line, "Base directory is") {
			continue
		}

		switch {
		case inContent:
			currentContent = append(currentContent, line)
		case inCommands:
			doc.Commands = append(doc.Commands, strings.TrimSpace(line))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Errorf("reading prepped-dir document: %w", err)
	}

	// Document may end without a final End File marker.
	flush()

	zerolog.Ctx(ctx).Debug().
		Int("files", len(doc.Files)).
		Int("commands", len(doc.Commands)).
		Msg("parsed prepped-dir document")
	return doc, nil
}

// 🎯 ParseFile parses a prepped-dir document from disk
func ParseFile(ctx context.Context, path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Errorf("opening prepped-dir file: %w", err)
	}
	defer f.Close()
	return Parse(ctx, f)
}
