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
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// snapshotReaders bounds the concurrent file reads during a snapshot
const snapshotReaders = 8

// 📸 Snapshot reads every text file under baseDir, keyed by slash-separated
// relative path. Binary files are skipped with a warning. Reads run
// concurrently; the snapshot is taken before any mutation, so there is
// nothing to race with.
func Snapshot(ctx context.Context, baseDir string) (map[string]string, error) {
	logger := zerolog.Ctx(ctx)

	var paths []string
	err := filepath.WalkDir(baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(baseDir, path)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("walking base directory: %w", err)
	}

	var mu sync.Mutex
	files := make(map[string]string, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(snapshotReaders)
	for _, rel := range paths {
		rel := rel
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(filepath.Join(baseDir, filepath.FromSlash(rel)))
			if err != nil {
				return errors.Errorf("reading %s: %w", rel, err)
			}
			if isBinary(data) {
				logger.Warn().Str("file", rel).Msg("skipping binary file")
				return nil
			}
			mu.Lock()
			files[rel] = string(data)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Debug().Int("files", len(files)).Msg("snapshotted base directory")
	return files, nil
}

// isBinary treats NUL bytes or invalid UTF-8 as binary content
func isBinary(data []byte) bool {
	if bytes.IndexByte(data, 0) >= 0 {
		return true
	}
	return !utf8.Valid(data)
}
