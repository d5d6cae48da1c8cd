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

package config

import (
	"path/filepath"
	"strings"
)

// 📏 Rule is one extension-keyed override in a cascade
type Rule[T any] struct {
	Extensions []string `json:"extensions" yaml:"extensions"`
	Value      T        `json:"value" yaml:"value"`
}

// 🪜 Cascade is an ordered override list with a default fallback. Resolution
// is first-match-wins on the file's lower-cased extension; a file with no
// extension, or no matching rule, gets the default. Every per-file-type
// setting in applydir is one of these.
type Cascade[T any] struct {
	Default T         `json:"default" yaml:"default"`
	Rules   []Rule[T] `json:"rules" yaml:"rules"`
}

// 🎯 Resolve returns the value for the given file path. Total: there is
// always a default, so resolution cannot fail.
func (c Cascade[T]) Resolve(filePath string) T {
	ext := strings.ToLower(filepath.Ext(filePath))
	if ext == "" {
		return c.Default
	}
	for _, rule := range c.Rules {
		if rule.Matches(ext) {
			return rule.Value
		}
	}
	return c.Default
}

// Matches reports whether the rule applies to the given extension
func (r Rule[T]) Matches(ext string) bool {
	for _, e := range r.Extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}
