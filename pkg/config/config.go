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

// Package config loads and resolves applydir configuration: per-extension
// rule cascades for matching and validation behavior, plus run-wide flags.
package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🧹 WhitespaceMode controls how lines are normalized before comparison
type WhitespaceMode string

const (
	WhitespaceStrict   WhitespaceMode = "strict"   // no normalization
	WhitespaceCollapse WhitespaceMode = "collapse" // trim + collapse internal runs
	WhitespaceRemove   WhitespaceMode = "remove"   // strip all whitespace
	WhitespaceIgnore   WhitespaceMode = "ignore"   // alias for remove
)

// 📊 SimilarityMetric selects the fuzzy-pass similarity ratio
type SimilarityMetric string

const (
	MetricSequenceMatcher SimilarityMetric = "sequence_matcher"
	MetricLevenshtein     SimilarityMetric = "levenshtein"
)

// 🚧 NonASCIIAction is the content policy for non-ASCII characters
type NonASCIIAction string

const (
	NonASCIIError   NonASCIIAction = "error"
	NonASCIIWarning NonASCIIAction = "warning"
	NonASCIIIgnore  NonASCIIAction = "ignore"
)

// 🔍 MatchingConfig holds the per-extension matching cascades
type MatchingConfig struct {
	Whitespace       Cascade[WhitespaceMode]   `json:"whitespace" yaml:"whitespace"`
	Similarity       Cascade[float64]          `json:"similarity" yaml:"similarity"`
	SimilarityMetric Cascade[SimilarityMetric] `json:"similarity_metric" yaml:"similarity_metric"`
	UseFuzzy         Cascade[bool]             `json:"use_fuzzy" yaml:"use_fuzzy"`
	CaseInsensitive  bool                      `json:"case_insensitive" yaml:"case_insensitive"`
}

// ✅ ValidationConfig holds the content-policy cascades
type ValidationConfig struct {
	NonASCII Cascade[NonASCIIAction] `json:"non_ascii" yaml:"non_ascii"`
}

// 📚 Config is the complete, run-wide applydir configuration. It is loaded
// once, validated, and shared read-only by every component for the run.
type Config struct {
	AllowFileDeletion bool             `json:"allow_file_deletion" yaml:"allow_file_deletion"`
	IgnorePatterns    []string         `json:"ignore_patterns" yaml:"ignore_patterns"`
	Matching          MatchingConfig   `json:"matching" yaml:"matching"`
	Validation        ValidationConfig `json:"validation" yaml:"validation"`
}

// 🏭 Default returns a config populated with the built-in defaults
func Default() *Config {
	return &Config{
		AllowFileDeletion: false,
		Matching: MatchingConfig{
			Whitespace:       Cascade[WhitespaceMode]{Default: WhitespaceCollapse},
			Similarity:       Cascade[float64]{Default: 0.95},
			SimilarityMetric: Cascade[SimilarityMetric]{Default: MetricSequenceMatcher},
			UseFuzzy:         Cascade[bool]{Default: true},
		},
		Validation: ValidationConfig{
			NonASCII: Cascade[NonASCIIAction]{Default: NonASCIIIgnore},
		},
	}
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// 🔎 Discover looks for a config file in dir (.applydir.yaml, .applydir.yml,
// .applydir.hcl, in that order) and loads it; if none exists, the built-in
// defaults are returned.
func Discover(ctx context.Context, dir string) (*Config, error) {
	for _, name := range []string{".applydir.yaml", ".applydir.yml", ".applydir.hcl"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return Load(ctx, path)
		}
	}
	zerolog.Ctx(ctx).Debug().Str("dir", dir).Msg("no config file found, using defaults")
	return Default(), nil
}

// 🔍 Validate checks if the configuration is valid
func (cfg *Config) Validate() error {
	if err := validWhitespace(cfg.Matching.Whitespace.Default); err != nil {
		return err
	}
	for _, rule := range cfg.Matching.Whitespace.Rules {
		if err := validWhitespace(rule.Value); err != nil {
			return err
		}
	}

	if err := validThreshold(cfg.Matching.Similarity.Default); err != nil {
		return err
	}
	for _, rule := range cfg.Matching.Similarity.Rules {
		if err := validThreshold(rule.Value); err != nil {
			return err
		}
	}

	if err := validMetric(cfg.Matching.SimilarityMetric.Default); err != nil {
		return err
	}
	for _, rule := range cfg.Matching.SimilarityMetric.Rules {
		if err := validMetric(rule.Value); err != nil {
			return err
		}
	}

	if err := validNonASCII(cfg.Validation.NonASCII.Default); err != nil {
		return err
	}
	for _, rule := range cfg.Validation.NonASCII.Rules {
		if err := validNonASCII(rule.Value); err != nil {
			return err
		}
	}

	return nil
}

func validWhitespace(m WhitespaceMode) error {
	switch m {
	case WhitespaceStrict, WhitespaceCollapse, WhitespaceRemove, WhitespaceIgnore:
		return nil
	default:
		return errors.Errorf("invalid whitespace mode: %q", m)
	}
}

func validThreshold(t float64) error {
	if t <= 0 || t > 1 {
		return errors.Errorf("similarity threshold must be in (0,1], got %v", t)
	}
	return nil
}

func validMetric(m SimilarityMetric) error {
	switch m {
	case MetricSequenceMatcher, MetricLevenshtein:
		return nil
	default:
		return errors.Errorf("invalid similarity metric: %q", m)
	}
}

func validNonASCII(a NonASCIIAction) error {
	switch a {
	case NonASCIIError, NonASCIIWarning, NonASCIIIgnore:
		return nil
	default:
		return errors.Errorf("invalid non_ascii action: %q", a)
	}
}

// 🧹 WhitespaceFor resolves the whitespace handling mode for a file
func (cfg *Config) WhitespaceFor(filePath string) WhitespaceMode {
	return cfg.Matching.Whitespace.Resolve(filePath)
}

// 📊 SimilarityThresholdFor resolves the fuzzy-match acceptance threshold
func (cfg *Config) SimilarityThresholdFor(filePath string) float64 {
	return cfg.Matching.Similarity.Resolve(filePath)
}

// 📐 SimilarityMetricFor resolves the fuzzy-match similarity metric
func (cfg *Config) SimilarityMetricFor(filePath string) SimilarityMetric {
	return cfg.Matching.SimilarityMetric.Resolve(filePath)
}

// ⚡ UseFuzzyFor resolves whether the fuzzy pass is enabled for a file
func (cfg *Config) UseFuzzyFor(filePath string) bool {
	return cfg.Matching.UseFuzzy.Resolve(filePath)
}

// 🚧 NonASCIIFor resolves the non-ASCII content policy for a file
func (cfg *Config) NonASCIIFor(filePath string) NonASCIIAction {
	return cfg.Validation.NonASCII.Resolve(filePath)
}
