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

package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/applydir/pkg/config"
)

// 🧪 testContext creates a context with a test logger
func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

// 🧪 TestCascadeResolve tests first-match-wins resolution with defaults
func TestCascadeResolve(t *testing.T) {
	cascade := config.Cascade[float64]{
		Default: 0.95,
		Rules: []config.Rule[float64]{
			{Extensions: []string{".py", ".pyi"}, Value: 0.8},
			{Extensions: []string{".py"}, Value: 0.5}, // shadowed by the first rule
			{Extensions: []string{".MD"}, Value: 0.7},
		},
	}

	tests := []struct {
		name string
		path string
		want float64
	}{
		{name: "first_rule_wins", path: "src/main.py", want: 0.8},
		{name: "second_extension_in_set", path: "types.pyi", want: 0.8},
		{name: "rule_extension_case_insensitive", path: "README.md", want: 0.7},
		{name: "file_extension_case_insensitive", path: "script.PY", want: 0.8},
		{name: "no_rule_matches", path: "main.go", want: 0.95},
		{name: "no_extension", path: "Makefile", want: 0.95},
		{name: "empty_path", path: "", want: 0.95},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cascade.Resolve(tt.path))
		})
	}
}

// 🧪 TestRuleMatches tests the per-rule extension check used by Resolve
func TestRuleMatches(t *testing.T) {
	rule := config.Rule[bool]{Extensions: []string{".py", ".PYI"}, Value: true}

	assert.True(t, rule.Matches(".py"))
	assert.True(t, rule.Matches(".pyi"))
	assert.False(t, rule.Matches(".go"))
	assert.False(t, rule.Matches(""))
}

// 🧪 TestDefaults tests the built-in default configuration
func TestDefaults(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())

	assert.False(t, cfg.AllowFileDeletion)
	assert.Equal(t, config.WhitespaceCollapse, cfg.WhitespaceFor("main.go"))
	assert.Equal(t, 0.95, cfg.SimilarityThresholdFor("main.go"))
	assert.Equal(t, config.MetricSequenceMatcher, cfg.SimilarityMetricFor("main.go"))
	assert.True(t, cfg.UseFuzzyFor("main.go"))
	assert.Equal(t, config.NonASCIIIgnore, cfg.NonASCIIFor("main.go"))
}

// 🧪 TestYAMLParser tests YAML config loading over defaults
func TestYAMLParser(t *testing.T) {
	data := []byte(`
allow_file_deletion: true
ignore_patterns:
  - "**/*.lock"
matching:
  whitespace:
    default: strict
    rules:
      - extensions: [".md"]
        value: collapse
  similarity:
    rules:
      - extensions: [".py"]
        value: 0.8
validation:
  non_ascii:
    default: warning
    rules:
      - extensions: [".py"]
        value: error
`)

	p := &config.YAMLParser{}
	cfg, err := p.Parse(testContext(t), data)
	require.NoError(t, err)

	assert.True(t, cfg.AllowFileDeletion)
	assert.Equal(t, []string{"**/*.lock"}, cfg.IgnorePatterns)
	assert.Equal(t, config.WhitespaceStrict, cfg.WhitespaceFor("main.go"))
	assert.Equal(t, config.WhitespaceCollapse, cfg.WhitespaceFor("README.md"))

	// Unspecified settings keep their defaults.
	assert.Equal(t, 0.95, cfg.SimilarityThresholdFor("main.go"))
	assert.Equal(t, 0.8, cfg.SimilarityThresholdFor("main.py"))
	assert.True(t, cfg.UseFuzzyFor("main.go"))

	assert.Equal(t, config.NonASCIIWarning, cfg.NonASCIIFor("main.go"))
	assert.Equal(t, config.NonASCIIError, cfg.NonASCIIFor("main.py"))
}

// 🧪 TestYAMLParserUnknownField tests strict field checking
func TestYAMLParserUnknownField(t *testing.T) {
	p := &config.YAMLParser{}
	_, err := p.Parse(testContext(t), []byte("no_such_setting: true\n"))
	require.Error(t, err)
}

// 🧪 TestYAMLParserInvalidValues tests value validation
func TestYAMLParserInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "bad_whitespace_mode", data: "matching:\n  whitespace:\n    default: shrink\n"},
		{name: "threshold_too_high", data: "matching:\n  similarity:\n    default: 1.5\n"},
		{name: "threshold_zero", data: "matching:\n  similarity:\n    default: 0\n"},
		{name: "bad_metric", data: "matching:\n  similarity_metric:\n    default: hamming\n"},
		{name: "bad_non_ascii_action", data: "validation:\n  non_ascii:\n    default: reject\n"},
	}

	p := &config.YAMLParser{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Parse(testContext(t), []byte(tt.data))
			require.Error(t, err)
		})
	}
}

// 🧪 TestHCLParser tests HCL config loading over defaults
func TestHCLParser(t *testing.T) {
	data := []byte(`
allow_file_deletion = true

matching {
  case_insensitive = true

  whitespace {
    default = "remove"

    rule {
      extensions = [".go"]
      value      = "strict"
    }
  }

  use_fuzzy {
    default = false

    rule {
      extensions = [".py"]
      value      = true
    }
  }
}

validation {
  non_ascii {
    rule {
      extensions = [".py"]
      value      = "error"
    }
  }
}
`)

	p := &config.HCLParser{}
	cfg, err := p.Parse(testContext(t), data)
	require.NoError(t, err)

	assert.True(t, cfg.AllowFileDeletion)
	assert.True(t, cfg.Matching.CaseInsensitive)
	assert.Equal(t, config.WhitespaceRemove, cfg.WhitespaceFor("main.py"))
	assert.Equal(t, config.WhitespaceStrict, cfg.WhitespaceFor("main.go"))
	assert.False(t, cfg.UseFuzzyFor("main.go"))
	assert.True(t, cfg.UseFuzzyFor("main.py"))
	assert.Equal(t, config.NonASCIIIgnore, cfg.NonASCIIFor("main.go"))
	assert.Equal(t, config.NonASCIIError, cfg.NonASCIIFor("main.py"))

	// Untouched cascades keep defaults.
	assert.Equal(t, 0.95, cfg.SimilarityThresholdFor("main.go"))
}

// 🧪 TestGetParser tests parser selection by file name
func TestGetParser(t *testing.T) {
	assert.IsType(t, &config.YAMLParser{}, config.GetParser(".applydir.yaml"))
	assert.IsType(t, &config.YAMLParser{}, config.GetParser("conf.yml"))
	assert.IsType(t, &config.HCLParser{}, config.GetParser(".applydir.hcl"))
	assert.Nil(t, config.GetParser("config.toml"))
}

// 🧪 TestDiscover tests config discovery with fallback to defaults
func TestDiscover(t *testing.T) {
	ctx := testContext(t)

	t.Run("no_config_file", func(t *testing.T) {
		cfg, err := config.Discover(ctx, t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, config.Default(), cfg)
	})

	t.Run("yaml_config_found", func(t *testing.T) {
		dir := t.TempDir()
		err := os.WriteFile(filepath.Join(dir, ".applydir.yaml"), []byte("allow_file_deletion: true\n"), 0o644)
		require.NoError(t, err)

		cfg, err := config.Discover(ctx, dir)
		require.NoError(t, err)
		assert.True(t, cfg.AllowFileDeletion)
	})
}
