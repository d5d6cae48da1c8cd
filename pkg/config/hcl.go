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
	"context"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

func init() {
	Register(&HCLParser{})
}

func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// HCL decodes into its own wire structs (cascade values have different types
// per category), then the result is merged over the built-in defaults.
type hclStringRule struct {
	Extensions []string `hcl:"extensions"`
	Value      string   `hcl:"value"`
}

type hclFloatRule struct {
	Extensions []string `hcl:"extensions"`
	Value      float64  `hcl:"value"`
}

type hclBoolRule struct {
	Extensions []string `hcl:"extensions"`
	Value      bool     `hcl:"value"`
}

type hclStringCascade struct {
	Default *string         `hcl:"default,optional"`
	Rules   []hclStringRule `hcl:"rule,block"`
}

type hclFloatCascade struct {
	Default *float64       `hcl:"default,optional"`
	Rules   []hclFloatRule `hcl:"rule,block"`
}

type hclBoolCascade struct {
	Default *bool         `hcl:"default,optional"`
	Rules   []hclBoolRule `hcl:"rule,block"`
}

type hclMatching struct {
	CaseInsensitive  *bool             `hcl:"case_insensitive,optional"`
	Whitespace       *hclStringCascade `hcl:"whitespace,block"`
	Similarity       *hclFloatCascade  `hcl:"similarity,block"`
	SimilarityMetric *hclStringCascade `hcl:"similarity_metric,block"`
	UseFuzzy         *hclBoolCascade   `hcl:"use_fuzzy,block"`
}

type hclValidation struct {
	NonASCII *hclStringCascade `hcl:"non_ascii,block"`
}

type hclConfig struct {
	AllowFileDeletion *bool          `hcl:"allow_file_deletion,optional"`
	IgnorePatterns    []string       `hcl:"ignore_patterns,optional"`
	Matching          *hclMatching   `hcl:"matching,block"`
	Validation        *hclValidation `hcl:"validation,block"`
}

// 📝 Parse parses the config from HCL bytes
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	var wire hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &wire)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	cfg := Default()
	if wire.AllowFileDeletion != nil {
		cfg.AllowFileDeletion = *wire.AllowFileDeletion
	}
	cfg.IgnorePatterns = wire.IgnorePatterns

	if m := wire.Matching; m != nil {
		if m.CaseInsensitive != nil {
			cfg.Matching.CaseInsensitive = *m.CaseInsensitive
		}
		if ws := m.Whitespace; ws != nil {
			if ws.Default != nil {
				cfg.Matching.Whitespace.Default = WhitespaceMode(*ws.Default)
			}
			for _, r := range ws.Rules {
				cfg.Matching.Whitespace.Rules = append(cfg.Matching.Whitespace.Rules,
					Rule[WhitespaceMode]{Extensions: r.Extensions, Value: WhitespaceMode(r.Value)})
			}
		}
		if sim := m.Similarity; sim != nil {
			if sim.Default != nil {
				cfg.Matching.Similarity.Default = *sim.Default
			}
			for _, r := range sim.Rules {
				cfg.Matching.Similarity.Rules = append(cfg.Matching.Similarity.Rules,
					Rule[float64]{Extensions: r.Extensions, Value: r.Value})
			}
		}
		if met := m.SimilarityMetric; met != nil {
			if met.Default != nil {
				cfg.Matching.SimilarityMetric.Default = SimilarityMetric(*met.Default)
			}
			for _, r := range met.Rules {
				cfg.Matching.SimilarityMetric.Rules = append(cfg.Matching.SimilarityMetric.Rules,
					Rule[SimilarityMetric]{Extensions: r.Extensions, Value: SimilarityMetric(r.Value)})
			}
		}
		if fz := m.UseFuzzy; fz != nil {
			if fz.Default != nil {
				cfg.Matching.UseFuzzy.Default = *fz.Default
			}
			for _, r := range fz.Rules {
				cfg.Matching.UseFuzzy.Rules = append(cfg.Matching.UseFuzzy.Rules,
					Rule[bool]{Extensions: r.Extensions, Value: r.Value})
			}
		}
	}

	if v := wire.Validation; v != nil && v.NonASCII != nil {
		if v.NonASCII.Default != nil {
			cfg.Validation.NonASCII.Default = NonASCIIAction(*v.NonASCII.Default)
		}
		for _, r := range v.NonASCII.Rules {
			cfg.Validation.NonASCII.Rules = append(cfg.Validation.NonASCII.Rules,
				Rule[NonASCIIAction]{Extensions: r.Extensions, Value: NonASCIIAction(r.Value)})
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}
