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
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".hcl")
}

// 📝 Parse parses the config from HCL
//
//	message = "rewrote ${env.USER}'s queue"
//
//	target "src/pages/MyQueue.tsx" {
//	  rule "status-filter" {
//	    pattern     = <<-EOT
//	      <div className="relative" ref=\{statusFilterRef\}>.*?</div>
//	    EOT
//	    replacement = "<Dropdown />"
//	  }
//	}
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "rewriterc.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// Create evaluation context
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": envObject(),
		},
	}

	// Define HCL schema
	type hclElement struct {
		Tag   string `hcl:"tag"`
		Attr  string `hcl:"attr"`
		Value string `hcl:"value"`
	}
	type hclRule struct {
		Name        string      `hcl:"name,label"`
		Kind        string      `hcl:"kind,optional"`
		Pattern     string      `hcl:"pattern,optional"`
		Element     *hclElement `hcl:"element,block"`
		Replacement string      `hcl:"replacement,optional"`
		Expand      bool        `hcl:"expand,optional"`
		Expect      *int        `hcl:"expect,optional"`
	}
	type hclTarget struct {
		Path  string    `hcl:"path,label"`
		Rules []hclRule `hcl:"rule,block"`
	}
	type hclConfig struct {
		Name         string      `hcl:"name,optional"`
		Message      string      `hcl:"message,optional"`
		Backup       bool        `hcl:"backup,optional"`
		Async        bool        `hcl:"async,optional"`
		AllowMissing bool        `hcl:"allow_missing,optional"`
		Targets      []hclTarget `hcl:"target,block"`
	}

	// Decode HCL
	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Convert to model
	cfg := &Config{
		Name:         hclCfg.Name,
		Message:      hclCfg.Message,
		Backup:       hclCfg.Backup,
		Async:        hclCfg.Async,
		AllowMissing: hclCfg.AllowMissing,
	}
	for _, t := range hclCfg.Targets {
		target := Target{Path: t.Path}
		for _, r := range t.Rules {
			// heredocs always end in a newline the rule does not mean
			rule := Rule{
				Name:        r.Name,
				Kind:        r.Kind,
				Pattern:     strings.TrimSuffix(r.Pattern, "\n"),
				Replacement: strings.TrimSuffix(r.Replacement, "\n"),
				Expand:      r.Expand,
				Expect:      r.Expect,
			}
			if r.Element != nil {
				rule.Element = &Element{Tag: r.Element.Tag, Attr: r.Element.Attr, Value: r.Element.Value}
			}
			target.Rules = append(target.Rules, rule)
		}
		cfg.Targets = append(cfg.Targets, target)
	}

	return cfg, nil
}

// envObject exposes the process environment to HCL expressions as env.NAME
func envObject() cty.Value {
	vars := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			continue
		}
		vars[name] = cty.StringVal(value)
	}
	if len(vars) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(vars)
}
