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
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/rewriterc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// ErrNoParser is returned when no registered parser accepts a config file
var ErrNoParser = errors.Base("no parser for config file")

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

// 🧱 Element identifies a markup element for element rules
type Element struct {
	Tag   string `json:"tag" yaml:"tag"`
	Attr  string `json:"attr" yaml:"attr"`
	Value string `json:"value" yaml:"value"`
}

// 🔄 Rule is one substitution applied to a target's full text
type Rule struct {
	Name string `json:"name" yaml:"name"`

	// Kind is regex (default), literal or element
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty"`

	// Pattern is the regex source or literal text
	Pattern string `json:"pattern,omitempty" yaml:"pattern,omitempty"`

	// Element is only used by element rules
	Element *Element `json:"element,omitempty" yaml:"element,omitempty"`

	// Replacement is inserted literally unless Expand is set
	Replacement string `json:"replacement" yaml:"replacement"`
	Expand      bool   `json:"expand,omitempty" yaml:"expand,omitempty"`

	// Expect is the required match count, default 1
	Expect *int `json:"expect,omitempty" yaml:"expect,omitempty"`
}

// 📄 Target is a file (or doublestar glob) and the rules applied to it, in order
type Target struct {
	Path  string `json:"path" yaml:"path"`
	Rules []Rule `json:"rules" yaml:"rules"`
}

// 📚 Config represents the complete configuration
type Config struct {
	Name         string   `json:"name,omitempty" yaml:"name,omitempty"`
	Message      string   `json:"message,omitempty" yaml:"message,omitempty"` // success notice
	Targets      []Target `json:"targets" yaml:"targets"`
	Backup       bool     `json:"backup,omitempty" yaml:"backup,omitempty"`
	Async        bool     `json:"async,omitempty" yaml:"async,omitempty"`
	AllowMissing bool     `json:"allow_missing,omitempty" yaml:"allow_missing,omitempty"`

	location string // file the config was loaded from, empty for presets
}

// 🎯 Load loads the configuration from a file. An empty path loads the
// default preset.
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)

	if path == "" {
		logger.Debug().Str("preset", DefaultPreset).Msg("no config file, using preset")
		return Preset(ctx, DefaultPreset)
	}

	logger.Debug().Str("path", path).Msg("loading configuration")

	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	// Get parser
	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("%s: %w", path, ErrNoParser)
	}

	// Parse config
	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}
	cfg.location = path

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// 🔍 Validate checks if the configuration is valid and applies defaults
func (cfg *Config) Validate() error {
	if len(cfg.Targets) == 0 {
		return errors.Errorf("at least one target is required")
	}

	replacer := text.NewReplacer()
	for i := range cfg.Targets {
		t := &cfg.Targets[i]
		if strings.TrimSpace(t.Path) == "" {
			return errors.Errorf("targets[%d].path is required", i)
		}
		if len(t.Rules) == 0 {
			return errors.Errorf("targets[%d] (%s): at least one rule is required", i, t.Path)
		}

		seen := map[string]bool{}
		for j := range t.Rules {
			r := &t.Rules[j]
			r.Kind = strings.ToLower(strings.TrimSpace(r.Kind))
			if r.Kind == "" {
				r.Kind = string(text.KindRegex)
			}
			if seen[r.Name] {
				return errors.Errorf("targets[%d] (%s): duplicate rule name %q", i, t.Path, r.Name)
			}
			seen[r.Name] = true
		}

		if err := replacer.ValidateRules(t.TextRules()); err != nil {
			return errors.Errorf("targets[%d] (%s): %w", i, t.Path, err)
		}
	}

	return nil
}

// 📍 Dir returns the directory relative target paths resolve against, or
// the empty string when the config did not come from a file
func (cfg *Config) Dir() string {
	if cfg.location == "" {
		return ""
	}
	return filepath.Dir(cfg.location)
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	name := cfg.Name
	if name == "" {
		name = "rewriterc"
	}
	rules := 0
	for _, t := range cfg.Targets {
		rules += len(t.Rules)
	}
	return fmt.Sprintf("%s: %d target(s), %d rule(s)", name, len(cfg.Targets), rules)
}

// 🔁 TextRules converts the target's rules for the text package
func (t Target) TextRules() []text.ReplacementRule {
	rules := make([]text.ReplacementRule, 0, len(t.Rules))
	for _, r := range t.Rules {
		tr := text.ReplacementRule{
			Name:        r.Name,
			Kind:        text.RuleKind(r.Kind),
			Pattern:     r.Pattern,
			Replacement: r.Replacement,
			Expand:      r.Expand,
			Expect:      r.Expect,
		}
		if r.Element != nil {
			tr.Element = &text.Element{Tag: r.Element.Tag, Attr: r.Element.Attr, Value: r.Element.Value}
		}
		rules = append(rules, tr)
	}
	return rules
}
