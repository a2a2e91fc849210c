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

package text

import (
	"context"
	"io"

	"gitlab.com/tozd/go/errors"
)

var (
	// ErrMatchCount is returned when a rule matches a different number of times than expected
	ErrMatchCount = errors.Base("unexpected match count")

	// ErrInvalidRule is returned when a rule cannot be compiled or is incomplete
	ErrInvalidRule = errors.Base("invalid rule")
)

// RuleKind selects how a rule locates the text it replaces
type RuleKind string

const (
	KindRegex   RuleKind = "regex"   // Pattern is a regular expression, dot matches newline
	KindLiteral RuleKind = "literal" // Pattern is matched byte for byte
	KindElement RuleKind = "element" // Element identifies a markup element structurally
)

// Element identifies a markup element by tag name and one attribute
type Element struct {
	Tag   string // e.g. "div"
	Attr  string // e.g. "ref"
	Value string // e.g. "statusFilterRef", matched as Attr={Value} or Attr="Value"
}

// ReplacementRule defines a single substitution applied to the whole document
type ReplacementRule struct {
	// Name identifies the rule in output and errors
	Name string

	// Kind selects the matcher, empty means KindRegex
	Kind RuleKind

	// Pattern is the regex source or literal text to match
	Pattern string

	// Element is used by KindElement rules
	Element *Element

	// Replacement is inserted in place of each match
	Replacement string

	// Expand enables $1 / ${name} templates in Replacement for regex rules
	Expand bool

	// Expect is the required number of matches, nil means exactly one
	Expect *int
}

// ExpectedMatches returns the number of matches the rule requires
func (r ReplacementRule) ExpectedMatches() int {
	if r.Expect == nil {
		return 1
	}
	return *r.Expect
}

// EffectiveKind returns the rule kind with the default applied
func (r ReplacementRule) EffectiveKind() RuleKind {
	if r.Kind == "" {
		return KindRegex
	}
	return r.Kind
}

// RuleStatus describes what happened when a rule was applied
type RuleStatus string

const (
	StatusReplaced       RuleStatus = "replaced"
	StatusAlreadyApplied RuleStatus = "already-applied"
	StatusMissing        RuleStatus = "missing"
	StatusTooFew         RuleStatus = "too-few"  // some matches, fewer than expected
	StatusTooMany        RuleStatus = "too-many" // more matches than expected
)

// OK reports whether the status is acceptable in strict mode
func (s RuleStatus) OK() bool {
	return s == StatusReplaced || s == StatusAlreadyApplied
}

// RuleResult records the outcome of a single rule
type RuleResult struct {
	Name         string
	Kind         RuleKind
	Status       RuleStatus
	Expected     int
	Matches      int
	Replacements int
}

// ReplacementResult contains the results of a text replacement operation
type ReplacementResult struct {
	// WasModified indicates if any replacements were made
	WasModified bool

	// ReplacementCount is the number of replacements made
	ReplacementCount int

	// Rules holds one entry per rule, in application order
	Rules []RuleResult

	// OriginalContent is the content before replacements
	OriginalContent []byte

	// ModifiedContent is the content after replacements
	ModifiedContent []byte
}

// Failed returns the rule results that did not meet their expectation
func (r *ReplacementResult) Failed() []RuleResult {
	var failed []RuleResult
	for _, rr := range r.Rules {
		if !rr.Status.OK() {
			failed = append(failed, rr)
		}
	}
	return failed
}

// Options changes how a TextReplacer treats rules that miss their expectation
type Options struct {
	// AllowMissing reports mismatched rules in the result instead of failing
	AllowMissing bool
}

// TextReplacer defines the interface for text replacement operations
type TextReplacer interface {
	// ReplaceText applies a set of replacement rules to the content in order
	ReplaceText(ctx context.Context, content io.Reader, rules []ReplacementRule, opts Options) (*ReplacementResult, error)

	// ValidateRules checks that all rules are valid
	ValidateRules(rules []ReplacementRule) error
}
