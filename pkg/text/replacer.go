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
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// MatchCountError lists the rules whose match count missed their expectation
type MatchCountError struct {
	Failed []RuleResult
}

func (e *MatchCountError) Error() string {
	parts := make([]string, 0, len(e.Failed))
	for _, rr := range e.Failed {
		parts = append(parts, fmt.Sprintf("rule %q %s: want %d match(es), got %d", rr.Name, rr.Status, rr.Expected, rr.Matches))
	}
	return strings.Join(parts, "; ")
}

func (e *MatchCountError) Unwrap() error {
	return ErrMatchCount
}

// Replacer implements TextReplacer. Rules run in order, each one on the
// output of the previous.
type Replacer struct{}

// NewReplacer creates a new Replacer
func NewReplacer() *Replacer {
	return &Replacer{}
}

// ReplaceText implements TextReplacer.ReplaceText.
//
// Unless opts.AllowMissing is set, a rule that matches a different number of
// times than it expects leaves the content untouched for that rule and
// ReplaceText returns a *MatchCountError. The result is returned alongside
// that error so callers can report every rule.
func (r *Replacer) ReplaceText(ctx context.Context, content io.Reader, rules []ReplacementRule, opts Options) (*ReplacementResult, error) {
	logger := zerolog.Ctx(ctx)

	if err := r.ValidateRules(rules); err != nil {
		return nil, errors.Errorf("validating rules: %w", err)
	}

	originalContent, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	result := &ReplacementResult{
		OriginalContent: originalContent,
		ModifiedContent: originalContent,
		Rules:           make([]RuleResult, 0, len(rules)),
	}

	current := string(originalContent)
	for _, rule := range rules {
		if err := ctx.Err(); err != nil {
			return nil, errors.Errorf("applying rule %q: %w", rule.Name, err)
		}

		m, err := compile(rule)
		if err != nil {
			return nil, err
		}

		spans := m.find(current)
		rr := RuleResult{
			Name:     rule.Name,
			Kind:     rule.EffectiveKind(),
			Expected: rule.ExpectedMatches(),
			Matches:  len(spans),
		}

		switch {
		case len(spans) == rr.Expected:
			rr.Status = StatusReplaced
		case len(spans) == 0 && rule.Replacement != "" && strings.Contains(current, rule.Replacement):
			rr.Status = StatusAlreadyApplied
		case len(spans) == 0:
			rr.Status = StatusMissing
		case len(spans) < rr.Expected:
			rr.Status = StatusTooFew
		default:
			rr.Status = StatusTooMany
		}

		// lenient mode keeps the blind substitution: every match is replaced
		if rr.Status == StatusReplaced || (opts.AllowMissing && len(spans) > 0) {
			current = splice(current, spans, m)
			rr.Replacements = len(spans)
			result.ReplacementCount += len(spans)
		}

		logger.Debug().
			Str("rule", rr.Name).
			Str("kind", string(rr.Kind)).
			Str("status", string(rr.Status)).
			Int("matches", rr.Matches).
			Int("expected", rr.Expected).
			Msg("applied rule")

		result.Rules = append(result.Rules, rr)
	}

	result.ModifiedContent = []byte(current)
	result.WasModified = current != string(originalContent)

	if failed := result.Failed(); len(failed) > 0 && !opts.AllowMissing {
		result.ModifiedContent = originalContent
		result.WasModified = false
		result.ReplacementCount = 0
		for i := range result.Rules {
			result.Rules[i].Replacements = 0
		}
		return result, errors.WithStack(&MatchCountError{Failed: failed})
	}

	return result, nil
}

// ValidateRules implements TextReplacer.ValidateRules
func (r *Replacer) ValidateRules(rules []ReplacementRule) error {
	for i, rule := range rules {
		if rule.Name == "" {
			return errors.Errorf("rule %d: name is required: %w", i, ErrInvalidRule)
		}
		switch rule.EffectiveKind() {
		case KindRegex, KindLiteral:
			if rule.Pattern == "" {
				return errors.Errorf("rule %d (%s): pattern is required: %w", i, rule.Name, ErrInvalidRule)
			}
		case KindElement:
			if rule.Element == nil {
				return errors.Errorf("rule %d (%s): element is required: %w", i, rule.Name, ErrInvalidRule)
			}
		default:
			return errors.Errorf("rule %d (%s): unknown kind %q: %w", i, rule.Name, rule.Kind, ErrInvalidRule)
		}
		if rule.ExpectedMatches() < 1 {
			return errors.Errorf("rule %d (%s): expect must be at least 1: %w", i, rule.Name, ErrInvalidRule)
		}
		if _, err := compile(rule); err != nil {
			return errors.Errorf("rule %d: %w", i, err)
		}
	}
	return nil
}
