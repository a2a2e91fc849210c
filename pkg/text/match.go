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
	"regexp"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// span is a half-open byte range [start, end) of a match
type span struct {
	start, end int
	submatch   []int // regex submatch indexes, only set when expanding
}

// matcher finds all non-overlapping matches of a compiled rule
type matcher interface {
	find(s string) []span
	replacement(s string, sp span) string
}

// compile turns a rule into a matcher
func compile(rule ReplacementRule) (matcher, error) {
	switch rule.EffectiveKind() {
	case KindRegex:
		// dot must cross newlines, blocks span many lines
		re, err := regexp.Compile("(?s)" + rule.Pattern)
		if err != nil {
			return nil, errors.Errorf("rule %q: compiling pattern (%s): %w", rule.Name, err.Error(), ErrInvalidRule)
		}
		return &regexMatcher{re: re, repl: rule.Replacement, expand: rule.Expand}, nil
	case KindLiteral:
		return &literalMatcher{needle: rule.Pattern, repl: rule.Replacement}, nil
	case KindElement:
		if rule.Element == nil {
			return nil, errors.Errorf("rule %q: element is required: %w", rule.Name, ErrInvalidRule)
		}
		return newElementMatcher(*rule.Element, rule.Replacement)
	default:
		return nil, errors.Errorf("rule %q: unknown kind %q: %w", rule.Name, rule.Kind, ErrInvalidRule)
	}
}

type regexMatcher struct {
	re     *regexp.Regexp
	repl   string
	expand bool
}

func (m *regexMatcher) find(s string) []span {
	if !m.expand {
		idx := m.re.FindAllStringIndex(s, -1)
		spans := make([]span, 0, len(idx))
		for _, loc := range idx {
			spans = append(spans, span{start: loc[0], end: loc[1]})
		}
		return spans
	}

	idx := m.re.FindAllStringSubmatchIndex(s, -1)
	spans := make([]span, 0, len(idx))
	for _, loc := range idx {
		spans = append(spans, span{start: loc[0], end: loc[1], submatch: loc})
	}
	return spans
}

func (m *regexMatcher) replacement(s string, sp span) string {
	if !m.expand {
		return m.repl
	}
	return string(m.re.ExpandString(nil, m.repl, s, sp.submatch))
}

type literalMatcher struct {
	needle string
	repl   string
}

func (m *literalMatcher) find(s string) []span {
	if m.needle == "" {
		return nil
	}
	var spans []span
	for pos := 0; pos < len(s); {
		i := strings.Index(s[pos:], m.needle)
		if i < 0 {
			break
		}
		start := pos + i
		spans = append(spans, span{start: start, end: start + len(m.needle)})
		pos = start + len(m.needle)
	}
	return spans
}

func (m *literalMatcher) replacement(string, span) string {
	return m.repl
}

// splice rebuilds s with every span swapped for its replacement
func splice(s string, spans []span, m matcher) string {
	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, sp := range spans {
		b.WriteString(s[last:sp.start])
		b.WriteString(m.replacement(s, sp))
		last = sp.end
	}
	b.WriteString(s[last:])
	return b.String()
}
