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

// elementMatcher locates markup elements by tag and attribute instead of by
// surrounding text. The whole element, up to its balanced closing tag, is
// one match.
type elementMatcher struct {
	el   Element
	attr *regexp.Regexp
	repl string
}

func newElementMatcher(el Element, repl string) (*elementMatcher, error) {
	if el.Tag == "" || el.Attr == "" || el.Value == "" {
		return nil, errors.Errorf("element %q: tag, attr and value are required: %w", el.Tag, ErrInvalidRule)
	}
	v := regexp.QuoteMeta(el.Value)
	attr, err := regexp.Compile(`(?:^|\s)` + regexp.QuoteMeta(el.Attr) +
		`\s*=\s*(?:\{\s*` + v + `\s*\}|"` + v + `"|'` + v + `')`)
	if err != nil {
		return nil, errors.Errorf("element %q: compiling attribute matcher (%s): %w", el.Tag, err.Error(), ErrInvalidRule)
	}
	return &elementMatcher{el: el, attr: attr, repl: repl}, nil
}

func (m *elementMatcher) find(s string) []span {
	var spans []span
	pos := 0
	for {
		start := indexOpenTag(s, pos, m.el.Tag)
		if start < 0 {
			return spans
		}
		attrsFrom := start + 1 + len(m.el.Tag)
		end, selfClosing, ok := scanTagEnd(s, attrsFrom)
		if !ok {
			return spans
		}
		if !m.attr.MatchString(s[attrsFrom:end]) {
			pos = attrsFrom
			continue
		}
		if selfClosing {
			spans = append(spans, span{start: start, end: end + 1})
			pos = end + 1
			continue
		}
		closeEnd, ok := findClosingTag(s, end+1, m.el.Tag)
		if !ok {
			pos = end + 1
			continue
		}
		spans = append(spans, span{start: start, end: closeEnd})
		pos = closeEnd
	}
}

func (m *elementMatcher) replacement(string, span) string {
	return m.repl
}

// isTagBoundary reports whether the byte after a tag name ends the name
func isTagBoundary(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	switch s[i] {
	case ' ', '\t', '\n', '\r', '>', '/':
		return true
	}
	return false
}

// indexOpenTag returns the index of the next "<tag" at or after from, or -1
func indexOpenTag(s string, from int, tag string) int {
	needle := "<" + tag
	for from <= len(s) {
		i := strings.Index(s[from:], needle)
		if i < 0 {
			return -1
		}
		at := from + i
		if isTagBoundary(s, at+len(needle)) {
			return at
		}
		from = at + len(needle)
	}
	return -1
}

// scanTagEnd finds the '>' closing a tag whose attributes start at from.
// Quoted strings and {...} expressions are skipped, so arrow functions in
// attribute values do not end the tag.
func scanTagEnd(s string, from int) (end int, selfClosing bool, ok bool) {
	lastSignificant := byte(0)
	for i := from; i < len(s); {
		c := s[i]
		switch c {
		case '"', '\'':
			i = skipString(s, i)
		case '{':
			next, closed := skipExpression(s, i)
			if !closed {
				return -1, false, false
			}
			i = next
		case '>':
			return i, lastSignificant == '/', true
		default:
			i++
		}
		if !isSpace(c) {
			lastSignificant = c
		}
	}
	return -1, false, false
}

// findClosingTag returns the end offset of the closing tag balancing an
// element whose body starts at from. Expressions and comments in the body
// are skipped whole: a closing tag inside them does not count.
func findClosingTag(s string, from int, tag string) (int, bool) {
	depth := 1
	for i := from; i < len(s); {
		switch {
		case s[i] == '{':
			next, ok := skipExpression(s, i)
			if !ok {
				return -1, false
			}
			i = next
		case strings.HasPrefix(s[i:], "<!--"):
			end := strings.Index(s[i+4:], "-->")
			if end < 0 {
				return -1, false
			}
			i += 4 + end + 3
		case strings.HasPrefix(s[i:], "</"):
			name, j := readTagName(s, i+2)
			gt := strings.IndexByte(s[j:], '>')
			if gt < 0 {
				return -1, false
			}
			i = j + gt + 1
			if name == tag {
				depth--
				if depth == 0 {
					return i, true
				}
			}
		case isElementStart(s, i):
			name, j := readTagName(s, i+1)
			end, selfClosing, ok := scanTagEnd(s, j)
			if !ok {
				return -1, false
			}
			if name == tag && !selfClosing {
				depth++
			}
			i = end + 1
		default:
			i++
		}
	}
	return -1, false
}

// skipExpression returns the offset just past the '}' balancing the '{' at
// open. Strings, template literals, comments and nested elements are
// skipped whole.
func skipExpression(s string, open int) (int, bool) {
	depth := 0
	for i := open; i < len(s); {
		c := s[i]
		switch {
		case c == '"' || c == '\'':
			i = skipString(s, i)
		case c == '`':
			next, ok := skipTemplate(s, i)
			if !ok {
				return -1, false
			}
			i = next
		case strings.HasPrefix(s[i:], "/*"):
			end := strings.Index(s[i+2:], "*/")
			if end < 0 {
				return -1, false
			}
			i += 2 + end + 2
		case strings.HasPrefix(s[i:], "//"):
			end := strings.IndexByte(s[i:], '\n')
			if end < 0 {
				return -1, false
			}
			i += end + 1
		case isElementStart(s, i):
			// a comparison such as i<n is not an element; step over it
			next, ok := skipElement(s, i)
			if !ok {
				i++
				continue
			}
			i = next
		case c == '{':
			depth++
			i++
		case c == '}':
			depth--
			i++
			if depth == 0 {
				return i, true
			}
		default:
			i++
		}
	}
	return -1, false
}

// skipElement returns the offset just past the element opening at i
func skipElement(s string, i int) (int, bool) {
	name, j := readTagName(s, i+1)
	end, selfClosing, ok := scanTagEnd(s, j)
	if !ok {
		return -1, false
	}
	if selfClosing {
		return end + 1, true
	}
	return findClosingTag(s, end+1, name)
}

// skipString returns the offset just past the string quoted at i, or len(s)
// when it is not terminated
func skipString(s string, i int) int {
	quote := s[i]
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case quote:
			return j + 1
		}
	}
	return len(s)
}

// skipTemplate returns the offset just past the template literal at i,
// including any ${...} substitutions
func skipTemplate(s string, i int) (int, bool) {
	for j := i + 1; j < len(s); {
		switch {
		case s[j] == '\\':
			j += 2
		case s[j] == '`':
			return j + 1, true
		case strings.HasPrefix(s[j:], "${"):
			next, ok := skipExpression(s, j+1)
			if !ok {
				return -1, false
			}
			j = next
		default:
			j++
		}
	}
	return -1, false
}

// isElementStart reports whether s[i] opens an element or a fragment
func isElementStart(s string, i int) bool {
	if s[i] != '<' || i+1 >= len(s) {
		return false
	}
	c := s[i+1]
	return c == '>' || c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// readTagName returns the tag name starting at i and the offset after it
func readTagName(s string, i int) (string, int) {
	j := i
	for j < len(s) {
		c := s[j]
		if !(c == '-' || c == '_' || c == '.' || c == ':' ||
			(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')) {
			break
		}
		j++
	}
	return s[i:j], j
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
