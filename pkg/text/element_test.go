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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElementMatcher_Find(t *testing.T) {
	tests := []struct {
		name    string
		content string
		el      Element
		want    []string
	}{
		{
			name:    "curly_attribute",
			content: `a <div ref={menuRef}>x</div> b`,
			el:      Element{Tag: "div", Attr: "ref", Value: "menuRef"},
			want:    []string{`<div ref={menuRef}>x</div>`},
		},
		{
			name:    "quoted_attribute",
			content: `<span id="title">Hi</span><span id="other">No</span>`,
			el:      Element{Tag: "span", Attr: "id", Value: "title"},
			want:    []string{`<span id="title">Hi</span>`},
		},
		{
			name:    "nested_same_tag",
			content: "<div ref={outer}>\n  <div>\n    <div>deep</div>\n  </div>\n</div>\n<div>after</div>",
			el:      Element{Tag: "div", Attr: "ref", Value: "outer"},
			want:    []string{"<div ref={outer}>\n  <div>\n    <div>deep</div>\n  </div>\n</div>"},
		},
		{
			name:    "self_closing_nested_is_not_counted",
			content: `<div ref={a}><div className="spacer" /><p>t</p></div><div>x</div>`,
			el:      Element{Tag: "div", Attr: "ref", Value: "a"},
			want:    []string{`<div ref={a}><div className="spacer" /><p>t</p></div>`},
		},
		{
			name:    "self_closing_target",
			content: `<Input ref={field} onChange={(e) => set(e.target.value > 3)} /> tail`,
			el:      Element{Tag: "Input", Attr: "ref", Value: "field"},
			want:    []string{`<Input ref={field} onChange={(e) => set(e.target.value > 3)} />`},
		},
		{
			name:    "arrow_function_in_attribute",
			content: `<div ref={r} onClick={() => go()}>body</div>`,
			el:      Element{Tag: "div", Attr: "ref", Value: "r"},
			want:    []string{`<div ref={r} onClick={() => go()}>body</div>`},
		},
		{
			name:    "tag_prefix_is_not_a_match",
			content: `<divider ref={r}>x</divider><div ref={r}>y</div>`,
			el:      Element{Tag: "div", Attr: "ref", Value: "r"},
			want:    []string{`<div ref={r}>y</div>`},
		},
		{
			name:    "attribute_prefix_is_not_a_match",
			content: `<div xref={r}>x</div>`,
			el:      Element{Tag: "div", Attr: "ref", Value: "r"},
			want:    nil,
		},
		{
			name:    "unbalanced_is_not_a_match",
			content: `<div ref={r}><div>never closed</div>`,
			el:      Element{Tag: "div", Attr: "ref", Value: "r"},
			want:    nil,
		},
		{
			name:    "whitespace_inside_braces",
			content: "<div\n  className=\"relative\"\n  ref={ statusFilterRef }\n>\n</div>",
			el:      Element{Tag: "div", Attr: "ref", Value: "statusFilterRef"},
			want:    []string{"<div\n  className=\"relative\"\n  ref={ statusFilterRef }\n>\n</div>"},
		},
		{
			name:    "close_tag_in_string_expression",
			content: `a<div ref={statusFilterRef}>{'</div>'}</div>b`,
			el:      Element{Tag: "div", Attr: "ref", Value: "statusFilterRef"},
			want:    []string{`<div ref={statusFilterRef}>{'</div>'}</div>`},
		},
		{
			name:    "close_tag_in_comment_expression",
			content: `a<div ref={statusFilterRef}>{/* </div> */}</div>b`,
			el:      Element{Tag: "div", Attr: "ref", Value: "statusFilterRef"},
			want:    []string{`<div ref={statusFilterRef}>{/* </div> */}</div>`},
		},
		{
			name:    "close_tag_in_line_comment",
			content: "<div ref={r}>{\n  // </div>\n}</div>",
			el:      Element{Tag: "div", Attr: "ref", Value: "r"},
			want:    []string{"<div ref={r}>{\n  // </div>\n}</div>"},
		},
		{
			name:    "close_tag_in_template_literal",
			content: "<div ref={r}>{`</div>${ok ? '}' : '{'}`}</div>",
			el:      Element{Tag: "div", Attr: "ref", Value: "r"},
			want:    []string{"<div ref={r}>{`</div>${ok ? '}' : '{'}`}</div>"},
		},
		{
			name:    "close_tag_in_html_comment",
			content: `<div id="x"><!-- </div> --></div><div>after</div>`,
			el:      Element{Tag: "div", Attr: "id", Value: "x"},
			want:    []string{`<div id="x"><!-- </div> --></div>`},
		},
		{
			name:    "element_in_expression_with_apostrophe",
			content: `<div ref={r}>{open && (<p>Don't</p>)}</div><p>x</p>`,
			el:      Element{Tag: "div", Attr: "ref", Value: "r"},
			want:    []string{`<div ref={r}>{open && (<p>Don't</p>)}</div>`},
		},
		{
			name:    "comparison_in_expression",
			content: `<div ref={r}>{i<n && <b>x</b>}</div>!`,
			el:      Element{Tag: "div", Attr: "ref", Value: "r"},
			want:    []string{`<div ref={r}>{i<n && <b>x</b>}</div>`},
		},
		{
			name:    "fragment_in_expression",
			content: `<div ref={r}>{open && <><span>a</span></>}</div>`,
			el:      Element{Tag: "div", Attr: "ref", Value: "r"},
			want:    []string{`<div ref={r}>{open && <><span>a</span></>}</div>`},
		},
		{
			name:    "unterminated_comment_is_not_a_match",
			content: `<div ref={r}>{/* </div>`,
			el:      Element{Tag: "div", Attr: "ref", Value: "r"},
			want:    nil,
		},
		{
			name:    "two_matches",
			content: `<b k="v">1</b><b k="v">2</b>`,
			el:      Element{Tag: "b", Attr: "k", Value: "v"},
			want:    []string{`<b k="v">1</b>`, `<b k="v">2</b>`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := newElementMatcher(tt.el, "")
			require.NoError(t, err)

			var got []string
			for _, sp := range m.find(tt.content) {
				got = append(got, tt.content[sp.start:sp.end])
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSkipExpression(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantEnd int
		wantOK  bool
	}{
		{name: "flat", content: `{x}rest`, wantEnd: 3, wantOK: true},
		{name: "nested_braces", content: `{{a: {b}}}rest`, wantEnd: 10, wantOK: true},
		{name: "brace_in_string", content: `{"}"}rest`, wantEnd: 5, wantOK: true},
		{name: "escaped_quote", content: `{'\'}'}rest`, wantEnd: 7, wantOK: true},
		{name: "template_substitution", content: "{`${'}'}`}rest", wantEnd: 10, wantOK: true},
		{name: "unbalanced", content: `{x`, wantEnd: -1},
		{name: "unterminated_string", content: `{'x}`, wantEnd: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			end, ok := skipExpression(tt.content, 0)
			assert.Equal(t, tt.wantEnd, end)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestScanTagEnd(t *testing.T) {
	tests := []struct {
		name            string
		content         string
		wantEnd         int
		wantSelfClosing bool
		wantOK          bool
	}{
		{name: "plain", content: ` a="b">`, wantEnd: 6, wantOK: true},
		{name: "self_closing", content: ` a="b" />`, wantEnd: 8, wantSelfClosing: true, wantOK: true},
		{name: "gt_in_string", content: ` a="x>y">`, wantEnd: 8, wantOK: true},
		{name: "gt_in_braces", content: ` a={x > y}>`, wantEnd: 10, wantOK: true},
		{name: "brace_in_comment", content: ` a={/* } */ x}>`, wantEnd: 14, wantOK: true},
		{name: "unterminated", content: ` a="b"`, wantEnd: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			end, selfClosing, ok := scanTagEnd(tt.content, 0)
			assert.Equal(t, tt.wantEnd, end)
			assert.Equal(t, tt.wantSelfClosing, selfClosing)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}
