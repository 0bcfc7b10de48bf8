// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package formatter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/viewfmt/formatter"
	"github.com/bufbuild/viewfmt/macro"
	"github.com/bufbuild/viewfmt/reporter"
	"github.com/bufbuild/viewfmt/source"
	"github.com/bufbuild/viewfmt/token"
)

func TestFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		settings func(*formatter.Settings)
		in, want string
	}{
		{
			name: "collapses",
			in:   "view! {\n    <div>\n        \"hi\"\n    </div>\n}",
			want: `view! { <div>"hi"</div> }`,
		},
		{
			name:     "breaks outer box",
			settings: func(s *formatter.Settings) { s.MaxWidth = 20 },
			in:       `view! { <div>"hi"</div> }`,
			want:     "view! {\n    <div>\"hi\"</div>\n}",
		},
		{
			name:     "breaks children",
			settings: func(s *formatter.Settings) { s.MaxWidth = 16 },
			in:       `view! { <div>"hi"</div> }`,
			want:     "view! {\n    <div>\n        \"hi\"\n    </div>\n}",
		},
		{
			name: "comment between attributes",
			in: "view! {\n    <div class=\"a\"\n      //the id\n      id=\"b\"></div>\n}",
			want: "view! {\n    <div\n        class=\"a\"\n        // the id\n        id=\"b\"\n    ></div>\n}",
		},
		{
			name: "blank lines collapse",
			in:   "view! {\n    <a></a>\n\n\n\n    <b></b>\n}",
			want: "view! {\n    <a></a>\n\n    <b></b>\n}",
		},
		{
			name: "leading blank lines dropped",
			in:   "view! {\n\n\n    <a></a>\n    <b></b>\n}",
			want: "view! {\n    <a></a>\n    <b></b>\n}",
		},
		{
			name: "leading comment",
			in:   "view! {\n    // hello\n    <p/>\n}",
			want: "view! {\n    // hello\n    <p />\n}",
		},
		{
			name: "trailing comment in children",
			in:   "view! {\n    <div>\n        <p/>\n        // trailing\n    </div>\n}",
			want: "view! {\n    <div>\n        <p />\n        // trailing\n    </div>\n}",
		},
		{
			name: "block comment before text",
			in:   `view! { <div>/* c */ "a"</div> }`,
			want: `view! { <div>/* c */ "a"</div> }`,
		},
		{
			name: "block comment before closing tag",
			in:   `view! { <div>"a"   /* c */</div> }`,
			want: `view! { <div>"a" /* c */</div> }`,
		},
		{
			name: "block comment before node",
			in:   `view! { /* c */ <p/> }`,
			want: `view! { /* c */ <p /> }`,
		},
		{
			name: "trailing line comment follows its node",
			in:   "view! {\n    <li>\"one\"</li> // first\n    <li>\"two\"</li>\n}",
			want: "view! {\n    <li>\"one\"</li>\n    // first\n    <li>\"two\"</li>\n}",
		},
		{
			name: "empty",
			in:   "view! {   }",
			want: "view! {}",
		},
		{
			name: "context",
			in:   "view! {cx,}",
			want: "view! { cx, }",
		},
		{
			name: "global class",
			in:   "view! { class = STYLE, <div/> }",
			want: "view! { class=STYLE, <div /> }",
		},
		{
			name: "raw text",
			in:   "view! { <p>Hello   world</p> }",
			want: "view! { <p>Hello   world</p> }",
		},
		{
			name: "multiline string",
			in:   "view! {\n    <p>\n        \"line one\n        line two\"\n    </p>\n}",
			want: "view! {\n    <p>\n        \"line one\n        line two\"\n    </p>\n}",
		},
		{
			name: "multiline expression",
			in:   "view! {\n  <button on:click=move |_| {\n        set_count(1);\n    }>\"Click\"</button>\n}",
			want: "view! {\n    <button on:click=move |_| {\n          set_count(1);\n      }>\"Click\"</button>\n}",
		},
		{
			name: "nested view",
			in:   "view! {\n    <div>\n        {move || view! {   <span>\"a\"</span>   }}\n    </div>\n}",
			want: `view! { <div>{move || view! { <span>"a"</span> }}</div> }`,
		},
		{
			name:     "tailwind",
			settings: func(s *formatter.Settings) { s.AttrValues["class"] = formatter.Tailwind },
			in:       `view! { <div class="p-4 btn flex card"></div> }`,
			want:     `view! { <div class="btn card flex p-4"></div> }`,
		},
		{
			name:     "crlf",
			settings: func(s *formatter.Settings) { s.NewlineStyle = formatter.NewlineAuto },
			in:       "view! {\r\n  <a></a>\r\n  <b></b>\r\n}",
			want:     "view! {\r\n    <a></a>\r\n    <b></b>\r\n}",
		},
		{
			name: "tabs",
			in:   "view! {\n\t<a></a>\n\t<b></b>\n}",
			want: "view! {\n\t<a></a>\n\t<b></b>\n}",
		},
		{
			name:     "forced spaces",
			settings: func(s *formatter.Settings) { s.IndentationStyle = formatter.IndentSpaces },
			in:       "view! {\n\t<a></a>\n\t<b></b>\n}",
			want:     "view! {\n    <a></a>\n    <b></b>\n}",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			settings := formatter.DefaultSettings()
			if test.settings != nil {
				test.settings(&settings)
			}
			got, warnings := format(t, test.in, settings)
			assert.Equal(t, test.want, got)
			assert.Empty(t, warnings)

			again, _ := format(t, got, settings)
			assert.Equal(t, got, again, "not idempotent")
		})
	}
}

func TestBraceStyle(t *testing.T) {
	t.Parallel()

	const in = `view! { <div a={"s"} b=x c={1} d=2 e={y} {..rest}></div> }`
	tests := []struct {
		style formatter.BraceStyle
		want  string
	}{
		{formatter.WhenRequired, `<div a="s" b=x c=1 d=2 e={y} {..rest}></div>`},
		{formatter.Always, `<div a={"s"} b={x} c={1} d={2} e={y} {..rest}></div>`},
		{formatter.AlwaysUnlessLit, `<div a="s" b={x} c=1 d=2 e={y} {..rest}></div>`},
		{formatter.Preserve, `<div a={"s"} b=x c={1} d=2 e={y} {..rest}></div>`},
	}

	for _, test := range tests {
		t.Run(test.style.String(), func(t *testing.T) {
			t.Parallel()

			settings := formatter.DefaultSettings()
			settings.AttrValueBraceStyle = test.style
			got, _ := format(t, in, settings)
			assert.Equal(t, "view! { "+test.want+" }", got)
		})
	}
}

func TestClosingTagStyle(t *testing.T) {
	t.Parallel()

	const in = `view! { <div/> <span></span> <br></br> }`
	tests := []struct {
		style formatter.ClosingTagStyle
		want  string
	}{
		{formatter.PreserveClosing, "<div />\n    <span></span>\n    <br />"},
		{formatter.SelfClosing, "<div />\n    <span />\n    <br />"},
		{formatter.NonSelfClosing, "<div></div>\n    <span></span>\n    <br />"},
	}

	for _, test := range tests {
		t.Run(test.style.String(), func(t *testing.T) {
			t.Parallel()

			settings := formatter.DefaultSettings()
			settings.ClosingTagStyle = test.style
			got, _ := format(t, in, settings)
			assert.Equal(t, "view! {\n    "+test.want+"\n}", got)
		})
	}
}

func TestIndentedView(t *testing.T) {
	t.Parallel()

	const in = "fn app() {\n    view! {\n  <a></a>\n    <b></b> }\n}\n"
	got, _ := format(t, in, formatter.DefaultSettings())
	assert.Equal(t, "view! {\n        <a></a>\n        <b></b>\n    }", got)
}

func TestNestedViewWarning(t *testing.T) {
	t.Parallel()

	const in = `view! { <div>{move || view! { <p> }}</div> }`
	got, warnings := format(t, in, formatter.DefaultSettings())
	assert.Equal(t, in, got)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Error(), "expected closing tag for <p>")
}

// format lexes text and formats the first view in it.
func format(t *testing.T, text string, settings formatter.Settings) (string, []reporter.ErrorWithPos) {
	t.Helper()

	file := source.NewFile("test.rs", text)
	stream, err := token.Lex(file)
	require.NoError(t, err)

	invs := macro.Collect(stream.Tokens, settings.MacroNames)
	require.NotEmpty(t, invs)

	view, err := macro.Parse(invs[0], settings.MarkupOptions(file.Path()))
	require.NoError(t, err)

	var warnings []reporter.ErrorWithPos
	got := formatter.Format(view, &settings, &formatter.Input{
		Stream: stream,
		Warn:   func(err reporter.ErrorWithPos) { warnings = append(warnings, err) },
	})
	return got, warnings
}
