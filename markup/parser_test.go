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

package markup_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/viewfmt/markup"
	"github.com/bufbuild/viewfmt/reporter"
	"github.com/bufbuild/viewfmt/source"
	"github.com/bufbuild/viewfmt/token"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name, text, want string
		opts            markup.Options
	}{
		{
			name: "element with text",
			text: `<div class="a">"hi"</div>`,
			want: `(elem div class="a" (text "hi"))`,
		},
		{
			name: "self-closing",
			text: `<input type="text" disabled/>`,
			want: `(elem input type="text" disabled /)`,
		},
		{
			name: "void elements take no children",
			text: `<br><p>Hello world</p>`,
			want: `(elem br) (elem p (raw Hello world))`,
		},
		{
			name: "closing tag after void element",
			text: `<img src=x></img>"after"`,
			want: `(elem img src=x) (text "after")`,
		},
		{
			name: "custom void elements",
			text: `<br>"x"</br>`,
			opts: markup.Options{VoidElements: []string{"hr"}},
			want: `(elem br (text "x"))`,
		},
		{
			name: "fragment",
			text: `<>"a"{b}</>`,
			want: `(frag (text "a") (block {b}))`,
		},
		{
			name: "comment and doctype",
			text: `<!-- "note" --><!DOCTYPE html>`,
			want: `(comment "note") (doctype html)`,
		},
		{
			name: "closure values",
			text: `<button on:click=move |_| set_count.update(|n| *n += 1) class:active=active>"+"</button>`,
			want: `(elem button on:click=move |_| set_count.update(|n| *n += 1) class:active=active (text "+"))`,
		},
		{
			name: "binding",
			text: `<For each=items key=|i| i.id let(item)>{item}</For>`,
			want: `(elem For each=items key=|i| i.id let(item) (block {item}))`,
		},
		{
			name: "generics and spread",
			text: `<Show<T> when=ok {..rest}/>`,
			want: `(elem Show<T> when=ok {..rest} /)`,
		},
		{
			name: "path and dashed names",
			text: `<leptos::Foo data-id=1 attr:type="x" class:text-2xl=big/>`,
			want: `(elem leptos::Foo data-id=1 attr:type="x" class:text-2xl=big /)`,
		},
		{
			name: "block attributes",
			text: `<div {..} {key}=value/>`,
			want: `(elem div {..} {key}=value /)`,
		},
		{
			name: "script",
			text: `<script>let x = "a" < b;</script>`,
			want: `(elem script (raw let x = "a" < b;))`,
		},
		{
			name: "conditional value",
			text: `<p class=if a { "x" } else { "y" }>"t"</p>`,
			want: `(elem p class=if a { "x" } else { "y" } (text "t"))`,
		},
		{
			name: "mixed children",
			text: `<p>"a" b c{d}</p>`,
			want: `(elem p (text "a") (raw b c) (block {d}))`,
		},
		{
			name: "suffixed literal",
			text: `<p>"a"b c{d}</p>`,
			want: `(elem p (text "a"b) (raw c) (block {d}))`,
		},
		{
			name: "turbofish path",
			text: `<A f=Foo::<u8>::new() b=-1/>`,
			want: `(elem A f=Foo::<u8>::new() b=-1 /)`,
		},
		{
			name: "empty",
			text: ``,
			want: ``,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			file, tokens := lex(t, test.text)
			nodes, err := markup.Parse(tokens, end(file), test.opts)
			require.NoError(t, err)
			if diff := cmp.Diff(test.want, dump(file, nodes)); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseSpans(t *testing.T) {
	t.Parallel()

	file, tokens := lex(t, "<div>\n  <br/>\n</div><img></img>")
	nodes, err := markup.Parse(tokens, end(file), markup.Options{})
	require.NoError(t, err)
	require.Len(t, nodes, 2)

	div := nodes[0].(*markup.Element)
	assert.Equal(t, "<div>", file.Slice(div.OpenTag))
	assert.Equal(t, "</div>", file.Slice(div.CloseTag))
	assert.Equal(t, source.Position{Line: 1, Column: 0}, div.Span().Start)
	assert.Equal(t, source.Position{Line: 3, Column: 6}, div.Span().End)

	br := div.Children[0].(*markup.Element)
	assert.True(t, br.SelfClosed)
	assert.True(t, br.CloseTag.IsZero())
	assert.Equal(t, 2, br.Span().Start.Line)

	img := nodes[1].(*markup.Element)
	assert.False(t, img.SelfClosed)
	assert.Equal(t, "</img>", file.Slice(img.CloseTag))
	assert.Empty(t, img.Children)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name, text, want string
		pos              source.Position
	}{
		{
			name: "unclosed",
			text: `<div>"x"`,
			want: "expected closing tag for <div>",
			pos:  source.Position{Line: 1, Column: 8},
		},
		{
			name: "mismatched",
			text: `<div></span>`,
			want: "closing tag </span> does not match <div>",
			pos:  source.Position{Line: 1, Column: 7},
		},
		{
			name: "missing value",
			text: `<div class=>`,
			want: "expected value for attribute class",
			pos:  source.Position{Line: 1, Column: 11},
		},
		{
			name: "incomplete value",
			text: `<div class=a +></div>`,
			want: "incomplete value for attribute class",
			pos:  source.Position{Line: 1, Column: 14},
		},
		{
			name: "stray closing tag",
			text: `"a"</div>`,
			want: "unexpected closing tag",
			pos:  source.Position{Line: 1, Column: 3},
		},
		{
			name: "comment without string",
			text: `<!-- x -->`,
			want: "expected string literal in comment",
			pos:  source.Position{Line: 1, Column: 5},
		},
		{
			name: "unterminated tag",
			text: `<div class="a"`,
			want: "expected > to end <div>",
			pos:  source.Position{Line: 1, Column: 14},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			file, tokens := lex(t, test.text)
			_, err := markup.Parse(tokens, end(file), markup.Options{Path: "test.rs"})
			require.Error(t, err)

			var ewp reporter.ErrorWithPos
			require.True(t, errors.As(err, &ewp))
			assert.Equal(t, test.want, ewp.Unwrap().Error())
			assert.Equal(t, test.pos, ewp.Position())
			assert.Equal(t, "test.rs", ewp.Path())
		})
	}
}

func TestScan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text     string
		n        int
		complete bool
	}{
		{text: ``, n: 0, complete: false},
		{text: `a b`, n: 1, complete: true},
		{text: `"a" "b"`, n: 1, complete: true},
		{text: `a + b c`, n: 3, complete: true},
		{text: `a +`, n: 2, complete: false},
		{text: `x.y().z > rest`, n: 6, complete: true},
		{text: `x.y().z/>`, n: 6, complete: true},
		{text: `{a} {b}`, n: 1, complete: true},
		{text: `move || a`, n: 4, complete: true},
		{text: `if a { b } else { c } d`, n: 5, complete: true},
		{text: `-1`, n: 2, complete: true},
		{text: `a..`, n: 3, complete: true},
		{text: `a as u8 b`, n: 3, complete: true},
		{text: `foo!(x) y`, n: 3, complete: true},
		{text: `x? y`, n: 2, complete: true},
		{text: `&mut x`, n: 3, complete: true},
		{text: `a == b && !c`, n: 8, complete: true},
		{text: `t.0 + 1`, n: 5, complete: true},
		{text: `async move { x }`, n: 3, complete: true},
	}

	for _, test := range tests {
		t.Run(test.text, func(t *testing.T) {
			t.Parallel()
			_, tokens := lex(t, test.text)
			n, complete := markup.Scan(tokens)
			assert.Equal(t, test.n, n)
			assert.Equal(t, test.complete, complete)
		})
	}
}

func lex(t *testing.T, text string) (*source.File, []token.Token) {
	t.Helper()
	file := source.NewFile("test.rs", text)
	stream, err := token.Lex(file)
	require.NoError(t, err)
	return file, stream.Tokens
}

func end(file *source.File) source.Position {
	return file.Position(len(file.Text()))
}

// dump renders nodes as S-expressions, using the source text of attribute
// values and blocks.
func dump(file *source.File, nodes []markup.Node) string {
	var out strings.Builder
	for i, node := range nodes {
		if i > 0 {
			out.WriteByte(' ')
		}
		dumpNode(&out, file, node)
	}
	return out.String()
}

func dumpNode(out *strings.Builder, file *source.File, node markup.Node) {
	switch node := node.(type) {
	case *markup.Element:
		out.WriteString("(elem ")
		out.WriteString(file.Slice(node.Name.Span()))
		if len(node.Generics) > 0 {
			out.WriteString(file.Slice(node.Generics[0].Span.Join(node.Generics[len(node.Generics)-1].Span)))
		}
		for _, attr := range node.Attributes {
			out.WriteByte(' ')
			switch attr := attr.(type) {
			case *markup.Keyed:
				out.WriteString(file.Slice(attr.Key.Span()))
				switch value := attr.Value.(type) {
				case *markup.Expr:
					out.WriteString("=" + file.Slice(value.Span()))
				case *markup.Binding:
					out.WriteString(file.Slice(value.Span()))
				}
			case *markup.Spread:
				out.WriteString(file.Slice(attr.Span()))
			}
		}
		if node.SelfClosed {
			out.WriteString(" /")
		}
		for _, child := range node.Children {
			out.WriteByte(' ')
			dumpNode(out, file, child)
		}
		out.WriteByte(')')
	case *markup.Fragment:
		out.WriteString("(frag")
		for _, child := range node.Children {
			out.WriteByte(' ')
			dumpNode(out, file, child)
		}
		out.WriteByte(')')
	case *markup.Text:
		out.WriteString("(text " + node.Literal.Text + ")")
	case *markup.RawText:
		out.WriteString("(raw " + file.Slice(node.Span()) + ")")
	case *markup.Block:
		out.WriteString("(block " + file.Slice(node.Span()) + ")")
	case *markup.Comment:
		out.WriteString("(comment " + node.Literal.Text + ")")
	case *markup.Doctype:
		out.WriteString("(doctype " + file.Slice(node.Value[0].Span.Join(node.Value[len(node.Value)-1].Span)) + ")")
	}
}
