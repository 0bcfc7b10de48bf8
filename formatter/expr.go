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

package formatter

import (
	"strings"

	"github.com/bufbuild/viewfmt/macro"
	"github.com/bufbuild/viewfmt/markup"
	"github.com/bufbuild/viewfmt/source"
	"github.com/bufbuild/viewfmt/token"
)

// tree emits a single token tree. Groups on a single line lose the spaces
// inside their delimiters, as in { x } to {x}.
func (f *formatter) tree(tok token.Token) {
	if tok.Kind != token.Group || tok.Span.Start.Line != tok.Span.End.Line {
		f.source(tok.Span, []token.Token{tok})
		return
	}
	f.p.Word(tok.Delim.Open())
	if len(tok.Children) > 0 {
		f.source(spanOf(tok.Children), tok.Children)
	}
	f.p.Word(tok.Delim.Close())
}

// source emits the source text in span, which covers tokens.
//
// The text is reproduced line by line. Later lines keep their indentation
// relative to the line span starts on, and multi-line string literals are
// kept byte for byte. Views nested in tokens are formatted by the
// sub-formatter.
func (f *formatter) source(span source.Span, tokens []token.Token) {
	text := verbatim{
		f:        f,
		indent:   len(f.file.Indentation(span.Start.Line)),
		literals: multilineLiterals(f.file, tokens, nil),
	}

	start, end := f.file.Offset(span.Start), f.file.Offset(span.End)
	if f.sub != nil {
		base := f.indentWidth(span.Start.Line)
		for _, inv := range macro.Collect(tokens, f.settings.MacroNames) {
			invSpan := inv.Span()
			invStart, invEnd := f.file.Offset(invSpan.Start), f.file.Offset(invSpan.End)

			text.write(start, invStart)
			text.flush()
			indent := max(f.indentWidth(invSpan.Start.Line)-base, 0)
			if !f.sub.TryFormat(f.p, inv, indent) {
				text.write(invStart, invEnd)
			}
			start = invEnd
		}
	}
	text.write(start, end)
	text.flush()
}

// indentWidth returns the width of the indentation of a line.
func (f *formatter) indentWidth(line int) int {
	indent := f.file.Indentation(line)
	return strings.Count(indent, "\t")*f.settings.TabSpaces + strings.Count(indent, " ")
}

// verbatim accumulates source text into words, breaking at newlines.
type verbatim struct {
	f *formatter
	// Leading whitespace removed from each line after the first.
	indent int
	// The byte ranges of string literals containing newlines.
	literals [][2]int

	word      strings.Builder
	lineStart bool
}

func (v *verbatim) write(start, end int) {
	text := v.f.file.Text()
	for start < end {
		segEnd := end
		nl := strings.IndexByte(text[start:end], '\n')
		if nl >= 0 {
			segEnd = start + nl
		}

		segment := text[start:segEnd]
		if v.lineStart {
			segment = trimIndent(segment, v.indent)
			v.lineStart = false
		}

		switch {
		case nl < 0:
			v.word.WriteString(segment)
		case v.inLiteral(segEnd):
			v.word.WriteString(segment)
			v.word.WriteByte('\n')
		default:
			v.word.WriteString(strings.TrimRight(segment, " \t\r"))
			v.flush()
			v.f.p.HardBreak()
			v.lineStart = true
		}
		start = segEnd + 1
	}
}

func (v *verbatim) flush() {
	v.f.p.Word(v.word.String())
	v.word.Reset()
}

func (v *verbatim) inLiteral(offset int) bool {
	for _, lit := range v.literals {
		if lit[0] < offset && offset < lit[1] {
			return true
		}
	}
	return false
}

// multilineLiterals appends the byte ranges of the string literals in tokens
// that span several lines.
func multilineLiterals(file *source.File, tokens []token.Token, out [][2]int) [][2]int {
	for _, tok := range tokens {
		switch {
		case tok.Kind == token.Group:
			out = multilineLiterals(file, tok.Children, out)
		case tok.Lit.IsString() && tok.Span.Start.Line != tok.Span.End.Line:
			out = append(out, [2]int{file.Offset(tok.Span.Start), file.Offset(tok.Span.End)})
		}
	}
	return out
}

// removeExpressions deletes the trivia inside expressions from the view's
// table, since expressions are reproduced with their comments.
func (f *formatter) removeExpressions(view *macro.View) {
	remove := func(span source.Span) {
		f.gaps.Remove(f.file.Offset(span.Start), f.file.Offset(span.End))
	}
	name := func(name markup.Name) {
		if block, ok := name.Block(); ok {
			remove(block.Span)
		}
	}

	if view.GlobalClass != nil {
		remove(view.GlobalClass.Span)
	}

	var walk func([]markup.Node)
	walk = func(nodes []markup.Node) {
		for _, node := range nodes {
			switch node := node.(type) {
			case *markup.Element:
				name(node.Name)
				if len(node.Generics) > 0 {
					remove(spanOf(node.Generics))
				}
				for _, attr := range node.Attributes {
					switch attr := attr.(type) {
					case *markup.Spread:
						remove(attr.Span())
					case *markup.Keyed:
						name(attr.Key)
						if attr.Value != nil {
							remove(attr.Value.Span())
						}
					}
				}
				walk(node.Children)
			case *markup.Fragment:
				walk(node.Children)
			case *markup.Block, *markup.RawText, *markup.Doctype:
				remove(node.Span())
			}
		}
	}
	walk(view.Nodes)
}
