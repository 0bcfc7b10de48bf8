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
	"slices"
	"strings"

	"github.com/bufbuild/viewfmt/markup"
	"github.com/bufbuild/viewfmt/source"
	"github.com/bufbuild/viewfmt/token"
)

func (f *formatter) node(node markup.Node) {
	switch node := node.(type) {
	case *markup.Element:
		f.element(node)
	case *markup.Fragment:
		f.p.Word("<>")
		f.children(node.Children, 0, node.CloseTag.Start)
		f.p.Word("</>")
	case *markup.Text:
		f.text(node.Literal.Text, node.Literal.Span.Start.Column)
	case *markup.RawText:
		span := node.Span()
		f.text(f.file.Slice(span), span.Start.Column)
	case *markup.Block:
		f.tree(node.Group)
	case *markup.Comment:
		f.p.Word("<!-- ")
		f.text(node.Literal.Text, node.Literal.Span.Start.Column)
		f.p.Word(" -->")
	case *markup.Doctype:
		value := ""
		if len(node.Value) > 0 {
			value = " " + f.file.Slice(spanOf(node.Value))
		}
		f.p.Word("<!DOCTYPE" + value + ">")
	}
}

func (f *formatter) element(elem *markup.Element) {
	void := slices.Contains(f.voidElements(), strings.ToLower(elem.Name.String()))
	if _, block := elem.Name.Block(); block {
		void = false
	}

	selfClosing := len(elem.Children) == 0 && (void ||
		f.settings.ClosingTagStyle == SelfClosing ||
		(f.settings.ClosingTagStyle == PreserveClosing && elem.SelfClosed))

	f.p.Word("<")
	f.name(elem.Name)
	if len(elem.Generics) > 0 {
		f.p.Word(f.file.Slice(spanOf(elem.Generics)))
	}
	f.attributes(elem, selfClosing)
	if selfClosing {
		f.p.Word("/>")
		return
	}
	f.p.Word(">")

	closeTag := elem.OpenTag.End
	if !elem.CloseTag.IsZero() {
		closeTag = elem.CloseTag.Start
	}
	f.children(elem.Children, len(elem.Attributes), closeTag)

	f.p.Word("</")
	f.name(elem.Name)
	f.p.Word(">")
}

func (f *formatter) voidElements() []string {
	if f.settings.VoidElements == nil {
		return markup.DefaultVoidElements
	}
	return f.settings.VoidElements
}

func (f *formatter) name(name markup.Name) {
	if block, ok := name.Block(); ok {
		f.tree(block)
		return
	}
	f.p.Word(name.String())
}

// attributes emits the attributes of an opening tag. A single attribute
// stays on the line of the tag; several attributes either all fit on that
// line, or go one per line.
func (f *formatter) attributes(elem *markup.Element, selfClosing bool) {
	tagEnd := line(elem.OpenTag.End) - 1

	switch {
	case len(elem.Attributes) == 0:
		if selfClosing {
			f.p.Nbsp()
		}

	case len(elem.Attributes) == 1 && !f.gaps.HasComments(tagEnd):
		f.p.Nbsp()
		attr := elem.Attributes[0]
		f.flush(attr.Span().Start, true)
		f.attribute(attr, nil)
		if selfClosing {
			f.p.Nbsp()
		}

	default:
		f.p.CBoxIndent()
		f.p.Space()
		for i, attr := range elem.Attributes {
			if i > 0 {
				f.p.Space()
			}
			f.flush(attr.Span().Start, true)

			var next markup.Attribute
			if i+1 < len(elem.Attributes) {
				next = elem.Attributes[i+1]
			}
			f.attribute(attr, next)
		}
		f.flushClosing(elem.OpenTag.End, true)
		if selfClosing {
			f.p.Space()
		} else {
			f.p.ZeroBreak()
		}
		f.p.EndDedent()
	}
}

// children emits the children of an element or fragment. Trivia before
// closeTag, the start of the closing tag, is emitted inside the children
// box.
func (f *formatter) children(children []markup.Node, attributes int, closeTag source.Position) {
	if len(children) > 0 {
		f.gaps.DropBlank(line(children[0].Span().Start))
	}
	if len(children) == 0 && !f.gaps.HasCommentsBefore(f.file.Offset(closeTag)) {
		return
	}

	// Trivia on the line of the closing tag before the tag itself can only
	// be block comments, which a soft box keeps on that line.
	closeLine := line(closeTag) - 1

	// Textual content may share a line with its tags, unless there are
	// comments or blank lines to keep.
	soft := len(children) > 0 && attributes <= 1 && isTextual(children[0]) &&
		!f.gaps.Pending(closeLine)

	if soft {
		f.p.CBoxIndent()
		f.p.ZeroBreak()
		f.p.IBox(0)
	} else {
		f.p.NeverBreak()
		f.p.CBoxIndent()
		f.p.HardBreak()
	}

	for i, child := range children {
		if i > 0 {
			prev := children[i-1]
			if prev.Span().End == child.Span().Start && (isRaw(prev) || isRaw(child)) {
				f.p.ZeroBreak()
			} else {
				f.p.Space()
			}
		}
		f.flush(child.Span().Start, false)
		f.node(child)
	}

	if soft {
		for _, gap := range f.gaps.DrainBefore(line(closeTag), f.file.Offset(closeTag)) {
			if gap.IsBlank() {
				continue
			}
			f.p.Nbsp()
			f.p.Word(gap.Text)
		}
		f.p.End()
		f.p.ZeroBreak()
	} else {
		f.flushClosing(closeTag, len(children) > 0)
		f.p.HardBreak()
	}
	f.p.EndDedent()
}

func isTextual(node markup.Node) bool {
	switch node.(type) {
	case *markup.Text, *markup.RawText, *markup.Block:
		return true
	default:
		return false
	}
}

func isRaw(node markup.Node) bool {
	_, ok := node.(*markup.RawText)
	return ok
}

// text emits a string literal or unquoted text that starts at column.
//
// Lines after the first lose up to column characters of leading whitespace,
// so that they keep their indentation relative to the first line.
func (f *formatter) text(text string, column int) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			f.p.HardBreak()
			line = trimIndent(line, column)
		}
		f.p.Word(line)
	}
}

// trimIndent removes up to n leading spaces or tabs from line.
func trimIndent(line string, n int) string {
	i := 0
	for i < len(line) && i < n && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return line[i:]
}

func spanOf(tokens []token.Token) source.Span {
	return tokens[0].Span.Join(tokens[len(tokens)-1].Span)
}
