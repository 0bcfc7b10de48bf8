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

// Package formatter renders parsed views into printer documents.
//
// The formatter walks a view's markup tree and emits words, breaks, and
// boxes. Comments and blank lines are not part of the tree; they come from
// a [trivia.Table] of the file, and are flushed before each node in source
// order. Expressions are reproduced from the source text, except for views
// nested inside them, which are formatted in turn.
package formatter

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/bufbuild/viewfmt/macro"
	"github.com/bufbuild/viewfmt/printer"
	"github.com/bufbuild/viewfmt/reporter"
	"github.com/bufbuild/viewfmt/source"
	"github.com/bufbuild/viewfmt/token"
	"github.com/bufbuild/viewfmt/trivia"
)

// Emitter is the set of directives the formatter emits. It is implemented
// by [*printer.Printer].
type Emitter interface {
	Word(text string)
	Nbsp()
	Space()
	ZeroBreak()
	HardBreak()
	NeverBreak()
	CBox(indent int)
	IBox(indent int)
	CBoxIndent()
	End()
	EndDedent()
}

var _ Emitter = (*printer.Printer)(nil)

// SubFormatter formats views nested inside expressions.
type SubFormatter interface {
	// TryFormat emits inv into e, in a box indented by indent relative to
	// the current one. It returns false, without emitting anything, if inv
	// could not be formatted; the caller then reproduces it as written.
	TryFormat(e Emitter, inv *macro.Invocation, indent int) bool
}

// Input is a lexed file that views are formatted from.
type Input struct {
	Stream *token.Stream
	// The trivia of the whole file. If nil, it is extracted from Stream.
	Gaps *trivia.Table
	// Receives nested views that could not be parsed, and so were kept as
	// written. May be nil.
	Warn reporter.WarningReporter
}

// Format renders a view.
//
// The result replaces the text covered by the view's invocation. Its first
// line is laid out as if it started at the column the invocation starts at.
func Format(view *macro.View, settings *Settings, in *Input) string {
	file := in.Stream.File
	gaps := in.Gaps
	if gaps == nil {
		gaps = trivia.Extract(file, in.Stream.Tokens)
	}

	opts := settings.PrinterOptions(file)
	opts.StartColumn = startColumn(file, view.Span().Start, settings.TabSpaces)
	p := printer.New(opts)

	nested := &nestedViews{settings: settings, stream: in.Stream, gaps: gaps, warn: in.Warn}
	f := nested.formatter(p, view.Invocation)
	f.view(view, macro.ParentIndent(file, view.Invocation, settings.TabSpaces))
	return p.EOF()
}

// startColumn returns the display width of the text before pos on its line.
func startColumn(file *source.File, pos source.Position, tabWidth int) int {
	prefix := file.Between(source.Position{Line: pos.Line}, pos)
	return uniseg.StringWidth(strings.ReplaceAll(prefix, "\t", strings.Repeat(" ", tabWidth)))
}

// formatter renders a single view.
type formatter struct {
	settings *Settings
	file     *source.File
	stream   *token.Stream
	p        Emitter
	sub      SubFormatter

	// The trivia of this view alone.
	gaps *trivia.Table
}

// nestedViews is the [SubFormatter] for views nested in expressions. Each
// view gets its own slice of the file's trivia.
type nestedViews struct {
	settings *Settings
	stream   *token.Stream
	gaps     *trivia.Table
	warn     reporter.WarningReporter
}

var _ SubFormatter = (*nestedViews)(nil)

// TryFormat implements [SubFormatter].
func (n *nestedViews) TryFormat(e Emitter, inv *macro.Invocation, indent int) bool {
	file := n.stream.File
	view, err := macro.Parse(inv, n.settings.MarkupOptions(file.Path()))
	if err != nil {
		if n.warn != nil {
			if ewp, ok := err.(reporter.ErrorWithPos); ok {
				n.warn(ewp)
			}
		}
		return false
	}

	n.formatter(e, inv).view(view, indent)
	return true
}

func (n *nestedViews) formatter(e Emitter, inv *macro.Invocation) *formatter {
	file := n.stream.File
	span := inv.Span()
	return &formatter{
		settings: n.settings,
		file:     file,
		stream:   n.stream,
		p:        e,
		sub:      n,
		gaps:     n.gaps.Slice(file.Offset(span.Start), file.Offset(span.End)),
	}
}

// line returns the zero-indexed line of pos, which is how the trivia table
// is keyed.
func line(pos source.Position) int {
	return pos.Line - 1
}

// flush emits the comments and blank lines before pos, the start of a node
// or attribute. Block comments on the line of pos stay in front of it;
// other comments get a line of their own. Every run of blank lines becomes
// one blank line.
//
// Blank lines are dropped between attributes.
func (f *formatter) flush(pos source.Position, attributes bool) {
	blank := false
	for _, gap := range f.gaps.DrainBefore(line(pos), f.file.Offset(pos)) {
		if gap.IsBlank() {
			if !blank && !attributes {
				f.p.HardBreak()
			}
			blank = true
			continue
		}
		blank = false
		f.p.Word(gap.Text)
		if gap.Line == line(pos) {
			f.p.Nbsp()
		} else {
			f.p.HardBreak()
		}
	}
}

// flushClosing emits the comments before pos at the end of a box, where pos
// is its closing delimiter. Each comment is preceded by a break, unless it
// is the first thing in the box; blank lines after the last comment are
// dropped.
func (f *formatter) flushClosing(pos source.Position, after bool) {
	blank := false
	for _, gap := range f.gaps.DrainBefore(line(pos), f.file.Offset(pos)) {
		if gap.IsBlank() {
			blank = after
			continue
		}
		if after {
			f.p.HardBreak()
		}
		if blank {
			f.p.HardBreak()
		}
		f.p.Word(gap.Text)
		blank, after = false, true
	}
}

// view emits a view: path! { [cx,] [class = X,] nodes }.
func (f *formatter) view(view *macro.View, indent int) {
	f.removeExpressions(view)

	group := view.Group
	closeLine := line(group.Close().Start)

	f.p.CBox(indent)
	f.p.Word(view.PathText + "! " + group.Delim.Open())
	if view.Cx != nil {
		f.p.Word(" " + view.Cx.Text + ",")
	}
	if view.GlobalClass != nil {
		f.p.Word(" class=")
		f.tree(*view.GlobalClass)
		f.p.Word(",")
	}

	if len(view.Nodes) == 0 && !f.gaps.HasComments(closeLine) {
		if view.Cx != nil || view.GlobalClass != nil {
			f.p.Word(" ")
		}
		f.p.Word(group.Delim.Close())
		f.p.End()
		return
	}

	if len(view.Nodes) > 0 {
		f.gaps.DropBlank(line(view.Nodes[0].Span().Start))
	}

	f.p.CBoxIndent()
	f.p.Space()
	for i, node := range view.Nodes {
		if i > 0 {
			f.p.HardBreak()
		}
		f.flush(node.Span().Start, false)
		f.node(node)
	}
	f.flushClosing(group.Close().Start, len(view.Nodes) > 0)
	f.p.Space()
	f.p.EndDedent()
	f.p.Word(group.Delim.Close())
	f.p.End()
}
