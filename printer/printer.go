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

// Package printer is a pretty printer in the style of Oppen's algorithm.
//
// A document is built by streaming directives into a [Printer]: words,
// breaks, and boxes that group them. When the document is complete, [Printer.EOF]
// lays it out against a maximum line width and returns the text.
//
// There are two kinds of boxes. A consistent box (see [Printer.CBox]) either
// fits on the rest of the line, in which case every break in it is rendered
// as a space, or it does not, in which case every break in it becomes a
// newline. An inconsistent box (see [Printer.IBox]) decides for each break
// separately, which is how paragraphs of text are filled.
//
// Indentation is tracked per box: a newline produced by a break inside a box
// is followed by that box's indentation, which is the indentation of its
// parent plus the indent given when the box was opened.
package printer

import (
	"fmt"
	"math"
)

// Options specifies configuration for a [Printer].
type Options struct {
	// The maximum number of columns to render before triggering
	// a break. A value of zero implies an infinite width.
	MaxWidth int

	// The number of columns an indentation level occupies, and the width
	// of a tab. Defaults to 4.
	IndentWidth int

	// If true, indentation is rendered with tabs, using spaces only for
	// the remainder of indents that are not a multiple of IndentWidth.
	HardTabs bool

	// If true, newlines are rendered as \r\n.
	CRLF bool

	// The column the first line of output starts at. The printer never
	// writes anything before this column, but it counts against MaxWidth.
	StartColumn int
}

// WithDefaults replaces any unset (read: zero value) fields of an Options which
// specify a default value with that default value.
func (o Options) WithDefaults() Options {
	if o.MaxWidth == 0 {
		o.MaxWidth = math.MaxInt
	}
	if o.IndentWidth == 0 {
		o.IndentWidth = 4
	}
	return o
}

// Breaking is how the breaks in a box are decided.
type Breaking byte

const (
	// Consistent boxes break all of their breaks, or none of them.
	Consistent Breaking = iota
	// Inconsistent boxes break only where the next piece of content would
	// not fit.
	Inconsistent
)

// BreakKind is a kind of break.
type BreakKind byte

const (
	// Space is a single space, or a newline.
	Space BreakKind = iota
	// Zero is nothing, or a newline.
	Zero
	// Hard is always a newline, and forces every enclosing box to break.
	Hard
	// Never is never a newline. It renders as nothing, but content after
	// it does not count towards whether the box before it fits.
	Never
)

// Printer accumulates a document.
//
// The zero value is not ready to use; construct one with [New].
type Printer struct {
	opts Options
	doc  doc

	// Indices into doc of the boxes that have not been closed yet. The
	// first one is the root box, which is closed by EOF.
	open []int
	done bool
}

// New returns a new printer with an empty document.
func New(options Options) *Printer {
	p := &Printer{opts: options.WithDefaults()}
	p.begin(Consistent, 0)
	return p
}

// Options returns the options this printer was constructed with, with
// defaults filled in.
func (p *Printer) Options() Options {
	return p.opts
}

// Word appends text that is never broken.
func (p *Printer) Word(text string) {
	if text == "" {
		return
	}
	p.push(tag{kind: kindText, text: text})
}

// Nbsp appends a space that can never become a newline.
func (p *Printer) Nbsp() {
	p.Word(" ")
}

// Space appends a break that renders as a space when its box is flat.
func (p *Printer) Space() {
	p.push(tag{kind: kindBreak, brk: Space})
}

// ZeroBreak appends a break that renders as nothing when its box is flat.
func (p *Printer) ZeroBreak() {
	p.push(tag{kind: kindBreak, brk: Zero})
}

// HardBreak appends a newline.
func (p *Printer) HardBreak() {
	p.push(tag{kind: kindBreak, brk: Hard})
}

// NeverBreak appends a break opportunity that is never taken.
func (p *Printer) NeverBreak() {
	p.push(tag{kind: kindBreak, brk: Never})
}

// CBox opens a consistent box indented by the given number of columns
// relative to the enclosing box.
func (p *Printer) CBox(indent int) {
	p.begin(Consistent, indent)
}

// IBox opens an inconsistent box indented by the given number of columns
// relative to the enclosing box.
func (p *Printer) IBox(indent int) {
	p.begin(Inconsistent, indent)
}

// CBoxIndent opens a consistent box indented by one level.
func (p *Printer) CBoxIndent() {
	p.CBox(p.opts.IndentWidth)
}

// End closes the most recently opened box.
//
// Panics if there is no open box.
func (p *Printer) End() {
	if len(p.open) <= 1 {
		panic("printer: End called without a matching box")
	}
	p.end()
}

// EndDedent closes the most recently opened box, moving a break that
// immediately precedes the end out by that box's indent, so that whatever
// follows the box lines up with whatever preceded it.
//
// Panics if there is no open box.
func (p *Printer) EndDedent() {
	if len(p.open) <= 1 {
		panic("printer: EndDedent called without a matching box")
	}
	box := p.doc[p.open[len(p.open)-1]]
	if last := &p.doc[len(p.doc)-1]; last.kind == kindBreak {
		last.offset -= box.indent
	}
	p.end()
}

// EOF lays out the document and returns the rendered text.
//
// Panics if some box was never closed. The printer cannot be used after
// calling EOF.
func (p *Printer) EOF() string {
	p.finish()
	return render(p.opts, p.doc)
}

// Dump lays out the document and renders its structure as pseudo-HTML
// instead of text. Intended for debugging.
//
// Like EOF, the printer cannot be used after calling Dump.
func (p *Printer) Dump() string {
	p.finish()
	return dump(p.opts, p.doc)
}

func (p *Printer) finish() {
	if p.done {
		panic("printer: document already rendered")
	}
	if n := len(p.open) - 1; n > 0 {
		panic(fmt.Sprintf("printer: EOF called with %d unclosed boxes", n))
	}
	p.end()
	p.done = true
}

func (p *Printer) begin(breaking Breaking, indent int) {
	p.push(tag{kind: kindBox, breaking: breaking, indent: indent})
	p.open = append(p.open, len(p.doc)-1)
}

func (p *Printer) end() {
	n := len(p.open) - 1
	idx := p.open[n]
	p.open = p.open[:n]
	p.doc[idx].children = len(p.doc) - idx - 1
}

func (p *Printer) push(t tag) {
	if p.done {
		panic("printer: document already rendered")
	}
	p.doc = append(p.doc, t)
}
