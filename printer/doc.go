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

package printer

import (
	"iter"
	"strings"

	"github.com/rivo/uniseg"
)

const (
	kindNone kind = iota //nolint:unused

	kindText  // Ordinary text.
	kindBreak // See [BreakKind].
	kindBox   // See [Printer.CBox] and [Printer.IBox].
)

// kind is a kind of [tag].
type kind byte

// doc is a document of tags in pre-order: every box is followed by its
// contents.
type doc []tag

// cursor is a recursive iterator over a [doc].
type cursor iter.Seq2[*tag, cursor]

// tag is a single tag within a [doc].
type tag struct {
	text string
	kind kind

	brk    BreakKind
	offset int // Added to the box indent when this break is a newline.

	breaking Breaking
	indent   int

	width    int  // See measure().
	hard     bool // Whether this tag contains a forced newline.
	children int  // Number of children that follow in a [doc].
}

// entry is a tag together with an iterator over its children.
type entry struct {
	tag      *tag
	children cursor
}

// cursor returns an iterator over the top-level tags of this doc.
//
// The iterator yields tags along with another iterator over that tag's
// children.
func (d doc) cursor() cursor {
	return func(yield func(*tag, cursor) bool) {
		for i := 0; i < len(d); i++ {
			tag := &d[i]
			children := d[i+1 : i+tag.children+1]
			i += len(children)

			if !yield(tag, children.cursor()) {
				return
			}
		}
	}
}

// entries collects a cursor, so that siblings can be looked ahead at.
func (c cursor) entries() []entry {
	var out []entry
	for tag, children := range c {
		out = append(out, entry{tag, children})
	}
	return out
}

// measure computes the flat width of every tag, and whether it contains a
// hard break.
//
// Because a doc is in pre-order, walking it backwards visits every box
// after all of its contents.
func (d doc) measure(options Options) {
	for i := len(d) - 1; i >= 0; i-- {
		t := &d[i]
		switch t.kind {
		case kindText:
			first, _, multiline := strings.Cut(t.text, "\n")
			t.width = stringWidth(options, first)
			t.hard = multiline

		case kindBreak:
			switch t.brk {
			case Space:
				t.width = 1
			case Hard:
				t.hard = true
			}

		case kindBox:
			t.width, t.hard = 0, false
			for child := range d[i+1 : i+t.children+1].cursor() {
				t.width += child.width
				t.hard = t.hard || child.hard
			}
		}
	}
}

// lead returns the width of the content at the start of entries, up to the
// first break opportunity. If there is no break at all, after is added on,
// since it is the width of what follows entries.
func lead(entries []entry, after int) int {
	width, stopped := leadOf(entries)
	if !stopped {
		width += after
	}
	return width
}

func leadOf(entries []entry) (width int, stopped bool) {
	for _, e := range entries {
		switch e.tag.kind {
		case kindText:
			width += e.tag.width
			if e.tag.hard {
				return width, true
			}
		case kindBreak:
			return width, true
		case kindBox:
			w, stop := leadOf(e.children.entries())
			width += w
			if stop {
				return width, true
			}
		}
	}
	return width, false
}

// stringWidth calculates the rendered width of text. Tabs count as a full
// indentation level.
func stringWidth(options Options, text string) int {
	var width int
	for i, chunk := range strings.Split(text, "\t") {
		if i > 0 {
			width += options.IndentWidth
		}
		width += uniseg.StringWidth(chunk)
	}
	return width
}
