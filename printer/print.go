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
	"fmt"
	"strings"
)

// printer holds state for converting a measured [doc] into a string.
type printer struct {
	Options

	out     strings.Builder
	newline string

	// The column the next character will be written at. This includes
	// buffered spaces and indentation.
	column int
	// Buffered spaces, dropped if a newline comes first.
	spaces int
	// Indentation to write before the next text, or -1 if some text has
	// been written on this line already.
	indent int
}

// render renders a doc with the given options.
func render(options Options, d doc) string {
	d.measure(options)

	p := printer{
		Options: options,
		newline: "\n",
		column:  options.StartColumn,
		indent:  -1,
	}
	if options.CRLF {
		p.newline = "\r\n"
	}

	// The root box is always broken.
	p.box(&d[0], d[1:].cursor(), 0, 0, true)
	return p.out.String()
}

// box prints the contents of a box.
//
// indent is the indentation of the enclosing box, and after is the width of
// the content that follows this box up to the next break opportunity.
func (p *printer) box(box *tag, children cursor, indent, after int, broken bool) {
	indent += box.indent
	flat := !broken && !box.hard && p.column+box.width+after <= p.MaxWidth

	entries := children.entries()
	for i, e := range entries {
		switch t := e.tag; t.kind {
		case kindText:
			p.write(t.text)

		case kindBreak:
			p.lineBreak(box, t, entries[i+1:], indent, after, flat)

		case kindBox:
			p.box(t, e.children, indent, lead(entries[i+1:], after), false)
		}
	}
}

// lineBreak prints a break inside of box, either as blanks or as a newline.
func (p *printer) lineBreak(box, brk *tag, rest []entry, indent, after int, flat bool) {
	switch brk.brk {
	case Never:
		return
	case Hard:
		p.newlineAt(indent + brk.offset)
		return
	}

	broken := !flat
	if broken && box.breaking == Inconsistent {
		broken = p.column+brk.width+lead(rest, after) > p.MaxWidth
	}

	if broken {
		p.newlineAt(indent + brk.offset)
		return
	}
	p.spaces += brk.width
	p.column += brk.width
}

// write writes text, flushing any buffered whitespace first.
func (p *printer) write(text string) {
	if p.indent >= 0 {
		p.out.WriteString(p.indentation(p.indent))
		p.indent = -1
	}
	p.out.WriteString(strings.Repeat(" ", p.spaces))
	p.spaces = 0

	text = strings.ReplaceAll(text, "\r\n", "\n")
	if idx := strings.LastIndexByte(text, '\n'); idx >= 0 {
		p.out.WriteString(strings.ReplaceAll(text, "\n", p.newline))
		p.column = stringWidth(p.Options, text[idx+1:])
		return
	}

	p.out.WriteString(text)
	p.column += stringWidth(p.Options, text)
}

func (p *printer) newlineAt(indent int) {
	indent = max(indent, 0)
	p.out.WriteString(p.newline)
	p.spaces = 0
	p.indent = indent
	p.column = indent
}

// indentation renders an indent of the given number of columns.
func (p *printer) indentation(columns int) string {
	if !p.HardTabs {
		return strings.Repeat(" ", columns)
	}
	return strings.Repeat("\t", columns/p.IndentWidth) + strings.Repeat(" ", columns%p.IndentWidth)
}

// dump renders the structure of a measured doc as pseudo-HTML.
func dump(options Options, d doc) string {
	d.measure(options)

	var out strings.Builder
	dumpTo(&out, d[1:].cursor(), 0)
	return out.String()
}

func dumpTo(out *strings.Builder, c cursor, depth int) {
	for t, children := range c {
		out.WriteString(strings.Repeat("  ", depth))
		switch t.kind {
		case kindText:
			fmt.Fprintf(out, "%q\n", t.text)

		case kindBreak:
			name := [...]string{"space", "zero", "hard", "never"}[t.brk]
			if t.offset != 0 {
				fmt.Fprintf(out, "<%s offset=%d>\n", name, t.offset)
			} else {
				fmt.Fprintf(out, "<%s>\n", name)
			}

		case kindBox:
			name := "cbox"
			if t.breaking == Inconsistent {
				name = "ibox"
			}
			var hard string
			if t.hard {
				hard = " hard"
			}
			fmt.Fprintf(out, "<%s indent=%d width=%d%s>\n", name, t.indent, t.width, hard)
			dumpTo(out, children, depth+1)
			fmt.Fprintf(out, "%s</%s>\n", strings.Repeat("  ", depth), name)
		}
	}
}
