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

package printer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bufbuild/viewfmt/printer"
)

// view emits the directives for a view macro with a single child.
func view(p *printer.Printer, child string) {
	p.CBox(0)
	p.Word("view! {")
	p.CBoxIndent()
	p.Space()
	p.Word(child)
	p.Space()
	p.EndDedent()
	p.Word("}")
	p.End()
}

func TestConsistent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		options printer.Options
		want    string
	}{
		{
			name: "fits",
			want: "view! { <div/> }",
		},
		{
			name:    "too wide",
			options: printer.Options{MaxWidth: 10},
			want:    "view! {\n    <div/>\n}",
		},
		{
			name:    "exactly wide enough",
			options: printer.Options{MaxWidth: 16},
			want:    "view! { <div/> }",
		},
		{
			name:    "start column counts",
			options: printer.Options{MaxWidth: 20, StartColumn: 5},
			want:    "view! {\n    <div/>\n}",
		},
		{
			name:    "indent width",
			options: printer.Options{MaxWidth: 10, IndentWidth: 2},
			want:    "view! {\n  <div/>\n}",
		},
		{
			name:    "crlf",
			options: printer.Options{MaxWidth: 10, CRLF: true},
			want:    "view! {\r\n    <div/>\r\n}",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			p := printer.New(test.options)
			view(p, "<div/>")
			assert.Equal(t, test.want, p.EOF())
		})
	}
}

func TestInconsistent(t *testing.T) {
	t.Parallel()

	words := func(p *printer.Printer) {
		for i, word := range []string{"aaa", "bbb", "ccc", "ddd"} {
			if i > 0 {
				p.Space()
			}
			p.Word(word)
		}
		p.End()
	}

	p := printer.New(printer.Options{MaxWidth: 10})
	p.IBox(0)
	words(p)
	assert.Equal(t, "aaa bbb\nccc ddd", p.EOF())

	p = printer.New(printer.Options{MaxWidth: 10})
	p.CBox(0)
	words(p)
	assert.Equal(t, "aaa\nbbb\nccc\nddd", p.EOF())

	p = printer.New(printer.Options{MaxWidth: 100})
	p.IBox(0)
	words(p)
	assert.Equal(t, "aaa bbb ccc ddd", p.EOF())
}

func TestHardBreaks(t *testing.T) {
	t.Parallel()

	nested := func(options printer.Options) string {
		p := printer.New(options)
		p.CBox(0)
		p.Word("{")
		p.CBoxIndent()
		p.HardBreak()
		p.Word("a")
		p.CBoxIndent()
		p.HardBreak()
		p.Word("b")
		p.End()
		p.HardBreak()
		p.EndDedent()
		p.Word("}")
		p.End()
		return p.EOF()
	}

	assert.Equal(t, "{\n    a\n        b\n}", nested(printer.Options{}))
	assert.Equal(t, "{\n\ta\n\t\tb\n}", nested(printer.Options{HardTabs: true}))
	assert.Equal(t, "{\r\n\ta\r\n\t\tb\r\n}", nested(printer.Options{HardTabs: true, CRLF: true}))
	assert.Equal(t, "{\n   a\n      b\n}", nested(printer.Options{IndentWidth: 3}))

	// Mixed tabs and spaces when the indent is not a whole number of tabs.
	p := printer.New(printer.Options{HardTabs: true})
	p.CBox(6)
	p.Word("a")
	p.HardBreak()
	p.Word("b")
	p.End()
	assert.Equal(t, "a\n\t  b", p.EOF())
}

func TestBlankLines(t *testing.T) {
	t.Parallel()

	p := printer.New(printer.Options{})
	p.CBoxIndent()
	p.Word("a")
	p.HardBreak()
	p.HardBreak()
	p.Word("b")
	p.Space()
	p.HardBreak()
	p.End()
	assert.Equal(t, "a\n\n    b\n\n", p.EOF(), "no indentation or trailing spaces on empty lines")
}

func TestNeverBreak(t *testing.T) {
	t.Parallel()

	p := printer.New(printer.Options{})
	p.CBox(0)
	p.Word("a")
	p.NeverBreak()
	p.Word("b")
	p.HardBreak()
	p.Word("c")
	p.End()
	assert.Equal(t, "ab\nc", p.EOF())
}

func TestTrailingContentCounts(t *testing.T) {
	t.Parallel()

	box := func(p *printer.Printer) {
		p.Word("x")
		p.CBox(4)
		p.Space()
		p.Word("aaaa")
		p.Space()
		p.Word("bbbb")
		p.End()
	}

	// The box itself fits, but not together with the text glued to it.
	p := printer.New(printer.Options{MaxWidth: 14})
	box(p)
	p.Word("!!!!!")
	assert.Equal(t, "x\n    aaaa\n    bbbb!!!!!", p.EOF())

	// A break opportunity after the box stops the measurement.
	p = printer.New(printer.Options{MaxWidth: 14})
	box(p)
	p.NeverBreak()
	p.Word("!!!!!")
	assert.Equal(t, "x aaaa bbbb!!!!!", p.EOF())
}

func TestWideText(t *testing.T) {
	t.Parallel()

	p := printer.New(printer.Options{MaxWidth: 11})
	p.CBox(0)
	p.Word("日本語日本")
	p.Space()
	p.Word("x")
	p.End()
	assert.Equal(t, "日本語日本\nx", p.EOF())
}

func TestMultilineWord(t *testing.T) {
	t.Parallel()

	p := printer.New(printer.Options{MaxWidth: 20, CRLF: true})
	p.CBox(4)
	p.Word("r\"one\r\ntwo\"")
	p.Space()
	p.Word("z")
	p.End()
	assert.Equal(t, "r\"one\r\ntwo\"\r\n    z", p.EOF(), "text after a newline is copied as is")
}

func TestDump(t *testing.T) {
	t.Parallel()

	p := printer.New(printer.Options{})
	view(p, "<br/>")
	assert.Equal(t, `<cbox indent=0 width=15>
  "view! {"
  <cbox indent=4 width=7>
    <space>
    "<br/>"
    <space offset=-4>
  </cbox>
  "}"
</cbox>
`, p.Dump())
}

func TestMalformed(t *testing.T) {
	t.Parallel()

	assert.PanicsWithValue(t, "printer: End called without a matching box", func() {
		printer.New(printer.Options{}).End()
	})
	assert.PanicsWithValue(t, "printer: EndDedent called without a matching box", func() {
		printer.New(printer.Options{}).EndDedent()
	})
	assert.PanicsWithValue(t, "printer: EOF called with 2 unclosed boxes", func() {
		p := printer.New(printer.Options{})
		p.CBox(0)
		p.IBox(0)
		p.EOF()
	})
	assert.Panics(t, func() {
		p := printer.New(printer.Options{})
		p.EOF()
		p.Word("late")
	})
}
