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

// Package trivia recovers the comments and blank lines that sit between
// tokens, so that a formatter which rebuilds text from a tree can put them
// back.
package trivia

import (
	"iter"
	"strings"

	"github.com/tidwall/btree"

	"github.com/bufbuild/viewfmt/source"
	"github.com/bufbuild/viewfmt/token"
)

// Gap is one comment or blank line between two tokens.
type Gap struct {
	// The zero-indexed source line this gap entry was found on.
	Line int
	// The byte offset of the comment, or of the start of the line for a
	// blank entry.
	Offset int
	// The comment text, ready to print. Empty for blank lines.
	Text string
}

// IsBlank returns whether this entry records a blank line rather than a
// comment.
func (g Gap) IsBlank() bool {
	return g.Text == ""
}

// Table holds the trivia of a file in source order, keyed by byte offset.
//
// Tables are consumed front to back with [Table.Drain]: once a line has been
// drained, entries on it or on any earlier line can never be returned again.
//
// The zero value is an empty table.
type Table struct {
	gaps btree.Map[int, Gap]

	// The line of the most recent drain.
	cursor  int
	drained bool
}

// Extract builds the gap table for a token stream.
//
// Whenever two consecutive token spans (group delimiters included) are on
// different lines, every line of the text between them is examined: lines
// holding a comment become comment entries, and whitespace-only lines become
// blank entries. The first and last line of a gap are shared with the tokens
// around it, so they only produce an entry when they hold a comment.
//
// Block comments between two tokens on the same line become entries of
// their own. Each comment is a separate entry, even when several share a
// line.
func Extract(file *source.File, tokens []token.Token) *Table {
	t := new(Table)

	var prev source.Span
	first := true
	for span := range token.Spans(tokens) {
		switch {
		case first:
		case prev.End.Line != span.Start.Line:
			t.extractGap(file, prev.End, span.Start)
		case prev.End != span.Start:
			t.extractInline(file, prev.End, span.Start)
		}
		prev, first = span, false
	}

	return t
}

func (t *Table) extractGap(file *source.File, start, end source.Position) {
	text := file.Between(start, end)
	offset := file.Offset(start)

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lineIndex := start.Line - 1 + i
		boundary := i == 0 || i == len(lines)-1
		lineOffset := offset
		offset += len(line) + 1

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			if !boundary {
				t.gaps.Set(lineOffset, Gap{Line: lineIndex, Offset: lineOffset})
			}
			continue
		}

		gap := Gap{
			Line:   lineIndex,
			Offset: lineOffset + strings.Index(line, trimmed),
			Text:   normalizeComment(trimmed),
		}
		t.gaps.Set(gap.Offset, gap)
	}
}

// extractInline records a block comment between two tokens on the same line
// as an entry for that line.
func (t *Table) extractInline(file *source.File, start, end source.Position) {
	text := file.Between(start, end)
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return
	}

	gap := Gap{
		Line:   start.Line - 1,
		Offset: file.Offset(start) + strings.Index(text, trimmed),
		Text:   trimmed,
	}
	t.gaps.Set(gap.Offset, gap)
}

// normalizeComment puts exactly one space after the marker of a plain line
// comment. Doc comments and block comment lines are kept as written.
func normalizeComment(text string) string {
	body, ok := strings.CutPrefix(text, "//")
	if !ok || strings.HasPrefix(body, "/") || strings.HasPrefix(body, "!") {
		return text
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return "//"
	}
	return "// " + body
}

// Len returns the number of entries left in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return t.gaps.Len()
}

// All yields the remaining entries in source order.
func (t *Table) All() iter.Seq[Gap] {
	return func(yield func(Gap) bool) {
		if t == nil {
			return
		}
		t.gaps.Scan(func(_ int, gap Gap) bool {
			return yield(gap)
		})
	}
}

// Slice returns a new table holding the entries whose offset lies in the
// byte range [start, end). The new table has its own drain cursor.
func (t *Table) Slice(start, end int) *Table {
	out := new(Table)
	for gap := range t.All() {
		if gap.Offset >= start && gap.Offset < end {
			out.gaps.Set(gap.Offset, gap)
		}
	}
	return out
}

// Remove deletes the entries whose offset lies in the byte range
// [start, end).
func (t *Table) Remove(start, end int) {
	t.deleteIf(func(gap Gap) bool {
		return gap.Offset >= start && gap.Offset < end
	})
}

// DropBlank deletes every blank entry on or before line.
func (t *Table) DropBlank(line int) {
	t.deleteIf(func(gap Gap) bool {
		return gap.Line <= line && gap.IsBlank()
	})
}

// HasComments returns whether any comment entry remains on or before line.
func (t *Table) HasComments(line int) bool {
	for gap := range t.All() {
		if gap.Line > line {
			break
		}
		if !gap.IsBlank() {
			return true
		}
	}
	return false
}

// HasCommentsBefore returns whether any comment entry remains before the
// given byte offset.
func (t *Table) HasCommentsBefore(offset int) bool {
	for gap := range t.All() {
		if gap.Offset >= offset {
			break
		}
		if !gap.IsBlank() {
			return true
		}
	}
	return false
}

// Pending returns whether any entry remains on or before line.
func (t *Table) Pending(line int) bool {
	for gap := range t.All() {
		return gap.Line <= line
	}
	return false
}

// Drain removes and returns every entry on or before line, in source order.
//
// Draining is monotonic: once some line has been drained, draining an
// earlier line returns nothing.
func (t *Table) Drain(line int) []Gap {
	return t.drain(line, func(gap Gap) bool { return gap.Line <= line })
}

// DrainBefore is like [Table.Drain], but stops at offset, which must lie on
// line. Entries later on line stay in the table for a later drain.
//
// Formatters drain before each node with the node's start, so that a
// comment which trails a node is printed after it, and a block comment in
// front of a node on the same line stays in front of it.
func (t *Table) DrainBefore(line, offset int) []Gap {
	return t.drain(line, func(gap Gap) bool { return gap.Offset < offset })
}

func (t *Table) drain(line int, take func(Gap) bool) []Gap {
	if t == nil || (t.drained && line < t.cursor) {
		return nil
	}
	t.cursor, t.drained = line, true

	var out []Gap
	iter := t.gaps.Iter()
	for more := iter.First(); more && take(iter.Value()); more = iter.Next() {
		out = append(out, iter.Value())
	}
	for _, gap := range out {
		t.gaps.Delete(gap.Offset)
	}
	return out
}

func (t *Table) deleteIf(pred func(Gap) bool) {
	if t == nil {
		return
	}
	var offsets []int
	for gap := range t.All() {
		if pred(gap) {
			offsets = append(offsets, gap.Offset)
		}
	}
	for _, offset := range offsets {
		t.gaps.Delete(offset)
	}
}
