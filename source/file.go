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

// Package source provides source files and the mapping between line/column
// positions and byte offsets within them.
package source

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"
)

// File is a source code file being formatted.
//
// It contains additional book-keeping information for resolving positions.
// Files are immutable once created.
//
// A nil *File behaves like an empty file with the path name "".
type File struct {
	path, text string

	once sync.Once
	// A prefix sum of the line lengths of text. Given a byte offset, it is possible
	// to recover which line that offset is on by performing a binary search on this
	// list.
	//
	// Alternatively, this slice can be interpreted as the index after each \n in the
	// original file.
	lineIndex []int
}

// NewFile constructs a new source file.
func NewFile(path, text string) *File {
	return &File{path: path, text: text}
}

// Path returns this file's filesystem path.
func (f *File) Path() string {
	if f == nil {
		return ""
	}

	return f.path
}

// Text returns this file's textual contents.
func (f *File) Text() string {
	if f == nil {
		return ""
	}

	return f.text
}

// LineCount returns the number of lines in this file. A file always has at
// least one line, even if it is empty.
func (f *File) LineCount() int {
	return len(f.lines())
}

// Offset converts a position into a byte offset.
//
// The column is counted in Unicode scalar values, so the offset is found by
// walking the line rune by rune and summing the UTF-8 lengths.
//
// Panics if the position does not exist in this file. Positions come from
// the tokenizer, so an unknown position is a bug in the caller.
func (f *File) Offset(pos Position) int {
	lines := f.lines()
	if pos.Line < 1 || pos.Line > len(lines) || pos.Column < 0 {
		panic(fmt.Sprintf("source: position %v out of range for %q (%d lines)", pos, f.Path(), len(lines)))
	}

	start, end := f.LineOffsets(pos.Line)
	chunk := strings.TrimSuffix(f.Text()[start:end], "\n")

	offset := 0
	for range pos.Column {
		if offset >= len(chunk) {
			panic(fmt.Sprintf("source: column %d out of range on line %d of %q", pos.Column, pos.Line, f.Path()))
		}
		_, n := utf8.DecodeRuneInString(chunk[offset:])
		offset += n
	}

	return start + offset
}

// Position is the inverse of [File.Offset].
//
// This operation is O(log n) in the number of lines.
func (f *File) Position(offset int) Position {
	if f == nil || offset == 0 {
		return Position{Line: 1}
	}
	if offset < 0 || offset > len(f.text) {
		panic(fmt.Sprintf("source: offset %d out of range for %q", offset, f.Path()))
	}

	lines := f.lines()
	line, exact := slices.BinarySearch(lines, offset)
	if !exact {
		line--
	}

	return Position{
		Line:   line + 1,
		Column: utf8.RuneCountInString(f.text[lines[line]:offset]),
	}
}

// Between returns the text between two positions.
func (f *File) Between(start, end Position) string {
	return f.Text()[f.Offset(start):f.Offset(end)]
}

// Slice returns the text covered by span.
func (f *File) Slice(span Span) string {
	return f.Between(span.Start, span.End)
}

// Line returns the given line, including its trailing newline.
//
// line is expected to be 1-indexed.
func (f *File) Line(line int) string {
	start, end := f.LineOffsets(line)
	return f.text[start:end]
}

// LineOffsets returns the offsets for the given line, including its trailing
// newline.
//
// line is expected to be 1-indexed.
func (f *File) LineOffsets(line int) (start, end int) {
	lines := f.lines()
	if len(lines) == line {
		return lines[line-1], len(f.Text())
	}
	return lines[line-1], lines[line]
}

// Indentation returns the leading spaces and tabs of the given 1-indexed line.
func (f *File) Indentation(line int) string {
	text := f.Line(line)
	return text[:len(text)-len(strings.TrimLeft(text, " \t"))]
}

func (f *File) lines() []int {
	if f == nil {
		return []int{0}
	}

	// Compute the prefix sum on-demand.
	f.once.Do(func() {
		var next int

		// We add 1 to the return value of IndexByte because we want to work
		// with the index immediately *after* the newline byte.
		text := f.Text()
		for {
			newline := strings.IndexByte(text, '\n') + 1
			if newline == 0 {
				break
			}

			text = text[newline:]

			f.lineIndex = append(f.lineIndex, next)
			next += newline
		}

		f.lineIndex = append(f.lineIndex, next)
	})
	return f.lineIndex
}
