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

package source

import "fmt"

// Position is a location in a [File].
//
// Line is 1-indexed. Column is 0-indexed and counts Unicode scalar values,
// not bytes, which is how the tokenizer reports positions.
type Position struct {
	Line, Column int
}

// Before returns whether p comes strictly before q.
func (p Position) Before(q Position) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Column < q.Column
}

// Shift returns a position on the same line moved by n columns.
func (p Position) Shift(n int) Position {
	p.Column += n
	return p
}

// String implements [fmt.Stringer].
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span is a half-open range of positions in a [File].
type Span struct {
	Start, End Position
}

// IsZero returns whether this is the zero span.
func (s Span) IsZero() bool {
	return s == Span{}
}

// Contains returns whether q lies in this span.
func (s Span) Contains(q Position) bool {
	return !q.Before(s.Start) && q.Before(s.End)
}

// Join returns the smallest span covering both s and t.
func (s Span) Join(t Span) Span {
	switch {
	case s.IsZero():
		return t
	case t.IsZero():
		return s
	}
	if t.Start.Before(s.Start) {
		s.Start = t.Start
	}
	if s.End.Before(t.End) {
		s.End = t.End
	}
	return s
}

// String implements [fmt.Stringer].
func (s Span) String() string {
	return fmt.Sprintf("%v-%v", s.Start, s.End)
}
