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

package source_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bufbuild/viewfmt/source"
)

func TestOffset(t *testing.T) {
	t.Parallel()

	file := source.NewFile(
		"test",
		"foo\nbar\ncat: 🐈‍⬛\ntail",
	)

	tests := []struct {
		pos    source.Position
		offset int
	}{
		{pos: source.Position{1, 0}, offset: 0},
		{pos: source.Position{1, 2}, offset: 2},
		{pos: source.Position{1, 3}, offset: 3},
		{pos: source.Position{2, 0}, offset: 4},
		{pos: source.Position{3, 5}, offset: 13},
		{pos: source.Position{3, 6}, offset: 17},
		{pos: source.Position{3, 8}, offset: 23},
		{pos: source.Position{4, 0}, offset: 24},
		{pos: source.Position{4, 4}, offset: 28},
	}

	for _, test := range tests {
		t.Run(test.pos.String(), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, test.offset, file.Offset(test.pos), "line/col -> offset")
			assert.Equal(t, test.pos, file.Position(test.offset), "offset -> line/col")
		})
	}
}

func TestOffsetMultibyte(t *testing.T) {
	t.Parallel()

	file := source.NewFile("test", "hello²💣 world\nbye")
	assert.Equal(t, 7, file.Offset(source.Position{1, 6}))
	assert.Equal(t, 11, file.Offset(source.Position{1, 7}))
	assert.Equal(t, "💣 world", file.Between(source.Position{1, 6}, source.Position{1, 13}))
	assert.Equal(t, "world\nbye", file.Slice(source.Span{
		Start: source.Position{1, 8},
		End:   source.Position{2, 3},
	}))
}

func TestOffsetOutOfRange(t *testing.T) {
	t.Parallel()

	file := source.NewFile("test", "ab\ncd\n")
	assert.Equal(t, 3, file.LineCount())
	assert.Panics(t, func() { file.Offset(source.Position{0, 0}) })
	assert.Panics(t, func() { file.Offset(source.Position{4, 0}) })
	assert.Panics(t, func() { file.Offset(source.Position{1, 3}) })
	assert.NotPanics(t, func() { file.Offset(source.Position{1, 2}) })
	assert.NotPanics(t, func() { file.Offset(source.Position{3, 0}) })
}

func TestLines(t *testing.T) {
	t.Parallel()

	file := source.NewFile("test", "fn main() {\n\t  view! {}\r\n}")
	assert.Equal(t, "fn main() {\n", file.Line(1))
	assert.Equal(t, "\t  ", file.Indentation(2))
	assert.Equal(t, "", file.Indentation(3))

	start, end := file.LineOffsets(2)
	assert.Equal(t, "\t  view! {}\r\n", file.Text()[start:end])
}

func TestSpan(t *testing.T) {
	t.Parallel()

	a := source.Span{Start: source.Position{1, 4}, End: source.Position{2, 0}}
	b := source.Span{Start: source.Position{1, 2}, End: source.Position{1, 6}}

	assert.True(t, a.Contains(source.Position{1, 9}))
	assert.False(t, a.Contains(source.Position{2, 0}))
	assert.Equal(t, source.Span{Start: source.Position{1, 2}, End: source.Position{2, 0}}, a.Join(b))
	assert.Equal(t, b, source.Span{}.Join(b))
	assert.True(t, source.Position{1, 9}.Before(source.Position{2, 0}))
}
