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

// Package token provides the token trees of the host language that view
// macros are embedded in.
//
// Tokens mirror the shape macro invocations see: identifiers, single
// punctuation characters with joint spacing, literals, and delimited groups.
// Comments and whitespace are not tokens; their spans are kept on the
// [Stream] so that callers can tell where comments were.
package token

import (
	"fmt"
	"iter"
	"slices"

	"github.com/bufbuild/viewfmt/source"
)

// Kind identifies what kind of token a particular [Token] is.
type Kind byte

const (
	Unrecognized Kind = iota
	Ident             // foo, r#type, match
	Punct             // a single punctuation character
	Literal           // "str", r#"raw"#, 'c', b'x', 42, 1.5e3
	Lifetime          // 'a
	Group             // (...), [...], {...}
)

// String implements [fmt.Stringer].
func (k Kind) String() string {
	switch k {
	case Ident:
		return "Ident"
	case Punct:
		return "Punct"
	case Literal:
		return "Literal"
	case Lifetime:
		return "Lifetime"
	case Group:
		return "Group"
	default:
		return fmt.Sprintf("Kind(%d)", byte(k))
	}
}

// Delimiter is the bracket type of a [Group] token.
type Delimiter byte

const (
	NoDelimiter Delimiter = iota
	Paren
	Bracket
	Brace
)

// Open returns the opening character of this delimiter.
func (d Delimiter) Open() string {
	switch d {
	case Paren:
		return "("
	case Bracket:
		return "["
	case Brace:
		return "{"
	default:
		return ""
	}
}

// Close returns the closing character of this delimiter.
func (d Delimiter) Close() string {
	switch d {
	case Paren:
		return ")"
	case Bracket:
		return "]"
	case Brace:
		return "}"
	default:
		return ""
	}
}

// LitKind distinguishes the literal forms.
type LitKind byte

const (
	NotLiteral LitKind = iota
	Str
	RawStr
	ByteStr
	RawByteStr
	CStr
	RawCStr
	Char
	Byte
	Int
	Float
)

// IsString returns whether this is any kind of string literal.
func (k LitKind) IsString() bool {
	switch k {
	case Str, RawStr, ByteStr, RawByteStr, CStr, RawCStr:
		return true
	default:
		return false
	}
}

// Token is a single token tree.
type Token struct {
	Kind Kind
	// The source text of the token. Empty for groups.
	Text string
	Span source.Span

	// For Punct: whether the next character is also punctuation, with no
	// space in between, as in the two halves of "::".
	Joint bool

	Lit      LitKind
	Delim    Delimiter
	Children []Token
}

// IsPunct returns whether this is the punctuation character c.
func (t Token) IsPunct(c byte) bool {
	return t.Kind == Punct && len(t.Text) == 1 && t.Text[0] == c
}

// IsIdent returns whether this is the identifier name.
func (t Token) IsIdent(name string) bool {
	return t.Kind == Ident && t.Text == name
}

// IsGroup returns whether this is a group delimited by d.
func (t Token) IsGroup(d Delimiter) bool {
	return t.Kind == Group && t.Delim == d
}

// IsLiteral returns whether this is a literal in the sense of the markup
// grammar: a string, character, number, or boolean.
func (t Token) IsLiteral() bool {
	return t.Kind == Literal || t.IsIdent("true") || t.IsIdent("false")
}

// Open returns the span of a group's opening delimiter.
func (t Token) Open() source.Span {
	return source.Span{Start: t.Span.Start, End: t.Span.Start.Shift(1)}
}

// Close returns the span of a group's closing delimiter.
func (t Token) Close() source.Span {
	return source.Span{Start: t.Span.End.Shift(-1), End: t.Span.End}
}

// Inner returns the span between a group's delimiters.
func (t Token) Inner() source.Span {
	return source.Span{Start: t.Open().End, End: t.Close().Start}
}

// Adjacent returns whether next starts exactly where t ends.
func (t Token) Adjacent(next Token) bool {
	return t.Span.End == next.Span.Start
}

// String implements [fmt.Stringer].
func (t Token) String() string {
	if t.Kind == Group {
		return fmt.Sprintf("%s%d%s@%v", t.Delim.Open(), len(t.Children), t.Delim.Close(), t.Span)
	}
	return fmt.Sprintf("%s(%q)@%v", t.Kind, t.Text, t.Span)
}

// Stream is the result of lexing a file.
type Stream struct {
	File   *source.File
	Tokens []Token

	// The spans of every comment in the file, in order.
	Comments []source.Span
}

// HasComment returns whether any comment starts inside span.
func (s *Stream) HasComment(span source.Span) bool {
	i, _ := slices.BinarySearchFunc(s.Comments, span.Start, func(c source.Span, p source.Position) int {
		switch {
		case c.Start.Before(p):
			return -1
		case p.Before(c.Start):
			return 1
		default:
			return 0
		}
	})
	return i < len(s.Comments) && s.Comments[i].Start.Before(span.End)
}

// Spans yields the spans of the given token trees in source order. Groups
// yield the span of their opening delimiter, then their contents, then the
// span of their closing delimiter.
func Spans(tokens []Token) iter.Seq[source.Span] {
	return func(yield func(source.Span) bool) {
		walkSpans(tokens, yield)
	}
}

func walkSpans(tokens []Token, yield func(source.Span) bool) bool {
	for _, tok := range tokens {
		if tok.Kind != Group {
			if !yield(tok.Span) {
				return false
			}
			continue
		}
		if !yield(tok.Open()) || !walkSpans(tok.Children, yield) || !yield(tok.Close()) {
			return false
		}
	}
	return true
}
