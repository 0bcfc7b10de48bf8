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

package token

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bufbuild/viewfmt/reporter"
	"github.com/bufbuild/viewfmt/source"
)

// Lex breaks the contents of file into token trees.
//
// Returns a [reporter.ErrorWithPos] if the file is not lexically valid:
// unterminated literals or comments, and unbalanced delimiters.
func Lex(file *source.File) (*Stream, error) {
	l := &lexer{file: file, text: file.Text()}
	if strings.HasPrefix(l.text, "\uFEFF") {
		l.cursor = len("\uFEFF")
	}
	if err := l.lex(); err != nil {
		return nil, err
	}
	return &Stream{File: file, Tokens: l.top, Comments: l.comments}, nil
}

// lexer is a host language lexer.
type lexer struct {
	file   *source.File
	text   string
	cursor int

	top      []Token
	open     []frame
	comments []source.Span
}

// frame is an open group whose closing delimiter has not been seen yet.
type frame struct {
	delim    Delimiter
	start    int
	children []Token
}

// Done returns whether or not we're done lexing runes.
func (l *lexer) Done() bool {
	return l.cursor >= len(l.text)
}

// Rest returns unlexed text.
func (l *lexer) Rest() string {
	return l.text[l.cursor:]
}

// Peek peeks the next character.
//
// Returns -1 if l.Done().
func (l *lexer) Peek() rune {
	return decodeRune(l.Rest())
}

// PeekAt peeks the character n runes ahead.
func (l *lexer) PeekAt(n int) rune {
	rest := l.Rest()
	for range n {
		_, size := utf8.DecodeRuneInString(rest)
		if size == 0 {
			return -1
		}
		rest = rest[size:]
	}
	return decodeRune(rest)
}

// Pop consumes the next character.
//
// Returns -1 if l.Done().
func (l *lexer) Pop() rune {
	r := l.Peek()
	if r != -1 {
		l.cursor += utf8.RuneLen(r)
	}
	return r
}

// TakeWhile consumes the characters while they match the given function.
// Returns consumed characters.
func (l *lexer) TakeWhile(f func(rune) bool) string {
	start := l.cursor
	for !l.Done() {
		r := l.Peek()
		if r == -1 || !f(r) {
			break
		}
		_ = l.Pop()
	}
	return l.text[start:l.cursor]
}

func (l *lexer) span(start, end int) source.Span {
	return source.Span{Start: l.file.Position(start), End: l.file.Position(end)}
}

func (l *lexer) errorf(offset int, format string, args ...any) error {
	return reporter.Errorf(l.file.Path(), l.file.Position(offset), format, args...)
}

func (l *lexer) push(tok Token) {
	if n := len(l.open); n > 0 {
		l.open[n-1].children = append(l.open[n-1].children, tok)
		return
	}
	l.top = append(l.top, tok)
}

func (l *lexer) lex() error {
	for !l.Done() {
		start := l.cursor
		r := l.Peek()

		switch {
		case unicode.IsSpace(r):
			l.TakeWhile(unicode.IsSpace)

		case strings.HasPrefix(l.Rest(), "//"):
			l.TakeWhile(func(r rune) bool { return r != '\n' })
			l.comments = append(l.comments, l.span(start, l.cursor))

		case strings.HasPrefix(l.Rest(), "/*"):
			if !l.blockComment() {
				return l.errorf(start, "unterminated block comment")
			}
			l.comments = append(l.comments, l.span(start, l.cursor))

		case r == '(' || r == '[' || r == '{':
			l.Pop()
			l.open = append(l.open, frame{delim: delimiterOf(r), start: start})

		case r == ')' || r == ']' || r == '}':
			l.Pop()
			n := len(l.open)
			if n == 0 {
				return l.errorf(start, "unexpected closing delimiter `%c`", r)
			}
			group := l.open[n-1]
			if group.delim.Close() != string(r) {
				return l.errorf(start, "mismatched closing delimiter `%c`, expected `%s`", r, group.delim.Close())
			}
			l.open = l.open[:n-1]
			l.push(Token{
				Kind:     Group,
				Delim:    group.delim,
				Span:     l.span(group.start, l.cursor),
				Children: group.children,
			})

		case r == '"' || l.isPrefixedString():
			kind, err := l.string()
			if err != nil {
				return err
			}
			l.literal(start, kind)

		case r == 'b' && l.PeekAt(1) == '\'':
			l.Pop()
			if err := l.char(); err != nil {
				return err
			}
			l.literal(start, Byte)

		case r == '\'':
			if l.isLifetime() {
				l.Pop()
				l.TakeWhile(isIdentContinue)
				l.push(Token{Kind: Lifetime, Text: l.text[start:l.cursor], Span: l.span(start, l.cursor)})
				break
			}
			if err := l.char(); err != nil {
				return err
			}
			l.literal(start, Char)

		case r >= '0' && r <= '9':
			l.literal(start, l.number())

		case r == 'r' && l.PeekAt(1) == '#' && isIdentStart(l.PeekAt(2)):
			l.cursor += len("r#")
			l.TakeWhile(isIdentContinue)
			l.push(Token{Kind: Ident, Text: l.text[start:l.cursor], Span: l.span(start, l.cursor)})

		case isIdentStart(r):
			l.TakeWhile(isIdentContinue)
			l.push(Token{Kind: Ident, Text: l.text[start:l.cursor], Span: l.span(start, l.cursor)})

		default:
			l.Pop()
			l.push(Token{
				Kind:  Punct,
				Text:  l.text[start:l.cursor],
				Span:  l.span(start, l.cursor),
				Joint: isPunct(r) && isPunct(l.Peek()) && !strings.HasPrefix(l.Rest(), "//") && !strings.HasPrefix(l.Rest(), "/*"),
			})
		}
	}

	if n := len(l.open); n > 0 {
		group := l.open[n-1]
		return l.errorf(group.start, "unclosed delimiter `%s`", group.delim.Open())
	}
	return nil
}

func (l *lexer) literal(start int, kind LitKind) {
	// Literal suffixes, such as 10u32 or "x"suffix.
	if kind != Int && kind != Float {
		l.TakeWhile(isIdentContinue)
	}
	l.push(Token{Kind: Literal, Lit: kind, Text: l.text[start:l.cursor], Span: l.span(start, l.cursor)})
}

// blockComment consumes a possibly nested block comment.
func (l *lexer) blockComment() bool {
	depth := 0
	for !l.Done() {
		switch rest := l.Rest(); {
		case strings.HasPrefix(rest, "/*"):
			l.cursor += 2
			depth++
		case strings.HasPrefix(rest, "*/"):
			l.cursor += 2
			depth--
			if depth == 0 {
				return true
			}
		default:
			l.Pop()
		}
	}
	return false
}

// isPrefixedString returns whether the cursor is at a raw, byte, or C string.
func (l *lexer) isPrefixedString() bool {
	rest := l.Rest()
	for _, prefix := range []string{"br", "cr", "b", "c", "r"} {
		if !strings.HasPrefix(rest, prefix) {
			continue
		}
		after := rest[len(prefix):]
		if strings.HasPrefix(after, `"`) {
			return true
		}
		if strings.HasSuffix(prefix, "r") {
			hashes := strings.TrimLeft(after, "#")
			return len(hashes) < len(after) && strings.HasPrefix(hashes, `"`)
		}
	}
	return false
}

// string consumes any string literal.
func (l *lexer) string() (LitKind, error) {
	start := l.cursor
	prefix := l.TakeWhile(func(r rune) bool { return r == 'b' || r == 'c' || r == 'r' })

	var kind LitKind
	switch prefix {
	case "":
		kind = Str
	case "b":
		kind = ByteStr
	case "c":
		kind = CStr
	case "r":
		kind = RawStr
	case "br":
		kind = RawByteStr
	case "cr":
		kind = RawCStr
	}

	if strings.HasSuffix(prefix, "r") {
		hashes := l.TakeWhile(func(r rune) bool { return r == '#' })
		l.Pop() // The opening quote.
		closer := `"` + hashes
		idx := strings.Index(l.Rest(), closer)
		if idx == -1 {
			return kind, l.errorf(start, "unterminated raw string literal")
		}
		l.cursor += idx + len(closer)
		return kind, nil
	}

	l.Pop() // The opening quote.
	for {
		switch l.Pop() {
		case -1:
			return kind, l.errorf(start, "unterminated string literal")
		case '\\':
			l.Pop()
		case '"':
			return kind, nil
		}
	}
}

// char consumes a character literal, starting at its opening quote.
func (l *lexer) char() error {
	start := l.cursor
	l.Pop()
	for {
		switch l.Pop() {
		case -1, '\n':
			return l.errorf(start, "unterminated character literal")
		case '\\':
			l.Pop()
		case '\'':
			return nil
		}
	}
}

// isLifetime distinguishes 'a and 'static from 'a' and '\n'.
func (l *lexer) isLifetime() bool {
	next := l.PeekAt(1)
	return isIdentStart(next) && l.PeekAt(2) != '\''
}

// number consumes an integer or float literal, including any suffix.
func (l *lexer) number() LitKind {
	rest := l.Rest()
	if len(rest) > 1 && rest[0] == '0' && strings.ContainsRune("xob", rune(rest[1])) {
		l.cursor += 2
		l.TakeWhile(isIdentContinue)
		return Int
	}

	kind := Int
	digits := func(r rune) bool { return r >= '0' && r <= '9' || r == '_' }
	l.TakeWhile(digits)

	// A dot only continues the number when a digit follows, so that 1..2 and
	// 1.max(2) lex as separate tokens.
	if l.Peek() == '.' && l.PeekAt(1) >= '0' && l.PeekAt(1) <= '9' {
		l.Pop()
		l.TakeWhile(digits)
		kind = Float
	}
	if r := l.Peek(); r == 'e' || r == 'E' {
		next := l.PeekAt(1)
		if next == '+' || next == '-' {
			next = l.PeekAt(2)
		}
		if next >= '0' && next <= '9' {
			l.Pop()
			if r := l.Peek(); r == '+' || r == '-' {
				l.Pop()
			}
			l.TakeWhile(digits)
			kind = Float
		}
	}

	suffix := l.TakeWhile(isIdentContinue)
	if strings.HasPrefix(suffix, "f") {
		kind = Float
	}
	return kind
}

func delimiterOf(r rune) Delimiter {
	switch r {
	case '(':
		return Paren
	case '[':
		return Bracket
	default:
		return Brace
	}
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinue(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isPunct(r rune) bool {
	return r < utf8.RuneSelf && strings.ContainsRune("~!@#$%^&*-=+|;:,.<>/?", r)
}

func decodeRune(s string) rune {
	if s == "" {
		return -1
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r
}
