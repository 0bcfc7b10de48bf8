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

// Package markup contains the tree of a parsed view and the parser that
// produces it.
//
// Views are written as HTML-like markup inside a macro's token stream.
// Nodes keep the tokens they were parsed from, so that a formatter can
// reproduce expressions, literals, and unquoted text exactly as written.
package markup

import (
	"strings"

	"github.com/bufbuild/viewfmt/source"
	"github.com/bufbuild/viewfmt/token"
)

// Node is a node in a markup tree.
//
// This is a closed interface: it is implemented by [*Element], [*Fragment],
// [*Text], [*RawText], [*Block], [*Comment], and [*Doctype].
type Node interface {
	Span() source.Span

	node()
}

// Element is a tag, such as <div class="x">"hello"</div> or <Foo/>.
type Element struct {
	Name Name
	// The generic arguments following the name, including the angle
	// brackets, as in <Show<T>>. Empty if there are none.
	Generics []token.Token

	Attributes []Attribute
	Children   []Node

	// Whether the source ended the opening tag with />.
	SelfClosed bool

	// The spans of the opening and closing tags. CloseTag is zero when the
	// element was self-closed or is a void element written without one.
	OpenTag, CloseTag source.Span
}

// Fragment is a list of nodes wrapped in <> and </>.
type Fragment struct {
	Children []Node

	OpenTag, CloseTag source.Span
}

// Text is a quoted string used as text content.
type Text struct {
	Literal token.Token
}

// RawText is a run of unquoted text, such as the contents of <p>Hello world</p>
// or of a <script> element.
type RawText struct {
	Tokens []token.Token
}

// Block is an expression in braces used as content.
type Block struct {
	Group token.Token
}

// Comment is an HTML comment: <!-- "text" -->.
type Comment struct {
	Literal token.Token

	span source.Span
}

// Doctype is a doctype declaration: <!DOCTYPE html>.
type Doctype struct {
	// The tokens after the DOCTYPE keyword.
	Value []token.Token

	span source.Span
}

// Span implements [Node].
func (e *Element) Span() source.Span {
	return e.OpenTag.Join(e.CloseTag)
}

// Span implements [Node].
func (f *Fragment) Span() source.Span {
	return f.OpenTag.Join(f.CloseTag)
}

// Span implements [Node].
func (t *Text) Span() source.Span {
	return t.Literal.Span
}

// Span implements [Node].
func (r *RawText) Span() source.Span {
	return spanOf(r.Tokens)
}

// Span implements [Node].
func (b *Block) Span() source.Span {
	return b.Group.Span
}

// Span implements [Node].
func (c *Comment) Span() source.Span {
	return c.span
}

// Span implements [Node].
func (d *Doctype) Span() source.Span {
	return d.span
}

func (*Element) node()  {}
func (*Fragment) node() {}
func (*Text) node()     {}
func (*RawText) node()  {}
func (*Block) node()    {}
func (*Comment) node()  {}
func (*Doctype) node()  {}

// Attribute is an attribute of an [Element].
//
// This is a closed interface: it is implemented by [*Keyed] and [*Spread].
type Attribute interface {
	Span() source.Span

	attribute()
}

// Keyed is an attribute with a name, such as class="x", on:click=handler,
// let(item), or a bare disabled.
type Keyed struct {
	Key Name
	// nil, [*Binding], or [*Expr].
	Value Value
}

// Spread is a spread attribute: {..} or {..props}.
type Spread struct {
	Group token.Token
}

// Span implements [Attribute].
func (k *Keyed) Span() source.Span {
	span := k.Key.Span()
	if k.Value != nil {
		span = span.Join(k.Value.Span())
	}
	return span
}

// Span implements [Attribute].
func (s *Spread) Span() source.Span {
	return s.Group.Span
}

func (*Keyed) attribute()  {}
func (*Spread) attribute() {}

// Value is the value of a [Keyed] attribute.
//
// This is a closed interface: it is implemented by [*Binding] and [*Expr].
type Value interface {
	Span() source.Span

	value()
}

// Binding is the pattern list of a binding attribute, as in let(item). The
// group is the parenthesized list.
type Binding struct {
	Group token.Token
}

// Expr is the expression after the = of an attribute.
type Expr struct {
	Tokens []token.Token
}

// Span implements [Value].
func (b *Binding) Span() source.Span {
	return b.Group.Span
}

// Span implements [Value].
func (e *Expr) Span() source.Span {
	return spanOf(e.Tokens)
}

// Braced returns the brace group if this expression is a single block.
func (e *Expr) Braced() (token.Token, bool) {
	if len(e.Tokens) == 1 && e.Tokens[0].IsGroup(token.Brace) {
		return e.Tokens[0], true
	}
	return token.Token{}, false
}

// Literal returns the literal if this expression is a single literal.
func (e *Expr) Literal() (token.Token, bool) {
	if len(e.Tokens) == 1 && e.Tokens[0].IsLiteral() {
		return e.Tokens[0], true
	}
	return token.Token{}, false
}

func (*Binding) value() {}
func (*Expr) value()    {}

// Name is the name of an element or attribute.
//
// Names are made of identifiers joined by -, :, or ::, with no whitespace
// in between: div, on:click, data-id, leptos::Foo. A name can also be a
// block, as in <{component}/>.
type Name struct {
	Tokens []token.Token
}

// Block returns the brace group if this is a block name.
func (n Name) Block() (token.Token, bool) {
	if len(n.Tokens) == 1 && n.Tokens[0].IsGroup(token.Brace) {
		return n.Tokens[0], true
	}
	return token.Token{}, false
}

// Span returns the span of the name.
func (n Name) Span() source.Span {
	return spanOf(n.Tokens)
}

// String returns the name as written.
//
// Block names are rendered with single spaces between their tokens.
func (n Name) String() string {
	var out strings.Builder
	writeTokens(&out, n.Tokens, "")
	return out.String()
}

// Is returns whether this name is exactly name.
func (n Name) Is(name string) bool {
	_, block := n.Block()
	return !block && n.String() == name
}

func writeTokens(out *strings.Builder, tokens []token.Token, sep string) {
	for i, tok := range tokens {
		if i > 0 {
			out.WriteString(sep)
		}
		if tok.Kind != token.Group {
			out.WriteString(tok.Text)
			continue
		}
		out.WriteString(tok.Delim.Open())
		writeTokens(out, tok.Children, " ")
		out.WriteString(tok.Delim.Close())
	}
}

func spanOf(tokens []token.Token) source.Span {
	if len(tokens) == 0 {
		return source.Span{}
	}
	return source.Span{Start: tokens[0].Span.Start, End: tokens[len(tokens)-1].Span.End}
}
