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

package markup

import (
	"slices"
	"strings"

	"github.com/bufbuild/viewfmt/reporter"
	"github.com/bufbuild/viewfmt/source"
	"github.com/bufbuild/viewfmt/token"
)

// DefaultVoidElements is the list of HTML elements that never have
// children.
var DefaultVoidElements = []string{
	"area", "base", "br", "col", "embed", "hr", "img", "input",
	"link", "meta", "param", "source", "track", "wbr",
}

// rawTextElements are the elements whose content is raw text, even if it
// contains quotes or braces.
var rawTextElements = []string{"script", "style"}

// Options configures [Parse].
type Options struct {
	// The path reported in errors.
	Path string

	// The elements that never have children. If nil, DefaultVoidElements
	// is used.
	VoidElements []string
}

func (o Options) isVoid(name Name) bool {
	void := o.VoidElements
	if void == nil {
		void = DefaultVoidElements
	}
	_, block := name.Block()
	return !block && slices.Contains(void, strings.ToLower(name.String()))
}

// Parse parses markup nodes out of a token stream.
//
// end is the position just past the last token, used to report input that
// ends too early. Errors are [reporter.ErrorWithPos] values.
func Parse(tokens []token.Token, end source.Position, opts Options) ([]Node, error) {
	p := &parser{tokens: tokens, end: end, opts: opts}
	var nodes []Node
	for !p.done() {
		node, err := p.node()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

type parser struct {
	tokens []token.Token
	pos    int
	end    source.Position
	opts   Options
}

func (p *parser) done() bool {
	return p.pos >= len(p.tokens)
}

func (p *parser) peek(n int) token.Token {
	if p.pos+n < len(p.tokens) {
		return p.tokens[p.pos+n]
	}
	return token.Token{}
}

// at returns whether the next tokens are the given punctuation, in order.
func (p *parser) at(puncts string) bool {
	for i := range len(puncts) {
		if !p.peek(i).IsPunct(puncts[i]) {
			return false
		}
	}
	return true
}

func (p *parser) errorf(format string, args ...any) error {
	pos := p.end
	if !p.done() {
		pos = p.peek(0).Span.Start
	}
	return reporter.Errorf(p.opts.Path, pos, format, args...)
}

// expect consumes the given punctuation or fails.
func (p *parser) expect(puncts string, what string) (source.Span, error) {
	if !p.at(puncts) {
		return source.Span{}, p.errorf("expected %s", what)
	}
	start := p.peek(0).Span
	p.pos += len(puncts)
	return start.Join(p.tokens[p.pos-1].Span), nil
}

func (p *parser) node() (Node, error) {
	tok := p.peek(0)
	switch {
	case p.at("<!--"):
		return p.comment()
	case p.at("<!"):
		return p.doctype()
	case p.at("<>"):
		return p.fragment()
	case p.at("</"):
		return nil, p.errorf("unexpected closing tag")
	case tok.IsPunct('<'):
		return p.element()
	case tok.Kind == token.Literal && tok.Lit.IsString():
		p.pos++
		return &Text{Literal: tok}, nil
	case tok.IsGroup(token.Brace):
		p.pos++
		return &Block{Group: tok}, nil
	default:
		return p.rawText(), nil
	}
}

// rawText consumes unquoted text up to the next tag or block.
func (p *parser) rawText() *RawText {
	start := p.pos
	for !p.done() && !p.peek(0).IsPunct('<') && !p.peek(0).IsGroup(token.Brace) {
		p.pos++
	}
	return &RawText{Tokens: p.tokens[start:p.pos]}
}

func (p *parser) comment() (Node, error) {
	start := p.peek(0).Span.Start
	p.pos += 4
	lit := p.peek(0)
	if lit.Kind != token.Literal || !lit.Lit.IsString() {
		return nil, p.errorf("expected string literal in comment")
	}
	p.pos++
	end, err := p.expect("-->", "-->")
	if err != nil {
		return nil, err
	}
	return &Comment{Literal: lit, span: source.Span{Start: start, End: end.End}}, nil
}

func (p *parser) doctype() (Node, error) {
	start := p.peek(0).Span.Start
	p.pos += 2
	if kw := p.peek(0); kw.Kind != token.Ident || !strings.EqualFold(kw.Text, "doctype") {
		return nil, p.errorf("expected DOCTYPE")
	}
	p.pos++

	first := p.pos
	for !p.done() && !p.peek(0).IsPunct('>') {
		p.pos++
	}
	value := p.tokens[first:p.pos]
	end, err := p.expect(">", "> after DOCTYPE")
	if err != nil {
		return nil, err
	}
	return &Doctype{Value: value, span: source.Span{Start: start, End: end.End}}, nil
}

func (p *parser) fragment() (Node, error) {
	open, _ := p.expect("<>", "<>")
	children, err := p.children(func() bool { return p.at("</>") })
	if err != nil {
		return nil, err
	}
	closing, err := p.expect("</>", "</> to close fragment")
	if err != nil {
		return nil, err
	}
	return &Fragment{Children: children, OpenTag: open, CloseTag: closing}, nil
}

// children parses nodes until stop returns true.
func (p *parser) children(stop func() bool) ([]Node, error) {
	var nodes []Node
	for !p.done() && !stop() {
		node, err := p.node()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func (p *parser) element() (Node, error) {
	start := p.peek(0).Span
	p.pos++

	name, err := p.name("element name")
	if err != nil {
		return nil, err
	}
	elem := &Element{Name: name}
	elem.Generics = p.generics(name)

	for {
		switch {
		case p.at("/>"):
			p.pos += 2
			elem.SelfClosed = true
			elem.OpenTag = start.Join(p.tokens[p.pos-1].Span)
			return elem, nil
		case p.at(">"):
			p.pos++
			elem.OpenTag = start.Join(p.tokens[p.pos-1].Span)
			return p.elementBody(elem)
		case p.done():
			return nil, p.errorf("expected > to end <%s>", name)
		}

		attr, err := p.attribute()
		if err != nil {
			return nil, err
		}
		elem.Attributes = append(elem.Attributes, attr)
	}
}

func (p *parser) elementBody(elem *Element) (Node, error) {
	if p.opts.isVoid(elem.Name) {
		// A closing tag right after a void element is tolerated.
		if p.at("</") && p.closes(elem.Name) {
			closing, err := p.closeTag(elem.Name)
			if err != nil {
				return nil, err
			}
			elem.CloseTag = closing
		}
		return elem, nil
	}

	if slices.ContainsFunc(rawTextElements, elem.Name.Is) {
		start := p.pos
		for !p.done() && !(p.at("</") && p.closes(elem.Name)) {
			p.pos++
		}
		if p.pos > start {
			elem.Children = []Node{&RawText{Tokens: p.tokens[start:p.pos]}}
		}
	} else {
		children, err := p.children(func() bool { return p.at("</") })
		if err != nil {
			return nil, err
		}
		elem.Children = children
	}

	closing, err := p.closeTag(elem.Name)
	if err != nil {
		return nil, err
	}
	elem.CloseTag = closing
	return elem, nil
}

// closes returns whether the closing tag at the cursor names name.
func (p *parser) closes(name Name) bool {
	save := p.pos
	defer func() { p.pos = save }()

	p.pos += 2
	other, err := p.name("")
	return err == nil && other.String() == name.String()
}

func (p *parser) closeTag(name Name) (source.Span, error) {
	if !p.at("</") {
		return source.Span{}, p.errorf("expected closing tag for <%s>", name)
	}
	start := p.peek(0).Span
	p.pos += 2
	other, err := p.name("closing tag name")
	if err != nil {
		return source.Span{}, err
	}
	if other.String() != name.String() {
		p.pos -= len(other.Tokens)
		return source.Span{}, p.errorf("closing tag </%s> does not match <%s>", other, name)
	}
	end, err := p.expect(">", "> to end closing tag")
	if err != nil {
		return source.Span{}, err
	}
	return start.Join(end), nil
}

// name parses a dashed, colon, or path name, or a block name.
func (p *parser) name(what string) (Name, error) {
	first := p.peek(0)
	switch {
	case first.IsGroup(token.Brace):
		p.pos++
		return Name{Tokens: []token.Token{first}}, nil
	case first.Kind == token.Ident:
	case p.at("::") && first.Joint && p.peek(2).Kind == token.Ident:
		// A leading :: as in ::leptos::Foo.
	default:
		return Name{}, p.errorf("expected %s", what)
	}

	start := p.pos
	if first.Kind == token.Punct {
		p.pos += 2
	}
	p.pos++

	for {
		prev := p.tokens[p.pos-1]
		sep := p.peek(0)
		if sep.Kind != token.Punct || !prev.Adjacent(sep) {
			break
		}

		var width int
		switch {
		case p.at("::"):
			width = 2
		case sep.IsPunct(':'), sep.IsPunct('-'):
			width = 1
		}
		if width == 0 {
			break
		}

		next := p.peek(width)
		if !p.tokens[p.pos+width-1].Adjacent(next) ||
			(next.Kind != token.Ident && next.Lit != token.Int && next.Lit != token.Float) {
			break
		}
		p.pos += width + 1
	}

	return Name{Tokens: p.tokens[start:p.pos]}, nil
}

// generics parses the generic arguments of a component, as in <For<T>>.
func (p *parser) generics(name Name) []token.Token {
	if !p.peek(0).IsPunct('<') || !name.Tokens[len(name.Tokens)-1].Adjacent(p.peek(0)) {
		return nil
	}

	start, depth := p.pos, 0
	for i := p.pos; i < len(p.tokens); i++ {
		switch tok := p.tokens[i]; {
		case tok.IsPunct('<'):
			depth++
		case tok.IsPunct('>'):
			depth--
			if depth == 0 {
				p.pos = i + 1
				return p.tokens[start:p.pos]
			}
		}
	}
	return nil
}

func (p *parser) attribute() (Attribute, error) {
	if group := p.peek(0); group.IsGroup(token.Brace) &&
		len(group.Children) >= 2 && group.Children[0].IsPunct('.') && group.Children[1].IsPunct('.') {
		p.pos++
		return &Spread{Group: group}, nil
	}

	key, err := p.name("attribute name")
	if err != nil {
		return nil, err
	}
	attr := &Keyed{Key: key}

	next := p.peek(0)
	switch {
	case next.IsGroup(token.Paren) && key.Tokens[len(key.Tokens)-1].Adjacent(next):
		p.pos++
		attr.Value = &Binding{Group: next}

	case next.IsPunct('=') && !p.peek(1).IsPunct('='):
		p.pos++
		n, complete := Scan(p.tokens[p.pos:])
		if n == 0 {
			return nil, p.errorf("expected value for attribute %s", key)
		}
		if !complete {
			p.pos += n
			return nil, p.errorf("incomplete value for attribute %s", key)
		}
		attr.Value = &Expr{Tokens: p.tokens[p.pos : p.pos+n]}
		p.pos += n
	}

	return attr, nil
}
