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
	"strings"

	"github.com/bufbuild/viewfmt/token"
)

// Scan finds the extent of an unbraced attribute value at the start of
// tokens.
//
// Values are scanned by alternating between operands and operators. The
// scan stops at the end of a tag (> or />), at a brace group following an
// operand, and at an identifier or literal following an operand, since
// those begin the next attribute or child. It returns the number of tokens
// in the value, and whether the value is complete, that is, whether it
// did not end on an operator that still expects an operand.
//
// Struct literals and turbofish calls are not recognized; values that use
// them must be written in braces.
func Scan(tokens []token.Token) (n int, complete bool) {
	s := &scanner{tokens: tokens}
	for s.operand() {
		if !s.operator() {
			return s.pos, true
		}
	}
	return s.pos, false
}

type scanner struct {
	tokens []token.Token
	pos    int
}

func (s *scanner) peek(n int) token.Token {
	if s.pos+n < len(s.tokens) {
		return s.tokens[s.pos+n]
	}
	return token.Token{}
}

// punct returns whether the next tokens spell op, with every character
// joint to the next.
func (s *scanner) punct(op string) bool {
	for i := range len(op) {
		tok := s.peek(i)
		if !tok.IsPunct(op[i]) || (i < len(op)-1 && !tok.Joint) {
			return false
		}
	}
	return true
}

// operand consumes one operand with its prefix operators, and the postfix
// forms that bind to it. Returns false if there was no operand.
func (s *scanner) operand() bool {
	// Prefix operators.
	for {
		switch tok := s.peek(0); {
		case tok.IsPunct('-'), tok.IsPunct('!'), tok.IsPunct('*'):
			s.pos++
			continue
		case tok.IsPunct('&'):
			s.pos++
			if s.peek(0).IsIdent("mut") {
				s.pos++
			}
			continue
		case s.punct("..="), s.punct(".."):
			if s.punct("..=") {
				s.pos += 3
			} else {
				s.pos += 2
			}
			if !s.startsOperand() {
				return true
			}
			continue
		}
		break
	}

	switch tok := s.peek(0); {
	case tok.IsIdent("move") || tok.IsIdent("async"):
		s.pos++
		if s.peek(0).IsIdent("move") {
			s.pos++
		}
		if s.peek(0).IsGroup(token.Brace) {
			s.pos++
			return true
		}
		return s.operand()

	case tok.IsPunct('|'):
		return s.closure()

	case tok.IsIdent("if"), tok.IsIdent("match"), tok.IsIdent("while"), tok.IsIdent("for"):
		return s.control()

	case tok.IsIdent("loop"), tok.IsIdent("unsafe"):
		s.pos++
		if !s.peek(0).IsGroup(token.Brace) {
			return false
		}
		s.pos++
		return true

	case tok.Kind == token.Ident:
		s.path()
		return true

	case tok.Kind == token.Punct && tok.Text == ":" && s.punct("::"):
		s.path()
		return true

	case tok.Kind == token.Literal, tok.Kind == token.Group, tok.Kind == token.Lifetime:
		s.pos++
		return true
	}

	return false
}

// startsOperand returns whether the next token can begin an operand.
func (s *scanner) startsOperand() bool {
	switch tok := s.peek(0); tok.Kind {
	case token.Ident, token.Literal, token.Lifetime:
		return true
	case token.Group:
		return !tok.IsGroup(token.Brace)
	case token.Punct:
		return tok.IsPunct('-') || tok.IsPunct('!') || tok.IsPunct('*') ||
			tok.IsPunct('&') || tok.IsPunct('|')
	default:
		return false
	}
}

// path consumes a path, such as foo::bar::<T>::baz, and a macro call or
// call arguments that follow it.
func (s *scanner) path() {
	if s.punct("::") {
		s.pos += 2
	}
	s.pos++
	for s.punct("::") {
		switch next := s.peek(2); {
		case next.Kind == token.Ident:
			s.pos += 3
		case next.IsPunct('<'):
			s.pos += 2
			s.generics()
		default:
			return
		}
	}
	if s.peek(0).IsPunct('!') && s.peek(1).Kind == token.Group {
		s.pos += 2
	}
}

// generics consumes a balanced <...> list.
func (s *scanner) generics() {
	depth := 0
	for s.pos < len(s.tokens) {
		tok := s.peek(0)
		s.pos++
		switch {
		case tok.IsPunct('<'):
			depth++
		case tok.IsPunct('>'):
			depth--
			if depth == 0 {
				return
			}
		}
	}
}

// closure consumes a closure: |params| body, or || body.
func (s *scanner) closure() bool {
	if s.punct("||") {
		s.pos += 2
	} else {
		s.pos++
		for s.pos < len(s.tokens) && !s.peek(0).IsPunct('|') {
			s.pos++
		}
		if s.pos == len(s.tokens) {
			return false
		}
		s.pos++
	}
	if s.punct("->") {
		for s.pos < len(s.tokens) && !s.peek(0).IsGroup(token.Brace) {
			s.pos++
		}
	}
	return s.operand()
}

// control consumes an if, match, while, or for expression, including any
// else branches.
func (s *scanner) control() bool {
	for {
		s.pos++
		for s.pos < len(s.tokens) && !s.peek(0).IsGroup(token.Brace) {
			s.pos++
		}
		if s.pos == len(s.tokens) {
			return false
		}
		s.pos++

		if !s.peek(0).IsIdent("else") {
			return true
		}
		s.pos++
		if s.peek(0).IsGroup(token.Brace) {
			s.pos++
			return true
		}
		if !s.peek(0).IsIdent("if") {
			return false
		}
	}
}

// operator consumes what follows an operand: postfix forms, and a binary
// operator. Returns true if another operand must follow.
func (s *scanner) operator() bool {
	for {
		tok := s.peek(0)
		switch {
		case tok.IsPunct('?'):
			s.pos++
			continue

		case tok.IsGroup(token.Paren), tok.IsGroup(token.Bracket):
			s.pos++
			continue

		case s.punct("..="), s.punct(".."):
			if s.punct("..=") {
				s.pos += 3
			} else {
				s.pos += 2
			}
			return s.startsOperand()

		case tok.IsPunct('.'):
			next := s.peek(1)
			if next.Kind != token.Ident && next.Lit != token.Int && next.Lit != token.Float {
				return false
			}
			s.pos += 2
			if s.punct("::") && s.peek(2).IsPunct('<') {
				s.pos += 2
				s.generics()
			}
			continue

		case tok.IsIdent("as"):
			s.pos++
			s.typePath()
			continue
		}
		break
	}

	tok := s.peek(0)
	if tok.Kind != token.Punct || tok.IsPunct('>') || s.punct("/>") ||
		tok.IsPunct(',') || tok.IsPunct(';') || tok.IsPunct('#') || tok.IsPunct('@') {
		return false
	}

	// A binary operator, possibly several characters long. Characters that
	// could start the next operand, or end the tag, are left alone.
	s.pos++
	for tok.Joint && s.peek(0).Kind == token.Punct && !strings.ContainsAny(s.peek(0).Text, "-!*&>") {
		tok = s.peek(0)
		s.pos++
	}
	return true
}

// typePath consumes the type after as.
func (s *scanner) typePath() {
	if s.peek(0).IsPunct('&') {
		s.pos++
	}
	if s.peek(0).Kind != token.Ident {
		return
	}
	s.pos++
	for s.punct("::") && s.peek(2).Kind == token.Ident {
		s.pos += 3
	}
}
