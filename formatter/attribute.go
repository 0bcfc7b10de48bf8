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

package formatter

import (
	"github.com/bufbuild/viewfmt/classes"
	"github.com/bufbuild/viewfmt/markup"
	"github.com/bufbuild/viewfmt/token"
)

func (f *formatter) attribute(attr markup.Attribute, next markup.Attribute) {
	switch attr := attr.(type) {
	case *markup.Spread:
		f.tree(attr.Group)
	case *markup.Keyed:
		f.name(attr.Key)
		switch value := attr.Value.(type) {
		case *markup.Binding:
			f.tree(value.Group)
		case *markup.Expr:
			f.p.Word("=")
			f.value(attr, value, next)
		}
	}
}

// value emits an attribute value, adding or removing braces according to
// the brace style.
func (f *formatter) value(attr *markup.Keyed, value *markup.Expr, next markup.Attribute) {
	group, braced := value.Braced()
	_, literal := value.Literal()

	switch style := f.settings.AttrValueBraceStyle; {
	case style == Preserve:
		f.asWritten(attr, value)

	case style == WhenRequired:
		// Without braces, value {..} would read as a struct literal.
		if braced && !startsWithBrace(next) && f.unbraceable(group) {
			f.expr(attr, group.Children)
			return
		}
		f.asWritten(attr, value)

	case style == AlwaysUnlessLit && literal:
		f.expr(attr, value.Tokens)

	case style == AlwaysUnlessLit && braced && len(group.Children) == 1 &&
		group.Children[0].IsLiteral() && !f.stream.HasComment(group.Span):
		f.expr(attr, group.Children)

	case braced:
		f.block(attr, group)

	default:
		f.p.Word("{")
		f.expr(attr, value.Tokens)
		f.p.Word("}")
	}
}

func (f *formatter) asWritten(attr *markup.Keyed, value *markup.Expr) {
	if group, braced := value.Braced(); braced {
		f.block(attr, group)
		return
	}
	f.expr(attr, value.Tokens)
}

// block emits a braced value. Blocks on a single line lose the spaces
// inside their braces.
func (f *formatter) block(attr *markup.Keyed, group token.Token) {
	if len(group.Children) == 0 || group.Span.Start.Line != group.Span.End.Line {
		f.tree(group)
		return
	}
	f.p.Word("{")
	f.expr(attr, group.Children)
	f.p.Word("}")
}

// unbraceable returns whether the contents of a braced value parse as the
// same value without the braces.
func (f *formatter) unbraceable(group token.Token) bool {
	if len(group.Children) == 0 || f.stream.HasComment(group.Span) {
		return false
	}
	n, complete := markup.Scan(group.Children)
	return n == len(group.Children) && complete
}

func startsWithBrace(attr markup.Attribute) bool {
	switch attr := attr.(type) {
	case *markup.Spread:
		return true
	case *markup.Keyed:
		_, block := attr.Key.Block()
		return block
	default:
		return false
	}
}

// expr emits the tokens of an attribute value. String literals of attributes
// with an alternate formatter are rewritten by it.
func (f *formatter) expr(attr *markup.Keyed, tokens []token.Token) {
	if len(tokens) == 1 && tokens[0].Lit == token.Str &&
		f.settings.AttrValues[attr.Key.String()] == Tailwind {
		text := tokens[0].Text
		f.p.Word(`"` + classes.Sort(text[1:len(text)-1]) + `"`)
		return
	}
	f.source(spanOf(tokens), tokens)
}
