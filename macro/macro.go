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

// Package macro finds view macro invocations in a token stream and splits
// their arguments into the optional context and global class prefixes and
// the markup nodes.
package macro

import (
	"slices"
	"strings"

	"github.com/bufbuild/viewfmt/markup"
	"github.com/bufbuild/viewfmt/reporter"
	"github.com/bufbuild/viewfmt/source"
	"github.com/bufbuild/viewfmt/token"
)

// DefaultNames are the macro paths formatted when no others are configured.
var DefaultNames = []string{"leptos::view", "view"}

// Invocation is a single macro invocation: path! followed by a group.
type Invocation struct {
	// The tokens of the path, including any :: separators.
	Path []token.Token
	// The path as text, with no spaces: leptos::view.
	PathText string
	// The delimited arguments.
	Group token.Token
}

// Span returns the span from the start of the path to the end of the group.
func (inv *Invocation) Span() source.Span {
	return source.Span{Start: inv.Path[0].Span.Start, End: inv.Group.Span.End}
}

// View is a parsed invocation.
type View struct {
	*Invocation

	// The context argument of views written as view! { cx, ... }.
	Cx *token.Token
	// The token tree of a leading class = value, argument.
	GlobalClass *token.Token

	Nodes []markup.Node
}

// Collect returns every invocation in tokens whose path is one of names,
// in source order.
//
// Invocations are searched for inside every group, except the arguments of
// invocations that were found: views nested in other views are reached by
// formatting their parent.
func Collect(tokens []token.Token, names []string) []*Invocation {
	var out []*Invocation
	collect(tokens, names, &out)
	return out
}

func collect(tokens []token.Token, names []string, out *[]*Invocation) {
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if inv := invocationAt(tokens, i); inv != nil && slices.Contains(names, inv.PathText) {
			*out = append(*out, inv)
			i++
			continue
		}
		if tok.Kind == token.Group {
			collect(tok.Children, names, out)
		}
	}
}

// invocationAt returns the invocation whose ! is at tokens[i], if any.
func invocationAt(tokens []token.Token, i int) *Invocation {
	if !tokens[i].IsPunct('!') || i == 0 || i+1 >= len(tokens) ||
		tokens[i+1].Kind != token.Group || tokens[i-1].Kind != token.Ident {
		return nil
	}

	// Walk back over ident (:: ident)*, and a leading ::.
	start := i - 1
	for start >= 3 && isPathSep(tokens[start-2], tokens[start-1]) && tokens[start-3].Kind == token.Ident {
		start -= 3
	}
	if start >= 2 && isPathSep(tokens[start-2], tokens[start-1]) {
		start -= 2
	}

	path := tokens[start:i]
	var text strings.Builder
	for _, tok := range path {
		text.WriteString(tok.Text)
	}
	return &Invocation{Path: path, PathText: text.String(), Group: tokens[i+1]}
}

func isPathSep(a, b token.Token) bool {
	return a.IsPunct(':') && a.Joint && b.IsPunct(':')
}

// Parse splits an invocation's arguments and parses its markup.
//
// Leptos views may start with a context argument, as in view! { cx, ... },
// which is recognized by a comma in second position, and with a global
// class, as in view! { class = STYLE, ... }. The global class must be a
// single token tree followed by a comma.
func Parse(inv *Invocation, opts markup.Options) (*View, error) {
	view := &View{Invocation: inv}
	rest := inv.Group.Children

	if len(rest) >= 2 && rest[1].IsPunct(',') {
		view.Cx = &rest[0]
		rest = rest[2:]
	}

	if len(rest) >= 2 && rest[0].IsIdent("class") && rest[1].IsPunct('=') {
		if len(rest) < 4 || !rest[3].IsPunct(',') {
			pos := inv.Group.Close().Start
			if len(rest) >= 4 {
				pos = rest[3].Span.Start
			}
			return nil, reporter.Errorf(opts.Path, pos, "expected , after global class")
		}
		view.GlobalClass = &rest[2]
		rest = rest[4:]
	}

	nodes, err := markup.Parse(rest, inv.Group.Close().Start, opts)
	if err != nil {
		return nil, err
	}
	view.Nodes = nodes
	return view, nil
}

// ParentIndent returns the width of the indentation of the line inv starts
// on, counting each tab as tabWidth columns.
func ParentIndent(file *source.File, inv *Invocation, tabWidth int) int {
	indent := file.Indentation(inv.Span().Start.Line)
	return strings.Count(indent, "\t")*tabWidth + strings.Count(indent, " ")
}
