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

package viewfmt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/viewfmt/macro"
	"github.com/bufbuild/viewfmt/reporter"
	"github.com/bufbuild/viewfmt/source"
	"github.com/bufbuild/viewfmt/token"
)

const (
	messy = "fn main() {\n    let x = 1;\n    view! { <div>   \"hi\"   </div> }\n    other! { <b>   \"x\"   </b> }\n}\n"
	tidy  = "fn main() {\n    let x = 1;\n    view! { <div>\"hi\"</div> }\n    other! { <b>   \"x\"   </b> }\n}\n"
)

func TestFormat(t *testing.T) {
	t.Parallel()

	result, err := Format(source.NewFile("main.rs", messy), nil)
	require.NoError(t, err)
	assert.Equal(t, "main.rs", result.Path)
	assert.Equal(t, messy, result.Original)
	assert.Equal(t, tidy, result.Text)
	assert.True(t, result.Changed())
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)

	// The only edit covers the view itself.
	require.Len(t, result.Edits, 1)
	edit := result.Edits[0]
	assert.Equal(t, strings.Index(messy, "view!"), edit.Start)
	assert.Equal(t, strings.Index(messy, "\n    other!"), edit.End)
	assert.Equal(t, `view! { <div>"hi"</div> }`, edit.NewText)
	assert.Equal(t, messy[:edit.Start], tidy[:edit.Start])
	assert.Equal(t, messy[edit.End:], tidy[edit.Start+len(edit.NewText):])

	again, err := Format(source.NewFile("main.rs", tidy), nil)
	require.NoError(t, err)
	assert.False(t, again.Changed())
	assert.Empty(t, again.Edits)
}

func TestFormatFile(t *testing.T) {
	t.Parallel()

	text, err := FormatFile(messy, nil)
	require.NoError(t, err)
	assert.Equal(t, tidy, text)

	settings := DefaultSettings()
	settings.MacroNames = []string{"other"}
	text, err = FormatFile(messy, &settings)
	require.NoError(t, err)
	assert.Equal(t, strings.Replace(messy, "<b>   \"x\"   </b>", "<b>\"x\"</b>", 1), text)

	text, err = FormatFile("", nil)
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestFormatPaths(t *testing.T) {
	t.Parallel()

	in := "fn a() {\n    leptos::view! { <p>   \"x\"   </p> }\n    ::leptos::view! { <p>   \"y\"   </p> }\n}\n"
	want := "fn a() {\n    leptos::view! { <p>\"x\"</p> }\n    ::leptos::view! { <p>   \"y\"   </p> }\n}\n"
	text, err := FormatFile(in, nil)
	require.NoError(t, err)
	assert.Equal(t, want, text)
}

func TestFormatOccurrence(t *testing.T) {
	t.Parallel()

	settings := DefaultSettings()
	stream, err := token.Lex(source.NewFile("main.rs", messy))
	require.NoError(t, err)
	invs := macro.Collect(stream.Tokens, settings.MacroNames)
	require.Len(t, invs, 1)

	text, err := FormatOccurrence(stream, invs[0], &settings)
	require.NoError(t, err)
	assert.Equal(t, `view! { <div>"hi"</div> }`, text)

	stream, err = token.Lex(source.NewFile("bad.rs", "view! { <div> }"))
	require.NoError(t, err)
	invs = macro.Collect(stream.Tokens, settings.MacroNames)
	require.Len(t, invs, 1)
	_, err = FormatOccurrence(stream, invs[0], &settings)
	assert.EqualError(t, err, "bad.rs:1:14: expected closing tag for <div>")
}

func TestFormatInvalidView(t *testing.T) {
	t.Parallel()

	in := "fn a() {\n    view! { <div> }\n    view! { <p>   \"x\"   </p> }\n}\n"
	want := "fn a() {\n    view! { <div> }\n    view! { <p>\"x\"</p> }\n}\n"

	result, err := Format(source.NewFile("a.rs", in), nil)
	require.NoError(t, err)
	assert.Equal(t, want, result.Text)
	require.Len(t, result.Errors, 1)
	occErr := result.Errors[0]
	assert.Equal(t, "a.rs", occErr.Path())
	assert.Equal(t, source.Position{Line: 2, Column: 18}, occErr.Position())
	assert.Equal(t, source.Position{Line: 2, Column: 4}, occErr.Span.Start)
	assert.Equal(t, "a.rs:2:18: expected closing tag for <div>", occErr.Error())

	settings := DefaultSettings()
	settings.FailOnError = true
	result, err = Format(source.NewFile("a.rs", in), &settings)
	assert.Nil(t, result)
	var target *OccurrenceError
	require.ErrorAs(t, err, &target)
	assert.Equal(t, occErr.Span, target.Span)
	var ewp reporter.ErrorWithPos
	require.ErrorAs(t, err, &ewp)
	assert.Equal(t, 2, ewp.Position().Line)
}

func TestFormatInvalidRust(t *testing.T) {
	t.Parallel()

	_, err := FormatFile("fn a() {\n    view! { <p>\"x\"</p> }\n", nil)
	var ewp reporter.ErrorWithPos
	require.ErrorAs(t, err, &ewp)
	assert.Equal(t, source.Position{Line: 1, Column: 7}, ewp.Position())
	assert.Contains(t, err.Error(), "unclosed delimiter `{`")
}

func TestFormatNestedWarning(t *testing.T) {
	t.Parallel()

	in := "fn a() {\n    view! { <div>{move || view! { <p> }}</div> }\n}\n"
	result, err := Format(source.NewFile("a.rs", in), nil)
	require.NoError(t, err)
	assert.Equal(t, in, result.Text)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0].Error(), "expected closing tag for <p>")
}

func TestFormatFiles(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"a.rs": messy,
		"b.rs": tidy,
		"c.rs": "fn c() {\n    view! { <div> }\n}\n",
	}
	resolver := ResolverFunc(func(path string) (SearchResult, error) {
		text, ok := files[path]
		if !ok {
			return SearchResult{}, fmt.Errorf("%s: %w", path, os.ErrNotExist)
		}
		return SearchResult{Source: strings.NewReader(text)}, nil
	})

	f := Formatter{Resolver: resolver, MaxParallelism: 2}
	results, err := f.FormatFiles(context.Background(), "c.rs", "missing.rs", "a.rs", "b.rs")
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.Equal(t, "c.rs", results[0].Path)
	require.NoError(t, results[0].Err)
	assert.False(t, results[0].Changed())
	assert.Len(t, results[0].Errors, 1)

	assert.Equal(t, "missing.rs", results[1].Path)
	assert.ErrorIs(t, results[1].Err, os.ErrNotExist)

	assert.Equal(t, "a.rs", results[2].Path)
	require.NoError(t, results[2].Err)
	assert.Equal(t, tidy, results[2].Text)

	assert.Equal(t, "b.rs", results[3].Path)
	require.NoError(t, results[3].Err)
	assert.False(t, results[3].Changed())

	// A reporter that rejects errors fails the file instead.
	f.Reporter = reporter.NewReporter(nil, nil)
	results, err = f.FormatFiles(context.Background(), "c.rs")
	require.NoError(t, err)
	var occErr *OccurrenceError
	require.ErrorAs(t, results[0].Err, &occErr)
	assert.Equal(t, "c.rs", occErr.Path())
	assert.Equal(t, files["c.rs"], results[0].Text)
}

type panicReader struct{}

func (panicReader) Read([]byte) (int, error) {
	panic("boom")
}

func TestFormatFilesPanic(t *testing.T) {
	t.Parallel()

	f := Formatter{Resolver: ResolverFunc(func(string) (SearchResult, error) {
		return SearchResult{Source: panicReader{}}, nil
	})}
	results, err := f.FormatFiles(context.Background(), "a.rs")
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Error(t, results[0].Err)
	assert.Contains(t, results[0].Err.Error(), "panic while formatting a.rs: boom")
}

func TestFormatFilesCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := Formatter{Resolver: ResolverFunc(func(string) (SearchResult, error) {
		return SearchResult{Source: strings.NewReader(messy)}, nil
	})}
	_, err := f.FormatFiles(ctx, "a.rs")
	assert.ErrorIs(t, err, context.Canceled)
}

type closeRecorder struct {
	io.Reader
	closed bool
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return nil
}

func TestSourceResolver(t *testing.T) {
	t.Parallel()

	var opened []*closeRecorder
	resolver := &SourceResolver{Accessor: func(path string) (io.ReadCloser, error) {
		if path == "bad.rs" {
			return nil, errors.New("access denied")
		}
		rc := &closeRecorder{Reader: strings.NewReader(messy)}
		opened = append(opened, rc)
		return rc, nil
	}}

	f := Formatter{Resolver: resolver, MaxParallelism: 1}
	results, err := f.FormatFiles(context.Background(), "good.rs", "bad.rs")
	require.NoError(t, err)
	assert.Equal(t, tidy, results[0].Text)
	assert.EqualError(t, results[1].Err, "access denied")
	require.Len(t, opened, 1)
	assert.True(t, opened[0].closed)

	_, err = (&SourceResolver{}).FindFileByPath("testdata/does-not-exist.rs")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
