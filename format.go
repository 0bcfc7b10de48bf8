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
	"errors"

	"github.com/bufbuild/viewfmt/formatter"
	"github.com/bufbuild/viewfmt/macro"
	"github.com/bufbuild/viewfmt/patch"
	"github.com/bufbuild/viewfmt/reporter"
	"github.com/bufbuild/viewfmt/source"
	"github.com/bufbuild/viewfmt/token"
	"github.com/bufbuild/viewfmt/trivia"
)

// Settings configures formatting. See [formatter.Settings].
type Settings = formatter.Settings

// DefaultSettings returns the default settings.
func DefaultSettings() Settings {
	return formatter.DefaultSettings()
}

// Result is the outcome of formatting one file.
type Result struct {
	Path string
	// The text of the file before and after formatting.
	Original, Text string
	// The edits that turn Original into Text, in ascending order. Views
	// that were already formatted produce no edit.
	Edits []patch.Edit

	// Views that could not be parsed, and so were left as written.
	Errors []*OccurrenceError
	// Views nested inside expressions that could not be parsed.
	Warnings []reporter.ErrorWithPos

	// For results of [Formatter.FormatFiles]: why the file could not be
	// formatted at all.
	Err error
}

// Changed returns whether formatting changed the file.
func (r *Result) Changed() bool {
	return r.Text != r.Original
}

// Format formats every view in file.
//
// A view that fails to parse is left untouched and recorded in the result's
// Errors, unless settings.FailOnError is set, in which case its error is
// returned. A nil settings means [DefaultSettings].
//
// Returns a [reporter.ErrorWithPos] if file is not lexically valid Rust.
func Format(file *source.File, settings *Settings) (*Result, error) {
	if settings == nil {
		defaults := DefaultSettings()
		settings = &defaults
	}

	skip := func(reporter.ErrorWithPos) error { return nil }
	if settings.FailOnError {
		skip = nil
	}
	return format(file, settings, reporter.NewReporter(skip, nil))
}

// FormatFile is like [Format], but operates on text and returns only the
// formatted text.
func FormatFile(text string, settings *Settings) (string, error) {
	result, err := Format(source.NewFile("", text), settings)
	if err != nil {
		return "", err
	}
	return result.Text, nil
}

// FormatOccurrence formats a single view, returning the text that replaces
// the text of inv. Nested views that cannot be parsed are kept as written.
func FormatOccurrence(stream *token.Stream, inv *macro.Invocation, settings *Settings) (string, error) {
	return formatOccurrence(inv, settings, &formatter.Input{Stream: stream})
}

func formatOccurrence(inv *macro.Invocation, settings *Settings, in *formatter.Input) (string, error) {
	view, err := macro.Parse(inv, settings.MarkupOptions(in.Stream.File.Path()))
	if err != nil {
		return "", err
	}
	return formatter.Format(view, settings, in), nil
}

// format formats file, handing views that fail to parse to rep.
func format(file *source.File, settings *Settings, rep reporter.Reporter) (*Result, error) {
	stream, err := token.Lex(file)
	if err != nil {
		return nil, err
	}

	h := reporter.NewHandler(rep)
	result := &Result{Path: file.Path(), Original: file.Text()}
	in := &formatter.Input{
		Stream: stream,
		Gaps:   trivia.Extract(file, stream.Tokens),
		Warn: func(err reporter.ErrorWithPos) {
			result.Warnings = append(result.Warnings, err)
			h.HandleWarning(err)
		},
	}

	for _, inv := range macro.Collect(stream.Tokens, settings.MacroNames) {
		span := inv.Span()
		text, err := formatOccurrence(inv, settings, in)
		if err != nil {
			occErr := &OccurrenceError{Filename: file.Path(), Span: span, Err: err}
			if err := h.HandleError(occErr); err != nil {
				return nil, err
			}
			result.Errors = append(result.Errors, occErr)
			continue
		}

		start, end := file.Offset(span.Start), file.Offset(span.End)
		if file.Text()[start:end] == text {
			continue
		}
		result.Edits = append(result.Edits, patch.Edit{Start: start, End: end, NewText: text})
	}

	result.Text, err = patch.Apply(file.Text(), result.Edits)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// OccurrenceError is the error for a view that could not be formatted.
type OccurrenceError struct {
	Filename string
	// The span of the whole invocation.
	Span source.Span
	Err  error
}

var _ reporter.ErrorWithPos = (*OccurrenceError)(nil)

func (e *OccurrenceError) Error() string {
	var ewp reporter.ErrorWithPos
	if errors.As(e.Err, &ewp) {
		return ewp.Error()
	}
	return reporter.Error(e.Filename, e.Span.Start, e.Err).Error()
}

// Path implements [reporter.ErrorWithPos].
func (e *OccurrenceError) Path() string {
	return e.Filename
}

// Position implements [reporter.ErrorWithPos]. It is the position of the
// underlying error if it has one, and otherwise the start of the view.
func (e *OccurrenceError) Position() source.Position {
	var ewp reporter.ErrorWithPos
	if errors.As(e.Err, &ewp) {
		return ewp.Position()
	}
	return e.Span.Start
}

// Unwrap implements [reporter.ErrorWithPos].
func (e *OccurrenceError) Unwrap() error {
	return e.Err
}
