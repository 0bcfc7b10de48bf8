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

// Package reporter contains the types used for reporting errors from the
// formatter. Errors carry the source position that caused them.
package reporter

import (
	"errors"
	"fmt"

	"github.com/bufbuild/viewfmt/source"
)

// ErrInvalidSource is a sentinel error that is returned by the formatter in the
// event that an occurrence could not be parsed, but the configured
// ErrorReporter always returns nil.
var ErrInvalidSource = errors.New("format failed: invalid view markup")

// ErrorWithPos is an error about a source file that includes information
// about the location in the file that caused the error.
//
// The value of Error() will contain both the position and the underlying error.
// The value of Unwrap() will only be the underlying error.
type ErrorWithPos interface {
	error
	Path() string
	Position() source.Position
	Unwrap() error
}

// Error wraps err with the position pos in the file at path.
func Error(path string, pos source.Position, err error) ErrorWithPos {
	return errorWithPos{path: path, pos: pos, underlying: err}
}

// Errorf is like [Error], but formats its message.
func Errorf(path string, pos source.Position, format string, args ...any) ErrorWithPos {
	return errorWithPos{path: path, pos: pos, underlying: fmt.Errorf(format, args...)}
}

type errorWithPos struct {
	underlying error
	path       string
	pos        source.Position
}

func (e errorWithPos) Error() string {
	if e.path == "" {
		return fmt.Sprintf("%v: %v", e.pos, e.underlying)
	}
	return fmt.Sprintf("%s:%v: %v", e.path, e.pos, e.underlying)
}

// Path implements the ErrorWithPos interface.
func (e errorWithPos) Path() string {
	return e.path
}

// Position implements the ErrorWithPos interface, supplying the location in
// the source that caused the error.
func (e errorWithPos) Position() source.Position {
	return e.pos
}

// Unwrap implements the ErrorWithPos interface, supplying the underlying
// error. This error will not include location information.
func (e errorWithPos) Unwrap() error {
	return e.underlying
}

var _ ErrorWithPos = errorWithPos{}
