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

package patch

import "fmt"

// ValidationError describes an edit whose range does not fit the text.
type ValidationError struct {
	Edit    Edit
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid edit [%d:%d]: %s", e.Edit.Start, e.Edit.End, e.Message)
}

// ConflictError describes two edits that overlap, or are out of order.
type ConflictError struct {
	First, Second Edit
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("overlapping edits: [%d:%d] and [%d:%d]",
		e.First.Start, e.First.End,
		e.Second.Start, e.Second.End)
}

// Validate checks that edits can be applied to a text of length n: every
// range lies within the text, and every edit starts at or after the end of
// the one before it.
//
// Returns the first problem found, as a [*ValidationError] or a
// [*ConflictError].
func Validate(edits []Edit, n int) error {
	for i, edit := range edits {
		switch {
		case edit.Start < 0:
			return &ValidationError{Edit: edit, Message: "start offset is negative"}
		case edit.End < edit.Start:
			return &ValidationError{Edit: edit, Message: "end offset is before start offset"}
		case edit.End > n:
			return &ValidationError{
				Edit:    edit,
				Message: fmt.Sprintf("end offset %d exceeds content length %d", edit.End, n),
			}
		}
		if i > 0 && edit.Start < edits[i-1].End {
			return &ConflictError{First: edits[i-1], Second: edit}
		}
	}
	return nil
}
