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

// Package patch applies byte-range replacements to source text.
//
// Edits are expressed against the original text and applied in ascending
// order, with a running offset accounting for the growth or shrinkage of
// the text by the edits before them.
package patch

import "fmt"

// Edit replaces the bytes [Start, End) of the original text with NewText.
type Edit struct {
	Start, End int
	NewText    string
}

// String implements [fmt.Stringer].
func (e Edit) String() string {
	return fmt.Sprintf("[%d:%d] -> %q", e.Start, e.End, e.NewText)
}

// Delta returns the change in length the edit causes.
func (e Edit) Delta() int {
	return len(e.NewText) - (e.End - e.Start)
}
