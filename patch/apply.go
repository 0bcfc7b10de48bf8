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

// Apply applies edits to text.
//
// The edits must be sorted and must not overlap; otherwise, the error from
// [Validate] is returned and text is left as is.
func Apply(text string, edits []Edit) (string, error) {
	if err := Validate(edits, len(text)); err != nil {
		return "", err
	}
	if len(edits) == 0 {
		return text, nil
	}

	buf := []byte(text)
	offset := 0
	for _, edit := range edits {
		start, end := edit.Start+offset, edit.End+offset
		buf = append(buf[:start], append([]byte(edit.NewText), buf[end:]...)...)
		offset += edit.Delta()
	}
	return string(buf), nil
}
