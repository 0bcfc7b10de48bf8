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

// Package viewfmt formats the view! markup macros embedded in Rust source.
//
// Only the text of the macro invocations changes: every byte outside of them
// is left as is. Each invocation is parsed into a markup tree, rendered
// into a document of words, breaks, and boxes, and laid out against the
// configured line width. Comments and blank lines between the tokens of the
// markup are carried over from the source.
//
// # Formatting a file
//
// [Format] formats a single file and returns both the new text and the
// [patch.Edit] list that produced it:
//
//	settings := viewfmt.DefaultSettings()
//	result, err := viewfmt.Format(source.NewFile("app.rs", text), &settings)
//
// A view whose markup does not parse is left untouched and reported in
// [Result.Errors], unless [Settings.FailOnError] is set, in which case
// the whole file fails.
//
// # Formatting many files
//
// A [Formatter] formats a set of files in parallel. Its [Resolver] loads the
// contents of each file, and its reporter decides what happens to views that
// fail to parse.
package viewfmt
