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
	"io"
	"os"
)

// Resolver loads the contents of the files a [Formatter] formats.
type Resolver interface {
	FindFileByPath(path string) (SearchResult, error)
}

// SearchResult is the contents of a file found by a [Resolver].
type SearchResult struct {
	Source io.Reader
}

// ResolverFunc is a simple function type that implements [Resolver].
type ResolverFunc func(string) (SearchResult, error)

var _ Resolver = ResolverFunc(nil)

// FindFileByPath implements [Resolver].
func (f ResolverFunc) FindFileByPath(path string) (SearchResult, error) {
	return f(path)
}

// SourceResolver loads files with Accessor, or from the file system if
// Accessor is nil.
type SourceResolver struct {
	Accessor func(string) (io.ReadCloser, error)
}

var _ Resolver = (*SourceResolver)(nil)

// FindFileByPath implements [Resolver].
func (r *SourceResolver) FindFileByPath(path string) (SearchResult, error) {
	accessor := r.Accessor
	if accessor == nil {
		accessor = func(path string) (io.ReadCloser, error) {
			return os.Open(path)
		}
	}
	reader, err := accessor(path)
	if err != nil {
		return SearchResult{}, err
	}
	return SearchResult{Source: reader}, nil
}
