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

package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// expandPatterns returns the files named by patterns, minus those named by
// excludes. A directory stands for every .rs file below it.
//
// Files are returned in the order their patterns were given, without
// duplicates.
func expandPatterns(patterns, excludes []string) ([]string, error) {
	var skip []string
	for _, exclude := range excludes {
		skip = append(skip, filepath.ToSlash(asGlob(exclude)))
	}

	var paths []string
	seen := make(map[string]bool)
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(asGlob(pattern), doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 && !hasMeta(pattern) {
			return nil, fmt.Errorf("%s: %w", pattern, os.ErrNotExist)
		}

		for _, path := range matches {
			if seen[path] || excluded(skip, path) {
				continue
			}
			seen[path] = true
			paths = append(paths, path)
		}
	}
	return paths, nil
}

// asGlob turns a directory into a glob for the Rust files below it.
func asGlob(pattern string) string {
	if info, err := os.Stat(pattern); err == nil && info.IsDir() {
		return strings.TrimRight(pattern, `/\`) + "/**/*.rs"
	}
	return pattern
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, `*?[{`)
}

func excluded(globs []string, path string) bool {
	path = filepath.ToSlash(path)
	return slices.ContainsFunc(globs, func(glob string) bool {
		ok, _ := doublestar.Match(glob, path)
		return ok
	})
}
