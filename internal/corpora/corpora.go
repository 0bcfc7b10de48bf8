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

// Package corpora runs golden-file tests: each file of a test data directory
// is a test case, and the expected outputs of the case sit next to it.
package corpora

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pmezard/go-difflib/difflib"
)

// Corpus is a directory of test cases.
type Corpus struct {
	// The test data directory, relative to the file that calls [Corpus.Run].
	Root string

	// An environment variable holding a glob of test cases whose outputs
	// should be rewritten instead of checked, such as "VIEWFMT_REFRESH".
	Refresh string

	// The extension, without a dot, of the files that are test cases.
	Extension string
	// The outputs of each test case. Output i of case "a.yaml" is stored in
	// "a.yaml.<Outputs[i].Extension>"; a missing file stands for an empty
	// output.
	Outputs []Output

	// Test runs one test case, returning one string per output.
	Test func(t *testing.T, path, text string) []string
}

// Output is one output of every test case.
type Output struct {
	Extension string
	// Compares the output of a run with the stored one. If nil, they must be
	// equal byte for byte.
	Compare Compare
}

// Compare compares got with want, returning "" if they match and a
// description of their difference otherwise.
type Compare func(got, want string) string

// Run runs every test case of the corpus as a subtest.
func (c Corpus) Run(t *testing.T) {
	dir := callerDir(0)
	root := filepath.Join(dir, c.Root)

	var cases []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() && strings.TrimPrefix(filepath.Ext(path), ".") == c.Extension {
			cases = append(cases, path)
		}
		return err
	})
	if err != nil {
		t.Fatalf("corpora: walking %q: %v", root, err)
	}
	if len(cases) == 0 {
		t.Fatalf("corpora: no .%s files in %q", c.Extension, root)
	}

	var refresh string
	if c.Refresh != "" {
		refresh = os.Getenv(c.Refresh)
		if !doublestar.ValidatePattern(refresh) {
			t.Fatalf("corpora: invalid glob in %s: %q", c.Refresh, refresh)
		}
	}
	if refresh != "" {
		// A refreshing run never passes, so that it cannot be mistaken for a
		// real one.
		t.Logf("corpora: refreshing outputs matching %s=%s", c.Refresh, refresh)
		t.Fail()
	}

	for _, path := range cases {
		name, _ := filepath.Rel(dir, path)
		t.Run(name, func(t *testing.T) {
			text, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("corpora: reading %q: %v", path, err)
			}
			got := c.Test(t, name, string(text))

			rewrite, _ := doublestar.Match(refresh, filepath.ToSlash(name))
			for i, output := range c.Outputs {
				outPath := fmt.Sprint(path, ".", output.Extension)
				if rewrite {
					c.rewrite(t, outPath, got[i])
					continue
				}

				want, err := os.ReadFile(outPath)
				if err != nil && !errors.Is(err, os.ErrNotExist) {
					t.Errorf("corpora: reading %q: %v", outPath, err)
					continue
				}
				compare := output.Compare
				if compare == nil {
					compare = Diff
				}
				if diff := compare(got[i], string(want)); diff != "" {
					t.Errorf("output mismatch for %q:\n%s", outPath, diff)
				}
			}
		})
	}
}

func (c Corpus) rewrite(t *testing.T, path, text string) {
	var err error
	if text == "" {
		err = os.Remove(path)
		if errors.Is(err, os.ErrNotExist) {
			err = nil
		}
	} else {
		err = os.WriteFile(path, []byte(text), 0o644)
	}
	if err != nil {
		t.Errorf("corpora: refreshing %q: %v", path, err)
	}
}

// Diff is the default [Compare]: a unified diff of the two strings.
func Diff(got, want string) string {
	if got == want {
		return ""
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  2,
	})
	if err != nil {
		return err.Error()
	}
	return diff
}

func callerDir(skip int) string {
	_, file, _, ok := runtime.Caller(skip + 2)
	if !ok {
		panic("corpora: could not determine the directory of the test")
	}
	return filepath.Dir(file)
}
