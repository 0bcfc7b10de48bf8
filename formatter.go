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
	"fmt"
	"io"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/bufbuild/viewfmt/reporter"
	"github.com/bufbuild/viewfmt/source"
)

// Formatter formats sets of files in parallel.
type Formatter struct {
	// Loads the files to format. If nil, files are read from the file system.
	Resolver Resolver
	// If nil, [DefaultSettings] are used.
	Settings *Settings
	// The maximum number of files formatted at once. If zero or negative,
	// the number of CPUs is used.
	MaxParallelism int
	// Decides what happens to views that cannot be parsed: if it returns
	// nil, the view is left as written, and otherwise the file fails with
	// the returned error. If nil, Settings.FailOnError decides.
	Reporter reporter.Reporter
}

// FormatFiles formats the given files. The results are in the same order
// as paths.
//
// A file that cannot be formatted does not stop the others: its result has
// Err set instead, and its text is left as is. This includes panics while
// formatting it. The only error returned is that of ctx.
func (f *Formatter) FormatFiles(ctx context.Context, paths ...string) ([]*Result, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	par := f.MaxParallelism
	if par <= 0 {
		par = min(runtime.GOMAXPROCS(-1), runtime.NumCPU())
	}
	sem := semaphore.NewWeighted(int64(par))

	results := make([]*Result, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := sem.Acquire(ctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			results[i] = f.formatFile(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (f *Formatter) formatFile(path string) (result *Result) {
	defer func() {
		if r := recover(); r != nil {
			result = &Result{Path: path, Err: fmt.Errorf("panic while formatting %s: %v", path, r)}
		}
	}()

	text, err := f.load(path)
	if err != nil {
		return &Result{Path: path, Err: err}
	}

	settings := f.Settings
	if settings == nil {
		defaults := DefaultSettings()
		settings = &defaults
	}
	rep := f.Reporter
	if rep == nil && !settings.FailOnError {
		rep = reporter.NewReporter(func(reporter.ErrorWithPos) error { return nil }, nil)
	}

	result, err = format(source.NewFile(path, text), settings, rep)
	if err != nil {
		return &Result{Path: path, Original: text, Text: text, Err: err}
	}
	return result
}

func (f *Formatter) load(path string) (string, error) {
	resolver := f.Resolver
	if resolver == nil {
		resolver = &SourceResolver{}
	}
	found, err := resolver.FindFileByPath(path)
	if err != nil {
		return "", err
	}
	if closer, ok := found.Source.(io.Closer); ok {
		defer closer.Close()
	}
	bytes, err := io.ReadAll(found.Source)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(bytes), nil
}
