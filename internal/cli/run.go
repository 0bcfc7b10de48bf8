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
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bufbuild/viewfmt"
	"github.com/bufbuild/viewfmt/formatter"
	"github.com/bufbuild/viewfmt/internal/config"
	"github.com/bufbuild/viewfmt/internal/logging"
	"github.com/bufbuild/viewfmt/patch"
)

// stdinPath is the name formatted stdin goes by in messages.
const stdinPath = "<stdin>"

type runner struct {
	cmd    *cobra.Command
	opts   *options
	start  time.Time
	styles *styles
}

func (r *runner) run(ctx context.Context, args []string) error {
	logger := logging.FromContext(ctx)
	r.styles = newStyles(r.cmd.ErrOrStderr())

	settings, err := r.settings(ctx)
	if err != nil {
		return err
	}
	if !r.opts.quiet && !r.opts.stdin {
		if err := config.Write(r.cmd.OutOrStdout(), settings); err != nil {
			return err
		}
	}

	if r.opts.stdin {
		return r.runStdin(ctx, settings)
	}

	paths, err := expandPatterns(args, r.opts.excludes)
	if err != nil {
		return err
	}
	logger.Debug("formatting", logging.FieldFiles, len(paths), logging.FieldJobs, r.opts.jobs)

	f := &viewfmt.Formatter{Settings: settings, MaxParallelism: r.opts.jobs}
	results, err := f.FormatFiles(ctx, paths...)
	if err != nil {
		return err
	}
	if !r.opts.check {
		r.write(ctx, results)
	}
	return r.report(ctx, results)
}

// settings loads the configuration file and applies the flags to it.
func (r *runner) settings(ctx context.Context) (*formatter.Settings, error) {
	logger := logging.FromContext(ctx)

	dir, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(r.opts.configFile, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Path != "" {
		logger.Debug("loaded configuration", logging.FieldConfig, cfg.Path)
	}
	for _, key := range cfg.Unknown {
		logger.Warn("unknown configuration key", "key", key, logging.FieldConfig, cfg.Path)
	}

	settings := &cfg.Settings
	flags := r.cmd.Flags()
	if flags.Changed("max-width") {
		settings.MaxWidth = r.opts.maxWidth
	}
	if flags.Changed("tab-spaces") {
		settings.TabSpaces = r.opts.tabSpaces
	}
	if flags.Changed("override-macro-names") {
		settings.MacroNames = r.opts.macroNames
	}
	if r.opts.tailwind {
		settings.AttrValues = make(map[string]formatter.ExpressionFormatter)
		for _, name := range r.opts.tailwindAttrNames {
			settings.AttrValues[name] = formatter.Tailwind
		}
	}
	if err := config.Validate(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *runner) runStdin(ctx context.Context, settings *formatter.Settings) error {
	stdin := r.cmd.InOrStdin()
	f := &viewfmt.Formatter{
		Settings: settings,
		Resolver: viewfmt.ResolverFunc(func(string) (viewfmt.SearchResult, error) {
			return viewfmt.SearchResult{Source: stdin}, nil
		}),
	}
	results, err := f.FormatFiles(ctx, stdinPath)
	if err != nil {
		return err
	}
	result := results[0]
	if result.Err != nil {
		return result.Err
	}
	r.logErrors(ctx, result)

	text := result.Text
	if r.opts.rustfmt {
		formatted, err := runRustfmt(ctx, text, strings.Fields(r.opts.rustfmtArgs))
		if err != nil {
			logging.FromContext(ctx).Warn("rustfmt failed, keeping viewfmt output", logging.FieldError, err)
		} else {
			text = formatted
		}
	}

	if r.opts.check && text != result.Original {
		return ErrCheckFailed
	}
	_, err = io.WriteString(r.cmd.OutOrStdout(), text)
	return err
}

// write writes back every changed file.
func (r *runner) write(ctx context.Context, results []*viewfmt.Result) {
	g, _ := errgroup.WithContext(ctx)
	if r.opts.jobs > 0 {
		g.SetLimit(r.opts.jobs)
	}
	for _, result := range results {
		if result.Err != nil || !result.Changed() {
			continue
		}
		g.Go(func() error {
			info, err := os.Stat(result.Path)
			if err == nil {
				err = os.WriteFile(result.Path, []byte(result.Text), info.Mode().Perm())
			}
			if err != nil {
				result.Err = fmt.Errorf("failed to write %s: %w", result.Path, err)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// report prints the outcome of every file, in order.
func (r *runner) report(ctx context.Context, results []*viewfmt.Result) error {
	out, errOut := r.cmd.OutOrStdout(), r.cmd.ErrOrStderr()

	var unformatted, failed int
	for _, result := range results {
		if result.Err != nil {
			failed++
			fmt.Fprintf(out, "%s %s\n", r.styles.failure.Render("✗"), result.Path)
			fmt.Fprintf(errOut, "\t%v\n", result.Err)
			continue
		}
		r.logErrors(ctx, result)

		if r.opts.check && result.Changed() {
			unformatted++
			if !r.opts.quiet {
				diff, err := patch.Diff(result.Path, result.Original, result.Text)
				if err != nil {
					return err
				}
				fmt.Fprintf(errOut, "%s is not formatted:\n", r.styles.path.Render(result.Path))
				if err := r.styles.writeDiff(errOut, diff); err != nil {
					return err
				}
			}
		}
		if !r.opts.quiet {
			fmt.Fprintf(out, "%s %s\n", r.styles.success.Render("✓"), result.Path)
		}
	}

	if !r.opts.quiet {
		verb := "Formatted"
		if r.opts.check {
			verb = "Checked"
		}
		fmt.Fprintf(out, "%s %d files in %d ms\n", verb, len(results), time.Since(r.start).Milliseconds())
	}

	switch {
	case unformatted > 0:
		fmt.Fprintln(errOut, r.styles.failure.Render("Some files are not formatted, see the differences above"))
		return ErrCheckFailed
	case failed > 0:
		return fmt.Errorf("failed to format %d of %d files", failed, len(results))
	}
	return nil
}

// logErrors logs the views of result that were left as written.
func (r *runner) logErrors(ctx context.Context, result *viewfmt.Result) {
	logger := logging.FromContext(ctx)
	for _, err := range result.Errors {
		logger.Warn("view left unformatted", logging.FieldPath, result.Path, logging.FieldError, err.Unwrap())
	}
	for _, err := range result.Warnings {
		logger.Warn("nested view left unformatted", logging.FieldPath, result.Path, logging.FieldError, err)
	}
}
