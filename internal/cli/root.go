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

// Package cli implements the viewfmt command.
package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bufbuild/viewfmt/internal/logging"
)

// ErrCheckFailed is returned in check mode when some input is not
// formatted. It carries no message of its own: the differences have been
// printed already.
var ErrCheckFailed = errors.New("some files are not formatted")

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// options are the command-line flags.
type options struct {
	maxWidth   int
	tabSpaces  int
	excludes   []string
	configFile string

	stdin       bool
	rustfmt     bool
	rustfmtArgs string

	macroNames        []string
	tailwind          bool
	tailwindAttrNames []string

	quiet bool
	check bool
	jobs  int
	debug bool
}

// NewRootCommand creates the viewfmt command.
func NewRootCommand(info BuildInfo) *cobra.Command {
	opts := new(options)

	cmd := &cobra.Command{
		Use:   "viewfmt [flags] <file|dir|glob>...",
		Short: "A formatter for view! macros",
		Long: `viewfmt formats the markup inside view! macros in Rust source files.

Each argument is a file, a directory, or a glob pattern. Directories stand for
every .rs file below them. Only the text of the macros is rewritten; the rest
of each file is left as is.

Settings are read from the viewfmt.toml in the current directory or the
closest of its parents, unless --config-file names another file. Flags
override the settings of the file.`,
		Version: info.Version,
		Args: func(cmd *cobra.Command, args []string) error {
			switch {
			case opts.stdin && len(args) > 0:
				return errors.New("no files may be given with --stdin")
			case !opts.stdin && len(args) == 0:
				return errors.New("requires at least one file, directory, or glob")
			case opts.rustfmt && !opts.stdin:
				return errors.New("--rustfmt requires --stdin")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			level := "info"
			if opts.debug {
				level = "debug"
			}
			logger := logging.New(cmd.ErrOrStderr(), level)
			ctx := logging.WithLogger(cmd.Context(), logger)

			r := &runner{
				cmd:   cmd,
				opts:  opts,
				start: time.Now(),
			}
			return r.run(ctx, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetVersionTemplate(fmt.Sprintf("viewfmt %s (commit %s, built %s)\n", info.Version, info.Commit, info.Date))

	flags := cmd.Flags()
	flags.IntVarP(&opts.maxWidth, "max-width", "m", 0, "maximum width of each line")
	flags.IntVarP(&opts.tabSpaces, "tab-spaces", "t", 0, "number of spaces per indentation level")
	flags.StringSliceVarP(&opts.excludes, "exclude", "x", nil, "files, directories, or globs to skip")
	flags.StringVarP(&opts.configFile, "config-file", "c", "", "configuration file to use instead of viewfmt.toml")
	flags.BoolVarP(&opts.stdin, "stdin", "s", false, "format stdin and write the result to stdout")
	flags.BoolVarP(&opts.rustfmt, "rustfmt", "r", false, "run rustfmt on the result (requires --stdin)")
	flags.StringVar(&opts.rustfmtArgs, "rustfmt-args", "", "space-separated arguments for rustfmt")
	flags.StringSliceVar(&opts.macroNames, "override-macro-names", nil, "the macros to format, instead of the configured ones")
	flags.BoolVarP(&opts.tailwind, "experimental-tailwind", "e", false, "sort the classes of tailwind attributes")
	flags.StringSliceVar(&opts.tailwindAttrNames, "tailwind-attr-names", []string{"class"}, "the attributes --experimental-tailwind sorts")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "print only errors (implied by --stdin)")
	flags.BoolVar(&opts.check, "check", false, "report unformatted input instead of formatting it, and exit with status 1 if there is any")
	flags.IntVarP(&opts.jobs, "jobs", "j", 0, "number of files to format at once (default: number of CPUs)")
	flags.BoolVar(&opts.debug, "debug", false, "enable debug logging")

	return cmd
}
