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

// Command viewfmt formats the view! macros in Rust source files.
package main

import (
	"errors"
	"os"

	"github.com/bufbuild/viewfmt/internal/cli"
	"github.com/bufbuild/viewfmt/internal/logging"
)

// Set by the linker.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	cmd := cli.NewRootCommand(cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, cli.ErrCheckFailed) {
			logging.Default().Error("viewfmt failed", logging.FieldError, err)
		}
		return 1
	}
	return 0
}
