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
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// styles are the lipgloss styles of the command's output.
type styles struct {
	success, failure, path lipgloss.Style
	hunk, add, remove      lipgloss.Style
}

// newStyles returns colored styles if w is a terminal, and plain ones
// otherwise.
func newStyles(w io.Writer) *styles {
	if !isTerminal(w) {
		plain := lipgloss.NewStyle()
		return &styles{plain, plain, plain, plain, plain, plain}
	}
	renderer := lipgloss.NewRenderer(w)
	return &styles{
		success: renderer.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		failure: renderer.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		path:    renderer.NewStyle().Bold(true),
		hunk:    renderer.NewStyle().Foreground(lipgloss.Color("14")),
		add:     renderer.NewStyle().Foreground(lipgloss.Color("10")),
		remove:  renderer.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// writeDiff writes a unified diff, coloring each line by its kind.
func (s *styles) writeDiff(w io.Writer, diff string) error {
	for line := range strings.Lines(diff) {
		text := strings.TrimSuffix(line, "\n")
		switch {
		case strings.HasPrefix(text, "---"), strings.HasPrefix(text, "+++"):
			text = s.path.Render(text)
		case strings.HasPrefix(text, "@@"):
			text = s.hunk.Render(text)
		case strings.HasPrefix(text, "+"):
			text = s.add.Render(text)
		case strings.HasPrefix(text, "-"):
			text = s.remove.Render(text)
		}
		if _, err := io.WriteString(w, text+"\n"); err != nil {
			return err
		}
	}
	return nil
}
