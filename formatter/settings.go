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

package formatter

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/bufbuild/viewfmt/macro"
	"github.com/bufbuild/viewfmt/markup"
	"github.com/bufbuild/viewfmt/printer"
	"github.com/bufbuild/viewfmt/source"
)

// Settings configures how views are formatted.
//
// The toml tags are the keys of the configuration file.
type Settings struct {
	// Maximum width of each line.
	MaxWidth int `toml:"max_width"`
	// Number of spaces per indentation level, and the width of a tab.
	TabSpaces int `toml:"tab_spaces"`
	// Whether to indent with spaces or tabs.
	IndentationStyle IndentationStyle `toml:"indentation_style"`
	// Which line endings to write.
	NewlineStyle NewlineStyle `toml:"newline_style"`
	// When to put braces around attribute values.
	AttrValueBraceStyle BraceStyle `toml:"attr_value_brace_style"`
	// When to write elements without children as <tag/>.
	ClosingTagStyle ClosingTagStyle `toml:"closing_tag_style"`
	// The paths of the macros to format.
	MacroNames []string `toml:"macro_names"`
	// Formatters for the string values of specific attributes.
	AttrValues map[string]ExpressionFormatter `toml:"attr_values"`
	// The elements that never have children.
	VoidElements []string `toml:"void_elements"`

	// Whether a view that fails to parse aborts formatting of its file,
	// instead of being left as is.
	FailOnError bool `toml:"-"`
}

// DefaultSettings returns the default settings.
func DefaultSettings() Settings {
	return Settings{
		MaxWidth:            100,
		TabSpaces:           4,
		IndentationStyle:    IndentAuto,
		NewlineStyle:        NewlineAuto,
		AttrValueBraceStyle: WhenRequired,
		ClosingTagStyle:     PreserveClosing,
		MacroNames:          append([]string(nil), macro.DefaultNames...),
		AttrValues:          map[string]ExpressionFormatter{},
		VoidElements:        append([]string(nil), markup.DefaultVoidElements...),
	}
}

// PrinterOptions resolves the printer options for formatting views in
// file. Automatic styles are decided by the contents of file.
func (s *Settings) PrinterOptions(file *source.File) printer.Options {
	opts := printer.Options{
		MaxWidth:    s.MaxWidth,
		IndentWidth: s.TabSpaces,
	}

	switch s.IndentationStyle {
	case IndentTabs:
		opts.HardTabs = true
	case IndentAuto:
		opts.HardTabs = usesTabs(file.Text())
	}

	switch s.NewlineStyle {
	case NewlineWindows:
		opts.CRLF = true
	case NewlineNative:
		opts.CRLF = runtime.GOOS == "windows"
	case NewlineAuto:
		if i := strings.IndexByte(file.Text(), '\n'); i > 0 {
			opts.CRLF = file.Text()[i-1] == '\r'
		}
	}

	return opts
}

// MarkupOptions returns the options for parsing the views of the file at path.
func (s *Settings) MarkupOptions(path string) markup.Options {
	return markup.Options{Path: path, VoidElements: s.VoidElements}
}

// usesTabs returns whether the first indented line of text is indented
// with a tab.
func usesTabs(text string) bool {
	for line := range strings.Lines(text) {
		switch {
		case strings.HasPrefix(line, "\t"):
			return true
		case strings.HasPrefix(line, " ") && strings.TrimSpace(line) != "":
			return false
		}
	}
	return false
}

// IndentationStyle is whether to indent with spaces or tabs.
type IndentationStyle int

const (
	// IndentAuto uses whatever the first indented line of the file uses.
	IndentAuto IndentationStyle = iota
	IndentSpaces
	IndentTabs
)

// NewlineStyle is the line ending to write.
type NewlineStyle int

const (
	// NewlineAuto uses whatever the first line of the file ends with.
	NewlineAuto NewlineStyle = iota
	// NewlineNative uses \r\n on Windows and \n elsewhere.
	NewlineNative
	NewlineUnix
	NewlineWindows
)

// BraceStyle is when to put braces around attribute values.
type BraceStyle int

const (
	// WhenRequired removes braces from values that can be written without
	// them.
	WhenRequired BraceStyle = iota
	// Always adds braces to every value.
	Always
	// AlwaysUnlessLit adds braces to every value but literals, and removes
	// them from braced literals.
	AlwaysUnlessLit
	// Preserve keeps braces as written.
	Preserve
)

// ClosingTagStyle is when to write elements without children as <tag/>.
type ClosingTagStyle int

const (
	// PreserveClosing keeps each element as written.
	PreserveClosing ClosingTagStyle = iota
	// SelfClosing writes every element without children as <tag/>.
	SelfClosing
	// NonSelfClosing writes every element without children as <tag></tag>,
	// except void elements.
	NonSelfClosing
)

// ExpressionFormatter is an alternate formatter for string attribute values.
type ExpressionFormatter int

const (
	NoFormatter ExpressionFormatter = iota
	// Tailwind sorts a list of utility classes.
	Tailwind
)

var (
	indentationStyles = []string{"Auto", "Spaces", "Tabs"}
	newlineStyles     = []string{"Auto", "Native", "Unix", "Windows"}
	braceStyles       = []string{"WhenRequired", "Always", "AlwaysUnlessLit", "Preserve"}
	closingTagStyles  = []string{"Preserve", "SelfClosing", "NonSelfClosing"}
	formatters        = []string{"None", "Tailwind"}
)

// String implements [fmt.Stringer].
func (s IndentationStyle) String() string { return enumName(indentationStyles, int(s)) }

// String implements [fmt.Stringer].
func (s NewlineStyle) String() string { return enumName(newlineStyles, int(s)) }

// String implements [fmt.Stringer].
func (s BraceStyle) String() string { return enumName(braceStyles, int(s)) }

// String implements [fmt.Stringer].
func (s ClosingTagStyle) String() string { return enumName(closingTagStyles, int(s)) }

// String implements [fmt.Stringer].
func (f ExpressionFormatter) String() string { return enumName(formatters, int(f)) }

// MarshalText implements [encoding.TextMarshaler].
func (s IndentationStyle) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// MarshalText implements [encoding.TextMarshaler].
func (s NewlineStyle) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// MarshalText implements [encoding.TextMarshaler].
func (s BraceStyle) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// MarshalText implements [encoding.TextMarshaler].
func (s ClosingTagStyle) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// MarshalText implements [encoding.TextMarshaler].
func (f ExpressionFormatter) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

// UnmarshalText implements [encoding.TextUnmarshaler].
func (s *IndentationStyle) UnmarshalText(text []byte) error {
	return parseEnum(text, indentationStyles, "indentation style", (*int)(s))
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (s *NewlineStyle) UnmarshalText(text []byte) error {
	return parseEnum(text, newlineStyles, "newline style", (*int)(s))
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (s *BraceStyle) UnmarshalText(text []byte) error {
	return parseEnum(text, braceStyles, "attribute value brace style", (*int)(s))
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (s *ClosingTagStyle) UnmarshalText(text []byte) error {
	return parseEnum(text, closingTagStyles, "closing tag style", (*int)(s))
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (f *ExpressionFormatter) UnmarshalText(text []byte) error {
	return parseEnum(text, formatters, "expression formatter", (*int)(f))
}

func enumName(names []string, v int) string {
	if v < 0 || v >= len(names) {
		return fmt.Sprintf("%d", v)
	}
	return names[v]
}

func parseEnum(text []byte, names []string, what string, out *int) error {
	for i, name := range names {
		if strings.EqualFold(name, string(text)) {
			*out = i
			return nil
		}
	}
	return fmt.Errorf("unknown %s %q, expected one of %s", what, text, strings.Join(names, ", "))
}
