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

// Package config loads formatter settings from viewfmt.toml files.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/bufbuild/viewfmt/formatter"
)

// FileName is the name of the configuration file.
const FileName = "viewfmt.toml"

// Config is a loaded configuration file.
type Config struct {
	// The file the settings were loaded from, or "" for the defaults.
	Path     string
	Settings formatter.Settings
	// Keys in the file that are not settings.
	Unknown []string
}

// Parse decodes the TOML text of a configuration file. Settings missing
// from text keep their default values.
func Parse(text string) (*Config, error) {
	config := &Config{Settings: formatter.DefaultSettings()}
	md, err := toml.Decode(text, &config.Settings)
	if err != nil {
		return nil, err
	}
	for _, key := range md.Undecoded() {
		config.Unknown = append(config.Unknown, key.String())
	}
	if err := Validate(&config.Settings); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadFile loads the configuration file at path.
func LoadFile(path string) (*Config, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	config, err := Parse(string(text))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	config.Path = path
	return config, nil
}

// Find searches dir and its ancestors for a configuration file, stopping at
// the root of a git repository. Returns "" if there is none.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}

		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return "", nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Load loads the configuration file at path, or if path is empty, the one
// [Find] finds from dir. Without a file, it returns the default settings.
func Load(path, dir string) (*Config, error) {
	if path == "" {
		var err error
		if path, err = Find(dir); err != nil {
			return nil, err
		}
		if path == "" {
			return &Config{Settings: formatter.DefaultSettings()}, nil
		}
	}
	return LoadFile(path)
}

// Validate checks settings for values that cannot be formatted with.
func Validate(settings *formatter.Settings) error {
	var errs []error
	if settings.MaxWidth <= 0 {
		errs = append(errs, fmt.Errorf("max_width must be positive, got %d", settings.MaxWidth))
	}
	if settings.TabSpaces <= 0 {
		errs = append(errs, fmt.Errorf("tab_spaces must be positive, got %d", settings.TabSpaces))
	}
	if len(settings.MacroNames) == 0 {
		errs = append(errs, errors.New("macro_names must not be empty"))
	}
	return errors.Join(errs...)
}

// Write writes settings as the TOML text of a configuration file.
func Write(w io.Writer, settings *formatter.Settings) error {
	return toml.NewEncoder(w).Encode(settings)
}
