// Copyright 2025 Florian Zenker (flo@znkr.io)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// config holds the defaults for the command line flags.
type config struct {
	Format  string `toml:"format"`
	Color   string `toml:"color"`
	Explain bool   `toml:"explain"`
	Verify  bool   `toml:"verify"`
}

func defaultConfig() config {
	return config{Format: "text", Color: "auto"}
}

// defaultConfigPath returns the path of the config file in the users config directory.
func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "listdiff", "config.toml")
}

// loadConfig reads the config file at path. A missing file results in the default config.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return config{}, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

func (c config) validate() error {
	switch c.Format {
	case "text", "yaml":
	default:
		return fmt.Errorf("unsupported format %q, want text or yaml", c.Format)
	}
	switch c.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("unsupported color mode %q, want auto, always, or never", c.Color)
	}
	return nil
}
