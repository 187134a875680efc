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
// listdiff compares two list documents and prints the staged changesets that transform the first
// into the second.
//
// Documents are YAML, JSON, or TOML files that contain either a list of items or a list of
// sections with items. See package znkr.io/listdiff/internal/document for the format.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"znkr.io/listdiff"
	"znkr.io/listdiff/internal/document"
	"znkr.io/listdiff/internal/render"
	"znkr.io/listdiff/internal/replay"
)

func main() {
	cmd := newRootCmd(os.Stdout)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	var (
		configPath string
		flags      config
	)
	cmd := &cobra.Command{
		Use:           "listdiff SOURCE TARGET",
		Short:         "Show the staged changes between two list documents",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			// Flags on the command line take precedence over the config file.
			if cmd.Flags().Changed("format") {
				cfg.Format = flags.Format
			}
			if cmd.Flags().Changed("color") {
				cfg.Color = flags.Color
			}
			if cmd.Flags().Changed("explain") {
				cfg.Explain = flags.Explain
			}
			if cmd.Flags().Changed("verify") {
				cfg.Verify = flags.Verify
			}
			if err := cfg.validate(); err != nil {
				return err
			}
			return run(stdout, cfg, args[0], args[1])
		},
	}

	def := defaultConfig()
	cmd.Flags().StringVar(&configPath, "config", defaultConfigPath(), "config file with defaults for the flags")
	cmd.Flags().StringVar(&flags.Format, "format", def.Format, "output format: text or yaml")
	cmd.Flags().StringVar(&flags.Color, "color", def.Color, "use colors: auto, always, or never")
	cmd.Flags().BoolVar(&flags.Explain, "explain", def.Explain, "show how the data changes with every stage")
	cmd.Flags().BoolVar(&flags.Verify, "verify", def.Verify, "replay the stages and check that they lead to the target")
	return cmd
}

func run(w io.Writer, cfg config, sourceName, targetName string) error {
	source, err := document.Load(sourceName)
	if err != nil {
		return err
	}
	target, err := document.Load(targetName)
	if err != nil {
		return err
	}

	opts := render.Options{
		Color:   useColor(w, cfg.Color),
		Explain: cfg.Explain,
	}
	switch {
	case source.Sectioned() || target.Sectioned():
		if len(source.Items) > 0 || len(target.Items) > 0 {
			return errors.New("cannot compare a sectioned document with a flat document")
		}
		staged := listdiff.DiffSections(source.Sections, target.Sections)
		if cfg.Verify {
			schema := listdiff.SchemaOf[document.Section, document.Item, string, string]()
			if err := replay.StagedSections(source.Sections, staged, schema); err != nil {
				return fmt.Errorf("verification failed: %w", err)
			}
		}
		return output(w, cfg, source.Sections, staged, opts)
	default:
		staged := listdiff.Diff(source.Items, target.Items)
		if cfg.Verify {
			id := func(i document.Item) string { return i.DifferenceIdentifier() }
			eq := func(a, b document.Item) bool { return a.IsContentEqual(b) }
			if err := replay.Staged(source.Items, staged, id, eq); err != nil {
				return fmt.Errorf("verification failed: %w", err)
			}
		}
		return output(w, cfg, source.Items, staged, opts)
	}
}

func output[T any](w io.Writer, cfg config, source []T, staged listdiff.StagedChangeset[T], opts render.Options) error {
	if cfg.Format == "yaml" {
		return render.YAML(w, staged)
	}
	return render.Text(w, source, staged, opts)
}

// useColor resolves the color mode. In auto mode, colors are used if w is a terminal.
func useColor(w io.Writer, mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
