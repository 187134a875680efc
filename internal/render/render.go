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

// Package render writes staged changesets as text or YAML reports.
package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/goccy/go-yaml"
	"znkr.io/diff"
	"znkr.io/diff/textdiff"
	"znkr.io/listdiff"
	"znkr.io/listdiff/internal/edits"
)

// Options control the text output.
type Options struct {
	Color   bool // Use ANSI colors.
	Explain bool // Show how the data changes with every stage.
}

// Text writes a human readable report for staged, the changes that transform source into the data
// of the last changeset.
func Text[T any](w io.Writer, source []T, staged listdiff.StagedChangeset[T], opts Options) error {
	p := newPalette(opts.Color)
	bw := bufio.NewWriter(w)

	if len(staged) == 0 {
		fmt.Fprintln(bw, "no changes")
		return bw.Flush()
	}

	prev := source
	for _, c := range staged {
		fmt.Fprintln(bw, p.header.Sprintf("%v: %s", c.Stage(), plural(c.ChangeCount(), "change")))
		for _, e := range edits.Of(c) {
			fmt.Fprintf(bw, "  %s\n", p.edit(e.Op).Sprint(e))
		}
		if opts.Explain {
			explain(bw, p, prev, c.Data)
		}
		prev = c.Data
	}
	fmt.Fprintf(bw, "%s in %s\n", plural(staged.ChangeCount(), "change"), plural(len(staged), "stage"))
	return bw.Flush()
}

// explain writes the line by line difference between two snapshots.
func explain[T any](w io.Writer, p *palette, prev, next []T) {
	for _, e := range textdiff.Edits(snapshot(prev), snapshot(next), textdiff.IndentHeuristic()) {
		line := strings.TrimSuffix(e.Line, "\n")
		switch e.Op {
		case diff.Match:
			fmt.Fprintf(w, "    %s\n", line)
		case diff.Delete:
			fmt.Fprintln(w, p.del.Sprintf("  - %s", line))
		case diff.Insert:
			fmt.Fprintln(w, p.ins.Sprintf("  + %s", line))
		}
	}
}

// liner is implemented by values that span multiple lines in a snapshot.
type liner interface {
	Lines() []string
}

func snapshot[T any](data []T) string {
	var sb strings.Builder
	for _, d := range data {
		if l, ok := any(d).(liner); ok {
			for _, line := range l.Lines() {
				sb.WriteString(line)
				sb.WriteByte('\n')
			}
			continue
		}
		fmt.Fprintln(&sb, d)
	}
	return sb.String()
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

type palette struct {
	header *color.Color
	del    *color.Color
	ins    *color.Color
	upd    *color.Color
	move   *color.Color
}

func newPalette(enabled bool) *palette {
	p := &palette{
		header: color.New(color.Bold),
		del:    color.New(color.FgRed),
		ins:    color.New(color.FgGreen),
		upd:    color.New(color.FgYellow),
		move:   color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{p.header, p.del, p.ins, p.upd, p.move} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p *palette) edit(op edits.Op) *color.Color {
	switch op {
	case edits.Delete:
		return p.del
	case edits.Insert:
		return p.ins
	case edits.Update:
		return p.upd
	default:
		return p.move
	}
}

// Report is the YAML representation of a staged changeset.
type Report[T any] struct {
	Changes int              `yaml:"changes"`
	Stages  []StageReport[T] `yaml:"stages,omitempty"`
}

// StageReport is the YAML representation of a single changeset.
type StageReport[T any] struct {
	Stage string   `yaml:"stage"`
	Edits []string `yaml:"edits"`
	Data  []T      `yaml:"data"`
}

// NewReport converts staged into a report.
func NewReport[T any](staged listdiff.StagedChangeset[T]) Report[T] {
	r := Report[T]{Changes: staged.ChangeCount()}
	for _, c := range staged {
		sr := StageReport[T]{Stage: c.Stage().String(), Data: c.Data}
		for _, e := range edits.Of(c) {
			sr.Edits = append(sr.Edits, e.String())
		}
		r.Stages = append(r.Stages, sr)
	}
	return r
}

// YAML writes staged as a YAML report.
func YAML[T any](w io.Writer, staged listdiff.StagedChangeset[T]) error {
	out, err := yaml.Marshal(NewReport(staged))
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	_, err = w.Write(out)
	return err
}
