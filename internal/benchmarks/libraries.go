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
// Package benchmarks compares listdiff with line based diff libraries on lists of items, one item
// per line. It is a separate module to keep the dependencies of the other libraries out of the main
// module.
package benchmarks

import (
	"bytes"
	"strings"

	"github.com/aymanbagabas/go-udiff"
	godebug "github.com/kylelemons/godebug/diff"
	mb0 "github.com/mb0/diff"
	gointernal "github.com/rogpeppe/go-internal/diff"
	"github.com/sergi/go-diff/diffmatchpatch"
	"znkr.io/diff"
	"znkr.io/diff/textdiff"
	"znkr.io/listdiff"
)

type Impl struct {
	Name    string
	Minimal bool // Whether the diff has the fewest possible edits for inputs without reordering.
	Diff    func(x, y []byte) []byte
}

var Impls = []Impl{
	{
		Name:    "listdiff",
		Minimal: true,
		Diff: func(x, y []byte) []byte {
			// Updates are written as a deletion and an insertion, moves too. This makes the
			// number of edits comparable to the line based libraries.
			lx, ly := lines(x), lines(y)
			var buf bytes.Buffer
			for _, c := range listdiff.DiffFunc(lx, ly, lineID, func(a, b string) bool { return a == b }) {
				for _, p := range c.ElementDeleted {
					buf.WriteString("-" + lx[p.Element])
				}
				for _, p := range c.ElementUpdated {
					buf.WriteString("-" + lx[p.Element])
					buf.WriteString("+" + c.Data[p.Element])
				}
				for _, p := range c.ElementInserted {
					buf.WriteString("+" + c.Data[p.Element])
				}
				for _, m := range c.ElementMoved {
					buf.WriteString("-" + c.Data[m.Target.Element])
					buf.WriteString("+" + c.Data[m.Target.Element])
				}
			}
			return buf.Bytes()
		},
	},
	{
		Name:    "znkr",
		Minimal: true,
		Diff: func(x, y []byte) []byte {
			var buf bytes.Buffer
			for _, e := range textdiff.Edits(string(x), string(y), textdiff.IndentHeuristic()) {
				switch e.Op {
				case diff.Match:
					buf.WriteString(" ")
				case diff.Delete:
					buf.WriteString("-")
				case diff.Insert:
					buf.WriteString("+")
				}
				buf.WriteString(e.Line)
			}
			return buf.Bytes()
		},
	},
	{
		Name: "go-internal",
		Diff: func(x, y []byte) []byte {
			return gointernal.Diff("x", x, "y", y)
		},
	},
	{
		Name: "diffmatchpatch",
		Diff: func(x, y []byte) []byte {
			// This function is not exactly creating a unified diff, but it's close enough to be
			// comparable.
			dmp := diffmatchpatch.New()
			rx, ry, lines := dmp.DiffLinesToRunes(string(x), string(y))
			diffs := dmp.DiffMainRunes(rx, ry, false)
			diffs = dmp.DiffCharsToLines(diffs, lines)

			var buf bytes.Buffer
			for _, d := range diffs {
				prefix := " "
				switch d.Type {
				case diffmatchpatch.DiffInsert:
					prefix = "+"
				case diffmatchpatch.DiffDelete:
					prefix = "-"
				}
				for _, line := range strings.SplitAfter(d.Text, "\n") {
					if line == "" {
						continue
					}
					buf.WriteString(prefix)
					buf.WriteString(line)
				}
			}
			return buf.Bytes()
		},
	},
	{
		Name: "godebug",
		Diff: func(x, y []byte) []byte {
			// This function is not exactly creating a unified diff, but it's close enough to be
			// comparable.
			return []byte(godebug.Diff(string(x), string(y)))
		},
	},
	{
		Name: "mb0",
		Diff: func(x, y []byte) []byte {
			d := mb0lines{
				x: bytes.SplitAfter(x, []byte("\n")),
				y: bytes.SplitAfter(y, []byte("\n")),
			}
			changes := mb0.Diff(len(d.x), len(d.y), d)
			var buf bytes.Buffer
			for _, ch := range changes {
				for i := range ch.Del {
					buf.WriteString("-")
					buf.Write(d.x[ch.A+i])
				}
				for i := range ch.Ins {
					buf.WriteString("+")
					buf.Write(d.y[ch.B+i])
				}
			}
			return buf.Bytes()
		},
	},
	{
		Name: "udiff",
		Diff: func(x, y []byte) []byte {
			return []byte(udiff.Unified("x", "y", string(x), string(y)))
		},
	},
}

// lines splits data into lines, keeping the line endings.
func lines(data []byte) []string {
	out := strings.SplitAfter(string(data), "\n")
	if out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}

// lineID is the part of an item line before the first '='.
func lineID(line string) string {
	id, _, _ := strings.Cut(line, "=")
	return id
}

type mb0lines struct {
	x [][]byte
	y [][]byte
}

func (d mb0lines) Equal(i, j int) bool { return bytes.Equal(d.x[i], d.y[j]) }
