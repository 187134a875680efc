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

// Package edits flattens changesets into a list of individual edits for reporting.
package edits

import (
	"fmt"

	"znkr.io/listdiff"
)

// Op is the kind of an edit.
type Op uint8

const (
	Delete Op = iota + 1
	Insert
	Update
	Move
)

func (o Op) String() string {
	switch o {
	case Delete:
		return "delete"
	case Insert:
		return "insert"
	case Update:
		return "update"
	case Move:
		return "move"
	default:
		return fmt.Sprint(uint8(o))
	}
}

// Level tells whether an edit changes a section or an element.
type Level uint8

const (
	Element Level = iota
	Section
)

func (l Level) String() string {
	if l == Section {
		return "section"
	}
	return "element"
}

// Edit is a single change.
type Edit struct {
	Op    Op
	Level Level
	From  string // Position before the changeset, empty for insertions.
	To    string // Position after the changeset, empty for deletions and updates.
}

func (e Edit) String() string {
	switch e.Op {
	case Insert:
		return fmt.Sprintf("%v %v %s", e.Op, e.Level, e.To)
	case Move:
		return fmt.Sprintf("%v %v %s -> %s", e.Op, e.Level, e.From, e.To)
	default:
		return fmt.Sprintf("%v %v %s", e.Op, e.Level, e.From)
	}
}

// Of returns the edits in c. Section edits come before element edits and within each level the
// order is deletions, insertions, updates and moves, the order in which a batch update applies
// them.
func Of[T any](c listdiff.Changeset[T]) []Edit {
	out := make([]Edit, 0, c.ChangeCount())
	out = positions(out, Delete, Section, c.SectionDeleted, false)
	out = positions(out, Insert, Section, c.SectionInserted, true)
	out = positions(out, Update, Section, c.SectionUpdated, false)
	out = moves(out, Section, c.SectionMoved)
	out = positions(out, Delete, Element, c.ElementDeleted, false)
	out = positions(out, Insert, Element, c.ElementInserted, true)
	out = positions(out, Update, Element, c.ElementUpdated, false)
	out = moves(out, Element, c.ElementMoved)
	return out
}

func positions[I any](out []Edit, op Op, level Level, ps []I, after bool) []Edit {
	for _, p := range ps {
		e := Edit{Op: op, Level: level}
		if after {
			e.To = fmt.Sprint(p)
		} else {
			e.From = fmt.Sprint(p)
		}
		out = append(out, e)
	}
	return out
}

func moves[I comparable](out []Edit, level Level, ms []listdiff.Move[I]) []Edit {
	for _, m := range ms {
		out = append(out, Edit{Op: Move, Level: level, From: fmt.Sprint(m.Source), To: fmt.Sprint(m.Target)})
	}
	return out
}
