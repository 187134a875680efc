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

package listdiff

import (
	"fmt"
	"strings"
)

// ElementPath is the position of an element in a sectioned collection.
type ElementPath struct {
	Element int // Index of the element within its section.
	Section int // Index of the section.
}

// String returns the path as "section:element".
func (p ElementPath) String() string {
	return fmt.Sprintf("%d:%d", p.Section, p.Element)
}

// Move describes an element or section that changed its position.
type Move[I comparable] struct {
	Source I // Position before the changeset is applied.
	Target I // Position after the changeset is applied.
}

func (m Move[I]) String() string {
	return fmt.Sprintf("%v->%v", m.Source, m.Target)
}

// Changeset is a set of changes of the same kind together with the state of the collection after
// applying them.
//
// Deletions, updates, and move sources are positions in the collection before the changeset is
// applied. Insertions and move targets are positions in the collection after the changeset is
// applied, that is in Data.
type Changeset[T any] struct {
	// Data is the collection after applying this changeset.
	Data []T

	SectionDeleted  []int
	SectionInserted []int
	SectionUpdated  []int
	SectionMoved    []Move[int]

	ElementDeleted  []ElementPath
	ElementInserted []ElementPath
	ElementUpdated  []ElementPath
	ElementMoved    []Move[ElementPath]
}

// SectionChangeCount returns the number of section changes.
func (c Changeset[T]) SectionChangeCount() int {
	return len(c.SectionDeleted) + len(c.SectionInserted) + len(c.SectionUpdated) + len(c.SectionMoved)
}

// ElementChangeCount returns the number of element changes.
func (c Changeset[T]) ElementChangeCount() int {
	return len(c.ElementDeleted) + len(c.ElementInserted) + len(c.ElementUpdated) + len(c.ElementMoved)
}

// ChangeCount returns the number of all changes.
func (c Changeset[T]) ChangeCount() int {
	return c.SectionChangeCount() + c.ElementChangeCount()
}

// HasSectionChanges reports if the changeset contains section changes.
func (c Changeset[T]) HasSectionChanges() bool { return c.SectionChangeCount() > 0 }

// HasElementChanges reports if the changeset contains element changes.
func (c Changeset[T]) HasElementChanges() bool { return c.ElementChangeCount() > 0 }

// HasChanges reports if the changeset contains any changes.
func (c Changeset[T]) HasChanges() bool { return c.ChangeCount() > 0 }

// Stage returns the stage a changeset belongs to. Changesets created by this package contain the
// changes of exactly one stage. For other changesets, the earliest stage with changes is returned.
func (c Changeset[T]) Stage() Stage {
	switch {
	case len(c.ElementUpdated) > 0:
		return StageUpdates
	case len(c.SectionDeleted) > 0 || len(c.ElementDeleted) > 0:
		return StageDeletes
	case len(c.SectionInserted) > 0 || len(c.SectionMoved) > 0:
		return StageSectionInserts
	case len(c.ElementInserted) > 0 || len(c.ElementMoved) > 0:
		return StageElementInserts
	case len(c.SectionUpdated) > 0:
		return StageSectionUpdates
	default:
		return StageNone
	}
}

// EqualFunc reports if c and other are equal, using eq to compare the data.
//
// The order of changes within one kind of change doesn't matter, e.g. deleting elements 1 and 2 is
// equal to deleting elements 2 and 1.
func (c Changeset[T]) EqualFunc(other Changeset[T], eq func(a, b T) bool) bool {
	if len(c.Data) != len(other.Data) {
		return false
	}
	for i := range c.Data {
		if !eq(c.Data[i], other.Data[i]) {
			return false
		}
	}
	return sameSet(c.SectionDeleted, other.SectionDeleted) &&
		sameSet(c.SectionInserted, other.SectionInserted) &&
		sameSet(c.SectionUpdated, other.SectionUpdated) &&
		sameSet(c.SectionMoved, other.SectionMoved) &&
		sameSet(c.ElementDeleted, other.ElementDeleted) &&
		sameSet(c.ElementInserted, other.ElementInserted) &&
		sameSet(c.ElementUpdated, other.ElementUpdated) &&
		sameSet(c.ElementMoved, other.ElementMoved)
}

// Equal reports if a and b are equal. See [Changeset.EqualFunc].
func Equal[T comparable](a, b Changeset[T]) bool {
	return a.EqualFunc(b, func(x, y T) bool { return x == y })
}

// sameSet reports if a and b hold the same values, each the same number of times.
func sameSet[I comparable](a, b []I) bool {
	if len(a) != len(b) {
		return false
	}
	count := make(map[I]int, len(a))
	for _, i := range a {
		count[i]++
	}
	for _, i := range b {
		if count[i] == 0 {
			return false
		}
		count[i]--
	}
	return true
}

// String returns a human readable representation of the changeset that contains the data and all
// non-empty kinds of changes.
func (c Changeset[T]) String() string {
	var sb strings.Builder
	sb.WriteString("Changeset{\n")
	if len(c.Data) == 0 {
		sb.WriteString("\tData: []\n")
	} else {
		sb.WriteString("\tData: [\n")
		for _, d := range c.Data {
			for _, line := range strings.Split(fmt.Sprint(d), "\n") {
				sb.WriteString("\t\t")
				sb.WriteString(line)
				sb.WriteByte('\n')
			}
		}
		sb.WriteString("\t]\n")
	}
	writeChanges(&sb, "SectionDeleted", c.SectionDeleted)
	writeChanges(&sb, "SectionInserted", c.SectionInserted)
	writeChanges(&sb, "SectionUpdated", c.SectionUpdated)
	writeChanges(&sb, "SectionMoved", c.SectionMoved)
	writeChanges(&sb, "ElementDeleted", c.ElementDeleted)
	writeChanges(&sb, "ElementInserted", c.ElementInserted)
	writeChanges(&sb, "ElementUpdated", c.ElementUpdated)
	writeChanges(&sb, "ElementMoved", c.ElementMoved)
	sb.WriteString("}")
	return sb.String()
}

func writeChanges[I any](sb *strings.Builder, name string, changes []I) {
	if len(changes) == 0 {
		return
	}
	fmt.Fprintf(sb, "\t%s: [", name)
	for i, c := range changes {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprint(sb, c)
	}
	sb.WriteString("]\n")
}

// StagedChangeset is an ordered sequence of changesets. Applying the changesets in order, each to
// the data of the previous one, transforms the source collection into the target collection.
type StagedChangeset[T any] []Changeset[T]

// Final returns the data of the last changeset, i.e. the target collection. It returns false if
// there are no changesets.
func (s StagedChangeset[T]) Final() ([]T, bool) {
	if len(s) == 0 {
		return nil, false
	}
	return s[len(s)-1].Data, true
}

// ChangeCount returns the number of changes in all changesets.
func (s StagedChangeset[T]) ChangeCount() int {
	n := 0
	for _, c := range s {
		n += c.ChangeCount()
	}
	return n
}

// EqualFunc reports if s and other contain equal changesets in the same order. See
// [Changeset.EqualFunc].
func (s StagedChangeset[T]) EqualFunc(other StagedChangeset[T], eq func(a, b T) bool) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if !s[i].EqualFunc(other[i], eq) {
			return false
		}
	}
	return true
}

// EqualStaged reports if a and b are equal. See [StagedChangeset.EqualFunc].
func EqualStaged[T comparable](a, b StagedChangeset[T]) bool {
	return a.EqualFunc(b, func(x, y T) bool { return x == y })
}

func (s StagedChangeset[T]) String() string {
	if len(s) == 0 {
		return "[]"
	}
	var sb strings.Builder
	sb.WriteString("[\n")
	for _, c := range s {
		for _, line := range strings.Split(c.String(), "\n") {
			sb.WriteByte('\t')
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	}
	sb.WriteString("]")
	return sb.String()
}
