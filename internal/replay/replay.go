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

// Package replay checks changesets by replaying them with the semantics of a batch update.
//
// In a batch update, deletions, reloads and move sources refer to positions before the batch and
// insertions and move targets refer to positions after the batch. Everything that is neither
// deleted nor moved keeps its relative order.
package replay

import (
	"errors"
	"fmt"

	"znkr.io/listdiff"
)

var noPath = listdiff.ElementPath{Element: -1, Section: -1}

// Elements checks that applying c to prev leads to c.Data. The section of element paths is
// ignored.
func Elements[T any, K comparable](prev []T, c listdiff.Changeset[T], id func(T) K, eq func(a, b T) bool) error {
	if c.HasSectionChanges() {
		return errors.New("section changes in a flat changeset")
	}
	ec := changesOf(c)
	ec.flatten()
	return elements([][]T{prev}, [][]T{c.Data}, []int{0}, ec, id, eq)
}

// Sections checks that applying c to prev leads to c.Data, both for the sections and the elements
// within them.
func Sections[S, E any, K, L comparable](prev []S, c listdiff.Changeset[S], schema listdiff.SectionSchema[S, E, K, L]) error {
	n, m := len(prev), len(c.Data)
	removed := make(map[int]bool)
	taken := make(map[int]int) // after -> before, -1 for insertions
	for _, s := range c.SectionDeleted {
		if err := remove(removed, s, n); err != nil {
			return fmt.Errorf("section delete: %w", err)
		}
	}
	for _, s := range c.SectionInserted {
		if err := take(taken, s, -1, m); err != nil {
			return fmt.Errorf("section insert: %w", err)
		}
	}
	for _, mv := range c.SectionMoved {
		if err := remove(removed, mv.Source, n); err != nil {
			return fmt.Errorf("section move %v: %w", mv, err)
		}
		if err := take(taken, mv.Target, mv.Source, m); err != nil {
			return fmt.Errorf("section move %v: %w", mv, err)
		}
	}
	reloaded := make(map[int]bool)
	for _, s := range c.SectionUpdated {
		if s < 0 || s >= n {
			return fmt.Errorf("section update: %w", outOfRange(s, n))
		}
		reloaded[s] = true
	}

	from, err := fill(n, m, removed, taken)
	if err != nil {
		return fmt.Errorf("sections: %w", err)
	}

	for a, b := range from {
		if b < 0 {
			continue
		}
		if schema.SectionID(c.Data[a]) != schema.SectionID(prev[b]) {
			return fmt.Errorf("section %d: expected section %d, got a different identifier", a, b)
		}
		if !reloaded[b] && !schema.SectionEqual(c.Data[a], prev[b]) {
			return fmt.Errorf("section %d: content of section %d changed without an update", a, b)
		}
	}

	before := make([][]E, n)
	for i, s := range prev {
		before[i] = schema.Elements(s)
	}
	after := make([][]E, m)
	for i, s := range c.Data {
		after[i] = schema.Elements(s)
	}
	return elements(before, after, from, changesOf(c), schema.ElementID, schema.ElementEqual)
}

// Staged checks every changeset in staged, starting from source. It also checks that no changeset
// is empty and that the stages are in order.
func Staged[T any, K comparable](source []T, staged listdiff.StagedChangeset[T], id func(T) K, eq func(a, b T) bool) error {
	return replay(source, staged, func(prev []T, c listdiff.Changeset[T]) error {
		return Elements(prev, c, id, eq)
	})
}

// StagedSections is like [Staged] for sectioned collections.
func StagedSections[S, E any, K, L comparable](source []S, staged listdiff.StagedChangeset[S], schema listdiff.SectionSchema[S, E, K, L]) error {
	return replay(source, staged, func(prev []S, c listdiff.Changeset[S]) error {
		return Sections(prev, c, schema)
	})
}

func replay[T any](source []T, staged listdiff.StagedChangeset[T], check func(prev []T, c listdiff.Changeset[T]) error) error {
	prev := source
	last := listdiff.StageNone
	for i, c := range staged {
		if !c.HasChanges() {
			return fmt.Errorf("stage %d: no changes", i)
		}
		if c.Stage() <= last {
			return fmt.Errorf("stage %d: %v after %v", i, c.Stage(), last)
		}
		if err := check(prev, c); err != nil {
			return fmt.Errorf("stage %d (%v): %w", i, c.Stage(), err)
		}
		prev, last = c.Data, c.Stage()
	}
	return nil
}

type changes struct {
	deleted, inserted, updated []listdiff.ElementPath
	moved                      []listdiff.Move[listdiff.ElementPath]
}

func changesOf[T any](c listdiff.Changeset[T]) changes {
	return changes{
		deleted:  c.ElementDeleted,
		inserted: c.ElementInserted,
		updated:  c.ElementUpdated,
		moved:    c.ElementMoved,
	}
}

// flatten moves all paths into section 0.
func (ec *changes) flatten() {
	flat := func(ps []listdiff.ElementPath) []listdiff.ElementPath {
		out := make([]listdiff.ElementPath, len(ps))
		for i, p := range ps {
			out[i] = listdiff.ElementPath{Element: p.Element}
		}
		return out
	}
	ec.deleted = flat(ec.deleted)
	ec.inserted = flat(ec.inserted)
	ec.updated = flat(ec.updated)
	moved := make([]listdiff.Move[listdiff.ElementPath], len(ec.moved))
	for i, mv := range ec.moved {
		moved[i].Source = listdiff.ElementPath{Element: mv.Source.Element}
		moved[i].Target = listdiff.ElementPath{Element: mv.Target.Element}
	}
	ec.moved = moved
}

// elements checks the element changes. The after section a holds the elements of the before
// section from[a], or is a new section if from[a] is negative.
func elements[E any, L comparable](before, after [][]E, from []int, ec changes, id func(E) L, eq func(a, b E) bool) error {
	to := make([]int, len(before))
	for i := range to {
		to[i] = -1
	}
	for a, b := range from {
		if b >= 0 {
			to[b] = a
		}
	}

	checkBefore := func(p listdiff.ElementPath) error {
		if p.Section < 0 || p.Section >= len(before) {
			return fmt.Errorf("section of %v: %w", p, outOfRange(p.Section, len(before)))
		}
		if to[p.Section] < 0 {
			return fmt.Errorf("%v is in a deleted section", p)
		}
		if p.Element < 0 || p.Element >= len(before[p.Section]) {
			return fmt.Errorf("element of %v: %w", p, outOfRange(p.Element, len(before[p.Section])))
		}
		return nil
	}
	checkAfter := func(p listdiff.ElementPath) error {
		if p.Section < 0 || p.Section >= len(after) {
			return fmt.Errorf("section of %v: %w", p, outOfRange(p.Section, len(after)))
		}
		if from[p.Section] < 0 {
			return fmt.Errorf("%v is in an inserted section", p)
		}
		if p.Element < 0 || p.Element >= len(after[p.Section]) {
			return fmt.Errorf("element of %v: %w", p, outOfRange(p.Element, len(after[p.Section])))
		}
		return nil
	}

	removed := make([]map[int]bool, len(before))
	for i := range removed {
		removed[i] = make(map[int]bool)
	}
	taken := make([]map[int]listdiff.ElementPath, len(after))
	for i := range taken {
		taken[i] = make(map[int]listdiff.ElementPath)
	}
	// The element ranges are already checked, the range arguments only guard against duplicates.
	for _, p := range ec.deleted {
		if err := checkBefore(p); err != nil {
			return fmt.Errorf("element delete: %w", err)
		}
		if err := remove(removed[p.Section], p.Element, len(before[p.Section])); err != nil {
			return fmt.Errorf("element delete %v: %w", p, err)
		}
	}
	for _, p := range ec.inserted {
		if err := checkAfter(p); err != nil {
			return fmt.Errorf("element insert: %w", err)
		}
		if _, ok := taken[p.Section][p.Element]; ok {
			return fmt.Errorf("element insert %v: position used twice", p)
		}
		taken[p.Section][p.Element] = noPath
	}
	for _, mv := range ec.moved {
		if err := checkBefore(mv.Source); err != nil {
			return fmt.Errorf("element move %v: %w", mv, err)
		}
		if err := checkAfter(mv.Target); err != nil {
			return fmt.Errorf("element move %v: %w", mv, err)
		}
		if err := remove(removed[mv.Source.Section], mv.Source.Element, len(before[mv.Source.Section])); err != nil {
			return fmt.Errorf("element move %v: %w", mv, err)
		}
		if _, ok := taken[mv.Target.Section][mv.Target.Element]; ok {
			return fmt.Errorf("element move %v: position used twice", mv)
		}
		taken[mv.Target.Section][mv.Target.Element] = mv.Source
	}
	reloaded := make(map[listdiff.ElementPath]bool)
	for _, p := range ec.updated {
		if err := checkBefore(p); err != nil {
			return fmt.Errorf("element update: %w", err)
		}
		reloaded[p] = true
	}

	for a, b := range from {
		if b < 0 {
			continue
		}
		occupied := make(map[int]int, len(taken[a]))
		for e := range taken[a] {
			occupied[e] = -1
		}
		kept, err := fill(len(before[b]), len(after[a]), removed[b], occupied)
		if err != nil {
			return fmt.Errorf("elements of section %d: %w", a, err)
		}
		for e, k := range kept {
			src := listdiff.ElementPath{Element: k, Section: b}
			if k < 0 {
				src = taken[a][e]
			}
			if src == noPath {
				continue
			}
			tgt := listdiff.ElementPath{Element: e, Section: a}
			x, y := before[src.Section][src.Element], after[a][e]
			if id(x) != id(y) {
				return fmt.Errorf("element %v: expected element %v, got a different identifier", tgt, src)
			}
			if !reloaded[src] && !eq(y, x) {
				return fmt.Errorf("element %v: content of element %v changed without an update", tgt, src)
			}
		}
	}
	return nil
}

// fill returns for every position after a batch the position before the batch it comes from. The
// positions in taken are filled by insertions or moves and get the value from taken. All other
// positions get the positions before the batch that are not removed, in order.
func fill(n, m int, removed map[int]bool, taken map[int]int) ([]int, error) {
	from := make([]int, m)
	b := 0
	for a := range from {
		if v, ok := taken[a]; ok {
			from[a] = v
			continue
		}
		for b < n && removed[b] {
			b++
		}
		if b >= n {
			return nil, fmt.Errorf("position %d after the batch has no origin", a)
		}
		from[a] = b
		b++
	}
	for b < n && removed[b] {
		b++
	}
	if b < n {
		return nil, fmt.Errorf("position %d before the batch has no destination", b)
	}
	return from, nil
}

func remove(removed map[int]bool, i, n int) error {
	if i < 0 || i >= n {
		return outOfRange(i, n)
	}
	if removed[i] {
		return fmt.Errorf("position %d removed twice", i)
	}
	removed[i] = true
	return nil
}

func take(taken map[int]int, i, v, m int) error {
	if i < 0 || i >= m {
		return outOfRange(i, m)
	}
	if _, ok := taken[i]; ok {
		return fmt.Errorf("position %d used twice", i)
	}
	taken[i] = v
	return nil
}

func outOfRange(i, n int) error {
	return fmt.Errorf("index %d out of range [0, %d)", i, n)
}
