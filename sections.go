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
	"slices"

	"znkr.io/listdiff/internal/config"
	"znkr.io/listdiff/internal/impl"
	"znkr.io/listdiff/internal/rvecs"
)

// noPath marks an unmatched target element.
var noPath = ElementPath{Element: -1, Section: -1}

// DiffSections compares the sections in source and target, and the elements within them, and
// returns the changes necessary to convert from one to the other.
//
// Sections are matched by their identifier first. Elements are matched across all sections, so an
// element can move from one section to another. An element that moves out of a section that is
// deleted, or into a section that is inserted, is reported as a deletion and an insertion instead
// of a move, because the section it moves from or to doesn't exist on the other side of the
// changeset.
//
// The output consists of up to five changesets, in this order:
//
//   - element updates,
//   - section and element deletions,
//   - section insertions and moves,
//   - element insertions and moves,
//   - section updates.
//
// Changesets without changes are omitted, the data of the last changeset is always target. If
// source and target are identical, the output has length zero. The sections in the data of
// intermediate changesets are constructed with [DifferentiableSection.WithElements].
func DiffSections[S DifferentiableSection[K, S, E], E Differentiable[L, E], K, L comparable](source, target []S, opts ...Option) StagedChangeset[S] {
	return DiffSectionsFunc(source, target, SchemaOf[S, E, K, L](), opts...)
}

// DiffSectionsFunc compares the sections in source and target using the provided schema and
// returns the changes necessary to convert from one to the other. Otherwise, it behaves like
// [DiffSections].
func DiffSectionsFunc[S, E any, K, L comparable](source, target []S, schema SectionSchema[S, E, K, L], opts ...Option) StagedChangeset[S] {
	_ = config.FromOptions(opts, 0)

	var d sectionDiff[S, E, K, L]
	d.init(source, target, schema)
	d.matchElements()
	d.recordDeletions()
	d.recordInsertions()
	return d.stages()
}

// sectionDiff holds the state of a sectioned diff.
type sectionDiff[S, E any, K, L comparable] struct {
	schema         SectionSchema[S, E, K, L]
	source, target []S
	sourceElements [][]E // elements of the source sections
	targetElements [][]E // elements of the target sections

	// Result of the section diff.
	sections impl.Result[int, Move[int]]

	// Element traces for every source element and references for every target element (noPath
	// if unmatched).
	traces [][]rvecs.Trace[ElementPath]
	refs   [][]ElementPath

	// Snapshots for the stages.
	updateStage     []S // element updates applied
	deleteStage     []S // deletions applied
	sectionStage    []S // section insertions and moves applied
	elementStage    []S // element insertions and moves applied
	elementDeleted  []ElementPath
	elementInserted []ElementPath
	elementUpdated  []ElementPath
	elementMoved    []Move[ElementPath]
}

func (d *sectionDiff[S, E, K, L]) init(source, target []S, schema SectionSchema[S, E, K, L]) {
	d.schema = schema
	d.source, d.target = source, target
	d.sourceElements = make([][]E, len(source))
	d.traces = make([][]rvecs.Trace[ElementPath], len(source))
	for i, s := range source {
		d.sourceElements[i] = schema.Elements(s)
		d.traces[i] = make([]rvecs.Trace[ElementPath], len(d.sourceElements[i]))
	}
	d.targetElements = make([][]E, len(target))
	d.refs = make([][]ElementPath, len(target))
	for i, s := range target {
		d.targetElements[i] = schema.Elements(s)
		d.refs[i] = make([]ElementPath, len(d.targetElements[i]))
		for j := range d.refs[i] {
			d.refs[i][j] = noPath
		}
	}

	index := func(i int) int { return i }
	move := func(s, t int) Move[int] { return Move[int]{s, t} }
	d.sections = impl.Differentiate(source, target, schema.SectionID, schema.SectionEqual, true, index, move)
}

// matchElements matches target elements to source elements across all sections.
func (d *sectionDiff[S, E, K, L]) matchElements() {
	n := 0
	for _, elems := range d.sourceElements {
		n += len(elems)
	}
	flat := make([]ElementPath, 0, n) // flat index to source path
	tab := impl.NewTable[L](n)
	for s, elems := range d.sourceElements {
		for e, elem := range elems {
			tab.Add(d.schema.ElementID(elem))
			flat = append(flat, ElementPath{Element: e, Section: s})
		}
	}
	for t, elems := range d.targetElements {
		for e, elem := range elems {
			i, ok := tab.Claim(d.schema.ElementID(elem))
			if !ok {
				continue
			}
			sp, tp := flat[i], ElementPath{Element: e, Section: t}
			d.refs[t][e] = sp
			tr := &d.traces[sp.Section][sp.Element]
			tr.Reference = tp
			tr.Referenced = true
		}
	}
}

// recordDeletions finds all element deletions and constructs the snapshots for the update and
// delete stages.
func (d *sectionDiff[S, E, K, L]) recordDeletions() {
	d.updateStage = slices.Clone(d.source)
	d.deleteStage = make([]S, 0, len(d.source)-len(d.sections.Deleted))
	for s, sec := range d.source {
		elems := d.sourceElements[s]
		updated := slices.Clone(elems)

		// Elements in deleted sections go away with their section.
		if d.sections.Traces[s].Referenced {
			remaining := make([]E, 0, len(elems))
			offset := 0
			for e := range elems {
				tr := &d.traces[s][e]
				tr.DeleteOffset = offset

				// An element survives only if its target is in a section that also exists in the
				// source. If the target section is inserted, the element is deleted here and
				// appears again with the inserted section.
				if tr.Referenced && d.sections.References[tr.Reference.Section] >= 0 {
					elem := d.targetElements[tr.Reference.Section][tr.Reference.Element]
					updated[e] = elem
					remaining = append(remaining, elem)
					continue
				}

				d.elementDeleted = append(d.elementDeleted, ElementPath{Element: e, Section: s})
				tr.Tracked = true
				offset++
			}
			d.deleteStage = append(d.deleteStage, d.schema.WithElements(sec, remaining))
		}

		d.updateStage[s] = d.schema.WithElements(sec, updated)
	}
}

// recordInsertions finds all element updates, moves, and insertions and constructs the snapshots
// for the section insert and element insert stages.
func (d *sectionDiff[S, E, K, L]) recordInsertions() {
	d.sectionStage = make([]S, 0, len(d.target))
	d.elementStage = make([]S, 0, len(d.target))
	for t, sec := range d.target {
		// Inserted sections arrive with all their elements.
		s := d.sections.References[t]
		if s < 0 {
			d.sectionStage = append(d.sectionStage, sec)
			d.elementStage = append(d.elementStage, sec)
			continue
		}

		staged := d.deleteStage[s-d.sections.Traces[s].DeleteOffset]
		d.sectionStage = append(d.sectionStage, staged)

		elems := d.targetElements[t]
		out := make([]E, 0, len(elems))
		untracked := 0
		for e, elem := range elems {
			untracked = rvecs.NextUntracked(d.traces[s], untracked)
			out = append(out, elem)

			// An element whose source section is deleted is inserted.
			tp, sp := ElementPath{Element: e, Section: t}, d.refs[t][e]
			if sp == noPath || !d.sections.Traces[sp.Section].Referenced {
				d.elementInserted = append(d.elementInserted, tp)
				continue
			}

			tr := &d.traces[sp.Section][sp.Element]
			tr.Tracked = true

			if !d.schema.ElementEqual(elem, d.sourceElements[sp.Section][sp.Element]) {
				d.elementUpdated = append(d.elementUpdated, sp)
			}

			if sp.Section != s || sp.Element != untracked {
				// The source section is already at its target position when elements move.
				src := ElementPath{
					Element: sp.Element - tr.DeleteOffset,
					Section: d.sections.Traces[sp.Section].Reference,
				}
				d.elementMoved = append(d.elementMoved, Move[ElementPath]{src, tp})
			}
		}
		d.elementStage = append(d.elementStage, d.schema.WithElements(staged, out))
	}
}

func (d *sectionDiff[S, E, K, L]) stages() StagedChangeset[S] {
	var staged StagedChangeset[S]

	if len(d.elementUpdated) > 0 {
		staged = append(staged, Changeset[S]{
			Data:           d.updateStage,
			ElementUpdated: d.elementUpdated,
		})
	}

	if len(d.sections.Deleted) > 0 || len(d.elementDeleted) > 0 {
		staged = append(staged, Changeset[S]{
			Data:           d.deleteStage,
			SectionDeleted: d.sections.Deleted,
			ElementDeleted: d.elementDeleted,
		})
	}

	if len(d.sections.Inserted) > 0 || len(d.sections.Moved) > 0 {
		staged = append(staged, Changeset[S]{
			Data:            d.sectionStage,
			SectionInserted: d.sections.Inserted,
			SectionMoved:    d.sections.Moved,
		})
	}

	if len(d.elementInserted) > 0 || len(d.elementMoved) > 0 {
		staged = append(staged, Changeset[S]{
			Data:            d.elementStage,
			ElementInserted: d.elementInserted,
			ElementMoved:    d.elementMoved,
		})
	}

	if len(d.sections.Updated) > 0 {
		staged = append(staged, Changeset[S]{
			Data:           d.target,
			SectionUpdated: d.sections.Updated,
		})
	}

	// The last stage always ends at the target.
	if len(staged) > 0 {
		staged[len(staged)-1].Data = d.target
	}
	return staged
}
