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

// BatchUpdater is implemented by a presentation layer that can apply the changes of a changeset as
// one batch, e.g. a list or table view.
//
// Within a batch, deletions, reloads and move sources refer to positions before the batch, and
// insertions and move targets refer to positions after the batch.
type BatchUpdater interface {
	// ReloadData discards all state and shows the current data.
	ReloadData()

	// PerformBatchUpdates runs updates as one batch.
	PerformBatchUpdates(updates func())

	DeleteSections(sections []int)
	InsertSections(sections []int)
	ReloadSections(sections []int)
	MoveSection(from, to int)

	DeleteElements(paths []ElementPath)
	InsertElements(paths []ElementPath)
	ReloadElements(paths []ElementPath)
	MoveElement(from, to ElementPath)
}

// Reload applies the staged changeset to u, one batch per changeset.
//
// Before each batch, setData is called with the data of the changeset, so that u sees the data the
// batch leads to. If interrupt is not nil and reports true for a changeset, that changeset and all
// following ones are skipped: setData is called with the final data and u is reloaded completely.
func Reload[T any](u BatchUpdater, staged StagedChangeset[T], interrupt func(Changeset[T]) bool, setData func([]T)) {
	for _, c := range staged {
		if interrupt != nil && interrupt(c) {
			data, _ := staged.Final()
			setData(data)
			u.ReloadData()
			return
		}

		u.PerformBatchUpdates(func() {
			setData(c.Data)

			if len(c.SectionDeleted) > 0 {
				u.DeleteSections(c.SectionDeleted)
			}
			if len(c.SectionInserted) > 0 {
				u.InsertSections(c.SectionInserted)
			}
			if len(c.SectionUpdated) > 0 {
				u.ReloadSections(c.SectionUpdated)
			}
			for _, m := range c.SectionMoved {
				u.MoveSection(m.Source, m.Target)
			}

			if len(c.ElementDeleted) > 0 {
				u.DeleteElements(c.ElementDeleted)
			}
			if len(c.ElementInserted) > 0 {
				u.InsertElements(c.ElementInserted)
			}
			if len(c.ElementUpdated) > 0 {
				u.ReloadElements(c.ElementUpdated)
			}
			for _, m := range c.ElementMoved {
				u.MoveElement(m.Source, m.Target)
			}
		})
	}
}

// ChangeCountAbove returns an interrupt function for [Reload] that reports true for changesets with
// more than n changes. Large changesets are often better shown with a complete reload.
func ChangeCountAbove[T any](n int) func(Changeset[T]) bool {
	return func(c Changeset[T]) bool {
		return c.ChangeCount() > n
	}
}
