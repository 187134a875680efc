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
	"znkr.io/listdiff/internal/config"
	"znkr.io/listdiff/internal/impl"
)

// Diff compares the elements in source and target and returns the changes necessary to convert from
// one to the other.
//
// The output consists of up to three changesets, in this order:
//
//   - element updates, with Data being source with updated elements replaced,
//   - element deletions, with Data being the elements that remain,
//   - element insertions and moves, with Data being target.
//
// Changesets without changes are omitted. If source and target are identical, the output has
// length zero. Element paths use section 0, this can be changed with [Section].
//
// The following option is supported: [listdiff.Section]
func Diff[T Differentiable[K, T], K comparable](source, target []T, opts ...Option) StagedChangeset[T] {
	id := func(e T) K { return e.DifferenceIdentifier() }
	eq := func(a, b T) bool { return a.IsContentEqual(b) }
	return DiffFunc(source, target, id, eq, opts...)
}

// DiffFunc compares the elements in source and target using the provided identity and content
// equality functions and returns the changes necessary to convert from one to the other.
//
// The id and eq functions have the same meaning as [Differentiable.DifferenceIdentifier] and
// [Differentiable.IsContentEqual] respectively. Otherwise, DiffFunc behaves like [Diff].
//
// The following option is supported: [listdiff.Section]
func DiffFunc[T any, K comparable](source, target []T, id func(T) K, eq func(a, b T) bool, opts ...Option) StagedChangeset[T] {
	cfg := config.FromOptions(opts, config.Section)
	section := cfg.Section

	path := func(i int) ElementPath { return ElementPath{Element: i, Section: section} }
	move := func(s, t int) Move[ElementPath] { return Move[ElementPath]{path(s), path(t)} }

	// Handle trivial cases without doing anything extra.
	switch {
	case len(source) == 0 && len(target) == 0:
		return nil
	case len(target) == 0:
		return StagedChangeset[T]{{Data: target, ElementDeleted: paths(len(source), path)}}
	case len(source) == 0:
		return StagedChangeset[T]{{Data: target, ElementInserted: paths(len(target), path)}}
	}

	res := impl.Differentiate(source, target, id, eq, false, path, move)

	var staged StagedChangeset[T]

	// Updates are applied before anything else changes. The data is the source with every matched
	// element replaced by its target.
	if len(res.Updated) > 0 {
		data := make([]T, len(source))
		for s, tr := range res.Traces {
			if tr.Referenced {
				data[s] = target[tr.Reference]
			} else {
				data[s] = source[s]
			}
		}
		staged = append(staged, Changeset[T]{Data: data, ElementUpdated: res.Updated})
	}

	// Deletions leave the matched elements in source order.
	if len(res.Deleted) > 0 {
		data := make([]T, 0, len(source)-len(res.Deleted))
		for _, tr := range res.Traces {
			if tr.Referenced {
				data = append(data, target[tr.Reference])
			}
		}
		staged = append(staged, Changeset[T]{Data: data, ElementDeleted: res.Deleted})
	}

	if len(res.Inserted) > 0 || len(res.Moved) > 0 {
		staged = append(staged, Changeset[T]{
			Data:            target,
			ElementInserted: res.Inserted,
			ElementMoved:    res.Moved,
		})
	}

	// The last stage always ends at the target.
	if len(staged) > 0 {
		staged[len(staged)-1].Data = target
	}
	return staged
}

func paths(n int, path func(int) ElementPath) []ElementPath {
	out := make([]ElementPath, n)
	for i := range out {
		out[i] = path(i)
	}
	return out
}
