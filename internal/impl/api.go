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

// Package impl contains the identity matching algorithm shared by flat and sectioned diffs.
package impl

import "znkr.io/listdiff/internal/rvecs"

// Result is the outcome of [Differentiate].
//
// Indices are mapped with the index and move functions passed to Differentiate. Deleted and
// Updated are relative to the source (Updated is relative to the target if target updates are
// tracked), Inserted is relative to the target, and Moved pairs a post-delete source index with a
// target index.
type Result[I, M any] struct {
	Deleted  []I
	Inserted []I
	Updated  []I
	Moved    []M

	// Traces has one entry per source element, References one per target element (-1 if the
	// target element is unmatched).
	Traces     []rvecs.Trace[int]
	References []int
}

// Differentiate matches the elements in source and target by identifier and classifies every
// element as deleted, inserted, updated or moved.
//
// Duplicate identifiers are matched in order: the n-th occurrence in target claims the n-th
// occurrence in source. A matched element is reported as moved only if it's out of the order that
// the remaining unmatched source elements imply.
func Differentiate[T any, K comparable, I, M any](
	source, target []T,
	id func(T) K,
	eq func(a, b T) bool,
	trackTargetUpdates bool,
	index func(int) I,
	move func(s, t int) M,
) Result[I, M] {
	traces, refs := rvecs.Make(source, target)

	// Record where the identifiers appear in source and let the target elements claim them.
	tab := NewTable[K](len(source))
	for _, e := range source {
		tab.Add(id(e))
	}
	for t, e := range target {
		if s, ok := tab.Claim(id(e)); ok {
			refs[t] = s
			traces[s].Reference = t
			traces[s].Referenced = true
		}
	}

	var res Result[I, M]
	res.Traces, res.References = traces, refs

	// Record the deletions.
	offset := 0
	for s := range source {
		traces[s].DeleteOffset = offset
		if !traces[s].Referenced {
			res.Deleted = append(res.Deleted, index(s))
			traces[s].Tracked = true
			offset++
		}
	}

	// Record the updates, moves, and insertions.
	untracked := 0
	for t := range target {
		untracked = rvecs.NextUntracked(traces, untracked)

		s := refs[t]
		if s < 0 {
			res.Inserted = append(res.Inserted, index(t))
			continue
		}
		traces[s].Tracked = true

		if !eq(target[t], source[s]) {
			if trackTargetUpdates {
				res.Updated = append(res.Updated, index(t))
			} else {
				res.Updated = append(res.Updated, index(s))
			}
		}

		if s != untracked {
			res.Moved = append(res.Moved, move(s-traces[s].DeleteOffset, t))
		}
	}

	return res
}
