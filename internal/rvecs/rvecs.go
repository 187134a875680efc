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

// Package rvecs contains functions to work with the result vectors, the internal representation
// that's used while matching source and target elements and is then translated to changesets. The
// internal representation is separate from the exported representation because it needs to solve a
// number of different problems.
package rvecs

// Trace records everything that is known about a single source element during a diff.
type Trace[I any] struct {
	Reference    I    // Index of the matching target element, only valid if Referenced is set.
	Referenced   bool // Whether a target element claimed this source element.
	DeleteOffset int  // Number of deleted elements before this one.
	Tracked      bool // Set for deletions and for matches once their target has been visited.
}

// Make allocates the source traces for x and the target references for y. A target reference of
// -1 means that the target element is not matched.
func Make[T any](x, y []T) (traces []Trace[int], refs []int) {
	traces = make([]Trace[int], len(x))
	refs = make([]int, len(y))
	for i := range refs {
		refs[i] = -1
	}
	return traces, refs
}

// NextUntracked returns the index of the first untracked trace at or after i. It returns -1 if i is
// negative or if all traces from i on are tracked. Once -1 is returned, every subsequent call for
// the same traces returns -1 too.
func NextUntracked[I any](traces []Trace[I], i int) int {
	if i < 0 {
		return -1
	}
	for ; i < len(traces); i++ {
		if !traces[i].Tracked {
			return i
		}
	}
	return -1
}
