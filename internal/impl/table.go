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

package impl

// Table is an occurrence table that maps an identifier to all positions it was added at.
//
// Positions are claimed in the order they were added (FIFO) and every position can be claimed at
// most once. Instead of keeping a queue per identifier, every identifier gets a dense ID and the
// positions for one ID are chained through a single next slice. This keeps the number of map
// lookups to one per Add and Claim and avoids allocations per identifier.
type Table[K comparable] struct {
	ids  map[K]int // identifier to ID
	head []int     // ID to next unclaimed position, -1 if all positions are claimed
	tail []int     // ID to last added position
	next []int     // position to next position with the same ID, -1 for the last one
}

// NewTable creates a table with room for n positions.
func NewTable[K comparable](n int) *Table[K] {
	return &Table[K]{
		ids:  make(map[K]int, n),
		head: make([]int, 0, n),
		tail: make([]int, 0, n),
		next: make([]int, 0, n),
	}
}

// Add records the next position for k. Positions are numbered in the order of the calls to Add,
// starting at 0.
func (tab *Table[K]) Add(k K) {
	pos := len(tab.next)
	tab.next = append(tab.next, -1)
	id, ok := tab.ids[k]
	if !ok {
		tab.ids[k] = len(tab.head)
		tab.head = append(tab.head, pos)
		tab.tail = append(tab.tail, pos)
		return
	}
	if tab.head[id] < 0 {
		// Everything was claimed already, the new position is the next one.
		tab.head[id] = pos
	} else {
		tab.next[tab.tail[id]] = pos
	}
	tab.tail[id] = pos
}

// Claim returns the earliest unclaimed position for k. It returns false if k was never added or if
// all positions of k have been claimed.
func (tab *Table[K]) Claim(k K) (int, bool) {
	id, ok := tab.ids[k]
	if !ok {
		return 0, false
	}
	pos := tab.head[id]
	if pos < 0 {
		return 0, false
	}
	tab.head[id] = tab.next[pos]
	return pos, true
}
