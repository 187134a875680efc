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
	"testing"

	"github.com/google/go-cmp/cmp"
)

// recorder records all calls as strings.
type recorder struct {
	calls []string
	batch bool
}

func (r *recorder) record(format string, args ...any) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *recorder) ReloadData() { r.record("reload") }

func (r *recorder) PerformBatchUpdates(updates func()) {
	r.record("begin")
	r.batch = true
	updates()
	r.batch = false
	r.record("end")
}

func (r *recorder) checkBatch(name string) {
	if !r.batch {
		r.record("%s outside of batch", name)
	}
}

func (r *recorder) DeleteSections(sections []int) {
	r.checkBatch("DeleteSections")
	r.record("delete sections %v", sections)
}

func (r *recorder) InsertSections(sections []int) {
	r.checkBatch("InsertSections")
	r.record("insert sections %v", sections)
}

func (r *recorder) ReloadSections(sections []int) {
	r.checkBatch("ReloadSections")
	r.record("reload sections %v", sections)
}

func (r *recorder) MoveSection(from, to int) {
	r.checkBatch("MoveSection")
	r.record("move section %d -> %d", from, to)
}

func (r *recorder) DeleteElements(paths []ElementPath) {
	r.checkBatch("DeleteElements")
	r.record("delete elements %v", paths)
}

func (r *recorder) InsertElements(paths []ElementPath) {
	r.checkBatch("InsertElements")
	r.record("insert elements %v", paths)
}

func (r *recorder) ReloadElements(paths []ElementPath) {
	r.checkBatch("ReloadElements")
	r.record("reload elements %v", paths)
}

func (r *recorder) MoveElement(from, to ElementPath) {
	r.checkBatch("MoveElement")
	r.record("move element %v -> %v", from, to)
}

func TestReload(t *testing.T) {
	x := []section{sec("A", "a1 b"), sec("B", "c d"), sec("C", "e")}
	y := []section{{ID: "B", Header: "h", Elems: elems("d c")}, sec("D", "e"), sec("A", "a2 f")}
	staged := DiffSections(x, y)

	tests := []struct {
		name      string
		interrupt func(Changeset[section]) bool
		want      []string
		wantSets  int
	}{
		{
			name: "batches",
			want: []string{
				"begin",
				"reload elements [0:0]",
				"end",
				"begin",
				"delete sections [2]",
				"delete elements [0:1]",
				"end",
				"begin",
				"insert sections [1]",
				"move section 1 -> 0",
				"end",
				"begin",
				"insert elements [2:1]",
				"move element 0:1 -> 0:0",
				"end",
				"begin",
				"reload sections [0]",
				"end",
			},
			wantSets: 5,
		},
		{
			name:      "interrupt-all",
			interrupt: ChangeCountAbove[section](0),
			want:      []string{"reload"},
			wantSets:  1,
		},
		{
			name: "interrupt-at-deletes",
			interrupt: func(c Changeset[section]) bool {
				return c.Stage() == StageDeletes
			},
			want: []string{
				"begin",
				"reload elements [0:0]",
				"end",
				"reload",
			},
			wantSets: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r recorder
			var data []section
			sets := 0
			Reload(&r, staged, tt.interrupt, func(d []section) {
				data = d
				sets++
			})
			if diff := cmp.Diff(tt.want, r.calls); diff != "" {
				t.Errorf("Reload(...) calls are different [-want,+got]:\n%s", diff)
			}
			if sets != tt.wantSets {
				t.Errorf("Reload(...) set the data %d times, want %d", sets, tt.wantSets)
			}
			if diff := cmp.Diff(y, data); diff != "" {
				t.Errorf("Reload(...) final data is different [-want,+got]:\n%s", diff)
			}
		})
	}
}

func TestChangeCountAbove(t *testing.T) {
	c := Changeset[elem]{ElementDeleted: []ElementPath{p(0, 0), p(0, 1)}}
	if ChangeCountAbove[elem](2)(c) {
		t.Errorf("ChangeCountAbove(2) = true for 2 changes")
	}
	if !ChangeCountAbove[elem](1)(c) {
		t.Errorf("ChangeCountAbove(1) = false for 2 changes")
	}
}
