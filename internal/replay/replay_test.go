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

package replay

import (
	"slices"
	"strings"
	"testing"

	"znkr.io/listdiff"
)

// Elements are strings, the identifier is the first byte.
func id(s string) byte    { return s[0] }
func eq(a, b string) bool { return a == b }

func path(e int) listdiff.ElementPath { return listdiff.ElementPath{Element: e} }

func spath(s, e int) listdiff.ElementPath { return listdiff.ElementPath{Element: e, Section: s} }

type section struct {
	id     string
	header string
	elems  []string
}

var schema = listdiff.SectionSchema[section, string, string, byte]{
	SectionID:    func(s section) string { return s.id },
	SectionEqual: func(a, b section) bool { return a.header == b.header },
	Elements:     func(s section) []string { return s.elems },
	WithElements: func(s section, elems []string) section { s.elems = elems; return s },
	ElementID:    id,
	ElementEqual: eq,
}

func sec(id string, elems ...string) section { return section{id: id, elems: elems} }

func checkErr(t *testing.T, err error, want string) {
	t.Helper()
	switch {
	case want == "" && err != nil:
		t.Errorf("unexpected error: %v", err)
	case want != "" && err == nil:
		t.Errorf("expected error containing %q, got nil", want)
	case want != "" && !strings.Contains(err.Error(), want):
		t.Errorf("expected error containing %q, got %v", want, err)
	}
}

func TestElements(t *testing.T) {
	tests := []struct {
		name    string
		prev    []string
		c       listdiff.Changeset[string]
		wantErr string
	}{
		{
			name: "empty",
		},
		{
			name: "delete",
			prev: []string{"a", "b", "c"},
			c: listdiff.Changeset[string]{
				Data:           []string{"a", "c"},
				ElementDeleted: []listdiff.ElementPath{path(1)},
			},
		},
		{
			name: "insert",
			prev: []string{"a", "c"},
			c: listdiff.Changeset[string]{
				Data:            []string{"a", "b", "c"},
				ElementInserted: []listdiff.ElementPath{path(1)},
			},
		},
		{
			name: "move",
			prev: []string{"a", "b", "c"},
			c: listdiff.Changeset[string]{
				Data:         []string{"c", "a", "b"},
				ElementMoved: []listdiff.Move[listdiff.ElementPath]{{Source: path(2), Target: path(0)}},
			},
		},
		{
			name: "update",
			prev: []string{"a1", "b1"},
			c: listdiff.Changeset[string]{
				Data:           []string{"a2", "b1"},
				ElementUpdated: []listdiff.ElementPath{path(0)},
			},
		},
		{
			name: "section-is-ignored",
			prev: []string{"a", "b"},
			c: listdiff.Changeset[string]{
				Data:           []string{"b"},
				ElementDeleted: []listdiff.ElementPath{spath(4, 0)},
			},
		},
		{
			name: "missing-update",
			prev: []string{"a1"},
			c: listdiff.Changeset[string]{
				Data: []string{"a2"},
			},
			wantErr: "content of element 0:0 changed without an update",
		},
		{
			name: "wrong-order",
			prev: []string{"a", "b"},
			c: listdiff.Changeset[string]{
				Data: []string{"b", "a"},
			},
			wantErr: "expected element 0:0, got a different identifier",
		},
		{
			name: "missing-delete",
			prev: []string{"a", "b"},
			c: listdiff.Changeset[string]{
				Data: []string{"a"},
			},
			wantErr: "position 1 before the batch has no destination",
		},
		{
			name: "missing-insert",
			prev: []string{"a"},
			c: listdiff.Changeset[string]{
				Data: []string{"a", "b"},
			},
			wantErr: "position 1 after the batch has no origin",
		},
		{
			name: "delete-twice",
			prev: []string{"a", "b"},
			c: listdiff.Changeset[string]{
				Data:           []string{"b"},
				ElementDeleted: []listdiff.ElementPath{path(0), path(0)},
			},
			wantErr: "removed twice",
		},
		{
			name: "out-of-range",
			prev: []string{"a"},
			c: listdiff.Changeset[string]{
				Data:           []string{},
				ElementDeleted: []listdiff.ElementPath{path(1)},
			},
			wantErr: "index 1 out of range [0, 1)",
		},
		{
			name: "section-changes",
			prev: []string{"a"},
			c: listdiff.Changeset[string]{
				Data:           []string{"a"},
				SectionUpdated: []int{0},
			},
			wantErr: "section changes in a flat changeset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkErr(t, Elements(tt.prev, tt.c, id, eq), tt.wantErr)
		})
	}
}

func TestSections(t *testing.T) {
	tests := []struct {
		name    string
		prev    []section
		c       listdiff.Changeset[section]
		wantErr string
	}{
		{
			name: "delete-section-with-elements",
			prev: []section{sec("A", "a"), sec("B", "b", "c")},
			c: listdiff.Changeset[section]{
				Data:           []section{sec("B", "b", "c")},
				SectionDeleted: []int{0},
			},
		},
		{
			name: "move-section",
			prev: []section{sec("A", "a"), sec("B", "b")},
			c: listdiff.Changeset[section]{
				Data:         []section{sec("B", "b"), sec("A", "a")},
				SectionMoved: []listdiff.Move[int]{{Source: 1, Target: 0}},
			},
		},
		{
			name: "update-section",
			prev: []section{{id: "A", header: "x"}},
			c: listdiff.Changeset[section]{
				Data:           []section{{id: "A", header: "y"}},
				SectionUpdated: []int{0},
			},
		},
		{
			name: "move-element-across-sections",
			prev: []section{sec("A", "a", "b"), sec("B", "c")},
			c: listdiff.Changeset[section]{
				Data: []section{sec("A", "a"), sec("B", "b", "c")},
				ElementMoved: []listdiff.Move[listdiff.ElementPath]{
					{Source: spath(0, 1), Target: spath(1, 0)},
				},
			},
		},
		{
			name: "delete-and-insert-elements",
			prev: []section{sec("A", "a", "b"), sec("B", "c")},
			c: listdiff.Changeset[section]{
				Data:            []section{sec("A", "b"), sec("B", "c", "d")},
				ElementDeleted:  []listdiff.ElementPath{spath(0, 0)},
				ElementInserted: []listdiff.ElementPath{spath(1, 1)},
			},
		},
		{
			name: "missing-section-update",
			prev: []section{{id: "A", header: "x"}},
			c: listdiff.Changeset[section]{
				Data: []section{{id: "A", header: "y"}},
			},
			wantErr: "content of section 0 changed without an update",
		},
		{
			name: "elements-changed-without-changes",
			prev: []section{sec("A", "a")},
			c: listdiff.Changeset[section]{
				Data: []section{sec("A", "b")},
			},
			wantErr: "expected element 0:0, got a different identifier",
		},
		{
			name: "element-delete-in-deleted-section",
			prev: []section{sec("A", "a"), sec("B", "b")},
			c: listdiff.Changeset[section]{
				Data:           []section{sec("B", "b")},
				SectionDeleted: []int{0},
				ElementDeleted: []listdiff.ElementPath{spath(0, 0)},
			},
			wantErr: "0:0 is in a deleted section",
		},
		{
			name: "element-insert-in-inserted-section",
			prev: []section{sec("A", "a")},
			c: listdiff.Changeset[section]{
				Data:            []section{sec("A", "a"), sec("B", "b")},
				SectionInserted: []int{1},
				ElementInserted: []listdiff.ElementPath{spath(1, 0)},
			},
			wantErr: "1:0 is in an inserted section",
		},
		{
			name: "section-insert-twice",
			prev: nil,
			c: listdiff.Changeset[section]{
				Data:            []section{sec("A")},
				SectionInserted: []int{0, 0},
			},
			wantErr: "position 0 used twice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkErr(t, Sections(tt.prev, tt.c, schema), tt.wantErr)
		})
	}
}

func TestStaged(t *testing.T) {
	source := []string{"a", "b1", "c"}
	valid := listdiff.StagedChangeset[string]{
		{
			Data:           []string{"a", "b2", "c"},
			ElementUpdated: []listdiff.ElementPath{path(1)},
		},
		{
			Data:           []string{"b2", "c"},
			ElementDeleted: []listdiff.ElementPath{path(0)},
		},
		{
			Data:            []string{"c", "d", "b2"},
			ElementInserted: []listdiff.ElementPath{path(1)},
			ElementMoved:    []listdiff.Move[listdiff.ElementPath]{{Source: path(0), Target: path(2)}},
		},
	}

	tests := []struct {
		name    string
		staged  listdiff.StagedChangeset[string]
		wantErr string
	}{
		{
			name:   "valid",
			staged: valid,
		},
		{
			name:   "none",
			staged: nil,
		},
		{
			name:    "empty-stage",
			staged:  listdiff.StagedChangeset[string]{{Data: source}},
			wantErr: "stage 0: no changes",
		},
		{
			name:    "out-of-order",
			staged:  listdiff.StagedChangeset[string]{valid[0], valid[0]},
			wantErr: "stage 1: Updates after Updates",
		},
		{
			name:    "broken-stage",
			staged:  listdiff.StagedChangeset[string]{valid[0], valid[2]},
			wantErr: "stage 1 (ElementInserts)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkErr(t, Staged(slices.Clone(source), tt.staged, id, eq), tt.wantErr)
		})
	}
}

func TestStagedSections(t *testing.T) {
	source := []section{sec("A", "a", "b"), sec("B", "c")}
	staged := listdiff.StagedChangeset[section]{
		{
			Data:           []section{sec("B", "c")},
			SectionDeleted: []int{0},
		},
		{
			Data:            []section{sec("C"), sec("B", "c")},
			SectionInserted: []int{0},
		},
		{
			Data:            []section{sec("C", "a"), sec("B", "c")},
			ElementInserted: []listdiff.ElementPath{spath(0, 0)},
		},
	}
	if err := StagedSections(source, staged, schema); err != nil {
		t.Errorf("StagedSections(...) = %v, want nil", err)
	}
}
