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

package document

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var sectioned = Document{
	Sections: []Section{
		{
			ID:     "fruit",
			Header: "Fruit",
			Items: []Item{
				{ID: "apple", Content: "red"},
				{ID: "banana", Content: "yellow"},
			},
		},
		{
			ID:     "veg",
			Header: "Vegetables",
		},
	},
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		format  Format
		want    Document
		wantErr string
	}{
		{
			name:   "yaml-sections",
			format: YAML,
			data: `
sections:
  - id: fruit
    header: Fruit
    items:
      - id: apple
        content: red
      - id: banana
        content: yellow
  - id: veg
    header: Vegetables
`,
			want: sectioned,
		},
		{
			name:   "json-items",
			format: YAML,
			data:   `{"items": [{"id": "a", "content": "x"}, {"id": "b"}]}`,
			want:   Document{Items: []Item{{ID: "a", Content: "x"}, {ID: "b"}}},
		},
		{
			name:   "toml-sections",
			format: TOML,
			data: `
[[sections]]
id = "fruit"
header = "Fruit"

[[sections.items]]
id = "apple"
content = "red"

[[sections.items]]
id = "banana"
content = "yellow"

[[sections]]
id = "veg"
header = "Vegetables"
`,
			want: sectioned,
		},
		{
			name:    "yaml-unknown-field",
			format:  YAML,
			data:    "items:\n  - id: a\n    color: red\n",
			wantErr: "failed to parse yaml",
		},
		{
			name:    "toml-unknown-field",
			format:  TOML,
			data:    "[[items]]\nid = \"a\"\ncolor = \"red\"\n",
			wantErr: "failed to parse toml",
		},
		{
			name:    "mixed",
			format:  YAML,
			data:    "items:\n  - id: a\nsections:\n  - id: s\n",
			wantErr: "document has both sections and items",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.data), tt.format)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Parse(...) error = %v, want error containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(...) failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse(...) result are different [-want,+got]:\n%s", diff)
			}
		})
	}
}

func TestFormatOf(t *testing.T) {
	for name, want := range map[string]Format{"a.yaml": YAML, "a.YML": YAML, "dir/a.json": YAML, "a.toml": TOML} {
		got, err := FormatOf(name)
		if err != nil {
			t.Errorf("FormatOf(%q) failed: %v", name, err)
		}
		if got != want {
			t.Errorf("FormatOf(%q) = %v, want %v", name, got, want)
		}
	}
	if _, err := FormatOf("a.txt"); err == nil {
		t.Errorf("FormatOf(%q) succeeded, want error", "a.txt")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	for _, f := range []Format{YAML, TOML} {
		t.Run(f.String(), func(t *testing.T) {
			data, err := Marshal(sectioned, f)
			if err != nil {
				t.Fatalf("Marshal(...) failed: %v", err)
			}
			name := filepath.Join(dir, "doc."+f.String())
			if err := os.WriteFile(name, data, 0o644); err != nil {
				t.Fatal(err)
			}
			got, err := Load(name)
			if err != nil {
				t.Fatalf("Load(%q) failed: %v", name, err)
			}
			if diff := cmp.Diff(sectioned, got); diff != "" {
				t.Errorf("Load(%q) result are different [-want,+got]:\n%s", name, diff)
			}
		})
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Errorf("Load of a missing file succeeded, want error")
	}
}

func TestSectionContract(t *testing.T) {
	a := Section{ID: "s", Header: "x", Items: []Item{{ID: "a"}}}
	b := Section{ID: "s", Header: "x"}
	if !a.IsContentEqual(b) {
		t.Errorf("sections with equal headers and different items are not equal")
	}
	if a.IsContentEqual(Section{ID: "s", Header: "y"}) {
		t.Errorf("sections with different headers are equal")
	}

	items := []Item{{ID: "b", Content: "z"}}
	got := a.WithElements(items)
	want := Section{ID: "s", Header: "x", Items: items}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("WithElements(...) result are different [-want,+got]:\n%s", diff)
	}
	if len(a.Items) != 1 || a.Items[0].ID != "a" {
		t.Errorf("WithElements modified the receiver: %v", a)
	}

	if got, want := got.String(), `s "x" [b="z"]`; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if diff := cmp.Diff([]string{"[s] x", `  b="z"`}, got.Lines()); diff != "" {
		t.Errorf("Lines() result are different [-want,+got]:\n%s", diff)
	}
}

func TestRandom(t *testing.T) {
	shape := Shape{Sections: 4, Items: 6, IDs: 5}
	a := Random(rand.New(rand.NewChaCha8([32]byte{1})), shape)
	b := Random(rand.New(rand.NewChaCha8([32]byte{1})), shape)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("Random(...) with the same seed differs [-first,+second]:\n%s", diff)
	}
	if len(a.Sections) != 4 {
		t.Errorf("Random(...) returned %d sections, want 4", len(a.Sections))
	}
	for _, s := range a.Sections {
		if len(s.Items) > 6 {
			t.Errorf("Random(...) returned section with %d items, want at most 6", len(s.Items))
		}
	}

	flat := Random(rand.New(rand.NewChaCha8([32]byte{2})), Shape{Items: 10, IDs: 3})
	if flat.Sectioned() || len(flat.Items) != 10 {
		t.Errorf("Random(...) returned %v, want 10 flat items", flat)
	}
}

func TestMutate(t *testing.T) {
	r := rand.New(rand.NewChaCha8([32]byte{3}))
	doc := Random(r, Shape{Sections: 5, Items: 8, IDs: 20})
	orig := Random(rand.New(rand.NewChaCha8([32]byte{3})), Shape{Sections: 5, Items: 8, IDs: 20})

	if diff := cmp.Diff(doc, Mutate(r, doc, 0), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Mutate(..., 0) changed the document [-orig,+got]:\n%s", diff)
	}

	mutated := Mutate(r, doc, 0.5)
	if cmp.Equal(doc, mutated, cmpopts.EquateEmpty()) {
		t.Errorf("Mutate(..., 0.5) didn't change the document")
	}
	if diff := cmp.Diff(orig, doc); diff != "" {
		t.Errorf("Mutate(...) modified its input [-orig,+got]:\n%s", diff)
	}
	if err := mutated.Validate(); err != nil {
		t.Errorf("Mutate(...) returned an invalid document: %v", err)
	}
}
