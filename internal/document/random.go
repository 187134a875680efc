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
	"fmt"
	"math/rand/v2"
	"slices"
)

// Shape controls the documents created by [Random].
type Shape struct {
	Sections int // Number of sections, 0 for a flat document.
	Items    int // Number of items per section or in a flat document.
	IDs      int // Number of distinct identifiers, small values create duplicates.
}

// Random returns a random document of the given shape.
func Random(r *rand.Rand, shape Shape) Document {
	g := gen{r: r, ids: max(1, shape.IDs)}
	if shape.Sections == 0 {
		return Document{Items: g.items(shape.Items)}
	}
	doc := Document{Sections: make([]Section, shape.Sections)}
	for i := range doc.Sections {
		doc.Sections[i] = g.section(shape.Items)
	}
	return doc
}

// Mutate returns a copy of doc with random changes. Rate is the probability for every section and
// item to be changed.
func Mutate(r *rand.Rand, doc Document, rate float64) Document {
	g := gen{r: r, ids: max(1, len(doc.Items), len(doc.Sections))}
	if !doc.Sectioned() {
		items, _ := g.mutateItems(doc.Items, rate)
		return Document{Items: items}
	}

	var out Document
	var pool []Item // items removed from their section, some move to another one
	for _, s := range doc.Sections {
		if g.chance(rate) {
			continue // delete
		}
		if g.chance(rate) {
			s.Header = g.content()
		}
		var removed []Item
		s.Items, removed = g.mutateItems(s.Items, rate)
		pool = append(pool, removed...)
		out.Sections = append(out.Sections, s)
	}
	for range len(doc.Sections) {
		if g.chance(rate) {
			i := g.r.IntN(len(out.Sections) + 1)
			out.Sections = slices.Insert(out.Sections, i, g.section(len(doc.Sections[0].Items)))
		}
	}
	g.shuffle(len(out.Sections), rate, func(i, j int) {
		out.Sections[i], out.Sections[j] = out.Sections[j], out.Sections[i]
	})
	if len(out.Sections) == 0 {
		return out
	}
	for _, item := range pool {
		if g.chance(0.5) {
			s := &out.Sections[g.r.IntN(len(out.Sections))]
			s.Items = slices.Insert(s.Items, g.r.IntN(len(s.Items)+1), item)
		}
	}
	return out
}

type gen struct {
	r   *rand.Rand
	ids int
}

func (g *gen) chance(p float64) bool { return g.r.Float64() < p }

func (g *gen) content() string { return fmt.Sprintf("c%d", g.r.IntN(4)) }

func (g *gen) item() Item {
	return Item{ID: fmt.Sprintf("i%d", g.r.IntN(g.ids)), Content: g.content()}
}

func (g *gen) items(n int) []Item {
	items := make([]Item, n)
	for i := range items {
		items[i] = g.item()
	}
	return items
}

func (g *gen) section(n int) Section {
	return Section{
		ID:     fmt.Sprintf("s%d", g.r.IntN(g.ids)),
		Header: g.content(),
		Items:  g.items(g.r.IntN(n + 1)),
	}
}

// mutateItems deletes, updates, inserts and swaps items. It returns the mutated items and the
// deleted ones.
func (g *gen) mutateItems(items []Item, rate float64) (out, removed []Item) {
	out = make([]Item, 0, len(items))
	for _, item := range items {
		if g.chance(rate) {
			removed = append(removed, item)
			continue
		}
		if g.chance(rate) {
			item.Content = g.content()
		}
		out = append(out, item)
	}
	for range len(items) {
		if g.chance(rate) {
			out = slices.Insert(out, g.r.IntN(len(out)+1), g.item())
		}
	}
	g.shuffle(len(out), rate, func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out, removed
}

// shuffle swaps random pairs, about rate*n times.
func (g *gen) shuffle(n int, rate float64, swap func(i, j int)) {
	if n < 2 {
		return
	}
	for range n {
		if g.chance(rate) {
			swap(g.r.IntN(n), g.r.IntN(n))
		}
	}
}
