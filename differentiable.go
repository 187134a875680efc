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

// Differentiable is implemented by elements that can be compared by [Diff] and [DiffSections].
//
// The identifier must be stable: the same logical element must return the same identifier in the
// source and in the target collection. If it isn't, the result is still a valid staged changeset,
// but it doesn't describe the intended changes.
type Differentiable[K comparable, T any] interface {
	// DifferenceIdentifier returns the identity of the element. It's used to match elements across
	// the source and target collection.
	DifferenceIdentifier() K

	// IsContentEqual reports if the content of the element is equal to other. It's only called for
	// elements with the same identifier and decides if a matched element is updated.
	IsContentEqual(other T) bool
}

// DifferentiableSection is implemented by sections that can be compared by [DiffSections].
type DifferentiableSection[K comparable, S, E any] interface {
	Differentiable[K, S]

	// Elements returns the ordered elements of the section.
	Elements() []E

	// WithElements returns a copy of the section that holds elements instead of its current
	// elements. Everything else about the section (e.g. a header) must be preserved. It's used to
	// construct the intermediate states of a staged changeset.
	WithElements(elements []E) S
}

// SectionSchema describes how to identify, compare, take apart, and rebuild sections and their
// elements for [DiffSectionsFunc].
type SectionSchema[S, E any, K, L comparable] struct {
	SectionID    func(S) K
	SectionEqual func(a, b S) bool
	Elements     func(S) []E
	WithElements func(s S, elements []E) S
	ElementID    func(E) L
	ElementEqual func(a, b E) bool
}

// SchemaOf returns the schema for a section type that implements [DifferentiableSection] with
// elements that implement [Differentiable].
func SchemaOf[S DifferentiableSection[K, S, E], E Differentiable[L, E], K, L comparable]() SectionSchema[S, E, K, L] {
	return SectionSchema[S, E, K, L]{
		SectionID:    func(s S) K { return s.DifferenceIdentifier() },
		SectionEqual: func(a, b S) bool { return a.IsContentEqual(b) },
		Elements:     func(s S) []E { return s.Elements() },
		WithElements: func(s S, elements []E) S { return s.WithElements(elements) },
		ElementID:    func(e E) L { return e.DifferenceIdentifier() },
		ElementEqual: func(a, b E) bool { return a.IsContentEqual(b) },
	}
}
