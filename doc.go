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

// Package listdiff computes the changes between two states of an ordered collection of
// identifiable elements, optionally grouped into sections, and stages them so that they can be
// applied one batch at a time, e.g. to animate a list view.
//
// Elements are matched by identity ([Differentiable.DifferenceIdentifier]), not by value. Matched
// elements whose content differs ([Differentiable.IsContentEqual]) are updates, matched elements
// that changed their relative order are moves, everything else is a deletion or an insertion.
// Identifiers don't need to be unique, duplicates are matched in order of appearance.
//
// The main functions are [Diff] for flat collections and [DiffSections] for sectioned
// collections. Both return a [StagedChangeset], a sequence of [Changeset] values. Every changeset
// holds one kind of change and the state of the collection after applying it. Applying the
// changesets in order, each to the data of the previous one, never produces an inconsistent
// intermediate state and ends at the target collection. [Reload] drives a [BatchUpdater] through
// a staged changeset.
//
// Performance: Time and space complexity are O(N) where N is the total number of sections and
// elements in both collections.
package listdiff
