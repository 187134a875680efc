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

// Stage describes the kind of changes in a changeset. A staged changeset contains at most one
// changeset per stage, in the order of the constants below.
//
//go:generate go tool golang.org/x/tools/cmd/stringer -type=Stage -trimprefix=Stage
type Stage int

const (
	StageNone           Stage = iota // No changes
	StageUpdates                     // Element updates
	StageDeletes                     // Section and element deletions
	StageSectionInserts              // Section insertions and moves
	StageElementInserts              // Element insertions and moves
	StageSectionUpdates              // Section updates
)
