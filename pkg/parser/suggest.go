// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package parser

import (
	"github.com/agnivade/levenshtein"

	"github.com/NVIDIA/cmdexplain/pkg/spec"
)

// maxSuggestionDistance is the largest edit distance still offered as a
// "did you mean" suggestion.
const maxSuggestionDistance = 2

// suggestOption returns the declared option name closest to flag, or "" when
// nothing is within maxSuggestionDistance. Ties go to the first declared name.
func suggestOption(cs *spec.CommandSpec, flag string) string {
	best, bestDist := "", maxSuggestionDistance+1
	for _, name := range cs.OptionNames() {
		// single-letter flags are too short for edit distance to mean anything
		if len(name) <= 2 || len(flag) <= 2 {
			continue
		}
		if d := levenshtein.ComputeDistance(flag, name); d < bestDist {
			best, bestDist = name, d
		}
	}
	return best
}
