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

package registry

import "strings"

// ParseFilter splits a comma separated filter into patterns, dropping blanks.
func ParseFilter(filter string) []string {
	var patterns []string
	for _, p := range strings.Split(filter, ",") {
		if p = strings.TrimSpace(p); p != "" {
			patterns = append(patterns, p)
		}
	}
	return patterns
}

// MatchesAny reports whether name matches one of patterns. No patterns
// matches everything.
func MatchesAny(name string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, p := range patterns {
		if MatchesPattern(name, p) {
			return true
		}
	}
	return false
}

// MatchesPattern checks name against a wildcard pattern:
//   - "prefix*" matches names starting with "prefix"
//   - "*suffix" matches names ending with "suffix"
//   - "*contains*" matches names containing "contains"
//   - "*" matches everything
//   - anything else matches exactly
func MatchesPattern(name, pattern string) bool {
	if !strings.Contains(pattern, "*") {
		return name == pattern
	}

	leading := strings.HasPrefix(pattern, "*")
	trailing := strings.HasSuffix(pattern, "*")
	core := strings.Trim(pattern, "*")

	switch {
	case leading && trailing:
		return strings.Contains(name, core)
	case leading:
		return strings.HasSuffix(name, core)
	case trailing:
		return strings.HasPrefix(name, core)
	default:
		// inner wildcard only, e.g. "g*t"
		prefix, suffix, _ := strings.Cut(pattern, "*")
		return len(name) >= len(prefix)+len(suffix) &&
			strings.HasPrefix(name, prefix) && strings.HasSuffix(name, suffix)
	}
}
