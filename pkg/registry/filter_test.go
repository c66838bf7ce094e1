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

import (
	"testing"
)

func TestMatchesPattern(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		want    bool
	}{
		{"git", "git", true},
		{"git", "gi", false},
		{"git", "g*", true},
		{"npm", "g*", false},
		{"kubectl", "*ctl", true},
		{"kubectl", "*kube", false},
		{"docker-compose", "*comp*", true},
		{"docker", "*comp*", false},
		{"anything", "*", true},
		{"gist", "g*t", true},
		{"gt", "g*t", true},
		{"g", "g*t", false},
		{"go", "g*t", false},
	}
	for _, tt := range tests {
		t.Run(tt.name+"/"+tt.pattern, func(t *testing.T) {
			if got := MatchesPattern(tt.name, tt.pattern); got != tt.want {
				t.Errorf("MatchesPattern(%q, %q) = %v, want %v", tt.name, tt.pattern, got, tt.want)
			}
		})
	}
}

func TestMatchesAny(t *testing.T) {
	if !MatchesAny("git", nil) {
		t.Error("no patterns should match everything")
	}
	patterns := ParseFilter(" g* , *pm ,, ")
	if len(patterns) != 2 {
		t.Fatalf("ParseFilter returned %v", patterns)
	}
	for name, want := range map[string]bool{"git": true, "npm": true, "mv": false} {
		if got := MatchesAny(name, patterns); got != want {
			t.Errorf("MatchesAny(%q) = %v, want %v", name, got, want)
		}
	}
}
