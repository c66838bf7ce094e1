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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodes_RenderingOrder(t *testing.T) {
	p := mustParse(t, gitSpec(), "git", "-C", "/repo", "push", "--force", "origin", "main")

	nodes := Nodes(p)

	type view struct {
		role  Role
		token string
		depth int
	}
	var got []view
	for _, n := range nodes {
		got = append(got, view{n.Role, n.Token, n.Depth})
	}

	want := []view{
		{RoleCommand, "git", 0},
		{RoleOption, "-C", 0},
		{RoleOptionArg, "/repo", 0},
		{RoleArgument, "", 0}, // empty root repo slot
		{RoleSubcommand, "push", 1},
		{RoleOption, "--force", 1},
		{RoleArgument, "origin", 1},
		{RoleArgument, "main", 1},
	}
	assert.Equal(t, want, got)

	assert.Equal(t, "the stupid content tracker", nodes[0].Description)
	assert.Equal(t, "run as if started in path", nodes[1].Description)
	assert.Equal(t, "path", nodes[2].Name)
	assert.True(t, nodes[3].Empty)
	assert.Equal(t, "Update remote refs", nodes[4].Description)
	assert.Equal(t, "force updates", nodes[5].Help())
	assert.Equal(t, "repository", nodes[6].Name)
	assert.Equal(t, "refspec", nodes[7].Name)
	assert.Equal(t, NoExplanation, nodes[6].Help())
}

func TestNodes_Errors(t *testing.T) {
	p := mustParse(t, gitSpec(), "git", "origin", "extra")
	nodes := Nodes(p)
	require.Len(t, nodes, 3)

	assert.Equal(t, RoleArgument, nodes[1].Role)
	assert.Empty(t, nodes[1].Error)
	assert.Equal(t, RoleOverflow, nodes[2].Role)
	assert.Equal(t, "extra", nodes[2].Token)
	assert.Contains(t, nodes[2].Error, "too many arguments")

	p = mustParse(t, gitSpec(), "git", "--bogus")
	nodes = Nodes(p)
	require.GreaterOrEqual(t, len(nodes), 2)
	assert.Equal(t, RoleOption, nodes[1].Role)
	assert.Equal(t, "invalid option --bogus", nodes[1].Error)
	assert.Equal(t, NoExplanation, nodes[1].Help())
}

func TestWalk_StopsOnError(t *testing.T) {
	p := mustParse(t, gitSpec(), "git", "push", "origin")
	stop := errors.New("stop")

	calls := 0
	err := Walk(p, func(n Node) error {
		calls++
		if n.Role == RoleSubcommand {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 3, calls)
}

func TestWalk_NilTree(t *testing.T) {
	assert.Empty(t, Nodes(nil))
}
