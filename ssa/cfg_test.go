/*
 * Copyright 2025 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package ssa

import (
	"testing"

	"github.com/cloudwego/irgo/ir"

	"github.com/stretchr/testify/require"
)

func TestBuildCFGJump(t *testing.T) {
	fn := ir.NewFunc("jump")
	bb := fn.NewBlock("entry")
	next := fn.NewBlock("next")

	b := ir.NewBuilder(fn)
	b.PositionAtEnd(bb)
	b.Jump(next)
	b.PositionAtEnd(next)
	b.Ret()

	cfg, err := BuildCFG(fn)
	require.NoError(t, err)
	require.Equal(t, []*ir.Block{next}, cfg.Succ(bb))
	require.Empty(t, cfg.Succ(next))
	require.Equal(t, []*ir.Block{bb}, cfg.Pred(next))
}

func TestBuildCFGCBranch(t *testing.T) {
	fn := ir.NewFunc("cbranch", ir.Param{T: ir.Bool, Name: "cond"})
	bb := fn.NewBlock("entry")
	then := fn.NewBlock("then")
	els := fn.NewBlock("else")

	b := ir.NewBuilder(fn)
	b.PositionAtEnd(bb)
	b.CBranch(fn.In[0], then, els)
	b.PositionAtEnd(then)
	b.Ret()
	b.PositionAtEnd(els)
	b.Ret()

	cfg, err := BuildCFG(fn)
	require.NoError(t, err)
	require.Equal(t, []*ir.Block{then, els}, cfg.Succ(bb))
	require.Equal(t, []*ir.Block{bb}, cfg.Pred(then))
	require.Equal(t, []*ir.Block{bb}, cfg.Pred(els))
}

func TestBuildCFGThrow(t *testing.T) {
	fn := ir.NewFunc("throw")
	bb := fn.NewBlock("entry")

	b := ir.NewBuilder(fn)
	b.PositionAtEnd(bb)
	b.Throw(ir.IntConst(1), nil)

	cfg, err := BuildCFG(fn)
	require.NoError(t, err)

	/* no handler: the edge leads to the exit sentinel */
	require.Equal(t, []*ir.Block{cfg.Exit}, cfg.Succ(bb))
	require.Equal(t, ExitName, cfg.Exit.Name)
	require.Empty(t, cfg.Succ(cfg.Exit))
}

func TestBuildCFGThrowWithHandler(t *testing.T) {
	fn := ir.NewFunc("throw")
	bb := fn.NewBlock("entry")
	handler := fn.NewBlock("handler")

	b := ir.NewBuilder(fn)
	b.PositionAtEnd(bb)
	b.Throw(ir.IntConst(1), handler)
	b.PositionAtEnd(handler)
	b.Ret()

	cfg, err := BuildCFG(fn)
	require.NoError(t, err)
	require.Equal(t, []*ir.Block{handler}, cfg.Succ(bb))
}

func TestBuildCFGMalformed(t *testing.T) {
	fn := ir.NewFunc("bad")
	bb := fn.NewBlock("entry")

	b := ir.NewBuilder(fn)
	b.PositionAtEnd(bb)
	b.Add(ir.IntConst(1), ir.IntConst(2))

	_, err := BuildCFG(fn)
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid terminator")
}

func TestBuildCFGEmptyBlock(t *testing.T) {
	fn := ir.NewFunc("empty")
	fn.NewBlock("entry")

	_, err := BuildCFG(fn)
	require.Error(t, err)
}
