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

package ir

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUsesOfIndexesOperands(t *testing.T) {
	fn := NewFunc("index")
	bb := fn.NewBlock("entry")

	b := NewBuilder(fn)
	b.PositionAtEnd(bb)
	x := b.Add(IntConst(1), IntConst(2))
	y := b.Add(x, x)
	b.Ret(y)

	u := UsesOf(fn)

	/* x appears twice in y but counts as one user */
	require.Equal(t, 1, u.Count(x))
	require.Equal(t, []*Ir{y}, u.Of(x))
	require.Equal(t, 1, u.Count(y))
	require.Zero(t, u.Count(Param{T: Int, Name: "ghost"}))
}

func TestUsesReplaceUses(t *testing.T) {
	fn := NewFunc("replace")
	bb := fn.NewBlock("entry")

	b := NewBuilder(fn)
	b.PositionAtEnd(bb)
	x := b.Add(IntConst(1), IntConst(2))
	y := b.Add(x, x)
	z := b.Add(x, IntConst(3))
	b.Ret(y, z)

	u := UsesOf(fn)
	u.ReplaceUses(x, IntConst(9))

	require.Zero(t, u.Count(x))
	require.Equal(t, []Value{IntConst(9), IntConst(9)}, y.Args)
	require.Equal(t, []Value{IntConst(9), IntConst(3)}, z.Args)
	require.ElementsMatch(t, []*Ir{y, z}, u.Of(IntConst(9)))
}

func TestUsesDeleteRefusesLiveValue(t *testing.T) {
	fn := NewFunc("live")
	bb := fn.NewBlock("entry")

	b := NewBuilder(fn)
	b.PositionAtEnd(bb)
	x := b.Add(IntConst(1), IntConst(2))
	b.Ret(x)

	u := UsesOf(fn)
	require.Error(t, u.Delete(x))
	require.Same(t, bb, x.Block())

	/* unused after the rewrite, so deletion goes through */
	u.ReplaceUses(x, IntConst(3))
	require.NoError(t, u.Delete(x))
	require.Nil(t, x.Block())
	require.Zero(t, u.Count(IntConst(1)))
}

func TestUsesSetArgs(t *testing.T) {
	fn := NewFunc("setargs")
	bb := fn.NewBlock("entry")

	b := NewBuilder(fn)
	b.PositionAtEnd(bb)
	x := b.Add(IntConst(1), IntConst(2))
	y := b.Add(x, IntConst(3))
	b.Ret(y)

	u := UsesOf(fn)
	u.SetArgs(y, []Value{IntConst(4), IntConst(5)})

	require.Zero(t, u.Count(x))
	require.Equal(t, []*Ir{y}, u.Of(IntConst(4)))
}

func TestUsesSetPhiEdges(t *testing.T) {
	fn := NewFunc("phiedges", Param{T: Bool, Name: "cond"})
	entry := fn.NewBlock("entry")
	left := fn.NewBlock("left")
	right := fn.NewBlock("right")
	join := fn.NewBlock("join")

	b := NewBuilder(fn)
	b.PositionAtEnd(entry)
	b.CBranch(fn.In[0], left, right)
	b.PositionAtEnd(left)
	x := b.Add(IntConst(1), IntConst(2))
	b.Jump(join)
	b.PositionAtEnd(right)
	b.Jump(join)

	b.PositionAtEnd(join)
	phi := b.Phi(Int, nil, nil)
	b.Ret(phi)

	u := UsesOf(fn)
	require.NoError(t, u.SetPhiEdges(phi, []*Block{left, right}, []Value{x, IntConst(0)}))
	require.Equal(t, []*Block{left, right}, phi.To)
	require.Equal(t, []Value{x, IntConst(0)}, phi.Args)
	require.Contains(t, u.Of(x), phi)

	require.Error(t, u.SetPhiEdges(phi, []*Block{left}, nil))
	require.Error(t, u.SetPhiEdges(x, nil, nil))
}

func TestUsesTrack(t *testing.T) {
	fn := NewFunc("track")
	bb := fn.NewBlock("entry")

	b := NewBuilder(fn)
	b.PositionAtEnd(bb)
	x := b.Add(IntConst(1), IntConst(2))
	b.Ret(x)

	u := UsesOf(fn)
	b.PositionAfter(x)
	y := b.Add(x, IntConst(3))
	u.Track(y)

	require.Equal(t, 2, u.Count(x))
	require.ElementsMatch(t, []*Ir{y, bb.Terminator()}, u.Of(x))
}
