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
	"github.com/cloudwego/irgo/ir"

	"github.com/oleiade/lane"
)

// BlockSet is a set of basic blocks.
type BlockSet map[*ir.Block]struct{}

func (self BlockSet) Has(bb *ir.Block) bool {
	_, ok := self[bb]
	return ok
}

func (self BlockSet) Add(bb *ir.Block) {
	self[bb] = struct{}{}
}

func (self BlockSet) Clone() BlockSet {
	ret := make(BlockSet, len(self))
	for bb := range self {
		ret[bb] = struct{}{}
	}
	return ret
}

func (self BlockSet) Equal(t BlockSet) bool {
	if len(self) != len(t) {
		return false
	}
	for bb := range self {
		if !t.Has(bb) {
			return false
		}
	}
	return true
}

// Intersect returns the intersection of the two sets.
func (self BlockSet) Intersect(t BlockSet) BlockSet {
	a, b := self, t
	if len(b) < len(a) {
		a, b = b, a
	}

	ret := make(BlockSet)
	for bb := range a {
		if b.Has(bb) {
			ret[bb] = struct{}{}
		}
	}
	return ret
}

// Dominators computes, for every CFG node, the set of blocks through which
// every path from the entry must pass (the node itself included), by
// iterating
//
//	dom(entry) = {entry}
//	dom(b)     = {b} ∪ (∩ dom(p) for p ∈ preds(b))
//
// to a fixed point. A node with no predecessors keeps dom(b) = {b}. The
// result is a snapshot: any CFG-altering mutation invalidates it.
func Dominators(fn *ir.Func, cfg *CFG) map[*ir.Block]BlockSet {
	entry := fn.Entry()
	nodes := cfg.Nodes()

	/* full node set is the safe over-approximation */
	all := make(BlockSet, len(nodes))
	for _, bb := range nodes {
		all.Add(bb)
	}

	dom := make(map[*ir.Block]BlockSet, len(nodes))
	for _, bb := range nodes {
		dom[bb] = all.Clone()
	}
	dom[entry] = BlockSet{entry: {}}

	/* worklist over the non-entry nodes, in CFG node order */
	q := lane.NewQueue()
	inq := make(map[*ir.Block]bool, len(nodes))

	for _, bb := range nodes {
		if bb != entry {
			q.Enqueue(bb)
			inq[bb] = true
		}
	}

	for !q.Empty() {
		bb := q.Dequeue().(*ir.Block)
		inq[bb] = false

		/* dom(b) = {b} ∪ ∩ dom(p); zero predecessors yield {b} */
		var next BlockSet
		for i, p := range cfg.Pred(bb) {
			if i == 0 {
				next = dom[p].Clone()
			} else {
				next = next.Intersect(dom[p])
			}
		}
		if next == nil {
			next = make(BlockSet, 1)
		}
		next.Add(bb)

		if next.Equal(dom[bb]) {
			continue
		}
		dom[bb] = next

		/* sets only ever shrink, so re-examining successors suffices */
		for _, s := range cfg.Succ(bb) {
			if s != entry && !inq[s] {
				q.Enqueue(s)
				inq[s] = true
			}
		}
	}

	return dom
}
