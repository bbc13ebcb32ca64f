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
	"fmt"

	"github.com/cloudwego/irgo/ir"

	"github.com/oleiade/lane"
)

// BlockMerge fuses a block into its unique predecessor (the T2
// transformation) when the fusion cannot change semantics: the block has
// exactly one CFG predecessor and no leader instructions, the predecessor
// ends in an unconditional jump to it and has no other successor, and the
// predecessor is not an exception setup block.
//
// The scan walks a snapshot of the blocks in reverse function order against
// the CFG as it stood on entry, so chains collapse bottom-up in one sweep.
// The CFG is stale once the pass returns.
type BlockMerge struct{}

func (self BlockMerge) Apply(cfg *CFG) error {
	fn := cfg.Fn
	u := ir.UsesOf(fn)

	/* snapshot the scan order up front; merging deletes blocks */
	s := lane.NewStack()
	for _, bb := range fn.Blocks {
		s.Push(bb)
	}

	for !s.Empty() {
		bb := s.Pop().(*ir.Block)

		preds := cfg.Pred(bb)
		if len(preds) != 1 || len(bb.Leaders()) != 0 {
			continue
		}

		pred := preds[0]
		if self.excBlock(pred) || len(cfg.Succ(pred)) != 1 {
			continue
		}

		if err := self.merge(u, fn, pred, bb); err != nil {
			return err
		}
	}
	return nil
}

func (self BlockMerge) excBlock(bb *ir.Block) bool {
	for _, p := range bb.Leaders() {
		if p.Op == ir.OpExcSetup {
			return true
		}
	}
	return false
}

// merge deletes pred's terminating jump, appends every instruction of succ
// onto pred, removes succ from the function, and repoints phi edges in
// succ's successors at pred.
func (self BlockMerge) merge(u *ir.Uses, fn *ir.Func, pred *ir.Block, succ *ir.Block) error {
	term := pred.Terminator()
	if term == nil || term.Op != ir.OpJump {
		return fmt.Errorf("merge %s into %s: predecessor does not end in a jump", succ.Name, pred.Name)
	}
	if term.To[0] != succ {
		return fmt.Errorf("merge %s into %s: predecessor jumps elsewhere", succ.Name, pred.Name)
	}

	if err := u.Delete(term); err != nil {
		return err
	}
	pred.Extend(succ)
	fn.DelBlock(succ)

	/* phi nodes downstream still name succ as an incoming predecessor */
	self.patchPhis(pred, succ)
	return nil
}

func (self BlockMerge) patchPhis(pred *ir.Block, succ *ir.Block) {
	term := pred.Terminator()
	if term == nil {
		return
	}

	targets := term.To
	if t := term.ExcTarget(); t != nil {
		targets = append(append([]*ir.Block(nil), targets...), t)
	}

	for _, bb := range targets {
		for _, p := range bb.Leaders() {
			if p.Op != ir.OpPhi {
				continue
			}
			for i, in := range p.To {
				if in == succ {
					p.To[i] = pred
				}
			}
		}
	}
}
