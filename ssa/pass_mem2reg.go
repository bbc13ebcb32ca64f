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
)

// Mem2Reg promotes stack slots whose address never escapes into SSA
// registers: candidate allocas are relocated to the entry block, a phi node
// is inserted for every candidate at every join point, and a single forward
// dataflow pass rewrites loads into direct value references and deletes the
// load/store traffic along with the slots themselves.
//
// Phi placement is deliberately naive: one phi per candidate at every
// multi-predecessor block rather than a minimal dominance-frontier
// placement. PhiElim prunes the excess afterwards; the two passes are a
// matched pair.
type Mem2Reg struct{}

func (self Mem2Reg) Apply(cfg *CFG) error {
	fn := cfg.Fn
	u := ir.UsesOf(fn)

	allocas := self.findAllocas(fn, u)
	if len(allocas) == 0 {
		return nil
	}

	self.moveAllocas(fn, allocas)
	phis, order := self.insertPhis(fn, cfg, allocas)
	return self.propagate(cfg, u, allocas, phis, order)
}

// findAllocas selects the promotion candidates: allocas used only by load
// and store instructions. Any other use means the address escapes and
// disqualifies the slot. This is a plain use-opcode scan, not an escape
// analysis.
func (self Mem2Reg) findAllocas(fn *ir.Func, u *ir.Uses) []*ir.Ir {
	var ret []*ir.Ir

	for _, op := range fn.Ops() {
		if op.Op != ir.OpAlloca {
			continue
		}

		ok := true
		for _, use := range u.Of(op) {
			if use.Op != ir.OpLoad && use.Op != ir.OpStore {
				ok = false
				break
			}
		}

		if ok {
			ret = append(ret, op)
		}
	}
	return ret
}

// moveAllocas relocates every candidate to the front of the entry block, so
// all slot definitions dominate all uses. Relative order among distinct
// slots does not matter.
func (self Mem2Reg) moveAllocas(fn *ir.Func, allocas []*ir.Ir) {
	b := ir.NewBuilder(fn)
	b.PositionAtFront(fn.Entry())

	for _, a := range allocas {
		if a.Block() != fn.Entry() {
			a.Unlink()
			b.Emit(a)
		}
	}
}

// insertPhis places one empty phi node per candidate slot at the front of
// every block with more than one CFG predecessor. The incoming edges are
// filled in by propagate once every predecessor's outgoing values are known.
func (self Mem2Reg) insertPhis(fn *ir.Func, cfg *CFG, allocas []*ir.Ir) (map[*ir.Ir]*ir.Ir, []*ir.Ir) {
	b := ir.NewBuilder(fn)
	phis := make(map[*ir.Ir]*ir.Ir)
	order := make([]*ir.Ir, 0, len(allocas))

	for _, bb := range fn.Blocks {
		if len(cfg.Pred(bb)) <= 1 {
			continue
		}

		b.PositionAfterLeaders(bb)
		for _, a := range allocas {
			phi := b.Phi(a.T.Base(), nil, nil)
			phis[phi] = a
			order = append(order, phi)
		}
	}
	return phis, order
}

// propagate walks the blocks once, in stored function order, carrying a
// per-block map from candidate slot to the SSA value holding its content.
// A block starts from the union of its predecessors' outgoing maps; on key
// collisions later predecessors win. The positional merge is sound only
// because every join point already carries a phi per candidate, which
// resolves the true value; the merged map only feeds the phis' own
// definitions below, never a read at a join directly.
func (self Mem2Reg) propagate(cfg *CFG, u *ir.Uses, allocas []*ir.Ir, phis map[*ir.Ir]*ir.Ir, order []*ir.Ir) error {
	fn := cfg.Fn
	values := make(map[*ir.Block]map[*ir.Ir]ir.Value, len(fn.Blocks))

	candidate := make(map[*ir.Ir]bool, len(allocas))
	for _, a := range allocas {
		candidate[a] = true
	}

	for _, bb := range fn.Blocks {
		vars := make(map[*ir.Ir]ir.Value)
		for _, p := range cfg.Pred(bb) {
			for slot, v := range values[p] {
				vars[slot] = v
			}
		}

		for _, op := range append([]*ir.Ir(nil), bb.Ins()...) {
			switch op.Op {
			case ir.OpAlloca:
				/* a read before any store observes an explicit Undef */
				if candidate[op] {
					vars[op] = ir.Undef{T: op.T.Base()}
				}

			case ir.OpLoad:
				slot, ok := op.Args[0].(*ir.Ir)
				if !ok || !candidate[slot] {
					break
				}
				v, ok := vars[slot]
				if !ok {
					return fmt.Errorf("load %s reaches slot %s before its definition", op, slot)
				}
				u.ReplaceUses(op, v)
				if err := u.Delete(op); err != nil {
					return err
				}

			case ir.OpStore:
				slot, ok := op.Args[1].(*ir.Ir)
				if !ok || !candidate[slot] {
					break
				}
				vars[slot] = op.Args[0]
				if err := u.Delete(op); err != nil {
					return err
				}

			case ir.OpPhi:
				if a, ok := phis[op]; ok {
					vars[a] = op
				}
			}
		}

		values[bb] = vars
	}

	/* finalize the phi edges: one incoming value per actual CFG
	 * predecessor, in the order the CFG exposes them */
	for _, phi := range order {
		slot := phis[phi]
		preds := cfg.Pred(phi.Block())
		vals := make([]ir.Value, 0, len(preds))

		for _, p := range preds {
			v, ok := values[p][slot]
			if !ok {
				return fmt.Errorf("phi %s: slot %s has no value leaving predecessor %s", phi, slot, p.Name)
			}
			vals = append(vals, v)
		}

		if err := u.SetPhiEdges(phi, append([]*ir.Block(nil), preds...), vals); err != nil {
			return err
		}
	}

	/* the slots carry no remaining loads or stores now */
	for _, a := range allocas {
		if err := u.Delete(a); err != nil {
			return err
		}
	}
	return nil
}
