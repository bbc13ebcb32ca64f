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

// Builder emits instructions at a movable cursor inside a function. Emitting
// without establishing a cursor first is a contract violation. Besides raw
// emission it provides block splitting (with phi patching) and if / if-else /
// loop skeleton generation.
type Builder struct {
	fn  *Func
	blk *Block
	pos int
}

func NewBuilder(fn *Func) *Builder {
	return &Builder{
		fn:  fn,
		blk: nil,
	}
}

func (self *Builder) Func() *Func {
	return self.fn
}

// Block returns the block the cursor currently points into.
func (self *Builder) Block() *Block {
	return self.blk
}

/* ---------------------------------------------------------------------- */
/* positioning                                                            */
/* ---------------------------------------------------------------------- */

// PositionAtFront places the cursor at the very beginning of bb.
func (self *Builder) PositionAtFront(bb *Block) {
	self.blk, self.pos = bb, 0
}

// PositionAfterLeaders places the cursor right after the leader prefix of
// bb, the first position an ordinary instruction may occupy.
func (self *Builder) PositionAfterLeaders(bb *Block) {
	self.blk, self.pos = bb, len(bb.Leaders())
}

// PositionAtEnd places the cursor after the last instruction of bb.
func (self *Builder) PositionAtEnd(bb *Block) {
	self.blk, self.pos = bb, len(bb.ins)
}

// PositionBefore places the cursor immediately before p.
func (self *Builder) PositionBefore(p *Ir) {
	if p.blk == nil {
		panic("ir: PositionBefore() on an unlinked instruction")
	}
	self.blk, self.pos = p.blk, p.blk.index(p)
}

// PositionAfter places the cursor immediately after p.
func (self *Builder) PositionAfter(p *Ir) {
	if p.blk == nil {
		panic("ir: PositionAfter() on an unlinked instruction")
	}
	self.blk, self.pos = p.blk, p.blk.index(p)+1
}

// Emit links p at the cursor and advances the cursor past it. A fresh
// register name is allocated if p produces a result and has none yet.
func (self *Builder) Emit(p *Ir) *Ir {
	if self.blk == nil {
		panic("ir: builder is not positioned")
	}

	if p.Op.HasResult() && p.name == "" {
		p.name = self.fn.NewTemp()
	}

	self.blk.insert(self.pos, p)
	self.pos++
	return p
}

/* ---------------------------------------------------------------------- */
/* typed emitters                                                         */
/* ---------------------------------------------------------------------- */

// Alloca emits a stack slot allocation yielding a pointer to elem.
func (self *Builder) Alloca(elem Type) *Ir {
	return self.Emit(&Ir{Op: OpAlloca, T: Ptr(elem)})
}

// Load emits a read through a pointer-typed slot.
func (self *Builder) Load(slot Value) *Ir {
	t := slot.ValueType()
	if !t.IsPtr() {
		panic("ir: load from non-pointer value " + slot.String())
	}
	return self.Emit(&Ir{Op: OpLoad, T: t.Base(), Args: []Value{slot}})
}

// Store emits a write of val through a pointer-typed slot.
func (self *Builder) Store(val Value, slot Value) *Ir {
	t := slot.ValueType()
	if !t.IsPtr() {
		panic("ir: store to non-pointer value " + slot.String())
	}
	if !val.ValueType().Equal(t.Base()) {
		panic("ir: store of " + val.ValueType().String() + " into slot of " + t.Base().String())
	}
	return self.Emit(&Ir{Op: OpStore, T: Void, Args: []Value{val, slot}})
}

// Phi emits a phi node of type t; preds[i] contributes vals[i]. Both lists
// may be empty and filled in later with Uses.SetPhiEdges.
func (self *Builder) Phi(t Type, preds []*Block, vals []Value) *Ir {
	if len(preds) != len(vals) {
		panic("ir: phi predecessor and value lists diverge")
	}
	return self.Emit(&Ir{Op: OpPhi, T: t, Args: vals, To: preds})
}

func (self *Builder) Add(x Value, y Value) *Ir {
	if !x.ValueType().Equal(y.ValueType()) {
		panic("ir: add operand types diverge")
	}
	return self.Emit(&Ir{Op: OpAdd, T: x.ValueType(), Args: []Value{x, y}})
}

func (self *Builder) Cmp(x Value, y Value) *Ir {
	if !x.ValueType().Equal(y.ValueType()) {
		panic("ir: cmp operand types diverge")
	}
	return self.Emit(&Ir{Op: OpCmp, T: Bool, Args: []Value{x, y}})
}

// Call emits a call to the named callee. Passing a promotable slot's
// pointer here is exactly what disqualifies the slot from promotion.
func (self *Builder) Call(rt Type, callee string, args ...Value) *Ir {
	return self.Emit(&Ir{
		Op:   OpCall,
		T:    rt,
		Args: args,
		Meta: Metadata{"callee": callee},
	})
}

// ExcSetup emits an exception setup leader naming the handler blocks.
func (self *Builder) ExcSetup(handlers ...*Block) *Ir {
	return self.Emit(&Ir{Op: OpExcSetup, To: handlers})
}

// ExcCatch emits a catch leader producing the caught exception value.
func (self *Builder) ExcCatch(t Type) *Ir {
	return self.Emit(&Ir{Op: OpExcCatch, T: t})
}

func (self *Builder) Jump(to *Block) *Ir {
	return self.Emit(&Ir{Op: OpJump, To: []*Block{to}})
}

func (self *Builder) CBranch(cond Value, then *Block, els *Block) *Ir {
	if !cond.ValueType().Equal(Bool) {
		panic("ir: cbranch condition is not a bool")
	}
	return self.Emit(&Ir{Op: OpCBranch, Args: []Value{cond}, To: []*Block{then, els}})
}

func (self *Builder) Ret(vals ...Value) *Ir {
	return self.Emit(&Ir{Op: OpRet, Args: vals})
}

// Throw emits an exception throw. A nil target means the exception leaves
// the function.
func (self *Builder) Throw(exc Value, target *Block) *Ir {
	p := &Ir{Op: OpExcThrow, Args: []Value{exc}}
	if target != nil {
		p.SetExcTarget(target)
	}
	return self.Emit(p)
}

/* ---------------------------------------------------------------------- */
/* block surgery                                                          */
/* ---------------------------------------------------------------------- */

// SplitBlock splits the cursor's block at the cursor. Instructions after the
// cursor move into a fresh block inserted right after the current one. With
// terminate set, the old block is terminated with a jump to the new block if
// the split left it unterminated. Phi nodes in the successors of the moved
// terminator are repointed from the old block to the new one. The cursor
// stays in the old block.
func (self *Builder) SplitBlock(name string, terminate bool) (*Block, *Block) {
	if self.blk == nil {
		panic("ir: builder is not positioned")
	}

	old := self.blk
	bb := self.fn.NewBlockAfter(name, old)

	/* move the trailing instructions */
	trailing := append([]*Ir(nil), old.ins[self.pos:]...)
	for _, p := range trailing {
		p.Unlink()
	}
	for _, p := range trailing {
		bb.Append(p)
	}

	/* close the old block if requested */
	if terminate && old.Terminator() == nil {
		self.Jump(bb)
	}

	patchPhiPreds(bb, old, bb)
	return old, bb
}

// If splits at the cursor and opens a then-branch: cbranch(cond, then,
// exit). The cursor is left at the end of the then block; the caller closes
// it (usually with a jump to exit) and continues at exit.
func (self *Builder) If(cond Value) (then *Block, exit *Block) {
	old, exit := self.SplitBlock("if.exit", false)
	then = self.fn.NewBlockAfter("if.then", old)

	self.CBranch(cond, then, exit)
	self.PositionAtEnd(then)
	return
}

// IfElse splits at the cursor and opens both branches of a conditional.
func (self *Builder) IfElse(cond Value) (then *Block, els *Block, exit *Block) {
	old, exit := self.SplitBlock("if.exit", false)
	then = self.fn.NewBlockAfter("if.then", old)
	els = self.fn.NewBlockAfter("if.else", then)

	self.CBranch(cond, then, els)
	self.PositionAtEnd(then)
	return
}

// Loop generates a counted loop skeleton: a counter slot in the entry
// block, a condition block loading and stepping the counter, and a body
// block jumping back to the condition. The cursor is left at the beginning
// of the body. Returns (cond, body, exit).
func (self *Builder) Loop(start Value, stop Value, step Value) (cond *Block, body *Block, exit *Block) {
	ty := stop.ValueType()
	if !start.ValueType().Equal(ty) || !step.ValueType().Equal(ty) {
		panic("ir: loop bound types diverge")
	}

	/* counter slot lives in the entry block; inserting it shifts a cursor
	 * that was already inside the entry block by one */
	blk, pos := self.blk, self.pos
	self.PositionAtFront(self.fn.Entry())
	slot := self.Alloca(ty)
	if blk == self.fn.Entry() {
		pos++
	}
	self.blk, self.pos = blk, pos

	prev, exit := self.SplitBlock("loop.exit", false)
	cond = self.fn.NewBlockAfter("loop.cond", prev)
	body = self.fn.NewBlockAfter("loop.body", cond)

	self.PositionAtEnd(prev)
	self.Store(start, slot)
	self.Jump(cond)

	self.PositionAtFront(cond)
	idx := self.Load(slot)
	self.Store(self.Add(idx, step), slot)
	self.CBranch(self.Cmp(idx, stop), body, exit)

	self.PositionAtEnd(body)
	self.Jump(cond)

	self.PositionAtFront(body)
	return
}

// patchPhiPreds rewrites phi incoming-predecessor entries naming from into
// to, in every CFG successor of bb.
func patchPhiPreds(bb *Block, from *Block, to *Block) {
	term := bb.Terminator()
	if term == nil {
		return
	}

	targets := term.To
	if t := term.ExcTarget(); t != nil {
		targets = append(append([]*Block(nil), targets...), t)
	}

	for _, succ := range targets {
		for _, p := range succ.Leaders() {
			if p.Op != OpPhi {
				continue
			}
			for i, pred := range p.To {
				if pred == from {
					p.To[i] = to
				}
			}
		}
	}
}
