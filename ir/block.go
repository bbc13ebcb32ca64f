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

// Block is a basic block: an ordered instruction sequence ending in exactly
// one terminator. Instructions are owned by the block; moving one between
// blocks goes through Unlink / Append so the backpointers stay consistent.
type Block struct {
	Name string

	fn  *Func
	ins []*Ir
}

func (self *Block) Func() *Func {
	return self.fn
}

// Ins returns the live instruction slice. Callers iterating while mutating
// must snapshot it first (see Func.Ops).
func (self *Block) Ins() []*Ir {
	return self.ins
}

func (self *Block) Head() *Ir {
	if len(self.ins) == 0 {
		return nil
	}
	return self.ins[0]
}

func (self *Block) Tail() *Ir {
	if len(self.ins) == 0 {
		return nil
	}
	return self.ins[len(self.ins)-1]
}

// Terminator returns the block's terminator, or nil if the block is not
// (yet) terminated.
func (self *Block) Terminator() *Ir {
	if p := self.Tail(); p != nil && p.Op.IsTerminator() {
		return p
	}
	return nil
}

// Leaders returns the leading prefix of instructions that must stay first
// in the block (phi nodes, exception setup markers).
func (self *Block) Leaders() []*Ir {
	n := 0
	for _, p := range self.ins {
		if !p.Op.IsLeader() {
			break
		}
		n++
	}
	return self.ins[:n]
}

// Append links an unlinked instruction at the end of the block.
func (self *Block) Append(p *Ir) {
	if p.blk != nil {
		panic("ir: Append() on an instruction that is still linked")
	}
	p.blk = self
	self.ins = append(self.ins, p)
}

// Extend moves every instruction of from onto the end of the block,
// leaving from empty.
func (self *Block) Extend(from *Block) {
	moved := from.ins
	from.ins = nil

	for _, p := range moved {
		p.blk = self
	}
	self.ins = append(self.ins, moved...)
}

func (self *Block) String() string {
	return self.Name
}

func (self *Block) insert(i int, p *Ir) {
	if p.blk != nil {
		panic("ir: insert() on an instruction that is still linked")
	}
	p.blk = self
	self.ins = append(self.ins, nil)
	copy(self.ins[i+1:], self.ins[i:])
	self.ins[i] = p
}

func (self *Block) index(p *Ir) int {
	for i, q := range self.ins {
		if q == p {
			return i
		}
	}
	return -1
}

func (self *Block) remove(p *Ir) {
	if i := self.index(p); i != -1 {
		self.ins = append(self.ins[:i], self.ins[i+1:]...)
	}
}
