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
	"fmt"
	"strings"
)

// Func is a function body: an ordered block sequence whose first block is
// the entry, plus a monotonic counter for fresh SSA register names.
type Func struct {
	Name   string
	In     []Param
	Blocks []*Block

	temp int
}

func NewFunc(name string, in ...Param) *Func {
	return &Func{
		Name: name,
		In:   in,
	}
}

// Entry returns the designated entry block.
func (self *Func) Entry() *Block {
	if len(self.Blocks) == 0 {
		panic("ir: function " + self.Name + " has no entry block")
	}
	return self.Blocks[0]
}

// NewBlock appends a fresh block. Block names are uniquified with the
// register counter, so the requested name is a prefix only.
func (self *Func) NewBlock(name string) *Block {
	return self.addBlock(name, len(self.Blocks))
}

// NewBlockAfter inserts a fresh block right after the given one.
func (self *Func) NewBlockAfter(name string, after *Block) *Block {
	for i, bb := range self.Blocks {
		if bb == after {
			return self.addBlock(name, i+1)
		}
	}
	panic("ir: NewBlockAfter() after a block not in this function")
}

// DelBlock unlinks a block from the function. The block's instructions are
// left in place; the caller is responsible for their def-use bookkeeping.
func (self *Func) DelBlock(bb *Block) {
	for i, b := range self.Blocks {
		if b == bb {
			self.Blocks = append(self.Blocks[:i], self.Blocks[i+1:]...)
			bb.fn = nil
			return
		}
	}
}

// Ops returns a flat snapshot of every instruction in stored block order.
// The snapshot stays valid while instructions are inserted or deleted.
func (self *Func) Ops() []*Ir {
	n := 0
	for _, bb := range self.Blocks {
		n += len(bb.ins)
	}

	buf := make([]*Ir, 0, n)
	for _, bb := range self.Blocks {
		buf = append(buf, bb.ins...)
	}
	return buf
}

// NewTemp allocates a fresh SSA register name.
func (self *Func) NewTemp() string {
	self.temp++
	return fmt.Sprintf("%%%d", self.temp)
}

func (self *Func) String() string {
	buf := make([]string, 0, len(self.Blocks)*4)

	for _, bb := range self.Blocks {
		buf = append(buf, bb.Name+":")
		for _, p := range bb.ins {
			buf = append(buf, "\t"+p.String())
		}
	}
	return fmt.Sprintf("func %s {\n%s\n}", self.Name, strings.Join(buf, "\n"))
}

func (self *Func) addBlock(name string, at int) *Block {
	self.temp++
	bb := &Block{
		Name: fmt.Sprintf("%s.%d", name, self.temp),
		fn:   self,
	}

	self.Blocks = append(self.Blocks, nil)
	copy(self.Blocks[at+1:], self.Blocks[at:])
	self.Blocks[at] = bb
	return bb
}
