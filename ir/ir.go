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

type Op uint8

const (
	OpInvalid Op = iota

	/* memory operations */
	OpAlloca
	OpLoad
	OpStore

	/* SSA join */
	OpPhi

	/* scalar operations */
	OpAdd
	OpCmp
	OpCall

	/* exception handling leaders */
	OpExcSetup
	OpExcCatch

	/* terminators */
	OpJump
	OpCBranch
	OpRet
	OpExcThrow
)

var opnames = [...]string{
	OpAlloca:   "alloca",
	OpLoad:     "load",
	OpStore:    "store",
	OpPhi:      "phi",
	OpAdd:      "add",
	OpCmp:      "cmp",
	OpCall:     "call",
	OpExcSetup: "exc_setup",
	OpExcCatch: "exc_catch",
	OpJump:     "jump",
	OpCBranch:  "cbranch",
	OpRet:      "ret",
	OpExcThrow: "exc_throw",
}

func (self Op) String() string {
	if int(self) < len(opnames) && opnames[self] != "" {
		return opnames[self]
	}
	return fmt.Sprintf("op(%d)", uint8(self))
}

// IsTerminator reports whether the opcode is a control transfer, which must
// be the last instruction of every block.
func (self Op) IsTerminator() bool {
	switch self {
	case OpJump, OpCBranch, OpRet, OpExcThrow:
		return true
	default:
		return false
	}
}

// IsLeader reports whether the opcode must stay in the leading prefix of its
// block and must not be reordered past.
func (self Op) IsLeader() bool {
	switch self {
	case OpPhi, OpExcSetup, OpExcCatch:
		return true
	default:
		return false
	}
}

// HasResult reports whether instructions with this opcode produce a value.
func (self Op) HasResult() bool {
	switch self {
	case OpStore, OpExcSetup, OpJump, OpCBranch, OpRet, OpExcThrow:
		return false
	default:
		return true
	}
}

// MetaExcTarget names the block handling an exception raised by an
// exc_throw terminator. Absent, the exception leaves the function.
const MetaExcTarget = "exc_target"

type Metadata map[string]any

// Ir is a single instruction: a flat operation record tagged by opcode,
// with an ordered value operand list in Args and an ordered block operand
// list in To (branch targets, or incoming predecessors for a phi). For a
// phi, Args and To are pairwise: Args[i] is the value incoming from To[i].
type Ir struct {
	Op   Op
	T    Type
	Args []Value
	To   []*Block
	Meta Metadata

	name string
	blk  *Block
}

func (self *Ir) ValueType() Type {
	return self.T
}

// Name returns the SSA register name of the result, or "" for void
// instructions.
func (self *Ir) Name() string {
	return self.name
}

// Block returns the owning block, or nil if the instruction is unlinked.
func (self *Ir) Block() *Block {
	return self.blk
}

// ExcTarget returns the exc_target metadata block, if any.
func (self *Ir) ExcTarget() *Block {
	if bb, ok := self.Meta[MetaExcTarget].(*Block); ok {
		return bb
	}
	return nil
}

func (self *Ir) SetExcTarget(bb *Block) {
	if self.Meta == nil {
		self.Meta = Metadata{}
	}
	self.Meta[MetaExcTarget] = bb
}

// Unlink detaches the instruction from its owning block without touching
// the def-use index. The instruction stays valid and can be re-inserted.
func (self *Ir) Unlink() {
	if self.blk == nil {
		panic("ir: Unlink() on an instruction with no block")
	}
	self.blk.remove(self)
	self.blk = nil
}

// refstr renders a value as an operand: instruction results print as their
// register name, not their defining form.
func refstr(v Value) string {
	if p, ok := v.(*Ir); ok {
		if p.name != "" {
			return p.name
		}
		return "(" + p.Op.String() + ")"
	}
	return v.String()
}

func (self *Ir) String() string {
	buf := make([]string, 0, len(self.Args)+len(self.To))

	/* phi edges pair a predecessor with an incoming value */
	if self.Op == OpPhi {
		for i, bb := range self.To {
			v := "?"
			if i < len(self.Args) {
				v = refstr(self.Args[i])
			}
			buf = append(buf, fmt.Sprintf("[%s: %s]", bb.Name, v))
		}
	} else {
		for _, v := range self.Args {
			buf = append(buf, refstr(v))
		}
		for _, bb := range self.To {
			buf = append(buf, bb.Name)
		}
	}

	rhs := self.Op.String()
	if len(buf) != 0 {
		rhs += " " + strings.Join(buf, ", ")
	}

	if self.name == "" {
		return rhs
	}
	return fmt.Sprintf("%s = %s %s", self.name, rhs, self.T)
}
