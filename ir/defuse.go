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
)

// Uses is an explicit def-use index over one function snapshot: for every
// value, the set of instructions referencing it as an operand. The index is
// owned by a single pass invocation and stays valid only while every
// structural mutation goes through its own API (Track, SetArgs,
// ReplaceUses, Delete).
type Uses struct {
	fn *Func
	m  map[Value]map[*Ir]struct{}
}

// UsesOf builds a fresh def-use index for the function as it stands.
func UsesOf(fn *Func) *Uses {
	u := &Uses{
		fn: fn,
		m:  make(map[Value]map[*Ir]struct{}),
	}

	for _, p := range fn.Ops() {
		u.addArgs(p, p.Args)
	}
	return u
}

func (self *Uses) Func() *Func {
	return self.fn
}

// Of returns the instructions using v as an operand. Order is unspecified.
func (self *Uses) Of(v Value) []*Ir {
	set := self.m[v]
	ret := make([]*Ir, 0, len(set))

	for p := range set {
		ret = append(ret, p)
	}
	return ret
}

// Count returns the number of distinct users of v.
func (self *Uses) Count(v Value) int {
	return len(self.m[v])
}

// Track indexes the operands of a newly inserted instruction.
func (self *Uses) Track(p *Ir) {
	self.addArgs(p, p.Args)
}

// SetArgs replaces the operand list of p, keeping the index consistent.
func (self *Uses) SetArgs(p *Ir, args []Value) {
	self.delArgs(p, p.Args)
	p.Args = args
	self.addArgs(p, args)
}

// SetPhiEdges installs the incoming edges of a phi node: preds[i] is the
// predecessor block contributing vals[i]. The two lists must pair up.
func (self *Uses) SetPhiEdges(p *Ir, preds []*Block, vals []Value) error {
	if p.Op != OpPhi {
		return fmt.Errorf("ir: %s is not a phi node", p)
	}
	if len(preds) != len(vals) {
		return fmt.Errorf("ir: phi %s: %d predecessors but %d values", p, len(preds), len(vals))
	}

	p.To = preds
	self.SetArgs(p, vals)
	return nil
}

// ReplaceUses rewrites every use of old into rep. The definition of old
// itself is left alone.
func (self *Uses) ReplaceUses(old Value, rep Value) {
	users := self.m[old]

	for p := range users {
		for i, a := range p.Args {
			if a == old {
				p.Args[i] = rep
			}
		}
		self.use(rep, p)
	}
	delete(self.m, old)
}

// Delete removes p from its block and drops its operand uses. Deleting an
// instruction that is still referenced is a contract violation.
func (self *Uses) Delete(p *Ir) error {
	if n := self.Count(p); n != 0 {
		return fmt.Errorf("ir: instruction %s still has %d uses and cannot be deleted", p, n)
	}

	self.delArgs(p, p.Args)
	delete(self.m, p)
	p.Unlink()
	return nil
}

func (self *Uses) use(v Value, p *Ir) {
	set := self.m[v]
	if set == nil {
		set = make(map[*Ir]struct{})
		self.m[v] = set
	}
	set[p] = struct{}{}
}

func (self *Uses) addArgs(p *Ir, args []Value) {
	for _, a := range args {
		self.use(a, p)
	}
}

func (self *Uses) delArgs(p *Ir, args []Value) {
	for _, a := range args {
		/* a value may appear several times in one operand list; every
		 * occurrence maps to the same single use entry */
		if set := self.m[a]; set != nil {
			delete(set, p)
			if len(set) == 0 {
				delete(self.m, a)
			}
		}
	}
}
