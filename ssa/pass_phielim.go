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
)

// PhiElim deletes degenerate phi nodes in a single pass: a phi with no uses
// is dead, and a phi whose incoming values are all the same single value is
// redundant and folds into that value.
//
// This is one pass, not a fixed point: a chain of phis that become
// redundant only after one of them folds needs another run to collapse
// fully. Callers wanting full cleanup re-run the pass.
type PhiElim struct{}

func (self PhiElim) Apply(cfg *CFG) error {
	u := ir.UsesOf(cfg.Fn)

	for _, op := range cfg.Fn.Ops() {
		if op.Op != ir.OpPhi {
			continue
		}

		/* dead phi */
		if u.Count(op) == 0 {
			if err := u.Delete(op); err != nil {
				return err
			}
			continue
		}

		/* redundant phi: every edge carries the same value */
		if v, ok := self.single(op); ok {
			u.ReplaceUses(op, v)
			if err := u.Delete(op); err != nil {
				return err
			}
		}
	}
	return nil
}

func (self PhiElim) single(phi *ir.Ir) (ir.Value, bool) {
	if len(phi.Args) == 0 {
		return nil, false
	}

	v := phi.Args[0]
	for _, a := range phi.Args[1:] {
		if a != v {
			return nil, false
		}
	}
	return v, true
}
