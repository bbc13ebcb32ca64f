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

// Pass is a single in-place transformation over one function's IR, driven
// by the function's CFG. Passes assume exclusive access to the function for
// the duration of Apply.
type Pass interface {
	Apply(cfg *CFG) error
}

type _PassDescriptor struct {
	pass Pass
	desc string
}

var _passes = [...]_PassDescriptor{
	{desc: "Stack Slot Promotion", pass: new(Mem2Reg)},
	{desc: "Phi Node Pruning", pass: new(PhiElim)},
	{desc: "Block Merging", pass: new(BlockMerge)},
}

// Optimize derives the CFG of fn and runs the SSA construction pipeline
// over it in fixed order: stack promotion, phi pruning, block merging. The
// function is rewritten in place; on error it may be partially transformed
// and must be discarded.
//
// BlockMerge changes CFG edges, so the CFG built here is dead after the
// pipeline; callers needing one afterwards must rebuild it.
func Optimize(fn *ir.Func) error {
	cfg, err := BuildCFG(fn)
	if err != nil {
		return err
	}

	for _, p := range _passes {
		if err = p.pass.Apply(cfg); err != nil {
			return fmt.Errorf("ssa: %s: %w", p.desc, err)
		}
	}
	return nil
}
