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

// ExitName is the name of the sentinel exit node: the boundary control
// crosses on return or on an exception that leaves the function.
const ExitName = "irgo.exit"

// CFG is the control flow graph of one function: the function's blocks plus
// a sentinel exit node, with edges derived from block terminators. It is a
// read-only view; any CFG-altering mutation of the function (block merging,
// edge rewrite) invalidates it.
type CFG struct {
	Graph[*ir.Block]

	Fn   *ir.Func
	Exit *ir.Block
}

// BuildCFG derives the control flow graph from terminator semantics:
//
//	jump T          one edge to T
//	cbranch c, A, B edges to A and B
//	ret             no outgoing edges
//	exc_throw       one edge to the exc_target block, or to the exit
//	                sentinel if the exception leaves the function
//
// A block ending in anything else is malformed and fails the build. The
// function itself is not mutated.
func BuildCFG(fn *ir.Func) (*CFG, error) {
	cfg := &CFG{
		Fn:   fn,
		Exit: &ir.Block{Name: ExitName},
	}

	for _, bb := range fn.Blocks {
		cfg.AddNode(bb)

		term := bb.Tail()
		if term == nil {
			return nil, fmt.Errorf("ssa: block %s is empty", bb.Name)
		}

		switch term.Op {
		case ir.OpJump:
			cfg.AddEdge(bb, term.To[0])

		case ir.OpCBranch:
			cfg.AddEdge(bb, term.To[0])
			cfg.AddEdge(bb, term.To[1])

		case ir.OpRet:
			/* no outgoing edges */

		case ir.OpExcThrow:
			if t := term.ExcTarget(); t != nil {
				cfg.AddEdge(bb, t)
			} else {
				cfg.AddEdge(bb, cfg.Exit)
			}

		default:
			return nil, fmt.Errorf("ssa: block %s: invalid terminator: %s", bb.Name, term)
		}
	}

	return cfg, nil
}
