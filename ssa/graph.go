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

// Graph is a directed graph with deterministic node and edge order and a
// lazily computed transpose. Edge insertion invalidates the transpose; the
// next predecessor query rebuilds it.
type Graph[T comparable] struct {
	nodes []T
	seen  map[T]struct{}
	succ  map[T][]T
	pred  map[T][]T
}

// AddNode registers n, keeping first-insertion order. Adding a node twice
// is a no-op.
func (self *Graph[T]) AddNode(n T) {
	if self.seen == nil {
		self.seen = make(map[T]struct{})
		self.succ = make(map[T][]T)
	}
	if _, ok := self.seen[n]; !ok {
		self.seen[n] = struct{}{}
		self.nodes = append(self.nodes, n)
	}
}

// AddEdge inserts the edge from → to, registering both endpoints. Duplicate
// edges collapse into one.
func (self *Graph[T]) AddEdge(from T, to T) {
	self.AddNode(from)
	self.AddNode(to)

	for _, n := range self.succ[from] {
		if n == to {
			return
		}
	}

	self.succ[from] = append(self.succ[from], to)
	self.pred = nil
}

// Nodes returns every node in insertion order. The returned slice is live.
func (self *Graph[T]) Nodes() []T {
	return self.nodes
}

// Succ returns the direct successors of n in edge-insertion order.
func (self *Graph[T]) Succ(n T) []T {
	return self.succ[n]
}

// Pred returns the direct predecessors of n: the transpose view, computed
// on first use after any edge change.
func (self *Graph[T]) Pred(n T) []T {
	if self.pred == nil {
		self.transpose()
	}
	return self.pred[n]
}

func (self *Graph[T]) transpose() {
	self.pred = make(map[T][]T, len(self.nodes))

	for _, from := range self.nodes {
		for _, to := range self.succ[from] {
			self.pred[to] = append(self.pred[to], from)
		}
	}
}
