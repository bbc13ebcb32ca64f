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

type Kind uint8

const (
	K_void Kind = iota
	K_bool
	K_int
	K_ptr
)

// Type is the type of a Value. Pointer types carry their pointee in Elem,
// every other kind is fully described by Kind alone.
type Type struct {
	Kind Kind
	Elem *Type
}

var (
	Void = Type{Kind: K_void}
	Bool = Type{Kind: K_bool}
	Int  = Type{Kind: K_int}
)

// Ptr constructs a pointer type with element type elem.
func Ptr(elem Type) Type {
	return Type{Kind: K_ptr, Elem: &elem}
}

func (self Type) IsPtr() bool {
	return self.Kind == K_ptr
}

// Base returns the element type of a pointer type.
func (self Type) Base() Type {
	if !self.IsPtr() {
		panic("ir: Base() on non-pointer type " + self.String())
	}
	return *self.Elem
}

// Equal reports structural type equality.
func (self Type) Equal(t Type) bool {
	if self.Kind != t.Kind {
		return false
	}
	if self.Kind == K_ptr {
		return self.Elem.Equal(*t.Elem)
	}
	return true
}

func (self Type) String() string {
	switch self.Kind {
	case K_void:
		return "void"
	case K_bool:
		return "bool"
	case K_int:
		return "int"
	case K_ptr:
		return self.Elem.String() + "*"
	default:
		return "?"
	}
}
