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

// Value is anything an instruction may reference as an operand: the result
// of another instruction, a constant, an explicit undefined value, or a
// function parameter. All implementations are comparable, so operand
// identity is plain interface equality.
type Value interface {
	ValueType() Type
	String() string
}

// Const is a compile-time constant.
type Const struct {
	T   Type
	Val int64
}

func IntConst(v int64) Const {
	return Const{T: Int, Val: v}
}

func BoolConst(v bool) Const {
	if v {
		return Const{T: Bool, Val: 1}
	}
	return Const{T: Bool, Val: 0}
}

func (self Const) ValueType() Type {
	return self.T
}

func (self Const) String() string {
	return fmt.Sprintf("$%d", self.Val)
}

// Undef is an explicit undefined value of a given type. Reads of a stack
// slot before any store observe an Undef, never a missing binding.
type Undef struct {
	T Type
}

func (self Undef) ValueType() Type {
	return self.T
}

func (self Undef) String() string {
	return "undef." + self.T.String()
}

// Param is a formal argument of a function.
type Param struct {
	T    Type
	Name string
}

func (self Param) ValueType() Type {
	return self.T
}

func (self Param) String() string {
	return "%" + self.Name
}
