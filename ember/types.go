// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ember

import "slices"

// ValueType classifies the values WebAssembly code computes with. Ember
// implements the MVP numeric types plus funcref; externref and v128 are
// dropped (SIMD and reference types beyond funcref are explicit non-goals).
type ValueType byte

const (
	I32Type     ValueType = 0x7f
	I64Type     ValueType = 0x7e
	F32Type     ValueType = 0x7d
	F64Type     ValueType = 0x7c
	FuncRefType ValueType = 0x70
)

func (t ValueType) String() string {
	switch t {
	case I32Type:
		return "i32"
	case I64Type:
		return "i64"
	case F32Type:
		return "f32"
	case F64Type:
		return "f64"
	case FuncRefType:
		return "funcref"
	default:
		return "unknown"
	}
}

// Limits constrain the size of a Table or Memory, in units of table
// elements or 64 KiB pages respectively.
type Limits struct {
	Min uint32
	Max *uint32
}

// TableType classifies a table by its size limits. The element type is
// not stored: Ember only ever instantiates funcref tables (multi-memory /
// externref tables are non-goals).
type TableType struct {
	Limits Limits
}

// MemoryType classifies a linear memory by its size limits, in pages.
type MemoryType struct {
	Limits Limits
}

// GlobalType classifies a global variable: its value type and mutability.
type GlobalType struct {
	ValueType ValueType
	Mutable   bool
}

// FunctionType classifies a function signature.
type FunctionType struct {
	Params  []ValueType
	Results []ValueType
}

func (ft FunctionType) Equal(other FunctionType) bool {
	return slices.Equal(ft.Params, other.Params) &&
		slices.Equal(ft.Results, other.Results)
}

func (ft FunctionType) arity() int { return len(ft.Results) }
