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

// opcode is the WebAssembly 1.0 instruction set plus the sign-extension,
// non-trapping float-to-int, and bulk-memory proposals. SIMD (v128.*),
// multi-memory, and externref/table-growth opcodes are not represented:
// they are explicit non-goals.
type opcode byte

const (
	opUnreachable opcode = iota
	opNop
	opBlock
	opLoop
	opIf
	opElse
	opEnd
	opBr
	opBrIf
	opBrTable
	opReturn
	opCall
	opCallIndirect
	opDrop
	opSelect
	opLocalGet
	opLocalSet
	opLocalTee
	opGlobalGet
	opGlobalSet

	opI32Load
	opI64Load
	opF32Load
	opF64Load
	opI32Load8S
	opI32Load8U
	opI32Load16S
	opI32Load16U
	opI64Load8S
	opI64Load8U
	opI64Load16S
	opI64Load16U
	opI64Load32S
	opI64Load32U
	opI32Store
	opI64Store
	opF32Store
	opF64Store
	opI32Store8
	opI32Store16
	opI64Store8
	opI64Store16
	opI64Store32
	opMemorySize
	opMemoryGrow

	opI32Const
	opI64Const
	opF32Const
	opF64Const

	opI32Eqz
	opI32Eq
	opI32Ne
	opI32LtS
	opI32LtU
	opI32GtS
	opI32GtU
	opI32LeS
	opI32LeU
	opI32GeS
	opI32GeU
	opI64Eqz
	opI64Eq
	opI64Ne
	opI64LtS
	opI64LtU
	opI64GtS
	opI64GtU
	opI64LeS
	opI64LeU
	opI64GeS
	opI64GeU
	opF32Eq
	opF32Ne
	opF32Lt
	opF32Gt
	opF32Le
	opF32Ge
	opF64Eq
	opF64Ne
	opF64Lt
	opF64Gt
	opF64Le
	opF64Ge

	opI32Clz
	opI32Ctz
	opI32Popcnt
	opI32Add
	opI32Sub
	opI32Mul
	opI32DivS
	opI32DivU
	opI32RemS
	opI32RemU
	opI32And
	opI32Or
	opI32Xor
	opI32Shl
	opI32ShrS
	opI32ShrU
	opI32Rotl
	opI32Rotr
	opI64Clz
	opI64Ctz
	opI64Popcnt
	opI64Add
	opI64Sub
	opI64Mul
	opI64DivS
	opI64DivU
	opI64RemS
	opI64RemU
	opI64And
	opI64Or
	opI64Xor
	opI64Shl
	opI64ShrS
	opI64ShrU
	opI64Rotl
	opI64Rotr
	opF32Abs
	opF32Neg
	opF32Ceil
	opF32Floor
	opF32Trunc
	opF32Nearest
	opF32Sqrt
	opF32Add
	opF32Sub
	opF32Mul
	opF32Div
	opF32Min
	opF32Max
	opF32Copysign
	opF64Abs
	opF64Neg
	opF64Ceil
	opF64Floor
	opF64Trunc
	opF64Nearest
	opF64Sqrt
	opF64Add
	opF64Sub
	opF64Mul
	opF64Div
	opF64Min
	opF64Max
	opF64Copysign

	opI32WrapI64
	opI32TruncF32S
	opI32TruncF32U
	opI32TruncF64S
	opI32TruncF64U
	opI64ExtendI32S
	opI64ExtendI32U
	opI64TruncF32S
	opI64TruncF32U
	opI64TruncF64S
	opI64TruncF64U
	opF32ConvertI32S
	opF32ConvertI32U
	opF32ConvertI64S
	opF32ConvertI64U
	opF32DemoteF64
	opF64ConvertI32S
	opF64ConvertI32U
	opF64ConvertI64S
	opF64ConvertI64U
	opF64PromoteF32
	opI32ReinterpretF32
	opI64ReinterpretF64
	opF32ReinterpretI32
	opF64ReinterpretI64

	opI32Extend8S
	opI32Extend16S
	opI64Extend8S
	opI64Extend16S
	opI64Extend32S

	opI32TruncSatF32S
	opI32TruncSatF32U
	opI32TruncSatF64S
	opI32TruncSatF64U
	opI64TruncSatF32S
	opI64TruncSatF32U
	opI64TruncSatF64S
	opI64TruncSatF64U

	opMemoryInit
	opDataDrop
	opMemoryCopy
	opMemoryFill
)

// blockArity classifies a structured block's result count: either 0x40
// (no results, "empty" block type), a single primitive value type, or a
// type-index into the module's function types (multi-value results).
type blockArity struct {
	// count is the number of result values the block produces when it
	// completes normally or is branched to. inputCount is the number of
	// parameters the block consumes on entry (needed because a branch to
	// a LOOP re-enters at its top, whose arity is its *input* count).
	count, inputCount uint32
}

// Instruction is a single decoded opcode with its resolved immediates. The
// decoder fills labelTrue/labelFalse/labelTable once, up front: the
// interpreter performs no scanning of the instruction stream at runtime.
type Instruction struct {
	Opcode opcode

	// operand is the (possibly only) decoded immediate: a local/global/
	// function/table/type index, a memory offset, or a constant payload.
	operand  int64
	operand2 int64

	// arity is populated for BLOCK/LOOP/IF.
	arity blockArity

	// labelTrue is set on BLOCK/LOOP/IF: the pc just past the matching
	// END, where the block continues when it completes (and where a
	// branch to a BLOCK/IF lands). BR/BR_IF carry a depth in operand
	// instead, and a branch to a LOOP resumes at the loop's first body
	// instruction, which the interpreter records on entry.
	labelTrue uint32
	// labelFalse is IF's "jump here when the condition is false" target
	// (the instruction just past the matching ELSE, or the matching END
	// if there is no ELSE).
	labelFalse uint32
	// labelTable holds BR_TABLE's branch depths, one per case; the last
	// entry is the default, taken when the predicate is out of range.
	// Depths (not raw program counters) are what resolve dynamically
	// against the current control-frame stack, exactly like BR/BR_IF.
	labelTable []uint32
}
