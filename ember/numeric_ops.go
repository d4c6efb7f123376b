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

import "math"

// execNumeric executes every instruction that is purely a function of
// its operand-stack arguments: comparisons, arithmetic, bitwise ops,
// conversions, and reinterpret casts. None of these touch memory,
// globals, or control flow.
func (m *Machine) execNumeric(stack *operandStack, ins Instruction) error {
	switch ins.Opcode {

	// --- i32 tests & comparisons ---
	case opI32Eqz:
		stack.pushBool(stack.popI32() == 0)
	case opI32Eq:
		b, a := stack.popI32(), stack.popI32()
		stack.pushBool(a == b)
	case opI32Ne:
		b, a := stack.popI32(), stack.popI32()
		stack.pushBool(a != b)
	case opI32LtS:
		b, a := stack.popI32(), stack.popI32()
		stack.pushBool(a < b)
	case opI32LtU:
		b, a := uint32(stack.popI32()), uint32(stack.popI32())
		stack.pushBool(a < b)
	case opI32GtS:
		b, a := stack.popI32(), stack.popI32()
		stack.pushBool(a > b)
	case opI32GtU:
		b, a := uint32(stack.popI32()), uint32(stack.popI32())
		stack.pushBool(a > b)
	case opI32LeS:
		b, a := stack.popI32(), stack.popI32()
		stack.pushBool(a <= b)
	case opI32LeU:
		b, a := uint32(stack.popI32()), uint32(stack.popI32())
		stack.pushBool(a <= b)
	case opI32GeS:
		b, a := stack.popI32(), stack.popI32()
		stack.pushBool(a >= b)
	case opI32GeU:
		b, a := uint32(stack.popI32()), uint32(stack.popI32())
		stack.pushBool(a >= b)

	// --- i64 tests & comparisons ---
	case opI64Eqz:
		stack.pushBool(stack.popI64() == 0)
	case opI64Eq:
		b, a := stack.popI64(), stack.popI64()
		stack.pushBool(a == b)
	case opI64Ne:
		b, a := stack.popI64(), stack.popI64()
		stack.pushBool(a != b)
	case opI64LtS:
		b, a := stack.popI64(), stack.popI64()
		stack.pushBool(a < b)
	case opI64LtU:
		b, a := uint64(stack.popI64()), uint64(stack.popI64())
		stack.pushBool(a < b)
	case opI64GtS:
		b, a := stack.popI64(), stack.popI64()
		stack.pushBool(a > b)
	case opI64GtU:
		b, a := uint64(stack.popI64()), uint64(stack.popI64())
		stack.pushBool(a > b)
	case opI64LeS:
		b, a := stack.popI64(), stack.popI64()
		stack.pushBool(a <= b)
	case opI64LeU:
		b, a := uint64(stack.popI64()), uint64(stack.popI64())
		stack.pushBool(a <= b)
	case opI64GeS:
		b, a := stack.popI64(), stack.popI64()
		stack.pushBool(a >= b)
	case opI64GeU:
		b, a := uint64(stack.popI64()), uint64(stack.popI64())
		stack.pushBool(a >= b)

	// --- float comparisons ---
	case opF32Eq:
		b, a := stack.popF32(), stack.popF32()
		stack.pushBool(a == b)
	case opF32Ne:
		b, a := stack.popF32(), stack.popF32()
		stack.pushBool(a != b)
	case opF32Lt:
		b, a := stack.popF32(), stack.popF32()
		stack.pushBool(a < b)
	case opF32Gt:
		b, a := stack.popF32(), stack.popF32()
		stack.pushBool(a > b)
	case opF32Le:
		b, a := stack.popF32(), stack.popF32()
		stack.pushBool(a <= b)
	case opF32Ge:
		b, a := stack.popF32(), stack.popF32()
		stack.pushBool(a >= b)
	case opF64Eq:
		b, a := stack.popF64(), stack.popF64()
		stack.pushBool(a == b)
	case opF64Ne:
		b, a := stack.popF64(), stack.popF64()
		stack.pushBool(a != b)
	case opF64Lt:
		b, a := stack.popF64(), stack.popF64()
		stack.pushBool(a < b)
	case opF64Gt:
		b, a := stack.popF64(), stack.popF64()
		stack.pushBool(a > b)
	case opF64Le:
		b, a := stack.popF64(), stack.popF64()
		stack.pushBool(a <= b)
	case opF64Ge:
		b, a := stack.popF64(), stack.popF64()
		stack.pushBool(a >= b)

	// --- i32 arithmetic ---
	case opI32Clz:
		stack.pushI32(clz32(uint32(stack.popI32())))
	case opI32Ctz:
		stack.pushI32(ctz32(uint32(stack.popI32())))
	case opI32Popcnt:
		stack.pushI32(popcnt32(uint32(stack.popI32())))
	case opI32Add:
		b, a := stack.popI32(), stack.popI32()
		stack.pushI32(a + b)
	case opI32Sub:
		b, a := stack.popI32(), stack.popI32()
		stack.pushI32(a - b)
	case opI32Mul:
		b, a := stack.popI32(), stack.popI32()
		stack.pushI32(a * b)
	case opI32DivS:
		b, a := stack.popI32(), stack.popI32()
		v, err := divS(a, b)
		if err != nil {
			return err
		}
		stack.pushI32(v)
	case opI32DivU:
		b, a := uint32(stack.popI32()), uint32(stack.popI32())
		v, err := divU(a, b)
		if err != nil {
			return err
		}
		stack.pushI32(int32(v))
	case opI32RemS:
		b, a := stack.popI32(), stack.popI32()
		v, err := remS(a, b)
		if err != nil {
			return err
		}
		stack.pushI32(v)
	case opI32RemU:
		b, a := uint32(stack.popI32()), uint32(stack.popI32())
		v, err := remU(a, b)
		if err != nil {
			return err
		}
		stack.pushI32(int32(v))
	case opI32And:
		b, a := stack.popI32(), stack.popI32()
		stack.pushI32(a & b)
	case opI32Or:
		b, a := stack.popI32(), stack.popI32()
		stack.pushI32(a | b)
	case opI32Xor:
		b, a := stack.popI32(), stack.popI32()
		stack.pushI32(a ^ b)
	case opI32Shl:
		b, a := stack.popI32(), stack.popI32()
		stack.pushI32(a << (uint32(b) & 31))
	case opI32ShrS:
		b, a := stack.popI32(), stack.popI32()
		stack.pushI32(a >> (uint32(b) & 31))
	case opI32ShrU:
		b, a := uint32(stack.popI32()), uint32(stack.popI32())
		stack.pushI32(int32(a >> (b & 31)))
	case opI32Rotl:
		b, a := stack.popI32(), stack.popI32()
		stack.pushI32(int32(rotl32(uint32(a), uint32(b))))
	case opI32Rotr:
		b, a := stack.popI32(), stack.popI32()
		stack.pushI32(int32(rotr32(uint32(a), uint32(b))))

	// --- i64 arithmetic ---
	case opI64Clz:
		stack.pushI64(int64(clz64(uint64(stack.popI64()))))
	case opI64Ctz:
		stack.pushI64(int64(ctz64(uint64(stack.popI64()))))
	case opI64Popcnt:
		stack.pushI64(int64(popcnt64(uint64(stack.popI64()))))
	case opI64Add:
		b, a := stack.popI64(), stack.popI64()
		stack.pushI64(a + b)
	case opI64Sub:
		b, a := stack.popI64(), stack.popI64()
		stack.pushI64(a - b)
	case opI64Mul:
		b, a := stack.popI64(), stack.popI64()
		stack.pushI64(a * b)
	case opI64DivS:
		b, a := stack.popI64(), stack.popI64()
		v, err := divS(a, b)
		if err != nil {
			return err
		}
		stack.pushI64(v)
	case opI64DivU:
		b, a := uint64(stack.popI64()), uint64(stack.popI64())
		v, err := divU(a, b)
		if err != nil {
			return err
		}
		stack.pushI64(int64(v))
	case opI64RemS:
		b, a := stack.popI64(), stack.popI64()
		v, err := remS(a, b)
		if err != nil {
			return err
		}
		stack.pushI64(v)
	case opI64RemU:
		b, a := uint64(stack.popI64()), uint64(stack.popI64())
		v, err := remU(a, b)
		if err != nil {
			return err
		}
		stack.pushI64(int64(v))
	case opI64And:
		b, a := stack.popI64(), stack.popI64()
		stack.pushI64(a & b)
	case opI64Or:
		b, a := stack.popI64(), stack.popI64()
		stack.pushI64(a | b)
	case opI64Xor:
		b, a := stack.popI64(), stack.popI64()
		stack.pushI64(a ^ b)
	case opI64Shl:
		b, a := stack.popI64(), stack.popI64()
		stack.pushI64(a << (uint64(b) & 63))
	case opI64ShrS:
		b, a := stack.popI64(), stack.popI64()
		stack.pushI64(a >> (uint64(b) & 63))
	case opI64ShrU:
		b, a := uint64(stack.popI64()), uint64(stack.popI64())
		stack.pushI64(int64(a >> (b & 63)))
	case opI64Rotl:
		b, a := stack.popI64(), stack.popI64()
		stack.pushI64(int64(rotl64(uint64(a), uint64(b))))
	case opI64Rotr:
		b, a := stack.popI64(), stack.popI64()
		stack.pushI64(int64(rotr64(uint64(a), uint64(b))))

	// --- f32 arithmetic ---
	case opF32Abs:
		stack.pushF32(float32(math.Abs(float64(stack.popF32()))))
	case opF32Neg:
		stack.pushF32(-stack.popF32())
	case opF32Ceil:
		stack.pushF32(float32(math.Ceil(float64(stack.popF32()))))
	case opF32Floor:
		stack.pushF32(float32(math.Floor(float64(stack.popF32()))))
	case opF32Trunc:
		stack.pushF32(float32(math.Trunc(float64(stack.popF32()))))
	case opF32Nearest:
		stack.pushF32(float32(math.RoundToEven(float64(stack.popF32()))))
	case opF32Sqrt:
		stack.pushF32(float32(math.Sqrt(float64(stack.popF32()))))
	case opF32Add:
		b, a := stack.popF32(), stack.popF32()
		stack.pushF32(a + b)
	case opF32Sub:
		b, a := stack.popF32(), stack.popF32()
		stack.pushF32(a - b)
	case opF32Mul:
		b, a := stack.popF32(), stack.popF32()
		stack.pushF32(a * b)
	case opF32Div:
		b, a := stack.popF32(), stack.popF32()
		stack.pushF32(a / b)
	case opF32Min:
		b, a := stack.popF32(), stack.popF32()
		stack.pushF32(wasmMin32(a, b))
	case opF32Max:
		b, a := stack.popF32(), stack.popF32()
		stack.pushF32(wasmMax32(a, b))
	case opF32Copysign:
		b, a := stack.pop(), stack.pop()
		stack.push(valueFromBits(uint64(copysign32(a.AsU32(), b.AsU32())), F32Type))

	// --- f64 arithmetic ---
	case opF64Abs:
		stack.pushF64(math.Abs(stack.popF64()))
	case opF64Neg:
		stack.pushF64(-stack.popF64())
	case opF64Ceil:
		stack.pushF64(math.Ceil(stack.popF64()))
	case opF64Floor:
		stack.pushF64(math.Floor(stack.popF64()))
	case opF64Trunc:
		stack.pushF64(math.Trunc(stack.popF64()))
	case opF64Nearest:
		stack.pushF64(math.RoundToEven(stack.popF64()))
	case opF64Sqrt:
		stack.pushF64(math.Sqrt(stack.popF64()))
	case opF64Add:
		b, a := stack.popF64(), stack.popF64()
		stack.pushF64(a + b)
	case opF64Sub:
		b, a := stack.popF64(), stack.popF64()
		stack.pushF64(a - b)
	case opF64Mul:
		b, a := stack.popF64(), stack.popF64()
		stack.pushF64(a * b)
	case opF64Div:
		b, a := stack.popF64(), stack.popF64()
		stack.pushF64(a / b)
	case opF64Min:
		b, a := stack.popF64(), stack.popF64()
		stack.pushF64(wasmMin64(a, b))
	case opF64Max:
		b, a := stack.popF64(), stack.popF64()
		stack.pushF64(wasmMax64(a, b))
	case opF64Copysign:
		b, a := stack.pop(), stack.pop()
		stack.push(valueFromBits(copysign64(a.AsU64(), b.AsU64()), F64Type))

	// --- conversions ---
	case opI32WrapI64:
		stack.pushI32(int32(stack.popI64()))
	case opI32TruncF32S:
		v, err := truncF32ToI32(stack.popF32(), true)
		if err != nil {
			return err
		}
		stack.pushI32(v)
	case opI32TruncF32U:
		v, err := truncF32ToI32(stack.popF32(), false)
		if err != nil {
			return err
		}
		stack.pushI32(v)
	case opI32TruncF64S:
		v, err := truncF64ToI32(stack.popF64(), true)
		if err != nil {
			return err
		}
		stack.pushI32(v)
	case opI32TruncF64U:
		v, err := truncF64ToI32(stack.popF64(), false)
		if err != nil {
			return err
		}
		stack.pushI32(v)
	case opI64ExtendI32S:
		stack.pushI64(int64(stack.popI32()))
	case opI64ExtendI32U:
		stack.pushI64(int64(uint32(stack.popI32())))
	case opI64TruncF32S:
		v, err := truncF32ToI64(stack.popF32(), true)
		if err != nil {
			return err
		}
		stack.pushI64(v)
	case opI64TruncF32U:
		v, err := truncF32ToI64(stack.popF32(), false)
		if err != nil {
			return err
		}
		stack.pushI64(v)
	case opI64TruncF64S:
		v, err := truncF64ToI64(stack.popF64(), true)
		if err != nil {
			return err
		}
		stack.pushI64(v)
	case opI64TruncF64U:
		v, err := truncF64ToI64(stack.popF64(), false)
		if err != nil {
			return err
		}
		stack.pushI64(v)
	case opF32ConvertI32S:
		stack.pushF32(float32(stack.popI32()))
	case opF32ConvertI32U:
		stack.pushF32(float32(uint32(stack.popI32())))
	case opF32ConvertI64S:
		stack.pushF32(float32(stack.popI64()))
	case opF32ConvertI64U:
		stack.pushF32(float32(uint64(stack.popI64())))
	case opF32DemoteF64:
		stack.pushF32(float32(stack.popF64()))
	case opF64ConvertI32S:
		stack.pushF64(float64(stack.popI32()))
	case opF64ConvertI32U:
		stack.pushF64(float64(uint32(stack.popI32())))
	case opF64ConvertI64S:
		stack.pushF64(float64(stack.popI64()))
	case opF64ConvertI64U:
		stack.pushF64(float64(uint64(stack.popI64())))
	case opF64PromoteF32:
		stack.pushF64(float64(stack.popF32()))
	case opI32ReinterpretF32:
		v := stack.pop()
		stack.push(valueFromBits(uint64(v.AsU32()), I32Type))
	case opI64ReinterpretF64:
		v := stack.pop()
		stack.push(valueFromBits(v.AsU64(), I64Type))
	case opF32ReinterpretI32:
		v := stack.pop()
		stack.push(valueFromBits(uint64(v.AsU32()), F32Type))
	case opF64ReinterpretI64:
		v := stack.pop()
		stack.push(valueFromBits(v.AsU64(), F64Type))

	// --- sign extension proposal ---
	case opI32Extend8S:
		stack.pushI32(signExtend8To32(stack.popI32()))
	case opI32Extend16S:
		stack.pushI32(signExtend16To32(stack.popI32()))
	case opI64Extend8S:
		stack.pushI64(signExtend8To64(stack.popI64()))
	case opI64Extend16S:
		stack.pushI64(signExtend16To64(stack.popI64()))
	case opI64Extend32S:
		stack.pushI64(signExtend32To64(stack.popI64()))

	// --- non-trapping float-to-int (saturating truncation) proposal ---
	case opI32TruncSatF32S:
		stack.pushI32(truncSatF32ToI32(stack.popF32(), true))
	case opI32TruncSatF32U:
		stack.pushI32(truncSatF32ToI32(stack.popF32(), false))
	case opI32TruncSatF64S:
		stack.pushI32(truncSatF64ToI32(stack.popF64(), true))
	case opI32TruncSatF64U:
		stack.pushI32(truncSatF64ToI32(stack.popF64(), false))
	case opI64TruncSatF32S:
		stack.pushI64(truncSatF32ToI64(stack.popF32(), true))
	case opI64TruncSatF32U:
		stack.pushI64(truncSatF32ToI64(stack.popF32(), false))
	case opI64TruncSatF64S:
		stack.pushI64(truncSatF64ToI64(stack.popF64(), true))
	case opI64TruncSatF64U:
		stack.pushI64(truncSatF64ToI64(stack.popF64(), false))

	default:
		panic("ember: unhandled opcode in execNumeric")
	}
	return nil
}

// wasmMin32/wasmMax32/wasmMin64/wasmMax64 implement float min/max with
// WebAssembly's NaN-propagating, signed-zero-aware semantics: if either
// operand is NaN the result is NaN, and min(-0,+0) is -0 while
// max(-0,+0) is +0, which Go's own < / > comparisons get right once NaN
// and zero are special-cased the way math.Min/math.Max already do.
func wasmMin32(a, b float32) float32 {
	return float32(math.Min(float64(a), float64(b)))
}

func wasmMax32(a, b float32) float32 {
	return float32(math.Max(float64(a), float64(b)))
}

func wasmMin64(a, b float64) float64 { return math.Min(a, b) }
func wasmMax64(a, b float64) float64 { return math.Max(a, b) }
