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

// simpleOpcodes maps the binary encoding of every instruction that takes
// no immediate operand (comparisons, arithmetic, conversions,
// reinterpret casts, sign extension) to its internal opcode.
var simpleOpcodes = map[byte]opcode{
	0x45: opI32Eqz, 0x46: opI32Eq, 0x47: opI32Ne,
	0x48: opI32LtS, 0x49: opI32LtU, 0x4A: opI32GtS, 0x4B: opI32GtU,
	0x4C: opI32LeS, 0x4D: opI32LeU, 0x4E: opI32GeS, 0x4F: opI32GeU,
	0x50: opI64Eqz, 0x51: opI64Eq, 0x52: opI64Ne,
	0x53: opI64LtS, 0x54: opI64LtU, 0x55: opI64GtS, 0x56: opI64GtU,
	0x57: opI64LeS, 0x58: opI64LeU, 0x59: opI64GeS, 0x5A: opI64GeU,
	0x5B: opF32Eq, 0x5C: opF32Ne, 0x5D: opF32Lt, 0x5E: opF32Gt, 0x5F: opF32Le, 0x60: opF32Ge,
	0x61: opF64Eq, 0x62: opF64Ne, 0x63: opF64Lt, 0x64: opF64Gt, 0x65: opF64Le, 0x66: opF64Ge,

	0x67: opI32Clz, 0x68: opI32Ctz, 0x69: opI32Popcnt,
	0x6A: opI32Add, 0x6B: opI32Sub, 0x6C: opI32Mul,
	0x6D: opI32DivS, 0x6E: opI32DivU, 0x6F: opI32RemS, 0x70: opI32RemU,
	0x71: opI32And, 0x72: opI32Or, 0x73: opI32Xor,
	0x74: opI32Shl, 0x75: opI32ShrS, 0x76: opI32ShrU, 0x77: opI32Rotl, 0x78: opI32Rotr,

	0x79: opI64Clz, 0x7A: opI64Ctz, 0x7B: opI64Popcnt,
	0x7C: opI64Add, 0x7D: opI64Sub, 0x7E: opI64Mul,
	0x7F: opI64DivS, 0x80: opI64DivU, 0x81: opI64RemS, 0x82: opI64RemU,
	0x83: opI64And, 0x84: opI64Or, 0x85: opI64Xor,
	0x86: opI64Shl, 0x87: opI64ShrS, 0x88: opI64ShrU, 0x89: opI64Rotl, 0x8A: opI64Rotr,

	0x8B: opF32Abs, 0x8C: opF32Neg, 0x8D: opF32Ceil, 0x8E: opF32Floor,
	0x8F: opF32Trunc, 0x90: opF32Nearest, 0x91: opF32Sqrt,
	0x92: opF32Add, 0x93: opF32Sub, 0x94: opF32Mul, 0x95: opF32Div,
	0x96: opF32Min, 0x97: opF32Max, 0x98: opF32Copysign,

	0x99: opF64Abs, 0x9A: opF64Neg, 0x9B: opF64Ceil, 0x9C: opF64Floor,
	0x9D: opF64Trunc, 0x9E: opF64Nearest, 0x9F: opF64Sqrt,
	0xA0: opF64Add, 0xA1: opF64Sub, 0xA2: opF64Mul, 0xA3: opF64Div,
	0xA4: opF64Min, 0xA5: opF64Max, 0xA6: opF64Copysign,

	0xA7: opI32WrapI64,
	0xA8: opI32TruncF32S, 0xA9: opI32TruncF32U, 0xAA: opI32TruncF64S, 0xAB: opI32TruncF64U,
	0xAC: opI64ExtendI32S, 0xAD: opI64ExtendI32U,
	0xAE: opI64TruncF32S, 0xAF: opI64TruncF32U, 0xB0: opI64TruncF64S, 0xB1: opI64TruncF64U,
	0xB2: opF32ConvertI32S, 0xB3: opF32ConvertI32U, 0xB4: opF32ConvertI64S, 0xB5: opF32ConvertI64U,
	0xB6: opF32DemoteF64,
	0xB7: opF64ConvertI32S, 0xB8: opF64ConvertI32U, 0xB9: opF64ConvertI64S, 0xBA: opF64ConvertI64U,
	0xBB: opF64PromoteF32,
	0xBC: opI32ReinterpretF32, 0xBD: opI64ReinterpretF64,
	0xBE: opF32ReinterpretI32, 0xBF: opF64ReinterpretI64,

	0xC0: opI32Extend8S, 0xC1: opI32Extend16S,
	0xC2: opI64Extend8S, 0xC3: opI64Extend16S, 0xC4: opI64Extend32S,
}
