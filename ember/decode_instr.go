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

import (
	"fmt"
	"math"
)

// decodeFunctionBody decodes one code-section entry: its local variable
// declarations followed by its instruction stream.
func decodeFunctionBody(ft FunctionType, body []byte) (Function, error) {
	r := newReader(body)
	groupCount, err := r.u32()
	if err != nil {
		return Function{}, err
	}
	var locals []ValueType
	for i := uint32(0); i < groupCount; i++ {
		count, err := r.u32()
		if err != nil {
			return Function{}, err
		}
		vt, err := r.valueType()
		if err != nil {
			return Function{}, err
		}
		for j := uint32(0); j < count; j++ {
			locals = append(locals, vt)
		}
	}
	code, err := decodeInstructions(r, nil)
	if err != nil {
		return Function{}, err
	}
	return Function{Locals: locals, Code: code}, nil
}

// openBlock tracks a not-yet-closed BLOCK/LOOP/IF while decoding, so its
// instruction can be patched with its continuation once the matching END
// (or ELSE) is found.
type openBlock struct {
	instrIndex int
}

// decodeInstructions decodes a flat instruction stream until its
// terminating END (the one with no enclosing block on the local open
// stack), resolving every structured control-flow target in this single
// pass. types is used to look up type-index block signatures; when it is
// nil only empty and single-value block types decode. Both constant
// expressions and decodeFunctionBody pass nil, so a function body whose
// BLOCK/LOOP/IF uses a type-index block type is rejected as an invalid
// block type.
func decodeInstructions(r *reader, types []FunctionType) ([]Instruction, error) {
	var code []Instruction
	var open []openBlock

	for {
		op, err := r.byte()
		if err != nil {
			return nil, err
		}

		switch op {
		case 0x00:
			code = append(code, Instruction{Opcode: opUnreachable})
		case 0x01:
			code = append(code, Instruction{Opcode: opNop})

		case 0x02, 0x03, 0x04:
			arity, err := decodeBlockType(r, types)
			if err != nil {
				return nil, err
			}
			o := opBlock
			if op == 0x03 {
				o = opLoop
			} else if op == 0x04 {
				o = opIf
			}
			code = append(code, Instruction{Opcode: o, arity: arity})
			open = append(open, openBlock{instrIndex: len(code) - 1})

		case 0x05: // else
			if len(open) == 0 {
				return nil, fmt.Errorf("ember: else with no matching if")
			}
			code = append(code, Instruction{Opcode: opElse})
			ob := open[len(open)-1]
			code[ob.instrIndex].labelFalse = uint32(len(code))

		case 0x0B: // end
			code = append(code, Instruction{Opcode: opEnd})
			if len(open) == 0 {
				return code, nil
			}
			ob := open[len(open)-1]
			open = open[:len(open)-1]
			continuation := uint32(len(code))
			code[ob.instrIndex].labelTrue = continuation
			if code[ob.instrIndex].Opcode == opIf && code[ob.instrIndex].labelFalse == 0 {
				// No ELSE: a false condition lands on this END, which pops
				// the IF's control frame.
				code[ob.instrIndex].labelFalse = continuation - 1
			}

		case 0x0C, 0x0D: // br, br_if
			depth, err := r.u32()
			if err != nil {
				return nil, err
			}
			o := opBr
			if op == 0x0D {
				o = opBrIf
			}
			code = append(code, Instruction{Opcode: o, operand: int64(depth)})

		case 0x0E: // br_table
			targets, err := decodeIndexVector(r)
			if err != nil {
				return nil, err
			}
			def, err := r.u32()
			if err != nil {
				return nil, err
			}
			table := make([]uint32, len(targets)+1)
			copy(table, targets)
			table[len(targets)] = def
			code = append(code, Instruction{Opcode: opBrTable, labelTable: table})

		case 0x0F:
			code = append(code, Instruction{Opcode: opReturn})

		case 0x10: // call
			idx, err := r.u32()
			if err != nil {
				return nil, err
			}
			code = append(code, Instruction{Opcode: opCall, operand: int64(idx)})

		case 0x11: // call_indirect
			typeIdx, err := r.u32()
			if err != nil {
				return nil, err
			}
			tableIdx, err := r.u32()
			if err != nil {
				return nil, err
			}
			code = append(code, Instruction{Opcode: opCallIndirect, operand: int64(typeIdx), operand2: int64(tableIdx)})

		case 0x1A:
			code = append(code, Instruction{Opcode: opDrop})
		case 0x1B:
			code = append(code, Instruction{Opcode: opSelect})

		case 0x20, 0x21, 0x22, 0x23, 0x24: // local/global get/set/tee
			idx, err := r.u32()
			if err != nil {
				return nil, err
			}
			var o opcode
			switch op {
			case 0x20:
				o = opLocalGet
			case 0x21:
				o = opLocalSet
			case 0x22:
				o = opLocalTee
			case 0x23:
				o = opGlobalGet
			case 0x24:
				o = opGlobalSet
			}
			code = append(code, Instruction{Opcode: o, operand: int64(idx)})

		case 0x28, 0x29, 0x2A, 0x2B, 0x2C, 0x2D, 0x2E, 0x2F,
			0x30, 0x31, 0x32, 0x33, 0x34, 0x35,
			0x36, 0x37, 0x38, 0x39, 0x3A, 0x3B, 0x3C, 0x3D, 0x3E:
			if _, err := r.u32(); err != nil { // align
				return nil, err
			}
			offset, err := r.u32()
			if err != nil {
				return nil, err
			}
			code = append(code, Instruction{Opcode: memOpcode(op), operand: int64(offset)})

		case 0x3F, 0x40: // memory.size, memory.grow
			if _, err := r.byte(); err != nil { // reserved 0x00
				return nil, err
			}
			o := opMemorySize
			if op == 0x40 {
				o = opMemoryGrow
			}
			code = append(code, Instruction{Opcode: o})

		case 0x41:
			v, err := r.i32()
			if err != nil {
				return nil, err
			}
			code = append(code, Instruction{Opcode: opI32Const, operand: int64(v)})
		case 0x42:
			v, err := r.i64()
			if err != nil {
				return nil, err
			}
			code = append(code, Instruction{Opcode: opI64Const, operand: v})
		case 0x43:
			v, err := r.f32()
			if err != nil {
				return nil, err
			}
			code = append(code, Instruction{Opcode: opF32Const, operand: int64(math.Float32bits(v))})
		case 0x44:
			v, err := r.f64()
			if err != nil {
				return nil, err
			}
			code = append(code, Instruction{Opcode: opF64Const, operand: int64(math.Float64bits(v))})

		case 0xFC:
			if err := decodeBulkMemory(r, &code); err != nil {
				return nil, err
			}

		default:
			if o, ok := simpleOpcodes[op]; ok {
				code = append(code, Instruction{Opcode: o})
				continue
			}
			return nil, fmt.Errorf("ember: unsupported opcode 0x%02x", op)
		}
	}
}

func memOpcode(b byte) opcode {
	return [...]opcode{
		0x28: opI32Load, 0x29: opI64Load, 0x2A: opF32Load, 0x2B: opF64Load,
		0x2C: opI32Load8S, 0x2D: opI32Load8U, 0x2E: opI32Load16S, 0x2F: opI32Load16U,
		0x30: opI64Load8S, 0x31: opI64Load8U, 0x32: opI64Load16S, 0x33: opI64Load16U,
		0x34: opI64Load32S, 0x35: opI64Load32U,
		0x36: opI32Store, 0x37: opI64Store, 0x38: opF32Store, 0x39: opF64Store,
		0x3A: opI32Store8, 0x3B: opI32Store16, 0x3C: opI64Store8, 0x3D: opI64Store16, 0x3E: opI64Store32,
	}[b]
}

// decodeBulkMemory decodes the 0xFC-prefixed bulk-memory (and
// non-trapping float-to-int) instructions. Table bulk-memory opcodes
// (table.init/copy/grow/size/fill, elem.drop) are not represented since
// multi-table/externref-driven table growth is out of scope; encountering
// one is reported as an unsupported opcode rather than silently ignored.
func decodeBulkMemory(r *reader, code *[]Instruction) error {
	sub, err := r.u32()
	if err != nil {
		return err
	}
	switch sub {
	case 0: // i32.trunc_sat_f32_s
		*code = append(*code, Instruction{Opcode: opI32TruncSatF32S})
	case 1:
		*code = append(*code, Instruction{Opcode: opI32TruncSatF32U})
	case 2:
		*code = append(*code, Instruction{Opcode: opI32TruncSatF64S})
	case 3:
		*code = append(*code, Instruction{Opcode: opI32TruncSatF64U})
	case 4:
		*code = append(*code, Instruction{Opcode: opI64TruncSatF32S})
	case 5:
		*code = append(*code, Instruction{Opcode: opI64TruncSatF32U})
	case 6:
		*code = append(*code, Instruction{Opcode: opI64TruncSatF64S})
	case 7:
		*code = append(*code, Instruction{Opcode: opI64TruncSatF64U})
	case 8: // memory.init
		dataIdx, err := r.u32()
		if err != nil {
			return err
		}
		if _, err := r.byte(); err != nil { // reserved memidx, always 0x00
			return err
		}
		*code = append(*code, Instruction{Opcode: opMemoryInit, operand: int64(dataIdx)})
	case 9: // data.drop
		dataIdx, err := r.u32()
		if err != nil {
			return err
		}
		*code = append(*code, Instruction{Opcode: opDataDrop, operand: int64(dataIdx)})
	case 10: // memory.copy
		if _, err := r.byte(); err != nil {
			return err
		}
		if _, err := r.byte(); err != nil {
			return err
		}
		*code = append(*code, Instruction{Opcode: opMemoryCopy})
	case 11: // memory.fill
		if _, err := r.byte(); err != nil {
			return err
		}
		*code = append(*code, Instruction{Opcode: opMemoryFill})
	default:
		return fmt.Errorf("ember: unsupported 0xfc-prefixed opcode %d", sub)
	}
	return nil
}

func decodeBlockType(r *reader, types []FunctionType) (blockArity, error) {
	v, err := r.ileb(33)
	if err != nil {
		return blockArity{}, err
	}
	switch v {
	case -64: // 0x40, empty
		return blockArity{}, nil
	case -1, -2, -3, -4, -16: // i32, i64, f32, f64, funcref
		return blockArity{count: 1}, nil
	}
	if v < 0 || types == nil || int(v) >= len(types) {
		return blockArity{}, fmt.Errorf("ember: invalid block type %d", v)
	}
	ft := types[v]
	return blockArity{count: uint32(len(ft.Results)), inputCount: uint32(len(ft.Params))}, nil
}
