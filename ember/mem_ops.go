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

// execMemory executes the linear-memory and bulk-memory instructions:
// loads, stores, memory.size/grow, and the memory.init/copy/fill/
// data.drop quartet from the bulk-memory proposal.
func (m *Machine) execMemory(stack *operandStack, frame *callFrame, ins Instruction) error {
	inst := frame.function.instance
	mem := inst.Memory0()

	switch ins.Opcode {
	case opI32Load:
		addr := uint64(uint32(stack.popI32())) + uint64(ins.operand)
		v, err := mem.LoadI32(addr)
		if err != nil {
			return err
		}
		stack.pushI32(v)

	case opI64Load:
		addr := uint64(uint32(stack.popI32())) + uint64(ins.operand)
		v, err := mem.LoadI64(addr)
		if err != nil {
			return err
		}
		stack.pushI64(v)

	case opF32Load:
		addr := uint64(uint32(stack.popI32())) + uint64(ins.operand)
		v, err := mem.LoadI32(addr)
		if err != nil {
			return err
		}
		stack.push(valueFromBits(uint64(uint32(v)), F32Type))

	case opF64Load:
		addr := uint64(uint32(stack.popI32())) + uint64(ins.operand)
		v, err := mem.LoadI64(addr)
		if err != nil {
			return err
		}
		stack.push(valueFromBits(uint64(v), F64Type))

	case opI32Load8S:
		addr := uint64(uint32(stack.popI32())) + uint64(ins.operand)
		b, err := mem.LoadByte(addr)
		if err != nil {
			return err
		}
		stack.pushI32(int32(int8(b)))

	case opI32Load8U:
		addr := uint64(uint32(stack.popI32())) + uint64(ins.operand)
		b, err := mem.LoadByte(addr)
		if err != nil {
			return err
		}
		stack.pushI32(int32(b))

	case opI32Load16S:
		addr := uint64(uint32(stack.popI32())) + uint64(ins.operand)
		h, err := mem.LoadShort(addr)
		if err != nil {
			return err
		}
		stack.pushI32(int32(h))

	case opI32Load16U:
		addr := uint64(uint32(stack.popI32())) + uint64(ins.operand)
		h, err := mem.LoadShort(addr)
		if err != nil {
			return err
		}
		stack.pushI32(int32(uint16(h)))

	case opI64Load8S:
		addr := uint64(uint32(stack.popI32())) + uint64(ins.operand)
		b, err := mem.LoadByte(addr)
		if err != nil {
			return err
		}
		stack.pushI64(int64(int8(b)))

	case opI64Load8U:
		addr := uint64(uint32(stack.popI32())) + uint64(ins.operand)
		b, err := mem.LoadByte(addr)
		if err != nil {
			return err
		}
		stack.pushI64(int64(b))

	case opI64Load16S:
		addr := uint64(uint32(stack.popI32())) + uint64(ins.operand)
		h, err := mem.LoadShort(addr)
		if err != nil {
			return err
		}
		stack.pushI64(int64(h))

	case opI64Load16U:
		addr := uint64(uint32(stack.popI32())) + uint64(ins.operand)
		h, err := mem.LoadShort(addr)
		if err != nil {
			return err
		}
		stack.pushI64(int64(uint16(h)))

	case opI64Load32S:
		addr := uint64(uint32(stack.popI32())) + uint64(ins.operand)
		v, err := mem.LoadI32(addr)
		if err != nil {
			return err
		}
		stack.pushI64(int64(v))

	case opI64Load32U:
		addr := uint64(uint32(stack.popI32())) + uint64(ins.operand)
		v, err := mem.LoadI32(addr)
		if err != nil {
			return err
		}
		stack.pushI64(int64(uint32(v)))

	case opI32Store:
		v := stack.popI32()
		addr := uint64(uint32(stack.popI32())) + uint64(ins.operand)
		return mem.StoreI32(addr, v)

	case opI64Store:
		v := stack.popI64()
		addr := uint64(uint32(stack.popI32())) + uint64(ins.operand)
		return mem.StoreI64(addr, v)

	case opF32Store:
		v := stack.pop()
		addr := uint64(uint32(stack.popI32())) + uint64(ins.operand)
		return mem.StoreI32(addr, int32(v.AsU32()))

	case opF64Store:
		v := stack.pop()
		addr := uint64(uint32(stack.popI32())) + uint64(ins.operand)
		return mem.StoreI64(addr, int64(v.AsU64()))

	case opI32Store8:
		v := stack.popI32()
		addr := uint64(uint32(stack.popI32())) + uint64(ins.operand)
		return mem.StoreByte(addr, byte(v))

	case opI32Store16:
		v := stack.popI32()
		addr := uint64(uint32(stack.popI32())) + uint64(ins.operand)
		return mem.StoreShort(addr, int16(v))

	case opI64Store8:
		v := stack.popI64()
		addr := uint64(uint32(stack.popI32())) + uint64(ins.operand)
		return mem.StoreByte(addr, byte(v))

	case opI64Store16:
		v := stack.popI64()
		addr := uint64(uint32(stack.popI32())) + uint64(ins.operand)
		return mem.StoreShort(addr, int16(v))

	case opI64Store32:
		v := stack.popI64()
		addr := uint64(uint32(stack.popI32())) + uint64(ins.operand)
		return mem.StoreI32(addr, int32(v))

	case opMemorySize:
		stack.pushI32(int32(mem.Size()))

	case opMemoryGrow:
		delta := stack.popI32()
		stack.pushI32(mem.Grow(uint32(delta)))

	case opMemoryInit:
		dst, src, n := stack.pop3I32()
		segment := inst.datas[ins.operand]
		return mem.Init(uint64(uint32(dst)), segment, uint64(uint32(src)), uint64(uint32(n)))

	case opDataDrop:
		inst.datas[ins.operand].content = nil

	case opMemoryCopy:
		dst, src, n := stack.pop3I32()
		return mem.Copy(uint64(uint32(dst)), uint64(uint32(src)), uint64(uint32(n)))

	case opMemoryFill:
		dst, val, n := stack.pop3I32()
		return mem.Fill(uint64(uint32(dst)), uint64(uint32(n)), byte(val))
	}
	return nil
}
