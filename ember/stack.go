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

// operandStack is the unbounded LIFO of Value the interpreter computes
// over. A well-typed function always leaves the stack with exactly
// arity(results) values above the height observed on entry.
type operandStack struct {
	data []Value
}

func newOperandStack() *operandStack {
	return &operandStack{data: make([]Value, 0, 512)}
}

func (s *operandStack) push(v Value) {
	s.data = append(s.data, v)
}

func (s *operandStack) pushI32(v int32)     { s.push(I32(v)) }
func (s *operandStack) pushI64(v int64)     { s.push(I64(v)) }
func (s *operandStack) pushF32(v float32)   { s.push(F32(v)) }
func (s *operandStack) pushF64(v float64)   { s.push(F64(v)) }
func (s *operandStack) pushBool(v bool)     { s.push(boolToI32(v)) }

// pop removes and returns the top value. The interpreter only calls this
// when validation (or the caller's own bookkeeping) guarantees the stack is
// non-empty.
func (s *operandStack) pop() Value {
	n := len(s.data) - 1
	v := s.data[n]
	s.data = s.data[:n]
	return v
}

func (s *operandStack) popI32() int32     { return s.pop().AsI32() }
func (s *operandStack) popI64() int64     { return s.pop().AsI64() }
func (s *operandStack) popF32() float32   { return s.pop().AsF32() }
func (s *operandStack) popF64() float64   { return s.pop().AsF64() }

// pop3I32 pops three i32 operands in original (push) order: the value
// pushed first is returned first. Used by the 3-operand bulk-memory
// instructions, which push (dst, src or fill value, n).
func (s *operandStack) pop3I32() (a, b, c int32) {
	n := len(s.data)
	a = s.data[n-3].AsI32()
	b = s.data[n-2].AsI32()
	c = s.data[n-1].AsI32()
	s.data = s.data[:n-3]
	return
}

func (s *operandStack) peek() Value {
	return s.data[len(s.data)-1]
}

func (s *operandStack) drop() {
	s.data = s.data[:len(s.data)-1]
}

func (s *operandStack) size() uint32 {
	return uint32(len(s.data))
}

// unwind truncates the stack down to targetHeight, preserving the top
// preserveCount values (the block's result arity) above that height. This
// is how BR/BR_IF/BR_TABLE/END discard a structured block's working values
// while keeping its results.
func (s *operandStack) unwind(targetHeight, preserveCount uint32) {
	kept := s.data[s.size()-preserveCount:]
	// kept aliases the tail of s.data; copy before truncating so the
	// append below does not clobber it while it still overlaps the
	// destination region.
	buf := make([]Value, len(kept))
	copy(buf, kept)
	s.data = append(s.data[:targetHeight], buf...)
}
