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

import "testing"

func TestReaderU32(t *testing.T) {
	r := newReader([]byte{0xE5, 0x8E, 0x26}) // 624485, the canonical LEB128 example
	v, err := r.u32()
	if err != nil {
		t.Fatalf("u32: %v", err)
	}
	if v != 624485 {
		t.Fatalf("u32 = %d, want 624485", v)
	}
}

func TestReaderI32Negative(t *testing.T) {
	r := newReader([]byte{0x7F}) // -1 as a single-byte signed LEB128
	v, err := r.i32()
	if err != nil {
		t.Fatalf("i32: %v", err)
	}
	if v != -1 {
		t.Fatalf("i32 = %d, want -1", v)
	}
}

func TestReaderI32Positive(t *testing.T) {
	r := newReader([]byte{0x00})
	v, err := r.i32()
	if err != nil || v != 0 {
		t.Fatalf("i32 = (%d, %v), want (0, nil)", v, err)
	}
}

func TestDecodeBlockTypeEmptyAndValType(t *testing.T) {
	r := newReader([]byte{0x40})
	arity, err := decodeBlockType(r, nil)
	if err != nil {
		t.Fatalf("decodeBlockType(empty): %v", err)
	}
	if arity.count != 0 || arity.inputCount != 0 {
		t.Fatalf("empty block arity = %+v", arity)
	}

	r = newReader([]byte{0x7F}) // i32
	arity, err = decodeBlockType(r, nil)
	if err != nil {
		t.Fatalf("decodeBlockType(i32): %v", err)
	}
	if arity.count != 1 {
		t.Fatalf("i32 block arity.count = %d, want 1", arity.count)
	}
}

func TestDecodeBlockTypeFunctionIndex(t *testing.T) {
	types := []FunctionType{{Params: []ValueType{I32Type, I32Type}, Results: []ValueType{I32Type}}}
	r := newReader([]byte{0x00}) // type index 0
	arity, err := decodeBlockType(r, types)
	if err != nil {
		t.Fatalf("decodeBlockType(typeidx): %v", err)
	}
	if arity.inputCount != 2 || arity.count != 1 {
		t.Fatalf("arity = %+v, want {count:1 inputCount:2}", arity)
	}
}
