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

func TestMemoryLoadStoreRoundTrip(t *testing.T) {
	m := NewMemory(Limits{Min: 1})
	if err := m.StoreI32(0, -42); err != nil {
		t.Fatalf("StoreI32: %v", err)
	}
	v, err := m.LoadI32(0)
	if err != nil {
		t.Fatalf("LoadI32: %v", err)
	}
	if v != -42 {
		t.Fatalf("LoadI32 = %d, want -42", v)
	}
}

func TestMemoryOutOfBoundsTraps(t *testing.T) {
	m := NewMemory(Limits{Min: 1})
	_, err := m.LoadI32(uint64(pageSize) - 3)
	if err != errOutOfBoundsMemory {
		t.Fatalf("err = %v, want errOutOfBoundsMemory", err)
	}
}

func TestMemoryGrow(t *testing.T) {
	max := uint32(2)
	m := NewMemory(Limits{Min: 1, Max: &max})
	if prev := m.Grow(1); prev != 1 {
		t.Fatalf("Grow returned %d, want 1", prev)
	}
	if m.Size() != 2 {
		t.Fatalf("Size = %d, want 2", m.Size())
	}
	if prev := m.Grow(1); prev != -1 {
		t.Fatalf("Grow past max returned %d, want -1", prev)
	}
}

func TestMemoryFillAndCopy(t *testing.T) {
	m := NewMemory(Limits{Min: 1})
	if err := m.Fill(0, 8, 0xAB); err != nil {
		t.Fatalf("Fill: %v", err)
	}
	if err := m.Copy(100, 0, 8); err != nil {
		t.Fatalf("Copy: %v", err)
	}
	b, err := m.LoadByte(107)
	if err != nil {
		t.Fatalf("LoadByte: %v", err)
	}
	if b != 0xAB {
		t.Fatalf("copied byte = %#x, want 0xab", b)
	}
}

func TestMemoryInitAfterDataDropTraps(t *testing.T) {
	m := NewMemory(Limits{Min: 1})
	seg := &DataSegment{Mode: DataPassive, content: []byte{1, 2, 3, 4}}

	if err := m.Init(0, seg, 0, 4); err != nil {
		t.Fatalf("Init before drop: %v", err)
	}

	seg.content = nil // what data.drop does

	if err := m.Init(0, seg, 0, 4); err != errOutOfBoundsMemory {
		t.Fatalf("Init after drop err = %v, want errOutOfBoundsMemory", err)
	}
	// Dropping still permits a zero-length init: there is nothing to copy.
	if err := m.Init(0, seg, 0, 0); err != nil {
		t.Fatalf("zero-length Init after drop: %v", err)
	}
}
