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

import "encoding/binary"

const (
	pageSize = 65536
	// maxPages is the hard Wasm address-space ceiling: 2^32 bytes / 64 KiB.
	maxPages = 65536
)

// Memory is a single WebAssembly linear memory: a byte slice grown in
// whole 64 KiB pages. Multiple memories per instance are a non-goal.
type Memory struct {
	limits Limits
	data   []byte
}

// NewMemory allocates a memory at its minimum size.
func NewMemory(limits Limits) *Memory {
	return &Memory{
		limits: limits,
		data:   make([]byte, uint64(limits.Min)*pageSize),
	}
}

// Size returns the current size in pages.
func (m *Memory) Size() uint32 {
	return uint32(len(m.data) / pageSize)
}

// Grow adds delta pages and returns the previous size in pages, or -1 if
// the growth would exceed the memory's declared maximum (or the hard
// 4 GiB address space limit).
func (m *Memory) Grow(delta uint32) int32 {
	prev := m.Size()
	next := uint64(prev) + uint64(delta)
	if next > maxPages {
		return -1
	}
	if m.limits.Max != nil && next > uint64(*m.limits.Max) {
		return -1
	}
	grown := make([]byte, next*pageSize)
	copy(grown, m.data)
	m.data = grown
	return int32(prev)
}

func (m *Memory) bounds(offset uint64, width int) bool {
	if width < 0 {
		return false
	}
	end := offset + uint64(width)
	return end <= uint64(len(m.data)) && end >= offset
}

func (m *Memory) load(offset uint64, width int) ([]byte, error) {
	if !m.bounds(offset, width) {
		return nil, errOutOfBoundsMemory
	}
	return m.data[offset : offset+uint64(width)], nil
}

func (m *Memory) LoadI32(offset uint64) (int32, error) {
	b, err := m.load(offset, 4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

func (m *Memory) LoadI64(offset uint64) (int64, error) {
	b, err := m.load(offset, 8)
	if err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(b)), nil
}

func (m *Memory) LoadByte(offset uint64) (byte, error) {
	b, err := m.load(offset, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (m *Memory) LoadShort(offset uint64) (int16, error) {
	b, err := m.load(offset, 2)
	if err != nil {
		return 0, err
	}
	return int16(binary.LittleEndian.Uint16(b)), nil
}

func (m *Memory) StoreI32(offset uint64, v int32) error {
	b, err := m.load(offset, 4)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(b, uint32(v))
	return nil
}

func (m *Memory) StoreI64(offset uint64, v int64) error {
	b, err := m.load(offset, 8)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(b, uint64(v))
	return nil
}

func (m *Memory) StoreByte(offset uint64, v byte) error {
	b, err := m.load(offset, 1)
	if err != nil {
		return err
	}
	b[0] = v
	return nil
}

func (m *Memory) StoreShort(offset uint64, v int16) error {
	b, err := m.load(offset, 2)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(b, uint16(v))
	return nil
}

// Fill sets n bytes starting at offset to value. Bounds are checked
// against the full requested range before any byte is written, matching
// the all-or-nothing semantics memory.fill requires.
func (m *Memory) Fill(offset, n uint64, value byte) error {
	if !m.bounds(offset, int(n)) {
		return errOutOfBoundsMemory
	}
	region := m.data[offset : offset+n]
	for i := range region {
		region[i] = value
	}
	return nil
}

// Copy moves n bytes from src to dst, correctly handling overlap (the
// regions may alias in either direction).
func (m *Memory) Copy(dst, src, n uint64) error {
	if !m.bounds(dst, int(n)) || !m.bounds(src, int(n)) {
		return errOutOfBoundsMemory
	}
	copy(m.data[dst:dst+n], m.data[src:src+n])
	return nil
}

// Init copies n bytes from a passive data segment's content, starting at
// srcOffset, into memory at dstOffset. A segment whose content has been
// cleared by a prior DATA_DROP has length zero, so any non-empty copy
// from it correctly traps as out-of-bounds rather than silently
// succeeding: data.drop really does discard the segment.
func (m *Memory) Init(dstOffset uint64, segment *DataSegment, srcOffset, n uint64) error {
	if srcOffset+n > uint64(len(segment.content)) {
		return errOutOfBoundsMemory
	}
	if !m.bounds(dstOffset, int(n)) {
		return errOutOfBoundsMemory
	}
	copy(m.data[dstOffset:dstOffset+n], segment.content[srcOffset:srcOffset+n])
	return nil
}
