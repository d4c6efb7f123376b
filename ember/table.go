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

// Table is a funcref table: a resizable array of function indices, with
// NullReference marking an empty slot. Ember only supports funcref
// tables (externref and multiple tables per instance are non-goals).
type Table struct {
	limits   Limits
	elements []int32
}

func NewTable(limits Limits) *Table {
	t := &Table{limits: limits, elements: make([]int32, limits.Min)}
	for i := range t.elements {
		t.elements[i] = NullReference
	}
	return t
}

func (t *Table) Size() uint32 { return uint32(len(t.elements)) }

func (t *Table) Grow(delta uint32, fill int32) int32 {
	prev := t.Size()
	next := uint64(prev) + uint64(delta)
	if t.limits.Max != nil && next > uint64(*t.limits.Max) {
		return -1
	}
	grown := make([]int32, next)
	copy(grown, t.elements)
	for i := prev; i < uint32(next); i++ {
		grown[i] = fill
	}
	t.elements = grown
	return int32(prev)
}

func (t *Table) Get(index uint32) (int32, error) {
	if index >= t.Size() {
		return 0, errOutOfBoundsTable
	}
	return t.elements[index], nil
}

func (t *Table) Set(index uint32, value int32) error {
	if index >= t.Size() {
		return errOutOfBoundsTable
	}
	t.elements[index] = value
	return nil
}

// Fill sets n entries starting at offset to value.
func (t *Table) Fill(offset, n uint32, value int32) error {
	if uint64(offset)+uint64(n) > uint64(t.Size()) {
		return errOutOfBoundsTable
	}
	for i := uint32(0); i < n; i++ {
		t.elements[offset+i] = value
	}
	return nil
}

// Copy moves n entries from src to dst, correctly handling overlap.
func (t *Table) Copy(dst, src, n uint32) error {
	if uint64(dst)+uint64(n) > uint64(t.Size()) || uint64(src)+uint64(n) > uint64(t.Size()) {
		return errOutOfBoundsTable
	}
	copy(t.elements[dst:dst+n], t.elements[src:src+n])
	return nil
}

// Init copies n entries from an element segment's function indices into
// the table. Instantiation uses it to apply active element segments.
func (t *Table) Init(dstOffset uint32, segment *ElementSegment, srcOffset, n uint32) error {
	if uint64(srcOffset)+uint64(n) > uint64(len(segment.funcIndices)) {
		return errOutOfBoundsTable
	}
	if uint64(dstOffset)+uint64(n) > uint64(t.Size()) {
		return errOutOfBoundsTable
	}
	copy(t.elements[dstOffset:dstOffset+n], segment.funcIndices[srcOffset:srcOffset+n])
	return nil
}
