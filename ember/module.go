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

// Module is the decoded, statically-resolved form of a .wasm binary: every
// branch target has already been computed by the decoder, so instantiation
// never re-scans code.
type Module struct {
	Types     []FunctionType
	Imports   []Import
	Functions []Function
	Tables    []TableType
	Memories  []MemoryType
	Globals   []GlobalDefinition
	Exports   []Export
	Start     *uint32
	Elements  []ElementSegment
	Datas     []DataSegment
}

// ImportKind distinguishes the four kinds of importable module entity.
type ImportKind byte

const (
	ImportFunction ImportKind = iota
	ImportTable
	ImportMemory
	ImportGlobal
)

// Import names a module entity the instantiator must supply.
type Import struct {
	Module, Name string
	Kind         ImportKind

	// Exactly one of these is meaningful, selected by Kind.
	FunctionTypeIndex uint32
	TableType         TableType
	MemoryType        MemoryType
	GlobalType        GlobalType
}

// Function is a module-defined (non-imported) function: its signature
// index, local variable declarations, and decoded body.
type Function struct {
	TypeIndex uint32
	Locals    []ValueType
	Code      []Instruction
	Name      string
}

// GlobalDefinition is a module-defined global: its type and constant
// initializer expression.
type GlobalDefinition struct {
	Type GlobalType
	Init []Instruction
}

// ExportKind mirrors ImportKind for the symmetric export side.
type ExportKind = ImportKind

// Export names a module entity visible to the instantiator's host and to
// other modules composed with this one.
type Export struct {
	Name  string
	Kind  ExportKind
	Index uint32
}

// ElementMode distinguishes how an element segment is applied.
type ElementMode byte

const (
	ElementActive ElementMode = iota
	ElementPassive
	ElementDeclarative
)

// ElementSegment is a sequence of function indices used to initialize a
// table. Active segments are applied at instantiation. Passive segments
// are decoded and kept, but table.init is not decoded, so nothing applies
// them. The decoder never produces Declarative segments.
type ElementSegment struct {
	Mode        ElementMode
	TableIndex  uint32
	Offset      []Instruction
	funcIndices []int32
}

// DataMode mirrors ElementMode for linear memory initializers.
type DataMode byte

const (
	DataActive DataMode = iota
	DataPassive
)

// DataSegment is a run of bytes used to initialize linear memory, either
// eagerly at instantiation (Active) or on demand via memory.init
// (Passive). data.drop clears content to nil, which is what makes a
// later memory.init of a dropped passive segment correctly trap: its
// length collapses to zero, so any non-empty copy request fails the
// segment-bounds check in Memory.Init.
type DataSegment struct {
	Mode        DataMode
	MemoryIndex uint32
	Offset      []Instruction
	content     []byte
}
