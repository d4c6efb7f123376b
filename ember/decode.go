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

import "fmt"

const (
	wasmMagic   = 0x6d736100
	wasmVersion = 1
)

const emptyBlockType = 0x40

// sectionID identifies the top-level sections of the binary format.
type sectionID byte

const (
	secCustom sectionID = iota
	secType
	secImport
	secFunction
	secTable
	secMemory
	secGlobal
	secExport
	secStart
	secElement
	secCode
	secData
)

// DecodeModule parses a complete .wasm binary into a Module. Every
// function body's branch targets are resolved during this single pass:
// the interpreter never scans code at runtime.
func DecodeModule(data []byte) (*Module, error) {
	r := newReader(data)
	magic, err := r.bytes(4)
	if err != nil {
		return nil, fmt.Errorf("ember: %w", err)
	}
	if uint32(magic[0])|uint32(magic[1])<<8|uint32(magic[2])<<16|uint32(magic[3])<<24 != wasmMagic {
		return nil, fmt.Errorf("ember: not a wasm module (bad magic)")
	}
	version, err := r.bytes(4)
	if err != nil {
		return nil, fmt.Errorf("ember: %w", err)
	}
	if uint32(version[0])|uint32(version[1])<<8|uint32(version[2])<<16|uint32(version[3])<<24 != wasmVersion {
		return nil, fmt.Errorf("ember: unsupported wasm version")
	}

	d := &moduleDecoder{module: &Module{}}

	var funcTypeIndices []uint32
	var codeBodies [][]byte

	for !r.atEnd() {
		id, err := r.byte()
		if err != nil {
			return nil, err
		}
		size, err := r.u32()
		if err != nil {
			return nil, err
		}
		body, err := r.bytes(int(size))
		if err != nil {
			return nil, err
		}
		sr := newReader(body)

		switch sectionID(id) {
		case secType:
			if err := d.decodeTypeSection(sr); err != nil {
				return nil, err
			}
		case secImport:
			if err := d.decodeImportSection(sr); err != nil {
				return nil, err
			}
		case secFunction:
			funcTypeIndices, err = decodeIndexVector(sr)
			if err != nil {
				return nil, err
			}
		case secTable:
			if err := d.decodeTableSection(sr); err != nil {
				return nil, err
			}
		case secMemory:
			if err := d.decodeMemorySection(sr); err != nil {
				return nil, err
			}
		case secGlobal:
			if err := d.decodeGlobalSection(sr); err != nil {
				return nil, err
			}
		case secExport:
			if err := d.decodeExportSection(sr); err != nil {
				return nil, err
			}
		case secStart:
			idx, err := sr.u32()
			if err != nil {
				return nil, err
			}
			d.module.Start = &idx
		case secElement:
			if err := d.decodeElementSection(sr); err != nil {
				return nil, err
			}
		case secCode:
			codeBodies, err = decodeCodeSection(sr)
			if err != nil {
				return nil, err
			}
		case secData:
			if err := d.decodeDataSection(sr); err != nil {
				return nil, err
			}
		case secCustom:
			// Name sections and other custom payloads carry no semantic
			// weight for execution; custom name resolution is a non-goal.
		default:
			return nil, fmt.Errorf("ember: unknown section id %d", id)
		}
	}

	if len(funcTypeIndices) != len(codeBodies) {
		return nil, fmt.Errorf("ember: function and code section counts disagree")
	}
	for i, typeIdx := range funcTypeIndices {
		if int(typeIdx) >= len(d.module.Types) {
			return nil, fmt.Errorf("ember: function %d references unknown type %d", i, typeIdx)
		}
		fn, err := decodeFunctionBody(d.module.Types[typeIdx], codeBodies[i])
		if err != nil {
			return nil, fmt.Errorf("ember: function %d: %w", i, err)
		}
		fn.TypeIndex = typeIdx
		d.module.Functions = append(d.module.Functions, fn)
	}

	return d.module, nil
}

type moduleDecoder struct {
	module *Module
}

func (d *moduleDecoder) decodeTypeSection(r *reader) error {
	n, err := r.u32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		tag, err := r.byte()
		if err != nil {
			return err
		}
		if tag != 0x60 {
			return fmt.Errorf("ember: expected function type tag, got 0x%x", tag)
		}
		params, err := decodeValueTypeVector(r)
		if err != nil {
			return err
		}
		results, err := decodeValueTypeVector(r)
		if err != nil {
			return err
		}
		d.module.Types = append(d.module.Types, FunctionType{Params: params, Results: results})
	}
	return nil
}

func decodeValueTypeVector(r *reader) ([]ValueType, error) {
	n, err := r.u32()
	if err != nil {
		return nil, err
	}
	out := make([]ValueType, n)
	for i := range out {
		t, err := r.valueType()
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

func decodeIndexVector(r *reader) ([]uint32, error) {
	n, err := r.u32()
	if err != nil {
		return nil, err
	}
	out := make([]uint32, n)
	for i := range out {
		v, err := r.u32()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func decodeLimits(r *reader) (Limits, error) {
	flag, err := r.byte()
	if err != nil {
		return Limits{}, err
	}
	min, err := r.u32()
	if err != nil {
		return Limits{}, err
	}
	l := Limits{Min: min}
	if flag == 1 {
		max, err := r.u32()
		if err != nil {
			return Limits{}, err
		}
		l.Max = &max
	}
	return l, nil
}

func decodeTableType(r *reader) (TableType, error) {
	elemType, err := r.byte()
	if err != nil {
		return TableType{}, err
	}
	if ValueType(elemType) != FuncRefType {
		return TableType{}, fmt.Errorf("ember: only funcref tables are supported")
	}
	limits, err := decodeLimits(r)
	if err != nil {
		return TableType{}, err
	}
	return TableType{Limits: limits}, nil
}

func (d *moduleDecoder) decodeImportSection(r *reader) error {
	n, err := r.u32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		module, err := r.name()
		if err != nil {
			return err
		}
		name, err := r.name()
		if err != nil {
			return err
		}
		kind, err := r.byte()
		if err != nil {
			return err
		}
		imp := Import{Module: module, Name: name, Kind: ImportKind(kind)}
		switch ImportKind(kind) {
		case ImportFunction:
			imp.FunctionTypeIndex, err = r.u32()
		case ImportTable:
			imp.TableType, err = decodeTableType(r)
		case ImportMemory:
			imp.MemoryType.Limits, err = decodeLimits(r)
		case ImportGlobal:
			var vt ValueType
			vt, err = r.valueType()
			if err == nil {
				imp.GlobalType.ValueType = vt
				var mut byte
				mut, err = r.byte()
				imp.GlobalType.Mutable = mut == 1
			}
		default:
			return fmt.Errorf("ember: unknown import kind %d", kind)
		}
		if err != nil {
			return err
		}
		d.module.Imports = append(d.module.Imports, imp)
	}
	return nil
}

func (d *moduleDecoder) decodeTableSection(r *reader) error {
	n, err := r.u32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		t, err := decodeTableType(r)
		if err != nil {
			return err
		}
		d.module.Tables = append(d.module.Tables, t)
	}
	return nil
}

func (d *moduleDecoder) decodeMemorySection(r *reader) error {
	n, err := r.u32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		limits, err := decodeLimits(r)
		if err != nil {
			return err
		}
		d.module.Memories = append(d.module.Memories, MemoryType{Limits: limits})
	}
	return nil
}

func (d *moduleDecoder) decodeGlobalSection(r *reader) error {
	n, err := r.u32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		vt, err := r.valueType()
		if err != nil {
			return err
		}
		mut, err := r.byte()
		if err != nil {
			return err
		}
		init, err := decodeConstExpr(r)
		if err != nil {
			return err
		}
		d.module.Globals = append(d.module.Globals, GlobalDefinition{
			Type: GlobalType{ValueType: vt, Mutable: mut == 1},
			Init: init,
		})
	}
	return nil
}

func (d *moduleDecoder) decodeExportSection(r *reader) error {
	n, err := r.u32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		name, err := r.name()
		if err != nil {
			return err
		}
		kind, err := r.byte()
		if err != nil {
			return err
		}
		idx, err := r.u32()
		if err != nil {
			return err
		}
		d.module.Exports = append(d.module.Exports, Export{Name: name, Kind: ExportKind(kind), Index: idx})
	}
	return nil
}

func (d *moduleDecoder) decodeElementSection(r *reader) error {
	n, err := r.u32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		flag, err := r.u32()
		if err != nil {
			return err
		}
		seg := ElementSegment{}
		switch flag {
		case 0:
			seg.Mode = ElementActive
			seg.Offset, err = decodeConstExpr(r)
			if err != nil {
				return err
			}
			idxs, err := decodeIndexVector(r)
			if err != nil {
				return err
			}
			seg.funcIndices = int32Slice(idxs)
		case 1:
			seg.Mode = ElementPassive
			if _, err := r.byte(); err != nil { // elemkind, always 0x00 (funcref)
				return err
			}
			idxs, err := decodeIndexVector(r)
			if err != nil {
				return err
			}
			seg.funcIndices = int32Slice(idxs)
		case 2:
			seg.Mode = ElementActive
			seg.TableIndex, err = r.u32()
			if err != nil {
				return err
			}
			seg.Offset, err = decodeConstExpr(r)
			if err != nil {
				return err
			}
			if _, err := r.byte(); err != nil {
				return err
			}
			idxs, err := decodeIndexVector(r)
			if err != nil {
				return err
			}
			seg.funcIndices = int32Slice(idxs)
		default:
			return fmt.Errorf("ember: unsupported element segment flag %d (non-function-index element segments are a non-goal)", flag)
		}
		d.module.Elements = append(d.module.Elements, seg)
	}
	return nil
}

func (d *moduleDecoder) decodeDataSection(r *reader) error {
	n, err := r.u32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		flag, err := r.u32()
		if err != nil {
			return err
		}
		seg := DataSegment{}
		switch flag {
		case 0:
			seg.Mode = DataActive
			seg.Offset, err = decodeConstExpr(r)
			if err != nil {
				return err
			}
		case 1:
			seg.Mode = DataPassive
		case 2:
			seg.Mode = DataActive
			seg.MemoryIndex, err = r.u32()
			if err != nil {
				return err
			}
			seg.Offset, err = decodeConstExpr(r)
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf("ember: unknown data segment flag %d", flag)
		}
		size, err := r.u32()
		if err != nil {
			return err
		}
		content, err := r.bytes(int(size))
		if err != nil {
			return err
		}
		seg.content = append([]byte(nil), content...)
		d.module.Datas = append(d.module.Datas, seg)
	}
	return nil
}

func decodeCodeSection(r *reader) ([][]byte, error) {
	n, err := r.u32()
	if err != nil {
		return nil, err
	}
	bodies := make([][]byte, n)
	for i := uint32(0); i < n; i++ {
		size, err := r.u32()
		if err != nil {
			return nil, err
		}
		body, err := r.bytes(int(size))
		if err != nil {
			return nil, err
		}
		bodies[i] = body
	}
	return bodies, nil
}

func int32Slice(u []uint32) []int32 {
	out := make([]int32, len(u))
	for i, v := range u {
		out[i] = int32(v)
	}
	return out
}

// decodeConstExpr decodes a constant initializer expression (used by
// globals and active element/data segment offsets): a single constant or
// global.get instruction followed by END.
func decodeConstExpr(r *reader) ([]Instruction, error) {
	return decodeInstructions(r, nil)
}
