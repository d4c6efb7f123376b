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

	"go.uber.org/zap"
)

// Runtime is the top-level entry point: it decodes and links modules
// into Instances and drives a Machine to execute them.
type Runtime struct {
	config  Config
	machine *Machine
	log     *zap.Logger
}

// NewRuntime constructs a Runtime with the default configuration.
func NewRuntime() *Runtime {
	return NewRuntimeWithConfig(DefaultConfig())
}

// NewRuntimeWithConfig constructs a Runtime tuned by cfg.
func NewRuntimeWithConfig(cfg Config) *Runtime {
	return &Runtime{config: cfg, machine: NewMachine(cfg), log: cfg.logger()}
}

// Instantiate decodes, validates, links, and instantiates a .wasm binary,
// running its start function (if any) before returning.
func (rt *Runtime) Instantiate(data []byte, imports *ImportProvider) (*Instance, error) {
	module, err := DecodeModule(data)
	if err != nil {
		return nil, fmt.Errorf("ember: decode: %w", err)
	}
	if err := Validate(module); err != nil {
		return nil, fmt.Errorf("ember: validate: %w", err)
	}
	if imports == nil {
		imports = NewImportProvider()
	}

	inst := &Instance{module: module, exports: make(map[string]Export)}

	if err := linkImports(inst, module, imports); err != nil {
		return nil, err
	}

	for _, fd := range module.Functions {
		inst.functions = append(inst.functions, &wasmFunction{
			typ:    module.Types[fd.TypeIndex],
			locals: fd.Locals,
			code:   fd.Code,
		})
	}
	// Fix up each defined function's instance pointer now that inst exists;
	// imported functions never reference it (host closures are self
	// contained), so only the module-defined tail needs the backlink. The
	// same pass names each defined function by its index for trap traces.
	start := len(inst.functions) - len(module.Functions)
	for i := start; i < len(inst.functions); i++ {
		inst.functions[i].instance = inst
		inst.functions[i].debugName = fmt.Sprintf("func[%d]", i)
	}

	for _, t := range module.Tables {
		inst.tables = append(inst.tables, NewTable(t.Limits))
	}
	for _, mt := range module.Memories {
		inst.memories = append(inst.memories, NewMemory(mt.Limits))
	}
	for _, g := range module.Globals {
		inst.globals = append(inst.globals, &Global{
			Type:  g.Type,
			Value: evalConstExpr(inst, g.Init),
		})
	}

	for i := range module.Elements {
		inst.elements = append(inst.elements, &module.Elements[i])
	}
	for i := range module.Datas {
		inst.datas = append(inst.datas, &module.Datas[i])
	}

	for _, exp := range module.Exports {
		inst.exports[exp.Name] = exp
	}

	if err := rt.initializeSegments(inst, module); err != nil {
		return nil, err
	}

	if module.Start != nil {
		fn := inst.functions[*module.Start]
		if _, err := rt.machine.Invoke(fn, nil); err != nil {
			rt.log.Error("start function trapped", zap.Error(err))
			return nil, err
		}
	}

	rt.log.Debug("instantiated module",
		zap.Int("functions", len(inst.functions)),
		zap.Int("exports", len(inst.exports)))
	return inst, nil
}

// initializeSegments eagerly applies every active element and data
// segment. Passive data segments are left untouched until a memory.init
// instruction consumes them; passive element segments are kept but no
// decoded instruction reads them.
func (rt *Runtime) initializeSegments(inst *Instance, module *Module) error {
	for _, seg := range inst.elements {
		if seg.Mode != ElementActive {
			continue
		}
		table := inst.tables[seg.TableIndex]
		offset := evalConstExpr(inst, seg.Offset).AsI32()
		if err := table.Init(uint32(offset), seg, 0, uint32(len(seg.funcIndices))); err != nil {
			return fmt.Errorf("ember: element segment init: %w", err)
		}
	}
	for _, seg := range inst.datas {
		if seg.Mode != DataActive {
			continue
		}
		mem := inst.memories[seg.MemoryIndex]
		offset := evalConstExpr(inst, seg.Offset).AsI32()
		if err := mem.Init(uint64(uint32(offset)), seg, 0, uint64(len(seg.content))); err != nil {
			return fmt.Errorf("ember: data segment init: %w", err)
		}
	}
	return nil
}

// linkImports resolves a module's import declarations against the
// provided host bindings, appending to inst's index spaces in import
// order (ahead of the module's own definitions, per the binary format's
// index-space rules).
func linkImports(inst *Instance, module *Module, imports *ImportProvider) error {
	for _, imp := range module.Imports {
		key := importKey{imp.Module, imp.Name}
		switch imp.Kind {
		case ImportFunction:
			def, ok := imports.functions[key]
			if !ok {
				return newLinkError("unresolved function import %s.%s", imp.Module, imp.Name)
			}
			wantType := module.Types[imp.FunctionTypeIndex]
			if !def.typ.Equal(wantType) {
				return newLinkError("function import %s.%s: type mismatch", imp.Module, imp.Name)
			}
			inst.functions = append(inst.functions, &wasmFunction{
				typ:       def.typ,
				host:      def.fn,
				debugName: imp.Module + "." + imp.Name,
			})
		case ImportTable:
			t, ok := imports.tables[key]
			if !ok {
				return newLinkError("unresolved table import %s.%s", imp.Module, imp.Name)
			}
			inst.tables = append(inst.tables, t)
		case ImportMemory:
			m, ok := imports.memories[key]
			if !ok {
				return newLinkError("unresolved memory import %s.%s", imp.Module, imp.Name)
			}
			inst.memories = append(inst.memories, m)
		case ImportGlobal:
			v, ok := imports.globals[key]
			if !ok {
				return newLinkError("unresolved global import %s.%s", imp.Module, imp.Name)
			}
			inst.globals = append(inst.globals, &Global{Type: imp.GlobalType, Value: v})
		}
	}
	return nil
}

// evalConstExpr evaluates a constant initializer expression: a single
// i32/i64/f32/f64 const or a global.get of an already-initialized
// (necessarily earlier-indexed, import or module-defined-before-this-
// point) global, followed by END. These are the only two forms the Core
// specification allows for global initializers and active segment
// offsets once reference-type const expressions (ref.null/ref.func) are
// out of scope, matching Ember's funcref-only, non-goal-trimmed surface.
func evalConstExpr(inst *Instance, code []Instruction) Value {
	ins := code[0]
	switch ins.Opcode {
	case opI32Const:
		return I32(int32(ins.operand))
	case opI64Const:
		return I64(ins.operand)
	case opF32Const:
		return valueFromBits(uint64(uint32(ins.operand)), F32Type)
	case opF64Const:
		return valueFromBits(uint64(ins.operand), F64Type)
	case opGlobalGet:
		return inst.globals[ins.operand].Value
	default:
		panic("ember: unsupported constant expression")
	}
}

// Invoke calls an exported function on inst by name with untyped Go
// arguments, converting them to Values via their natural type (int32,
// int64, float32, float64) and back. This is the convenient, reflective
// entry point for embedders who do not want to build Values by hand; see
// Instance.ExportedFunction and Machine.Invoke for the typed form.
func (rt *Runtime) Invoke(inst *Instance, name string, args ...any) ([]any, error) {
	fn, err := inst.ExportedFunction(name)
	if err != nil {
		return nil, err
	}
	if len(args) != len(fn.typ.Params) {
		return nil, newLinkError("%s expects %d arguments, got %d", name, len(fn.typ.Params), len(args))
	}
	values := make([]Value, len(args))
	for i, a := range args {
		v, err := nativeToValue(a, fn.typ.Params[i])
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	results, err := rt.machine.Invoke(fn, values)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(results))
	for i, r := range results {
		out[i] = valueToNative(r)
	}
	return out, nil
}

func nativeToValue(a any, want ValueType) (Value, error) {
	switch v := a.(type) {
	case int32:
		return I32(v), nil
	case int64:
		return I64(v), nil
	case float32:
		return F32(v), nil
	case float64:
		return F64(v), nil
	case int:
		if want == I64Type {
			return I64(int64(v)), nil
		}
		return I32(int32(v)), nil
	default:
		return Value{}, newLinkError("unsupported argument type %T", a)
	}
}

func valueToNative(v Value) any {
	switch v.Type() {
	case I32Type:
		return v.AsI32()
	case I64Type:
		return v.AsI64()
	case F32Type:
		return v.AsF32()
	case F64Type:
		return v.AsF64()
	case FuncRefType:
		return v.AsI32()
	default:
		return nil
	}
}
