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

// HostFunc is a Go-implemented function a host registers to be callable
// from instantiated WebAssembly code.
type HostFunc func(args []Value) ([]Value, error)

// wasmFunction is a single function after instantiation: its signature,
// decoded body, and the instance it closes over (needed to resolve the
// memory/table/globals its code references).
type wasmFunction struct {
	typ      FunctionType
	locals   []ValueType
	code     []Instruction
	instance *Instance

	host      HostFunc
	debugName string
}

func (f *wasmFunction) isHost() bool { return f.host != nil }

// Global is an instantiated global variable: a mutable or constant cell
// holding a single Value.
type Global struct {
	Type  GlobalType
	Value Value
}

// Instance is a fully linked, instantiated module: its functions, tables,
// memory, globals, and exports, ready to be invoked.
type Instance struct {
	module *Module

	functions []*wasmFunction
	tables    []*Table
	memories  []*Memory
	globals   []*Global

	exports map[string]Export

	// elements holds the module's element segments, indexed as declared.
	// Active ones are applied at instantiation; table.init and elem.drop
	// are not decoded, so passive ones are never read or cleared. datas
	// holds the data segments, whose content data.drop clears.
	elements []*ElementSegment
	datas    []*DataSegment
}

// Memory0 returns the instance's single linear memory, or nil if it
// declares none. Multiple memories per instance are a non-goal.
func (inst *Instance) Memory0() *Memory {
	if len(inst.memories) == 0 {
		return nil
	}
	return inst.memories[0]
}

// Table0 returns the instance's single table, or nil if it declares none.
func (inst *Instance) Table0() *Table {
	if len(inst.tables) == 0 {
		return nil
	}
	return inst.tables[0]
}

// Export looks up a named export, returning ok=false if absent.
func (inst *Instance) Export(name string) (Export, bool) {
	e, ok := inst.exports[name]
	return e, ok
}

// ExportedFunction resolves a named function export for invocation from
// the host.
func (inst *Instance) ExportedFunction(name string) (*wasmFunction, error) {
	e, ok := inst.exports[name]
	if !ok || e.Kind != ImportFunction {
		return nil, newLinkError("no exported function named %q", name)
	}
	return inst.functions[e.Index], nil
}
