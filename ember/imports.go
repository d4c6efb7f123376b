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

type importKey struct{ module, name string }

// hostFuncDef pairs a host function with the signature Ember advertises
// it under, so a module importing it can be checked for a type match.
type hostFuncDef struct {
	typ FunctionType
	fn  HostFunc
}

// ImportProvider collects the host-supplied functions, globals, memory,
// and table a module's imports resolve against. Construct one with
// NewImportProvider and chain the With* methods, then pass it to
// Runtime.Instantiate.
type ImportProvider struct {
	functions map[importKey]hostFuncDef
	globals   map[importKey]Value
	memories  map[importKey]*Memory
	tables    map[importKey]*Table
}

// NewImportProvider returns an empty provider.
func NewImportProvider() *ImportProvider {
	return &ImportProvider{
		functions: make(map[importKey]hostFuncDef),
		globals:   make(map[importKey]Value),
		memories:  make(map[importKey]*Memory),
		tables:    make(map[importKey]*Table),
	}
}

// WithFunction registers a host function importable as module.name.
func (p *ImportProvider) WithFunction(module, name string, typ FunctionType, fn HostFunc) *ImportProvider {
	p.functions[importKey{module, name}] = hostFuncDef{typ: typ, fn: fn}
	return p
}

// WithGlobal registers a constant value importable as a global.
func (p *ImportProvider) WithGlobal(module, name string, v Value) *ImportProvider {
	p.globals[importKey{module, name}] = v
	return p
}

// WithMemory registers a Memory importable by a module that declares a
// compatible memory import. Sharing a single Memory between instances is
// how a host exposes shared linear memory to more than one module.
func (p *ImportProvider) WithMemory(module, name string, m *Memory) *ImportProvider {
	p.memories[importKey{module, name}] = m
	return p
}

// WithTable registers a Table importable by a module.
func (p *ImportProvider) WithTable(module, name string, t *Table) *ImportProvider {
	p.tables[importKey{module, name}] = t
	return p
}
