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

	"go.uber.org/multierr"
)

// Validate performs the structural checks Ember requires before
// instantiation: every index a module declares (exports, the start
// function, element/data segment targets) must resolve within that
// module's own index spaces. This is a light validator, not the full
// type-checker the Core specification describes — Ember trusts that
// locally-produced or already-trusted modules are well-typed, and relies
// on runtime traps (not compile-time rejection) for stack-discipline
// violations. All failures found are collected and returned together via
// multierr rather than stopping at the first one, so a caller fixing a
// malformed module sees every problem in one pass.
func Validate(m *Module) error {
	numImportedFuncs, numImportedTables, numImportedMemories, numImportedGlobals := countImportsByKind(m)

	totalFuncs := numImportedFuncs + uint32(len(m.Functions))
	totalTables := numImportedTables + uint32(len(m.Tables))
	totalMemories := numImportedMemories + uint32(len(m.Memories))
	totalGlobals := numImportedGlobals + uint32(len(m.Globals))

	var err error

	for _, exp := range m.Exports {
		var max uint32
		switch exp.Kind {
		case ImportFunction:
			max = totalFuncs
		case ImportTable:
			max = totalTables
		case ImportMemory:
			max = totalMemories
		case ImportGlobal:
			max = totalGlobals
		}
		if exp.Index >= max {
			err = multierr.Append(err, fmt.Errorf("export %q: index %d out of range", exp.Name, exp.Index))
		}
	}

	if m.Start != nil {
		if *m.Start >= totalFuncs {
			err = multierr.Append(err, fmt.Errorf("start function index %d out of range", *m.Start))
		}
	}

	if totalMemories > 1 {
		err = multierr.Append(err, fmt.Errorf("multiple memories are not supported"))
	}
	if totalTables > 1 {
		err = multierr.Append(err, fmt.Errorf("multiple tables are not supported"))
	}

	for i, seg := range m.Elements {
		if seg.TableIndex >= totalTables && seg.Mode == ElementActive {
			err = multierr.Append(err, fmt.Errorf("element segment %d: table index %d out of range", i, seg.TableIndex))
		}
		for _, fi := range seg.funcIndices {
			if fi != NullReference && uint32(fi) >= totalFuncs {
				err = multierr.Append(err, fmt.Errorf("element segment %d: function index %d out of range", i, fi))
			}
		}
	}

	for i, seg := range m.Datas {
		if seg.Mode == DataActive && seg.MemoryIndex >= totalMemories {
			err = multierr.Append(err, fmt.Errorf("data segment %d: memory index %d out of range", i, seg.MemoryIndex))
		}
	}

	return err
}

func countImportsByKind(m *Module) (funcs, tables, memories, globals uint32) {
	for _, imp := range m.Imports {
		switch imp.Kind {
		case ImportFunction:
			funcs++
		case ImportTable:
			tables++
		case ImportMemory:
			memories++
		case ImportGlobal:
			globals++
		}
	}
	return
}
