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

// newTestMachine returns a Machine configured for unit tests, with a
// generous but finite call stack so runaway-recursion tests still trap
// instead of hanging.
func newTestMachine() *Machine {
	cfg := DefaultConfig()
	cfg.MaxCallStackDepth = 128
	return NewMachine(cfg)
}

func defineFunc(inst *Instance, params, results []ValueType, locals []ValueType, code []Instruction) *wasmFunction {
	fn := &wasmFunction{
		typ:      FunctionType{Params: params, Results: results},
		locals:   locals,
		code:     code,
		instance: inst,
	}
	inst.functions = append(inst.functions, fn)
	return fn
}

func newTestInstance() *Instance {
	return &Instance{exports: make(map[string]Export)}
}

func TestMachineAddsTwoLocals(t *testing.T) {
	inst := newTestInstance()
	fn := defineFunc(inst, []ValueType{I32Type, I32Type}, []ValueType{I32Type}, nil, []Instruction{
		{Opcode: opLocalGet, operand: 0},
		{Opcode: opLocalGet, operand: 1},
		{Opcode: opI32Add},
	})

	results, err := newTestMachine().Invoke(fn, []Value{I32(4), I32(5)})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if len(results) != 1 || results[0].AsI32() != 9 {
		t.Fatalf("results = %v, want [9]", results)
	}
}

func TestMachineUnreachableTraps(t *testing.T) {
	inst := newTestInstance()
	fn := defineFunc(inst, nil, nil, nil, []Instruction{{Opcode: opUnreachable}})

	_, err := newTestMachine().Invoke(fn, nil)
	trap, ok := err.(*Trap)
	if !ok {
		t.Fatalf("err = %v (%T), want *Trap", err, err)
	}
	if trap.Unwrap() != errUnreachableExecuted {
		t.Fatalf("trap = %v, want unreachable trap", trap.Unwrap())
	}
}

func TestMachineIfElseTakesTrueBranch(t *testing.T) {
	inst := newTestInstance()
	// if (local0) { 1 } else { 2 }
	ifIns := Instruction{Opcode: opIf, arity: blockArity{count: 1}}
	code := []Instruction{
		{Opcode: opLocalGet, operand: 0},
		ifIns, // index 1
		{Opcode: opI32Const, operand: 1},
		{Opcode: opElse}, // patched below
		{Opcode: opI32Const, operand: 2},
		{Opcode: opEnd}, // patched below
	}
	code[1].labelFalse = 4 // else branch starts at index 4 (first instr after ELSE)
	code[1].labelTrue = 6  // continuation after END
	code[3].labelFalse = 0

	fn := defineFunc(inst, []ValueType{I32Type}, []ValueType{I32Type}, nil, code)

	results, err := newTestMachine().Invoke(fn, []Value{I32(1)})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if results[0].AsI32() != 1 {
		t.Fatalf("true branch result = %d, want 1", results[0].AsI32())
	}

	results, err = newTestMachine().Invoke(fn, []Value{I32(0)})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if results[0].AsI32() != 2 {
		t.Fatalf("false branch result = %d, want 2", results[0].AsI32())
	}
}

func TestMachineLoopCountsDownWithBrIf(t *testing.T) {
	// local0 = n (counter), local1 = accumulator
	// loop:
	//   local1 += local0
	//   local0 -= 1
	//   br_if 0 (local0 != 0)
	// return local1
	loopIns := Instruction{Opcode: opLoop, arity: blockArity{}}
	code := []Instruction{
		loopIns, // 0
		{Opcode: opLocalGet, operand: 1},
		{Opcode: opLocalGet, operand: 0},
		{Opcode: opI32Add},
		{Opcode: opLocalSet, operand: 1},
		{Opcode: opLocalGet, operand: 0},
		{Opcode: opI32Const, operand: 1},
		{Opcode: opI32Sub},
		{Opcode: opLocalTee, operand: 0},
		{Opcode: opBrIf, operand: 0}, // 9: branch to loop start if nonzero
		{Opcode: opEnd},              // 10
		{Opcode: opLocalGet, operand: 1},
	}
	code[0].labelTrue = 10 // continuation past loop's END

	inst := newTestInstance()
	fn := defineFunc(inst, []ValueType{I32Type}, []ValueType{I32Type}, []ValueType{I32Type}, code)

	results, err := newTestMachine().Invoke(fn, []Value{I32(5)})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if got := results[0].AsI32(); got != 15 {
		t.Fatalf("sum 5+4+3+2+1 = %d, want 15", got)
	}
}

func TestMachineCallInvokesCallee(t *testing.T) {
	inst := newTestInstance()
	callee := defineFunc(inst, []ValueType{I32Type}, []ValueType{I32Type}, nil, []Instruction{
		{Opcode: opLocalGet, operand: 0},
		{Opcode: opI32Const, operand: 1},
		{Opcode: opI32Add},
	})
	_ = callee
	caller := defineFunc(inst, []ValueType{I32Type}, []ValueType{I32Type}, nil, []Instruction{
		{Opcode: opLocalGet, operand: 0},
		{Opcode: opCall, operand: 0},
	})

	results, err := newTestMachine().Invoke(caller, []Value{I32(41)})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if results[0].AsI32() != 42 {
		t.Fatalf("result = %d, want 42", results[0].AsI32())
	}
}

func TestMachineCallIndirectTypeMismatchTraps(t *testing.T) {
	inst := newTestInstance()
	defineFunc(inst, []ValueType{I32Type}, []ValueType{I32Type}, nil, []Instruction{
		{Opcode: opLocalGet, operand: 0},
	})
	inst.module = &Module{Types: []FunctionType{
		{Params: []ValueType{I64Type}, Results: []ValueType{I64Type}}, // wanted (mismatches fn 0)
	}}
	table := NewTable(Limits{Min: 1})
	_ = table.Set(0, 0)
	inst.tables = []*Table{table}

	caller := defineFunc(inst, nil, []ValueType{I64Type}, nil, []Instruction{
		{Opcode: opI32Const, operand: 0},
		{Opcode: opCallIndirect, operand: 0, operand2: 0},
	})

	_, err := newTestMachine().Invoke(caller, nil)
	trap, ok := err.(*Trap)
	if !ok {
		t.Fatalf("err = %v (%T), want *Trap", err, err)
	}
	if trap.Unwrap() != errIndirectCallTypeMismatch {
		t.Fatalf("trap = %v, want indirect call type mismatch", trap.Unwrap())
	}
}

func TestMachineCallIndirectUndefinedElementTraps(t *testing.T) {
	inst := newTestInstance()
	inst.module = &Module{Types: []FunctionType{{}}}
	table := NewTable(Limits{Min: 1}) // slot 0 is NullReference
	inst.tables = []*Table{table}

	caller := defineFunc(inst, nil, nil, nil, []Instruction{
		{Opcode: opI32Const, operand: 0},
		{Opcode: opCallIndirect, operand: 0, operand2: 0},
	})

	_, err := newTestMachine().Invoke(caller, nil)
	trap, ok := err.(*Trap)
	if !ok {
		t.Fatalf("err = %v (%T), want *Trap", err, err)
	}
	if trap.Unwrap() != errUndefinedElement {
		t.Fatalf("trap = %v, want undefined element", trap.Unwrap())
	}
}

func TestMachineMemoryOutOfBoundsTraps(t *testing.T) {
	inst := newTestInstance()
	inst.memories = []*Memory{NewMemory(Limits{Min: 1})}
	fn := defineFunc(inst, nil, []ValueType{I32Type}, nil, []Instruction{
		{Opcode: opI32Const, operand: int64(pageSize)},
		{Opcode: opI32Load},
	})

	_, err := newTestMachine().Invoke(fn, nil)
	trap, ok := err.(*Trap)
	if !ok {
		t.Fatalf("err = %v (%T), want *Trap", err, err)
	}
	if trap.Unwrap() != errOutOfBoundsMemory {
		t.Fatalf("trap = %v, want out of bounds memory access", trap.Unwrap())
	}
}

func TestMachineBareBrReturnsFromFunctionBody(t *testing.T) {
	// br 0 with no enclosing BLOCK/LOOP/IF open targets the implicit
	// function-body frame, which is exactly equivalent to RETURN.
	inst := newTestInstance()
	fn := defineFunc(inst, nil, []ValueType{I32Type}, nil, []Instruction{
		{Opcode: opI32Const, operand: 7},
		{Opcode: opBr, operand: 0},
		{Opcode: opI32Const, operand: 99}, // unreachable if br works
		{Opcode: opEnd},
	})

	results, err := newTestMachine().Invoke(fn, nil)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if len(results) != 1 || results[0].AsI32() != 7 {
		t.Fatalf("results = %v, want [7]", results)
	}
}

func TestMachineBareBrIfReturnsFromFunctionBody(t *testing.T) {
	inst := newTestInstance()
	fn := defineFunc(inst, []ValueType{I32Type}, []ValueType{I32Type}, nil, []Instruction{
		{Opcode: opI32Const, operand: 1},
		{Opcode: opLocalGet, operand: 0},
		{Opcode: opBrIf, operand: 0},
		{Opcode: opDrop},
		{Opcode: opI32Const, operand: 2},
		{Opcode: opEnd},
	})

	results, err := newTestMachine().Invoke(fn, []Value{I32(1)})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if results[0].AsI32() != 1 {
		t.Fatalf("taken branch result = %d, want 1", results[0].AsI32())
	}

	results, err = newTestMachine().Invoke(fn, []Value{I32(0)})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if results[0].AsI32() != 2 {
		t.Fatalf("untaken branch result = %d, want 2", results[0].AsI32())
	}
}

func TestMachineGlobalSetOnImmutableGlobalTraps(t *testing.T) {
	inst := newTestInstance()
	inst.globals = []*Global{
		{Type: GlobalType{ValueType: I32Type, Mutable: false}, Value: I32(1)},
	}
	fn := defineFunc(inst, nil, nil, nil, []Instruction{
		{Opcode: opI32Const, operand: 2},
		{Opcode: opGlobalSet, operand: 0},
	})

	_, err := newTestMachine().Invoke(fn, nil)
	trap, ok := err.(*Trap)
	if !ok {
		t.Fatalf("err = %v (%T), want *Trap", err, err)
	}
	if trap.Unwrap() != errImmutableGlobal {
		t.Fatalf("trap = %v, want immutable global", trap.Unwrap())
	}
}

func TestMachineGlobalSetOnMutableGlobalSucceeds(t *testing.T) {
	inst := newTestInstance()
	inst.globals = []*Global{
		{Type: GlobalType{ValueType: I32Type, Mutable: true}, Value: I32(1)},
	}
	fn := defineFunc(inst, nil, []ValueType{I32Type}, nil, []Instruction{
		{Opcode: opI32Const, operand: 2},
		{Opcode: opGlobalSet, operand: 0},
		{Opcode: opGlobalGet, operand: 0},
	})

	results, err := newTestMachine().Invoke(fn, nil)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if results[0].AsI32() != 2 {
		t.Fatalf("result = %d, want 2", results[0].AsI32())
	}
}

func TestMachineHighMemoryAddressDoesNotWrapToZero(t *testing.T) {
	// A base of -1 (i.e. the unsigned 32-bit address 0xFFFFFFFF) plus a
	// static offset of 1 names the effective address 0x100000000: always
	// out of bounds for a memory far smaller than 4 GiB+1. Sign-extending
	// the negative base to uint64 before adding wraps the sum around to 0,
	// which would wrongly succeed against any non-empty memory instead of
	// trapping.
	inst := newTestInstance()
	inst.memories = []*Memory{NewMemory(Limits{Min: 1})}
	fn := defineFunc(inst, nil, []ValueType{I32Type}, nil, []Instruction{
		{Opcode: opI32Const, operand: -1},
		{Opcode: opI32Load, operand: 1},
	})

	_, err := newTestMachine().Invoke(fn, nil)
	trap, ok := err.(*Trap)
	if !ok {
		t.Fatalf("err = %v (%T), want *Trap", err, err)
	}
	if trap.Unwrap() != errOutOfBoundsMemory {
		t.Fatalf("trap = %v, want out of bounds memory access", trap.Unwrap())
	}
}

func TestMachineCallStackExhaustedTraps(t *testing.T) {
	inst := newTestInstance()
	var fn *wasmFunction
	fn = defineFunc(inst, nil, nil, nil, nil) // placeholder, patched below
	fn.code = []Instruction{
		{Opcode: opCall, operand: 0}, // recurse into itself forever
	}

	cfg := DefaultConfig()
	cfg.MaxCallStackDepth = 16
	_, err := NewMachine(cfg).Invoke(fn, nil)
	trap, ok := err.(*Trap)
	if !ok {
		t.Fatalf("err = %v (%T), want *Trap", err, err)
	}
	if trap.Unwrap() != errCallStackExhausted {
		t.Fatalf("trap = %v, want call stack exhausted", trap.Unwrap())
	}
}
