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
	"go.uber.org/zap"
)

// Machine executes decoded instruction streams against instantiated
// modules. A single Machine can drive any number of Instances; each
// top-level Invoke allocates its own operand and call stacks. A Machine
// is not safe for concurrent use from multiple goroutines, matching the
// single operand-stack-per-thread model real WebAssembly embedders use.
type Machine struct {
	config Config
	log    *zap.Logger
}

// NewMachine constructs a Machine with the given configuration.
func NewMachine(cfg Config) *Machine {
	return &Machine{config: cfg, log: cfg.logger()}
}

// Invoke calls an exported or host function with the given arguments,
// returning its results or the Trap/error that aborted it.
func (m *Machine) Invoke(fn *wasmFunction, args []Value) ([]Value, error) {
	stack := newOperandStack()
	calls := newCallStack(m.config.MaxCallStackDepth)
	return m.invoke(stack, calls, fn, args)
}

func (m *Machine) invoke(stack *operandStack, calls *callStack, fn *wasmFunction, args []Value) ([]Value, error) {
	if fn.isHost() {
		results, err := fn.host(args)
		if err != nil {
			return nil, err
		}
		return results, nil
	}

	locals := make([]Value, len(fn.typ.Params)+len(fn.locals))
	copy(locals, args)
	for i, t := range fn.locals {
		locals[len(fn.typ.Params)+i] = defaultValue(t)
	}

	frame := newCallFrame(fn, locals)
	// The operand stack is shared with the caller: the function body's
	// implicit frame starts at the caller's current height, not at zero.
	frame.controlStack[0].stackHeight = stack.size()
	if err := calls.push(frame); err != nil {
		return nil, newTrap(err, calls.snapshot())
	}
	defer calls.pop()

	if err := m.run(stack, calls, frame); err != nil {
		if trap, ok := err.(*Trap); ok {
			return nil, trap
		}
		return nil, newTrap(err, calls.snapshot())
	}

	results := make([]Value, len(fn.typ.Results))
	for i := len(results) - 1; i >= 0; i-- {
		results[i] = stack.pop()
	}
	return results, nil
}

// run executes frame's instruction stream to completion (a RETURN, or
// falling off the end of the top-level code), leaving exactly the
// function's result arity of values atop stack.
func (m *Machine) run(stack *operandStack, calls *callStack, frame *callFrame) error {
	for {
		if int(frame.pc) >= len(frame.code) {
			return nil
		}
		ins := frame.code[frame.pc]

		switch ins.Opcode {
		case opUnreachable:
			return errUnreachableExecuted

		case opNop:
			frame.pc++

		case opBlock:
			m.enterBlock(frame, stack, ins, false)
			frame.pc++

		case opLoop:
			m.enterBlock(frame, stack, ins, true)
			frame.pc++

		case opIf:
			cond := stack.popI32()
			m.enterBlock(frame, stack, ins, false)
			if cond == 0 {
				frame.pc = ins.labelFalse
			} else {
				frame.pc++
			}

		case opElse:
			// Reached by falling through a taken IF-branch: skip to the
			// matching END, discarding the ELSE arm entirely.
			cf := frame.popControl()
			frame.pc = cf.continuationPC

		case opEnd:
			// Every frame's controlStack carries an implicit entry for the
			// function body itself (pushed by newCallFrame; a branch that
			// pops it also ends the run), so this always has something to
			// pop: a nested BLOCK/LOOP/IF's END pops that block's own frame and execution
			// continues; the function's own closing END pops the implicit
			// frame, and an empty controlStack then means the function is
			// done.
			frame.popControl()
			if len(frame.controlStack) == 0 {
				return nil
			}
			frame.pc++

		case opBr:
			m.branch(frame, stack, uint32(ins.operand))

		case opBrIf:
			if stack.popI32() != 0 {
				m.branch(frame, stack, uint32(ins.operand))
			} else {
				frame.pc++
			}

		case opBrTable:
			idx := uint32(stack.popI32())
			if idx >= uint32(len(ins.labelTable))-1 {
				idx = uint32(len(ins.labelTable)) - 1
			}
			m.branch(frame, stack, ins.labelTable[idx])

		case opReturn:
			body := frame.controlStack[0]
			stack.unwind(body.stackHeight, body.arity)
			return nil

		case opCall:
			if err := m.call(stack, calls, frame.function.instance.functions[ins.operand]); err != nil {
				return err
			}
			frame.pc++

		case opCallIndirect:
			if err := m.callIndirect(stack, calls, frame, ins); err != nil {
				return err
			}
			frame.pc++

		case opDrop:
			stack.drop()
			frame.pc++

		case opSelect:
			cond := stack.popI32()
			b := stack.pop()
			a := stack.pop()
			if cond != 0 {
				stack.push(a)
			} else {
				stack.push(b)
			}
			frame.pc++

		case opLocalGet:
			stack.push(frame.locals[ins.operand])
			frame.pc++

		case opLocalSet:
			frame.locals[ins.operand] = stack.pop()
			frame.pc++

		case opLocalTee:
			frame.locals[ins.operand] = stack.peek()
			frame.pc++

		case opGlobalGet:
			stack.push(frame.function.instance.globals[ins.operand].Value)
			frame.pc++

		case opGlobalSet:
			g := frame.function.instance.globals[ins.operand]
			if !g.Type.Mutable {
				return errImmutableGlobal
			}
			g.Value = stack.pop()
			frame.pc++

		case opI32Const:
			stack.pushI32(int32(ins.operand))
			frame.pc++

		case opI64Const:
			stack.pushI64(ins.operand)
			frame.pc++

		case opF32Const:
			stack.push(valueFromBits(uint64(uint32(ins.operand)), F32Type))
			frame.pc++

		case opF64Const:
			stack.push(valueFromBits(uint64(ins.operand), F64Type))
			frame.pc++

		case opMemoryInit, opDataDrop, opMemoryCopy, opMemoryFill,
			opI32Load, opI64Load, opF32Load, opF64Load,
			opI32Load8S, opI32Load8U, opI32Load16S, opI32Load16U,
			opI64Load8S, opI64Load8U, opI64Load16S, opI64Load16U, opI64Load32S, opI64Load32U,
			opI32Store, opI64Store, opF32Store, opF64Store,
			opI32Store8, opI32Store16, opI64Store8, opI64Store16, opI64Store32,
			opMemorySize, opMemoryGrow:
			if err := m.execMemory(stack, frame, ins); err != nil {
				return err
			}
			frame.pc++

		default:
			if err := m.execNumeric(stack, ins); err != nil {
				return err
			}
			frame.pc++
		}
	}
}

// enterBlock pushes a control frame for a BLOCK/LOOP/IF, recording the
// operand-stack height observed on entry and the target a branch to this
// frame resumes at.
func (m *Machine) enterBlock(frame *callFrame, stack *operandStack, ins Instruction, isLoop bool) {
	target := ins.labelTrue
	arity := ins.arity.count
	if isLoop {
		target = frame.pc + 1
		arity = ins.arity.inputCount
	}
	frame.pushControl(controlFrame{
		isLoop:         isLoop,
		stackHeight:    stack.size() - ins.arity.inputCount,
		arity:          arity,
		continuationPC: ins.labelTrue,
		branchTarget:   target,
	})
}

// branch implements BR/BR_IF/BR_TABLE: unwind the operand stack to the
// targeted control frame's entry height (preserving its arity of
// results, or of inputs when re-entering a loop), pop every intervening
// control frame, and jump.
func (m *Machine) branch(frame *callFrame, stack *operandStack, depth uint32) {
	cf := frame.controlAt(depth)
	stack.unwind(cf.stackHeight, cf.arity)

	// A branch to a LOOP re-enters it: the loop's own control frame stays
	// on the stack (its height/arity apply unchanged to the next
	// iteration), only the frames nested inside it are discarded. A
	// branch to a BLOCK/IF really does leave it, so its frame is popped
	// along with everything nested inside.
	popCount := depth
	if !cf.isLoop {
		popCount++
	}
	for i := uint32(0); i < popCount; i++ {
		frame.popControl()
	}
	frame.pc = cf.branchTarget
}

func (m *Machine) call(stack *operandStack, calls *callStack, fn *wasmFunction) error {
	args := make([]Value, len(fn.typ.Params))
	for i := len(args) - 1; i >= 0; i-- {
		args[i] = stack.pop()
	}
	results, err := m.invoke(stack, calls, fn, args)
	if err != nil {
		return err
	}
	for _, r := range results {
		stack.push(r)
	}
	return nil
}

func (m *Machine) callIndirect(stack *operandStack, calls *callStack, frame *callFrame, ins Instruction) error {
	inst := frame.function.instance
	table := inst.tables[ins.operand2]
	elemIdx := stack.popI32()
	if elemIdx < 0 || uint32(elemIdx) >= table.Size() {
		return errUndefinedElement
	}
	funcIdx, _ := table.Get(uint32(elemIdx))
	if funcIdx == NullReference {
		return errUndefinedElement
	}
	fn := inst.functions[funcIdx]
	wantType := inst.module.Types[ins.operand]
	if !fn.typ.Equal(wantType) {
		return errIndirectCallTypeMismatch
	}
	return m.call(stack, calls, fn)
}
