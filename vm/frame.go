package vm

import "github.com/lightclient/evm/log"

// Frame is one call's execution state: the program counter, its operand
// stack and memory, its gas meter, the code it runs, and the message/env
// it runs under (spec.md §3, Data model). A Frame never talks to a Host
// directly; it suspends by returning a Yield and resumes when its caller
// (the Driver) pushes the answer back into it.
type Frame struct {
	pc       uint64
	stack    *Stack
	memory   *Memory
	gas      *Gas
	code     []byte
	jumpdest jumpdestBitmap
	msg      Message
	env      Environment
	cfg      Config
	log      *log.Logger

	// refund accumulates SSTORE's host-reported refunds (spec.md §4.4,
	// §9). It is informational only: the engine never applies it to gas,
	// it only carries it forward for the caller to use as it sees fit.
	refund int64

	// returnData is the output of the most recent sub-call this frame
	// made, exposed via RETURNDATASIZE/RETURNDATACOPY. CALL/CREATE are
	// out of scope here, so it is always empty; the opcodes are still
	// wired so that code using them observes zero-length return data
	// rather than an invalid opcode.
	returnData []byte
}

// NewFrame constructs a Frame ready to execute code under msg and env,
// using the default Config.
func NewFrame(code []byte, msg Message, env Environment) *Frame {
	return NewFrameWithConfig(code, msg, env, Config{})
}

// NewFrameWithConfig constructs a Frame as NewFrame does, under the given
// Config (call-depth bound, optional Debug opcode tracing and logger
// override — spec.md §7 CallOverflow, teacher's vm.Config).
func NewFrameWithConfig(code []byte, msg Message, env Environment, cfg Config) *Frame {
	return &Frame{
		stack:    newStack(),
		memory:   newMemory(),
		gas:      newGas(msg.Gas),
		code:     code,
		jumpdest: newJumpdestBitmap(code),
		msg:      msg,
		env:      env,
		cfg:      cfg,
		log:      cfg.logger(),
	}
}

// GasLeft returns the frame's remaining gas.
func (f *Frame) GasLeft() uint64 { return f.gas.left() }

// PC returns the current program counter.
func (f *Frame) PC() uint64 { return f.pc }

// StackLen returns the number of words currently on the operand stack.
func (f *Frame) StackLen() int { return f.stack.len() }

// Refund returns the total SSTORE refund accumulated so far.
func (f *Frame) Refund() int64 { return f.refund }

// pop removes and returns the top stack word. The interpreter's dispatch
// loop has already checked minStack before invoking an opcode handler, so
// the underflow case here can never trigger; it exists so handlers read
// naturally without a discarded error at every call site.
func (f *Frame) pop() *Word {
	w, _ := f.stack.pop()
	return w
}

// push pushes w onto the stack. The dispatch loop's maxStack check rejects
// most overflows before the handler runs, but that check is only as good
// as the jump table's per-opcode maxStack value — push still reports a
// real overflow from the stack itself rather than trusting the
// precondition blindly.
func (f *Frame) push(w *Word) *Exit {
	if err := f.stack.push(w); err != nil {
		return &Exit{Status: ExitStackOverflow}
	}
	return nil
}

// readOperation validates the opcode at the current pc and returns its
// static metadata, or an Exit if the opcode is out of range or
// unassigned. Running off the end of code is implicit STOP (spec.md
// §4.5, step 1).
func (f *Frame) readOperation() (OpCode, operation, *Exit) {
	if f.pc >= uint64(len(f.code)) {
		return STOP, operation{}, &Exit{Status: ExitStop}
	}
	op := OpCode(f.code[f.pc])
	info := jumpTable[op]
	if !info.valid {
		return op, operation{}, &Exit{Status: ExitInvalidOp}
	}
	return op, info, nil
}
