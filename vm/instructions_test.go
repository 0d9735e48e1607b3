package vm

import (
	"bytes"
	"testing"

	"github.com/lightclient/evm/common"
)

// runCode drives code against a fresh memHost and returns the outcome
// together with the frame so callers can inspect its final stack/memory.
func runCode(t *testing.T, code []byte, gas uint64, configure func(msg *Message, host *memHost)) (Outcome, *Frame) {
	t.Helper()
	host := newMemHost()
	msg := testMessage(gas)
	if configure != nil {
		configure(&msg, host)
	}
	frame := NewFrame(code, msg, testEnv())
	out := NewDriver(host).Run(frame)
	return out, frame
}

func TestExpGasChargesPerExponentByte(t *testing.T) {
	// PUSH2 0x0100 (exponent, 2 significant bytes) PUSH1 0x02 (base) EXP STOP
	code := []byte{0x61, 0x01, 0x00, 0x60, 0x02, 0x0a, 0x00}
	out, _ := runCode(t, code, 100_000, nil)
	if out.Status != ExitStop {
		t.Fatalf("got %+v, want Stop", out)
	}
	wantUsed := GasVeryLow /*PUSH2*/ + GasVeryLow /*PUSH1*/ + GasHigh + GasExpByte*2
	if got := 100_000 - out.GasLeft; got != wantUsed {
		t.Errorf("gas used = %d, want %d", got, wantUsed)
	}
}

func TestSignextendNegativeByte(t *testing.T) {
	// PUSH1 0xFF PUSH1 0x00 SIGNEXTEND STOP — sign-extend a single 0xFF
	// byte (k=0) to all-ones.
	code := []byte{0x60, 0xFF, 0x60, 0x00, 0x0b, 0x00}
	_, frame := runCode(t, code, 10_000, nil)
	top := frame.stack.peek()
	want := new(Word).SetAllOne()
	if !top.Eq(want) {
		t.Errorf("SIGNEXTEND(0, 0xFF) = %x, want all-ones", top.Bytes32())
	}
}

func TestByteExtractsCorrectByte(t *testing.T) {
	// PUSH4 0xAABBCCDD PUSH1 28 (index of 0xAA from the left in a 32-byte
	// word: bytes 0..27 are zero, byte 28 is 0xAA) BYTE STOP
	code := []byte{0x63, 0xAA, 0xBB, 0xCC, 0xDD, 0x60, 28, 0x1a, 0x00}
	_, frame := runCode(t, code, 10_000, nil)
	top := frame.stack.peek()
	if top.Uint64() != 0xAA {
		t.Errorf("BYTE(28, 0xAABBCCDD) = %#x, want 0xAA", top.Uint64())
	}
}

func TestShlSarAtShiftBoundary(t *testing.T) {
	// SHL with shift == 256 produces 0 regardless of the value.
	code := []byte{
		0x60, 0x01, // PUSH1 1  (value)
		0x61, 0x01, 0x00, // PUSH2 256 (shift)
		0x1b, // SHL
		0x00, // STOP
	}
	_, frame := runCode(t, code, 10_000, nil)
	if top := frame.stack.peek(); !top.IsZero() {
		t.Errorf("SHL(256, 1) = %v, want 0", top)
	}

	// SAR with shift >= 256 and a negative value fills with all ones.
	codeSar := []byte{
		0x7f, // PUSH32
	}
	var negOne [32]byte
	for i := range negOne {
		negOne[i] = 0xff
	}
	codeSar = append(codeSar, negOne[:]...)
	codeSar = append(codeSar, 0x61, 0x01, 0x00, 0x1d, 0x00) // PUSH2 256, SAR, STOP
	_, frame2 := runCode(t, codeSar, 10_000, nil)
	top := frame2.stack.peek()
	want := new(Word).SetAllOne()
	if !top.Eq(want) {
		t.Errorf("SAR(256, -1) = %x, want all-ones", top.Bytes32())
	}
}

func TestAddmodModulusZero(t *testing.T) {
	// PUSH1 0 (n) PUSH1 5 (b) PUSH1 3 (a) ADDMOD STOP -> (3+5) mod 0 == 0
	code := []byte{0x60, 0x00, 0x60, 0x05, 0x60, 0x03, 0x08, 0x00}
	_, frame := runCode(t, code, 10_000, nil)
	if top := frame.stack.peek(); !top.IsZero() {
		t.Errorf("ADDMOD(3, 5, 0) = %v, want 0", top)
	}
}

func TestCalldatacopyZeroFillsPastInput(t *testing.T) {
	// PUSH1 4 (length) PUSH1 0 (srcOffset) PUSH1 0 (dstOffset) CALLDATACOPY STOP
	code := []byte{0x60, 0x04, 0x60, 0x00, 0x60, 0x00, 0x37, 0x00}
	out, frame := runCode(t, code, 10_000, func(msg *Message, host *memHost) {
		msg.Input = []byte{0xAA, 0xBB}
	})
	if out.Status != ExitStop {
		t.Fatalf("got %+v, want Stop", out)
	}
	got := frame.memory.get(0, 4)
	want := []byte{0xAA, 0xBB, 0, 0}
	if !bytes.Equal(got, want) {
		t.Errorf("memory = %x, want %x", got, want)
	}
}

func TestReturndatacopyOutOfRangeIsBadRange(t *testing.T) {
	// No prior call populated returnData, so any nonzero length overruns it.
	// PUSH1 1 (length) PUSH1 0 (srcOffset) PUSH1 0 (dstOffset) RETURNDATACOPY
	code := []byte{0x60, 0x01, 0x60, 0x00, 0x60, 0x00, 0x3e}
	out, _ := runCode(t, code, 10_000, nil)
	if out.Status != ExitBadRange {
		t.Fatalf("got %+v, want BadRange", out)
	}
}

func TestBalanceYieldsAndResumes(t *testing.T) {
	// PUSH20 <addr> BALANCE STOP
	addr := common.BytesToAddress([]byte{0x01})
	code := append([]byte{0x73}, addr[:]...)
	code = append(code, 0x31, 0x00)
	out, frame := runCode(t, code, 10_000, func(msg *Message, host *memHost) {
		host.balance[addr] = wordFromUint64(77)
	})
	if out.Status != ExitStop {
		t.Fatalf("got %+v, want Stop", out)
	}
	if top := frame.stack.peek(); top.Uint64() != 77 {
		t.Errorf("BALANCE = %d, want 77", top.Uint64())
	}
}

func TestExtcodesizeYieldsHostAnswer(t *testing.T) {
	addr := common.BytesToAddress([]byte{0x02})
	code := append([]byte{0x73}, addr[:]...)
	code = append(code, byte(EXTCODESIZE), 0x00)
	out, frame := runCode(t, code, 10_000, func(msg *Message, host *memHost) {
		host.code[addr] = []byte{0x00, 0x00, 0x00}
	})
	if out.Status != ExitStop {
		t.Fatalf("got %+v, want Stop", out)
	}
	if top := frame.stack.peek(); top.Uint64() != 3 {
		t.Errorf("EXTCODESIZE = %d, want 3", top.Uint64())
	}
}

func TestLogEmitsTopicsAndData(t *testing.T) {
	// PUSH1 0xAA (topic1) PUSH1 0x00 (size) PUSH1 0x00 (offset) LOG1 STOP
	code := []byte{0x60, 0xAA, 0x60, 0x00, 0x60, 0x00, byte(LOG0) + 1, 0x00}
	host := newMemHost()
	msg := testMessage(10_000)
	frame := NewFrame(code, msg, testEnv())
	out := NewDriver(host).Run(frame)

	if out.Status != ExitStop {
		t.Fatalf("got %+v, want Stop", out)
	}
	if len(host.logs) != 1 {
		t.Fatalf("host recorded %d logs, want 1", len(host.logs))
	}
	if len(host.logs[0].topics) != 1 || host.logs[0].topics[0].Bytes()[31] != 0xAA {
		t.Errorf("log topics = %v, want one topic ending in 0xAA", host.logs[0].topics)
	}
}

func TestSelfdestructExitsWithBeneficiary(t *testing.T) {
	beneficiary := common.BytesToAddress([]byte{0x09})
	code := append([]byte{0x73}, beneficiary[:]...)
	code = append(code, byte(SELFDESTRUCT))
	out, _ := runCode(t, code, 10_000, nil)
	if out.Kind != OutcomeSuccess || out.Status != ExitSelfDestruct {
		t.Fatalf("got %+v, want Success/SelfDestruct", out)
	}
	if out.Beneficiary != beneficiary {
		t.Errorf("Beneficiary = %v, want %v", out.Beneficiary, beneficiary)
	}
}

func TestInvalidOpcodeFaults(t *testing.T) {
	code := []byte{0xfe} // INVALID
	out, _ := runCode(t, code, 10_000, nil)
	if out.Status != ExitInvalidOp {
		t.Fatalf("got %+v, want InvalidOp", out)
	}
	if out.GasLeft != 0 {
		t.Errorf("GasLeft = %d, want 0 (exceptional halt drains gas)", out.GasLeft)
	}
}

func TestUnassignedByteFaultsInvalidOp(t *testing.T) {
	code := []byte{0x0c} // unassigned between SIGNEXTEND (0x0b) and LT (0x10)
	out, _ := runCode(t, code, 10_000, nil)
	if out.Status != ExitInvalidOp {
		t.Fatalf("got %+v, want InvalidOp", out)
	}
}

func TestCallKindsAreNotSupported(t *testing.T) {
	// Seven PUSH1 0x00s supply CALL's full operand count (gas, addr,
	// value, argsOffset, argsSize, retOffset, retSize) so the opcode is
	// reached and faults NotSupported rather than StackUnderflow.
	code := make([]byte, 0, 16)
	for i := 0; i < 7; i++ {
		code = append(code, 0x60, 0x00)
	}
	code = append(code, byte(CALL))
	out, _ := runCode(t, code, 100_000, nil)
	if out.Status != ExitNotSupported {
		t.Fatalf("got %+v, want NotSupported (CALL is a reserved cross-contract opcode, spec.md §1 Non-goals)", out)
	}
}

func TestCallUnderflowBeforeNotSupported(t *testing.T) {
	// Too few operands: StackUnderflow must be reported before the
	// engine ever reaches CALL's NotSupported fault.
	code := []byte{0x60, 0x00, byte(CALL)}
	out, _ := runCode(t, code, 100_000, nil)
	if out.Status != ExitStackUnderflow {
		t.Fatalf("got %+v, want StackUnderflow", out)
	}
}

func TestDupAtFullStackFaultsOverflow(t *testing.T) {
	// Fill the stack to its 1024-word limit with PUSH1 0x01, then DUP1.
	// DUPn keeps all its operands and adds a copy, so this must halt with
	// StackOverflow rather than silently dropping the duplicate (a DUPn
	// maxStack derived as if it consumed its operands would miss this:
	// DUP1's true bound is the constant 1023, not 1024).
	code := make([]byte, 0, stackLimit*2+1)
	for i := 0; i < stackLimit; i++ {
		code = append(code, 0x60, 0x01) // PUSH1 1
	}
	code = append(code, byte(DUP1))
	out, frame := runCode(t, code, 1_000_000, nil)
	if out.Status != ExitStackOverflow {
		t.Fatalf("got %+v, want StackOverflow", out)
	}
	if out.GasLeft != 0 {
		t.Errorf("GasLeft = %d, want 0 (exceptional halt drains gas)", out.GasLeft)
	}
	if frame.StackLen() != stackLimit {
		t.Errorf("stack len = %d, want %d (DUP must not have pushed)", frame.StackLen(), stackLimit)
	}
}

func TestMloadHugeOffsetFaultsRatherThanTruncating(t *testing.T) {
	// PUSH32 of an offset far beyond uint64 range, then MLOAD. Truncating
	// it to uint64 would alias it to a small, cheap offset; it must
	// instead fault rather than be silently mangled into something
	// representable.
	var huge [32]byte
	for i := range huge {
		huge[i] = 0xff
	}
	code := append([]byte{0x7f}, huge[:]...)
	code = append(code, byte(MLOAD), 0x00)
	out, _ := runCode(t, code, 1_000_000, nil)
	if out.Status != ExitOutOfGas {
		t.Fatalf("got %+v, want OutOfGas", out)
	}
}

func TestCalldatacopyHugeSrcOffsetZeroFills(t *testing.T) {
	// A source offset far beyond uint64 range can never land inside the
	// input, so CALLDATACOPY must zero-fill exactly as it would for any
	// other out-of-range offset, not fault.
	var huge [32]byte
	for i := range huge {
		huge[i] = 0xff
	}
	code := []byte{0x60, 0x02} // PUSH1 2 (length)
	code = append(code, 0x7f)  // PUSH32 (srcOffset)
	code = append(code, huge[:]...)
	code = append(code, 0x60, 0x00, 0x37, 0x00) // PUSH1 0 (destOffset) CALLDATACOPY STOP
	out, frame := runCode(t, code, 1_000_000, func(msg *Message, host *memHost) {
		msg.Input = []byte{0xAA, 0xBB}
	})
	if out.Status != ExitStop {
		t.Fatalf("got %+v, want Stop", out)
	}
	got := frame.memory.get(0, 2)
	if !bytes.Equal(got, []byte{0, 0}) {
		t.Errorf("memory = %x, want zero-filled", got)
	}
}
