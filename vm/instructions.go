package vm

import (
	"github.com/lightclient/evm/common"
	"github.com/lightclient/evm/crypto"
)

// chargeGas deducts n from f's gas meter, returning an OutOfGas Exit if the
// budget can't afford it. Dynamic costs (memory expansion, per-word or
// per-topic surcharges) are charged this way, strictly before the
// instruction's effect, same as the constant-gas charge the dispatch loop
// already applied (spec.md §3, §9 gas-on-fault decision).
func chargeGas(f *Frame, n uint64) *Exit {
	if err := f.gas.charge(n); err != nil {
		return &Exit{Status: ExitOutOfGas}
	}
	return nil
}

// chargeMemory grows memory to cover [offset, offset+size) and charges the
// expansion cost, or returns a BadRange/OutOfGas Exit.
func chargeMemory(f *Frame, offset, size uint64) *Exit {
	cost, overflow := f.memory.touch(offset, size)
	if overflow {
		return &Exit{Status: ExitBadRange}
	}
	return chargeGas(f, cost)
}

// memRange converts a popped offset/size pair to uint64, faulting OutOfGas
// when either doesn't fit in 64 bits rather than silently truncating it
// (matching the teacher's memorySize pre-check in interpreter.go, which
// treats a non-representable memory argument as ErrOutOfGas). Truncating
// here instead would let an astronomically large offset alias a small,
// cheap one and slip past chargeMemory's own overflow check, since that
// check only sees the already-mangled 64-bit value.
func memRange(offset, size *Word) (off, sz uint64, exit *Exit) {
	if !offset.IsUint64() || !size.IsUint64() {
		return 0, 0, &Exit{Status: ExitOutOfGas}
	}
	return offset.Uint64(), size.Uint64(), nil
}

// --- Arithmetic (spec.md §4.1) ---

func opAdd(f *Frame) (*Yield, *Exit) {
	x, y := f.pop(), f.pop()
	y.Add(x, y)
	return nil, f.push(y)
}

func opSub(f *Frame) (*Yield, *Exit) {
	x, y := f.pop(), f.pop()
	y.Sub(x, y)
	return nil, f.push(y)
}

func opMul(f *Frame) (*Yield, *Exit) {
	x, y := f.pop(), f.pop()
	y.Mul(x, y)
	return nil, f.push(y)
}

func opDiv(f *Frame) (*Yield, *Exit) {
	x, y := f.pop(), f.pop()
	y.Div(x, y) // uint256.Div sets the result to 0 when y == 0
	return nil, f.push(y)
}

func opSdiv(f *Frame) (*Yield, *Exit) {
	x, y := f.pop(), f.pop()
	y.SDiv(x, y) // two's-complement signed division, 0 on divide-by-zero
	return nil, f.push(y)
}

func opMod(f *Frame) (*Yield, *Exit) {
	x, y := f.pop(), f.pop()
	y.Mod(x, y)
	return nil, f.push(y)
}

func opSmod(f *Frame) (*Yield, *Exit) {
	x, y := f.pop(), f.pop()
	y.SMod(x, y)
	return nil, f.push(y)
}

func opAddmod(f *Frame) (*Yield, *Exit) {
	x, y, z := f.pop(), f.pop(), f.pop()
	z.AddMod(x, y, z) // 512-bit-widened intermediate sum, modulus-0 yields 0
	return nil, f.push(z)
}

func opMulmod(f *Frame) (*Yield, *Exit) {
	x, y, z := f.pop(), f.pop(), f.pop()
	z.MulMod(x, y, z)
	return nil, f.push(z)
}

func opExp(f *Frame) (*Yield, *Exit) {
	base, exponent := f.pop(), f.pop()
	if exit := chargeGas(f, GasExpByte*expByteLen(exponent)); exit != nil {
		return nil, exit
	}
	exponent.Exp(base, exponent) // square-and-multiply, mod 2^256
	return nil, f.push(exponent)
}

func opSignextend(f *Frame) (*Yield, *Exit) {
	back, num := f.pop(), f.pop()
	num.ExtendSign(num, back)
	return nil, f.push(num)
}

// --- Comparison / bitwise / shift (spec.md §4.1) ---

func opLt(f *Frame) (*Yield, *Exit) {
	x, y := f.pop(), f.pop()
	if x.Lt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, f.push(y)
}

func opGt(f *Frame) (*Yield, *Exit) {
	x, y := f.pop(), f.pop()
	if x.Gt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, f.push(y)
}

func opSlt(f *Frame) (*Yield, *Exit) {
	x, y := f.pop(), f.pop()
	if x.Slt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, f.push(y)
}

func opSgt(f *Frame) (*Yield, *Exit) {
	x, y := f.pop(), f.pop()
	if x.Sgt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, f.push(y)
}

func opEq(f *Frame) (*Yield, *Exit) {
	x, y := f.pop(), f.pop()
	if x.Eq(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, f.push(y)
}

func opIszero(f *Frame) (*Yield, *Exit) {
	x := f.pop()
	if x.IsZero() {
		x.SetOne()
	} else {
		x.Clear()
	}
	return nil, f.push(x)
}

func opAnd(f *Frame) (*Yield, *Exit) {
	x, y := f.pop(), f.pop()
	y.And(x, y)
	return nil, f.push(y)
}

func opOr(f *Frame) (*Yield, *Exit) {
	x, y := f.pop(), f.pop()
	y.Or(x, y)
	return nil, f.push(y)
}

func opXor(f *Frame) (*Yield, *Exit) {
	x, y := f.pop(), f.pop()
	y.Xor(x, y)
	return nil, f.push(y)
}

func opNot(f *Frame) (*Yield, *Exit) {
	x := f.pop()
	x.Not(x)
	return nil, f.push(x)
}

func opByte(f *Frame) (*Yield, *Exit) {
	th, val := f.pop(), f.pop()
	val.Byte(th)
	return nil, f.push(val)
}

func opShl(f *Frame) (*Yield, *Exit) {
	shift, value := f.pop(), f.pop()
	if shift.LtUint64(256) {
		value.Lsh(value, uint(shift.Uint64()))
	} else {
		value.Clear()
	}
	return nil, f.push(value)
}

func opShr(f *Frame) (*Yield, *Exit) {
	shift, value := f.pop(), f.pop()
	if shift.LtUint64(256) {
		value.Rsh(value, uint(shift.Uint64()))
	} else {
		value.Clear()
	}
	return nil, f.push(value)
}

func opSar(f *Frame) (*Yield, *Exit) {
	shift, value := f.pop(), f.pop()
	if shift.GtUint64(255) {
		if value.Sign() < 0 {
			value.SetAllOne()
		} else {
			value.Clear()
		}
		return nil, f.push(value)
	}
	value.SRsh(value, uint(shift.Uint64()))
	return nil, f.push(value)
}

// --- SHA3 (spec.md §4.1) ---

func opSha3(f *Frame) (*Yield, *Exit) {
	offset, size := f.pop(), f.pop()
	off, sz, exit := memRange(offset, size)
	if exit != nil {
		return nil, exit
	}
	if exit := chargeMemory(f, off, sz); exit != nil {
		return nil, exit
	}
	words := (sz + 31) / 32
	if exit := chargeGas(f, GasSha3Word*words); exit != nil {
		return nil, exit
	}
	data := f.memory.getPtr(off, sz)
	hash := crypto.Keccak256(data)
	return nil, f.push(wordFromBytes(hash))
}

// --- Environment (spec.md §4.1/§4.6) ---

func opAddress(f *Frame) (*Yield, *Exit) {
	return nil, f.push(addressToWord(f.msg.Target))
}

func opBalance(f *Frame) (*Yield, *Exit) {
	addr := wordToAddress(f.pop())
	return &Yield{Kind: YieldBalance, Addr: addr}, nil
}

func opOrigin(f *Frame) (*Yield, *Exit) {
	return nil, f.push(addressToWord(f.msg.Origin))
}

func opCaller(f *Frame) (*Yield, *Exit) {
	return nil, f.push(addressToWord(f.msg.Caller))
}

func opCallvalue(f *Frame) (*Yield, *Exit) {
	return nil, f.push(new(Word).Set(f.msg.Value))
}

func opCalldataload(f *Frame) (*Yield, *Exit) {
	offset := f.pop()
	if !offset.IsUint64() || offset.Uint64() >= uint64(len(f.msg.Input)) {
		return nil, f.push(newWord())
	}
	off := offset.Uint64()
	end := off + 32
	if end > uint64(len(f.msg.Input)) {
		end = uint64(len(f.msg.Input))
	}
	buf := make([]byte, 32)
	copy(buf, f.msg.Input[off:end])
	return nil, f.push(wordFromBytes(buf))
}

func opCalldatasize(f *Frame) (*Yield, *Exit) {
	return nil, f.push(wordFromUint64(uint64(len(f.msg.Input))))
}

func opCalldatacopy(f *Frame) (*Yield, *Exit) {
	return opCopyFamily(f, f.msg.Input)
}

func opCodesize(f *Frame) (*Yield, *Exit) {
	return nil, f.push(wordFromUint64(uint64(len(f.code))))
}

func opCodecopy(f *Frame) (*Yield, *Exit) {
	return opCopyFamily(f, f.code)
}

// opCopyFamily implements the shared CALLDATACOPY/CODECOPY shape (RETURNDATACOPY
// has its own handler below): pop destOffset, srcOffset, length; grow memory; charge the
// per-word copy cost; copy src into memory, zero-filling past src's end
// (spec.md §4.3 copy family).
func opCopyFamily(f *Frame, src []byte) (*Yield, *Exit) {
	destOffset, srcOffset, length := f.pop(), f.pop(), f.pop()
	if !srcOffset.IsUint64() {
		// An unrepresentable source offset can never land inside src, so
		// treat it the same as an offset past the end: zero-fill.
		srcOffset = wordFromUint64(uint64(len(src)))
	}
	dst, ln, exit := memRange(destOffset, length)
	if exit != nil {
		return nil, exit
	}
	so := srcOffset.Uint64()
	if exit := chargeMemory(f, dst, ln); exit != nil {
		return nil, exit
	}
	words := (ln + 31) / 32
	if exit := chargeGas(f, GasCopyPerWord*words); exit != nil {
		return nil, exit
	}
	f.memory.copyWithin(dst, so, ln, src)
	return nil, nil
}

func opGasprice(f *Frame) (*Yield, *Exit) {
	return nil, f.push(new(Word).Set(f.env.GasPrice))
}

func opExtcodesize(f *Frame) (*Yield, *Exit) {
	addr := wordToAddress(f.pop())
	return &Yield{Kind: YieldExtCodeSize, Addr: addr}, nil
}

func opExtcodecopy(f *Frame) (*Yield, *Exit) {
	addrWord, destOffset, srcOffset, length := f.pop(), f.pop(), f.pop(), f.pop()
	addr := wordToAddress(addrWord)
	dst, ln, exit := memRange(destOffset, length)
	if exit != nil {
		return nil, exit
	}
	// An unrepresentable source offset lies past the end of any code, so
	// the host's copy zero-fills, as for any other out-of-range offset.
	so := ^uint64(0)
	if srcOffset.IsUint64() {
		so = srcOffset.Uint64()
	}
	if exit := chargeMemory(f, dst, ln); exit != nil {
		return nil, exit
	}
	words := (ln + 31) / 32
	if exit := chargeGas(f, GasCopyPerWord*words); exit != nil {
		return nil, exit
	}
	return &Yield{Kind: YieldExtCodeCopy, Addr: addr, CopyDstOffset: dst, CopySrcOffset: so, CopyLength: ln}, nil
}

func opReturndatasize(f *Frame) (*Yield, *Exit) {
	return nil, f.push(wordFromUint64(uint64(len(f.returnData))))
}

func opReturndatacopy(f *Frame) (*Yield, *Exit) {
	destOffset, srcOffset, length := f.pop(), f.pop(), f.pop()
	if !srcOffset.IsUint64() || !length.IsUint64() {
		return nil, &Exit{Status: ExitBadRange}
	}
	so, ln := srcOffset.Uint64(), length.Uint64()
	if so+ln > uint64(len(f.returnData)) || so+ln < so {
		return nil, &Exit{Status: ExitBadRange}
	}
	if !destOffset.IsUint64() {
		return nil, &Exit{Status: ExitOutOfGas}
	}
	dst := destOffset.Uint64()
	if exit := chargeMemory(f, dst, ln); exit != nil {
		return nil, exit
	}
	words := (ln + 31) / 32
	if exit := chargeGas(f, GasCopyPerWord*words); exit != nil {
		return nil, exit
	}
	f.memory.copyWithin(dst, so, ln, f.returnData)
	return nil, nil
}

func opExtcodehash(f *Frame) (*Yield, *Exit) {
	addr := wordToAddress(f.pop())
	return &Yield{Kind: YieldExtCodeHash, Addr: addr}, nil
}

// --- Block (spec.md §4.1) ---

func opBlockhash(f *Frame) (*Yield, *Exit) {
	number := f.pop()
	return &Yield{Kind: YieldBlockHash, BlockNumber: number.Uint64()}, nil
}

func opCoinbase(f *Frame) (*Yield, *Exit) {
	return nil, f.push(addressToWord(f.env.Coinbase))
}

func opTimestamp(f *Frame) (*Yield, *Exit) {
	return nil, f.push(new(Word).Set(f.env.Timestamp))
}

func opNumber(f *Frame) (*Yield, *Exit) {
	return nil, f.push(new(Word).Set(f.env.BlockNumber))
}

func opDifficulty(f *Frame) (*Yield, *Exit) {
	return nil, f.push(new(Word).Set(f.env.Difficulty))
}

func opGaslimit(f *Frame) (*Yield, *Exit) {
	return nil, f.push(new(Word).Set(f.env.GasLimit))
}

func opChainid(f *Frame) (*Yield, *Exit) {
	return nil, f.push(new(Word).Set(f.env.ChainID))
}

func opBasefee(f *Frame) (*Yield, *Exit) {
	return nil, f.push(new(Word).Set(f.env.BaseFee))
}

// --- Stack / memory / flow (spec.md §4.1/§4.2/§4.3/§4.5) ---

func opPop(f *Frame) (*Yield, *Exit) {
	f.pop()
	return nil, nil
}

func opMload(f *Frame) (*Yield, *Exit) {
	offset := f.pop()
	if !offset.IsUint64() {
		return nil, &Exit{Status: ExitOutOfGas}
	}
	off := offset.Uint64()
	if exit := chargeMemory(f, off, 32); exit != nil {
		return nil, exit
	}
	return nil, f.push(wordFromBytes(f.memory.getPtr(off, 32)))
}

func opMstore(f *Frame) (*Yield, *Exit) {
	offset, val := f.pop(), f.pop()
	if !offset.IsUint64() {
		return nil, &Exit{Status: ExitOutOfGas}
	}
	off := offset.Uint64()
	if exit := chargeMemory(f, off, 32); exit != nil {
		return nil, exit
	}
	f.memory.set32(off, val)
	return nil, nil
}

func opMstore8(f *Frame) (*Yield, *Exit) {
	offset, val := f.pop(), f.pop()
	if !offset.IsUint64() {
		return nil, &Exit{Status: ExitOutOfGas}
	}
	off := offset.Uint64()
	if exit := chargeMemory(f, off, 1); exit != nil {
		return nil, exit
	}
	f.memory.set(off, []byte{byte(val.Uint64())})
	return nil, nil
}

func opSload(f *Frame) (*Yield, *Exit) {
	key := f.pop()
	return &Yield{Kind: YieldLoad, Key: key}, nil
}

func opSstore(f *Frame) (*Yield, *Exit) {
	key, value := f.pop(), f.pop()
	return &Yield{Kind: YieldStore, Key: key, StoreValue: value, GasLeft: f.gas.left()}, nil
}

func opJump(f *Frame) (*Yield, *Exit) {
	dest := f.pop()
	if !dest.IsUint64() || !f.jumpdest.valid(dest.Uint64()) {
		return nil, &Exit{Status: ExitBadJump}
	}
	f.pc = dest.Uint64()
	return nil, nil
}

func opJumpi(f *Frame) (*Yield, *Exit) {
	dest, cond := f.pop(), f.pop()
	if cond.IsZero() {
		f.pc++
		return nil, nil
	}
	if !dest.IsUint64() || !f.jumpdest.valid(dest.Uint64()) {
		return nil, &Exit{Status: ExitBadJump}
	}
	f.pc = dest.Uint64()
	return nil, nil
}

func opPc(f *Frame) (*Yield, *Exit) {
	return nil, f.push(wordFromUint64(f.pc))
}

func opMsize(f *Frame) (*Yield, *Exit) {
	return nil, f.push(wordFromUint64(f.memory.Len()))
}

func opGas(f *Frame) (*Yield, *Exit) {
	return nil, f.push(wordFromUint64(f.gas.left()))
}

func opJumpdest(f *Frame) (*Yield, *Exit) {
	return nil, nil
}

// opPush pushes the size bytes of immediate data following the opcode
// byte, zero-padding when the code ends before size bytes are available
// (spec.md §4.5: PUSH past the end of code pads with zero bytes rather
// than faulting).
func opPush(f *Frame, size int) (*Yield, *Exit) {
	start := f.pc + 1
	end := start + uint64(size)
	codeLen := uint64(len(f.code))
	var buf [32]byte
	if start < codeLen {
		stop := end
		if stop > codeLen {
			stop = codeLen
		}
		copy(buf[:size], f.code[start:stop])
	}
	if exit := f.push(wordFromBytes(buf[:size])); exit != nil {
		return nil, exit
	}
	f.pc += uint64(1 + size)
	return nil, nil
}

func opDup(f *Frame, n int) (*Yield, *Exit) {
	if err := f.stack.dup(n); err != nil {
		if err == ErrStackOverflow {
			return nil, &Exit{Status: ExitStackOverflow}
		}
		return nil, &Exit{Status: ExitStackUnderflow}
	}
	return nil, nil
}

func opSwap(f *Frame, n int) (*Yield, *Exit) {
	if err := f.stack.swap(n); err != nil {
		return nil, &Exit{Status: ExitStackUnderflow}
	}
	return nil, nil
}

func opLog(f *Frame, topics int) (*Yield, *Exit) {
	offset, size := f.pop(), f.pop()
	off, sz, exit := memRange(offset, size)
	if exit != nil {
		return nil, exit
	}
	if exit := chargeMemory(f, off, sz); exit != nil {
		return nil, exit
	}
	if exit := chargeGas(f, GasLogTopic*uint64(topics)+GasLogData*sz); exit != nil {
		return nil, exit
	}
	ts := make([]common.Hash, topics)
	for i := 0; i < topics; i++ {
		ts[i] = wordToHash(f.pop())
	}
	data := f.memory.get(off, sz)
	return &Yield{Kind: YieldLog, Topics: ts, Data: data}, nil
}

// --- Terminal ops (spec.md §4.5/§6) ---

func opReturn(f *Frame) (*Yield, *Exit) {
	offset, size := f.pop(), f.pop()
	off, sz, exit := memRange(offset, size)
	if exit != nil {
		return nil, exit
	}
	if exit := chargeMemory(f, off, sz); exit != nil {
		return nil, exit
	}
	return nil, &Exit{Status: ExitReturn, Data: f.memory.get(off, sz)}
}

func opRevert(f *Frame) (*Yield, *Exit) {
	offset, size := f.pop(), f.pop()
	off, sz, exit := memRange(offset, size)
	if exit != nil {
		return nil, exit
	}
	if exit := chargeMemory(f, off, sz); exit != nil {
		return nil, exit
	}
	return nil, &Exit{Status: ExitRevert, Data: f.memory.get(off, sz)}
}

func opSelfdestruct(f *Frame) (*Yield, *Exit) {
	beneficiary := wordToAddress(f.pop())
	return nil, &Exit{Status: ExitSelfDestruct, Beneficiary: beneficiary}
}

func opInvalid(f *Frame) (*Yield, *Exit) {
	return nil, &Exit{Status: ExitInvalidOp}
}
