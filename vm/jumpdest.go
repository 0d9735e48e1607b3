package vm

// jumpdestBitmap precomputes, once per frame, which code offsets are legal
// JUMP/JUMPI targets: byte value 0x5B (JUMPDEST) that is not part of any
// PUSH instruction's immediate data (spec.md §4.5, GLOSSARY "JUMPDEST
// bitmap"). A naive byte-by-byte `code[dest] == JUMPDEST` check confuses a
// JUMPDEST byte that happens to appear inside a PUSHn's immediate with a
// real jump target; the one-pass scan below resolves that ambiguity by
// skipping over immediate-data regions entirely.
type jumpdestBitmap []bool

// newJumpdestBitmap scans code once, marking every position whose byte is
// JUMPDEST and which is not itself inside a PUSHn's immediate data.
func newJumpdestBitmap(code []byte) jumpdestBitmap {
	bitmap := make(jumpdestBitmap, len(code))
	for pc := 0; pc < len(code); {
		op := OpCode(code[pc])
		if op == JUMPDEST {
			bitmap[pc] = true
			pc++
			continue
		}
		if op.IsPush() {
			pc += 1 + op.PushSize()
			continue
		}
		pc++
	}
	return bitmap
}

// valid reports whether dest is a legal jump destination: in range, a
// JUMPDEST byte, and not immediate data of a PUSH.
func (b jumpdestBitmap) valid(dest uint64) bool {
	if dest >= uint64(len(b)) {
		return false
	}
	return b[dest]
}
