package vm

import (
	"github.com/holiman/uint256"

	"github.com/lightclient/evm/common"
)

// Word is a 256-bit value (spec.md §3, Data model). All two-operand
// arithmetic below is modulo 2^256 unless stated otherwise; uint256.Int
// gives us wrapping add/sub/mul and checked div/mod for free, matching the
// tier of 256-bit math the corpus reaches for instead of hand-rolled
// [4]uint64 or math/big.
type Word = uint256.Int

// newWord returns a zero Word.
func newWord() *Word { return new(Word) }

// wordFromUint64 returns a Word set to v.
func wordFromUint64(v uint64) *Word { return new(Word).SetUint64(v) }

// wordFromBytes interprets b as a big-endian unsigned integer, left-padding
// or truncating from the left as uint256.SetBytes does.
func wordFromBytes(b []byte) *Word { return new(Word).SetBytes(b) }

// addressToWord zero-extends addr into the low 20 bytes of a Word.
func addressToWord(addr common.Address) *Word {
	return new(Word).SetBytes(addr[:])
}

// wordToAddress truncates w to its low 20 bytes, big-endian.
func wordToAddress(w *Word) common.Address {
	b := w.Bytes20()
	return common.BytesToAddress(b[:])
}

// wordToHash renders w as a 32-byte big-endian hash.
func wordToHash(w *Word) common.Hash {
	b := w.Bytes32()
	return common.BytesToHash(b[:])
}

// hashToWord interprets h as a big-endian unsigned integer.
func hashToWord(h common.Hash) *Word {
	return new(Word).SetBytes32(h[:])
}

// expByteLen returns the minimal big-endian byte length of exp, 0 when
// exp is zero (spec.md §4.1, EXP gas cost).
func expByteLen(exp *Word) uint64 {
	return uint64((exp.BitLen() + 7) / 8)
}
