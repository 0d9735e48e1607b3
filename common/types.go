// Package common defines the address and hash value types shared by the
// engine and its host. These are the "external collaborator" primitives
// spec.md treats as out of scope for the interpreter itself: a minimal,
// dependency-free representation is enough for the engine to convert
// to/from stack words.
package common

import (
	"encoding/hex"
	"fmt"
)

const (
	// HashLength is the length of an EVM hash in bytes (32 bytes, 256 bits).
	HashLength = 32
	// AddressLength is the length of an EVM address in bytes (20 bytes, 160 bits).
	AddressLength = 20
)

// Hash represents the 32-byte Keccak256 hash of arbitrary data.
type Hash [HashLength]byte

// Address represents the 20-byte address of an Ethereum-style account.
type Address [AddressLength]byte

// BytesToHash converts b to a Hash, left-padding with zeros if b is
// shorter than HashLength and truncating from the left if longer.
func BytesToHash(b []byte) Hash {
	var h Hash
	h.SetBytes(b)
	return h
}

// SetBytes sets the hash from b, left-padding if necessary.
func (h *Hash) SetBytes(b []byte) {
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
}

// Bytes returns the raw byte representation of the hash.
func (h Hash) Bytes() []byte { return h[:] }

// IsZero reports whether the hash is the all-zero value.
func (h Hash) IsZero() bool { return h == Hash{} }

// Hex returns the 0x-prefixed hex encoding of the hash.
func (h Hash) Hex() string { return "0x" + hex.EncodeToString(h[:]) }

// String implements fmt.Stringer.
func (h Hash) String() string { return h.Hex() }

// BytesToAddress converts b to an Address, left-padding with zeros if b is
// shorter than AddressLength and truncating from the left if longer.
func BytesToAddress(b []byte) Address {
	var a Address
	a.SetBytes(b)
	return a
}

// SetBytes sets the address from b, left-padding if necessary.
func (a *Address) SetBytes(b []byte) {
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
}

// Bytes returns the raw byte representation of the address.
func (a Address) Bytes() []byte { return a[:] }

// IsZero reports whether the address is the all-zero value.
func (a Address) IsZero() bool { return a == Address{} }

// Hex returns the 0x-prefixed hex encoding of the address.
func (a Address) Hex() string { return "0x" + hex.EncodeToString(a[:]) }

// String implements fmt.Stringer.
func (a Address) String() string { return a.Hex() }

// Format implements fmt.Formatter so that Address prints sensibly with
// both %v and %x verbs in log output.
func (a Address) Format(s fmt.State, c rune) {
	if c == 'x' || c == 'X' {
		fmt.Fprintf(s, "%"+string(c), a[:])
		return
	}
	fmt.Fprintf(s, "%"+string(c), a.Hex())
}
