package vm

import "github.com/lightclient/evm/common"

// Host is the engine's only collaborator for persistent state and
// cross-account information (spec.md §4.6). The engine never touches
// storage, code, or balances directly — it yields a request and the
// Driver services it against a Host, then resumes.
//
// The engine never retains a Host-returned slice beyond the instruction
// that requested it.
type Host interface {
	// GetStorage returns the value stored at key in addr's storage, or
	// the zero word if unset.
	GetStorage(addr common.Address, key *Word) *Word

	// SetStorage stores value at key in addr's storage and returns the
	// gas cost to charge and the refund to record. The engine trusts
	// this answer unconditionally (spec.md §9, SSTORE gas).
	SetStorage(addr common.Address, key, value *Word) (cost uint64, refund int64)

	// GetBalance returns addr's balance.
	GetBalance(addr common.Address) *Word

	// GetCodeSize returns the length of the code deployed at addr.
	GetCodeSize(addr common.Address) uint64

	// GetCodeHash returns the Keccak256 hash of the code deployed at
	// addr, or the zero hash if addr has no code.
	GetCodeHash(addr common.Address) common.Hash

	// CopyCode copies length bytes of addr's code starting at offset,
	// zero-filling past the end of the code, matching EXTCODECOPY
	// (spec.md §4.3 copy family).
	CopyCode(addr common.Address, offset, length uint64) []byte

	// BlockHash returns the hash of the block with the given number, or
	// the zero hash when number is out of the host's retained range.
	BlockHash(number uint64) common.Hash

	// EmitLog records a LOGn event. Topics has 0..4 entries.
	EmitLog(addr common.Address, topics []common.Hash, data []byte)

	// SelfDestruct queues addr for destruction, crediting its balance to
	// beneficiary. Idempotent per frame.
	SelfDestruct(addr, beneficiary common.Address)
}

// YieldKind tags the reason the interpreter suspended (spec.md §4.5).
type YieldKind int

const (
	YieldLoad YieldKind = iota
	YieldStore
	YieldBalance
	YieldExtCodeSize
	YieldExtCodeCopy
	YieldExtCodeHash
	YieldBlockHash
	YieldLog
)

// Yield is a structured request from the interpreter to its driver for an
// effect the interpreter cannot perform itself. Kind selects which of the
// fields below are meaningful.
type Yield struct {
	Kind YieldKind

	Addr common.Address
	Key  *Word
	// StoreValue carries SSTORE's value operand.
	StoreValue *Word
	// GasLeft is a snapshot of the frame's gas at the time of an SSTORE
	// yield, in case a host implementation prices based on remaining gas.
	GasLeft uint64

	// CopyDstOffset/CopySrcOffset/CopyLength describe an EXTCODECOPY
	// request; the driver writes the returned bytes into memory at
	// CopyDstOffset.
	CopyDstOffset uint64
	CopySrcOffset uint64
	CopyLength    uint64

	BlockNumber uint64

	Topics []common.Hash
	Data   []byte
}
