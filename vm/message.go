package vm

import "github.com/lightclient/evm/common"

// MessageKind tags the kind of call a Message represents (spec.md §3).
// CALL semantics are fully implemented by the engine's local observables
// (ADDRESS/CALLER/CALLVALUE/...); the other kinds are accepted as tags only
// — cross-contract dispatch for them is a host concern (spec.md §1).
type MessageKind uint8

const (
	Call MessageKind = iota
	DelegateCall
	CallCode
	Create
	Create2
)

// String implements fmt.Stringer.
func (k MessageKind) String() string {
	switch k {
	case Call:
		return "CALL"
	case DelegateCall:
		return "DELEGATECALL"
	case CallCode:
		return "CALLCODE"
	case Create:
		return "CREATE"
	case Create2:
		return "CREATE2"
	default:
		return "UNKNOWN"
	}
}

// Message describes one EVM call (spec.md §3).
type Message struct {
	Target common.Address
	Caller common.Address
	Origin common.Address
	Value  *Word
	Input  []byte
	Gas    uint64
	Depth  uint32
	Kind   MessageKind

	// Salt is only meaningful when Kind == Create2.
	Salt *Word
}
