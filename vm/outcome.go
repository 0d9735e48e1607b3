package vm

import "github.com/lightclient/evm/common"

// ExitStatus names a terminal state of a Frame (spec.md §4.5/§6/§7).
type ExitStatus int

const (
	ExitStop ExitStatus = iota
	ExitReturn
	ExitRevert
	ExitSelfDestruct

	ExitStackUnderflow
	ExitStackOverflow
	ExitBadJump
	ExitBadRange
	ExitInvalidOp
	ExitCallOverflow
	ExitOutOfGas
	ExitNotSupported
)

// String implements fmt.Stringer.
func (e ExitStatus) String() string {
	switch e {
	case ExitStop:
		return "Stop"
	case ExitReturn:
		return "Ret"
	case ExitRevert:
		return "Revert"
	case ExitSelfDestruct:
		return "SelfDestruct"
	case ExitStackUnderflow:
		return "StackUnderflow"
	case ExitStackOverflow:
		return "StackOverflow"
	case ExitBadJump:
		return "BadJump"
	case ExitBadRange:
		return "BadRange"
	case ExitInvalidOp:
		return "InvalidOp"
	case ExitCallOverflow:
		return "CallOverflow"
	case ExitOutOfGas:
		return "OutOfGas"
	case ExitNotSupported:
		return "NotSupported"
	default:
		return "Unknown"
	}
}

// isExceptionalHalt reports whether e is a non-REVERT failure, which
// consumes all remaining gas (spec.md §7).
func (e ExitStatus) isExceptionalHalt() bool {
	switch e {
	case ExitStackUnderflow, ExitStackOverflow, ExitBadJump, ExitBadRange,
		ExitInvalidOp, ExitCallOverflow, ExitOutOfGas, ExitNotSupported:
		return true
	default:
		return false
	}
}

// Exit is the terminal value a Frame's step loop produces when execution
// ends, as opposed to suspending on a Yield (spec.md §4.5, §9: "yielding
// means returning a tagged union {Yield(y) | Exit(e)}").
type Exit struct {
	Status ExitStatus

	// Data carries RETURN/REVERT's output buffer.
	Data []byte

	// Beneficiary carries SELFDESTRUCT's target address.
	Beneficiary common.Address
}

// OutcomeKind is the top-level discriminant of an Outcome (spec.md §6:
// "Outcome is one of: Success { gas_left, return_data }, Revert { gas_left,
// revert_data }, Halt { status, gas_left=0 }").
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeRevert
	OutcomeHalt
)

// Outcome is the result execute() reports to the caller (spec.md §6).
// Status records which terminal Exit produced the outcome (Stop/Ret/
// SelfDestruct under Success, Revert under Revert, the specific failure
// under Halt) so callers and tests can distinguish STOP from RETURN from
// SELFDESTRUCT without a second type switch.
type Outcome struct {
	Kind       OutcomeKind
	Status     ExitStatus
	GasLeft    uint64
	ReturnData []byte
	RevertData []byte

	// Beneficiary is set when Status == ExitSelfDestruct.
	Beneficiary common.Address
}

// outcomeFromExit converts a Frame's terminal Exit plus its final gas
// balance into an Outcome (spec.md §7: fault exits consume all remaining
// gas; Revert preserves unused gas; Ret/Stop/SelfDestruct preserve unused
// gas).
func outcomeFromExit(exit Exit, gasLeft uint64) Outcome {
	switch exit.Status {
	case ExitStop, ExitReturn:
		return Outcome{Kind: OutcomeSuccess, Status: exit.Status, GasLeft: gasLeft, ReturnData: exit.Data}
	case ExitSelfDestruct:
		return Outcome{Kind: OutcomeSuccess, Status: exit.Status, GasLeft: gasLeft, Beneficiary: exit.Beneficiary}
	case ExitRevert:
		return Outcome{Kind: OutcomeRevert, Status: exit.Status, GasLeft: gasLeft, RevertData: exit.Data}
	default:
		// Exceptional/fatal halts consume all remaining gas (spec.md §7).
		return Outcome{Kind: OutcomeHalt, Status: exit.Status, GasLeft: 0}
	}
}
