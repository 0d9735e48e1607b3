package vm

import "github.com/lightclient/evm/common"

// Environment holds block-level information visible to the program
// (spec.md §3). BaseFee is carried alongside the spec's named env tuple
// to back the BASEFEE opcode (spec.md §6 opcode table, 0x48), which the
// env tuple's prose listing omits but the opcode table requires.
type Environment struct {
	Coinbase    common.Address
	Difficulty  *Word
	GasLimit    *Word
	GasPrice    *Word
	BlockNumber *Word
	Timestamp   *Word
	ChainID     *Word
	BaseFee     *Word
}
