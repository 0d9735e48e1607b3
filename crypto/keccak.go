// Package crypto provides the Keccak-256 hash function the engine invokes
// for the SHA3 opcode. spec.md §1 specifies this as "a host- or
// utility-provided pure function the engine invokes" — it has no stateful
// dependency on the host and is implemented directly here.
package crypto

import (
	"golang.org/x/crypto/sha3"

	"github.com/lightclient/evm/common"
)

// Keccak256 returns the Keccak-256 digest of the concatenation of data.
func Keccak256(data ...[]byte) []byte {
	d := sha3.NewLegacyKeccak256()
	for _, b := range data {
		d.Write(b)
	}
	return d.Sum(nil)
}

// Keccak256Hash returns the Keccak-256 digest of the concatenation of data
// as a common.Hash.
func Keccak256Hash(data ...[]byte) common.Hash {
	return common.BytesToHash(Keccak256(data...))
}
