package crypto

import (
	"encoding/hex"
	"testing"

	"github.com/lightclient/evm/common"
)

func TestKeccak256EmptyInput(t *testing.T) {
	got := hex.EncodeToString(Keccak256())
	want := "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"
	if got != want {
		t.Errorf("Keccak256() = %s, want %s", got, want)
	}
}

func TestKeccak256MultipleInputsConcatenate(t *testing.T) {
	combined := Keccak256([]byte("hello"), []byte("world"))
	separate := Keccak256([]byte("helloworld"))
	if hex.EncodeToString(combined) != hex.EncodeToString(separate) {
		t.Errorf("Keccak256(a, b) != Keccak256(a+b): %x != %x", combined, separate)
	}
}

func TestKeccak256Deterministic(t *testing.T) {
	data := []byte("deterministic")
	if hex.EncodeToString(Keccak256(data)) != hex.EncodeToString(Keccak256(data)) {
		t.Error("Keccak256 is not deterministic")
	}
}

func TestKeccak256HashLength(t *testing.T) {
	h := Keccak256Hash([]byte("test"))
	if len(h.Bytes()) != common.HashLength {
		t.Errorf("Keccak256Hash length = %d, want %d", len(h.Bytes()), common.HashLength)
	}
}
