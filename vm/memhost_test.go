package vm

import "github.com/lightclient/evm/common"

// memHost is a minimal in-memory Host for tests: one flat storage map per
// address, no code/balance registry beyond what a test installs, and logs
// collected for inspection. It is not a production implementation of
// journaling or access lists; it exists to drive the engine end to end
// the way a real host's storage/account layer would.
type memHost struct {
	storage map[common.Address]map[Word]Word
	balance map[common.Address]*Word
	code    map[common.Address][]byte
	logs    []loggedEvent
	loads   int
}

type loggedEvent struct {
	addr   common.Address
	topics []common.Hash
	data   []byte
}

func newMemHost() *memHost {
	return &memHost{
		storage: make(map[common.Address]map[Word]Word),
		balance: make(map[common.Address]*Word),
		code:    make(map[common.Address][]byte),
	}
}

func (h *memHost) setStorage(addr common.Address, key, value *Word) {
	slots, ok := h.storage[addr]
	if !ok {
		slots = make(map[Word]Word)
		h.storage[addr] = slots
	}
	slots[*key] = *value
}

func (h *memHost) GetStorage(addr common.Address, key *Word) *Word {
	h.loads++
	slots, ok := h.storage[addr]
	if !ok {
		return newWord()
	}
	v, ok := slots[*key]
	if !ok {
		return newWord()
	}
	w := v
	return &w
}

func (h *memHost) SetStorage(addr common.Address, key, value *Word) (uint64, int64) {
	h.setStorage(addr, key, value)
	return GasSload, 0
}

func (h *memHost) GetBalance(addr common.Address) *Word {
	if b, ok := h.balance[addr]; ok {
		return new(Word).Set(b)
	}
	return newWord()
}

func (h *memHost) GetCodeSize(addr common.Address) uint64 {
	return uint64(len(h.code[addr]))
}

func (h *memHost) GetCodeHash(addr common.Address) common.Hash {
	code, ok := h.code[addr]
	if !ok || len(code) == 0 {
		return common.Hash{}
	}
	return common.BytesToHash(code) // test double; a real host hashes with crypto.Keccak256Hash
}

func (h *memHost) CopyCode(addr common.Address, offset, length uint64) []byte {
	out := make([]byte, length)
	code := h.code[addr]
	if offset >= uint64(len(code)) {
		return out
	}
	end := offset + length
	if end > uint64(len(code)) {
		end = uint64(len(code))
	}
	copy(out, code[offset:end])
	return out
}

func (h *memHost) BlockHash(number uint64) common.Hash {
	return common.Hash{}
}

func (h *memHost) EmitLog(addr common.Address, topics []common.Hash, data []byte) {
	h.logs = append(h.logs, loggedEvent{addr: addr, topics: topics, data: data})
}

func (h *memHost) SelfDestruct(addr, beneficiary common.Address) {}

// testEnv returns a deterministic, zero-valued Environment suitable as a
// base for tests that don't care about block context.
func testEnv() Environment {
	return Environment{
		Difficulty:  newWord(),
		GasLimit:    newWord(),
		GasPrice:    newWord(),
		BlockNumber: newWord(),
		Timestamp:   newWord(),
		ChainID:     newWord(),
		BaseFee:     newWord(),
	}
}

// testMessage returns a Message with the given code's gas budget and no
// input, target, or value.
func testMessage(gas uint64) Message {
	return Message{Gas: gas, Value: newWord()}
}
