package precompiles

import (
	"encoding/hex"

	"github.com/ethereum/go-ethereum/crypto"
)

// SelectorLength is the width of the operation code that prefixes call data.
const SelectorLength = 4

// Selector is a 4-byte operation code. Codes are only compared inside the
// closed table of one family.
type Selector [SelectorLength]byte

// SelectorOf derives the selector of a canonical ABI signature such as
// "mask(bytes,bytes,bytes)".
func SelectorOf(signature string) Selector {
	var s Selector
	copy(s[:], crypto.Keccak256([]byte(signature))[:SelectorLength])
	return s
}

// Hex returns the selector as lowercase hex without a 0x prefix.
func (s Selector) Hex() string { return hex.EncodeToString(s[:]) }

func (s Selector) String() string { return "0x" + s.Hex() }

// SplitSelector reads the leading operation code and returns it along with
// the argument bytes that follow it.
func SplitSelector(data []byte) (Selector, []byte, error) {
	var s Selector
	if len(data) < SelectorLength {
		return s, nil, ErrWrongSelectorLength
	}
	copy(s[:], data[:SelectorLength])
	return s, data[SelectorLength:], nil
}

// Verifier is a family whose operations only accept or reject their input.
type Verifier interface {
	Name() string
	Gas(data []byte) (uint64, error)
	Verify(data []byte) error
}

// Executor is a family whose operations produce a result value.
type Executor interface {
	Name() string
	Gas(data []byte) (uint64, error)
	Exec(data []byte) ([]byte, error)
}

// Operation describes one entry of a family's selector table.
type Operation struct {
	Family    string
	Name      string
	Selector  Selector
	Signature string
	// Legacy marks a selector kept for deployed callers that is not the
	// hash of Signature.
	Legacy bool
}
