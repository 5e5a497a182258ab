package anemoi

import (
	"encoding/hex"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/pkg/errors"

	"github.com/eth2030/zkprecompiles/precompiles"
)

// SaltCount is the number of Jive salt constants.
const SaltCount = 64

// SaltTable holds the Jive salt constants. It is built once and never
// modified afterwards.
type SaltTable struct {
	salts [SaltCount]fr.Element
}

// NewSaltTable copies exactly SaltCount elements into a table.
func NewSaltTable(salts []fr.Element) (*SaltTable, error) {
	if len(salts) != SaltCount {
		return nil, errors.Errorf("anemoi: salt table needs %d entries, got %d", SaltCount, len(salts))
	}
	t := new(SaltTable)
	copy(t.salts[:], salts)
	return t, nil
}

// ParseSaltTable builds a table from 64 little-endian hex words, with or
// without a 0x prefix.
func ParseSaltTable(words []string) (*SaltTable, error) {
	salts := make([]fr.Element, len(words))
	for i, w := range words {
		raw, err := hex.DecodeString(strings.TrimPrefix(w, "0x"))
		if err != nil {
			return nil, errors.Wrapf(err, "anemoi: salt %d", i)
		}
		if len(raw) != fr.Bytes {
			return nil, errors.Errorf("anemoi: salt %d is %d bytes, want %d", i, len(raw), fr.Bytes)
		}
		var word [32]byte
		copy(word[:], raw)
		if salts[i], err = fr.LittleEndian.Element(&word); err != nil {
			return nil, errors.Wrapf(err, "anemoi: salt %d", i)
		}
	}
	return NewSaltTable(salts)
}

// Salt returns the constant at index.
func (t *SaltTable) Salt(index uint64) (fr.Element, error) {
	if index >= SaltCount {
		return fr.Element{}, precompiles.Wrap(precompiles.CodeInputOutOfBound,
			errors.Errorf("salt index %d out of range", index))
	}
	return t.salts[index], nil
}
