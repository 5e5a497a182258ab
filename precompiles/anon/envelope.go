package anon

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/eth2030/zkprecompiles/precompiles"
)

// AddressFormat is the signature scheme of the addresses a proof commits to.
// It selects which verifier parameters apply.
type AddressFormat uint8

const (
	Secp256k1 AddressFormat = iota
	Ed25519
)

func (f AddressFormat) String() string {
	switch f {
	case Secp256k1:
		return "secp256k1"
	case Ed25519:
		return "ed25519"
	}
	return fmt.Sprintf("AddressFormat(%d)", uint8(f))
}

// ParseAddressFormat parses the lowercase name of a format.
func ParseAddressFormat(s string) (AddressFormat, error) {
	switch s {
	case "secp256k1":
		return Secp256k1, nil
	case "ed25519":
		return Ed25519, nil
	}
	return 0, errors.Errorf("unknown address format %q", s)
}

// FoldingInstance is the address-folding part of a proof. Scheme uses the
// AddressFormat numbering.
type FoldingInstance struct {
	Scheme   uint8
	Instance []byte
}

// ProofEnvelope is the RLP payload carried in a proof argument.
type ProofEnvelope struct {
	Proof   []byte
	Folding FoldingInstance
}

// AddressFormatOf maps a folding instance onto its address format.
func AddressFormatOf(folding FoldingInstance) (AddressFormat, error) {
	switch AddressFormat(folding.Scheme) {
	case Secp256k1:
		return Secp256k1, nil
	case Ed25519:
		return Ed25519, nil
	}
	return 0, precompiles.Wrap(precompiles.CodeFoldingDecodeFailed,
		errors.Errorf("unknown folding scheme %d", folding.Scheme))
}

// DecodeEnvelope parses proof bytes and resolves the address format of the
// folding instance.
func DecodeEnvelope(b []byte) (*ProofEnvelope, AddressFormat, error) {
	env := new(ProofEnvelope)
	if err := rlp.DecodeBytes(b, env); err != nil {
		return nil, 0, precompiles.Wrap(precompiles.CodeProofDecodeFailed, errors.Wrap(err, "proof envelope"))
	}
	format, err := AddressFormatOf(env.Folding)
	if err != nil {
		return nil, 0, err
	}
	return env, format, nil
}

// EncodeEnvelope is the inverse of DecodeEnvelope.
func EncodeEnvelope(env *ProofEnvelope) ([]byte, error) {
	return rlp.EncodeToBytes(env)
}
