// Package poker routes the two mental-poker precompiles. The verify family
// checks key-ownership, reveal and shuffle proofs; the exec family computes
// aggregate keys, reveals cards and masks cards. Group arithmetic and proof
// checking are delegated to a Protocol, by default the dlcards backend.
package poker

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/pkg/errors"

	"github.com/eth2030/zkprecompiles/precompiles"
	"github.com/eth2030/zkprecompiles/precompiles/poker/dlcards"
)

// Family names used in logs and metrics.
const (
	VerifyName = "mental-poker-verify"
	ExecName   = "mental-poker-exec"
)

// GasPerOp is charged for every mental-poker operation.
const GasPerOp uint64 = 50000

var (
	SelectorVerifyKeyOwnership  = precompiles.Selector{0x39, 0x31, 0xf6, 0x49}
	SelectorVerifyReveal        = precompiles.Selector{0x9c, 0xa8, 0x0d, 0x77}
	SelectorVerifyShuffle       = precompiles.Selector{0x2a, 0x37, 0x98, 0x65}
	SelectorComputeAggregateKey = precompiles.Selector{0x5b, 0x2b, 0xfe, 0xc7}
	SelectorReveal              = precompiles.Selector{0x6a, 0x33, 0xd6, 0x52}
	SelectorMask                = precompiles.Selector{0x5a, 0x88, 0x90, 0xbc}
)

var opGas = precompiles.FixedGas(GasPerOp)

// VerifyOperations lists the selector table of the verify family.
func VerifyOperations() []precompiles.Operation {
	return []precompiles.Operation{
		{Family: VerifyName, Name: "verify-key-ownership", Selector: SelectorVerifyKeyOwnership, Signature: "verifyKeyOwnership(bytes,bytes,bytes,bytes)"},
		{Family: VerifyName, Name: "verify-reveal", Selector: SelectorVerifyReveal, Signature: "verifyReveal(bytes,bytes,bytes,bytes,bytes)"},
		{Family: VerifyName, Name: "verify-shuffle", Selector: SelectorVerifyShuffle, Signature: "verifyShuffle(bytes,bytes,bytes[],bytes[],bytes)"},
	}
}

// ExecOperations lists the selector table of the exec family.
func ExecOperations() []precompiles.Operation {
	return []precompiles.Operation{
		{Family: ExecName, Name: "compute-aggregate-key", Selector: SelectorComputeAggregateKey, Signature: "computeAggregateKey(bytes[])"},
		{Family: ExecName, Name: "reveal", Selector: SelectorReveal, Signature: "reveal(bytes[],bytes)"},
		{Family: ExecName, Name: "mask", Selector: SelectorMask, Signature: "mask(bytes,bytes,bytes)"},
	}
}

// Protocol is the card protocol backend.
type Protocol interface {
	Mask(params *dlcards.Parameters, sharedKey *dlcards.PublicKey, card *dlcards.Card, r *fr.Element) (dlcards.MaskedCard, error)
	Reveal(token *dlcards.RevealToken, masked *dlcards.MaskedCard) (dlcards.Card, error)
	VerifyKeyOwnership(params *dlcards.Parameters, pk *dlcards.PublicKey, memo []byte, proof *dlcards.KeyOwnershipProof) error
	VerifyReveal(params *dlcards.Parameters, pk *dlcards.PublicKey, token *dlcards.RevealToken, masked *dlcards.MaskedCard, proof *dlcards.RevealProof) error
	VerifyShuffle(params *dlcards.Parameters, sharedKey *dlcards.PublicKey, original, shuffled []dlcards.MaskedCard, proof []byte) error
}

func orDefault(proto Protocol) Protocol {
	if proto == nil {
		return dlcards.Protocol{}
	}
	return proto
}

func deserializeErr(err error, what string) error {
	return precompiles.Wrap(precompiles.CodeDeserializeError, errors.Wrap(err, what))
}

func decodeParams(b []byte) (*dlcards.Parameters, error) {
	p, err := dlcards.DecodeParameters(b)
	if err != nil {
		return nil, deserializeErr(err, "parameters")
	}
	return p, nil
}

func decodePoint(b []byte, what string) (dlcards.PublicKey, error) {
	p, err := dlcards.DecodePoint(b)
	if err != nil {
		return p, deserializeErr(err, what)
	}
	return p, nil
}

func decodeMasked(b []byte, what string) (dlcards.MaskedCard, error) {
	c, err := dlcards.DecodeMaskedCard(b)
	if err != nil {
		return c, deserializeErr(err, what)
	}
	return c, nil
}

func decodeDeck(cards [][]byte, what string) ([]dlcards.MaskedCard, error) {
	deck := make([]dlcards.MaskedCard, len(cards))
	for i, b := range cards {
		c, err := decodeMasked(b, what)
		if err != nil {
			return nil, errors.Wrapf(err, "card %d", i)
		}
		deck[i] = c
	}
	return deck, nil
}

func decodePoints(bufs [][]byte, what string) ([]dlcards.PublicKey, error) {
	out := make([]dlcards.PublicKey, len(bufs))
	for i, b := range bufs {
		p, err := decodePoint(b, what)
		if err != nil {
			return nil, errors.Wrapf(err, "%s %d", what, i)
		}
		out[i] = p
	}
	return out, nil
}
