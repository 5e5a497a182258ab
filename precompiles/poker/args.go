package poker

import (
	"github.com/pkg/errors"

	"github.com/eth2030/zkprecompiles/precompiles/codec"
)

var (
	keyOwnershipArgs = codec.Args(codec.Bytes, codec.Bytes, codec.Bytes, codec.Bytes)
	verifyRevealArgs = codec.Args(codec.Bytes, codec.Bytes, codec.Bytes, codec.Bytes, codec.Bytes)
	shuffleArgs      = codec.Args(codec.Bytes, codec.Bytes, codec.BytesArray, codec.BytesArray, codec.Bytes)
	aggregateArgs    = codec.Args(codec.BytesArray)
	revealArgs       = codec.Args(codec.BytesArray, codec.Bytes)
	maskArgs         = codec.Args(codec.Bytes, codec.Bytes, codec.Bytes)
)

// KeyOwnershipArgs are the arguments of verifyKeyOwnership.
type KeyOwnershipArgs struct {
	Params []byte
	PubKey []byte
	Memo   []byte
	Proof  []byte
}

// VerifyRevealArgs are the arguments of verifyReveal.
type VerifyRevealArgs struct {
	Params []byte
	PubKey []byte
	Token  []byte
	Masked []byte
	Proof  []byte
}

// ShuffleArgs are the arguments of verifyShuffle.
type ShuffleArgs struct {
	Params    []byte
	SharedKey []byte
	Original  [][]byte
	Shuffled  [][]byte
	Proof     []byte
}

// AggregateKeyArgs are the arguments of computeAggregateKey.
type AggregateKeyArgs struct {
	Keys [][]byte
}

// RevealArgs are the arguments of reveal.
type RevealArgs struct {
	Tokens [][]byte
	Masked []byte
}

// MaskArgs are the arguments of mask.
type MaskArgs struct {
	Params    []byte
	SharedKey []byte
	Card      []byte
}

func bytesArgs(tokens []any, dst ...*[]byte) error {
	for i, d := range dst {
		v, err := codec.ToBytes(codec.Arg(tokens, i))
		if err != nil {
			return errors.Wrapf(err, "slot %d", i)
		}
		*d = v
	}
	return nil
}

// DecodeKeyOwnership reads slots 0 through 3.
func DecodeKeyOwnership(data []byte) (*KeyOwnershipArgs, error) {
	tokens, err := codec.Decode(keyOwnershipArgs, data)
	if err != nil {
		return nil, err
	}
	a := new(KeyOwnershipArgs)
	if err := bytesArgs(tokens, &a.Params, &a.PubKey, &a.Memo, &a.Proof); err != nil {
		return nil, err
	}
	return a, nil
}

// DecodeVerifyReveal reads slots 0 through 4.
func DecodeVerifyReveal(data []byte) (*VerifyRevealArgs, error) {
	tokens, err := codec.Decode(verifyRevealArgs, data)
	if err != nil {
		return nil, err
	}
	a := new(VerifyRevealArgs)
	if err := bytesArgs(tokens, &a.Params, &a.PubKey, &a.Token, &a.Masked, &a.Proof); err != nil {
		return nil, err
	}
	return a, nil
}

// DecodeShuffle reads slots 0 through 4.
func DecodeShuffle(data []byte) (*ShuffleArgs, error) {
	tokens, err := codec.Decode(shuffleArgs, data)
	if err != nil {
		return nil, err
	}
	a := new(ShuffleArgs)
	if err := bytesArgs(tokens, &a.Params, &a.SharedKey); err != nil {
		return nil, err
	}
	if a.Original, err = codec.ToBytesArray(codec.Arg(tokens, 2)); err != nil {
		return nil, errors.Wrap(err, "original deck")
	}
	if a.Shuffled, err = codec.ToBytesArray(codec.Arg(tokens, 3)); err != nil {
		return nil, errors.Wrap(err, "shuffled deck")
	}
	if a.Proof, err = codec.ToBytes(codec.Arg(tokens, 4)); err != nil {
		return nil, errors.Wrap(err, "proof")
	}
	return a, nil
}

// DecodeAggregateKey reads the key list.
func DecodeAggregateKey(data []byte) (*AggregateKeyArgs, error) {
	tokens, err := codec.Decode(aggregateArgs, data)
	if err != nil {
		return nil, err
	}
	keys, err := codec.ToBytesArray(codec.Arg(tokens, 0))
	if err != nil {
		return nil, err
	}
	return &AggregateKeyArgs{Keys: keys}, nil
}

// DecodeReveal reads the token list and the masked card.
func DecodeReveal(data []byte) (*RevealArgs, error) {
	tokens, err := codec.Decode(revealArgs, data)
	if err != nil {
		return nil, err
	}
	a := new(RevealArgs)
	if a.Tokens, err = codec.ToBytesArray(codec.Arg(tokens, 0)); err != nil {
		return nil, err
	}
	if a.Masked, err = codec.ToBytes(codec.Arg(tokens, 1)); err != nil {
		return nil, err
	}
	return a, nil
}

// DecodeMask reads parameters, shared key and card.
func DecodeMask(data []byte) (*MaskArgs, error) {
	tokens, err := codec.Decode(maskArgs, data)
	if err != nil {
		return nil, err
	}
	a := new(MaskArgs)
	if err := bytesArgs(tokens, &a.Params, &a.SharedKey, &a.Card); err != nil {
		return nil, err
	}
	return a, nil
}
