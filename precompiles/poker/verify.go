package poker

import (
	"github.com/pkg/errors"

	"github.com/eth2030/zkprecompiles/precompiles"
	"github.com/eth2030/zkprecompiles/precompiles/poker/dlcards"
)

// VerifyFamily is the mental-poker verification precompile.
type VerifyFamily struct {
	proto Protocol
}

// NewVerifyFamily returns the family backed by proto, or by the dlcards
// protocol without a shuffle verifier when proto is nil.
func NewVerifyFamily(proto Protocol) *VerifyFamily {
	return &VerifyFamily{proto: orDefault(proto)}
}

func (f *VerifyFamily) Name() string { return VerifyName }

// Gas decodes the call and returns the fixed operation cost.
func (f *VerifyFamily) Gas(data []byte) (uint64, error) {
	if err := f.Check(data); err != nil {
		return 0, err
	}
	return opGas.Cost(0, 0), nil
}

// Check decodes the call without verifying it.
func (f *VerifyFamily) Check(data []byte) error {
	sel, rest, err := precompiles.SplitSelector(data)
	if err != nil {
		return err
	}
	switch sel {
	case SelectorVerifyKeyOwnership:
		_, err = DecodeKeyOwnership(rest)
	case SelectorVerifyReveal:
		_, err = DecodeVerifyReveal(rest)
	case SelectorVerifyShuffle:
		_, err = DecodeShuffle(rest)
	default:
		err = precompiles.ErrUnknownSelector
	}
	return err
}

// Verify decodes the call and checks its proof.
func (f *VerifyFamily) Verify(data []byte) error {
	sel, rest, err := precompiles.SplitSelector(data)
	if err != nil {
		return err
	}
	switch sel {
	case SelectorVerifyKeyOwnership:
		args, err := DecodeKeyOwnership(rest)
		if err != nil {
			return err
		}
		return f.verifyKeyOwnership(args)
	case SelectorVerifyReveal:
		args, err := DecodeVerifyReveal(rest)
		if err != nil {
			return err
		}
		return f.verifyReveal(args)
	case SelectorVerifyShuffle:
		args, err := DecodeShuffle(rest)
		if err != nil {
			return err
		}
		return f.verifyShuffle(args)
	default:
		return precompiles.ErrUnknownSelector
	}
}

func rejected(err error) error {
	if errors.Is(err, dlcards.ErrShuffleUnsupported) {
		return precompiles.Wrap(precompiles.CodeFailedToLoadVerifierParams, err)
	}
	return &precompiles.Error{Code: precompiles.CodeProofVerificationFailed, Err: err}
}

func (f *VerifyFamily) verifyKeyOwnership(args *KeyOwnershipArgs) error {
	params, err := decodeParams(args.Params)
	if err != nil {
		return err
	}
	pk, err := decodePoint(args.PubKey, "public key")
	if err != nil {
		return err
	}
	memo, err := dlcards.DecodeMemo(args.Memo)
	if err != nil {
		return deserializeErr(err, "memo")
	}
	proof, err := dlcards.DecodeKeyOwnershipProof(args.Proof)
	if err != nil {
		return deserializeErr(err, "key ownership proof")
	}
	if err := f.proto.VerifyKeyOwnership(params, &pk, memo, proof); err != nil {
		return rejected(err)
	}
	return nil
}

func (f *VerifyFamily) verifyReveal(args *VerifyRevealArgs) error {
	params, err := decodeParams(args.Params)
	if err != nil {
		return err
	}
	pk, err := decodePoint(args.PubKey, "public key")
	if err != nil {
		return err
	}
	token, err := decodePoint(args.Token, "reveal token")
	if err != nil {
		return err
	}
	masked, err := decodeMasked(args.Masked, "masked card")
	if err != nil {
		return err
	}
	proof, err := dlcards.DecodeRevealProof(args.Proof)
	if err != nil {
		return deserializeErr(err, "reveal proof")
	}
	if err := f.proto.VerifyReveal(params, &pk, &token, &masked, proof); err != nil {
		return rejected(err)
	}
	return nil
}

func (f *VerifyFamily) verifyShuffle(args *ShuffleArgs) error {
	params, err := decodeParams(args.Params)
	if err != nil {
		return err
	}
	shared, err := decodePoint(args.SharedKey, "shared key")
	if err != nil {
		return err
	}
	original, err := decodeDeck(args.Original, "original deck")
	if err != nil {
		return err
	}
	shuffled, err := decodeDeck(args.Shuffled, "shuffled deck")
	if err != nil {
		return err
	}
	if err := f.proto.VerifyShuffle(params, &shared, original, shuffled, args.Proof); err != nil {
		return rejected(err)
	}
	return nil
}
