package poker

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/eth2030/zkprecompiles/precompiles"
	"github.com/eth2030/zkprecompiles/precompiles/poker/dlcards"
)

// ExecFamily is the mental-poker computation precompile. Results are
// canonical encodings: 32 bytes for keys and cards, 64 bytes for masked
// cards.
type ExecFamily struct {
	proto Protocol
}

// NewExecFamily returns the family backed by proto, or by the dlcards
// protocol when proto is nil.
func NewExecFamily(proto Protocol) *ExecFamily {
	return &ExecFamily{proto: orDefault(proto)}
}

func (f *ExecFamily) Name() string { return ExecName }

// Gas decodes the call and returns the fixed operation cost.
func (f *ExecFamily) Gas(data []byte) (uint64, error) {
	if err := f.Check(data); err != nil {
		return 0, err
	}
	return opGas.Cost(0, 0), nil
}

// Check decodes the call without computing anything.
func (f *ExecFamily) Check(data []byte) error {
	sel, rest, err := precompiles.SplitSelector(data)
	if err != nil {
		return err
	}
	switch sel {
	case SelectorComputeAggregateKey:
		_, err = DecodeAggregateKey(rest)
	case SelectorReveal:
		_, err = DecodeReveal(rest)
	case SelectorMask:
		_, err = DecodeMask(rest)
	default:
		err = precompiles.ErrUnknownSelector
	}
	return err
}

// Exec decodes the call and computes its result.
func (f *ExecFamily) Exec(data []byte) ([]byte, error) {
	sel, rest, err := precompiles.SplitSelector(data)
	if err != nil {
		return nil, err
	}
	switch sel {
	case SelectorComputeAggregateKey:
		args, err := DecodeAggregateKey(rest)
		if err != nil {
			return nil, err
		}
		return f.aggregateKey(args)
	case SelectorReveal:
		args, err := DecodeReveal(rest)
		if err != nil {
			return nil, err
		}
		return f.reveal(args)
	case SelectorMask:
		args, err := DecodeMask(rest)
		if err != nil {
			return nil, err
		}
		return f.mask(args)
	default:
		return nil, precompiles.ErrUnknownSelector
	}
}

func (f *ExecFamily) aggregateKey(args *AggregateKeyArgs) ([]byte, error) {
	keys, err := decodePoints(args.Keys, "public key")
	if err != nil {
		return nil, err
	}
	agg := dlcards.AggregateKey(keys)
	return dlcards.EncodePoint(&agg), nil
}

func (f *ExecFamily) reveal(args *RevealArgs) ([]byte, error) {
	tokens, err := decodePoints(args.Tokens, "reveal token")
	if err != nil {
		return nil, err
	}
	masked, err := decodeMasked(args.Masked, "masked card")
	if err != nil {
		return nil, err
	}
	agg := dlcards.AggregateToken(tokens)
	card, err := f.proto.Reveal(&agg, &masked)
	if err != nil {
		return nil, precompiles.Wrap(precompiles.CodeExecError, err)
	}
	return dlcards.EncodePoint(&card), nil
}

func (f *ExecFamily) mask(args *MaskArgs) ([]byte, error) {
	params, err := decodeParams(args.Params)
	if err != nil {
		return nil, err
	}
	shared, err := decodePoint(args.SharedKey, "shared key")
	if err != nil {
		return nil, err
	}
	card, err := decodePoint(args.Card, "card")
	if err != nil {
		return nil, err
	}
	var one fr.Element
	one.SetOne()
	masked, err := f.proto.Mask(params, &shared, &card, &one)
	if err != nil {
		return nil, precompiles.Wrap(precompiles.CodeExecError, err)
	}
	return masked.Bytes(), nil
}
