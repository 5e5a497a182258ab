// Package anemoi routes the Anemoi hash precompile: evaluation of the Jive
// compression over two BN254 scalar pairs and lookup of the Jive salt
// constants. Field elements travel as 32-byte little-endian words.
package anemoi

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/pkg/errors"

	"github.com/eth2030/zkprecompiles/precompiles"
	"github.com/eth2030/zkprecompiles/precompiles/codec"
)

const (
	// GasJive4 is the cost of one jive-4 evaluation.
	GasJive4 uint64 = 400
	// GasSalts is the cost of one salt lookup.
	GasSalts uint64 = 10
)

var (
	SelectorJive4 = precompiles.Selector{0x73, 0x80, 0x82, 0x63}
	SelectorSalts = precompiles.Selector{0xbc, 0x4f, 0x54, 0xce}
)

var (
	jiveArgs  = codec.Args(codec.Bytes32, codec.Bytes32, codec.Bytes32, codec.Bytes32)
	saltsArgs = codec.Args(codec.Uint256)

	gasTable = precompiles.GasTable{
		SelectorJive4: precompiles.FixedGas(GasJive4),
		SelectorSalts: precompiles.FixedGas(GasSalts),
	}
)

// Operations lists the selector table of the family.
func Operations() []precompiles.Operation {
	return []precompiles.Operation{
		{Family: Name, Name: "jive-eval-4", Selector: SelectorJive4, Signature: "anemoi_jive_4(bytes32,bytes32,bytes32,bytes32)"},
		{Family: Name, Name: "salts-by-index", Selector: SelectorSalts, Signature: "anemoi_jive_254_salts(uint128)", Legacy: true},
	}
}

// Name identifies the family in logs and metrics.
const Name = "anemoi"

// JiveEvaluator computes the Jive compression of the pair (x, y).
type JiveEvaluator interface {
	EvalJive(x, y [2]fr.Element) fr.Element
}

// JiveArgs are the decoded arguments of jive-eval-4.
type JiveArgs struct {
	X [2]fr.Element
	Y [2]fr.Element
}

// SaltsArgs are the decoded arguments of salts-by-index.
type SaltsArgs struct {
	Index uint64
}

// DecodeJive decodes the four field-element words of a jive-4 call.
func DecodeJive(data []byte) (*JiveArgs, error) {
	tokens, err := codec.Decode(jiveArgs, data)
	if err != nil {
		return nil, err
	}
	var elems [4]fr.Element
	for i := range elems {
		word, err := codec.ToBytes32(codec.Arg(tokens, i))
		if err != nil {
			return nil, err
		}
		if elems[i], err = ElementFromWord(word); err != nil {
			return nil, err
		}
	}
	return &JiveArgs{
		X: [2]fr.Element{elems[0], elems[1]},
		Y: [2]fr.Element{elems[2], elems[3]},
	}, nil
}

// DecodeSalts decodes the index word of a salts call. The index must fit
// 128 bits; range against the table is checked on lookup.
func DecodeSalts(data []byte) (*SaltsArgs, error) {
	tokens, err := codec.Decode(saltsArgs, data)
	if err != nil {
		return nil, err
	}
	idx, err := codec.ToUint128(codec.Arg(tokens, 0))
	if err != nil {
		return nil, err
	}
	if !idx.IsUint64() {
		// Wider than any table, but still a well-formed index.
		return &SaltsArgs{Index: ^uint64(0)}, nil
	}
	return &SaltsArgs{Index: idx.Uint64()}, nil
}

// ElementFromWord reads a canonical little-endian scalar.
func ElementFromWord(word [32]byte) (fr.Element, error) {
	e, err := fr.LittleEndian.Element(&word)
	if err != nil {
		return fr.Element{}, precompiles.Wrap(precompiles.CodeParseDataFailed, errors.Wrap(err, "field element"))
	}
	return e, nil
}

// WordFromElement writes e as a 32-byte little-endian word.
func WordFromElement(e fr.Element) [32]byte {
	var word [32]byte
	fr.LittleEndian.PutElement(&word, e)
	return word
}

// Family is the Anemoi executor. It is immutable and safe for concurrent
// use.
type Family struct {
	jive  JiveEvaluator
	salts *SaltTable
}

// New returns the family. A nil evaluator makes jive calls fail with
// ExecError; a nil salt table makes salt lookups fail with
// FailedToLoadVerifierParams.
func New(jive JiveEvaluator, salts *SaltTable) *Family {
	return &Family{jive: jive, salts: salts}
}

func (f *Family) Name() string { return Name }

// Gas prices a call whose arguments decode. Undecodable calls cost 0.
func (f *Family) Gas(data []byte) (uint64, error) {
	if err := f.Check(data); err != nil {
		return 0, err
	}
	sel, _, err := precompiles.SplitSelector(data)
	if err != nil {
		return 0, err
	}
	rule, err := gasTable.Rule(sel)
	if err != nil {
		return 0, err
	}
	return rule.Cost(0, 0), nil
}

// Exec runs the selected operation and returns its 32-byte result.
func (f *Family) Exec(data []byte) ([]byte, error) {
	sel, rest, err := precompiles.SplitSelector(data)
	if err != nil {
		return nil, err
	}
	switch sel {
	case SelectorJive4:
		args, err := DecodeJive(rest)
		if err != nil {
			return nil, err
		}
		return f.execJive(args)
	case SelectorSalts:
		args, err := DecodeSalts(rest)
		if err != nil {
			return nil, err
		}
		return f.execSalts(args)
	default:
		return nil, precompiles.ErrUnknownSelector
	}
}

// Check decodes the call without computing anything.
func (f *Family) Check(data []byte) error {
	sel, rest, err := precompiles.SplitSelector(data)
	if err != nil {
		return err
	}
	switch sel {
	case SelectorJive4:
		_, err = DecodeJive(rest)
	case SelectorSalts:
		_, err = DecodeSalts(rest)
	default:
		err = precompiles.ErrUnknownSelector
	}
	return err
}

func (f *Family) execJive(args *JiveArgs) ([]byte, error) {
	if f.jive == nil {
		return nil, precompiles.Wrap(precompiles.CodeExecError, errors.New("no jive evaluator configured"))
	}
	out := WordFromElement(f.jive.EvalJive(args.X, args.Y))
	return out[:], nil
}

func (f *Family) execSalts(args *SaltsArgs) ([]byte, error) {
	if args.Index >= SaltCount {
		return nil, precompiles.Wrap(precompiles.CodeInputOutOfBound,
			errors.Errorf("salt index %d out of range", args.Index))
	}
	if f.salts == nil {
		return nil, precompiles.Wrap(precompiles.CodeFailedToLoadVerifierParams, errors.New("no salt table loaded"))
	}
	salt, err := f.salts.Salt(args.Index)
	if err != nil {
		return nil, err
	}
	out := WordFromElement(salt)
	return out[:], nil
}
