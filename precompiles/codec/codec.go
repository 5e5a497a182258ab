// Package codec turns ABI-encoded call arguments into typed Go values.
//
// Decoding is done by go-ethereum's accounts/abi; the converters here check
// that each token has the expected shape and width. Any mismatch, including
// an absent token, fails with ParseDataFailed.
package codec

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/eth2030/zkprecompiles/precompiles"
)

// AssetLength is the width of an asset type identifier.
const AssetLength = 32

// Reusable argument types.
var (
	Bytes32      = mustType("bytes32", nil)
	Bytes32Array = mustType("bytes32[]", nil)
	Address      = mustType("address", nil)
	Uint64       = mustType("uint64", nil)
	Uint128      = mustType("uint128", nil)
	Uint128Array = mustType("uint128[]", nil)
	Uint256      = mustType("uint256", nil)
	Bytes        = mustType("bytes", nil)
	BytesArray   = mustType("bytes[]", nil)
)

func mustType(name string, components []abi.ArgumentMarshaling) abi.Type {
	t, err := abi.NewType(name, "", components)
	if err != nil {
		panic("codec: bad abi type " + name + ": " + err.Error())
	}
	return t
}

// TupleType builds a tuple (or tuple[] when array is set) from named
// components. Component names become the Go field names of decoded values.
func TupleType(array bool, components ...abi.ArgumentMarshaling) abi.Type {
	name := "tuple"
	if array {
		name = "tuple[]"
	}
	return mustType(name, components)
}

// Args assembles an argument list in slot order.
func Args(types ...abi.Type) abi.Arguments {
	args := make(abi.Arguments, len(types))
	for i, t := range types {
		args[i] = abi.Argument{Type: t}
	}
	return args
}

// Decode unpacks data against args.
func Decode(args abi.Arguments, data []byte) ([]any, error) {
	tokens, err := args.Unpack(data)
	if err != nil {
		return nil, parseErr(errors.Wrap(err, "abi unpack"))
	}
	if len(tokens) != len(args) {
		return nil, parseErrf("decoded %d tokens, want %d", len(tokens), len(args))
	}
	return tokens, nil
}

// Arg returns the token at slot i, or nil when the slot does not exist.
func Arg(tokens []any, i int) any {
	if i < 0 || i >= len(tokens) {
		return nil
	}
	return tokens[i]
}

func parseErr(cause error) error {
	return precompiles.Wrap(precompiles.CodeParseDataFailed, cause)
}

func parseErrf(format string, args ...any) error {
	return parseErr(errors.Errorf(format, args...))
}

// ToBytes32 converts a bytes32 token.
func ToBytes32(tok any) ([32]byte, error) {
	v, ok := tok.([32]byte)
	if !ok {
		return [32]byte{}, parseErrf("want bytes32, got %T", tok)
	}
	return v, nil
}

// ToBytes32Array converts a bytes32[] token.
func ToBytes32Array(tok any) ([][32]byte, error) {
	v, ok := tok.([][32]byte)
	if !ok {
		return nil, parseErrf("want bytes32[], got %T", tok)
	}
	return v, nil
}

// ToAddress converts an address token.
func ToAddress(tok any) (common.Address, error) {
	v, ok := tok.(common.Address)
	if !ok {
		return common.Address{}, parseErrf("want address, got %T", tok)
	}
	return v, nil
}

// ToUint64 converts an unsigned integer token that must fit 64 bits. Both
// native uint64 tokens and wider big.Int tokens are accepted; wider values
// are rejected rather than truncated.
func ToUint64(tok any) (uint64, error) {
	switch v := tok.(type) {
	case uint64:
		return v, nil
	case *big.Int:
		if v == nil || v.Sign() < 0 || !v.IsUint64() {
			return 0, parseErrf("value does not fit 64 bits")
		}
		return v.Uint64(), nil
	}
	return 0, parseErrf("want uint64, got %T", tok)
}

// ToUint128 converts an unsigned integer token that must fit 128 bits.
func ToUint128(tok any) (*uint256.Int, error) {
	v, err := ToUint256(tok)
	if err != nil {
		return nil, err
	}
	if v.BitLen() > 128 {
		return nil, parseErrf("value does not fit 128 bits")
	}
	return v, nil
}

// ToUint256 converts an unsigned integer token of up to 256 bits.
func ToUint256(tok any) (*uint256.Int, error) {
	switch v := tok.(type) {
	case *big.Int:
		if v == nil || v.Sign() < 0 {
			return nil, parseErrf("want unsigned integer")
		}
		z, overflow := uint256.FromBig(v)
		if overflow {
			return nil, parseErrf("value does not fit 256 bits")
		}
		return z, nil
	case uint64:
		return uint256.NewInt(v), nil
	}
	return nil, parseErrf("want uint, got %T", tok)
}

// ToUint128Array converts a uint128[] token.
func ToUint128Array(tok any) ([]*uint256.Int, error) {
	raw, ok := tok.([]*big.Int)
	if !ok {
		return nil, parseErrf("want uint[], got %T", tok)
	}
	out := make([]*uint256.Int, len(raw))
	for i, b := range raw {
		v, err := ToUint128(b)
		if err != nil {
			return nil, errors.Wrapf(err, "element %d", i)
		}
		out[i] = v
	}
	return out, nil
}

// ToUint256Array converts a uint256[] token.
func ToUint256Array(tok any) ([]*uint256.Int, error) {
	raw, ok := tok.([]*big.Int)
	if !ok {
		return nil, parseErrf("want uint[], got %T", tok)
	}
	out := make([]*uint256.Int, len(raw))
	for i, b := range raw {
		v, err := ToUint256(b)
		if err != nil {
			return nil, errors.Wrapf(err, "element %d", i)
		}
		out[i] = v
	}
	return out, nil
}

// ToBytes converts a dynamic bytes token.
func ToBytes(tok any) ([]byte, error) {
	v, ok := tok.([]byte)
	if !ok {
		return nil, parseErrf("want bytes, got %T", tok)
	}
	return v, nil
}

// ToBytesArray converts a bytes[] token.
func ToBytesArray(tok any) ([][]byte, error) {
	v, ok := tok.([][]byte)
	if !ok {
		return nil, parseErrf("want bytes[], got %T", tok)
	}
	return v, nil
}

// Convert copies a token into a value of type T. Tuples and tuple arrays
// come out of abi as anonymous structs; T is then a declared struct (or
// slice of structs) whose fields mirror the components in order.
func Convert[T any](tok any) (out T, err error) {
	if tok == nil {
		return out, parseErrf("want %T, got nil", out)
	}
	defer func() {
		if r := recover(); r != nil {
			var zero T
			out, err = zero, parseErrf("want %T, got %T", zero, tok)
		}
	}()
	return *abi.ConvertType(tok, new(T)).(*T), nil
}

// Asset checks that b is exactly one asset identifier wide.
func Asset(b []byte) ([AssetLength]byte, error) {
	var asset [AssetLength]byte
	if len(b) != AssetLength {
		return asset, parseErrf("asset length %d, want %d", len(b), AssetLength)
	}
	copy(asset[:], b)
	return asset, nil
}
