package anon

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/eth2030/zkprecompiles/precompiles/codec"
)

var (
	depositArgs = codec.Args(
		codec.Bytes32Array, // commitments
		codec.Bytes32Array, // assets
		codec.Uint128Array, // amounts
		codec.BytesArray,   // proofs
		codec.BytesArray,   // memos
		codec.Bytes32Array, // hashes
	)

	transferEntityType = codec.TupleType(true,
		abi.ArgumentMarshaling{Name: "rootVersion", Type: "uint64"},
		abi.ArgumentMarshaling{Name: "root", Type: "bytes32"},
		abi.ArgumentMarshaling{Name: "feeAsset", Type: "bytes32"},
		abi.ArgumentMarshaling{Name: "feeAmount", Type: "uint256"},
		abi.ArgumentMarshaling{Name: "transparentAccount", Type: "address"},
		abi.ArgumentMarshaling{Name: "transparentAsset", Type: "bytes32"},
		abi.ArgumentMarshaling{Name: "transparentAmount", Type: "uint256"},
		abi.ArgumentMarshaling{Name: "hash", Type: "bytes32"},
		abi.ArgumentMarshaling{Name: "nullifiers", Type: "bytes32[]"},
		abi.ArgumentMarshaling{Name: "commitments", Type: "bytes32[]"},
		abi.ArgumentMarshaling{Name: "memos", Type: "bytes[]"},
		abi.ArgumentMarshaling{Name: "proof", Type: "bytes"},
	)
	transferArgs = codec.Args(transferEntityType)

	ownershipArgs = codec.Args(
		codec.Uint256, // root version
		codec.Uint256, // amount
		codec.Bytes,   // asset
		codec.Bytes,   // nullifier
		codec.Bytes,   // proof
		codec.Bytes,   // folding instance
		codec.Bytes32, // merkle root
		codec.Bytes,   // hash
	)
)

// DepositArgs holds the parallel arrays of a verify-deposit call. Position
// i across every array is one deposit entry; equal lengths are checked on
// verification, not here.
type DepositArgs struct {
	Commitments [][32]byte
	Assets      [][32]byte
	Amounts     []*uint256.Int
	Proofs      [][]byte
	Memos       [][]byte
	Hashes      [][32]byte
}

// TransferEntity is one anonymous-to-anonymous transfer of a batch.
type TransferEntity struct {
	RootVersion        uint64
	MerkleRoot         [32]byte
	FeeAsset           [32]byte
	FeeAmount          *uint256.Int
	TransparentAccount common.Address
	TransparentAsset   [32]byte
	TransparentAmount  *uint256.Int
	Hash               [32]byte
	Nullifiers         [][32]byte
	Commitments        [][32]byte
	Memos              [][]byte
	Proof              []byte
}

// TransferArgs is a batch of transfers verified together.
type TransferArgs struct {
	Entities []*TransferEntity
}

// OwnershipArgs are the arguments of verify-ownership.
type OwnershipArgs struct {
	RootVersion uint64
	Amount      *uint256.Int
	Asset       []byte
	Nullifier   []byte
	Proof       []byte
	Folding     []byte
	MerkleRoot  [32]byte
	Hash        []byte
}

// DecodeDeposit decodes verify-deposit arguments.
func DecodeDeposit(data []byte) (*DepositArgs, error) {
	tokens, err := codec.Decode(depositArgs, data)
	if err != nil {
		return nil, err
	}
	args := new(DepositArgs)
	if args.Commitments, err = codec.ToBytes32Array(codec.Arg(tokens, 0)); err != nil {
		return nil, errors.Wrap(err, "commitments")
	}
	if args.Assets, err = codec.ToBytes32Array(codec.Arg(tokens, 1)); err != nil {
		return nil, errors.Wrap(err, "assets")
	}
	if args.Amounts, err = codec.ToUint128Array(codec.Arg(tokens, 2)); err != nil {
		return nil, errors.Wrap(err, "amounts")
	}
	if args.Proofs, err = codec.ToBytesArray(codec.Arg(tokens, 3)); err != nil {
		return nil, errors.Wrap(err, "proofs")
	}
	if args.Memos, err = codec.ToBytesArray(codec.Arg(tokens, 4)); err != nil {
		return nil, errors.Wrap(err, "memos")
	}
	if args.Hashes, err = codec.ToBytes32Array(codec.Arg(tokens, 5)); err != nil {
		return nil, errors.Wrap(err, "hashes")
	}
	return args, nil
}

// transferRow mirrors the components of one transfer tuple.
type transferRow struct {
	RootVersion        uint64
	Root               [32]byte
	FeeAsset           [32]byte
	FeeAmount          *big.Int
	TransparentAccount common.Address
	TransparentAsset   [32]byte
	TransparentAmount  *big.Int
	Hash               [32]byte
	Nullifiers         [][32]byte
	Commitments        [][32]byte
	Memos              [][]byte
	Proof              []byte
}

// DecodeTransfer decodes a verify-transfer batch.
func DecodeTransfer(data []byte) (*TransferArgs, error) {
	tokens, err := codec.Decode(transferArgs, data)
	if err != nil {
		return nil, err
	}
	rows, err := codec.Convert[[]transferRow](codec.Arg(tokens, 0))
	if err != nil {
		return nil, err
	}
	args := &TransferArgs{Entities: make([]*TransferEntity, len(rows))}
	for i := range rows {
		if args.Entities[i], err = decodeTransferEntity(&rows[i]); err != nil {
			return nil, errors.Wrapf(err, "transfer %d", i)
		}
	}
	return args, nil
}

func decodeTransferEntity(row *transferRow) (*TransferEntity, error) {
	e := &TransferEntity{
		RootVersion:        row.RootVersion,
		MerkleRoot:         row.Root,
		FeeAsset:           row.FeeAsset,
		TransparentAccount: row.TransparentAccount,
		TransparentAsset:   row.TransparentAsset,
		Hash:               row.Hash,
		Nullifiers:         row.Nullifiers,
		Commitments:        row.Commitments,
		Memos:              row.Memos,
		Proof:              row.Proof,
	}
	var err error
	if e.FeeAmount, err = codec.ToUint256(row.FeeAmount); err != nil {
		return nil, errors.Wrap(err, "fee amount")
	}
	if e.TransparentAmount, err = codec.ToUint256(row.TransparentAmount); err != nil {
		return nil, errors.Wrap(err, "transparent amount")
	}
	return e, nil
}

// DecodeOwnership decodes verify-ownership arguments.
func DecodeOwnership(data []byte) (*OwnershipArgs, error) {
	tokens, err := codec.Decode(ownershipArgs, data)
	if err != nil {
		return nil, err
	}
	args := new(OwnershipArgs)
	if args.RootVersion, err = codec.ToUint64(codec.Arg(tokens, 0)); err != nil {
		return nil, errors.Wrap(err, "root version")
	}
	if args.Amount, err = codec.ToUint256(codec.Arg(tokens, 1)); err != nil {
		return nil, errors.Wrap(err, "amount")
	}
	if args.Asset, err = codec.ToBytes(codec.Arg(tokens, 2)); err != nil {
		return nil, errors.Wrap(err, "asset")
	}
	if args.Nullifier, err = codec.ToBytes(codec.Arg(tokens, 3)); err != nil {
		return nil, errors.Wrap(err, "nullifier")
	}
	if args.Proof, err = codec.ToBytes(codec.Arg(tokens, 4)); err != nil {
		return nil, errors.Wrap(err, "proof")
	}
	if args.Folding, err = codec.ToBytes(codec.Arg(tokens, 5)); err != nil {
		return nil, errors.Wrap(err, "folding instance")
	}
	if args.MerkleRoot, err = codec.ToBytes32(codec.Arg(tokens, 6)); err != nil {
		return nil, errors.Wrap(err, "merkle root")
	}
	if args.Hash, err = codec.ToBytes(codec.Arg(tokens, 7)); err != nil {
		return nil, errors.Wrap(err, "hash")
	}
	return args, nil
}
