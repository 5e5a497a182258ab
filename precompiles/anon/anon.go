// Package anon routes the anonymous-asset verification precompile: deposits
// into the anonymous pool, batches of anonymous transfers, and ownership
// proofs. The proof system itself sits behind ProofVerifier; this package
// decodes call data, enforces the statement constraints, derives the
// transcript and picks the verifier parameters.
package anon

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/eth2030/zkprecompiles/precompiles"
	"github.com/eth2030/zkprecompiles/precompiles/codec"
)

// Name identifies the family in logs and metrics.
const Name = "anonymous"

// Gas schedule.
const (
	GasPerDeposit        uint64 = 30000
	GasPerTransferInput  uint64 = 4000
	GasPerTransferOutput uint64 = 30000
	GasOwnership         uint64 = 75000
)

var (
	SelectorDeposit   = precompiles.Selector{0x29, 0xef, 0xb1, 0x48}
	SelectorTransfer  = precompiles.Selector{0xd0, 0xb8, 0x51, 0xef}
	SelectorOwnership = precompiles.Selector{0x29, 0x7d, 0xb2, 0x29}
)

var (
	depositGas   = precompiles.GasRule{PerOutput: GasPerDeposit}
	transferGas  = precompiles.GasRule{PerInput: GasPerTransferInput, PerOutput: GasPerTransferOutput}
	ownershipGas = precompiles.FixedGas(GasOwnership)
)

// Operations lists the selector table of the family.
func Operations() []precompiles.Operation {
	return []precompiles.Operation{
		{Family: Name, Name: "verify-deposit", Selector: SelectorDeposit,
			Signature: "verify_deposit(bytes32[],bytes32[],uint128[],bytes[],bytes[],bytes32[])"},
		{Family: Name, Name: "verify-transfer", Selector: SelectorTransfer,
			Signature: "verify_transfer((uint64,bytes32,bytes32,uint256,address,bytes32,uint256,bytes32,bytes32[],bytes32[],bytes[],bytes)[])", Legacy: true},
		{Family: Name, Name: "verify-ownership", Selector: SelectorOwnership,
			Signature: "verify_ownership(uint256,uint256,bytes,bytes,bytes,bytes,bytes32,bytes)"},
	}
}

// Family is the anonymous verification precompile. It holds no mutable
// state and is safe for concurrent use.
type Family struct {
	params   ParamsSource
	verifier ProofVerifier
}

// New returns the family. Missing params or verifier make every
// verification fail with FailedToLoadVerifierParams.
func New(params ParamsSource, verifier ProofVerifier) *Family {
	return &Family{params: params, verifier: verifier}
}

func (f *Family) Name() string { return Name }

// Gas decodes the call and prices it by shape.
func (f *Family) Gas(data []byte) (uint64, error) {
	sel, rest, err := precompiles.SplitSelector(data)
	if err != nil {
		return 0, err
	}
	switch sel {
	case SelectorDeposit:
		args, err := DecodeDeposit(rest)
		if err != nil {
			return 0, err
		}
		return depositGas.Cost(0, len(args.Commitments)), nil
	case SelectorTransfer:
		args, err := DecodeTransfer(rest)
		if err != nil {
			return 0, err
		}
		return TransferGas(args), nil
	case SelectorOwnership:
		if _, err := DecodeOwnership(rest); err != nil {
			return 0, err
		}
		return ownershipGas.Cost(0, 0), nil
	default:
		return 0, precompiles.ErrUnknownSelector
	}
}

// TransferGas sums the per-entity cost of a batch.
func TransferGas(args *TransferArgs) uint64 {
	var total uint64
	for _, e := range args.Entities {
		total = precompiles.SumGas(total, transferGas.Cost(len(e.Nullifiers), len(e.Commitments)))
	}
	return total
}

// Check decodes the call without verifying anything.
func (f *Family) Check(data []byte) error {
	sel, rest, err := precompiles.SplitSelector(data)
	if err != nil {
		return err
	}
	switch sel {
	case SelectorDeposit:
		_, err = DecodeDeposit(rest)
	case SelectorTransfer:
		_, err = DecodeTransfer(rest)
	case SelectorOwnership:
		_, err = DecodeOwnership(rest)
	default:
		err = precompiles.ErrUnknownSelector
	}
	return err
}

// Verify decodes the call and checks every proof it carries.
func (f *Family) Verify(data []byte) error {
	sel, rest, err := precompiles.SplitSelector(data)
	if err != nil {
		return err
	}
	switch sel {
	case SelectorDeposit:
		args, err := DecodeDeposit(rest)
		if err != nil {
			return err
		}
		return f.verifyDeposit(args)
	case SelectorTransfer:
		args, err := DecodeTransfer(rest)
		if err != nil {
			return err
		}
		return f.verifyTransfer(args)
	case SelectorOwnership:
		args, err := DecodeOwnership(rest)
		if err != nil {
			return err
		}
		return f.verifyOwnership(args)
	default:
		return precompiles.ErrUnknownSelector
	}
}

func (f *Family) lookup(key ParamsKey) (*VerifierParams, error) {
	if f.params == nil || f.verifier == nil {
		return nil, precompiles.Wrap(precompiles.CodeFailedToLoadVerifierParams,
			errors.New("anonymous verifier not configured"))
	}
	return f.params.Params(key)
}

func rejected(err error) error {
	return &precompiles.Error{Code: precompiles.CodeProofVerificationFailed, Err: err}
}

func amount128(v *uint256.Int, what string) (*uint256.Int, error) {
	if v.BitLen() > 128 {
		return nil, precompiles.Wrap(precompiles.CodeInputOutOfBound,
			errors.Errorf("%s exceeds 128 bits", what))
	}
	return v, nil
}

func (f *Family) verifyDeposit(args *DepositArgs) error {
	n := len(args.Commitments)
	if len(args.Assets) != n || len(args.Amounts) != n || len(args.Proofs) != n ||
		len(args.Memos) != n || len(args.Hashes) != n {
		return precompiles.Wrap(precompiles.CodeWrongLengthOfArguments,
			errors.New("deposit arrays differ in length"))
	}
	for i := 0; i < n; i++ {
		if err := f.verifyDepositEntry(args, i); err != nil {
			return errors.Wrapf(err, "deposit %d", i)
		}
	}
	return nil
}

func (f *Family) verifyDepositEntry(args *DepositArgs, i int) error {
	env, format, err := DecodeEnvelope(args.Proofs[i])
	if err != nil {
		return err
	}
	asset, err := codec.Asset(args.Assets[i][:])
	if err != nil {
		return err
	}
	if _, err := parseElement(args.Commitments[i], "commitment"); err != nil {
		return err
	}
	amount, err := amount128(args.Amounts[i], "amount")
	if err != nil {
		return err
	}
	note := &DepositNote{
		Body: DepositBody{
			Commitment: args.Commitments[i],
			Asset:      asset,
			Amount:     amount.ToBig(),
			OwnerMemo:  args.Memos[i],
		},
		Proof:   env.Proof,
		Folding: env.Folding,
	}
	transcript, err := NewTranscript(args.Hashes[i][:], &note.Body)
	if err != nil {
		return err
	}
	params, err := f.lookup(ParamsKey{Kind: KindDeposit, Inputs: 0, Outputs: 1, Format: format})
	if err != nil {
		return err
	}
	if err := f.verifier.VerifyDeposit(params, note, transcript); err != nil {
		return rejected(err)
	}
	return nil
}

func (f *Family) verifyTransfer(args *TransferArgs) error {
	for i, e := range args.Entities {
		if err := f.verifyTransferEntity(e); err != nil {
			return errors.Wrapf(err, "transfer %d", i)
		}
	}
	return nil
}

func (f *Family) verifyTransferEntity(e *TransferEntity) error {
	env, format, err := DecodeEnvelope(e.Proof)
	if err != nil {
		return err
	}
	feeAsset, err := codec.Asset(e.FeeAsset[:])
	if err != nil {
		return err
	}
	transparentAsset, err := codec.Asset(e.TransparentAsset[:])
	if err != nil {
		return err
	}
	root, err := parseElement(e.MerkleRoot, "merkle root")
	if err != nil {
		return err
	}
	for _, n := range e.Nullifiers {
		if _, err := parseElement(n, "nullifier"); err != nil {
			return err
		}
	}
	for _, c := range e.Commitments {
		if _, err := parseElement(c, "commitment"); err != nil {
			return err
		}
	}
	if len(e.Memos) != len(e.Commitments) {
		return precompiles.Wrap(precompiles.CodeWrongLengthOfArguments,
			errors.Errorf("%d memos for %d commitments", len(e.Memos), len(e.Commitments)))
	}
	fee, err := amount128(e.FeeAmount, "fee")
	if err != nil {
		return err
	}
	transparent, err := amount128(e.TransparentAmount, "transparent amount")
	if err != nil {
		return err
	}
	note := &TransferNote{
		Body: TransferBody{
			Inputs:             e.Nullifiers,
			Outputs:            e.Commitments,
			MerkleRoot:         e.MerkleRoot,
			MerkleRootVersion:  e.RootVersion,
			Fee:                fee.ToBig(),
			FeeAsset:           feeAsset,
			TransparentAccount: e.TransparentAccount,
			Transparent:        transparent.ToBig(),
			TransparentAsset:   transparentAsset,
			OwnerMemos:         e.Memos,
		},
		MerkleRoot: root,
		Proof:      env.Proof,
		Folding:    env.Folding,
	}
	transcript, err := NewTranscript(e.Hash[:], &note.Body)
	if err != nil {
		return err
	}
	params, err := f.lookup(ParamsKey{
		Kind:    KindTransfer,
		Inputs:  len(e.Nullifiers),
		Outputs: len(e.Commitments),
		Format:  format,
	})
	if err != nil {
		return err
	}
	if err := f.verifier.VerifyTransfer(params, note, transcript); err != nil {
		return rejected(err)
	}
	return nil
}

func (f *Family) verifyOwnership(args *OwnershipArgs) error {
	env, format, err := DecodeEnvelope(args.Proof)
	if err != nil {
		return err
	}
	if len(args.Folding) > 0 && string(args.Folding) != string(env.Folding.Instance) {
		return precompiles.Wrap(precompiles.CodeFoldingDecodeFailed,
			errors.New("folding instance does not match proof"))
	}
	asset, err := codec.Asset(args.Asset)
	if err != nil {
		return err
	}
	_, nullifier, err := parseElementBytes(args.Nullifier, "nullifier")
	if err != nil {
		return err
	}
	root, err := parseElement(args.MerkleRoot, "merkle root")
	if err != nil {
		return err
	}
	amount, err := amount128(args.Amount, "amount")
	if err != nil {
		return err
	}
	note := &OwnershipNote{
		Body: OwnershipBody{
			Input:             nullifier,
			Asset:             asset,
			Amount:            amount.ToBig(),
			MerkleRoot:        args.MerkleRoot,
			MerkleRootVersion: args.RootVersion,
		},
		MerkleRoot: root,
		Proof:      env.Proof,
		Folding:    env.Folding,
	}
	transcript, err := NewTranscript(args.Hash, &note.Body)
	if err != nil {
		return err
	}
	params, err := f.lookup(ParamsKey{Kind: KindOwnership, Inputs: 1, Outputs: 0, Format: format})
	if err != nil {
		return err
	}
	if err := f.verifier.VerifyOwnership(params, note, transcript); err != nil {
		return rejected(err)
	}
	return nil
}
