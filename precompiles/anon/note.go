package anon

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"

	"github.com/eth2030/zkprecompiles/precompiles"
)

// Transcript is the 64-byte SHA3-512 digest a proof is bound to.
type Transcript [64]byte

// DepositBody is the public statement of one deposit.
type DepositBody struct {
	Commitment [32]byte
	Asset      [32]byte
	Amount     *big.Int
	OwnerMemo  []byte
}

// TransferBody is the public statement of one anonymous transfer. Field
// elements are canonical little-endian words.
type TransferBody struct {
	Inputs             [][32]byte
	Outputs            [][32]byte
	MerkleRoot         [32]byte
	MerkleRootVersion  uint64
	Fee                *big.Int
	FeeAsset           [32]byte
	TransparentAccount common.Address
	Transparent        *big.Int
	TransparentAsset   [32]byte
	OwnerMemos         [][]byte
}

// OwnershipBody is the public statement of an ownership proof.
type OwnershipBody struct {
	Input             [32]byte
	Asset             [32]byte
	Amount            *big.Int
	MerkleRoot        [32]byte
	MerkleRootVersion uint64
}

// DepositNote is a deposit statement with its proof.
type DepositNote struct {
	Body    DepositBody
	Proof   []byte
	Folding FoldingInstance
}

// TransferNote is a transfer statement with its proof.
type TransferNote struct {
	Body       TransferBody
	MerkleRoot fr.Element
	Proof      []byte
	Folding    FoldingInstance
}

// OwnershipNote is an ownership statement with its proof.
type OwnershipNote struct {
	Body       OwnershipBody
	MerkleRoot fr.Element
	Proof      []byte
	Folding    FoldingInstance
}

// ProofVerifier checks proofs against their statements. Any returned error
// is a rejection.
type ProofVerifier interface {
	VerifyDeposit(params *VerifierParams, note *DepositNote, transcript Transcript) error
	VerifyTransfer(params *VerifierParams, note *TransferNote, transcript Transcript) error
	VerifyOwnership(params *VerifierParams, note *OwnershipNote, transcript Transcript) error
}

// NewTranscript hashes the caller-supplied hash followed by the canonical
// encoding of body.
func NewTranscript(hash []byte, body any) (Transcript, error) {
	var t Transcript
	enc, err := rlp.EncodeToBytes(body)
	if err != nil {
		return t, precompiles.Wrap(precompiles.CodeParseDataFailed, errors.Wrap(err, "encode note body"))
	}
	h := sha3.New512()
	h.Write(hash)
	h.Write(enc)
	copy(t[:], h.Sum(nil))
	return t, nil
}

func parseElement(word [32]byte, what string) (fr.Element, error) {
	e, err := fr.LittleEndian.Element(&word)
	if err != nil {
		return fr.Element{}, precompiles.Wrap(precompiles.CodeParseDataFailed, errors.Wrap(err, what))
	}
	return e, nil
}

func parseElementBytes(b []byte, what string) (fr.Element, [32]byte, error) {
	var word [32]byte
	if len(b) != len(word) {
		return fr.Element{}, word, precompiles.Wrap(precompiles.CodeParseDataFailed,
			errors.Errorf("%s is %d bytes, want %d", what, len(b), len(word)))
	}
	copy(word[:], b)
	e, err := parseElement(word, what)
	return e, word, err
}
