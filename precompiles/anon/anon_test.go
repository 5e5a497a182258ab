package anon

import (
	"math/big"
	"sync"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eth2030/zkprecompiles/precompiles"
)

type fakeVerifier struct {
	mu     sync.Mutex
	reject bool
	keys   []ParamsKey
	last   Transcript
}

func (v *fakeVerifier) record(params *VerifierParams, transcript Transcript) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.keys = append(v.keys, params.Key)
	v.last = transcript
	if v.reject {
		return errors.New("bad proof")
	}
	return nil
}

func (v *fakeVerifier) VerifyDeposit(p *VerifierParams, _ *DepositNote, t Transcript) error {
	return v.record(p, t)
}

func (v *fakeVerifier) VerifyTransfer(p *VerifierParams, _ *TransferNote, t Transcript) error {
	return v.record(p, t)
}

func (v *fakeVerifier) VerifyOwnership(p *VerifierParams, _ *OwnershipNote, t Transcript) error {
	return v.record(p, t)
}

type transferTuple struct {
	RootVersion        uint64         `abi:"rootVersion"`
	Root               [32]byte       `abi:"root"`
	FeeAsset           [32]byte       `abi:"feeAsset"`
	FeeAmount          *big.Int       `abi:"feeAmount"`
	TransparentAccount common.Address `abi:"transparentAccount"`
	TransparentAsset   [32]byte       `abi:"transparentAsset"`
	TransparentAmount  *big.Int       `abi:"transparentAmount"`
	Hash               [32]byte       `abi:"hash"`
	Nullifiers         [][32]byte     `abi:"nullifiers"`
	Commitments        [][32]byte     `abi:"commitments"`
	Memos              [][]byte       `abi:"memos"`
	Proof              []byte         `abi:"proof"`
}

func word(v uint64) [32]byte {
	var e fr.Element
	e.SetUint64(v)
	var w [32]byte
	fr.LittleEndian.PutElement(&w, e)
	return w
}

func words(vs ...uint64) [][32]byte {
	out := make([][32]byte, len(vs))
	for i, v := range vs {
		out[i] = word(v)
	}
	return out
}

func memos(n int) [][]byte {
	out := make([][]byte, n)
	for i := range out {
		out[i] = []byte{byte(i), 0xaa}
	}
	return out
}

func proof(t *testing.T, scheme uint8) []byte {
	t.Helper()
	b, err := EncodeEnvelope(&ProofEnvelope{
		Proof:   []byte("plonk proof"),
		Folding: FoldingInstance{Scheme: scheme, Instance: []byte("folding")},
	})
	require.NoError(t, err)
	return b
}

func entity(t *testing.T, inputs, outputs int) transferTuple {
	t.Helper()
	nulls := make([]uint64, inputs)
	for i := range nulls {
		nulls[i] = uint64(100 + i)
	}
	comms := make([]uint64, outputs)
	for i := range comms {
		comms[i] = uint64(200 + i)
	}
	return transferTuple{
		RootVersion:        3,
		Root:               word(77),
		FeeAsset:           [32]byte{1},
		FeeAmount:          big.NewInt(10),
		TransparentAccount: common.HexToAddress("0x0000000000000000000000000000000000001234"),
		TransparentAsset:   [32]byte{2},
		TransparentAmount:  big.NewInt(0),
		Hash:               [32]byte{0x42},
		Nullifiers:         words(nulls...),
		Commitments:        words(comms...),
		Memos:              memos(outputs),
		Proof:              proof(t, uint8(Secp256k1)),
	}
}

func transferCall(t *testing.T, entities ...transferTuple) []byte {
	t.Helper()
	if entities == nil {
		entities = []transferTuple{}
	}
	packed, err := transferArgs.Pack(entities)
	require.NoError(t, err)
	return append(SelectorTransfer[:], packed...)
}

func testParams(t *testing.T) *ParamsTable {
	t.Helper()
	table := NewParamsTable(0, 0)
	for _, key := range []ParamsKey{
		{Kind: KindTransfer, Inputs: 2, Outputs: 1, Format: Secp256k1},
		{Kind: KindTransfer, Inputs: 3, Outputs: 1, Format: Secp256k1},
		{Kind: KindDeposit, Inputs: 0, Outputs: 1, Format: Secp256k1},
		{Kind: KindOwnership, Inputs: 1, Outputs: 0, Format: Secp256k1},
		{Kind: KindOwnership, Inputs: 1, Outputs: 0, Format: Ed25519},
	} {
		require.NoError(t, table.Add(key, []byte(key.String())))
	}
	return table
}

func TestTransferGas(t *testing.T) {
	f := New(nil, nil)
	gas, err := f.Gas(transferCall(t, entity(t, 2, 1), entity(t, 3, 1)))
	require.NoError(t, err)
	assert.Equal(t, uint64(4000*(2+3)+30000*(1+1)), gas)
}

func TestEmptyTransferBatch(t *testing.T) {
	f := New(nil, nil)
	call := transferCall(t)
	gas, err := f.Gas(call)
	require.NoError(t, err)
	assert.Zero(t, gas)
	assert.NoError(t, f.Verify(call))
}

func TestTransferVerify(t *testing.T) {
	v := new(fakeVerifier)
	f := New(testParams(t), v)

	require.NoError(t, f.Verify(transferCall(t, entity(t, 2, 1), entity(t, 3, 1))))
	assert.Equal(t, []ParamsKey{
		{Kind: KindTransfer, Inputs: 2, Outputs: 1, Format: Secp256k1},
		{Kind: KindTransfer, Inputs: 3, Outputs: 1, Format: Secp256k1},
	}, v.keys)
	assert.NotEqual(t, Transcript{}, v.last)
}

func TestTransferFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(e *transferTuple)
		reject bool
		code   precompiles.Code
	}{
		{"memo count", func(e *transferTuple) { e.Memos = memos(2) }, false, precompiles.CodeWrongLengthOfArguments},
		{"fee too wide", func(e *transferTuple) { e.FeeAmount = new(big.Int).Lsh(big.NewInt(1), 128) }, false, precompiles.CodeInputOutOfBound},
		{"transparent too wide", func(e *transferTuple) { e.TransparentAmount = new(big.Int).Lsh(big.NewInt(1), 200) }, false, precompiles.CodeInputOutOfBound},
		{"proof not rlp", func(e *transferTuple) { e.Proof = []byte{0xff} }, false, precompiles.CodeProofDecodeFailed},
		{"unknown folding", func(e *transferTuple) { e.Proof = proof(t, 9) }, false, precompiles.CodeFoldingDecodeFailed},
		{"non-canonical nullifier", func(e *transferTuple) {
			var bad [32]byte
			for i := range bad {
				bad[i] = 0xff
			}
			e.Nullifiers[0] = bad
		}, false, precompiles.CodeParseDataFailed},
		{"unsupported shape", func(e *transferTuple) { e.Nullifiers = words(1, 2, 3, 4, 5, 6, 7) }, false, precompiles.CodeUnsupportInputsOutputs},
		{"no outputs", func(e *transferTuple) { e.Commitments = nil; e.Memos = nil }, false, precompiles.CodeUnsupportInputsOutputs},
		{"params not loaded", func(e *transferTuple) { e.Nullifiers = words(1) }, false, precompiles.CodeFailedToLoadVerifierParams},
		{"other format not loaded", func(e *transferTuple) { e.Proof = proof(t, uint8(Ed25519)) }, false, precompiles.CodeFailedToLoadVerifierParams},
		{"rejected", func(e *transferTuple) {}, true, precompiles.CodeProofVerificationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New(testParams(t), &fakeVerifier{reject: tt.reject})
			e := entity(t, 2, 1)
			tt.mutate(&e)
			err := f.Verify(transferCall(t, e))
			assert.Equal(t, tt.code, precompiles.CodeOf(err), "err: %v", err)
		})
	}
}

func TestTransferStopsAtFirstFailure(t *testing.T) {
	v := new(fakeVerifier)
	f := New(testParams(t), v)
	bad := entity(t, 2, 1)
	bad.Memos = nil
	err := f.Verify(transferCall(t, bad, entity(t, 3, 1)))
	assert.Equal(t, precompiles.CodeWrongLengthOfArguments, precompiles.CodeOf(err))
	assert.Empty(t, v.keys)
}

func TestVerifierNotConfigured(t *testing.T) {
	f := New(testParams(t), nil)
	err := f.Verify(transferCall(t, entity(t, 2, 1)))
	assert.Equal(t, precompiles.CodeFailedToLoadVerifierParams, precompiles.CodeOf(err))
}

func depositCall(t *testing.T, n, proofs int) []byte {
	t.Helper()
	comms := make([]uint64, n)
	amounts := make([]*big.Int, n)
	assets := make([][32]byte, n)
	hashes := make([][32]byte, n)
	for i := 0; i < n; i++ {
		comms[i] = uint64(300 + i)
		amounts[i] = big.NewInt(int64(1000 * (i + 1)))
		assets[i] = [32]byte{byte(i)}
		hashes[i] = [32]byte{0xee, byte(i)}
	}
	ps := make([][]byte, proofs)
	for i := range ps {
		ps[i] = proof(t, uint8(Secp256k1))
	}
	packed, err := depositArgs.Pack(words(comms...), assets, amounts, ps, memos(n), hashes)
	require.NoError(t, err)
	return append(SelectorDeposit[:], packed...)
}

func TestDeposit(t *testing.T) {
	v := new(fakeVerifier)
	f := New(testParams(t), v)

	call := depositCall(t, 3, 3)
	gas, err := f.Gas(call)
	require.NoError(t, err)
	assert.Equal(t, 3*GasPerDeposit, gas)

	require.NoError(t, f.Verify(call))
	assert.Len(t, v.keys, 3)

	err = f.Verify(depositCall(t, 3, 2))
	assert.Equal(t, precompiles.CodeWrongLengthOfArguments, precompiles.CodeOf(err))

	gas, err = f.Gas(depositCall(t, 3, 2))
	require.NoError(t, err)
	assert.Equal(t, 3*GasPerDeposit, gas)
}

func ownershipCall(t *testing.T, version, amount *big.Int, asset, folding []byte) []byte {
	t.Helper()
	nullifier := word(555)
	packed, err := ownershipArgs.Pack(version, amount, asset, nullifier[:], proof(t, uint8(Ed25519)),
		folding, word(77), []byte("caller hash"))
	require.NoError(t, err)
	return append(SelectorOwnership[:], packed...)
}

func TestOwnership(t *testing.T) {
	asset := make([]byte, 32)
	tests := []struct {
		name    string
		version *big.Int
		amount  *big.Int
		asset   []byte
		folding []byte
		code    precompiles.Code
	}{
		{"valid", big.NewInt(1), big.NewInt(5), asset, nil, precompiles.CodeSuccess},
		{"matching folding", big.NewInt(1), big.NewInt(5), asset, []byte("folding"), precompiles.CodeSuccess},
		{"folding mismatch", big.NewInt(1), big.NewInt(5), asset, []byte("other"), precompiles.CodeFoldingDecodeFailed},
		{"short asset", big.NewInt(1), big.NewInt(5), asset[:31], nil, precompiles.CodeParseDataFailed},
		{"version over 64 bits", new(big.Int).Lsh(big.NewInt(1), 64), big.NewInt(5), asset, nil, precompiles.CodeParseDataFailed},
		{"amount over 128 bits", big.NewInt(1), new(big.Int).Lsh(big.NewInt(1), 130), asset, nil, precompiles.CodeInputOutOfBound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := new(fakeVerifier)
			f := New(testParams(t), v)
			call := ownershipCall(t, tt.version, tt.amount, tt.asset, tt.folding)
			err := f.Verify(call)
			assert.Equal(t, tt.code, precompiles.CodeOf(err), "err: %v", err)
			if tt.code == precompiles.CodeSuccess {
				require.Len(t, v.keys, 1)
				assert.Equal(t, Ed25519, v.keys[0].Format)
			}
		})
	}

	gas, err := New(nil, nil).Gas(ownershipCall(t, big.NewInt(1), big.NewInt(1), asset, nil))
	require.NoError(t, err)
	assert.Equal(t, GasOwnership, gas)
}

func TestRouting(t *testing.T) {
	f := New(testParams(t), new(fakeVerifier))
	tests := []struct {
		name string
		data []byte
		code precompiles.Code
	}{
		{"short", []byte{0x29}, precompiles.CodeWrongSelectorLength},
		{"unknown", []byte{0, 0, 0, 0}, precompiles.CodeUnknownSelector},
		{"truncated args", SelectorOwnership[:], precompiles.CodeParseDataFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, precompiles.CodeOf(f.Verify(tt.data)))
			_, err := f.Gas(tt.data)
			assert.Equal(t, tt.code, precompiles.CodeOf(err))
			assert.Equal(t, tt.code, precompiles.CodeOf(f.Check(tt.data)))
		})
	}
}

func TestTranscriptDeterminism(t *testing.T) {
	body := &OwnershipBody{Input: word(1), Amount: big.NewInt(9), MerkleRoot: word(2), MerkleRootVersion: 4}
	a, err := NewTranscript([]byte("h"), body)
	require.NoError(t, err)
	b, err := NewTranscript([]byte("h"), body)
	require.NoError(t, err)
	c, err := NewTranscript([]byte("g"), body)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestParamsTable(t *testing.T) {
	table := NewParamsTable(2, 2)
	key := ParamsKey{Kind: KindTransfer, Inputs: 2, Outputs: 2, Format: Ed25519}
	require.NoError(t, table.Add(key, []byte{1}))
	assert.Error(t, table.Add(key, []byte{1}))
	assert.Equal(t, 1, table.Len())

	p, err := table.Params(key)
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, p.Data)

	_, err = table.Params(ParamsKey{Kind: KindTransfer, Inputs: 3, Outputs: 1})
	assert.ErrorIs(t, err, precompiles.ErrUnsupportInputsOutputs)
	_, err = table.Params(ParamsKey{Kind: KindDeposit, Inputs: 1, Outputs: 1})
	assert.ErrorIs(t, err, precompiles.ErrUnsupportInputsOutputs)
	_, err = table.Params(ParamsKey{Kind: KindTransfer, Inputs: 1, Outputs: 1})
	assert.ErrorIs(t, err, precompiles.ErrFailedToLoadVerifierParams)

	kind, err := ParseParamsKind("ownership")
	require.NoError(t, err)
	assert.Equal(t, KindOwnership, kind)
	format, err := ParseAddressFormat("ed25519")
	require.NoError(t, err)
	assert.Equal(t, Ed25519, format)
	_, err = ParseAddressFormat("rsa")
	assert.Error(t, err)
}
