package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eth2030/zkprecompiles/core/vm"
	"github.com/eth2030/zkprecompiles/precompiles"
	"github.com/eth2030/zkprecompiles/precompiles/anemoi"
	"github.com/eth2030/zkprecompiles/precompiles/anon"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func saltsYAML(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		var e fr.Element
		e.SetUint64(uint64(i) + 1)
		var word [32]byte
		fr.LittleEndian.PutElement(&word, e)
		fmt.Fprintf(&b, "- \"0x%s\"\n", hex.EncodeToString(word[:]))
	}
	return b.String()
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	addrs, err := cfg.VMAddresses()
	require.NoError(t, err)
	assert.Equal(t, vm.DefaultAddresses(), addrs)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, anon.DefaultMaxInputs, cfg.Anonymous.MaxInputs)
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
log:
  level: debug
  json: true
addresses:
  pokerExec: "0x0000000000000000000000000000000000003000"
anonymous:
  maxInputs: 8
metrics:
  enabled: false
`))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.JSON)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, 8, cfg.Anonymous.MaxInputs)
	assert.Equal(t, anon.DefaultMaxOutputs, cfg.Anonymous.MaxOutputs)

	addrs, err := cfg.VMAddresses()
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x3000"), addrs.PokerExec)
	assert.Equal(t, vm.DefaultAddresses().Anemoi, addrs.Anemoi)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown key", "colour: blue\n", "parse"},
		{"log level", "log:\n  level: loud\n", "log level"},
		{"bad address", "addresses:\n  anemoi: nope\n", "addresses.anemoi"},
		{"shared address", "addresses:\n  anonymous: \"0x0000000000000000000000000000000000002000\"\n", "both"},
		{"max inputs", "anonymous:\n  maxInputs: 0\n", "maxInputs"},
		{"max outputs", "anonymous:\n  maxOutputs: 99\n", "maxOutputs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFileResolvesMaterial(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "salts.yaml", saltsYAML(anemoi.SaltCount))
	writeFile(t, dir, "params.yaml", `
params:
  - kind: transfer
    inputs: 1
    outputs: 2
    format: secp256k1
    data: "0xdeadbeef"
  - kind: deposit
    inputs: 0
    outputs: 1
    format: ed25519
    data: "01"
`)
	path := writeFile(t, dir, "gateway.yaml", `
anemoi:
  saltsFile: salts.yaml
anonymous:
  paramsFile: params.yaml
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Dir)
	assert.Equal(t, filepath.Join(dir, "salts.yaml"), cfg.ResolvePath("salts.yaml"))
	assert.Equal(t, "/abs/x", cfg.ResolvePath("/abs/x"))

	reg, err := cfg.Registry(Backends{})
	require.NoError(t, err)
	assert.Len(t, reg.Entries(), 4)

	fams, err := cfg.Families(Backends{})
	require.NoError(t, err)
	packed, err := anemoiSaltsCall(5)
	require.NoError(t, err)
	out, err := fams.Anemoi.Exec(packed)
	require.NoError(t, err)
	var want fr.Element
	want.SetUint64(6)
	word := anemoi.WordFromElement(want)
	assert.Equal(t, word[:], out)
}

func anemoiSaltsCall(index int64) ([]byte, error) {
	data, err := hex.DecodeString(fmt.Sprintf("%064x", index))
	if err != nil {
		return nil, err
	}
	return append(anemoi.SelectorSalts[:], data...), nil
}

func TestFamiliesWithoutMaterial(t *testing.T) {
	cfg := DefaultConfig()
	fams, err := cfg.Families(Backends{})
	require.NoError(t, err)

	packed, err := anemoiSaltsCall(1)
	require.NoError(t, err)
	_, err = fams.Anemoi.Exec(packed)
	assert.Equal(t, precompiles.CodeFailedToLoadVerifierParams, precompiles.CodeOf(err))
}

func TestLoadSaltsErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadSalts(writeFile(t, dir, "short.yaml", saltsYAML(3)))
	assert.Error(t, err)

	_, err = LoadSalts(writeFile(t, dir, "notlist.yaml", "salts: 1\n"))
	assert.Error(t, err)

	_, err = LoadSalts(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	table, err := LoadSalts(writeFile(t, dir, "ok.yaml", saltsYAML(anemoi.SaltCount)))
	require.NoError(t, err)
	salt, err := table.Salt(63)
	require.NoError(t, err)
	var want fr.Element
	want.SetUint64(64)
	assert.True(t, salt.Equal(&want))
}

func TestParseParams(t *testing.T) {
	table, err := ParseParams([]byte(`
params:
  - {kind: ownership, inputs: 1, outputs: 0, format: ed25519, data: "aa"}
  - {kind: transfer, inputs: 6, outputs: 6, format: secp256k1, data: "bb"}
`), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())

	p, err := table.Params(anon.ParamsKey{Kind: anon.KindOwnership, Inputs: 1, Format: anon.Ed25519})
	require.NoError(t, err)
	assert.Equal(t, []byte{0xaa}, p.Data)

	tests := []struct {
		name string
		yaml string
	}{
		{"kind", "params:\n  - {kind: mint, inputs: 1, outputs: 1, format: ed25519, data: aa}\n"},
		{"format", "params:\n  - {kind: transfer, inputs: 1, outputs: 1, format: rsa, data: aa}\n"},
		{"shape", "params:\n  - {kind: transfer, inputs: 7, outputs: 1, format: ed25519, data: aa}\n"},
		{"hex", "params:\n  - {kind: transfer, inputs: 1, outputs: 1, format: ed25519, data: zz}\n"},
		{"empty", "params:\n  - {kind: transfer, inputs: 1, outputs: 1, format: ed25519}\n"},
		{"duplicate", "params:\n  - {kind: deposit, inputs: 0, outputs: 1, format: ed25519, data: aa}\n  - {kind: deposit, inputs: 0, outputs: 1, format: ed25519, data: bb}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseParams([]byte(tt.yaml), 0, 0)
			assert.Error(t, err)
		})
	}
}
