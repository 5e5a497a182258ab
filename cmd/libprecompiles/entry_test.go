package main

import (
	"os"
	"path/filepath"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eth2030/zkprecompiles/ffi"
	"github.com/eth2030/zkprecompiles/precompiles"
	"github.com/eth2030/zkprecompiles/precompiles/anemoi"
	"github.com/eth2030/zkprecompiles/precompiles/anon"
	"github.com/eth2030/zkprecompiles/precompiles/poker"
)

func TestSetupFamilies(t *testing.T) {
	def := setupFamilies("")
	assert.Len(t, def.Operations(), 11)

	missing := setupFamilies(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Len(t, missing.Operations(), 11)

	dir := t.TempDir()
	path := filepath.Join(dir, "gateway.yaml")
	require.NoError(t, os.WriteFile(path, []byte("anemoi:\n  saltsFile: absent.yaml\n"), 0o644))
	fallback := setupFamilies(path)
	assert.NotNil(t, fallback.PokerExec)
}

func TestEntryPoints(t *testing.T) {
	var slot ffi.Slot

	assert.Equal(t, anemoi.GasJive4, anemoiGas(append(anemoi.SelectorJive4[:], make([]byte, 128)...)))
	assert.Zero(t, anemoiGas(anemoi.SelectorJive4[:]))
	assert.Zero(t, anemoiGas([]byte{0x73}))
	assert.Equal(t, uint8(precompiles.CodeWrongSelectorLength), anemoiExec(nil, &slot))
	salts64 := append(anemoi.SelectorSalts[:], make([]byte, 32)...)
	salts64[len(salts64)-1] = 64
	assert.Equal(t, uint8(precompiles.CodeInputOutOfBound), anemoiExec(salts64, &slot))

	assert.Zero(t, anonymousGas(anon.SelectorOwnership[:]))
	assert.Equal(t, uint8(precompiles.CodeUnknownSelector), anonymousVerify([]byte{0, 0, 0, 0}))

	assert.Zero(t, pokerVerifyGas(nil))
	assert.Equal(t, uint8(precompiles.CodeParseDataFailed), pokerVerify(poker.SelectorVerifyReveal[:]))

	assert.Zero(t, pokerExecGas(poker.SelectorVerifyReveal[:]))
	assert.Equal(t, uint8(precompiles.CodeUnknownSelector), pokerExec(poker.SelectorVerifyReveal[:], &slot))
	assert.Equal(t, ffi.Slot{}, slot)
}

func TestCopyInput(t *testing.T) {
	assert.Nil(t, copyInput(nil, 4))

	buf := []byte{0x73, 0x80, 0x82, 0x63, 0xff}
	assert.Nil(t, copyInput(unsafe.Pointer(&buf[0]), 0))

	got := copyInput(unsafe.Pointer(&buf[0]), 4)
	assert.Equal(t, []byte{0x73, 0x80, 0x82, 0x63}, got)
	buf[0] = 0
	assert.Equal(t, byte(0x73), got[0])
}
