package precompiles

import (
	"errors"
	"fmt"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeNumbering(t *testing.T) {
	tests := []struct {
		err  *Error
		code uint8
		name string
	}{
		{ErrWrongSelectorLength, 1, "WrongSelectorLength"},
		{ErrUnknownSelector, 2, "UnknownSelector"},
		{ErrParseDataFailed, 3, "ParseDataFailed"},
		{ErrProofVerificationFailed, 4, "ProofVerificationFailed"},
		{ErrProofDecodeFailed, 5, "ProofDecodeFailed"},
		{ErrFailedToLoadVerifierParams, 6, "FailedToLoadVerifierParams"},
		{ErrFoldingDecodeFailed, 7, "FoldingDecodeFailed"},
		{ErrWrongLengthOfArguments, 8, "WrongLengthOfArguments"},
		{ErrUnsupportInputsOutputs, 9, "UnsupportInputsOutputs"},
		{ErrInputOutOfBound, 10, "InputOutOfBound"},
		{ErrSerializeError, 11, "SerializeError"},
		{ErrDeserializeError, 12, "DeserializeError"},
		{ErrDecodeError, 13, "DecodeError"},
		{ErrExecError, 14, "ExecError"},
	}
	seen := make(map[Code]bool)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, uint8(tt.err.Code))
			assert.Equal(t, tt.name, tt.err.Code.String())
			assert.False(t, seen[tt.err.Code], "duplicate code")
			seen[tt.err.Code] = true
		})
	}
	assert.Equal(t, "Success", CodeSuccess.String())
	assert.Equal(t, "Code(99)", Code(99).String())
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeSuccess, CodeOf(nil))
	assert.Equal(t, CodeParseDataFailed, CodeOf(ErrParseDataFailed))
	assert.Equal(t, CodeExecError, CodeOf(errors.New("boom")))

	wrapped := fmt.Errorf("outer: %w", Wrap(CodeDeserializeError, errors.New("bad point")))
	assert.Equal(t, CodeDeserializeError, CodeOf(wrapped))
}

func TestWrapKeepsInnermostCode(t *testing.T) {
	inner := Wrap(CodeProofDecodeFailed, pkgerrors.New("rlp: short"))
	outer := Wrap(CodeExecError, pkgerrors.Wrap(inner, "verify transfer"))
	assert.Equal(t, CodeProofDecodeFailed, CodeOf(outer))
	assert.True(t, errors.Is(outer, ErrProofDecodeFailed))
	assert.False(t, errors.Is(outer, ErrExecError))
}

func TestErrorIsMatchesByCode(t *testing.T) {
	err := Wrap(CodeInputOutOfBound, pkgerrors.Errorf("index %d", 64))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInputOutOfBound))
	assert.False(t, errors.Is(err, ErrParseDataFailed))
	assert.Contains(t, err.Error(), "InputOutOfBound")
	assert.Contains(t, err.Error(), "index 64")

	var classified *Error
	require.True(t, errors.As(err, &classified))
	assert.Equal(t, CodeInputOutOfBound, classified.Code)
}

func TestWrapNilCause(t *testing.T) {
	err := Wrap(CodeSerializeError, nil)
	assert.Equal(t, CodeSerializeError, CodeOf(err))
	assert.Equal(t, "precompile: SerializeError", err.Error())
}
