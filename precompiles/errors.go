// Package precompiles holds the pieces shared by every precompile family:
// the error taxonomy reported across the host boundary, 4-byte operation
// selectors, and declarative gas rules.
//
// A family (Anemoi, anonymous transfer verification, mental poker) decodes
// call data into a typed argument struct, prices it, and either verifies it
// or computes a result. Every failure a family returns carries exactly one
// Code; the boundary adapters report nothing else.
package precompiles

import (
	"errors"
	"fmt"
)

// Code is the caller-visible status of a precompile call. Zero means
// success. The numbering is part of the host contract and never changes.
type Code uint8

const (
	CodeSuccess                    Code = 0
	CodeWrongSelectorLength        Code = 1
	CodeUnknownSelector            Code = 2
	CodeParseDataFailed            Code = 3
	CodeProofVerificationFailed    Code = 4
	CodeProofDecodeFailed          Code = 5
	CodeFailedToLoadVerifierParams Code = 6
	CodeFoldingDecodeFailed        Code = 7
	CodeWrongLengthOfArguments     Code = 8
	CodeUnsupportInputsOutputs     Code = 9
	CodeInputOutOfBound            Code = 10
	CodeSerializeError             Code = 11
	CodeDeserializeError           Code = 12
	CodeDecodeError                Code = 13
	CodeExecError                  Code = 14
)

var codeNames = map[Code]string{
	CodeSuccess:                    "Success",
	CodeWrongSelectorLength:        "WrongSelectorLength",
	CodeUnknownSelector:            "UnknownSelector",
	CodeParseDataFailed:            "ParseDataFailed",
	CodeProofVerificationFailed:    "ProofVerificationFailed",
	CodeProofDecodeFailed:          "ProofDecodeFailed",
	CodeFailedToLoadVerifierParams: "FailedToLoadVerifierParams",
	CodeFoldingDecodeFailed:        "FoldingDecodeFailed",
	CodeWrongLengthOfArguments:     "WrongLengthOfArguments",
	CodeUnsupportInputsOutputs:     "UnsupportInputsOutputs",
	CodeInputOutOfBound:            "InputOutOfBound",
	CodeSerializeError:             "SerializeError",
	CodeDeserializeError:           "DeserializeError",
	CodeDecodeError:                "DecodeError",
	CodeExecError:                  "ExecError",
}

// String returns the taxonomy name of the code.
func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Code(%d)", uint8(c))
}

// Error is a classified precompile failure. Err holds internal detail that
// stays on this side of the boundary.
type Error struct {
	Code Code
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "precompile: " + e.Code.String()
	}
	return "precompile: " + e.Code.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is a classified error with the same code, so
// errors.Is(err, ErrParseDataFailed) matches any wrapped detail.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Sentinel errors, one per code.
var (
	ErrWrongSelectorLength        = &Error{Code: CodeWrongSelectorLength}
	ErrUnknownSelector            = &Error{Code: CodeUnknownSelector}
	ErrParseDataFailed            = &Error{Code: CodeParseDataFailed}
	ErrProofVerificationFailed    = &Error{Code: CodeProofVerificationFailed}
	ErrProofDecodeFailed          = &Error{Code: CodeProofDecodeFailed}
	ErrFailedToLoadVerifierParams = &Error{Code: CodeFailedToLoadVerifierParams}
	ErrFoldingDecodeFailed        = &Error{Code: CodeFoldingDecodeFailed}
	ErrWrongLengthOfArguments     = &Error{Code: CodeWrongLengthOfArguments}
	ErrUnsupportInputsOutputs     = &Error{Code: CodeUnsupportInputsOutputs}
	ErrInputOutOfBound            = &Error{Code: CodeInputOutOfBound}
	ErrSerializeError             = &Error{Code: CodeSerializeError}
	ErrDeserializeError           = &Error{Code: CodeDeserializeError}
	ErrDecodeError                = &Error{Code: CodeDecodeError}
	ErrExecError                  = &Error{Code: CodeExecError}
)

// Wrap classifies cause under code. If cause already carries a
// classification the innermost one wins and cause is returned as is.
func Wrap(code Code, cause error) error {
	if cause == nil {
		return &Error{Code: code}
	}
	var classified *Error
	if errors.As(cause, &classified) {
		return cause
	}
	return &Error{Code: code, Err: cause}
}

// CodeOf maps err onto the taxonomy. Unclassified errors are reported as
// ExecError since they can only come from a programming defect.
func CodeOf(err error) Code {
	if err == nil {
		return CodeSuccess
	}
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Code
	}
	return CodeExecError
}
