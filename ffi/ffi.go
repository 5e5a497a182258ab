// Package ffi is the host boundary of the precompile families. Every entry
// point reports a plain status code (or a gas figure) instead of an error,
// never panics, and writes results into a caller-owned fixed-size slot.
//
// The same functions back the cgo library in cmd/libprecompiles and the
// go-ethereum contracts in core/vm.
package ffi

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/eth2030/zkprecompiles/log"
	"github.com/eth2030/zkprecompiles/metrics"
	"github.com/eth2030/zkprecompiles/precompiles"
)

// SlotSize is the width of the result slot an exec call writes into.
const SlotSize = 32

// Slot receives the result of an exec call.
type Slot [SlotSize]byte

// Entry point names, used as the "entry" label of boundary metrics.
const (
	EntryVerify = "verify"
	EntryExec   = "exec"
	EntryGas    = "gas"
)

// Pricer is anything that can price call data. Both precompiles.Verifier
// and precompiles.Executor satisfy it.
type Pricer interface {
	Name() string
	Gas(data []byte) (uint64, error)
}

// Verify runs a verification call and returns its status code.
func Verify(v precompiles.Verifier, data []byte) (status uint8) {
	family := familyName(v)
	defer guard(family, EntryVerify, func() { status = uint8(precompiles.CodeExecError) })

	if v == nil {
		return report(family, EntryVerify, errNotConfigured)
	}
	return report(family, EntryVerify, v.Verify(data))
}

// Exec runs a computation call. On success the result is left-padded with
// zeros into out; on failure out is not touched. Results wider than the
// slot fail with SerializeError.
func Exec(e precompiles.Executor, data []byte, out *Slot) (status uint8) {
	family := familyName(e)
	defer guard(family, EntryExec, func() { status = uint8(precompiles.CodeExecError) })

	if e == nil {
		return report(family, EntryExec, errNotConfigured)
	}
	res, err := e.Exec(data)
	if err == nil {
		err = fill(out, res)
	}
	return report(family, EntryExec, err)
}

// Gas prices a call. Any failure, including a recovered panic, prices the
// call at zero.
func Gas(p Pricer, data []byte) (gas uint64) {
	family := familyName(p)
	defer guard(family, EntryGas, func() { gas = 0 })

	if p == nil {
		report(family, EntryGas, errNotConfigured)
		return 0
	}
	gas, err := p.Gas(data)
	if err != nil {
		report(family, EntryGas, err)
		return 0
	}
	report(family, EntryGas, nil)
	metrics.ObserveGas(family, gas)
	return gas
}

var errNotConfigured = precompiles.Wrap(precompiles.CodeFailedToLoadVerifierParams, errors.New("family not configured"))

func fill(out *Slot, res []byte) error {
	if out == nil {
		return precompiles.Wrap(precompiles.CodeSerializeError, errors.New("no result slot"))
	}
	if len(res) > SlotSize {
		return precompiles.Wrap(precompiles.CodeSerializeError,
			errors.Errorf("result of %d bytes does not fit a %d-byte slot", len(res), SlotSize))
	}
	var slot Slot
	copy(slot[SlotSize-len(res):], res)
	*out = slot
	return nil
}

func report(family, entry string, err error) uint8 {
	code := precompiles.CodeOf(err)
	metrics.ObserveCall(family, entry, code)
	if code != precompiles.CodeSuccess {
		logger().Debug("Precompile call failed", "family", family, "entry", entry, "code", uint8(code), "err", err)
	}
	return uint8(code)
}

// guard must be deferred directly so that recover sees the panic.
func guard(family, entry string, onPanic func()) {
	r := recover()
	if r == nil {
		return
	}
	onPanic()
	metrics.ObservePanic(family, entry)
	metrics.ObserveCall(family, entry, precompiles.CodeExecError)
	logger().Error("Recovered panic at precompile boundary", "family", family, "entry", entry, "panic", fmt.Sprint(r))
}

func familyName(p Pricer) (name string) {
	if p == nil {
		return "unset"
	}
	defer func() {
		if recover() != nil {
			name = "unknown"
		}
	}()
	return p.Name()
}

func logger() *log.Logger { return log.Default().Module("ffi") }
