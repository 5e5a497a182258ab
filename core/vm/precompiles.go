// Package vm exposes the precompile families as native contracts a host EVM
// can call. Output layouts follow the host contract: verify contracts return
// one 32-byte word with the status in its last byte, exec contracts return
// the 32-byte result slot followed by a word with the status in byte 63.
package vm

import (
	"errors"
	"sort"

	"github.com/ethereum/go-ethereum/common"

	"github.com/eth2030/zkprecompiles/ffi"
	"github.com/eth2030/zkprecompiles/precompiles"
)

// Output sizes of the two contract kinds.
const (
	VerifyOutputSize = 32
	ExecOutputSize   = 2 * ffi.SlotSize
)

var (
	ErrOutOfGas           = errors.New("out of gas")
	ErrNotPrecompile      = errors.New("not a precompiled contract")
	ErrDuplicateAddress   = errors.New("precompile address already registered")
	ErrNilPrecompiledCode = errors.New("nil precompiled contract")
)

// PrecompiledContract is the interface for native precompiled contracts.
type PrecompiledContract interface {
	RequiredGas(input []byte) uint64
	Run(input []byte) ([]byte, error)
}

// VerifyContract runs a verify family. Run never fails; rejection is
// reported through the status byte.
type VerifyContract struct {
	Family precompiles.Verifier
}

func (c *VerifyContract) RequiredGas(input []byte) uint64 {
	return ffi.Gas(c.Family, input)
}

func (c *VerifyContract) Run(input []byte) ([]byte, error) {
	output := make([]byte, VerifyOutputSize)
	output[VerifyOutputSize-1] = ffi.Verify(c.Family, input)
	return output, nil
}

// ExecContract runs an exec family.
type ExecContract struct {
	Family precompiles.Executor
}

func (c *ExecContract) RequiredGas(input []byte) uint64 {
	return ffi.Gas(c.Family, input)
}

func (c *ExecContract) Run(input []byte) ([]byte, error) {
	var slot ffi.Slot
	status := ffi.Exec(c.Family, input, &slot)
	output := make([]byte, ExecOutputSize)
	copy(output, slot[:])
	output[ExecOutputSize-1] = status
	return output, nil
}

// Status extracts the status byte from a contract output.
func Status(output []byte) precompiles.Code {
	if len(output) == 0 {
		return precompiles.CodeExecError
	}
	return precompiles.Code(output[len(output)-1])
}

// Entry is one registered contract.
type Entry struct {
	Address  common.Address
	Name     string
	Contract PrecompiledContract
}

// Registry maps addresses to contracts. It is filled once at startup and
// read concurrently afterwards.
type Registry struct {
	entries map[common.Address]Entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[common.Address]Entry)}
}

// Register adds a contract under addr.
func (r *Registry) Register(addr common.Address, name string, c PrecompiledContract) error {
	if c == nil {
		return ErrNilPrecompiledCode
	}
	if _, ok := r.entries[addr]; ok {
		return ErrDuplicateAddress
	}
	r.entries[addr] = Entry{Address: addr, Name: name, Contract: c}
	return nil
}

// Lookup returns the contract at addr.
func (r *Registry) Lookup(addr common.Address) (PrecompiledContract, bool) {
	e, ok := r.entries[addr]
	return e.Contract, ok
}

// IsPrecompiledContract checks if the given address is registered.
func (r *Registry) IsPrecompiledContract(addr common.Address) bool {
	_, ok := r.entries[addr]
	return ok
}

// Entries returns the registered contracts ordered by address.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Address.Cmp(out[j].Address) < 0
	})
	return out
}

// RunPrecompiledContract executes the contract at addr and returns the
// output, remaining gas, and any error.
func (r *Registry) RunPrecompiledContract(addr common.Address, input []byte, gas uint64) ([]byte, uint64, error) {
	p, ok := r.Lookup(addr)
	if !ok {
		return nil, gas, ErrNotPrecompile
	}
	gasCost := p.RequiredGas(input)
	if gas < gasCost {
		return nil, 0, ErrOutOfGas
	}
	output, err := p.Run(input)
	return output, gas - gasCost, err
}
