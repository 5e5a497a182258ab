// Package geth wires the precompile families into go-ethereum's EVM via
// the SetPrecompiles API.
package geth

import (
	gethcommon "github.com/ethereum/go-ethereum/common"
	gethvm "github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/params"

	"github.com/eth2030/zkprecompiles/core/vm"
)

// PrecompileAdapter wraps a PrecompiledContract to satisfy go-ethereum's
// PrecompiledContract interface (which adds Name()).
type PrecompileAdapter struct {
	inner vm.PrecompiledContract
	name  string
}

// RequiredGas delegates to the wrapped precompile.
func (a *PrecompileAdapter) RequiredGas(input []byte) uint64 {
	return a.inner.RequiredGas(input)
}

// Run delegates to the wrapped precompile.
func (a *PrecompileAdapter) Run(input []byte) ([]byte, error) {
	return a.inner.Run(input)
}

// Name returns the human-readable name for this precompile.
func (a *PrecompileAdapter) Name() string {
	return a.name
}

// NewPrecompileAdapter wraps a precompile for use with go-ethereum.
func NewPrecompileAdapter(inner vm.PrecompiledContract, name string) gethvm.PrecompiledContract {
	return &PrecompileAdapter{inner: inner, name: name}
}

// InjectCustomPrecompiles builds a go-ethereum precompile map holding
// go-ethereum's standard precompiles for the given rules plus every
// contract of reg. A registry address shadows a standard one.
func InjectCustomPrecompiles(rules params.Rules, reg *vm.Registry) gethvm.PrecompiledContracts {
	precompiles := gethvm.ActivePrecompiledContracts(rules)
	if reg == nil {
		return precompiles
	}
	for _, e := range reg.Entries() {
		precompiles[e.Address] = NewPrecompileAdapter(e.Contract, e.Name)
	}
	return precompiles
}

// CustomPrecompileAddresses returns the registry addresses. All precompile
// addresses must be pre-warmed for EIP-2929 access lists.
func CustomPrecompileAddresses(reg *vm.Registry) []gethcommon.Address {
	var addrs []gethcommon.Address
	for _, e := range reg.Entries() {
		addrs = append(addrs, e.Address)
	}
	return addrs
}

// PrecompileNames maps each registry address to its family name.
func PrecompileNames(reg *vm.Registry) map[gethcommon.Address]string {
	names := make(map[gethcommon.Address]string)
	for _, e := range reg.Entries() {
		names[e.Address] = e.Name
	}
	return names
}

// ShadowedStandard lists registry addresses that replace one of
// go-ethereum's standard precompiles under rules.
func ShadowedStandard(rules params.Rules, reg *vm.Registry) []gethcommon.Address {
	standard := gethvm.ActivePrecompiledContracts(rules)
	var out []gethcommon.Address
	for _, e := range reg.Entries() {
		if _, ok := standard[e.Address]; ok {
			out = append(out, e.Address)
		}
	}
	return out
}
