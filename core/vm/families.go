package vm

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/eth2030/zkprecompiles/precompiles"
	"github.com/eth2030/zkprecompiles/precompiles/anemoi"
	"github.com/eth2030/zkprecompiles/precompiles/anon"
	"github.com/eth2030/zkprecompiles/precompiles/poker"
)

// Addresses places the four families in the host address space.
type Addresses struct {
	Anemoi      common.Address
	Anonymous   common.Address
	PokerVerify common.Address
	PokerExec   common.Address
}

// DefaultAddresses returns 0x2000 through 0x2003.
func DefaultAddresses() Addresses {
	return Addresses{
		Anemoi:      common.BytesToAddress([]byte{0x20, 0x00}),
		Anonymous:   common.BytesToAddress([]byte{0x20, 0x01}),
		PokerVerify: common.BytesToAddress([]byte{0x20, 0x02}),
		PokerExec:   common.BytesToAddress([]byte{0x20, 0x03}),
	}
}

// Families holds the configured family instances. A nil family is left
// out of the registry.
type Families struct {
	Anemoi      precompiles.Executor
	Anonymous   precompiles.Verifier
	PokerVerify precompiles.Verifier
	PokerExec   precompiles.Executor
}

// DefaultFamilies returns families that need no external material: Anemoi
// without evaluator or salts, the anonymous family without parameters or
// verifier, and mental poker on the dlcards backend.
func DefaultFamilies() Families {
	return Families{
		Anemoi:      anemoi.New(nil, nil),
		Anonymous:   anon.New(nil, nil),
		PokerVerify: poker.NewVerifyFamily(nil),
		PokerExec:   poker.NewExecFamily(nil),
	}
}

// Operations lists the selector tables of the configured families.
func (f Families) Operations() []precompiles.Operation {
	var ops []precompiles.Operation
	if f.Anemoi != nil {
		ops = append(ops, anemoi.Operations()...)
	}
	if f.Anonymous != nil {
		ops = append(ops, anon.Operations()...)
	}
	if f.PokerVerify != nil {
		ops = append(ops, poker.VerifyOperations()...)
	}
	if f.PokerExec != nil {
		ops = append(ops, poker.ExecOperations()...)
	}
	return ops
}

// Registry registers every configured family at its address.
func (f Families) Registry(addrs Addresses) (*Registry, error) {
	r := NewRegistry()
	add := func(addr common.Address, name string, c PrecompiledContract) error {
		if err := r.Register(addr, name, c); err != nil {
			return errors.Wrapf(err, "%s at %s", name, addr.Hex())
		}
		return nil
	}
	if f.Anemoi != nil {
		if err := add(addrs.Anemoi, f.Anemoi.Name(), &ExecContract{Family: f.Anemoi}); err != nil {
			return nil, err
		}
	}
	if f.Anonymous != nil {
		if err := add(addrs.Anonymous, f.Anonymous.Name(), &VerifyContract{Family: f.Anonymous}); err != nil {
			return nil, err
		}
	}
	if f.PokerVerify != nil {
		if err := add(addrs.PokerVerify, f.PokerVerify.Name(), &VerifyContract{Family: f.PokerVerify}); err != nil {
			return nil, err
		}
	}
	if f.PokerExec != nil {
		if err := add(addrs.PokerExec, f.PokerExec.Name(), &ExecContract{Family: f.PokerExec}); err != nil {
			return nil, err
		}
	}
	return r, nil
}
