package anon

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/eth2030/zkprecompiles/precompiles"
)

// Default shape limits of a ParamsTable.
const (
	DefaultMaxInputs  = 6
	DefaultMaxOutputs = 6
)

// ParamsKind names the circuit a parameter set belongs to.
type ParamsKind uint8

const (
	KindDeposit ParamsKind = iota
	KindTransfer
	KindOwnership
)

func (k ParamsKind) String() string {
	switch k {
	case KindDeposit:
		return "deposit"
	case KindTransfer:
		return "transfer"
	case KindOwnership:
		return "ownership"
	}
	return fmt.Sprintf("ParamsKind(%d)", uint8(k))
}

// ParseParamsKind parses the lowercase name of a kind.
func ParseParamsKind(s string) (ParamsKind, error) {
	switch s {
	case "deposit":
		return KindDeposit, nil
	case "transfer":
		return KindTransfer, nil
	case "ownership":
		return KindOwnership, nil
	}
	return 0, errors.Errorf("unknown params kind %q", s)
}

// ParamsKey identifies one verifier parameter set.
type ParamsKey struct {
	Kind    ParamsKind
	Inputs  int
	Outputs int
	Format  AddressFormat
}

func (k ParamsKey) String() string {
	return fmt.Sprintf("%s/%dx%d/%s", k.Kind, k.Inputs, k.Outputs, k.Format)
}

// VerifierParams is an opaque verifier key handed to the ProofVerifier.
type VerifierParams struct {
	Key  ParamsKey
	Data []byte
}

// ParamsSource resolves verifier parameters. Shapes the source can never
// serve fail UnsupportInputsOutputs; supported shapes without a loaded set
// fail FailedToLoadVerifierParams.
type ParamsSource interface {
	Params(key ParamsKey) (*VerifierParams, error)
}

// ParamsTable is an in-memory ParamsSource. It is populated before use and
// read-only afterwards.
type ParamsTable struct {
	maxInputs  int
	maxOutputs int
	entries    map[ParamsKey]*VerifierParams
}

// NewParamsTable returns an empty table with the given shape limits.
// Non-positive limits fall back to the defaults.
func NewParamsTable(maxInputs, maxOutputs int) *ParamsTable {
	if maxInputs <= 0 {
		maxInputs = DefaultMaxInputs
	}
	if maxOutputs <= 0 {
		maxOutputs = DefaultMaxOutputs
	}
	return &ParamsTable{
		maxInputs:  maxInputs,
		maxOutputs: maxOutputs,
		entries:    make(map[ParamsKey]*VerifierParams),
	}
}

// Add registers a parameter set. It must not be called once the table is
// shared.
func (t *ParamsTable) Add(key ParamsKey, data []byte) error {
	if err := t.supported(key); err != nil {
		return err
	}
	if _, ok := t.entries[key]; ok {
		return errors.Errorf("duplicate verifier params %s", key)
	}
	t.entries[key] = &VerifierParams{Key: key, Data: data}
	return nil
}

// Len returns the number of loaded parameter sets.
func (t *ParamsTable) Len() int { return len(t.entries) }

// Params implements ParamsSource.
func (t *ParamsTable) Params(key ParamsKey) (*VerifierParams, error) {
	if err := t.supported(key); err != nil {
		return nil, err
	}
	p, ok := t.entries[key]
	if !ok {
		return nil, precompiles.Wrap(precompiles.CodeFailedToLoadVerifierParams,
			errors.Errorf("no verifier params for %s", key))
	}
	return p, nil
}

func (t *ParamsTable) supported(key ParamsKey) error {
	var ok bool
	switch key.Kind {
	case KindDeposit:
		ok = key.Inputs == 0 && key.Outputs == 1
	case KindOwnership:
		ok = key.Inputs == 1 && key.Outputs == 0
	case KindTransfer:
		ok = key.Inputs >= 1 && key.Inputs <= t.maxInputs &&
			key.Outputs >= 1 && key.Outputs <= t.maxOutputs
	}
	if !ok {
		return precompiles.Wrap(precompiles.CodeUnsupportInputsOutputs,
			errors.Errorf("unsupported shape %s", key))
	}
	return nil
}
