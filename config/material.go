package config

import (
	"encoding/hex"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/eth2030/zkprecompiles/core/vm"
	"github.com/eth2030/zkprecompiles/precompiles/anemoi"
	"github.com/eth2030/zkprecompiles/precompiles/anon"
	"github.com/eth2030/zkprecompiles/precompiles/poker"
)

// ParamsEntry is one verifier parameter set of a params manifest.
type ParamsEntry struct {
	Kind    string `yaml:"kind"`
	Inputs  int    `yaml:"inputs"`
	Outputs int    `yaml:"outputs"`
	Format  string `yaml:"format"`
	// Data is the hex encoded verifier key, with or without 0x.
	Data string `yaml:"data"`
}

// ParamsManifest is the content of anonymous.paramsFile.
type ParamsManifest struct {
	Params []ParamsEntry `yaml:"params"`
}

// LoadSalts reads a YAML list of hex salt words.
func LoadSalts(path string) (*anemoi.SaltTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "config: read salts")
	}
	var words []string
	if err := yaml.UnmarshalStrict(data, &words); err != nil {
		return nil, errors.Wrapf(err, "config: parse salts %s", path)
	}
	table, err := anemoi.ParseSaltTable(words)
	if err != nil {
		return nil, errors.Wrapf(err, "config: %s", path)
	}
	return table, nil
}

// ParseParams builds a parameter table from a manifest.
func ParseParams(data []byte, maxInputs, maxOutputs int) (*anon.ParamsTable, error) {
	var manifest ParamsManifest
	if err := yaml.UnmarshalStrict(data, &manifest); err != nil {
		return nil, errors.Wrap(err, "config: parse params manifest")
	}
	table := anon.NewParamsTable(maxInputs, maxOutputs)
	for i, e := range manifest.Params {
		key, err := e.key()
		if err != nil {
			return nil, errors.Wrapf(err, "config: params[%d]", i)
		}
		raw, err := hex.DecodeString(strings.TrimPrefix(e.Data, "0x"))
		if err != nil {
			return nil, errors.Wrapf(err, "config: params[%d] data", i)
		}
		if len(raw) == 0 {
			return nil, errors.Errorf("config: params[%d] has no data", i)
		}
		if err := table.Add(key, raw); err != nil {
			return nil, errors.Wrapf(err, "config: params[%d]", i)
		}
	}
	return table, nil
}

// LoadParams reads a params manifest file.
func LoadParams(path string, maxInputs, maxOutputs int) (*anon.ParamsTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "config: read params")
	}
	table, err := ParseParams(data, maxInputs, maxOutputs)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return table, nil
}

func (e ParamsEntry) key() (anon.ParamsKey, error) {
	kind, err := anon.ParseParamsKind(e.Kind)
	if err != nil {
		return anon.ParamsKey{}, err
	}
	format, err := anon.ParseAddressFormat(e.Format)
	if err != nil {
		return anon.ParamsKey{}, err
	}
	return anon.ParamsKey{Kind: kind, Inputs: e.Inputs, Outputs: e.Outputs, Format: format}, nil
}

// Backends are the external collaborators that cannot come from a config
// file. Any of them may be nil.
type Backends struct {
	Jive     anemoi.JiveEvaluator
	Verifier anon.ProofVerifier
	Poker    poker.Protocol
}

// Families builds the four families from the configured material and b.
func (c *Config) Families(b Backends) (vm.Families, error) {
	var salts *anemoi.SaltTable
	if c.Anemoi.SaltsFile != "" {
		var err error
		if salts, err = LoadSalts(c.ResolvePath(c.Anemoi.SaltsFile)); err != nil {
			return vm.Families{}, err
		}
	}
	// A nil *ParamsTable must not reach anon.New as a non-nil interface.
	var params anon.ParamsSource
	if c.Anonymous.ParamsFile != "" {
		table, err := LoadParams(c.ResolvePath(c.Anonymous.ParamsFile), c.Anonymous.MaxInputs, c.Anonymous.MaxOutputs)
		if err != nil {
			return vm.Families{}, err
		}
		params = table
	}
	return vm.Families{
		Anemoi:      anemoi.New(b.Jive, salts),
		Anonymous:   anon.New(params, b.Verifier),
		PokerVerify: poker.NewVerifyFamily(b.Poker),
		PokerExec:   poker.NewExecFamily(b.Poker),
	}, nil
}

// Registry builds the families and registers them at the configured
// addresses.
func (c *Config) Registry(b Backends) (*vm.Registry, error) {
	fams, err := c.Families(b)
	if err != nil {
		return nil, err
	}
	addrs, err := c.VMAddresses()
	if err != nil {
		return nil, err
	}
	return fams.Registry(addrs)
}
