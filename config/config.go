// Package config loads the gateway configuration from YAML: logging,
// family addresses, and the read-only material (Anemoi salts, anonymous
// verifier parameters) the families are built from.
package config

import (
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/eth2030/zkprecompiles/core/vm"
	"github.com/eth2030/zkprecompiles/log"
	"github.com/eth2030/zkprecompiles/metrics"
	"github.com/eth2030/zkprecompiles/precompiles/anon"
)

// maxShape bounds the transfer input/output limits a config may request.
const maxShape = 16

// Config holds all configuration of the gateway.
type Config struct {
	Log       LogConfig       `yaml:"log"`
	Addresses AddressConfig   `yaml:"addresses"`
	Anemoi    AnemoiConfig    `yaml:"anemoi"`
	Anonymous AnonymousConfig `yaml:"anonymous"`
	Metrics   MetricsConfig   `yaml:"metrics"`

	// Dir is the directory relative file paths resolve against. LoadFile
	// sets it to the directory of the config file.
	Dir string `yaml:"-"`
}

type LogConfig struct {
	// Level is one of trace, debug, info, warn, error, crit.
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// AddressConfig holds hex addresses of the four families.
type AddressConfig struct {
	Anemoi      string `yaml:"anemoi"`
	Anonymous   string `yaml:"anonymous"`
	PokerVerify string `yaml:"pokerVerify"`
	PokerExec   string `yaml:"pokerExec"`
}

type AnemoiConfig struct {
	// SaltsFile is a YAML list of 64 little-endian hex field elements.
	SaltsFile string `yaml:"saltsFile"`
}

type AnonymousConfig struct {
	// ParamsFile is a YAML manifest of verifier parameter sets.
	ParamsFile string `yaml:"paramsFile"`
	MaxInputs  int    `yaml:"maxInputs"`
	MaxOutputs int    `yaml:"maxOutputs"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	addrs := vm.DefaultAddresses()
	return Config{
		Log: LogConfig{Level: "info"},
		Addresses: AddressConfig{
			Anemoi:      addrs.Anemoi.Hex(),
			Anonymous:   addrs.Anonymous.Hex(),
			PokerVerify: addrs.PokerVerify.Hex(),
			PokerExec:   addrs.PokerExec.Hex(),
		},
		Anonymous: AnonymousConfig{
			MaxInputs:  anon.DefaultMaxInputs,
			MaxOutputs: anon.DefaultMaxOutputs,
		},
		Metrics: MetricsConfig{Enabled: true},
	}
}

// Parse decodes YAML on top of the defaults and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "config: parse")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFile reads and parses the config at path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "config: read")
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	cfg.Dir = filepath.Dir(path)
	return cfg, nil
}

// Validate checks configuration values for correctness.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errors.Errorf("config: unknown log level %q", c.Log.Level)
	}
	if _, err := c.VMAddresses(); err != nil {
		return err
	}
	if c.Anonymous.MaxInputs < 1 || c.Anonymous.MaxInputs > maxShape {
		return errors.Errorf("config: invalid anonymous.maxInputs: %d", c.Anonymous.MaxInputs)
	}
	if c.Anonymous.MaxOutputs < 1 || c.Anonymous.MaxOutputs > maxShape {
		return errors.Errorf("config: invalid anonymous.maxOutputs: %d", c.Anonymous.MaxOutputs)
	}
	return nil
}

// VMAddresses parses the family addresses. They must be valid and
// pairwise distinct.
func (c *Config) VMAddresses() (vm.Addresses, error) {
	var out vm.Addresses
	fields := []struct {
		name string
		hex  string
		dst  *common.Address
	}{
		{"anemoi", c.Addresses.Anemoi, &out.Anemoi},
		{"anonymous", c.Addresses.Anonymous, &out.Anonymous},
		{"pokerVerify", c.Addresses.PokerVerify, &out.PokerVerify},
		{"pokerExec", c.Addresses.PokerExec, &out.PokerExec},
	}
	seen := make(map[common.Address]string, len(fields))
	for _, f := range fields {
		if !common.IsHexAddress(f.hex) {
			return out, errors.Errorf("config: invalid addresses.%s: %q", f.name, f.hex)
		}
		addr := common.HexToAddress(f.hex)
		if prev, ok := seen[addr]; ok {
			return out, errors.Errorf("config: addresses.%s and addresses.%s are both %s", prev, f.name, addr.Hex())
		}
		seen[addr] = f.name
		*f.dst = addr
	}
	return out, nil
}

// ResolvePath resolves a path relative to the config directory.
func (c *Config) ResolvePath(path string) string {
	if path == "" || filepath.IsAbs(path) || c.Dir == "" {
		return path
	}
	return filepath.Join(c.Dir, path)
}

// Logger builds the logger described by the log section.
func (c *Config) Logger() *log.Logger {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		level, _ = log.ParseLevel("info")
	}
	return log.New(os.Stderr, level, c.Log.JSON)
}

// Apply installs the configured logger as the default and switches
// metrics recording on or off.
func (c *Config) Apply() {
	log.SetDefault(c.Logger())
	metrics.SetEnabled(c.Metrics.Enabled)
}
