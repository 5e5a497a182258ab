// Command libprecompiles builds the precompile families as a C shared
// library for hosts that link them natively:
//
//	go build -buildmode=c-shared -o libprecompiles.so ./cmd/libprecompiles
//
// The families are built on first use from the YAML file named by
// ZKPRECOMPILES_CONFIG, or from the defaults when it is unset or invalid.
package main

import (
	"bytes"
	"os"
	"sync"
	"unsafe"

	"github.com/eth2030/zkprecompiles/config"
	"github.com/eth2030/zkprecompiles/core/vm"
	"github.com/eth2030/zkprecompiles/ffi"
	"github.com/eth2030/zkprecompiles/log"
)

// ConfigEnv names the environment variable holding the config path.
const ConfigEnv = "ZKPRECOMPILES_CONFIG"

var (
	setupOnce sync.Once
	families  vm.Families
)

func loadFamilies() vm.Families {
	setupOnce.Do(func() {
		families = setupFamilies(os.Getenv(ConfigEnv))
	})
	return families
}

func setupFamilies(path string) vm.Families {
	if path == "" {
		return vm.DefaultFamilies()
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		log.Error("Failed to load precompile config, using defaults", "path", path, "err", err)
		return vm.DefaultFamilies()
	}
	cfg.Apply()
	fams, err := cfg.Families(config.Backends{})
	if err != nil {
		log.Error("Failed to load precompile material, using defaults", "path", path, "err", err)
		return vm.DefaultFamilies()
	}
	log.Info("Precompile families loaded", "config", path, "operations", len(fams.Operations()))
	return fams
}

// copyInput copies the caller's n-byte buffer; nothing is retained past the
// call. The full uint32 range is a valid length.
func copyInput(ptr unsafe.Pointer, n uint32) []byte {
	if ptr == nil || n == 0 {
		return nil
	}
	return bytes.Clone(unsafe.Slice((*byte)(ptr), n))
}

func anemoiGas(data []byte) uint64 { return ffi.Gas(loadFamilies().Anemoi, data) }

func anemoiExec(data []byte, out *ffi.Slot) uint8 {
	return ffi.Exec(loadFamilies().Anemoi, data, out)
}

func anonymousGas(data []byte) uint64 { return ffi.Gas(loadFamilies().Anonymous, data) }

func anonymousVerify(data []byte) uint8 { return ffi.Verify(loadFamilies().Anonymous, data) }

func pokerVerifyGas(data []byte) uint64 { return ffi.Gas(loadFamilies().PokerVerify, data) }

func pokerVerify(data []byte) uint8 { return ffi.Verify(loadFamilies().PokerVerify, data) }

func pokerExecGas(data []byte) uint64 { return ffi.Gas(loadFamilies().PokerExec, data) }

func pokerExec(data []byte, out *ffi.Slot) uint8 {
	return ffi.Exec(loadFamilies().PokerExec, data, out)
}

func main() {}
