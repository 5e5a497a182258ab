//go:build cgo

package main

// #include <stdint.h>
import "C"

import (
	"unsafe"

	"github.com/eth2030/zkprecompiles/ffi"
)

func input(ptr unsafe.Pointer, n C.uint32_t) []byte {
	return copyInput(ptr, uint32(n))
}

// slot views the caller's 32-byte result buffer.
func slot(ptr unsafe.Pointer) *ffi.Slot {
	return (*ffi.Slot)(ptr)
}

//export __precompile_anemoi_gas
func __precompile_anemoi_gas(data unsafe.Pointer, n C.uint32_t) C.uint64_t {
	return C.uint64_t(anemoiGas(input(data, n)))
}

//export __precompile_anemoi
func __precompile_anemoi(data unsafe.Pointer, n C.uint32_t, ret unsafe.Pointer) C.uint8_t {
	return C.uint8_t(anemoiExec(input(data, n), slot(ret)))
}

//export __precompile_anonymous_verify_gas
func __precompile_anonymous_verify_gas(data unsafe.Pointer, n C.uint32_t) C.uint64_t {
	return C.uint64_t(anonymousGas(input(data, n)))
}

//export __precompile_anonymous_verify
func __precompile_anonymous_verify(data unsafe.Pointer, n C.uint32_t) C.uint8_t {
	return C.uint8_t(anonymousVerify(input(data, n)))
}

//export __precompile_mental_pokey_verify_gas
func __precompile_mental_pokey_verify_gas(data unsafe.Pointer, n C.uint32_t) C.uint64_t {
	return C.uint64_t(pokerVerifyGas(input(data, n)))
}

//export __precompile_mental_pokey_verify
func __precompile_mental_pokey_verify(data unsafe.Pointer, n C.uint32_t) C.uint8_t {
	return C.uint8_t(pokerVerify(input(data, n)))
}

//export __precompile_mental_pokey_exec_gas
func __precompile_mental_pokey_exec_gas(data unsafe.Pointer, n C.uint32_t) C.uint64_t {
	return C.uint64_t(pokerExecGas(input(data, n)))
}

//export __precompile_mental_pokey_exec
func __precompile_mental_pokey_exec(data unsafe.Pointer, n C.uint32_t, ret unsafe.Pointer) C.uint8_t {
	return C.uint8_t(pokerExec(input(data, n), slot(ret)))
}
