package common

import (
	"unsafe"
)

// StructToBytes reinterprets a pointer to a fixed-size value as a raw byte slice.
// The returned slice aliases v, so writes to v are visible through it.
//
// Parameters:
//   - v: pointer to the value to reinterpret
//
// Returns:
//   - []byte: byte slice view of the value's memory
func StructToBytes[T any](v *T) []byte {
	size := unsafe.Sizeof(*v)
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), int(size))
}
