// Package memory implements the flat, fixed capacity byte memory that the
// simulated processor fetches instructions from.
//
// Every access is bounds checked against the capacity fixed at creation;
// nothing is ever clamped or wrapped.
package memory

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"slices"
)

const (
	MEMORY_SIZE = 8096 // Default capacity in bytes.
)

// Memory is a flat byte array addressed from zero.
type Memory struct {
	data []byte
}

// New creates a zeroed memory of capacity bytes.
func New(capacity uint) (mem *Memory) {
	mem = &Memory{
		data: make([]byte, capacity),
	}

	return
}

// Defines for the memory.
func (mem *Memory) Defines() iter.Seq2[string, string] {
	return maps.All(map[string]string{
		"MEMORY_SIZE": fmt.Sprintf("%v", len(mem.data)),
	})
}

// Capacity returns the size of the memory in bytes.
func (mem *Memory) Capacity() uint64 {
	return uint64(len(mem.data))
}

// Reset zero fills the memory.
func (mem *Memory) Reset() {
	clear(mem.data)
}

// Load copies an image to the start of memory.
// An image larger than the memory is refused, and memory is left untouched.
func (mem *Memory) Load(image []byte) (err error) {
	if len(image) > len(mem.data) {
		err = errors.Join(ErrImageTooLarge, &ErrAccess{Addr: 0, Size: len(image), Capacity: mem.Capacity()})
		return
	}

	copy(mem.data, image)

	return
}

// check returns an error if [addr, addr+size) is not within memory.
func (mem *Memory) check(addr uint64, size int) (err error) {
	capacity := mem.Capacity()
	if addr >= capacity || uint64(size) > capacity-addr {
		err = &ErrAccess{Addr: addr, Size: size, Capacity: capacity}
	}

	return
}

// Window returns a view of memory from addr to the end of memory.
// The view must not be modified; use Write to change memory. It tracks
// later writes, and cannot be grown into the memory past its end.
func (mem *Memory) Window(addr uint64) (view []byte, err error) {
	if addr >= mem.Capacity() {
		err = &ErrAccess{Addr: addr, Size: 1, Capacity: mem.Capacity()}
		return
	}

	view = slices.Clip(mem.data[addr:])
	return
}

// Read returns a copy of size bytes at addr.
func (mem *Memory) Read(addr uint64, size int) (data []byte, err error) {
	err = mem.check(addr, size)
	if err != nil {
		return
	}

	data = make([]byte, size)
	copy(data, mem.data[addr:])
	return
}

// Write stores data at addr. Either all of data is written, or none of it.
func (mem *Memory) Write(addr uint64, data []byte) (err error) {
	err = mem.check(addr, len(data))
	if err != nil {
		return
	}

	copy(mem.data[addr:], data)
	return
}
