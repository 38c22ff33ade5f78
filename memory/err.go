package memory

import (
	"errors"

	"github.com/ezrec/rvcore/translate"
)

var f = translate.From

var (
	// Memory errors
	ErrOutOfBounds   = errors.New(f("out of bounds"))
	ErrImageTooLarge = errors.New(f("image too large"))
)

// ErrAccess describes an access that fell outside of memory.
type ErrAccess struct {
	Addr     uint64 // First address of the access.
	Size     int    // Bytes requested.
	Capacity uint64 // Capacity of the memory accessed.
}

func (err *ErrAccess) Error() string {
	return f("access %#x+%v outside %#x bytes", err.Addr, err.Size, err.Capacity)
}

func (err *ErrAccess) Unwrap() error {
	return ErrOutOfBounds
}
