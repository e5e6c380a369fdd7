// Copyright 2015 Aleksandr Demakin. All rights reserved.

// Package mmf maps memory objects into the address space of the process.
package mmf

import (
	"runtime"

	"github.com/pkg/errors"
)

// Memory region access modes.
const (
	MEM_READ_ONLY = 0x00000001
	MEM_READWRITE = 0x00000004
)

var (
	mmapOffsetMultiple int64
)

// Mappable is a named object, which can return a handle,
// that can be used as a file descriptor for mmap.
type Mappable interface {
	Fd() uintptr
	Name() string
	Size() int64
}

// MemoryRegion is a mmapped area of a memory object.
// Warning. The internal object has a finalizer set,
// so the region will be unmapped during the gc.
// Thus, you should be carefull getting internal data.
// For example, the following code may crash:
// 	func f() {
// 		region := NewMemoryRegion(...)
// 		return g(region.Data())
// 	}
// region may be gc'ed while its data is used by g().
// Keep a reference to the region until its data is no longer needed.
type MemoryRegion struct {
	*memoryRegion
}

// NewMemoryRegion creates a new shared memory region.
// 	object - an object to mmap.
// 	mode - open mode. see MEM_* constants
// 	offset - offset in bytes from the beginning of the mmaped file
// 	size - mapping size. if 0, the rest of the object is mapped.
func NewMemoryRegion(object Mappable, mode int, offset int64, size int) (*MemoryRegion, error) {
	if offset < 0 || size < 0 {
		return nil, errors.Errorf("invalid mapping offset %d or size %d", offset, size)
	}
	impl, err := newMemoryRegion(object, mode, offset, size)
	if err != nil {
		return nil, err
	}
	runtime.SetFinalizer(impl, func(region *memoryRegion) {
		region.Close()
	})
	return &MemoryRegion{impl}, nil
}

// Close unmaps the regions so that it cannot be longer used.
func (region *MemoryRegion) Close() error {
	runtime.SetFinalizer(region.memoryRegion, nil)
	return region.memoryRegion.Close()
}

// Data returns region's mapped data.
func (region *MemoryRegion) Data() []byte {
	return region.memoryRegion.Data()
}

// Flush syncs mapped content with the object.
func (region *MemoryRegion) Flush(async bool) error {
	return region.memoryRegion.Flush(async)
}

// Size returns mapping size.
func (region *MemoryRegion) Size() int {
	return region.memoryRegion.Size()
}

// calcMmapOffsetFixup returns a value X,
// so that  offset - X is a valid mmap offset
// typically the value of the fixup is a memory page size,
// however, on windows it must be a multiple of the
// memory allocation granularity value as well.
func calcMmapOffsetFixup(offset int64) int64 {
	return (offset - (offset/mmapOffsetMultiple)*mmapOffsetMultiple)
}
