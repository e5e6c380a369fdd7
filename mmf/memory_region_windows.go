// Copyright 2015 Aleksandr Demakin. All rights reserved.

package mmf

import (
	"os"
	"unsafe"

	"github.com/nxgtw/shmregion/internal/allocator"
	"github.com/nxgtw/shmregion/internal/sys/windows"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

func init() {
	g, p := sys.AllocationGranularity(), os.Getpagesize()
	if g >= p {
		mmapOffsetMultiple = int64(g)
	} else {
		mmapOffsetMultiple = int64(p)
	}
}

type memoryRegion struct {
	data       []byte
	size       int
	pageOffset int64
}

// newMemoryRegion maps a view of a file mapping object.
// obj.Fd() must be a handle of a file mapping object, like the one returned
// by shm.NewMemoryObject.
func newMemoryRegion(obj Mappable, mode int, offset int64, size int) (*memoryRegion, error) {
	access, err := memAccessFromMode(mode)
	if err != nil {
		return nil, errors.Wrap(err, "memory region flags check failed")
	}
	if objSize := obj.Size(); objSize > 0 {
		if size == 0 {
			size = int(objSize - offset)
		}
		if size <= 0 || int64(size)+offset > objSize {
			return nil, errors.Errorf("invalid mapping length %d for object size %d", size, objSize)
		}
	}
	pageOffset := calcMmapOffsetFixup(offset)
	offset -= pageOffset
	lowOffset := uint32(offset & 0xFFFFFFFF)
	highOffset := uint32(offset >> 32)
	var length uintptr
	if size > 0 {
		length = uintptr(int64(size) + pageOffset)
	}
	addr, err := windows.MapViewOfFile(windows.Handle(obj.Fd()), access, highOffset, lowOffset, length)
	if err != nil {
		return nil, os.NewSyscallError("MapViewOfFile", err)
	}
	if size == 0 {
		// the size of an opened object is unknown, so the whole object is mapped,
		// and the view size, rounded to the page size, is used.
		var viewSize int
		if viewSize, err = sys.MappedViewSize(addr); err != nil {
			windows.UnmapViewOfFile(addr)
			return nil, err
		}
		size = viewSize - int(pageOffset)
	}
	totalSize := size + int(pageOffset)
	return &memoryRegion{
		data:       allocator.ByteSliceFromUnsafePointer(unsafe.Pointer(addr), totalSize, totalSize),
		size:       size,
		pageOffset: pageOffset,
	}, nil
}

func (region *memoryRegion) Close() error {
	if region.data == nil {
		return nil
	}
	err := windows.UnmapViewOfFile(uintptr(allocator.ByteSliceData(region.data)))
	region.data = nil
	region.size = 0
	region.pageOffset = 0
	if err != nil {
		return os.NewSyscallError("UnmapViewOfFile", err)
	}
	return nil
}

func (region *memoryRegion) Data() []byte {
	if region.data == nil {
		return nil
	}
	return region.data[region.pageOffset:]
}

func (region *memoryRegion) Size() int {
	return region.size
}

func (region *memoryRegion) Flush(async bool) error {
	if region.data == nil {
		return nil
	}
	if err := windows.FlushViewOfFile(uintptr(allocator.ByteSliceData(region.data)), uintptr(len(region.data))); err != nil {
		return os.NewSyscallError("FlushViewOfFile", err)
	}
	return nil
}

func memAccessFromMode(mode int) (uint32, error) {
	switch mode {
	case MEM_READ_ONLY:
		return windows.FILE_MAP_READ, nil
	case MEM_READWRITE:
		return windows.FILE_MAP_WRITE, nil
	}
	return 0, errors.Errorf("invalid memory region flags %d", mode)
}
