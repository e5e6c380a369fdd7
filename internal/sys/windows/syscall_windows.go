// Copyright 2016 Aleksandr Demakin. All rights reserved.

package sys

import (
	"os"
	"unsafe"

	"github.com/nxgtw/shmregion/internal/allocator"

	"golang.org/x/sys/windows"
)

// FILE_MAP_ALL_ACCESS is a desired access for OpenFileMapping,
// which allows reading and writing.
const FILE_MAP_ALL_ACCESS = 0x000F001F

// systemInfo is used for GetSystemInfo WinApi call
// see https://msdn.microsoft.com/en-us/library/windows/desktop/ms724958(v=vs.85).aspx
type systemInfo struct {
	// This is the first member of the union
	OemID uint32
	// These are the second member of the union
	//      ProcessorArchitecture uint16;
	//      Reserved uint16;
	PageSize                  uint32
	MinimumApplicationAddress uintptr
	MaximumApplicationAddress uintptr
	ActiveProcessorMask       uintptr
	NumberOfProcessors        uint32
	ProcessorType             uint32
	AllocationGranularity     uint32
	ProcessorLevel            uint16
	ProcessorRevision         uint16
}

var (
	modkernel32           = windows.NewLazySystemDLL("kernel32.dll")
	procGetSystemInfo     = modkernel32.NewProc("GetSystemInfo")
	procOpenFileMapping   = modkernel32.NewProc("OpenFileMappingW")
	procCreateFileMapping = modkernel32.NewProc("CreateFileMappingW")
)

// AllocationGranularity returns the granularity for the starting address of a view.
func AllocationGranularity() int {
	var si systemInfo
	// this cannot fail
	procGetSystemInfo.Call(uintptr(unsafe.Pointer(&si)))
	return int(si.AllocationGranularity)
}

// OpenFileMapping is a wraper for windows syscall.
// If there is no object with the given name, it returns *os.PathError.
func OpenFileMapping(access uint32, inheritHandle uint32, name string) (windows.Handle, error) {
	namep, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return 0, err
	}
	nameu := unsafe.Pointer(namep)
	r1, _, err := procOpenFileMapping.Call(uintptr(access), uintptr(inheritHandle), uintptr(nameu))
	allocator.Use(nameu)
	if r1 == 0 {
		switch err {
		case windows.ERROR_FILE_NOT_FOUND, windows.ERROR_ACCESS_DENIED:
			return 0, &os.PathError{Path: name, Op: "OpenFileMapping", Err: err}
		}
		return 0, os.NewSyscallError("OpenFileMapping", err)
	}
	return windows.Handle(r1), nil
}

// CreateFileMapping is a wraper for windwos syscall.
// CreateFileMapping may return a valid handle along with ERROR_ALREADY_EXISTS,
// in this case the handle is closed, and *os.PathError is returned,
// so that creation is always exclusive.
func CreateFileMapping(fhandle windows.Handle, sa *windows.SecurityAttributes, prot uint32, maxSizeHigh uint32, maxSizeLow uint32, name string) (windows.Handle, error) {
	var namep *uint16
	var err error
	if len(name) > 0 {
		if namep, err = windows.UTF16PtrFromString(name); err != nil {
			return 0, err
		}
	}
	nameu := unsafe.Pointer(namep)
	sau := unsafe.Pointer(sa)
	r1, _, err := procCreateFileMapping.Call(uintptr(fhandle), uintptr(sau), uintptr(prot), uintptr(maxSizeHigh), uintptr(maxSizeLow), uintptr(nameu))
	allocator.Use(sau)
	allocator.Use(nameu)
	if r1 == 0 {
		if err == windows.ERROR_ACCESS_DENIED {
			return 0, &os.PathError{Path: name, Op: "CreateFileMapping", Err: err}
		}
		return 0, os.NewSyscallError("CreateFileMapping", err)
	}
	if err == windows.ERROR_ALREADY_EXISTS {
		windows.CloseHandle(windows.Handle(r1))
		return 0, &os.PathError{Path: name, Op: "CreateFileMapping", Err: err}
	}
	return windows.Handle(r1), nil
}

// MappedViewSize returns the size of the view mapped at addr.
// The size is rounded up to the page size.
func MappedViewSize(addr uintptr) (int, error) {
	var info windows.MemoryBasicInformation
	if err := windows.VirtualQuery(addr, &info, unsafe.Sizeof(info)); err != nil {
		return 0, os.NewSyscallError("VirtualQuery", err)
	}
	return int(info.RegionSize), nil
}
