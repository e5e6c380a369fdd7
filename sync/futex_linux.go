// Copyright 2016 Aleksandr Demakin. All rights reserved.

package sync

import (
	"os"
	"time"
	"unsafe"

	"github.com/nxgtw/shmregion/internal/allocator"
	"github.com/nxgtw/shmregion/internal/common"

	"golang.org/x/sys/unix"
)

// futex operations. the futexes are shared between processes,
// so FUTEX_PRIVATE_FLAG is never set.
const (
	cFUTEX_WAIT = 0
	cFUTEX_WAKE = 1
)

// futex is a waitWaker over a futex word in shared memory.
type futex struct {
	ptr unsafe.Pointer
}

func (f *futex) wait(value uint32, timeout time.Duration) error {
	_, err := sysFutex(f.ptr, cFUTEX_WAIT, value, common.TimeoutToTimeSpec(timeout), nil, 0)
	if common.SyscallErrHasCode(err, unix.EAGAIN) || common.IsInterruptedSyscallErr(err) {
		return nil
	}
	return err
}

func (f *futex) wake(count uint32) (int, error) {
	woken, err := sysFutex(f.ptr, cFUTEX_WAKE, count, nil, nil, 0)
	return int(woken), err
}

func sysFutex(addr unsafe.Pointer, op int32, val uint32, ts *unix.Timespec, addr2 unsafe.Pointer, val3 uint32) (int32, error) {
	r1, _, err := unix.Syscall6(unix.SYS_FUTEX,
		uintptr(addr),
		uintptr(op),
		uintptr(val),
		uintptr(unsafe.Pointer(ts)),
		uintptr(addr2),
		uintptr(val3))
	allocator.Use(addr)
	allocator.Use(addr2)
	if err != 0 {
		return 0, os.NewSyscallError("FUTEX", err)
	}
	return int32(r1), nil
}
