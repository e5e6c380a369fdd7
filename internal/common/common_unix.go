// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build linux

package common

import (
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// TimeoutToTimeSpec converts a relative timeout into a timespec.
// Negative timeout means 'forever', and nil is returned.
func TimeoutToTimeSpec(timeout time.Duration) *unix.Timespec {
	if timeout >= 0 {
		ts := unix.NsecToTimespec(timeout.Nanoseconds())
		return &ts
	}
	return nil
}

// IsTimeoutErr returns true, if the given error is a timeout syscall error.
func IsTimeoutErr(err error) bool {
	return SyscallErrHasCode(err, unix.ETIMEDOUT)
}

// IsInterruptedSyscallErr returns true, if the syscall was interrupted by a signal.
func IsInterruptedSyscallErr(err error) bool {
	return SyscallErrHasCode(err, syscall.EINTR)
}
