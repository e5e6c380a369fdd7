// Copyright 2016 Aleksandr Demakin. All rights reserved.

package common

import (
	"os"
	"time"

	"golang.org/x/sys/windows"
)

// WaitMillis converts a timeout into a value for WaitForSingleObject.
// Negative timeout means 'forever'.
func WaitMillis(timeout time.Duration) uint32 {
	if timeout < 0 {
		return windows.INFINITE
	}
	return uint32(timeout.Nanoseconds() / 1e6)
}

// NewPathOrSyscallError returns *os.PathError for 'not found', 'already exists' and
// 'access denied' errors, so that os.IsNotExist, os.IsExist and os.IsPermission can be used.
// Any other error is returned as *os.SyscallError.
func NewPathOrSyscallError(op, name string, err error) error {
	switch err {
	case nil:
		return nil
	case windows.ERROR_FILE_NOT_FOUND, windows.ERROR_ALREADY_EXISTS,
		windows.ERROR_FILE_EXISTS, windows.ERROR_ACCESS_DENIED:
		return &os.PathError{Op: op, Path: name, Err: err}
	}
	return os.NewSyscallError(op, err)
}
