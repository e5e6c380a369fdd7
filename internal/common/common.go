// Copyright 2016 Aleksandr Demakin. All rights reserved.

package common

import (
	"os"
	"syscall"

	"github.com/pkg/errors"
)

// CreateFlags are the flags used to create a named object exclusively.
const CreateFlags = os.O_CREATE | os.O_EXCL

// IsCreateFlag returns true, if the flag requests object creation.
// Any flag is either CreateFlags or 0, which means 'open an existing object'.
func IsCreateFlag(flag int) bool {
	return flag&os.O_CREATE != 0
}

// EnsureOpenFlags checks, that flag is either 0 or CreateFlags.
// Opening or creating on demand is not supported, as a creator must
// know, that it is responsible for the object.
func EnsureOpenFlags(flag int) error {
	if flag != 0 && flag != CreateFlags {
		return errors.Errorf("invalid open flags %#x, expected 0 or O_CREATE|O_EXCL", flag)
	}
	return nil
}

// SyscallErrHasCode returns true, if err is a syscall error with the given code.
func SyscallErrHasCode(err error, code syscall.Errno) bool {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno == code
	}
	return false
}
