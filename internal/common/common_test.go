// Copyright 2016 Aleksandr Demakin. All rights reserved.

package common

import (
	"os"
	"syscall"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestEnsureOpenFlags(t *testing.T) {
	a := assert.New(t)
	a.NoError(EnsureOpenFlags(0))
	a.NoError(EnsureOpenFlags(CreateFlags))
	a.Error(EnsureOpenFlags(os.O_CREATE))
	a.Error(EnsureOpenFlags(os.O_RDWR))
	a.True(IsCreateFlag(CreateFlags))
	a.False(IsCreateFlag(0))
}

func TestSyscallErrHasCode(t *testing.T) {
	a := assert.New(t)
	err := errors.Wrap(os.NewSyscallError("test", syscall.Errno(5)), "wrapped")
	a.True(SyscallErrHasCode(err, syscall.Errno(5)))
	a.False(SyscallErrHasCode(err, syscall.Errno(6)))
	a.False(SyscallErrHasCode(errors.New("plain"), syscall.Errno(5)))
}
