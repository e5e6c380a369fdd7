// Copyright 2016 Aleksandr Demakin. All rights reserved.

package shmregion

import (
	"os"
	"syscall"
	"testing"

	"github.com/nxgtw/shmregion/security"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	a := assert.New(t)
	notExist := errors.Wrap(&os.PathError{Op: "open", Path: "x", Err: syscall.ENOENT}, "failed to open")
	err := newOpenError("x", notExist)
	a.True(errors.Is(err, ErrResourceNotFound))
	a.False(errors.Is(err, ErrResourceAccess))
	a.True(errors.Is(err, os.ErrNotExist))
	a.Equal(syscall.ENOENT, err.Errno())

	err = newOpenError("x", os.NewSyscallError("mmap", syscall.EACCES))
	a.True(errors.Is(err, ErrResourceAccess))
	a.Equal(syscall.EACCES, err.Errno())

	secErr := &security.Error{Step: security.StepSetSecurityInfo, User: "u", Err: syscall.EPERM}
	err = newCreationError("x", errors.Wrap(secErr, "failed to create shm object"))
	a.True(errors.Is(err, ErrSecurityDescriptor))
	a.Equal(syscall.EPERM, err.Errno())

	err = newCreationError("x", errors.New("no space"))
	a.True(errors.Is(err, ErrResourceCreation))
	a.Equal(syscall.Errno(0), err.Errno())
	a.Contains(err.Error(), `create "x"`)
	a.Equal("no space", errors.Cause(err).Error())
}
