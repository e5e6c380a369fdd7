// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build linux

package common

import (
	"os"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

func TestTimeoutToTimeSpec(t *testing.T) {
	a := assert.New(t)
	a.Nil(TimeoutToTimeSpec(-1))
	ts := TimeoutToTimeSpec(time.Second + time.Millisecond)
	if a.NotNil(ts) {
		a.Equal(int64(1), int64(ts.Sec))
		a.Equal(int64(time.Millisecond), int64(ts.Nsec))
	}
	ts = TimeoutToTimeSpec(0)
	if a.NotNil(ts) {
		a.Equal(int64(0), ts.Nano())
	}
}

func TestSyscallErrClassification(t *testing.T) {
	a := assert.New(t)
	a.True(IsTimeoutErr(errors.Wrap(os.NewSyscallError("FUTEX", unix.ETIMEDOUT), "wait")))
	a.False(IsTimeoutErr(os.NewSyscallError("FUTEX", unix.EAGAIN)))
	a.True(IsInterruptedSyscallErr(os.NewSyscallError("FUTEX", unix.EINTR)))
	a.False(IsInterruptedSyscallErr(nil))
}
