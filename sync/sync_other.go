// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build !linux && !windows

package sync

import (
	"os"
	"runtime"
	"time"

	"github.com/nxgtw/shmregion/security"

	"github.com/pkg/errors"
)

type mutex struct{}

type event struct{}

func errUnsupported(what string) error {
	return errors.Errorf("%s is not supported on %s", what, runtime.GOOS)
}

func newMutex(name string, flag int, perm os.FileMode, sa *security.Attributes) (*mutex, error) {
	return nil, errUnsupported("interprocess mutex")
}

func (m *mutex) Lock() {}

func (m *mutex) LockTimeout(timeout time.Duration) bool { return false }

func (m *mutex) Unlock() {}

func (m *mutex) Close() error { return nil }

func (m *mutex) Destroy() error { return nil }

func destroyMutex(name string) error {
	return errUnsupported("interprocess mutex")
}

func newEvent(name string, flag int, perm os.FileMode, sa *security.Attributes) (*event, error) {
	return nil, errUnsupported("interprocess event")
}

func (e *event) Set() error { return nil }

func (e *event) WaitTimeout(timeout time.Duration) bool { return false }

func (e *event) Close() error { return nil }

func (e *event) Destroy() error { return nil }

func destroyEvent(name string) error {
	return errUnsupported("interprocess event")
}
