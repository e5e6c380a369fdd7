// Copyright 2015 Aleksandr Demakin. All rights reserved.

package sync

import (
	"os"
	"runtime"
	"time"

	"github.com/nxgtw/shmregion/security"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

// mutex is a named windows mutex. windows mutex must be released
// by the same thread it was locked, so a locked mutex keeps
// the goroutine on its os thread.
type mutex struct {
	handle windows.Handle
}

func newMutex(name string, flag int, perm os.FileMode, sa *security.Attributes) (*mutex, error) {
	handle, err := openOrCreateMutex(name, flag, sa)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open/create mutex")
	}
	return &mutex{handle: handle}, nil
}

func (m *mutex) Lock() {
	if !m.LockTimeout(-1) {
		panic("failed to lock a mutex with infinite timeout")
	}
}

func (m *mutex) LockTimeout(timeout time.Duration) bool {
	runtime.LockOSThread()
	ok, err := waitObject(m.handle, timeout)
	if err != nil {
		runtime.UnlockOSThread()
		panic(err)
	}
	if !ok {
		runtime.UnlockOSThread()
	}
	return ok
}

func (m *mutex) Unlock() {
	if err := windows.ReleaseMutex(m.handle); err != nil {
		panic("failed to unlock mutex: " + err.Error())
	}
	runtime.UnlockOSThread()
}

func (m *mutex) Close() error {
	return closeHandle(&m.handle)
}

// Destroy is the same as Close, as the mutex is destroyed,
// when its last handle is closed.
func (m *mutex) Destroy() error {
	return m.Close()
}

func destroyMutex(name string) error {
	return nil
}
