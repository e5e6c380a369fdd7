// Copyright 2016 Aleksandr Demakin. All rights reserved.

package sync

import (
	"os"
	"time"

	"github.com/nxgtw/shmregion/security"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

// event gives access to a native auto-reset event object.
type event struct {
	handle windows.Handle
}

func newEvent(name string, flag int, perm os.FileMode, sa *security.Attributes) (*event, error) {
	handle, err := openOrCreateEvent(name, flag, sa)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open/create event")
	}
	return &event{handle: handle}, nil
}

func (e *event) Set() error {
	if err := windows.SetEvent(e.handle); err != nil {
		return os.NewSyscallError("SetEvent", err)
	}
	return nil
}

func (e *event) WaitTimeout(timeout time.Duration) bool {
	ok, err := waitObject(e.handle, timeout)
	if err != nil {
		panic(err)
	}
	return ok
}

func (e *event) Close() error {
	return closeHandle(&e.handle)
}

func (e *event) Destroy() error {
	return e.Close()
}

func destroyEvent(name string) error {
	return nil
}
