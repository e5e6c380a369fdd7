// Copyright 2016 Aleksandr Demakin. All rights reserved.

package sync

import (
	"os"
	"time"

	"github.com/nxgtw/shmregion/internal/common"
	"github.com/nxgtw/shmregion/security"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

const (
	cMUTEX_MODIFY_STATE = 0x0001
	cEVENT_MODIFY_STATE = 0x0002
	cWAIT_TIMEOUT       = 258
)

func securityAttributes(sa *security.Attributes) *windows.SecurityAttributes {
	if sa == nil {
		return nil
	}
	return sa.SecurityAttributes()
}

// checkCreatedHandle emulates O_EXCL for Create* calls, which return a handle of
// an existing object along with ERROR_ALREADY_EXISTS.
func checkCreatedHandle(op, name string, handle windows.Handle, err error) (windows.Handle, error) {
	if handle == 0 {
		return 0, common.NewPathOrSyscallError(op, name, err)
	}
	if err == windows.ERROR_ALREADY_EXISTS {
		windows.CloseHandle(handle)
		return 0, common.NewPathOrSyscallError(op, name, err)
	}
	return handle, nil
}

func openOrCreateMutex(name string, flag int, sa *security.Attributes) (windows.Handle, error) {
	namep, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return 0, errors.Wrap(err, "invalid mutex name")
	}
	if common.IsCreateFlag(flag) {
		handle, err := windows.CreateMutex(securityAttributes(sa), false, namep)
		return checkCreatedHandle("CreateMutex", name, handle, err)
	}
	handle, err := windows.OpenMutex(windows.SYNCHRONIZE|cMUTEX_MODIFY_STATE, false, namep)
	if err != nil {
		return 0, common.NewPathOrSyscallError("OpenMutex", name, err)
	}
	return handle, nil
}

func openOrCreateEvent(name string, flag int, sa *security.Attributes) (windows.Handle, error) {
	namep, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return 0, errors.Wrap(err, "invalid event name")
	}
	if common.IsCreateFlag(flag) {
		// auto-reset, initially non-signaled.
		handle, err := windows.CreateEvent(securityAttributes(sa), 0, 0, namep)
		return checkCreatedHandle("CreateEvent", name, handle, err)
	}
	handle, err := windows.OpenEvent(windows.SYNCHRONIZE|cEVENT_MODIFY_STATE, false, namep)
	if err != nil {
		return 0, common.NewPathOrSyscallError("OpenEvent", name, err)
	}
	return handle, nil
}

// waitObject waits for a handle and returns false on timeout.
// An abandoned mutex is considered to be acquired.
func waitObject(handle windows.Handle, timeout time.Duration) (bool, error) {
	ev, err := windows.WaitForSingleObject(handle, common.WaitMillis(timeout))
	switch ev {
	case windows.WAIT_OBJECT_0, windows.WAIT_ABANDONED:
		return true, nil
	case cWAIT_TIMEOUT:
		return false, nil
	default:
		if err != nil {
			return false, os.NewSyscallError("WaitForSingleObject", err)
		}
		return false, errors.Errorf("invalid wait state for an object: %d", ev)
	}
}

func closeHandle(handle *windows.Handle) error {
	if *handle == windows.InvalidHandle {
		return nil
	}
	err := windows.CloseHandle(*handle)
	*handle = windows.InvalidHandle
	if err != nil {
		return os.NewSyscallError("CloseHandle", err)
	}
	return nil
}
