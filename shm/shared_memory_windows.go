// Copyright 2016 Aleksandr Demakin. All rights reserved.

package shm

import (
	"os"

	"github.com/nxgtw/shmregion/internal/common"
	"github.com/nxgtw/shmregion/internal/sys/windows"
	"github.com/nxgtw/shmregion/security"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

// memoryObject is a standart windows shm implementation backed by a paging file.
// It is destroyed only when all its handles and views are closed.
type memoryObject struct {
	name   string
	size   int64
	handle windows.Handle
}

func newMemoryObject(name string, flag int, perm os.FileMode, size int64, sa *security.Attributes) (*memoryObject, error) {
	if len(name) == 0 {
		return nil, errors.New("invalid shm name")
	}
	var handle windows.Handle
	var err error
	if common.IsCreateFlag(flag) {
		var attrs *windows.SecurityAttributes
		if sa != nil {
			attrs = sa.SecurityAttributes()
		}
		handle, err = sys.CreateFileMapping(
			windows.InvalidHandle,
			attrs,
			windows.PAGE_READWRITE,
			uint32(size>>32),
			uint32(size&0xFFFFFFFF),
			name)
	} else {
		size = 0
		handle, err = sys.OpenFileMapping(sys.FILE_MAP_ALL_ACCESS, 0, name)
	}
	if err != nil {
		return nil, err
	}
	return &memoryObject{name: name, handle: handle, size: size}, nil
}

func (obj *memoryObject) Name() string {
	return obj.name
}

func (obj *memoryObject) Fd() uintptr {
	return uintptr(obj.handle)
}

func (obj *memoryObject) Size() int64 {
	return obj.size
}

func (obj *memoryObject) Close() error {
	if obj.handle == windows.InvalidHandle {
		return nil
	}
	err := windows.CloseHandle(obj.handle)
	obj.handle = windows.InvalidHandle
	if err != nil {
		return errors.Wrap(err, "close handle failed")
	}
	return nil
}

func (obj *memoryObject) Destroy() error {
	return obj.Close()
}

func destroyMemoryObject(name string) error {
	return nil
}
