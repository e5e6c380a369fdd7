// Copyright 2015 Aleksandr Demakin. All rights reserved.

// Package shm implements named shared memory objects.
// On linux an object is a file on a tmpfs mount (usually /dev/shm),
// on windows it is a file mapping object backed by the paging file.
package shm

import (
	"os"
	"runtime"

	"github.com/nxgtw/shmregion/internal/common"
	"github.com/nxgtw/shmregion/security"

	"github.com/pkg/errors"
)

// MemoryObject represents an object which can be used to
// map shared memory regions into the process' address space.
type MemoryObject struct {
	*memoryObject
}

// NewMemoryObject creates a new shared memory object, or opens an existing one.
//	name - a name of the object. should not contain '/' and exceed 255 symbols on linux.
//	flag - 0 to open an existing object, or os.O_CREATE|os.O_EXCL to create a new one.
//	perm - object's permission bits. ignored on windows.
//	size - object size in bytes. it is used only when the object is created.
//	sa - security attributes applied to a new object. may be nil.
// A new object is zero-filled.
func NewMemoryObject(name string, flag int, perm os.FileMode, size int64, sa *security.Attributes) (*MemoryObject, error) {
	if err := common.EnsureOpenFlags(flag); err != nil {
		return nil, err
	}
	if common.IsCreateFlag(flag) && size <= 0 {
		return nil, errors.Errorf("invalid object size %d", size)
	}
	impl, err := newMemoryObject(name, flag, perm, size, sa)
	if err != nil {
		return nil, err
	}
	runtime.SetFinalizer(impl, func(memObject *memoryObject) {
		memObject.Close()
	})
	return &MemoryObject{impl}, nil
}

// Name returns the name of the object as it was given to NewMemoryObject().
func (obj *MemoryObject) Name() string {
	return obj.memoryObject.Name()
}

// Fd returns a descriptor of the object, which can be used for mapping.
func (obj *MemoryObject) Fd() uintptr {
	return obj.memoryObject.Fd()
}

// Size returns the current size of the object.
// On windows, it returns 0 for objects, which were opened, and not created.
func (obj *MemoryObject) Size() int64 {
	return obj.memoryObject.Size()
}

// Close closes the object. Memory regions mapped from it stay valid.
func (obj *MemoryObject) Close() error {
	runtime.SetFinalizer(obj.memoryObject, nil)
	return obj.memoryObject.Close()
}

// Destroy closes the object and removes its name.
// On windows the name disappears along with the last handle to the object,
// so it is the same as Close.
func (obj *MemoryObject) Destroy() error {
	runtime.SetFinalizer(obj.memoryObject, nil)
	return obj.memoryObject.Destroy()
}

// DestroyMemoryObject permanently removes an object with the given name.
// It is not an error, if the object does not exist.
func DestroyMemoryObject(name string) error {
	return destroyMemoryObject(name)
}
