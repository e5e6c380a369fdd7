// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build !linux && !windows

package shm

import (
	"os"
	"runtime"

	"github.com/nxgtw/shmregion/security"

	"github.com/pkg/errors"
)

type memoryObject struct{}

func newMemoryObject(name string, flag int, perm os.FileMode, size int64, sa *security.Attributes) (*memoryObject, error) {
	return nil, errors.Errorf("shared memory objects are not supported on %s", runtime.GOOS)
}

func (obj *memoryObject) Name() string { return "" }

func (obj *memoryObject) Fd() uintptr { return ^uintptr(0) }

func (obj *memoryObject) Size() int64 { return 0 }

func (obj *memoryObject) Close() error { return nil }

func (obj *memoryObject) Destroy() error { return nil }

func destroyMemoryObject(name string) error {
	return nil
}
