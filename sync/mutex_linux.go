// Copyright 2016 Aleksandr Demakin. All rights reserved.

package sync

import (
	"os"
	"time"

	"github.com/nxgtw/shmregion/internal/allocator"
	"github.com/nxgtw/shmregion/internal/common"
	"github.com/nxgtw/shmregion/internal/helper"
	"github.com/nxgtw/shmregion/mmf"
	"github.com/nxgtw/shmregion/security"
	"github.com/nxgtw/shmregion/shm"

	"github.com/pkg/errors"
)

// mutex is a futex-based mutex, which state lives in a shm object.
type mutex struct {
	lwm    *lwMutex
	region *mmf.MemoryRegion
	name   string
}

func newMutex(name string, flag int, perm os.FileMode, sa *security.Attributes) (*mutex, error) {
	region, err := openStateRegion(name, flag, perm, lwmStateSize, sa)
	if err != nil {
		return nil, err
	}
	data := allocator.ByteSliceData(region.Data())
	result := &mutex{
		region: region,
		name:   name,
		lwm:    newLightweightMutex(data, &futex{ptr: data}),
	}
	if common.IsCreateFlag(flag) {
		result.lwm.init()
	}
	return result, nil
}

func (m *mutex) Lock() {
	m.lwm.lock()
}

func (m *mutex) LockTimeout(timeout time.Duration) bool {
	if timeout == 0 {
		return m.lwm.tryLock()
	}
	return m.lwm.lockTimeout(timeout)
}

func (m *mutex) Unlock() {
	m.lwm.unlock()
}

func (m *mutex) Close() error {
	return m.region.Close()
}

func (m *mutex) Destroy() error {
	if err := m.Close(); err != nil {
		return errors.Wrap(err, "failed to close shm region")
	}
	return destroyMutex(m.name)
}

func destroyMutex(name string) error {
	if err := shm.DestroyMemoryObject(name); err != nil {
		return errors.Wrap(err, "failed to destroy memory object")
	}
	return nil
}

// openStateRegion maps a shm object holding a state of a sync object.
// An existing object must be large enough to hold the state.
func openStateRegion(name string, flag int, perm os.FileMode, size int, sa *security.Attributes) (*mmf.MemoryRegion, error) {
	if common.IsCreateFlag(flag) {
		region, err := helper.CreateWritableRegion(name, flag, perm, size, sa)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create shared state")
		}
		return region, nil
	}
	region, err := helper.CreateWritableRegion(name, flag, perm, 0, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open shared state")
	}
	if region.Size() < size {
		region.Close()
		return nil, errors.Errorf("existing object has invalid size %d", region.Size())
	}
	return region, nil
}
