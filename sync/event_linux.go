// Copyright 2016 Aleksandr Demakin. All rights reserved.

package sync

import (
	"os"
	"time"

	"github.com/nxgtw/shmregion/internal/allocator"
	"github.com/nxgtw/shmregion/internal/common"
	"github.com/nxgtw/shmregion/mmf"
	"github.com/nxgtw/shmregion/security"
	"github.com/nxgtw/shmregion/shm"

	"github.com/pkg/errors"
)

// event is a futex-based event, which state lives in a shm object.
type event struct {
	lwe    *lwEvent
	region *mmf.MemoryRegion
	name   string
}

func newEvent(name string, flag int, perm os.FileMode, sa *security.Attributes) (*event, error) {
	region, err := openStateRegion(name, flag, perm, lweStateSize, sa)
	if err != nil {
		return nil, err
	}
	data := allocator.ByteSliceData(region.Data())
	result := &event{
		region: region,
		name:   name,
		lwe:    newLightweightEvent(data, &futex{ptr: data}),
	}
	if common.IsCreateFlag(flag) {
		result.lwe.init()
	}
	return result, nil
}

func (e *event) Set() error {
	if err := e.lwe.set(); err != nil {
		return errors.Wrap(err, "failed to wake event waiters")
	}
	return nil
}

func (e *event) WaitTimeout(timeout time.Duration) bool {
	if timeout < 0 {
		e.lwe.wait()
		return true
	}
	return e.lwe.waitTimeout(timeout)
}

func (e *event) Close() error {
	return e.region.Close()
}

func (e *event) Destroy() error {
	if err := e.Close(); err != nil {
		return errors.Wrap(err, "failed to close shm region")
	}
	return destroyEvent(e.name)
}

func destroyEvent(name string) error {
	if err := shm.DestroyMemoryObject(name); err != nil {
		return errors.Wrap(err, "failed to destroy memory object")
	}
	return nil
}
