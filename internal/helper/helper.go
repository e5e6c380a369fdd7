// Copyright 2016 Aleksandr Demakin. All rights reserved.

// Package helper contains shortcuts shared by the packages of the module.
package helper

import (
	"os"

	"github.com/nxgtw/shmregion/internal/common"
	"github.com/nxgtw/shmregion/mmf"
	"github.com/nxgtw/shmregion/security"
	"github.com/nxgtw/shmregion/shm"

	"github.com/pkg/errors"
)

// CreateWritableRegion is a helper, which:
//	- creates or opens a shared memory object with given parameters.
//	- creates a mapping for the entire object with mmf.MEM_READWRITE flag.
//	- closes memory object and returns memory region.
// If size is 0, and the object is opened, the entire object is mapped.
// If the region cannot be mapped, a newly created object is destroyed.
func CreateWritableRegion(name string, flag int, perm os.FileMode, size int, sa *security.Attributes) (*mmf.MemoryRegion, error) {
	obj, resultErr := shm.NewMemoryObject(name, flag, perm, int64(size), sa)
	if resultErr != nil {
		return nil, errors.Wrap(resultErr, "failed to create shm object")
	}
	created := common.IsCreateFlag(flag)
	var region *mmf.MemoryRegion
	defer func() {
		obj.Close()
		if resultErr == nil {
			return
		}
		if region != nil {
			region.Close()
		}
		if created {
			obj.Destroy()
		}
	}()
	if region, resultErr = mmf.NewMemoryRegion(obj, mmf.MEM_READWRITE, 0, size); resultErr != nil {
		return nil, errors.Wrap(resultErr, "failed to create shm region")
	}
	return region, nil
}
