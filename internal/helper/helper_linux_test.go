// Copyright 2016 Aleksandr Demakin. All rights reserved.

package helper

import (
	"os"
	"testing"

	"github.com/nxgtw/shmregion/internal/common"
	"github.com/nxgtw/shmregion/shm"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

const testRegionName = "go-ipc.helper-test.region"

func TestCreateWritableRegion(t *testing.T) {
	a := assert.New(t)
	shm.DestroyMemoryObject(testRegionName)
	defer shm.DestroyMemoryObject(testRegionName)
	region, err := CreateWritableRegion(testRegionName, common.CreateFlags, 0666, 128, nil)
	if !a.NoError(err) {
		return
	}
	defer region.Close()
	a.Equal(128, region.Size())
	region.Data()[0] = 7
	_, err = CreateWritableRegion(testRegionName, common.CreateFlags, 0666, 128, nil)
	a.True(os.IsExist(errors.Cause(err)))
	opened, err := CreateWritableRegion(testRegionName, 0, 0666, 0, nil)
	if !a.NoError(err) {
		return
	}
	defer opened.Close()
	a.Equal(128, opened.Size())
	a.Equal(byte(7), opened.Data()[0])
}

func TestCreateWritableRegionNotExist(t *testing.T) {
	a := assert.New(t)
	shm.DestroyMemoryObject(testRegionName)
	_, err := CreateWritableRegion(testRegionName, 0, 0666, 0, nil)
	a.True(os.IsNotExist(errors.Cause(err)))
}
