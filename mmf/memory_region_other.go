// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build !linux && !windows

package mmf

import (
	"os"
	"runtime"

	"github.com/pkg/errors"
)

func init() {
	mmapOffsetMultiple = int64(os.Getpagesize())
}

type memoryRegion struct{}

func newMemoryRegion(obj Mappable, mode int, offset int64, size int) (*memoryRegion, error) {
	return nil, errors.Errorf("memory regions are not supported on %s", runtime.GOOS)
}

func (region *memoryRegion) Close() error { return nil }

func (region *memoryRegion) Data() []byte { return nil }

func (region *memoryRegion) Flush(async bool) error { return nil }

func (region *memoryRegion) Size() int { return 0 }
