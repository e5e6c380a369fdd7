// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build linux

package sync

import (
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/nxgtw/shmregion/internal/common"
)

const (
	cLwmSpinCount         = 100
	cLwmUnlocked          = uint32(0)
	cLwmLockedNoWaiters   = uint32(1)
	cLwmLockedHaveWaiters = uint32(2)
	lwmStateSize          = 4
)

// waitWaker is an object, which implements wake/wait semantics.
type waitWaker interface {
	wake(count uint32) (int, error)
	// wait blocks while the value at the address equals to value.
	// it may return nil spuriously, so callers must recheck their condition.
	wait(value uint32, timeout time.Duration) error
}

// lwMutex is a lightweight mutex implementation operating on a uint32 memory cell.
// it tries to minimize amount of syscalls needed to do locking.
// actual sleeping must be implemented by a waitWaker object.
// This implementation is based on a paper 'Futexes Are Tricky' by Ulrich Drepper.
type lwMutex struct {
	ptr *uint32
	ww  waitWaker
}

func newLightweightMutex(ptr unsafe.Pointer, ww waitWaker) *lwMutex {
	return &lwMutex{ptr: (*uint32)(ptr), ww: ww}
}

// init writes initial value into mutex's memory location.
func (lwm *lwMutex) init() {
	atomic.StoreUint32(lwm.ptr, cLwmUnlocked)
}

func (lwm *lwMutex) lock() {
	if err := lwm.doLock(-1); err != nil {
		panic(err)
	}
}

func (lwm *lwMutex) tryLock() bool {
	return atomic.CompareAndSwapUint32(lwm.ptr, cLwmUnlocked, cLwmLockedNoWaiters)
}

func (lwm *lwMutex) lockTimeout(timeout time.Duration) bool {
	err := lwm.doLock(timeout)
	if err == nil {
		return true
	}
	if common.IsTimeoutErr(err) {
		return false
	}
	panic(err)
}

func (lwm *lwMutex) doLock(timeout time.Duration) error {
	for i := 0; i < cLwmSpinCount; i++ {
		if lwm.tryLock() {
			return nil
		}
	}
	start := time.Now()
	for atomic.SwapUint32(lwm.ptr, cLwmLockedHaveWaiters) != cLwmUnlocked {
		if err := lwm.ww.wait(cLwmLockedHaveWaiters, timeLeft(start, timeout)); err != nil {
			return err
		}
	}
	return nil
}

func (lwm *lwMutex) unlock() {
	switch atomic.SwapUint32(lwm.ptr, cLwmUnlocked) {
	case cLwmUnlocked:
		panic("unlock of unlocked mutex")
	case cLwmLockedHaveWaiters:
		if _, err := lwm.ww.wake(1); err != nil {
			panic(err)
		}
	}
}
