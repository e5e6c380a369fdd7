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
	cLweReset    = uint32(0)
	cLweSignaled = uint32(1)
	lweStateSize = 4
)

// lwEvent is a lightweight auto-reset event implementation operating on a uint32 memory cell.
// it tries to minimize amount of syscalls.
// actual wait/wake must be implemented by a waitWaker object.
// A signal wakes one waiter and is consumed by it. Signals, which are not
// consumed yet, do not accumulate.
type lwEvent struct {
	state *uint32
	ww    waitWaker
}

func newLightweightEvent(state unsafe.Pointer, ww waitWaker) *lwEvent {
	return &lwEvent{state: (*uint32)(state), ww: ww}
}

func (e *lwEvent) init() {
	atomic.StoreUint32(e.state, cLweReset)
}

func (e *lwEvent) set() error {
	if !atomic.CompareAndSwapUint32(e.state, cLweReset, cLweSignaled) {
		return nil
	}
	_, err := e.ww.wake(1)
	return err
}

func (e *lwEvent) wait() {
	if err := e.doWait(-1); err != nil {
		panic(err)
	}
}

func (e *lwEvent) waitTimeout(timeout time.Duration) bool {
	err := e.doWait(timeout)
	if err == nil {
		return true
	}
	if common.IsTimeoutErr(err) {
		return false
	}
	panic(err)
}

func (e *lwEvent) doWait(timeout time.Duration) error {
	start := time.Now()
	for !atomic.CompareAndSwapUint32(e.state, cLweSignaled, cLweReset) {
		if err := e.ww.wait(cLweReset, timeLeft(start, timeout)); err != nil {
			return err
		}
	}
	return nil
}
