// Copyright 2016 Aleksandr Demakin. All rights reserved.

package shmregion

import (
	"sync"
	"sync/atomic"
)

// ScopedLock holds a locked sync.Locker until Release.
// Typical usage:
//	guard := shmregion.NewScopedLock(region)
//	defer guard.Release()
// Release unlocks the locker only once, so an explicit early Release
// and the deferred one may be combined.
// On windows a region's mutex is owned by a thread, so a guard
// must be released by the goroutine, which created it.
type ScopedLock struct {
	locker   sync.Locker
	released atomic.Bool
}

// NewScopedLock locks l and returns a guard for it.
func NewScopedLock(l sync.Locker) *ScopedLock {
	l.Lock()
	return &ScopedLock{locker: l}
}

// Release unlocks the locker. Subsequent calls do nothing.
func (s *ScopedLock) Release() {
	if s.released.CompareAndSwap(false, true) {
		s.locker.Unlock()
	}
}

// WithLock calls fn with l locked. l is unlocked when fn returns or panics.
func WithLock(l sync.Locker, fn func() error) error {
	guard := NewScopedLock(l)
	defer guard.Release()
	return fn()
}
