// Copyright 2016 Aleksandr Demakin. All rights reserved.

package shmregion

import (
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type countingLocker struct {
	mut            sync.Mutex
	locks, unlocks int
}

func (l *countingLocker) Lock() {
	l.mut.Lock()
	l.locks++
}

func (l *countingLocker) Unlock() {
	l.unlocks++
	l.mut.Unlock()
}

func TestScopedLockLocksOnce(t *testing.T) {
	a := assert.New(t)
	l := &countingLocker{}
	guard := NewScopedLock(l)
	a.Equal(1, l.locks)
	a.Equal(0, l.unlocks)
	guard.Release()
	guard.Release()
	a.Equal(1, l.unlocks)
}

func TestScopedLockConcurrentRelease(t *testing.T) {
	a := assert.New(t)
	l := &countingLocker{}
	guard := NewScopedLock(l)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			guard.Release()
		}()
	}
	wg.Wait()
	a.Equal(1, l.unlocks)
}

func TestWithLock(t *testing.T) {
	a := assert.New(t)
	l := &countingLocker{}
	a.NoError(WithLock(l, func() error {
		a.Equal(1, l.locks)
		a.Equal(0, l.unlocks)
		return nil
	}))
	a.Equal(1, l.unlocks)
	expected := errors.New("failed")
	a.Equal(expected, WithLock(l, func() error { return expected }))
	a.Equal(2, l.unlocks)
	a.Panics(func() {
		WithLock(l, func() error { panic("oops") })
	})
	a.Equal(3, l.locks)
	a.Equal(3, l.unlocks)
}
