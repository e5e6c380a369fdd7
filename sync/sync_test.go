// Copyright 2015 Aleksandr Demakin. All rights reserved.

//go:build linux || windows

package sync

import (
	"os"
	"sync"
	"testing"
	"time"

	"github.com/nxgtw/shmregion/internal/common"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

const (
	testMutexName = "go-ipc.sync-test.mutex"
	testEventName = "go-ipc.sync-test.event"
)

func TestMutexOpenMode(t *testing.T) {
	a := assert.New(t)
	a.NoError(DestroyMutex(testMutexName))
	_, err := NewMutex(testMutexName, os.O_CREATE, 0666, nil)
	a.Error(err)
	_, err = NewMutex(testMutexName, 0, 0666, nil)
	a.True(os.IsNotExist(errors.Cause(err)))
	m, err := NewMutex(testMutexName, common.CreateFlags, 0666, nil)
	if !a.NoError(err) {
		return
	}
	defer m.Destroy()
	_, err = NewMutex(testMutexName, common.CreateFlags, 0666, nil)
	a.True(os.IsExist(errors.Cause(err)))
	m2, err := NewMutex(testMutexName, 0, 0666, nil)
	if a.NoError(err) {
		a.NoError(m2.Close())
	}
}

func TestMutexLock(t *testing.T) {
	a := assert.New(t)
	DestroyMutex(testMutexName)
	m, err := NewMutex(testMutexName, common.CreateFlags, 0666, nil)
	if !a.NoError(err) {
		return
	}
	defer m.Destroy()
	m.Lock()
	m.Unlock()
	a.True(m.TryLock())
	m.Unlock()
}

func TestMutexValueInc(t *testing.T) {
	const (
		goroutines = 8
		iterations = 1000
	)
	a := assert.New(t)
	DestroyMutex(testMutexName)
	m, err := NewMutex(testMutexName, common.CreateFlags, 0666, nil)
	if !a.NoError(err) {
		return
	}
	defer m.Destroy()
	var value int
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// each goroutine uses its own handle, as different processes do.
			m2, err := NewMutex(testMutexName, 0, 0666, nil)
			if !a.NoError(err) {
				return
			}
			defer m2.Close()
			for j := 0; j < iterations; j++ {
				m2.Lock()
				value++
				m2.Unlock()
			}
		}()
	}
	wg.Wait()
	a.Equal(goroutines*iterations, value)
}

func TestMutexLockTimeout(t *testing.T) {
	a := assert.New(t)
	DestroyMutex(testMutexName)
	m, err := NewMutex(testMutexName, common.CreateFlags, 0666, nil)
	if !a.NoError(err) {
		return
	}
	defer m.Destroy()
	ch := make(chan bool)
	locked := make(chan struct{})
	go func() {
		m.Lock()
		close(locked)
		<-ch
		m.Unlock()
		ch <- true
	}()
	<-locked
	timeout := time.Millisecond * 50
	before := time.Now()
	a.False(m.LockTimeout(timeout))
	a.True(time.Since(before) >= timeout/2)
	a.False(m.TryLock())
	ch <- true
	<-ch
	a.True(m.LockTimeout(timeout))
	m.Unlock()
}

func TestMutexLockTimeout2(t *testing.T) {
	a := assert.New(t)
	DestroyMutex(testMutexName)
	m, err := NewMutex(testMutexName, common.CreateFlags, 0666, nil)
	if !a.NoError(err) {
		return
	}
	defer m.Destroy()
	timeout := time.Millisecond * 50
	locked := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		m.Lock()
		close(locked)
		<-release
		m.Unlock()
		close(done)
	}()
	<-locked
	result := make(chan bool)
	go func() {
		ok := m.LockTimeout(timeout * 4)
		if ok {
			m.Unlock()
		}
		result <- ok
	}()
	<-time.After(timeout)
	close(release)
	<-done
	select {
	case ok := <-result:
		a.True(ok)
	case <-time.After(timeout * 8):
		t.Error("failed to lock timed mutex")
	}
}

func TestEventOpenMode(t *testing.T) {
	a := assert.New(t)
	a.NoError(DestroyEvent(testEventName))
	_, err := NewEvent(testEventName, os.O_CREATE|os.O_TRUNC, 0666, nil)
	a.Error(err)
	_, err = NewEvent(testEventName, 0, 0666, nil)
	a.True(os.IsNotExist(errors.Cause(err)))
	ev, err := NewEvent(testEventName, common.CreateFlags, 0666, nil)
	if !a.NoError(err) {
		return
	}
	defer ev.Destroy()
	_, err = NewEvent(testEventName, common.CreateFlags, 0666, nil)
	a.True(os.IsExist(errors.Cause(err)))
	ev2, err := NewEvent(testEventName, 0, 0666, nil)
	if a.NoError(err) {
		a.NoError(ev2.Close())
	}
}

func TestEventNotSignaled(t *testing.T) {
	a := assert.New(t)
	DestroyEvent(testEventName)
	ev, err := NewEvent(testEventName, common.CreateFlags, 0666, nil)
	if !a.NoError(err) {
		return
	}
	defer ev.Destroy()
	a.False(ev.WaitTimeout(0))
	a.False(ev.WaitTimeout(time.Millisecond * 20))
}

func TestEventAutoReset(t *testing.T) {
	a := assert.New(t)
	DestroyEvent(testEventName)
	ev, err := NewEvent(testEventName, common.CreateFlags, 0666, nil)
	if !a.NoError(err) {
		return
	}
	defer ev.Destroy()
	a.NoError(ev.Set())
	// signals do not accumulate.
	a.NoError(ev.Set())
	a.True(ev.WaitTimeout(0))
	a.False(ev.WaitTimeout(0))
}

func TestEventWakesWaiter(t *testing.T) {
	a := assert.New(t)
	DestroyEvent(testEventName)
	ev, err := NewEvent(testEventName, common.CreateFlags, 0666, nil)
	if !a.NoError(err) {
		return
	}
	defer ev.Destroy()
	ev2, err := NewEvent(testEventName, 0, 0666, nil)
	if !a.NoError(err) {
		return
	}
	defer ev2.Close()
	done := make(chan struct{})
	go func() {
		ev2.Wait()
		close(done)
	}()
	<-time.After(time.Millisecond * 20)
	a.NoError(ev.Set())
	select {
	case <-done:
	case <-time.After(time.Second * 2):
		t.Error("event waiter was not woken")
	}
}

func TestEventPingPong(t *testing.T) {
	const rounds = 100
	a := assert.New(t)
	reqName, respName := testEventName+"_req", testEventName+"_resp"
	DestroyEvent(reqName)
	DestroyEvent(respName)
	req, err := NewEvent(reqName, common.CreateFlags, 0666, nil)
	if !a.NoError(err) {
		return
	}
	defer req.Destroy()
	resp, err := NewEvent(respName, common.CreateFlags, 0666, nil)
	if !a.NoError(err) {
		return
	}
	defer resp.Destroy()
	var counter int
	go func() {
		for i := 0; i < rounds; i++ {
			req.Wait()
			counter++
			resp.Set()
		}
	}()
	for i := 0; i < rounds; i++ {
		a.NoError(req.Set())
		if !a.True(resp.WaitTimeout(time.Second * 2)) {
			return
		}
	}
	a.Equal(rounds, counter)
}
