// Copyright 2015 Aleksandr Demakin. All rights reserved.

// Package sync implements named interprocess synchronization primitives:
// a mutex and an auto-reset event.
// On linux they are futex words placed into their own shared memory objects,
// on windows they are native kernel objects.
package sync

import (
	"io"
	"sync"
	"time"
)

// IPCLocker is a minimal interface, which must be satisfied by any synchronization primitive
// on any platform.
type IPCLocker interface {
	sync.Locker
	io.Closer
}

// TimedIPCLocker is a locker, whose lock operation can be limited with duration.
type TimedIPCLocker interface {
	IPCLocker
	// LockTimeout tries to lock the locker, waiting for not more, than timeout
	LockTimeout(timeout time.Duration) bool
}

// timeLeft returns the rest of the timeout since start.
// Negative timeout means 'forever', and is returned as is.
func timeLeft(start time.Time, timeout time.Duration) time.Duration {
	if timeout < 0 {
		return timeout
	}
	if left := timeout - time.Since(start); left > 0 {
		return left
	}
	return 0
}
