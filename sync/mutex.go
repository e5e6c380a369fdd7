// Copyright 2015 Aleksandr Demakin. All rights reserved.

package sync

import (
	"os"
	"time"

	"github.com/nxgtw/shmregion/internal/common"
	"github.com/nxgtw/shmregion/security"
)

var (
	_ TimedIPCLocker = (*Mutex)(nil)
)

// Mutex is a named interprocess mutex.
// On linux it is a futex-based mutex in a shared memory object with the same name.
// On windows it is a named kernel mutex. As it is owned by a thread,
// Lock pins the calling goroutine to its current thread until Unlock.
type Mutex struct {
	*mutex
}

// NewMutex creates a new interprocess mutex, or opens an existing one.
//	name - object name.
//	flag - 0 to open an existing mutex, or os.O_CREATE|os.O_EXCL to create a new one.
//	perm - object's permission bits. ignored on windows.
//	sa - security attributes of a new object. may be nil.
// A new mutex is unlocked.
func NewMutex(name string, flag int, perm os.FileMode, sa *security.Attributes) (*Mutex, error) {
	if err := common.EnsureOpenFlags(flag); err != nil {
		return nil, err
	}
	impl, err := newMutex(name, flag, perm, sa)
	if err != nil {
		return nil, err
	}
	return &Mutex{impl}, nil
}

// Lock locks the mutex. It panics on an error.
func (m *Mutex) Lock() {
	m.mutex.Lock()
}

// TryLock makes one attempt to lock the mutex. It return true on succeess and false otherwise.
func (m *Mutex) TryLock() bool {
	return m.mutex.LockTimeout(0)
}

// LockTimeout tries to lock the locker, waiting for not more, than timeout.
// Negative timeout means 'forever'.
func (m *Mutex) LockTimeout(timeout time.Duration) bool {
	return m.mutex.LockTimeout(timeout)
}

// Unlock releases the mutex. It panics on an error, or if the mutex is not locked.
func (m *Mutex) Unlock() {
	m.mutex.Unlock()
}

// Close indicates, that the object is no longer in use,
// and that the underlying resources can be freed.
func (m *Mutex) Close() error {
	return m.mutex.Close()
}

// Destroy closes the mutex and removes its name.
func (m *Mutex) Destroy() error {
	return m.mutex.Destroy()
}

// DestroyMutex permanently removes mutex with the given name.
// It is not an error, if the mutex does not exist.
func DestroyMutex(name string) error {
	return destroyMutex(name)
}
