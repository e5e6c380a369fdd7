// Copyright 2016 Aleksandr Demakin. All rights reserved.

package sync

import (
	"os"
	"time"

	"github.com/nxgtw/shmregion/internal/common"
	"github.com/nxgtw/shmregion/security"
)

// Event is a named interprocess auto-reset event.
// Set wakes at most one waiter, and the event returns to the
// non-signaled state, when a waiter is released.
type Event struct {
	*event
}

// NewEvent creates a new event, or opens an existing one.
//	name - object name.
//	flag - 0 to open an existing event, or os.O_CREATE|os.O_EXCL to create a new one.
//	perm - object's permission bits. ignored on windows.
//	sa - security attributes of a new object. may be nil.
// A new event is not signaled.
func NewEvent(name string, flag int, perm os.FileMode, sa *security.Attributes) (*Event, error) {
	if err := common.EnsureOpenFlags(flag); err != nil {
		return nil, err
	}
	impl, err := newEvent(name, flag, perm, sa)
	if err != nil {
		return nil, err
	}
	return &Event{impl}, nil
}

// Set sets the event to the signaled state.
func (e *Event) Set() error {
	return e.event.Set()
}

// Wait waits for the event to be signaled. It panics on an error.
func (e *Event) Wait() {
	e.event.WaitTimeout(-1)
}

// WaitTimeout waits until the event is signaled or the timeout elapses.
// It returns false on timeout. Negative timeout means 'forever'.
func (e *Event) WaitTimeout(timeout time.Duration) bool {
	return e.event.WaitTimeout(timeout)
}

// Close closes the event.
func (e *Event) Close() error {
	return e.event.Close()
}

// Destroy closes the event and removes its name.
func (e *Event) Destroy() error {
	return e.event.Destroy()
}

// DestroyEvent permanently removes event with the given name.
// It is not an error, if the event does not exist.
func DestroyEvent(name string) error {
	return destroyEvent(name)
}
