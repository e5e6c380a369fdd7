// Copyright 2016 Aleksandr Demakin. All rights reserved.

package shmregion

import (
	"fmt"
	"os"
	"syscall"

	"github.com/nxgtw/shmregion/security"

	"github.com/pkg/errors"
)

// Error kinds. Every error returned by Create, Open and Destroy
// is an *Error, which matches one of them with errors.Is.
var (
	ErrResourceCreation   = errors.New("resource creation failed")
	ErrResourceNotFound   = errors.New("resource not found")
	ErrResourceAccess     = errors.New("resource access failed")
	ErrSecurityDescriptor = errors.New("security descriptor setup failed")
)

// Error describes a failed operation on a named region or one of its objects.
type Error struct {
	// Kind is one of ErrResourceCreation, ErrResourceNotFound,
	// ErrResourceAccess, ErrSecurityDescriptor.
	Kind error
	// Op is the operation: "create", "open" or "destroy".
	Op string
	// Name is the name of the object, which caused the error.
	Name string
	// Err is the underlying error.
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("shmregion: %s %q: %v: %v", e.Op, e.Name, e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Cause returns the underlying error for errors.Cause.
func (e *Error) Cause() error {
	return e.Err
}

// Is reports whether target is the kind of the error.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

// Errno returns the os error code of the failure, or 0 if there is none.
func (e *Error) Errno() syscall.Errno {
	var errno syscall.Errno
	if errors.As(e.Err, &errno) {
		return errno
	}
	return 0
}

func newError(kind error, op, name string, err error) *Error {
	return &Error{Kind: kind, Op: op, Name: name, Err: err}
}

// newCreationError classifies a failure of object creation.
func newCreationError(name string, err error) *Error {
	var secErr *security.Error
	if errors.As(err, &secErr) {
		return newError(ErrSecurityDescriptor, "create", name, err)
	}
	return newError(ErrResourceCreation, "create", name, err)
}

// newOpenError classifies a failure of opening an existing object.
func newOpenError(name string, err error) *Error {
	if errors.Is(err, os.ErrNotExist) {
		return newError(ErrResourceNotFound, "open", name, err)
	}
	return newError(ErrResourceAccess, "open", name, err)
}
