// Copyright 2016 Aleksandr Demakin. All rights reserved.

// Package security builds access-control attributes, which grant a named principal
// full access to the named objects of a shared region, in addition to their creator.
package security

import (
	"fmt"
)

// Steps of building and applying security attributes.
// They are the names of the system calls, which can fail independently.
const (
	StepLookupAccount            = "LookupAccount"
	StepAllocateSid              = "AllocateAndInitializeSid"
	StepSetEntriesInACL          = "SetEntriesInAcl"
	StepInitializeDescriptor     = "InitializeSecurityDescriptor"
	StepSetSecurityDescriptorACL = "SetSecurityDescriptorDacl"
	StepSetSecurityInfo          = "SetSecurityInfo"
)

// Error describes a failed step of security attributes construction or application.
type Error struct {
	Step string
	User string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("security: %s for %q failed: %v", e.Step, e.User, e.Err)
}

// Unwrap returns the underlying system error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Cause returns the underlying system error.
func (e *Error) Cause() error {
	return e.Err
}

func newError(step, user string, err error) *Error {
	return &Error{Step: step, User: user, Err: err}
}
