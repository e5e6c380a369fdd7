// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build !linux && !windows

package security

import (
	"runtime"

	"github.com/pkg/errors"
)

// Attributes are not supported on this platform.
type Attributes struct {
	user string
}

// New always fails on this platform.
func New(user string) (*Attributes, error) {
	return nil, newError(StepLookupAccount, user, errors.Errorf("security attributes are not supported on %s", runtime.GOOS))
}

// User returns the name of the principal.
func (a *Attributes) User() string {
	return a.user
}
