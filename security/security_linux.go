// Copyright 2016 Aleksandr Demakin. All rights reserved.

package security

import (
	"os/user"
	"strconv"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

const (
	aclXattrName = "system.posix_acl_access"
)

// Attributes holds a POSIX access ACL, which grants full access
// to the object owner and to the named user. Group and others get nothing.
// There is no default ACL, so nothing is inherited.
type Attributes struct {
	user string
	uid  uint32
	acl  []byte
}

// New looks up the given user and builds the access ACL for it.
func New(userName string) (*Attributes, error) {
	if len(userName) == 0 {
		return nil, newError(StepLookupAccount, userName, errors.New("empty user name"))
	}
	u, err := user.Lookup(userName)
	if err != nil {
		return nil, newError(StepLookupAccount, userName, err)
	}
	uid, err := strconv.ParseUint(u.Uid, 10, 32)
	if err != nil {
		return nil, newError(StepLookupAccount, userName, errors.Wrapf(err, "invalid uid %q", u.Uid))
	}
	acl, err := buildAccessACL(uint32(uid))
	if err != nil {
		return nil, newError(StepSetEntriesInACL, userName, err)
	}
	return &Attributes{user: userName, uid: uint32(uid), acl: acl}, nil
}

// User returns the name of the principal.
func (a *Attributes) User() string {
	return a.user
}

// UID returns the user id of the principal.
func (a *Attributes) UID() uint32 {
	return a.uid
}

// Apply writes the ACL to the object opened as fd.
func (a *Attributes) Apply(fd uintptr) error {
	if err := unix.Fsetxattr(int(fd), aclXattrName, a.acl, 0); err != nil {
		return newError(StepSetSecurityInfo, a.user, err)
	}
	return nil
}
