// Copyright 2016 Aleksandr Demakin. All rights reserved.

package security

import (
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

// Attributes holds security attributes with a discretionary ACL,
// which grants GENERIC_ALL to the creator owner and to the named user.
// Handles are not inherited by child processes.
type Attributes struct {
	user string
	sa   *windows.SecurityAttributes
}

// New builds security attributes for the given user.
func New(user string) (*Attributes, error) {
	if len(user) == 0 {
		return nil, newError(StepLookupAccount, user, errors.New("empty user name"))
	}
	var creatorSID *windows.SID
	if err := windows.AllocateAndInitializeSid(
		&windows.SECURITY_CREATOR_SID_AUTHORITY,
		1,
		windows.SECURITY_CREATOR_OWNER_RID,
		0, 0, 0, 0, 0, 0, 0,
		&creatorSID); err != nil {
		return nil, newError(StepAllocateSid, user, err)
	}
	defer windows.FreeSid(creatorSID)

	entries := []windows.EXPLICIT_ACCESS{
		{
			AccessPermissions: windows.GENERIC_ALL,
			AccessMode:        windows.SET_ACCESS,
			Inheritance:       windows.NO_INHERITANCE,
			Trustee: windows.TRUSTEE{
				TrusteeForm:  windows.TRUSTEE_IS_NAME,
				TrusteeType:  windows.TRUSTEE_IS_USER,
				TrusteeValue: windows.TrusteeValueFromString(user),
			},
		},
		{
			AccessPermissions: windows.GENERIC_ALL,
			AccessMode:        windows.SET_ACCESS,
			Inheritance:       windows.NO_INHERITANCE,
			Trustee: windows.TRUSTEE{
				TrusteeForm:  windows.TRUSTEE_IS_SID,
				TrusteeType:  windows.TRUSTEE_IS_WELL_KNOWN_GROUP,
				TrusteeValue: windows.TrusteeValueFromSID(creatorSID),
			},
		},
	}
	// the acl is copied into go memory, so the sid can be freed after this call.
	acl, err := windows.ACLFromEntries(entries, nil)
	if err != nil {
		return nil, newError(StepSetEntriesInACL, user, err)
	}
	sd, err := windows.NewSecurityDescriptor()
	if err != nil {
		return nil, newError(StepInitializeDescriptor, user, err)
	}
	if err = sd.SetDACL(acl, true, false); err != nil {
		return nil, newError(StepSetSecurityDescriptorACL, user, err)
	}
	sa := &windows.SecurityAttributes{
		SecurityDescriptor: sd,
		InheritHandle:      0,
	}
	sa.Length = uint32(unsafe.Sizeof(*sa))
	return &Attributes{user: user, sa: sa}, nil
}

// User returns the name of the principal.
func (a *Attributes) User() string {
	return a.user
}

// SecurityAttributes returns a value, which can be passed to object creation calls.
func (a *Attributes) SecurityAttributes() *windows.SecurityAttributes {
	return a.sa
}
