// Copyright 2016 Aleksandr Demakin. All rights reserved.

package security

import (
	"os"
	"os/user"
	"strconv"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestBuildAccessACL(t *testing.T) {
	a := assert.New(t)
	data, err := buildAccessACL(1234)
	if !a.NoError(err) {
		return
	}
	a.Equal(4+5*8, len(data))
	entries, err := decodeACL(data)
	if !a.NoError(err) {
		return
	}
	expected := []aclEntry{
		{Tag: aclUserObj, Perm: aclPermAll, ID: aclUndefinedID},
		{Tag: aclUser, Perm: aclPermAll, ID: 1234},
		{Tag: aclGroupObj, Perm: aclPermNone, ID: aclUndefinedID},
		{Tag: aclMask, Perm: aclPermAll, ID: aclUndefinedID},
		{Tag: aclOther, Perm: aclPermNone, ID: aclUndefinedID},
	}
	a.Equal(expected, entries)
	_, err = buildAccessACL(aclUndefinedID)
	a.Error(err)
}

func TestEncodeACLSortsEntries(t *testing.T) {
	a := assert.New(t)
	data, err := encodeACL([]aclEntry{
		{Tag: aclOther},
		{Tag: aclUser, ID: 20},
		{Tag: aclUserObj},
		{Tag: aclUser, ID: 10},
	})
	if !a.NoError(err) {
		return
	}
	entries, err := decodeACL(data)
	if !a.NoError(err) {
		return
	}
	a.Equal([]aclEntry{{Tag: aclUserObj}, {Tag: aclUser, ID: 10}, {Tag: aclUser, ID: 20}, {Tag: aclOther}}, entries)
	_, err = decodeACL(data[:5])
	a.Error(err)
}

func TestNewUnknownUser(t *testing.T) {
	a := assert.New(t)
	_, err := New("go-ipc-no-such-user-42")
	var secErr *Error
	if a.True(errors.As(err, &secErr)) {
		a.Equal(StepLookupAccount, secErr.Step)
		a.Equal("go-ipc-no-such-user-42", secErr.User)
		a.Contains(err.Error(), StepLookupAccount)
	}
	_, err = New("")
	a.Error(err)
}

func TestNewAndApply(t *testing.T) {
	a := assert.New(t)
	current, err := user.Current()
	if err != nil {
		t.Skipf("current user is unknown: %v", err)
	}
	if _, err = user.Lookup(current.Username); err != nil {
		t.Skipf("current user cannot be looked up: %v", err)
	}
	attrs, err := New(current.Username)
	if !a.NoError(err) {
		return
	}
	a.Equal(current.Username, attrs.User())
	a.Equal(current.Uid, strconv.FormatUint(uint64(attrs.UID()), 10))

	file, err := os.CreateTemp(dirForACLTest(), "go-ipc.acl")
	require.NoError(t, err)
	defer os.Remove(file.Name())
	defer file.Close()
	err = attrs.Apply(file.Fd())
	if errors.Is(err, unix.EOPNOTSUPP) {
		t.Skip("acls are not supported by the file system")
	}
	if !a.NoError(err) {
		return
	}
	buff := make([]byte, 256)
	n, err := unix.Fgetxattr(int(file.Fd()), aclXattrName, buff)
	if !a.NoError(err) {
		return
	}
	entries, err := decodeACL(buff[:n])
	if a.NoError(err) {
		a.Contains(entries, aclEntry{Tag: aclUser, Perm: aclPermAll, ID: attrs.UID()})
	}
	fi, err := file.Stat()
	if a.NoError(err) {
		a.Equal(os.FileMode(0770), fi.Mode().Perm())
	}
}

func dirForACLTest() string {
	if fi, err := os.Stat("/dev/shm"); err == nil && fi.IsDir() {
		return "/dev/shm"
	}
	return ""
}
