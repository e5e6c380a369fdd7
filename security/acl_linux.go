// Copyright 2016 Aleksandr Demakin. All rights reserved.

package security

import (
	"bytes"
	"encoding/binary"
	"sort"

	"github.com/pkg/errors"
)

// linux/posix_acl_xattr.h
const (
	aclXattrVersion = 0x0002
	aclUndefinedID  = 0xFFFFFFFF

	aclUserObj  = 0x01
	aclUser     = 0x02
	aclGroupObj = 0x04
	aclGroup    = 0x08
	aclMask     = 0x10
	aclOther    = 0x20

	aclPermRead    = 0x04
	aclPermWrite   = 0x02
	aclPermExecute = 0x01
	aclPermAll     = aclPermRead | aclPermWrite | aclPermExecute
	aclPermNone    = 0
)

type aclEntry struct {
	Tag  uint16
	Perm uint16
	ID   uint32
}

// buildAccessACL returns the xattr representation of the following ACL:
//	user::rwx
//	user:<uid>:rwx
//	group::---
//	mask::rwx
//	other::---
func buildAccessACL(uid uint32) ([]byte, error) {
	if uid == aclUndefinedID {
		return nil, errors.Errorf("invalid uid %d", uid)
	}
	entries := []aclEntry{
		{Tag: aclUserObj, Perm: aclPermAll, ID: aclUndefinedID},
		{Tag: aclUser, Perm: aclPermAll, ID: uid},
		{Tag: aclGroupObj, Perm: aclPermNone, ID: aclUndefinedID},
		{Tag: aclMask, Perm: aclPermAll, ID: aclUndefinedID},
		{Tag: aclOther, Perm: aclPermNone, ID: aclUndefinedID},
	}
	return encodeACL(entries)
}

// encodeACL sorts entries the way the kernel expects them and
// encodes them in little-endian xattr format.
func encodeACL(entries []aclEntry) ([]byte, error) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Tag != entries[j].Tag {
			return entries[i].Tag < entries[j].Tag
		}
		return entries[i].ID < entries[j].ID
	})
	buff := bytes.NewBuffer(nil)
	if err := binary.Write(buff, binary.LittleEndian, uint32(aclXattrVersion)); err != nil {
		return nil, errors.Wrap(err, "failed to write acl header")
	}
	if err := binary.Write(buff, binary.LittleEndian, entries); err != nil {
		return nil, errors.Wrap(err, "failed to write acl entries")
	}
	return buff.Bytes(), nil
}

func decodeACL(data []byte) ([]aclEntry, error) {
	const entrySize = 8
	if len(data) < 4 || (len(data)-4)%entrySize != 0 {
		return nil, errors.Errorf("invalid acl size %d", len(data))
	}
	r := bytes.NewReader(data)
	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, errors.Wrap(err, "failed to read acl header")
	}
	if version != aclXattrVersion {
		return nil, errors.Errorf("unsupported acl version %d", version)
	}
	entries := make([]aclEntry, (len(data)-4)/entrySize)
	if err := binary.Read(r, binary.LittleEndian, entries); err != nil {
		return nil, errors.Wrap(err, "failed to read acl entries")
	}
	return entries, nil
}
