// Copyright 2016 Aleksandr Demakin. All rights reserved.

package shmregion

import "strconv"

// SyncTier selects which synchronization objects accompany a region.
// Tiers are ordered: each one includes the objects of the previous.
type SyncTier int

const (
	// SyncNone means no synchronization objects.
	SyncNone SyncTier = iota
	// SyncRequest adds a mutex and a request event.
	SyncRequest
	// SyncBoth adds a response event to SyncRequest.
	SyncBoth
)

func (t SyncTier) String() string {
	switch t {
	case SyncNone:
		return "none"
	case SyncRequest:
		return "request"
	case SyncBoth:
		return "both"
	}
	return "SyncTier(" + strconv.Itoa(int(t)) + ")"
}

func (t SyncTier) valid() bool {
	return t >= SyncNone && t <= SyncBoth
}

func (t SyncTier) hasMutex() bool {
	return t >= SyncRequest
}

func (t SyncTier) hasRequestEvent() bool {
	return t >= SyncRequest
}

func (t SyncTier) hasResponseEvent() bool {
	return t >= SyncBoth
}
