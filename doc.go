// Copyright 2016 Aleksandr Demakin. All rights reserved.

// Package shmregion provides a typed array in named shared memory,
// which can be used by several processes.
// A region may be accompanied by named synchronization objects:
//	SyncNone - nothing.
//	SyncRequest - a mutex and a request event.
//	SyncBoth - a mutex, a request event and a response event.
// Their names are derived from the region name with "_mutex",
// "_req_event" and "_resp_event" suffixes.
//
// A typical requester:
//	region, err := shmregion.Create[int32]("calc", 1, shmregion.SyncBoth, nil)
//	if err != nil {
//		return err
//	}
//	defer region.Close()
//	shmregion.WithLock(region, func() error {
//		region.Set(42)
//		return nil
//	})
//	region.SignalRequest()
//	region.WaitResponse()
// and a responder:
//	region, err := shmregion.Open[int32]("calc", shmregion.SyncBoth, nil)
//	...
//	region.WaitRequest()
//	guard := shmregion.NewScopedLock(region)
//	*region.Get()++
//	guard.Release()
//	region.SignalResponse()
//
// Debug traces are written with glog at verbosity 1.
package shmregion
