// Copyright 2016 Aleksandr Demakin. All rights reserved.

package shmregion

import (
	"io"
	"math"
	"os"
	"reflect"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/nxgtw/shmregion/internal/allocator"
	"github.com/nxgtw/shmregion/internal/common"
	"github.com/nxgtw/shmregion/mmf"
	"github.com/nxgtw/shmregion/security"
	"github.com/nxgtw/shmregion/shm"
	"github.com/nxgtw/shmregion/sync"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

const (
	defaultPerm = 0666

	mutexSuffix         = "_mutex"
	requestEventSuffix  = "_req_event"
	responseEventSuffix = "_resp_event"
)

// CreateOptions are optional parameters of Create.
type CreateOptions struct {
	// Owner is an account, which is granted full access to every object
	// of the region along with the creator. Empty means default security.
	Owner string
	// Perm are permission bits of the objects. 0 means 0666. Ignored on windows.
	Perm os.FileMode
}

// OpenOptions are optional parameters of Open.
type OpenOptions struct {
	// Count is the expected number of elements. 0 means, that the count is
	// calculated from the size of the memory object. On windows this size is
	// rounded up to the page size.
	Count int
}

// Region is an array of count elements of type T placed into a named
// shared memory object, optionally accompanied by a mutex and events.
// T must be plain data: numbers, bools, arrays and structs of them.
// A Region is closed with Close. A region, which was created, also removes
// its names on Close, so that the name can be used again.
type Region[T any] struct {
	name    string
	tier    SyncTier
	created bool
	closed  atomic.Bool

	object *shm.MemoryObject
	view   *mmf.MemoryRegion
	data   []T

	mutex    *sync.Mutex
	request  *sync.Event
	response *sync.Event
}

// Create creates a new region with count zeroed elements, and synchronization objects
// for the tier. It fails, if an object with any of the names already exists.
// opts may be nil.
func Create[T any](name string, count int, tier SyncTier, opts *CreateOptions) (region *Region[T], resultErr error) {
	if !tier.valid() {
		return nil, newError(ErrResourceCreation, "create", name, errors.Errorf("invalid sync tier %d", int(tier)))
	}
	if count <= 0 {
		return nil, newError(ErrResourceCreation, "create", name, errors.Errorf("invalid element count %d", count))
	}
	elemSize, err := elementSize[T]()
	if err != nil {
		return nil, newError(ErrResourceCreation, "create", name, err)
	}
	if count > math.MaxInt/elemSize {
		return nil, newError(ErrResourceCreation, "create", name,
			errors.Errorf("%d elements of %d bytes exceed the address space", count, elemSize))
	}
	if opts == nil {
		opts = &CreateOptions{}
	}
	perm := opts.Perm
	if perm == 0 {
		perm = defaultPerm
	}
	var sa *security.Attributes
	if len(opts.Owner) > 0 {
		if sa, err = security.New(opts.Owner); err != nil {
			return nil, newError(ErrSecurityDescriptor, "create", name, err)
		}
	}
	result := &Region[T]{name: name, tier: tier, created: true}
	defer func() {
		if resultErr != nil {
			result.release()
			if glog.V(1) {
				glog.Infof("shmregion: failed to create %q: %v", name, resultErr)
			}
		}
	}()
	size := int64(count) * int64(elemSize)
	if result.object, err = shm.NewMemoryObject(name, common.CreateFlags, perm, size, sa); err != nil {
		return nil, newCreationError(name, err)
	}
	if result.view, err = mmf.NewMemoryRegion(result.object, mmf.MEM_READWRITE, 0, int(size)); err != nil {
		return nil, newCreationError(name, err)
	}
	allocator.Zero(result.view.Data())
	result.data = typedSlice[T](result.view, count)
	if tier.hasMutex() {
		if result.mutex, err = sync.NewMutex(name+mutexSuffix, common.CreateFlags, perm, sa); err != nil {
			return nil, newCreationError(name+mutexSuffix, err)
		}
	}
	if tier.hasRequestEvent() {
		if result.request, err = sync.NewEvent(name+requestEventSuffix, common.CreateFlags, perm, sa); err != nil {
			return nil, newCreationError(name+requestEventSuffix, err)
		}
	}
	if tier.hasResponseEvent() {
		if result.response, err = sync.NewEvent(name+responseEventSuffix, common.CreateFlags, perm, sa); err != nil {
			return nil, newCreationError(name+responseEventSuffix, err)
		}
	}
	if glog.V(1) {
		glog.Infof("shmregion: created %q: %d elements of %d bytes, sync tier %s", name, count, elemSize, tier)
	}
	return result, nil
}

// Open opens an existing region and synchronization objects for the tier.
// It fails with ErrResourceNotFound, if the region, or any of the objects
// required by the tier, does not exist. opts may be nil.
func Open[T any](name string, tier SyncTier, opts *OpenOptions) (region *Region[T], resultErr error) {
	if !tier.valid() {
		return nil, newError(ErrResourceNotFound, "open", name, errors.Errorf("invalid sync tier %d", int(tier)))
	}
	elemSize, err := elementSize[T]()
	if err != nil {
		return nil, newError(ErrResourceAccess, "open", name, err)
	}
	if opts == nil {
		opts = &OpenOptions{}
	}
	result := &Region[T]{name: name, tier: tier}
	defer func() {
		if resultErr != nil {
			result.release()
			if glog.V(1) {
				glog.Infof("shmregion: failed to open %q: %v", name, resultErr)
			}
		}
	}()
	if result.object, err = shm.NewMemoryObject(name, 0, 0, 0, nil); err != nil {
		return nil, newOpenError(name, err)
	}
	if result.view, err = mmf.NewMemoryRegion(result.object, mmf.MEM_READWRITE, 0, 0); err != nil {
		return nil, newOpenError(name, err)
	}
	count := result.view.Size() / elemSize
	if opts.Count > 0 {
		if opts.Count > count {
			return nil, newError(ErrResourceAccess, "open", name,
				errors.Errorf("object of %d bytes cannot hold %d elements of %d bytes", result.view.Size(), opts.Count, elemSize))
		}
		count = opts.Count
	}
	if count == 0 {
		return nil, newError(ErrResourceAccess, "open", name,
			errors.Errorf("object of %d bytes is too small for an element of %d bytes", result.view.Size(), elemSize))
	}
	result.data = typedSlice[T](result.view, count)
	if tier.hasMutex() {
		if result.mutex, err = sync.NewMutex(name+mutexSuffix, 0, 0, nil); err != nil {
			return nil, newOpenError(name+mutexSuffix, err)
		}
	}
	if tier.hasRequestEvent() {
		if result.request, err = sync.NewEvent(name+requestEventSuffix, 0, 0, nil); err != nil {
			return nil, newOpenError(name+requestEventSuffix, err)
		}
	}
	if tier.hasResponseEvent() {
		if result.response, err = sync.NewEvent(name+responseEventSuffix, 0, 0, nil); err != nil {
			return nil, newOpenError(name+responseEventSuffix, err)
		}
	}
	if glog.V(1) {
		glog.Infof("shmregion: opened %q: %d elements of %d bytes, sync tier %s", name, count, elemSize, tier)
	}
	return result, nil
}

// Destroy removes the names of a region and all its synchronization objects,
// which could be left by a creator, that did not close the region.
// It is not an error, if they do not exist. On windows it does nothing,
// as the objects disappear with their last handle.
func Destroy(name string) error {
	if err := shm.DestroyMemoryObject(name); err != nil {
		return newError(ErrResourceAccess, "destroy", name, err)
	}
	if err := sync.DestroyMutex(name + mutexSuffix); err != nil {
		return newError(ErrResourceAccess, "destroy", name+mutexSuffix, err)
	}
	for _, suffix := range []string{requestEventSuffix, responseEventSuffix} {
		if err := sync.DestroyEvent(name + suffix); err != nil {
			return newError(ErrResourceAccess, "destroy", name+suffix, err)
		}
	}
	return nil
}

// At returns a pointer to the i-th element. It panics, if i is out of range.
func (r *Region[T]) At(i int) *T {
	return &r.data[i]
}

// Get returns a pointer to the first element.
func (r *Region[T]) Get() *T {
	return &r.data[0]
}

// Set assigns v to the first element.
func (r *Region[T]) Set(v T) {
	r.data[0] = v
}

// Slice returns all elements of the region.
// The slice must not be used after the region is closed.
func (r *Region[T]) Slice() []T {
	return r.data
}

// Len returns the number of elements.
func (r *Region[T]) Len() int {
	return len(r.data)
}

// Name returns the name of the region.
func (r *Region[T]) Name() string {
	return r.name
}

// Tier returns the sync tier of the region.
func (r *Region[T]) Tier() SyncTier {
	return r.tier
}

// Created returns true, if the region was created by Create, and false, if it was opened.
func (r *Region[T]) Created() bool {
	return r.created
}

// Lock locks the region's mutex. It does nothing for SyncNone.
func (r *Region[T]) Lock() {
	if r.mutex != nil {
		r.mutex.Lock()
	}
}

// LockTimeout tries to lock the region's mutex, waiting for not more, than timeout.
// It always succeeds for SyncNone.
func (r *Region[T]) LockTimeout(timeout time.Duration) bool {
	if r.mutex == nil {
		return true
	}
	return r.mutex.LockTimeout(timeout)
}

// Unlock unlocks the region's mutex. It does nothing for SyncNone.
// It panics, if the mutex is not locked.
func (r *Region[T]) Unlock() {
	if r.mutex != nil {
		r.mutex.Unlock()
	}
}

// SignalRequest sets the request event. Without the event it does nothing.
func (r *Region[T]) SignalRequest() {
	r.signal(r.request, "request")
}

// SignalResponse sets the response event. Without the event it does nothing.
func (r *Region[T]) SignalResponse() {
	r.signal(r.response, "response")
}

// WaitRequest waits for the request event. Without the event it returns immediately.
func (r *Region[T]) WaitRequest() {
	r.wait(r.request, "request", -1)
}

// WaitResponse waits for the response event. Without the event it returns immediately.
func (r *Region[T]) WaitResponse() {
	r.wait(r.response, "response", -1)
}

// WaitRequestTimeout waits for the request event for not more, than timeout.
// It returns false on timeout, or if there is no request event.
func (r *Region[T]) WaitRequestTimeout(timeout time.Duration) bool {
	return r.wait(r.request, "request", timeout)
}

// WaitResponseTimeout waits for the response event for not more, than timeout.
// It returns false on timeout, or if there is no response event.
func (r *Region[T]) WaitResponseTimeout(timeout time.Duration) bool {
	return r.wait(r.response, "response", timeout)
}

// RequestEvent returns the request event, or nil.
func (r *Region[T]) RequestEvent() *sync.Event {
	return r.request
}

// ResponseEvent returns the response event, or nil.
func (r *Region[T]) ResponseEvent() *sync.Event {
	return r.response
}

// Flush synchronously writes the contents of the region to the memory object.
func (r *Region[T]) Flush() error {
	if r.view == nil {
		return nil
	}
	return errors.Wrap(r.view.Flush(false), "failed to flush the region")
}

// Close releases all the objects of the region. The creator also removes their names.
// Elements of the region must not be accessed after Close.
// Subsequent calls do nothing.
func (r *Region[T]) Close() error {
	if !r.closed.CompareAndSwap(false, true) {
		return nil
	}
	return r.release()
}

func (r *Region[T]) signal(ev *sync.Event, which string) {
	if ev == nil {
		if glog.V(1) {
			glog.Infof("shmregion: %q has no %s event for sync tier %s", r.name, which, r.tier)
		}
		return
	}
	if err := ev.Set(); err != nil {
		glog.Warningf("shmregion: failed to signal %s event of %q: %v", which, r.name, err)
	}
}

func (r *Region[T]) wait(ev *sync.Event, which string, timeout time.Duration) bool {
	if ev == nil {
		if glog.V(1) {
			glog.Infof("shmregion: %q has no %s event for sync tier %s", r.name, which, r.tier)
		}
		return false
	}
	if timeout < 0 {
		ev.Wait()
		return true
	}
	return ev.WaitTimeout(timeout)
}

// destroyer is an object, which can either be closed, or closed and removed.
type destroyer interface {
	io.Closer
	Destroy() error
}

// release frees resources in the reverse order of their acquisition.
// It returns the first error.
func (r *Region[T]) release() error {
	var result error
	keep := func(err error) {
		if result == nil && err != nil {
			result = err
		}
	}
	free := func(obj destroyer) {
		if r.created {
			keep(obj.Destroy())
		} else {
			keep(obj.Close())
		}
	}
	if r.response != nil {
		free(r.response)
		r.response = nil
	}
	if r.request != nil {
		free(r.request)
		r.request = nil
	}
	if r.mutex != nil {
		free(r.mutex)
		r.mutex = nil
	}
	r.data = nil
	if r.view != nil {
		keep(r.view.Close())
		r.view = nil
	}
	if r.object != nil {
		free(r.object)
		r.object = nil
	}
	if result != nil {
		return errors.Wrapf(result, "failed to release %q", r.name)
	}
	if glog.V(1) {
		glog.Infof("shmregion: released %q, created=%v", r.name, r.created)
	}
	return nil
}

func elementSize[T any]() (int, error) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if err := allocator.CheckPlainType(t); err != nil {
		return 0, err
	}
	return int(t.Size()), nil
}

func typedSlice[T any](view *mmf.MemoryRegion, count int) []T {
	return unsafe.Slice((*T)(allocator.ByteSliceData(view.Data())), count)
}
