// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package handle

import (
	"errors"
	"math"
	"net/http"
	"sync"

	"github.com/gogama/httpcore/buffer"
)

var (
	// ErrIDInUse is returned by Registry.Put when the next request id is
	// still mapped to an in-flight handle.
	ErrIDInUse = errors.New("httpcore/handle: request id in use")
	// ErrIDsExhausted is returned by Registry.Put when advancing the id
	// counter would overflow int32. Ids are never reused, so a registry
	// returning it cannot register further handles and its connection
	// should be retired.
	ErrIDsExhausted = errors.New("httpcore/handle: request ids exhausted")
)

// A Registry maps the request ids of in-flight requests on one
// connection to their handles, so that events arriving on a shared
// connection reach the right handle.
//
// Ids are generated by adding a fixed step to a counter and are never
// reused; the counter does not wrap around. Every method
// runs inside one critical section for the whole registry; the
// operations are O(1) and far cheaper than the I/O they coordinate.
type Registry struct {
	lock    sync.Mutex
	handles map[int32]Handle
	delta   int32
	id      int32
}

// NewRegistry returns a Registry whose first id is start+delta. Delta
// may be negative but not zero.
//
// Multiplexed connections use NewRegistry(-1, 2) so that ids are the
// odd numbers used as client-initiated stream identifiers.
func NewRegistry(start, delta int32) *Registry {
	if delta == 0 {
		panic("httpcore/handle: zero delta")
	}
	return &Registry{
		handles: make(map[int32]Handle, 16),
		delta:   delta,
		id:      start,
	}
}

// Put advances the id counter and maps the new id to h. It returns
// ErrIDsExhausted, leaving the counter unchanged, if the next id would
// overflow int32. It returns the id together with ErrIDInUse if the id
// is still mapped, in which case the existing mapping is left
// untouched.
func (r *Registry) Put(h Handle) (int32, error) {
	if h == nil {
		panic("httpcore/handle: nil handle")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	next := int64(r.id) + int64(r.delta)
	if next > math.MaxInt32 || next < math.MinInt32 {
		return 0, ErrIDsExhausted
	}
	r.id = int32(next)
	if _, ok := r.handles[r.id]; ok {
		return r.id, ErrIDInUse
	}
	r.handles[r.id] = h
	return r.id, nil
}

// Get returns the handle mapped to id.
func (r *Registry) Get(id int32) (Handle, bool) {
	r.lock.Lock()
	defer r.lock.Unlock()
	h, ok := r.handles[id]
	return h, ok
}

// Remove unmaps id and returns the handle it was mapped to.
func (r *Registry) Remove(id int32) (Handle, bool) {
	r.lock.Lock()
	defer r.lock.Unlock()
	h, ok := r.handles[id]
	if ok {
		delete(r.handles, id)
	}
	return h, ok
}

// Len returns the number of mapped handles.
func (r *Registry) Len() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return len(r.handles)
}

// Start delivers OnStart to the handle mapped to id. It reports whether
// a handle was found.
func (r *Registry) Start(id int32, statusCode int, header http.Header) bool {
	h, ok := r.Get(id)
	if ok {
		h.OnStart(statusCode, header)
	}
	return ok
}

// Data delivers OnData to the handle mapped to id.
func (r *Registry) Data(id int32, fragment *buffer.Buffer) bool {
	h, ok := r.Get(id)
	if ok {
		h.OnData(fragment)
	}
	return ok
}

// Trailer delivers OnTrailer to the handle mapped to id.
func (r *Registry) Trailer(id int32, trailer http.Header) bool {
	h, ok := r.Get(id)
	if ok {
		h.OnTrailer(trailer)
	}
	return ok
}

// End unmaps id and delivers OnEnd to its handle.
func (r *Registry) End(id int32) bool {
	h, ok := r.Remove(id)
	if ok {
		h.OnEnd()
	}
	return ok
}

// Error unmaps id and delivers OnError to its handle.
func (r *Registry) Error(id int32, err error) bool {
	h, ok := r.Remove(id)
	if ok {
		h.OnError(err)
	}
	return ok
}

// Close unmaps every handle and delivers OnError(err) to each. The
// transport calls Close when the connection is torn down.
func (r *Registry) Close(err error) int {
	r.lock.Lock()
	handles := r.handles
	r.handles = make(map[int32]Handle, 16)
	r.lock.Unlock()

	for _, h := range handles {
		h.OnError(err)
	}
	return len(handles)
}
