// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpcore

// An Event identifies the event type when installing or running a
// Handler.
type Event int

const (
	// BeforeExecutionStart identifies the event that occurs before the
	// execution starts.
	//
	// When Client fires BeforeExecutionStart, the request.Context
	// carries the attributes set by Client, such as
	// request.MaxRetries, but no attempt has been made.
	BeforeExecutionStart Event = iota
	// BeforeAttempt identifies the event that occurs before each
	// individual attempt, after the retry and timeout stages have run
	// and before a connection is acquired.
	BeforeAttempt
	// AfterAttempt identifies the event that occurs after an attempt
	// is concluded, regardless of whether it concluded successfully,
	// failed, or was cancelled by a timeout.
	//
	// AfterAttempt fires before the retry stage settles the attempt,
	// so the request.RetriedCount attribute still reflects the
	// previous attempt.
	AfterAttempt
	// AfterExecutionEnd identifies the event that occurs after the
	// execution's result is resolved.
	AfterExecutionEnd
	// eventSentinel provides the total number of events typed as an
	// Event.
	eventSentinel

	// numEvents provides the total number of events types as an int.
	numEvents = int(eventSentinel)
)

var eventNames = []string{
	"BeforeExecutionStart",
	"BeforeAttempt",
	"AfterAttempt",
	"AfterExecutionEnd",
}

// Events returns a slice containing all events which can occur during
// an execution, in the order in which they would first occur.
func Events() []Event {
	return []Event{
		BeforeExecutionStart,
		BeforeAttempt,
		AfterAttempt,
		AfterExecutionEnd,
	}
}

// Name returns the name of the event.
func (evt Event) Name() string {
	return eventNames[int(evt)]
}

// String returns the name of the event.
func (evt Event) String() string {
	return evt.Name()
}
