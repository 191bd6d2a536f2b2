// Package listeners implements the two update listeners (spec.md §4.6,
// component F): long-polling and webhook receipt, both producing the
// same asynchronous update stream and sharing the stop-token contract
// from pkg/stoptoken (component I).
package listeners

import (
	"fmt"

	"tgo/pkg/stoptoken"
	"tgo/pkg/types"
)

// Result is one item of a listener's stream: either an Update or a
// ListenerError, matching spec.md §4.6's "lazy, potentially infinite
// stream of Result<Update, ListenerError>". Listener errors don't stop
// the stream; only the stop token does.
type Result struct {
	Update types.Update
	Err    error
}

// ListenerError wraps a failure observed while producing the update
// stream (a failed getUpdates call, a malformed webhook body, ...). It
// never wraps a RetryAfterError — those are absorbed internally by the
// long-poll listener (spec.md §4.6) and never surfaced to callers.
type ListenerError struct {
	Err error
}

func (e *ListenerError) Error() string { return fmt.Sprintf("tgo: listener error: %s", e.Err) }
func (e *ListenerError) Unwrap() error { return e.Err }

// Listener is the common contract both update sources implement (spec.md
// §4.6 "Common contract").
type Listener interface {
	// Updates returns the stream. It is closed once the listener has
	// fully stopped (after stop token signal + any final drain).
	Updates() <-chan Result
	// StopToken returns the handle whose Stop() causes the stream to
	// terminate.
	StopToken() *stoptoken.Token
}
