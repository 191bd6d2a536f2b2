package adaptors

import (
	"context"
	"log/slog"

	"tgo/pkg/payloads"
	"tgo/pkg/requests"
)

// TraceFlags selects what Trace logs for each request (spec.md §4.4
// "Trace adaptor"). Flags compose with bitwise OR.
type TraceFlags uint8

const (
	TraceEmpty TraceFlags = 0

	// TraceRequests logs the method name before each call.
	TraceRequests TraceFlags = 1 << iota
	// TraceRequestsVerbose also logs the payload value.
	TraceRequestsVerbose
	// TraceResponses logs success/failure after each call.
	TraceResponses
	// TraceResponsesVerbose also logs the raw response body.
	TraceResponsesVerbose
)

// TraceEverything logs both requests and responses at a terse level.
const TraceEverything = TraceRequests | TraceResponses

// TraceEverythingVerbose logs both requests and responses verbosely.
const TraceEverythingVerbose = TraceRequestsVerbose | TraceResponsesVerbose | TraceEverything

// Trace logs every request/response pair that passes through it,
// gated by a bitmask of TraceFlags (spec.md §4.4). Logging never
// changes the outcome: Trace forwards the inner Requester's result
// (including its error) unchanged.
type Trace struct {
	inner requests.Requester
	log   *slog.Logger
	flags TraceFlags
}

// NewTrace wraps inner, logging to log according to flags.
func NewTrace(inner requests.Requester, log *slog.Logger, flags TraceFlags) *Trace {
	return &Trace{inner: inner, log: log, flags: flags}
}

// Execute implements requests.Requester. Every call is tagged with a
// generated request id so the before/after log lines for one call stay
// correlated even when several calls to the same method run at once.
func (t *Trace) Execute(ctx context.Context, p payloads.Payload) ([]byte, error) {
	id := generateRequestID()

	if t.flags&TraceRequests != 0 {
		if t.flags&TraceRequestsVerbose != 0 {
			t.log.InfoContext(ctx, "sending request", "request_id", id, "method", p.Method(), "payload", p)
		} else {
			t.log.InfoContext(ctx, "sending request", "request_id", id, "method", p.Method())
		}
	}

	raw, err := t.inner.Execute(ctx, p)

	if t.flags&TraceResponses != 0 {
		if err != nil {
			t.log.InfoContext(ctx, "request failed", "request_id", id, "method", p.Method(), "error", err)
		} else if t.flags&TraceResponsesVerbose != 0 {
			t.log.InfoContext(ctx, "request succeeded", "request_id", id, "method", p.Method(), "response", string(raw))
		} else {
			t.log.InfoContext(ctx, "request succeeded", "request_id", id, "method", p.Method())
		}
	}

	return raw, err
}
