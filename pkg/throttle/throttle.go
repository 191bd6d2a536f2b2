package throttle

import (
	"context"
	"errors"
	"time"

	"tgo/pkg/chatid"
	"tgo/pkg/codec"
	"tgo/pkg/payloads"
	"tgo/pkg/requests"
)

// Throttle is the requests.Requester adaptor wrapping a single shared
// Worker (spec.md §4.5, §9 "Throttle must be the innermost adaptor").
// It must sit directly above the Bot handle (or whatever issues the raw
// HTTP call) so it sees the final, concrete request just before
// transport — any adaptor layered outside Throttle (CacheMe,
// DefaultParseMode, Trace) still passes through its own Execute, and
// Throttle never sees calls an outer adaptor answered from cache.
type Throttle struct {
	inner  requests.Requester
	worker *Worker
}

// NewThrottle builds a Throttle wrapping inner with its own worker
// actor, started with limits.
func NewThrottle(inner requests.Requester, limits Limits) *Throttle {
	return &Throttle{inner: inner, worker: NewWorker(limits)}
}

// Clone returns a new Throttle sharing this one's worker (spec.md §4.5
// "Clone semantics": cheap to clone, clones share one worker), wrapping
// a possibly different inner requester (e.g. after composing further
// adaptors on top of the same underlying bot).
func (t *Throttle) Clone(inner requests.Requester) *Throttle {
	return &Throttle{inner: inner, worker: t.worker}
}

// Reconfigure live-updates the shared worker's Limits.
func (t *Throttle) Reconfigure(l Limits) { t.worker.Reconfigure(l) }

// Stop terminates the worker goroutine shared by every clone of this
// Throttle.
func (t *Throttle) Stop() { t.worker.Stop() }

// Execute implements requests.Requester. Payloads that don't target a
// chat (payloads.ChatTargeted) bypass the throttler entirely — there is
// nothing to admit against. Chat-targeted payloads acquire an admission
// slot before every underlying call; a RetryAfter response freezes that
// chat in the shared worker and retries transparently, so the caller's
// Execute only returns once the call eventually succeeds or fails with
// something other than RetryAfter (spec.md §4.5 "Back-off absorption").
func (t *Throttle) Execute(ctx context.Context, p payloads.Payload) ([]byte, error) {
	targeted, ok := p.(payloads.ChatTargeted)
	if !ok {
		return t.inner.Execute(ctx, p)
	}

	recipient := targeted.TargetChat()
	key := recipient.String()
	private := recipient.Classify() == chatid.KindUser

	for {
		if err := t.worker.Acquire(ctx, key, private); err != nil {
			return nil, err
		}

		raw, err := t.inner.Execute(ctx, p)

		var retryAfter *codec.RetryAfterError
		if errors.As(err, &retryAfter) {
			t.worker.ReportFreeze(key, time.Duration(retryAfter.Seconds)*time.Second)
			continue
		}
		return raw, err
	}
}
