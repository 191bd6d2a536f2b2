// Package requests implements the request abstraction (spec.md §4.3 /
// component C): a lazy, typed send-once/send-by-reference wrapper over
// any Requester (the base Bot handle or an adaptor-wrapped one).
package requests

import (
	"context"

	"tgo/pkg/codec"
	"tgo/pkg/payloads"
)

// Requester is the uniform surface every bot handle and adaptor exposes
// (spec.md §4.4 "Glossary: Requester"). Execute sends one payload and
// returns the raw (still-encoded) Bot API response body; Request[P, R]
// (below) is what turns those bytes into a typed R or the §7 error
// taxonomy via codec.Decode.
type Requester interface {
	Execute(ctx context.Context, p payloads.Payload) ([]byte, error)
}

// Request is a description, not an effect (spec.md §3 "Request"):
// building one does nothing until Send or SendRef is called. P is the
// concrete payload type (by convention a pointer, e.g. *payloads.SendMessage)
// and R is the method's Output type.
type Request[P payloads.Payload, R any] struct {
	Bot     Requester
	Payload P
}

// New builds a Request pairing a requester with a payload. It is a
// description only — sending is explicit via Send/SendRef.
func New[P payloads.Payload, R any](bot Requester, payload P) Request[P, R] {
	return Request[P, R]{Bot: bot, Payload: payload}
}

// Send consumes the request and issues it (spec.md §4.3 "consume-and-send").
func (r Request[P, R]) Send(ctx context.Context) (R, error) {
	return execute[R](ctx, r.Bot, r.Payload)
}

// SendRef issues the request without consuming it, so the caller can
// re-issue the same Request value again (spec.md §4.3
// "borrow-and-send-independently"). Both operations yield identical
// results; SendRef exists because many callers hold onto a request to
// resend it.
func (r *Request[P, R]) SendRef(ctx context.Context) (R, error) {
	return execute[R](ctx, r.Bot, r.Payload)
}

func execute[R any](ctx context.Context, bot Requester, p payloads.Payload) (R, error) {
	var zero R

	raw, err := bot.Execute(ctx, p)
	if err != nil {
		return zero, err
	}
	return codec.Decode[R](raw)
}
