package adaptors

import (
	"context"

	"tgo/pkg/payloads"
	"tgo/pkg/requests"
)

// ErasedRequester drops the static type of the underlying adaptor
// stack so callers can hold "some Requester" without naming the full
// CacheMe[DefaultParseMode[Trace[...]]] chain (spec.md §4.4
// "ErasedRequester"). In Go this costs nothing beyond a field: an
// interface value already carries its own erased representation, so
// ErasedRequester is a thin, explicit marker type rather than the
// dynamic-dispatch machinery the same idea requires in languages with
// static generics monomorphized at compile time.
type ErasedRequester struct {
	inner requests.Requester
}

// Erase wraps inner behind the ErasedRequester's stable type.
func Erase(inner requests.Requester) ErasedRequester {
	return ErasedRequester{inner: inner}
}

// Execute implements requests.Requester.
func (e ErasedRequester) Execute(ctx context.Context, p payloads.Payload) ([]byte, error) {
	return e.inner.Execute(ctx, p)
}
