// Package adaptors implements the bot adaptor stack (spec.md §4.4 /
// component D): CacheMe, DefaultParseMode, Trace and ErasedRequester.
// Each adaptor wraps an inner requests.Requester and exposes the same
// surface, so adaptors compose by ownership rather than inheritance
// (spec.md §9 "Adaptor stack as ownership composition").
package adaptors

import (
	"context"
	"sync"

	"tgo/pkg/payloads"
	"tgo/pkg/requests"
)

// CacheMe memoizes the result of a "get bot identity" (getMe) call for
// the lifetime of the adaptor instance (spec.md §4.4). Only a successful
// result is cached permanently — a failed call (e.g. a transient network
// error) is retried on the next getMe rather than wedging every future
// call behind that one failure forever.
type CacheMe struct {
	inner requests.Requester

	mu     sync.Mutex
	cached []byte
	have   bool
}

// NewCacheMe wraps inner with a getMe cache.
func NewCacheMe(inner requests.Requester) *CacheMe {
	return &CacheMe{inner: inner}
}

// Execute implements requests.Requester.
func (c *CacheMe) Execute(ctx context.Context, p payloads.Payload) ([]byte, error) {
	if _, ok := p.(*payloads.GetMe); ok {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.have {
			return c.cached, nil
		}
		result, err := c.inner.Execute(ctx, p)
		if err != nil {
			return nil, err
		}
		c.cached, c.have = result, true
		return c.cached, nil
	}
	return c.inner.Execute(ctx, p)
}
