package adaptors

import (
	"context"

	"tgo/pkg/payloads"
	"tgo/pkg/requests"
	"tgo/pkg/types"
)

// DefaultParseMode injects a default parse_mode into any outgoing
// payload that has one but hasn't set it (spec.md §4.4). It never
// overrides a mode the caller explicitly chose.
type DefaultParseMode struct {
	inner requests.Requester
	mode  types.ParseMode
}

// NewDefaultParseMode wraps inner, defaulting unset parse_mode fields to mode.
func NewDefaultParseMode(inner requests.Requester, mode types.ParseMode) *DefaultParseMode {
	return &DefaultParseMode{inner: inner, mode: mode}
}

// Execute implements requests.Requester.
func (d *DefaultParseMode) Execute(ctx context.Context, p payloads.Payload) ([]byte, error) {
	if pm, ok := p.(payloads.ParseModeField); ok && !pm.ParseModeIsSet() {
		pm.SetParseMode(string(d.mode))
	}
	return d.inner.Execute(ctx, p)
}
