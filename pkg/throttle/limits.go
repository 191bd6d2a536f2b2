// Package throttle implements the throttler engine (spec.md §4.5,
// component E): a single-worker actor admitting outbound requests
// against Telegram's three observed rate-limit dimensions, absorbing
// server-signalled back-offs transparently.
package throttle

// Limits is the 4-tuple from spec.md §4.5: an overall messages/second
// budget, a per-chat messages/second budget, a per-group-or-channel
// messages/minute budget, and a burst allowance. Burst is accepted for
// forward compatibility with the source format but unused by the
// admission walk below (spec.md documents it as a small allowance on
// top of the per-second budgets; the default of 0 means "none").
type Limits struct {
	MessagesPerSecOverall  int
	MessagesPerSecPerChat  int
	MessagesPerMinPerGroup int
	Burst                  int
}

// DefaultLimits returns the documented defaults: 30 messages/sec
// overall, 1 message/sec per chat, 20 messages/min per group or
// channel, no burst allowance (spec.md §4.5).
func DefaultLimits() Limits {
	return Limits{
		MessagesPerSecOverall:  30,
		MessagesPerSecPerChat:  1,
		MessagesPerMinPerGroup: 20,
		Burst:                  0,
	}
}
