package listeners

import (
	"context"
	"errors"
	"time"

	"tgo/pkg/bot"
	"tgo/pkg/codec"
	"tgo/pkg/payloads"
	"tgo/pkg/requests"
	"tgo/pkg/stoptoken"
)

// longPollSafetyMargin mirrors pkg/bot's client-timeout margin: the
// context deadline for each getUpdates call must exceed the server-side
// long-poll timeout (spec.md §4.6, §5 "Timeouts").
const longPollSafetyMargin = 7 * time.Second

// LongPoll is the long-polling update listener (spec.md §4.6). It
// maintains an offset cursor advancing past the highest update_id seen
// (property 8) and derives allowed_updates from whatever the dispatcher
// handed it at construction time.
type LongPoll struct {
	requester      requests.Requester
	timeout        time.Duration
	limit          int
	allowedUpdates []string

	stopTok *stoptoken.Token
	updates chan Result
}

// NewLongPoll builds a long-poll listener against requester (typically a
// *bot.Bot or the outermost adaptor in the stack — Throttle must never
// wrap getUpdates, spec.md §9, so pass the Bot handle or an adaptor
// chain that excludes Throttle). allowedUpdates may be nil, meaning
// "all kinds" (spec.md §4.7 open question, resolved in DESIGN.md).
func NewLongPoll(requester requests.Requester, allowedUpdates []string) *LongPoll {
	const limit = 100
	l := &LongPoll{
		requester:      requester,
		timeout:        bot.DefaultLongPollTimeout,
		limit:          limit,
		allowedUpdates: allowedUpdates,
		stopTok:        stoptoken.New(),
		// Buffered to the batch size: a single getUpdates response can
		// deliver up to limit updates at once, and every one of them must
		// reach this channel before run() re-checks the stop token (see
		// run's drain comment below).
		updates: make(chan Result, limit),
	}
	go l.run()
	return l
}

func (l *LongPoll) Updates() <-chan Result      { return l.updates }
func (l *LongPoll) StopToken() *stoptoken.Token { return l.stopTok }

func (l *LongPoll) run() {
	defer close(l.updates)

	var offset int64
	for {
		select {
		case <-l.stopTok.Done():
			return
		default:
		}

		req := bot.GetUpdates(l.requester, &payloads.GetUpdates{
			Offset:         offset,
			Timeout:        int(l.timeout / time.Second),
			Limit:          l.limit,
			AllowedUpdates: l.allowedUpdates,
		})

		ctx, cancel := l.pollContext()
		updates, err := req.Send(ctx)
		cancel()

		if err != nil {
			var retryAfter *codec.RetryAfterError
			if errors.As(err, &retryAfter) {
				// RetryAfter is absorbed here, never surfaced (spec.md
				// §4.6): getUpdates has no chat to freeze through the
				// throttler, so the listener itself waits it out.
				select {
				case <-time.After(time.Duration(retryAfter.Seconds) * time.Second):
				case <-l.stopTok.Done():
					return
				}
				continue
			}

			// Not a server-fetched batch, just one synthetic result — sent
			// unconditionally so it isn't silently dropped if Stop() is
			// racing this exact moment.
			l.updates <- Result{Err: &ListenerError{Err: err}}

			// Back off briefly before polling again, so a persistent
			// failure doesn't turn this loop into a tight retry spin.
			select {
			case <-time.After(time.Second):
			case <-l.stopTok.Done():
				return
			}
			continue
		}

		// updates was already fetched from the server: every item here
		// must reach the stream before this listener honors a pending
		// stop (spec.md:142 "drain remaining buffered updates, then
		// close"). A select against stopTok.Done() here (as a prior
		// version of this loop did) could drop already-fetched updates
		// if Stop() fired mid-batch; a plain blocking send can't drop
		// anything, because the dispatcher keeps draining Updates()
		// until this channel closes, regardless of the stop token.
		for _, u := range updates {
			if u.UpdateID >= offset {
				offset = u.UpdateID + 1
			}
			l.updates <- Result{Update: u}
		}
	}
}

// pollContext bounds one getUpdates call by the long-poll timeout plus
// its safety margin, and also aborts it the instant the stop token
// fires — mirroring how pkg/transport wires a context-cancellable
// dialer into each HTTP call, so a stopped listener doesn't sit waiting
// out up to 17s of an in-flight long poll before the stream ends.
func (l *LongPoll) pollContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), l.timeout+longPollSafetyMargin)
	go func() {
		select {
		case <-l.stopTok.Done():
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
