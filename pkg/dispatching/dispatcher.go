package dispatching

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"reflect"
	"sync"
	"syscall"

	"tgo/pkg/chatid"
	"tgo/pkg/listeners"
	"tgo/pkg/stoptoken"
	"tgo/pkg/types"
)

// ErrorHandler receives every error a handler returns or a listener
// reports (spec.md §4.7 "handler errors are routed to a configurable
// error handler"). The default logs via slog.
type ErrorHandler func(err error)

// DefaultHandler runs for updates no branch in the tree accepted
// (spec.md §4.7 "Default / error handlers"). The default is a no-op.
type DefaultHandler func(ctx *Context)

// Dispatcher owns a handler tree and drives it from an update stream
// (spec.md §4.7). It spawns one task per incoming update, serializing
// updates that share a chat through a per-chat single-consumer mailbox
// (spec.md §4.8 "Per-chat serialization") so the dialogue subsystem
// never interleaves reads/writes for the same chat.
type Dispatcher struct {
	root Handler

	mu         sync.Mutex
	singletons map[reflect.Type]reflect.Value
	mailboxes  map[chatid.ChatID]chan func()

	defaultHandler DefaultHandler
	errorHandler   ErrorHandler

	wg sync.WaitGroup
}

// New builds a Dispatcher around root. Register shared values (the bot
// handle, a dialogue storage, ...) with Dependency before calling Run.
func New(root Handler) *Dispatcher {
	return &Dispatcher{
		root:           root,
		singletons:     make(map[reflect.Type]reflect.Value),
		mailboxes:      make(map[chatid.ChatID]chan func()),
		defaultHandler: func(*Context) {},
		errorHandler: func(err error) {
			slog.Default().Error("dispatching: handler error", "error", err)
		},
	}
}

// Dependency registers a singleton value every dispatched Context will
// carry, keyed by its concrete type (spec.md §4.7 "user-registered
// singletons").
func (d *Dispatcher) Dependency(v any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.singletons[reflect.TypeOf(v)] = reflect.ValueOf(v)
}

// SetDefaultHandler overrides the handler run for unaccepted updates.
func (d *Dispatcher) SetDefaultHandler(h DefaultHandler) { d.defaultHandler = h }

// SetErrorHandler overrides where handler/listener errors are routed.
func (d *Dispatcher) SetErrorHandler(h ErrorHandler) { d.errorHandler = h }

// AllowedUpdates returns the union of update kinds the handler tree can
// accept (spec.md §4.7 "allowed_updates()"), to feed a long-poll
// listener's GetUpdates.AllowedUpdates.
func (d *Dispatcher) AllowedUpdates() []string {
	return d.root.Description().Slice()
}

// Run drains stream until it closes (the listener stopped) or ctx is
// cancelled, dispatching every update it carries. It returns only after
// every in-flight handler task — including ones still sitting in a
// per-chat mailbox — has completed (spec.md §4.7 "Ctrl-C ... dispatcher
// drains in-flight handlers before returning").
func (d *Dispatcher) Run(ctx context.Context, stream <-chan listeners.Result) {
	for {
		select {
		case <-ctx.Done():
			d.wg.Wait()
			return
		case r, ok := <-stream:
			if !ok {
				d.wg.Wait()
				return
			}
			if r.Err != nil {
				d.errorHandler(r.Err)
				continue
			}
			d.dispatch(ctx, r.Update)
		}
	}
}

// ListenForCtrlC installs an OS signal handler that stops tok on
// SIGINT/SIGTERM (spec.md §4.7 "Ctrl-C"). Call before Run; the caller's
// update listener should share the same stop token.
func ListenForCtrlC(tok *stoptoken.Token) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		tok.Stop()
	}()
}

func (d *Dispatcher) dispatch(ctx context.Context, u types.Update) {
	task := d.task(ctx, u)

	chat, ok := u.ChatID()
	if !ok {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			task()
		}()
		return
	}

	d.wg.Add(1)
	d.mailbox(chat) <- func() {
		defer d.wg.Done()
		task()
	}
}

func (d *Dispatcher) task(ctx context.Context, u types.Update) func() {
	return func() {
		cctx := newContext()
		cctx.Set(u)
		cctx.Set(ctx)

		d.mu.Lock()
		for t, v := range d.singletons {
			cctx.values[t] = v
		}
		d.mu.Unlock()

		handled, err := d.root.run(cctx)
		if err != nil {
			d.errorHandler(err)
			return
		}
		if !handled {
			d.defaultHandler(cctx)
		}
	}
}

// mailbox returns the single-consumer queue for chat, starting its
// drain goroutine the first time the chat is seen (spec.md §9 "A small
// per-chat mailbox keyed by chat_id achieves this"). Mailboxes are kept
// for the dispatcher's lifetime; a long-running bot that talks to an
// unbounded number of distinct chats trades that memory for never
// having to coordinate mailbox teardown with in-flight sends.
//
// dispatch enqueues into a chat's mailbox directly from Run's loop, so
// updates for one chat enter its mailbox in the order Run received
// them. When a chat's mailbox is full (its handlers falling behind), Run
// waits for room there before reading the next update.
func (d *Dispatcher) mailbox(chat chatid.ChatID) chan func() {
	d.mu.Lock()
	defer d.mu.Unlock()

	ch, ok := d.mailboxes[chat]
	if ok {
		return ch
	}
	ch = make(chan func(), 32)
	d.mailboxes[chat] = ch
	go func() {
		for fn := range ch {
			fn()
		}
	}()
	return ch
}
