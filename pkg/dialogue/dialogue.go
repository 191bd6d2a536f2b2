// Package dialogue implements the per-chat conversational state machine
// (spec.md §4.8, component H): a Storage abstraction keyed by chat id,
// pluggable encodings for the stored state, and a Dialogue handle that
// glues a chat's state to a dispatching.Handler.
package dialogue

import (
	"context"
	"errors"

	"tgo/pkg/chatid"
)

// ErrNotFound is returned by Storage.Get and Storage.Remove when no
// state is on file for a chat (spec.md §4.8 property 9: "removing a
// dialogue that was never started is an error, not a no-op").
var ErrNotFound = errors.New("dialogue: no state for chat")

// Storage persists one opaque state value per chat. Implementations
// need not be safe for state values larger than what Codec.Encode
// produces; callers only ever hold the decoded Go value.
//
// Go interfaces already erase their concrete type, so unlike
// original_source's trait-object Storage<Error = ...> wrapped in an
// Erased newtype, a plain interface is enough here (spec.md §4.8
// "Storage erasure").
type Storage interface {
	// Get decodes the stored state for chat into out, a pointer to the
	// caller's state type. It returns ErrNotFound if chat has no state.
	Get(ctx context.Context, chat chatid.ChatID, out any) error
	// Update encodes state and stores it for chat, creating or
	// overwriting whatever was there.
	Update(ctx context.Context, chat chatid.ChatID, state any) error
	// Remove deletes chat's state. It returns ErrNotFound if chat had
	// no state to remove.
	Remove(ctx context.Context, chat chatid.ChatID) error
}

// Codec converts a dialogue's state value to and from the bytes a
// Storage persists (spec.md §4.8 "pluggable encoding"). See codec.go
// in this package for the built-ins: JSONCodec, CBORCodec, MsgpackCodec.
type Codec interface {
	Encode(state any) ([]byte, error)
	// Decode fills out, a pointer to the caller's state type, from data.
	Decode(data []byte, out any) error
	// VariableShape reports whether this codec tolerates a dialogue
	// state whose shape differs chat to chat, such as one embedding an
	// optional or slice-typed field (a stored types.Message, say).
	// MsgpackCodec — standing in for a fixed-schema binary encoding —
	// reports false, flagging the mismatch up front rather than
	// failing at decode time against a record laid out for a different
	// shape.
	VariableShape() bool
}

// Dialogue is a thin, chat-scoped handle over a Storage: it resolves
// the boilerplate of "load current state, default to the zero value if
// none exists yet" that every handler touching the state machine needs
// (spec.md §4.8 "Dialogue<S, Storage> handle").
type Dialogue struct {
	storage Storage
	chat    chatid.ChatID
}

// New returns a handle scoped to chat, backed by storage.
func New(storage Storage, chat chatid.ChatID) Dialogue {
	return Dialogue{storage: storage, chat: chat}
}

// GetOrDefault loads the current state into out, leaving out untouched
// (its zero value) if the chat has never started a dialogue.
func (d Dialogue) GetOrDefault(ctx context.Context, out any) error {
	err := d.storage.Get(ctx, d.chat, out)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

// Update persists state as the chat's new dialogue state.
func (d Dialogue) Update(ctx context.Context, state any) error {
	return d.storage.Update(ctx, d.chat, state)
}

// Exit removes the chat's dialogue state, returning it to "no
// conversation in progress" (spec.md §4.8 "Dialogue::exit").
func (d Dialogue) Exit(ctx context.Context) error {
	err := d.storage.Remove(ctx, d.chat)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

// TraceStorage wraps any Storage and logs every call through log,
// mirroring original_source's dialogue::TraceStorage and
// pkg/adaptors.Trace's before/after logging shape.
type TraceStorage struct {
	inner Storage
	log   func(op string, chat chatid.ChatID, err error)
}

// NewTraceStorage wraps inner, calling log once per operation.
func NewTraceStorage(inner Storage, log func(op string, chat chatid.ChatID, err error)) *TraceStorage {
	return &TraceStorage{inner: inner, log: log}
}

func (t *TraceStorage) Get(ctx context.Context, chat chatid.ChatID, out any) error {
	err := t.inner.Get(ctx, chat, out)
	t.log("get", chat, err)
	return err
}

func (t *TraceStorage) Update(ctx context.Context, chat chatid.ChatID, state any) error {
	err := t.inner.Update(ctx, chat, state)
	t.log("update", chat, err)
	return err
}

func (t *TraceStorage) Remove(ctx context.Context, chat chatid.ChatID) error {
	err := t.inner.Remove(ctx, chat)
	t.log("remove", chat, err)
	return err
}
