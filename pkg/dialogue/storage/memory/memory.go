// Package memory implements an in-process dialogue.Storage backed by a
// mutex-guarded map, grounded on the teacher's SessionManager
// (pkg/llm/session_manager.go): one entry per chat, guarded by a single
// RWMutex, no eviction.
package memory

import (
	"context"
	"sync"

	"tgo/pkg/chatid"
	"tgo/pkg/dialogue"
)

// Storage is the default dialogue.Storage: a map kept entirely in
// memory, gone on process restart. Good for tests and single-process
// bots; pkg/dialogue/storage/redisstore and /sqlstore persist across
// restarts.
type Storage struct {
	codec dialogue.Codec

	mu    sync.RWMutex
	state map[chatid.ChatID][]byte
}

// New returns an empty Storage encoding state with codec. Pass
// dialogue.JSONCodec{} for the common case.
func New(codec dialogue.Codec) *Storage {
	return &Storage{codec: codec, state: make(map[chatid.ChatID][]byte)}
}

func (s *Storage) Get(ctx context.Context, chat chatid.ChatID, out any) error {
	s.mu.RLock()
	data, ok := s.state[chat]
	s.mu.RUnlock()
	if !ok {
		return dialogue.ErrNotFound
	}
	return s.codec.Decode(data, out)
}

func (s *Storage) Update(ctx context.Context, chat chatid.ChatID, state any) error {
	data, err := s.codec.Encode(state)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.state[chat] = data
	s.mu.Unlock()
	return nil
}

func (s *Storage) Remove(ctx context.Context, chat chatid.ChatID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.state[chat]; !ok {
		return dialogue.ErrNotFound
	}
	delete(s.state, chat)
	return nil
}
