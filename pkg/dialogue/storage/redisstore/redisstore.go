// Package redisstore implements dialogue.Storage on top of Redis,
// grounded on spec.md §4.8's "Redis ... storage" and go.mod's
// github.com/redis/go-redis/v9 dependency — the same client teloxide's
// RedisStorage wraps in original_source.
package redisstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"tgo/pkg/chatid"
	"tgo/pkg/dialogue"
)

// Storage persists dialogue state as one Redis string key per chat.
type Storage struct {
	client *redis.Client
	codec  dialogue.Codec
	prefix string
}

// New wraps client, namespacing keys under prefix+":" (e.g. "dlg:42").
// Pass dialogue.JSONCodec{} for the common case, or dialogue.CBORCodec{}
// / dialogue.MsgpackCodec{} for a smaller wire representation.
func New(client *redis.Client, codec dialogue.Codec, prefix string) *Storage {
	return &Storage{client: client, codec: codec, prefix: prefix}
}

func (s *Storage) key(chat chatid.ChatID) string {
	return fmt.Sprintf("%s:%s", s.prefix, chat.String())
}

func (s *Storage) Get(ctx context.Context, chat chatid.ChatID, out any) error {
	data, err := s.client.Get(ctx, s.key(chat)).Bytes()
	if errors.Is(err, redis.Nil) {
		return dialogue.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("dialogue/redisstore: get %s: %w", chat.String(), err)
	}
	return s.codec.Decode(data, out)
}

func (s *Storage) Update(ctx context.Context, chat chatid.ChatID, state any) error {
	data, err := s.codec.Encode(state)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key(chat), data, 0).Err(); err != nil {
		return fmt.Errorf("dialogue/redisstore: set %s: %w", chat.String(), err)
	}
	return nil
}

func (s *Storage) Remove(ctx context.Context, chat chatid.ChatID) error {
	n, err := s.client.Del(ctx, s.key(chat)).Result()
	if err != nil {
		return fmt.Errorf("dialogue/redisstore: del %s: %w", chat.String(), err)
	}
	if n == 0 {
		return dialogue.ErrNotFound
	}
	return nil
}
