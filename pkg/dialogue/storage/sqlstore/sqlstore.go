// Package sqlstore implements dialogue.Storage on gorm.io/gorm, grounded
// on spec.md §4.8's "SQLite/Postgres ... storage" and go.mod's
// gorm.io/driver/sqlite and gorm.io/driver/postgres dependencies —
// either driver works unmodified against this package's single table.
package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tgo/pkg/chatid"
	"tgo/pkg/dialogue"
)

// record is the table's single row shape: one (chat_id, state) pair per
// dialogue, state stored as whatever bytes the codec produced.
type record struct {
	ChatID int64 `gorm:"primaryKey;column:chat_id"`
	State  []byte
}

func (record) TableName() string { return "dialogue_states" }

// Storage persists dialogue state as rows in a SQL table via gorm. Open
// db with gorm.io/driver/sqlite or gorm.io/driver/postgres and call
// AutoMigrate before first use.
type Storage struct {
	db    *gorm.DB
	codec dialogue.Codec
}

// New wraps db. Pass dialogue.JSONCodec{} for the common case.
func New(db *gorm.DB, codec dialogue.Codec) *Storage {
	return &Storage{db: db, codec: codec}
}

// AutoMigrate creates the dialogue_states table if it does not exist.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&record{})
}

func (s *Storage) Get(ctx context.Context, chat chatid.ChatID, out any) error {
	var rec record
	err := s.db.WithContext(ctx).First(&rec, "chat_id = ?", int64(chat)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dialogue.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("dialogue/sqlstore: get %s: %w", chat.String(), err)
	}
	return s.codec.Decode(rec.State, out)
}

func (s *Storage) Update(ctx context.Context, chat chatid.ChatID, state any) error {
	data, err := s.codec.Encode(state)
	if err != nil {
		return err
	}
	rec := record{ChatID: int64(chat), State: data}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "chat_id"}}, UpdateAll: true}).
		Create(&rec).Error
	if err != nil {
		return fmt.Errorf("dialogue/sqlstore: update %s: %w", chat.String(), err)
	}
	return nil
}

func (s *Storage) Remove(ctx context.Context, chat chatid.ChatID) error {
	res := s.db.WithContext(ctx).Delete(&record{}, "chat_id = ?", int64(chat))
	if res.Error != nil {
		return fmt.Errorf("dialogue/sqlstore: remove %s: %w", chat.String(), res.Error)
	}
	if res.RowsAffected == 0 {
		return dialogue.ErrNotFound
	}
	return nil
}
