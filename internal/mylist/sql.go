package mylist

import (
	"context"

	"gorm.io/gorm"

	"github.com/justchokingaround/marquee/internal/database"
)

// SQLStore keeps the list as a JSON array in the settings table
type SQLStore struct {
	db  *gorm.DB
	key string
}

// NewSQLStore creates a store writing to key in the settings table
func NewSQLStore(db *gorm.DB, key string) *SQLStore {
	return &SQLStore{db: db, key: key}
}

func (s *SQLStore) Get(ctx context.Context) ([]int, error) {
	value, _, err := database.GetSetting(s.db.WithContext(ctx), s.key)
	if err != nil {
		return nil, err
	}
	return decode(value)
}

func (s *SQLStore) Set(ctx context.Context, ids []int) error {
	value, err := encode(ids)
	if err != nil {
		return err
	}
	return database.PutSetting(s.db.WithContext(ctx), s.key, value)
}
