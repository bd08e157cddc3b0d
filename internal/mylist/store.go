// Package mylist persists the user's saved titles as an ordered list of
// catalog ids under a single key.
package mylist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"gorm.io/gorm"

	"github.com/justchokingaround/marquee/internal/config"
)

// Store reads and replaces the whole saved list. Concurrent writers are not
// coordinated; the last Set wins.
type Store interface {
	Get(ctx context.Context) ([]int, error)
	Set(ctx context.Context, ids []int) error
}

// New builds the store selected by cfg.Backend. db backs the sqlite
// backend and may be nil for redis. The returned closer releases only what
// New itself opened.
func New(ctx context.Context, cfg config.MyListConfig, db *gorm.DB, logger *slog.Logger) (Store, func() error, error) {
	key := cfg.Key
	if key == "" {
		key = "mylist"
	}

	switch cfg.Backend {
	case "redis":
		store, err := NewRedisStore(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Key:      key,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case "", "sqlite":
		if db == nil {
			return nil, nil, errors.New("sqlite mylist backend needs a database")
		}
		return NewSQLStore(db, key), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown mylist backend %q", cfg.Backend)
	}
}

func encode(ids []int) (string, error) {
	if ids == nil {
		ids = []int{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("failed to encode saved list: %w", err)
	}
	return string(data), nil
}

func decode(value string) ([]int, error) {
	if value == "" {
		return []int{}, nil
	}
	var ids []int
	if err := json.Unmarshal([]byte(value), &ids); err != nil {
		return nil, fmt.Errorf("failed to decode saved list: %w", err)
	}
	return ids, nil
}

// Contains reports whether id is saved
func Contains(ctx context.Context, store Store, id int) (bool, error) {
	ids, err := store.Get(ctx)
	if err != nil {
		return false, err
	}
	return slices.Contains(ids, id), nil
}

// Add appends id to the list unless it is already present
func Add(ctx context.Context, store Store, id int) ([]int, error) {
	ids, err := store.Get(ctx)
	if err != nil {
		return nil, err
	}
	if slices.Contains(ids, id) {
		return ids, nil
	}
	ids = append(ids, id)
	if err := store.Set(ctx, ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// Remove drops every occurrence of id
func Remove(ctx context.Context, store Store, id int) ([]int, error) {
	ids, err := store.Get(ctx)
	if err != nil {
		return nil, err
	}
	kept := slices.DeleteFunc(slices.Clone(ids), func(v int) bool { return v == id })
	if len(kept) == len(ids) {
		return ids, nil
	}
	if err := store.Set(ctx, kept); err != nil {
		return nil, err
	}
	return kept, nil
}

// Toggle adds id when absent and removes it when present. saved reports the
// resulting membership.
func Toggle(ctx context.Context, store Store, id int) (saved bool, err error) {
	present, err := Contains(ctx, store, id)
	if err != nil {
		return false, err
	}
	if present {
		_, err = Remove(ctx, store, id)
		return false, err
	}
	_, err = Add(ctx, store, id)
	return err == nil, err
}
