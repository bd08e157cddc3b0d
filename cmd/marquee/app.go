package main

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/justchokingaround/marquee/internal/catalog"
	"github.com/justchokingaround/marquee/internal/config"
	"github.com/justchokingaround/marquee/internal/database"
	"github.com/justchokingaround/marquee/internal/mylist"
	"github.com/justchokingaround/marquee/internal/subtitles"
	"github.com/justchokingaround/marquee/internal/tmdb"
)

// app holds the wired pipeline for one command invocation
type app struct {
	cfg        *config.Config
	db         *gorm.DB
	store      mylist.Store
	closeStore func() error
	provider   catalog.Provider
	catalog    *catalog.Aggregator
	subtitles  *subtitles.Service
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	db, err := database.Open(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	store, closeStore, err := mylist.New(ctx, cfg.MyList, db, logger)
	if err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("failed to open saved list: %w", err)
	}

	if cfg.TMDB.APIKey == "" {
		logger.Warn("tmdb.api_key is not set; catalog requests will be rejected")
	}

	provider := tmdb.NewClient(cfg.TMDB, cfg.Advanced.Debug, logger)
	agg := catalog.NewAggregator(provider, store, catalog.Options{
		Feeds:    cfg.Feeds,
		PageSize: cfg.TMDB.PageSize,
		Logger:   logger,
	})

	subs := subtitles.NewService(
		agg,
		subtitles.NewClient(cfg.Subtitles, cfg.Advanced.Debug, logger),
		cfg.Subtitles.Language,
		subtitles.ParseSortStrategy(cfg.Subtitles.Sort),
		logger,
	).WithChoices(subtitles.NewDBChoices(db))

	return &app{
		cfg:        cfg,
		db:         db,
		store:      store,
		closeStore: closeStore,
		provider:   provider,
		catalog:    agg,
		subtitles:  subs,
	}, nil
}

func (a *app) Close() error {
	return errors.Join(a.closeStore(), database.Close(a.db))
}
