package main

import (
	"fmt"
	"time"

	"github.com/pario-ai/cinecache/pkg/cache"
	"github.com/pario-ai/cinecache/pkg/cache/file"
	"github.com/pario-ai/cinecache/pkg/cache/sqlite"
	"github.com/pario-ai/cinecache/pkg/config"
	"github.com/pario-ai/cinecache/pkg/feed"
	"github.com/pario-ai/cinecache/pkg/remote"
)

// app holds everything a command needs, opened from one config.
type app struct {
	cfg    *config.Config
	local  *cache.LocalLoader
	remote *remote.Loader
	queue  *cache.Queue
	closer func() error
}

func openApp(configPath string) (*app, error) {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	var (
		store      cache.Store
		closeStore func() error
	)
	switch cfg.Cache.Backend {
	case config.BackendSQLite:
		s, err := sqlite.New(cfg.Cache.Path)
		if err != nil {
			return nil, fmt.Errorf("init cache: %w", err)
		}
		store, closeStore = s, s.Close
	default:
		s := file.New(cfg.Cache.Path)
		store, closeStore = s, s.Close
	}

	queue := cache.NewQueue(store)
	local := cache.NewLocalLoader(queue, time.Now, cache.WithPolicy(cache.Policy{MaxAge: cfg.Cache.MaxAge}))
	rl := remote.New(remote.Config{
		BaseURL: cfg.API.BaseURL,
		APIKey:  cfg.API.APIKey,
		Page:    cfg.API.Page,
		Timeout: cfg.API.Timeout,
	})

	return &app{
		cfg:    cfg,
		local:  local,
		remote: rl,
		queue:  queue,
		closer: func() error {
			_ = queue.Close()
			return closeStore()
		},
	}, nil
}

// pipeline returns the network-first loader for page, or the configured
// page when page is zero.
func (a *app) pipeline(page int) *feed.Pipeline {
	rl := a.remote
	if page > 0 {
		rl = rl.ForPage(page)
	}
	return feed.NewPipeline(rl, a.local)
}

func (a *app) Close() error {
	return a.closer()
}
