package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/brogergvhs/mangatrack/internal/config"
	"github.com/brogergvhs/mangatrack/internal/store"
	"github.com/brogergvhs/mangatrack/internal/tracker"
	"github.com/brogergvhs/mangatrack/internal/ui"
	"github.com/brogergvhs/mangatrack/internal/util"
)

// app holds what a command needs after config resolution.
type app struct {
	cfg     *config.Config
	log     *ui.Logger
	fetcher *util.Fetcher
	store   store.Store
}

func loadConfig() (*config.Config, string, error) {
	config.LoadEnv()

	return config.LoadMerged(config.Options{
		IgnoreConfig:     flagIgnoreConfig,
		Debug:            flagDebug,
		DatabaseURL:      flagDatabaseURL,
		TimeoutSeconds:   flagTimeout,
		Cookie:           flagCookie,
		CookieFile:       flagCookieFile,
		UserAgent:        flagUserAgent,
		CloudflareBypass: flagCloudflare,
	})
}

// newApp resolves config and builds the fetcher. The store is opened only
// when withStore is set; callers must then call close.
func newApp(ctx context.Context, withStore bool) (*app, error) {
	cfg, usedPath, err := loadConfig()
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: ui.NewLogger(cfg.Debug)}
	a.log.Debugf("Config file: %s", usedPath)

	client, err := util.NewHTTPClient(util.HTTPClientOptions{
		Timeout:          time.Duration(cfg.TimeoutSeconds) * time.Second,
		UserAgent:        util.PickUserAgent(cfg.UserAgent),
		Cookie:           cfg.Cookie,
		CookieFile:       cfg.CookieFile,
		CloudflareBypass: cfg.CloudflareBypass,
		DebugLogger:      a.log,
	})
	if err != nil {
		return nil, err
	}
	a.fetcher = util.NewFetcher(client)

	if !withStore {
		return a, nil
	}

	if err := config.ValidateDatabaseURL(cfg.DatabaseURL); err != nil {
		if errors.Is(err, config.ErrNoDatabaseURL) {
			return nil, fmt.Errorf("%w (or database_url in the config, or --database-url)", err)
		}
		return nil, err
	}

	s, err := store.Open(ctx, cfg.DatabaseURL, cfg.PoolSize)
	if err != nil {
		return nil, err
	}
	a.store = s

	return a, nil
}

func (a *app) tracker() *tracker.Tracker {
	return tracker.New(a.fetcher, a.store, a.log, a.cfg.Workers)
}

func (a *app) close() {
	if a.store == nil {
		return
	}
	if err := a.store.Close(); err != nil {
		a.log.Errorf("closing store: %v", err)
	}
}
