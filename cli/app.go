package main

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"courtcast/audio"
	"courtcast/config"
	"courtcast/feed"
	"courtcast/objstore"
	"courtcast/pipeline"
	"courtcast/retry"
	"courtcast/storage"
	"courtcast/youtube"
)

// lockTimeout bounds how long a run waits for a concurrent invocation to
// finish before giving up. Cron overlap is the expected contender.
const lockTimeout = 10 * time.Second

// app holds the wired pipeline and the resources that must be released when
// the command finishes.
type app struct {
	cfg     *config.Config
	lock    *storage.DirLock
	state   *storage.StateStore
	catalog *storage.Catalog
	driver  *pipeline.Driver
}

// newApp loads stores and builds the pipeline from configuration.
// allowEmptyState permits a missing state file; it is set only by the init
// command and the explicit --allow-empty-state override.
func newApp(ctx context.Context, cfg *config.Config, allowEmptyState bool) (*app, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	lock, err := storage.AcquireDirLock(cfg.Paths.DataDir, lockTimeout)
	if err != nil {
		return nil, err
	}

	state, err := storage.OpenStateStore(cfg.Paths.StateFile, allowEmptyState)
	if err != nil {
		lock.Release()
		return nil, err
	}
	catalog, err := storage.OpenCatalog(cfg.Paths.CatalogFile)
	if err != nil {
		lock.Release()
		return nil, err
	}

	lister, err := newLister(ctx, cfg)
	if err != nil {
		lock.Release()
		return nil, err
	}
	store, err := newStore(ctx, cfg)
	if err != nil {
		lock.Release()
		return nil, err
	}

	retryCfg := newRetryConfig(cfg.Retry)
	fetcher := audio.NewFetcher(cfg.Paths.AudioDir)
	fetcher.YtdlpPath = cfg.Audio.YtdlpPath
	fetcher.BitrateKbps = cfg.Audio.BitrateKbps
	fetcher.Timeout = cfg.FetchTimeout()
	fetcher.RetryConfig = &retryCfg

	driver := &pipeline.Driver{
		Detector: &pipeline.Detector{
			Lister:      lister,
			State:       state,
			Channel:     cfg.YouTube.Channel,
			MaxLookback: cfg.YouTube.MaxLookback,
		},
		Transformer: &pipeline.Transformer{
			Fetcher: fetcher,
			Prober: &audio.Probe{
				FfprobePath: cfg.Audio.FfprobePath,
				BitrateKbps: cfg.Audio.BitrateKbps,
			},
			Store:      store,
			ShowTitle:  cfg.Show.Title,
			ShowAuthor: cfg.Show.Author,
			KeepLocal:  cfg.Audio.KeepLocalFiles,
		},
		State:    state,
		Catalog:  catalog,
		Show:     newShow(cfg.Show),
		FeedPath: cfg.Paths.FeedFile,
	}

	return &app{cfg: cfg, lock: lock, state: state, catalog: catalog, driver: driver}, nil
}

// Close releases the data directory lock.
func (a *app) Close() {
	if err := a.lock.Release(); err != nil {
		slog.Warn("could not release data dir lock", "error", err)
	}
}

// newLister picks the Data API when a key is configured, otherwise the
// public Atom feed (15 most recent uploads, no quota).
func newLister(ctx context.Context, cfg *config.Config) (youtube.Lister, error) {
	if cfg.YouTube.APIKey == "" {
		slog.Info("no API key configured, using public Atom feed listing")
		return youtube.NewAtomLister(), nil
	}
	lister, err := youtube.NewAPILister(ctx, cfg.YouTube.APIKey, cfg.YouTube.RequestsPerSecond)
	if err != nil {
		return nil, err
	}
	retryCfg := newRetryConfig(cfg.Retry)
	lister.RetryConfig = &retryCfg
	return lister, nil
}

// newStore picks Backblaze B2 when credentials are present, otherwise a
// filesystem store under the data dir for local development.
func newStore(ctx context.Context, cfg *config.Config) (objstore.Store, error) {
	if cfg.B2Enabled() {
		return objstore.NewB2Store(ctx, cfg.B2.KeyID, cfg.B2.AppKey, cfg.B2.Bucket, cfg.B2.BaseURL)
	}
	dir := filepath.Join(cfg.Paths.DataDir, "published")
	slog.Info("no B2 credentials, storing episodes locally", "dir", dir)
	return objstore.NewLocalStore(dir, cfg.B2.BaseURL), nil
}

func newRetryConfig(rc config.Retry) retry.Config {
	cfg := retry.DefaultConfig()
	cfg.MaxRetries = rc.MaxRetries
	if rc.InitialBackoffMS > 0 {
		cfg.InitialBackoff = time.Duration(rc.InitialBackoffMS) * time.Millisecond
	}
	if rc.MaxBackoffMS > 0 {
		cfg.MaxBackoff = time.Duration(rc.MaxBackoffMS) * time.Millisecond
	}
	return cfg
}

func newShow(sc config.Show) feed.Show {
	return feed.Show{
		Title:       sc.Title,
		Description: sc.Description,
		Link:        sc.Link,
		Author:      sc.Author,
		Email:       sc.Email,
		Language:    sc.Language,
		Category:    sc.Category,
		ImageURL:    sc.ImageURL,
		Explicit:    sc.Explicit,
	}
}
