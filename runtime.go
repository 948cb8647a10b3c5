package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/CrestNiraj12/reelhire/app"
	"github.com/CrestNiraj12/reelhire/core/media"
	"github.com/CrestNiraj12/reelhire/core/uploads"
	"github.com/CrestNiraj12/reelhire/domain"
	"github.com/CrestNiraj12/reelhire/infra/api"
	"github.com/CrestNiraj12/reelhire/infra/auth"
	"github.com/CrestNiraj12/reelhire/infra/config"
	"github.com/CrestNiraj12/reelhire/infra/logging"
	"github.com/CrestNiraj12/reelhire/infra/share"
	"github.com/CrestNiraj12/reelhire/infra/store"
)

// runtime is everything a command needs, built from the environment.
type runtime struct {
	cfg     config.Config
	logger  logging.Logger
	videos  app.VideoService
	tracker *uploads.Tracker
	blobs   *media.BlobStore
	sharers []app.Sharer
	closers []io.Closer
}

func openRuntime(ctx context.Context) (*runtime, error) {
	// 1. Load config from the environment, hydrated from .env if present.
	if err := config.LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	rt := &runtime{cfg: cfg}
	ok := false
	defer func() {
		if !ok {
			rt.Close()
		}
	}()

	// 2. Build infrastructure.
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger, logFile, err := logging.OpenFile(cfg.LogPath, level)
	if err != nil {
		return nil, err
	}
	rt.logger = logger
	rt.closers = append(rt.closers, logFile)

	db, err := store.Open(ctx, cfg.DBPath())
	if err != nil {
		return nil, err
	}
	rt.closers = append(rt.closers, db)

	rt.blobs, err = media.NewBlobStore(cfg.BlobDir())
	if err != nil {
		return nil, err
	}

	var tokens auth.TokenProvider = auth.NewFileTokenProvider(cfg.TokenPath)
	if cfg.Token != "" {
		tokens = auth.StaticToken(cfg.Token)
	}
	client := api.NewClient(cfg.APIURL, tokens, api.WithUserAgent("reelhire/"+version))

	// 3. Build services (concrete types satisfy app.* interfaces).
	rt.videos = api.NewVideoService(client)
	rt.sharers = share.Default(cfg.ShareCommand)
	rt.tracker = uploads.NewTracker(uploads.Options{
		Service:      rt.videos,
		Uploader:     api.NewUploadService(client),
		Blobs:        rt.blobs,
		Persister:    uploads.NewStore(db),
		Logger:       logger,
		PollInterval: cfg.PollInterval,
	})
	rt.tracker.Load(ctx)
	if n := rt.tracker.Recover(); n > 0 {
		logger.Info(ctx, "interrupted uploads marked failed", "count", n)
	}

	ok = true
	return rt, nil
}

func (rt *runtime) owner() domain.Owner {
	return domain.Owner{DisplayName: rt.cfg.DisplayName, Role: "candidate"}
}

// Close flushes tracked uploads and closes files in reverse order.
func (rt *runtime) Close() {
	if rt.tracker != nil {
		rt.tracker.Flush(context.Background())
	}
	for i := len(rt.closers) - 1; i >= 0; i-- {
		_ = rt.closers[i].Close()
	}
}
