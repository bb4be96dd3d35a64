package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/tagtune/internal/services"
	"github.com/desertthunder/tagtune/internal/shared"
	"github.com/desertthunder/tagtune/internal/store"
	"github.com/urfave/cli/v3"
)

func main() {
	ctx := context.Background()
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	var service services.Service
	switch config.Sync.Service {
	case services.ServiceTypeYouTube:
		service = services.NewYouTubeService(services.YouTubeServiceOpts{
			BaseURL:   config.Credentials.YouTube.ProxyURL,
			AuthFile:  config.Credentials.YouTube.HeadersPath,
			RateLimit: config.Sync.RateLimit,
		})
	default:
		if svc, err := services.NewSpotifyService(ctx, config.Credentials.Spotify); err == nil {
			service = svc
		} else {
			logger.Debug("spotify service not available", "error", err)
		}
	}

	opts := RunnerOpts{
		Config:  config,
		Service: service,
		Logger:  logger,
	}

	if db, err := shared.NewDatabase(config.Database.Path); err == nil {
		shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
		opts.DB = db
		opts.Store = store.NewSQLiteStore(db)
		defer db.Close()
	} else {
		logger.Debug("database not available, run setup first", "error", err)
	}

	runner := NewRunner(opts)

	app := &cli.Command{
		Name:     "tagtune",
		Usage:    "Tag your music library and build playlists from tags",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(ctx, os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
