package cmd

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mleroy/agora/internal/config"
	agoraerrors "github.com/mleroy/agora/internal/errors"
	"github.com/mleroy/agora/internal/loader"
	"github.com/mleroy/agora/internal/logging"
	"github.com/mleroy/agora/internal/server"
	"github.com/mleroy/agora/internal/store"
	"github.com/mleroy/agora/internal/watcher"
)

func newServeCmd() *cobra.Command {
	var reload bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Load the corpus and serve it over HTTP",
		Long: `Load the forum export into memory and serve the read-only API.

The corpus is validated up front; any malformed file, duplicate id or
dangling reference aborts startup. With --reload, file changes under
the data directory trigger a full reload that is swapped in atomically
once it succeeds.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if reload {
				cfg.Reload.Enabled = true
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().BoolVar(&reload, "reload", false, "Reload the corpus when files change")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	logger, cleanup, err := logging.Setup(logging.Config{
		Level:         cfg.Logging.Level,
		FilePath:      cfg.Logging.FilePath,
		MaxSizeMB:     cfg.Logging.MaxSizeMB,
		MaxFiles:      cfg.Logging.MaxFiles,
		WriteToStderr: true,
	})
	if err != nil {
		return err
	}
	defer cleanup()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	provider := store.NewProvider()
	if err := loadAndPublish(ctx, cfg, provider, logger); err != nil {
		return err
	}

	if cfg.Reload.Enabled {
		w := watcher.New(cfg.Data.Path, cfg.Reload.Debounce, logger)
		go func() {
			if err := w.Start(ctx); err != nil && ctx.Err() == nil {
				logger.Error("watcher stopped", slog.Any("error", err))
			}
		}()
		go reloadLoop(ctx, cfg, provider, w, logger)
	}

	return server.New(cfg, provider, logger).Run(ctx)
}

// loadAndPublish loads the corpus from disk and publishes the snapshot.
func loadAndPublish(ctx context.Context, cfg *config.Config, provider *store.Provider, logger *slog.Logger) error {
	start := time.Now()

	ds, err := loader.New(cfg.Data.Path, loader.WithLogger(logger)).Load(ctx)
	if err != nil {
		return err
	}

	s := store.New(ds, store.WithRenderCacheSize(cfg.Cache.RenderedTopics))
	provider.Publish(store.NewSnapshot(s))

	stats := s.Stats()
	logger.Info("corpus loaded",
		slog.Int("categories", stats.Categories),
		slog.Int("topics", stats.Topics),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// reloadLoop rebuilds the snapshot whenever the watcher reports a
// settled change. A failed reload keeps the last good snapshot in
// place; the service never serves a partial corpus.
func reloadLoop(ctx context.Context, cfg *config.Config, provider *store.Provider, w *watcher.Watcher, logger *slog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.Events():
			logger.Info("data directory changed, reloading")
			if err := loadAndPublish(ctx, cfg, provider, logger); err != nil {
				logger.Error("reload failed, keeping previous snapshot",
					slog.Any("details", agoraerrors.FormatForLog(err)))
			}
		}
	}
}
