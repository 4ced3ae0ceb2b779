package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-constellation/internal/adapters/cache"
	"github.com/comitanigiacomo/kanso-constellation/internal/adapters/database"
	"github.com/comitanigiacomo/kanso-constellation/internal/config"
	"github.com/comitanigiacomo/kanso-constellation/internal/logging"
)

type serveOptions struct {
	memory      bool
	skipMigrate bool
	noRedis     bool
}

func newServeCommand(root *rootOptions) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), root, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.memory, "memory", false, "keep everything in process memory instead of Postgres")
	cmd.Flags().BoolVar(&opts.skipMigrate, "skip-migrate", false, "do not apply pending migrations on startup")
	cmd.Flags().BoolVar(&opts.noRedis, "no-redis", false, "run without the habit cache and the rate limiter")

	return cmd
}

func runServe(ctx context.Context, root *rootOptions, opts *serveOptions) error {
	startTime := time.Now()

	cfg, err := config.Load(root.envFile)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	time.Local = loc

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var s stores
	if opts.memory {
		logger.Warn("running with in-memory stores, data is lost on exit")
		s = memoryStores()
	} else {
		logger.Info("connecting to database", zap.String("host", cfg.DBHost), zap.String("name", cfg.DBName))
		db, err := database.Open(ctx, cfg.PostgresDSN())
		if err != nil {
			return err
		}
		defer db.Close()

		if !opts.skipMigrate {
			if err := database.Migrate(ctx, db); err != nil {
				return err
			}
			version, _ := database.Version(ctx, db)
			logger.Info("database schema ready", zap.Int64("version", version))
		}

		var rdb *redis.Client
		if !opts.noRedis {
			rdb, err = cache.NewRedisClient(ctx, cache.Options{
				Host:     cfg.RedisHost,
				Port:     cfg.RedisPort,
				Password: cfg.RedisPassword,
				DB:       cfg.RedisDB,
			})
			if err != nil {
				logger.Warn("redis unavailable, continuing without cache and rate limiting", zap.Error(err))
				rdb = nil
			} else {
				defer rdb.Close()
			}
		}

		s = postgresStores(db, rdb, logger)
	}

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	app := newApplication(cfg, s, logger, startTime)

	workerCtx, cancelWorker := context.WithCancel(context.Background())
	app.worker.Start(workerCtx)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      app.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr), zap.String("timezone", loc.String()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		cancelWorker()
		<-app.worker.Done()
		return err
	case <-ctx.Done():
	}

	logger.Info("stop signal received, shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}

	cancelWorker()
	select {
	case <-app.worker.Done():
	case <-shutdownCtx.Done():
		logger.Warn("score worker did not stop in time")
	}

	logger.Info("server stopped")
	return nil
}

