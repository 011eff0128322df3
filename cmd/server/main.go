package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"modportal/internal/config"
	"modportal/internal/db"
	"modportal/internal/email"
	"modportal/internal/handlers"
	"modportal/internal/handlers/api"
	"modportal/internal/interaction"
	"modportal/internal/jobs"
	"modportal/internal/logger"
	"modportal/internal/metrics"
	"modportal/internal/middleware"
	"modportal/internal/moderation"
	"modportal/internal/remote"
	"modportal/internal/server"
	"modportal/internal/storage"
)

// sequenceTTL bounds how long an idle toggle key stays in Redis.
const sequenceTTL = 10 * time.Minute

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	if err := cfg.ValidateURLs(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	yamlCfg, err := config.LoadYAMLConfig()
	if err != nil {
		return fmt.Errorf("load config.yaml: %w", err)
	}

	// Initialize database
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	log.Info("migrations completed")

	// Request sequencing is shared through Redis when available so that a
	// stale response is recognised whichever instance served the newer request.
	var (
		seq       interaction.Sequencer = interaction.NewMemorySequencer()
		redisPing api.Pinger
	)
	if cfg.RedisURL != "" {
		opts, err := goredis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("parse REDIS_URL: %w", err)
		}
		rdb := goredis.NewClient(opts)
		defer rdb.Close()
		seq = interaction.NewRedisSequencer(rdb, sequenceTTL)
		redisPing = api.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	}

	m := metrics.Init(database, log)

	client := remote.New(remote.Config{
		BaseURL:    cfg.APIBaseURL,
		GraphQLURL: cfg.GraphQLURL,
		UploadURL:  cfg.UploadURL,
		Timeout:    cfg.RemoteTimeout,
	})

	controller := interaction.NewController(client, seq,
		interaction.WithRecorder(m),
		interaction.WithLogger(log),
		interaction.WithTimeouts(interaction.Timeouts{
			Favorite: yamlCfg.Notifications.Favorite,
			Follow:   yamlCfg.Notifications.Follow,
			Comment:  yamlCfg.Notifications.Comment,
		}),
	)

	notifier := email.NewNotifier(cfg, log)
	defer notifier.Wait()

	modService := moderation.NewService(client,
		moderation.WithAuditLog(database),
		moderation.WithNotifier(notifier),
		moderation.WithLogger(log),
	)

	var uploader storage.Uploader = storage.NewRemoteUploader(client)
	if cfg.IsS3Enabled() {
		s3, err := storage.NewS3Uploader(storage.S3Config{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			UseSSL:    cfg.S3UseSSL,
		})
		if err != nil {
			return fmt.Errorf("init s3 uploader: %w", err)
		}
		if err := s3.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("ensure bucket: %w", err)
		}
		uploader = s3
	}
	uploads := storage.NewService(uploader, database, cfg.PublicFileBaseURL, log)
	log.Info("uploads configured", zap.String("backend", uploader.Backend()))

	// Background queue monitor
	if cfg.ServiceToken != "" {
		monitor := jobs.NewQueueMonitor(modService, m, cfg.ServiceToken, cfg.QueueMonitorInterval, log)
		go monitor.Start(ctx)
	} else {
		log.Info("API_SERVICE_TOKEN not set, queue monitor disabled")
	}

	// Reviewer login is required for the dashboard.
	if !cfg.IsOIDCEnabled() {
		return fmt.Errorf("OIDC_ISSUER and OIDC_CLIENT_ID are required")
	}
	authHandler, err := handlers.NewAuthHandler(ctx, cfg, yamlCfg, database, log)
	if err != nil {
		return fmt.Errorf("init oidc: %w", err)
	}

	srv := server.New(cfg, log)
	srv.RegisterRoutes(server.Handlers{
		Auth:          middleware.NewAuthMiddleware(database, log),
		Login:         authHandler,
		Moderation:    handlers.NewModerationHandler(modService, cfg, yamlCfg, log),
		Interactions:  api.NewInteractionHandler(controller),
		Comments:      api.NewCommentHandler(controller, client),
		ModerationAPI: api.NewModerationHandler(modService, database, yamlCfg.Lists.ModerationPageSize, yamlCfg.Notifications.Moderation),
		Files:         api.NewFilesHandler(client, yamlCfg.Lists.FilesPageSize),
		Uploads:       api.NewUploadHandler(uploads, database, yamlCfg.Notifications.Upload),
		Health:        api.NewHealthHandler(map[string]api.Pinger{"database": database, "redis": redisPing}),
		Metrics:       promhttp.Handler(),
	})

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	log.Info("shutting down server")
	cancel()
	if err := srv.Shutdown(); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("server exited")
	return nil
}
