package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pribylovaa/photo-tournament/internal/blobstore"
	"github.com/pribylovaa/photo-tournament/internal/classify"
	"github.com/pribylovaa/photo-tournament/internal/config"
	"github.com/pribylovaa/photo-tournament/internal/feed"
	"github.com/pribylovaa/photo-tournament/internal/pkg/redact"
	"github.com/pribylovaa/photo-tournament/internal/service"
	"github.com/pribylovaa/photo-tournament/internal/storage"
	"github.com/pribylovaa/photo-tournament/internal/storage/memory"
	"github.com/pribylovaa/photo-tournament/internal/storage/minio"
	"github.com/pribylovaa/photo-tournament/internal/storage/mongo"
	"github.com/pribylovaa/photo-tournament/internal/storage/postgres"
	"github.com/pribylovaa/photo-tournament/internal/thumbnail"
	grpctransport "github.com/pribylovaa/photo-tournament/internal/transport/grpc"
	httptransport "github.com/pribylovaa/photo-tournament/internal/transport/http"
	"github.com/pribylovaa/photo-tournament/internal/transport/http/handlers"
	"github.com/pribylovaa/photo-tournament/internal/transport/redisstream"
)

// Константы для определения окружения.
const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

const connectTimeout = 10 * time.Second

// stores — подключённые хранилища и функции их закрытия.
type stores struct {
	photos       storage.Photos
	leaderboards storage.Leaderboards
	users        storage.Users
	feed         storage.Feed
	blobs        storage.Blobs
	closers      []func()
}

func (s *stores) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file (overrides CONFIG_PATH env)")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)
	log.Info("starting ingest-worker", "env", cfg.Env, "storage_driver", cfg.Storage.Driver)

	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	st, err := openStores(rootCtx, cfg, log)
	if err != nil {
		rootCancel()
		os.Exit(1)
	}

	blobs, err := blobstore.New(st.blobs, cfg.Scratch.Dir)
	if err != nil {
		log.Error("scratch_init_failed", slog.String("dir", cfg.Scratch.Dir), slog.String("err", err.Error()))
		st.close()
		rootCancel()
		os.Exit(1)
	}

	feedPub := feed.New(st.feed)

	svc := service.New(cfg, service.Deps{
		Photos:       st.photos,
		Leaderboards: st.leaderboards,
		Users:        st.users,
		Blobs:        blobs,
		Renderer:     thumbnail.New(cfg.Thumbnails.JPEGQuality),
		Feed:         feedPub,
		Classifier:   classify.New(cfg.Classifier),
	})
	log.Info("service_initialized", slog.Any("widths", cfg.Thumbnails.Widths))

	// Канал доставки: Redis stream, если настроен.
	var (
		rdb      *redis.Client
		consumer *redisstream.Consumer
		sink     handlers.DeadLetterSink
	)
	if cfg.Redis.URL != "" {
		redisCtx, redisCancel := context.WithTimeout(rootCtx, connectTimeout)
		rdb, err = redisstream.NewClient(redisCtx, cfg.Redis.URL)
		redisCancel()
		if err != nil {
			log.Error("redis_connect_failed", slog.String("err", err.Error()))
			st.close()
			rootCancel()
			os.Exit(1)
		}
		log.Info("redis_connected", slog.String("url", redact.URL(cfg.Redis.URL)), slog.String("stream", cfg.Redis.Stream))

		dl := redisstream.NewDeadLetter(rdb, cfg.Redis.DeadLetterStream)
		sink = dl
		consumer = redisstream.NewConsumer(
			rdb, svc, dl,
			redisstream.NewAttemptTracker(rdb, "", cfg.Redis.AttemptsTTL),
			cfg.Redis, cfg.Ingest.Concurrency,
		)
	} else {
		log.Warn("redis_not_configured", slog.String("hint", "only POST /events is served; dead letters go to the log"))
	}

	var ready atomic.Bool

	httpAddr := cfg.HTTP.Addr()
	httpSrv := &http.Server{
		Addr: httpAddr,
		Handler: httptransport.NewRouter(
			handlers.New(svc, sink, &ready).WithReaders(feedPub, st.leaderboards),
			httptransport.Options{Logger: log, Metrics: true, Timeout: cfg.HTTP.RequestTimeout},
		),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("http_listen_start", "addr", httpAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http_serve_failed", slog.String("err", err.Error()))
		}
	}()

	grpcSrv := grpctransport.NewServer(grpctransport.Options{
		Logger:     log,
		Timeout:    cfg.Ingest.CallTimeout,
		Reflection: cfg.Env == envLocal || cfg.Env == envDev,
	})

	addr := cfg.GRPC.Addr()
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		log.Error("grpc_listen_failed",
			slog.String("addr", addr),
			slog.String("err", err.Error()),
		)
		_ = httpSrv.Shutdown(context.Background())
		st.close()
		rootCancel()
		os.Exit(1)
	}
	log.Info("grpc_listen_start", slog.String("addr", addr))

	serveErrCh := make(chan error, 1)
	go func() {
		serveErrCh <- grpcSrv.Serve(lis)
		close(serveErrCh)
	}()

	consumerDone := make(chan error, 1)
	if consumer != nil {
		go func() {
			consumerDone <- consumer.Run(rootCtx)
		}()
	}

	grpcSrv.SetServing(true)
	ready.Store(true)

	consumerStopped := consumer == nil

	select {
	case <-rootCtx.Done():
		log.Info("shutdown_requested")
	case err := <-serveErrCh:
		if err != nil {
			log.Error("grpc_serve_failed", slog.String("err", err.Error()))
		}
	case err := <-consumerDone:
		consumerStopped = true
		if err != nil {
			log.Error("consumer_failed", slog.String("err", err.Error()))
		}
	}

	ready.Store(false)
	rootCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if !consumerStopped {
		select {
		case <-consumerDone:
			log.Info("consumer_stopped")
		case <-shutdownCtx.Done():
			log.Warn("consumer_stop_timeout")
		}
	}

	if grpcSrv.Shutdown(shutdownCtx) {
		log.Warn("grpc_force_stop")
	} else {
		log.Info("grpc_stopped")
	}

	_ = httpSrv.Shutdown(shutdownCtx)

	if rdb != nil {
		_ = rdb.Close()
	}
	st.close()

	log.Info("service_stopped")
}

// openStores подключает хранилища по storage.driver.
// memory — всё в памяти процесса (local/тесты); postgres — Postgres + MongoDB + MinIO.
func openStores(ctx context.Context, cfg *config.Config, log *slog.Logger) (*stores, error) {
	if cfg.Storage.Driver == config.DriverMemory {
		mem := memory.New()
		log.Info("memory_storage_initialized")

		return &stores{photos: mem, leaderboards: mem, users: mem, feed: mem, blobs: mem}, nil
	}

	st := &stores{}

	dbCtx, dbCancel := context.WithTimeout(ctx, connectTimeout)
	pg, err := postgres.New(dbCtx, cfg.Postgres.URL)
	dbCancel()
	if err != nil {
		log.Error("postgres_connect_failed", slog.String("err", err.Error()))
		return nil, err
	}
	st.closers = append(st.closers, pg.Close)
	st.photos, st.leaderboards, st.users = pg, pg, pg
	log.Info("postgres_connected", slog.String("url", redact.URL(cfg.Postgres.URL)))

	mgCtx, mgCancel := context.WithTimeout(ctx, connectTimeout)
	mg, err := mongo.New(mgCtx, cfg.Mongo.URL)
	mgCancel()
	if err != nil {
		log.Error("mongo_connect_failed", slog.String("err", err.Error()))
		st.close()
		return nil, err
	}
	st.closers = append(st.closers, func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mg.Close(closeCtx)
	})
	st.feed = mg
	log.Info("mongo_connected", slog.String("url", redact.URL(cfg.Mongo.URL)))

	s3Ctx, s3Cancel := context.WithTimeout(ctx, connectTimeout)
	s3, err := minio.New(s3Ctx, cfg.S3)
	s3Cancel()
	if err != nil {
		log.Error("minio_connect_failed", slog.String("err", err.Error()))
		st.close()
		return nil, err
	}
	st.blobs = s3
	log.Info("minio_connected", slog.String("endpoint", cfg.S3.Endpoint), slog.String("root_user", cfg.S3.RootUser), slog.String("root_password", redact.Secret()))

	return st, nil
}

// setupLogger настраивает slog по окружению.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	}

	return log
}
