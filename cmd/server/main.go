package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"

	grpcAdapter "github.com/quentinrf/sleep-service/internal/adapters/grpc"
	"github.com/quentinrf/sleep-service/internal/adapters/memory"
	"github.com/quentinrf/sleep-service/internal/adapters/mock"
	"github.com/quentinrf/sleep-service/internal/adapters/sqlite"
	"github.com/quentinrf/sleep-service/internal/cachestore"
	"github.com/quentinrf/sleep-service/internal/domain"
	"github.com/quentinrf/sleep-service/internal/ports"
	"github.com/quentinrf/sleep-service/internal/syncstore"
	"github.com/quentinrf/sleep-service/pkg/tlsconfig"
)

// source is an external sample source that also publishes its changes.
type source interface {
	ports.SampleSource
	ports.ChangeFeed
}

func main() {
	// Initialize logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	config := loadConfig(os.Getenv)
	zerolog.SetGlobalLevel(config.LogLevel)

	log.Info().Msg("starting sleep service")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, config); err != nil {
		log.Fatal().Err(err).Msg("sleep service failed")
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, config Config) error {
	// Initialize cache storage
	var entries domain.EntryStore
	switch config.RepoType {
	case "sqlite":
		s, err := sqlite.Open(ctx, config.DBDriver, config.DBPath)
		if err != nil {
			return fmt.Errorf("open SQLite database %s: %w", config.DBPath, err)
		}
		defer s.Close()
		entries = s
		log.Info().Str("db_path", config.DBPath).Str("driver", config.DBDriver).Msg("initialized SQLite cache")
	case "memory":
		entries = memory.NewEntryStore()
		log.Info().Msg("initialized in-memory cache")
	default:
		return fmt.Errorf("unknown REPO_TYPE %q", config.RepoType)
	}

	// Initialize external source
	var src source
	switch config.SourceType {
	case "mock":
		// 30 nights around 22:30 ± 30m
		src = mock.NewNightlySource(30, -90*time.Minute, 30*time.Minute, time.Now(), time.Now().UnixNano())
		log.Info().Msg("initialized mock sample source")
	default:
		return fmt.Errorf("unknown SOURCE_TYPE %q; set SOURCE_TYPE=mock", config.SourceType)
	}
	defer src.Close()

	cache := cachestore.New(entries)
	store := syncstore.New(src, cache, syncstore.Config{
		CacheLength: config.CacheLength,
		PreferCache: config.PreferCache,
	})
	stats := syncstore.NewStatisticEngine(src, time.Local)

	handler := grpcAdapter.NewSleepServiceHandler(store, stats)

	// Configure TLS if certificates are provided
	var serverOpts []grpc.ServerOption
	if config.TLS.Enabled() {
		tlsCfg, err := tlsconfig.LoadServerTLS(config.TLS)
		if err != nil {
			return fmt.Errorf("load TLS config: %w", err)
		}
		serverOpts = append(serverOpts, grpc.Creds(credentials.NewTLS(tlsCfg)))
		log.Info().Msg("mTLS enabled")
	} else {
		log.Warn().Msg("TLS_CERT not set, starting without TLS (dev mode only)")
	}

	grpcServer := grpcAdapter.NewServer(handler, serverOpts...)

	listener, err := net.Listen("tcp", fmt.Sprintf(":%s", config.Port))
	if err != nil {
		return fmt.Errorf("listen on port %s: %w", config.Port, err)
	}

	observer := ports.NewObserver(src, store, config.PollInterval, config.CleanupInterval)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("port", config.Port).Msg("gRPC server listening")
		if err := grpcServer.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		observer.Start(ctx)
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("shutting down server...")
		grpcServer.GracefulStop()
		return nil
	})

	return g.Wait()
}
