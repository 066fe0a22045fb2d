package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	grpc_adapter "github.com/JoeShih716/go-ledger/internal/app/core/adapter/in/grpc"
	"github.com/JoeShih716/go-ledger/internal/app/core/adapter/in/httpapi"
	"github.com/JoeShih716/go-ledger/internal/app/core/adapter/in/scheduler"
	memory_adapter "github.com/JoeShih716/go-ledger/internal/app/core/adapter/out/memory"
	mysql_adapter "github.com/JoeShih716/go-ledger/internal/app/core/adapter/out/mysql"
	"github.com/JoeShih716/go-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/go-ledger/internal/config"
	"github.com/JoeShih716/go-ledger/internal/logger"
	"github.com/JoeShih716/go-ledger/pkg/mysql"
	"github.com/JoeShih716/go-ledger/pkg/wal"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to config yaml")
	flag.Parse()

	// 1. 載入設定
	cfg, err := config.Load(*configPath)
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("failed to load config")
	}
	log := logger.InitLogger(cfg.Log.Level, cfg.Log.Format)

	location, err := cfg.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid time zone")
	}

	// 2. 初始化儲存層
	ctx := context.Background()
	uow, closeStorage, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("failed to open storage")
	}
	defer closeStorage()

	// 3. 初始化 UseCase
	poster := usecase.NewPoster(uow,
		usecase.WithMaxRetries(cfg.Ledger.MaxRetries),
		usecase.WithLogger(log.With().Str("component", "poster").Logger()),
	)
	coreUseCase := usecase.NewCoreUseCase(uow, poster, log)
	reconciler := usecase.NewReconciler(uow, log.With().Str("component", "reconciler").Logger())

	// 4. gRPC Server
	grpcServer, healthServer := grpc_adapter.NewServer(
		grpc_adapter.NewGrpcServer(coreUseCase, location),
		log.With().Str("component", "grpc").Logger(),
		grpc_adapter.ServerOptions{
			RequestTimeout: cfg.Server.RequestTimeout,
			RateLimit:      cfg.Server.RateLimit,
			RateBurst:      cfg.Server.RateBurst,
		},
	)
	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.Server.GRPCAddr).Msg("failed to listen")
	}
	go func() {
		log.Info().Str("addr", cfg.Server.GRPCAddr).Msg("starting gRPC server")
		if err := grpcServer.Serve(lis); err != nil {
			log.Fatal().Err(err).Msg("gRPC server failed")
		}
	}()

	// 5. 營運 HTTP (健康檢查、餘額、對帳)
	httpServer := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           httpapi.NewRouter(httpapi.NewHandler(coreUseCase, reconciler, log.With().Str("component", "http").Logger())),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("addr", cfg.Server.HTTPAddr).Msg("starting ops HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ops HTTP server failed")
		}
	}()

	// 6. 定期對帳
	var sched *scheduler.Scheduler
	if cfg.Reconcile.Schedule != "" {
		sched, err = scheduler.New(reconciler, cfg.Reconcile.Schedule, time.Minute, log.With().Str("component", "scheduler").Logger())
		if err != nil {
			log.Fatal().Err(err).Msg("failed to schedule reconciliation")
		}
		sched.Start()
		log.Info().Str("schedule", cfg.Reconcile.Schedule).Msg("reconciliation scheduled")
	}

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	healthServer.Shutdown()
	if sched != nil {
		if err := sched.Stop(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("reconciliation did not stop in time")
		}
	}
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("ops HTTP shutdown failed")
	}
	grpcServer.GracefulStop()
	log.Info().Msg("server exited")
}

// openStorage 依 storage.driver 建立 UnitOfWork，回傳的 close 函式負責釋放資源
func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (usecase.UnitOfWork, func(), error) {
	switch cfg.Storage.Driver {
	case config.StorageMySQL:
		dbClient, err := mysql.NewClient(ctx, cfg.MySQL, log.With().Str("component", "mysql").Logger())
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("host", cfg.MySQL.Host).Str("db", cfg.MySQL.DBName).Msg("connected to MySQL")

		ledger := mysql_adapter.NewMySQLLedger(dbClient)
		if cfg.MySQL.AutoMigrate {
			if err := ledger.Migrate(ctx); err != nil {
				_ = dbClient.Close()
				return nil, nil, err
			}
			log.Info().Msg("schema migrated")
		}
		return ledger, func() { _ = dbClient.Close() }, nil

	case config.StorageMemory:
		opts := []memory_adapter.Option{
			memory_adapter.WithLogger(log.With().Str("component", "memory").Logger()),
		}
		closeWAL := func() {}
		if cfg.Storage.WALPath != "" {
			if err := os.MkdirAll(filepath.Dir(cfg.Storage.WALPath), 0o755); err != nil {
				return nil, nil, err
			}
			walFile, err := wal.Open(cfg.Storage.WALPath)
			if err != nil {
				return nil, nil, err
			}
			opts = append(opts, memory_adapter.WithWAL(walFile))
			closeWAL = func() { _ = walFile.Close() }
		} else {
			log.Warn().Msg("memory storage without WAL, state is lost on exit")
		}

		store, err := memory_adapter.NewStore(opts...)
		if err != nil {
			closeWAL()
			return nil, nil, err
		}
		accounts, trxns := store.Snapshot()
		log.Info().Int("accounts", len(accounts)).Int("transactions", len(trxns)).Msg("memory storage ready")
		return store, closeWAL, nil
	}
	return nil, nil, errors.New("unknown storage driver " + cfg.Storage.Driver)
}
