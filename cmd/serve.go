package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/dtroode/daytrack-server/database"
	"github.com/dtroode/daytrack-server/internal/api/grpc/health"
	grpcRouter "github.com/dtroode/daytrack-server/internal/api/grpc/router"
	grpcServer "github.com/dtroode/daytrack-server/internal/api/grpc/server"
	httpcontext "github.com/dtroode/daytrack-server/internal/api/http/context"
	httpRouter "github.com/dtroode/daytrack-server/internal/api/http/router"
	httpServer "github.com/dtroode/daytrack-server/internal/api/http/server"
	"github.com/dtroode/daytrack-server/internal/config"
	"github.com/dtroode/daytrack-server/internal/logger"
	"github.com/dtroode/daytrack-server/internal/model"
	"github.com/dtroode/daytrack-server/internal/password"
	"github.com/dtroode/daytrack-server/internal/repository/memory"
	"github.com/dtroode/daytrack-server/internal/repository/postgres"
	"github.com/dtroode/daytrack-server/internal/server"
	"github.com/dtroode/daytrack-server/internal/service"
	storage "github.com/dtroode/daytrack-server/internal/storage/minio"
	"github.com/dtroode/daytrack-server/internal/token"
)

const healthCheckInterval = 5 * time.Second

type serveOptions struct {
	migrate bool
}

func newServeCommand() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the gRPC health server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.migrate, "migrate", false, "apply pending migrations before serving (postgres only)")

	return cmd
}

// stores bundles the persistence layer for one database driver.
type stores struct {
	users      model.UserStore
	records    model.RecordStore
	transactor model.Transactor
	pinger     interface{ Ping(ctx context.Context) error }
	close      func() error
}

func openStores(ctx context.Context, cfg config.Database) (*stores, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		store := memory.NewStore()
		return &stores{
			users:      memory.NewUserRepository(store),
			records:    memory.NewRecordRepository(store),
			transactor: memory.NewTransactor(store),
			pinger:     store,
			close:      store.Close,
		}, nil
	case config.DriverPostgres:
		db, err := postgres.NewConnection(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return &stores{
			users:      postgres.NewUserRepository(db),
			records:    postgres.NewRecordRepository(db),
			transactor: postgres.NewTransactor(db),
			pinger:     db,
			close:      db.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// openArchive returns nil when object storage is disabled, which turns
// import archiving off.
func openArchive(ctx context.Context, cfg config.Storage) (model.Storage, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	client, err := storage.NewFromOptions(ctx, storage.Options{
		Endpoint:  cfg.Endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		Bucket:    cfg.Bucket,
		UseSSL:    cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

func runServe(ctx context.Context, cfg *config.Config, opts *serveOptions) error {
	log := logger.New(cfg.LogLevel)
	log.Info("Starting daytrack server",
		"version", buildVersion,
		"date", buildDate,
		"commit", buildCommit,
		"driver", cfg.Database.Driver)

	if opts.migrate && cfg.Database.Driver == config.DriverPostgres {
		if err := database.Migrate(ctx, cfg.Database.DSN); err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
		log.Info("Migrations applied")
	}

	st, err := openStores(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() {
		if err := st.close(); err != nil {
			log.Error("failed to close storage", "error", err.Error())
		}
	}()

	archive, err := openArchive(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize import archive: %w", err)
	}

	tokenService := service.NewTokenService(token.NewJWT(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL), log)
	authService := service.NewAuth(st.users, password.NewBcrypt(cfg.Bcrypt.Cost), tokenService, log)
	recordService := service.NewRecord(
		st.records,
		st.users,
		st.transactor,
		archive,
		service.RecordLimits{MaxPageSize: cfg.Records.MaxPageSize, MaxBulkSize: cfg.Records.MaxBulkSize},
		log,
	)

	handler := httpRouter.New(authService, recordService, tokenService, httpcontext.NewManager(), st.pinger, log).Register()
	apiServer := httpServer.NewHTTPServer(handler, ":"+cfg.HTTP.Port, httpServer.Options{
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	})

	checker := health.NewChecker(st.pinger, healthCheckInterval, log)
	healthServer := grpcServer.NewGRPCServer(grpcRouter.New(checker.Server(), log).Register(), ":"+cfg.GRPC.Port)

	checkerCtx, stopChecker := context.WithCancel(ctx)
	defer stopChecker()
	go checker.Run(checkerCtx)

	servers := []struct {
		server model.Server
		layer  model.SecurityLayer
	}{
		{server: apiServer, layer: server.NewSecurityLayer(cfg.HTTP)},
		{server: healthServer, layer: server.NewPlainListener()},
	}

	serveErr := make(chan error, len(servers))
	var wg sync.WaitGroup
	for _, s := range servers {
		wg.Add(1)
		go func(s model.Server, layer model.SecurityLayer) {
			defer wg.Done()
			log.Info("Starting server on", "address", s.Address())
			if err := s.Start(layer); err != nil {
				log.Error("failed to start server", "error", err.Error(), "address", s.Address())
				serveErr <- err
			}
		}(s.server, s.layer)
	}

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("received interruption signal, shutting down")
	case runErr = <-serveErr:
		log.Info("server stopped unexpectedly, shutting down")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	for _, s := range servers {
		if err := s.server.Stop(shutdownCtx); err != nil {
			log.Error("error during server shutdown", "error", err.Error(), "address", s.server.Address())
			runErr = errors.Join(runErr, err)
		}
	}

	wg.Wait()
	log.Info("shutdown complete")

	return runErr
}
