package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/driver/sqliteshim"

	store "github.com/tsubame-dev/store-api"
	"github.com/tsubame-dev/store-api/repository"
	"github.com/tsubame-dev/store-api/server"
)

func main() {
	logger := store.NewDefaultLogger()

	cfg, err := store.NewConfigFromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := openDatabase(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	if err := store.CreateSchema(ctx, db); err != nil {
		log.Fatalf("schema: %v", err)
	}
	if err := store.SeedUsers(ctx, db, store.DefaultSeedUsers); err != nil {
		log.Fatalf("seed: %v", err)
	}

	var repoOpts []repository.Option
	if cfg.GetStrictFields() {
		repoOpts = append(repoOpts, repository.WithStrictFields(true))
	}

	repos := store.NewRepositoryManager(db, repoOpts...)
	repos.MustValidate()

	sink := store.NewAuditLogSink(db, logger)

	provider := store.NewUserProvider(repos.Users()).WithLogger(logger)
	auther := store.NewAuthenticator(provider, cfg).
		WithLogger(logger).
		WithActivitySink(sink)

	srv := server.New(cfg, repos, auther,
		server.WithLogger(logger),
		server.WithActivitySink(sink),
	)

	go func() {
		if err := srv.Listen(); err != nil {
			log.Fatalf("server: %v", err)
		}
	}()

	logger.Info("listening on %s", cfg.GetListenAddr())

	waitExitSignal()

	if err := srv.Shutdown(); err != nil {
		logger.Error("shutdown error: %v", err)
	}
}

func openDatabase(cfg *store.Config) (*bun.DB, error) {
	if cfg.IsPostgres() {
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.GetDatabaseURL())))
		return bun.NewDB(sqldb, pgdialect.New()), nil
	}

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.GetDatabaseURL())
	if err != nil {
		return nil, err
	}
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

func waitExitSignal() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
}
