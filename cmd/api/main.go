package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/edu-ti/BidFlow-CRM/internal/api"
	"github.com/edu-ti/BidFlow-CRM/internal/api/handler"
	"github.com/edu-ti/BidFlow-CRM/internal/core/service"
	"github.com/edu-ti/BidFlow-CRM/internal/infrastructure/config"
	mongostore "github.com/edu-ti/BidFlow-CRM/internal/infrastructure/db/mongo"
	redisstore "github.com/edu-ti/BidFlow-CRM/internal/infrastructure/db/redis"
	"github.com/edu-ti/BidFlow-CRM/internal/infrastructure/queue"
	"github.com/edu-ti/BidFlow-CRM/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title                       BidFlow CRM Access Gateway
// @version                     1.0
// @description                 Session, role and navigation gateway for the BidFlow CRM.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	boot := logger.Init(logger.Options{Level: os.Getenv("LOG_LEVEL"), Service: "bidflow-api"})
	if err := run(ctx, boot); err != nil {
		boot.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, log zerolog.Logger) error {
	cfg, err := config.Load(ctx, log)
	if err != nil {
		return err
	}
	if cfg.IsDevelopment() {
		logger.Reset()
		log = logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Service: "bidflow-api"})
	}

	// --- Storage ---
	mongoClient, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()
	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		return err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("mongodb connected")

	rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer func() { _ = rdb.Close() }()
	log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")

	// --- Services ---
	handles := redisstore.NewHandleStore(rdb)
	teamRepo := mongostore.NewTeamRepository(db)
	authService := service.NewAuthService(mongostore.NewUserRepository(db), handles, cfg.JWTSecret, cfg.Session.TTL)
	auditService := service.NewAuditService(mongostore.NewAuditRepository(db), logger.Component("audit"))

	factory := service.NewSessionFactory(
		authService,
		teamRepo,
		service.NewNavigator(),
		cfg.Session.SuperAdminIdentifiers,
		logger.Component("session"),
	)
	sessions := service.NewSessionRegistry(factory, cfg.Session.Capacity, cfg.Session.TTL, logger.Component("registry"))
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, auditService, logger.Component("dispatcher"))

	e := api.NewRouter(api.Dependencies{
		JWTSecret:      cfg.JWTSecret,
		Development:    cfg.IsDevelopment(),
		LoginRateLimit: cfg.Session.LoginRateLimit,
		Auth:           authService,
		Sessions:       sessions,
		Handles:        handles,
		Team:           service.NewTeamService(teamRepo, logger.Component("team")),
		Theme:          service.NewThemeService(redisstore.NewPreferenceStore(rdb)),
		Audit:          auditService,
		Dispatcher:     dispatcher,
		Checks: []handler.DependencyCheck{
			{Name: "mongodb", Ping: func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) }},
			{Name: "redis", Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }},
		},
		Log: logger.Component("http"),
	})

	// --- Lifecycle ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return dispatcher.Run(gctx)
	})

	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
