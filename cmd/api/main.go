// @title        Members Only
// @version      1.0
// @description  Membership-gated web application: sign-up, log-in, sessions and member-only pages.
// @BasePath     /
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/sirpyerre/members-only/internal/api"
	"github.com/sirpyerre/members-only/internal/api/handler"
	"github.com/sirpyerre/members-only/internal/api/middleware"
	"github.com/sirpyerre/members-only/internal/core/ports"
	"github.com/sirpyerre/members-only/internal/core/service"
	mongostore "github.com/sirpyerre/members-only/internal/infrastructure/db/mongo"
	"github.com/sirpyerre/members-only/internal/infrastructure/db/postgres"
	redisstore "github.com/sirpyerre/members-only/internal/infrastructure/db/redis"
	"github.com/sirpyerre/members-only/internal/infrastructure/queue"
	"github.com/sirpyerre/members-only/internal/pkg/config"
	"github.com/sirpyerre/members-only/pkg/logger"
)

const (
	shutdownTimeout      = 10 * time.Second
	sessionPurgeInterval = time.Hour
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat(),
		Fields: map[string]string{"service": "members-only", "env": cfg.Env},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Relational store ---
	db, err := postgres.Connect(ctx, postgres.Config{
		DSN:          cfg.Postgres.DSN,
		MaxOpenConns: cfg.Postgres.MaxOpenConns,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		return err
	}
	log.Info().Msg("postgres ready")

	// --- Audit trail ---
	mongoClient, mongoDB, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := mongostore.Disconnect(mongoClient); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()

	auditRepo := mongostore.NewAuditRepository(mongoDB)
	if err := auditRepo.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("audit index creation failed")
	}
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, auditRepo, log)
	dispatcher.Start()

	checks := map[string]handler.Check{
		"postgres": handler.PostgresCheck(db),
		"mongodb":  handler.MongoCheck(mongoDB),
	}

	// --- Sessions ---
	var sessions ports.SessionStore
	switch cfg.Session.Backend {
	case config.SessionBackendPostgres:
		pgSessions := postgres.NewSessionStore(db)
		go purgeSessions(ctx, pgSessions, log)
		sessions = pgSessions
	default:
		rdb, err := redisstore.Connect(ctx, redisstore.Config{
			URL:      cfg.Redis.URL,
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
			Timeout:  cfg.Redis.Timeout,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		checks["redis"] = handler.RedisCheck(rdb)
		sessions = redisstore.NewSessionStore(rdb)
	}
	log.Info().Str("backend", cfg.Session.Backend).Msg("session store ready")

	// --- Services ---
	users := postgres.NewUserRepository(db)
	authService := service.NewAuthService(
		users,
		sessions,
		service.NewBcryptHasher(cfg.Session.BcryptCost),
		dispatcher,
		cfg.Session.TTL,
		log,
	)
	membershipService := service.NewMembershipService(users, cfg.Membership.Secret, dispatcher, log)

	e := api.NewRouter(api.Dependencies{
		AuthService:       authService,
		MembershipService: membershipService,
		Cookies: middleware.NewSessionCookies(
			middleware.NewCookieCodec(cfg.Session.Secret),
			cfg.Session.CookieSecure,
		),
		HealthChecks: checks,
		Log:          log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := dispatcher.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("audit dispatcher did not drain")
	}
	log.Info().Msg("server stopped")
	return nil
}

// purgeSessions removes expired rows from the sessions table until ctx ends.
func purgeSessions(ctx context.Context, store *postgres.SessionStore, log zerolog.Logger) {
	ticker := time.NewTicker(sessionPurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.Purge(ctx)
			if err != nil && !errors.Is(err, sql.ErrConnDone) {
				log.Warn().Err(err).Msg("session purge failed")
				continue
			}
			if n > 0 {
				log.Debug().Int64("deleted", n).Msg("expired sessions purged")
			}
		}
	}
}
