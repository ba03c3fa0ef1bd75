package server

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"cadastro/internal/domain/auth"
	"cadastro/internal/domain/funcionario"
	"cadastro/internal/platform/config"
	"cadastro/internal/platform/db"
	"cadastro/internal/platform/metrics"
	"cadastro/internal/session"
	"cadastro/internal/transport/http/api"
	authhandler "cadastro/internal/transport/http/handlers/auth"
	funcionariohandler "cadastro/internal/transport/http/handlers/funcionario"
	"cadastro/internal/transport/http/middleware"
)

type App struct {
	Config   config.Config
	Pool     *pgxpool.Pool
	Sessions session.Store
	Metrics  *metrics.Collector
	Router   http.Handler

	closers []func()
}

// New wires the whole application; tests mount App.Router on httptest.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect failed: %w", err)
	}

	app := &App{Config: cfg, Pool: pool}
	app.closers = append(app.closers, pool.Close)

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			app.Close()
			return nil, fmt.Errorf("migrations failed: %w", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			app.Close()
			return nil, fmt.Errorf("seed failed: %w", err)
		}
	}

	if err := app.initSessions(ctx, cfg); err != nil {
		app.Close()
		return nil, err
	}

	if cfg.MetricsEnabled {
		app.Metrics = metrics.New()
	}

	app.Router = app.buildRouter(cfg)
	return app, nil
}

func (a *App) initSessions(ctx context.Context, cfg config.Config) error {
	if cfg.SessionRedisAddr == "" {
		mem := session.NewMemoryStore(cfg.SessionSweepInterval)
		a.Sessions = mem
		a.closers = append(a.closers, mem.Close)
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.SessionRedisAddr,
		Password: cfg.SessionRedisPassword,
		DB:       cfg.SessionRedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connect failed: %w", err)
	}
	a.Sessions = session.NewRedisStore(client, "")
	a.closers = append(a.closers, func() {
		if err := client.Close(); err != nil {
			slog.Error("redis close failed", "err", err)
		}
	})
	return nil
}

func (a *App) buildRouter(cfg config.Config) http.Handler {
	users := auth.NewStore(a.Pool)
	verifier := auth.NewVerifier(cfg.AuthTokenSecret)
	service := funcionario.NewService(funcionario.NewStore(a.Pool))

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logging(a.Metrics))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Session(a.Sessions, cfg.SessionTTL))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.Pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if a.Metrics != nil {
		router.Get("/metricsz", func(w http.ResponseWriter, r *http.Request) {
			api.WriteJSON(w, http.StatusOK, a.Metrics.Snapshot())
		})
	}

	router.Route("/api", func(r chi.Router) {
		authHandler := authhandler.NewHandler(users, a.Sessions, verifier, cfg.SessionTTL, cfg.IsProduction())
		r.With(middleware.RateLimit(cfg.LoginRatePerMinute, time.Minute)).
			Post("/auth/login", authHandler.HandleLogin)
		r.Post("/auth/logout", authHandler.HandleLogout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/auth/me", authHandler.HandleMe)
			funcionariohandler.NewHandler(service, cfg.ExportMaxRecords).RegisterRoutes(r)
		})
	})

	return router
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func Run() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg := config.Load()
	app, err := New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer app.Close()

	log.Printf("cadastro server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, app.Router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
