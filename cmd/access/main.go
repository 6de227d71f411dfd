package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/milliihq/access/pkg/config"
	"github.com/milliihq/access/pkg/guard"
	"github.com/milliihq/access/pkg/httputil"
	"github.com/milliihq/access/pkg/nav"
	"github.com/milliihq/access/pkg/observability"
	"github.com/milliihq/access/pkg/rbac"
	"github.com/milliihq/access/pkg/session"
	"github.com/milliihq/access/pkg/store"
)

func main() {
	// Startup diagnostics go through logrus; once the structured logger is
	// up everything else logs JSON.
	startupLog := logrus.New()
	startupLog.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.LoadConfig()
	if err != nil {
		startupLog.WithError(err).Fatal("Failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		startupLog.WithError(err).Fatal("Invalid configuration")
	}

	log := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout)

	if err := run(cfg, log, startupLog); err != nil {
		startupLog.WithError(err).Fatal("Server exited with error")
	}
}

func run(cfg *config.Config, log *observability.Logger, startupLog *logrus.Logger) error {
	ctx := context.Background()

	// SQL storage
	db, err := sql.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	if err := rbac.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	startupLog.WithFields(logrus.Fields{
		"driver":    cfg.Database.Driver,
		"max_conns": cfg.Database.MaxOpenConns,
	}).Info("Database ready")

	// Optional redis cache layer
	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:       cfg.Redis.URL,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			MaxRetries: cfg.Redis.MaxRetries,
			PoolSize:   cfg.Redis.PoolSize,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			// Redis is a cache, not a dependency; degrade to LRU+SQL.
			startupLog.WithError(err).Warn("Redis unreachable, continuing without it")
			redisClient = nil
		} else {
			startupLog.WithField("addr", cfg.Redis.URL).Info("Redis cache enabled")
		}
	}

	metrics, registry := observability.NewDefaultMetrics()

	// Permission service
	rbacStore := rbac.NewStore(db)
	serviceOpts := []rbac.ServiceOption{
		rbac.WithLRUSize(cfg.Cache.LRUSize),
		rbac.WithCacheTTL(cfg.Cache.TTL),
		rbac.WithServiceLogger(log),
		rbac.WithServiceMetrics(metrics),
	}
	if redisClient != nil {
		serviceOpts = append(serviceOpts, rbac.WithRedis(redisClient))
	}
	service := rbac.NewService(rbacStore, serviceOpts...)
	handlers := rbac.NewHandlers(service, log)

	// Cache sweep schedule
	scheduler := cron.New()
	if _, err := service.StartSweeper(scheduler, cfg.Cache.SweepSchedule); err != nil {
		return fmt.Errorf("failed to schedule cache sweep: %w", err)
	}
	scheduler.Start()

	// Client-side permission store, wired to the persisted session record.
	// The demo routes below gate on it the same way the web app does.
	events := session.NewEvents()
	records, err := session.NewFileRecordStore(cfg.Client.SessionFile)
	if err != nil {
		return fmt.Errorf("failed to open session record store: %w", err)
	}
	fetcher := store.NewHTTPClient(cfg.Client.ServiceURL, cfg.Client.FetchTimeout)
	permStore := store.New(fetcher, records, events,
		store.WithLogger(log),
		store.WithMetrics(metrics),
	)
	permStore.Initialize(ctx)

	// External edits to the session record re-enter through the same event
	// path a login or logout would take.
	var watcher *session.Watcher
	if cfg.Client.WatchSession {
		watcher, err = session.NewWatcher(records, func() {
			user, err := records.Load()
			if err != nil {
				log.WithError(err).Warn("failed to reload session record")
				return
			}
			if user.HasID() {
				events.EmitLoggedIn(*user)
			} else {
				events.EmitLoggedOut()
			}
		}, startupLog)
		if err != nil {
			return fmt.Errorf("failed to start session watcher: %w", err)
		}
	}

	// Routers
	g := guard.New(permStore,
		guard.WithTargets(guard.Targets{
			Portal:    cfg.Routes.PortalLanding,
			Dashboard: cfg.Routes.DashboardLanding,
		}),
		guard.WithLogger(log),
		guard.WithMetrics(metrics),
	)

	router := mux.NewRouter()
	router.Use(
		httputil.RequestIDMiddleware,
		httputil.LoggingMiddleware(log),
		httputil.RecoveryMiddleware(log),
		httputil.NoStoreMiddleware,
		guard.SessionMiddleware(records),
	)
	handlers.RegisterRoutes(router)
	menu, err := nav.LoadManifestFile(cfg.Routes.NavManifest)
	if err != nil {
		return fmt.Errorf("failed to load navigation manifest: %w", err)
	}
	registerNavRoutes(router, menu, permStore, g)

	healthMux := http.NewServeMux()
	checker := observability.NewHealthChecker(db, redisClient)
	observability.RegisterHealthRoutes(healthMux, checker)
	if cfg.Observability.MetricsEnabled {
		healthMux.Handle("/metrics", observability.Handler(registry))
	}

	apiServer := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	healthServer := &http.Server{
		Addr:    cfg.Server.Host + ":" + cfg.Server.HealthPort,
		Handler: healthMux,
	}

	shutdown := observability.NewShutdownManager(log, apiServer, cfg.Server.ShutdownTimeout)
	shutdown.OnShutdown(func(ctx context.Context) error {
		return healthServer.Shutdown(ctx)
	})
	shutdown.OnShutdown(func(ctx context.Context) error {
		sweepCtx := scheduler.Stop()
		select {
		case <-sweepCtx.Done():
		case <-ctx.Done():
		}
		return nil
	})
	shutdown.OnShutdown(func(context.Context) error {
		if watcher != nil {
			return watcher.Close()
		}
		return nil
	})
	shutdown.OnShutdown(func(context.Context) error { return db.Close() })
	if redisClient != nil {
		shutdown.OnShutdown(func(context.Context) error { return redisClient.Close() })
	}

	var group errgroup.Group
	group.Go(func() error {
		startupLog.WithField("addr", apiServer.Addr).Info("API server listening")
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		startupLog.WithField("addr", healthServer.Addr).Info("Health server listening")
		if err := healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("health server: %w", err)
		}
		return nil
	})
	group.Go(shutdown.WaitForShutdown)

	return group.Wait()
}

type navEntry struct {
	Name  string `json:"name"`
	Route string `json:"route"`
}

// registerNavRoutes exposes the permission-gated surface: the visible
// navigation menu plus a guarded route per menu entry.
func registerNavRoutes(router *mux.Router, menu []nav.Item, permStore *store.Store, g *guard.Guard) {
	router.HandleFunc("/navigation", func(w http.ResponseWriter, r *http.Request) {
		visible := nav.Filter(menu, permStore)
		entries := make([]navEntry, len(visible))
		for i, item := range visible {
			entries[i] = navEntry{Name: item.Name, Route: item.Route}
		}
		w.Header().Set("Cache-Control", "no-store")
		httputil.WriteJSON(w, http.StatusOK, entries)
	}).Methods(http.MethodGet)

	for _, item := range menu {
		item := item
		router.Handle(item.Route, g.Require(item.Requirement)(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				httputil.WriteJSON(w, http.StatusOK, map[string]string{"page": item.Name})
			},
		))).Methods(http.MethodGet)
	}
}
