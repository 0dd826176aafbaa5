// Package main - точка входа приложения Study Tracker Hub.
//
// Трекер ведёт журнал учебных сессий одного аккаунта и считает по нему
// производные представления: серии дней, прогресс целей, достижения,
// аналитику. Вся история хранится одним документом; каждая мутация
// переписывает документ целиком.
//
// Архитектура следует принципам Clean Architecture и DDD:
// - Domain: чистая бизнес-логика без внешних зависимостей
// - Application: однопоточный store, команды и запросы, pomodoro-таймер
// - Infrastructure: PostgreSQL-документ, Redis-кеш, event bus
// - Interface: REST API, текстовый отчёт, лента уведомлений
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/study-hub/study-tracker-hub/config"
	"github.com/study-hub/study-tracker-hub/internal/application/command"
	"github.com/study-hub/study-tracker-hub/internal/application/pomodoro"
	"github.com/study-hub/study-tracker-hub/internal/application/query"
	"github.com/study-hub/study-tracker-hub/internal/application/store"
	"github.com/study-hub/study-tracker-hub/internal/domain/shared"
	"github.com/study-hub/study-tracker-hub/internal/domain/tracker"
	"github.com/study-hub/study-tracker-hub/internal/infrastructure/messaging"
	"github.com/study-hub/study-tracker-hub/internal/infrastructure/persistence/postgres"
	"github.com/study-hub/study-tracker-hub/internal/infrastructure/persistence/redis"
	httpserver "github.com/study-hub/study-tracker-hub/internal/interface/http"
	"github.com/study-hub/study-tracker-hub/internal/interface/notify"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. ЗАГРУЗКА КОНФИГУРАЦИИ
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. НАСТРОЙКА ЛОГИРОВАНИЯ
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	log.Info("starting Study Tracker Hub",
		"env", string(cfg.App.Environment),
		"version", cfg.App.Version,
		"account_id", cfg.Tracker.AccountID,
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ПОДКЛЮЧЕНИЕ К БАЗЕ ДАННЫХ (PostgreSQL)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database...")
	pgConfig := postgres.DefaultConfig()
	pgConfig.Host = cfg.Database.Host
	pgConfig.Port = cfg.Database.Port
	pgConfig.User = cfg.Database.User
	pgConfig.Password = cfg.Database.Password
	pgConfig.Database = cfg.Database.Name
	pgConfig.SSLMode = cfg.Database.SSLMode
	pgConfig.MaxConns = int32(cfg.Database.MaxConns)
	pgConfig.MinConns = int32(cfg.Database.MinConns)
	pgConfig.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	pgConfig.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime
	pgConfig.ConnectTimeout = cfg.Database.ConnectTimeout
	pgConfig.QueryTimeout = cfg.Database.QueryTimeout

	dbConn, err := postgres.NewConnection(ctx, pgConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection...")
		dbConn.Close()
	}()
	log.Info("database connection established")

	// ─────────────────────────────────────────────────────────────────────────
	// 4. ЗАПУСК МИГРАЦИЙ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("running database migrations...")
	migrator := postgres.NewMigrator(dbConn)
	if err := migrator.Migrate(ctx, postgres.GetMigrations()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("migrations completed")

	// ─────────────────────────────────────────────────────────────────────────
	// 5. ИНИЦИАЛИЗАЦИЯ REDIS (опционально)
	// ─────────────────────────────────────────────────────────────────────────
	var (
		redisCache    *redis.Cache
		snapshotCache tracker.SnapshotCache
		pubsubClient  *redis.PubSubClient
	)

	if !cfg.Redis.Disabled {
		log.Info("connecting to Redis...")
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCfg.PoolSize = cfg.Redis.PoolSize
		redisCfg.MinIdleConns = cfg.Redis.MinIdleConns
		redisCfg.DialTimeout = cfg.Redis.DialTimeout
		redisCfg.ReadTimeout = cfg.Redis.ReadTimeout
		redisCfg.WriteTimeout = cfg.Redis.WriteTimeout

		redisCache, err = redis.NewCache(redisCfg)
		if err != nil {
			log.Warn("failed to connect to Redis, caching disabled", "error", err)
			redisCache = nil
		} else {
			defer redisCache.Close()
			snapshotCache = redis.NewSnapshotCache(redisCache)
			pubsubClient = redis.NewPubSubClient(redisCache)
			log.Info("Redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. ИНИЦИАЛИЗАЦИЯ EVENT BUS
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing event bus...")
	localBus := messaging.NewInMemoryEventBus(messaging.InMemoryEventBusConfig{
		Logger: log,
	})
	defer func() {
		log.Info("closing event bus...")
		_ = localBus.Close()
	}()

	var bus shared.EventBus = localBus
	if pubsubClient != nil && cfg.Features.IsEnabled(config.FeatureExperimentalEventMirror) {
		redisBus := messaging.NewRedisEventBus(pubsubClient, localBus, messaging.RedisEventBusConfig{
			Logger: log,
		})
		if err := redisBus.Start(ctx); err != nil {
			log.Warn("failed to start Redis event mirror", "error", err)
		} else {
			defer func() { _ = redisBus.Close() }()
			bus = redisBus
			log.Info("Redis event mirror enabled")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 7. ИНИЦИАЛИЗАЦИЯ STORE
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing account store...")
	snapshotRepo := postgres.NewSnapshotRepository(dbConn)

	accountStore := store.New(store.Config{
		AccountID:   cfg.Tracker.AccountID,
		PushTimeout: cfg.Tracker.PushTimeout,
	}, snapshotRepo, snapshotCache, bus, log)

	if err := accountStore.Load(ctx); err != nil {
		return fmt.Errorf("failed to load account snapshot: %w", err)
	}
	accountStore.Start()
	defer func() {
		log.Info("closing account store...")
		accountStore.Close()
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 8. ИНИЦИАЛИЗАЦИЯ APPLICATION LAYER (Commands, Queries)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing application layer...")

	logSessionCmd := command.NewLogSessionHandler(accountStore)
	deleteSessionCmd := command.NewDeleteSessionHandler(accountStore)
	saveTopicCmd := command.NewSaveTopicHandler(accountStore)
	setTopicStatusCmd := command.NewSetTopicStatusHandler(accountStore)
	deleteTopicCmd := command.NewDeleteTopicHandler(accountStore)
	setGoalsCmd := command.NewSetGoalsHandler(accountStore)

	dashboardQuery := query.NewGetDashboardHandler(accountStore)
	analyticsQuery := query.NewGetAnalyticsHandler(accountStore)
	achievementsQuery := query.NewGetAchievementsHandler(accountStore)
	listSessionsQuery := query.NewListSessionsHandler(accountStore)
	listTopicsQuery := query.NewListTopicsHandler(accountStore)
	reportQuery := query.NewGetReportDataHandler(accountStore)

	// ─────────────────────────────────────────────────────────────────────────
	// 9. ИНИЦИАЛИЗАЦИЯ POMODORO-ТАЙМЕРА
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing pomodoro timer...")
	timer := pomodoro.New(pomodoro.Config{
		DurationSeconds:   cfg.Pomodoro.DurationSeconds,
		TickInterval:      cfg.Pomodoro.TickInterval,
		CompletionTimeout: cfg.Pomodoro.CompletionTimeout,
	}, cfg.Tracker.AccountID, logSessionCmd, pomodoro.NewTickerScheduler(), bus, log)
	defer timer.Close()

	// ─────────────────────────────────────────────────────────────────────────
	// 10. РЕГИСТРАЦИЯ УВЕДОМЛЕНИЙ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("registering notification center...")
	notifications := notify.NewCenter(notify.Config{
		TTL:        cfg.Notifications.TTL,
		MaxEntries: cfg.Notifications.MaxEntries,
	}, log)
	if err := notifications.Register(bus); err != nil {
		return fmt.Errorf("failed to register notifications: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 11. СОЗДАНИЕ HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing HTTP server...")

	httpConfig := httpserver.DefaultConfig()
	httpConfig.Host = cfg.HTTP.Host
	httpConfig.Port = cfg.HTTP.Port
	httpConfig.ReadTimeout = cfg.HTTP.ReadTimeout
	httpConfig.WriteTimeout = cfg.HTTP.WriteTimeout
	httpConfig.IdleTimeout = cfg.HTTP.IdleTimeout
	httpConfig.EnableCORS = cfg.HTTP.EnableCORS
	httpConfig.AllowedOrigins = cfg.HTTP.AllowedOrigins
	httpConfig.RateLimitPerMinute = cfg.HTTP.RateLimitPerMinute

	httpServer := httpserver.NewServer(httpConfig, httpserver.Dependencies{
		LogSession:     logSessionCmd,
		DeleteSession:  deleteSessionCmd,
		SaveTopic:      saveTopicCmd,
		SetTopicStatus: setTopicStatusCmd,
		DeleteTopic:    deleteTopicCmd,
		SetGoals:       setGoalsCmd,

		GetDashboard:    dashboardQuery,
		GetAnalytics:    analyticsQuery,
		GetAchievements: achievementsQuery,
		ListSessions:    listSessionsQuery,
		ListTopics:      listTopicsQuery,
		GetReportData:   reportQuery,

		Timer:         timer,
		Notifications: notifications,
		HealthChecker: &healthChecker{db: dbConn, cache: redisCache},
		Logger:        log,
	})

	// ─────────────────────────────────────────────────────────────────────────
	// 12. ЗАПУСК СЕРВИСОВ
	// ─────────────────────────────────────────────────────────────────────────
	errCh := make(chan error, 1)

	go func() {
		log.Info("starting HTTP server", "address", httpServer.Address())
		if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 13. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("Study Tracker Hub is running",
		"http_address", httpServer.Address(),
		"account_id", cfg.Tracker.AccountID,
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		log.Error("service error", "error", err)
		return err
	}

	log.Info("starting graceful shutdown...", "timeout", cfg.App.ShutdownTimeout.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop HTTP server gracefully", "error", err)
	}

	// Таймер, store, event bus и соединения закрываются через defer в
	// обратном порядке: сначала прекращаем принимать команды, затем
	// даём store дожать очередь и последний snapshot push.
	log.Info("shutdown completed")
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// setupLogger настраивает структурированное логирование.
func setupLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Observability.LogLevel),
	}
	if cfg.App.Debug {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	if cfg.Observability.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	log := slog.New(handler)
	slog.SetDefault(log)

	return log
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// ADAPTERS
// ══════════════════════════════════════════════════════════════════════════════

// healthChecker reports component health for the /health endpoint.
type healthChecker struct {
	db    *postgres.Connection
	cache *redis.Cache
}

// Check implements httpserver.HealthChecker.
func (h *healthChecker) Check(ctx context.Context) map[string]string {
	components := make(map[string]string)

	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			components["postgres"] = "unhealthy: " + err.Error()
		} else {
			components["postgres"] = "healthy"
		}
	}

	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			components["redis"] = "unhealthy: " + err.Error()
		} else {
			components["redis"] = "healthy"
		}
	}

	return components
}
