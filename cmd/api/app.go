package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/learnify-engine/internal/adapters/cache"
	adapterHTTP "github.com/comitanigiacomo/learnify-engine/internal/adapters/handler/http"
	"github.com/comitanigiacomo/learnify-engine/internal/adapters/realtime"
	"github.com/comitanigiacomo/learnify-engine/internal/adapters/repository"
	"github.com/comitanigiacomo/learnify-engine/internal/config"
	"github.com/comitanigiacomo/learnify-engine/internal/core/domain"
	"github.com/comitanigiacomo/learnify-engine/internal/core/services"
	"github.com/comitanigiacomo/learnify-engine/internal/core/workers"
)

// app is the wired engine. close releases what build opened, in reverse order.
type app struct {
	router  *gin.Engine
	worker  *workers.StreakWorker
	hub     *realtime.Hub
	closers []func(ctx context.Context) error
}

func (a *app) close(ctx context.Context, logger *zap.Logger) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			logger.Warn("shutdown step failed", zap.Error(err))
		}
	}
}

type habitStores struct {
	habits  domain.HabitRepository
	entries domain.HabitEntryRepository
	users   domain.UserRepository
	db      *sqlx.DB
}

func openHabitStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*habitStores, error) {
	if cfg.Database.Driver == config.HabitStoreMemory {
		logger.Warn("habit store is in memory, data is lost on restart")
		return &habitStores{
			habits:  repository.NewInMemoryHabitRepository(),
			entries: repository.NewInMemoryEntryRepository(),
			users:   repository.NewInMemoryUserRepository(),
		}, nil
	}

	logger.Info("connecting to database", zap.String("host", cfg.Database.Host), zap.String("name", cfg.Database.Name))
	db, err := sqlx.ConnectContext(ctx, "pgx", cfg.PostgresDSN())
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := repository.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return &habitStores{
		habits:  repository.NewPostgresHabitRepository(db),
		entries: repository.NewPostgresEntryRepository(db),
		users:   repository.NewPostgresUserRepository(db.DB),
		db:      db,
	}, nil
}

func openDocumentStore(ctx context.Context, cfg *config.Config, a *app) (domain.DocumentStore, error) {
	switch cfg.Documents.Store {
	case config.DocumentStoreGorm:
		db, err := repository.OpenGorm(cfg.Documents.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open document database: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return sqlDB.Close() })
		return repository.NewGormDocumentStore(db)
	case config.DocumentStoreMongo:
		store, err := repository.ConnectMongo(ctx, cfg.Documents.MongoURI, cfg.Documents.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		a.closers = append(a.closers, store.Close)
		return store, nil
	default:
		return repository.NewInMemoryDocumentStore(), nil
	}
}

// build wires the engine from cfg. The streak worker is created but not started.
func build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	a := &app{}
	fail := func(err error) (*app, error) {
		a.close(context.Background(), logger)
		return nil, err
	}

	stores, err := openHabitStores(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	if stores.db != nil {
		a.closers = append(a.closers, func(context.Context) error { return stores.db.Close() })
	}

	documents, err := openDocumentStore(ctx, cfg, a)
	if err != nil {
		return fail(err)
	}

	var habitRepo domain.HabitRepository = stores.habits
	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = cache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return fail(err)
		}
		a.closers = append(a.closers, func(context.Context) error { return rdb.Close() })

		ttl := config.Duration(cfg.Redis.CacheTTL)
		habitRepo = repository.NewCachedHabitRepository(habitRepo, cache.NewJSONCache(rdb, "habits", ttl), logger)
		documents = repository.NewCachedDocumentStore(documents, cache.NewJSONCache(rdb, "docs", ttl), logger)
		logger.Info("redis cache enabled", zap.Duration("ttl", ttl))
	}

	a.hub = realtime.NewHub(cfg.Server.AllowedOrigins, logger)
	a.closers = append(a.closers, func(context.Context) error { a.hub.Close(); return nil })

	profileService := services.NewProfileService(documents, stores.users, logger)
	a.worker = workers.NewStreakWorker(habitRepo, stores.entries, profileService, logger, cfg.Worker.QueueSize)

	tokenService := services.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, config.Duration(cfg.Auth.TokenTTL), stores.users)
	authService := services.NewAuthService(stores.users, tokenService)
	habitService := services.NewHabitService(habitRepo, stores.entries, a.worker, profileService)
	entryService := services.NewEntryService(stores.entries, habitRepo, a.worker, profileService)
	statsService := services.NewStatsService(habitRepo, stores.entries, profileService)
	taskService := services.NewTaskService(documents, profileService, logger)
	noteService := services.NewNoteService(documents, profileService, logger)
	plannerService := services.NewPlannerService(documents, logger)
	focusService := services.NewFocusService(documents, logger)
	groupService := services.NewGroupService(documents, stores.users, a.hub, logger)
	dashboardService := services.NewDashboardService(habitService, taskService, focusService)

	deps := adapterHTTP.RouterDependencies{
		AuthHandler:      adapterHTTP.NewAuthHandler(authService),
		HabitHandler:     adapterHTTP.NewHabitHandler(habitService, statsService),
		EntryHandler:     adapterHTTP.NewEntryHandler(entryService),
		StatsHandler:     adapterHTTP.NewStatsHandler(statsService),
		TaskHandler:      adapterHTTP.NewTaskHandler(taskService),
		NoteHandler:      adapterHTTP.NewNoteHandler(noteService),
		PlannerHandler:   adapterHTTP.NewPlannerHandler(plannerService),
		FocusHandler:     adapterHTTP.NewFocusHandler(focusService),
		ProfileHandler:   adapterHTTP.NewProfileHandler(profileService),
		GroupHandler:     adapterHTTP.NewGroupHandler(groupService, a.hub),
		DashboardHandler: adapterHTTP.NewDashboardHandler(dashboardService),
		Tokens:           tokenService,
		Logger:           logger,
		Redis:            rdb,
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		RateLimit:        cfg.RateLimit.Requests,
		RateWindow:       config.Duration(cfg.RateLimit.Window),
		StartTime:        time.Now(),
	}
	if stores.db != nil {
		deps.DB = stores.db
	}

	a.router = adapterHTTP.NewRouter(deps)
	return a, nil
}
