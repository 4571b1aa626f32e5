package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"

	"github.com/campushq/campus-admin-api/internal/api"
	"github.com/campushq/campus-admin-api/internal/core/ports"
	"github.com/campushq/campus-admin-api/internal/core/service"
	"github.com/campushq/campus-admin-api/internal/infrastructure/db/memstore"
	mongodb "github.com/campushq/campus-admin-api/internal/infrastructure/db/mongo"
	redisdb "github.com/campushq/campus-admin-api/internal/infrastructure/db/redis"
	"github.com/campushq/campus-admin-api/internal/infrastructure/queue"
	"github.com/campushq/campus-admin-api/internal/pkg/config"
	"github.com/campushq/campus-admin-api/pkg/logger"
)

func main() {
	loadLocalEnv()

	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.Env == "development"})

	ctx := context.Background()

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	var (
		rdb          *goredis.Client
		sessionStore ports.SessionStore      = memstore.New()
		reportStore  ports.ImportReportStore = memstore.NewReportStore()
	)
	if cfg.Redis.Addr != "" {
		rdb, err = redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Fatal().Err(err).Msg("redis connection failed")
		}
		defer func() {
			_ = rdb.Close()
		}()
		sessionStore = redisdb.NewSessionStore(rdb)
		reportStore = redisdb.NewReportStore(rdb)
	} else {
		log.Warn().Msg("REDIS_ADDR not set; sessions will not survive a restart")
	}

	clock := ports.SystemClock{}

	sessions := service.NewSessionService(sessionStore, clock, logger.Component("session"), service.SessionOptions{
		AccessTTL:        cfg.AccessTokenTTL,
		RefreshTTL:       cfg.RefreshTokenTTL,
		SimulatedLatency: cfg.SimulatedLatency,
	})
	courses := service.NewCourseService(mongodb.NewCourseRepository(db), reportStore, clock, logger.Component("courses"))
	catalog := service.NewCatalogService(mongodb.NewModuleRepository(db), logger.Component("catalog"))

	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()
	dispatcher := queue.NewDispatcher(cfg.ImportWorkers, courses, logger.Component("import"))
	dispatcher.Start(workerCtx)

	e := api.NewRouter(api.Deps{
		Sessions:     sessions,
		Courses:      courses,
		Catalog:      catalog,
		SessionStore: sessionStore,
		Clock:        clock,
		Dispatcher:   dispatcher,
		Mongo:        db,
		Redis:        rdb,
		Logger:       logger.Component("http"),
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("campus admin API listening")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server error")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown error")
	}
}

func loadLocalEnv() {
	if err := godotenv.Load(); err == nil {
		return
	}
	// no .env file; rely on the existing environment
}
