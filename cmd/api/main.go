package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"funkosrest/internal/auth"
	"funkosrest/internal/cache"
	"funkosrest/internal/config"
	"funkosrest/internal/database"
	"funkosrest/internal/dto"
	"funkosrest/internal/httpserver"
	"funkosrest/internal/logger"
	"funkosrest/internal/notification"
	"funkosrest/internal/repository"
	"funkosrest/internal/service"
	"funkosrest/internal/session"
	"funkosrest/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Sugar().Fatalw("config", "error", err)
	}
	lg := logger.New(cfg.LogLevel, cfg.IsDev())
	defer lg.Sync()

	db, err := database.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		lg.Fatalw("db connect failed", "error", err)
	}
	defer database.Close(db)
	if err := database.Migrate(db); err != nil {
		lg.Fatalw("migrate failed", "error", err)
	}
	if cfg.Seed {
		admin := database.AdminSeed{Username: cfg.AdminUsername, Email: cfg.AdminEmail, Password: cfg.AdminPassword}
		if err := database.Seed(context.Background(), db, admin, lg); err != nil {
			lg.Fatalw("seed failed", "error", err)
		}
	}

	var (
		rdb      *redis.Client
		broker   notification.Broker = notification.NewLocalBroker()
		sessions session.Store       = session.NewMemoryStore()
	)
	if cfg.RedisAddr != "" {
		rdb, err = cache.Connect(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			lg.Fatalw("redis connect failed", "addr", cfg.RedisAddr, "error", err)
		}
		defer rdb.Close()
		broker = notification.NewRedisBroker(rdb)
		sessions = session.NewRedisStore(rdb)
		lg.Infow("redis enabled", "addr", cfg.RedisAddr)
	}

	files, err := openStorage(cfg)
	if err != nil {
		lg.Fatalw("storage init failed", "backend", cfg.StorageBackend, "error", err)
	}

	categories := service.NewCategoryService(repository.NewCategoryRepository(db, nil), lg)
	users := service.NewUserService(repository.NewUserRepository(db, nil), lg)
	funkos := service.NewFunkoService(service.FunkoDeps{
		Repo:       repository.NewFunkoRepository(db, nil),
		Categories: categories,
		Broker:     broker,
		Cache:      cache.NewEntity[dto.FunkoResponse](rdb, "funkos:", cfg.CacheTTL, lg),
		Files:      files,
		Log:        lg,
	})
	jwtSvc := auth.NewJWTService(cfg.JWTSecret, cfg.JWTExpiresIn)

	router := httpserver.NewRouter(httpserver.Deps{
		Categories:      categories,
		Funkos:          funkos,
		Users:           users,
		Auth:            service.NewAuthService(users, jwtSvc, lg),
		JWT:             jwtSvc,
		Sessions:        session.NewManager(sessions, cfg.SessionTTL, !cfg.IsDev()),
		Broker:          broker,
		Files:           files,
		SignInPerMinute: cfg.SigninRate,
		TrustProxy:      cfg.TrustProxy,
	}, lg)

	srv := httpserver.NewServer(cfg.Addr(), router)

	go func() {
		lg.Infow("listening", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	lg.Infow("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		lg.Errorw("shutdown", "error", err)
	}
}

func openStorage(cfg *config.Config) (storage.Service, error) {
	if cfg.StorageBackend == "s3" {
		return storage.NewS3(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.StoragePublicURL)
	}
	public := cfg.StoragePublicURL
	if public == "" {
		public = "http://localhost:" + cfg.Port + "/storage"
	}
	return storage.NewFileSystem(cfg.StorageDir, public)
}
