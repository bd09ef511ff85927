package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	myPostgres "github.com/Miraines/storefront-auth/internal/adapters/db/postgres"
	myRedis "github.com/Miraines/storefront-auth/internal/adapters/db/redis"
	myGrpc "github.com/Miraines/storefront-auth/internal/adapters/transport/grpc"
	myHttp "github.com/Miraines/storefront-auth/internal/adapters/transport/http"
	"github.com/Miraines/storefront-auth/internal/app/auth/jwt"
	"github.com/Miraines/storefront-auth/internal/app/auth/password"
	appsvc "github.com/Miraines/storefront-auth/internal/app/auth/service"
	"github.com/Miraines/storefront-auth/internal/app/health"
	"github.com/Miraines/storefront-auth/internal/domain/auth/repo"
	"github.com/Miraines/storefront-auth/internal/infra/config"
	lg "github.com/Miraines/storefront-auth/internal/infra/log"
	"github.com/Miraines/storefront-auth/internal/infra/migrate"
	"github.com/Miraines/storefront-auth/internal/infra/server"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and gRPC servers",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	zapLog, err := lg.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = zapLog.Sync() }()

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		TranslateError: true,
		Logger:         lg.NewGormLogger(zapLog, 200*time.Millisecond),
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := migrate.Up(sqlDB); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	userRepo := myPostgres.NewPostgresUserRepo(db)
	checker := health.NewChecker(2 * time.Second).Add("postgres", userRepo.Ping)

	var cache repo.IdentityCache
	if cfg.RedisAddress != "" {
		redisCli := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddress,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisCli.Close()

		identityCache := myRedis.NewRedisIdentityCache(redisCli, cfg.ProfileCacheTTL, zapLog)
		checker.Add("redis", identityCache.Ping)
		cache = identityCache
	} else {
		zapLog.Info("REDIS_ADDRESS not set, identity cache disabled")
	}

	svc, err := newService(cfg, userRepo, cache)
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	handler := myHttp.NewHandler(svc, checker, zapLog, prometheus.DefaultRegisterer)
	router := myHttp.NewRouter(handler, svc, myHttp.RouterOptions{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: cfg.AllowCredentials,
		RateLimitRPS:     cfg.RateLimitRPS,
		RateLimitBurst:   cfg.RateLimitBurst,
		Gatherer:         prometheus.DefaultGatherer,
	}, zapLog)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.StartHTTPServer(ctx, cfg, router, zapLog)
	})
	if cfg.GRPCAddress != "" {
		g.Go(func() error {
			return server.StartGRPCServer(ctx, cfg, myGrpc.NewHealthServer(checker, zapLog), zapLog)
		})
	}

	if err := g.Wait(); err != nil {
		zapLog.Error("server terminated", zap.Error(err))
		return err
	}
	zapLog.Info("shutdown complete")
	return nil
}

func newService(cfg *config.Config, users repo.UserRepo, cache repo.IdentityCache) (appsvc.Service, error) {
	hasher, err := password.New(password.Config{
		Algorithm:  cfg.PasswordAlgorithm,
		BcryptCost: cfg.BcryptCost,
		Pepper:     cfg.PasswordPepper,
	})
	if err != nil {
		return nil, fmt.Errorf("password hasher: %w", err)
	}

	tokens, err := jwt.NewJWTUtil(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("token issuer: %w", err)
	}

	return appsvc.New(users, cache, hasher, tokens, validator.New())
}

