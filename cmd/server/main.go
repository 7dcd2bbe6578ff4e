package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/NTying/VideoAppWebAPI/internal/cache"
	"github.com/NTying/VideoAppWebAPI/internal/config"
	apphttp "github.com/NTying/VideoAppWebAPI/internal/http"
	"github.com/NTying/VideoAppWebAPI/internal/repository/sqlite"
	"github.com/NTying/VideoAppWebAPI/internal/service"
	"github.com/NTying/VideoAppWebAPI/internal/token"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		logger.Fatalf("auth jwt secret is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	userRepo := sqlite.NewUserRepository(db)
	roleRepo := sqlite.NewRoleRepository(db)

	if err := userRepo.Init(ctx); err != nil {
		logger.Fatalf("init user repository: %v", err)
	}
	if err := roleRepo.Init(ctx); err != nil {
		logger.Fatalf("init role repository: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Warnf("redis ping: %v", err)
	}
	cancel()

	policy := service.PasswordPolicy{
		MinLength:        cfg.Password.MinLength,
		RequireDigit:     cfg.Password.RequireDigit,
		RequireLowercase: cfg.Password.RequireLowercase,
		RequireUppercase: cfg.Password.RequireUppercase,
		RequireSymbol:    cfg.Password.RequireSymbol,
	}

	creds := service.NewCredentialService(
		userRepo,
		policy,
		cfg.Auth.LockoutThreshold,
		time.Duration(cfg.Auth.LockoutMinutes)*time.Minute,
	)
	roles := service.NewRoleService(roleRepo)
	issuer := token.NewIssuer(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLSeconds)*time.Second)
	sessions := cache.New[string](rdb, cache.StringCodec{}, time.Duration(cfg.Cache.TTLSeconds)*time.Second)

	authService := service.NewAuthService(creds, roles, issuer, sessions, logger)
	registration := service.NewRegistrationService(creds, roles, cfg.Auth.DefaultRole, logger)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(authService, registration, issuer, logger)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}
