package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fathima-sithara/contacts-api/internal/brevo"
	"github.com/fathima-sithara/contacts-api/internal/config"
	"github.com/fathima-sithara/contacts-api/internal/database"
	"github.com/fathima-sithara/contacts-api/internal/handlers"
	"github.com/fathima-sithara/contacts-api/internal/middleware"
	"github.com/fathima-sithara/contacts-api/internal/repository"
	"github.com/fathima-sithara/contacts-api/internal/server"
	"github.com/fathima-sithara/contacts-api/internal/services"
	"github.com/fathima-sithara/contacts-api/internal/storage"
	"github.com/fathima-sithara/contacts-api/internal/token"
	"github.com/fathima-sithara/contacts-api/internal/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := utils.NewLogger(cfg.App.Env)
	defer func() { _ = logger.Sync() }()
	sugar := logger.Sugar()
	sugar.Infof("Starting contacts-api in %s environment on port %d", cfg.App.Env, cfg.App.Port)

	db, mongoClient, err := database.ConnectMongo(cfg.Mongo.URI, cfg.Mongo.Database, sugar)
	if err != nil {
		sugar.Fatal(err)
	}

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = database.ConnectRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, sugar)
		if err != nil {
			sugar.Fatal(err)
		}
	} else {
		sugar.Warn("Redis not configured, auth rate limiting is disabled")
	}

	mailer := brevo.NewClient(cfg.Brevo.APIKey, cfg.Brevo.FromEmail, cfg.Brevo.FromName)
	if !mailer.IsConfigured() {
		sugar.Warn("Brevo client not fully configured. Verification emails will be skipped.")
	}

	var store storage.Store
	switch cfg.Avatar.Backend {
	case "s3":
		store, err = storage.NewS3Store(context.Background(), cfg.S3.Region, cfg.S3.Bucket, cfg.S3.Prefix)
		if err != nil {
			sugar.Fatalf("s3 init: %v", err)
		}
	default:
		store, err = storage.NewLocalStore(cfg.Avatar.Dir)
		if err != nil {
			sugar.Fatalf("avatar dir init: %v", err)
		}
	}

	userRepo := repository.NewMongoUserRepo(db)
	contactRepo := repository.NewMongoContactRepo(db)

	tokens := token.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authSvc := services.NewAuthService(userRepo, tokens, mailer, store, cfg.App.BaseURL, cfg.Auth.BcryptCost, logger)
	contactSvc := services.NewContactService(contactRepo)

	validate := utils.NewValidator()
	authHandler := handlers.NewAuthHandler(authSvc, validate, logger)
	contactHandler := handlers.NewContactHandler(contactSvc, validate, logger)

	authMW := middleware.Auth(tokens, userRepo)
	var loginLimit fiber.Handler
	if rdb != nil {
		loginLimit = middleware.NewRateLimiter(rdb, "auth_rate_limit", cfg.RateLimit.Limit, cfg.RateLimit.Window).ByIP()
	} else {
		loginLimit = func(c *fiber.Ctx) error { return c.Next() }
	}

	app := server.New(cfg, authHandler, contactHandler, authMW, loginLimit, logger)

	go func() {
		listenAddr := fmt.Sprintf(":%d", cfg.App.Port)
		sugar.Infof("Server listening on %s", listenAddr)
		if err := app.Listen(listenAddr); err != nil {
			sugar.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	sugar.Info("Shutting down server...")

	ctxShut, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()

	if err := app.ShutdownWithContext(ctxShut); err != nil {
		sugar.Errorf("Fiber app shutdown error: %v", err)
	}
	if err := mongoClient.Disconnect(ctxShut); err != nil {
		sugar.Errorf("MongoDB disconnect error: %v", err)
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			sugar.Errorf("Redis client close error: %v", err)
		}
	}

	sugar.Info("Graceful shutdown complete. Goodbye!")
}
