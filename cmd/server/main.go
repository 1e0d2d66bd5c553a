package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"fittrack/internal/api"
	"fittrack/internal/config"
	"fittrack/internal/repository/postgres"
	"fittrack/internal/service"
	"fittrack/internal/storage"
	"fittrack/internal/token"
)

func main() {
	log.Println("Starting fittrack server...")

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: could not load config: %v", err)
	}

	db, err := postgres.Connect(cfg.Database.DSN)
	if err != nil {
		log.Fatalf("FATAL: could not connect to postgres: %v", err)
	}
	if err := postgres.Migrate(db); err != nil {
		log.Fatalf("FATAL: migration failed: %v", err)
	}
	if err := postgres.SeedRoles(db); err != nil {
		log.Fatalf("FATAL: role seeding failed: %v", err)
	}
	log.Println("Database ready.")

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Printf("WARN: redis unreachable, rate limiting disabled: %v", err)
			rdb = nil
		}
		cancel()
	}

	fileStorage, err := storage.NewS3Storage(storage.Config{
		Endpoint:        cfg.S3.Endpoint,
		Region:          cfg.S3.Region,
		AccessKeyID:     cfg.S3.AccessKeyID,
		SecretAccessKey: cfg.S3.SecretAccessKey,
		Bucket:          cfg.S3.BucketName,
	})
	if err != nil {
		log.Fatalf("FATAL: could not initialize S3 storage: %v", err)
	}

	tokens, err := token.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience, cfg.JWT.Expiration)
	if err != nil {
		log.Fatalf("FATAL: token manager: %v", err)
	}

	uow := postgres.NewUnitOfWork(db)

	authService := service.NewAuthService(uow, tokens)
	categoryService := service.NewCategoryService(uow)
	exerciseService := service.NewExerciseService(uow, fileStorage)
	workoutService := service.NewWorkoutService(uow)
	userService := service.NewUserService(uow)

	router := gin.Default()
	api.SetupRoutes(router, tokens, rdb,
		api.RateLimit{Requests: cfg.RateLimit.Requests, Window: cfg.RateLimit.Window},
		authService, categoryService, exerciseService, workoutService, userService)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Server listening on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("FATAL: forced shutdown: %v", err)
	}
	log.Println("Server exiting.")
}
