package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"pastebin/internal/config"
	"pastebin/internal/database"
	"pastebin/internal/database/migration"
	"pastebin/internal/hash"
	handlers "pastebin/internal/http/handler"
	"pastebin/internal/http/middleware"
	"pastebin/internal/id"
	"pastebin/internal/otel"
	"pastebin/internal/ratelimit"
	"pastebin/internal/repository/postgres"
	"pastebin/internal/service"
	"pastebin/internal/storage"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := time.UTC
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Tracing is best-effort; a missing collector never blocks startup.
	shutdownTracing, err := otel.Init(ctx, loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, loc, cfg.Database.Host); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// Initialize S3-compatible object storage client for paste content
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	// Optional Redis client for the distributed rate-limit counter
	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		opt, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		opt.DialTimeout = cfg.Redis.Timeout
		redisClient = redis.NewClient(opt)
		defer redisClient.Close()
	}

	limiter := ratelimit.New(cfg.RateLimit, redisClient)
	defer limiter.Stop()

	// Initialize repositories and services
	pasteRepo := postgres.NewPastePostgres(db)
	pasteSvc := service.NewPasteService(objStore, pasteRepo, id.New(cfg.Paste.IDLength), service.Options{
		MaxContentBytes: cfg.Paste.MaxContentBytes,
		OpTimeout:       cfg.Paste.OpTimeout,
	})

	// Background sweep for expired pastes
	sweeperDone := service.StartSweeper(ctx, pasteSvc, cfg.Paste.SweepInterval, cfg.Paste.SweepBatchSize)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("failed to register prometheus middleware: %v", err)
	}
	app.Use(promMiddleware.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Register HTTP routes with injected service
	handlers.RegisterRoutes(app, db, pasteSvc, limiter, hash.NewIPHasher(cfg.Paste.IPHashPepper))

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	<-sweeperDone

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Printf("tracing shutdown: %v", err)
	}
}
