package main

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/foxxcyber/recetario/internal/config"
	"github.com/foxxcyber/recetario/internal/database"
	"github.com/foxxcyber/recetario/internal/handlers"
	"github.com/foxxcyber/recetario/internal/middleware"
	"github.com/foxxcyber/recetario/internal/services"
)

func main() {
	// Load .env file if it exists
	godotenv.Load()

	cfg := config.Load()
	config.SetupLogging(cfg)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(context.Background(), db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Live shopping list cache (optional)
	var cache services.LiveListCache
	if cfg.CacheEnabled() {
		rc, err := services.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.LiveListTTL)
		if err != nil {
			log.Warnf("Redis unavailable, live lists will not be cached: %v", err)
		} else {
			defer rc.Close()
			cache = rc
			log.Info("Live list cache enabled")
		}
	}

	// Object storage for list exports (optional)
	var storage *services.StorageService
	if cfg.StorageEnabled() {
		storage, err = services.NewStorageService(cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3Region, cfg.S3UseSSL)
		if err != nil {
			log.Warnf("Failed to initialize storage service: %v", err)
			storage = nil
		} else {
			go func(s *services.StorageService) {
				if err := s.EnsureBucket(context.Background()); err != nil {
					log.Warnf("Failed to ensure S3 bucket exists: %v", err)
				}
			}(storage)
		}
	} else {
		log.Info("S3 credentials not configured, list export disabled")
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	h := handlers.New(db, cfg, storage, cache)

	app.Get("/health", h.Health)

	// API routes, bearer tokens required only when JWT_SECRET is set
	api := app.Group("/api", middleware.AuthRequired(cfg))
	handlers.RegisterRoutes(api, h)

	// Static files - the built single page app
	app.Static("/", cfg.StaticDir, fiber.Static{
		Index:  "index.html",
		Browse: false,
	})

	// Fallback for SPA-style routing - serve index.html for unmatched routes
	app.Get("/*", func(c *fiber.Ctx) error {
		if strings.Contains(c.Path(), ".") {
			return fiber.ErrNotFound
		}
		return c.SendFile(cfg.StaticDir + "/index.html")
	})

	log.Infof("Server starting on port %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
