package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"planviewer/internal/common/config"
	"planviewer/internal/common/logging"
	"planviewer/internal/common/middleware"
	texhandlers "planviewer/internal/textures/handlers"
	"planviewer/internal/textures/repository"
	texservice "planviewer/internal/textures/service"
	"planviewer/internal/viewer/engine"
	"planviewer/internal/viewer/handlers"
	"planviewer/internal/viewer/service"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/static"
)

// ============================================================
// Viewer Service
// ============================================================

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logCloser := logging.Init(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	})
	defer logCloser.Close()

	if err := run(cfg); err != nil {
		slog.Error("[VIEWER] stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	if err := os.MkdirAll(filepath.Dir(cfg.TextureDBPath), 0o755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}
	db, err := repository.OpenSQLite(cfg.TextureDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	repo := repository.New(db)
	if err := repo.Init(context.Background()); err != nil {
		return fmt.Errorf("init db: %w", err)
	}

	files := texservice.NewFileStorage(cfg.StaticRoot)
	if err := files.EnsureDir(); err != nil {
		return fmt.Errorf("create texture dir: %w", err)
	}
	textures := texservice.NewTextures(repo, files, texservice.NewCatalog(cfg.StaticURL))
	if err := textures.Load(context.Background()); err != nil {
		return fmt.Errorf("load textures: %w", err)
	}

	sessions := service.NewSessionManager(engine.WithTextures(textures.Catalog()))
	viewerHandler := handlers.NewViewerHandler(sessions, textures.Catalog())
	textureHandler := texhandlers.NewTextureHandler(textures)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		BodyLimit:    cfg.BodyLimitMB * 1024 * 1024,
		AppName:      "Plan Viewer Service",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger(slog.Default()))
	app.Use(middleware.CORS())

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})

	app.Get("/health/ready", func(c fiber.Ctx) error {
		if err := db.PingContext(context.Background()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "error": err.Error()})
		}
		return c.JSON(fiber.Map{"status": "ready", "sessions": sessions.Len(), "textures": textures.Catalog().Len()})
	})

	// ============================================================
	// Viewer & Texture Routes
	// ============================================================

	viewerHandler.Register(app)
	textureHandler.Register(app)

	// локальная раздача файлов текстур, если STATIC_URL не внешний
	if strings.HasPrefix(cfg.StaticURL, "/") {
		app.Get(strings.TrimRight(cfg.StaticURL, "/")+"/*", static.New(cfg.StaticRoot))
	}

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	slog.Info("[VIEWER] starting", "addr", addr, "env", cfg.Environment)
	return app.Listen(addr)
}
