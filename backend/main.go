package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/kasyap600/AlgoPath/backend/catalog"
	"github.com/kasyap600/AlgoPath/backend/config"
	"github.com/kasyap600/AlgoPath/backend/middleware"
	"github.com/kasyap600/AlgoPath/backend/profile"
	"github.com/kasyap600/AlgoPath/backend/progress"
	"github.com/kasyap600/AlgoPath/backend/routes"
	"github.com/kasyap600/AlgoPath/backend/utils"
	"golang.org/x/time/rate"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Error loading config", "err", err)
	}

	// Initialize logger
	logger := utils.InitLogger(utils.LoggerConfig{Format: cfg.LogFormat, Level: cfg.LogLevel})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load catalog
	cat, err := loadCatalog(cfg)
	if err != nil {
		logger.Fatal("Error loading catalog", "err", err)
	}

	// Initialize document store
	store, err := utils.OpenDocumentStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Error initializing document store", "err", err)
	}
	defer store.Close()

	sessions := progress.NewSessions(store, cfg.SessionIdleTimeout, sessionOptions(cfg, logger)...)
	go sessions.Run(ctx)

	// Create Fiber app
	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.CORSOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Timezone, X-Request-ID",
	}))
	app.Use(middleware.LoggingMiddleware(logger))

	// Setup routes
	routes.SetupRoutes(app, cat, sessions, profile.NewService(store), cfg)

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			logger.Error("server shutdown", "err", err)
		}
	}()

	// Start server
	logger.Info("listening", "port", cfg.ServerPort, "driver", cfg.DBDriver, "topics", len(cat.Topics), "plans", len(cat.Plans()))
	if err := app.Listen(":" + cfg.ServerPort); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server stopped", "err", err)
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := sessions.Close(flushCtx); err != nil {
		logger.Error("flushing sessions", "err", err)
	}
}

func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.CatalogDir != "" {
		return catalog.LoadDir(cfg.CatalogDir)
	}
	return catalog.Default()
}

func sessionOptions(cfg *config.Config, logger *log.Logger) []progress.Option {
	opts := []progress.Option{
		progress.WithLogger(logger),
		progress.WithTimeout(cfg.PersistTimeout),
	}
	if cfg.PersistRate > 0 {
		opts = append(opts, progress.WithRateLimit(rate.Limit(cfg.PersistRate), cfg.PersistBurst))
	}
	return opts
}
