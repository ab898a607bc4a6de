package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"abandon-report/core/config"
	"abandon-report/core/loader"
	"abandon-report/core/logger"
	"abandon-report/core/middleware/auth"
	"abandon-report/core/middleware/rayid"
	"abandon-report/core/reconcile"
	"abandon-report/core/storage"
	"abandon-report/feature/abandons"
	"abandon-report/feature/integrity"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the report server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		defaults, err := abandons.OptionsFromConfig(cfg.Report)
		if err != nil {
			logg.Fatal("Invalid report configuration", zap.Error(err))
		}

		// 3. Open the report archive (Optional)
		var (
			archive *abandons.Archive
			db      *gorm.DB
		)
		if cfg.Database.Enabled {
			if a, err := openArchive(cfg.Database); err != nil {
				logg.Warn("Optional archive connection failed", zap.Error(err))
			} else {
				archive, db = a, a.DB()
				logg.Info("Connected to report archive", zap.String("driver", cfg.Database.Driver))
			}
		}

		// 4. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			BodyLimit:             cfg.Server.BodyLimit(),
		})

		// 5. Initialize Feature Loader
		mgr := loader.NewManager()

		cache := reconcile.NewIndexCache(time.Duration(cfg.Report.CacheTTLSeconds) * time.Second)
		mgr.Register(abandons.NewFeature(logg, cache, archive, defaults))

		if cfg.Storage.Enabled {
			store, err := storage.NewClient(cfg.Storage)
			if err != nil {
				logg.Fatal("Failed to create storage client", zap.Error(err))
			}
			mgr.Register(integrity.NewFeature(store, cfg.Storage.Bucket, logg, db))
		}

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 3. Auth (Protect API)
		if !cfg.Server.IsProtected() {
			logg.Warn("No API key configured, the API is open")
		}
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 6. Load Features
		loaded, err := mgr.LoadAll(app)
		if err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}
		logg.Info("Features loaded", zap.Strings("features", loaded))

		// 7. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 8. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
