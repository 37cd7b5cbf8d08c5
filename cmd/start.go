package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log-console/core/database"
	"log-console/core/loader"
	"log-console/core/logger"
	"log-console/core/middleware/auth"
	"log-console/core/middleware/rayid"
	"log-console/core/patternmatch"
	"log-console/core/storage"

	"log-console/feature/integrity"
	"log-console/feature/logconfig"
	"log-console/feature/patterns"
	"log-console/feature/samples"
	"log-console/feature/views"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "log-console/docs/swagger"
)

// @title Log Console API
// @version 1.0
// @description API of the log-management console.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the log console server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, err := bootstrap()
		if err != nil {
			return err
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// The database is optional; log configs answer 503 without it.
		var db *gorm.DB
		if conn, err := database.Connect(cfg.Database); err != nil {
			logg.Warn("Optional database connection failed", zap.Error(err))
		} else {
			db = conn
			logg.Info("Connected to database", zap.String("driver", cfg.Database.Driver))
		}

		store, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return err
		}

		matcher := patternmatch.New(cfg.Matcher, logg.Named("matcher"))
		matcher.Start(ctx)
		defer matcher.Close()

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		configsFeature := logconfig.NewFeature(db, matcher, logg)
		samplesFeature := samples.NewFeature(store, cfg.Storage.Bucket, cfg.Storage.MaxObjectBytes, logg)
		samplesFeature.Service().WithListCache(time.Duration(cfg.Storage.ListCacheSeconds) * time.Second)
		viewsFeature := views.NewFeature(configsFeature.Service(), samplesFeature.Service(), views.Options{
			IdleTTL: cfg.Server.ViewIdleTTL(),
			Wait:    cfg.Server.ViewWait(),
		}, logg)

		mgr := loader.NewManager(logg)
		mgr.Register(configsFeature)
		mgr.Register(samplesFeature)
		mgr.Register(patterns.NewFeature(matcher, samplesFeature.Service(), logg))
		mgr.Register(viewsFeature)
		mgr.Register(integrity.NewFeature(store, cfg.Storage.Bucket, cfg.Storage.MaxObjectBytes, db, logg))

		// RayID first so every later log line carries it.
		app.Use(rayid.New())

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

		// Swagger stays public.
		app.Get("/swagger/*", swagger.HandlerDefault)

		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		if err := mgr.LoadAll(app); err != nil {
			return err
		}

		go viewsFeature.Service().Run(ctx)

		errCh := make(chan error, 1)
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			errCh <- app.Listen(":" + cfg.Server.Port)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		logg.Info("Shutting down server...")
		return app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
