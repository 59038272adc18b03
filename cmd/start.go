package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pick-reconciler/core/events"
	"pick-reconciler/core/loader"
	"pick-reconciler/core/logger"
	"pick-reconciler/core/middleware/auth"
	"pick-reconciler/core/middleware/rayid"
	"pick-reconciler/core/storage"
	"pick-reconciler/feature/integrity"
	"pick-reconciler/feature/picking"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "pick-reconciler/docs/swagger"
)

// @title Pick Reconciler API
// @version 1.0
// @description API for reconciling barcode scans against order pick lists.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the pick reconciliation server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(false)
		if err != nil {
			return err
		}
		cfg, logg := rt.cfg, rt.logger
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to create storage client: %w", err)
		}

		publisher := events.NewPublisher(cfg.Kafka)
		defer publisher.Close()

		var store picking.Store
		if rt.db != nil {
			store = picking.NewGormStore(rt.db)
		} else {
			logg.Warn("No order database; sessions must be opened with explicit lines")
			store = picking.NewMemoryStore()
		}

		svc := picking.NewService(
			store,
			picking.NewArchiver(client, cfg.Storage.Bucket, cfg.Storage.ArchivePrefix),
			publisher,
			logg,
			cfg.Server.Station,
			cfg.Reconcile.Options()...,
		)

		mgr := loader.NewManager(logg)
		mgr.Register(picking.NewFeature(svc, logg))
		mgr.Register(integrity.NewFeature(client, cfg.Storage, logg, rt.db))

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			BodyLimit:             cfg.Server.BodyLimit(),
		})

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

		app.Get("/swagger/*", swagger.HandlerDefault)

		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey, Skip: []string{"/swagger"}}))

		if err := mgr.LoadAll(app); err != nil {
			return err
		}

		errCh := make(chan error, 1)
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			errCh <- app.Listen(cfg.Server.Address())
		}()

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		select {
		case err := <-errCh:
			return fmt.Errorf("server failed: %w", err)
		case <-sig:
		}

		logg.Info("Shutting down server...")
		if err := app.Shutdown(); err != nil {
			logg.Error("Server shutdown failed", zap.Error(err))
		}

		// Open sessions are closed, not dropped; partial picks are persisted.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		for _, snap := range svc.Sessions() {
			if _, err := svc.Close(ctx, snap.SessionID); err != nil {
				logg.Error("Failed to close session on shutdown", zap.String("session_id", snap.SessionID), zap.Error(err))
			}
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
