package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"spaces-sync/core/loader"
	"spaces-sync/core/logger"
	"spaces-sync/core/middleware/auth"
	"spaces-sync/core/middleware/rayid"
	"spaces-sync/feature/deploy"
	"spaces-sync/feature/integrity"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveOpts syncFlags

// serveCmd runs the deploy webhook server.
var serveCmd = &cobra.Command{
	Use:   "serve [base-dir]",
	Short: "Start the deploy webhook server",
	Long: `Serves GET /deploy/plan, POST /deploy and GET /integrity, all protected by
the X-API-Key header, plus an unauthenticated GET /health.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	serveOpts.register(serveCmd, false)
	RootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env, err := setup(ctx, cmd, args, &serveOpts)
	if err != nil {
		return err
	}
	defer env.close()

	if err := env.cfg.Server.Validate(); err != nil {
		return err
	}

	app := newServer(env)

	errCh := make(chan error, 1)
	go func() {
		env.logger.Info("Starting server", zap.String("addr", env.cfg.Server.Addr()), zap.String("bucket", env.cfg.Storage.Bucket))
		errCh <- app.Listen(env.cfg.Server.Addr())
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	env.logger.Info("Shutting down server...")
	timeout := time.Duration(env.cfg.Server.ShutdownSeconds) * time.Second
	return app.ShutdownWithTimeout(timeout)
}

// newServer builds the Fiber application with middleware and features.
func newServer(env *environment) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	// RayID first so every log line can be traced.
	app.Use(rayid.New())
	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(env.logger, c)
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

	app.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), env.cfg.Storage.Timeout())
		defer cancel()
		if _, err := env.client.BucketExists(ctx, env.cfg.Storage.Bucket); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable", "error": err.Error()})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Use(auth.New(auth.Config{ApiKey: env.cfg.Server.ApiKey}))

	mgr := loader.NewManager()
	mgr.Register(deploy.NewFeature(env.syncer, env.cfg.Sync.Options(), env.cfg.Sync.Timeout(), env.logger))
	mgr.Register(integrity.NewFeature(env.client, env.cfg.Storage.Bucket, env.tree, env.logger))
	if err := mgr.LoadAll(app); err != nil {
		env.logger.Fatal("Failed to load features", zap.Error(err))
	}
	return app
}
