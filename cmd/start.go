package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"flashdeck/core/loader"
	"flashdeck/core/logger"
	"flashdeck/core/middleware/auth"
	"flashdeck/core/middleware/rayid"
	"flashdeck/feature/identity"
	"flashdeck/feature/integrity"
	"flashdeck/feature/library"
	"flashdeck/feature/profile"
	"flashdeck/feature/sharing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "flashdeck/docs/swagger"
)

// @title Flashdeck API
// @version 1.0
// @description API for flashcard sets, account sync and set sharing.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the flashdeck server",
	Long:  `Starts the reconciliation engine and the HTTP server with all enabled features.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		cfg := a.Config
		logg := a.Logger
		zap.ReplaceGlobals(logg)

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			ReadTimeout:           time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		})

		mgr := loader.NewManager()
		mgr.Register(library.NewFeature(library.NewService(a.Engine, settleTimeout, logger.Component(logg, "library"))))
		mgr.Register(sharing.NewFeature(a.Sharing))
		mgr.Register(integrity.NewFeature(integrity.NewService(
			a.RemoteDB,
			[]any{profile.Record{}, sharing.SharedSet{}, identity.Account{}},
			a.Storage,
			cfg.Storage.Bucket,
			cfg.Storage.Region,
			logger.Component(logg, "integrity"),
		)))

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

		if !cfg.Server.AuthEnabled() {
			logg.Warn("API key not set, requests are not authenticated")
		}
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		if err := mgr.LoadAll(app); err != nil {
			return err
		}

		errCh := make(chan error, 1)
		go func() {
			logg.Info("Starting server", zap.String("address", cfg.Server.Address()))
			errCh <- app.Listen(cfg.Server.Address())
		}()

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		select {
		case <-sig:
		case err := <-errCh:
			return err
		}
		logg.Info("Shutting down server...")
		return app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
