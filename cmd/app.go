package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"flashdeck/core/config"
	"flashdeck/core/database"
	"flashdeck/core/logger"
	"flashdeck/core/reconcile"
	"flashdeck/core/storage"
	"flashdeck/feature/identity"
	"flashdeck/feature/localstore"
	"flashdeck/feature/profile"
	"flashdeck/feature/sharing"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// settleTimeout bounds how long commands wait for the engine to load a profile.
const settleTimeout = 30 * time.Second

// App holds the wired components shared by all commands.
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	RemoteDB *gorm.DB
	LocalDB  *gorm.DB
	Storage  storage.Client
	Local    *localstore.Store
	Identity *identity.Provider
	Profiles reconcile.ProfileStore
	Registry *sharing.Registry
	Sharing  *sharing.Service
	Engine   *reconcile.Engine

	cancel context.CancelFunc
	done   chan struct{}
}

// bootstrap wires the App and starts the engine. The returned App is
// settled: signed out or signed in with a ready profile.
func bootstrap(ctx context.Context) (*App, error) {
	app, err := wire(ctx)
	if err != nil {
		return nil, err
	}
	if err := app.start(ctx); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

// wire loads configuration and connects the stores without starting the
// engine.
func wire(ctx context.Context) (*App, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if !cfg.Remote.IsValidBackend() {
		return nil, fmt.Errorf("invalid remote backend %q", cfg.Remote.Backend)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	app := &App{Config: cfg, Logger: logg}

	app.RemoteDB, err = database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to remote database: %w", err)
	}
	logg.Info("Connected to remote database", zap.String("driver", cfg.Database.Driver))

	app.LocalDB, err = database.Connect(database.Config{Driver: database.DriverSQLite, Name: cfg.Local.Path})
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	if cfg.Remote.Backend == profile.BackendStorage {
		app.Storage, err = storage.NewClient(cfg.Storage)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
	}

	kv, err := localstore.NewKV(app.LocalDB)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to prepare local store: %w", err)
	}
	app.Local = localstore.NewStore(kv, cfg.Local, logger.Component(logg, "localstore"))

	app.Identity, err = identity.NewProvider(ctx, app.RemoteDB, kv, cfg.Identity, logger.Component(logg, "identity"))
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to start identity provider: %w", err)
	}

	app.Profiles, err = profile.New(cfg.Remote, app.RemoteDB, app.Storage, cfg.Storage.Bucket)
	if err != nil {
		app.Close()
		return nil, err
	}

	app.Registry = sharing.NewRegistry(app.RemoteDB)
	if err := app.Registry.Migrate(); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to migrate share registry: %w", err)
	}
	app.Sharing = sharing.NewService(app.Registry, cfg.Sharing, logger.Component(logg, "sharing"))

	app.Engine = reconcile.New(reconcile.Deps{
		Local:    app.Local,
		Remote:   app.Profiles,
		Shares:   app.Sharing,
		Identity: app.Identity,
		Logger:   logger.Component(logg, "reconcile"),
	}, cfg.Engine)
	app.Sharing.Bind(app.Engine)

	return app, nil
}

// start runs the engine in the background and waits for it to settle.
func (a *App) start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	a.cancel = cancel
	a.done = make(chan struct{})
	go func() {
		defer close(a.done)
		if err := a.Engine.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			a.Logger.Error("Reconciliation engine stopped", zap.Error(err))
		}
	}()
	return a.settle(ctx)
}

// settle waits for the engine to finish any profile load.
func (a *App) settle(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, settleTimeout)
	defer cancel()
	if err := a.Engine.WaitSettled(waitCtx); err != nil {
		return fmt.Errorf("engine did not settle: %w", err)
	}
	return nil
}

// Close stops the engine and closes database connections.
func (a *App) Close() {
	if a.cancel != nil {
		a.cancel()
		<-a.done
	}
	for _, db := range []*gorm.DB{a.LocalDB, a.RemoteDB} {
		if db == nil {
			continue
		}
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
}

// requireSignedIn fails when no account is signed in.
func (a *App) requireSignedIn() error {
	if a.Engine.CurrentAccountID() == nil {
		return errors.New("not signed in, run 'flashdeck auth signin' first")
	}
	return nil
}
