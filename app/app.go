package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/skillsenselab/filevault/config"
	"github.com/skillsenselab/filevault/database"
	"github.com/skillsenselab/filevault/gateway"
	"github.com/skillsenselab/filevault/jobqueue"
	"github.com/skillsenselab/filevault/logger"
	"github.com/skillsenselab/filevault/metadata"
	"github.com/skillsenselab/filevault/objectstore"
	"github.com/skillsenselab/filevault/processing"
	"github.com/skillsenselab/filevault/processing/magick"
	"github.com/skillsenselab/filevault/processing/pdfcli"
	"github.com/skillsenselab/filevault/version"
)

// DefaultGracefulTimeout bounds shutdown.
const DefaultGracefulTimeout = 15 * time.Second

// App holds the assembled components. Fields are exported so callers can
// reach individual services directly.
type App struct {
	Config *config.AppConfig
	Log    *logger.Logger

	DB           *database.DB
	Store        *objectstore.Client
	Gateway      *gateway.Gateway
	Files        metadata.Repository
	Versions     *version.Service
	Queue        *jobqueue.Queue
	Orchestrator *processing.Orchestrator

	gracefulTimeout time.Duration
}

// New assembles the application from an already-validated configuration.
// Nothing is started; call Start or Run afterwards.
func New(ctx context.Context, cfg *config.AppConfig) (*App, error) {
	logger.Init(cfg.Logging)
	log := logger.GetGlobalLogger()

	db, err := database.Open(ctx, cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	store, err := objectstore.NewClient(ctx, &cfg.ObjectStore)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("object store: %w", err)
	}

	gw, err := gateway.New(store, cfg.Gateway, log)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("gateway: %w", err)
	}

	files, err := metadata.NewGormRepository(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("metadata repository: %w", err)
	}
	versionRepo, err := version.NewGormRepository(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("version repository: %w", err)
	}
	jobRepo, err := jobqueue.NewGormRepository(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("job repository: %w", err)
	}

	queue := jobqueue.New(cfg.Queue, jobRepo, log)

	registry := processing.NewBasicRegistry(gw.CDNURL)
	registry.Register("application/pdf", pdfcli.New(gw, cfg.PDF, log))
	registry.Register("image/*", magick.New(gw, cfg.Image, log))

	orchestrator := processing.NewOrchestrator(
		files,
		registry,
		processing.NewBasicSecurityCheck(cfg.Processing),
		queue,
		cfg.Processing,
		log,
	)

	return &App{
		Config:          cfg,
		Log:             log.WithComponent("app"),
		DB:              db,
		Store:           store,
		Gateway:         gw,
		Files:           files,
		Versions:        version.NewService(files, versionRepo, gw, log),
		Queue:           queue,
		Orchestrator:    orchestrator,
		gracefulTimeout: DefaultGracefulTimeout,
	}, nil
}

// Start recovers persisted jobs and launches the worker pool.
func (a *App) Start(ctx context.Context) error {
	recovered, err := a.Queue.Recover(ctx)
	if err != nil {
		return fmt.Errorf("job recovery: %w", err)
	}
	if recovered > 0 {
		a.Log.Info("recovered persisted jobs", logger.Fields("count", recovered))
	}
	a.Queue.Start(ctx, a.Orchestrator.HandleJob)
	a.Log.Info("application started", logger.Fields(
		"environment", a.Config.Environment,
		"workers", a.Config.Queue.Workers,
	))
	return nil
}

// Run starts the application, blocks until a shutdown signal or context
// cancellation and then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	if err := a.Start(ctx); err != nil {
		return err
	}
	a.WaitForSignal(ctx)
	return a.Shutdown()
}

// WaitForSignal blocks until SIGINT, SIGTERM or context cancellation.
func (a *App) WaitForSignal(ctx context.Context) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Log.Info("shutdown signal received", logger.Fields("signal", sig.String()))
	case <-ctx.Done():
		a.Log.Info("context canceled, shutting down")
	}
}

// Shutdown stops the worker pool, waits for in-flight jobs and closes the
// database. Safe to call even if Start was never reached.
func (a *App) Shutdown() error {
	a.Log.Info("shutting down", logger.Fields("timeout", a.gracefulTimeout.String()))

	done := make(chan struct{})
	go func() {
		a.Queue.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(a.gracefulTimeout):
		a.Log.Error("worker pool did not drain within the graceful timeout")
	}

	if err := a.DB.Close(); err != nil {
		return fmt.Errorf("database close: %w", err)
	}
	a.Log.Info("shutdown complete")
	return nil
}

// CheckHealth reports on the database and object store connections.
func (a *App) CheckHealth(ctx context.Context) error {
	if err := a.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}
	if !a.Gateway.CheckConnection(ctx) {
		return fmt.Errorf("object store unreachable")
	}
	return nil
}
