// Package server wires the vault server: database and migrations, services,
// the change-feed listener and the gRPC endpoint, with graceful shutdown on
// SIGINT/SIGTERM/SIGQUIT.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/recoveryvault/internal/common"
	"github.com/dmitrijs2005/recoveryvault/internal/logging"
	"github.com/dmitrijs2005/recoveryvault/internal/server/config"
	"github.com/dmitrijs2005/recoveryvault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/recoveryvault/internal/server/services"
	"github.com/dmitrijs2005/recoveryvault/internal/server/watch"

	gs "github.com/dmitrijs2005/recoveryvault/internal/server/grpc"
	_ "github.com/jackc/pgx/v5/stdlib"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	journalService *services.JournalService
	mediaService   *services.MediaService
	gateService    *services.GateService
	hub            *watch.Hub
}

// openDB is a seam for tests.
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	if c.SecretKey == "" {
		key, err := common.MakeRandHexString(32)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("gate secret: %w", err)
		}
		c.SecretKey = key
		logger.Warn(ctx, "no secret key configured, using a random one")
	}

	js := services.NewJournalService(db, rm, logger)
	gate, err := services.NewGateService(c, js, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if len(gate.Roles()) == 0 {
		logger.Warn(ctx, "no PIN hashes configured, gated operations are unreachable")
	}

	return &App{
		config:         c,
		logger:         logger,
		db:             db,
		journalService: js,
		mediaService:   services.NewMediaService(c),
		gateService:    gate,
		hub:            watch.NewHub(16),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger,
		app.journalService, app.mediaService, app.gateService, app.hub)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startWatcher(ctx context.Context) {
	l := watch.NewListener(app.config.DatabaseDSN, app.hub, app.logger)
	if err := l.Run(ctx); err != nil {
		app.logger.Error(ctx, "watcher stopped", "error", err)
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startWatcher(ctx)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close", "error", err)
	}
	app.logger.Info(ctx, "Stopped")
}
