package daemon

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/trailforge/trailforge/internal/api"
	"github.com/trailforge/trailforge/internal/app/gamify"
	"github.com/trailforge/trailforge/internal/app/pedometer"
	"github.com/trailforge/trailforge/internal/app/stats"
	"github.com/trailforge/trailforge/internal/health"
	_ "github.com/trailforge/trailforge/internal/infra/metrics" // Register Prometheus metrics
	"github.com/trailforge/trailforge/internal/infra/store"
	"github.com/trailforge/trailforge/internal/infra/syncer"
)

// Daemon is the TrailForge runtime. It wires together the store, the stat
// aggregates, the pedometer, the XP engine, and the API server.
type Daemon struct {
	Config       Config
	DB           *store.DB
	Recorder     *stats.Recorder
	Pedometer    *pedometer.Validator
	Engine       *gamify.Engine
	Celebrations *gamify.CelebrationQueue
	Hub          *api.CelebrationHub
	Health       *health.Checker
	Server       *api.Server
	cancel       context.CancelFunc
}

// New creates and initializes a Daemon with all services wired.
func New() (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return NewWithConfig(cfg)
}

// NewWithConfig creates a Daemon with the given configuration.
func NewWithConfig(cfg Config) (*Daemon, error) {
	db, err := store.Open(trailforgeHome())
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	// Mint a device ID on first run; it identifies this install to the
	// community endpoint.
	if id, err := db.Get(store.KeyDeviceID); err == nil && id == "" {
		if err := db.Set(store.KeyDeviceID, uuid.NewString()); err != nil {
			log.Printf("[daemon] mint device id: %v", err)
		}
	}

	recorder := stats.NewRecorder(db)

	pedCfg := pedometer.DefaultConfig()
	if cfg.Pedometer.MaxStepsPerUpdate > 0 {
		pedCfg.MaxStepsPerUpdate = cfg.Pedometer.MaxStepsPerUpdate
	}
	if cfg.Pedometer.MaxStepsPerSecond > 0 {
		pedCfg.MaxStepsPerSecond = cfg.Pedometer.MaxStepsPerSecond
	}
	if cfg.Pedometer.MaxStepsPerHour > 0 {
		pedCfg.MaxStepsPerHour = cfg.Pedometer.MaxStepsPerHour
	}
	if cfg.Pedometer.StepsPerXP > 0 {
		pedCfg.StepsPerXP = cfg.Pedometer.StepsPerXP
	}
	if cfg.Pedometer.MaxXPPerDay > 0 {
		pedCfg.MaxXPPerDay = cfg.Pedometer.MaxXPPerDay
	}
	pedCfg.MinUpdateInterval = parseDuration(cfg.Pedometer.MinUpdateInterval, pedCfg.MinUpdateInterval)
	ped := pedometer.NewValidator(db, pedCfg)

	thresholds := gamify.DefaultThresholds()
	if err := thresholds.Validate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("level thresholds: %w", err)
	}

	engine := gamify.NewEngine(db, thresholds, gamify.AllAchievements(), recorder)
	engine.SetDelays(
		parseDuration(cfg.Gamify.SettleDelay, 100*time.Millisecond),
		parseDuration(cfg.Gamify.SyncDelay, 5*time.Second),
	)

	// Changes flow one way: aggregates → engine.
	recorder.SetOnChange(engine.Notify)
	ped.SetOnCredit(engine.Notify)

	celebrations := gamify.NewCelebrationQueue()
	hub := api.NewCelebrationHub()
	celebrations.SetBroadcast(hub.Broadcast)
	engine.SetCelebrations(celebrations)

	if cfg.Sync.Enabled && cfg.Sync.Endpoint != "" {
		engine.SetSyncer(syncer.New(db, cfg.Sync.Endpoint))
	}

	checker := health.NewChecker(db, trailforgeHome())

	srv := api.NewServer(engine, recorder, ped)
	srv.SetCelebrations(celebrations)
	srv.SetHub(hub)
	srv.SetHealth(checker)
	if cfg.Telemetry.Prometheus {
		srv.EnableMetrics()
	}

	return &Daemon{
		Config:       cfg,
		DB:           db,
		Recorder:     recorder,
		Pedometer:    ped,
		Engine:       engine,
		Celebrations: celebrations,
		Hub:          hub,
		Health:       checker,
		Server:       srv,
	}, nil
}

// Serve starts the engine loop and the HTTP server, blocking until shutdown.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	go d.Engine.Run(ctx)
	go d.Health.Run(ctx)

	addr := fmt.Sprintf("%s:%d", d.Config.API.Host, d.Config.API.Port)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      d.Server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: time.Minute,
		IdleTimeout:  2 * time.Minute,
	}

	// Graceful shutdown on signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		cancel() // Stops the engine loop and clears pending debounce timers
		_ = httpServer.Shutdown(shutdownCtx)
		_ = d.DB.Close()
	}()

	fmt.Printf("TrailForge serving on http://%s\n", addr)
	if d.Config.Telemetry.Prometheus {
		fmt.Printf("  Metrics: http://%s/metrics\n", addr)
	}

	err := httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop triggers a graceful shutdown.
func (d *Daemon) Stop() {
	if d.cancel != nil {
		d.cancel()
	}
}

// Close releases the store. Used by CLI commands that never call Serve.
func (d *Daemon) Close() error {
	return d.DB.Close()
}
