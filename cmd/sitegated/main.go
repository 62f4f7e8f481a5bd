package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sitegate/sitegate/internal/gate/common/clock"
	"github.com/sitegate/sitegate/internal/gate/common/log"
	"github.com/sitegate/sitegate/internal/gate/config"
	"github.com/sitegate/sitegate/internal/gate/gateways/netrules"
	"github.com/sitegate/sitegate/internal/gate/repos/policy"
	"github.com/sitegate/sitegate/internal/gate/repos/protected"
	"github.com/sitegate/sitegate/internal/gate/repos/usagestore"
	"github.com/sitegate/sitegate/internal/gate/services/router"
)

const (
	version = "0.1.0-dev"
	appName = "sitegated"
)

// Application holds all the components of the policy engine daemon.
type Application struct {
	config *config.AppConfig
	store  *usagestore.Store
	router *router.Router
}

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	// Configure global logging
	if err := log.Configure(cfg.Env, cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Logging configuration error: %v\n", err)
		os.Exit(1)
	}

	log.Info(map[string]any{
		"version":    version,
		"env":        cfg.Env,
		"log_level":  cfg.LogLevel,
		"policy_dir": cfg.PolicyDir,
		"db_path":    cfg.DBPath,
		"cache_size": cfg.CacheSize,
	}, "Starting sitegate policy engine")

	app, err := buildApplication(cfg)
	if err != nil {
		log.Fatal(map[string]any{"error": err}, "Failed to build application")
	}
	defer func() {
		if err := app.store.Close(); err != nil {
			log.Error(map[string]any{"error": err}, "Failed to close usage store")
		}
	}()

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Info(map[string]any{"signal": sig.String()}, "Shutdown signal received")
		cancel()
	}()

	if err := app.Run(ctx); err != nil {
		log.Fatal(map[string]any{"error": err}, "Engine failed")
	}

	log.Info(nil, "sitegate stopped gracefully")
}

// buildApplication constructs all components and wires them together.
func buildApplication(cfg *config.AppConfig) (*Application, error) {
	clk := clock.RealClock{}
	logger := log.GetLogger()

	store, err := usagestore.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open usage store: %w", err)
	}

	cacheSize := int(cfg.CacheSize)
	if cfg.DisableCache {
		cacheSize = 0
	}
	index, err := protected.NewIndex(cacheSize, cfg.BloomFPRate)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to build site index: %w", err)
	}

	rt := router.New(router.Options{
		Policies: policy.NewDir(cfg.PolicyDir),
		Store:    store,
		Index:    index,
		Sink:     netrules.NewMemorySink(),
		Clock:    clk,
		Logger:   logger,
	})

	return &Application{config: cfg, store: store, router: rt}, nil
}

// Run performs the initial rebuild and drives the periodic rebuild and
// whitelist-expiry sweeps until the context is cancelled. A rebuild failure
// is transient: the previously installed rule set stays in force and the
// next tick retries.
func (a *Application) Run(ctx context.Context) error {
	if _, err := a.router.RebuildPolicy(); err != nil {
		return fmt.Errorf("initial rebuild failed: %w", err)
	}

	rebuild := time.NewTicker(time.Duration(a.config.RebuildSeconds) * time.Second)
	defer rebuild.Stop()
	sweep := time.NewTicker(time.Duration(a.config.SweepSeconds) * time.Second)
	defer sweep.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-rebuild.C:
			if _, err := a.router.RebuildPolicy(); err != nil {
				log.Warn(map[string]any{"error": err}, "rebuild failed; previous rule set remains installed")
			}
		case <-sweep.C:
			if _, err := a.router.ExpireWhitelist(time.Now()); err != nil {
				log.Warn(map[string]any{"error": err}, "whitelist sweep failed")
			}
		}
	}
}
