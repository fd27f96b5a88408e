// Package cmd implements the wristsim CLI.
package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/go-drift/timepiece/cmd/wristsim/internal/config"
	"github.com/go-drift/timepiece/pkg/scene/scenetest"
	"github.com/go-drift/timepiece/pkg/watch"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "wristsim",
	Short: "Simulate wearable analog watches against fake host systems",
	Long: `wristsim exercises the watch animation scheduling core end to end:
it loads a watch catalog, dispenses a watch to each simulated wearer,
runs the per-hand catch-up and loop phases against recording fakes, and
removes everything again when the wearers leave.`,
	RunE:          runSim,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a wristsim YAML config file")
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func runSim(cobraCmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := buildLogger(cfg.Verbose)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(cobraCmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, err := loadCatalog(ctx, cfg, log)
	if err != nil {
		return err
	}

	host := scenetest.NewHost()
	player := scenetest.NewPlayer()
	manager := watch.NewManager(catalog, host, player, log)
	defer func() {
		if err := manager.Close(context.Background()); err != nil {
			log.Warn("teardown incomplete", zap.Error(err))
		}
	}()

	if cfg.WatchCatalog && cfg.CatalogPath != "" {
		go func() {
			_ = watch.WatchCatalog(ctx, cfg.CatalogPath, log, manager.SetCatalog)
		}()
	}

	for i := 0; i < cfg.Wearers; i++ {
		owner := fmt.Sprintf("wearer-%d", i+1)
		inst, err := manager.Dispense(ctx, cfg.Model, owner, cfg.Timezone)
		if err != nil {
			return err
		}
		log.Info("wearer equipped",
			zap.String("owner", owner),
			zap.String("instance", inst.ID()),
			zap.Int("activeHands", inst.ActiveHands()))
	}

	log.Info("simulation running",
		zap.Int("wearers", cfg.Wearers),
		zap.Duration("runFor", cfg.RunFor),
		zap.Int("cachedClips", manager.Cache().Len()))

	select {
	case <-ctx.Done():
		log.Info("interrupted")
	case <-time.After(cfg.RunFor):
	}

	for i := 0; i < cfg.Wearers; i++ {
		owner := fmt.Sprintf("wearer-%d", i+1)
		if err := manager.OnWearerLeft(context.Background(), owner); err != nil {
			log.Warn("wearer teardown failed", zap.String("owner", owner), zap.Error(err))
		}
	}

	log.Info("simulation finished",
		zap.Int("nodesCreated", host.Created()),
		zap.Int("liveNodes", len(host.LiveNodes())),
		zap.Int("activePlaybacks", player.Active()),
		zap.Int("cachedClips", manager.Cache().Len()))
	return nil
}

func loadCatalog(ctx context.Context, cfg *config.Config, log *zap.Logger) (*watch.Catalog, error) {
	switch {
	case cfg.CatalogURL != "":
		log.Info("fetching catalog", zap.String("url", cfg.CatalogURL))
		return watch.FetchCatalog(ctx, http.DefaultClient, cfg.CatalogURL)
	case cfg.CatalogPath != "":
		log.Info("loading catalog", zap.String("path", cfg.CatalogPath))
		return watch.LoadCatalog(cfg.CatalogPath)
	default:
		return watch.DefaultCatalog(), nil
	}
}

func buildLogger(verbose bool) (*zap.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	if !verbose {
		zc.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return zc.Build()
}
