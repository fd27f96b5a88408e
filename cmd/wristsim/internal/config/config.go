// Package config loads wristsim settings from defaults, an optional YAML
// file, and WRISTSIM_ environment variables, in that precedence order.
package config

import (
	"strings"
	"time"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/pkg/errors"

	"github.com/go-drift/timepiece/pkg/localtime"
)

// Config is the resolved simulator configuration.
type Config struct {
	// CatalogPath is an optional watch catalog file. Empty means the
	// built-in catalog.
	CatalogPath string

	// CatalogURL optionally fetches a remote catalog instead. Takes
	// precedence over CatalogPath when both are set.
	CatalogURL string

	// Model is the catalog model dispensed to each simulated wearer.
	Model string

	// Wearers is how many simulated wearers join.
	Wearers int

	// Timezone is the zone every dispensed watch shows.
	Timezone string

	// RunFor is how long the simulation runs before tearing down.
	RunFor time.Duration

	// WatchCatalog enables hot reload of CatalogPath.
	WatchCatalog bool

	// Verbose enables debug logging.
	Verbose bool
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"catalog_path":  "",
		"catalog_url":   "",
		"model":         "classic",
		"wearers":       2,
		"timezone":      localtime.DefaultTimezone,
		"run_for":       "10s",
		"watch_catalog": false,
		"verbose":       false,
	}
}

// Load resolves the configuration. An empty path skips the file layer.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, errors.Wrap(err, "load config defaults")
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "load config file %s", path)
		}
	}
	if err := k.Load(env.Provider("WRISTSIM_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "WRISTSIM_"))
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load config environment")
	}

	cfg := &Config{
		CatalogPath:  k.String("catalog_path"),
		CatalogURL:   k.String("catalog_url"),
		Model:        k.String("model"),
		Wearers:      k.Int("wearers"),
		Timezone:     k.String("timezone"),
		RunFor:       k.Duration("run_for"),
		WatchCatalog: k.Bool("watch_catalog"),
		Verbose:      k.Bool("verbose"),
	}
	if cfg.Wearers < 1 {
		return nil, errors.Errorf("wearers must be at least 1, got %d", cfg.Wearers)
	}
	return cfg, nil
}
