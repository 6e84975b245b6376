// Package app wires together configuration, the launch source, and other
// dependencies into a single Deps struct that commands receive at runtime.
package app

import (
	"fmt"

	"github.com/mkrebs/padwatch/internal/config"
	"github.com/mkrebs/padwatch/internal/source"
	"github.com/mkrebs/padwatch/internal/store"
	"github.com/mkrebs/padwatch/internal/tile"
)

// Deps holds all runtime dependencies injected into command Run functions.
// The store is opened lazily because most commands never touch it.
type Deps struct {
	Config *config.Config
	Source source.Source
}

// New builds a Deps from resolved config.
func New(cfg *config.Config) (*Deps, error) {
	src, err := newSource(cfg)
	if err != nil {
		return nil, err
	}
	return &Deps{Config: cfg, Source: src}, nil
}

// newSource selects the upstream client implementation by configuration.
func newSource(cfg *config.Config) (source.Source, error) {
	switch cfg.Source {
	case config.SourceSpaceX:
		return source.NewSpaceXClient(cfg.BaseURL, cfg.Timeout, cfg.Rate, cfg.Debug), nil
	case config.SourceLL2:
		return source.NewLL2Client(cfg.BaseURL, cfg.Timeout, cfg.Rate, cfg.Debug), nil
	default:
		return nil, fmt.Errorf("unknown source %q", cfg.Source)
	}
}

// OpenStore opens the persisted-state database at the configured path.
func (d *Deps) OpenStore() (*store.Store, error) {
	return store.Open(d.Config.DBPath)
}

// TileOptions derives the tile presentation settings from config.
func (d *Deps) TileOptions() tile.Options {
	return tile.Options{
		Layout:       d.Config.DashboardLayout,
		TextColor:    d.Config.TextColor,
		ShowName:     d.Config.ShowName,
		ShowLocality: d.Config.ShowLocality,
	}
}
