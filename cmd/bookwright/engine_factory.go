package main

import (
	"fmt"

	"github.com/bookwright/bookwright/internal/config"
	"github.com/bookwright/bookwright/internal/engine"
)

// loadConfig loads the effective configuration, preferring an explicit
// --config path over the layered user/project discovery.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

// createEngine builds and initializes a validation engine from the
// configuration. The AI responder mode (live or mock) is decided here,
// once, from the credentials present.
func createEngine(cfg *config.Config) (*engine.Engine, error) {
	eng := engine.New()
	if err := eng.Initialize(cfg); err != nil {
		return nil, fmt.Errorf("initializing engine: %w", err)
	}
	return eng, nil
}
