package main

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/weft-lang/weft/engine"
	"github.com/weft-lang/weft/engine/registry"
	"github.com/weft-lang/weft/internal/cli/config"
	"github.com/weft-lang/weft/internal/loader"
)

// setup loads the configuration, builds the catalog from the configured
// definition directories, and constructs an engine over it.
func setup() (*engine.Engine, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration: %w", err)
	}

	log, err := newLogger(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	defer log.Sync() //nolint:errcheck

	catalog := registry.New()
	if err := registry.RegisterBuiltins(catalog); err != nil {
		return nil, nil, fmt.Errorf("registering builtin directives: %w", err)
	}

	if _, err := loader.New(log, cfg.Registry.Paths...).Load(catalog); err != nil {
		// Definition errors are reported but do not prevent using the
		// directives that did load.
		log.Warn("some directive definitions failed to load", zap.Error(err))
	}

	opts := []engine.Option{
		engine.WithStandardVersion(cfg.Engine.StandardVersion),
	}
	if !cfg.Engine.Strict {
		opts = append(opts, engine.WithLenientIssues())
	}
	if cfg.Registry.Cache.Enabled {
		opts = append(opts, engine.WithCache(cfg.Registry.Cache.Size))
	}
	return engine.New(catalog, opts...), cfg, nil
}

// newLogger builds a console zap logger at the configured level.
func newLogger(level string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

// catalogNames lists the registered directive names, for fuzzy
// suggestions on unknown-directive errors.
func catalogNames(e *engine.Engine) []string {
	defs := e.Catalog().List()
	names := make([]string, 0, len(defs))
	seen := make(map[string]bool, len(defs))
	for _, def := range defs {
		if !seen[def.Name] {
			names = append(names, def.Name)
			seen[def.Name] = true
		}
	}
	return names
}
