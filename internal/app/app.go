package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/testweave/internal/build"
	"github.com/vk/testweave/internal/config"
	"github.com/vk/testweave/internal/ctxlog"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	build  *build.Context
	model  *config.Model
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and a fresh
// build context.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	// Load user configuration into the format-agnostic model. A build
	// without a config file uses the standing categories unchanged.
	var model *config.Model
	if appConfig.ConfigPath != "" {
		loaded, err := loader.Load(ctx, appConfig.ConfigPath)
		if err != nil {
			// A failure to load config is a fatal startup error.
			panic(fmt.Errorf("failed to load configuration: %w", err))
		}
		model = loaded
		logger.Debug("Configuration loaded and translated into unified model.", "categories", len(model.Categories))
	} else {
		logger.Debug("No configuration path provided, using standing categories only.")
	}

	bc := build.NewContext()
	logger.Debug("Build context created.", "build_id", bc.ID())

	return &App{
		outW:   outW,
		logger: logger,
		build:  bc,
		model:  model,
	}
}

// Build returns the application's build context. This is primarily for testing.
func (a *App) Build() *build.Context {
	return a.build
}
