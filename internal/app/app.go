package app

import (
	"bytes"
	"context"
	"io"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/vk/gdmcv/internal/command"
	"github.com/vk/gdmcv/internal/config"
	"github.com/vk/gdmcv/internal/ctxlog"
	"github.com/vk/gdmcv/internal/pipeline"
	"github.com/vk/gdmcv/internal/workspace"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	loader   *config.Loader
	executor command.Executor
}

// NewApp is the constructor for the main application. Every external tool is
// spawned through executor.
func NewApp(outW io.Writer, cfg *Config, executor command.Executor) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		loader:   config.NewLoader(),
		executor: executor,
	}
}

// Run executes the pipeline for the configured input.
func (a *App) Run(ctx context.Context) (*pipeline.Result, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "config", *a.config)

	tools, err := a.loader.Load(ctx, a.config.SettingsPath)
	if err != nil {
		return nil, errors.Wrap(err, "load tool settings")
	}

	layout, err := workspace.Plan(a.config.Input, a.config.Output, a.config.Length)
	if err != nil {
		return nil, errors.Wrap(err, "plan workspace")
	}

	driver, err := pipeline.NewDriver(layout, tools, command.NewRunner(a.executor), a.config.Threads)
	if err != nil {
		return nil, err
	}

	if a.logger.Enabled(ctx, slog.LevelDebug) {
		var dot bytes.Buffer
		if err := driver.WriteDOT(&dot); err != nil {
			a.logger.Warn("Could not render pipeline graph.", "error", err)
		}
		a.logger.Debug("Pipeline plan built.", "steps", driver.Plan(), "dot", dot.String())
	}

	a.logger.Info("Starting pipeline.", "input", a.config.Input, "workspace", layout.Root, "threads", a.config.Threads, "length", a.config.Length)
	res, err := driver.Run(ctx)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("App.Run method finished.")
	return res, nil
}
