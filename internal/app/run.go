package app

import (
	"context"
	"fmt"

	"github.com/vk/testweave/internal/ctxlog"
	"github.com/vk/testweave/internal/engine"
	"github.com/vk/testweave/internal/orchestrator"
)

// Run executes the main application logic based on the provided configuration.
func (a *App) Run(ctx context.Context, appConfig *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if _, err := orchestrator.Apply(ctx, a.build, orchestrator.Options{
		ReportBase: appConfig.ReportDir,
		Model:      a.model,
		WorkDir:    appConfig.WorkDir,
	}); err != nil {
		return fmt.Errorf("failed to apply orchestration: %w", err)
	}

	if appConfig.Plan {
		a.logger.Debug("Plan requested, skipping execution.")
		return a.renderPlan()
	}

	a.logger.Info("🚀 Starting concurrent execution...", "target", appConfig.Target, "workers", appConfig.Workers)
	exec := engine.NewExecutor(a.build, appConfig.Workers)
	outcome, err := exec.Run(ctx, appConfig.Target)
	if err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}
	for _, name := range outcome.ToleratedFailures {
		a.logger.Warn("Task completed with tolerated test failures.", "task", name)
	}
	a.logger.Info("🏁 Execution finished.", "target", appConfig.Target, "tasks", len(outcome.States))

	a.logger.Debug("App.Run method finished.")
	return nil
}
