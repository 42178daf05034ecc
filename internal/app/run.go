package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/burstmatrix/internal/ctxlog"
	"github.com/specialistvlad/burstmatrix/internal/model"
	"github.com/specialistvlad/burstmatrix/internal/plan"
)

// Plan loads and validates the configured workflow and expands it.
func (a *App) Plan(ctx context.Context) (*plan.Plan, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	def, err := a.loader.Load(ctx, a.config.WorkflowPaths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load workflow: %w", err)
	}
	a.logger.Debug("Workflow definition loaded.", "name", def.Name, "jobs", len(def.Jobs))

	platforms := append(append([]string{}, model.DefaultPlatforms...), a.config.Platforms...)
	wf, err := model.New(*def, model.WithPlatforms(platforms...))
	if err != nil {
		return nil, err
	}
	a.logger.Debug("Workflow validated.", "name", wf.Name())

	return plan.Build(ctx, wf, a.resolver), nil
}

// Run executes the main application logic: the plan is built, written to the
// output and dispatched when a publisher is configured.
func (a *App) Run(ctx context.Context) error {
	a.logger.Debug("App.Run method started.")

	p, err := a.Plan(ctx)
	if err != nil {
		return err
	}

	if err := plan.Render(a.outW, p, a.config.Format); err != nil {
		return fmt.Errorf("failed to render plan: %w", err)
	}

	if a.publisher != nil {
		a.logger.Info("Dispatching plan...", "instances", p.InstanceCount())
		if err := a.publisher.Publish(ctxlog.WithLogger(ctx, a.logger), p); err != nil {
			return err
		}
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}
