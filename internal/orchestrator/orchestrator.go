// Package orchestrator applies the full test-category configuration to a
// build context: standing and user-defined categories, their test tasks
// and report directories, the execution-order edges between them, and the
// standing report aggregations.
package orchestrator

import (
	"context"
	"fmt"

	"github.com/vk/testweave/internal/aggregate"
	"github.com/vk/testweave/internal/build"
	"github.com/vk/testweave/internal/category"
	"github.com/vk/testweave/internal/config"
	"github.com/vk/testweave/internal/ctxlog"
	"github.com/vk/testweave/internal/report"
	"github.com/vk/testweave/internal/runner"
	"github.com/vk/testweave/internal/wiring"
)

// appliedMarker is set on the build context after a successful apply and
// makes every further apply a no-op.
const appliedMarker = "testweave/applied"

// Standing aggregation names.
const (
	AggReportOnCheck = "reportOnCheck"
	AggAllTests      = "allTests"
)

// Options configures one orchestration apply.
type Options struct {
	// ReportBase is the directory report paths are allocated under.
	ReportBase string
	// Model holds the user's category configuration. May be nil.
	Model *config.Model
	// WorkDir is where default capabilities run commands and look for
	// sources.
	WorkDir string
}

// Result describes what one apply produced.
type Result struct {
	Registry     *category.Registry
	Allocator    *report.Allocator
	Aggregations []*build.AggregationTask
}

// Apply orchestrates the build context. It is idempotent: the first call
// does all the work and sets a marker, subsequent calls return the
// marker's presence without touching the build again.
func Apply(ctx context.Context, bc *build.Context, opts Options) (*Result, error) {
	logger := ctxlog.FromContext(ctx)

	if bc.Marker(appliedMarker) {
		logger.Debug("Orchestration already applied, skipping.", "build_id", bc.ID())
		return nil, nil
	}
	logger.Info("🧩 Applying test-category orchestration.", "build_id", bc.ID())

	ensureCapabilities(bc, opts)

	registry, err := registerCategories(opts.Model)
	if err != nil {
		return nil, err
	}

	alloc := report.NewAllocator(opts.ReportBase)
	if err := createRunTasks(ctx, bc, registry, alloc); err != nil {
		return nil, err
	}

	if _, err := wiring.Wire(ctx, registry.All(), bc); err != nil {
		return nil, err
	}

	aggs, err := buildAggregations(ctx, bc, alloc)
	if err != nil {
		return nil, err
	}

	if err := isolateReports(bc, alloc); err != nil {
		return nil, err
	}

	registerSourceRoots(ctx, bc, registry)

	bc.SetMarker(appliedMarker)
	logger.Info("✅ Orchestration applied.", "categories", registry.Len(), "aggregations", len(aggs))

	return &Result{Registry: registry, Allocator: alloc, Aggregations: aggs}, nil
}

// ensureCapabilities installs default implementations for every
// capability slot the build left empty.
func ensureCapabilities(bc *build.Context, opts Options) {
	workDir := opts.WorkDir
	if workDir == "" {
		workDir = "."
	}
	if bc.TestExecution() == nil {
		bc.SetTestExecution(runner.New(workDir))
	}
	if bc.ClasspathResolver() == nil {
		bc.SetClasspathResolver(&build.StaticClasspathResolver{OutputDir: workDir + "/out"})
	}
	if bc.ReportBackend() == nil {
		bc.SetReportBackend(report.NewJSONBackend())
	}
}

// registerCategories fills a registry with the standing categories,
// applies user overrides to them, and registers user-defined extras.
func registerCategories(model *config.Model) (*category.Registry, error) {
	overrides := map[string]*config.CategoryConfig{}
	var extras []*config.CategoryConfig
	if model != nil {
		standing := map[string]bool{category.Unit: true, category.Integration: true, category.System: true}
		for _, cc := range model.Categories {
			if standing[cc.Name] {
				overrides[cc.Name] = cc
			} else {
				extras = append(extras, cc)
			}
		}
	}

	registry := category.New()
	for _, def := range category.Standing() {
		if cc, ok := overrides[def.Name]; ok {
			// Only invocation details of standing categories are
			// user-configurable; their scheduling relations are fixed.
			def.Command = cc.Command
			def.Env = cc.Env
		}
		if _, err := registry.Register(def); err != nil {
			return nil, err
		}
	}

	for _, cc := range extras {
		cat := category.Category{
			Name:               cc.Name,
			RunsAfter:          cc.RunsAfter,
			DependsOnLifecycle: cc.DependsOn,
			Command:            cc.Command,
			Env:                cc.Env,
		}
		if cc.AutoRun != nil {
			cat.AutoRunOnCheck = *cc.AutoRun
		}
		if _, err := registry.Register(cat); err != nil {
			return nil, fmt.Errorf("registering category %q: %w", cc.Name, err)
		}
	}

	return registry, nil
}

// createRunTasks creates one test task per category that does not
// already have one, with an isolated report directory.
func createRunTasks(ctx context.Context, bc *build.Context, registry *category.Registry, alloc *report.Allocator) error {
	exec := bc.TestExecution()
	resolver := bc.ClasspathResolver()

	for _, cat := range registry.All() {
		if _, exists := bc.TestRunTask(cat.Name); exists {
			continue
		}

		cp, err := resolver.Resolve(ctx, cat.Name)
		if err != nil {
			return fmt.Errorf("resolving classpath for category %q: %w", cat.Name, err)
		}
		task, err := exec.RunTestTask(ctx, cat, cp)
		if err != nil {
			return fmt.Errorf("creating test task for category %q: %w", cat.Name, err)
		}

		task.ReportDir, err = alloc.Allocate(task.Name)
		if err != nil {
			return err
		}
		if err := bc.AddTestRunTask(task); err != nil {
			return err
		}
	}
	return nil
}

// buildAggregations wires the two standing aggregations: the check-gated
// merge of the auto-run categories and the on-demand merge of all three.
func buildAggregations(ctx context.Context, bc *build.Context, alloc *report.Allocator) ([]*build.AggregationTask, error) {
	inputs := func(names ...string) ([]*build.TestRunTask, error) {
		tasks := make([]*build.TestRunTask, 0, len(names))
		for _, name := range names {
			t, ok := bc.TestRunTask(name)
			if !ok {
				return nil, fmt.Errorf("aggregation input task %q does not exist", name)
			}
			tasks = append(tasks, t)
		}
		return tasks, nil
	}

	checkInputs, err := inputs(category.Unit, category.Integration)
	if err != nil {
		return nil, err
	}
	onCheck, err := aggregate.Build(ctx, bc, AggReportOnCheck, checkInputs, build.StageCheck, alloc)
	if err != nil {
		return nil, err
	}

	allInputs, err := inputs(category.Unit, category.Integration, category.System)
	if err != nil {
		return nil, err
	}
	all, err := aggregate.Build(ctx, bc, AggAllTests, allInputs, "", alloc)
	if err != nil {
		return nil, err
	}

	return []*build.AggregationTask{onCheck, all}, nil
}

// isolateReports assigns a report directory to every test task on the
// build that still lacks one, including tasks created outside the
// orchestrator. Two tasks never share a directory: externally assigned
// directories are claimed first, so a clash with anything the allocator
// handed out surfaces as a PathCollisionError instead of a shared write
// target.
func isolateReports(bc *build.Context, alloc *report.Allocator) error {
	tasks := bc.TestRunTasks()
	for _, task := range tasks {
		if task.ReportDir == "" {
			continue
		}
		if err := alloc.Claim(task.Name, task.ReportDir); err != nil {
			return err
		}
	}
	for _, task := range tasks {
		if task.ReportDir != "" {
			continue
		}
		dir, err := alloc.Allocate(task.Name)
		if err != nil {
			return err
		}
		task.ReportDir = dir
	}
	return nil
}

// registerSourceRoots tells the IDE integration, when one is present,
// where each category keeps its test sources. Best effort.
func registerSourceRoots(ctx context.Context, bc *build.Context, registry *category.Registry) {
	ide := bc.IDEIntegration()
	if ide == nil {
		return
	}

	logger := ctxlog.FromContext(ctx)
	exec := bc.TestExecution()
	for _, cat := range registry.All() {
		dir := exec.SourceRoot(cat)
		if err := ide.RegisterTestSourceRoot(ctx, dir); err != nil {
			logger.Warn("Failed to register test source root.", "category", cat.Name, "dir", dir, "error", err)
		}
	}
}
