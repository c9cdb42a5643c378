package aggregate

import (
	"context"
	"fmt"

	"github.com/vk/testweave/internal/build"
	"github.com/vk/testweave/internal/ctxlog"
	"github.com/vk/testweave/internal/report"
)

// Build constructs an aggregation task over the given input tasks and
// wires it into the build graph: the aggregation hard-depends on every
// input, writes to its own allocated destination, and is optionally
// required by a lifecycle stage. As a side effect, every test-run task
// in the aggregation's transitive dependency closure is switched to
// tolerate failures, so the merge always gets to run.
func Build(ctx context.Context, bc *build.Context, name string, inputs []*build.TestRunTask, gate string, alloc *report.Allocator) (*build.AggregationTask, error) {
	logger := ctxlog.FromContext(ctx)

	if len(inputs) == 0 {
		return nil, fmt.Errorf("aggregation %q requires at least one input task", name)
	}
	if gate != "" && !bc.Stage(gate) {
		return nil, fmt.Errorf("aggregation %q gates on unknown lifecycle stage %q", name, gate)
	}

	dest, err := alloc.Allocate(name)
	if err != nil {
		return nil, err
	}
	// No report-producing task may ever share a write target.
	for _, in := range inputs {
		if in.ReportDir == dest {
			return nil, &report.PathCollisionError{Path: dest, Owner: in.Name, Claimant: name}
		}
	}
	for _, other := range bc.AggregationTasks() {
		if other.DestinationDir == dest {
			return nil, &report.PathCollisionError{Path: dest, Owner: other.Name, Claimant: name}
		}
	}

	task := &build.AggregationTask{
		Name:           name,
		Inputs:         inputs,
		DestinationDir: dest,
		Gate:           gate,
	}
	if err := bc.AddAggregationTask(task); err != nil {
		return nil, err
	}

	g := bc.Graph()
	for _, in := range inputs {
		if err := g.AddDependency(name, in.Name); err != nil {
			return nil, fmt.Errorf("wiring aggregation %q: %w", name, err)
		}
	}
	if gate != "" {
		if err := g.AddDependency(gate, name); err != nil {
			return nil, fmt.Errorf("gating aggregation %q on %q: %w", name, gate, err)
		}
	}

	if err := markTolerant(ctx, bc, name); err != nil {
		return nil, err
	}

	logger.Debug("Aggregation wired.", "aggregation", name, "inputs", len(inputs), "gate", gate, "destination", dest)
	return task, nil
}

// markTolerant flips IgnoreFailures on every test-run task the
// aggregation transitively hard-depends on. The walk deliberately
// reaches tasks shared with other aggregations: one failed category must
// not block any merge that includes it. Re-running the pass is a no-op.
func markTolerant(ctx context.Context, bc *build.Context, aggregation string) error {
	ids, err := bc.Graph().TransitiveDependencies(aggregation)
	if err != nil {
		return err
	}

	logger := ctxlog.FromContext(ctx)
	for _, id := range ids {
		if t, ok := bc.TestRunTask(id); ok && !t.IgnoreFailures {
			t.IgnoreFailures = true
			logger.Debug("Test task now tolerates failures.", "task", id, "aggregation", aggregation)
		}
	}
	return nil
}
