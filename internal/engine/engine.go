// Package engine runs the scheduled portion of a build's task graph with
// a pool of workers. Only the target and its transitive hard dependencies
// are scheduled; soft runs-after edges order scheduled tasks without
// pulling their predecessors in.
package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/vk/testweave/internal/build"
	"github.com/vk/testweave/internal/ctxlog"
	"github.com/vk/testweave/internal/report"
)

// Executor runs one target on a build context.
type Executor struct {
	bc      *build.Context
	workers int
}

// NewExecutor creates an executor with the given worker-pool size.
func NewExecutor(bc *build.Context, workers int) *Executor {
	if workers < 1 {
		workers = 1
	}
	return &Executor{bc: bc, workers: workers}
}

// execNode tracks the runtime state of one scheduled graph node.
type execNode struct {
	id string
	// remaining counts unfinished hard dependencies plus unfinished
	// scheduled soft predecessors. The node becomes ready at zero.
	remaining atomic.Int32
	state     atomic.Int32
	err       error

	terminalOnce sync.Once

	hardDependents []string
	softDependents []string
}

// Run executes the target task and everything it hard-depends on.
// It always returns an outcome describing what ran; the error is non-nil
// when any non-tolerated task failed or execution was cancelled.
func (e *Executor) Run(ctx context.Context, target string) (*Outcome, error) {
	logger := ctxlog.FromContext(ctx)

	nodes, err := e.schedule(target)
	if err != nil {
		return nil, err
	}
	logger.Info("🚀 Execution started.", "target", target, "scheduled", len(nodes), "workers", e.workers)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	outcome := &Outcome{Target: target, States: make(map[string]Status, len(nodes))}
	var outcomeMu sync.Mutex

	readyChan := make(chan *execNode, len(nodes))
	var wg sync.WaitGroup
	wg.Add(len(nodes))

	// finish moves a node to a terminal state exactly once and releases
	// its dependents.
	var finish func(n *execNode, s Status, nodeErr error)
	release := func(ids []string) {
		for _, id := range ids {
			dep := nodes[id]
			if dep.remaining.Add(-1) == 0 {
				readyChan <- dep
			}
		}
	}
	finish = func(n *execNode, s Status, nodeErr error) {
		n.terminalOnce.Do(func() {
			n.state.Store(int32(s))
			n.err = nodeErr

			switch s {
			case StatusSucceeded:
				release(n.hardDependents)
				release(n.softDependents)
			case StatusFailed:
				cancel()
				for _, id := range n.hardDependents {
					finish(nodes[id], StatusSkipped, nil)
				}
				release(n.softDependents)
			case StatusSkipped:
				// A skipped node can never satisfy a hard dependent, but
				// it no longer blocks soft ordering either.
				for _, id := range n.hardDependents {
					finish(nodes[id], StatusSkipped, nil)
				}
				release(n.softDependents)
			}
			wg.Done()
		})
	}

	for i := 0; i < e.workers; i++ {
		go func(workerID int) {
			workerLogger := logger.With("worker_id", workerID)
			for n := range readyChan {
				if Status(n.state.Load()) != StatusPending {
					continue
				}
				if runCtx.Err() != nil {
					finish(n, StatusSkipped, nil)
					continue
				}

				workerLogger.Info("▶️ Running task.", "task", n.id)
				n.state.Store(int32(StatusRunning))

				status, tolerated, nodeErr := e.executeNode(runCtx, n.id)
				if tolerated != "" {
					outcomeMu.Lock()
					outcome.ToleratedFailures = append(outcome.ToleratedFailures, tolerated)
					outcomeMu.Unlock()
				}
				finish(n, status, nodeErr)
			}
		}(i)
	}

	for _, n := range nodes {
		if n.remaining.Load() == 0 {
			readyChan <- n
		}
	}

	wg.Wait()
	close(readyChan)

	var failures []error
	for _, id := range sortedIDs(nodes) {
		n := nodes[id]
		outcome.States[id] = Status(n.state.Load())
		if n.err != nil {
			failures = append(failures, fmt.Errorf("task %q: %w", id, n.err))
		}
	}
	sort.Strings(outcome.ToleratedFailures)

	if len(failures) > 0 {
		logger.Info("🏁 Execution finished with failures.", "target", target, "failures", len(failures))
		return outcome, fmt.Errorf("execution of %q failed: %w", target, failures[0])
	}
	logger.Info("🏁 Execution finished.", "target", target)
	return outcome, nil
}

// schedule resolves the set of nodes to run: the target plus its hard
// dependency closure, with dependency counts restricted to that set.
func (e *Executor) schedule(target string) (map[string]*execNode, error) {
	g := e.bc.Graph()
	if !g.HasNode(target) {
		return nil, fmt.Errorf("unknown target task %q", target)
	}

	ids, err := g.TransitiveDependencies(target)
	if err != nil {
		return nil, err
	}
	scheduled := map[string]bool{target: true}
	for _, id := range ids {
		scheduled[id] = true
	}

	nodes := make(map[string]*execNode, len(scheduled))
	for id := range scheduled {
		nodes[id] = &execNode{id: id}
	}

	for id, n := range nodes {
		deps, err := g.Dependencies(id)
		if err != nil {
			return nil, err
		}
		preds, err := g.RunAfter(id)
		if err != nil {
			return nil, err
		}
		var remaining int32
		for _, dep := range deps {
			if scheduled[dep] {
				remaining++
			}
		}
		// Soft predecessors count only when they run in this execution.
		for _, pred := range preds {
			if scheduled[pred] {
				remaining++
			}
		}
		n.remaining.Store(remaining)

		dependents, err := g.Dependents(id)
		if err != nil {
			return nil, err
		}
		for _, dep := range dependents {
			if scheduled[dep] {
				n.hardDependents = append(n.hardDependents, dep)
			}
		}
		softDeps, err := g.SoftDependents(id)
		if err != nil {
			return nil, err
		}
		for _, dep := range softDeps {
			if scheduled[dep] {
				n.softDependents = append(n.softDependents, dep)
			}
		}
	}

	return nodes, nil
}

// executeNode runs whatever the node identifies: a test task, an
// aggregation, or a lifecycle stage (which is a pure synchronization
// point). The second return value names a tolerated test failure, if any.
func (e *Executor) executeNode(ctx context.Context, id string) (Status, string, error) {
	if task, ok := e.bc.TestRunTask(id); ok {
		return e.executeTestRun(ctx, task)
	}
	if agg, ok := e.bc.AggregationTask(id); ok {
		status, err := e.executeAggregation(ctx, agg)
		return status, "", err
	}
	// Lifecycle stages have no work of their own.
	ctxlog.FromContext(ctx).Debug("Stage complete.", "stage", id)
	return StatusSucceeded, "", nil
}

func (e *Executor) executeTestRun(ctx context.Context, task *build.TestRunTask) (Status, string, error) {
	logger := ctxlog.FromContext(ctx).With("task", task.Name)

	if task.Run == nil {
		return StatusFailed, "", fmt.Errorf("task has no run function")
	}
	summary, err := task.Run(ctx)
	if err != nil {
		return StatusFailed, "", err
	}

	// The summary is written even for failed runs so aggregations can
	// merge it.
	if backend := e.bc.ReportBackend(); backend != nil && task.ReportDir != "" {
		if werr := backend.WriteSummary(ctx, task.ReportDir, summary); werr != nil {
			return StatusFailed, "", werr
		}
	}

	if summary.Succeeded() {
		return StatusSucceeded, "", nil
	}
	if task.IgnoreFailures {
		logger.Warn("Test failures tolerated.", "failed", summary.Failed)
		return StatusSucceeded, task.Name, nil
	}
	return StatusFailed, "", fmt.Errorf("%d test(s) failed", summary.Failed)
}

func (e *Executor) executeAggregation(ctx context.Context, agg *build.AggregationTask) (Status, error) {
	backend := e.bc.ReportBackend()
	if backend == nil {
		return StatusFailed, fmt.Errorf("aggregation %q requires a report backend", agg.Name)
	}

	dirs := make([]string, 0, len(agg.Inputs))
	for _, in := range agg.Inputs {
		dirs = append(dirs, in.ReportDir)
	}
	merged, err := report.Merge(ctx, backend, agg.Name, dirs)
	if err != nil {
		return StatusFailed, err
	}
	if err := backend.WriteMerged(ctx, agg.DestinationDir, merged); err != nil {
		return StatusFailed, err
	}
	return StatusSucceeded, nil
}

func sortedIDs(nodes map[string]*execNode) []string {
	ids := make([]string, 0, len(nodes))
	for id := range nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
