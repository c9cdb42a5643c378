package wiring

import (
	"context"
	"fmt"

	"github.com/vk/testweave/internal/build"
	"github.com/vk/testweave/internal/category"
	"github.com/vk/testweave/internal/ctxlog"
	"github.com/vk/testweave/internal/graph"
)

// MissingCategoryError reports a runs-after or lifecycle reference to a
// name that does not exist on the build.
type MissingCategoryError struct {
	Category  string
	Reference string
}

func (e *MissingCategoryError) Error() string {
	return fmt.Sprintf("category %q references unknown name %q", e.Category, e.Reference)
}

// Wire adds the execution-order edges for the given categories to the
// build's task graph, in registration order, and returns the edges it
// added. For each category the full edge set is validated before any of
// it is applied, so an error never leaves a category half-wired.
func Wire(ctx context.Context, categories []*category.Category, bc *build.Context) ([]graph.Edge, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Wiring execution graph.", "categories", len(categories))

	var wired []graph.Edge
	for _, cat := range categories {
		task, ok := bc.TestRunTask(cat.Name)
		if !ok {
			return nil, fmt.Errorf("no test task exists for category %q", cat.Name)
		}

		planned, err := planEdges(cat, task, bc)
		if err != nil {
			return nil, err
		}
		if err := applyEdges(bc.Graph(), planned); err != nil {
			return nil, fmt.Errorf("wiring category %q: %w", cat.Name, err)
		}

		logger.Debug("Category wired.", "category", cat.Name, "edges", len(planned))
		wired = append(wired, planned...)
	}

	if err := bc.Graph().DetectCycles(); err != nil {
		return nil, fmt.Errorf("error validating dependency graph: %w", err)
	}
	logger.Debug("Execution graph wired.", "edges", len(wired))
	return wired, nil
}

// planEdges computes the complete edge set one category contributes:
// soft run-after edges to predecessor categories, hard edges to required
// lifecycle stages, and the check-gate edge for auto-run categories.
func planEdges(cat *category.Category, task *build.TestRunTask, bc *build.Context) ([]graph.Edge, error) {
	var edges []graph.Edge

	for _, pred := range cat.RunsAfter {
		predTask, ok := bc.TestRunTask(pred)
		if !ok {
			return nil, &MissingCategoryError{Category: cat.Name, Reference: pred}
		}
		edges = append(edges, graph.Edge{From: task.Name, To: predTask.Name, Kind: graph.SoftRunAfter})
	}

	for _, stage := range cat.DependsOnLifecycle {
		if !bc.Stage(stage) {
			return nil, &MissingCategoryError{Category: cat.Name, Reference: stage}
		}
		edges = append(edges, graph.Edge{From: task.Name, To: stage, Kind: graph.HardDependency})
	}

	if cat.AutoRunOnCheck {
		edges = append(edges, graph.Edge{From: build.StageCheck, To: task.Name, Kind: graph.HardDependency})
	}

	return edges, nil
}

func applyEdges(g *graph.Graph, edges []graph.Edge) error {
	for _, e := range edges {
		var err error
		switch e.Kind {
		case graph.HardDependency:
			err = g.AddDependency(e.From, e.To)
		case graph.SoftRunAfter:
			err = g.AddRunAfter(e.From, e.To)
		default:
			err = fmt.Errorf("unknown edge kind %q", e.Kind)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
