package build

import (
	"context"

	"github.com/vk/testweave/internal/category"
	"github.com/vk/testweave/internal/report"
)

// RunFunc executes a category's tests and reports the outcome. A non-nil
// error means the tests could not be run at all; individual test
// failures are recorded in the summary instead.
type RunFunc func(ctx context.Context) (*report.Summary, error)

// TestRunTask is one runnable test task, bound to exactly one category.
// Tasks are created once per build invocation and discarded with it;
// nothing persists across runs.
type TestRunTask struct {
	Name      string
	Category  *category.Category
	ReportDir string
	Classpath Classpath
	// IgnoreFailures makes test failures terminal-success for
	// scheduling, so downstream aggregations always get to run. Set by
	// the report aggregator, never cleared.
	IgnoreFailures bool
	Run            RunFunc
}

// AggregationTask merges the reports of its input tasks into one
// combined report. It references its inputs weakly: it constrains their
// completion order but never owns their lifecycle.
type AggregationTask struct {
	Name string
	// Inputs is ordered; the merged report lists them in this order.
	Inputs         []*TestRunTask
	DestinationDir string
	// Gate names the lifecycle stage that requires this aggregation,
	// or is empty for on-demand aggregations.
	Gate string
}
