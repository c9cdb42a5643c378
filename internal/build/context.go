package build

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/vk/testweave/internal/graph"
	"github.com/vk/testweave/internal/report"
)

// Lifecycle stage names consumed by the orchestration core. The stages
// and their partial order pre-exist on every build; the core only adds
// edges into them.
const (
	StageBuild = "build"
	StageCheck = "check"
)

// Context models the build that orchestration is applied to: the shared
// task namespace, the lifecycle graph, capability slots and apply
// markers. One Context lives exactly as long as one build invocation.
type Context struct {
	id string

	mu        sync.Mutex
	graph     *graph.Graph
	stages    map[string]bool
	tests     map[string]*TestRunTask
	testOrder []string
	aggs      map[string]*AggregationTask
	aggOrder  []string
	markers   map[string]bool

	testExecution TestExecution
	classpaths    ClasspathResolver
	reports       report.Backend
	ide           IDEIntegration
}

// NewContext creates a build context with the pre-existing lifecycle
// stages wired: the umbrella build stage verifies before it is
// considered done.
func NewContext() *Context {
	g := graph.New()
	g.AddNode(StageCheck)
	g.AddNode(StageBuild)
	if err := g.AddDependency(StageBuild, StageCheck); err != nil {
		// Both nodes were just added; this cannot fail.
		panic(err)
	}

	return &Context{
		id:      uuid.New().String(),
		graph:   g,
		stages:  map[string]bool{StageBuild: true, StageCheck: true},
		tests:   make(map[string]*TestRunTask),
		aggs:    make(map[string]*AggregationTask),
		markers: make(map[string]bool),
	}
}

// ID returns the unique identifier of this build invocation.
func (c *Context) ID() string {
	return c.id
}

// Graph returns the build's task graph.
func (c *Context) Graph() *graph.Graph {
	return c.graph
}

// Stage reports whether a lifecycle stage with the given name exists.
func (c *Context) Stage(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stages[name]
}

// AddTestRunTask registers a test task in the build's task namespace and
// adds its graph node. Task names are unique across stages, test tasks
// and aggregations.
func (c *Context) AddTestRunTask(t *TestRunTask) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.graph.HasNode(t.Name) {
		return fmt.Errorf("task name %q is already in use", t.Name)
	}
	c.graph.AddNode(t.Name)
	c.tests[t.Name] = t
	c.testOrder = append(c.testOrder, t.Name)
	return nil
}

// TestRunTask returns the test task registered under the given name.
func (c *Context) TestRunTask(name string) (*TestRunTask, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.tests[name]
	return t, ok
}

// TestRunTasks returns every test task on the build, in the order they
// were added. This includes tasks defined outside the orchestrator.
func (c *Context) TestRunTasks() []*TestRunTask {
	c.mu.Lock()
	defer c.mu.Unlock()

	all := make([]*TestRunTask, 0, len(c.testOrder))
	for _, name := range c.testOrder {
		all = append(all, c.tests[name])
	}
	return all
}

// AddAggregationTask registers an aggregation task in the build's task
// namespace and adds its graph node.
func (c *Context) AddAggregationTask(t *AggregationTask) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.graph.HasNode(t.Name) {
		return fmt.Errorf("task name %q is already in use", t.Name)
	}
	c.graph.AddNode(t.Name)
	c.aggs[t.Name] = t
	c.aggOrder = append(c.aggOrder, t.Name)
	return nil
}

// AggregationTask returns the aggregation task registered under the
// given name.
func (c *Context) AggregationTask(name string) (*AggregationTask, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.aggs[name]
	return t, ok
}

// AggregationTasks returns every aggregation task in creation order.
func (c *Context) AggregationTasks() []*AggregationTask {
	c.mu.Lock()
	defer c.mu.Unlock()

	all := make([]*AggregationTask, 0, len(c.aggOrder))
	for _, name := range c.aggOrder {
		all = append(all, c.aggs[name])
	}
	return all
}

// Marker reports whether the named marker has been set on this build.
func (c *Context) Marker(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.markers[key]
}

// SetMarker records the named marker on this build.
func (c *Context) SetMarker(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.markers[key] = true
}

// TestExecution returns the build's test-execution capability, or nil.
func (c *Context) TestExecution() TestExecution {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.testExecution
}

// SetTestExecution installs the build's test-execution capability.
func (c *Context) SetTestExecution(cap TestExecution) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.testExecution = cap
}

// ClasspathResolver returns the build's classpath resolver, or nil.
func (c *Context) ClasspathResolver() ClasspathResolver {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.classpaths
}

// SetClasspathResolver installs the build's classpath resolver.
func (c *Context) SetClasspathResolver(r ClasspathResolver) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.classpaths = r
}

// ReportBackend returns the build's report-writing backend, or nil.
func (c *Context) ReportBackend() report.Backend {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reports
}

// SetReportBackend installs the build's report-writing backend.
func (c *Context) SetReportBackend(b report.Backend) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reports = b
}

// IDEIntegration returns the build's IDE-integration capability, or nil
// when none is present.
func (c *Context) IDEIntegration() IDEIntegration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ide
}

// SetIDEIntegration installs the optional IDE-integration capability.
func (c *Context) SetIDEIntegration(i IDEIntegration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ide = i
}
