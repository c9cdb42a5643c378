package build

import (
	"context"
	"path/filepath"

	"github.com/vk/testweave/internal/category"
)

// Classpath is the opaque set of compile- and runtime-scope entries a
// category's tests are built and run against. The core never inspects
// it; it is threaded from the resolver into task creation.
type Classpath struct {
	CompileEntries []string
	RuntimeEntries []string
}

// TestExecution is the base test-execution capability. It knows how to
// turn a category into a runnable task and where the category's sources
// live. The orchestrator applies a default implementation when a build
// has none.
type TestExecution interface {
	RunTestTask(ctx context.Context, cat *category.Category, cp Classpath) (*TestRunTask, error)
	SourceRoot(cat *category.Category) string
}

// ClasspathResolver supplies the classpath entries for a named category.
type ClasspathResolver interface {
	Resolve(ctx context.Context, categoryName string) (Classpath, error)
}

// IDEIntegration registers category source directories as test-source
// roots in an IDE project model. Best effort: failures are logged by the
// caller and never abort orchestration.
type IDEIntegration interface {
	RegisterTestSourceRoot(ctx context.Context, dir string) error
}

// StaticClasspathResolver derives classpath entries from a fixed output
// layout, one test-output directory per category plus a shared main
// output.
type StaticClasspathResolver struct {
	OutputDir string
}

func (r *StaticClasspathResolver) Resolve(ctx context.Context, categoryName string) (Classpath, error) {
	main := filepath.Join(r.OutputDir, "main")
	test := filepath.Join(r.OutputDir, categoryName)
	return Classpath{
		CompileEntries: []string{main, test},
		RuntimeEntries: []string{main, test, filepath.Join(r.OutputDir, "deps", categoryName)},
	}, nil
}
