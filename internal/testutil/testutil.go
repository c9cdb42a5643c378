// Package testutil holds small helpers shared by tests across packages.
package testutil

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/vk/testweave/internal/build"
	"github.com/vk/testweave/internal/category"
	"github.com/vk/testweave/internal/ctxlog"
	"github.com/vk/testweave/internal/report"
)

// SafeBuffer is a goroutine-safe bytes.Buffer for capturing log output
// from concurrent code under test.
type SafeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Context returns a context carrying a debug-level text logger that
// writes into the returned buffer.
func Context(t *testing.T) (context.Context, *SafeBuffer) {
	t.Helper()

	buf := &SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return ctxlog.WithLogger(context.Background(), logger), buf
}

// ScriptedRunner implements build.TestExecution without spawning
// processes. Categories listed in Fail produce a failing summary.
type ScriptedRunner struct {
	mu   sync.Mutex
	Fail map[string]bool

	// Ran records category names in completion order.
	Ran []string
}

func (s *ScriptedRunner) RunTestTask(_ context.Context, cat *category.Category, cp build.Classpath) (*build.TestRunTask, error) {
	task := &build.TestRunTask{
		Name:      cat.Name,
		Category:  cat,
		Classpath: cp,
	}
	task.Run = func(context.Context) (*report.Summary, error) {
		s.mu.Lock()
		s.Ran = append(s.Ran, cat.Name)
		failed := s.Fail[cat.Name]
		s.mu.Unlock()

		summary := &report.Summary{Task: cat.Name, Category: cat.Name}
		if failed {
			summary.Failed = 1
			summary.Failures = []string{"scripted failure"}
		} else {
			summary.Passed = 1
		}
		return summary, nil
	}
	return task, nil
}

func (s *ScriptedRunner) SourceRoot(cat *category.Category) string {
	return "src/" + cat.Name
}
