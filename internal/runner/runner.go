// Package runner provides the default base test-execution capability:
// each category's configured command is run as a child process and its
// outcome recorded as a run summary. Discovery of individual test cases
// stays inside the invoked tool.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/vk/testweave/internal/build"
	"github.com/vk/testweave/internal/category"
	"github.com/vk/testweave/internal/ctxlog"
	"github.com/vk/testweave/internal/report"
)

// maxFailureOutput bounds how much command output is carried into the
// run summary for a failed category.
const maxFailureOutput = 4096

// ExecRunner implements build.TestExecution by shelling out to each
// category's command.
type ExecRunner struct {
	workDir string
}

// New creates an ExecRunner that invokes commands in workDir.
func New(workDir string) *ExecRunner {
	return &ExecRunner{workDir: workDir}
}

// RunTestTask binds a category to a runnable task. The task's report
// directory is assigned later by the orchestrator's isolation pass.
func (r *ExecRunner) RunTestTask(ctx context.Context, cat *category.Category, cp build.Classpath) (*build.TestRunTask, error) {
	if cat == nil {
		return nil, fmt.Errorf("category must not be nil")
	}
	ctxlog.FromContext(ctx).Debug("Creating test task.", "category", cat.Name)

	task := &build.TestRunTask{
		Name:      cat.Name,
		Category:  cat,
		Classpath: cp,
	}
	task.Run = func(runCtx context.Context) (*report.Summary, error) {
		return r.run(runCtx, cat)
	}
	return task, nil
}

// SourceRoot returns the directory holding the category's test sources.
func (r *ExecRunner) SourceRoot(cat *category.Category) string {
	return filepath.Join(r.workDir, "src", cat.Name)
}

func (r *ExecRunner) run(ctx context.Context, cat *category.Category) (*report.Summary, error) {
	logger := ctxlog.FromContext(ctx).With("category", cat.Name)

	summary := &report.Summary{
		Task:      cat.Name,
		Category:  cat.Name,
		Timestamp: time.Now().UTC(),
	}
	if cat.Command == "" {
		logger.Debug("Category has no command, recording empty run.")
		return summary, nil
	}

	logger.Debug("Running category command.", "command", cat.Command)
	start := time.Now()
	cmd := exec.CommandContext(ctx, "sh", "-c", cat.Command)
	cmd.Dir = r.workDir
	cmd.Env = os.Environ()
	for k, v := range cat.Env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	output, err := cmd.CombinedOutput()
	summary.DurationSeconds = time.Since(start).Seconds()

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			// The command never ran; that is an infrastructure failure,
			// not a test failure.
			return nil, fmt.Errorf("running command for category %q: %w", cat.Name, err)
		}
		summary.Failed = 1
		summary.Failures = append(summary.Failures, tail(string(output), maxFailureOutput))
		logger.Debug("Category command failed.", "exit_code", exitErr.ExitCode())
		return summary, nil
	}

	summary.Passed = 1
	logger.Debug("Category command succeeded.")
	return summary, nil
}

// tail returns at most n trailing bytes of s.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
