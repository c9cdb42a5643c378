package app

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/testweave/internal/hclcfg"
)

func TestNewConfig_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewConfig(Config{ReportDir: "reports"})
	require.Error(t, err, "empty target must be rejected")

	_, err = NewConfig(Config{Target: "check"})
	require.Error(t, err, "empty report dir must be rejected")

	cfg, err := NewConfig(Config{Target: "check", ReportDir: "reports"})
	require.NoError(t, err)
	assert.Equal(t, ".", cfg.WorkDir)
	assert.Equal(t, 4, cfg.Workers)
}

func TestNewApp_WithoutConfigPath(t *testing.T) {
	t.Parallel()

	cfg, err := NewConfig(Config{Target: "check", ReportDir: "reports", LogLevel: "error"})
	require.NoError(t, err)

	out := &bytes.Buffer{}
	a := NewApp(out, cfg, hclcfg.NewLoader())
	require.NotNil(t, a.Build())
	assert.Nil(t, a.model)
}

func TestRun_PlanRendersEveryTask(t *testing.T) {
	t.Parallel()

	cfg, err := NewConfig(Config{
		Target:    "check",
		ReportDir: filepath.Join(t.TempDir(), "reports"),
		Plan:      true,
		LogLevel:  "error",
	})
	require.NoError(t, err)

	out := &bytes.Buffer{}
	a := NewApp(out, cfg, hclcfg.NewLoader())
	require.NoError(t, a.Run(context.Background(), cfg))

	for _, name := range []string{"unit", "integration", "system", "reportOnCheck", "allTests", "check", "build"} {
		assert.Contains(t, out.String(), name)
	}
}

func TestRun_ExecutesTargetEndToEnd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg, err := NewConfig(Config{
		Target:    "check",
		ReportDir: filepath.Join(dir, "reports"),
		WorkDir:   dir,
		LogLevel:  "error",
	})
	require.NoError(t, err)

	out := &bytes.Buffer{}
	a := NewApp(out, cfg, hclcfg.NewLoader())
	require.NoError(t, a.Run(context.Background(), cfg))

	// Standing categories have no commands, so every run summary records
	// an empty successful run and the check-gated merge exists on disk.
	merged, err := a.Build().ReportBackend().ReadMerged(context.Background(), filepath.Join(dir, "reports", "reportOnChecks"))
	require.NoError(t, err)
	assert.Equal(t, "reportOnCheck", merged.Aggregation)
	assert.Len(t, merged.Inputs, 2)
	assert.Equal(t, 0, merged.TotalFailed)
}
