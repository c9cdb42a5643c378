package report

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vk/testweave/internal/ctxlog"
)

const (
	summaryFile = "summary.json"
	mergedFile  = "merged.json"
)

// Backend physically reads and writes report artifacts. The orchestration
// core only assigns destination directories; what an artifact looks like
// on disk lives entirely behind this interface.
type Backend interface {
	WriteSummary(ctx context.Context, dir string, s *Summary) error
	ReadSummary(ctx context.Context, dir string) (*Summary, error)
	WriteMerged(ctx context.Context, dir string, m *Merged) error
	ReadMerged(ctx context.Context, dir string) (*Merged, error)
}

// JSONBackend stores report artifacts as JSON files, one directory per
// task.
type JSONBackend struct{}

// NewJSONBackend creates the default JSON report backend.
func NewJSONBackend() *JSONBackend {
	return &JSONBackend{}
}

func (b *JSONBackend) WriteSummary(ctx context.Context, dir string, s *Summary) error {
	ctxlog.FromContext(ctx).Debug("Writing run summary.", "dir", dir, "task", s.Task)
	return writeJSON(dir, summaryFile, s)
}

func (b *JSONBackend) ReadSummary(ctx context.Context, dir string) (*Summary, error) {
	var s Summary
	if err := readJSON(dir, summaryFile, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (b *JSONBackend) WriteMerged(ctx context.Context, dir string, m *Merged) error {
	ctxlog.FromContext(ctx).Debug("Writing merged report.", "dir", dir, "aggregation", m.Aggregation)
	return writeJSON(dir, mergedFile, m)
}

func (b *JSONBackend) ReadMerged(ctx context.Context, dir string) (*Merged, error) {
	var m Merged
	if err := readJSON(dir, mergedFile, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func writeJSON(dir, name string, v any) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating report directory %s: %w", dir, err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, name), data, 0o644)
}

func readJSON(dir, name string, v any) error {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
