package report

import (
	"context"
	"time"

	"github.com/vk/testweave/internal/ctxlog"
)

// Merge assembles the combined report for an aggregation from the
// summaries found in the given input directories, in input order.
// Upstream test failures are ordinary content here; only unreadable or
// malformed input data fails the merge.
func Merge(ctx context.Context, b Backend, aggregation string, inputDirs []string) (*Merged, error) {
	logger := ctxlog.FromContext(ctx)

	merged := &Merged{
		Aggregation: aggregation,
		GeneratedAt: time.Now().UTC(),
	}
	for _, dir := range inputDirs {
		s, err := b.ReadSummary(ctx, dir)
		if err != nil {
			return nil, &ReportMergeError{Aggregation: aggregation, Dir: dir, Err: err}
		}
		merged.TotalPassed += s.Passed
		merged.TotalFailed += s.Failed
		merged.Inputs = append(merged.Inputs, *s)
	}

	logger.Debug("Reports merged.",
		"aggregation", aggregation,
		"inputs", len(merged.Inputs),
		"total_failed", merged.TotalFailed)
	return merged, nil
}
