package report

import "time"

// Summary is the machine-readable record of one category run.
type Summary struct {
	Task            string    `json:"task"`
	Category        string    `json:"category"`
	Passed          int       `json:"passed"`
	Failed          int       `json:"failed"`
	Skipped         int       `json:"skipped"`
	DurationSeconds float64   `json:"duration_seconds"`
	Timestamp       time.Time `json:"timestamp"`
	Failures        []string  `json:"failures,omitempty"`
}

// Succeeded reports whether the run completed without test failures.
func (s *Summary) Succeeded() bool {
	return s.Failed == 0
}

// Merged is the combined record produced by an aggregation task. It
// carries every input summary verbatim, failed runs included.
type Merged struct {
	Aggregation string    `json:"aggregation"`
	GeneratedAt time.Time `json:"generated_at"`
	TotalPassed int       `json:"total_passed"`
	TotalFailed int       `json:"total_failed"`
	Inputs      []Summary `json:"inputs"`
}
