package engine

// Status is the scheduling state of one graph node during an execution.
type Status int32

const (
	StatusPending Status = iota
	StatusRunning
	StatusSucceeded
	StatusFailed
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Outcome records what one execution did.
type Outcome struct {
	Target string
	// States holds the final state of every scheduled node.
	States map[string]Status
	// ToleratedFailures lists test tasks that had failures but were
	// allowed to count as complete, sorted by name.
	ToleratedFailures []string
}
