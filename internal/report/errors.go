package report

import "fmt"

// PathCollisionError reports two distinct tasks resolving to the same
// report directory. Under the pluralized naming scheme this should never
// happen; the check is defensive.
type PathCollisionError struct {
	Path     string
	Owner    string
	Claimant string
}

func (e *PathCollisionError) Error() string {
	return fmt.Sprintf("report path %q claimed by task %q is already owned by task %q", e.Path, e.Claimant, e.Owner)
}

// ReportMergeError reports that a merged report could not be assembled
// from its inputs. Merge inputs are deterministic, so the condition is
// never retried.
type ReportMergeError struct {
	Aggregation string
	Dir         string
	Err         error
}

func (e *ReportMergeError) Error() string {
	return fmt.Sprintf("aggregation %q: cannot merge report data from %q: %v", e.Aggregation, e.Dir, e.Err)
}

func (e *ReportMergeError) Unwrap() error {
	return e.Err
}
