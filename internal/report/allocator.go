package report

import "path/filepath"

// Allocator maps task names to unique report directories beneath a
// single base path. Allocation is pure path computation; directories are
// created by the backend at write time.
type Allocator struct {
	base string
	// byName memoizes allocations so repeated calls stay deterministic.
	byName map[string]string
	// claimed maps each allocated path back to its owning task. The
	// naming scheme cannot collide on its own, but the claim table
	// asserts that regardless.
	claimed map[string]string
}

// NewAllocator creates an allocator rooted at the given base directory.
func NewAllocator(base string) *Allocator {
	return &Allocator{
		base:    base,
		byName:  make(map[string]string),
		claimed: make(map[string]string),
	}
}

// Base returns the directory all report paths are allocated under.
func (a *Allocator) Base() string {
	return a.base
}

// Claim records an externally assigned report directory for the named
// task so later allocations cannot hand it out again. Claiming a path
// that already belongs to another task is a PathCollisionError.
func (a *Allocator) Claim(taskName, path string) error {
	if owner, ok := a.claimed[path]; ok && owner != taskName {
		return &PathCollisionError{Path: path, Owner: owner, Claimant: taskName}
	}
	a.byName[taskName] = path
	a.claimed[path] = taskName
	return nil
}

// Allocate returns the report directory for the named task. The mapping
// is deterministic: base/<taskName>s. Allocating the same name twice
// yields the same path; two distinct names mapping to one path is a
// PathCollisionError.
func (a *Allocator) Allocate(taskName string) (string, error) {
	if path, ok := a.byName[taskName]; ok {
		return path, nil
	}

	path := filepath.Join(a.base, taskName+"s")
	if owner, ok := a.claimed[path]; ok && owner != taskName {
		return "", &PathCollisionError{Path: path, Owner: owner, Claimant: taskName}
	}

	a.byName[taskName] = path
	a.claimed[path] = taskName
	return path, nil
}
