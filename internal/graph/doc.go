// Package graph implements the task dependency graph the orchestration
// core mutates. It distinguishes hard dependency edges, which gate
// execution, from soft run-after edges, which only order tasks that are
// both scheduled anyway.
package graph
