// Package aggregate builds report-aggregation tasks: tasks that
// hard-depend on an ordered set of test-run tasks and merge their
// reports into one combined destination once all of them are terminal,
// failed runs included.
package aggregate
