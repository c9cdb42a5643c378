// Package report owns everything about test report artifacts that the
// orchestration core is allowed to know: the per-task path allocation
// scheme that keeps report directories disjoint, the run summary and
// merged report records, and the backend interface that physically
// writes them.
package report
