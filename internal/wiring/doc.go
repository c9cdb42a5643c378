// Package wiring is the execution graph builder: it turns registered
// test categories into ordering edges on the build's task graph. Soft
// run-after edges order sibling categories, hard edges gate categories
// on lifecycle stages, and auto-run categories become requirements of
// the check stage.
package wiring
