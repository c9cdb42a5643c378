// Package build models the build the orchestration is applied to: its
// task namespace and graph, the pre-existing lifecycle stages, and the
// collaborator capabilities (test execution, classpath resolution,
// report writing, IDE integration) the core consumes but does not own.
package build
