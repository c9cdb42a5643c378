package app

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/vk/testweave/internal/build"
)

// renderPlan prints the orchestrated task graph as a table without
// running anything.
func (a *App) renderPlan() error {
	g := a.build.Graph()

	t := table.NewWriter()
	t.SetOutputMirror(a.outW)
	t.AppendHeader(table.Row{"Task", "Kind", "Report dir", "Depends on", "Runs after"})

	row := func(name, kind, reportDir string) {
		deps, _ := g.Dependencies(name)
		after, _ := g.RunAfter(name)
		t.AppendRow(table.Row{name, kind, reportDir, strings.Join(deps, ", "), strings.Join(after, ", ")})
	}

	for _, task := range a.build.TestRunTasks() {
		row(task.Name, "test", task.ReportDir)
	}
	for _, agg := range a.build.AggregationTasks() {
		row(agg.Name, "aggregation", agg.DestinationDir)
	}
	for _, stage := range []string{build.StageCheck, build.StageBuild} {
		row(stage, "stage", "")
	}

	t.Render()
	return nil
}
