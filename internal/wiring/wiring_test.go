package wiring

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/testweave/internal/build"
	"github.com/vk/testweave/internal/category"
	"github.com/vk/testweave/internal/graph"
)

func standingContext(t *testing.T) (*build.Context, []*category.Category) {
	t.Helper()

	bc := build.NewContext()
	reg := category.New()

	var cats []*category.Category
	for _, c := range category.Standing() {
		stored, err := reg.Register(c)
		require.NoError(t, err)
		cats = append(cats, stored)
		require.NoError(t, bc.AddTestRunTask(&build.TestRunTask{Name: c.Name, Category: stored}))
	}
	return bc, cats
}

func TestWire_StandingCategories(t *testing.T) {
	t.Parallel()

	bc, cats := standingContext(t)

	edges, err := Wire(context.Background(), cats, bc)
	require.NoError(t, err)

	// integration is soft-ordered after unit; system hard-depends on the
	// build stage; check requires both auto-run categories.
	assert.Contains(t, edges, graph.Edge{From: "integration", To: "unit", Kind: graph.SoftRunAfter})
	assert.Contains(t, edges, graph.Edge{From: "system", To: "build", Kind: graph.HardDependency})
	assert.Contains(t, edges, graph.Edge{From: "check", To: "unit", Kind: graph.HardDependency})
	assert.Contains(t, edges, graph.Edge{From: "check", To: "integration", Kind: graph.HardDependency})
	assert.Len(t, edges, 4)

	// system is not wired into check.
	checkDeps, err := bc.Graph().Dependencies("check")
	require.NoError(t, err)
	assert.NotContains(t, checkDeps, "system")

	systemSoft, err := bc.Graph().RunAfter("system")
	require.NoError(t, err)
	assert.Empty(t, systemSoft)
}

func TestWire_MissingRunsAfterReference(t *testing.T) {
	t.Parallel()

	bc := build.NewContext()
	ghost := &category.Category{Name: "e2e", RunsAfter: []string{"nonexistent"}}
	require.NoError(t, bc.AddTestRunTask(&build.TestRunTask{Name: "e2e", Category: ghost}))

	_, err := Wire(context.Background(), []*category.Category{ghost}, bc)
	require.Error(t, err)

	var missing *MissingCategoryError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "e2e", missing.Category)
	assert.Equal(t, "nonexistent", missing.Reference)

	// Nothing was applied for the failed category.
	soft, gerr := bc.Graph().RunAfter("e2e")
	require.NoError(t, gerr)
	assert.Empty(t, soft)
}

func TestWire_MissingLifecycleStage(t *testing.T) {
	t.Parallel()

	bc := build.NewContext()
	cat := &category.Category{Name: "smoke", DependsOnLifecycle: []string{"deploy"}}
	require.NoError(t, bc.AddTestRunTask(&build.TestRunTask{Name: "smoke", Category: cat}))

	_, err := Wire(context.Background(), []*category.Category{cat}, bc)
	require.Error(t, err)

	var missing *MissingCategoryError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "deploy", missing.Reference)
}

func TestWire_HalfWiredCategoryIsRolledUpFront(t *testing.T) {
	t.Parallel()

	// The category declares one valid predecessor and one unknown
	// lifecycle stage. Validation happens before any edge is applied, so
	// even the valid run-after edge must be absent afterwards.
	bc := build.NewContext()
	unit := &category.Category{Name: "unit", AutoRunOnCheck: true}
	broken := &category.Category{Name: "e2e", RunsAfter: []string{"unit"}, DependsOnLifecycle: []string{"deploy"}}
	require.NoError(t, bc.AddTestRunTask(&build.TestRunTask{Name: "unit", Category: unit}))
	require.NoError(t, bc.AddTestRunTask(&build.TestRunTask{Name: "e2e", Category: broken}))

	_, err := Wire(context.Background(), []*category.Category{unit, broken}, bc)
	require.Error(t, err)

	soft, gerr := bc.Graph().RunAfter("e2e")
	require.NoError(t, gerr)
	assert.Empty(t, soft)
}

func TestWire_AutoRunLifecycleCycleDetected(t *testing.T) {
	t.Parallel()

	// An auto-run category gated on the build stage closes a loop:
	// check -> category -> build -> check.
	bc := build.NewContext()
	cat := &category.Category{Name: "smoke", AutoRunOnCheck: true, DependsOnLifecycle: []string{"build"}}
	require.NoError(t, bc.AddTestRunTask(&build.TestRunTask{Name: "smoke", Category: cat}))

	_, err := Wire(context.Background(), []*category.Category{cat}, bc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}
