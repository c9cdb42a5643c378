package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_StandingCategories(t *testing.T) {
	t.Parallel()

	reg := New()
	for _, c := range Standing() {
		_, err := reg.Register(c)
		require.NoError(t, err)
	}

	require.Equal(t, 3, reg.Len())

	// Registration order is preserved.
	all := reg.All()
	assert.Equal(t, Unit, all[0].Name)
	assert.Equal(t, Integration, all[1].Name)
	assert.Equal(t, System, all[2].Name)

	integration, ok := reg.Lookup(Integration)
	require.True(t, ok)
	assert.True(t, integration.AutoRunOnCheck)
	assert.Equal(t, []string{Unit}, integration.RunsAfter)

	system, ok := reg.Lookup(System)
	require.True(t, ok)
	assert.False(t, system.AutoRunOnCheck)
	assert.Equal(t, []string{"build"}, system.DependsOnLifecycle)
}

func TestRegister_DuplicateName(t *testing.T) {
	t.Parallel()

	reg := New()
	_, err := reg.Register(Category{Name: "unit"})
	require.NoError(t, err)

	_, err = reg.Register(Category{Name: "unit", AutoRunOnCheck: true})
	require.Error(t, err)

	var dup *DuplicateCategoryError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "unit", dup.Name)

	// The failed registration must not have mutated the registry.
	assert.Equal(t, 1, reg.Len())
}

func TestRegister_SelfReferenceIsCycle(t *testing.T) {
	t.Parallel()

	reg := New()
	_, err := reg.Register(Category{Name: "e2e", RunsAfter: []string{"e2e"}})
	require.Error(t, err)

	var cycle *CycleError
	require.ErrorAs(t, err, &cycle)
	assert.Equal(t, "e2e", cycle.From)
}

func TestRegister_CycleViaForwardReference(t *testing.T) {
	t.Parallel()

	// "a" declares it runs after a category registered later; when "b"
	// closes the loop the registry must reject it.
	reg := New()
	_, err := reg.Register(Category{Name: "a", RunsAfter: []string{"b"}})
	require.NoError(t, err)

	_, err = reg.Register(Category{Name: "b", RunsAfter: []string{"a"}})
	require.Error(t, err)

	var cycle *CycleError
	require.ErrorAs(t, err, &cycle)
	assert.Equal(t, "b", cycle.From)
	assert.Equal(t, "a", cycle.To)
	assert.Equal(t, 1, reg.Len())
}

func TestRegister_AcyclicChainSucceeds(t *testing.T) {
	t.Parallel()

	reg := New()
	_, err := reg.Register(Category{Name: "unit"})
	require.NoError(t, err)
	_, err = reg.Register(Category{Name: "integration", RunsAfter: []string{"unit"}})
	require.NoError(t, err)
	_, err = reg.Register(Category{Name: "e2e", RunsAfter: []string{"unit", "integration"}})
	require.NoError(t, err)

	assert.Equal(t, 3, reg.Len())
}
