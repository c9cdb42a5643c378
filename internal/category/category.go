package category

// Standing category names. Every build starts with these three wired in.
const (
	Unit        = "unit"
	Integration = "integration"
	System      = "system"
)

// Category describes a single test category: its scheduling relations to
// other categories and to build lifecycle stages, and how its tests are
// invoked. Categories are immutable shared configuration once registered.
type Category struct {
	// Name uniquely identifies the category within a build.
	Name string
	// AutoRunOnCheck wires the category's test task into the check
	// lifecycle stage.
	AutoRunOnCheck bool
	// RunsAfter lists categories this one is scheduled after. Soft
	// ordering only; predecessors are never forced to run.
	RunsAfter []string
	// DependsOnLifecycle lists lifecycle stages that must complete
	// before this category's tests start.
	DependsOnLifecycle []string
	// Command is the shell command that runs the category's tests. May
	// be empty for categories executed by an external capability.
	Command string
	// Env holds additional environment variables for Command.
	Env map[string]string
}

// Standing returns the default categories: unit and integration run on
// check (integration scheduled after unit), system runs only on demand
// and requires a complete build first.
func Standing() []Category {
	return []Category{
		{Name: Unit, AutoRunOnCheck: true},
		{Name: Integration, AutoRunOnCheck: true, RunsAfter: []string{Unit}},
		{Name: System, DependsOnLifecycle: []string{"build"}},
	}
}
