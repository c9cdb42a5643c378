package category

import "fmt"

// DuplicateCategoryError reports an attempt to register a category name
// twice within one build.
type DuplicateCategoryError struct {
	Name string
}

func (e *DuplicateCategoryError) Error() string {
	return fmt.Sprintf("category %q is already registered", e.Name)
}

// CycleError reports a runs-after relation that would make the category
// ordering circular.
type CycleError struct {
	From string
	To   string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("runs-after edge from %q to %q would create a cycle", e.From, e.To)
}
