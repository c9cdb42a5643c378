package category

// Registry holds all registered categories for a single build
// invocation. It is mutated only while the orchestration is applied and
// treated as read-only afterwards.
type Registry struct {
	order      []string
	categories map[string]*Category
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		categories: make(map[string]*Category),
	}
}

// Register validates and stores a category. It fails if the name is
// already taken or if the category's runs-after relations would make the
// category ordering circular.
func (r *Registry) Register(c Category) (*Category, error) {
	if _, exists := r.categories[c.Name]; exists {
		return nil, &DuplicateCategoryError{Name: c.Name}
	}
	for _, pred := range c.RunsAfter {
		if pred == c.Name || r.reachable(pred, c.Name) {
			return nil, &CycleError{From: c.Name, To: pred}
		}
	}

	stored := c
	r.categories[c.Name] = &stored
	r.order = append(r.order, c.Name)
	return &stored, nil
}

// Lookup returns the category registered under the given name.
func (r *Registry) Lookup(name string) (*Category, bool) {
	c, ok := r.categories[name]
	return c, ok
}

// All returns every registered category in registration order.
func (r *Registry) All() []*Category {
	all := make([]*Category, 0, len(r.order))
	for _, name := range r.order {
		all = append(all, r.categories[name])
	}
	return all
}

// Len returns the number of registered categories.
func (r *Registry) Len() int {
	return len(r.categories)
}

// reachable reports whether target can be reached from start by
// following runs-after edges among already registered categories.
func (r *Registry) reachable(start, target string) bool {
	if start == target {
		return true
	}
	cur, ok := r.categories[start]
	if !ok {
		return false
	}
	for _, next := range cur.RunsAfter {
		if r.reachable(next, target) {
			return true
		}
	}
	return false
}
