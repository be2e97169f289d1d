package check

import "github.com/samber/lo"

// A Key identifies a defect: a kind of failure for a given solver.
type Key struct {
	Solver string
	Kind   Kind
}

func (k Key) String() string {
	return k.Solver + "::" + string(k.Kind)
}

// An Entry is a recorded defect.
type Entry struct {
	Key      Key
	Instance string // First instance that exhibited the defect.
	Count    int    // Number of times the defect was observed.
}

// A Registry associates each defect with the first instance that exhibited it.
// Entries are never removed nor replaced, and they are kept in the order
// they were first recorded.
// The zero value is an empty registry ready to use.
type Registry struct {
	entries []*Entry
	index   map[Key]*Entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[Key]*Entry)}
}

// Record notes that instance exhibited the given defect.
// It returns true iff the defect was not known yet, in which case instance
// becomes its exemplar. Otherwise, only the occurrence count is increased.
func (r *Registry) Record(key Key, instance string) bool {
	if e, ok := r.index[key]; ok {
		e.Count++
		return false
	}
	if r.index == nil {
		r.index = make(map[Key]*Entry)
	}
	e := &Entry{Key: key, Instance: instance, Count: 1}
	r.entries = append(r.entries, e)
	r.index[key] = e
	return true
}

// Lookup returns the entry for key, if any.
func (r *Registry) Lookup(key Key) (Entry, bool) {
	e, ok := r.index[key]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Count returns how many times the given defect was observed.
func (r *Registry) Count(key Key) int {
	if e, ok := r.index[key]; ok {
		return e.Count
	}
	return 0
}

// Len returns the number of distinct defects.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Entries returns a copy of all entries, in the order they were first recorded.
func (r *Registry) Entries() []Entry {
	return lo.Map(r.entries, func(e *Entry, _ int) Entry { return *e })
}
