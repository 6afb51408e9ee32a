package dropdown

// State is the expansion state of a registered control
type State int

const (
	Collapsed State = iota
	Expanded
)

func (s State) String() string {
	if s == Expanded {
		return "expanded"
	}
	return "collapsed"
}

// Member is a control known to a Registry. Implementations must be
// comparable (pointer receivers).
type Member interface {
	Disabled() bool
	ClearError()
}

// Registry tracks every mounted control of a page and keeps at most one of
// them expanded. It is owned by the UI event loop and is not safe for
// concurrent use.
type Registry struct {
	members  []Member
	expanded Member
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds m in registration order. Registering twice is a no-op.
func (r *Registry) Register(m Member) {
	if r.index(m) >= 0 {
		return
	}
	r.members = append(r.members, m)
}

// Deregister removes m, collapsing it if it was expanded
func (r *Registry) Deregister(m Member) {
	i := r.index(m)
	if i < 0 {
		return
	}
	r.members = append(r.members[:i], r.members[i+1:]...)
	if r.expanded == m {
		r.expanded = nil
	}
}

// Expand makes m the only expanded member.
func (r *Registry) Expand(m Member) {
	if r.index(m) < 0 {
		return
	}
	r.expanded = m
}

// Collapse collapses m if it is expanded.
func (r *Registry) Collapse(m Member) {
	if r.expanded == m {
		r.expanded = nil
	}
}

// CollapseAll collapses every member.
func (r *Registry) CollapseAll() {
	r.expanded = nil
}

// Toggle flips m between collapsed and expanded. Disabled or unknown members
// are left alone and false is returned. A successful toggle clears m's error
// flag.
func (r *Registry) Toggle(m Member) bool {
	if r.index(m) < 0 || m.Disabled() {
		return false
	}
	if r.expanded == m {
		r.CollapseAll()
	} else {
		r.Expand(m)
	}
	m.ClearError()
	return true
}

// State returns the expansion state of m.
func (r *Registry) State(m Member) State {
	if m != nil && r.expanded == m {
		return Expanded
	}
	return Collapsed
}

// Expanded returns the expanded member, or nil.
func (r *Registry) Expanded() Member {
	return r.expanded
}

// Members returns the registered members in registration order.
func (r *Registry) Members() []Member {
	return append([]Member(nil), r.members...)
}

func (r *Registry) Len() int {
	return len(r.members)
}

func (r *Registry) index(m Member) int {
	if m == nil {
		return -1
	}
	for i, member := range r.members {
		if member == m {
			return i
		}
	}
	return -1
}
