package dropdown

import "fmt"

// Engine holds the selection state of one control.
type Engine interface {
	// Initialize resets the state for a freshly rebuilt snapshot. source is
	// the collection the snapshot was copied from, seed the current value of
	// the external binding. It returns the value to publish to the binding
	// and whether publishing is needed at all.
	Initialize(snap Snapshot, source []Item, seed any) (any, bool)

	// Select applies a click on the item at index and returns the value to
	// publish. index must be within the snapshot.
	Select(index int) any

	// Value is the external value matching the current state.
	Value() any

	// IsSelected reports whether the item at index is part of the selection.
	IsSelected(index int) bool

	// Snapshot returns the snapshot the state refers to.
	Snapshot() Snapshot
}

// Single allows at most one selected item.
type Single struct {
	trackBy string
	snap    Snapshot
	index   int
}

// NewSingle creates a single-mode engine. trackBy may be empty.
func NewSingle(trackBy string) *Single {
	return &Single{trackBy: trackBy, index: -1}
}

func (s *Single) Initialize(snap Snapshot, source []Item, seed any) (any, bool) {
	s.snap = snap
	s.index = -1
	if seed == nil {
		return nil, false
	}

	s.index = s.resolve(source, seed)
	if s.index == -1 {
		// stale seed, clear the binding
		return nil, true
	}
	return nil, false
}

// resolve finds the first item matching seed, or -1.
func (s *Single) resolve(source []Item, seed any) int {
	if s.trackBy != "" {
		want, ok := Lookup(seed, s.trackBy)
		if !ok {
			return -1
		}
		for i := 0; i < s.snap.Len(); i++ {
			if got, ok := Lookup(s.snap.At(i), s.trackBy); ok && equalKeys(want, got) {
				return i
			}
		}
		return -1
	}

	// Identity is checked against the source: the snapshot holds copies.
	for i := 0; i < len(source) && i < s.snap.Len(); i++ {
		if identical(seed, source[i]) {
			return i
		}
	}
	return -1
}

func (s *Single) Select(index int) any {
	checkIndex(index, s.snap.Len())
	s.index = index
	return s.snap.At(index)
}

func (s *Single) Value() any {
	if s.index < 0 {
		return nil
	}
	return s.snap.At(s.index)
}

func (s *Single) IsSelected(index int) bool {
	return index >= 0 && index == s.index
}

func (s *Single) Snapshot() Snapshot {
	return s.snap
}

// Index returns the selected index, -1 when nothing is selected.
func (s *Single) Index() int {
	return s.index
}

// Multi allows any subset of items. It keeps one flag per snapshot item.
type Multi struct {
	snap  Snapshot
	flags []bool
}

// NewMulti creates a multi-mode engine.
func NewMulti() *Multi {
	return &Multi{}
}

func (m *Multi) Initialize(snap Snapshot, _ []Item, _ any) (any, bool) {
	m.snap = snap
	m.flags = make([]bool, snap.Len())
	for i := range m.flags {
		m.flags[i] = preselected(snap.At(i))
	}
	return m.Value(), true
}

func (m *Multi) Select(index int) any {
	checkIndex(index, len(m.flags))
	m.flags[index] = !m.flags[index]
	return m.Value()
}

// Value returns the selected items in snapshot order.
func (m *Multi) Value() any {
	return m.Selected()
}

// Selected returns the selected items in snapshot order. The result is
// never nil.
func (m *Multi) Selected() []Item {
	selected := make([]Item, 0, len(m.flags))
	for i, on := range m.flags {
		if on {
			selected = append(selected, m.snap.At(i))
		}
	}
	return selected
}

func (m *Multi) IsSelected(index int) bool {
	return index >= 0 && index < len(m.flags) && m.flags[index]
}

func (m *Multi) Snapshot() Snapshot {
	return m.snap
}

// Flags returns a copy of the per-item selection flags.
func (m *Multi) Flags() []bool {
	return append([]bool(nil), m.flags...)
}

// Count returns how many items are selected.
func (m *Multi) Count() int {
	n := 0
	for _, on := range m.flags {
		if on {
			n++
		}
	}
	return n
}

func checkIndex(index, n int) {
	if index < 0 || index >= n {
		panic(fmt.Sprintf("dropdown: select index %d out of range [0,%d)", index, n))
	}
}
