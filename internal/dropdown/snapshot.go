package dropdown

import (
	"github.com/huandu/go-clone"
)

// Item is one entry of a dropdown's data source. Records are usually
// map[string]any (what the config decoders produce) or structs.
type Item = any

// Snapshot is a private copy of the data source taken when the control is
// (re-)initialized. Mutating the source afterwards does not change it.
type Snapshot struct {
	items []Item
}

// NewSnapshot deep-copies source. A nil or empty source gives an empty snapshot.
func NewSnapshot(source []Item) Snapshot {
	items := make([]Item, len(source))
	for i, item := range source {
		items[i] = deepCopy(item)
	}
	return Snapshot{items: items}
}

// Len returns the number of items
func (s Snapshot) Len() int {
	return len(s.items)
}

// At returns the item at index i
func (s Snapshot) At(i int) Item {
	return s.items[i]
}

// Items returns the snapshot items. Callers must not modify the slice.
func (s Snapshot) Items() []Item {
	return s.items
}

// deepCopy clones v, keeping pointer cycles as cycles in the copy.
func deepCopy(v any) any {
	if v == nil {
		return nil
	}
	return clone.Slowly(v)
}
