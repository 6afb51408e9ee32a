// Package dropdown implements a single/multi selection dropdown for bubbletea
// programs. Controls on one page share a Registry so that only one of them is
// expanded at a time.
package dropdown

import (
	"log"
	"reflect"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// Options configures a control at mount time
type Options struct {
	ID          string // generated when empty
	Multiple    bool
	Group       bool   // multi mode: show "N Selected" when more than one item is selected
	Field       string // projection key for display, whole item when empty
	TrackBy     string // single mode: key used to match the initial value
	Placeholder string
}

// Binding is the externally owned selection value. The control reads it when
// it initializes and writes it on every committed change.
type Binding interface {
	Load() any
	Store(v any)
}

// Value is an in-memory Binding
type Value struct {
	v any
}

func NewValue(v any) *Value {
	return &Value{v: v}
}

func (b *Value) Load() any   { return b.v }
func (b *Value) Store(v any) { b.v = v }

// ChangedMsg is emitted after a selection change has been committed to the
// binding.
type ChangedMsg struct {
	ID    string
	Value any
	Seq   uint64 // increases with every Select on the control
}

// Control is one mounted dropdown.
type Control struct {
	opts     Options
	registry *Registry
	model    Binding
	engine   Engine
	source   []Item
	summary  string
	disabled bool
	errored  bool
	seq      uint64
	onChange func()
}

// New mounts a control on registry with no data. model may be nil, in which
// case the control keeps its value in a private Value. The binding is first
// read by SetData, so a seed survives until the data arrives.
func New(registry *Registry, opts Options, model Binding) *Control {
	if opts.ID == "" {
		opts.ID = uuid.NewString()
	}
	if model == nil {
		model = NewValue(nil)
	}

	c := &Control{
		opts:     opts,
		registry: registry,
		model:    model,
	}
	if opts.Multiple {
		c.engine = NewMulti()
	} else {
		c.engine = NewSingle(opts.TrackBy)
	}

	c.engine.Initialize(NewSnapshot(nil), nil, nil)
	c.summary = Project(c.engine, c.opts)
	registry.Register(c)
	return c
}

// SetData points the control at a new data source. The snapshot is rebuilt
// and the selection re-initialized when the slice was replaced or its
// contents changed; otherwise SetData does nothing and returns false.
func (c *Control) SetData(data []Item) bool {
	if sameSlice(c.source, data) && c.SameData(data) {
		return false
	}
	c.rebuild(data)
	return true
}

// SameData reports whether data has the contents of the current snapshot.
func (c *Control) SameData(data []Item) bool {
	return reflect.DeepEqual(c.engine.Snapshot().Items(), normalize(data))
}

func (c *Control) rebuild(data []Item) {
	c.source = data
	snap := NewSnapshot(data)
	seed := c.model.Load()
	value, publish := c.engine.Initialize(snap, data, seed)
	if publish {
		if !c.opts.Multiple {
			log.Printf("dropdown %s: initial value %v not in data, clearing", c.opts.ID, seed)
		}
		c.model.Store(value)
	}
	c.summary = Project(c.engine, c.opts)
}

// Select applies a click on the item at index. Single mode commits the item
// and collapses the control; multi mode toggles the item. The returned
// command reports the change once the binding holds the new value. Commands
// may be delivered out of order; Seq tells which change is the latest.
func (c *Control) Select(index int) tea.Cmd {
	value := c.engine.Select(index)
	c.model.Store(value)
	if !c.opts.Multiple {
		c.registry.Collapse(c)
	}
	c.summary = Project(c.engine, c.opts)

	c.seq++
	id, seq := c.opts.ID, c.seq
	return func() tea.Msg {
		return ChangedMsg{ID: id, Value: value, Seq: seq}
	}
}

// Click handles a click on the display box.
func (c *Control) Click() bool {
	return c.registry.Toggle(c)
}

// Update runs the change callback when this control's ChangedMsg comes back
// through the event loop.
func (c *Control) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(ChangedMsg); ok && msg.ID == c.opts.ID && c.onChange != nil {
		c.onChange()
	}
	return nil
}

// OnChange sets the callback run after each committed selection change.
func (c *Control) OnChange(fn func()) {
	c.onChange = fn
}

// Close removes the control from its registry.
func (c *Control) Close() {
	c.registry.Deregister(c)
}

// SetDisabled sets the disabled flag. Disabling clears the error flag.
func (c *Control) SetDisabled(disabled bool) {
	c.disabled = disabled
	if disabled {
		c.errored = false
	}
}

func (c *Control) Disabled() bool {
	return c.disabled
}

func (c *Control) SetError(errored bool) {
	c.errored = errored
}

func (c *Control) ClearError() {
	c.errored = false
}

// Errored returns the external error flag.
func (c *Control) Errored() bool {
	return c.errored
}

// ErrorShown reports whether the error indicator is visible. Disabled
// controls never show it.
func (c *Control) ErrorShown() bool {
	return c.errored && !c.disabled
}

func (c *Control) Expanded() bool {
	return c.registry.State(c) == Expanded
}

func (c *Control) ID() string {
	return c.opts.ID
}

func (c *Control) Options() Options {
	return c.opts
}

// Summary returns the display text
func (c *Control) Summary() string {
	return c.summary
}

// HasSelection reports whether at least one item is selected.
func (c *Control) HasSelection() bool {
	switch e := c.engine.(type) {
	case *Single:
		return e.Index() >= 0
	case *Multi:
		return e.Count() > 0
	}
	return false
}

// Len returns the number of items in the current snapshot.
func (c *Control) Len() int {
	return c.engine.Snapshot().Len()
}

// Item returns the snapshot item at index.
func (c *Control) Item(index int) Item {
	return c.engine.Snapshot().At(index)
}

// ItemText returns the display text of the item at index.
func (c *Control) ItemText(index int) string {
	return projectItem(c.Item(index), c.opts.Field)
}

func (c *Control) IsSelected(index int) bool {
	return c.engine.IsSelected(index)
}

// Value returns the current value of the binding.
func (c *Control) Value() any {
	return c.model.Load()
}

// Engine exposes the selection state.
func (c *Control) Engine() Engine {
	return c.engine
}

func sameSlice(a, b []Item) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}

// normalize maps nil to an empty slice so it compares equal to an empty
// snapshot.
func normalize(data []Item) []Item {
	if data == nil {
		return []Item{}
	}
	return data
}
