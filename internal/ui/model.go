package ui

import (
	"fmt"
	"log"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"dropsel/internal/dropdown"
	"dropsel/internal/eventbus"
	"dropsel/internal/ui/views"
)

// Entry is one dropdown mounted on the page
type Entry struct {
	Name    string // config name, used in published events
	Label   string
	Control *dropdown.Control
}

// Loader returns fresh data for dropdowns, keyed by name
type Loader func() (map[string][]dropdown.Item, error)

// Model is the page hosting the dropdowns
type Model struct {
	bus      eventbus.EventBus
	registry *dropdown.Registry
	entries  []Entry
	loader   Loader

	width  int
	height int
	styles *views.Styles
	keys   keyMap
	help   help.Model

	status    string
	statusErr bool
	paused    bool // rendering paused while the pager owns the terminal

	helpRenderer *HelpRenderer
	helpOps      *HelpOps
	program      *tea.Program
}

// NewModel creates a new UI model
func NewModel(bus eventbus.EventBus, registry *dropdown.Registry, entries []Entry) *Model {
	if entries == nil {
		entries = []Entry{}
	}
	for i := range entries {
		if entries[i].Label == "" {
			entries[i].Label = entries[i].Name
		}
	}
	return &Model{
		bus:          bus,
		registry:     registry,
		entries:      entries,
		styles:       views.NewStyles(),
		keys:         newKeyMap(),
		help:         help.New(),
		helpRenderer: NewHelpRenderer(),
		helpOps:      NewHelpOps(),
	}
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.helpOps.SetProgram(p)
}

// SetLoader sets the function used by the reload key
func (m *Model) SetLoader(l Loader) {
	m.loader = l
}

// Entries returns the mounted dropdowns
func (m *Model) Entries() []Entry {
	return m.entries
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Collapse):
			m.registry.CollapseAll()
		case key.Matches(msg, m.keys.Reload):
			return m, m.reload()
		case key.Matches(msg, m.keys.Help):
			return m, m.fetchHelpPager(m.helpRenderer.RenderHelpContent())
		}

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			return m, m.click(msg.Y)
		}

	case dropdown.ChangedMsg:
		m.changed(msg)

	case DataMsg:
		m.setData(msg.Name, msg.Data)

	case dataLoadedMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("Reload failed: %v", msg.err), true)
			break
		}
		n := 0
		for name, data := range msg.data {
			// a reload always yields fresh slices; only new contents count
			i := m.indexByName(name)
			if i < 0 || m.entries[i].Control.SameData(data) {
				continue
			}
			if m.setData(name, data) {
				n++
			}
		}
		m.setStatus(fmt.Sprintf("Reloaded, %d dropdown(s) changed", n), false)

	case EventMsg:
		if e, ok := msg.Event.(eventbus.ErrorEvent); ok {
			m.setStatus(fmt.Sprintf("%s: %v", e.Message, e.Err), true)
		}

	case helpPagerMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("Help pager failed: %v", msg.err), true)
		}

	case pauseRenderingMsg:
		m.paused = true

	case resumeRenderingMsg:
		m.paused = false
	}

	return m, nil
}

// click dispatches a left click on screen line y. Clicks on a control never
// reach the outside-click handler.
func (m *Model) click(y int) tea.Cmd {
	r := hit(m.layout(), y)
	switch r.kind {
	case targetBody:
		m.entries[r.entry].Control.Click()
	case targetItem:
		return m.entries[r.entry].Control.Select(r.item)
	default:
		m.registry.CollapseAll()
	}
	return nil
}

// changed runs the control's callback and publishes the change
func (m *Model) changed(msg dropdown.ChangedMsg) {
	i := m.indexByID(msg.ID)
	if i < 0 {
		return
	}
	e := m.entries[i]
	e.Control.Update(msg)

	if m.bus != nil {
		m.bus.Publish(eventbus.SelectionChangedEvent{
			Dropdown: e.Name,
			Value:    msg.Value,
			Seq:      msg.Seq,
		})
	}
	m.setStatus(fmt.Sprintf("%s: %s", e.Label, e.Control.Summary()), false)
}

func (m *Model) setData(name string, data []dropdown.Item) bool {
	for _, e := range m.entries {
		if e.Name == name {
			changed := e.Control.SetData(data)
			if changed {
				log.Printf("Data for %s replaced (%d items)", name, len(data))
			}
			return changed
		}
	}
	return false
}

func (m *Model) reload() tea.Cmd {
	if m.loader == nil {
		return nil
	}
	loader := m.loader
	return func() tea.Msg {
		data, err := loader()
		return dataLoadedMsg{data: data, err: err}
	}
}

// fetchHelpPager returns a command that shows help using ov pager
func (m *Model) fetchHelpPager(helpContent string) tea.Cmd {
	if m.program == nil {
		return nil
	}
	return func() tea.Msg {
		// Send pause message to stop rendering
		m.program.Send(pauseRenderingMsg{})

		err := m.helpOps.ShowHelpInPager(helpContent)

		// Send resume message to restart rendering
		m.program.Send(resumeRenderingMsg{})

		return helpPagerMsg{err: err}
	}
}

func (m *Model) indexByName(name string) int {
	for i, e := range m.entries {
		if e.Name == name {
			return i
		}
	}
	return -1
}

func (m *Model) indexByID(id string) int {
	for i, e := range m.entries {
		if e.Control.ID() == id {
			return i
		}
	}
	return -1
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

// View renders the UI
func (m *Model) View() string {
	if m.paused {
		return ""
	}
	return render(m.layout())
}
