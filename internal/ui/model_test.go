package ui

import (
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dropsel/internal/dropdown"
	"dropsel/internal/eventbus"
)

// recordingBus delivers nothing and remembers published events
type recordingBus struct {
	mu     sync.Mutex
	events []eventbus.DomainEvent
}

func (b *recordingBus) Publish(e eventbus.DomainEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
}

func (b *recordingBus) Subscribe(eventbus.EventType, eventbus.EventHandler) func() {
	return func() {}
}

func (b *recordingBus) Close() {}

func colors() []dropdown.Item {
	return []dropdown.Item{
		map[string]any{"id": 1, "color": "Red"},
		map[string]any{"id": 2, "color": "White"},
		map[string]any{"id": 3, "color": "Green"},
		map[string]any{"id": 4, "color": "Blue"},
	}
}

type page struct {
	m       *Model
	bus     *recordingBus
	reg     *dropdown.Registry
	color   *dropdown.Control
	numbers *dropdown.Control
}

// Rows of a fresh page:
//
//	0 title, 1 blank, 2 "Color", 3 color box, 4 blank,
//	5 "Numbers", 6 numbers box, 7 blank, 8 help
func newPage(t *testing.T) *page {
	t.Helper()
	reg := dropdown.NewRegistry()
	color := dropdown.New(reg, dropdown.Options{ID: "c", Field: "color", Placeholder: "Select a color..."}, nil)
	color.SetData(colors())
	numbers := dropdown.New(reg, dropdown.Options{ID: "n", Multiple: true, Group: true}, nil)
	numbers.SetData([]dropdown.Item{2, 3, 4, 6})

	bus := &recordingBus{}
	m := NewModel(bus, reg, []Entry{
		{Name: "color", Label: "Color", Control: color},
		{Name: "numbers", Label: "Numbers", Control: numbers},
	})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	return &page{m: m, bus: bus, reg: reg, color: color, numbers: numbers}
}

func click(y int) tea.MouseMsg {
	return tea.MouseMsg{X: 4, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func TestClickBodyTogglesAndExcludesOthers(t *testing.T) {
	p := newPage(t)

	p.m.Update(click(3))
	assert.True(t, p.color.Expanded())

	// color now shows 4 options, numbers box moved to row 10
	p.m.Update(click(10))
	assert.False(t, p.color.Expanded())
	assert.True(t, p.numbers.Expanded())

	// the title row is outside every control
	p.m.Update(click(0))
	assert.False(t, p.color.Expanded())
	assert.False(t, p.numbers.Expanded())
}

func TestClickItemSelectsAndPublishes(t *testing.T) {
	p := newPage(t)

	p.m.Update(click(3))
	_, cmd := p.m.Update(click(5)) // second option
	require.NotNil(t, cmd)
	assert.False(t, p.color.Expanded())
	assert.Equal(t, "White", p.color.Summary())

	var called bool
	p.color.OnChange(func() { called = true })
	p.m.Update(cmd())
	assert.True(t, called)

	require.Len(t, p.bus.events, 1)
	e := p.bus.events[0].(eventbus.SelectionChangedEvent)
	assert.Equal(t, "color", e.Dropdown)
	assert.Equal(t, uint64(1), e.Seq)
	assert.Equal(t, "White", e.Value.(map[string]any)["color"])
	assert.Contains(t, p.m.View(), "Color: White")
}

func TestMultiItemsToggleWithoutCollapsing(t *testing.T) {
	p := newPage(t)

	p.m.Update(click(6))
	require.True(t, p.numbers.Expanded())

	for _, y := range []int{7, 9} { // options 2 and 4
		_, cmd := p.m.Update(click(y))
		p.m.Update(cmd())
	}
	assert.True(t, p.numbers.Expanded())
	assert.Equal(t, "2 Selected", p.numbers.Summary())
	assert.Equal(t, []dropdown.Item{2, 4}, p.numbers.Value())
	assert.Len(t, p.bus.events, 2)
	assert.Equal(t, uint64(2), p.bus.events[1].(eventbus.SelectionChangedEvent).Seq)
}

func TestLateChangeDoesNotWinOverNewerOne(t *testing.T) {
	p := newPage(t)
	p.m.Update(click(6))

	_, first := p.m.Update(click(7))  // toggle 2 on
	_, second := p.m.Update(click(8)) // toggle 3 on

	// commands run concurrently, so the older one may arrive last
	p.m.Update(second())
	p.m.Update(first())

	require.Len(t, p.bus.events, 2)
	var latest eventbus.SelectionChangedEvent
	for _, e := range p.bus.events {
		if c := e.(eventbus.SelectionChangedEvent); c.Seq > latest.Seq {
			latest = c
		}
	}
	assert.Equal(t, p.numbers.Value(), latest.Value)
	assert.Equal(t, []dropdown.Item{2, 3}, latest.Value)
}

func TestClickBelowPageCollapses(t *testing.T) {
	p := newPage(t)
	p.m.Update(click(3))
	p.m.Update(click(100))
	assert.Nil(t, p.reg.Expanded())
}

func TestDisabledControlIgnoresClicks(t *testing.T) {
	p := newPage(t)
	p.color.SetDisabled(true)

	p.m.Update(click(3))
	assert.False(t, p.color.Expanded())
}

func TestKeys(t *testing.T) {
	p := newPage(t)

	p.m.Update(click(3))
	p.m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, p.color.Expanded())

	_, cmd := p.m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = p.m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	assert.Nil(t, cmd, "no program, no pager")
}

func TestReload(t *testing.T) {
	p := newPage(t)

	_, cmd := p.m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	assert.Nil(t, cmd, "no loader set")

	p.m.SetLoader(func() (map[string][]dropdown.Item, error) {
		return map[string][]dropdown.Item{
			"numbers": {1, 2},
			"missing": {9},
		}, nil
	})
	_, cmd = p.m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	require.NotNil(t, cmd)
	p.m.Update(cmd())
	assert.Equal(t, 2, p.numbers.Len())
	assert.Contains(t, p.m.View(), "1 dropdown(s) changed")

	// same contents in fresh slices leave the controls alone
	p.m.Update(click(6))
	_, toggle := p.m.Update(click(7))
	p.m.Update(toggle())
	_, cmd = p.m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	p.m.Update(cmd())
	assert.Contains(t, p.m.View(), "0 dropdown(s) changed")
	assert.Equal(t, []dropdown.Item{1}, p.numbers.Value())

	p.m.SetLoader(func() (map[string][]dropdown.Item, error) {
		return nil, errors.New("disk gone")
	})
	_, cmd = p.m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	p.m.Update(cmd())
	assert.Contains(t, p.m.View(), "disk gone")
}

func TestDataMsg(t *testing.T) {
	p := newPage(t)
	p.m.Update(DataMsg{Name: "color", Data: colors()[:2]})
	assert.Equal(t, 2, p.color.Len())
}

func TestErrorEventShowsStatus(t *testing.T) {
	p := newPage(t)
	p.m.Update(EventMsg{Event: eventbus.ErrorEvent{Message: "failed to save selection", Err: errors.New("read-only")}})
	assert.Contains(t, p.m.View(), "failed to save selection: read-only")
}

func TestViewLayout(t *testing.T) {
	p := newPage(t)
	lines := strings.Split(p.m.View(), "\n")
	require.Len(t, lines, 9)
	assert.Contains(t, lines[2], "Color")
	assert.Contains(t, lines[3], "Select a color...")
	assert.Contains(t, lines[5], "Numbers")

	p.m.Update(pauseRenderingMsg{})
	assert.Empty(t, p.m.View())
	p.m.Update(resumeRenderingMsg{})
	assert.NotEmpty(t, p.m.View())
}
