package dropdown

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles holds the lipgloss styles a control renders with. Each field maps to
// one visual state of the control.
type Styles struct {
	Display     lipgloss.Style
	Active      lipgloss.Style // expanded
	Disabled    lipgloss.Style
	Error       lipgloss.Style
	Placeholder lipgloss.Style
	Item        lipgloss.Style
	Current     lipgloss.Style // single mode: the selected item
	Selected    lipgloss.Style // multi mode: a flagged item
}

// DefaultStyles returns the built-in color scheme
func DefaultStyles() Styles {
	return Styles{
		Display:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Active:      lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true),
		Disabled:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Faint(true),
		Error:       lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true),
		Item:        lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Current:     lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		Selected:    lipgloss.NewStyle().Foreground(lipgloss.Color("78")), // green
	}
}

const (
	caretDown = "▾"
	caretUp   = "▴"
)

// View renders the control as rows: the display box, followed by one row per
// item while expanded. Rows never wrap, so the row count is always
// 1 + Len() when expanded and 1 otherwise.
func (c *Control) View(st Styles, width int) []string {
	rows := make([]string, 0, 1+c.Len())
	rows = append(rows, c.displayRow(st, width))
	if !c.Expanded() {
		return rows
	}
	for i := 0; i < c.Len(); i++ {
		rows = append(rows, c.itemRow(st, width, i))
	}
	return rows
}

func (c *Control) displayRow(st Styles, width int) string {
	caret := caretDown
	if c.Expanded() {
		caret = caretUp
	}

	text := oneLine(c.summary)
	textStyle := st.Display
	if !c.HasSelection() {
		textStyle = st.Placeholder
	}

	box := st.Display
	switch {
	case c.disabled:
		box = st.Disabled
		textStyle = st.Disabled
	case c.ErrorShown():
		box = st.Error
	case c.Expanded():
		box = st.Active
	}

	line := box.Render("[") + textStyle.Render(" "+text+" ") + box.Render(caret+"]")
	return truncate(line, width)
}

func (c *Control) itemRow(st Styles, width, index int) string {
	text := oneLine(c.ItemText(index))
	selected := c.IsSelected(index)

	var prefix string
	style := st.Item
	switch {
	case c.opts.Multiple && selected:
		prefix, style = "  [x] ", st.Selected
	case c.opts.Multiple:
		prefix = "  [ ] "
	case selected:
		prefix, style = "  › ", st.Current
	default:
		prefix = "    "
	}
	return truncate(style.Render(prefix+text), width)
}

func oneLine(s string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
}

func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(s)
}
