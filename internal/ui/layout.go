package ui

import (
	"strings"
)

// targetKind says what a click on a row hits
type targetKind int

const (
	targetNone targetKind = iota // outside every control
	targetBody                   // a control's display box
	targetItem                   // an option of an expanded control
)

// row is one rendered line of the page
type row struct {
	kind  targetKind
	entry int // index into Model.entries, valid unless kind is targetNone
	item  int // option index, valid for targetItem
	text  string
}

const indent = "  "

// layout renders the page as rows. View joins them; mouse clicks are
// resolved against the same rows, so both always agree.
func (m *Model) layout() []row {
	width := m.width - len(indent)
	if width < 1 {
		width = 0
	}

	rows := []row{
		{text: m.styles.Title.Render("dropsel")},
		{},
	}

	for i, e := range m.entries {
		rows = append(rows, row{text: indent + m.styles.Label.Render(e.Label)})
		for j, line := range e.Control.View(m.styles.Dropdown, width) {
			r := row{kind: targetBody, entry: i, text: indent + line}
			if j > 0 {
				r.kind, r.item = targetItem, j-1
			}
			rows = append(rows, r)
		}
		rows = append(rows, row{})
	}

	if m.status != "" {
		style := m.styles.Status
		if m.statusErr {
			style = m.styles.StatusError
		}
		rows = append(rows, row{text: style.Render(m.status)})
	}
	rows = append(rows, row{text: m.styles.Help.Render(m.help.View(m.keys))})
	return rows
}

// hit returns the row at screen line y, or a targetNone row.
func hit(rows []row, y int) row {
	if y < 0 || y >= len(rows) {
		return row{}
	}
	return rows[y]
}

func render(rows []row) string {
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = r.text
	}
	return strings.Join(lines, "\n")
}
