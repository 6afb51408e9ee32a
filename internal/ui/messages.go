package ui

import (
	"dropsel/internal/dropdown"
	"dropsel/internal/eventbus"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// DataMsg replaces the data source of the named dropdown
type DataMsg struct {
	Name string
	Data []dropdown.Item
}

// dataLoadedMsg contains the result of a reload
type dataLoadedMsg struct {
	data map[string][]dropdown.Item
	err  error
}

// helpPagerMsg contains the result of a help pager command
type helpPagerMsg struct {
	err error
}

// pauseRenderingMsg signals to pause Bubble Tea rendering
type pauseRenderingMsg struct{}

// resumeRenderingMsg signals to resume Bubble Tea rendering
type resumeRenderingMsg struct{}
