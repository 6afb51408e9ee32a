package logic

// SelectionStore keeps the last committed value of every dropdown
type SelectionStore interface {
	GetSelection(name string) (any, bool)
	GetAllSelections() map[string]any
	SetSelection(name string, value any)
	RemoveSelection(name string)
}
