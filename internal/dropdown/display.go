package dropdown

import (
	"fmt"
	"strings"
)

// Project derives the summary text shown in a control's display box.
func Project(e Engine, opts Options) string {
	switch e := e.(type) {
	case *Single:
		if e.Index() < 0 {
			return opts.Placeholder
		}
		return projectItem(e.snap.At(e.Index()), opts.Field)

	case *Multi:
		selected := e.Selected()
		count := len(selected)
		switch {
		case count == 0:
			return opts.Placeholder
		case count > 1 && opts.Group:
			return fmt.Sprintf("%d Selected", count)
		}
		parts := make([]string, count)
		for i, item := range selected {
			parts[i] = projectItem(item, opts.Field)
		}
		return strings.Join(parts, ",")
	}
	return opts.Placeholder
}

// projectItem renders field of item, or the whole item when field is empty.
// A missing field renders as "".
func projectItem(item Item, field string) string {
	if field == "" {
		return Stringify(item)
	}
	v, ok := Lookup(item, field)
	if !ok {
		return ""
	}
	return Stringify(v)
}
