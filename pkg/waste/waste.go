// Package waste enumerates the collection types published by the
// Zürich open-data portal.
package waste

import "sort"

type Type string

const (
	Papier        Type = "papier"
	Kehricht      Type = "kehricht"
	Karton        Type = "karton"
	Gartenabfall  Type = "gartenabfall"
	ETram         Type = "eTram"
	Cargotram     Type = "cargotram"
	Textilien     Type = "textilien"
	Sonderabfall  Type = "sonderabfall"
	Sammelstellen Type = "sammelstellen"
)

// labels holds the German display names used as calendar summaries.
var labels = map[Type]string{
	Papier:        "Papier",
	Kehricht:      "Kehricht",
	Karton:        "Karton",
	Gartenabfall:  "Gartenabfall",
	ETram:         "eTram",
	Cargotram:     "Cargo-Tram",
	Textilien:     "Textilien",
	Sonderabfall:  "Sonderabfall",
	Sammelstellen: "Sammelstellen",
}

// Label returns the German display name for t. Unknown types are
// returned verbatim so stored rows from older runs still render.
func Label(t Type) string {
	if l, ok := labels[t]; ok {
		return l
	}
	return string(t)
}

// IsKnown reports whether t is one of the enumerated collection types.
func IsKnown(t Type) bool {
	_, ok := labels[t]
	return ok
}

// KnownTypes returns all enumerated collection types in sorted order.
func KnownTypes() []Type {
	types := make([]Type, 0, len(labels))
	for t := range labels {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
