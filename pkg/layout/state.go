package layout

import (
	"reflect"

	"github.com/matzehuels/photostrip/pkg/strip"
)

// State is the undoable part of a store: its slots and elements.
type State struct {
	Slots    []strip.Slot    `json:"slots"`
	Elements []strip.Element `json:"elements"`
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	return State{
		Slots:    strip.CloneSlots(s.Slots),
		Elements: strip.CloneElements(s.Elements),
	}
}

// Equal reports deep equality, treating nil and empty lists alike.
func (s State) Equal(o State) bool {
	if len(s.Slots) != len(o.Slots) || len(s.Elements) != len(o.Elements) {
		return false
	}
	for i := range s.Slots {
		if s.Slots[i] != o.Slots[i] {
			return false
		}
	}
	for i := range s.Elements {
		if !reflect.DeepEqual(s.Elements[i], o.Elements[i]) {
			return false
		}
	}
	return true
}
