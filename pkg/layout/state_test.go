package layout

import (
	"testing"

	"github.com/matzehuels/photostrip/pkg/strip"
)

func TestStateEqual(t *testing.T) {
	a := State{Slots: strip.DefaultSlots(), Elements: []strip.Element{strip.NewText("x", "hi", 10, 400)}}
	b := a.Clone()
	if !a.Equal(b) {
		t.Fatal("clone should be equal")
	}

	b.Elements[0].Text.Content = "bye"
	if a.Equal(b) {
		t.Error("payload change should break equality")
	}
	if a.Elements[0].Text.Content != "hi" {
		t.Error("clone shares payload with original")
	}

	if !(State{}).Equal(State{Slots: []strip.Slot{}, Elements: []strip.Element{}}) {
		t.Error("nil and empty lists should compare equal")
	}
}
