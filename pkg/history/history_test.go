package history

import (
	"testing"

	"github.com/matzehuels/photostrip/pkg/layout"
	"github.com/matzehuels/photostrip/pkg/strip"
)

func TestUndoAtZeroIsNoop(t *testing.T) {
	s := layout.New()
	m := New(s.State(), 0)

	for i := 0; i < 3; i++ {
		if _, ok := m.Undo(); ok {
			t.Fatalf("Undo() at index 0 returned ok")
		}
	}
	if m.Cursor() != 0 || m.Len() != 1 {
		t.Errorf("cursor/len = %d/%d, want 0/1", m.Cursor(), m.Len())
	}
}

func TestUndoRestoresKMutations(t *testing.T) {
	s := layout.New()
	require := func(ok bool) {
		t.Helper()
		if !ok {
			t.Fatal("mutation failed")
		}
	}
	initial := s.State()
	m := New(initial, DefaultCapacity)

	var states []layout.State
	mutations := []func(){
		func() { s.AddSlot() },
		func() { require(s.UpdateSlot(0, layout.SlotPatch{W: layout.Ptr(55.0)})) },
		func() { s.AddTextElement() },
		func() { require(s.RemoveSlot(1)) },
		func() { require(s.ApplyToAll(0, layout.FieldSize)) },
	}
	for _, mut := range mutations {
		states = append(states, s.State())
		mut()
		m.Snapshot(s.State())
	}

	for k := len(mutations) - 1; k >= 0; k-- {
		st, ok := m.Undo()
		if !ok {
			t.Fatalf("Undo() #%d failed", len(mutations)-k)
		}
		s.Restore(st)
		if !s.State().Equal(states[k]) {
			t.Fatalf("after undo to %d state differs", k)
		}
	}
	if !s.State().Equal(initial) {
		t.Error("full undo did not restore the initial state")
	}
	if m.CanUndo() {
		t.Error("CanUndo() = true at the oldest entry")
	}
}

func TestSnapshotDropsRedoTail(t *testing.T) {
	m := New(layout.State{}, 10)
	for i := 1; i <= 3; i++ {
		m.Snapshot(layout.State{Slots: make([]strip.Slot, i)})
	}
	m.Undo()
	m.Undo()
	if !m.CanRedo() {
		t.Fatal("CanRedo() = false after undo")
	}

	m.Snapshot(layout.State{Slots: make([]strip.Slot, 9)})
	if m.CanRedo() {
		t.Error("new snapshot should discard the redo tail")
	}
	if m.Len() != 3 {
		t.Errorf("Len() = %d, want 3", m.Len())
	}
	if got := len(m.Current().Slots); got != 9 {
		t.Errorf("current slots = %d, want 9", got)
	}
}

func TestCapacityEvictsOldest(t *testing.T) {
	m := New(layout.State{}, DefaultCapacity)
	for i := 1; i <= 80; i++ {
		m.Snapshot(layout.State{Slots: make([]strip.Slot, i)})
	}
	if m.Len() != DefaultCapacity {
		t.Fatalf("Len() = %d, want %d", m.Len(), DefaultCapacity)
	}
	if m.Cursor() != DefaultCapacity-1 {
		t.Errorf("Cursor() = %d, want %d", m.Cursor(), DefaultCapacity-1)
	}

	undos := 0
	var last layout.State
	for {
		st, ok := m.Undo()
		if !ok {
			break
		}
		last = st
		undos++
	}
	if undos != DefaultCapacity-1 {
		t.Errorf("undos = %d, want %d", undos, DefaultCapacity-1)
	}
	if got := len(last.Slots); got != 31 {
		t.Errorf("oldest retained slots = %d, want 31", got)
	}
}

func TestEntriesAreIsolated(t *testing.T) {
	st := layout.State{Elements: []strip.Element{strip.NewText("a", "one", 10, 400)}}
	m := New(layout.State{}, 5)
	m.Snapshot(st)
	st.Elements[0].Text.Content = "mutated"

	if got := m.Current().Elements[0].Text.Content; got != "one" {
		t.Errorf("stored entry = %q, want %q", got, "one")
	}

	cur := m.Current()
	cur.Elements[0].Text.Content = "again"
	if got := m.Current().Elements[0].Text.Content; got != "one" {
		t.Errorf("Current() leaked internal entry: %q", got)
	}
}

func TestRedo(t *testing.T) {
	m := New(layout.State{}, 5)
	m.Snapshot(layout.State{Slots: make([]strip.Slot, 1)})
	m.Undo()
	st, ok := m.Redo()
	if !ok || len(st.Slots) != 1 {
		t.Errorf("Redo() = %v, %v", st, ok)
	}
	if _, ok := m.Redo(); ok {
		t.Error("Redo() past the end returned ok")
	}
}
