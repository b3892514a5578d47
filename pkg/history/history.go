// Package history implements bounded linear undo over layout snapshots.
//
// The manager keeps a list of deep copies of the undoable layout state and
// a cursor into it. Taking a snapshot after an undo discards everything
// past the cursor; there is no branching redo. Once the list exceeds its
// capacity the oldest entries are evicted and the cursor shifts with them.
//
// A Manager is not safe for concurrent use.
package history

import "github.com/matzehuels/photostrip/pkg/layout"

// DefaultCapacity bounds the number of retained entries.
const DefaultCapacity = 50

// Manager is a bounded undo list with a cursor.
type Manager struct {
	entries  []layout.State
	cursor   int
	capacity int
}

// New creates a manager whose oldest entry is initial.
func New(initial layout.State, capacity int) *Manager {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Manager{
		entries:  []layout.State{initial.Clone()},
		capacity: capacity,
	}
}

// Snapshot appends st after the cursor, discarding any undone entries.
func (m *Manager) Snapshot(st layout.State) {
	m.entries = append(m.entries[:m.cursor+1], st.Clone())
	if over := len(m.entries) - m.capacity; over > 0 {
		m.entries = append(m.entries[:0:0], m.entries[over:]...)
	}
	m.cursor = len(m.entries) - 1
}

// Undo moves the cursor back and returns the state to restore. At the
// oldest entry it returns false and changes nothing.
func (m *Manager) Undo() (layout.State, bool) {
	if m.cursor == 0 {
		return layout.State{}, false
	}
	m.cursor--
	return m.entries[m.cursor].Clone(), true
}

// Redo moves the cursor forward over an entry discarded by Undo. It returns
// false once a new snapshot has replaced the undone tail.
func (m *Manager) Redo() (layout.State, bool) {
	if m.cursor >= len(m.entries)-1 {
		return layout.State{}, false
	}
	m.cursor++
	return m.entries[m.cursor].Clone(), true
}

// Current returns a copy of the entry at the cursor.
func (m *Manager) Current() layout.State { return m.entries[m.cursor].Clone() }

// CanUndo reports whether Undo would change anything.
func (m *Manager) CanUndo() bool { return m.cursor > 0 }

// CanRedo reports whether Redo would change anything.
func (m *Manager) CanRedo() bool { return m.cursor < len(m.entries)-1 }

// Len returns the number of retained entries.
func (m *Manager) Len() int { return len(m.entries) }

// Cursor returns the index of the current entry.
func (m *Manager) Cursor() int { return m.cursor }

// Reset drops all entries and starts over from st.
func (m *Manager) Reset(st layout.State) {
	m.entries = []layout.State{st.Clone()}
	m.cursor = 0
}
