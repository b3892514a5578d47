package editor

import (
	"github.com/matzehuels/photostrip/pkg/geometry"
	"github.com/matzehuels/photostrip/pkg/interact"
	"github.com/matzehuels/photostrip/pkg/layout"
)

// PointerDown forwards a press to the interaction machine.
func (e *Editor) PointerDown(ev interact.PointerEvent) bool {
	e.mu.Lock()
	prev := e.machine.Selection()
	started := e.machine.PointerDown(ev)
	selChanged := e.machine.Selection() != prev
	e.mu.Unlock()
	if selChanged {
		e.emit(kinds(EventSelection)...)
	}
	return started
}

// PointerMove updates the active drag. History is not touched until the
// pointer is released.
func (e *Editor) PointerMove(pos geometry.Point) bool {
	e.mu.Lock()
	mode := e.machine.State()
	moved := e.machine.PointerMove(pos)
	e.mu.Unlock()
	if !moved {
		return false
	}
	if mode == interact.Panning {
		e.emit(kinds(EventView)...)
	} else {
		e.emit(kinds(EventStore)...)
	}
	return true
}

// PointerUp ends the drag, recording one history entry when geometry
// changed. A click on a locked slot emits EventRetake.
func (e *Editor) PointerUp() interact.Result {
	e.mu.Lock()
	res := e.machine.PointerUp()
	var events []Event
	if res.Committed {
		events = e.commitLocked()
	}
	e.mu.Unlock()
	if res.Retake >= 0 {
		events = append(events, Event{Kind: EventRetake, Slot: res.Retake})
	}
	e.emit(events...)
	return res
}

// Cancel aborts the drag and restores its start geometry.
func (e *Editor) Cancel() {
	e.mu.Lock()
	changed := e.machine.Cancel()
	e.mu.Unlock()
	if changed {
		e.emit(kinds(EventStore, EventView)...)
	}
}

// Nudge moves the selection by keyboard and records history.
func (e *Editor) Nudge(k interact.Key, fast, inputFocused bool) bool {
	return e.mutate(func() bool { return e.machine.Nudge(k, fast, inputFocused) })
}

// SelectSlot selects the slot at index i.
func (e *Editor) SelectSlot(i int) {
	e.mu.Lock()
	e.machine.SelectSlot(i)
	e.mu.Unlock()
	e.emit(kinds(EventSelection)...)
}

// SelectElement selects an element by id.
func (e *Editor) SelectElement(id string) {
	e.mu.Lock()
	e.machine.SelectElement(id)
	e.mu.Unlock()
	e.emit(kinds(EventSelection)...)
}

// ClearSelection deselects everything.
func (e *Editor) ClearSelection() {
	e.mu.Lock()
	e.machine.ClearSelection()
	e.mu.Unlock()
	e.emit(kinds(EventSelection)...)
}

// =============================================================================
// View
// =============================================================================

func (e *Editor) setView(fn func(geometry.View) geometry.View) geometry.View {
	v := e.view.Update(fn)
	e.emit(kinds(EventView)...)
	return v
}

// ZoomIn increases the preview scale by one step.
func (e *Editor) ZoomIn() geometry.View {
	return e.setView(geometry.View.ZoomIn)
}

// ZoomOut decreases the preview scale by one step.
func (e *Editor) ZoomOut() geometry.View {
	return e.setView(geometry.View.ZoomOut)
}

// SetZoom sets the preview scale, clamped.
func (e *Editor) SetZoom(s float64) geometry.View {
	return e.setView(func(v geometry.View) geometry.View { return v.WithScale(s) })
}

// ResetView restores the default zoom and clears the pan.
func (e *Editor) ResetView() geometry.View {
	return e.setView(func(geometry.View) geometry.View { return geometry.DefaultView() })
}

// =============================================================================
// History
// =============================================================================

// Undo restores the previous history entry. It does nothing mid-drag.
func (e *Editor) Undo() bool {
	return e.travel(func() (layout.State, bool) { return e.history.Undo() })
}

// Redo re-applies an undone entry.
func (e *Editor) Redo() bool {
	return e.travel(func() (layout.State, bool) { return e.history.Redo() })
}

func (e *Editor) travel(step func() (layout.State, bool)) bool {
	e.mu.Lock()
	if e.machine.State() != interact.Idle {
		e.mu.Unlock()
		return false
	}
	st, ok := step()
	if ok {
		e.store.Restore(st)
		e.machine.Reconcile()
		e.syncPhotos()
	}
	e.mu.Unlock()
	if ok {
		e.emit(kinds(EventStore, EventHistory, EventSelection)...)
	}
	return ok
}
