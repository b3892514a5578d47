package interact

import (
	"math"

	"github.com/matzehuels/photostrip/pkg/geometry"
	"github.com/matzehuels/photostrip/pkg/layout"
	"github.com/matzehuels/photostrip/pkg/strip"
)

// DefaultDragThreshold is the pointer travel, in screen pixels, before a
// press on a slot or element becomes a drag.
const DefaultDragThreshold = 4

type session struct {
	mode    State
	slot    int
	element string
	handle  Handle
	start   geometry.Point
	scale   float64
	rect    geometry.Rect  // slot geometry at press time
	origin  geometry.Point // element position at press time
	pan     geometry.Point // pan offset at press time
	armed   bool
	changed bool
}

// Machine owns the single active drag session and the selection.
type Machine struct {
	store     *layout.Store
	view      *geometry.Viewport
	threshold float64
	sel       Selection
	sess      *session
}

// Option configures a Machine.
type Option func(*Machine)

// WithThreshold sets the drag threshold in screen pixels. Zero disables it.
func WithThreshold(px float64) Option {
	return func(m *Machine) {
		if px >= 0 {
			m.threshold = px
		}
	}
}

// New creates a machine that mutates store and pans view.
func New(store *layout.Store, view *geometry.Viewport, opts ...Option) *Machine {
	m := &Machine{
		store:     store,
		view:      view,
		threshold: DefaultDragThreshold,
		sel:       None,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current mode.
func (m *Machine) State() State {
	if m.sess == nil {
		return Idle
	}
	return m.sess.mode
}

// Selection returns the current selection.
func (m *Machine) Selection() Selection { return m.sel }

// SelectSlot selects slot i and clears the element selection.
// An out-of-range index clears the slot selection.
func (m *Machine) SelectSlot(i int) {
	if _, ok := m.store.Slot(i); !ok {
		i = -1
	}
	m.sel = Selection{Slot: i}
}

// SelectElement selects the element and clears the slot selection.
func (m *Machine) SelectElement(id string) {
	if _, ok := m.store.Element(id); !ok {
		id = ""
	}
	m.sel = Selection{Slot: -1, Element: id}
}

// ClearSelection deselects everything.
func (m *Machine) ClearSelection() { m.sel = None }

// Reconcile drops selections that no longer resolve, after deletions or undo.
func (m *Machine) Reconcile() {
	if m.sel.HasSlot() {
		if _, ok := m.store.Slot(m.sel.Slot); !ok {
			m.sel.Slot = -1
		}
	}
	if m.sel.HasElement() {
		if _, ok := m.store.Element(m.sel.Element); !ok {
			m.sel.Element = ""
		}
	}
}

// PointerDown starts a session. It reports whether one was started.
func (m *Machine) PointerDown(ev PointerEvent) bool {
	if m.sess != nil {
		return false
	}
	view := m.view.User()
	s := &session{start: ev.Pos, scale: view.Scale, slot: -1}

	if ev.Button == ButtonSecondary {
		s.mode, s.pan, s.armed = Panning, view.Pan, true
		m.sess = s
		return true
	}
	if ev.Button != ButtonPrimary {
		return false
	}

	switch ev.Target {
	case TargetSlot, TargetHandle:
		slot, ok := m.store.Slot(ev.Slot)
		if !ok || !m.store.TemplateActive() {
			return false
		}
		s.slot, s.rect = ev.Slot, slot.Rect()
		switch {
		case m.store.Locked():
			s.mode = Pressing
		case ev.Target == TargetHandle:
			if !ev.Handle.Valid() || m.sel.Slot != ev.Slot {
				return false
			}
			s.mode, s.handle = ResizingSlot, ev.Handle
		default:
			s.mode = MovingSlot
			m.sel = Selection{Slot: ev.Slot}
		}
	case TargetElement:
		e, ok := m.store.Element(ev.Element)
		if !ok {
			return false
		}
		s.mode, s.element, s.origin = MovingElement, e.ID, e.Pos()
		m.sel = Selection{Slot: -1, Element: e.ID}
	default:
		m.sel = None
		return false
	}

	s.armed = m.threshold == 0 && s.mode != Pressing
	m.sess = s
	return true
}

// PointerMove updates the active session. It reports whether the layout
// or view changed.
func (m *Machine) PointerMove(pos geometry.Point) bool {
	s := m.sess
	if s == nil {
		return false
	}
	if !s.armed {
		raw := pos.Sub(s.start)
		dist := math.Hypot(raw.X, raw.Y)
		if dist == 0 || dist < m.threshold {
			return false
		}
		s.armed = true
		if s.mode == Pressing {
			// travelled too far to count as a click
			s.slot = -1
			return false
		}
	}
	if s.mode == Pressing {
		return false
	}

	if s.mode == Panning {
		m.view.Update(func(v geometry.View) geometry.View {
			v.Pan = v.PanFrom(s.pan, s.start, pos)
			return v
		})
		return true
	}

	d := geometry.View{Scale: s.scale}.CanvasDelta(s.start, pos)
	var moved bool
	switch s.mode {
	case MovingSlot:
		r := s.rect
		p := geometry.Point{X: r.X + d.X, Y: r.Y + d.Y}.Round()
		moved = m.store.UpdateSlot(s.slot, layout.SlotPatch{X: &p.X, Y: &p.Y})
	case ResizingSlot:
		r := Resize(s.rect, s.handle, d)
		moved = m.store.UpdateSlot(s.slot, layout.SlotPatch{X: &r.X, Y: &r.Y, W: &r.W, H: &r.H})
	case MovingElement:
		moved = m.store.MoveElement(s.element, s.origin.Add(d).Round())
	}
	if moved {
		s.changed = m.geometryChanged()
	}
	return moved
}

func (m *Machine) geometryChanged() bool {
	s := m.sess
	switch s.mode {
	case MovingSlot, ResizingSlot:
		cur, ok := m.store.Slot(s.slot)
		return ok && cur.Rect() != s.rect
	case MovingElement:
		cur, ok := m.store.Element(s.element)
		return ok && cur.Pos() != s.origin
	}
	return false
}

// PointerUp ends the session and returns to Idle.
func (m *Machine) PointerUp() Result {
	s := m.sess
	m.sess = nil
	if s == nil {
		return Result{Mode: Idle, Retake: -1}
	}
	res := Result{Mode: s.mode, Committed: s.changed, Retake: -1}
	if s.mode == Pressing && s.slot >= 0 {
		res.Retake = s.slot
	}
	return res
}

// Cancel aborts the session and restores the geometry captured at press time.
func (m *Machine) Cancel() bool {
	s := m.sess
	if s == nil {
		return false
	}
	m.sess = nil
	switch s.mode {
	case MovingSlot, ResizingSlot:
		r := s.rect
		m.store.UpdateSlot(s.slot, layout.SlotPatch{X: &r.X, Y: &r.Y, W: &r.W, H: &r.H})
	case MovingElement:
		m.store.MoveElement(s.element, s.origin)
	case Panning:
		m.view.Update(func(v geometry.View) geometry.View {
			v.Pan = s.pan
			return v
		})
	}
	return s.changed
}

// Nudge moves the selected element or slot by one unit (ten when fast).
// It does nothing while a text input has focus or a session is active.
// Slots only move while a template drives the layout.
func (m *Machine) Nudge(k Key, fast, inputFocused bool) bool {
	if inputFocused || m.sess != nil {
		return false
	}
	dx, dy := k.delta(fast)
	if dx == 0 && dy == 0 {
		return false
	}
	switch {
	case m.sel.HasElement():
		return m.store.NudgeElement(m.sel.Element, dx, dy)
	case m.sel.HasSlot() && m.store.TemplateActive():
		return m.store.NudgeSlot(m.sel.Slot, dx, dy)
	}
	return false
}

// Resize applies a corner drag of d canvas units to r. East and south edges
// grow with the pointer; west and north edges keep the opposite edge
// fixed. Each axis is clamped to the minimum slot size independently and
// the result is rounded to whole units.
func Resize(r geometry.Rect, h Handle, d geometry.Point) geometry.Rect {
	out := r
	if h.west() {
		w := math.Max(strip.MinSlotSize, math.Round(r.W-d.X))
		out.X = math.Round(r.X + (r.W - w))
		out.W = w
	} else {
		out.W = math.Max(strip.MinSlotSize, math.Round(r.W+d.X))
	}
	if h.north() {
		hh := math.Max(strip.MinSlotSize, math.Round(r.H-d.Y))
		out.Y = math.Round(r.Y + (r.H - hh))
		out.H = hh
	} else {
		out.H = math.Max(strip.MinSlotSize, math.Round(r.H+d.Y))
	}
	return out
}
