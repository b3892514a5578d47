package editor

import (
	"math"

	"github.com/matzehuels/photostrip/pkg/geometry"
	"github.com/matzehuels/photostrip/pkg/interact"
	"github.com/matzehuels/photostrip/pkg/render"
	"github.com/matzehuels/photostrip/pkg/strip"
)

// HitTest reports what lies under canvas point p, topmost first: a resize
// handle of the selected slot, an element, a slot, or the bare canvas.
// tol is the handle grab radius in canvas units. Rotation is ignored.
func (e *Editor) HitTest(p geometry.Point, tol float64) interact.PointerEvent {
	e.mu.Lock()
	defer e.mu.Unlock()

	slots := e.store.EffectiveSlots()
	sel := e.machine.Selection()
	ev := interact.PointerEvent{Target: interact.TargetCanvas, Slot: -1}

	if sel.HasSlot() && sel.Slot < len(slots) && e.store.TemplateActive() && !e.store.Locked() {
		r := slots[sel.Slot].Rect()
		corners := []struct {
			h  interact.Handle
			at geometry.Point
		}{
			{interact.HandleNW, geometry.Point{X: r.X, Y: r.Y}},
			{interact.HandleNE, geometry.Point{X: r.Right(), Y: r.Y}},
			{interact.HandleSW, geometry.Point{X: r.X, Y: r.Bottom()}},
			{interact.HandleSE, geometry.Point{X: r.Right(), Y: r.Bottom()}},
		}
		for _, c := range corners {
			if math.Abs(p.X-c.at.X) <= tol && math.Abs(p.Y-c.at.Y) <= tol {
				ev.Target, ev.Slot, ev.Handle = interact.TargetHandle, sel.Slot, c.h
				return ev
			}
		}
	}

	els := e.store.Elements()
	for i := len(els) - 1; i >= 0; i-- {
		if ElementBounds(els[i]).Contains(p) {
			ev.Target, ev.Element = interact.TargetElement, els[i].ID
			return ev
		}
	}

	for i := len(slots) - 1; i >= 0; i-- {
		if slots[i].Rect().Contains(p) {
			ev.Target, ev.Slot = interact.TargetSlot, i
			return ev
		}
	}
	return ev
}

// ElementBounds returns the unrotated box an element covers on the canvas.
func ElementBounds(el strip.Element) geometry.Rect {
	r := geometry.Rect{X: el.X, Y: el.Y}
	switch {
	case el.Image != nil:
		r.W, r.H = el.Image.Width, el.Image.Height()
	case el.Text != nil:
		if b, err := render.MeasureText(el.Text, 1); err == nil {
			r.W, r.H = b.Width, b.Height
		}
	}
	return r
}
