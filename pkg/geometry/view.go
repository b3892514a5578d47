package geometry

import (
	"math"
	"sync"
)

// Zoom bounds and defaults for the preview.
const (
	MinScale     = 0.2
	MaxScale     = 1.5
	DefaultScale = 0.55
	ZoomStep     = 0.1
)

// View is the preview transform: a uniform scale and a pan offset in screen units.
type View struct {
	Scale float64 `json:"scale"`
	Pan   Point   `json:"pan"`
}

// DefaultView returns the initial preview transform.
func DefaultView() View {
	return View{Scale: DefaultScale}
}

// ClampScale limits s to [MinScale, MaxScale]. Non-finite or non-positive
// values collapse to MinScale.
func ClampScale(s float64) float64 {
	if math.IsNaN(s) || s < MinScale {
		return MinScale
	}
	if s > MaxScale {
		return MaxScale
	}
	return s
}

// WithScale returns v with a clamped scale.
func (v View) WithScale(s float64) View {
	v.Scale = ClampScale(s)
	return v
}

// ZoomIn returns v scaled up by one step.
func (v View) ZoomIn() View { return v.WithScale(roundStep(v.Scale + ZoomStep)) }

// ZoomOut returns v scaled down by one step.
func (v View) ZoomOut() View { return v.WithScale(roundStep(v.Scale - ZoomStep)) }

// roundStep removes float drift from repeated zoom steps.
func roundStep(s float64) float64 { return math.Round(s*100) / 100 }

// CanvasDelta converts a screen-space pointer movement into canvas units.
// It is computed from the session start, so a drag by A then B equals a single drag by A+B.
func (v View) CanvasDelta(start, current Point) Point {
	s := v.Scale
	if s <= 0 {
		s = MinScale
	}
	return current.Sub(start).Div(s)
}

// PanFrom returns the pan offset after the pointer moved from start to current.
// Panning happens in screen space and is not divided by scale.
func (v View) PanFrom(startPan, start, current Point) Point {
	return startPan.Add(current.Sub(start))
}

// ScreenToCanvas maps a screen point to canvas space, given the screen
// position of the untransformed canvas origin.
func (v View) ScreenToCanvas(p, origin Point) Point {
	s := v.Scale
	if s <= 0 {
		s = MinScale
	}
	return p.Sub(origin).Sub(v.Pan).Div(s)
}

// CanvasToScreen is the inverse of ScreenToCanvas.
func (v View) CanvasToScreen(p, origin Point) Point {
	return Point{p.X*v.Scale + v.Pan.X + origin.X, p.Y*v.Scale + v.Pan.Y + origin.Y}
}

// Neutral is the identity transform used during export.
var Neutral = View{Scale: 1}

// Viewport is a view that can be temporarily neutralized for export and
// restored afterwards. Overlapping neutralizations are reference counted,
// so the original view comes back only when the last one is released.
type Viewport struct {
	mu      sync.Mutex
	view    View
	saved   View
	holders int
}

// NewViewport creates a viewport starting at v with a clamped scale.
func NewViewport(v View) *Viewport {
	return &Viewport{view: v.WithScale(v.Scale)}
}

// Get returns the view in effect. While neutralized this is [Neutral];
// renderers read it.
func (vp *Viewport) Get() View {
	vp.mu.Lock()
	defer vp.mu.Unlock()
	return vp.view
}

// User returns the view the user controls. While neutralized this is the
// view that will be restored, so zoom and pointer input never build on the
// identity transform.
func (vp *Viewport) User() View {
	vp.mu.Lock()
	defer vp.mu.Unlock()
	return vp.user()
}

// Set replaces the user view. While neutralized, the change is applied to
// the view that will be restored.
func (vp *Viewport) Set(v View) {
	vp.mu.Lock()
	defer vp.mu.Unlock()
	vp.set(v)
}

// Update applies fn to the user view atomically and returns the stored result.
func (vp *Viewport) Update(fn func(View) View) View {
	vp.mu.Lock()
	defer vp.mu.Unlock()
	return vp.set(fn(vp.user()))
}

func (vp *Viewport) user() View {
	if vp.holders > 0 {
		return vp.saved
	}
	return vp.view
}

func (vp *Viewport) set(v View) View {
	v = v.WithScale(v.Scale)
	if vp.holders > 0 {
		vp.saved = v
	} else {
		vp.view = v
	}
	return v
}

// Neutralized reports whether at least one export holds the viewport.
func (vp *Viewport) Neutralized() bool {
	vp.mu.Lock()
	defer vp.mu.Unlock()
	return vp.holders > 0
}

// Neutralize switches the viewport to the identity transform and returns
// a function that releases it. The release function is idempotent.
func (vp *Viewport) Neutralize() (restore func()) {
	vp.mu.Lock()
	if vp.holders == 0 {
		vp.saved = vp.view
		vp.view = Neutral
	}
	vp.holders++
	vp.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			vp.mu.Lock()
			defer vp.mu.Unlock()
			vp.holders--
			if vp.holders == 0 {
				vp.view = vp.saved
			}
		})
	}
}
