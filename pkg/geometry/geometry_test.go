package geometry

import (
	"sync"
	"testing"
)

func TestClampScale(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0.55, 0.55},
		{0.1, MinScale},
		{-3, MinScale},
		{2, MaxScale},
		{1.5, 1.5},
	}
	for _, tt := range tests {
		if got := ClampScale(tt.in); got != tt.want {
			t.Errorf("ClampScale(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestZoomSteps(t *testing.T) {
	v := DefaultView()
	for i := 0; i < 20; i++ {
		v = v.ZoomIn()
	}
	if v.Scale != MaxScale {
		t.Errorf("Scale after zooming in = %v, want %v", v.Scale, MaxScale)
	}
	for i := 0; i < 20; i++ {
		v = v.ZoomOut()
	}
	if v.Scale != MinScale {
		t.Errorf("Scale after zooming out = %v, want %v", v.Scale, MinScale)
	}

	v = DefaultView().ZoomIn()
	if v.Scale != 0.65 {
		t.Errorf("ZoomIn from default = %v, want 0.65", v.Scale)
	}
}

func TestCanvasDeltaDividesByScale(t *testing.T) {
	v := View{Scale: 0.5}
	got := v.CanvasDelta(Point{10, 10}, Point{20, 30})
	if got != (Point{20, 40}) {
		t.Errorf("CanvasDelta = %v, want {20 40}", got)
	}
}

func TestCanvasDeltaAssociative(t *testing.T) {
	v := View{Scale: 0.7}
	start := Point{100, 100}
	a := Point{13, -7}
	b := Point{-4, 22}

	// The delta is always measured from the session start, so stepping
	// through an intermediate pointer position must not change the result.
	mid := start.Add(a)
	end := mid.Add(b)
	direct := v.CanvasDelta(start, start.Add(a.Add(b)))
	stepped := v.CanvasDelta(start, end)
	if direct != stepped {
		t.Errorf("stepped %v != direct %v", stepped, direct)
	}
}

func TestPanIsUnscaled(t *testing.T) {
	v := View{Scale: 0.25}
	got := v.PanFrom(Point{5, 5}, Point{0, 0}, Point{10, -20})
	if got != (Point{15, -15}) {
		t.Errorf("PanFrom = %v, want {15 -15}", got)
	}
}

func TestScreenCanvasRoundTrip(t *testing.T) {
	v := View{Scale: 0.5, Pan: Point{30, -10}}
	origin := Point{100, 50}
	p := Point{60, 80}
	got := v.ScreenToCanvas(v.CanvasToScreen(p, origin), origin)
	if got != p {
		t.Errorf("round trip = %v, want %v", got, p)
	}
}

func TestRect(t *testing.T) {
	r := Rect{X: 10, Y: 20, W: 30, H: 40}
	if r.Bottom() != 60 || r.Right() != 40 {
		t.Errorf("Bottom/Right = %v/%v", r.Bottom(), r.Right())
	}
	if !r.Contains(Point{10, 20}) || r.Contains(Point{40, 20}) {
		t.Error("Contains edge handling wrong")
	}
	if r.Overlaps(Rect{X: 10, Y: 60, W: 5, H: 5}) {
		t.Error("touching rects should not overlap")
	}
	if !r.Overlaps(Rect{X: 39, Y: 59, W: 5, H: 5}) {
		t.Error("intersecting rects should overlap")
	}
}

func TestViewportNeutralizeRestores(t *testing.T) {
	vp := NewViewport(View{Scale: 0.8, Pan: Point{12, 34}})
	restore := vp.Neutralize()
	if got := vp.Get(); got != Neutral {
		t.Errorf("neutralized view = %v, want %v", got, Neutral)
	}
	restore()
	restore()
	if got := vp.Get(); got != (View{Scale: 0.8, Pan: Point{12, 34}}) {
		t.Errorf("restored view = %v", got)
	}
}

func TestViewportOverlappingNeutralize(t *testing.T) {
	orig := View{Scale: 0.4, Pan: Point{1, 2}}
	vp := NewViewport(orig)

	var wg sync.WaitGroup
	releases := make(chan func(), 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			releases <- vp.Neutralize()
		}()
	}
	wg.Wait()
	close(releases)

	var fns []func()
	for r := range releases {
		fns = append(fns, r)
	}
	for i, r := range fns {
		if vp.Get() != Neutral {
			t.Fatalf("view restored early after %d releases", i)
		}
		r()
	}
	if got := vp.Get(); got != orig {
		t.Errorf("final view = %v, want %v", got, orig)
	}
}

func TestViewportSetWhileNeutralized(t *testing.T) {
	vp := NewViewport(DefaultView())
	restore := vp.Neutralize()
	vp.Set(View{Scale: 1.2})
	if vp.Get() != Neutral {
		t.Error("Set while neutralized should not change the export view")
	}
	restore()
	if got := vp.Get().Scale; got != 1.2 {
		t.Errorf("Scale after restore = %v, want 1.2", got)
	}
}

func TestViewportUserWhileNeutralized(t *testing.T) {
	vp := NewViewport(View{Scale: 0.8, Pan: Point{5, 5}})
	restore := vp.Neutralize()

	if got := vp.User(); got != (View{Scale: 0.8, Pan: Point{5, 5}}) {
		t.Errorf("User() while neutralized = %v, want the saved view", got)
	}
	got := vp.Update(View.ZoomIn)
	if got.Scale != 0.9 || got.Pan != (Point{5, 5}) {
		t.Errorf("Update(ZoomIn) = %v, want scale 0.9 with pan kept", got)
	}
	if vp.Get() != Neutral {
		t.Error("Update while neutralized should not change the export view")
	}

	restore()
	if got := vp.Get(); got.Scale != 0.9 || got.Pan != (Point{5, 5}) {
		t.Errorf("restored view = %v, want scale 0.9 pan {5 5}", got)
	}
}
