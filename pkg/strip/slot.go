package strip

import "github.com/matzehuels/photostrip/pkg/geometry"

const (
	// CanvasWidth is the fixed logical width of every strip.
	CanvasWidth = 240

	// MinSlotSize is the floor for slot width and height.
	MinSlotSize = 20

	// DefaultCanvasHeight is used until a template image sets one.
	DefaultCanvasHeight = 640

	// MaxCanvasHeight caps the canvas height and any single dimension of
	// a slot, sticker or padding.
	MaxCanvasHeight = 20 * CanvasWidth

	// MaxTextSize caps the font size of text elements.
	MaxTextSize = CanvasWidth
)

// inBounds reports whether v is finite and within [lo, hi].
func inBounds(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}

// Slot is a rectangular placeholder for one photo.
type Slot struct {
	ID int     `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	W  float64 `json:"w"`
	H  float64 `json:"h"`
}

// Rect returns the slot bounds.
func (s Slot) Rect() geometry.Rect {
	return geometry.Rect{X: s.X, Y: s.Y, W: s.W, H: s.H}
}

// Bottom returns the lower edge of the slot.
func (s Slot) Bottom() float64 { return s.Y + s.H }

// Clamp enforces the minimum size on both axes independently.
func (s Slot) Clamp() Slot {
	if s.W < MinSlotSize {
		s.W = MinSlotSize
	}
	if s.H < MinSlotSize {
		s.H = MinSlotSize
	}
	return s
}

// DefaultSlots is the starter layout for a new custom template.
func DefaultSlots() []Slot {
	return []Slot{
		{ID: 1, X: 20, Y: 80, W: 200, H: 150},
		{ID: 2, X: 20, Y: 240, W: 200, H: 150},
		{ID: 3, X: 20, Y: 400, W: 200, H: 150},
	}
}

// CloneSlots returns an independent copy of slots.
func CloneSlots(slots []Slot) []Slot {
	if slots == nil {
		return nil
	}
	out := make([]Slot, len(slots))
	copy(out, slots)
	return out
}
