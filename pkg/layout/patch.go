package layout

import "github.com/matzehuels/photostrip/pkg/strip"

// SlotPatch updates the non-nil fields of a slot.
type SlotPatch struct {
	X *float64 `json:"x,omitempty"`
	Y *float64 `json:"y,omitempty"`
	W *float64 `json:"w,omitempty"`
	H *float64 `json:"h,omitempty"`
}

func (p SlotPatch) apply(s strip.Slot) strip.Slot {
	if p.X != nil {
		s.X = *p.X
	}
	if p.Y != nil {
		s.Y = *p.Y
	}
	if p.W != nil {
		s.W = *p.W
	}
	if p.H != nil {
		s.H = *p.H
	}
	return s.Clamp()
}

// ElementPatch updates the non-nil fields of an element. Fields that do not
// belong to the element's variant are ignored.
type ElementPatch struct {
	X        *float64 `json:"x,omitempty"`
	Y        *float64 `json:"y,omitempty"`
	Rotation *float64 `json:"rotation,omitempty"`

	// Text variant
	Content  *string         `json:"content,omitempty"`
	Family   *string         `json:"family,omitempty"`
	Size     *float64        `json:"size,omitempty"`
	Tracking *strip.Tracking `json:"tracking,omitempty"`
	Color    *string         `json:"color,omitempty"`
	Weight   *int            `json:"weight,omitempty"`

	// Image variant
	Width *float64 `json:"width,omitempty"`
	Src   *string  `json:"src,omitempty"`
}

func (p ElementPatch) apply(e strip.Element) strip.Element {
	e = e.Clone()
	if p.X != nil {
		e.X = *p.X
	}
	if p.Y != nil {
		e.Y = *p.Y
	}
	if p.Rotation != nil {
		e.Rotation = *p.Rotation
	}
	switch e.Kind {
	case strip.KindText:
		t := e.Text
		if p.Content != nil {
			t.Content = *p.Content
		}
		if p.Family != nil {
			t.Family = *p.Family
		}
		if p.Size != nil {
			t.Size = *p.Size
		}
		if p.Tracking != nil {
			t.Tracking = *p.Tracking
		}
		if p.Color != nil {
			t.Color = *p.Color
		}
		if p.Weight != nil {
			t.Weight = *p.Weight
		}
	case strip.KindImage:
		if p.Width != nil {
			e.Image.Width = *p.Width
		}
		if p.Src != nil {
			e.Image.Src = *p.Src
		}
	}
	return e
}

// Ptr returns a pointer to v, for building patches.
func Ptr[T any](v T) *T { return &v }

// Fields selects which slot attributes ApplyToAll broadcasts.
type Fields uint8

const (
	FieldW Fields = 1 << iota
	FieldH
	FieldX

	FieldSize = FieldW | FieldH
)
