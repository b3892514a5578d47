package strip

import (
	"fmt"

	"github.com/matzehuels/photostrip/pkg/errors"
	"github.com/matzehuels/photostrip/pkg/geometry"
)

// Kind tags an Element variant.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
)

// Role marks the conventional title and caption that AddTextElement creates.
// User-added elements have no role.
type Role string

const (
	RoleNone    Role = ""
	RoleTitle   Role = "title"
	RoleCaption Role = "caption"
)

// Tracking is a letter-spacing class.
type Tracking string

const (
	TrackingTighter Tracking = "tighter"
	TrackingTight   Tracking = "tight"
	TrackingNormal  Tracking = "normal"
	TrackingWide    Tracking = "wide"
	TrackingWider   Tracking = "wider"
	TrackingWidest  Tracking = "widest"
)

var trackingEm = map[Tracking]float64{
	TrackingTighter: -0.05,
	TrackingTight:   -0.025,
	TrackingNormal:  0,
	TrackingWide:    0.025,
	TrackingWider:   0.05,
	TrackingWidest:  0.1,
}

// Em returns the letter spacing in em. Unknown classes are normal.
func (t Tracking) Em() float64 {
	return trackingEm[t]
}

// Valid reports whether t is a known class. The empty class is valid.
func (t Tracking) Valid() bool {
	if t == "" {
		return true
	}
	_, ok := trackingEm[t]
	return ok
}

// TextPayload is the content of a text element.
type TextPayload struct {
	Content  string   `json:"content"`
	Family   string   `json:"family"`
	Size     float64  `json:"size"`
	Tracking Tracking `json:"tracking,omitempty"`
	Color    string   `json:"color"`
	Weight   int      `json:"weight"`
}

// ImagePayload is the content of a sticker element. Its rendered height is
// Width * Aspect.
type ImagePayload struct {
	Src    string  `json:"src"`
	Width  float64 `json:"width"`
	Aspect float64 `json:"aspect"`
}

// Height returns the sticker height derived from its intrinsic aspect.
func (p *ImagePayload) Height() float64 {
	return p.Width * p.Aspect
}

// Element is a free-floating overlay. Exactly one of Text and Image is set,
// matching Kind.
type Element struct {
	ID       string        `json:"id"`
	Kind     Kind          `json:"kind"`
	X        float64       `json:"x"`
	Y        float64       `json:"y"`
	Rotation float64       `json:"rotation"`
	Role     Role          `json:"role,omitempty"`
	Text     *TextPayload  `json:"text,omitempty"`
	Image    *ImagePayload `json:"image,omitempty"`
}

// Auto reports whether e is part of the conventional title/caption pair.
func (e Element) Auto() bool { return e.Role != RoleNone }

// Pos returns the element's top-left corner.
func (e Element) Pos() geometry.Point { return geometry.Point{X: e.X, Y: e.Y} }

// Validate checks the tagged-variant invariant.
func (e Element) Validate() error {
	if e.ID == "" {
		return errors.New(errors.ErrCodeInvalidElement, "element id is empty")
	}
	switch e.Kind {
	case KindText:
		if e.Text == nil || e.Image != nil {
			return errors.New(errors.ErrCodeInvalidElement, "text element %s must carry only a text payload", e.ID)
		}
		if !(e.Text.Size > 0) || e.Text.Size > MaxTextSize {
			return errors.New(errors.ErrCodeInvalidElement, "text element %s size outside (0, %d]", e.ID, MaxTextSize)
		}
		if !e.Text.Tracking.Valid() {
			return errors.New(errors.ErrCodeInvalidElement, "text element %s has unknown tracking %q", e.ID, e.Text.Tracking)
		}
	case KindImage:
		if e.Image == nil || e.Text != nil {
			return errors.New(errors.ErrCodeInvalidElement, "image element %s must carry only an image payload", e.ID)
		}
		if !(e.Image.Width > 0) || !(e.Image.Aspect > 0) ||
			e.Image.Width > MaxCanvasHeight || !(e.Image.Height() <= MaxCanvasHeight) {
			return errors.New(errors.ErrCodeInvalidElement, "image element %s has invalid dimensions", e.ID)
		}
	default:
		return errors.New(errors.ErrCodeInvalidElement, "element %s has unknown kind %q", e.ID, e.Kind)
	}
	switch e.Role {
	case RoleNone, RoleTitle, RoleCaption:
	default:
		return errors.New(errors.ErrCodeInvalidElement, "element %s has unknown role %q", e.ID, e.Role)
	}
	return nil
}

// Clone returns a deep copy of e.
func (e Element) Clone() Element {
	if e.Text != nil {
		t := *e.Text
		e.Text = &t
	}
	if e.Image != nil {
		i := *e.Image
		e.Image = &i
	}
	return e
}

// String implements fmt.Stringer for log output.
func (e Element) String() string {
	switch e.Kind {
	case KindText:
		return fmt.Sprintf("text(%s %q @%.0f,%.0f)", e.ID, e.Text.Content, e.X, e.Y)
	case KindImage:
		return fmt.Sprintf("image(%s @%.0f,%.0f)", e.ID, e.X, e.Y)
	default:
		return fmt.Sprintf("element(%s)", e.ID)
	}
}

// CloneElements returns a deep copy of elems.
func CloneElements(elems []Element) []Element {
	if elems == nil {
		return nil
	}
	out := make([]Element, len(elems))
	for i, e := range elems {
		out[i] = e.Clone()
	}
	return out
}

// NewText builds a text element with default styling.
func NewText(id, content string, size float64, weight int) Element {
	return Element{
		ID:   id,
		Kind: KindText,
		Text: &TextPayload{
			Content:  content,
			Family:   "sans",
			Size:     size,
			Tracking: TrackingNormal,
			Color:    "#ffffff",
			Weight:   weight,
		},
	}
}

// NewImage builds a sticker element.
func NewImage(id, src string, width, aspect float64) Element {
	return Element{
		ID:    id,
		Kind:  KindImage,
		Image: &ImagePayload{Src: src, Width: width, Aspect: aspect},
	}
}
