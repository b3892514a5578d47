package strip

import (
	"time"

	"github.com/matzehuels/photostrip/pkg/errors"
)

// Record is the persisted template configuration.
type Record struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Background Background `json:"background"`
	Params
	Elements  []Element `json:"elements"`
	Slots     []Slot    `json:"slots"`
	Design    string    `json:"design,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Validate checks that r can be applied to a layout store.
func (r *Record) Validate() error {
	if err := errors.ValidateName(r.Name); err != nil {
		return err
	}
	if err := r.Background.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidTemplate, err, "template %q", r.Name)
	}
	if r.CanvasHeight != 0 && !inBounds(r.CanvasHeight, 1, MaxCanvasHeight) {
		return errors.New(errors.ErrCodeInvalidTemplate, "canvas height %v outside (0, %d]", r.CanvasHeight, MaxCanvasHeight)
	}
	seenSlot := make(map[int]bool, len(r.Slots))
	for _, s := range r.Slots {
		if s.W < MinSlotSize || s.H < MinSlotSize {
			return errors.New(errors.ErrCodeInvalidTemplate, "slot %d smaller than %dpx", s.ID, MinSlotSize)
		}
		if !inBounds(s.W, MinSlotSize, MaxCanvasHeight) || !inBounds(s.H, MinSlotSize, MaxCanvasHeight) ||
			!inBounds(s.X, -MaxCanvasHeight, MaxCanvasHeight) || !inBounds(s.Y, -MaxCanvasHeight, MaxCanvasHeight) {
			return errors.New(errors.ErrCodeInvalidTemplate, "slot %d exceeds %dpx", s.ID, MaxCanvasHeight)
		}
		if seenSlot[s.ID] {
			return errors.New(errors.ErrCodeInvalidTemplate, "duplicate slot id %d", s.ID)
		}
		seenSlot[s.ID] = true
	}
	seenElem := make(map[string]bool, len(r.Elements))
	for _, e := range r.Elements {
		if err := e.Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidTemplate, err, "template %q", r.Name)
		}
		if seenElem[e.ID] {
			return errors.New(errors.ErrCodeInvalidTemplate, "duplicate element id %s", e.ID)
		}
		seenElem[e.ID] = true
	}
	return nil
}

// Clone returns a deep copy of r.
func (r *Record) Clone() *Record {
	out := *r
	out.Elements = CloneElements(r.Elements)
	out.Slots = CloneSlots(r.Slots)
	return &out
}

// Summary is the listing form of a record.
type Summary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slots     int       `json:"slots"`
	CreatedAt time.Time `json:"createdAt"`
}

// Summarize returns the listing form of r.
func (r *Record) Summarize() Summary {
	return Summary{ID: r.ID, Name: r.Name, Slots: len(r.Slots), CreatedAt: r.CreatedAt}
}
