package layout

import (
	"math"

	"github.com/google/uuid"

	"github.com/matzehuels/photostrip/pkg/geometry"
	"github.com/matzehuels/photostrip/pkg/strip"
)

// Conventional text pair and sticker defaults.
const (
	titleSize      = 24
	captionSize    = 12
	textMargin     = 12
	textLeft       = 20
	captionSpacing = 36
	stickerWidth   = 80
)

// Store holds the canonical composition.
type Store struct {
	slots      []strip.Slot
	elements   []strip.Element
	background strip.Background
	params     strip.Params
	photoCount int
	locked     bool
	design     string
	nextSlotID int
	newID      func() string
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator overrides element id generation.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// New creates a store with the default starter slots and parameters.
func New(opts ...Option) *Store {
	s := &Store{
		slots:      strip.DefaultSlots(),
		background: strip.Background{Mode: strip.BackgroundColor},
		params:     strip.DefaultParams(),
		photoCount: strip.DefaultPhotoCount,
		design:     strip.Designs[0].ID,
		newID:      uuid.NewString,
	}
	s.nextSlotID = maxSlotID(s.slots) + 1
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func maxSlotID(slots []strip.Slot) int {
	m := 0
	for _, sl := range slots {
		if sl.ID > m {
			m = sl.ID
		}
	}
	return m
}

// =============================================================================
// Read access
// =============================================================================

// Slots returns a copy of the stored slots.
func (s *Store) Slots() []strip.Slot { return strip.CloneSlots(s.slots) }

// Slot returns the slot at index i.
func (s *Store) Slot(i int) (strip.Slot, bool) {
	if i < 0 || i >= len(s.slots) {
		return strip.Slot{}, false
	}
	return s.slots[i], true
}

// Elements returns a deep copy of the elements.
func (s *Store) Elements() []strip.Element { return strip.CloneElements(s.elements) }

// Element returns a copy of the element with the given id.
func (s *Store) Element(id string) (strip.Element, bool) {
	if i := s.elementIndex(id); i >= 0 {
		return s.elements[i].Clone(), true
	}
	return strip.Element{}, false
}

func (s *Store) elementIndex(id string) int {
	for i, e := range s.elements {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// Background returns the active background.
func (s *Store) Background() strip.Background { return s.background }

// Params returns the composition parameters.
func (s *Store) Params() strip.Params { return s.params }

// Locked reports whether slot geometry is locked against dragging.
func (s *Store) Locked() bool { return s.locked }

// PhotoCount returns the flat-mode photo count.
func (s *Store) PhotoCount() int { return s.photoCount }

// Design returns the active design preset id.
func (s *Store) Design() string { return s.design }

// TemplateActive reports whether a template image drives the slot layout.
func (s *Store) TemplateActive() bool { return s.background.IsTemplate() }

// TotalSlots returns the number of photos the composition needs.
func (s *Store) TotalSlots() int {
	if s.TemplateActive() {
		return len(s.slots)
	}
	return s.photoCount
}

// EffectiveSlots returns the slots the renderer draws: the stored slots in
// template mode, computed 3:2 frames otherwise.
func (s *Store) EffectiveSlots() []strip.Slot {
	if s.TemplateActive() {
		return s.Slots()
	}
	w := strip.CanvasWidth - 2*s.params.PaddingSide
	if w < strip.MinSlotSize {
		w = strip.MinSlotSize
	}
	h := w * 2 / 3
	out := make([]strip.Slot, s.photoCount)
	for i := range out {
		out[i] = strip.Slot{
			ID: i + 1,
			X:  s.params.PaddingSide,
			Y:  s.params.PaddingTop + float64(i)*(h+s.params.Gap),
			W:  w,
			H:  h,
		}
	}
	return out
}

// CanvasHeight returns the rendered canvas height. In flat mode it wraps
// the computed frames and padding.
func (s *Store) CanvasHeight() float64 {
	if s.TemplateActive() {
		return s.params.CanvasHeight
	}
	slots := s.EffectiveSlots()
	last := slots[len(slots)-1]
	return last.Bottom() + s.params.PaddingBottom
}

// State returns a deep snapshot of the undoable state.
func (s *Store) State() State {
	return State{Slots: s.Slots(), Elements: s.Elements()}
}

// Restore replaces slots and elements with a deep copy of st.
func (s *Store) Restore(st State) {
	st = st.Clone()
	s.slots = st.Slots
	s.elements = st.Elements
	if id := maxSlotID(s.slots) + 1; id > s.nextSlotID {
		s.nextSlotID = id
	}
}

// =============================================================================
// Slots
// =============================================================================

// AddSlot appends a new slot near the top-left corner and returns its index.
func (s *Store) AddSlot() int {
	s.slots = append(s.slots, strip.Slot{ID: s.nextSlotID, X: 10, Y: 10, W: 220, H: 144})
	s.nextSlotID++
	return len(s.slots) - 1
}

// RemoveSlot deletes the slot at index i.
func (s *Store) RemoveSlot(i int) bool {
	if i < 0 || i >= len(s.slots) {
		return false
	}
	s.slots = append(s.slots[:i:i], s.slots[i+1:]...)
	return true
}

// UpdateSlot applies a patch to the slot at index i, clamping to the minimum size.
func (s *Store) UpdateSlot(i int, p SlotPatch) bool {
	if i < 0 || i >= len(s.slots) {
		return false
	}
	s.slots[i] = p.apply(s.slots[i])
	return true
}

// ApplyToAll copies the selected fields of the slot at index src to every slot.
func (s *Store) ApplyToAll(src int, fields Fields) bool {
	if src < 0 || src >= len(s.slots) || fields == 0 {
		return false
	}
	from := s.slots[src]
	for i := range s.slots {
		if fields&FieldW != 0 {
			s.slots[i].W = from.W
		}
		if fields&FieldH != 0 {
			s.slots[i].H = from.H
		}
		if fields&FieldX != 0 {
			s.slots[i].X = from.X
		}
	}
	return true
}

// NudgeSlot moves the slot at index i by (dx, dy) canvas units.
func (s *Store) NudgeSlot(i int, dx, dy float64) bool {
	sl, ok := s.Slot(i)
	if !ok {
		return false
	}
	return s.UpdateSlot(i, SlotPatch{X: Ptr(sl.X + dx), Y: Ptr(sl.Y + dy)})
}

// ConfirmLayout regenerates n evenly stacked slots for a template image of
// the given intrinsic size. The canvas height follows the image aspect at
// the fixed strip width. The conventional title/caption pair is removed;
// user-added elements are kept.
func (s *Store) ConfirmLayout(n int, intrinsic geometry.Size) bool {
	if n < 1 || !intrinsic.Valid() {
		return false
	}
	height := math.Min(math.Round(strip.CanvasWidth*intrinsic.Aspect()), strip.MaxCanvasHeight)
	p := s.params
	avail := height - p.PaddingTop - p.PaddingBottom - p.Gap*float64(n-1)
	slotH := math.Max(strip.MinSlotSize, math.Floor(avail/float64(n)))

	s.slots = make([]strip.Slot, n)
	for i := range s.slots {
		s.slots[i] = strip.Slot{
			ID: s.nextSlotID,
			X:  strip.TemplateSideInset,
			Y:  p.PaddingTop + float64(i)*(slotH+p.Gap),
			W:  strip.CanvasWidth - 2*strip.TemplateSideInset,
			H:  slotH,
		}
		s.nextSlotID++
	}
	s.params.CanvasHeight = height

	kept := s.elements[:0:0]
	for _, e := range s.elements {
		if !e.Auto() {
			kept = append(kept, e)
		}
	}
	s.elements = kept
	return true
}

// =============================================================================
// Elements
// =============================================================================

// contentBottom is the lowest slot edge, or the top padding without slots.
// Elements do not count.
func (s *Store) contentBottom() float64 {
	bottom := s.params.PaddingTop
	for _, sl := range s.EffectiveSlots() {
		bottom = math.Max(bottom, sl.Bottom())
	}
	return bottom
}

// AddTextElement adds the conventional title and caption just below the
// lowest slot and returns their ids.
func (s *Store) AddTextElement() (titleID, captionID string) {
	color := strip.DesignByID(s.design).Text
	y := s.contentBottom() + textMargin

	title := strip.NewText(s.newID(), "Title", titleSize, 700)
	title.X, title.Y, title.Role = textLeft, y, strip.RoleTitle
	title.Text.Color = color

	caption := strip.NewText(s.newID(), "Caption", captionSize, 400)
	caption.X, caption.Y, caption.Role = textLeft, y+captionSpacing, strip.RoleCaption
	caption.Text.Color = color

	s.elements = append(s.elements, title, caption)
	return title.ID, caption.ID
}

// AddImageElement adds a centered sticker for src with the given intrinsic
// aspect (height/width). It returns false for a non-positive aspect.
func (s *Store) AddImageElement(src string, aspect float64) (string, bool) {
	if src == "" || aspect <= 0 || math.IsInf(aspect, 0) || math.IsNaN(aspect) {
		return "", false
	}
	e := strip.NewImage(s.newID(), src, stickerWidth, aspect)
	e.X = math.Round((strip.CanvasWidth - stickerWidth) / 2)
	e.Y = math.Round((s.CanvasHeight() - e.Image.Height()) / 2)
	s.elements = append(s.elements, e)
	return e.ID, true
}

// InsertElement appends a fully formed element after validating it.
func (s *Store) InsertElement(e strip.Element) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if s.elementIndex(e.ID) >= 0 {
		e.ID = s.newID()
	}
	s.elements = append(s.elements, e.Clone())
	return nil
}

// UpdateElement applies a patch to the element with the given id. Patches
// that would break the variant invariant are rejected.
func (s *Store) UpdateElement(id string, p ElementPatch) bool {
	i := s.elementIndex(id)
	if i < 0 {
		return false
	}
	next := p.apply(s.elements[i])
	if next.Validate() != nil {
		return false
	}
	s.elements[i] = next
	return true
}

// MoveElement sets the element's position.
func (s *Store) MoveElement(id string, to geometry.Point) bool {
	return s.UpdateElement(id, ElementPatch{X: Ptr(to.X), Y: Ptr(to.Y)})
}

// NudgeElement moves the element by (dx, dy) canvas units.
func (s *Store) NudgeElement(id string, dx, dy float64) bool {
	e, ok := s.Element(id)
	if !ok {
		return false
	}
	return s.MoveElement(id, geometry.Point{X: e.X + dx, Y: e.Y + dy})
}

// DeleteElement removes the element with the given id.
func (s *Store) DeleteElement(id string) bool {
	i := s.elementIndex(id)
	if i < 0 {
		return false
	}
	s.elements = append(s.elements[:i:i], s.elements[i+1:]...)
	return true
}

// =============================================================================
// Composition parameters
// =============================================================================

// SetBackground replaces the active background. Any previous mode is cleared.
func (s *Store) SetBackground(bg strip.Background) error {
	if err := bg.Validate(); err != nil {
		return err
	}
	s.background = bg
	return nil
}

// SetParams replaces the layout parameters after normalizing them.
func (s *Store) SetParams(p strip.Params) {
	s.params = p.Normalize()
}

// SetLocked toggles the template lock.
func (s *Store) SetLocked(locked bool) { s.locked = locked }

// SetPhotoCount sets the flat-mode photo count, clamped to 1-4.
func (s *Store) SetPhotoCount(n int) { s.photoCount = strip.ClampPhotoCount(n) }

// SetDesign selects a design preset by id. Unknown ids select the default.
func (s *Store) SetDesign(id string) { s.design = strip.DesignByID(id).ID }

// =============================================================================
// Template records
// =============================================================================

// Record captures the store as a template record with the given name.
// The caller assigns the id and creation time.
func (s *Store) Record(name string) *strip.Record {
	return &strip.Record{
		Name:       name,
		Background: s.background,
		Params:     s.params,
		Elements:   s.Elements(),
		Slots:      s.Slots(),
		Design:     s.design,
	}
}

// Apply replaces the store contents with a validated record.
func (s *Store) Apply(r *strip.Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	r = r.Clone()
	s.background = r.Background
	s.params = r.Params.Normalize()
	s.slots = r.Slots
	if s.slots == nil {
		s.slots = []strip.Slot{}
	}
	s.elements = r.Elements
	if r.Design != "" {
		s.SetDesign(r.Design)
	}
	s.nextSlotID = maxSlotID(s.slots) + 1
	return nil
}
