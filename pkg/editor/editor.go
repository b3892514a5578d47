package editor

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/photostrip/pkg/gallery"
	"github.com/matzehuels/photostrip/pkg/geometry"
	"github.com/matzehuels/photostrip/pkg/history"
	"github.com/matzehuels/photostrip/pkg/imagesrc"
	"github.com/matzehuels/photostrip/pkg/interact"
	"github.com/matzehuels/photostrip/pkg/layout"
	"github.com/matzehuels/photostrip/pkg/pipeline"
	"github.com/matzehuels/photostrip/pkg/strip"
	"github.com/matzehuels/photostrip/pkg/template"
)

// Editor is the single owner of an editing session.
type Editor struct {
	mu       sync.Mutex
	store    *layout.Store
	view     *geometry.Viewport
	machine  *interact.Machine
	history  *history.Manager
	recents  strip.Recents
	photos   []string
	resolver imagesrc.Resolver

	runner    *pipeline.Runner
	templates template.Store
	gallery   gallery.Sink
	logger    *log.Logger

	subsMu  sync.Mutex
	subs    map[int]func(Event)
	nextSub int

	// construction-time settings
	threshold  float64
	capacity   int
	storeOpts  []layout.Option
	oversample float64
	quality    int
}

// Option configures an Editor.
type Option func(*Editor)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithResolver sets how photo, sticker and background references load.
func WithResolver(r imagesrc.Resolver) Option {
	return func(e *Editor) { e.resolver = r }
}

// WithRunner sets the export runner, typically one sharing a cache.
func WithRunner(r *pipeline.Runner) Option {
	return func(e *Editor) { e.runner = r }
}

// WithTemplates sets the template store.
func WithTemplates(s template.Store) Option {
	return func(e *Editor) { e.templates = s }
}

// WithGallery sets where archived exports go.
func WithGallery(g gallery.Sink) Option {
	return func(e *Editor) { e.gallery = g }
}

// WithDragThreshold sets the pointer travel before a press becomes a drag.
func WithDragThreshold(px float64) Option {
	return func(e *Editor) { e.threshold = px }
}

// WithHistoryCapacity bounds the undo list.
func WithHistoryCapacity(n int) Option {
	return func(e *Editor) { e.capacity = n }
}

// WithStoreOptions passes options to the layout store.
func WithStoreOptions(opts ...layout.Option) Option {
	return func(e *Editor) { e.storeOpts = append(e.storeOpts, opts...) }
}

// WithExportDefaults sets the oversample factor and JPEG quality used
// when an export leaves them zero.
func WithExportDefaults(oversample float64, quality int) Option {
	return func(e *Editor) {
		e.oversample = oversample
		e.quality = quality
	}
}

// New creates an editor with the default starter layout.
func New(opts ...Option) *Editor {
	e := &Editor{
		recents:   strip.Recents{},
		subs:      make(map[int]func(Event)),
		logger:    log.NewWithOptions(io.Discard, log.Options{}),
		threshold: interact.DefaultDragThreshold,
		capacity:  history.DefaultCapacity,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.resolver == nil {
		e.resolver = imagesrc.NewMux(".", nil, nil)
	}
	if e.runner == nil {
		e.runner = pipeline.NewRunner(nil, nil, e.logger)
	}
	e.store = layout.New(e.storeOpts...)
	e.view = geometry.NewViewport(geometry.DefaultView())
	e.machine = interact.New(e.store, e.view, interact.WithThreshold(e.threshold))
	e.history = history.New(e.store.State(), e.capacity)
	e.syncPhotos()
	return e
}

// Logger returns the editor's logger.
func (e *Editor) Logger() *log.Logger { return e.logger }

// =============================================================================
// Mutation plumbing
// =============================================================================

// mutate runs fn under the lock. When fn reports a change it records
// history if the undoable state moved, reconciles the selection and
// notifies subscribers.
func (e *Editor) mutate(fn func() bool) bool {
	e.mu.Lock()
	changed := fn()
	var events []Event
	if changed {
		events = e.commitLocked()
	}
	e.mu.Unlock()
	e.emit(events...)
	return changed
}

func (e *Editor) commitLocked() []Event {
	events := kinds(EventStore)
	st := e.store.State()
	if !st.Equal(e.history.Current()) {
		e.history.Snapshot(st)
		events = append(events, kinds(EventHistory)...)
	}
	prev := e.machine.Selection()
	e.machine.Reconcile()
	if e.machine.Selection() != prev {
		events = append(events, kinds(EventSelection)...)
	}
	if e.syncPhotos() {
		events = append(events, kinds(EventPhotos)...)
	}
	return events
}

// syncPhotos sizes the photo list to the slot count, keeping assignments.
func (e *Editor) syncPhotos() bool {
	n := e.store.TotalSlots()
	if len(e.photos) == n {
		return false
	}
	if len(e.photos) > n {
		e.photos = e.photos[:n]
	} else {
		e.photos = append(e.photos, make([]string, n-len(e.photos))...)
	}
	return true
}

// =============================================================================
// Read access
// =============================================================================

// Slots returns the stored slots.
func (e *Editor) Slots() []strip.Slot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Slots()
}

// EffectiveSlots returns the slots as drawn.
func (e *Editor) EffectiveSlots() []strip.Slot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.EffectiveSlots()
}

// Elements returns the overlay elements.
func (e *Editor) Elements() []strip.Element {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Elements()
}

// Element returns one element by id.
func (e *Editor) Element(id string) (strip.Element, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Element(id)
}

// Background returns the active background.
func (e *Editor) Background() strip.Background {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Background()
}

// Params returns the composition-wide layout parameters.
func (e *Editor) Params() strip.Params {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Params()
}

// Locked reports whether slot geometry is locked. Clicks on a locked
// slot request a retake instead of starting a drag.
func (e *Editor) Locked() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Locked()
}

// CanvasHeight returns the canvas height as rendered.
func (e *Editor) CanvasHeight() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.CanvasHeight()
}

// TotalSlots returns the number of photo positions: the stored slots with
// a template, the flat frame count without one.
func (e *Editor) TotalSlots() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.TotalSlots()
}

// State returns the undoable state.
func (e *Editor) State() layout.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.State()
}

// Selection returns the selected slot and element.
func (e *Editor) Selection() interact.Selection {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.machine.Selection()
}

// Mode returns the interaction state.
func (e *Editor) Mode() interact.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.machine.State()
}

// View returns the user's view transform. An export in progress does not
// change it; see [Editor.Export].
func (e *Editor) View() geometry.View { return e.view.User() }

// Recents returns the most-recently-used list for kind.
func (e *Editor) Recents(kind strip.RecentKind) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.recents.Get(kind)
}

// CanUndo reports whether Undo would change anything.
func (e *Editor) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.CanUndo()
}

// HistoryLen returns the number of retained history entries.
func (e *Editor) HistoryLen() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Len()
}
