package interact

import "github.com/matzehuels/photostrip/pkg/geometry"

// State is the machine's current mode.
type State int

const (
	Idle State = iota
	MovingSlot
	ResizingSlot
	MovingElement
	Panning
	Pressing
)

var stateNames = [...]string{"idle", "moving-slot", "resizing-slot", "moving-element", "panning", "pressing"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Button identifies a pointer button using DOM numbering.
type Button int

const (
	ButtonPrimary   Button = 0
	ButtonMiddle    Button = 1
	ButtonSecondary Button = 2
)

// Target is what a pointer-down landed on.
type Target int

const (
	TargetCanvas Target = iota
	TargetSlot
	TargetHandle
	TargetElement
)

// Handle names a corner resize handle.
type Handle string

const (
	HandleNW Handle = "nw"
	HandleNE Handle = "ne"
	HandleSW Handle = "sw"
	HandleSE Handle = "se"
)

// Valid reports whether h is one of the four corners.
func (h Handle) Valid() bool {
	switch h {
	case HandleNW, HandleNE, HandleSW, HandleSE:
		return true
	}
	return false
}

func (h Handle) west() bool  { return h == HandleNW || h == HandleSW }
func (h Handle) north() bool { return h == HandleNW || h == HandleNE }

// PointerEvent is a pointer-down in screen coordinates.
type PointerEvent struct {
	Target  Target
	Slot    int    // slot index for TargetSlot and TargetHandle
	Element string // element id for TargetElement
	Handle  Handle // corner for TargetHandle
	Button  Button
	Pos     geometry.Point
}

// Key is a navigation key.
type Key int

const (
	KeyNone Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
)

// Nudge step sizes in canvas units.
const (
	NudgeStep     = 1
	NudgeStepFast = 10
)

func (k Key) delta(fast bool) (dx, dy float64) {
	step := float64(NudgeStep)
	if fast {
		step = NudgeStepFast
	}
	switch k {
	case KeyUp:
		return 0, -step
	case KeyDown:
		return 0, step
	case KeyLeft:
		return -step, 0
	case KeyRight:
		return step, 0
	}
	return 0, 0
}

// Result describes how a session ended.
type Result struct {
	Mode      State
	Committed bool // layout geometry differs from press time
	Retake    int  // slot index clicked while locked, or -1
}

// Selection tracks the selected slot index and element id. At most one is set.
type Selection struct {
	Slot    int    `json:"slot"`
	Element string `json:"element,omitempty"`
}

// None is the empty selection.
var None = Selection{Slot: -1}

// HasSlot reports whether a slot is selected.
func (s Selection) HasSlot() bool { return s.Slot >= 0 }

// HasElement reports whether an element is selected.
func (s Selection) HasElement() bool { return s.Element != "" }
