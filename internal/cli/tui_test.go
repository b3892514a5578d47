package cli

import (
	"context"
	"image"
	"math"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/photostrip/pkg/editor"
	"github.com/matzehuels/photostrip/pkg/geometry"
	"github.com/matzehuels/photostrip/pkg/imagesrc"
	"github.com/matzehuels/photostrip/pkg/interact"
	"github.com/matzehuels/photostrip/pkg/pipeline"
	"github.com/matzehuels/photostrip/pkg/strip"
)

func newEditModel(t *testing.T, slots int) (EditModel, string) {
	t.Helper()
	ctx := context.Background()
	mem := imagesrc.NewMemory()
	frame := mem.Put("frame", image.NewNRGBA(image.Rect(0, 0, 240, 480)))

	ed := editor.New(editor.WithResolver(mem))
	if err := ed.SetBackground(strip.Background{Mode: strip.BackgroundTemplate, Value: frame}); err != nil {
		t.Fatal(err)
	}
	if err := ed.ConfirmLayout(ctx, slots); err != nil {
		t.Fatal(err)
	}
	ed.SetZoom(1)

	root := t.TempDir()
	m := NewEditModel(ctx, ed, "test", root, pipeline.Options{Formats: []string{"png"}})
	return m, root
}

func send(t *testing.T, m EditModel, msg tea.Msg) (EditModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(EditModel), cmd
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// cellAt returns the terminal cell showing canvas point p at scale 1.
func cellAt(p geometry.Point) (x, y int) {
	return int(math.Floor(p.X/cellPx)) + gridLeft, int(math.Floor(p.Y/rowPx)) + gridTop
}

func mouse(x, y int, action tea.MouseAction) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft}
}

func TestEditModelKeys(t *testing.T) {
	m, _ := newEditModel(t, 3)
	ed := m.ed

	m, _ = send(t, m, key("a"))
	if got := len(ed.Slots()); got != 4 {
		t.Fatalf("slots after 'a' = %d, want 4", got)
	}
	if ed.Selection().Slot != 3 {
		t.Errorf("selection after 'a' = %+v, want new slot", ed.Selection())
	}

	m, _ = send(t, m, key("u"))
	if got := len(ed.Slots()); got != 3 {
		t.Errorf("slots after undo = %d, want 3", got)
	}
	m, _ = send(t, m, key("r"))
	if got := len(ed.Slots()); got != 4 {
		t.Errorf("slots after redo = %d, want 4", got)
	}

	m, _ = send(t, m, key("+"))
	if got := ed.View().Scale; got != 1.1 {
		t.Errorf("scale after '+' = %v, want 1.1", got)
	}
	m, _ = send(t, m, key("0"))
	if got := ed.View().Scale; got != geometry.DefaultScale {
		t.Errorf("scale after '0' = %v, want default", got)
	}

	m, _ = send(t, m, key("l"))
	if !ed.Locked() {
		t.Error("'l' should lock the layout")
	}
	if !strings.Contains(m.message, "locked") {
		t.Errorf("message = %q, want lock notice", m.message)
	}

	_, cmd := send(t, m, key("q"))
	if cmd == nil {
		t.Error("'q' should return a quit command")
	}
}

func TestEditModelNudgeAndTab(t *testing.T) {
	m, _ := newEditModel(t, 3)
	ed := m.ed

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if ed.Selection().Slot != 0 {
		t.Fatalf("selection after tab = %+v, want slot 0", ed.Selection())
	}
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if ed.Selection().Slot != 1 {
		t.Fatalf("selection after second tab = %+v, want slot 1", ed.Selection())
	}

	before := ed.Slots()[1]
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	_, _ = send(t, m, tea.KeyMsg{Type: tea.KeyShiftDown})
	after := ed.Slots()[1]
	if after.X != before.X+interact.NudgeStep || after.Y != before.Y+interact.NudgeStepFast {
		t.Errorf("slot after nudges = %+v, want moved from %+v", after, before)
	}
}

func TestEditModelDragSlot(t *testing.T) {
	m, _ := newEditModel(t, 3)
	ed := m.ed
	before := ed.Slots()[0]
	history := ed.HistoryLen()

	x, y := cellAt(before.Rect().Center())
	m, _ = send(t, m, mouse(x, y, tea.MouseActionPress))
	if ed.Mode() != interact.MovingSlot {
		t.Fatalf("mode after press = %v, want moving-slot", ed.Mode())
	}
	m, _ = send(t, m, mouse(x+5, y, tea.MouseActionMotion))
	_, _ = send(t, m, mouse(x+5, y, tea.MouseActionRelease))

	after := ed.Slots()[0]
	if after.X != before.X+5*cellPx || after.Y != before.Y {
		t.Errorf("slot after drag = %+v, want moved %v right from %+v", after, 5*cellPx, before)
	}
	if ed.Mode() != interact.Idle {
		t.Errorf("mode after release = %v, want idle", ed.Mode())
	}
	if got := ed.HistoryLen(); got != history+1 {
		t.Errorf("history = %d, want one entry for the drag (%d)", got, history+1)
	}
}

func TestEditModelRetake(t *testing.T) {
	m, root := newEditModel(t, 3)
	ed := m.ed
	ed.SetLocked(true)

	x, y := cellAt(ed.Slots()[1].Rect().Center())
	m, _ = send(t, m, mouse(x, y, tea.MouseActionPress))
	m, _ = send(t, m, mouse(x, y, tea.MouseActionRelease))
	if m.retake != 1 {
		t.Fatalf("retake = %d, want slot 1", m.retake)
	}

	m, _ = send(t, m, key(filepath.Join(root, "b.png")))
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.retake != -1 {
		t.Errorf("retake = %d after enter, want -1", m.retake)
	}
	if got := ed.Photos()[1]; got != "b.png" {
		t.Errorf("photo in slot 1 = %q, want b.png", got)
	}
}

func TestEditModelRetakeCancel(t *testing.T) {
	m, _ := newEditModel(t, 2)
	m.retake = 0
	m, _ = send(t, m, key("abc"))
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	if m.input != "ab" {
		t.Errorf("input = %q, want ab", m.input)
	}
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.retake != -1 || m.ed.Photos()[0] != "" {
		t.Errorf("esc should cancel the retake without placing a photo")
	}
}

func TestEditModelView(t *testing.T) {
	m, _ := newEditModel(t, 2)
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 80})

	view := m.View()
	for _, want := range []string{"photostrip", "test", "░", "photos", "0/2", "zoom", "100%"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}

	m.ed.AddPhotos("mem:frame")
	if !strings.Contains(m.View(), "▓") {
		t.Error("View() should mark a filled slot")
	}
}
