package cli

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/photostrip/pkg/editor"
	"github.com/matzehuels/photostrip/pkg/geometry"
	"github.com/matzehuels/photostrip/pkg/interact"
	"github.com/matzehuels/photostrip/pkg/pipeline"
	"github.com/matzehuels/photostrip/pkg/strip"
)

// Grid cell size in screen units. Terminal cells are about twice as tall
// as they are wide.
const (
	cellPx = 4.0
	rowPx  = 8.0
)

// The canvas box starts below the title line, inside its border.
const (
	gridLeft = 1
	gridTop  = 2
)

const statusWidth = 34

// Editor styles
var (
	gridBorderStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
	canvasStyle     = lipgloss.NewStyle().Foreground(colorDim)
	slotStyle       = lipgloss.NewStyle().Foreground(colorGray)
	slotFilledStyle = lipgloss.NewStyle().Foreground(colorWhite)
	selectedStyle   = lipgloss.NewStyle().Foreground(colorRose).Bold(true)
	elementStyle    = lipgloss.NewStyle().Foreground(colorBlue)
	statusStyle     = lipgloss.NewStyle().Width(statusWidth).PaddingLeft(2)
	labelStyle      = lipgloss.NewStyle().Foreground(colorGray).Width(10)
	errorStyle      = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// EditModel - Interactive strip editor
// =============================================================================

// exportDoneMsg reports a finished background export.
type exportDoneMsg struct {
	paths []string
	err   error
}

// EditModel is the bubbletea model for editing a strip in the terminal.
// The canvas is drawn as a character grid; mouse drags move and resize
// slots and elements through the editor's interaction machine.
type EditModel struct {
	ctx     context.Context
	ed      *editor.Editor
	name    string
	root    string
	formats []string
	export  pipeline.Options

	width, height int

	// retake is the slot awaiting a new photo path, or -1.
	retake int
	input  string

	message string
	failed  bool
}

// NewEditModel creates an editor model. name is used when saving.
func NewEditModel(ctx context.Context, ed *editor.Editor, name, root string, export pipeline.Options) EditModel {
	return EditModel{
		ctx:     ctx,
		ed:      ed,
		name:    name,
		root:    root,
		formats: export.Formats,
		export:  export,
		width:   80,
		height:  40,
		retake:  -1,
	}
}

func (m EditModel) Init() tea.Cmd {
	return nil
}

func (m EditModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		if m.retake >= 0 {
			return m.updateRetake(msg), nil
		}
		return m.updateKey(msg)
	case tea.MouseMsg:
		m.updateMouse(msg)
	case exportDoneMsg:
		if msg.err != nil {
			m.fail(msg.err)
		} else {
			m.note("Exported %s", strings.Join(msg.paths, ", "))
		}
	}
	return m, nil
}

func (m EditModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ed := m.ed
	switch msg.String() {
	case "q", "ctrl+c":
		ed.Cancel()
		return m, tea.Quit
	case "esc":
		if ed.Mode() != interact.Idle {
			ed.Cancel()
		} else {
			ed.ClearSelection()
		}
	case "up", "down", "left", "right", "shift+up", "shift+down", "shift+left", "shift+right":
		key := strings.TrimPrefix(msg.String(), "shift+")
		ed.Nudge(navKeys[key], strings.HasPrefix(msg.String(), "shift+"), false)
	case "u":
		if !ed.Undo() {
			m.note("Nothing to undo")
		}
	case "r", "ctrl+r":
		if !ed.Redo() {
			m.note("Nothing to redo")
		}
	case "+", "=":
		ed.ZoomIn()
	case "-":
		ed.ZoomOut()
	case "0":
		ed.ResetView()
	case "l":
		ed.SetLocked(!ed.Locked())
		if ed.Locked() {
			m.note("Layout locked; click a slot to retake")
		} else {
			m.note("Layout unlocked")
		}
	case "a":
		if i := ed.AddSlot(); i >= 0 {
			m.note("Added slot %d", i+1)
		}
	case "x", "delete", "backspace":
		if !ed.DeleteSelected() {
			m.note("Nothing to delete")
		}
	case "t":
		ed.AddTextElement()
		m.note("Added title and caption")
	case "tab":
		if n := len(ed.Slots()); n > 0 {
			ed.SelectSlot((ed.Selection().Slot + 1) % n)
		}
	case "s":
		id, err := ed.SaveTemplate(m.ctx, m.name)
		if err != nil {
			m.fail(err)
		} else {
			m.note("Saved %s", id)
		}
	case "e":
		m.note("Exporting...")
		return m, m.exportCmd()
	}
	return m, nil
}

var navKeys = map[string]interact.Key{
	"up":    interact.KeyUp,
	"down":  interact.KeyDown,
	"left":  interact.KeyLeft,
	"right": interact.KeyRight,
}

// updateRetake collects a photo path for the slot clicked while locked.
func (m EditModel) updateRetake(msg tea.KeyMsg) EditModel {
	switch msg.Type {
	case tea.KeyEsc:
		m.retake, m.input = -1, ""
		m.note("Retake cancelled")
	case tea.KeyEnter:
		ref, err := localRef(m.root, strings.TrimSpace(m.input))
		if err == nil {
			m.ed.SetPhoto(m.retake, ref)
			m.note("Slot %d retaken", m.retake+1)
		} else {
			m.fail(err)
		}
		m.retake, m.input = -1, ""
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			r := []rune(m.input)
			m.input = string(r[:len(r)-1])
		}
	case tea.KeyRunes, tea.KeySpace:
		m.input += string(msg.Runes)
	}
	return m
}

func (m *EditModel) updateMouse(msg tea.MouseMsg) {
	p := screenPoint(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		btn, ok := mouseButtons[msg.Button]
		if !ok {
			return
		}
		v := m.ed.View()
		ev := m.ed.HitTest(v.ScreenToCanvas(p, geometry.Point{}), cellPx/v.Scale)
		ev.Pos, ev.Button = p, btn
		m.ed.PointerDown(ev)
	case tea.MouseActionMotion:
		m.ed.PointerMove(p)
	case tea.MouseActionRelease:
		if res := m.ed.PointerUp(); res.Retake >= 0 {
			m.retake, m.input = res.Retake, ""
			m.note("Slot %d: type a photo path, enter to place", res.Retake+1)
		}
	}
}

var mouseButtons = map[tea.MouseButton]interact.Button{
	tea.MouseButtonLeft:   interact.ButtonPrimary,
	tea.MouseButtonMiddle: interact.ButtonMiddle,
	tea.MouseButtonRight:  interact.ButtonSecondary,
}

// screenPoint maps a terminal cell to the screen point at its center.
func screenPoint(x, y int) geometry.Point {
	return geometry.Point{
		X: float64(x-gridLeft)*cellPx + cellPx/2,
		Y: float64(y-gridTop)*rowPx + rowPx/2,
	}
}

func (m EditModel) exportCmd() tea.Cmd {
	ctx, ed, opts := m.ctx, m.ed, m.export
	return func() tea.Msg {
		res, err := ed.Export(ctx, opts)
		if err != nil {
			return exportDoneMsg{err: err}
		}
		var paths []string
		for _, format := range opts.Formats {
			path := outputPath("", format, len(opts.Formats) > 1)
			if err := os.WriteFile(path, res.Artifacts[format], 0o644); err != nil {
				return exportDoneMsg{paths: paths, err: err}
			}
			paths = append(paths, path)
		}
		return exportDoneMsg{paths: paths}
	}
}

func (m *EditModel) note(format string, args ...any) {
	m.message, m.failed = fmt.Sprintf(format, args...), false
}

func (m *EditModel) fail(err error) {
	m.message, m.failed = err.Error(), true
}

// =============================================================================
// View
// =============================================================================

func (m EditModel) View() string {
	title := StyleTitle.Render("photostrip") + StyleDim.Render(" · "+m.name)
	grid := gridBorderStyle.Render(m.renderGrid())
	body := lipgloss.JoinHorizontal(lipgloss.Top, grid, m.renderStatus())
	return title + "\n" + body + "\n" + m.renderHelp()
}

// gridSize returns the number of cells needed to show the canvas, bounded
// by the terminal.
func (m EditModel) gridSize(v geometry.View) (cols, rows int) {
	cols = int(math.Ceil((strip.CanvasWidth*v.Scale + v.Pan.X) / cellPx))
	rows = int(math.Ceil((m.ed.CanvasHeight()*v.Scale + v.Pan.Y) / rowPx))
	cols = min(max(cols, 1), max(m.width-statusWidth-2, 1))
	rows = min(max(rows, 1), max(m.height-gridTop-3, 1))
	return cols, rows
}

func (m EditModel) renderGrid() string {
	v := m.ed.View()
	slots := m.ed.EffectiveSlots()
	elements := m.ed.Elements()
	photos := m.ed.Photos()
	sel := m.ed.Selection()
	height := m.ed.CanvasHeight()

	var handles []geometry.Rect
	if sel.HasSlot() && sel.Slot < len(slots) && !m.ed.Locked() {
		r := slots[sel.Slot].Rect()
		tol := cellPx / v.Scale
		for _, c := range []geometry.Point{{X: r.X, Y: r.Y}, {X: r.Right(), Y: r.Y}, {X: r.X, Y: r.Bottom()}, {X: r.Right(), Y: r.Bottom()}} {
			handles = append(handles, geometry.Rect{X: c.X - tol/2, Y: c.Y - tol/2, W: tol, H: tol})
		}
	}

	cols, rows := m.gridSize(v)
	var b strings.Builder
	for row := 0; row < rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		for col := 0; col < cols; col++ {
			p := v.ScreenToCanvas(screenPoint(col+gridLeft, row+gridTop), geometry.Point{})
			b.WriteString(m.cell(p, height, slots, photos, elements, sel, handles))
		}
	}
	return b.String()
}

// cell picks the glyph for canvas point p, topmost layer first.
func (m EditModel) cell(p geometry.Point, height float64, slots []strip.Slot, photos []string,
	elements []strip.Element, sel interact.Selection, handles []geometry.Rect) string {
	for _, h := range handles {
		if h.Contains(p) {
			return selectedStyle.Render("+")
		}
	}
	for i := len(elements) - 1; i >= 0; i-- {
		el := elements[i]
		if !editor.ElementBounds(el).Contains(p) {
			continue
		}
		glyph := "T"
		if el.Image != nil {
			glyph = "*"
		}
		if sel.Element == el.ID {
			return selectedStyle.Render(glyph)
		}
		return elementStyle.Render(glyph)
	}
	for i := len(slots) - 1; i >= 0; i-- {
		if !slots[i].Rect().Contains(p) {
			continue
		}
		style := slotStyle
		glyph := "░"
		if i < len(photos) && photos[i] != "" {
			style, glyph = slotFilledStyle, "▓"
		}
		if sel.Slot == i {
			style = selectedStyle
		}
		return style.Render(glyph)
	}
	if p.X >= 0 && p.X <= strip.CanvasWidth && p.Y >= 0 && p.Y <= height {
		return canvasStyle.Render("·")
	}
	return " "
}

func (m EditModel) renderStatus() string {
	ed := m.ed
	v := ed.View()
	sel := ed.Selection()

	selection := "none"
	switch {
	case sel.HasElement():
		selection = "element " + sel.Element
	case sel.HasSlot():
		selection = fmt.Sprintf("slot %d", sel.Slot+1)
		if sel.Slot < len(ed.Slots()) {
			s := ed.Slots()[sel.Slot]
			selection += StyleDim.Render(fmt.Sprintf(" %.0f,%.0f %.0f×%.0f", s.X, s.Y, s.W, s.H))
		}
	}
	filled := 0
	for _, p := range ed.Photos() {
		if p != "" {
			filled++
		}
	}
	lock := "off"
	if ed.Locked() {
		lock = StyleWarning.Render("on")
	}

	lines := []string{
		labelStyle.Render("mode") + ed.Mode().String(),
		labelStyle.Render("selected") + selection,
		labelStyle.Render("photos") + fmt.Sprintf("%d/%d", filled, ed.TotalSlots()),
		labelStyle.Render("locked") + lock,
		labelStyle.Render("zoom") + fmt.Sprintf("%.0f%%", v.Scale*100),
		labelStyle.Render("history") + fmt.Sprintf("%d", ed.HistoryLen()),
	}
	if m.retake >= 0 {
		lines = append(lines, "", StyleHighlight.Render(fmt.Sprintf("retake slot %d", m.retake+1)), "> "+m.input+"█")
	}
	if m.message != "" {
		style := StyleDim
		if m.failed {
			style = errorStyle
		}
		lines = append(lines, "", style.Width(statusWidth-2).Render(m.message))
	}
	return statusStyle.Render(strings.Join(lines, "\n"))
}

func (m EditModel) renderHelp() string {
	if m.retake >= 0 {
		return StyleDim.Render("enter place · esc cancel")
	}
	return StyleDim.Render("drag move/resize · arrows nudge · u/r undo/redo · +/-/0 zoom · l lock · a slot · t text · x delete · s save · e export · q quit")
}
