package render

import (
	"strconv"
	"strings"

	"golang.org/x/image/font"

	"github.com/matzehuels/photostrip/pkg/errors"
	"github.com/matzehuels/photostrip/pkg/fonts"
	"github.com/matzehuels/photostrip/pkg/strip"
)

// LineHeight is the text line pitch as a multiple of the font size.
const LineHeight = 1.2

// TextBlock is the measured layout of a text element in canvas units.
type TextBlock struct {
	Lines  []string
	Widths []float64
	Width  float64
	Height float64
}

// MeasureText lays out a text payload at scale k. Widths include letter spacing.
func MeasureText(t *strip.TextPayload, k float64) (TextBlock, error) {
	face, err := fonts.Face(t.Family, t.Weight, t.Size*k)
	if err != nil {
		return TextBlock{}, err
	}
	spacing := t.Tracking.Em() * t.Size * k

	unlock := fonts.Lock()
	defer unlock()
	b := TextBlock{Lines: strings.Split(t.Content, "\n")}
	for _, line := range b.Lines {
		w := lineWidth(face, line, spacing)
		b.Widths = append(b.Widths, w)
		if w > b.Width {
			b.Width = w
		}
	}
	b.Height = float64(len(b.Lines)) * t.Size * k * LineHeight
	return b, nil
}

func lineWidth(face font.Face, line string, spacing float64) float64 {
	var w float64
	n := 0
	for _, c := range line {
		adv, _ := face.GlyphAdvance(c)
		w += float64(adv) / 64
		n++
	}
	if n > 1 {
		w += spacing * float64(n-1)
	}
	return w
}

func (r *rasterizer) text(e strip.Element) error {
	t := e.Text
	k := r.k
	face, err := fonts.Face(t.Family, t.Weight, t.Size*k)
	if err != nil {
		return errors.Wrap(errors.ErrCodeRenderFailed, err, "text element %s", e.ID)
	}
	block, err := MeasureText(t, k)
	if err != nil {
		return errors.Wrap(errors.ErrCodeRenderFailed, err, "text element %s", e.ID)
	}
	c, err := strip.ParseColor(t.Color)
	if err != nil {
		c, _ = strip.ParseColor(r.scene.Design.Text)
	}

	x, y := e.X*k, e.Y*k
	spacing := t.Tracking.Em() * t.Size * k
	pitch := t.Size * k * LineHeight
	ascent := float64(face.Metrics().Ascent) / 64
	// center the glyph box inside each line's pitch
	lead := (pitch - float64(face.Metrics().Height)/64) / 2

	unlock := fonts.Lock()
	defer unlock()

	r.dc.Push()
	defer r.dc.Pop()
	r.rotateAbout(e.Rotation, x+block.Width/2, y+block.Height/2)
	r.dc.SetFontFace(face)
	r.dc.SetColor(c)
	for i, line := range block.Lines {
		baseline := y + float64(i)*pitch + lead + ascent
		cx := x
		for _, ch := range line {
			s := string(ch)
			r.dc.DrawString(s, cx, baseline)
			adv, _ := face.GlyphAdvance(ch)
			cx += float64(adv)/64 + spacing
		}
	}
	r.selection(e, x, y, block.Width, block.Height)
	return nil
}

func (r *rasterizer) slotLabel(n int, cx, cy float64) error {
	face, err := fonts.Face(fonts.Sans, 700, 16*r.k)
	if err != nil {
		return err
	}
	unlock := fonts.Lock()
	defer unlock()
	r.dc.SetFontFace(face)
	r.dc.SetColor(placeholderLabel)
	r.dc.DrawStringAnchored(strconv.Itoa(n), cx, cy, 0.5, 0.35)
	return nil
}
