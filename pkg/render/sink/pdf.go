package sink

import (
	"bytes"
	"fmt"
	"image"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/matzehuels/photostrip/pkg/buildinfo"
	"github.com/matzehuels/photostrip/pkg/errors"
)

// Print sheet geometry in millimetres.
const (
	StripWidthMM  = 50.8 // 2 in
	MarginMM      = 5
	DefaultCopies = 3
	MaxCopies     = 10
)

// PDFOption configures PDF rendering.
type PDFOption func(*pdfRenderer)

type pdfRenderer struct {
	copies  int
	title   string
	created time.Time
}

// WithCopies sets how many copies go on the sheet.
func WithCopies(n int) PDFOption {
	return func(r *pdfRenderer) {
		if n > 0 {
			r.copies = n
		}
	}
}

// WithTitle sets the document title metadata.
func WithTitle(title string) PDFOption {
	return func(r *pdfRenderer) { r.title = title }
}

// WithCreationDate fixes the document timestamps so identical input yields
// identical bytes.
func WithCreationDate(t time.Time) PDFOption {
	return func(r *pdfRenderer) { r.created = t }
}

// PageSize returns the sheet dimensions in millimetres for a strip of the
// given pixel size.
func PageSize(px image.Point, copies int) (w, h float64) {
	stripH := StripWidthMM * float64(px.Y) / float64(px.X)
	w = float64(copies)*StripWidthMM + float64(copies+1)*MarginMM
	h = stripH + 2*MarginMM
	return w, h
}

// RenderPDF lays out copies of img on a single page. The strip is embedded
// once as PNG and referenced by every copy.
func RenderPDF(img image.Image, opts ...PDFOption) ([]byte, error) {
	r := pdfRenderer{copies: DefaultCopies, title: "Photo strip"}
	for _, opt := range opts {
		opt(&r)
	}
	size := img.Bounds().Size()
	if size.X == 0 || size.Y == 0 {
		return nil, errors.New(errors.ErrCodeRenderFailed, "empty image")
	}
	data, err := RenderPNG(img)
	if err != nil {
		return nil, err
	}

	pageW, pageH := PageSize(size, r.copies)
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: pageW, Ht: pageH},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(r.title, true)
	pdf.SetCreator(buildinfo.UserAgent(), true)
	if !r.created.IsZero() {
		pdf.SetCreationDate(r.created)
		pdf.SetModificationDate(r.created)
	}
	pdf.AddPage()

	imgOpts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("strip", imgOpts, bytes.NewReader(data))
	stripH := pageH - 2*MarginMM
	for i := 0; i < r.copies; i++ {
		x := MarginMM + float64(i)*(StripWidthMM+MarginMM)
		pdf.ImageOptions("strip", x, MarginMM, StripWidthMM, stripH, false, imgOpts, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "write pdf")
	}
	return buf.Bytes(), nil
}

// Filename returns the download name for a format.
func Filename(format string) string {
	return fmt.Sprintf("photobooth-strip.%s", Ext(format))
}

// Ext maps a format name to its file extension.
func Ext(format string) string {
	if format == "jpeg" {
		return "jpg"
	}
	return format
}
