package render

import (
	"context"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/matzehuels/photostrip/pkg/errors"
	"github.com/matzehuels/photostrip/pkg/imagesrc"
	"github.com/matzehuels/photostrip/pkg/strip"
)

func solid(w, h int, c color.Color) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func testScene() *Scene {
	return &Scene{
		Height:       640,
		Background:   strip.Background{Mode: strip.BackgroundColor, Value: "#ff0000"},
		Design:       strip.Designs[0],
		Slots:        strip.DefaultSlots(),
		SelectedSlot: -1,
	}
}

func rgbaAt(img image.Image, x, y int) color.RGBA {
	r, g, b, a := img.At(x, y).RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
}

func TestRasterExportSize(t *testing.T) {
	img, err := Raster(context.Background(), testScene())
	if err != nil {
		t.Fatalf("Raster: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 720 || b.Dy() != 1920 {
		t.Errorf("size = %dx%d, want 720x1920", b.Dx(), b.Dy())
	}
}

func TestRasterPreviewScale(t *testing.T) {
	img, err := Raster(context.Background(), testScene(), WithScale(0.5), WithOversample(1), WithPreview())
	if err != nil {
		t.Fatalf("Raster: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 120 || b.Dy() != 320 {
		t.Errorf("size = %dx%d, want 120x320", b.Dx(), b.Dy())
	}
}

func TestRasterBackgroundColor(t *testing.T) {
	img, err := Raster(context.Background(), testScene(), WithOversample(1))
	if err != nil {
		t.Fatalf("Raster: %v", err)
	}
	// top padding above the first slot
	if got := rgbaAt(img, 5, 5); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("background = %v, want red", got)
	}
}

func TestRasterDesignFallback(t *testing.T) {
	s := testScene()
	s.Background = strip.Background{Mode: strip.BackgroundColor}
	img, err := Raster(context.Background(), s, WithOversample(1))
	if err != nil {
		t.Fatalf("Raster: %v", err)
	}
	want := color.RGBA{R: 0x00, G: 0x5f, B: 0x73, A: 255}
	if got := rgbaAt(img, 5, 5); got != want {
		t.Errorf("background = %v, want %v", got, want)
	}
}

func TestRasterPhotoFillsSlot(t *testing.T) {
	mem := imagesrc.NewMemory()
	ref := mem.Put("blue", solid(40, 10, color.NRGBA{B: 255, A: 255}))

	s := testScene()
	s.Photos = []string{ref}
	img, err := Raster(context.Background(), s, WithOversample(1), WithResolver(mem))
	if err != nil {
		t.Fatalf("Raster: %v", err)
	}
	sl := s.Slots[0]
	if got := rgbaAt(img, int(sl.X+sl.W/2), int(sl.Y+sl.H/2)); got.B < 250 || got.R > 5 {
		t.Errorf("slot center = %v, want blue", got)
	}
	// second slot has no photo and shows the translucent placeholder over red
	sl = s.Slots[1]
	if got := rgbaAt(img, int(sl.X+5), int(sl.Y+sl.H-5)); got.R != 255 || got.G == 0 {
		t.Errorf("placeholder = %v, want lightened red", got)
	}
}

func TestRasterMissingImage(t *testing.T) {
	s := testScene()
	s.Photos = []string{"mem:nope"}
	_, err := Raster(context.Background(), s, WithResolver(imagesrc.NewMemory()))
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, errors.ErrCodeRenderFailed) {
		t.Errorf("code = %v, want RENDER_FAILED", errors.GetCode(err))
	}
}

func TestRasterElements(t *testing.T) {
	mem := imagesrc.NewMemory()
	ref := mem.Put("sticker", solid(10, 10, color.NRGBA{G: 255, A: 255}))

	s := testScene()
	s.Slots = nil
	sticker := strip.NewImage("s1", ref, 40, 1)
	sticker.X, sticker.Y = 100, 300
	sticker.Rotation = 45
	title := strip.NewText("t1", "Hello\nWorld", 24, 700)
	title.X, title.Y = 20, 20
	title.Text.Tracking = strip.TrackingWide
	s.Elements = []strip.Element{sticker, title}

	img, err := Raster(context.Background(), s, WithOversample(1), WithResolver(mem))
	if err != nil {
		t.Fatalf("Raster: %v", err)
	}
	if got := rgbaAt(img, 120, 320); got.G < 250 {
		t.Errorf("sticker center = %v, want green", got)
	}
}

func TestRasterCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Raster(ctx, testScene()); err == nil {
		t.Error("expected context error")
	}
}

func TestRasterInvalidHeight(t *testing.T) {
	s := testScene()
	s.Height = 0
	if _, err := Raster(context.Background(), s); err == nil {
		t.Error("expected error for zero height")
	}
}

func TestRasterTooLarge(t *testing.T) {
	tests := []struct {
		name string
		edit func(*Scene)
		opts []Option
	}{
		{"huge height", func(s *Scene) { s.Height = 1e9 }, nil},
		{"huge oversample", func(*Scene) {}, []Option{WithOversample(1e6)}},
		{"nan height", func(s *Scene) { s.Height = math.NaN() }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testScene()
			tt.edit(s)
			if _, err := Raster(context.Background(), s, tt.opts...); err == nil {
				t.Error("expected an error instead of an oversized raster")
			}
		})
	}
}

func TestSceneRefs(t *testing.T) {
	s := testScene()
	s.Background = strip.Background{Mode: strip.BackgroundTemplate, Value: "frame.png"}
	s.Photos = []string{"a.png", "", "a.png"}
	s.Elements = []strip.Element{strip.NewImage("e1", "sticker.png", 40, 1), strip.NewText("e2", "hi", 12, 400)}

	got := s.Refs()
	want := []string{"frame.png", "a.png", "sticker.png"}
	if len(got) != len(want) {
		t.Fatalf("Refs() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Refs()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestMeasureText(t *testing.T) {
	p := &strip.TextPayload{Content: "AB\nABCD", Family: "sans", Size: 20, Weight: 400}
	b, err := MeasureText(p, 1)
	if err != nil {
		t.Fatalf("MeasureText: %v", err)
	}
	if len(b.Lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(b.Lines))
	}
	if b.Widths[1] <= b.Widths[0] {
		t.Errorf("wider line measured %v <= %v", b.Widths[1], b.Widths[0])
	}
	if want := 2 * 20 * LineHeight; b.Height != want {
		t.Errorf("height = %v, want %v", b.Height, want)
	}

	p.Tracking = strip.TrackingWidest
	wide, _ := MeasureText(p, 1)
	if wide.Width <= b.Width {
		t.Errorf("tracking should widen text: %v <= %v", wide.Width, b.Width)
	}
}

func TestSceneHashIgnoresSelection(t *testing.T) {
	a := testScene()
	b := a.Clone()
	b.SelectedSlot = 2
	b.SelectedElement = "x"
	ha, _ := a.Hash()
	hb, _ := b.Hash()
	if ha != hb {
		t.Error("selection changed the scene hash")
	}
	b.Slots[0].X++
	hb, _ = b.Hash()
	if ha == hb {
		t.Error("slot change did not change the scene hash")
	}
	if a.Slots[0].X == b.Slots[0].X {
		t.Error("Clone shared slot storage")
	}
}
