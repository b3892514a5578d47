package editor

import (
	"context"
	"image"
	"time"

	"github.com/matzehuels/photostrip/pkg/errors"
	"github.com/matzehuels/photostrip/pkg/gallery"
	"github.com/matzehuels/photostrip/pkg/pipeline"
	"github.com/matzehuels/photostrip/pkg/render"
	"github.com/matzehuels/photostrip/pkg/strip"
)

// Scene returns a deep snapshot of what the strip looks like now. Preview
// scenes carry the selection for highlighting.
func (e *Editor) Scene(preview bool) *render.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sceneLocked(preview)
}

func (e *Editor) sceneLocked(preview bool) *render.Scene {
	s := &render.Scene{
		Height:       e.store.CanvasHeight(),
		Background:   e.store.Background(),
		Design:       strip.DesignByID(e.store.Design()),
		Radius:       e.store.Params().CornerRadius,
		Slots:        e.store.EffectiveSlots(),
		Photos:       append([]string(nil), e.photos...),
		Elements:     e.store.Elements(),
		SelectedSlot: -1,
	}
	if preview {
		sel := e.machine.Selection()
		s.SelectedSlot, s.SelectedElement = sel.Slot, sel.Element
	}
	return s
}

// Export renders the strip at export resolution. The view is neutralized
// for the duration and restored on every path, including errors.
func (e *Editor) Export(ctx context.Context, opts pipeline.Options) (*pipeline.Result, error) {
	restore := e.view.Neutralize()
	e.emit(kinds(EventView)...)
	defer func() {
		restore()
		e.emit(kinds(EventView)...)
	}()

	scene := e.Scene(false)
	if opts.Oversample == 0 {
		opts.Oversample = e.oversample
	}
	if opts.Quality == 0 {
		opts.Quality = e.quality
	}
	opts.Logger = e.logger
	opts.Resolver = e.resolver

	res, err := e.runner.Export(ctx, scene, opts)
	if err != nil {
		e.logger.Error("export failed", "error", err)
		return nil, err
	}
	return res, nil
}

// Preview draws the strip at the current zoom with selection highlights.
func (e *Editor) Preview(ctx context.Context) (image.Image, error) {
	v := e.view.Get()
	return render.Raster(ctx, e.Scene(true),
		render.WithScale(v.Scale),
		render.WithOversample(1),
		render.WithResolver(e.resolver),
		render.WithPreview())
}

// Archive exports each format and delivers it to the gallery, returning
// the stored locations.
func (e *Editor) Archive(ctx context.Context, opts pipeline.Options) ([]string, error) {
	if e.gallery == nil {
		return nil, errors.New(errors.ErrCodeUnsupported, "no gallery configured")
	}
	res, err := e.Export(ctx, opts)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	locs := make([]string, 0, len(res.Artifacts))
	for _, format := range opts.Formats {
		format = pipeline.NormalizeFormat(format)
		data, ok := res.Artifacts[format]
		if !ok {
			continue
		}
		loc, err := e.gallery.Deliver(ctx, gallery.Artifact{Format: format, Data: data, CreatedAt: now})
		if err != nil {
			e.logger.Warn("gallery delivery failed", "format", format, "error", err)
			return locs, err
		}
		e.logger.Info("archived strip", "location", loc)
		locs = append(locs, loc)
	}
	return locs, nil
}
