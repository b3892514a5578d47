package editor

import (
	"context"

	"github.com/matzehuels/photostrip/pkg/errors"
	"github.com/matzehuels/photostrip/pkg/imagesrc"
	"github.com/matzehuels/photostrip/pkg/layout"
	"github.com/matzehuels/photostrip/pkg/strip"
)

// =============================================================================
// Slots
// =============================================================================

// AddSlot appends a slot, selects it and returns its index.
func (e *Editor) AddSlot() int {
	idx := -1
	e.mutate(func() bool {
		idx = e.store.AddSlot()
		e.machine.SelectSlot(idx)
		return true
	})
	return idx
}

// RemoveSlot deletes the slot at index i along with its photo. Without a
// template the frames are derived from the photo count, so it does nothing
// and returns false.
func (e *Editor) RemoveSlot(i int) bool {
	return e.mutate(func() bool { return e.removeSlot(i) })
}

func (e *Editor) removeSlot(i int) bool {
	if !e.store.TemplateActive() || !e.store.RemoveSlot(i) {
		return false
	}
	if i < len(e.photos) {
		e.photos = append(e.photos[:i:i], e.photos[i+1:]...)
	}
	return true
}

// UpdateSlot patches the slot at index i.
func (e *Editor) UpdateSlot(i int, p layout.SlotPatch) bool {
	return e.mutate(func() bool { return e.store.UpdateSlot(i, p) })
}

// ApplyToAll copies fields from slot src to every slot.
func (e *Editor) ApplyToAll(src int, fields layout.Fields) bool {
	return e.mutate(func() bool { return e.store.ApplyToAll(src, fields) })
}

// ConfirmLayout arranges n slots to fit the template image's aspect ratio.
// It needs an active template.
func (e *Editor) ConfirmLayout(ctx context.Context, n int) error {
	bg := e.Background()
	if !bg.IsTemplate() {
		return errors.New(errors.ErrCodeInvalidInput, "confirm layout needs a template background")
	}
	size, err := imagesrc.Size(ctx, e.resolver, bg.Value)
	if err != nil {
		return err
	}
	e.mutate(func() bool {
		// the template may have changed while the image loaded
		if e.store.Background() != bg {
			return false
		}
		if !e.store.ConfirmLayout(n, size) {
			return false
		}
		e.machine.ClearSelection()
		return true
	})
	e.logger.Debug("confirmed layout", "slots", n, "template", size)
	return nil
}

// =============================================================================
// Elements
// =============================================================================

// AddTextElement adds the conventional title and caption pair.
func (e *Editor) AddTextElement() (titleID, captionID string) {
	e.mutate(func() bool {
		titleID, captionID = e.store.AddTextElement()
		e.machine.SelectElement(titleID)
		return true
	})
	return titleID, captionID
}

// AddSticker resolves src for its aspect ratio and adds it centered.
func (e *Editor) AddSticker(ctx context.Context, src string) (string, error) {
	size, err := imagesrc.Size(ctx, e.resolver, src)
	if err != nil {
		return "", err
	}
	var id string
	e.mutate(func() bool {
		var ok bool
		id, ok = e.store.AddImageElement(src, size.Aspect())
		if ok {
			e.machine.SelectElement(id)
		}
		return ok
	})
	if id == "" {
		return "", errors.New(errors.ErrCodeInvalidElement, "sticker %s has no usable size", src)
	}
	return id, nil
}

// InsertElement adds a fully specified element.
func (e *Editor) InsertElement(el strip.Element) error {
	var err error
	e.mutate(func() bool {
		err = e.store.InsertElement(el)
		return err == nil
	})
	return err
}

// UpdateElement patches an element.
func (e *Editor) UpdateElement(id string, p layout.ElementPatch) bool {
	return e.mutate(func() bool { return e.store.UpdateElement(id, p) })
}

// DeleteElement removes an element.
func (e *Editor) DeleteElement(id string) bool {
	return e.mutate(func() bool { return e.store.DeleteElement(id) })
}

// DeleteSelected removes the selected element, or the selected slot while
// a template drives the layout.
func (e *Editor) DeleteSelected() bool {
	return e.mutate(func() bool {
		sel := e.machine.Selection()
		switch {
		case sel.HasElement():
			return e.store.DeleteElement(sel.Element)
		case sel.HasSlot():
			return e.removeSlot(sel.Slot)
		}
		return false
	})
}

// =============================================================================
// Composition parameters
// =============================================================================

// SetBackground switches the background and records it in recents.
func (e *Editor) SetBackground(bg strip.Background) error {
	var err error
	e.mutate(func() bool {
		if err = e.store.SetBackground(bg); err != nil {
			return false
		}
		switch bg.Mode {
		case strip.BackgroundColor:
			e.recents.Push(strip.RecentColors, bg.Value)
		case strip.BackgroundImage:
			e.recents.Push(strip.RecentBackgrounds, bg.Value)
		case strip.BackgroundTemplate:
			e.recents.Push(strip.RecentTemplateImages, bg.Value)
		}
		return true
	})
	return err
}

// SetParams replaces padding, gap, radius and canvas height.
func (e *Editor) SetParams(p strip.Params) {
	e.mutate(func() bool {
		e.store.SetParams(p)
		return true
	})
}

// SetLocked toggles the template lock. Locking ends any selection of slots.
func (e *Editor) SetLocked(locked bool) {
	e.mutate(func() bool {
		e.store.SetLocked(locked)
		if locked && e.machine.Selection().HasSlot() {
			e.machine.ClearSelection()
		}
		return true
	})
}

// SetPhotoCount sets the flat-mode photo count.
func (e *Editor) SetPhotoCount(n int) {
	e.mutate(func() bool {
		e.store.SetPhotoCount(n)
		return true
	})
}

// SetDesign selects a design preset.
func (e *Editor) SetDesign(id string) {
	e.mutate(func() bool {
		e.store.SetDesign(id)
		return true
	})
}
