package editor

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/photostrip/pkg/errors"
	"github.com/matzehuels/photostrip/pkg/observability"
	"github.com/matzehuels/photostrip/pkg/strip"
	"github.com/matzehuels/photostrip/pkg/template"
)

// Record captures the current composition as a template record.
func (e *Editor) Record(name string) *strip.Record {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Record(name)
}

// ApplyRecord replaces the composition with rec. The change is undoable for
// slots and elements.
func (e *Editor) ApplyRecord(rec *strip.Record) error {
	var err error
	e.mutate(func() bool {
		if err = e.store.Apply(rec); err != nil {
			return false
		}
		e.machine.ClearSelection()
		if rec.Background.Mode == strip.BackgroundTemplate {
			e.recents.Push(strip.RecentTemplateImages, rec.Background.Value)
		}
		return true
	})
	return err
}

// SaveTemplate persists the composition under name and returns its id.
func (e *Editor) SaveTemplate(ctx context.Context, name string) (string, error) {
	if e.templates == nil {
		return "", errors.New(errors.ErrCodeUnsupported, "no template store configured")
	}
	start := time.Now()
	id, err := e.templates.Save(ctx, e.Record(name))
	observability.Store().OnPersist(ctx, "save", e.backend(), time.Since(start), err)
	if err != nil {
		return "", e.persistErr("save template", err)
	}
	e.logger.Info("saved template", "id", id, "name", name)
	return id, nil
}

// LoadTemplate loads and applies a stored template. On failure the
// composition is untouched.
func (e *Editor) LoadTemplate(ctx context.Context, id string) error {
	if e.templates == nil {
		return errors.New(errors.ErrCodeUnsupported, "no template store configured")
	}
	start := time.Now()
	rec, err := e.templates.Load(ctx, id)
	observability.Store().OnPersist(ctx, "load", e.backend(), time.Since(start), err)
	if err != nil {
		return e.persistErr("load template", err)
	}
	if err := e.ApplyRecord(rec); err != nil {
		return err
	}
	e.logger.Info("loaded template", "id", id, "name", rec.Name)
	return nil
}

// DeleteTemplate removes a stored template.
func (e *Editor) DeleteTemplate(ctx context.Context, id string) error {
	if e.templates == nil {
		return errors.New(errors.ErrCodeUnsupported, "no template store configured")
	}
	start := time.Now()
	err := e.templates.Delete(ctx, id)
	observability.Store().OnPersist(ctx, "delete", e.backend(), time.Since(start), err)
	if err != nil {
		return e.persistErr("delete template", err)
	}
	return nil
}

// ListTemplates returns stored templates, newest first.
func (e *Editor) ListTemplates(ctx context.Context) ([]strip.Summary, error) {
	if e.templates == nil {
		return nil, errors.New(errors.ErrCodeUnsupported, "no template store configured")
	}
	list, err := e.templates.List(ctx)
	if err != nil {
		return nil, e.persistErr("list templates", err)
	}
	return list, nil
}

// persistErr logs a store failure and makes sure it carries a code.
// Missing templates keep TEMPLATE_NOT_FOUND.
func (e *Editor) persistErr(op string, err error) error {
	e.logger.Warn(op+" failed", "error", err)
	if template.IsNotFound(err) || errors.GetCode(err) != "" {
		return err
	}
	return errors.Wrap(errors.ErrCodePersistence, err, "%s", op)
}

func (e *Editor) backend() string { return fmt.Sprintf("%T", e.templates) }
