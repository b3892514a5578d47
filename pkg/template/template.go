// Package template persists named strip templates.
//
// A template is a [strip.Record]: background, spacing, slots and elements
// captured from the editor so a layout can be reused. This package defines
// the [Store] interface and the helpers shared by its backends:
//
//   - file: JSON files in a config directory (CLI default)
//   - memory: in-process map for tests and the API's ephemeral mode
//   - sqlite: a single database file via modernc.org/sqlite
//   - redis: shared storage for multi-instance API deployments
//   - mongo: document storage for hosted deployments
//
// # IDs
//
// Records saved without an ID get a ULID, so listings sort by creation
// time even when timestamps collide.
//
// # Usage
//
//	store, err := file.NewStore("")  // ~/.config/photostrip/templates/
//	id, err := store.Save(ctx, rec)
//	rec, err = store.Load(ctx, id)
//	if template.IsNotFound(err) {
//	    // no such template
//	}
package template

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/matzehuels/photostrip/pkg/errors"
	"github.com/matzehuels/photostrip/pkg/strip"
)

// Store persists template records.
type Store interface {
	// Save stores rec, assigning an ID and creation time when unset, and
	// returns the ID. Saving an existing ID replaces it.
	Save(ctx context.Context, rec *strip.Record) (string, error)
	// Load returns the record or a TEMPLATE_NOT_FOUND error.
	Load(ctx context.Context, id string) (*strip.Record, error)
	// Delete removes the record. Deleting a missing ID is not an error.
	Delete(ctx context.Context, id string) error
	// List returns summaries, newest first.
	List(ctx context.Context) ([]strip.Summary, error)
	Close() error
}

// NewID returns a fresh sortable template ID.
func NewID() string {
	return ulid.Make().String()
}

// NotFound returns the error backends use for a missing ID.
func NotFound(id string) error {
	return errors.New(errors.ErrCodeTemplateNotFound, "template %s not found", id)
}

// IsNotFound reports whether err means the template does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, errors.ErrCodeTemplateNotFound)
}

// Prepare validates rec and returns a copy with ID and CreatedAt filled.
func Prepare(rec *strip.Record, now time.Time) (*strip.Record, error) {
	if rec == nil {
		return nil, errors.New(errors.ErrCodeInvalidTemplate, "nil template")
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	out := rec.Clone()
	if out.ID == "" {
		out.ID = NewID()
	} else if err := errors.ValidateID(out.ID); err != nil {
		return nil, err
	}
	if out.CreatedAt.IsZero() {
		out.CreatedAt = now.UTC()
	}
	return out, nil
}

// Encode serializes a record for storage.
func Encode(rec *strip.Record) ([]byte, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePersistence, err, "encode template %s", rec.ID)
	}
	return data, nil
}

// Decode parses a stored record.
func Decode(data []byte) (*strip.Record, error) {
	var rec strip.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrap(errors.ErrCodePersistence, err, "decode template")
	}
	return &rec, nil
}

// SortSummaries orders summaries newest first, breaking ties by ID.
func SortSummaries(s []strip.Summary) {
	sort.SliceStable(s, func(i, j int) bool {
		if !s[i].CreatedAt.Equal(s[j].CreatedAt) {
			return s[i].CreatedAt.After(s[j].CreatedAt)
		}
		return s[i].ID > s[j].ID
	})
}
