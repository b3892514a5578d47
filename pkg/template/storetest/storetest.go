// Package storetest runs the same behavioral checks against every
// template.Store backend.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/photostrip/pkg/errors"
	"github.com/matzehuels/photostrip/pkg/strip"
	"github.com/matzehuels/photostrip/pkg/template"
)

// Record returns a valid template with one slot of each size class and
// both element kinds.
func Record(name string) *strip.Record {
	title := strip.NewText("title", "Party", 24, 700)
	title.Role = strip.RoleTitle
	sticker := strip.NewImage("star", "data:image/png;base64,AAAA", 80, 1.25)
	sticker.Rotation = 15
	return &strip.Record{
		Name:       name,
		Background: strip.Background{Mode: strip.BackgroundTemplate, Value: "file:frame.png"},
		Params:     strip.DefaultParams(),
		Slots:      strip.DefaultSlots(),
		Elements:   []strip.Element{title, sticker},
		Design:     "rose-pink",
	}
}

// Run exercises newStore. Each subtest gets a fresh store.
func Run(t *testing.T, newStore func(t *testing.T) template.Store) {
	ctx := context.Background()

	t.Run("RoundTrip", func(t *testing.T) {
		s := newStore(t)
		rec := Record("round trip")
		id, err := s.Save(ctx, rec)
		require.NoError(t, err)
		assert.NotEmpty(t, id)
		assert.Empty(t, rec.ID, "Save must not mutate its argument")

		got, err := s.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, got.ID)
		assert.Equal(t, rec.Name, got.Name)
		assert.Equal(t, rec.Background, got.Background)
		assert.Equal(t, rec.Params, got.Params)
		assert.Equal(t, rec.Slots, got.Slots)
		assert.Equal(t, rec.Elements, got.Elements)
		assert.Equal(t, rec.Design, got.Design)
		assert.False(t, got.CreatedAt.IsZero())
	})

	t.Run("LoadMissing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Load(ctx, "01HZZZZZZZZZZZZZZZZZZZZZZZ")
		require.Error(t, err)
		assert.True(t, template.IsNotFound(err))
	})

	t.Run("Overwrite", func(t *testing.T) {
		s := newStore(t)
		id, err := s.Save(ctx, Record("first"))
		require.NoError(t, err)

		rec, err := s.Load(ctx, id)
		require.NoError(t, err)
		rec.Name = "second"
		rec.Slots = rec.Slots[:1]
		id2, err := s.Save(ctx, rec)
		require.NoError(t, err)
		assert.Equal(t, id, id2)

		list, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "second", list[0].Name)
		assert.Equal(t, 1, list[0].Slots)
	})

	t.Run("Delete", func(t *testing.T) {
		s := newStore(t)
		id, err := s.Save(ctx, Record("gone"))
		require.NoError(t, err)
		require.NoError(t, s.Delete(ctx, id))
		_, err = s.Load(ctx, id)
		assert.True(t, template.IsNotFound(err))
		assert.NoError(t, s.Delete(ctx, id), "deleting twice is not an error")
	})

	t.Run("ListNewestFirst", func(t *testing.T) {
		s := newStore(t)
		base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		for i, name := range []string{"old", "mid", "new"} {
			rec := Record(name)
			rec.CreatedAt = base.Add(time.Duration(i) * time.Hour)
			_, err := s.Save(ctx, rec)
			require.NoError(t, err)
		}
		list, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, []string{"new", "mid", "old"}, []string{list[0].Name, list[1].Name, list[2].Name})
	})

	t.Run("RejectsInvalid", func(t *testing.T) {
		s := newStore(t)
		rec := Record("bad")
		rec.Slots[0].W = 5
		_, err := s.Save(ctx, rec)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrCodeInvalidTemplate))

		list, err := s.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}
