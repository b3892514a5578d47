package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/matzehuels/photostrip/pkg/template"
	"github.com/matzehuels/photostrip/pkg/template/storetest"
)

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) template.Store {
		s, err := NewStore(context.Background(), ":memory:")
		if err != nil {
			t.Fatalf("NewStore: %v", err)
		}
		t.Cleanup(func() { s.Close() })
		return s
	})
}

func TestStorePersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "templates.db")

	s, err := NewStore(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	id, err := s.Save(ctx, storetest.Record("durable"))
	if err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = NewStore(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	rec, err := s.Load(ctx, id)
	if err != nil {
		t.Fatalf("Load after reopen: %v", err)
	}
	if rec.Name != "durable" {
		t.Errorf("Name = %q, want durable", rec.Name)
	}
}
