// Package memory provides an in-process template store.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/photostrip/pkg/strip"
	"github.com/matzehuels/photostrip/pkg/template"
)

// Store keeps records in a map. Records are copied on the way in and out.
type Store struct {
	mu      sync.RWMutex
	records map[string]*strip.Record
	now     func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{records: make(map[string]*strip.Record), now: time.Now}
}

func (s *Store) Save(_ context.Context, rec *strip.Record) (string, error) {
	out, err := template.Prepare(rec, s.now())
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[out.ID] = out
	return out.ID, nil
}

func (s *Store) Load(_ context.Context, id string) (*strip.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, template.NotFound(id)
	}
	return rec.Clone(), nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
	return nil
}

func (s *Store) List(_ context.Context) ([]strip.Summary, error) {
	s.mu.RLock()
	out := make([]strip.Summary, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec.Summarize())
	}
	s.mu.RUnlock()
	template.SortSummaries(out)
	return out, nil
}

func (s *Store) Close() error { return nil }

var _ template.Store = (*Store)(nil)
