// Package file provides a JSON-file template store for the CLI.
package file

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/photostrip/pkg/errors"
	"github.com/matzehuels/photostrip/pkg/strip"
	"github.com/matzehuels/photostrip/pkg/template"
)

// Store keeps one JSON file per template in a directory.
type Store struct {
	mu      sync.RWMutex
	baseDir string
}

// NewStore creates a file-based store.
// If baseDir is empty, defaults to ~/.config/photostrip/templates/
func NewStore(baseDir string) (*Store, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodePersistence, err, "get home dir")
		}
		baseDir = filepath.Join(home, ".config", "photostrip", "templates")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, errors.Wrap(errors.ErrCodePersistence, err, "create template dir")
	}
	return &Store{baseDir: baseDir}, nil
}

// Dir returns the storage directory.
func (s *Store) Dir() string { return s.baseDir }

func (s *Store) path(id string) (string, error) {
	if err := errors.ValidateID(id); err != nil {
		return "", err
	}
	return filepath.Join(s.baseDir, id+".json"), nil
}

func (s *Store) Save(_ context.Context, rec *strip.Record) (string, error) {
	out, err := template.Prepare(rec, time.Now())
	if err != nil {
		return "", err
	}
	data, err := template.Encode(out)
	if err != nil {
		return "", err
	}
	path, err := s.path(out.ID)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return "", errors.Wrap(errors.ErrCodePersistence, err, "write template file")
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", errors.Wrap(errors.ErrCodePersistence, err, "write template file")
	}
	return out.ID, nil
}

func (s *Store) Load(_ context.Context, id string) (*strip.Record, error) {
	path, err := s.path(id)
	if err != nil {
		return nil, template.NotFound(id)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, template.NotFound(id)
		}
		return nil, errors.Wrap(errors.ErrCodePersistence, err, "read template file")
	}
	return template.Decode(data)
}

func (s *Store) Delete(_ context.Context, id string) error {
	path, err := s.path(id)
	if err != nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodePersistence, err, "delete template file")
	}
	return nil
}

// List skips files that fail to parse.
func (s *Store) List(_ context.Context) ([]strip.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePersistence, err, "read template dir")
	}
	out := make([]strip.Summary, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, e.Name()))
		if err != nil {
			continue
		}
		rec, err := template.Decode(data)
		if err != nil {
			continue
		}
		out = append(out, rec.Summarize())
	}
	template.SortSummaries(out)
	return out, nil
}

func (s *Store) Close() error { return nil }

var _ template.Store = (*Store)(nil)
