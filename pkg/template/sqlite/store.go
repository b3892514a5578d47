// Package sqlite provides a template store backed by a single SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	_ "modernc.org/sqlite"

	"github.com/matzehuels/photostrip/pkg/errors"
	"github.com/matzehuels/photostrip/pkg/strip"
	"github.com/matzehuels/photostrip/pkg/template"
)

const schema = `
CREATE TABLE IF NOT EXISTS templates (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	slots      INTEGER NOT NULL,
	data       BLOB NOT NULL,
	created_at INTEGER NOT NULL
);`

// Store keeps records in a templates table.
type Store struct {
	db *sql.DB
}

// NewStore opens dsn (a file path, or ":memory:") and creates the schema.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePersistence, err, "open sqlite %s", dsn)
	}
	// one connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, errors.Wrap(errors.ErrCodePersistence, err, "create templates table")
	}
	return &Store{db: db}, nil
}

func (s *Store) Save(ctx context.Context, rec *strip.Record) (string, error) {
	out, err := template.Prepare(rec, time.Now())
	if err != nil {
		return "", err
	}
	data, err := template.Encode(out)
	if err != nil {
		return "", err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO templates (id, name, slots, data, created_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, slots = excluded.slots, data = excluded.data`,
		out.ID, out.Name, len(out.Slots), data, out.CreatedAt.UnixNano())
	if err != nil {
		return "", errors.Wrap(errors.ErrCodePersistence, err, "save template %s", out.ID)
	}
	return out.ID, nil
}

func (s *Store) Load(ctx context.Context, id string) (*strip.Record, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, "SELECT data FROM templates WHERE id = ?", id).Scan(&data)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, template.NotFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePersistence, err, "load template %s", id)
	}
	return template.Decode(data)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM templates WHERE id = ?", id); err != nil {
		return errors.Wrap(errors.ErrCodePersistence, err, "delete template %s", id)
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]strip.Summary, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, slots, created_at FROM templates ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePersistence, err, "list templates")
	}
	defer rows.Close()

	var out []strip.Summary
	for rows.Next() {
		var sum strip.Summary
		var created int64
		if err := rows.Scan(&sum.ID, &sum.Name, &sum.Slots, &created); err != nil {
			return nil, errors.Wrap(errors.ErrCodePersistence, err, "scan template row")
		}
		sum.CreatedAt = time.Unix(0, created).UTC()
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodePersistence, err, "list templates")
	}
	return out, nil
}

func (s *Store) Close() error { return s.db.Close() }

var _ template.Store = (*Store)(nil)
