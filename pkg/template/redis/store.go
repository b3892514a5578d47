// Package redis provides a Redis-backed template store for shared API
// deployments.
package redis

import (
	"context"
	stderrors "errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/matzehuels/photostrip/pkg/errors"
	"github.com/matzehuels/photostrip/pkg/strip"
	"github.com/matzehuels/photostrip/pkg/template"
)

// DefaultKey is the hash holding all records.
const DefaultKey = "photostrip:templates"

// Config holds connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

// Store keeps every record as a JSON field of one Redis hash.
type Store struct {
	client goredis.UniversalClient
	key    string
}

// NewStore connects and verifies the connection.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(errors.ErrCodePersistence, err, "connect redis %s", cfg.Addr)
	}
	return NewStoreFromClient(client, cfg.Key), nil
}

// NewStoreFromClient wraps an existing client. An empty key uses DefaultKey.
func NewStoreFromClient(client goredis.UniversalClient, key string) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{client: client, key: key}
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
	if err := s.client.HSet(ctx, s.key, out.ID, data).Err(); err != nil {
		return "", errors.Wrap(errors.ErrCodePersistence, err, "save template %s", out.ID)
	}
	return out.ID, nil
}

func (s *Store) Load(ctx context.Context, id string) (*strip.Record, error) {
	data, err := s.client.HGet(ctx, s.key, id).Bytes()
	if stderrors.Is(err, goredis.Nil) {
		return nil, template.NotFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePersistence, err, "load template %s", id)
	}
	return template.Decode(data)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.client.HDel(ctx, s.key, id).Err(); err != nil {
		return errors.Wrap(errors.ErrCodePersistence, err, "delete template %s", id)
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]strip.Summary, error) {
	all, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePersistence, err, "list templates")
	}
	out := make([]strip.Summary, 0, len(all))
	for _, raw := range all {
		rec, err := template.Decode([]byte(raw))
		if err != nil {
			continue
		}
		out = append(out, rec.Summarize())
	}
	template.SortSummaries(out)
	return out, nil
}

func (s *Store) Close() error { return s.client.Close() }

var _ template.Store = (*Store)(nil)
