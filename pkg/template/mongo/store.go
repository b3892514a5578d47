// Package mongo provides a MongoDB-backed template store.
package mongo

import (
	"context"
	stderrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/photostrip/pkg/errors"
	"github.com/matzehuels/photostrip/pkg/strip"
	"github.com/matzehuels/photostrip/pkg/template"
)

// DefaultCollection is the collection used when Config.Collection is empty.
const DefaultCollection = "templates"

// Config holds connection settings.
type Config struct {
	URI        string
	Database   string
	Collection string
}

// document stores the record as JSON next to the fields needed for listing.
type document struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Slots     int       `bson:"slots"`
	CreatedAt time.Time `bson:"created_at"`
	Data      []byte    `bson:"data,omitempty"`
}

// Store keeps one document per template.
type Store struct {
	client *mongodrv.Client
	coll   *mongodrv.Collection
}

// NewStore connects to cfg.URI and verifies the connection.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	client, err := mongodrv.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePersistence, err, "connect mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodePersistence, err, "ping mongo")
	}
	name := cfg.Collection
	if name == "" {
		name = DefaultCollection
	}
	return &Store{client: client, coll: client.Database(cfg.Database).Collection(name)}, nil
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
	doc := document{ID: out.ID, Name: out.Name, Slots: len(out.Slots), CreatedAt: out.CreatedAt, Data: data}
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": out.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodePersistence, err, "save template %s", out.ID)
	}
	return out.ID, nil
}

func (s *Store) Load(ctx context.Context, id string) (*strip.Record, error) {
	var doc document
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if stderrors.Is(err, mongodrv.ErrNoDocuments) {
		return nil, template.NotFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePersistence, err, "load template %s", id)
	}
	return template.Decode(doc.Data)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return errors.Wrap(errors.ErrCodePersistence, err, "delete template %s", id)
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]strip.Summary, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetProjection(bson.M{"data": 0})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePersistence, err, "list templates")
	}
	var docs []document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(errors.ErrCodePersistence, err, "list templates")
	}
	out := make([]strip.Summary, 0, len(docs))
	for _, d := range docs {
		out = append(out, strip.Summary{ID: d.ID, Name: d.Name, Slots: d.Slots, CreatedAt: d.CreatedAt.UTC()})
	}
	return out, nil
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ template.Store = (*Store)(nil)
