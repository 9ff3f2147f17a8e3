// Package repository is the single surface through which handlers reach the
// document store.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mx-space/portfolio/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when a filter resolves to no document.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned when a write violates a unique index.
	ErrDuplicate = errors.New("duplicate key")
)

// FindOptions controls sorting and paging of Find.
type FindOptions struct {
	Sort  bson.D
	Skip  int64
	Limit int64
}

// Collection is a typed view of one document collection.
type Collection[T any] interface {
	Find(ctx context.Context, filter bson.M, opts FindOptions) ([]T, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
	FindOne(ctx context.Context, filter bson.M) (*T, error)
	InsertOne(ctx context.Context, doc *T) error
	ReplaceOne(ctx context.Context, doc *T) error
	FindOneAndUpdate(ctx context.Context, filter bson.M, update bson.M) (*T, error)
	DeleteOne(ctx context.Context, filter bson.M) (*T, error)
	Aggregate(ctx context.Context, pipeline mongo.Pipeline, out any) error
}

// DatabaseProvider yields the live database, connecting on first use.
type DatabaseProvider interface {
	Database(ctx context.Context) (*mongo.Database, error)
}

// Mongo implements Collection on a MongoDB collection resolved lazily per call.
type Mongo[T any] struct {
	db   DatabaseProvider
	name string
	now  func() time.Time
}

// NewMongo returns a Collection backed by the named collection.
func NewMongo[T any](db DatabaseProvider, name string) *Mongo[T] {
	return &Mongo[T]{db: db, name: name, now: time.Now}
}

func (m *Mongo[T]) coll(ctx context.Context) (*mongo.Collection, error) {
	db, err := m.db.Database(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(m.name), nil
}

func (m *Mongo[T]) Find(ctx context.Context, filter bson.M, opts FindOptions) ([]T, error) {
	coll, err := m.coll(ctx)
	if err != nil {
		return nil, err
	}
	findOpts := options.Find()
	if len(opts.Sort) > 0 {
		findOpts.SetSort(opts.Sort)
	}
	if opts.Skip > 0 {
		findOpts.SetSkip(opts.Skip)
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}
	cur, err := coll.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", m.name, err)
	}
	items := make([]T, 0)
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", m.name, err)
	}
	return items, nil
}

func (m *Mongo[T]) Count(ctx context.Context, filter bson.M) (int64, error) {
	coll, err := m.coll(ctx)
	if err != nil {
		return 0, err
	}
	n, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", m.name, err)
	}
	return n, nil
}

func (m *Mongo[T]) FindOne(ctx context.Context, filter bson.M) (*T, error) {
	coll, err := m.coll(ctx)
	if err != nil {
		return nil, err
	}
	var doc T
	if err := coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, m.translate("find one", err)
	}
	return &doc, nil
}

func (m *Mongo[T]) InsertOne(ctx context.Context, doc *T) error {
	coll, err := m.coll(ctx)
	if err != nil {
		return err
	}
	if d, ok := any(doc).(models.Document); ok {
		d.BeforeInsert(m.now())
	}
	if _, err := coll.InsertOne(ctx, doc); err != nil {
		return m.translate("insert", err)
	}
	return nil
}

func (m *Mongo[T]) ReplaceOne(ctx context.Context, doc *T) error {
	d, ok := any(doc).(models.Document)
	if !ok {
		return fmt.Errorf("replace %s: %T has no identity", m.name, doc)
	}
	coll, err := m.coll(ctx)
	if err != nil {
		return err
	}
	d.BeforeReplace(m.now())
	res, err := coll.ReplaceOne(ctx, bson.M{"_id": d.Key()}, doc)
	if err != nil {
		return m.translate("replace", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// FindOneAndUpdate applies update to the first match and returns the document after the update.
func (m *Mongo[T]) FindOneAndUpdate(ctx context.Context, filter bson.M, update bson.M) (*T, error) {
	coll, err := m.coll(ctx)
	if err != nil {
		return nil, err
	}
	update, err = WithUpdatedAt(update, m.now())
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", m.name, err)
	}
	var doc T
	err = coll.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		return nil, m.translate("update", err)
	}
	return &doc, nil
}

// DeleteOne removes the first match and returns it.
func (m *Mongo[T]) DeleteOne(ctx context.Context, filter bson.M) (*T, error) {
	coll, err := m.coll(ctx)
	if err != nil {
		return nil, err
	}
	var doc T
	if err := coll.FindOneAndDelete(ctx, filter).Decode(&doc); err != nil {
		return nil, m.translate("delete", err)
	}
	return &doc, nil
}

func (m *Mongo[T]) Aggregate(ctx context.Context, pipeline mongo.Pipeline, out any) error {
	coll, err := m.coll(ctx)
	if err != nil {
		return err
	}
	cur, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return fmt.Errorf("aggregate %s: %w", m.name, err)
	}
	if err := cur.All(ctx, out); err != nil {
		return fmt.Errorf("decode aggregate %s: %w", m.name, err)
	}
	return nil
}

func (m *Mongo[T]) translate(op string, err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%s %s: %w: %s", op, m.name, ErrDuplicate, err.Error())
	default:
		return fmt.Errorf("%s %s: %w", op, m.name, err)
	}
}

// WithUpdatedAt adds updatedAt to the $set stage of an update document. A
// $set given as bson.D is merged like a bson.M; an updatedAt it already
// carries wins.
func WithUpdatedAt(update bson.M, now time.Time) (bson.M, error) {
	out := make(bson.M, len(update)+1)
	for k, v := range update {
		out[k] = v
	}
	merged := bson.M{"updatedAt": now}
	switch set := out["$set"].(type) {
	case nil:
	case bson.M:
		for k, v := range set {
			merged[k] = v
		}
	case map[string]any:
		for k, v := range set {
			merged[k] = v
		}
	case bson.D:
		for _, e := range set {
			merged[e.Key] = e.Value
		}
	default:
		return nil, fmt.Errorf("unsupported $set argument %T", set)
	}
	out["$set"] = merged
	return out, nil
}
