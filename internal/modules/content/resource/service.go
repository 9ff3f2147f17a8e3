// Package resource holds the list/get/create/replace/delete plumbing shared by
// the published-content modules.
package resource

import (
	"context"
	"time"

	"github.com/mx-space/portfolio/internal/models"
	"github.com/mx-space/portfolio/internal/pkg/pagination"
	"github.com/mx-space/portfolio/internal/pkg/query"
	"github.com/mx-space/portfolio/internal/pkg/repository"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/sync/errgroup"
)

// Doc is the pointer type of a content model.
type Doc[T any] interface {
	*T
	models.Document
	Tidy(now time.Time)
	Identity() models.Base
	Restore(prev models.Base)
}

// Kind describes one content collection.
type Kind[T any] struct {
	// Label names a single item in messages ("Blog", "Team member").
	Label string
	// ListKey is the item key of the list envelope.
	ListKey string
	// IDField is the human identifier resolved alongside slug.
	IDField string
	Sort    bson.D
	New     func() *T
}

// Page is one page of a listing.
type Page[T any] struct {
	Items []T
	Total int64
	Query pagination.Query
}

// Service runs store operations for one collection.
type Service[T any, P Doc[T]] struct {
	coll repository.Collection[T]
	kind Kind[T]
	now  func() time.Time
}

func NewService[T any, P Doc[T]](coll repository.Collection[T], kind Kind[T]) *Service[T, P] {
	return &Service[T, P]{coll: coll, kind: kind, now: time.Now}
}

func (s *Service[T, P]) Kind() Kind[T] { return s.kind }

// Collection exposes the underlying store for module-specific queries.
func (s *Service[T, P]) Collection() repository.Collection[T] { return s.coll }

// List returns one page of filter. The page and the total are read concurrently.
func (s *Service[T, P]) List(ctx context.Context, filter bson.M, q pagination.Query) (Page[T], error) {
	page := Page[T]{Query: q}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := s.coll.Find(ctx, filter, repository.FindOptions{
			Sort:  s.kind.Sort,
			Skip:  q.Skip(),
			Limit: int64(q.Limit),
		})
		page.Items = items
		return err
	})
	g.Go(func() error {
		total, err := s.coll.Count(ctx, filter)
		page.Total = total
		return err
	})
	if err := g.Wait(); err != nil {
		return Page[T]{}, err
	}
	return page, nil
}

// All returns every match of filter in listing order, up to limit when positive.
func (s *Service[T, P]) All(ctx context.Context, filter bson.M, limit int64) ([]T, error) {
	return s.coll.Find(ctx, filter, repository.FindOptions{Sort: s.kind.Sort, Limit: limit})
}

// Resolve matches key against the human identifier or the slug.
func (s *Service[T, P]) Resolve(key string) bson.M {
	return query.Either(s.kind.IDField, key)
}

func (s *Service[T, P]) Get(ctx context.Context, key string) (*T, error) {
	return s.coll.FindOne(ctx, s.Resolve(key))
}

// Update applies a raw update to the item resolved by key and returns it afterwards.
func (s *Service[T, P]) Update(ctx context.Context, key string, update bson.M) (*T, error) {
	return s.coll.FindOneAndUpdate(ctx, s.Resolve(key), update)
}

// Create stores doc, which already carries defaults and client fields.
func (s *Service[T, P]) Create(ctx context.Context, doc *T) error {
	P(doc).Tidy(s.now())
	return s.coll.InsertOne(ctx, doc)
}

// Replace resolves key, lets apply overwrite the stored document and writes
// it back under the same identity.
func (s *Service[T, P]) Replace(ctx context.Context, key string, apply func(*T) error) (*T, error) {
	doc, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	prev := P(doc).Identity()
	if err := apply(doc); err != nil {
		return nil, err
	}
	P(doc).Restore(prev)
	P(doc).Tidy(s.now())
	if err := s.coll.ReplaceOne(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *Service[T, P]) Delete(ctx context.Context, key string) (*T, error) {
	return s.coll.DeleteOne(ctx, s.Resolve(key))
}
