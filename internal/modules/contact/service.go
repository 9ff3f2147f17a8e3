package contact

import (
	"context"
	"errors"

	"github.com/mx-space/portfolio/internal/models"
	"github.com/mx-space/portfolio/internal/pkg/pagination"
	"github.com/mx-space/portfolio/internal/pkg/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidStatus is returned for a status outside new, read and replied.
var ErrInvalidStatus = errors.New("invalid contact status")

const statusAll = "all"

type Service struct {
	coll repository.Collection[models.ContactModel]
}

func NewService(coll repository.Collection[models.ContactModel]) *Service {
	return &Service{coll: coll}
}

func (s *Service) Submit(ctx context.Context, c *models.ContactModel) error {
	return s.coll.InsertOne(ctx, c)
}

// List returns one page of submissions, newest first. status "all" or empty lists every status.
func (s *Service) List(ctx context.Context, status string, q pagination.Query) ([]models.ContactModel, int64, error) {
	filter := bson.M{}
	if status != "" && status != statusAll {
		filter["status"] = status
	}

	var (
		items []models.ContactModel
		total int64
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		items, err = s.coll.Find(ctx, filter, repository.FindOptions{
			Sort:  bson.D{{Key: "createdAt", Value: -1}},
			Skip:  q.Skip(),
			Limit: int64(q.Limit),
		})
		return err
	})
	g.Go(func() (err error) {
		total, err = s.coll.Count(ctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// byID matches a store identity; a malformed id matches nothing.
func byID(id string) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	return bson.M{"_id": oid}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.ContactModel, error) {
	filter, err := byID(id)
	if err != nil {
		return nil, err
	}
	return s.coll.FindOne(ctx, filter)
}

func (s *Service) SetStatus(ctx context.Context, id, status string) (*models.ContactModel, error) {
	if !models.IsContactStatus(status) {
		return nil, ErrInvalidStatus
	}
	filter, err := byID(id)
	if err != nil {
		return nil, err
	}
	return s.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": bson.M{"status": status}})
}

func (s *Service) Delete(ctx context.Context, id string) error {
	filter, err := byID(id)
	if err != nil {
		return err
	}
	_, err = s.coll.DeleteOne(ctx, filter)
	return err
}
