package team

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
)

// PositionCount is the number of active members holding one title.
type PositionCount struct {
	Title string `json:"_id"   bson:"_id"`
	Count int64  `json:"count" bson:"count"`
}

type Stats struct {
	TotalMembers    int64           `json:"totalMembers"`
	ActiveMembers   int64           `json:"activeMembers"`
	InactiveMembers int64           `json:"inactiveMembers"`
	PositionStats   []PositionCount `json:"positionStats"`
}

var positionPipeline = mongo.Pipeline{
	{{Key: "$match", Value: bson.M{"isActive": true}}},
	{{Key: "$group", Value: bson.M{"_id": "$title", "count": bson.M{"$sum": 1}}}},
	{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
}

// Stats counts members by activity and active members by title.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	coll := s.Collection()
	out := &Stats{PositionStats: []PositionCount{}}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.TotalMembers, err = coll.Count(ctx, bson.M{})
		return err
	})
	g.Go(func() (err error) {
		out.ActiveMembers, err = coll.Count(ctx, bson.M{"isActive": true})
		return err
	})
	g.Go(func() (err error) {
		out.InactiveMembers, err = coll.Count(ctx, bson.M{"isActive": false})
		return err
	})
	g.Go(func() error {
		return coll.Aggregate(ctx, positionPipeline, &out.PositionStats)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if out.PositionStats == nil {
		out.PositionStats = []PositionCount{}
	}
	return out, nil
}
