package database

import (
	"context"
	"fmt"

	"github.com/mx-space/portfolio/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func unique(field string) mongo.IndexModel {
	return mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetUnique(true),
	}
}

func asc(field string) mongo.IndexModel {
	return mongo.IndexModel{Keys: bson.D{{Key: field, Value: 1}}}
}

// Indexes lists the index set of every collection.
func Indexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		models.BlogModel{}.CollectionName(): {
			unique("id"), unique("slug"), asc("author"), asc("thumb"),
		},
		models.ProjectModel{}.CollectionName(): {
			unique("Id"), unique("slug"), asc("category"), asc("status"),
		},
		models.ServiceModel{}.CollectionName(): {
			unique("Id"), unique("slug"), asc("title"), asc("isActive"),
		},
		models.TeamModel{}.CollectionName(): {
			unique("Id"), unique("slug"), asc("name"), asc("title"),
		},
		models.ContactModel{}.CollectionName(): {
			{Keys: bson.D{{Key: "email", Value: 1}, {Key: "createdAt", Value: -1}}},
			asc("status"),
		},
	}
}

// EnsureIndexes creates the index set. It is safe to run repeatedly.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for name, idx := range Indexes() {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}
