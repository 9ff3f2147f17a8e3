package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Base carries the store-assigned identity and timestamps shared by all documents.
type Base struct {
	ObjectID  primitive.ObjectID `json:"_id"       bson:"_id,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// StoreFields are the JSON names of the Base fields. Client payloads never set them.
var StoreFields = []string{"_id", "createdAt", "updatedAt"}

// BeforeInsert assigns identity and both timestamps, discarding client values.
func (b *Base) BeforeInsert(now time.Time) {
	b.ObjectID = primitive.NewObjectID()
	b.CreatedAt = now
	b.UpdatedAt = now
}

// BeforeReplace bumps the modification time.
func (b *Base) BeforeReplace(now time.Time) {
	b.UpdatedAt = now
}

// Key returns the store identity.
func (b *Base) Key() primitive.ObjectID { return b.ObjectID }

// Identity returns a copy of the store-owned fields.
func (b *Base) Identity() Base { return *b }

// Restore puts back identity and creation time after a client payload was decoded over the document.
func (b *Base) Restore(prev Base) {
	b.ObjectID = prev.ObjectID
	b.CreatedAt = prev.CreatedAt
}

// Document is implemented by every stored model through Base.
type Document interface {
	BeforeInsert(now time.Time)
	BeforeReplace(now time.Time)
	Key() primitive.ObjectID
}
