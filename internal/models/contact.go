package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ContactStatusNew     = "new"
	ContactStatusRead    = "read"
	ContactStatusReplied = "replied"
)

// ContactStatuses lists the accepted values of ContactModel.Status.
var ContactStatuses = []string{ContactStatusNew, ContactStatusRead, ContactStatusReplied}

// IsContactStatus reports whether s is an accepted contact status.
func IsContactStatus(s string) bool {
	for _, v := range ContactStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// ContactModel is a contact-form submission. IPAddress and UserAgent are
// captured at creation and never serialized to clients.
type ContactModel struct {
	ObjectID  primitive.ObjectID `json:"id"                bson:"_id,omitempty"`
	Name      string             `json:"name"              bson:"name"`
	Email     string             `json:"email"             bson:"email"`
	Phone     string             `json:"phone"             bson:"phone"`
	Subject   string             `json:"subject,omitempty" bson:"subject,omitempty"`
	Company   string             `json:"company,omitempty" bson:"company,omitempty"`
	Message   string             `json:"message"           bson:"message"`
	Status    string             `json:"status"            bson:"status"`
	IPAddress string             `json:"-"                 bson:"ipAddress,omitempty"`
	UserAgent string             `json:"-"                 bson:"userAgent,omitempty"`
	CreatedAt time.Time          `json:"createdAt"         bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"         bson:"updatedAt"`
}

func (ContactModel) CollectionName() string { return "contacts" }

func (c *ContactModel) BeforeInsert(now time.Time) {
	c.ObjectID = primitive.NewObjectID()
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.Status == "" {
		c.Status = ContactStatusNew
	}
}

func (c *ContactModel) BeforeReplace(now time.Time) {
	c.UpdatedAt = now
}

func (c *ContactModel) Key() primitive.ObjectID { return c.ObjectID }
