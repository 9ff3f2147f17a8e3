package models

import "time"

// BlogModel is a published article. ID is the human-assigned identifier;
// either ID or Slug resolves a lookup.
type BlogModel struct {
	Base         `bson:",inline"`
	ID           string `json:"id"          bson:"id"          binding:"required"`
	Title        string `json:"title"       bson:"title"       binding:"required"`
	Slug         string `json:"slug"        bson:"slug"        binding:"required"`
	Screens      string `json:"screens"     bson:"screens"     binding:"required"`
	BodyImage    string `json:"bSingle"     bson:"bSingle"     binding:"required"`
	Description  string `json:"description" bson:"description" binding:"required"`
	Author       string `json:"author"      bson:"author"      binding:"required"`
	AuthorTitle  string `json:"authorTitle" bson:"authorTitle" binding:"required"`
	CreatedLabel string `json:"create_at"   bson:"create_at"   binding:"required"`
	Comment      string `json:"comment"     bson:"comment"`
	Thumb        string `json:"thumb"       bson:"thumb"       binding:"required"`
	BlClass      string `json:"blClass"     bson:"blClass"`
	Views        int64  `json:"views"       bson:"views"       binding:"min=0"`
	IsPublished  bool   `json:"isPublished" bson:"isPublished"`
}

func (BlogModel) CollectionName() string { return "blogs" }

// NewBlog returns a blog carrying the schema defaults; a request body is decoded over it.
func NewBlog() *BlogModel {
	return &BlogModel{
		Comment:     "0",
		BlClass:     "format-standard-image",
		IsPublished: true,
	}
}

// Tidy trims fields the schema declares as trimmed.
func (b *BlogModel) Tidy(time.Time) {
	b.Title = trim(b.Title)
}
