package models

import "time"

const (
	ProjectStatusActive     = "active"
	ProjectStatusCompleted  = "completed"
	ProjectStatusInProgress = "in-progress"
	ProjectStatusOnHold     = "on-hold"
)

// ProjectModel stores portfolio projects.
type ProjectModel struct {
	Base          `bson:",inline"`
	ID            string `json:"Id"            bson:"Id"            binding:"required"`
	Image         string `json:"pImg"          bson:"pImg"          binding:"required"`
	Title         string `json:"title"         bson:"title"         binding:"required"`
	Slug          string `json:"slug"          bson:"slug"          binding:"required"`
	Sub           string `json:"sub"           bson:"sub"`
	Description   string `json:"description"   bson:"description"   binding:"required"`
	Industry      string `json:"Industry"      bson:"Industry"`
	Country       string `json:"Country"       bson:"Country"`
	Technologies1 string `json:"Technologies1" bson:"Technologies1"`
	Technologies2 string `json:"Technologies2" bson:"Technologies2"`
	Thumb1        string `json:"thumb1"        bson:"thumb1"`
	Thumb2        string `json:"thumb2"        bson:"thumb2"`
	Category      string `json:"category"      bson:"category"`
	Status        string `json:"status"        bson:"status"        binding:"oneof=active completed in-progress on-hold"`
	Featured      bool   `json:"featured"      bson:"featured"`
}

func (ProjectModel) CollectionName() string { return "projects" }

func NewProject() *ProjectModel {
	return &ProjectModel{
		Category: "general",
		Status:   ProjectStatusActive,
	}
}

func (p *ProjectModel) Tidy(time.Time) {
	p.Title = trim(p.Title)
}
