package models

import "time"

// ServiceModel is an offered service card.
type ServiceModel struct {
	Base        `bson:",inline"`
	ID          string      `json:"Id"          bson:"Id"          binding:"required"`
	Image       string      `json:"sImg"        bson:"sImg"        binding:"required"`
	Title       string      `json:"title"       bson:"title"       binding:"required"`
	Slug        string      `json:"slug"        bson:"slug"        binding:"required"`
	Thumb1      string      `json:"thumb1"      bson:"thumb1"`
	Thumb2      string      `json:"thumb2"      bson:"thumb2"`
	Col         string      `json:"col"         bson:"col"`
	Description string      `json:"description" bson:"description"`
	Features    StringArray `json:"features"    bson:"features"`
	Price       float64     `json:"price"       bson:"price"`
	Duration    string      `json:"duration"    bson:"duration"`
	IsActive    bool        `json:"isActive"    bson:"isActive"`
	Popular     bool        `json:"popular"     bson:"popular"`
}

func (ServiceModel) CollectionName() string { return "services" }

func NewService() *ServiceModel {
	return &ServiceModel{
		Col:      "col-lg-4",
		Features: StringArray{},
		IsActive: true,
	}
}

func (s *ServiceModel) Tidy(time.Time) {
	s.Title = trim(s.Title)
	s.Features = s.Features.OrEmpty()
}

// ToggleActive flips the active flag.
func (s *ServiceModel) ToggleActive() { s.IsActive = !s.IsActive }
