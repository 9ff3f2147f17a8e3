package models

import "time"

// SocialLinks are optional profile URLs for a team member.
type SocialLinks struct {
	LinkedIn string `json:"linkedin" bson:"linkedin"`
	Twitter  string `json:"twitter"  bson:"twitter"`
	GitHub   string `json:"github"   bson:"github"`
	Website  string `json:"website"  bson:"website"`
}

// TeamModel is a team member profile.
type TeamModel struct {
	Base        `bson:",inline"`
	ID          string      `json:"Id"          bson:"Id"          binding:"required"`
	Image       string      `json:"tImg"        bson:"tImg"        binding:"required"`
	Name        string      `json:"name"        bson:"name"        binding:"required"`
	Slug        string      `json:"slug"        bson:"slug"        binding:"required"`
	Title       string      `json:"title"       bson:"title"       binding:"required"`
	Email       string      `json:"email"       bson:"email"`
	Phone       string      `json:"phone"       bson:"phone"`
	Bio         string      `json:"bio"         bson:"bio"`
	SocialLinks SocialLinks `json:"socialLinks" bson:"socialLinks"`
	Skills      StringArray `json:"skills"      bson:"skills"`
	Experience  float64     `json:"experience"  bson:"experience"  binding:"min=0"`
	IsActive    bool        `json:"isActive"    bson:"isActive"`
	JoinDate    time.Time   `json:"joinDate"    bson:"joinDate"`
}

func (TeamModel) CollectionName() string { return "teams" }

func NewTeam() *TeamModel {
	return &TeamModel{
		Skills:   StringArray{},
		IsActive: true,
	}
}

// Tidy trims the name and defaults joinDate to now when the payload omitted it.
func (t *TeamModel) Tidy(now time.Time) {
	t.Name = trim(t.Name)
	t.Skills = t.Skills.OrEmpty()
	if t.JoinDate.IsZero() {
		t.JoinDate = now
	}
}

func (t *TeamModel) ToggleActive() { t.IsActive = !t.IsActive }
