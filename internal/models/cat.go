package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Cat struct {
	gorm.Model
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID          uuid.UUID `gorm:"type:uuid;index;not null"`
	Name            string    `gorm:"not null"`
	Breed           string
	Age             int
	Weight          string
	Allergies       string
	HealthCondition string
	Notes           string
	ImageURL        string
	DietSections    []DietSection `gorm:"foreignKey:CatID"`
}

// DietSection is one titled block of a generated diet plan. The whole
// plan is replaced on every successful generation, never merged.
type DietSection struct {
	gorm.Model
	CatID    uuid.UUID `gorm:"type:uuid;index"`
	Position int
	Title    string
	Items    []DietItem `gorm:"foreignKey:SectionID"`
}

type DietItem struct {
	gorm.Model
	SectionID uint `gorm:"index"`
	Position  int
	Text      string
}
