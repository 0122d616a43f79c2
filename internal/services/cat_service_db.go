package services

import (
	"pawrate_go_backend/internal/models"
	"pawrate_go_backend/internal/utils/planparser"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatServiceDB covers cat profiles and their stored diet plans.
type CatServiceDB interface {
	CreateCatDB(cat *models.Cat) error
	GetCatsByUserIDFromDB(userID uuid.UUID) ([]models.Cat, error)
	GetCatByIDFromDB(catID, userID uuid.UUID) (*models.Cat, error)
	UpdateCatDB(cat *models.Cat) error
	UpdateCatImageURLDB(catID, userID uuid.UUID, imageURL string) error
	DeleteCatDB(catID, userID uuid.UUID) error
	ReplaceDietPlanDB(catID uuid.UUID, sections []planparser.Section) error
}

type DefaultCatService struct {
	db *gorm.DB
}

func NewCatServiceDB(db *gorm.DB) CatServiceDB {
	return &DefaultCatService{db: db}
}

func (s *DefaultCatService) CreateCatDB(cat *models.Cat) error {
	return s.db.Create(cat).Error
}

func (s *DefaultCatService) GetCatsByUserIDFromDB(userID uuid.UUID) ([]models.Cat, error) {
	var cats []models.Cat
	result := s.db.Where("user_id = ?", userID).Order("created_at asc").Find(&cats)
	if result.Error != nil {
		return nil, result.Error
	}
	return cats, nil
}

func (s *DefaultCatService) GetCatByIDFromDB(catID, userID uuid.UUID) (*models.Cat, error) {
	var cat models.Cat
	result := s.db.
		Preload("DietSections", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc")
		}).
		Preload("DietSections.Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc")
		}).
		Where("id = ? AND user_id = ?", catID, userID).
		First(&cat)
	if result.Error != nil {
		return nil, result.Error
	}
	return &cat, nil
}

func (s *DefaultCatService) UpdateCatDB(cat *models.Cat) error {
	return s.db.Model(&models.Cat{}).
		Where("id = ? AND user_id = ?", cat.ID, cat.UserID).
		Updates(map[string]interface{}{
			"name":             cat.Name,
			"breed":            cat.Breed,
			"age":              cat.Age,
			"weight":           cat.Weight,
			"allergies":        cat.Allergies,
			"health_condition": cat.HealthCondition,
			"notes":            cat.Notes,
		}).Error
}

func (s *DefaultCatService) UpdateCatImageURLDB(catID, userID uuid.UUID, imageURL string) error {
	return s.db.Model(&models.Cat{}).
		Where("id = ? AND user_id = ?", catID, userID).
		Update("image_url", imageURL).Error
}

// DeleteCatDB removes the cat and its diet plan rows in one transaction.
func (s *DefaultCatService) DeleteCatDB(catID, userID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var cat models.Cat
		if err := tx.Where("id = ? AND user_id = ?", catID, userID).First(&cat).Error; err != nil {
			return err
		}
		if err := deleteDietPlanRows(tx, catID); err != nil {
			return err
		}
		return tx.Delete(&cat).Error
	})
}

// ReplaceDietPlanDB overwrites the stored plan wholesale; there is no
// merging of old and new sections.
func (s *DefaultCatService) ReplaceDietPlanDB(catID uuid.UUID, sections []planparser.Section) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := deleteDietPlanRows(tx, catID); err != nil {
			return err
		}
		for i, section := range sections {
			row := models.DietSection{
				CatID:    catID,
				Position: i,
				Title:    section.Title,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			for j, item := range section.Content {
				if err := tx.Create(&models.DietItem{
					SectionID: row.ID,
					Position:  j,
					Text:      item,
				}).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func deleteDietPlanRows(tx *gorm.DB, catID uuid.UUID) error {
	var sectionIDs []uint
	if err := tx.Model(&models.DietSection{}).
		Where("cat_id = ?", catID).
		Pluck("id", &sectionIDs).Error; err != nil {
		return err
	}
	if len(sectionIDs) > 0 {
		if err := tx.Where("section_id IN ?", sectionIDs).
			Delete(&models.DietItem{}).Error; err != nil {
			return err
		}
	}
	return tx.Where("cat_id = ?", catID).Delete(&models.DietSection{}).Error
}
