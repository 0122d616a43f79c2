package services

import (
	"pawrate_go_backend/internal/models"

	"gorm.io/gorm"
)

type UserServiceDB interface {
	CreateOrUpdateUserDB(auth0ID, email, name, nickname string, tier models.SubscriptionTier) (*models.User, error)
	GetUserByAuth0IDFromDB(auth0ID string) (*models.User, error)
}

type DefaultUserService struct {
	db *gorm.DB
}

func NewUserServiceDB(db *gorm.DB) UserServiceDB {
	return &DefaultUserService{db: db}
}

// CreateOrUpdateUserDB upserts the user on login. The subscription
// tier claim is refreshed on every request so plan changes take effect
// without re-login.
func (s *DefaultUserService) CreateOrUpdateUserDB(auth0ID, email, name, nickname string, tier models.SubscriptionTier) (*models.User, error) {
	user := models.User{
		Auth0ID:          auth0ID,
		Email:            email,
		Name:             name,
		Nickname:         nickname,
		SubscriptionTier: tier,
	}
	result := s.db.Where(models.User{Auth0ID: auth0ID}).
		Assign(models.User{SubscriptionTier: tier}).
		FirstOrCreate(&user)
	if result.Error != nil {
		return nil, result.Error
	}
	return &user, nil
}

func (s *DefaultUserService) GetUserByAuth0IDFromDB(auth0ID string) (*models.User, error) {
	var user models.User
	result := s.db.Where("auth0_id = ?", auth0ID).First(&user)
	if result.Error != nil {
		return nil, result.Error
	}
	return &user, nil
}
