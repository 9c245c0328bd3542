package repository

import (
	"Nebula_Vlog/internal/model"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *model.User) error
	FindByEmail(email string) (*model.User, error)
	FindByID(userID uint64) (*model.User, error)
	WithTx(tx *gorm.DB) UserRepository
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) WithTx(tx *gorm.DB) UserRepository {
	return &userRepository{db: tx}
}

func (r *userRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	var result model.User
	err := r.db.Where("email = ?", email).First(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *userRepository) FindByID(userID uint64) (*model.User, error) {
	var result model.User
	err := r.db.First(&result, userID).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}
