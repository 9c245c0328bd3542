package repository

import (
	"Nebula_Vlog/internal/model"

	"gorm.io/gorm"
)

type RoleRepository interface {
	HasRole(userID uint64, role string) (bool, error)
	Grant(userID uint64, role string) error
}

type roleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) HasRole(userID uint64, role string) (bool, error) {
	var count int64
	err := r.db.Model(&model.UserRole{}).
		Where("user_id = ? AND role = ?", userID, role).
		Count(&count).Error
	return count > 0, err
}

func (r *roleRepository) Grant(userID uint64, role string) error {
	return r.db.Create(&model.UserRole{UserID: userID, Role: role}).Error
}
