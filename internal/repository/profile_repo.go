package repository

import (
	"Nebula_Vlog/internal/model"

	"gorm.io/gorm"
)

type ProfileRepository interface {
	Create(profile *model.Profile) error
	FindByUserID(userID uint64) (*model.Profile, error)
	FindByUsername(username string) (*model.Profile, error)
	FindByUserIDs(userIDs []uint64) (map[uint64]*model.Profile, error)
	// Updates只改传入的列，不整行覆盖
	Updates(userID uint64, fields map[string]interface{}) error
	// Search 按用户名/昵称模糊搜索，按创建时间倒序
	Search(query string, limit int) ([]model.Profile, error)
	UsernameExists(username string) (bool, error)
	WithTx(tx *gorm.DB) ProfileRepository
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) WithTx(tx *gorm.DB) ProfileRepository {
	return &profileRepository{db: tx}
}

func (r *profileRepository) Create(profile *model.Profile) error {
	return r.db.Create(profile).Error
}

func (r *profileRepository) FindByUserID(userID uint64) (*model.Profile, error) {
	var result model.Profile
	err := r.db.Where("user_id = ?", userID).First(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *profileRepository) FindByUsername(username string) (*model.Profile, error) {
	var result model.Profile
	err := r.db.Where("username = ?", username).First(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// FindByUserIDs 批量查询，用于给评论/视频列表一次性挂接作者信息
func (r *profileRepository) FindByUserIDs(userIDs []uint64) (map[uint64]*model.Profile, error) {
	if len(userIDs) == 0 {
		return map[uint64]*model.Profile{}, nil
	}
	var profiles []model.Profile
	if err := r.db.Where("user_id IN ?", userIDs).Find(&profiles).Error; err != nil {
		return nil, err
	}
	result := make(map[uint64]*model.Profile, len(profiles))
	for i := range profiles {
		result[profiles[i].UserID] = &profiles[i]
	}
	return result, nil
}

func (r *profileRepository) Updates(userID uint64, fields map[string]interface{}) error {
	return r.db.Model(&model.Profile{}).Where("user_id = ?", userID).Updates(fields).Error
}

func (r *profileRepository) Search(query string, limit int) ([]model.Profile, error) {
	var profiles []model.Profile
	q := r.db.Order("created_at desc").Limit(limit)
	if query != "" {
		pattern := "%" + query + "%"
		q = q.Where("username LIKE ? OR display_name LIKE ?", pattern, pattern)
	}
	err := q.Find(&profiles).Error
	return profiles, err
}

func (r *profileRepository) UsernameExists(username string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Profile{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}
