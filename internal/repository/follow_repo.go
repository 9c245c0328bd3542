package repository

import (
	"Nebula_Vlog/internal/model"

	"gorm.io/gorm"
)

type FollowRepository interface {
	Create(edge *model.Follower) error
	Delete(followerID, followingID uint64) error
	Exists(followerID, followingID uint64) (bool, error)
	// FollowingIDs viewer关注的全部用户ID集合，搜索页标记“已关注”用
	FollowingIDs(followerID uint64) (map[uint64]bool, error)
	CountFollowers(userID uint64) (int64, error)
	CountFollowing(userID uint64) (int64, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Create(edge *model.Follower) error {
	return r.db.Create(edge).Error
}

func (r *followRepository) Delete(followerID, followingID uint64) error {
	return r.db.Exec("DELETE FROM followers WHERE follower_id = ? AND following_id = ?", followerID, followingID).Error
}

func (r *followRepository) Exists(followerID, followingID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Follower{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	return count > 0, err
}

func (r *followRepository) FollowingIDs(followerID uint64) (map[uint64]bool, error) {
	var edges []model.Follower
	if err := r.db.Where("follower_id = ?", followerID).Find(&edges).Error; err != nil {
		return nil, err
	}
	ids := make(map[uint64]bool, len(edges))
	for _, e := range edges {
		ids[e.FollowingID] = true
	}
	return ids, nil
}

func (r *followRepository) CountFollowers(userID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Follower{}).Where("following_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *followRepository) CountFollowing(userID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Follower{}).Where("follower_id = ?", userID).Count(&count).Error
	return count, err
}
