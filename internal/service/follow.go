package service

import (
	"Nebula_Vlog/internal/model"
	"Nebula_Vlog/internal/repository"
	"errors"

	"gorm.io/gorm"
)

var (
	ErrAlreadyFollowing = errors.New("您已经关注了该用户")
	ErrNotFollowing     = errors.New("您还未关注该用户")
)

type FollowService interface {
	Follow(followerID, targetUserID uint64) error
	Unfollow(followerID, targetUserID uint64) error
}

type followService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) FollowService {
	return &followService{followRepo: followRepo, userRepo: userRepo}
}

// Follow 关注目标用户。边存在即“已关注”，重复关注被唯一键挡住前先显式拒绝
func (s *followService) Follow(followerID, targetUserID uint64) error {
	if _, err := s.userRepo.FindByID(targetUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProfileNotFound
		}
		return err
	}
	exists, err := s.followRepo.Exists(followerID, targetUserID)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyFollowing
	}
	return s.followRepo.Create(&model.Follower{FollowerID: followerID, FollowingID: targetUserID})
}

func (s *followService) Unfollow(followerID, targetUserID uint64) error {
	exists, err := s.followRepo.Exists(followerID, targetUserID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFollowing
	}
	return s.followRepo.Delete(followerID, targetUserID)
}
