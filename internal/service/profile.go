package service

import (
	"Nebula_Vlog/internal/model"
	"Nebula_Vlog/internal/repository"
	"Nebula_Vlog/pkg/storage"
	"context"
	"errors"
	"io"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

var (
	ErrProfileNotFound = errors.New("该用户不存在")
	ErrNotProfileOwner = errors.New("只能修改自己的资料")
)

// ProfileView 个人主页数据：档案 + 关注数据 + viewer视角的关注状态
type ProfileView struct {
	Profile     *model.Profile
	Followers   int64
	Following   int64
	IsFollowing bool
	IsOwn       bool
}

type ProfileService interface {
	GetByUsername(username string, viewerID *uint64) (*ProfileView, error)
	// UpdateProfile 只允许本人改display_name和bio
	UpdateProfile(userID uint64, displayName, bio string) (*model.Profile, error)
	// UploadAvatar / UploadCover 文件进对象存储，公开URL写回档案行
	UploadAvatar(ctx context.Context, userID uint64, filename, contentType string, reader io.Reader, size int64) (string, error)
	UploadCover(ctx context.Context, userID uint64, filename, contentType string, reader io.Reader, size int64) (string, error)
	// Search 搜人，viewer自己不出现在结果里
	Search(query string, viewerID *uint64) ([]model.Profile, map[uint64]bool, error)
}

type profileService struct {
	sf singleflight.Group

	profileRepo repository.ProfileRepository
	followRepo  repository.FollowRepository
	store       *storage.Storage
}

func NewProfileService(profileRepo repository.ProfileRepository, followRepo repository.FollowRepository,
	store *storage.Storage) ProfileService {
	return &profileService{
		profileRepo: profileRepo,
		followRepo:  followRepo,
		store:       store,
	}
}

func (s *profileService) GetByUsername(username string, viewerID *uint64) (*ProfileView, error) {
	// 热门主页会被并发打开，SingleFlight合并同名查询
	result, err, _ := s.sf.Do("profile_"+username, func() (interface{}, error) {
		return s.profileRepo.FindByUsername(username)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	profile := result.(*model.Profile)

	followers, err := s.followRepo.CountFollowers(profile.UserID)
	if err != nil {
		return nil, err
	}
	following, err := s.followRepo.CountFollowing(profile.UserID)
	if err != nil {
		return nil, err
	}

	view := &ProfileView{
		Profile:   profile,
		Followers: followers,
		Following: following,
	}
	if viewerID != nil {
		view.IsOwn = *viewerID == profile.UserID
		if !view.IsOwn {
			view.IsFollowing, err = s.followRepo.Exists(*viewerID, profile.UserID)
			if err != nil {
				return nil, err
			}
		}
	}
	return view, nil
}

func (s *profileService) UpdateProfile(userID uint64, displayName, bio string) (*model.Profile, error) {
	if err := s.profileRepo.Updates(userID, map[string]interface{}{
		"display_name": displayName,
		"bio":          bio,
	}); err != nil {
		return nil, err
	}
	return s.profileRepo.FindByUserID(userID)
}

func (s *profileService) UploadAvatar(ctx context.Context, userID uint64, filename, contentType string, reader io.Reader, size int64) (string, error) {
	return s.uploadImage(ctx, "avatar", "avatar_url", userID, filename, contentType, reader, size)
}

func (s *profileService) UploadCover(ctx context.Context, userID uint64, filename, contentType string, reader io.Reader, size int64) (string, error) {
	return s.uploadImage(ctx, "cover", "cover_url", userID, filename, contentType, reader, size)
}

// uploadImage 先传MinIO拿公开URL，再把URL写回档案行
// 上传成功但写库失败时不回滚对象，旧对象本来就不复用，留着无害
func (s *profileService) uploadImage(ctx context.Context, kind, column string, userID uint64, filename, contentType string, reader io.Reader, size int64) (string, error) {
	publicURL, err := s.store.UploadUserImage(ctx, kind, userID, filename, contentType, reader, size)
	if err != nil {
		return "", err
	}
	if err := s.profileRepo.Updates(userID, map[string]interface{}{column: publicURL}); err != nil {
		return "", err
	}
	return publicURL, nil
}

func (s *profileService) Search(query string, viewerID *uint64) ([]model.Profile, map[uint64]bool, error) {
	profiles, err := s.profileRepo.Search(query, 20)
	if err != nil {
		return nil, nil, err
	}

	followingIDs := map[uint64]bool{}
	if viewerID != nil {
		followingIDs, err = s.followRepo.FollowingIDs(*viewerID)
		if err != nil {
			return nil, nil, err
		}
		// 结果不含自己
		filtered := profiles[:0]
		for _, p := range profiles {
			if p.UserID != *viewerID {
				filtered = append(filtered, p)
			}
		}
		profiles = filtered
	}
	return profiles, followingIDs, nil
}
