package service

import (
	"Nebula_Vlog/internal/data"
	"Nebula_Vlog/internal/model"
	"Nebula_Vlog/internal/repository"
	"errors"

	"gorm.io/gorm"
)

var ErrEmptyVideoURL = errors.New("视频地址不能为空")

// AdminVideoList 管理面板的视频列表，每条带完整计数
type AdminVideoList struct {
	Videos []model.Video
	Stats  map[uint64]repository.VideoStats
}

type AdminService interface {
	// ListVideos 管理面板按创建时间倒序看全部视频
	ListVideos() (*AdminVideoList, error)
	AddVideo(ownerID *uint64, videoURL, title string) (*model.Video, error)
	// DeleteVideo 连带该视频的互动行和评论一起删，单个事务
	DeleteVideo(videoID uint64) error
}

type adminService struct {
	videoRepo      repository.VideoRepository
	engagementRepo repository.EngagementRepository
	uow            data.UnitOfWork
}

func NewAdminService(videoRepo repository.VideoRepository, engagementRepo repository.EngagementRepository,
	uow data.UnitOfWork) AdminService {
	return &adminService{
		videoRepo:      videoRepo,
		engagementRepo: engagementRepo,
		uow:            uow,
	}
}

func (s *adminService) ListVideos() (*AdminVideoList, error) {
	videos, err := s.videoRepo.FindLatest(500)
	if err != nil {
		return nil, err
	}
	videoIDs := make([]uint64, 0, len(videos))
	for _, v := range videos {
		videoIDs = append(videoIDs, v.ID)
	}
	stats, err := s.engagementRepo.StatsForVideos(videoIDs)
	if err != nil {
		return nil, err
	}
	return &AdminVideoList{Videos: videos, Stats: stats}, nil
}

func (s *adminService) AddVideo(ownerID *uint64, videoURL, title string) (*model.Video, error) {
	if videoURL == "" {
		return nil, ErrEmptyVideoURL
	}
	newVideo := &model.Video{
		UserID:   ownerID,
		Title:    title,
		VideoURL: videoURL,
	}
	if err := s.videoRepo.Create(newVideo); err != nil {
		return nil, err
	}
	return newVideo, nil
}

func (s *adminService) DeleteVideo(videoID uint64) error {
	if _, err := s.videoRepo.FindByID(videoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVideoNotFound
		}
		return err
	}

	err := s.uow.Execute(func(repos *data.TransactionalRepositories) error {
		if err := repos.EngagementRepo.DeleteByVideo(videoID); err != nil {
			return err
		}
		if err := repos.CommentRepo.DeleteByVideo(videoID); err != nil {
			return err
		}
		return repos.VideoRepo.Delete(videoID)
	})
	if err != nil {
		return err
	}
	// 事务成功后再清缓存，留着脏缓存会让刚删的视频还能查到
	return s.videoRepo.DropVideoCache(videoID)
}
