package service

import (
	"Nebula_Vlog/internal/model"
	"Nebula_Vlog/internal/repository"
	"fmt"

	"github.com/go-redis/redis/v8"
	"golang.org/x/sync/singleflight"
)

// FeedData 一次feed查询的完整产物：视频序列 + 每个视频的计数map + viewer的点赞集合
// 计数永远是查询时刻从行数重新推导的，没有本地增量
type FeedData struct {
	Videos  []model.Video
	Stats   map[uint64]repository.VideoStats
	Liked   map[uint64]bool
	Authors map[uint64]*model.Profile
}

type FeedService interface {
	// GetFeed 首页feed：全部视频按创建时间正序
	GetFeed(viewerID *uint64, limit int) (*FeedData, error)
	GetVideoByID(videoID uint64) (*model.Video, error)
	// StatsFor 任何互动落库后，前端拿已加载的视频ID列表来这里整体刷新计数
	StatsFor(videoIDs []uint64, viewerID *uint64) (map[uint64]repository.VideoStats, map[uint64]bool, error)
}

type feedService struct {
	sf singleflight.Group

	videoRepo      repository.VideoRepository
	engagementRepo repository.EngagementRepository
	profileRepo    repository.ProfileRepository
}

func NewFeedService(videoRepo repository.VideoRepository, engagementRepo repository.EngagementRepository,
	profileRepo repository.ProfileRepository) FeedService {
	return &feedService{
		videoRepo:      videoRepo,
		engagementRepo: engagementRepo,
		profileRepo:    profileRepo,
	}
}

func (s *feedService) GetFeed(viewerID *uint64, limit int) (*FeedData, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	videos, err := s.videoRepo.FindOldestFirst(limit)
	if err != nil {
		return nil, err
	}

	videoIDs := make([]uint64, 0, len(videos))
	ownerIDs := make([]uint64, 0, len(videos))
	for _, v := range videos {
		videoIDs = append(videoIDs, v.ID)
		if v.UserID != nil {
			ownerIDs = append(ownerIDs, *v.UserID)
		}
	}

	stats, liked, err := s.StatsFor(videoIDs, viewerID)
	if err != nil {
		return nil, err
	}

	authors, err := s.profileRepo.FindByUserIDs(ownerIDs)
	if err != nil {
		return nil, err
	}

	return &FeedData{Videos: videos, Stats: stats, Liked: liked, Authors: authors}, nil
}

func (s *feedService) StatsFor(videoIDs []uint64, viewerID *uint64) (map[uint64]repository.VideoStats, map[uint64]bool, error) {
	stats, err := s.engagementRepo.StatsForVideos(videoIDs)
	if err != nil {
		return nil, nil, err
	}
	liked := map[uint64]bool{}
	if viewerID != nil {
		liked, err = s.engagementRepo.LikedVideoIDs(*viewerID, videoIDs)
		if err != nil {
			return nil, nil, err
		}
	}
	return stats, liked, nil
}

// GetVideoByID 先查缓存；未命中时用SingleFlight合并并发回源，防止缓存击穿
func (s *feedService) GetVideoByID(videoID uint64) (*model.Video, error) {
	video, err := s.videoRepo.GetVideoCache(videoID)
	if err == nil && video != nil {
		return video, nil
	}
	// Redis本身出错（不是缓存未命中）也继续走数据库
	if err != nil && err != redis.Nil {
		video = nil
	}

	key := fmt.Sprintf("get_video_%d", videoID)
	result, err, _ := s.sf.Do(key, func() (interface{}, error) {
		dbVideo, dbErr := s.videoRepo.FindByID(videoID)
		if dbErr != nil {
			return nil, dbErr
		}
		_ = s.videoRepo.SetVideoCache(dbVideo)
		return dbVideo, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*model.Video), nil
}
