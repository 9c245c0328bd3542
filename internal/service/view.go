package service

import (
	"Nebula_Vlog/internal/repository"
	"encoding/json"
	"errors"

	"gorm.io/gorm"
)

// 观看上报：滚动feed时每个进入视口的视频报一次
// 同一(用户,视频)只算一次：Redis集合先挡重复，数据库唯一键兜底
type ViewService interface {
	RecordView(userID, videoID uint64) error
}

type viewService struct {
	videoRepo      repository.VideoRepository
	engagementRepo repository.EngagementRepository
	publisher      MessagePublisher
}

func NewViewService(videoRepo repository.VideoRepository, engagementRepo repository.EngagementRepository,
	publisher MessagePublisher) ViewService {
	return &viewService{
		videoRepo:      videoRepo,
		engagementRepo: engagementRepo,
		publisher:      publisher,
	}
}

// RecordView 幂等记录观看。快速滚动会让同一个视频上报很多次，
// 重复上报在SAdd处短路，不再进队列
func (s *viewService) RecordView(userID, videoID uint64) error {
	if _, err := s.videoRepo.FindByID(videoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVideoNotFound
		}
		return err
	}

	first, err := s.engagementRepo.MarkViewed(videoID, userID)
	if err != nil {
		return err
	}
	if !first {
		return nil // 重复观看，什么都不用做
	}

	body, err := json.Marshal(ViewMessage{UserID: userID, VideoID: videoID})
	if err != nil {
		return err
	}
	return s.publisher.Publish(QueueView, body)
}
