package service

import (
	"Nebula_Vlog/internal/repository"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ShareResult 分享结果：规范链接永远返回；是否落了事件行取决于有没有登录
type ShareResult struct {
	ShareURL string
	Recorded bool
}

type ShareService interface {
	ShareVideo(viewerID *uint64, videoID uint64) (*ShareResult, error)
}

type shareService struct {
	videoRepo repository.VideoRepository
	publisher MessagePublisher
	baseURL   string
}

func NewShareService(videoRepo repository.VideoRepository, publisher MessagePublisher, baseURL string) ShareService {
	return &shareService{
		videoRepo: videoRepo,
		publisher: publisher,
		baseURL:   baseURL,
	}
}

// ShareVideo 生成视频的规范分享链接。匿名用户也能拿到链接（复制到剪贴板），
// 但分享行需要user_id，所以只给登录用户记录；重复分享重复计数，不去重
func (s *shareService) ShareVideo(viewerID *uint64, videoID uint64) (*ShareResult, error) {
	if _, err := s.videoRepo.FindByID(videoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}

	result := &ShareResult{
		ShareURL: fmt.Sprintf("%s/video/%d/comments", s.baseURL, videoID),
	}
	if viewerID == nil {
		return result, nil
	}

	body, err := json.Marshal(ShareMessage{UserID: *viewerID, VideoID: videoID})
	if err != nil {
		return nil, err
	}
	if err := s.publisher.Publish(QueueShare, body); err != nil {
		return nil, err
	}
	result.Recorded = true
	return result, nil
}
