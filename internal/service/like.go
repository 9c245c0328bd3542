package service

import (
	"Nebula_Vlog/internal/repository"
	"encoding/json"
	"errors"

	"gorm.io/gorm"
)

var (
	ErrVideoNotFound = errors.New("视频不存在")
	ErrAlreadyLiked  = errors.New("您已经赞过该视频")
	ErrNotLiked      = errors.New("您还未赞过该视频")
)

// 点赞走 Redis判重 + MQ异步落库：接口即时生效，行写入由consumer完成
type LikeService interface {
	LikeVideo(userID, videoID uint64) error
	UnlikeVideo(userID, videoID uint64) error
}

type likeService struct {
	videoRepo      repository.VideoRepository
	engagementRepo repository.EngagementRepository
	publisher      MessagePublisher
}

func NewLikeService(videoRepo repository.VideoRepository, engagementRepo repository.EngagementRepository,
	publisher MessagePublisher) LikeService {
	return &likeService{
		videoRepo:      videoRepo,
		engagementRepo: engagementRepo,
		publisher:      publisher,
	}
}

// LikeVideo 点赞：1、确认视频存在 2、Redis集合判重，已赞直接拒绝
// 3、进集合 4、发消息让consumer插行
// 重复请求在这里被统一挡掉，前端有没有禁用按钮都一样
func (s *likeService) LikeVideo(userID, videoID uint64) error {
	if _, err := s.videoRepo.FindByID(videoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVideoNotFound
		}
		return err
	}
	liked, err := s.engagementRepo.IsLiker(videoID, userID)
	if err != nil {
		return err
	}
	if liked {
		return ErrAlreadyLiked
	}

	if err := s.engagementRepo.AddLiker(videoID, userID); err != nil {
		return err
	}
	return s.publishLike(LikeMessage{UserID: userID, VideoID: videoID, Action: ActionLike})
}

// UnlikeVideo 取消点赞，流程与LikeVideo对称
func (s *likeService) UnlikeVideo(userID, videoID uint64) error {
	if _, err := s.videoRepo.FindByID(videoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVideoNotFound
		}
		return err
	}
	liked, err := s.engagementRepo.IsLiker(videoID, userID)
	if err != nil {
		return err
	}
	if !liked {
		return ErrNotLiked
	}

	if err := s.engagementRepo.RemoveLiker(videoID, userID); err != nil {
		return err
	}
	return s.publishLike(LikeMessage{UserID: userID, VideoID: videoID, Action: ActionUnlike})
}

func (s *likeService) publishLike(msg LikeMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return s.publisher.Publish(QueueLike, body)
}
