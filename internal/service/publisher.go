package service

const (
	// 队列命名遵循：项目名.业务领域.功能
	QueueLike  = "nebula.like.queue"
	QueueView  = "nebula.view.queue"
	QueueShare = "nebula.share.queue"

	ActionLike   = "like"
	ActionUnlike = "unlike"
)

// MessagePublisher 是service层对消息队列的最小依赖，
// 生产环境由 pkg/rabbitmq.Publisher 实现，测试里用桩替掉
type MessagePublisher interface {
	Publish(queue string, body []byte) error
}

// LikeMessage 点赞/取消点赞消息，由consumer落库
type LikeMessage struct {
	UserID  uint64 `json:"user_id"`
	VideoID uint64 `json:"video_id"`
	Action  string `json:"action"` // "like" or "unlike"
}

// ViewMessage 观看上报消息，consumer按唯一键幂等插入
type ViewMessage struct {
	UserID  uint64 `json:"user_id"`
	VideoID uint64 `json:"video_id"`
}

// ShareMessage 分享事件消息，append-only，不去重
type ShareMessage struct {
	UserID  uint64 `json:"user_id"`
	VideoID uint64 `json:"video_id"`
}
