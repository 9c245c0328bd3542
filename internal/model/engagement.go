package model

// VideoView 播放记录，(video_id, user_id)联合唯一
// 唯一索引利用MySQL的查重能力保证“记录观看”幂等：同一用户重复上报只落一行
type VideoView struct {
	BaseModel
	VideoID uint64 `gorm:"uniqueIndex:idx_view_video_user;not null"`
	UserID  uint64 `gorm:"uniqueIndex:idx_view_video_user;not null"`
}

func (VideoView) TableName() string {
	return "video_views"
}

// VideoLike 点赞记录，行存在即“已赞”，取消点赞就删行
type VideoLike struct {
	BaseModel
	VideoID uint64 `gorm:"uniqueIndex:idx_like_video_user;not null"`
	UserID  uint64 `gorm:"uniqueIndex:idx_like_video_user;not null"`
}

func (VideoLike) TableName() string {
	return "video_likes"
}

// VideoShare 分享记录，append-only，不做去重：重复分享就重复计数
type VideoShare struct {
	BaseModel
	VideoID uint64 `gorm:"index;not null"`
	UserID  uint64 `gorm:"index;not null"`
}

func (VideoShare) TableName() string {
	return "video_shares"
}
