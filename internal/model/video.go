package model

// Video 视频本体。创建后除管理员显式编辑/删除外不可变
// UserID可为空：管理员直接录入的站外视频没有归属用户
type Video struct {
	BaseModel
	UserID   *uint64 `gorm:"index"`
	Title    string  // 可为空，空串表示无标题
	VideoURL string  `gorm:"not null"`
}

func (Video) TableName() string {
	return "videos"
}
