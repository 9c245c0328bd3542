package model

// Comment 评论，ParentID区分一级评论和二级回复
// 指针*uint64的零值是nil，nil即一级评论；回复只允许挂在一级评论下
type Comment struct {
	BaseModel
	VideoID  uint64  `gorm:"not null;index"`
	UserID   uint64  `gorm:"not null;index"`
	Content  string  `gorm:"type:text;not null"`
	ParentID *uint64 `gorm:"index"`
}

func (Comment) TableName() string {
	return "video_comments"
}

// CommentLike 评论点赞，行存在即“已赞”
type CommentLike struct {
	BaseModel
	CommentID uint64 `gorm:"uniqueIndex:idx_comment_user;not null"`
	UserID    uint64 `gorm:"uniqueIndex:idx_comment_user;not null"`
}

func (CommentLike) TableName() string {
	return "comment_likes"
}
