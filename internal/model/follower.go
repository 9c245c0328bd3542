package model

// Follower 有向关注边：follower关注following
// 不做自关注校验，和线上行为保持一致
type Follower struct {
	BaseModel
	FollowerID  uint64 `gorm:"uniqueIndex:idx_follower_following;not null"`
	FollowingID uint64 `gorm:"uniqueIndex:idx_follower_following;not null"`
}

func (Follower) TableName() string {
	return "followers"
}
