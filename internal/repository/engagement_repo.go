package repository

import (
	"Nebula_Vlog/internal/model"
	"context"
	"strconv"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	keyVideoLikersSet  = "video:likers"
	keyVideoViewersSet = "video:viewers"
)

// VideoStats 单个视频的互动计数汇总，全部从行数重新推导
type VideoStats struct {
	Likes    uint64 `json:"likes"`
	Views    uint64 `json:"views"`
	Comments uint64 `json:"comments"`
	Shares   uint64 `json:"shares"`
}

type EngagementRepository interface {
	// 行写入，由consumer在事务中调用
	CreateLike(like *model.VideoLike) error
	DeleteLike(userID, videoID uint64) error
	// CreateView 幂等插入：唯一键冲突时静默跳过
	CreateView(view *model.VideoView) error
	CreateShare(share *model.VideoShare) error
	// DeleteByVideo 删除一个视频的全部互动行，供管理员删视频时级联
	DeleteByVideo(videoID uint64) error

	// 计数只信数据库，Redis集合只做成员判断
	StatsForVideos(videoIDs []uint64) (map[uint64]VideoStats, error)
	HasLike(videoID, userID uint64) (bool, error)
	LikedVideoIDs(userID uint64, videoIDs []uint64) (map[uint64]bool, error)

	// Redis点赞/观看集合，保证接口层的即时判重
	AddLiker(videoID, userID uint64) error
	RemoveLiker(videoID, userID uint64) error
	IsLiker(videoID, userID uint64) (bool, error)
	// MarkViewed 返回true表示首次观看，false表示重复上报
	MarkViewed(videoID, userID uint64) (bool, error)

	WithTx(tx *gorm.DB) EngagementRepository
}

type engagementRepository struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewEngagementRepository(db *gorm.DB, rdb *redis.Client) EngagementRepository {
	return &engagementRepository{db: db, rdb: rdb}
}

func (r *engagementRepository) WithTx(tx *gorm.DB) EngagementRepository {
	return &engagementRepository{db: tx}
}

func (r *engagementRepository) CreateLike(like *model.VideoLike) error {
	return r.db.Create(like).Error
}

func (r *engagementRepository) DeleteLike(userID, videoID uint64) error {
	return r.db.Exec("DELETE FROM video_likes WHERE user_id = ? AND video_id = ?", userID, videoID).Error
}

func (r *engagementRepository) CreateView(view *model.VideoView) error {
	// ON CONFLICT DO NOTHING：同一(video, user)只留一行，重复插入不报错
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "video_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(view).Error
}

func (r *engagementRepository) CreateShare(share *model.VideoShare) error {
	return r.db.Create(share).Error
}

func (r *engagementRepository) DeleteByVideo(videoID uint64) error {
	if err := r.db.Exec("DELETE FROM video_likes WHERE video_id = ?", videoID).Error; err != nil {
		return err
	}
	if err := r.db.Exec("DELETE FROM video_views WHERE video_id = ?", videoID).Error; err != nil {
		return err
	}
	return r.db.Exec("DELETE FROM video_shares WHERE video_id = ?", videoID).Error
}

// StatsForVideos 按视频批量推导计数：每类互动一条GROUP BY查询
// 每次刷新都重新数行数，展示值始终与存储一致
func (r *engagementRepository) StatsForVideos(videoIDs []uint64) (map[uint64]VideoStats, error) {
	stats := make(map[uint64]VideoStats, len(videoIDs))
	if len(videoIDs) == 0 {
		return stats, nil
	}
	for _, id := range videoIDs {
		stats[id] = VideoStats{}
	}

	type row struct {
		VideoID uint64
		Count   uint64
	}
	grouped := func(table string) ([]row, error) {
		var rows []row
		err := r.db.Table(table).
			Select("video_id, count(*) as count").
			Where("video_id IN ? AND deleted_at IS NULL", videoIDs).
			Group("video_id").
			Scan(&rows).Error
		return rows, err
	}

	likeRows, err := grouped("video_likes")
	if err != nil {
		return nil, err
	}
	for _, rw := range likeRows {
		s := stats[rw.VideoID]
		s.Likes = rw.Count
		stats[rw.VideoID] = s
	}

	viewRows, err := grouped("video_views")
	if err != nil {
		return nil, err
	}
	for _, rw := range viewRows {
		s := stats[rw.VideoID]
		s.Views = rw.Count
		stats[rw.VideoID] = s
	}

	shareRows, err := grouped("video_shares")
	if err != nil {
		return nil, err
	}
	for _, rw := range shareRows {
		s := stats[rw.VideoID]
		s.Shares = rw.Count
		stats[rw.VideoID] = s
	}

	commentRows, err := grouped("video_comments")
	if err != nil {
		return nil, err
	}
	for _, rw := range commentRows {
		s := stats[rw.VideoID]
		s.Comments = rw.Count
		stats[rw.VideoID] = s
	}

	return stats, nil
}

func (r *engagementRepository) HasLike(videoID, userID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&model.VideoLike{}).
		Where("video_id = ? AND user_id = ?", videoID, userID).
		Count(&count).Error
	return count > 0, err
}

// LikedVideoIDs 查出viewer在一批视频里赞过哪些，feed渲染userLiked用
func (r *engagementRepository) LikedVideoIDs(userID uint64, videoIDs []uint64) (map[uint64]bool, error) {
	liked := make(map[uint64]bool)
	if len(videoIDs) == 0 {
		return liked, nil
	}
	var likes []model.VideoLike
	err := r.db.Where("user_id = ? AND video_id IN ?", userID, videoIDs).Find(&likes).Error
	if err != nil {
		return nil, err
	}
	for _, l := range likes {
		liked[l.VideoID] = true
	}
	return liked, nil
}

func (r *engagementRepository) AddLiker(videoID, userID uint64) error {
	key := keyVideoLikersSet + ":" + strconv.FormatUint(videoID, 10)
	return r.rdb.SAdd(context.Background(), key, strconv.FormatUint(userID, 10)).Err()
}

func (r *engagementRepository) RemoveLiker(videoID, userID uint64) error {
	key := keyVideoLikersSet + ":" + strconv.FormatUint(videoID, 10)
	return r.rdb.SRem(context.Background(), key, strconv.FormatUint(userID, 10)).Err()
}

func (r *engagementRepository) IsLiker(videoID, userID uint64) (bool, error) {
	key := keyVideoLikersSet + ":" + strconv.FormatUint(videoID, 10)
	return r.rdb.SIsMember(context.Background(), key, strconv.FormatUint(userID, 10)).Result()
}

// MarkViewed SAdd的返回值就是新增成员数，0即重复观看
func (r *engagementRepository) MarkViewed(videoID, userID uint64) (bool, error) {
	key := keyVideoViewersSet + ":" + strconv.FormatUint(videoID, 10)
	added, err := r.rdb.SAdd(context.Background(), key, strconv.FormatUint(userID, 10)).Result()
	if err != nil {
		return false, err
	}
	return added > 0, nil
}
