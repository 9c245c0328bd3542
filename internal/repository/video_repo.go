package repository

import (
	"Nebula_Vlog/internal/model"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type VideoRepository interface {
	Create(video *model.Video) error
	Delete(videoID uint64) error
	// FindOldestFirst 首页feed：按创建时间正序
	FindOldestFirst(limit int) ([]model.Video, error)
	// FindLatest 管理面板：按创建时间倒序
	FindLatest(limit int) ([]model.Video, error)
	FindByID(videoID uint64) (*model.Video, error)

	GetVideoCache(videoID uint64) (*model.Video, error)
	SetVideoCache(video *model.Video) error
	DropVideoCache(videoID uint64) error

	WithTx(tx *gorm.DB) VideoRepository
}

type videoRepository struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewVideoRepository(db *gorm.DB, rdb *redis.Client) VideoRepository {
	return &videoRepository{db: db, rdb: rdb}
}

// WithTx 返回绑定到事务的副本，事务中不碰Redis
func (r *videoRepository) WithTx(tx *gorm.DB) VideoRepository {
	return &videoRepository{db: tx}
}

func (r *videoRepository) Create(video *model.Video) error {
	return r.db.Create(video).Error
}

func (r *videoRepository) Delete(videoID uint64) error {
	return r.db.Delete(&model.Video{}, videoID).Error
}

func (r *videoRepository) FindOldestFirst(limit int) ([]model.Video, error) {
	var videos []model.Video
	err := r.db.Order("created_at asc, id asc").Limit(limit).Find(&videos).Error
	return videos, err
}

func (r *videoRepository) FindLatest(limit int) ([]model.Video, error) {
	var videos []model.Video
	err := r.db.Order("created_at desc, id desc").Limit(limit).Find(&videos).Error
	return videos, err
}

// FindByID 先查缓存，未命中再落库并回填
func (r *videoRepository) FindByID(videoID uint64) (*model.Video, error) {
	video, err := r.GetVideoCache(videoID)
	if err == nil && video != nil {
		return video, nil
	}

	var dbVideo model.Video
	if err := r.db.First(&dbVideo, videoID).Error; err != nil {
		return nil, err
	}
	_ = r.SetVideoCache(&dbVideo)
	return &dbVideo, nil
}

func (r *videoRepository) keyVideoInfo(videoID uint64) string {
	return fmt.Sprintf("video:info:%d", videoID)
}

func (r *videoRepository) GetVideoCache(videoID uint64) (*model.Video, error) {
	if r.rdb == nil {
		return nil, nil
	}
	videoJSON, err := r.rdb.Get(context.Background(), r.keyVideoInfo(videoID)).Result()
	if err == redis.Nil {
		return nil, nil // 缓存不存在，Redis本身正常
	} else if err != nil {
		return nil, err
	}
	var video model.Video
	if err := json.Unmarshal([]byte(videoJSON), &video); err != nil {
		return nil, err
	}
	return &video, nil
}

func (r *videoRepository) SetVideoCache(video *model.Video) error {
	if r.rdb == nil {
		return nil
	}
	videoJSON, err := json.Marshal(video)
	if err != nil {
		return err
	}
	// 过期时间加随机抖动，防止缓存雪崩
	expiration := time.Minute*5 + time.Duration(rand.Intn(60))*time.Second
	return r.rdb.Set(context.Background(), r.keyVideoInfo(video.ID), videoJSON, expiration).Err()
}

func (r *videoRepository) DropVideoCache(videoID uint64) error {
	if r.rdb == nil {
		return nil
	}
	return r.rdb.Del(context.Background(), r.keyVideoInfo(videoID)).Err()
}
