package worker

import (
	"Nebula_Vlog/internal/model"
	"Nebula_Vlog/internal/repository"
	"Nebula_Vlog/internal/service"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupWorkerDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Video{},
		&model.VideoLike{}, &model.VideoView{}, &model.VideoShare{},
		&model.Comment{},
	))
	return db
}

func countRows(t *testing.T, db *gorm.DB, m interface{}) int64 {
	var n int64
	require.NoError(t, db.Model(m).Count(&n).Error)
	return n
}

func TestHandleViewIdempotent(t *testing.T) {
	db := setupWorkerDB(t)
	w := NewEngagementWorker(db, repository.NewEngagementRepository(db, nil))

	msg := service.ViewMessage{UserID: 1, VideoID: 42}
	// 同一条消息消费两次，表里只能有一行
	require.NoError(t, w.HandleView(msg))
	require.NoError(t, w.HandleView(msg))

	assert.Equal(t, int64(1), countRows(t, db, &model.VideoView{}))
}

func TestHandleLikeThenUnlike(t *testing.T) {
	db := setupWorkerDB(t)
	w := NewEngagementWorker(db, repository.NewEngagementRepository(db, nil))

	require.NoError(t, w.HandleLike(service.LikeMessage{UserID: 1, VideoID: 42, Action: service.ActionLike}))
	assert.Equal(t, int64(1), countRows(t, db, &model.VideoLike{}))

	require.NoError(t, w.HandleLike(service.LikeMessage{UserID: 1, VideoID: 42, Action: service.ActionUnlike}))
	assert.Equal(t, int64(0), countRows(t, db, &model.VideoLike{}))
}

func TestHandleShareAppendOnly(t *testing.T) {
	db := setupWorkerDB(t)
	w := NewEngagementWorker(db, repository.NewEngagementRepository(db, nil))

	msg := service.ShareMessage{UserID: 1, VideoID: 42}
	require.NoError(t, w.HandleShare(msg))
	require.NoError(t, w.HandleShare(msg))

	// 分享不去重，两次就是两行
	assert.Equal(t, int64(2), countRows(t, db, &model.VideoShare{}))
}

func TestIsDuplicateEntry(t *testing.T) {
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
	assert.True(t, IsDuplicateEntry(dup))
	assert.True(t, IsDuplicateEntry(fmt.Errorf("落库失败: %w", dup)))
	assert.False(t, IsDuplicateEntry(&mysql.MySQLError{Number: 1045}))
	assert.False(t, IsDuplicateEntry(fmt.Errorf("别的错误")))
}

func TestDecodeRejectsBadMessage(t *testing.T) {
	_, err := DecodeLike([]byte("not json"))
	assert.ErrorIs(t, err, ErrBadMessage)

	msg, err := DecodeLike([]byte(`{"user_id":1,"video_id":2,"action":"like"}`))
	require.NoError(t, err)
	assert.Equal(t, service.ActionLike, msg.Action)
}

// routingPublisher 把消息直接路由给worker处理，等价于一条零延迟的队列
type routingPublisher struct {
	w *EngagementWorker
}

func (p *routingPublisher) Publish(queue string, body []byte) error {
	switch queue {
	case service.QueueLike:
		msg, err := DecodeLike(body)
		if err != nil {
			return err
		}
		return p.w.HandleLike(msg)
	case service.QueueView:
		msg, err := DecodeView(body)
		if err != nil {
			return err
		}
		return p.w.HandleView(msg)
	case service.QueueShare:
		msg, err := DecodeShare(body)
		if err != nil {
			return err
		}
		return p.w.HandleShare(msg)
	}
	return fmt.Errorf("未知队列: %s", queue)
}

// 一个用户赞了视频A、看了视频B、分享了视频C之后，
// 刷新计数应该分别只影响对应的视频
func TestEngagementPipeline(t *testing.T) {
	db := setupWorkerDB(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	engagementRepo := repository.NewEngagementRepository(db, rdb)
	videoRepo := repository.NewVideoRepository(db, nil)
	pub := &routingPublisher{w: NewEngagementWorker(db, repository.NewEngagementRepository(db, nil))}

	var videos [3]model.Video
	for i := range videos {
		videos[i] = model.Video{Title: fmt.Sprintf("视频%d", i), VideoURL: "https://example.com/v.mp4"}
		require.NoError(t, videoRepo.Create(&videos[i]))
	}
	videoA, videoB, videoC := videos[0].ID, videos[1].ID, videos[2].ID
	userID := uint64(7)

	likeService := service.NewLikeService(videoRepo, engagementRepo, pub)
	viewService := service.NewViewService(videoRepo, engagementRepo, pub)
	shareService := service.NewShareService(videoRepo, pub, "https://vlog.example.com")

	require.NoError(t, likeService.LikeVideo(userID, videoA))
	require.NoError(t, viewService.RecordView(userID, videoB))
	result, err := shareService.ShareVideo(&userID, videoC)
	require.NoError(t, err)
	assert.True(t, result.Recorded)
	assert.Equal(t, fmt.Sprintf("https://vlog.example.com/video/%d/comments", videoC), result.ShareURL)

	stats, err := engagementRepo.StatsForVideos([]uint64{videoA, videoB, videoC})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), stats[videoA].Likes)
	assert.Equal(t, uint64(0), stats[videoA].Views)
	assert.Equal(t, uint64(1), stats[videoB].Views)
	assert.Equal(t, uint64(0), stats[videoB].Likes)
	assert.Equal(t, uint64(1), stats[videoC].Shares)
	assert.Equal(t, uint64(0), stats[videoC].Likes)

	liked, err := engagementRepo.LikedVideoIDs(userID, []uint64{videoA, videoB, videoC})
	require.NoError(t, err)
	assert.True(t, liked[videoA])
	assert.False(t, liked[videoB])
}
