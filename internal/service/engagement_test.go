package service

import (
	"Nebula_Vlog/internal/repository"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupEngagement(t *testing.T) (*gorm.DB, repository.VideoRepository, repository.EngagementRepository, *stubPublisher) {
	db := setupTestDB(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return db, repository.NewVideoRepository(db, nil), repository.NewEngagementRepository(db, rdb), &stubPublisher{}
}

func TestLikeVideoDoubleSubmitRejected(t *testing.T) {
	db, videoRepo, engagementRepo, pub := setupEngagement(t)
	svc := NewLikeService(videoRepo, engagementRepo, pub)
	video := createTestVideo(t, db, "测试视频")

	require.NoError(t, svc.LikeVideo(1, video.ID))
	// 狂点两次，第二次直接被拒，也不会再发消息
	assert.ErrorIs(t, svc.LikeVideo(1, video.ID), ErrAlreadyLiked)
	require.Len(t, pub.published, 1)

	var msg LikeMessage
	require.NoError(t, json.Unmarshal(pub.published[0].Body, &msg))
	assert.Equal(t, QueueLike, pub.published[0].Queue)
	assert.Equal(t, ActionLike, msg.Action)
	assert.Equal(t, video.ID, msg.VideoID)
}

func TestUnlikeWithoutLikeRejected(t *testing.T) {
	db, videoRepo, engagementRepo, pub := setupEngagement(t)
	svc := NewLikeService(videoRepo, engagementRepo, pub)
	video := createTestVideo(t, db, "测试视频")

	assert.ErrorIs(t, svc.UnlikeVideo(1, video.ID), ErrNotLiked)
	assert.Empty(t, pub.published)
}

func TestLikeUnlikeInvolution(t *testing.T) {
	db, videoRepo, engagementRepo, pub := setupEngagement(t)
	svc := NewLikeService(videoRepo, engagementRepo, pub)
	video := createTestVideo(t, db, "测试视频")

	require.NoError(t, svc.LikeVideo(1, video.ID))
	require.NoError(t, svc.UnlikeVideo(1, video.ID))
	// 取消之后可以再赞
	require.NoError(t, svc.LikeVideo(1, video.ID))
	assert.Len(t, pub.published, 3)
}

func TestLikeUnknownVideo(t *testing.T) {
	_, videoRepo, engagementRepo, pub := setupEngagement(t)
	svc := NewLikeService(videoRepo, engagementRepo, pub)

	assert.ErrorIs(t, svc.LikeVideo(1, 999), ErrVideoNotFound)
	assert.Empty(t, pub.published)
}

func TestRecordViewOnlyFirstTimePublishes(t *testing.T) {
	db, videoRepo, engagementRepo, pub := setupEngagement(t)
	svc := NewViewService(videoRepo, engagementRepo, pub)
	video := createTestVideo(t, db, "测试视频")

	// 快速滚动场景：同一视频被上报三次，只有第一次进队列
	require.NoError(t, svc.RecordView(1, video.ID))
	require.NoError(t, svc.RecordView(1, video.ID))
	require.NoError(t, svc.RecordView(1, video.ID))
	assert.Len(t, pub.published, 1)

	// 换个用户是新的一次观看
	require.NoError(t, svc.RecordView(2, video.ID))
	assert.Len(t, pub.published, 2)
}

func TestShareVideoAnonymous(t *testing.T) {
	db, videoRepo, _, pub := setupEngagement(t)
	svc := NewShareService(videoRepo, pub, "https://vlog.example.com")
	video := createTestVideo(t, db, "测试视频")

	// 匿名用户拿得到链接，但不落分享行
	result, err := svc.ShareVideo(nil, video.ID)
	require.NoError(t, err)
	assert.False(t, result.Recorded)
	assert.Equal(t, fmt.Sprintf("https://vlog.example.com/video/%d/comments", video.ID), result.ShareURL)
	assert.Empty(t, pub.published)
}

func TestShareVideoRepeatedCountsEachTime(t *testing.T) {
	db, videoRepo, _, pub := setupEngagement(t)
	svc := NewShareService(videoRepo, pub, "https://vlog.example.com")
	video := createTestVideo(t, db, "测试视频")
	userID := uint64(1)

	for i := 0; i < 3; i++ {
		result, err := svc.ShareVideo(&userID, video.ID)
		require.NoError(t, err)
		assert.True(t, result.Recorded)
	}
	assert.Len(t, pub.published, 3)
}
