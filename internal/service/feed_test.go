package service

import (
	"Nebula_Vlog/internal/model"
	"Nebula_Vlog/internal/repository"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupFeedService(t *testing.T) (*gorm.DB, FeedService) {
	db := setupTestDB(t)
	svc := NewFeedService(
		repository.NewVideoRepository(db, nil),
		repository.NewEngagementRepository(db, nil),
		repository.NewProfileRepository(db),
	)
	return db, svc
}

func TestGetFeedOldestFirst(t *testing.T) {
	db, svc := setupFeedService(t)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		video := model.Video{
			Title:    fmt.Sprintf("视频%d", i),
			VideoURL: "https://example.com/v.mp4",
		}
		video.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, db.Create(&video).Error)
	}

	feed, err := svc.GetFeed(nil, 50)
	require.NoError(t, err)
	require.Len(t, feed.Videos, 5)
	// 老视频在前，新视频追加到feed末尾
	for i := 0; i < 5; i++ {
		assert.Equal(t, fmt.Sprintf("视频%d", i), feed.Videos[i].Title)
	}
}

func TestStatsDerivedFromRows(t *testing.T) {
	db, svc := setupFeedService(t)
	video := createTestVideo(t, db, "测试视频")
	other := createTestVideo(t, db, "对照视频")

	for userID := uint64(1); userID <= 3; userID++ {
		require.NoError(t, db.Create(&model.VideoLike{UserID: userID, VideoID: video.ID}).Error)
	}
	require.NoError(t, db.Create(&model.VideoView{UserID: 1, VideoID: video.ID}).Error)
	require.NoError(t, db.Create(&model.VideoView{UserID: 2, VideoID: video.ID}).Error)
	require.NoError(t, db.Create(&model.VideoShare{UserID: 1, VideoID: video.ID}).Error)
	require.NoError(t, db.Create(&model.Comment{UserID: 1, VideoID: video.ID, Content: "评论"}).Error)

	viewer := uint64(1)
	stats, liked, err := svc.StatsFor([]uint64{video.ID, other.ID}, &viewer)
	require.NoError(t, err)

	// 计数直接来自行数
	assert.Equal(t, uint64(3), stats[video.ID].Likes)
	assert.Equal(t, uint64(2), stats[video.ID].Views)
	assert.Equal(t, uint64(1), stats[video.ID].Shares)
	assert.Equal(t, uint64(1), stats[video.ID].Comments)
	assert.Equal(t, repository.VideoStats{}, stats[other.ID])

	assert.True(t, liked[video.ID])
	assert.False(t, liked[other.ID])
}

// 缓存击穿场景：大量goroutine同时请求同一个未缓存的视频，
// SingleFlight应该把回源合并成少数几次查询
func BenchmarkGetVideoByIDSingleflight(b *testing.B) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		b.Fatalf("无法打开数据库: %v", err)
	}
	if err := db.AutoMigrate(&model.Video{}); err != nil {
		b.Fatalf("数据库迁移失败: %v", err)
	}

	mr := miniredis.RunT(b)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	videoRepo := repository.NewVideoRepository(db, rdb)
	svc := NewFeedService(videoRepo, repository.NewEngagementRepository(db, rdb), repository.NewProfileRepository(db))

	video := model.Video{Title: "热门视频", VideoURL: "https://example.com/v.mp4"}
	if err := db.Create(&video).Error; err != nil {
		b.Fatalf("创建视频失败: %v", err)
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := svc.GetVideoByID(video.ID); err != nil {
				b.Errorf("GetVideoByID failed: %v", err)
			}
		}
	})
}

func TestFeedCarriesAuthorsAndLiked(t *testing.T) {
	db, svc := setupFeedService(t)

	owner := model.User{Email: "owner@example.com", Password: "x"}
	require.NoError(t, db.Create(&owner).Error)
	require.NoError(t, db.Create(&model.Profile{
		UserID: owner.ID, Username: "owner", DisplayName: "创作者",
	}).Error)

	video := model.Video{UserID: &owner.ID, Title: "带作者的视频", VideoURL: "https://example.com/v.mp4"}
	require.NoError(t, db.Create(&video).Error)
	require.NoError(t, db.Create(&model.VideoLike{UserID: 9, VideoID: video.ID}).Error)

	viewer := uint64(9)
	feed, err := svc.GetFeed(&viewer, 50)
	require.NoError(t, err)
	require.Len(t, feed.Videos, 1)

	author, ok := feed.Authors[owner.ID]
	require.True(t, ok)
	assert.Equal(t, "创作者", author.DisplayName)
	assert.True(t, feed.Liked[video.ID])
	assert.Equal(t, uint64(1), feed.Stats[video.ID].Likes)
}
