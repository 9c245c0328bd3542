package service

import (
	"Nebula_Vlog/internal/data"
	"Nebula_Vlog/internal/model"
	"Nebula_Vlog/internal/repository"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{}, &model.Profile{}, &model.UserRole{},
		&model.Video{},
		&model.VideoLike{}, &model.VideoView{}, &model.VideoShare{},
		&model.Comment{}, &model.CommentLike{},
		&model.Follower{},
	))
	return db
}

func newTestUnitOfWork(db *gorm.DB) data.UnitOfWork {
	return data.NewUnitOfWork(db,
		repository.NewUserRepository(db),
		repository.NewProfileRepository(db),
		repository.NewVideoRepository(db, nil),
		repository.NewCommentRepository(db),
		repository.NewEngagementRepository(db, nil),
	)
}

func createTestVideo(t *testing.T, db *gorm.DB, title string) *model.Video {
	video := &model.Video{Title: title, VideoURL: "https://example.com/v.mp4"}
	require.NoError(t, db.Create(video).Error)
	return video
}

type publishedMessage struct {
	Queue string
	Body  []byte
}

// stubPublisher 只记录消息，不连RabbitMQ
type stubPublisher struct {
	published []publishedMessage
}

func (p *stubPublisher) Publish(queue string, body []byte) error {
	p.published = append(p.published, publishedMessage{Queue: queue, Body: body})
	return nil
}
