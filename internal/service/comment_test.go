package service

import (
	"Nebula_Vlog/internal/model"
	"Nebula_Vlog/internal/repository"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCommentService(t *testing.T) (*gorm.DB, CommentService) {
	db := setupTestDB(t)
	svc := NewCommentService(
		repository.NewCommentRepository(db),
		repository.NewVideoRepository(db, nil),
		repository.NewProfileRepository(db),
		newTestUnitOfWork(db),
	)
	return db, svc
}

func TestCommentThreadOrdering(t *testing.T) {
	db, svc := setupCommentService(t)
	video := createTestVideo(t, db, "测试视频")

	// 三条一级评论，第一条下面挂两条回复
	first, err := svc.CreateComment(1, video.ID, "一楼")
	require.NoError(t, err)
	_, err = svc.CreateComment(2, video.ID, "二楼")
	require.NoError(t, err)
	_, err = svc.CreateComment(3, video.ID, "三楼")
	require.NoError(t, err)

	replyA, err := svc.CreateReply(2, first.ID, "先回的")
	require.NoError(t, err)
	replyB, err := svc.CreateReply(3, first.ID, "后回的")
	require.NoError(t, err)

	thread, err := svc.GetComments(video.ID, nil, 1, 50)
	require.NoError(t, err)

	// 一级评论新的在前
	require.Len(t, thread.Parents, 3)
	assert.Equal(t, "三楼", thread.Parents[0].Content)
	assert.Equal(t, "二楼", thread.Parents[1].Content)
	assert.Equal(t, "一楼", thread.Parents[2].Content)

	// 回复挂在父级下面，旧的在前
	replies := thread.ReplyMap[first.ID]
	require.Len(t, replies, 2)
	assert.Equal(t, replyA.ID, replies[0].ID)
	assert.Equal(t, replyB.ID, replies[1].ID)
}

func TestReplyToReplyRejected(t *testing.T) {
	db, svc := setupCommentService(t)
	video := createTestVideo(t, db, "测试视频")

	parent, err := svc.CreateComment(1, video.ID, "一级评论")
	require.NoError(t, err)
	reply, err := svc.CreateReply(2, parent.ID, "二级回复")
	require.NoError(t, err)

	// 只允许一层嵌套
	_, err = svc.CreateReply(3, reply.ID, "三级回复")
	assert.ErrorIs(t, err, ErrReplyToReply)
}

func TestCreateCommentGuards(t *testing.T) {
	db, svc := setupCommentService(t)
	video := createTestVideo(t, db, "测试视频")

	_, err := svc.CreateComment(1, video.ID, "")
	assert.ErrorIs(t, err, ErrEmptyComment)
	_, err = svc.CreateComment(1, 999, "评论不存在的视频")
	assert.ErrorIs(t, err, ErrVideoNotFound)
	_, err = svc.CreateReply(1, 999, "回复不存在的评论")
	assert.ErrorIs(t, err, ErrCommentNotFound)
}

func TestDeleteCommentOwnerOnly(t *testing.T) {
	db, svc := setupCommentService(t)
	video := createTestVideo(t, db, "测试视频")

	comment, err := svc.CreateComment(1, video.ID, "我的评论")
	require.NoError(t, err)

	// 别人删不掉
	assert.ErrorIs(t, svc.DeleteComment(2, comment.ID), ErrNotCommentOwner)
	// 本人可以删
	require.NoError(t, svc.DeleteComment(1, comment.ID))
	assert.ErrorIs(t, svc.DeleteComment(1, comment.ID), ErrCommentNotFound)
}

func TestDeleteCommentCascadesReplies(t *testing.T) {
	db, svc := setupCommentService(t)
	video := createTestVideo(t, db, "测试视频")

	parent, err := svc.CreateComment(1, video.ID, "一级评论")
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err = svc.CreateReply(2, parent.ID, fmt.Sprintf("回复%d", i))
		require.NoError(t, err)
	}
	_, err = svc.CreateComment(2, video.ID, "无关评论")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteComment(1, parent.ID))

	// 回复随父级一起删掉，不留孤儿；无关评论不受影响
	var n int64
	require.NoError(t, db.Model(&model.Comment{}).Where("video_id = ?", video.ID).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestCommentLikeGuards(t *testing.T) {
	db, svc := setupCommentService(t)
	video := createTestVideo(t, db, "测试视频")

	comment, err := svc.CreateComment(1, video.ID, "一级评论")
	require.NoError(t, err)

	require.NoError(t, svc.LikeComment(2, comment.ID))
	assert.ErrorIs(t, svc.LikeComment(2, comment.ID), ErrCommentLiked)

	viewer := uint64(2)
	thread, err := svc.GetComments(video.ID, &viewer, 1, 50)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), thread.LikeCounts[comment.ID])
	assert.True(t, thread.Liked[comment.ID])

	require.NoError(t, svc.UnlikeComment(2, comment.ID))
	assert.ErrorIs(t, svc.UnlikeComment(2, comment.ID), ErrCommentNotLiked)
}
