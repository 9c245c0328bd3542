package repository

import (
	"Nebula_Vlog/internal/model"

	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(comment *model.Comment) error
	FindByID(commentID uint64) (*model.Comment, error)
	// TopLevelByVideo 一级评论，新的在前
	TopLevelByVideo(videoID uint64, offset, limit int) ([]model.Comment, error)
	// RepliesByParentIDs 二级回复，按时间正序
	RepliesByParentIDs(parentIDs []uint64) ([]model.Comment, error)
	DeleteByID(commentID uint64) error
	// DeleteReplies 删除某个一级评论下的全部回复
	DeleteReplies(parentID uint64) error
	DeleteByVideo(videoID uint64) error

	CreateCommentLike(like *model.CommentLike) error
	DeleteCommentLike(commentID, userID uint64) error
	HasCommentLike(commentID, userID uint64) (bool, error)
	CountCommentLikes(commentIDs []uint64) (map[uint64]uint64, error)
	LikedCommentIDs(userID uint64, commentIDs []uint64) (map[uint64]bool, error)

	WithTx(tx *gorm.DB) CommentRepository
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// WithTx 返回一个新的、使用事务的 commentRepository 实例
func (r *commentRepository) WithTx(tx *gorm.DB) CommentRepository {
	return &commentRepository{db: tx}
}

func (r *commentRepository) Create(comment *model.Comment) error {
	return r.db.Create(comment).Error
}

func (r *commentRepository) FindByID(commentID uint64) (*model.Comment, error) {
	var result model.Comment
	err := r.db.First(&result, commentID).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *commentRepository) TopLevelByVideo(videoID uint64, offset, limit int) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.db.
		Where("video_id = ? AND parent_id IS NULL", videoID).
		Offset(offset).
		Limit(limit).
		Order("created_at desc, id desc").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) RepliesByParentIDs(parentIDs []uint64) ([]model.Comment, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	var replies []model.Comment
	err := r.db.
		Where("parent_id IN ?", parentIDs).
		Order("created_at asc, id asc").
		Find(&replies).Error
	return replies, err
}

func (r *commentRepository) DeleteByID(commentID uint64) error {
	return r.db.Delete(&model.Comment{}, commentID).Error
}

func (r *commentRepository) DeleteReplies(parentID uint64) error {
	return r.db.Where("parent_id = ?", parentID).Delete(&model.Comment{}).Error
}

func (r *commentRepository) DeleteByVideo(videoID uint64) error {
	return r.db.Where("video_id = ?", videoID).Delete(&model.Comment{}).Error
}

func (r *commentRepository) CreateCommentLike(like *model.CommentLike) error {
	return r.db.Create(like).Error
}

func (r *commentRepository) DeleteCommentLike(commentID, userID uint64) error {
	return r.db.Exec("DELETE FROM comment_likes WHERE comment_id = ? AND user_id = ?", commentID, userID).Error
}

func (r *commentRepository) HasCommentLike(commentID, userID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&model.CommentLike{}).
		Where("comment_id = ? AND user_id = ?", commentID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *commentRepository) CountCommentLikes(commentIDs []uint64) (map[uint64]uint64, error) {
	counts := make(map[uint64]uint64)
	if len(commentIDs) == 0 {
		return counts, nil
	}
	type row struct {
		CommentID uint64
		Count     uint64
	}
	var rows []row
	err := r.db.Model(&model.CommentLike{}).
		Select("comment_id, count(*) as count").
		Where("comment_id IN ?", commentIDs).
		Group("comment_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, rw := range rows {
		counts[rw.CommentID] = rw.Count
	}
	return counts, nil
}

func (r *commentRepository) LikedCommentIDs(userID uint64, commentIDs []uint64) (map[uint64]bool, error) {
	liked := make(map[uint64]bool)
	if len(commentIDs) == 0 {
		return liked, nil
	}
	var likes []model.CommentLike
	err := r.db.Where("user_id = ? AND comment_id IN ?", userID, commentIDs).Find(&likes).Error
	if err != nil {
		return nil, err
	}
	for _, l := range likes {
		liked[l.CommentID] = true
	}
	return liked, nil
}
