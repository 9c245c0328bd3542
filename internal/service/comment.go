package service

import (
	"Nebula_Vlog/internal/data"
	"Nebula_Vlog/internal/model"
	"Nebula_Vlog/internal/repository"
	"errors"

	"gorm.io/gorm"
)

var (
	ErrCommentNotFound = errors.New("评论不存在")
	ErrNotCommentOwner = errors.New("只能删除自己的评论")
	ErrReplyToReply    = errors.New("不能对二级回复再回复")
	ErrCommentLiked    = errors.New("您已经赞过该评论")
	ErrCommentNotLiked = errors.New("您还未赞过该评论")
	ErrEmptyComment    = errors.New("评论内容不能为空")
)

// CommentThread 一个视频的评论编排结果：一级评论 + 挂载好的回复map + 附带数据
type CommentThread struct {
	Parents    []model.Comment
	ReplyMap   map[uint64][]*model.Comment
	Authors    map[uint64]*model.Profile
	LikeCounts map[uint64]uint64
	Liked      map[uint64]bool
}

type CommentService interface {
	CreateComment(userID, videoID uint64, content string) (*model.Comment, error)
	CreateReply(userID, parentID uint64, content string) (*model.Comment, error)
	// DeleteComment 只有作者本人能删；一级评论连带其全部回复在同一事务里删掉
	DeleteComment(userID, commentID uint64) error
	LikeComment(userID, commentID uint64) error
	UnlikeComment(userID, commentID uint64) error
	GetComments(videoID uint64, viewerID *uint64, page, pageSize int) (*CommentThread, error)
}

type commentService struct {
	commentRepo repository.CommentRepository
	videoRepo   repository.VideoRepository
	profileRepo repository.ProfileRepository
	uow         data.UnitOfWork
}

func NewCommentService(commentRepo repository.CommentRepository, videoRepo repository.VideoRepository,
	profileRepo repository.ProfileRepository, uow data.UnitOfWork) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		videoRepo:   videoRepo,
		profileRepo: profileRepo,
		uow:         uow,
	}
}

func (s *commentService) CreateComment(userID, videoID uint64, content string) (*model.Comment, error) {
	if content == "" {
		return nil, ErrEmptyComment
	}
	if _, err := s.videoRepo.FindByID(videoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}

	newComment := &model.Comment{
		UserID:  userID,
		VideoID: videoID,
		Content: content,
		// ParentID零值nil即一级评论
	}
	if err := s.commentRepo.Create(newComment); err != nil {
		return nil, err
	}
	return newComment, nil
}

// CreateReply 回复只能挂在一级评论下，数据模型不禁止更深的嵌套，这里禁止
func (s *commentService) CreateReply(userID, parentID uint64, content string) (*model.Comment, error) {
	if content == "" {
		return nil, ErrEmptyComment
	}
	parent, err := s.commentRepo.FindByID(parentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	if parent.ParentID != nil {
		return nil, ErrReplyToReply
	}

	newReply := &model.Comment{
		UserID:   userID,
		VideoID:  parent.VideoID,
		Content:  content,
		ParentID: &parent.ID,
	}
	if err := s.commentRepo.Create(newReply); err != nil {
		return nil, err
	}
	return newReply, nil
}

// DeleteComment 外部存储没有可见的级联策略，这里选择应用层级联：
// 删一级评论时在同一事务里把回复一起删掉，不留指向已删父级的孤儿
func (s *commentService) DeleteComment(userID, commentID uint64) error {
	comment, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	if comment.UserID != userID {
		return ErrNotCommentOwner
	}

	return s.uow.Execute(func(repos *data.TransactionalRepositories) error {
		if comment.ParentID == nil {
			if err := repos.CommentRepo.DeleteReplies(comment.ID); err != nil {
				return err
			}
		}
		return repos.CommentRepo.DeleteByID(comment.ID)
	})
}

func (s *commentService) LikeComment(userID, commentID uint64) error {
	if _, err := s.commentRepo.FindByID(commentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	liked, err := s.commentRepo.HasCommentLike(commentID, userID)
	if err != nil {
		return err
	}
	if liked {
		return ErrCommentLiked
	}
	return s.commentRepo.CreateCommentLike(&model.CommentLike{CommentID: commentID, UserID: userID})
}

func (s *commentService) UnlikeComment(userID, commentID uint64) error {
	liked, err := s.commentRepo.HasCommentLike(commentID, userID)
	if err != nil {
		return err
	}
	if !liked {
		return ErrCommentNotLiked
	}
	return s.commentRepo.DeleteCommentLike(commentID, userID)
}

// GetComments 评论编排：1、分页查一级评论（新的在前）
// 2、按父ID批量查回复（旧的在前）并挂载 3、批量补作者档案和点赞数据
func (s *commentService) GetComments(videoID uint64, viewerID *uint64, page, pageSize int) (*CommentThread, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 50
	}
	offset := (page - 1) * pageSize

	parents, err := s.commentRepo.TopLevelByVideo(videoID, offset, pageSize)
	if err != nil {
		return nil, err
	}

	thread := &CommentThread{
		Parents:    parents,
		ReplyMap:   map[uint64][]*model.Comment{},
		Authors:    map[uint64]*model.Profile{},
		LikeCounts: map[uint64]uint64{},
		Liked:      map[uint64]bool{},
	}
	if len(parents) == 0 {
		return thread, nil
	}

	parentIDs := make([]uint64, 0, len(parents))
	for _, pc := range parents {
		parentIDs = append(parentIDs, pc.ID)
	}
	replies, err := s.commentRepo.RepliesByParentIDs(parentIDs)
	if err != nil {
		return nil, err
	}
	for i := range replies {
		reply := replies[i]
		if reply.ParentID != nil {
			thread.ReplyMap[*reply.ParentID] = append(thread.ReplyMap[*reply.ParentID], &reply)
		}
	}

	// 作者档案和点赞数据一次性批量查，避免每条评论一个往返
	userIDs := make([]uint64, 0, len(parents)+len(replies))
	commentIDs := make([]uint64, 0, len(parents)+len(replies))
	for _, c := range parents {
		userIDs = append(userIDs, c.UserID)
		commentIDs = append(commentIDs, c.ID)
	}
	for _, c := range replies {
		userIDs = append(userIDs, c.UserID)
		commentIDs = append(commentIDs, c.ID)
	}

	thread.Authors, err = s.profileRepo.FindByUserIDs(userIDs)
	if err != nil {
		return nil, err
	}
	thread.LikeCounts, err = s.commentRepo.CountCommentLikes(commentIDs)
	if err != nil {
		return nil, err
	}
	if viewerID != nil {
		thread.Liked, err = s.commentRepo.LikedCommentIDs(*viewerID, commentIDs)
		if err != nil {
			return nil, err
		}
	}
	return thread, nil
}
