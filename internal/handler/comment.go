package handler

import (
	"Nebula_Vlog/internal/dto"
	"Nebula_Vlog/internal/service"
	"Nebula_Vlog/pkg/logger"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type CommentHandler interface {
	GetComments(c *gin.Context)
	CreateComment(c *gin.Context)
	CreateReply(c *gin.Context)
	DeleteComment(c *gin.Context)
	LikeComment(c *gin.Context)
	UnlikeComment(c *gin.Context)
}

type commentHandler struct {
	CommentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) CommentHandler {
	return &commentHandler{CommentService: commentService}
}

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

func parseCommentID(c *gin.Context) (uint64, bool) {
	commentID, err := strconv.ParseUint(c.Param("comment_id"), 10, 64)
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的评论ID")
		return 0, false
	}
	return commentID, true
}

// GetComments 一个视频的评论树，一级新在前、回复旧在前
func (h *commentHandler) GetComments(c *gin.Context) {
	videoID, ok := parseVideoID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))

	thread, err := h.CommentService.GetComments(videoID, optionalUserID(c), page, pageSize)
	if err != nil {
		logger.Log.WithError(err).WithField("video_id", videoID).Error("获取评论失败")
		sendErrorResponse(c, http.StatusInternalServerError, "获取评论失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "成功获取评论",
		"data":    dto.ToCommentResponses(thread),
	})
}

func (h *commentHandler) CreateComment(c *gin.Context) {
	videoID, ok := parseVideoID(c)
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "用户未认证")
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}

	comment, err := h.CommentService.CreateComment(userID, videoID, strings.TrimSpace(req.Content))
	if err != nil {
		if errors.Is(err, service.ErrVideoNotFound) {
			sendErrorResponse(c, http.StatusNotFound, err.Error())
			return
		}
		if errors.Is(err, service.ErrEmptyComment) {
			sendErrorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		logger.Log.WithError(err).WithField("video_id", videoID).Error("发表评论处理失败")
		sendErrorResponse(c, http.StatusInternalServerError, "评论失败，请稍后再试")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "评论成功",
		"data":    dto.ToSingleCommentResponse(comment),
	})
}

func (h *commentHandler) CreateReply(c *gin.Context) {
	parentID, ok := parseCommentID(c)
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "用户未认证")
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}

	reply, err := h.CommentService.CreateReply(userID, parentID, strings.TrimSpace(req.Content))
	if err != nil {
		if errors.Is(err, service.ErrCommentNotFound) {
			sendErrorResponse(c, http.StatusNotFound, err.Error())
			return
		}
		if errors.Is(err, service.ErrReplyToReply) || errors.Is(err, service.ErrEmptyComment) {
			sendErrorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		logger.Log.WithError(err).WithField("parent_id", parentID).Error("回复评论处理失败")
		sendErrorResponse(c, http.StatusInternalServerError, "回复失败，请稍后再试")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "回复成功",
		"data":    dto.ToSingleCommentResponse(reply),
	})
}

// DeleteComment 只有作者本人能删，别人的评论根本不给删除入口，
// 绕过前端直接调接口也会在这里被拒
func (h *commentHandler) DeleteComment(c *gin.Context) {
	commentID, ok := parseCommentID(c)
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "用户未认证")
		return
	}

	if err := h.CommentService.DeleteComment(userID, commentID); err != nil {
		if errors.Is(err, service.ErrCommentNotFound) {
			sendErrorResponse(c, http.StatusNotFound, err.Error())
			return
		}
		if errors.Is(err, service.ErrNotCommentOwner) {
			sendErrorResponse(c, http.StatusForbidden, err.Error())
			return
		}
		logger.Log.WithError(err).WithField("comment_id", commentID).Error("删除评论处理失败")
		sendErrorResponse(c, http.StatusInternalServerError, "删除失败，请稍后再试")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "评论已删除"})
}

func (h *commentHandler) LikeComment(c *gin.Context) {
	commentID, ok := parseCommentID(c)
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "用户未认证")
		return
	}

	if err := h.CommentService.LikeComment(userID, commentID); err != nil {
		if errors.Is(err, service.ErrCommentNotFound) {
			sendErrorResponse(c, http.StatusNotFound, err.Error())
			return
		}
		if errors.Is(err, service.ErrCommentLiked) {
			sendErrorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		logger.Log.WithError(err).WithField("comment_id", commentID).Error("评论点赞处理失败")
		sendErrorResponse(c, http.StatusInternalServerError, "点赞失败，请稍后再试")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "点赞成功"})
}

func (h *commentHandler) UnlikeComment(c *gin.Context) {
	commentID, ok := parseCommentID(c)
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "用户未认证")
		return
	}

	if err := h.CommentService.UnlikeComment(userID, commentID); err != nil {
		if errors.Is(err, service.ErrCommentNotLiked) {
			sendErrorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		logger.Log.WithError(err).WithField("comment_id", commentID).Error("取消评论点赞处理失败")
		sendErrorResponse(c, http.StatusInternalServerError, "取消点赞失败，请稍后再试")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "取消点赞成功"})
}
