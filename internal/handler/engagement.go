package handler

import (
	"Nebula_Vlog/internal/service"
	"Nebula_Vlog/pkg/logger"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type EngagementHandler interface {
	LikeVideo(c *gin.Context)
	UnlikeVideo(c *gin.Context)
	RecordView(c *gin.Context)
	ShareVideo(c *gin.Context)
}

type engagementHandler struct {
	LikeService  service.LikeService
	ViewService  service.ViewService
	ShareService service.ShareService
}

func NewEngagementHandler(likeService service.LikeService, viewService service.ViewService,
	shareService service.ShareService) EngagementHandler {
	return &engagementHandler{
		LikeService:  likeService,
		ViewService:  viewService,
		ShareService: shareService,
	}
}

func parseVideoID(c *gin.Context) (uint64, bool) {
	videoID, err := strconv.ParseUint(c.Param("video_id"), 10, 64)
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的视频ID")
		return 0, false
	}
	return videoID, true
}

// LikeVideo 点赞。已赞/视频不存在这类业务拒绝返回400，其余算系统错误
func (h *engagementHandler) LikeVideo(c *gin.Context) {
	videoID, ok := parseVideoID(c)
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "用户未认证")
		return
	}

	logCtx := logger.Log.WithField("user_id", userID).WithField("video_id", videoID)

	if err := h.LikeService.LikeVideo(userID, videoID); err != nil {
		if errors.Is(err, service.ErrVideoNotFound) {
			sendErrorResponse(c, http.StatusNotFound, err.Error())
			return
		}
		if errors.Is(err, service.ErrAlreadyLiked) {
			sendErrorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		logCtx.WithError(err).Error("点赞处理失败")
		sendErrorResponse(c, http.StatusInternalServerError, "点赞失败，请稍后再试")
		return
	}

	logCtx.Info("点赞成功")
	c.JSON(http.StatusOK, gin.H{"message": "点赞成功"})
}

func (h *engagementHandler) UnlikeVideo(c *gin.Context) {
	videoID, ok := parseVideoID(c)
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "用户未认证")
		return
	}

	logCtx := logger.Log.WithField("user_id", userID).WithField("video_id", videoID)

	if err := h.LikeService.UnlikeVideo(userID, videoID); err != nil {
		if errors.Is(err, service.ErrVideoNotFound) {
			sendErrorResponse(c, http.StatusNotFound, err.Error())
			return
		}
		if errors.Is(err, service.ErrNotLiked) {
			sendErrorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		logCtx.WithError(err).Error("取消点赞处理失败")
		sendErrorResponse(c, http.StatusInternalServerError, "取消点赞失败，请稍后再试")
		return
	}

	logCtx.Info("取消点赞成功")
	c.JSON(http.StatusOK, gin.H{"message": "取消点赞成功"})
}

// RecordView 观看上报，幂等：重复上报也返回成功
func (h *engagementHandler) RecordView(c *gin.Context) {
	videoID, ok := parseVideoID(c)
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "用户未认证")
		return
	}

	if err := h.ViewService.RecordView(userID, videoID); err != nil {
		if errors.Is(err, service.ErrVideoNotFound) {
			sendErrorResponse(c, http.StatusNotFound, err.Error())
			return
		}
		logger.Log.WithError(err).WithField("video_id", videoID).Error("观看上报处理失败")
		sendErrorResponse(c, http.StatusInternalServerError, "观看上报失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "观看已记录"})
}

// ShareVideo 匿名也能拿到规范链接；登录用户追加一条分享事件
func (h *engagementHandler) ShareVideo(c *gin.Context) {
	videoID, ok := parseVideoID(c)
	if !ok {
		return
	}
	viewerID := optionalUserID(c)

	result, err := h.ShareService.ShareVideo(viewerID, videoID)
	if err != nil {
		if errors.Is(err, service.ErrVideoNotFound) {
			sendErrorResponse(c, http.StatusNotFound, err.Error())
			return
		}
		logger.Log.WithError(err).WithField("video_id", videoID).Error("分享处理失败")
		sendErrorResponse(c, http.StatusInternalServerError, "分享失败，请稍后再试")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "分享成功",
		"data": gin.H{
			"share_url": result.ShareURL,
			"recorded":  result.Recorded,
		},
	})
}
