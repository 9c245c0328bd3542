package handler

import (
	"Nebula_Vlog/internal/dto"
	"Nebula_Vlog/internal/service"
	"Nebula_Vlog/pkg/logger"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type AdminHandler interface {
	ListVideos(c *gin.Context)
	AddVideo(c *gin.Context)
	DeleteVideo(c *gin.Context)
}

type adminHandler struct {
	AdminService service.AdminService
}

func NewAdminHandler(adminService service.AdminService) AdminHandler {
	return &adminHandler{AdminService: adminService}
}

type AddVideoRequest struct {
	VideoURL string `json:"video_url" binding:"required"`
	Title    string `json:"title"`
}

func (h *adminHandler) ListVideos(c *gin.Context) {
	list, err := h.AdminService.ListVideos()
	if err != nil {
		logger.Log.WithError(err).Error("后台获取视频列表失败")
		sendErrorResponse(c, http.StatusInternalServerError, "获取视频列表失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "成功获取视频列表",
		"data":    dto.ToAdminVideoResponses(list),
	})
}

func (h *adminHandler) AddVideo(c *gin.Context) {
	var req AddVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}

	adminID, _ := currentUserID(c)
	video, err := h.AdminService.AddVideo(&adminID, strings.TrimSpace(req.VideoURL), strings.TrimSpace(req.Title))
	if err != nil {
		if errors.Is(err, service.ErrEmptyVideoURL) {
			sendErrorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		logger.Log.WithError(err).Error("后台添加视频失败")
		sendErrorResponse(c, http.StatusInternalServerError, "添加视频失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "视频添加成功",
		"data": gin.H{
			"id":        video.ID,
			"video_url": video.VideoURL,
			"title":     video.Title,
		},
	})
}

// DeleteVideo 连同互动记录和评论一起清掉，避免留下孤儿行
func (h *adminHandler) DeleteVideo(c *gin.Context) {
	videoID, ok := parseVideoID(c)
	if !ok {
		return
	}

	if err := h.AdminService.DeleteVideo(videoID); err != nil {
		if errors.Is(err, service.ErrVideoNotFound) {
			sendErrorResponse(c, http.StatusNotFound, err.Error())
			return
		}
		logger.Log.WithError(err).WithField("video_id", videoID).Error("后台删除视频失败")
		sendErrorResponse(c, http.StatusInternalServerError, "删除视频失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "视频已删除"})
}
