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
	"gorm.io/gorm"
)

type VideoHandler interface {
	GetFeed(c *gin.Context)
	GetVideoByID(c *gin.Context)
	GetStats(c *gin.Context)
	GetBulkStats(c *gin.Context)
}

type videoHandler struct {
	FeedService service.FeedService
}

func NewVideoHandler(feedService service.FeedService) VideoHandler {
	return &videoHandler{FeedService: feedService}
}

// GetFeed 首页feed：视频按创建时间正序，带计数和viewer点赞状态
// 查询失败时返回空列表，前端展示空feed而不是崩掉
func (h *videoHandler) GetFeed(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	viewerID := optionalUserID(c)

	feed, err := h.FeedService.GetFeed(viewerID, limit)
	if err != nil {
		logger.Log.WithError(err).Error("获取feed失败")
		c.JSON(http.StatusOK, gin.H{
			"message": "获取feed失败",
			"data":    []dto.FeedVideoResponse{},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "成功获取feed",
		"data":    dto.ToFeedResponse(feed),
	})
}

func (h *videoHandler) GetVideoByID(c *gin.Context) {
	videoID, err := strconv.ParseUint(c.Param("video_id"), 10, 64)
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的视频ID")
		return
	}

	video, err := h.FeedService.GetVideoByID(videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(c, http.StatusNotFound, "视频不存在")
			return
		}
		logger.Log.WithError(err).WithField("video_id", videoID).Error("获取视频失败")
		sendErrorResponse(c, http.StatusInternalServerError, "获取视频失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "成功获取视频",
		"data": gin.H{
			"id":         video.ID,
			"title":      video.Title,
			"video_url":  video.VideoURL,
			"created_at": video.CreatedAt,
		},
	})
}

// GetStats 单个视频的计数刷新
func (h *videoHandler) GetStats(c *gin.Context) {
	videoID, err := strconv.ParseUint(c.Param("video_id"), 10, 64)
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的视频ID")
		return
	}
	h.respondStats(c, []uint64{videoID})
}

// GetBulkStats 批量计数刷新：任何互动落库后，
// 前端带着已加载的视频ID列表来这里整体重拉计数
func (h *videoHandler) GetBulkStats(c *gin.Context) {
	idsParam := c.Query("ids")
	if idsParam == "" {
		sendErrorResponse(c, http.StatusBadRequest, "缺少ids参数")
		return
	}
	var videoIDs []uint64
	for _, part := range strings.Split(idsParam, ",") {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err != nil {
			sendErrorResponse(c, http.StatusBadRequest, "无效的视频ID: "+part)
			return
		}
		videoIDs = append(videoIDs, id)
	}
	h.respondStats(c, videoIDs)
}

func (h *videoHandler) respondStats(c *gin.Context, videoIDs []uint64) {
	viewerID := optionalUserID(c)
	stats, liked, err := h.FeedService.StatsFor(videoIDs, viewerID)
	if err != nil {
		logger.Log.WithError(err).Error("刷新计数失败")
		sendErrorResponse(c, http.StatusInternalServerError, "刷新计数失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "成功获取计数",
		"data":    dto.ToStatsResponse(stats, liked),
	})
}
