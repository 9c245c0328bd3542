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

// 头像和封面走 multipart 上传，限制 5MB，超出直接拒绝
const maxImageSize = 5 << 20

type ProfileHandler interface {
	GetProfile(c *gin.Context)
	UpdateProfile(c *gin.Context)
	UploadAvatar(c *gin.Context)
	UploadCover(c *gin.Context)
	Follow(c *gin.Context)
	Unfollow(c *gin.Context)
	Explore(c *gin.Context)
}

type profileHandler struct {
	ProfileService service.ProfileService
	FollowService  service.FollowService
}

func NewProfileHandler(profileService service.ProfileService, followService service.FollowService) ProfileHandler {
	return &profileHandler{
		ProfileService: profileService,
		FollowService:  followService,
	}
}

type UpdateProfileRequest struct {
	DisplayName string `json:"display_name" binding:"required"`
	Bio         string `json:"bio"`
}

func (h *profileHandler) GetProfile(c *gin.Context) {
	username := strings.TrimSpace(c.Param("username"))
	if username == "" {
		sendErrorResponse(c, http.StatusBadRequest, "无效的用户名")
		return
	}

	view, err := h.ProfileService.GetByUsername(username, optionalUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			sendErrorResponse(c, http.StatusNotFound, err.Error())
			return
		}
		logger.Log.WithError(err).WithField("username", username).Error("获取个人主页失败")
		sendErrorResponse(c, http.StatusInternalServerError, "获取个人主页失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "成功获取个人主页",
		"data":    dto.ToProfileResponse(view),
	})
}

func (h *profileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "用户未认证")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}

	profile, err := h.ProfileService.UpdateProfile(userID, strings.TrimSpace(req.DisplayName), req.Bio)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Error("更新个人资料失败")
		sendErrorResponse(c, http.StatusInternalServerError, "更新失败，请稍后再试")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "资料更新成功",
		"data": gin.H{
			"display_name": profile.DisplayName,
			"bio":          profile.Bio,
		},
	})
}

func (h *profileHandler) UploadAvatar(c *gin.Context) {
	h.uploadImage(c, "avatar")
}

func (h *profileHandler) UploadCover(c *gin.Context) {
	h.uploadImage(c, "cover")
}

func (h *profileHandler) uploadImage(c *gin.Context, kind string) {
	userID, ok := currentUserID(c)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "用户未认证")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "请选择要上传的图片")
		return
	}
	if fileHeader.Size > maxImageSize {
		sendErrorResponse(c, http.StatusBadRequest, "图片大小不能超过5MB")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "读取上传文件失败")
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	var publicURL string
	if kind == "avatar" {
		publicURL, err = h.ProfileService.UploadAvatar(c.Request.Context(), userID, fileHeader.Filename, contentType, file, fileHeader.Size)
	} else {
		publicURL, err = h.ProfileService.UploadCover(c.Request.Context(), userID, fileHeader.Filename, contentType, file, fileHeader.Size)
	}
	if err != nil {
		logger.Log.WithError(err).WithFields(map[string]interface{}{
			"user_id": userID,
			"kind":    kind,
		}).Error("上传图片失败")
		sendErrorResponse(c, http.StatusInternalServerError, "上传失败，请稍后再试")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "上传成功",
		"data":    gin.H{"url": publicURL},
	})
}

func parseTargetUserID(c *gin.Context) (uint64, bool) {
	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的用户ID")
		return 0, false
	}
	return targetID, true
}

func (h *profileHandler) Follow(c *gin.Context) {
	targetID, ok := parseTargetUserID(c)
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "用户未认证")
		return
	}

	if err := h.FollowService.Follow(userID, targetID); err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			sendErrorResponse(c, http.StatusNotFound, err.Error())
			return
		}
		if errors.Is(err, service.ErrAlreadyFollowing) {
			sendErrorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		logger.Log.WithError(err).WithFields(map[string]interface{}{
			"follower_id": userID,
			"target_id":   targetID,
		}).Error("关注处理失败")
		sendErrorResponse(c, http.StatusInternalServerError, "关注失败，请稍后再试")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "关注成功"})
}

func (h *profileHandler) Unfollow(c *gin.Context) {
	targetID, ok := parseTargetUserID(c)
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "用户未认证")
		return
	}

	if err := h.FollowService.Unfollow(userID, targetID); err != nil {
		if errors.Is(err, service.ErrNotFollowing) {
			sendErrorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		logger.Log.WithError(err).WithFields(map[string]interface{}{
			"follower_id": userID,
			"target_id":   targetID,
		}).Error("取消关注处理失败")
		sendErrorResponse(c, http.StatusInternalServerError, "取消关注失败，请稍后再试")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "已取消关注"})
}

// Explore 按用户名或昵称模糊搜索，搜索词为空时返回空列表而不是报错
func (h *profileHandler) Explore(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusOK, gin.H{
			"message": "成功",
			"data":    []dto.SearchProfileResponse{},
		})
		return
	}

	profiles, following, err := h.ProfileService.Search(query, optionalUserID(c))
	if err != nil {
		logger.Log.WithError(err).WithField("query", query).Error("搜索用户失败")
		sendErrorResponse(c, http.StatusInternalServerError, "搜索失败，请稍后再试")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "成功",
		"data":    dto.ToSearchProfileResponses(profiles, following),
	})
}
