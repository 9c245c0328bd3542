package handler

import (
	"Nebula_Vlog/internal/service"
	"Nebula_Vlog/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

type UserHandler interface {
	Register(c *gin.Context)
	Login(c *gin.Context)
	GetMe(c *gin.Context)
}

type userHandler struct {
	UserService service.UserService
}

func NewUserHandler(userService service.UserService) UserHandler {
	return &userHandler{UserService: userService}
}

type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	DisplayName string `json:"display_name"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register 注册：1、解析请求 2、service层建User+Profile 3、返回新档案
func (h *userHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.WithError(err).Error("注册请求参数解析失败")
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}

	logCtx := logger.Log.WithField("email", req.Email)
	logCtx.Info("开始处理用户注册请求")

	user, profile, err := h.UserService.Register(req.Email, req.Password, req.DisplayName)
	if err != nil {
		logCtx.WithError(err).Error("用户注册业务逻辑处理失败")
		sendErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	logCtx.WithField("user_id", user.ID).Info("用户注册成功")

	c.JSON(http.StatusOK, gin.H{
		"message": "注册成功",
		"data": gin.H{
			"id":       user.ID,
			"email":    user.Email,
			"username": profile.Username,
		},
	})
}

// Login 登录：成功返回token
func (h *userHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.WithError(err).Error("登录请求参数解析失败")
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}

	logCtx := logger.Log.WithField("email", req.Email)
	logCtx.Info("开始处理用户登录请求")

	token, err := h.UserService.Login(req.Email, req.Password)
	if err != nil {
		logCtx.WithError(err).Error("用户登录业务逻辑处理失败")
		// 模糊的错误提示，更安全
		sendErrorResponse(c, http.StatusUnauthorized, "邮箱或密码错误")
		return
	}

	logCtx.Info("用户登录成功")

	c.JSON(http.StatusOK, gin.H{
		"message": "登录成功",
		"data": gin.H{
			"token": token,
		},
	})
}

// GetMe 返回当前会话对应的用户身份
func (h *userHandler) GetMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "用户未认证")
		return
	}
	email, _ := c.Get("email")

	c.JSON(http.StatusOK, gin.H{
		"message": "成功获取用户信息",
		"data": gin.H{
			"user_id": userID,
			"email":   email,
		},
	})
}
