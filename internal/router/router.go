package router

import (
	"Nebula_Vlog/internal/handler"
	"Nebula_Vlog/internal/middleware"
	"Nebula_Vlog/internal/repository"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(
	userHandler handler.UserHandler,
	videoHandler handler.VideoHandler,
	engagementHandler handler.EngagementHandler,
	commentHandler handler.CommentHandler,
	profileHandler handler.ProfileHandler,
	adminHandler handler.AdminHandler,
	roleRepo repository.RoleRepository,
) *gin.Engine {
	r := gin.Default()
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pang",
		})
	})
	apiV1 := r.Group("/api/v1")
	{
		userGroup := apiV1.Group("/users")
		{
			userGroup.POST("/register", userHandler.Register)
			userGroup.POST("/login", userHandler.Login)
		}

		// 未登录也能刷视频和逛主页，带上 token 则额外返回 user_liked 等个性化字段
		public := apiV1.Group("/")
		public.Use(middleware.OptionalAuthMiddleware())
		{
			public.GET("/feed", videoHandler.GetFeed)
			public.GET("/videos/stats", videoHandler.GetBulkStats)
			public.GET("/videos/:video_id", videoHandler.GetVideoByID)
			public.GET("/videos/:video_id/stats", videoHandler.GetStats)
			public.GET("/videos/:video_id/comments", commentHandler.GetComments)
			public.POST("/videos/:video_id/share", engagementHandler.ShareVideo)

			public.GET("/profiles/:username", profileHandler.GetProfile)
			public.GET("/explore/profiles", profileHandler.Explore)
		}

		authorized := apiV1.Group("/")
		authorized.Use(middleware.AuthMiddleware())
		{
			authorized.GET("/users/me", userHandler.GetMe)

			authorized.POST("/videos/:video_id/like", engagementHandler.LikeVideo)
			authorized.DELETE("/videos/:video_id/like", engagementHandler.UnlikeVideo)
			authorized.POST("/videos/:video_id/view", engagementHandler.RecordView)

			authorized.POST("/videos/:video_id/comments", commentHandler.CreateComment)
			authorized.POST("/comments/:comment_id/replies", commentHandler.CreateReply)
			authorized.DELETE("/comments/:comment_id", commentHandler.DeleteComment)
			authorized.POST("/comments/:comment_id/like", commentHandler.LikeComment)
			authorized.DELETE("/comments/:comment_id/like", commentHandler.UnlikeComment)

			authorized.PUT("/profiles/me", profileHandler.UpdateProfile)
			authorized.POST("/profiles/me/avatar", profileHandler.UploadAvatar)
			authorized.POST("/profiles/me/cover", profileHandler.UploadCover)

			authorized.POST("/users/:user_id/follow", profileHandler.Follow)
			authorized.DELETE("/users/:user_id/follow", profileHandler.Unfollow)
		}

		admin := apiV1.Group("/admin")
		admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware(roleRepo))
		{
			admin.GET("/videos", adminHandler.ListVideos)
			admin.POST("/videos", adminHandler.AddVideo)
			admin.DELETE("/videos/:video_id", adminHandler.DeleteVideo)
		}
	}

	return r
}
