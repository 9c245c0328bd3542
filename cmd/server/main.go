package main

import (
	"Nebula_Vlog/internal/data"
	"Nebula_Vlog/internal/handler"
	"Nebula_Vlog/internal/model"
	"Nebula_Vlog/internal/repository"
	"Nebula_Vlog/internal/router"
	"Nebula_Vlog/internal/service"
	"Nebula_Vlog/pkg/config"
	"Nebula_Vlog/pkg/logger"
	"Nebula_Vlog/pkg/rabbitmq"
	"Nebula_Vlog/pkg/redis"
	"Nebula_Vlog/pkg/storage"
	"log"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func main() {
	// 加载.env文件
	err := godotenv.Load()
	if err != nil {
		log.Println(".env文件加载失败，使用环境变量")
	}
	// 初始化logger
	logger.InitLogger()

	// 初始化Redis
	redisClient, err := redis.InitRedis()
	if err != nil {
		logger.Log.Fatalf("无法连接到Redis: %v", err)
	}
	logger.Log.Info("Redis连接成功")

	// 初始化RabbitMQ
	rabbitMQConn, err := rabbitmq.InitRabbitMQ()
	if err != nil {
		logger.Log.Fatalf("无法连接到RabbitMQ: %v", err)
	}
	defer rabbitMQConn.Close()
	logger.Log.Info("RabbitMQ连接成功")

	// API侧只发消息，队列在这里先声明好，consumer没起也不丢消息
	publisher, err := rabbitmq.NewPublisher(rabbitMQConn,
		service.QueueLike, service.QueueView, service.QueueShare)
	if err != nil {
		logger.Log.Fatalf("无法声明消息队列: %v", err)
	}

	// 初始化MinIO对象存储，头像和封面图都存这里
	store, err := storage.InitStorage()
	if err != nil {
		logger.Log.Fatalf("无法连接到对象存储: %v", err)
	}
	logger.Log.Info("对象存储连接成功")

	db, err := gorm.Open(mysql.Open(config.MySQLDSN()), &gorm.Config{})
	if err != nil {
		logger.Log.Fatalf("无法连接到数据库: %v", err)
	}
	logger.Log.Info("数据库连接成功")

	err = db.AutoMigrate(
		&model.User{}, &model.Profile{}, &model.UserRole{},
		&model.Video{},
		&model.VideoLike{}, &model.VideoView{}, &model.VideoShare{},
		&model.Comment{}, &model.CommentLike{},
		&model.Follower{},
	)
	if err != nil {
		logger.Log.Fatalf("数据库迁移失败: %v", err)
	}
	logger.Log.Info("数据库迁移成功")

	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	videoRepo := repository.NewVideoRepository(db, redisClient)
	commentRepo := repository.NewCommentRepository(db)
	engagementRepo := repository.NewEngagementRepository(db, redisClient)
	followRepo := repository.NewFollowRepository(db)
	roleRepo := repository.NewRoleRepository(db)

	uow := data.NewUnitOfWork(db, userRepo, profileRepo, videoRepo, commentRepo, engagementRepo)

	userService := service.NewUserService(userRepo, profileRepo, uow)
	feedService := service.NewFeedService(videoRepo, engagementRepo, profileRepo)
	likeService := service.NewLikeService(videoRepo, engagementRepo, publisher)
	viewService := service.NewViewService(videoRepo, engagementRepo, publisher)
	shareService := service.NewShareService(videoRepo, publisher, config.PublicBaseURL())
	commentService := service.NewCommentService(commentRepo, videoRepo, profileRepo, uow)
	profileService := service.NewProfileService(profileRepo, followRepo, store)
	followService := service.NewFollowService(followRepo, userRepo)
	adminService := service.NewAdminService(videoRepo, engagementRepo, uow)

	userHandler := handler.NewUserHandler(userService)
	videoHandler := handler.NewVideoHandler(feedService)
	engagementHandler := handler.NewEngagementHandler(likeService, viewService, shareService)
	commentHandler := handler.NewCommentHandler(commentService)
	profileHandler := handler.NewProfileHandler(profileService, followService)
	adminHandler := handler.NewAdminHandler(adminService)

	r := router.SetupRouter(userHandler, videoHandler, engagementHandler,
		commentHandler, profileHandler, adminHandler, roleRepo)
	logger.Log.Println("服务器将在: 8080端口启动")

	if err := r.Run(":8080"); err != nil {
		logger.Log.Fatalf("服务器启动失败: %v", err)
	}
}
