package main

import (
	"Nebula_Vlog/internal/repository"
	"Nebula_Vlog/internal/service"
	"Nebula_Vlog/internal/worker"
	"Nebula_Vlog/pkg/config"
	"Nebula_Vlog/pkg/logger"
	"Nebula_Vlog/pkg/rabbitmq"
	"log"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// 消费者进程：把API侧写进MQ的点赞/观看/分享消息持久化到MySQL。
// API只碰Redis和MQ，行都是在这里插的
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env文件加载失败，使用环境变量")
	}
	logger.InitLogger()

	db, err := gorm.Open(mysql.Open(config.MySQLDSN()), &gorm.Config{})
	if err != nil {
		logger.Log.Fatalf("消费者无法连接到数据库: %v", err)
	}

	rabbitMQConn, err := rabbitmq.InitRabbitMQ()
	if err != nil {
		logger.Log.Fatalf("消费者无法连接到RabbitMQ: %v", err)
	}
	defer rabbitMQConn.Close()

	// 队列声明是幂等的，消费者先起也不会报错
	if _, err := rabbitmq.NewPublisher(rabbitMQConn,
		service.QueueLike, service.QueueView, service.QueueShare); err != nil {
		logger.Log.Fatalf("无法声明消息队列: %v", err)
	}

	// consumer不碰Redis，rdb传nil
	engagementRepo := repository.NewEngagementRepository(db, nil)
	w := worker.NewEngagementWorker(db, engagementRepo)

	go func() {
		err := w.Consume(rabbitMQConn, service.QueueLike, func(body []byte) error {
			msg, err := worker.DecodeLike(body)
			if err != nil {
				return err
			}
			return w.HandleLike(msg)
		})
		if err != nil {
			logger.Log.Fatalf("点赞消费者退出: %v", err)
		}
	}()

	go func() {
		err := w.Consume(rabbitMQConn, service.QueueView, func(body []byte) error {
			msg, err := worker.DecodeView(body)
			if err != nil {
				return err
			}
			return w.HandleView(msg)
		})
		if err != nil {
			logger.Log.Fatalf("观看消费者退出: %v", err)
		}
	}()

	err = w.Consume(rabbitMQConn, service.QueueShare, func(body []byte) error {
		msg, err := worker.DecodeShare(body)
		if err != nil {
			return err
		}
		return w.HandleShare(msg)
	})
	if err != nil {
		logger.Log.Fatalf("分享消费者退出: %v", err)
	}
}
