package worker

import (
	"Nebula_Vlog/internal/model"
	"Nebula_Vlog/internal/repository"
	"Nebula_Vlog/internal/service"
	"Nebula_Vlog/pkg/logger"
	"encoding/json"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/streadway/amqp"
	"gorm.io/gorm"
)

// EngagementWorker 把API侧发进MQ的互动消息落回MySQL。
// 处理逻辑单独拆出来，消费循环只负责收消息和ack/nack
type EngagementWorker struct {
	db             *gorm.DB
	engagementRepo repository.EngagementRepository
}

func NewEngagementWorker(db *gorm.DB, engagementRepo repository.EngagementRepository) *EngagementWorker {
	return &EngagementWorker{db: db, engagementRepo: engagementRepo}
}

// HandleLike 点赞走插入，取消点赞走删除。重复插入会撞唯一键，
// 交给消费循环按幂等重投处理
func (w *EngagementWorker) HandleLike(msg service.LikeMessage) error {
	return w.db.Transaction(func(tx *gorm.DB) error {
		txRepo := w.engagementRepo.WithTx(tx)
		if msg.Action == service.ActionLike {
			return txRepo.CreateLike(&model.VideoLike{
				UserID:  msg.UserID,
				VideoID: msg.VideoID,
			})
		}
		return txRepo.DeleteLike(msg.UserID, msg.VideoID)
	})
}

// HandleView 插入用的是ON CONFLICT DO NOTHING，同一(video, user)
// 消费多少次都只会留一行
func (w *EngagementWorker) HandleView(msg service.ViewMessage) error {
	return w.db.Transaction(func(tx *gorm.DB) error {
		return w.engagementRepo.WithTx(tx).CreateView(&model.VideoView{
			UserID:  msg.UserID,
			VideoID: msg.VideoID,
		})
	})
}

// HandleShare 分享是append-only，一条消息一行
func (w *EngagementWorker) HandleShare(msg service.ShareMessage) error {
	return w.db.Transaction(func(tx *gorm.DB) error {
		return w.engagementRepo.WithTx(tx).CreateShare(&model.VideoShare{
			UserID:  msg.UserID,
			VideoID: msg.VideoID,
		})
	})
}

// ErrBadMessage 标记无法解析的消息，这类消息重试多少次都不会成功，
// 消费循环会直接丢弃
var ErrBadMessage = errors.New("消息无法解析")

// IsDuplicateEntry 错误号1062就是"Duplicate entry"，
// 说明这条消息之前已经成功落过库了
func IsDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

// Consume 在queue上注册消费者，循环到连接断开为止。
// 坏消息（解析失败）直接丢弃，重复键当成功ack，其他错误nack重试
func (w *EngagementWorker) Consume(conn *amqp.Connection, queue string, handle func(body []byte) error) error {
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	msgs, err := ch.Consume(
		queue, // queue
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return err
	}

	logger.Log.WithField("queue", queue).Info(" [*] 等待消息中")
	for d := range msgs {
		logCtx := logger.Log.WithField("queue", queue).WithField("redelivered", d.Redelivered)

		if err := handle(d.Body); err != nil {
			if errors.Is(err, ErrBadMessage) {
				logCtx.WithError(err).Error("消息JSON解析失败，消息将被丢弃")
				d.Nack(false, false)
				continue
			}
			if IsDuplicateEntry(err) {
				logCtx.WithError(err).Warn("重复键错误，应是一次重复消费，消息确认为成功")
				d.Ack(false)
				continue
			}
			logCtx.WithError(err).Error("处理消息失败，将进行重试")
			d.Nack(false, true)
			continue
		}
		d.Ack(false)
	}
	return nil
}

// DecodeLike 解析失败返回ErrBadMessage，消费循环据此丢弃坏消息
func DecodeLike(body []byte) (service.LikeMessage, error) {
	var msg service.LikeMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return msg, ErrBadMessage
	}
	return msg, nil
}

func DecodeView(body []byte) (service.ViewMessage, error) {
	var msg service.ViewMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return msg, ErrBadMessage
	}
	return msg, nil
}

func DecodeShare(body []byte) (service.ShareMessage, error) {
	var msg service.ShareMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return msg, ErrBadMessage
	}
	return msg, nil
}
