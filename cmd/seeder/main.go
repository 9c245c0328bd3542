package main

import (
	"Nebula_Vlog/internal/model"
	"Nebula_Vlog/pkg/config"
	"fmt"
	"log"
	"math/rand"
	"strings"

	"github.com/go-faker/faker/v4"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 演示视频源，随机分配给种子视频
var sampleVideoURLs = []string{
	"https://storage.googleapis.com/gtv-videos-bucket/sample/BigBuckBunny.mp4",
	"https://storage.googleapis.com/gtv-videos-bucket/sample/ElephantsDream.mp4",
	"https://storage.googleapis.com/gtv-videos-bucket/sample/ForBiggerBlazes.mp4",
	"https://storage.googleapis.com/gtv-videos-bucket/sample/ForBiggerEscapes.mp4",
	"https://storage.googleapis.com/gtv-videos-bucket/sample/ForBiggerFun.mp4",
	"https://storage.googleapis.com/gtv-videos-bucket/sample/ForBiggerJoyrides.mp4",
	"https://storage.googleapis.com/gtv-videos-bucket/sample/Sintel.mp4",
	"https://storage.googleapis.com/gtv-videos-bucket/sample/TearsOfSteel.mp4",
}

func main() {
	fmt.Println("🚀 开始填充测试数据...")

	if err := godotenv.Load(); err != nil {
		log.Println(".env文件加载失败，使用环境变量")
	}

	db, err := gorm.Open(mysql.Open(config.MySQLDSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("❌ 无法连接到数据库: %v", err)
	}
	fmt.Println("✅ 数据库连接成功!")

	// 每次填充前清空重建，保证数据是干净的。注意：会删除所有数据！
	fmt.Println("🧹 正在清理旧数据...")
	db.Migrator().DropTable(
		&model.Follower{}, &model.CommentLike{}, &model.Comment{},
		&model.VideoShare{}, &model.VideoView{}, &model.VideoLike{},
		&model.Video{}, &model.UserRole{}, &model.Profile{}, &model.User{},
	)
	db.AutoMigrate(
		&model.User{}, &model.Profile{}, &model.UserRole{},
		&model.Video{},
		&model.VideoLike{}, &model.VideoView{}, &model.VideoShare{},
		&model.Comment{}, &model.CommentLike{},
		&model.Follower{},
	)
	fmt.Println("✅ 数据库迁移成功!")

	// 所有种子用户密码统一为 "password"
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("❌ 密码加密失败: %v", err)
	}

	fmt.Println("👥 正在创建用户...")
	userCount := 50
	users := make([]model.User, 0, userCount)
	for i := 0; i < userCount; i++ {
		user := model.User{
			Email:    fmt.Sprintf("user%d@%s", i+1, faker.DomainName()),
			Password: string(hashedPassword),
		}
		db.Create(&user)

		username := strings.ToLower(faker.Username())
		profile := model.Profile{
			UserID:      user.ID,
			Username:    fmt.Sprintf("%s%d", username, i+1),
			DisplayName: faker.Name(),
			Bio:         faker.Sentence(),
			IsVerified:  rand.Intn(10) == 0,
		}
		db.Create(&profile)
		users = append(users, user)
	}
	fmt.Printf("✅ 成功创建 %d 个用户!\n", len(users))

	// 第一个用户设为管理员，方便本地调后台接口
	db.Create(&model.UserRole{UserID: users[0].ID, Role: model.RoleAdmin})
	fmt.Println("👑 已将1号用户设为管理员!")

	fmt.Println("🎬 正在创建视频...")
	videoCount := 40
	videos := make([]model.Video, 0, videoCount)
	for i := 0; i < videoCount; i++ {
		owner := users[rand.Intn(len(users))]
		video := model.Video{
			UserID:   &owner.ID,
			Title:    faker.Sentence(),
			VideoURL: sampleVideoURLs[rand.Intn(len(sampleVideoURLs))],
		}
		db.Create(&video)
		videos = append(videos, video)
	}
	fmt.Printf("✅ 成功创建 %d 个视频!\n", len(videos))

	fmt.Println("❤️ 正在创建点赞和观看记录...")
	likeCount, viewCount := 0, 0
	for _, video := range videos {
		for _, user := range users {
			if rand.Intn(100) < 60 {
				// 观看先于点赞，看过的才可能点赞
				db.Clauses(clause.OnConflict{DoNothing: true}).
					Create(&model.VideoView{UserID: user.ID, VideoID: video.ID})
				viewCount++
				if rand.Intn(100) < 40 {
					db.Clauses(clause.OnConflict{DoNothing: true}).
						Create(&model.VideoLike{UserID: user.ID, VideoID: video.ID})
					likeCount++
				}
				if rand.Intn(100) < 10 {
					db.Create(&model.VideoShare{UserID: user.ID, VideoID: video.ID})
				}
			}
		}
	}
	fmt.Printf("✅ 成功创建 %d 条观看、约 %d 条点赞!\n", viewCount, likeCount)

	fmt.Println("💬 正在创建评论...")
	commentCount := 0
	for _, video := range videos {
		n := rand.Intn(8)
		for i := 0; i < n; i++ {
			author := users[rand.Intn(len(users))]
			comment := model.Comment{
				VideoID: video.ID,
				UserID:  author.ID,
				Content: faker.Sentence(),
			}
			db.Create(&comment)
			commentCount++

			// 部分一级评论带回复，回复不再嵌套
			if rand.Intn(100) < 30 {
				replier := users[rand.Intn(len(users))]
				reply := model.Comment{
					VideoID:  video.ID,
					UserID:   replier.ID,
					Content:  faker.Sentence(),
					ParentID: &comment.ID,
				}
				db.Create(&reply)
				commentCount++
			}
		}
	}
	fmt.Printf("✅ 成功创建 %d 条评论!\n", commentCount)

	fmt.Println("🤝 正在创建关注关系...")
	followCount := 0
	for _, follower := range users {
		for _, following := range users {
			if follower.ID != following.ID && rand.Intn(100) < 8 {
				db.Clauses(clause.OnConflict{DoNothing: true}).
					Create(&model.Follower{FollowerID: follower.ID, FollowingID: following.ID})
				followCount++
			}
		}
	}
	fmt.Printf("✅ 成功创建 %d 条关注关系!\n", followCount)

	fmt.Println("🎉 测试数据填充完成! 所有用户密码均为 \"password\"")
}
