package data

import (
	"Nebula_Vlog/internal/repository"

	"gorm.io/gorm"
)

// UnitOfWork 事务管理器接口
type UnitOfWork interface {
	// Execute 将一个函数包裹在数据库事务中执行，
	// 为这个函数提供能在事务中工作的 Repositories
	Execute(func(repos *TransactionalRepositories) error) error
}

// TransactionalRepositories 持有需要在同一个事务中操作的 Repository
type TransactionalRepositories struct {
	UserRepo       repository.UserRepository
	ProfileRepo    repository.ProfileRepository
	VideoRepo      repository.VideoRepository
	CommentRepo    repository.CommentRepository
	EngagementRepo repository.EngagementRepository
}

type gormUnitOfWork struct {
	db             *gorm.DB
	userRepo       repository.UserRepository
	profileRepo    repository.ProfileRepository
	videoRepo      repository.VideoRepository
	commentRepo    repository.CommentRepository
	engagementRepo repository.EngagementRepository
}

// NewUnitOfWork 创建基于GORM的工作单元，接收原始的、非事务的repositories
func NewUnitOfWork(db *gorm.DB, userRepo repository.UserRepository, profileRepo repository.ProfileRepository,
	videoRepo repository.VideoRepository, commentRepo repository.CommentRepository,
	engagementRepo repository.EngagementRepository) UnitOfWork {
	return &gormUnitOfWork{
		db:             db,
		userRepo:       userRepo,
		profileRepo:    profileRepo,
		videoRepo:      videoRepo,
		commentRepo:    commentRepo,
		engagementRepo: engagementRepo,
	}
}

func (u *gormUnitOfWork) Execute(fn func(repos *TransactionalRepositories) error) error {
	// fn返回error时GORM回滚，返回nil时提交
	return u.db.Transaction(func(tx *gorm.DB) error {
		transactionalRepos := &TransactionalRepositories{
			UserRepo:       u.userRepo.WithTx(tx),
			ProfileRepo:    u.profileRepo.WithTx(tx),
			VideoRepo:      u.videoRepo.WithTx(tx),
			CommentRepo:    u.commentRepo.WithTx(tx),
			EngagementRepo: u.engagementRepo.WithTx(tx),
		}
		return fn(transactionalRepos)
	})
}
