package service

import (
	"Nebula_Vlog/internal/data"
	"Nebula_Vlog/internal/model"
	"Nebula_Vlog/internal/repository"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// 用户服务接口：注册（顺带建Profile）、登录
type UserService interface {
	Register(email, password, displayName string) (*model.User, *model.Profile, error)
	Login(email, password string) (string, error)
}

type userService struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	uow         data.UnitOfWork
}

func NewUserService(userRepo repository.UserRepository, profileRepo repository.ProfileRepository, uow data.UnitOfWork) UserService {
	return &userService{userRepo: userRepo, profileRepo: profileRepo, uow: uow}
}

// Register 注册逻辑：1、检查邮箱是否已占用 2、密码bcrypt加密
// 3、在同一个事务里创建User和Profile——注册即建档，不存在没有Profile的用户
func (s *userService) Register(email, password, displayName string) (*model.User, *model.Profile, error) {
	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, nil, errors.New("该邮箱已被注册")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	username, err := s.deriveUsername(email)
	if err != nil {
		return nil, nil, err
	}

	newUser := &model.User{
		Email:    email,
		Password: string(hashedPassword),
	}
	newProfile := &model.Profile{
		DisplayName: displayName,
		Username:    username,
	}

	err = s.uow.Execute(func(repos *data.TransactionalRepositories) error {
		if err := repos.UserRepo.Create(newUser); err != nil {
			return err
		}
		newProfile.UserID = newUser.ID
		return repos.ProfileRepo.Create(newProfile)
	})
	if err != nil {
		return nil, nil, err
	}
	return newUser, newProfile, nil
}

// deriveUsername 从邮箱前缀生成唯一用户名，被占用就挂数字后缀
func (s *userService) deriveUsername(email string) (string, error) {
	base := strings.ToLower(strings.SplitN(email, "@", 2)[0])
	base = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '.' {
			return r
		}
		return -1
	}, base)
	if base == "" {
		base = "user"
	}

	candidate := base
	for i := 1; i <= 100; i++ {
		exists, err := s.profileRepo.UsernameExists(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", base, i)
	}
	return "", errors.New("无法生成可用的用户名")
}

// Login 登录逻辑：1、查邮箱 2、比对密码 3、签发jwt
func (s *userService) Login(email, password string) (string, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", errors.New("邮箱或密码错误")
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", errors.New("邮箱或密码错误")
	}

	// Payload不加密，不能放密码
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(time.Hour * 72).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	secretKey := []byte(os.Getenv("JWT_SECRET_KEY"))
	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}
	return tokenString, nil
}
