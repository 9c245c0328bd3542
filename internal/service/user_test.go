package service

import (
	"Nebula_Vlog/internal/repository"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService(t *testing.T) (UserService, repository.ProfileRepository) {
	db := setupTestDB(t)
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	return NewUserService(userRepo, profileRepo, newTestUnitOfWork(db)), profileRepo
}

func TestRegisterCreatesUserAndProfile(t *testing.T) {
	svc, profileRepo := newUserService(t)

	user, profile, err := svc.Register("zhangsan@example.com", "secret123", "张三")
	require.NoError(t, err)
	require.NotZero(t, user.ID)

	// 注册即建档，用户名取自邮箱前缀
	assert.Equal(t, user.ID, profile.UserID)
	assert.Equal(t, "zhangsan", profile.Username)
	assert.Equal(t, "张三", profile.DisplayName)

	saved, err := profileRepo.FindByUserID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "zhangsan", saved.Username)
}

func TestRegisterDuplicateEmailRejected(t *testing.T) {
	svc, _ := newUserService(t)

	_, _, err := svc.Register("zhangsan@example.com", "secret123", "张三")
	require.NoError(t, err)
	_, _, err = svc.Register("zhangsan@example.com", "secret456", "李四")
	assert.Error(t, err)
}

func TestRegisterUsernameSuffixWhenTaken(t *testing.T) {
	svc, _ := newUserService(t)

	_, first, err := svc.Register("zhangsan@example.com", "secret123", "张三")
	require.NoError(t, err)
	assert.Equal(t, "zhangsan", first.Username)

	// 同名前缀的第二个用户挂数字后缀
	_, second, err := svc.Register("zhangsan@another.com", "secret123", "假张三")
	require.NoError(t, err)
	assert.Equal(t, "zhangsan1", second.Username)
}

func TestLoginIssuesParseableToken(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	svc, _ := newUserService(t)

	user, _, err := svc.Register("zhangsan@example.com", "secret123", "张三")
	require.NoError(t, err)

	tokenString, err := svc.Login("zhangsan@example.com", "secret123")
	require.NoError(t, err)

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, float64(user.ID), claims["user_id"])
	assert.Equal(t, "zhangsan@example.com", claims["email"])
}

func TestLoginWrongPassword(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	svc, _ := newUserService(t)

	_, _, err := svc.Register("zhangsan@example.com", "secret123", "张三")
	require.NoError(t, err)

	_, err = svc.Login("zhangsan@example.com", "wrong")
	assert.Error(t, err)
	_, err = svc.Login("nobody@example.com", "secret123")
	assert.Error(t, err)
}
