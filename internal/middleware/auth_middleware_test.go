package middleware

import (
	"Nebula_Vlog/internal/model"
	"Nebula_Vlog/internal/repository"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func signTestToken(t *testing.T, userID uint64, secret string) string {
	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   "test@example.com",
		"exp":     time.Now().Add(time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func authTestRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", mw, func(c *gin.Context) {
		userID, exists := c.Get(CtxUserID)
		if !exists {
			c.JSON(http.StatusOK, gin.H{"anonymous": true})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})
	return r
}

func doRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareRejectsAnonymous(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	r := authTestRouter(AuthMiddleware())

	// 没带令牌、格式坏、签名不对，全都401
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "not-a-bearer").Code)
	forged := signTestToken(t, 1, "wrong-secret")
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "Bearer "+forged).Code)
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	r := authTestRouter(AuthMiddleware())

	token := signTestToken(t, 42, "test-secret")
	w := doRequest(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "42")
}

func TestOptionalAuthMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	r := authTestRouter(OptionalAuthMiddleware())

	// 匿名放行
	w := doRequest(r, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "anonymous")

	// 坏令牌也当匿名处理，而不是报错
	w = doRequest(r, "Bearer garbage")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "anonymous")

	// 好令牌识别出viewer
	token := signTestToken(t, 42, "test-secret")
	w = doRequest(r, "Bearer "+token)
	assert.Contains(t, w.Body.String(), "42")
}

func TestAdminMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.UserRole{}))
	roleRepo := repository.NewRoleRepository(db)
	require.NoError(t, db.Create(&model.UserRole{UserID: 1, Role: model.RoleAdmin}).Error)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthMiddleware(), AdminMiddleware(roleRepo), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	adminToken := signTestToken(t, 1, "test-secret")
	plainToken := signTestToken(t, 2, "test-secret")

	assert.Equal(t, http.StatusOK, doRequest(r, "Bearer "+adminToken).Code)
	assert.Equal(t, http.StatusForbidden, doRequest(r, "Bearer "+plainToken).Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "").Code)
}
