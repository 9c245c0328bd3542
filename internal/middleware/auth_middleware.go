package middleware

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"Nebula_Vlog/internal/model"
	"Nebula_Vlog/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	CtxUserID = "userID"
	CtxEmail  = "email"
)

// parseToken 验证"Bearer [token]"并取出user_id
// jwt.MapClaims里的数字会被解析成float64，这里统一转回uint64
func parseToken(authHeader string) (uint64, string, error) {
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0, "", errors.New("授权令牌格式不正确")
	}

	secretKey := []byte(os.Getenv("JWT_SECRET_KEY"))
	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		// 确保签名方法是对称加密族
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("非预期的签名方法")
		}
		return secretKey, nil
	})
	if err != nil || !token.Valid {
		return 0, "", errors.New("无效的授权令牌")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", errors.New("无效的授权令牌")
	}
	idFloat, ok := claims["user_id"].(float64)
	if !ok {
		return 0, "", errors.New("无效的授权令牌")
	}
	email, _ := claims["email"].(string)
	return uint64(idFloat), email, nil
}

// AuthMiddleware 必须登录的路由用这个，验证失败直接终止请求
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "请求未包含授权令牌"})
			return
		}
		userID, email, err := parseToken(authHeader)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.Set(CtxUserID, userID)
		c.Set(CtxEmail, email)
		c.Next()
	}
}

// OptionalAuthMiddleware feed、分享这类接口匿名也能用，
// 带了有效令牌就识别viewer，没带或带了坏令牌都当匿名放行
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			if userID, email, err := parseToken(authHeader); err == nil {
				c.Set(CtxUserID, userID)
				c.Set(CtxEmail, email)
			}
		}
		c.Next()
	}
}

// AdminMiddleware 挂在AuthMiddleware之后，没有admin角色行就403
func AdminMiddleware(roleRepo repository.RoleRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get(CtxUserID)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "用户未认证"})
			return
		}
		isAdmin, err := roleRepo.HasRole(userID.(uint64), model.RoleAdmin)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "权限校验失败"})
			return
		}
		if !isAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "没有访问权限"})
			return
		}
		c.Next()
	}
}
