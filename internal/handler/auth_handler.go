package handler

import (
	"net/http"

	"github.com/draftsmith/internal/db"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// Login 处理用户登录请求并写入会话。
func (a *API) Login(c *gin.Context) {
	var credentials struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !bindJSON(c, &credentials, "invalid login payload") {
		return
	}

	var user db.User
	if err := a.db.Where("username = ?", credentials.Username).First(&user).Error; err != nil {
		respondError(c, http.StatusUnauthorized, "invalid username or password")
		return
	}
	if !user.CheckPassword(credentials.Password) {
		respondError(c, http.StatusUnauthorized, "invalid username or password")
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Set("username", user.Username)
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to save session")
		return
	}

	c.JSON(http.StatusOK, gin.H{"username": user.Username})
}

// Logout 清除会话。
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// AuthRequired 是一个简单的认证中间件，校验通过后把用户 ID 写入请求上下文。
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get("user_id")
		if userID == nil {
			respondError(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}
		c.Set("user_id", userID)
		c.Next()
	}
}

// currentUserID 从请求上下文取出登录用户 ID，未登录时返回 0。
func currentUserID(c *gin.Context) uint {
	if value, ok := c.Get("user_id"); ok {
		if id, ok := value.(uint); ok {
			return id
		}
	}
	return 0
}
