package router

import (
	"net/http"

	"github.com/draftsmith/internal/handler"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, sessionSecret string) *gin.Engine {
	r := gin.Default()

	// 配置会话中间件。显式设置 cookie 属性：默认的 Secure 会让
	// 纯 HTTP 部署（以及进程内测试客户端）丢弃会话 cookie。
	store := cookie.NewStore([]byte(sessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("draftsmith_session", store))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	apiGroup := r.Group("/api")
	{
		apiGroup.POST("/auth/login", api.Login)
		apiGroup.POST("/auth/logout", api.Logout)

		// 需要认证的业务路由
		auth := apiGroup.Group("")
		auth.Use(handler.AuthRequired())
		{
			auth.GET("/documents", api.ListDocuments)
			auth.POST("/documents", api.CreateDocument)
			auth.GET("/documents/:id", api.GetDocument)
			auth.PUT("/documents/:id", api.UpdateDocument)
			auth.DELETE("/documents/:id", api.DeleteDocument)
			auth.GET("/documents/:id/preview", api.PreviewDocument)

			auth.POST("/documents/:id/versions", api.CreateVersion)
			auth.GET("/documents/:id/versions", api.ListVersions)
			auth.GET("/versions/:versionId", api.GetVersion)
			auth.GET("/versions/:versionId/compare/:toId", api.CompareVersions)

			auth.GET("/documents/:id/branches", api.ListBranches)
			auth.POST("/documents/:id/rollback", api.RollbackVersion)
			auth.POST("/branches/merge", api.MergeBranches)

			auth.POST("/ai/draft", api.GenerateDraft)
			auth.POST("/ai/metadata", api.GenerateMetadata)

			auth.GET("/settings", api.GetSystemSettings)
			auth.PUT("/settings", api.UpdateSystemSettings)
		}
	}

	return r
}
