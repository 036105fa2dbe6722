package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/cardify/pkg/auth"
	"github.com/khoahotran/cardify/pkg/logger"
)

type RouterDeps struct {
	UserHandler   *UserHandler
	AuthHandler   *AuthHandler
	MediaHandler  *MediaHandler
	JWTService    *auth.JWTService
	EnforceWrites bool
	Logger        logger.Logger
}

// NewRouter builds the API. MediaHandler may be nil when no image host is
// configured; the upload route is then not registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), ErrorMiddleware(deps.Logger))

	writeGuard := WriteGuard(deps.JWTService, deps.EnforceWrites, deps.Logger)
	uploadGuard := UploadGuard(deps.JWTService, deps.EnforceWrites, deps.Logger)

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })

		api.POST("/auth/session", deps.AuthHandler.CreateSession)

		users := api.Group("/user")
		{
			users.GET("/by-token", deps.UserHandler.GetByToken)
			users.GET("/:userId", deps.UserHandler.GetProfile)
			users.POST("/:userId", append(writeGuard, deps.UserHandler.SaveProfile)...)
			users.PUT("/:userId", append(writeGuard, deps.UserHandler.SaveProfile)...)
		}

		if deps.MediaHandler != nil {
			api.POST("/media/upload", append(uploadGuard, deps.MediaHandler.UploadImage)...)
		}
	}
	return router
}
