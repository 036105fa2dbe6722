package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/khoahotran/cardify/pkg/apperror"
	"github.com/khoahotran/cardify/pkg/auth"
	"github.com/khoahotran/cardify/pkg/logger"
)

const (
	GinContextKeyUserID = "userID"
)

// ErrorMiddleware renders the last error a handler attached with c.Error.
func ErrorMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err

		status := apperror.ToHTTPStatus(err)
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", status),
		}
		if status >= http.StatusInternalServerError {
			log.Error("Request failed", err, fields...)
		} else {
			log.Warn("Request rejected", append(fields, zap.Error(err))...)
		}

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			c.JSON(status, appErr.ToJSON())
			return
		}
		c.JSON(status, gin.H{"error": apperror.ErrInternal.Error(), "message": "An internal server error occurred"})
	}
}

func AuthMiddleware(jwtSvc *auth.JWTService, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
			return
		}

		claims, err := jwtSvc.ValidateToken(tokenString)
		if err != nil {
			log.Warn("Rejected token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(GinContextKeyUserID, claims.UserID)

		c.Next()
	}
}

// WriteGuard requires a token for the user id in the path when enforce is set and
// lets every request through otherwise.
func WriteGuard(jwtSvc *auth.JWTService, enforce bool, log logger.Logger) gin.HandlersChain {
	if !enforce {
		return nil
	}
	return gin.HandlersChain{
		AuthMiddleware(jwtSvc, log),
		func(c *gin.Context) {
			userID, _ := GetUserIDFromGinContext(c)
			if userID != c.Param("userId") {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "token does not belong to this user"})
				return
			}
			c.Next()
		},
	}
}

// UploadGuard only requires a valid session: uploads are not tied to a user id
// in the path.
func UploadGuard(jwtSvc *auth.JWTService, enforce bool, log logger.Logger) gin.HandlersChain {
	if !enforce {
		return nil
	}
	return gin.HandlersChain{AuthMiddleware(jwtSvc, log)}
}

func GetUserIDFromGinContext(c *gin.Context) (string, bool) {
	userID, ok := c.Get(GinContextKeyUserID)
	if !ok {
		return "", false
	}
	id, ok := userID.(string)
	return id, ok && id != ""
}
