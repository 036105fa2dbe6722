package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/cardify/internal/application/usecase/auth"
	"github.com/khoahotran/cardify/pkg/apperror"
	"github.com/khoahotran/cardify/pkg/logger"
)

type AuthHandler struct {
	sessionUseCase *auth.SessionUseCase
	logger         logger.Logger
}

func NewAuthHandler(sessionUC *auth.SessionUseCase, log logger.Logger) *AuthHandler {
	return &AuthHandler{
		sessionUseCase: sessionUC,
		logger:         log,
	}
}

func (h *AuthHandler) CreateSession(c *gin.Context) {
	var req SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("userId is required", err))
		return
	}

	output, err := h.sessionUseCase.Execute(c.Request.Context(), auth.SessionInput{UserID: req.UserID})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, SessionResponse{AccessToken: output.AccessToken})
}
