package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	profileUC "github.com/khoahotran/cardify/internal/application/usecase/profile"
	"github.com/khoahotran/cardify/internal/domain/profile"
	"github.com/khoahotran/cardify/pkg/apperror"
	"github.com/khoahotran/cardify/pkg/logger"
)

type UserHandler struct {
	profileUseCase *profileUC.ProfileUseCase
	logger         logger.Logger
}

func NewUserHandler(uc *profileUC.ProfileUseCase, log logger.Logger) *UserHandler {
	return &UserHandler{
		profileUseCase: uc,
		logger:         log,
	}
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	input := profileUC.GetProfileInput{UserID: c.Param("userId")}
	output, err := h.profileUseCase.ExecuteGetProfile(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, output.Profile)
}

func (h *UserHandler) GetByToken(c *gin.Context) {
	var q TokenQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.Error(apperror.NewInvalidInput("invalid query", err))
		return
	}

	output, err := h.profileUseCase.ExecuteGetByToken(c.Request.Context(), profileUC.GetByTokenInput{ShortID: q.ShortID})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, output.Profile)
}

// SaveProfile serves both POST and PUT; each replaces the whole record.
func (h *UserHandler) SaveProfile(c *gin.Context) {
	var req profile.Profile
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for profile", err))
		return
	}

	input := profileUC.SaveProfileInput{UserID: c.Param("userId"), Profile: &req}
	if err := h.profileUseCase.ExecuteSaveProfile(c.Request.Context(), input); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, SaveResponse{Success: true})
}
