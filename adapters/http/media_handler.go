package http

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	mediaUC "github.com/khoahotran/cardify/internal/application/usecase/media"
	"github.com/khoahotran/cardify/internal/domain/profile"
	"github.com/khoahotran/cardify/pkg/apperror"
	"github.com/khoahotran/cardify/pkg/logger"
)

type MediaHandler struct {
	uploadImageUC *mediaUC.UploadImageUseCase
	logger        logger.Logger
}

func NewMediaHandler(uploadUC *mediaUC.UploadImageUseCase, log logger.Logger) *MediaHandler {
	return &MediaHandler{uploadImageUC: uploadUC, logger: log}
}

func (h *MediaHandler) UploadImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, profile.MaxImageBytes+1<<20)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.Error(apperror.NewInvalidInput("'file' is required", err))
		return
	}
	if fileHeader.Size > profile.MaxImageBytes {
		c.Error(apperror.NewInvalidInput(fmt.Sprintf("image exceeds %d MiB", profile.MaxImageBytes>>20), nil))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.NewInternal("failed to open file", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.Error(apperror.NewInternal("failed to read file", err))
		return
	}

	input := mediaUC.UploadImageInput{
		Kind: profile.ImageKind(c.DefaultQuery("kind", string(profile.ImageProfile))),
		Data: data,
	}
	output, err := h.uploadImageUC.Execute(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, UploadResponse{URL: output.URL})
}
