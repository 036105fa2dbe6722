package media

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/khoahotran/cardify/internal/application/service"
	"github.com/khoahotran/cardify/internal/domain/profile"
	"github.com/khoahotran/cardify/pkg/apperror"
	"github.com/khoahotran/cardify/pkg/logger"
)

var tracer = otel.Tracer("media_usecase")

// ImagePreparer crops, scales and re-encodes raw image bytes for kind.
type ImagePreparer func(kind profile.ImageKind, data []byte) ([]byte, error)

type UploadImageUseCase struct {
	uploader service.Uploader
	prepare  ImagePreparer
	folder   string
	logger   logger.Logger
}

func NewUploadImageUseCase(u service.Uploader, prepare ImagePreparer, folder string, log logger.Logger) *UploadImageUseCase {
	return &UploadImageUseCase{uploader: u, prepare: prepare, folder: folder, logger: log}
}

type UploadImageInput struct {
	Kind profile.ImageKind
	Data []byte
}

type UploadImageOutput struct {
	URL string
}

func (uc *UploadImageUseCase) Execute(ctx context.Context, input UploadImageInput) (*UploadImageOutput, error) {
	ctx, span := tracer.Start(ctx, "Execute")
	defer span.End()

	if _, err := profile.SpecFor(input.Kind); err != nil {
		return nil, apperror.NewInvalidInput("kind must be 'profile' or 'cover'", err)
	}
	if len(input.Data) > profile.MaxImageBytes {
		return nil, apperror.NewInvalidInput(fmt.Sprintf("image exceeds %d MiB", profile.MaxImageBytes>>20), nil)
	}

	prepared, err := uc.prepare(input.Kind, input.Data)
	if err != nil {
		return nil, apperror.NewInvalidInput("unsupported or corrupt image", err)
	}

	publicID := uuid.NewString()
	folder := path.Join(uc.folder, string(input.Kind))
	url, err := uc.uploader.Upload(ctx, bytes.NewReader(prepared), folder, publicID)
	if err != nil {
		span.RecordError(err)
		uc.logger.Error("Failed to upload image", err, zap.String("kind", string(input.Kind)))
		return nil, apperror.NewUnavailable("image host upload failed", err)
	}

	uc.logger.Info("Image uploaded", zap.String("kind", string(input.Kind)), zap.String("public_id", publicID))
	return &UploadImageOutput{URL: url}, nil
}
