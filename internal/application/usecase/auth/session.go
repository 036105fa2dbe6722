package auth

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/cardify/internal/domain/profile"
	"github.com/khoahotran/cardify/pkg/apperror"
	"github.com/khoahotran/cardify/pkg/auth"
	"github.com/khoahotran/cardify/pkg/logger"
)

// SessionUseCase issues an access token for an existing profile. Signing in is
// by user id only; there are no passwords.
type SessionUseCase struct {
	profileRepo profile.Repository
	jwtSvc      *auth.JWTService
	logger      logger.Logger
}

func NewSessionUseCase(repo profile.Repository, jwtSvc *auth.JWTService, log logger.Logger) *SessionUseCase {
	return &SessionUseCase{
		profileRepo: repo,
		jwtSvc:      jwtSvc,
		logger:      log,
	}
}

type SessionInput struct {
	UserID string
}

type SessionOutput struct {
	AccessToken string
}

var tracer = otel.Tracer("auth_usecase")

func (uc *SessionUseCase) Execute(ctx context.Context, input SessionInput) (*SessionOutput, error) {
	ctx, span := tracer.Start(ctx, "Execute")
	defer span.End()

	if input.UserID == "" {
		return nil, apperror.NewInvalidInput("userId is required", nil)
	}

	if _, err := uc.profileRepo.GetByUserID(ctx, input.UserID); err != nil {
		span.RecordError(err)
		return nil, err
	}

	token, err := uc.jwtSvc.GenerateToken(input.UserID)
	if err != nil {
		uc.logger.Error("Failed to generate token", err, zap.String("user_id", input.UserID))
		err = apperror.NewInternal("failed to generate token", err)
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("user_id", input.UserID))
	return &SessionOutput{AccessToken: token}, nil
}
