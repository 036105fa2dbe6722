package profile

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/cardify/adapters/event"
	"github.com/khoahotran/cardify/internal/domain/profile"
	"github.com/khoahotran/cardify/pkg/apperror"
	"github.com/khoahotran/cardify/pkg/logger"
)

var tracer = otel.Tracer("profile_usecase")

type EventPublisher interface {
	PublishProfileEvent(ctx context.Context, payload event.ProfileEventPayload) error
}

type ProfileUseCase struct {
	profileRepo profile.Repository
	cache       profile.Cache
	publisher   EventPublisher
	logger      logger.Logger
}

// NewProfileUseCase wires the repository with an optional cache and publisher;
// either may be nil.
func NewProfileUseCase(repo profile.Repository, cache profile.Cache, publisher EventPublisher, log logger.Logger) *ProfileUseCase {
	return &ProfileUseCase{
		profileRepo: repo,
		cache:       cache,
		publisher:   publisher,
		logger:      log,
	}
}

type GetProfileInput struct {
	UserID string
}

type GetProfileOutput struct {
	Profile *profile.Profile
}

func (uc *ProfileUseCase) ExecuteGetProfile(ctx context.Context, input GetProfileInput) (*GetProfileOutput, error) {
	ctx, span := tracer.Start(ctx, "ExecuteGetProfile")
	defer span.End()
	span.SetAttributes(attribute.String("user_id", input.UserID))

	if input.UserID == "" {
		return nil, apperror.NewInvalidInput("userId is required", nil)
	}

	if uc.cache != nil {
		if p, ok := uc.cache.Get(ctx, input.UserID); ok {
			span.SetAttributes(attribute.Bool("cache_hit", true))
			return &GetProfileOutput{Profile: p}, nil
		}
	}

	p, err := uc.profileRepo.GetByUserID(ctx, input.UserID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	uc.remember(ctx, p)
	return &GetProfileOutput{Profile: p.Normalize()}, nil
}

type GetByTokenInput struct {
	ShortID string
}

func (uc *ProfileUseCase) ExecuteGetByToken(ctx context.Context, input GetByTokenInput) (*GetProfileOutput, error) {
	ctx, span := tracer.Start(ctx, "ExecuteGetByToken")
	defer span.End()
	span.SetAttributes(attribute.String("short_id", input.ShortID))

	if input.ShortID == "" {
		return nil, apperror.NewInvalidInput("shortId is required", nil)
	}
	if !profile.LooksLikeShortID(input.ShortID) {
		return nil, apperror.NewNotFound("profile", input.ShortID)
	}

	if uc.cache != nil {
		if userID, ok := uc.cache.LookupShortID(ctx, input.ShortID); ok {
			out, err := uc.ExecuteGetProfile(ctx, GetProfileInput{UserID: userID})
			if err == nil {
				out.Profile.ShortID = input.ShortID
				return out, nil
			}
			if !errors.Is(err, apperror.ErrNotFound) {
				return nil, err
			}
		}
	}

	p, err := uc.profileRepo.GetByShortID(ctx, input.ShortID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	uc.remember(ctx, p)
	p.ShortID = input.ShortID
	return &GetProfileOutput{Profile: p.Normalize()}, nil
}

type SaveProfileInput struct {
	UserID  string
	Profile *profile.Profile
}

// ExecuteSaveProfile replaces the whole record for UserID. The path user id wins
// over whatever the body carries.
func (uc *ProfileUseCase) ExecuteSaveProfile(ctx context.Context, input SaveProfileInput) error {
	ctx, span := tracer.Start(ctx, "ExecuteSaveProfile")
	defer span.End()
	span.SetAttributes(attribute.String("user_id", input.UserID))

	if input.UserID == "" || input.Profile == nil {
		return apperror.NewInvalidInput("userId and profile body are required", nil)
	}

	p := input.Profile.Clone()
	p.UserID = input.UserID
	p.ShortID = profile.ShortID(input.UserID)
	p.UpdatedAt = time.Now().UTC()

	if err := profile.Validate(p); err != nil {
		var fe profile.FieldErrors
		if errors.As(err, &fe) {
			return apperror.NewValidation(fe)
		}
		return apperror.NewInvalidInput("profile validation failed", err)
	}

	if err := uc.profileRepo.Replace(ctx, p); err != nil {
		span.RecordError(err)
		uc.logger.Error("Failed to save profile", err, zap.String("user_id", p.UserID))
		return err
	}

	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx, p.UserID); err != nil {
			uc.logger.Warn("Failed to invalidate card cache", zap.String("user_id", p.UserID), zap.Error(err))
		}
	}

	if uc.publisher != nil {
		go func() {
			payload := event.ProfileEventPayload{
				EventType: event.ProfileEventSaved,
				UserID:    p.UserID,
				ShortID:   p.ShortID,
			}
			if err := uc.publisher.PublishProfileEvent(context.Background(), payload); err != nil {
				uc.logger.Error("Failed to publish Kafka 'profile.saved' event", err, zap.String("user_id", p.UserID))
			}
		}()
	}
	return nil
}

// ExecuteWarmCache reloads a record from the repository into the cache.
func (uc *ProfileUseCase) ExecuteWarmCache(ctx context.Context, userID string) error {
	ctx, span := tracer.Start(ctx, "ExecuteWarmCache")
	defer span.End()

	if uc.cache == nil {
		return nil
	}
	p, err := uc.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			uc.logger.Warn("Profile vanished before cache warm, skip", zap.String("user_id", userID))
			return nil
		}
		span.RecordError(err)
		return err
	}
	return uc.cache.Set(ctx, p)
}

func (uc *ProfileUseCase) remember(ctx context.Context, p *profile.Profile) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Set(ctx, p); err != nil {
		uc.logger.Warn("Failed to populate card cache", zap.String("user_id", p.UserID), zap.Error(err))
	}
}
