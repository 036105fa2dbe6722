package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/cardify/internal/domain/profile"
	"github.com/khoahotran/cardify/pkg/apperror"
	"github.com/khoahotran/cardify/pkg/auth"
	"github.com/khoahotran/cardify/pkg/logger"
)

type oneProfileRepo struct {
	p *profile.Profile
}

func (r oneProfileRepo) GetByUserID(_ context.Context, id string) (*profile.Profile, error) {
	if r.p == nil || r.p.UserID != id {
		return nil, apperror.NewNotFound("profile", id)
	}
	return r.p.Clone(), nil
}

func (r oneProfileRepo) GetByShortID(_ context.Context, id string) (*profile.Profile, error) {
	return nil, apperror.NewNotFound("profile", id)
}

func (r oneProfileRepo) Replace(context.Context, *profile.Profile) error { return nil }

func TestSessionUseCase(t *testing.T) {
	jwtSvc := auth.NewJWTService("test-secret", time.Hour)
	uc := NewSessionUseCase(oneProfileRepo{p: profile.Demo()}, jwtSvc, logger.NewNop())

	out, err := uc.Execute(context.Background(), SessionInput{UserID: profile.DemoUserID})
	require.NoError(t, err)

	claims, err := jwtSvc.ValidateToken(out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, profile.DemoUserID, claims.UserID)

	_, err = uc.Execute(context.Background(), SessionInput{UserID: "ghost"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = uc.Execute(context.Background(), SessionInput{})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}
