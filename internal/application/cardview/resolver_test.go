package cardview

import (
	"context"
	"testing"

	"github.com/khoahotran/cardify/internal/domain/profile"
	"github.com/khoahotran/cardify/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_EmptyIDIsNoCard(t *testing.T) {
	r := NewResolver(newGatedFetcher(), nil, logger.NewNop())
	d := r.Resolve(context.Background(), "", person("me", "Me", "default"))
	assert.Equal(t, NoCard, d.Kind)
}

func TestResolve_OwnCardNeedsNoFetch(t *testing.T) {
	f := newGatedFetcher()
	r := NewResolver(f, nil, logger.NewNop())

	d := r.Classify("12345", person("12345", "Me", "default"))
	assert.Equal(t, OwnLiveCard, d.Kind)

	d = r.Resolve(context.Background(), "12345", person("12345", "Me", "default"))
	assert.Equal(t, OwnLiveCard, d.Kind)
	assert.Empty(t, f.Calls())
}

func TestResolve_ReservedIDIsAlwaysFetched(t *testing.T) {
	demo := profile.Demo()
	f := newGatedFetcher(demo)
	r := NewResolver(f, []string{demo.UserID}, logger.NewNop())

	session := demo.Clone()
	session.Theme = "rose"

	assert.Equal(t, Pending, r.Classify(demo.UserID, session).Kind)

	d := r.Resolve(context.Background(), demo.UserID, session)
	require.Equal(t, ForeignCard, d.Kind)
	assert.Equal(t, "default", d.Profile.Theme)
	assert.Equal(t, []string{demo.UserID}, f.Calls())
}

func TestResolve_TokenAlwaysFetchedEvenForOwnUser(t *testing.T) {
	me := person("12345", "Me", "ocean")
	f := newGatedFetcher(me)
	r := NewResolver(f, nil, logger.NewNop())
	token := profile.ShortID(me.UserID)

	d := r.Resolve(context.Background(), token, me)
	require.Equal(t, ForeignCard, d.Kind)
	assert.Equal(t, "12345", d.Profile.UserID)
	assert.Equal(t, token, d.Profile.ShortID)
}

func TestResolve_TokenShapedIDFallsBackToUserID(t *testing.T) {
	eight := person("abcd1234", "Eight", "forest")
	f := newGatedFetcher(eight)
	r := NewResolver(f, nil, logger.NewNop())

	d := r.Resolve(context.Background(), "abcd1234", nil)
	require.Equal(t, ForeignCard, d.Kind)
	assert.Equal(t, "abcd1234", d.Profile.UserID)
	assert.Equal(t, []string{"token:abcd1234", "abcd1234"}, f.Calls())

	d = r.Resolve(context.Background(), "abcd1234", eight)
	assert.Equal(t, OwnLiveCard, d.Kind)
}

func TestResolve_ForeignAndMissing(t *testing.T) {
	f := newGatedFetcher(person("67890", "Other", "sunset"))
	r := NewResolver(f, nil, logger.NewNop())
	me := person("12345", "Me", "default")

	d := r.Resolve(context.Background(), "67890", me)
	require.Equal(t, ForeignCard, d.Kind)
	assert.Equal(t, "Other", d.Profile.FirstName)

	d = r.Resolve(context.Background(), "99999", me)
	assert.Equal(t, NotFound, d.Kind)
	assert.NoError(t, d.Err)
}

func TestResolve_FetchFailureIsNotFound(t *testing.T) {
	f := newGatedFetcher(person("67890", "Other", "sunset"))
	f.failures["67890"] = errBoom
	r := NewResolver(f, nil, logger.NewNop())

	d := r.Resolve(context.Background(), "67890", nil)
	assert.Equal(t, NotFound, d.Kind)
	assert.ErrorIs(t, d.Err, errBoom)
}
