package cardview

import (
	"context"
	"errors"

	"github.com/khoahotran/cardify/internal/domain/profile"
	"github.com/khoahotran/cardify/pkg/apperror"
	"github.com/khoahotran/cardify/pkg/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("cardview")

// Fetcher reads card records. A missing record must be reported with an error
// that matches apperror.ErrNotFound; anything else counts as a fetch failure.
type Fetcher interface {
	FetchProfile(ctx context.Context, userID string) (*profile.Profile, error)
	FetchByShortID(ctx context.Context, shortID string) (*profile.Profile, error)
}

type Resolver struct {
	fetcher  Fetcher
	reserved map[string]struct{}
	logger   logger.Logger
}

// NewResolver builds a resolver. reservedIDs are always fetched, even when they
// equal the logged-in user's id.
func NewResolver(f Fetcher, reservedIDs []string, log logger.Logger) *Resolver {
	reserved := make(map[string]struct{}, len(reservedIDs))
	for _, id := range reservedIDs {
		if id != "" {
			reserved[id] = struct{}{}
		}
	}
	return &Resolver{fetcher: f, reserved: reserved, logger: log}
}

func (r *Resolver) isReserved(id string) bool {
	_, ok := r.reserved[id]
	return ok
}

func (r *Resolver) isOwn(id string, session *profile.Profile) bool {
	return session != nil && session.UserID == id && !r.isReserved(id)
}

// Classify is the synchronous part of resolution. It returns Pending when the
// answer needs a fetch.
func (r *Resolver) Classify(requestedID string, session *profile.Profile) Decision {
	switch {
	case requestedID == "":
		return Decision{Kind: NoCard}
	case profile.LooksLikeShortID(requestedID):
		return Decision{Kind: Pending, RequestedID: requestedID}
	case r.isOwn(requestedID, session):
		return Decision{Kind: OwnLiveCard, RequestedID: requestedID}
	default:
		return Decision{Kind: Pending, RequestedID: requestedID}
	}
}

// Resolve runs the full policy: token lookup first, then the session's own card,
// then a lookup by user id. It never returns Pending.
func (r *Resolver) Resolve(ctx context.Context, requestedID string, session *profile.Profile) Decision {
	d := r.Classify(requestedID, session)
	if d.Kind != Pending {
		return d
	}

	ctx, span := tracer.Start(ctx, "Resolve")
	defer span.End()
	span.SetAttributes(attribute.String("requested_id", requestedID))

	if profile.LooksLikeShortID(requestedID) {
		p, err := r.fetcher.FetchByShortID(ctx, requestedID)
		switch {
		case err == nil:
			return foreign(requestedID, p)
		case !errors.Is(err, apperror.ErrNotFound):
			span.RecordError(err)
			return r.failed(requestedID, err)
		}
		if r.isOwn(requestedID, session) {
			return Decision{Kind: OwnLiveCard, RequestedID: requestedID}
		}
	}

	p, err := r.fetcher.FetchProfile(ctx, requestedID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return Decision{Kind: NotFound, RequestedID: requestedID}
		}
		span.RecordError(err)
		return r.failed(requestedID, err)
	}
	return foreign(requestedID, p)
}

func (r *Resolver) failed(requestedID string, err error) Decision {
	r.logger.Warn("Card fetch failed", zap.String("requested_id", requestedID), zap.Error(err))
	return Decision{Kind: NotFound, RequestedID: requestedID, Err: err}
}

func foreign(requestedID string, p *profile.Profile) Decision {
	if p == nil {
		return Decision{Kind: NotFound, RequestedID: requestedID}
	}
	return Decision{Kind: ForeignCard, RequestedID: requestedID, Profile: p.Normalize()}
}
