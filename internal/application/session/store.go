package session

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/khoahotran/cardify/internal/domain/profile"
	"github.com/khoahotran/cardify/internal/domain/theme"
	"github.com/khoahotran/cardify/pkg/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("session")

// ProfileSource fetches a whole profile record by user id.
type ProfileSource interface {
	FetchProfile(ctx context.Context, userID string) (*profile.Profile, error)
}

// Marker is the durable "who is logged in" record that survives restarts.
type Marker interface {
	Load() (string, error)
	Save(userID string) error
	Clear() error
}

// ActiveView is the content of the shared slot. Profile is nil when the slot is
// empty. Callers must treat Profile as read-only.
type ActiveView struct {
	Profile *profile.Profile
	ThemeID string
}

func (v ActiveView) Empty() bool { return v.Profile == nil }

func (v ActiveView) UserID() string {
	if v.Profile == nil {
		return ""
	}
	return v.Profile.UserID
}

// Store owns the single active profile of a browsing session. Replace is the only
// way to change it; the profile and its theme always move together.
type Store struct {
	mu      sync.RWMutex
	active  ActiveView
	version uint64

	subMu  sync.Mutex
	subs   map[int]func(ActiveView)
	nextID int

	loading atomic.Int32

	source ProfileSource
	marker Marker
	logger logger.Logger
}

func NewStore(source ProfileSource, marker Marker, log logger.Logger) *Store {
	return &Store{
		active: ActiveView{ThemeID: theme.DefaultID},
		subs:   make(map[int]func(ActiveView)),
		source: source,
		marker: marker,
		logger: log,
	}
}

func (s *Store) Active() ActiveView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// Version increases by one on every Replace.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Replace swaps the whole slot. p is copied; a nil p empties the slot.
func (s *Store) Replace(p *profile.Profile, themeID string) {
	view := ActiveView{Profile: p.Clone(), ThemeID: theme.Resolve(themeID)}

	s.mu.Lock()
	s.active = view
	s.version++
	s.mu.Unlock()

	s.notify(view)
}

// Subscribe registers fn to be called after every Replace. The returned func
// removes the subscription.
func (s *Store) Subscribe(fn func(ActiveView)) func() {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) notify(view ActiveView) {
	s.subMu.Lock()
	fns := make([]func(ActiveView), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(view)
	}
}

// Loading reports whether a session fetch is in flight.
func (s *Store) Loading() bool {
	return s.loading.Load() > 0
}

// Login loads the profile for userID and remembers it. On failure the slot is
// left as it was.
func (s *Store) Login(ctx context.Context, userID string) bool {
	ctx, span := tracer.Start(ctx, "Login")
	defer span.End()
	span.SetAttributes(attribute.String("user_id", userID))

	s.loading.Add(1)
	defer s.loading.Add(-1)

	p, err := s.source.FetchProfile(ctx, userID)
	if err != nil {
		span.RecordError(err)
		s.logger.Warn("Login failed", zap.String("user_id", userID), zap.Error(err))
		return false
	}

	s.Replace(p, p.Theme)
	if err := s.marker.Save(userID); err != nil {
		s.logger.Error("Failed to persist session marker", err, zap.String("user_id", userID))
	}
	s.logger.Info("Session started", zap.String("user_id", userID))
	return true
}

func (s *Store) Logout() {
	s.Replace(nil, theme.DefaultID)
	if err := s.marker.Clear(); err != nil {
		s.logger.Error("Failed to clear session marker", err)
	}
}

// RestoreOnStart reloads the session recorded by a previous Login. A marker that
// no longer resolves is cleared and the slot stays empty.
func (s *Store) RestoreOnStart(ctx context.Context) bool {
	userID, err := s.marker.Load()
	if err != nil {
		s.logger.Warn("Unreadable session marker, clearing", zap.Error(err))
		if err := s.marker.Clear(); err != nil {
			s.logger.Error("Failed to clear session marker", err)
		}
		return false
	}
	if userID == "" {
		return false
	}

	ctx, span := tracer.Start(ctx, "RestoreOnStart")
	defer span.End()

	s.loading.Add(1)
	defer s.loading.Add(-1)

	p, err := s.source.FetchProfile(ctx, userID)
	if err != nil {
		span.RecordError(err)
		s.logger.Warn("Stored session no longer valid, clearing", zap.String("user_id", userID), zap.Error(err))
		if err := s.marker.Clear(); err != nil {
			s.logger.Error("Failed to clear session marker", err)
		}
		return false
	}

	s.Replace(p, p.Theme)
	return true
}
