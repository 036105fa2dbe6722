package cardview

import (
	"context"
	"errors"
	"sync"

	"github.com/khoahotran/cardify/internal/application/session"
	"github.com/khoahotran/cardify/internal/domain/profile"
	"github.com/khoahotran/cardify/pkg/apperror"
	"github.com/khoahotran/cardify/pkg/logger"
)

// gatedFetcher serves profiles from memory. A fetch for an id with a gate
// blocks until the gate is released or the context ends.
type gatedFetcher struct {
	mu       sync.Mutex
	byID     map[string]*profile.Profile
	failures map[string]error
	gates    map[string]chan struct{}
	calls    []string
}

func newGatedFetcher(profiles ...*profile.Profile) *gatedFetcher {
	f := &gatedFetcher{
		byID:     make(map[string]*profile.Profile),
		failures: make(map[string]error),
		gates:    make(map[string]chan struct{}),
	}
	for _, p := range profiles {
		f.byID[p.UserID] = p
	}
	return f
}

func (f *gatedFetcher) gate(id string) func() {
	ch := make(chan struct{})
	f.mu.Lock()
	f.gates[id] = ch
	f.mu.Unlock()
	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

func (f *gatedFetcher) wait(ctx context.Context, key string) error {
	f.mu.Lock()
	f.calls = append(f.calls, key)
	ch := f.gates[key]
	f.mu.Unlock()
	if ch == nil {
		return nil
	}
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *gatedFetcher) FetchProfile(ctx context.Context, userID string) (*profile.Profile, error) {
	if err := f.wait(ctx, userID); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failures[userID]; err != nil {
		return nil, err
	}
	p, ok := f.byID[userID]
	if !ok {
		return nil, apperror.NewNotFound("profile", userID)
	}
	return p.Clone(), nil
}

func (f *gatedFetcher) FetchByShortID(ctx context.Context, shortID string) (*profile.Profile, error) {
	if err := f.wait(ctx, "token:"+shortID); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.byID {
		if profile.ShortID(p.UserID) == shortID {
			c := p.Clone()
			c.ShortID = shortID
			return c, nil
		}
	}
	return nil, apperror.NewNotFound("profile", shortID)
}

func (f *gatedFetcher) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type staticSource struct {
	f *gatedFetcher
}

func (s staticSource) FetchProfile(ctx context.Context, userID string) (*profile.Profile, error) {
	return s.f.FetchProfile(ctx, userID)
}

type memMarker struct{ value string }

func (m *memMarker) Load() (string, error) { return m.value, nil }
func (m *memMarker) Save(id string) error  { m.value = id; return nil }
func (m *memMarker) Clear() error          { m.value = ""; return nil }

func newStore(f *gatedFetcher) *session.Store {
	return session.NewStore(staticSource{f}, &memMarker{}, logger.NewNop())
}

func person(id, first, themeID string) *profile.Profile {
	return (&profile.Profile{
		UserID:    id,
		FirstName: first,
		LastName:  "Tester",
		Theme:     themeID,
		Skills:    []profile.Skill{{ID: "s1", Name: first + " skill", IsVisible: true}},
	}).Normalize()
}

var errBoom = errors.New("connection reset")
