package cardview

import (
	"context"
	"strings"
	"sync"

	"github.com/khoahotran/cardify/internal/application/session"
	"github.com/khoahotran/cardify/pkg/apperror"
	"github.com/khoahotran/cardify/pkg/logger"
	"go.uber.org/zap"
)

type Route int

const (
	RouteHome Route = iota
	RouteLogin
	RouteDashboard
	RouteCard
)

const (
	PathHome      = "/"
	PathLogin     = "/login"
	PathDashboard = "/dashboard"
	cardPrefix    = "/card/"
)

func CardPath(id string) string {
	return cardPrefix + id
}

// Location is where a navigation ended up after guards ran.
type Location struct {
	Path       string
	Route      Route
	CardID     string
	Redirected bool
}

// Shell is the client-side router. It keeps at most one card page mounted and
// closes it whenever navigation leaves the card route.
type Shell struct {
	mu       sync.Mutex
	ctx      context.Context
	store    *session.Store
	resolver *Resolver
	logger   logger.Logger
	pageOpts []PageOption

	page     *Page
	location Location
}

func NewShell(ctx context.Context, store *session.Store, resolver *Resolver, log logger.Logger, pageOpts ...PageOption) *Shell {
	return &Shell{
		ctx:      ctx,
		store:    store,
		resolver: resolver,
		logger:   log,
		pageOpts: pageOpts,
		location: Location{Path: PathHome, Route: RouteHome},
	}
}

func parsePath(path string) (Location, error) {
	clean := "/" + strings.Trim(path, "/")
	switch {
	case clean == PathHome:
		return Location{Path: PathHome, Route: RouteHome}, nil
	case clean == PathLogin:
		return Location{Path: PathLogin, Route: RouteLogin}, nil
	case clean == PathDashboard:
		return Location{Path: PathDashboard, Route: RouteDashboard}, nil
	case clean == "/card":
		return Location{Path: clean, Route: RouteCard}, nil
	case strings.HasPrefix(clean, cardPrefix):
		id := strings.TrimPrefix(clean, cardPrefix)
		if strings.Contains(id, "/") {
			break
		}
		return Location{Path: clean, Route: RouteCard, CardID: id}, nil
	}
	return Location{}, apperror.NewNotFound("route", path)
}

// Open navigates to path. The dashboard requires a logged-in session and
// redirects to the login route otherwise.
func (s *Shell) Open(path string) (Location, error) {
	loc, err := parsePath(path)
	if err != nil {
		return s.Location(), err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if loc.Route == RouteDashboard && s.store.Active().Empty() && !s.store.Loading() {
		s.logger.Info("Dashboard requires a session, redirecting", zap.String("to", PathLogin))
		loc = Location{Path: PathLogin, Route: RouteLogin, Redirected: true}
	}

	if loc.Route != RouteCard {
		s.unmountLocked()
		s.location = loc
		return loc, nil
	}

	if s.page == nil {
		s.page = NewPage(s.ctx, s.store, s.resolver, s.logger, s.pageOpts...)
	}
	s.location = loc
	s.page.Navigate(loc.CardID)
	return loc, nil
}

// Page returns the mounted card page, or nil.
func (s *Shell) Page() *Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

func (s *Shell) Location() Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.location
}

// Close unmounts everything. Call it when the application exits.
func (s *Shell) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unmountLocked()
}

func (s *Shell) unmountLocked() {
	if s.page == nil {
		return
	}
	s.page.Close()
	s.page = nil
}
