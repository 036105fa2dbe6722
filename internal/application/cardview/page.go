package cardview

import (
	"context"
	"sync"

	"github.com/khoahotran/cardify/internal/application/session"
	"github.com/khoahotran/cardify/internal/domain/profile"
	"github.com/khoahotran/cardify/pkg/logger"
	"go.uber.org/zap"
)

type Status int

const (
	StatusNoCard Status = iota
	StatusLoading
	StatusReady
	StatusNotFound
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusNotFound:
		return "not_found"
	default:
		return "no_card"
	}
}

// View is a snapshot of a page for presentation.
type View struct {
	RequestedID string
	Status      Status
	Decision    Decision
	State       State
}

// Page is one mounted card-viewing page. It owns a Coordinator and makes sure
// only the latest navigation's fetch result reaches it. Close must be called
// when the page goes away; it restores the shared slot if a foreign card is
// still overlaid.
//
// Subscribers of the store are notified while the page lock is held, so they
// must not call back into the page.
type Page struct {
	mu       sync.Mutex
	store    *session.Store
	resolver *Resolver
	coord    *Coordinator
	logger   logger.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	requestedID string
	generation  uint64
	decision    Decision
	closed      bool

	onSettle func(View)
}

type PageOption func(*Page)

// WithOnSettle registers a callback run after each decision is applied, outside
// the page lock.
func WithOnSettle(fn func(View)) PageOption {
	return func(p *Page) { p.onSettle = fn }
}

func NewPage(ctx context.Context, store *session.Store, resolver *Resolver, log logger.Logger, opts ...PageOption) *Page {
	ctx, cancel := context.WithCancel(ctx)
	p := &Page{
		store:    store,
		resolver: resolver,
		coord:    NewCoordinator(store, log),
		logger:   log,
		ctx:      ctx,
		cancel:   cancel,
		decision: Decision{Kind: NoCard},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Navigate points the page at a new card id. Decisions that need no fetch are
// applied before Navigate returns; otherwise the page reports loading until the
// fetch for this navigation settles.
func (p *Page) Navigate(requestedID string) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.generation++
	gen := p.generation
	p.requestedID = requestedID

	own := p.coord.SessionView().Profile
	d := p.resolver.Classify(requestedID, own)
	p.decision = d
	p.coord.Apply(d)
	view := p.viewLocked()

	if d.Kind == Pending {
		p.wg.Add(1)
		go p.fetch(requestedID, gen, own)
	}
	p.mu.Unlock()

	if d.Kind != Pending {
		p.settled(view)
	}
}

func (p *Page) fetch(requestedID string, gen uint64, own *profile.Profile) {
	defer p.wg.Done()
	d := p.resolver.Resolve(p.ctx, requestedID, own)
	p.deliver(requestedID, gen, d)
}

func (p *Page) deliver(requestedID string, gen uint64, d Decision) {
	p.mu.Lock()
	if p.closed || gen != p.generation || requestedID != p.requestedID {
		current := p.requestedID
		p.mu.Unlock()
		p.logger.Debug("Discarding stale card result",
			zap.String("requested_id", requestedID),
			zap.String("current_id", current),
			zap.String("decision", d.Kind.String()))
		return
	}
	p.decision = d
	p.coord.Apply(d)
	view := p.viewLocked()
	p.mu.Unlock()

	p.settled(view)
}

func (p *Page) settled(v View) {
	if p.onSettle != nil {
		p.onSettle(v)
	}
}

// Close tears the page down. Pending fetches are cancelled and their results
// ignored. Safe to call more than once.
func (p *Page) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.cancel()
	p.coord.Teardown()
	p.mu.Unlock()
}

// Wait blocks until every fetch started by this page has returned.
func (p *Page) Wait() {
	p.wg.Wait()
}

func (p *Page) View() View {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.viewLocked()
}

func (p *Page) viewLocked() View {
	return View{
		RequestedID: p.requestedID,
		Status:      p.statusLocked(),
		Decision:    p.decision,
		State:       p.coord.State(),
	}
}

func (p *Page) statusLocked() Status {
	if p.store.Loading() {
		return StatusLoading
	}
	switch p.decision.Kind {
	case Pending:
		return StatusLoading
	case OwnLiveCard, ForeignCard:
		return StatusReady
	case NotFound:
		return StatusNotFound
	default:
		return StatusNoCard
	}
}
