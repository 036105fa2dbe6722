package cardview

import (
	"context"
	"testing"
	"time"

	"github.com/khoahotran/cardify/internal/application/session"
	"github.com/khoahotran/cardify/internal/domain/profile"
	"github.com/khoahotran/cardify/pkg/logger"
	"github.com/stretchr/testify/suite"
)

type PageTestSuite struct {
	suite.Suite
	fetcher  *gatedFetcher
	store    *session.Store
	resolver *Resolver
	me       *profile.Profile
}

func (s *PageTestSuite) SetupTest() {
	s.me = person("12345", "Alex", "ocean")
	s.fetcher = newGatedFetcher(
		s.me,
		person("11111", "Ann", "forest"),
		person("22222", "Ben", "rose"),
		person("33333", "Cat", "midnight"),
	)
	s.store = newStore(s.fetcher)
	s.resolver = NewResolver(s.fetcher, nil, logger.NewNop())
}

func TestPageSuite(t *testing.T) {
	suite.Run(t, new(PageTestSuite))
}

func (s *PageTestSuite) login() session.ActiveView {
	s.Require().True(s.store.Login(context.Background(), s.me.UserID))
	return s.store.Active()
}

func (s *PageTestSuite) newPage() *Page {
	p := NewPage(context.Background(), s.store, s.resolver, logger.NewNop())
	s.T().Cleanup(p.Close)
	return p
}

func (s *PageTestSuite) settle(p *Page, want Status) {
	s.Eventually(func() bool { return p.View().Status == want }, time.Second, 5*time.Millisecond)
}

func (s *PageTestSuite) Test_OwnCardLeavesStoreUntouched() {
	original := s.login()
	version := s.store.Version()
	p := s.newPage()

	p.Navigate(s.me.UserID)

	v := p.View()
	s.Equal(StatusReady, v.Status)
	s.Equal(OwnLiveCard, v.Decision.Kind)
	s.Equal(Idle, v.State)
	s.Equal(original, s.store.Active())
	s.Equal(version, s.store.Version())
}

func (s *PageTestSuite) Test_ForeignNotFoundThenBackToOwn() {
	original := s.login()
	p := s.newPage()

	p.Navigate("67890")
	s.settle(p, StatusNotFound)
	s.Equal(original, s.store.Active())

	p.Navigate(s.me.UserID)
	s.Equal(StatusReady, p.View().Status)
	s.Equal(original, s.store.Active())
	s.Equal("ocean", s.store.Active().ThemeID)
}

func (s *PageTestSuite) Test_DemoCardWhileLoggedOut() {
	demo := profile.Demo()
	s.fetcher.byID[demo.UserID] = demo
	p := NewPage(context.Background(), s.store, s.resolver, logger.NewNop())

	p.Navigate(demo.UserID)
	s.settle(p, StatusReady)
	s.Equal(Patched, p.View().State)
	s.Equal("Alex", s.store.Active().Profile.FirstName)

	p.Close()
	s.True(s.store.Active().Empty())
}

func (s *PageTestSuite) Test_StaleResultIsDiscarded() {
	original := s.login()
	releaseA := s.fetcher.gate("11111")
	p := s.newPage()

	p.Navigate("11111")
	s.Equal(StatusLoading, p.View().Status)

	p.Navigate("22222")
	s.settle(p, StatusReady)
	s.Equal("22222", s.store.Active().UserID())

	releaseA()
	p.Wait()
	s.Equal("22222", s.store.Active().UserID())
	s.Equal("rose", s.store.Active().ThemeID)
	s.Equal("22222", p.View().RequestedID)

	p.Navigate("")
	s.Equal(StatusNoCard, p.View().Status)
	s.Equal(original, s.store.Active())
}

func (s *PageTestSuite) Test_StaleResultAfterNotFoundIsDiscarded() {
	original := s.login()
	releaseA := s.fetcher.gate("11111")
	p := s.newPage()

	p.Navigate("11111")
	p.Navigate("99999")
	s.settle(p, StatusNotFound)

	releaseA()
	p.Wait()
	s.Equal(StatusNotFound, p.View().Status)
	s.Equal(original, s.store.Active())
	s.Equal(Idle, p.View().State)
}

func (s *PageTestSuite) Test_SequenceRestoresPrePatchState() {
	original := s.login()
	p := s.newPage()

	for _, id := range []string{"11111", "22222", s.me.UserID, "33333", "99999", "11111"} {
		p.Navigate(id)
		p.Wait()
	}
	s.Equal("11111", s.store.Active().UserID())

	p.Navigate("")
	s.Equal(original, s.store.Active())
}

func (s *PageTestSuite) Test_PatchRecordSurvivesRepeatedForeignCards() {
	original := s.login()
	p := s.newPage()

	p.Navigate("11111")
	p.Wait()
	p.Navigate("22222")
	p.Wait()
	p.Navigate("22222")
	p.Wait()

	s.Equal(original, p.coord.Record().View)
	s.Equal("22222", s.store.Active().UserID())
}

func (s *PageTestSuite) Test_CloseWhileFetchesInFlight() {
	original := s.login()
	releaseA := s.fetcher.gate("11111")
	releaseB := s.fetcher.gate("22222")
	defer releaseA()
	defer releaseB()

	p := NewPage(context.Background(), s.store, s.resolver, logger.NewNop())
	p.Navigate("33333")
	p.Wait()
	s.Equal("33333", s.store.Active().UserID())

	p.Navigate("11111")
	p.Navigate("22222")
	p.Close()
	p.Wait()

	s.Equal(original, s.store.Active())

	p.Navigate("33333")
	p.Wait()
	s.Equal(original, s.store.Active())
}

func (s *PageTestSuite) Test_CloseBeforeAnyFetchCompletes() {
	releaseA := s.fetcher.gate("11111")
	defer releaseA()
	p := NewPage(context.Background(), s.store, s.resolver, logger.NewNop())

	p.Navigate("11111")
	p.Close()
	releaseA()
	p.Wait()

	s.True(s.store.Active().Empty())
	s.Equal(Idle, p.View().State)
}

func (s *PageTestSuite) Test_TokenNavigationPatchesEvenForOwnUser() {
	original := s.login()
	p := s.newPage()
	token := profile.ShortID(s.me.UserID)

	p.Navigate(token)
	s.settle(p, StatusReady)
	s.Equal(ForeignCard, p.View().Decision.Kind)
	s.Equal(token, s.store.Active().Profile.ShortID)

	p.Close()
	s.Equal(original, s.store.Active())
}

func (s *PageTestSuite) Test_OnSettleSeesEveryAppliedDecision() {
	var kinds []DecisionKind
	done := make(chan struct{}, 4)
	p := NewPage(context.Background(), s.store, s.resolver, logger.NewNop(),
		WithOnSettle(func(v View) {
			kinds = append(kinds, v.Decision.Kind)
			done <- struct{}{}
		}))
	defer p.Close()

	p.Navigate("11111")
	<-done
	p.Navigate("")
	<-done

	s.Equal([]DecisionKind{ForeignCard, NoCard}, kinds)
}
