package editor

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/khoahotran/cardify/internal/application/session"
	"github.com/khoahotran/cardify/internal/domain/profile"
	"github.com/khoahotran/cardify/pkg/apperror"
	"github.com/khoahotran/cardify/pkg/logger"
)

type memBackend struct {
	records map[string]*profile.Profile
	saveErr error
}

func (m *memBackend) FetchProfile(_ context.Context, id string) (*profile.Profile, error) {
	p, ok := m.records[id]
	if !ok {
		return nil, apperror.NewNotFound("profile", id)
	}
	return p.Clone(), nil
}

func (m *memBackend) SaveProfile(_ context.Context, p *profile.Profile) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.records[p.UserID] = p.Clone()
	return nil
}

type fakeUploader struct {
	got    string
	userID string
	err    error
}

func (f *fakeUploader) UploadImage(_ context.Context, userID string, kind ImageKind, name string, r io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	b, _ := io.ReadAll(r)
	f.got = string(b)
	f.userID = userID
	return "https://res.cloudinary.com/demo/" + string(kind) + "/" + name, nil
}

type nopMarker struct{}

func (nopMarker) Load() (string, error) { return "", nil }
func (nopMarker) Save(string) error     { return nil }
func (nopMarker) Clear() error          { return nil }

type EditorTestSuite struct {
	suite.Suite
	backend  *memBackend
	uploader *fakeUploader
	store    *session.Store
	editor   *Editor
}

func (s *EditorTestSuite) SetupTest() {
	s.backend = &memBackend{records: map[string]*profile.Profile{profile.DemoUserID: profile.Demo()}}
	s.uploader = &fakeUploader{}
	s.store = session.NewStore(s.backend, nopMarker{}, logger.NewNop())
	s.Require().True(s.store.Login(context.Background(), profile.DemoUserID))
	s.editor = New(s.store, s.backend, s.uploader, logger.NewNop())
	s.Require().NoError(s.editor.Begin())
}

func TestEditorSuite(t *testing.T) {
	suite.Run(t, new(EditorTestSuite))
}

func (s *EditorTestSuite) Test_DraftIsIsolatedUntilSave() {
	s.editor.Draft().FirstName = "Alexandra"
	s.Require().NoError(s.editor.SetTheme("sunset"))

	s.True(s.editor.Dirty())
	s.Equal("Alex", s.store.Active().Profile.FirstName)
	s.Equal("default", s.store.Active().ThemeID)

	s.Require().NoError(s.editor.Save(context.Background()))
	s.Equal("Alexandra", s.store.Active().Profile.FirstName)
	s.Equal("sunset", s.store.Active().ThemeID)
	s.False(s.editor.Dirty())
}

func (s *EditorTestSuite) Test_SaveRoundTripPreservesOrderAndFlags() {
	s.editor.AddSkill("Negotiation")
	s.True(s.editor.MoveSkill("s4", 0))
	s.True(s.editor.RemoveSkill("s2"))
	s.editor.Draft().ShowContactPhone = false
	s.editor.AddLink(profile.SocialLink{Platform: "GitHub", URL: "https://github.com/alex", IsVisible: false})

	s.Require().NoError(s.editor.Save(context.Background()))

	stored, err := s.backend.FetchProfile(context.Background(), profile.DemoUserID)
	s.Require().NoError(err)
	s.Equal(s.editor.Draft(), stored)

	names := make([]string, len(stored.Skills))
	for i, sk := range stored.Skills {
		names[i] = sk.Name
	}
	s.Equal([]string{"Market Analysis", "Product Strategy", "UX Design", "Negotiation"}, names)
	s.False(stored.ShowContactPhone)
	s.False(stored.Links[3].IsVisible)
}

func (s *EditorTestSuite) Test_ValidationBlocksSave() {
	s.editor.Draft().LastName = ""
	s.editor.Draft().ContactEmail = "nope"

	err := s.editor.Save(context.Background())
	s.Require().Error(err)
	s.ErrorIs(err, apperror.ErrInvalidInput)

	var appErr *apperror.AppError
	s.Require().True(errors.As(err, &appErr))
	s.Contains(appErr.Fields, "LastName")
	s.Contains(appErr.Fields, "ContactEmail")

	s.Equal("Johnson", s.backend.records[profile.DemoUserID].LastName)
	s.Equal("Johnson", s.store.Active().Profile.LastName)
}

func (s *EditorTestSuite) Test_SaveFailureKeepsDraftAndStore() {
	s.backend.saveErr = errors.New("500 internal")
	s.editor.Draft().Headline = "Retry me"
	before := s.store.Version()

	err := s.editor.Save(context.Background())
	var saveErr *SaveError
	s.Require().ErrorAs(err, &saveErr)
	s.Equal(before, s.store.Version())
	s.Equal("Retry me", s.editor.Draft().Headline)

	s.backend.saveErr = nil
	s.Require().NoError(s.editor.Save(context.Background()))
	s.Equal("Retry me", s.store.Active().Profile.Headline)
}

func (s *EditorTestSuite) Test_UploadImageSetsDraftURL() {
	url, err := s.editor.UploadImage(context.Background(), ImageCover, "cover.jpg", strings.NewReader("jpeg"))
	s.Require().NoError(err)
	s.Equal(url, s.editor.Draft().CoverPhotoURL)
	s.Equal("jpeg", s.uploader.got)
	s.Equal(profile.DemoUserID, s.uploader.userID)
	s.Empty(s.store.Active().Profile.CoverPhotoURL)

	s.uploader.err = apperror.NewUnavailable("image host", errors.New("timeout"))
	_, err = s.editor.UploadImage(context.Background(), ImageProfile, "me.jpg", strings.NewReader("x"))
	s.ErrorIs(err, apperror.ErrUnavailable)
	s.Equal("https://placehold.co/150x150.png", s.editor.Draft().ProfilePictureURL)
}

func (s *EditorTestSuite) Test_UnknownThemeRejected() {
	s.ErrorIs(s.editor.SetTheme("neon"), apperror.ErrInvalidInput)
}

func TestBeginWithoutSession(t *testing.T) {
	store := session.NewStore(&memBackend{records: map[string]*profile.Profile{}}, nopMarker{}, logger.NewNop())
	e := New(store, nil, nil, logger.NewNop())
	assert.ErrorIs(t, e.Begin(), ErrNoSession)
	assert.ErrorIs(t, e.Save(context.Background()), ErrNoDraft)
}

func TestListHelpersBeforeBegin(t *testing.T) {
	store := session.NewStore(&memBackend{records: map[string]*profile.Profile{}}, nopMarker{}, logger.NewNop())
	e := New(store, nil, nil, logger.NewNop())

	assert.Empty(t, e.AddSkill("Go"))
	assert.False(t, e.UpdateSkill(profile.Skill{ID: "s1"}))
	assert.False(t, e.RemoveSkill("s1"))
	assert.False(t, e.MoveSkill("s1", 0))
	assert.Empty(t, e.AddEducation(profile.EducationEntry{Institution: "MIT"}))
	assert.False(t, e.RemoveEducation("e1"))
	assert.Empty(t, e.AddLink(profile.SocialLink{Platform: "GitHub"}))
	assert.False(t, e.MoveLink("l1", 0))
	assert.Empty(t, e.AddProfessionalDetail(profile.ProfessionalDetail{Profession: "Engineer"}))
	assert.False(t, e.UpdateProfessionalDetail(profile.ProfessionalDetail{ID: "d1"}))
	assert.ErrorIs(t, e.SetTheme("ocean"), ErrNoDraft)
	assert.Nil(t, e.Draft())
}

func TestMoveByID(t *testing.T) {
	list := []profile.Skill{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}
	require.True(t, moveByID(list, "a", 2, skillID))
	assert.Equal(t, []string{"b", "c", "a", "d"}, ids(list))
	require.True(t, moveByID(list, "d", 0, skillID))
	assert.Equal(t, []string{"d", "b", "c", "a"}, ids(list))
	assert.False(t, moveByID(list, "zz", 0, skillID))
	assert.False(t, moveByID(list, "a", 9, skillID))
}

func ids(list []profile.Skill) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = s.ID
	}
	return out
}
