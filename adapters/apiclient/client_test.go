package apiclient

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	httpAdapter "github.com/khoahotran/cardify/adapters/http"
	"github.com/khoahotran/cardify/adapters/media_storage"
	authUC "github.com/khoahotran/cardify/internal/application/usecase/auth"
	mediaUC "github.com/khoahotran/cardify/internal/application/usecase/media"
	profileUC "github.com/khoahotran/cardify/internal/application/usecase/profile"
	"github.com/khoahotran/cardify/internal/domain/profile"
	"github.com/khoahotran/cardify/pkg/apperror"
	"github.com/khoahotran/cardify/pkg/auth"
	"github.com/khoahotran/cardify/pkg/logger"
)

type memRepo struct {
	mu      sync.Mutex
	records map[string]*profile.Profile
}

func (r *memRepo) GetByUserID(_ context.Context, id string) (*profile.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.records[id]
	if !ok {
		return nil, apperror.NewNotFound("profile", id)
	}
	return p.Clone(), nil
}

func (r *memRepo) GetByShortID(_ context.Context, shortID string) (*profile.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.records {
		if profile.ShortID(p.UserID) == shortID {
			return p.Clone(), nil
		}
	}
	return nil, apperror.NewNotFound("profile", shortID)
}

func (r *memRepo) Replace(_ context.Context, p *profile.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[p.UserID] = p.Clone()
	return nil
}

type nullUploader struct{}

func (nullUploader) Upload(_ context.Context, file io.Reader, folder, publicID string) (string, error) {
	_, _ = io.Copy(io.Discard, file)
	return "https://img.example/" + folder + "/" + publicID + ".jpg", nil
}

func (nullUploader) Delete(context.Context, string) error { return nil }

type ClientTestSuite struct {
	suite.Suite
	repo   *memRepo
	server *httptest.Server
	client *Client
}

func TestClientSuite(t *testing.T) {
	gin.SetMode(gin.TestMode)
	suite.Run(t, new(ClientTestSuite))
}

func (s *ClientTestSuite) SetupTest() {
	log := logger.NewNop()
	s.repo = &memRepo{records: map[string]*profile.Profile{profile.DemoUserID: profile.Demo()}}
	jwtSvc := auth.NewJWTService("client-test-secret", time.Hour)

	router := httpAdapter.NewRouter(httpAdapter.RouterDeps{
		UserHandler:   httpAdapter.NewUserHandler(profileUC.NewProfileUseCase(s.repo, nil, nil, log), log),
		AuthHandler:   httpAdapter.NewAuthHandler(authUC.NewSessionUseCase(s.repo, jwtSvc, log), log),
		MediaHandler:  httpAdapter.NewMediaHandler(mediaUC.NewUploadImageUseCase(nullUploader{}, media_storage.PrepareImage, "cards", log), log),
		JWTService:    jwtSvc,
		EnforceWrites: true,
		Logger:        log,
	})
	s.server = httptest.NewServer(router)

	client, err := New(s.server.URL, 5*time.Second, log)
	s.Require().NoError(err)
	s.client = client
}

func (s *ClientTestSuite) TearDownTest() {
	s.server.Close()
}

func (s *ClientTestSuite) Test_FetchProfile() {
	p, err := s.client.FetchProfile(context.Background(), profile.DemoUserID)
	s.Require().NoError(err)
	s.Equal("Alex Johnson", p.FullName())

	_, err = s.client.FetchProfile(context.Background(), "missing")
	s.ErrorIs(err, apperror.ErrNotFound)
}

func (s *ClientTestSuite) Test_FetchByShortID() {
	token := profile.ShortID(profile.DemoUserID)
	p, err := s.client.FetchByShortID(context.Background(), token)
	s.Require().NoError(err)
	s.Equal(profile.DemoUserID, p.UserID)
	s.Equal(token, p.ShortID)

	_, err = s.client.FetchByShortID(context.Background(), "AAAAAAAA")
	s.ErrorIs(err, apperror.ErrNotFound)
}

func (s *ClientTestSuite) Test_SaveProfile_RoundTrip() {
	ctx := context.Background()
	p, err := s.client.FetchProfile(ctx, profile.DemoUserID)
	s.Require().NoError(err)

	p.Headline = "Saved through the client"
	p.Links = append(p.Links, profile.SocialLink{ID: "l4", Platform: "GitHub", URL: "https://github.com/alex", IsVisible: true})
	s.Require().NoError(s.client.SaveProfile(ctx, p))

	got, err := s.client.FetchProfile(ctx, profile.DemoUserID)
	s.Require().NoError(err)
	s.Equal("Saved through the client", got.Headline)
	s.Len(got.Links, 4)
	s.Equal("l4", got.Links[3].ID)
}

func (s *ClientTestSuite) Test_SaveProfile_Validation() {
	p := profile.Demo()
	p.ContactEmail = "not-an-email"

	err := s.client.SaveProfile(context.Background(), p)
	s.ErrorIs(err, apperror.ErrInvalidInput)

	var appErr *apperror.AppError
	s.Require().ErrorAs(err, &appErr)
	s.Contains(appErr.Fields, "ContactEmail")
}

func (s *ClientTestSuite) Test_UploadImage() {
	var img bytes.Buffer
	s.Require().NoError(png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 40, 40))))

	url, err := s.client.UploadImage(context.Background(), profile.DemoUserID, profile.ImageProfile, "me.png", &img)
	s.Require().NoError(err)
	s.Contains(url, "cards/profile/")

	_, err = s.client.UploadImage(context.Background(), profile.DemoUserID, profile.ImageCover, "junk.txt", bytes.NewReader([]byte("junk")))
	s.ErrorIs(err, apperror.ErrInvalidInput)
}

func (s *ClientTestSuite) Test_UploadImage_NoSession() {
	var img bytes.Buffer
	s.Require().NoError(png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 40, 40))))

	_, err := s.client.UploadImage(context.Background(), "ghost", profile.ImageProfile, "me.png", &img)
	s.ErrorIs(err, apperror.ErrUnauthorized)
}

func (s *ClientTestSuite) Test_ShareURL() {
	token := profile.ShortID(profile.DemoUserID)
	link, err := s.client.ShareURL(token)
	s.Require().NoError(err)
	s.Equal(s.server.URL+"/api/user/by-token?shortId="+token, link)

	resp, err := http.Get(link)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
}

func TestClient_ServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error","message":"boom"}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL, time.Second, logger.NewNop())
	require.NoError(t, err)

	_, err = c.FetchProfile(context.Background(), "x")
	assert.ErrorIs(t, err, apperror.ErrUnavailable)

	srv.Close()
	_, err = c.FetchProfile(context.Background(), "x")
	assert.ErrorIs(t, err, apperror.ErrUnavailable)
}

func TestNew_RejectsBadURL(t *testing.T) {
	_, err := New("not a url", time.Second, logger.NewNop())
	assert.Error(t, err)
}
