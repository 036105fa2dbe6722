package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/go-querystring/query"
	"go.uber.org/zap"

	"github.com/khoahotran/cardify/internal/domain/profile"
	"github.com/khoahotran/cardify/pkg/apperror"
	"github.com/khoahotran/cardify/pkg/logger"
)

type tokenQuery struct {
	ShortID string `url:"shortId"`
}

type uploadQuery struct {
	Kind string `url:"kind"`
}

type errorBody struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields"`
}

// Client talks to the card API. It satisfies the session store's profile source,
// the card resolver's fetcher and the editor's persister and uploader.
type Client struct {
	base   *url.URL
	http   *http.Client
	logger logger.Logger

	mu     sync.Mutex
	tokens map[string]string
}

func New(baseURL string, timeout time.Duration, log logger.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api url %q", baseURL)
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		base:   u,
		http:   &http.Client{Timeout: timeout},
		logger: log,
		tokens: map[string]string{},
	}, nil
}

func (c *Client) endpoint(path string, q any) (string, error) {
	u := *c.base
	u.Path = c.base.Path + path
	if q != nil {
		values, err := query.Values(q)
		if err != nil {
			return "", err
		}
		u.RawQuery = values.Encode()
	}
	return u.String(), nil
}

func (c *Client) FetchProfile(ctx context.Context, userID string) (*profile.Profile, error) {
	endpoint, err := c.endpoint("/api/user/"+url.PathEscape(userID), nil)
	if err != nil {
		return nil, apperror.NewInternal("building profile url", err)
	}
	return c.getProfile(ctx, endpoint, userID)
}

func (c *Client) FetchByShortID(ctx context.Context, shortID string) (*profile.Profile, error) {
	endpoint, err := c.endpoint("/api/user/by-token", tokenQuery{ShortID: shortID})
	if err != nil {
		return nil, apperror.NewInternal("building token url", err)
	}
	return c.getProfile(ctx, endpoint, shortID)
}

func (c *Client) getProfile(ctx context.Context, endpoint, identifier string) (*profile.Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperror.NewInternal("building request", err)
	}
	resp, err := c.do(req, identifier)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	p := &profile.Profile{}
	if err := json.NewDecoder(resp.Body).Decode(p); err != nil {
		return nil, apperror.NewUnavailable("decoding profile", err)
	}
	return p.Normalize(), nil
}

// SaveProfile replaces the whole record. A session token is requested for the
// user on first use and attached as a bearer token.
func (c *Client) SaveProfile(ctx context.Context, p *profile.Profile) error {
	body, err := json.Marshal(p)
	if err != nil {
		return apperror.NewInternal("encoding profile", err)
	}
	endpoint, err := c.endpoint("/api/user/"+url.PathEscape(p.UserID), nil)
	if err != nil {
		return apperror.NewInternal("building profile url", err)
	}

	for attempt := 0; attempt < 2; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
		if err != nil {
			return apperror.NewInternal("building request", err)
		}
		req.Header.Set("Content-Type", "application/json")
		if token := c.token(ctx, p.UserID); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := c.do(req, p.UserID)
		if err != nil {
			if attempt == 0 && errors.Is(err, apperror.ErrUnauthorized) {
				c.forgetToken(p.UserID)
				continue
			}
			return err
		}
		resp.Body.Close()
		return nil
	}
	return apperror.NewUnauthorized("server rejected the session token", nil)
}

// UploadImage posts the image to the server, which crops it and hands it to the
// image host. The upload is made on behalf of userID, whose session token is
// attached. The returned URL is the hosted image.
func (c *Client) UploadImage(ctx context.Context, userID string, kind profile.ImageKind, filename string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", apperror.NewInternal("building upload", err)
	}
	n, err := io.Copy(fw, io.LimitReader(r, profile.MaxImageBytes+1))
	if err != nil {
		return "", apperror.NewInvalidInput("reading image", err)
	}
	if n > profile.MaxImageBytes {
		return "", apperror.NewInvalidInput(fmt.Sprintf("image exceeds %d MiB", profile.MaxImageBytes>>20), nil)
	}
	if err := mw.Close(); err != nil {
		return "", apperror.NewInternal("building upload", err)
	}
	body := buf.Bytes()

	endpoint, err := c.endpoint("/api/media/upload", uploadQuery{Kind: string(kind)})
	if err != nil {
		return "", apperror.NewInternal("building upload url", err)
	}

	for attempt := 0; attempt < 2; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return "", apperror.NewInternal("building request", err)
		}
		req.Header.Set("Content-Type", mw.FormDataContentType())
		if token := c.token(ctx, userID); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := c.do(req, filename)
		if err != nil {
			if attempt == 0 && errors.Is(err, apperror.ErrUnauthorized) {
				c.forgetToken(userID)
				continue
			}
			return "", err
		}
		defer resp.Body.Close()

		var out struct {
			URL string `json:"url"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil || out.URL == "" {
			return "", apperror.NewUnavailable("decoding upload response", err)
		}
		return out.URL, nil
	}
	return "", apperror.NewUnauthorized("server rejected the session token", nil)
}

// ShareURL is the public API address that serves the card behind shortID.
func (c *Client) ShareURL(shortID string) (string, error) {
	return c.endpoint("/api/user/by-token", tokenQuery{ShortID: shortID})
}

func (c *Client) token(ctx context.Context, userID string) string {
	c.mu.Lock()
	token, ok := c.tokens[userID]
	c.mu.Unlock()
	if ok {
		return token
	}

	body, _ := json.Marshal(map[string]string{"userId": userID})
	endpoint, err := c.endpoint("/api/auth/session", nil)
	if err != nil {
		return ""
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return ""
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.do(req, userID)
	if err != nil {
		c.logger.Warn("Could not obtain session token, saving without one", zap.String("user_id", userID), zap.Error(err))
		return ""
	}
	defer resp.Body.Close()

	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return ""
	}
	c.mu.Lock()
	c.tokens[userID] = out.AccessToken
	c.mu.Unlock()
	return out.AccessToken
}

func (c *Client) forgetToken(userID string) {
	c.mu.Lock()
	delete(c.tokens, userID)
	c.mu.Unlock()
}

// do sends req and maps non-2xx responses onto apperror kinds. On success the
// caller owns resp.Body.
func (c *Client) do(req *http.Request, identifier string) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperror.NewUnavailable(fmt.Sprintf("%s %s", req.Method, req.URL.Path), err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()

	var eb errorBody
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	_ = json.Unmarshal(raw, &eb)
	cause := fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))

	switch resp.StatusCode {
	case http.StatusNotFound:
		return nil, apperror.NewNotFound("profile", identifier)
	case http.StatusBadRequest:
		if len(eb.Fields) > 0 {
			return nil, apperror.NewValidation(eb.Fields)
		}
		return nil, apperror.NewInvalidInput(eb.Message, cause)
	case http.StatusUnauthorized:
		return nil, apperror.NewUnauthorized("session token rejected", cause)
	case http.StatusForbidden:
		return nil, apperror.NewPermissionDenied(eb.Error)
	default:
		return nil, apperror.NewUnavailable(fmt.Sprintf("%s %s", req.Method, req.URL.Path), cause)
	}
}
