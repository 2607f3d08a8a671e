package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/crewdesk/crewdesk-go/internal/common"
	"github.com/crewdesk/crewdesk-go/internal/logging"
	"github.com/crewdesk/crewdesk-go/internal/models"
)

// HTTPClient is the Client implementation over net/http. All requests go
// through the authTransport chokepoint and share one CookieStore, so the
// refresh cookie set at login rides along automatically.
type HTTPClient struct {
	baseURL   *url.URL
	http      *http.Client
	jar       *CookieStore
	transport *authTransport
	log       logging.Logger
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient builds a client rooted at baseURL (e.g.
// "http://127.0.0.1:5000/api"). A zero timeout means no overall request
// deadline. The Refresher is wired in later via SetRefresher, because the
// coordinator is constructed on top of this client.
func NewHTTPClient(baseURL string, tokens TokenSource, jar *CookieStore, timeout time.Duration, log logging.Logger) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}

	t := &authTransport{
		base:   http.DefaultTransport,
		tokens: tokens,
		log:    log,
	}

	return &HTTPClient{
		baseURL:   u,
		http:      &http.Client{Transport: t, Jar: jar, Timeout: timeout},
		jar:       jar,
		transport: t,
		log:       log,
	}, nil
}

// SetRefresher wires in the refresh coordinator. Until it is called, 401
// responses pass through unclassified.
func (c *HTTPClient) SetRefresher(r Refresher) {
	c.transport.setRefresher(r)
}

func (c *HTTPClient) Login(ctx context.Context, creds models.Credentials) (*models.LoginResult, error) {
	var out models.LoginResult
	if err := c.do(ctx, http.MethodPost, "auth/login", creds, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Register(ctx context.Context, reg models.Registration) (*models.User, error) {
	var out struct {
		Message string       `json:"message"`
		User    *models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "auth/register", reg, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

func (c *HTTPClient) Refresh(ctx context.Context) (*models.RefreshResult, error) {
	var out models.RefreshResult
	if err := c.do(ctx, http.MethodPost, "auth/refresh", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Me(ctx context.Context) (*models.User, error) {
	var out struct {
		User *models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "auth/me", nil, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "auth/logout", nil, nil)
}

func (c *HTTPClient) LogoutAll(ctx context.Context) (int, error) {
	var out struct {
		Message string `json:"message"`
		Revoked int    `json:"revoked_sessions"`
	}
	if err := c.do(ctx, http.MethodPost, "auth/logout-all", nil, &out); err != nil {
		return 0, err
	}
	return out.Revoked, nil
}

func (c *HTTPClient) Sessions(ctx context.Context) ([]models.SessionInfo, error) {
	var out struct {
		Sessions []models.SessionInfo `json:"sessions"`
		Total    int                  `json:"total"`
	}
	if err := c.do(ctx, http.MethodGet, "auth/sessions", nil, &out); err != nil {
		return nil, err
	}
	return out.Sessions, nil
}

func (c *HTTPClient) RevokeSession(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, "auth/sessions/"+strconv.Itoa(id), nil, nil)
}

func (c *HTTPClient) HasRefreshSignal() bool {
	return c.jar.Has(common.SignalCookieName)
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// do issues one API call. Success decodes the body into out (may be nil);
// an error status is mapped to a typed *Error; a transport failure becomes
// ErrUnavailable — except when the failure is a refresh that could not
// repair the session, which is propagated as-is so callers keep the
// session-expired classification.
func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	u := c.baseURL.JoinPath(path)

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, ErrSessionExpired) {
			var uerr *url.Error
			if errors.As(err, &uerr) {
				return uerr.Err
			}
			return err
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.apiError(resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// apiError converts an error response into a typed *Error using the
// {"error": "..."} body the backend produces, falling back to the HTTP
// status text.
func (c *HTTPClient) apiError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	msg := ""
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&payload); err == nil {
		msg = payload.Error
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &Error{Status: resp.StatusCode, Message: msg}
}
