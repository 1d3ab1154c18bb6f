// Package session owns the OAuth2 lifecycle for the Concur APIs: grant
// selection, token and geolocation state, lazy expiry, and the single
// re-authenticate-and-retry pass on 401 responses.
package session

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"travelgate/internal/platform/metrics"
	"travelgate/pkg/apierr"
)

// expirySkew is subtracted from expires_in so we refresh before the server
// actually rejects the token.
const expirySkew = 60 * time.Second

// Credentials selects the grant flow. RefreshToken wins over
// Username/Password, which win over bare client credentials.
type Credentials struct {
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
	RefreshToken string
}

// Response is a fully read vendor reply.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Manager authenticates against the token endpoint and executes outbound
// vendor calls with a bearer token attached.
type Manager struct {
	creds   Credentials
	baseURL string

	client  *http.Client
	log     *slog.Logger
	metrics *metrics.Metrics
	limiter *rate.Limiter
	group   singleflight.Group

	mu          sync.Mutex
	accessToken string
	geolocation string
	expiry      time.Time
}

// Option configures a Manager.
type Option func(*Manager)

func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) { m.log = log }
}

func WithMetrics(mx *metrics.Metrics) Option {
	return func(m *Manager) { m.metrics = mx }
}

func WithHTTPClient(c *http.Client) Option {
	return func(m *Manager) { m.client = c }
}

// WithTimeout bounds every outbound call through the HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(m *Manager) { m.client.Timeout = d }
}

// WithRateLimit caps outbound vendor calls per second. Zero or negative
// disables the limiter.
func WithRateLimit(perSecond float64) Option {
	return func(m *Manager) {
		if perSecond > 0 {
			m.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// NewManager builds a Manager for the given API root. baseURL carries no
// trailing slash.
func NewManager(baseURL string, creds Credentials, opts ...Option) *Manager {
	m := &Manager{
		creds:   creds,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// BaseURL returns the API root the manager was built with.
func (m *Manager) BaseURL() string {
	return m.baseURL
}

// Geolocation returns the regional API root from the last authentication,
// falling back to the configured base URL before the first one.
func (m *Manager) Geolocation() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.geolocation == "" {
		return m.baseURL
	}
	return m.geolocation
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	Scope        string `json:"scope"`
	Geolocation  string `json:"geolocation"`
	IDToken      string `json:"id_token"`
}

func (m *Manager) tokenValid() bool {
	return m.accessToken != "" && time.Now().Before(m.expiry)
}

// EnsureAuthenticated authenticates when there is no token or the expiry has
// passed. Concurrent callers observing the same expiry trigger one refresh.
func (m *Manager) EnsureAuthenticated(ctx context.Context) error {
	m.mu.Lock()
	valid := m.tokenValid()
	m.mu.Unlock()
	if valid {
		return nil
	}
	return m.Authenticate(ctx)
}

// Authenticate performs one token-endpoint POST with the highest-priority
// grant the credentials allow. On failure nothing is stored and the previous
// token state is left untouched.
func (m *Manager) Authenticate(ctx context.Context) error {
	_, err, _ := m.group.Do("authenticate", func() (any, error) {
		return nil, m.authenticate(ctx)
	})
	return err
}

func (m *Manager) authenticate(ctx context.Context) error {
	form := url.Values{
		"client_id":     {m.creds.ClientID},
		"client_secret": {m.creds.ClientSecret},
	}

	var grant string
	switch {
	case m.creds.RefreshToken != "":
		grant = "refresh_token"
		form.Set("refresh_token", m.creds.RefreshToken)
	case m.creds.Username != "" && m.creds.Password != "":
		grant = "password"
		form.Set("username", m.creds.Username)
		form.Set("password", m.creds.Password)
	default:
		grant = "client_credentials"
	}
	form.Set("grant_type", grant)

	endpoint := m.baseURL + "/oauth2/v0/token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return apierr.Wrap(apierr.CodeAuthentication, "build token request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("concur-correlationid", uuid.NewString())

	m.log.InfoContext(ctx, "authenticating", "grant_type", grant)

	resp, err := m.client.Do(req)
	if err != nil {
		return apierr.Wrap(apierr.CodeAuthentication, "token request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apierr.Wrap(apierr.CodeAuthentication, "read token response", err)
	}
	if resp.StatusCode != http.StatusOK {
		return apierr.Newf(apierr.CodeAuthentication,
			"token endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return apierr.Wrap(apierr.CodeAuthentication, "parse token response", err)
	}
	if token.AccessToken == "" {
		return apierr.New(apierr.CodeAuthentication, "token response carried no access token")
	}

	m.mu.Lock()
	m.accessToken = token.AccessToken
	if token.Geolocation != "" {
		m.geolocation = strings.TrimRight(token.Geolocation, "/")
	}
	m.expiry = time.Now().Add(time.Duration(token.ExpiresIn)*time.Second - expirySkew)
	m.mu.Unlock()

	// Token rotation: the server may hand back a fresh refresh token.
	if token.RefreshToken != "" {
		m.creds.RefreshToken = token.RefreshToken
	}

	m.log.InfoContext(ctx, "authenticated", "grant_type", grant, "expires_in", token.ExpiresIn)
	return nil
}

// Do executes one vendor call with the bearer token attached. On a 401 it
// re-authenticates once and retries once; a second 401 is an authentication
// error. No other status is retried. The response body is fully read.
func (m *Manager) Do(ctx context.Context, method, rawURL, contentType string, body []byte) (*Response, error) {
	if err := m.EnsureAuthenticated(ctx); err != nil {
		return nil, err
	}

	resp, err := m.send(ctx, method, rawURL, contentType, body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	m.log.WarnContext(ctx, "vendor rejected token, re-authenticating", "url", rawURL)
	if m.metrics != nil {
		m.metrics.Reauthentications.Inc()
	}
	m.invalidate()
	if err := m.Authenticate(ctx); err != nil {
		return nil, err
	}

	resp, err = m.send(ctx, method, rawURL, contentType, body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return nil, apierr.New(apierr.CodeAuthentication, "request unauthorized after re-authentication")
	}
	return resp, nil
}

func (m *Manager) send(ctx context.Context, method, rawURL, contentType string, body []byte) (*Response, error) {
	if m.limiter != nil {
		if err := m.limiter.Wait(ctx); err != nil {
			return nil, apierr.Wrap(apierr.CodeRemote, "rate limiter", err)
		}
	}

	var reader io.Reader
	if body != nil {
		reader = strings.NewReader(string(body))
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, apierr.Wrap(apierr.CodeRemote, "build request", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("concur-correlationid", uuid.NewString())

	m.mu.Lock()
	req.Header.Set("Authorization", "Bearer "+m.accessToken)
	m.mu.Unlock()

	start := time.Now()
	resp, err := m.client.Do(req)
	if m.metrics != nil {
		m.metrics.VendorCallSeconds.WithLabelValues(req.URL.Host).Observe(time.Since(start).Seconds())
	}
	if err != nil {
		return nil, apierr.Wrap(apierr.CodeRemote, "vendor call failed", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apierr.Wrap(apierr.CodeRemote, "read vendor response", err)
	}

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

func (m *Manager) invalidate() {
	m.mu.Lock()
	m.accessToken = ""
	m.expiry = time.Time{}
	m.mu.Unlock()
}

// TokenSubject returns the sub claim of the current access token without
// verifying the signature. The claim is used only to identify which user or
// company the token was minted for, never to authorize anything locally.
func (m *Manager) TokenSubject() (string, error) {
	m.mu.Lock()
	token := m.accessToken
	m.mu.Unlock()
	if token == "" {
		return "", apierr.New(apierr.CodeAuthentication, "no access token held")
	}

	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return "", apierr.Wrap(apierr.CodeAuthentication, "parse access token", err)
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", apierr.New(apierr.CodeAuthentication, "access token carries no subject")
	}
	return sub, nil
}
