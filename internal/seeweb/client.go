package seeweb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/see-platform/seesync/internal/branding"
	"github.com/see-platform/seesync/internal/metrics"
)

// Endpoint paths relative to the SEEweb root.
const (
	PathLogin      = "/user_login"
	PathSearch     = "/rest/ro/search"
	PathRegister   = "/rest/ro/register"
	PathRemove     = "/rest/ro/remove"
	PathConnect    = "/rest/ro/connect"
	PathDisconnect = "/rest/ro/disconnect"
	PathUpload     = "/ro/create"
)

// Client talks to one SEEweb instance.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *metrics.Recorder
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient uses a copy of hc. A cookie jar is added when hc has none.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		cp := *hc
		if cp.Jar == nil {
			cp.Jar = c.httpClient.Jar
		}
		c.httpClient = &cp
	}
}

// WithTimeout bounds every request. Zero means no limit.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics counts every request in r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(c *Client) { c.metrics = r }
}

// New returns a client for the SEEweb instance at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing SEEweb root %q: %w", baseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("SEEweb root %q must be an absolute http(s) URL", baseURL)
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Jar: jar},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the SEEweb root this client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, path, out)
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, path, out)
}

// do sends req and decodes a JSON answer into out when out is non-nil.
func (c *Client) do(req *http.Request, endpoint string, out any) error {
	req.Header.Set("User-Agent", branding.UserAgent())
	if out != nil {
		req.Header.Set("Accept", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveRequest(endpoint, 0)
		return fmt.Errorf("%s %s: %w: %w", req.Method, endpoint, ErrRemote, err)
	}
	defer resp.Body.Close()
	c.metrics.ObserveRequest(endpoint, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading %s response: %w: %w", endpoint, ErrRemote, err)
	}
	c.logger.Debug("seeweb request",
		"method", req.Method,
		"endpoint", endpoint,
		"status", resp.StatusCode,
		"elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: string(body)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parsing %s response: %w: %w", endpoint, ErrRemote, err)
	}
	return nil
}

// Login opens an authenticated session. The session cookie is kept for
// the lifetime of the client.
func (c *Client) Login(ctx context.Context, user, password string) error {
	form := url.Values{
		"ok":       {"True"},
		"user_id":  {user},
		"password": {password},
	}
	if err := c.postForm(ctx, PathLogin, form, nil); err != nil {
		return fmt.Errorf("logging in as %q: %w", user, err)
	}
	c.logger.Info("logged in", "user", user, "root", c.baseURL)
	return nil
}
