// Package gateway provides the HTTP client shared by all BORTAL resource services
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/bortal/bortal-go/internal/common"
	"github.com/bortal/bortal-go/internal/interfaces"
	"github.com/bortal/bortal-go/internal/models"
)

const (
	DefaultTimeout   = 10 * time.Second
	DefaultRateLimit = 5 // requests per second

	refreshPath = "auth/token/refresh/"
)

// Client is the single HTTP client behind every resource service. It injects
// the bearer token, decodes the {data, pagination?} envelope and performs the
// one-shot refresh-and-retry dance on 401.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
	tokens     interfaces.TokenStore

	// refreshGroup collapses concurrent 401s into a single in-flight refresh;
	// every caller awaits the same outcome.
	refreshGroup singleflight.Group

	// onSessionExpired fires after an unrecoverable refresh failure, once the
	// session has been cleared. The login-boundary redirect of the web client.
	onSessionExpired func()
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithSessionExpiredHook sets the callback fired when the session dies.
func WithSessionExpiredHook(fn func()) ClientOption {
	return func(c *Client) {
		c.onSessionExpired = fn
	}
}

// NewClient creates a gateway client for the given API base URL. The token
// store is an explicit dependency: the gateway reads the access token on every
// request and is the only component allowed to rotate it.
func NewClient(baseURL string, tokens interfaces.TokenStore, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Get performs a GET request and decodes the envelope data into out.
func (c *Client) Get(ctx context.Context, path string, q url.Values, out any) error {
	_, err := c.Do(ctx, http.MethodGet, path, q, nil, out)
	return err
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	_, err := c.Do(ctx, http.MethodPost, path, nil, body, out)
	return err
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	_, err := c.Do(ctx, http.MethodPut, path, nil, body, out)
	return err
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.Do(ctx, http.MethodDelete, path, nil, nil, nil)
	return err
}

// envelope is the response wrapper used by every API endpoint.
type envelope struct {
	Status     string             `json:"status,omitempty"`
	Data       json.RawMessage    `json:"data"`
	Pagination *models.Pagination `json:"pagination,omitempty"`
	Message    string             `json:"message,omitempty"`
}

// errorBody is the error shape of non-2xx responses.
type errorBody struct {
	Message string              `json:"message"`
	Detail  string              `json:"detail"`
	Errors  map[string][]string `json:"errors"`
}

// Do executes a request against the API, returning the envelope's pagination
// block when present. A 401 response triggers at most one refresh-and-retry;
// auth endpoints themselves are never retried.
func (c *Client) Do(ctx context.Context, method, path string, q url.Values, body, out any) (*models.Pagination, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	accessToken := c.tokens.AccessToken()
	resp, respBody, err := c.execute(ctx, method, path, q, body, accessToken)
	if err != nil {
		return nil, err
	}

	// A 401 on a request that never carried a token is a plain authorization
	// failure, not an expired session; there is nothing to refresh.
	if resp.StatusCode == http.StatusUnauthorized && accessToken != "" && c.refreshable(path) {
		token, refreshErr := c.refreshAccessToken(ctx)
		if refreshErr != nil {
			return nil, refreshErr
		}
		// Replay the original request exactly once with the new token.
		resp, respBody, err = c.execute(ctx, method, path, q, body, token)
		if err != nil {
			return nil, err
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.httpError(resp.StatusCode, respBody)
	}

	if out == nil {
		return nil, nil
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return nil, fmt.Errorf("failed to decode response envelope: %w", err)
	}
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return env.Pagination, nil
}

// execute performs one HTTP round trip. Transport failures come back as
// NetworkError; status handling is the caller's concern.
func (c *Client) execute(ctx context.Context, method, path string, q url.Values, body any, token string) (*http.Response, []byte, error) {
	reqURL := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(q) > 0 {
		reqURL += "?" + q.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.logger.Debug().Str("method", method).Str("path", path).Msg("API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, &NetworkError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, &NetworkError{Op: method + " " + path, Err: err}
	}
	return resp, respBody, nil
}

// refreshable reports whether a 401 on this path may trigger a token refresh.
// The credential endpoints are excluded (a rejected login is a rejected
// login); auth/profile/ stays retriable like any other protected resource.
func (c *Client) refreshable(path string) bool {
	switch strings.TrimLeft(path, "/") {
	case "auth/login/", "auth/register/", "auth/logout/", refreshPath:
		return false
	}
	return true
}

// refreshAccessToken obtains a fresh access token. Concurrent callers share a
// single in-flight refresh; at most one refresh request exists system-wide.
// Any failure is fatal to the session: tokens are cleared and the session
// expired hook fires.
func (c *Client) refreshAccessToken(ctx context.Context) (string, error) {
	v, err, _ := c.refreshGroup.Do("refresh", func() (any, error) {
		return c.refreshOnce(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *Client) refreshOnce(ctx context.Context) (string, error) {
	refresh := c.tokens.RefreshToken()
	if refresh == "" {
		// Fail fast: no HTTP call is made to the refresh endpoint.
		c.expireSession()
		return "", &NetworkError{Op: "token refresh", Err: ErrNoRefreshToken}
	}

	payload := map[string]string{"refresh": refresh}
	resp, respBody, err := c.execute(ctx, http.MethodPost, refreshPath, nil, payload, "")
	if err != nil {
		c.expireSession()
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.expireSession()
		return "", c.httpError(resp.StatusCode, respBody)
	}

	var result struct {
		Access string `json:"access"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		c.expireSession()
		return "", fmt.Errorf("failed to decode refresh response: %w", err)
	}
	if result.Access == "" {
		c.expireSession()
		return "", errors.New("refresh response missing access token")
	}

	if err := c.tokens.SetAccessToken(result.Access); err != nil {
		return "", fmt.Errorf("failed to persist refreshed token: %w", err)
	}

	c.logger.Debug().Msg("Access token refreshed")
	return result.Access, nil
}

func (c *Client) expireSession() {
	if err := c.tokens.Clear(); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to clear session")
	}
	c.logger.Info().Msg("Session expired")
	if c.onSessionExpired != nil {
		c.onSessionExpired()
	}
}

// httpError builds the HTTPError for a non-2xx response, pulling the server's
// {message|detail, errors} fields when the body parses.
func (c *Client) httpError(status int, body []byte) *HTTPError {
	he := &HTTPError{Status: status, Body: body}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		he.Message = eb.Message
		if he.Message == "" {
			he.Message = eb.Detail
		}
		he.Fields = eb.Errors
	}
	return he
}
