// Package upstream is the HTTP client for the security-alerting API. The API
// is consumed as an opaque service: tokens it issues are never decoded or
// verified locally.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Endpoints holds the per-call path suffixes appended to the base URL.
type Endpoints struct {
	Login    string
	Refresh  string
	Validate string
	Alerts   string
}

// DefaultEndpoints are the paths used when no overrides are configured.
var DefaultEndpoints = Endpoints{
	Login:    "/login",
	Refresh:  "/refresh",
	Validate: "/validate",
	Alerts:   "/alerts",
}

// Client talks to the upstream alerting API.
type Client struct {
	baseURL   string
	endpoints Endpoints
	http      *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoints overrides the default path suffixes.
func WithEndpoints(e Endpoints) Option {
	return func(c *Client) {
		if e.Login != "" {
			c.endpoints.Login = e.Login
		}
		if e.Refresh != "" {
			c.endpoints.Refresh = e.Refresh
		}
		if e.Validate != "" {
			c.endpoints.Validate = e.Validate
		}
		if e.Alerts != "" {
			c.endpoints.Alerts = e.Alerts
		}
	}
}

// WithTimeout bounds every upstream call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// New creates a client for the upstream API at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		endpoints: DefaultEndpoints,
		http:      &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Credentials is the login payload forwarded verbatim to the upstream.
type Credentials struct {
	Email                 string `json:"email"`
	Password              string `json:"password"`
	TwoFactorCode         string `json:"twoFactorCode,omitempty"`
	TwoFactorRecoveryCode string `json:"twoFactorRecoveryCode,omitempty"`
}

type tokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// Login exchanges credentials for a bearer token. A non-2xx upstream status
// yields a *StatusError carrying the upstream body verbatim. A 2xx response
// missing the accessToken field yields ErrNoToken.
func (c *Client) Login(ctx context.Context, creds Credentials) (string, error) {
	body, err := json.Marshal(creds)
	if err != nil {
		return "", fmt.Errorf("encoding login payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.endpoints.Login, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling upstream login: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return "", err
	}
	return decodeToken(resp.Body)
}

// Refresh exchanges the current token for a new one. The upstream body is
// preserved verbatim on failure, as with Login.
func (c *Client) Refresh(ctx context.Context, token string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.endpoints.Refresh, nil)
	if err != nil {
		return "", err
	}
	setBearer(req, token)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling upstream refresh: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return "", err
	}
	return decodeToken(resp.Body)
}

// Validate asks the upstream whether token is still good. Any 2xx means valid.
// A non-2xx yields a *StatusError; a transport failure yields a plain error so
// callers can distinguish "rejected" from "unreachable".
func (c *Client) Validate(ctx context.Context, token string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+c.endpoints.Validate, nil)
	if err != nil {
		return err
	}
	setBearer(req, token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling upstream validate: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Status: resp.StatusCode}
	}
	return nil
}

// DeleteDecision removes a decision by ID. Non-2xx yields a *StatusError with
// the upstream status and body so the caller can pass both through.
func (c *Client) DeleteDecision(ctx context.Context, token, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/decisions/"+id, nil)
	if err != nil {
		return err
	}
	setBearer(req, token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling upstream decision delete: %w", err)
	}
	defer resp.Body.Close()

	return checkStatus(resp)
}

// ListAlerts fetches the raw alert list JSON. The body is returned untouched;
// the BFF proxies it to the dashboard verbatim.
func (c *Client) ListAlerts(ctx context.Context, token string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+c.endpoints.Alerts, nil)
	if err != nil {
		return nil, err
	}
	setBearer(req, token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling upstream alerts: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBodySize))
}

// maxUpstreamBodySize caps how much of an upstream response is buffered.
const maxUpstreamBodySize = 8 << 20

func setBearer(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bearer "+token)
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBodySize))
	return &StatusError{
		Status: resp.StatusCode,
		Body:   strings.TrimSpace(string(body)),
	}
}

func decodeToken(r io.Reader) (string, error) {
	var tr tokenResponse
	if err := json.NewDecoder(io.LimitReader(r, maxUpstreamBodySize)).Decode(&tr); err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoToken, err)
	}
	if tr.AccessToken == "" {
		return "", ErrNoToken
	}
	return tr.AccessToken, nil
}
