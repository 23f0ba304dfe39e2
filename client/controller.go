// Package client is the session controller for the dashboard BFF: it owns the
// tri-state authentication flag, drives the login/logout/refresh calls, and
// runs the periodic session and refresh checks while authenticated.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"
)

const (
	defaultCheckInterval   = 5 * time.Minute
	defaultRefreshInterval = 30 * time.Minute

	// defaultGraceWindow suppresses the session-expired sign-out right after
	// a successful login, so a slow re-check observing stale state cannot
	// bounce a just-authenticated user back to the login screen.
	defaultGraceWindow = 10 * time.Second
)

// ReasonSessionExpired and ReasonTokenExpired are the machine-readable codes
// attached to forced login redirects.
const (
	ReasonSessionExpired = "session_expired"
	ReasonTokenExpired   = "token_expired"
)

// SignOutFunc is invoked when the controller decides the user must return to
// the login screen. reason is one of the Reason constants, empty for an
// explicit logout.
type SignOutFunc func(reason string)

// Credentials is the login payload. The two-factor fields are optional and
// forwarded opaquely.
type Credentials struct {
	Email                 string `json:"email"`
	Password              string `json:"password"`
	TwoFactorCode         string `json:"twoFactorCode,omitempty"`
	TwoFactorRecoveryCode string `json:"twoFactorRecoveryCode,omitempty"`
}

// Controller drives the cookie-backed session lifecycle against the BFF.
// UI code reads the state; only the controller mutates it.
type Controller struct {
	baseURL string
	http    *http.Client

	mu        sync.Mutex
	state     AuthState
	lastLogin time.Time
	stopBg    context.CancelFunc

	onSignOut       SignOutFunc
	checkInterval   time.Duration
	refreshInterval time.Duration
	graceWindow     time.Duration
}

// Option configures a Controller.
type Option func(*Controller)

// WithHTTPClient replaces the underlying HTTP client. The client should carry
// a cookie jar; credentials are included on every request through it.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Controller) {
		c.http = h
	}
}

// WithSignOutHandler sets the callback for forced and explicit sign-outs.
func WithSignOutHandler(fn SignOutFunc) Option {
	return func(c *Controller) {
		c.onSignOut = fn
	}
}

// WithIntervals overrides the periodic session-check and refresh intervals.
func WithIntervals(check, refresh time.Duration) Option {
	return func(c *Controller) {
		c.checkInterval = check
		c.refreshInterval = refresh
	}
}

// WithGraceWindow overrides the post-login sign-out suppression window.
func WithGraceWindow(d time.Duration) Option {
	return func(c *Controller) {
		c.graceWindow = d
	}
}

// New creates a Controller for the BFF at baseURL. The state starts Unknown
// until the first session check resolves it.
func New(baseURL string, opts ...Option) (*Controller, error) {
	c := &Controller{
		baseURL:         baseURL,
		state:           StateUnknown,
		checkInterval:   defaultCheckInterval,
		refreshInterval: defaultRefreshInterval,
		graceWindow:     defaultGraceWindow,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("creating cookie jar: %w", err)
		}
		c.http = &http.Client{Jar: jar}
	}
	return c, nil
}

// State returns the current tri-state authentication flag.
func (c *Controller) State() AuthState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Login posts credentials to the BFF. On a non-success response it returns an
// error carrying the server's message. On success it immediately re-checks
// the session: the session endpoint is the single source of truth for "am I
// logged in", not the login endpoint's return value.
func (c *Controller) Login(ctx context.Context, creds Credentials) error {
	body, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/login", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("login failed: %s", serverErrorMessage(resp))
	}

	c.mu.Lock()
	c.lastLogin = time.Now()
	c.mu.Unlock()

	_, err = c.CheckSession(ctx)
	return err
}

// Logout clears the session. Local state is forced to Unauthenticated and the
// sign-out callback runs regardless of whether the BFF call succeeded.
func (c *Controller) Logout(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/logout", nil)
	if err == nil {
		if resp, err := c.http.Do(req); err == nil {
			resp.Body.Close()
		}
	}

	c.setState(StateUnauthenticated)
	c.Stop()
	if c.onSignOut != nil {
		c.onSignOut("")
	}
}

// CheckSession asks the BFF whether the session is authenticated and resolves
// the tri-state flag. A transition out of Authenticated fires the sign-out
// callback with ReasonSessionExpired, unless it lands inside the post-login
// grace window.
func (c *Controller) CheckSession(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/session", nil)
	if err != nil {
		return false, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("session check failed: %w", err)
	}
	defer resp.Body.Close()

	var sr struct {
		Authenticated bool `json:"authenticated"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return false, fmt.Errorf("decoding session response: %w", err)
	}

	c.mu.Lock()
	wasAuthenticated := c.state == StateAuthenticated
	inGrace := time.Since(c.lastLogin) < c.graceWindow
	if sr.Authenticated {
		c.state = StateAuthenticated
	} else {
		c.state = StateUnauthenticated
	}
	c.mu.Unlock()

	if !sr.Authenticated && wasAuthenticated && !inGrace {
		c.Stop()
		if c.onSignOut != nil {
			c.onSignOut(ReasonSessionExpired)
		}
	}
	return sr.Authenticated, nil
}

// Refresh asks the BFF to refresh the token. The returned flag reports
// whether a new token was actually written; a false is not an error.
func (c *Controller) Refresh(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/refresh", nil)
	if err != nil {
		return false, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("refresh failed: %w", err)
	}
	defer resp.Body.Close()

	var rr struct {
		Success   bool `json:"success"`
		Refreshed bool `json:"refreshed"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return false, fmt.Errorf("decoding refresh response: %w", err)
	}
	return rr.Refreshed, nil
}

// StartBackground starts the two periodic tasks: a session re-check on the
// check interval and a token refresh on the (longer) refresh interval. They
// stop when the state leaves Authenticated, when Stop is called, or when ctx
// is cancelled. Calling StartBackground while already running is a no-op.
func (c *Controller) StartBackground(ctx context.Context) {
	c.mu.Lock()
	if c.stopBg != nil {
		c.mu.Unlock()
		return
	}
	bgCtx, cancel := context.WithCancel(ctx)
	c.stopBg = cancel
	c.mu.Unlock()

	go c.runTicker(bgCtx, c.checkInterval, func(ctx context.Context) {
		c.CheckSession(ctx)
	})
	go c.runTicker(bgCtx, c.refreshInterval, func(ctx context.Context) {
		c.Refresh(ctx)
	})
}

// Stop cancels the background tasks. Safe to call at any time.
func (c *Controller) Stop() {
	c.mu.Lock()
	cancel := c.stopBg
	c.stopBg = nil
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (c *Controller) runTicker(ctx context.Context, interval time.Duration, task func(context.Context)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if c.State() != StateAuthenticated {
				return
			}
			task(ctx)
		}
	}
}

func (c *Controller) setState(s AuthState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// LoginRedirectURL builds the login-screen URL for a forced redirect, with a
// machine-readable reason and a next parameter capturing the interrupted
// location.
func LoginRedirectURL(reason, next string) string {
	q := url.Values{}
	if reason != "" {
		q.Set("reason", reason)
	}
	if next != "" {
		q.Set("next", next)
	}
	if len(q) == 0 {
		return "/login"
	}
	return "/login?" + q.Encode()
}

func serverErrorMessage(resp *http.Response) string {
	var er struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&er); err == nil && er.Error != "" {
		return er.Error
	}
	return fmt.Sprintf("server returned status %d", resp.StatusCode)
}
