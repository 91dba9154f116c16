// Package source provides recipe sources: the recipe service over HTTPS and
// a previously written JSON archive.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	recipe2pdf "github.com/alnah/go-recipe2pdf"
)

// DefaultDomain is the recipe service domain.
const DefaultDomain = "anylist.com"

// userAgent is sent with every service request.
const userAgent = "go-recipe2pdf/1.0"

// maxResponseBytes caps the size of a service response.
const maxResponseBytes = 64 << 20

// Sentinel errors for the recipe service.
var (
	ErrMissingCredentials = errors.New("email and password are required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotLoggedIn        = errors.New("not logged in")
	ErrUnexpectedStatus   = errors.New("unexpected HTTP status")
	ErrInvalidResponse    = errors.New("invalid response")
)

// BaseURL returns the service base URL for a domain.
func BaseURL(domain string) string {
	if domain == "" {
		domain = DefaultDomain
	}
	return "https://www." + domain
}

// PhotoBaseURL returns the photo base URL for a domain.
func PhotoBaseURL(domain string) string {
	if domain == "" {
		domain = DefaultDomain
	}
	return "https://photos." + domain + "/"
}

// Credentials identify the account to export.
type Credentials struct {
	Email    string
	Password string
}

// Client talks to the recipe service. Call Login before Recipes and
// Teardown when done. A Client is not safe for concurrent use.
type Client struct {
	baseURL string
	creds   Credentials
	http    *http.Client
	logger  logrus.FieldLogger

	accessToken  string
	refreshToken string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the service base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient sets the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the logger for session events.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a Client for the default domain.
func NewClient(creds Credentials, opts ...Option) *Client {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	c := &Client{
		baseURL: BaseURL(DefaultDomain),
		creds:   creds,
		http:    &http.Client{},
		logger:  discard,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// tokenResponse is the body returned by the token endpoint.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Login exchanges the credentials for an access token.
func (c *Client) Login(ctx context.Context) error {
	if c.creds.Email == "" || c.creds.Password == "" {
		return ErrMissingCredentials
	}

	form := url.Values{}
	form.Set("email", c.creds.Email)
	form.Set("password", c.creds.Password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("creating login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := c.do(req)
	if err != nil {
		return err
	}

	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return fmt.Errorf("%w: decoding token: %v", ErrInvalidResponse, err)
	}
	if tok.AccessToken == "" {
		return fmt.Errorf("%w: empty access token", ErrInvalidResponse)
	}

	c.accessToken, c.refreshToken = tok.AccessToken, tok.RefreshToken
	c.logger.WithField("email", c.creds.Email).Debug("Recipe service session started")
	return nil
}

// Recipes returns every recipe of the account.
func (c *Client) Recipes(ctx context.Context) ([]recipe2pdf.Recipe, error) {
	if c.accessToken == "" {
		return nil, ErrNotLoggedIn
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/data/recipes", nil)
	if err != nil {
		return nil, fmt.Errorf("creating recipes request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	recipes, err := recipe2pdf.DecodeRecipes(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	c.logger.WithField("count", len(recipes)).Debug("Fetched recipe list")
	return recipes, nil
}

// Teardown forgets the session tokens and closes idle connections.
func (c *Client) Teardown(context.Context) error {
	c.accessToken, c.refreshToken = "", ""
	c.http.CloseIdleConnections()
	c.logger.Debug("Recipe service session closed")
	return nil
}

// do sends req and returns the body of a 200 response.
func (c *Client) do(req *http.Request) ([]byte, error) {
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%s %s: reading body: %w", req.Method, req.URL.Path, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: %s %s: HTTP %d", ErrInvalidCredentials, req.Method, req.URL.Path, resp.StatusCode)
	default:
		return nil, fmt.Errorf("%w: %s %s: HTTP %d", ErrUnexpectedStatus, req.Method, req.URL.Path, resp.StatusCode)
	}
}
