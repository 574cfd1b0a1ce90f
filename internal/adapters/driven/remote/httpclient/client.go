// Package httpclient provides the HTTP remote store adapter. It
// speaks the /v1 workspace API and maps HTTP failures onto the domain
// error taxonomy.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/designsync-cli/internal/core/domain"
	"github.com/custodia-labs/designsync-cli/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.RemoteClient = (*Client)(nil)

// Default configuration values.
const (
	DefaultTimeout = 30 * time.Second

	// DefaultRequestsPerSecond caps the outbound call rate. The sync
	// loop is single-flight so this mostly guards history and list
	// calls issued alongside it.
	DefaultRequestsPerSecond = 10
)

// Config holds configuration for the HTTP remote client.
type Config struct {
	// BaseURL is the remote store base URL.
	BaseURL string

	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration

	// RequestsPerSecond caps outbound calls (default: 10).
	RequestsPerSecond float64
}

// Client issues versioned document operations over HTTP. The bearer
// token is swappable at runtime via SetToken; in-flight requests keep
// the token they started with.
type Client struct {
	http    *http.Client
	baseURL string
	limiter *rate.Limiter

	mu    sync.RWMutex
	token oauth2.TokenSource
}

// loginRequest is the /v1/auth/login request format.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse is the /v1/auth/login response format.
type loginResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// createRequest is the POST /v1/workspaces request format.
type createRequest struct {
	Name string          `json:"name"`
	Data domain.Document `json:"data"`
}

// updateRequest is the PUT /v1/workspaces/:id request format.
type updateRequest struct {
	Data            domain.Document `json:"data"`
	ExpectedVersion int64           `json:"expectedVersion"`
}

// errorResponse is the error envelope returned by the remote.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// NewClient creates a remote client for the given base URL.
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}
	return &Client{
		http:    &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), int(cfg.RequestsPerSecond)),
	}
}

// SetToken swaps the bearer token. In-flight calls are unaffected.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if token == "" {
		c.token = nil
		return
	}
	c.token = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
}

// Login exchanges credentials for a token. Not part of the
// driven.RemoteClient interface: the login command uses it directly.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.Credentials, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/v1/auth/login", loginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	return &domain.Credentials{AccessToken: resp.AccessToken, ExpiresAt: resp.ExpiresAt}, nil
}

// Get retrieves a record.
func (c *Client) Get(ctx context.Context, id string) (*domain.RemoteRecord, error) {
	var record domain.RemoteRecord
	if err := c.do(ctx, http.MethodGet, "/v1/workspaces/"+id, nil, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// List returns all records visible to the caller.
func (c *Client) List(ctx context.Context) ([]domain.RemoteRecord, error) {
	var records []domain.RemoteRecord
	if err := c.do(ctx, http.MethodGet, "/v1/workspaces", nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Create makes a new workspace record and returns its ID.
func (c *Client) Create(ctx context.Context, name string, data domain.Document) (string, error) {
	var record domain.RemoteRecord
	err := c.do(ctx, http.MethodPost, "/v1/workspaces", createRequest{Name: name, Data: data}, &record)
	if err != nil {
		return "", err
	}
	return record.ID, nil
}

// Update submits the full document with the expected OCC version.
func (c *Client) Update(ctx context.Context, id string, data domain.Document, expectedVersion int64) (*domain.UpdateResult, error) {
	var result domain.UpdateResult
	err := c.do(ctx, http.MethodPut, "/v1/workspaces/"+id,
		updateRequest{Data: data, ExpectedVersion: expectedVersion}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Undo steps the record one event back.
func (c *Client) Undo(ctx context.Context, id string) (*domain.UndoRedoResult, error) {
	var result domain.UndoRedoResult
	if err := c.do(ctx, http.MethodPost, "/v1/workspaces/"+id+"/undo", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Redo steps the record one event forward.
func (c *Client) Redo(ctx context.Context, id string) (*domain.UndoRedoResult, error) {
	var result domain.UndoRedoResult
	if err := c.do(ctx, http.MethodPost, "/v1/workspaces/"+id+"/redo", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// History returns the patch timeline, ascending by version.
func (c *Client) History(ctx context.Context, id string) ([]domain.PatchEvent, error) {
	var events []domain.PatchEvent
	if err := c.do(ctx, http.MethodGet, "/v1/workspaces/"+id+"/history", nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// do issues one request and decodes the response into out.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if err := c.authorize(req); err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// Network failures are transient: the edit is droppable and
		// the next change retries.
		return &domain.TransientError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.mapFailure(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// authorize attaches the current bearer token, if any.
func (c *Client) authorize(req *http.Request) error {
	c.mu.RLock()
	source := c.token
	c.mu.RUnlock()

	if source == nil {
		return nil
	}
	tok, err := source.Token()
	if err != nil {
		return fmt.Errorf("token source: %w", err)
	}
	tok.SetAuthHeader(req)
	return nil
}

// mapFailure translates an HTTP error status into the domain taxonomy.
func (c *Client) mapFailure(resp *http.Response) error {
	var envelope errorResponse
	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if readErr == nil {
		_ = json.Unmarshal(raw, &envelope)
	}
	detail := envelope.Error
	if detail == "" {
		detail = strings.TrimSpace(string(raw))
	}
	if detail == "" {
		detail = resp.Status
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		if envelope.Code == "token_expired" {
			return fmt.Errorf("%s: %w", detail, domain.ErrTokenExpired)
		}
		return fmt.Errorf("%s: %w", detail, domain.ErrUnauthenticated)
	case http.StatusForbidden:
		return fmt.Errorf("%s: %w", detail, domain.ErrAccessDenied)
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", detail, domain.ErrNotFound)
	case http.StatusConflict:
		return fmt.Errorf("%s: %w", detail, domain.ErrVersionConflict)
	case http.StatusUnprocessableEntity, http.StatusBadRequest:
		return fmt.Errorf("%s: %w", detail, domain.ErrInvalidInput)
	default:
		if resp.StatusCode >= 500 {
			return &domain.TransientError{Err: fmt.Errorf("remote error (status %d): %s", resp.StatusCode, detail)}
		}
		return fmt.Errorf("remote error (status %d): %s", resp.StatusCode, detail)
	}
}
