package extauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Roshan1923/BillBrain/internal/config"
)

// ErrRejected means the provider refused the session id (not a transport
// failure); callers answer 401.
var ErrRejected = errors.New("external session rejected")

// Identity is what the external provider knows about the signed-in user.
type Identity struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Exchanger swaps a provider session id for the user's identity.
type Exchanger interface {
	Exchange(ctx context.Context, sessionID string) (Identity, error)
}

// Client is the HTTP implementation of Exchanger.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient returns nil when no exchange URL is configured.
func NewClient(cfg config.ExtAuthConfig) *Client {
	if cfg.URL == "" {
		return nil
	}
	return &Client{
		url:        cfg.URL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Exchange presents the session id to the provider and decodes the identity.
func (c *Client) Exchange(ctx context.Context, sessionID string) (Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return Identity{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-Session-ID", sessionID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Identity{}, fmt.Errorf("call auth provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Identity{}, ErrRejected
	}

	var id Identity
	if err := json.NewDecoder(resp.Body).Decode(&id); err != nil {
		return Identity{}, fmt.Errorf("decode identity: %w", err)
	}
	return id, nil
}
