package cartclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dcastellanos/hearthhide-backend/pkg/logger"
)

const responseBodyReadLimit int64 = 1 << 20

var errBaseURLRequired = errors.New("cart service base url is required")

// Client talks to the legacy cart service. The auth token is an explicit
// parameter on every call rather than ambient client state, so one client can
// serve many users.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logg       *logger.Logger
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLogger attaches a logger for request-level telemetry.
func WithLogger(logg *logger.Logger) Option {
	return func(c *Client) {
		c.logg = logg
	}
}

// NewClient builds a cart service client for the given base URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		return nil, errBaseURLRequired
	}

	client := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	return client, nil
}

// AddToCart runs the full add-to-cart sequence for the user: normalize the
// incoming intents, look up the persisted cart, merge, then create or
// overwrite upstream. A lookup failure short-circuits before any write. The
// read-merge-write sequence is not atomic; two racing calls for one user
// resolve last-write-wins over the whole product list.
func (c *Client) AddToCart(ctx context.Context, userID, token string, items ...LineItem) ([]byte, error) {
	incoming := Normalize(items...)

	lookup, err := c.FindCart(ctx, userID, token)
	if err != nil {
		return nil, err
	}

	if !lookup.Found {
		body, err := c.CreateCart(ctx, userID, token, incoming)
		if err != nil {
			return nil, err
		}
		c.logEvent(ctx, "", userID, len(incoming), "cart created")
		return body, nil
	}

	if lookup.CartID == "" {
		return nil, fmt.Errorf("cart lookup returned no cart id for update")
	}

	merged := Merge(lookup.Items, incoming)
	body, err := c.UpdateCart(ctx, lookup.CartID, token, merged)
	if err != nil {
		return nil, err
	}
	c.logEvent(ctx, lookup.CartID, userID, len(merged), "cart updated")
	return body, nil
}

func (c *Client) logEvent(ctx context.Context, cartID, userID string, itemCount int, msg string) {
	if c.logg == nil {
		return
	}
	if cartID != "" {
		ctx = c.logg.WithCartID(ctx, cartID)
	}
	ctx = c.logg.WithUserID(ctx, userID)
	ctx = c.logg.WithField(ctx, "item_count", itemCount)
	c.logg.Info(ctx, msg)
}

func (c *Client) buildURL(path string) string {
	trimmed := strings.TrimRight(c.baseURL, "/")
	path = strings.TrimLeft(path, "/")
	return fmt.Sprintf("%s/%s", trimmed, path)
}

func setAuthHeader(req *http.Request, token string) {
	if trimmed := strings.TrimSpace(token); trimmed != "" {
		req.Header.Set("Authorization", "Bearer "+trimmed)
	}
}
