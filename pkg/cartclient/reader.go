package cartclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dcastellanos/hearthhide-backend/pkg/envelope"
)

// Lookup is the classified outcome of a cart-existence check.
type Lookup struct {
	Found  bool
	CartID string
	Items  []LineItem
}

// FindCart fetches the persisted cart for the user. A 404 means the user has
// no cart yet and yields Found=false with no error. Any other failure
// (transport error, non-2xx status, unrecognized body) is a *LookupError.
func (c *Client) FindCart(ctx context.Context, userID, token string) (Lookup, error) {
	if strings.TrimSpace(userID) == "" {
		return Lookup{}, fmt.Errorf("user id is required")
	}

	endpoint := c.buildURL("cart/find/" + url.PathEscape(userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Lookup{}, fmt.Errorf("build cart lookup request: %w", err)
	}
	setAuthHeader(req, token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Lookup{}, &LookupError{cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return Lookup{Found: false}, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return Lookup{}, &LookupError{
			StatusCode: resp.StatusCode,
			cause:      fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
	if err != nil {
		return Lookup{}, &LookupError{cause: fmt.Errorf("read cart lookup response: %w", err)}
	}

	decoded, err := envelope.Decode(body)
	if err != nil {
		return Lookup{}, &LookupError{cause: fmt.Errorf("decode cart lookup response: %w", err)}
	}

	items := make([]LineItem, 0, len(decoded.Items))
	for _, raw := range decoded.Items {
		var item LineItem
		if err := json.Unmarshal(raw, &item); err != nil {
			return Lookup{}, &LookupError{cause: fmt.Errorf("decode cart line item: %w", err)}
		}
		items = append(items, item)
	}

	return Lookup{
		Found:  true,
		CartID: decoded.CartID,
		Items:  items,
	}, nil
}
