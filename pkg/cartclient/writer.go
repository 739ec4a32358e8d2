package cartclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

type createCartRequest struct {
	UserID   string     `json:"userId"`
	Products []LineItem `json:"products"`
}

type updateCartRequest struct {
	Products []LineItem `json:"products"`
}

// CreateCart persists a brand new cart for the user. The upstream response
// body is returned verbatim on success; a non-2xx status becomes a
// *WriteError carrying the response text.
func (c *Client) CreateCart(ctx context.Context, userID, token string, items []LineItem) ([]byte, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("user id is required")
	}
	return c.write(ctx, http.MethodPost, c.buildURL("cart/add"), token, createCartRequest{
		UserID:   userID,
		Products: items,
	})
}

// UpdateCart overwrites the full product list of an existing cart. The update
// is a whole-document replace, so concurrent writers are last-write-wins;
// that matches the upstream service's behavior.
func (c *Client) UpdateCart(ctx context.Context, cartID, token string, items []LineItem) ([]byte, error) {
	if strings.TrimSpace(cartID) == "" {
		return nil, fmt.Errorf("cart id is required")
	}
	return c.write(ctx, http.MethodPut, c.buildURL("cart/update/"+url.PathEscape(cartID)), token, updateCartRequest{
		Products: items,
	})
}

func (c *Client) write(ctx context.Context, method, endpoint, token string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal cart write request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build cart write request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	setAuthHeader(req, token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute cart write request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
	if err != nil {
		return nil, fmt.Errorf("read cart write response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &WriteError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(respBody)),
		}
	}

	return respBody, nil
}
