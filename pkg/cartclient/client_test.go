package cartclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

type recordedRequest struct {
	Method string
	Path   string
	Auth   string
	Body   []byte
}

type fakeCartService struct {
	findStatus int
	findBody   string

	writeStatus int
	writeBody   string

	requests []recordedRequest
}

func (f *fakeCartService) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.requests = append(f.requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Auth:   r.Header.Get("Authorization"),
			Body:   body,
		})

		if r.Method == http.MethodGet {
			status := f.findStatus
			if status == 0 {
				status = http.StatusOK
			}
			w.WriteHeader(status)
			_, _ = w.Write([]byte(f.findBody))
			return
		}

		status := f.writeStatus
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(f.writeBody))
	}
}

func newTestClient(t *testing.T, svc *fakeCartService) *Client {
	t.Helper()
	server := httptest.NewServer(svc.handler())
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func writeRequests(svc *fakeCartService) []recordedRequest {
	writes := make([]recordedRequest, 0)
	for _, req := range svc.requests {
		if req.Method != http.MethodGet {
			writes = append(writes, req)
		}
	}
	return writes
}

func TestAddToCartNotFoundCreates(t *testing.T) {
	svc := &fakeCartService{
		findStatus: http.StatusNotFound,
		writeBody:  `{"cart": {"_id": "new-cart", "products": []}}`,
	}
	client := newTestClient(t, svc)

	body, err := client.AddToCart(context.Background(), "u1", "tok-123", LineItem{ProductID: "p2", Quantity: 1})
	if err != nil {
		t.Fatalf("add to cart: %v", err)
	}
	if string(body) != svc.writeBody {
		t.Fatalf("expected upstream body propagated, got %s", body)
	}

	writes := writeRequests(svc)
	if len(writes) != 1 {
		t.Fatalf("expected exactly one write, got %d", len(writes))
	}
	write := writes[0]
	if write.Method != http.MethodPost || write.Path != "/cart/add" {
		t.Fatalf("expected POST /cart/add, got %s %s", write.Method, write.Path)
	}

	var payload struct {
		UserID   string     `json:"userId"`
		Products []LineItem `json:"products"`
	}
	if err := json.Unmarshal(write.Body, &payload); err != nil {
		t.Fatalf("decode create body: %v", err)
	}
	if payload.UserID != "u1" {
		t.Fatalf("expected userId u1, got %q", payload.UserID)
	}
	if len(payload.Products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(payload.Products))
	}
	got := payload.Products[0]
	want := LineItem{ProductID: "p2", Quantity: 1, Title: "Product", Price: 0}
	if got != want {
		t.Fatalf("expected defaulted item %+v, got %+v", want, got)
	}
}

func TestAddToCartFoundUpdates(t *testing.T) {
	svc := &fakeCartService{
		findBody:  `{"cart": {"_id": "c1", "products": [{"productId": "p1", "quantity": 1, "title": "A", "price": 5}]}}`,
		writeBody: `{"cart": {"_id": "c1"}}`,
	}
	client := newTestClient(t, svc)

	_, err := client.AddToCart(context.Background(), "u1", "tok-123",
		LineItem{ProductID: "p1", Quantity: 2, Title: "A", Price: 6})
	if err != nil {
		t.Fatalf("add to cart: %v", err)
	}

	writes := writeRequests(svc)
	if len(writes) != 1 {
		t.Fatalf("expected exactly one write, got %d", len(writes))
	}
	write := writes[0]
	if write.Method != http.MethodPut || write.Path != "/cart/update/c1" {
		t.Fatalf("expected PUT /cart/update/c1, got %s %s", write.Method, write.Path)
	}

	var payload struct {
		Products []LineItem `json:"products"`
	}
	if err := json.Unmarshal(write.Body, &payload); err != nil {
		t.Fatalf("decode update body: %v", err)
	}
	if len(payload.Products) != 1 {
		t.Fatalf("expected 1 merged product, got %d", len(payload.Products))
	}
	got := payload.Products[0]
	if got.ProductID != "p1" || got.Quantity != 3 || got.Title != "A" || got.Price != 6 {
		t.Fatalf("unexpected merged item %+v", got)
	}
}

func TestAddToCartFlatEnvelopeWithSiblingID(t *testing.T) {
	svc := &fakeCartService{
		findBody:  `{"_id": "c7", "products": [{"productId": "p1", "quantity": 2}]}`,
		writeBody: `{}`,
	}
	client := newTestClient(t, svc)

	_, err := client.AddToCart(context.Background(), "u1", "tok", LineItem{ProductID: "p2", Quantity: 1})
	if err != nil {
		t.Fatalf("add to cart: %v", err)
	}

	writes := writeRequests(svc)
	if len(writes) != 1 {
		t.Fatalf("expected one write, got %d", len(writes))
	}
	if writes[0].Path != "/cart/update/c7" {
		t.Fatalf("expected update addressed by c7, got %s", writes[0].Path)
	}
}

func TestAddToCartLookupErrorShortCircuits(t *testing.T) {
	svc := &fakeCartService{
		findStatus: http.StatusInternalServerError,
		findBody:   `upstream exploded`,
	}
	client := newTestClient(t, svc)

	_, err := client.AddToCart(context.Background(), "u1", "tok", LineItem{ProductID: "p1"})
	if err == nil {
		t.Fatalf("expected lookup error")
	}
	var lookupErr *LookupError
	if !errors.As(err, &lookupErr) {
		t.Fatalf("expected *LookupError, got %T: %v", err, err)
	}
	if lookupErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", lookupErr.StatusCode)
	}

	if writes := writeRequests(svc); len(writes) != 0 {
		t.Fatalf("expected no writes after lookup failure, got %d", len(writes))
	}
}

func TestAddToCartTransportErrorIsLookupError(t *testing.T) {
	client, err := NewClient("http://127.0.0.1:1")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.AddToCart(context.Background(), "u1", "tok", LineItem{ProductID: "p1"})
	var lookupErr *LookupError
	if !errors.As(err, &lookupErr) {
		t.Fatalf("expected *LookupError, got %T: %v", err, err)
	}
}

func TestAddToCartMalformedLookupBodyIsLookupError(t *testing.T) {
	svc := &fakeCartService{findBody: `{"count": 3}`}
	client := newTestClient(t, svc)

	_, err := client.AddToCart(context.Background(), "u1", "tok", LineItem{ProductID: "p1"})
	var lookupErr *LookupError
	if !errors.As(err, &lookupErr) {
		t.Fatalf("expected *LookupError, got %T: %v", err, err)
	}
	if writes := writeRequests(svc); len(writes) != 0 {
		t.Fatalf("expected no writes, got %d", len(writes))
	}
}

func TestAddToCartWriteFailureCarriesBody(t *testing.T) {
	svc := &fakeCartService{
		findStatus:  http.StatusNotFound,
		writeStatus: http.StatusUnprocessableEntity,
		writeBody:   `quantity limit exceeded`,
	}
	client := newTestClient(t, svc)

	_, err := client.AddToCart(context.Background(), "u1", "tok", LineItem{ProductID: "p1"})
	var writeErr *WriteError
	if !errors.As(err, &writeErr) {
		t.Fatalf("expected *WriteError, got %T: %v", err, err)
	}
	if writeErr.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", writeErr.StatusCode)
	}
	if writeErr.Body != "quantity limit exceeded" {
		t.Fatalf("expected response body surfaced, got %q", writeErr.Body)
	}
}

func TestAddToCartSendsBearerToken(t *testing.T) {
	svc := &fakeCartService{
		findStatus: http.StatusNotFound,
		writeBody:  `{}`,
	}
	client := newTestClient(t, svc)

	_, err := client.AddToCart(context.Background(), "u1", "tok-456", LineItem{ProductID: "p1"})
	if err != nil {
		t.Fatalf("add to cart: %v", err)
	}

	if len(svc.requests) != 2 {
		t.Fatalf("expected lookup and create, got %d requests", len(svc.requests))
	}
	for _, req := range svc.requests {
		if req.Auth != "Bearer tok-456" {
			t.Fatalf("expected bearer token on %s %s, got %q", req.Method, req.Path, req.Auth)
		}
	}
}

func TestFindCartClassification(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		svc := &fakeCartService{findStatus: http.StatusNotFound}
		client := newTestClient(t, svc)

		lookup, err := client.FindCart(context.Background(), "u1", "tok")
		if err != nil {
			t.Fatalf("expected 404 to classify as not found, got %v", err)
		}
		if lookup.Found {
			t.Fatalf("expected Found=false")
		}
	})

	t.Run("found nested", func(t *testing.T) {
		svc := &fakeCartService{
			findBody: `{"cart": {"_id": "c1", "products": [{"productId": "p1", "quantity": "2"}]}}`,
		}
		client := newTestClient(t, svc)

		lookup, err := client.FindCart(context.Background(), "u1", "tok")
		if err != nil {
			t.Fatalf("find cart: %v", err)
		}
		if !lookup.Found || lookup.CartID != "c1" {
			t.Fatalf("unexpected lookup %+v", lookup)
		}
		if len(lookup.Items) != 1 || lookup.Items[0].Quantity != 2 {
			t.Fatalf("expected quantity coerced from string, got %+v", lookup.Items)
		}
	})

	t.Run("server error is not not-found", func(t *testing.T) {
		svc := &fakeCartService{findStatus: http.StatusBadGateway}
		client := newTestClient(t, svc)

		_, err := client.FindCart(context.Background(), "u1", "tok")
		var lookupErr *LookupError
		if !errors.As(err, &lookupErr) {
			t.Fatalf("expected *LookupError, got %T: %v", err, err)
		}
	})
}
