package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dcastellanos/hearthhide-backend/api/middleware"
	cartsvc "github.com/dcastellanos/hearthhide-backend/internal/cart"
	"github.com/dcastellanos/hearthhide-backend/pkg/enums"
	pkgerrors "github.com/dcastellanos/hearthhide-backend/pkg/errors"
	"github.com/dcastellanos/hearthhide-backend/pkg/outbox"
)

type stubCartOps struct {
	cart      *cartsvc.CartDTO
	err       error
	lastActor outbox.ActorRef
	lastAdd   cartsvc.AddToCartDTO
	lastID    uuid.UUID
	lastSet   cartsvc.UpdateCartDTO
}

func (s *stubCartOps) FindCart(ctx context.Context, userID uuid.UUID) (*cartsvc.CartDTO, error) {
	return s.cart, s.err
}

func (s *stubCartOps) AddToCart(ctx context.Context, actor outbox.ActorRef, input cartsvc.AddToCartDTO) (*cartsvc.CartDTO, error) {
	s.lastActor = actor
	s.lastAdd = input
	return s.cart, s.err
}

func (s *stubCartOps) UpdateCart(ctx context.Context, actor outbox.ActorRef, cartID uuid.UUID, input cartsvc.UpdateCartDTO) (*cartsvc.CartDTO, error) {
	s.lastActor = actor
	s.lastID = cartID
	s.lastSet = input
	return s.cart, s.err
}

func withCartURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestCartFindLegacyBody(t *testing.T) {
	userID := uuid.New()
	svc := &stubCartOps{cart: &cartsvc.CartDTO{
		ID:     uuid.New(),
		UserID: userID,
		Products: []cartsvc.LineItemDTO{
			{ProductID: "p1", Quantity: 3, Title: "Sofa", Price: 899.99, Size: "L", Color: "cognac"},
		},
		Subtotal: 2699.97,
	}}
	handler := CartFind(svc, nil)

	req := withCartURLParam(httptest.NewRequest(http.MethodGet, "/cart/find/"+userID.String(), nil), "userId", userID.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if _, ok := body["data"]; ok {
		t.Fatalf("legacy response must not carry envelope, got %s", resp.Body.String())
	}
	raw, ok := body["cart"]
	if !ok {
		t.Fatalf("expected cart key, got %s", resp.Body.String())
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("decode cart: %v", err)
	}
	for _, key := range []string{"_id", "userId", "products", "subtotal"} {
		if _, ok := doc[key]; !ok {
			t.Fatalf("expected key %q in cart document, got %s", key, raw)
		}
	}

	var items []map[string]json.RawMessage
	if err := json.Unmarshal(doc["products"], &items); err != nil {
		t.Fatalf("decode products: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected one line item got %d", len(items))
	}
	for _, key := range []string{"productId", "quantity", "title", "price", "img", "desc", "size", "color"} {
		if _, ok := items[0][key]; !ok {
			t.Fatalf("expected key %q in line item, got %s", key, doc["products"])
		}
	}
}

func TestCartFindNotFound(t *testing.T) {
	userID := uuid.New()
	svc := &stubCartOps{err: pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")}
	handler := CartFind(svc, nil)

	req := withCartURLParam(httptest.NewRequest(http.MethodGet, "/cart/find/"+userID.String(), nil), "userId", userID.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["message"] != "cart not found" {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
}

func TestCartFindRejectsBadUserID(t *testing.T) {
	handler := CartFind(&stubCartOps{}, nil)

	req := withCartURLParam(httptest.NewRequest(http.MethodGet, "/cart/find/nope", nil), "userId", "nope")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartAddReturnsBareDocument(t *testing.T) {
	userID := uuid.New()
	actorID := uuid.New()
	svc := &stubCartOps{cart: &cartsvc.CartDTO{ID: uuid.New(), UserID: userID}}
	handler := CartAdd(svc, nil)

	payload := `{"userId":"` + userID.String() + `","products":[{"productId":"p1","quantity":2,"title":"Belt","price":45}],"legacyClientField":"ignored"}`
	req := httptest.NewRequest(http.MethodPost, "/cart/add", strings.NewReader(payload))
	ctx := middleware.WithUserID(req.Context(), actorID.String())
	ctx = middleware.WithRole(ctx, string(enums.MemberRoleCustomer))
	req = req.WithContext(ctx)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body %s", resp.Code, resp.Body.String())
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(resp.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if _, ok := doc["_id"]; !ok {
		t.Fatalf("expected bare cart document, got %s", resp.Body.String())
	}
	if _, ok := doc["data"]; ok {
		t.Fatalf("legacy response must not carry envelope, got %s", resp.Body.String())
	}

	if svc.lastAdd.UserID != userID {
		t.Fatalf("expected user id %s forwarded, got %s", userID, svc.lastAdd.UserID)
	}
	if len(svc.lastAdd.Products) != 1 || svc.lastAdd.Products[0].ProductID != "p1" {
		t.Fatalf("unexpected products %+v", svc.lastAdd.Products)
	}
	if svc.lastActor.UserID != actorID {
		t.Fatalf("expected actor %s got %s", actorID, svc.lastActor.UserID)
	}
	if svc.lastActor.Role != string(enums.MemberRoleCustomer) {
		t.Fatalf("expected customer actor role got %q", svc.lastActor.Role)
	}
}

func TestCartUpdateForwardsCartID(t *testing.T) {
	cartID := uuid.New()
	svc := &stubCartOps{cart: &cartsvc.CartDTO{ID: cartID}}
	handler := CartUpdate(svc, nil)

	payload := `{"products":[{"productId":"p2","quantity":4}]}`
	req := withCartURLParam(httptest.NewRequest(http.MethodPut, "/cart/update/"+cartID.String(), strings.NewReader(payload)), "cartId", cartID.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body %s", resp.Code, resp.Body.String())
	}
	if svc.lastID != cartID {
		t.Fatalf("expected cart id %s got %s", cartID, svc.lastID)
	}
	if len(svc.lastSet.Products) != 1 || svc.lastSet.Products[0].Quantity != 4 {
		t.Fatalf("unexpected products %+v", svc.lastSet.Products)
	}
}

func TestCartUpdateUnknownCart(t *testing.T) {
	cartID := uuid.New()
	svc := &stubCartOps{err: pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")}
	handler := CartUpdate(svc, nil)

	req := withCartURLParam(httptest.NewRequest(http.MethodPut, "/cart/update/"+cartID.String(), strings.NewReader(`{"products":[]}`)), "cartId", cartID.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
