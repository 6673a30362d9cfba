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

	"github.com/fashionhub/storefront-backend/api/middleware"
	cartsvc "github.com/fashionhub/storefront-backend/internal/cart"
	pkgerrors "github.com/fashionhub/storefront-backend/pkg/errors"
)

type stubCartService struct {
	view     *cartsvc.View
	addErr   error
	addInput cartsvc.AddLineInput
}

func (s *stubCartService) GetCart(_ context.Context, _ uuid.UUID) (*cartsvc.View, error) {
	return s.view, nil
}

func (s *stubCartService) AddLine(_ context.Context, _ uuid.UUID, input cartsvc.AddLineInput) (*cartsvc.View, error) {
	s.addInput = input
	if s.addErr != nil {
		return nil, s.addErr
	}
	return s.view, nil
}

func (s *stubCartService) UpdateLineQuantity(_ context.Context, _ uuid.UUID, _ uuid.UUID, _ int) (*cartsvc.View, error) {
	return s.view, nil
}

func (s *stubCartService) RemoveLine(_ context.Context, _ uuid.UUID, _ uuid.UUID) (*cartsvc.View, error) {
	return s.view, nil
}

func (s *stubCartService) Clear(_ context.Context, _ uuid.UUID) error {
	return nil
}

func cartTestRouter(svc cartsvc.Service) http.Handler {
	logg := controllersTestLogger()
	r := chi.NewRouter()
	r.Use(middleware.Identity(logg))
	r.Get("/api/v1/cart", CartFetch(svc, logg))
	r.Post("/api/v1/cart/items", CartAddLine(svc, logg))
	return r
}

func TestCartAddLineDecodesPayload(t *testing.T) {
	productID := uuid.New()
	sizeID := uuid.New()
	svc := &stubCartService{view: &cartsvc.View{}}
	router := cartTestRouter(svc)

	body := `{"product_id":"` + productID.String() + `","size_id":"` + sizeID.String() + `","quantity":3}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body))
	req.Header.Set("X-User-Id", uuid.NewString())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if svc.addInput.ProductID != productID || svc.addInput.Quantity != 3 {
		t.Fatalf("unexpected input: %+v", svc.addInput)
	}
	if svc.addInput.SizeID == nil || *svc.addInput.SizeID != sizeID {
		t.Fatalf("size id not forwarded: %+v", svc.addInput.SizeID)
	}
}

func TestCartAddLineSurfacesInsufficientStock(t *testing.T) {
	svc := &stubCartService{
		view:   &cartsvc.View{},
		addErr: pkgerrors.New(pkgerrors.CodeInsufficientStock, `only 2 of "Canvas Tote" available`),
	}
	router := cartTestRouter(svc)

	body := `{"product_id":"` + uuid.NewString() + `","quantity":5}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body))
	req.Header.Set("X-User-Id", uuid.NewString())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "INSUFFICIENT_STOCK") {
		t.Fatalf("expected INSUFFICIENT_STOCK code in body: %s", w.Body.String())
	}
}

func TestCartAddLineRejectsZeroQuantity(t *testing.T) {
	svc := &stubCartService{view: &cartsvc.View{}}
	router := cartTestRouter(svc)

	body := `{"product_id":"` + uuid.NewString() + `","quantity":0}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body))
	req.Header.Set("X-User-Id", uuid.NewString())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero quantity, got %d", w.Code)
	}
}

func TestCartAddLineRequiresSizeForPartitionedProducts(t *testing.T) {
	svc := &stubCartService{
		view:   &cartsvc.View{},
		addErr: pkgerrors.New(pkgerrors.CodeValidation, "size selection required").WithDetails(map[string]any{"reason": "size_required"}),
	}
	router := cartTestRouter(svc)

	body := `{"product_id":"` + uuid.NewString() + `","quantity":1}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body))
	req.Header.Set("X-User-Id", uuid.NewString())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var envelope struct {
		Error struct {
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(w.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.Error.Details["reason"] != "size_required" {
		t.Fatalf("expected size_required detail, got %v", envelope.Error.Details)
	}
}

func TestCartRequiresIdentity(t *testing.T) {
	svc := &stubCartService{view: &cartsvc.View{}}
	router := cartTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without identity, got %d", w.Code)
	}
}
