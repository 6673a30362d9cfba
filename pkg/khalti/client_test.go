package khalti

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fashionhub/storefront-backend/pkg/config"
	pkgerrors "github.com/fashionhub/storefront-backend/pkg/errors"
	"github.com/fashionhub/storefront-backend/pkg/logger"
	"github.com/rs/zerolog"
)

func newTestClient(t *testing.T, baseURL string, timeout time.Duration) *Client {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "khalti-test", Level: zerolog.ErrorLevel, Output: io.Discard})
	client, err := NewClient(context.Background(), config.GatewayConfig{
		BaseURL:        baseURL,
		SecretKey:      "test-secret",
		ReturnURL:      "https://shop.example.com/payments/return",
		WebsiteURL:     "https://shop.example.com",
		RequestTimeout: timeout,
	}, logg)
	if err != nil {
		t.Fatalf("build client: %v", err)
	}
	return client
}

func TestInitiate(t *testing.T) {
	t.Parallel()

	var gotAuth string
	var gotBody initiateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != initiatePath {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(InitiateResult{
			Pidx:       "pidx-123",
			PaymentURL: "https://pay.example.com/pidx-123",
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, time.Second)
	result, err := client.Initiate(context.Background(), InitiateParams{
		AmountPaisa:       130_00,
		PurchaseOrderID:   "order-1",
		PurchaseOrderName: "FashionHub order",
		Customer:          CustomerInfo{Name: "Asha", Email: "asha@example.com", Phone: "9800000001"},
	})
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}
	if result.Pidx != "pidx-123" || result.PaymentURL == "" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if gotAuth != "Key test-secret" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if gotBody.Amount != 13000 || gotBody.ReturnURL == "" || gotBody.WebsiteURL == "" {
		t.Fatalf("unexpected request body: %+v", gotBody)
	}
}

func TestInitiateRejectsNonPositiveAmount(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, "http://127.0.0.1:0", time.Second)
	_, err := client.Initiate(context.Background(), InitiateParams{AmountPaisa: 0})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error before any network call, got %v", err)
	}
}

func TestLookup(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != lookupPath {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(LookupResult{
			Pidx:        "pidx-123",
			TotalAmount: 13000,
			Status:      StatusCompleted,
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, time.Second)
	result, err := client.Lookup(context.Background(), "pidx-123")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !result.Completed() || result.TotalAmount != 13000 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestGatewayRejection(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail":"amount too small"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, time.Second)
	_, err := client.Lookup(context.Background(), "pidx-999")
	if !pkgerrors.HasCode(err, pkgerrors.CodeGatewayRejected) {
		t.Fatalf("expected gateway rejection, got %v", err)
	}
}

func TestGatewayTimeout(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_ = json.NewEncoder(w).Encode(LookupResult{})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 20*time.Millisecond)
	_, err := client.Lookup(context.Background(), "pidx-slow")
	if !pkgerrors.HasCode(err, pkgerrors.CodeGatewayTimeout) {
		t.Fatalf("expected gateway timeout, got %v", err)
	}
}
