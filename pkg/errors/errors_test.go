package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	cases := []struct {
		code   Code
		status int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeInsufficientStock, http.StatusConflict},
		{CodeStateConflict, http.StatusUnprocessableEntity},
		{CodeNotCancellable, http.StatusUnprocessableEntity},
		{CodeGatewayTimeout, http.StatusGatewayTimeout},
		{CodeGatewayRejected, http.StatusBadGateway},
		{CodeNotFound, http.StatusNotFound},
	}
	for _, tc := range cases {
		meta := MetadataFor(tc.code)
		if meta.HTTPStatus != tc.status {
			t.Fatalf("code %s: expected status %d, got %d", tc.code, tc.status, meta.HTTPStatus)
		}
	}
}

func TestMetadataForUnknownCodeFallsBack(t *testing.T) {
	meta := MetadataFor(Code("NOT_A_CODE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal fallback, got %d", meta.HTTPStatus)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("row locked")
	err := Wrap(CodeDependency, cause, "reserve stock")
	if !stdErrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to survive errors.Is")
	}
	if err.Code() != CodeDependency {
		t.Fatalf("unexpected code %s", err.Code())
	}
}

func TestAsThroughWrappedChain(t *testing.T) {
	inner := New(CodeInsufficientStock, "only 2 left").WithDetails(map[string]any{"available": 2})
	outer := fmt.Errorf("checkout: %w", inner)

	typed := As(outer)
	if typed == nil {
		t.Fatal("expected typed error through chain")
	}
	if typed.Code() != CodeInsufficientStock {
		t.Fatalf("unexpected code %s", typed.Code())
	}
	if typed.Details() == nil {
		t.Fatal("expected details to survive")
	}
}

func TestHasCode(t *testing.T) {
	err := New(CodeNotCancellable, "window expired")
	if !HasCode(err, CodeNotCancellable) {
		t.Fatal("expected HasCode to match")
	}
	if HasCode(err, CodeValidation) {
		t.Fatal("expected HasCode mismatch")
	}
	if HasCode(nil, CodeValidation) {
		t.Fatal("nil error must not match")
	}
}
