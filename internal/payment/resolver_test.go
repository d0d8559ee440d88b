package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"teahouse-storefront/internal/config"
	"teahouse-storefront/internal/logger"
)

func newResolver(gatewayURL string) *Resolver {
	return NewResolver(config.PaymentConfig{
		GatewayURL: gatewayURL,
		ReturnURL:  "https://teahouse.example/order-confirmation",
	}, logger.New("test"))
}

func TestResolve_GatewaySuccess(t *testing.T) {
	var captured linkRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("failed to decode gateway request: %v", err)
		}
		json.NewEncoder(w).Encode(linkResponse{ConfirmationURL: "https://pay.example/ck_123"})
	}))
	defer srv.Close()

	r := newResolver(srv.URL)
	link := r.Resolve(context.Background(), "order-1", 1750)

	if link != "https://pay.example/ck_123" {
		t.Fatalf("expected gateway confirmation URL, got %q", link)
	}
	if captured.Amount.Value != "1750.00" {
		t.Fatalf("expected amount 1750.00, got %q", captured.Amount.Value)
	}
	if captured.Amount.Currency != "RUB" {
		t.Fatalf("expected RUB currency, got %q", captured.Amount.Currency)
	}
	if !captured.Capture {
		t.Fatalf("expected capture to be set")
	}
	if captured.Confirmation.Type != "redirect" {
		t.Fatalf("expected redirect confirmation, got %q", captured.Confirmation.Type)
	}
	if !strings.Contains(captured.Confirmation.ReturnURL, "orderId=order-1") {
		t.Fatalf("expected return URL to carry the order id, got %q", captured.Confirmation.ReturnURL)
	}
	if captured.Metadata["order_id"] != "order-1" {
		t.Fatalf("expected order id in metadata, got %v", captured.Metadata)
	}
}

func TestResolve_GatewayErrorFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	r := newResolver(srv.URL)
	link := r.Resolve(context.Background(), "order-2", 3100)

	assertFallbackLink(t, link, "order-2", "3100.00")
}

func TestResolve_GatewayUnreachableFallsBack(t *testing.T) {
	// A closed server: the client gets a connection error.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	r := newResolver(srv.URL)
	link := r.Resolve(context.Background(), "order-3", 1200)

	assertFallbackLink(t, link, "order-3", "1200.00")
}

func TestResolve_MissingConfirmationURLFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer srv.Close()

	r := newResolver(srv.URL)
	link := r.Resolve(context.Background(), "order-4", 2000)

	assertFallbackLink(t, link, "order-4", "2000.00")
}

func assertFallbackLink(t *testing.T, link, orderID, sum string) {
	t.Helper()

	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("fallback link is not a valid URL: %v", err)
	}
	if !u.IsAbs() {
		t.Fatalf("fallback link must be absolute, got %q", link)
	}

	q := u.Query()
	if q.Get("shopId") != ShopID {
		t.Fatalf("expected shopId %s, got %q", ShopID, q.Get("shopId"))
	}
	if q.Get("sum") != sum {
		t.Fatalf("expected sum %s, got %q", sum, q.Get("sum"))
	}
	if q.Get("customerNumber") != orderID {
		t.Fatalf("expected customerNumber %s, got %q", orderID, q.Get("customerNumber"))
	}
	if q.Get("shopSuccessURL") == "" {
		t.Fatalf("expected shopSuccessURL to be set")
	}
}

func TestOrElse(t *testing.T) {
	if got := Success("u").OrElse(func() string { return "f" }); got != "u" {
		t.Fatalf("expected success URL, got %q", got)
	}
	if got := Failure(context.DeadlineExceeded).OrElse(func() string { return "f" }); got != "f" {
		t.Fatalf("expected fallback, got %q", got)
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount   int
		expected string
	}{
		{0, "0.00"},
		{150, "150.00"},
		{1200, "1200.00"},
	}
	for _, tt := range tests {
		if got := FormatAmount(tt.amount); got != tt.expected {
			t.Fatalf("FormatAmount(%d) = %q, expected %q", tt.amount, got, tt.expected)
		}
	}
}
