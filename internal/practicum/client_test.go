package practicum

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"hwbot/pkg/logx"
)

func TestClientFetch(t *testing.T) {
	t.Parallel()

	var gotAuth, gotFromDate string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotFromDate = r.URL.Query().Get("from_date")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"homeworks":[{"homework_name":"HW1","status":"approved"}],"current_date":1000}`))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{Endpoint: srv.URL, Token: "secret"}, logx.Nop())
	raw, err := c.Fetch(context.Background(), 555)
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if gotAuth != "OAuth secret" {
		t.Fatalf("Authorization = %q, want %q", gotAuth, "OAuth secret")
	}
	if gotFromDate != "555" {
		t.Fatalf("from_date = %q, want %q", gotFromDate, "555")
	}
	if err := Validate(raw); err != nil {
		t.Fatalf("fetched payload failed validation: %v", err)
	}
	cur, err := CurrentDate(raw)
	if err != nil || cur != 1000 {
		t.Fatalf("CurrentDate = %d, %v; want 1000, nil", cur, err)
	}
}

func TestClientFetchBadStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{Endpoint: srv.URL, Token: "secret"}, logx.Nop())
	_, err := c.Fetch(context.Background(), 0)

	var bad *BadStatusError
	if !errors.As(err, &bad) {
		t.Fatalf("expected BadStatusError, got %v", err)
	}
	if bad.Code != http.StatusServiceUnavailable {
		t.Fatalf("Code = %d, want %d", bad.Code, http.StatusServiceUnavailable)
	}
	if !strings.Contains(err.Error(), srv.URL) || !strings.Contains(err.Error(), "503") {
		t.Fatalf("error %q should name the endpoint and the code", err.Error())
	}
}

func TestClientFetchConnectivity(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing is listening anymore

	c := NewClient(ClientConfig{Endpoint: srv.URL, Token: "secret"}, logx.Nop())
	_, err := c.Fetch(context.Background(), 0)

	var conn *ConnectivityError
	if !errors.As(err, &conn) {
		t.Fatalf("expected ConnectivityError, got %v", err)
	}
}

func TestClientFetchMalformedBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"homeworks": [`))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{Endpoint: srv.URL, Token: "secret"}, logx.Nop())
	if _, err := c.Fetch(context.Background(), 0); err == nil {
		t.Fatal("expected decode error for malformed body")
	}
}
