package supabase

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestQuerySendsFiltersAndKeys(t *testing.T) {
	var gotQuery, gotAPIKey, gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAPIKey = r.Header.Get("apikey")
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "service-key")
	body, err := c.Query(context.Background(), "health_events",
		Gte("timestamp", "2026-03-01T00:00:00Z"),
		Lte("timestamp", "2026-03-08T00:00:00Z"),
		Order("timestamp.asc"),
	)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if string(body) != "[]" {
		t.Errorf("body = %q", body)
	}
	if gotPath != "/rest/v1/health_events" {
		t.Errorf("path = %q", gotPath)
	}
	if strings.Count(gotQuery, "timestamp=") != 2 {
		t.Errorf("expected both timestamp filters, got %q", gotQuery)
	}
	if gotAPIKey != "service-key" || gotAuth != "Bearer service-key" {
		t.Errorf("headers apikey=%q auth=%q", gotAPIKey, gotAuth)
	}
}

func TestInsertReturnsRepresentation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if r.Header.Get("Prefer") != "return=representation" {
			t.Errorf("Prefer = %q", r.Header.Get("Prefer"))
		}
		b, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(b), `"device_id":"pi-1"`) {
			t.Errorf("body = %s", b)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`[{"id":"1"}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k")
	body, err := c.Insert(context.Background(), "health_events", map[string]interface{}{"device_id": "pi-1"})
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if string(body) != `[{"id":"1"}]` {
		t.Errorf("body = %s", body)
	}
}

func TestErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"bad filter"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "k").Query(context.Background(), "health_events")

	var sbErr *Error
	if !errors.As(err, &sbErr) {
		t.Fatalf("error = %v, want *supabase.Error", err)
	}
	if sbErr.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d", sbErr.StatusCode)
	}
}

func TestVerifyTokenUsesUserToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/user" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer user-jwt" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"id":"u-1","email":"a@b.c"}`))
	}))
	defer srv.Close()

	user, err := NewClient(srv.URL, "k").VerifyToken(context.Background(), "user-jwt")
	if err != nil {
		t.Fatalf("VerifyToken() error = %v", err)
	}
	if user.ID != "u-1" {
		t.Errorf("user = %+v", user)
	}
}
