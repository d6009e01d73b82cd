package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type fakeVerifier struct {
	userID string
	err    error
	seen   string
}

func (f *fakeVerifier) Verify(token string) (string, error) {
	f.seen = token
	return f.userID, f.err
}

func TestBearerAuth_MissingHeader(t *testing.T) {
	verifier := &fakeVerifier{}
	called := false
	handler := BearerAuth(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/cameras", nil)
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d; want %d", rec.Code, http.StatusUnauthorized)
	}
	if !strings.Contains(rec.Body.String(), "Missing token") {
		t.Errorf("body = %q; want it to contain %q", rec.Body.String(), "Missing token")
	}
	if called {
		t.Error("next handler called despite missing header")
	}
	if verifier.seen != "" {
		t.Error("verifier called despite missing header")
	}
}

func TestBearerAuth_InvalidToken(t *testing.T) {
	verifier := &fakeVerifier{err: errors.New("bad signature")}
	handler := BearerAuth(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler called despite invalid token")
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/cameras", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d; want %d", rec.Code, http.StatusUnauthorized)
	}
	if !strings.Contains(rec.Body.String(), "Invalid token") {
		t.Errorf("body = %q; want it to contain %q", rec.Body.String(), "Invalid token")
	}
}

func TestBearerAuth_ValidToken(t *testing.T) {
	verifier := &fakeVerifier{userID: "user-1"}
	var gotUserID string
	handler := BearerAuth(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = GetUserIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/cameras", nil)
	req.Header.Set("Authorization", "Bearer sometoken")
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want %d", rec.Code, http.StatusOK)
	}
	if verifier.seen != "sometoken" {
		t.Errorf("verifier received %q; want %q", verifier.seen, "sometoken")
	}
	if gotUserID != "user-1" {
		t.Errorf("context user ID = %q; want %q", gotUserID, "user-1")
	}
}

func TestGetUserIDFromContext_Empty(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if got := GetUserIDFromContext(req.Context()); got != "" {
		t.Errorf("GetUserIDFromContext = %q; want empty", got)
	}
}
