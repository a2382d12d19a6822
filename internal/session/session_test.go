package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTokenRoundTrip(t *testing.T) {
	id := NewSessionID()
	token, err := CreateToken("test-secret", id)
	if err != nil {
		t.Fatalf("create token: %v", err)
	}

	claims, err := ParseToken("test-secret", token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.SessionID != id {
		t.Fatalf("session id mismatch: got %s want %s", claims.SessionID, id)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := CreateToken("secret-one", "abc")
	if err != nil {
		t.Fatalf("create token: %v", err)
	}
	if _, err := ParseToken("secret-two", token); err == nil {
		t.Fatalf("expected error for wrong secret")
	}
}

func TestMiddleware(t *testing.T) {
	secret := "mw-secret"
	id := NewSessionID()
	token, err := CreateToken(secret, id)
	if err != nil {
		t.Fatalf("create token: %v", err)
	}

	var gotID string
	handler := Middleware(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = SessionIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotID != id {
		t.Fatalf("session id not propagated: got %s want %s", gotID, id)
	}

	cases := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"malformed", "Token " + token},
		{"garbage", "Bearer not-a-token"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", tc.name, rec.Code)
		}
	}
}
