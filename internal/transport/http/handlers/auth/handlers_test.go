package authhandler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"cadastro/internal/domain/auth"
	"cadastro/internal/session"
	"cadastro/internal/transport/http/middleware"
)

type stubChecker struct {
	user auth.User
	err  error
}

func (s *stubChecker) Authenticate(_ context.Context, _, _ string) (auth.User, error) {
	return s.user, s.err
}

func newTestHandler(checker CredentialChecker, verifier *auth.Verifier) (*Handler, *session.MemoryStore) {
	store := session.NewMemoryStore(0)
	return NewHandler(checker, store, verifier, time.Hour, false), store
}

func postLogin(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.HandleLogin(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return body
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == middleware.CookieName {
			return cookie
		}
	}
	t.Fatalf("no %s cookie in %v", middleware.CookieName, rec.Header())
	return nil
}

func TestLoginLocalCredentials(t *testing.T) {
	checker := &stubChecker{user: auth.User{ID: "1", Name: "admin"}}
	h, store := newTestHandler(checker, nil)
	defer store.Close()

	rec := postLogin(t, h, `{"username":"admin","password":"s3cret"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	user, ok := body["user"].(map[string]any)
	if !ok || user["name"] != "admin" {
		t.Fatalf("body = %v", body)
	}

	cookie := sessionCookie(t, rec)
	if cookie.Value == "" || !cookie.HttpOnly {
		t.Fatalf("cookie = %+v", cookie)
	}
	if cookie.SameSite != http.SameSiteLaxMode {
		t.Fatalf("samesite = %v", cookie.SameSite)
	}

	sess, err := store.Get(context.Background(), cookie.Value)
	if err != nil {
		t.Fatalf("session not stored: %v", err)
	}
	if sess.User.Name != "admin" {
		t.Fatalf("session user = %+v", sess.User)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	h, store := newTestHandler(&stubChecker{err: auth.ErrInvalidCredentials}, nil)
	defer store.Close()

	rec := postLogin(t, h, `{"username":"admin","password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
	if decodeBody(t, rec)["message"] != "Invalid credentials" {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestLoginMissingFields(t *testing.T) {
	h, store := newTestHandler(&stubChecker{}, nil)
	defer store.Close()

	cases := []struct {
		body, message string
	}{
		{`{"username":"admin"}`, "Username and password are required"},
		{`{"password":"s3cret"}`, "Username and password are required"},
		{`{}`, "Invalid authentication data"},
		{`{"token":"x"}`, "Invalid authentication data"},
		{`not json`, "Invalid authentication data"},
	}
	for _, tc := range cases {
		rec := postLogin(t, h, tc.body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %q: status = %d", tc.body, rec.Code)
		}
		if decodeBody(t, rec)["message"] != tc.message {
			t.Fatalf("body %q: response %s", tc.body, rec.Body.String())
		}
	}
}

func TestLoginAssertionVerified(t *testing.T) {
	h, store := newTestHandler(&stubChecker{}, auth.NewVerifier("topsecret"))
	defer store.Close()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.AssertionClaims{
		Name:  "Maria Souza",
		Email: "maria@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("topsecret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	// The asserted user payload is ignored in favor of the verified claims.
	rec := postLogin(t, h, `{"token":"`+signed+`","user":{"id":"spoofed","name":"Spoof"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	user := decodeBody(t, rec)["user"].(map[string]any)
	if user["id"] != "user-42" || user["name"] != "Maria Souza" {
		t.Fatalf("user = %v", user)
	}
}

func TestLoginAssertionBadToken(t *testing.T) {
	h, store := newTestHandler(&stubChecker{}, auth.NewVerifier("topsecret"))
	defer store.Close()

	rec := postLogin(t, h, `{"token":"garbage","user":{"id":"x"}}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
	if decodeBody(t, rec)["message"] != "Invalid authentication token" {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestLoginAssertionTrustedWithoutVerifier(t *testing.T) {
	h, store := newTestHandler(&stubChecker{}, nil)
	defer store.Close()

	rec := postLogin(t, h, `{"token":"anything","user":{"id":"ext-1","name":"Ana"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	user := decodeBody(t, rec)["user"].(map[string]any)
	if user["id"] != "ext-1" {
		t.Fatalf("user = %v", user)
	}

	rec = postLogin(t, h, `{"token":"anything","user":{"id":"  "}}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("blank asserted id: status = %d", rec.Code)
	}
}

func TestLogoutDeletesSessionAndClearsCookie(t *testing.T) {
	h, store := newTestHandler(&stubChecker{user: auth.User{ID: "1", Name: "admin"}}, nil)
	defer store.Close()

	login := postLogin(t, h, `{"username":"admin","password":"s3cret"}`)
	cookie := sessionCookie(t, login)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	h.HandleLogout(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if decodeBody(t, rec)["message"] != "Logged out successfully" {
		t.Fatalf("body = %s", rec.Body.String())
	}

	cleared := sessionCookie(t, rec)
	if cleared.Value != "" || cleared.MaxAge >= 0 {
		t.Fatalf("cookie not cleared: %+v", cleared)
	}
	if _, err := store.Get(context.Background(), cookie.Value); err == nil {
		t.Fatal("session must be deleted on logout")
	}
}

func TestLogoutWithoutCookie(t *testing.T) {
	h, store := newTestHandler(&stubChecker{}, nil)
	defer store.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	rec := httptest.NewRecorder()
	h.HandleLogout(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestMeThroughSessionMiddleware(t *testing.T) {
	h, store := newTestHandler(&stubChecker{user: auth.User{ID: "1", Name: "admin"}}, nil)
	defer store.Close()

	login := postLogin(t, h, `{"username":"admin","password":"s3cret"}`)
	cookie := sessionCookie(t, login)

	me := middleware.Session(store, time.Hour)(
		middleware.RequireAuth(http.HandlerFunc(h.HandleMe)))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	me.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	user := decodeBody(t, rec)["user"].(map[string]any)
	if user["name"] != "admin" {
		t.Fatalf("user = %v", user)
	}

	// Without the cookie the gate rejects the request.
	rec = httptest.NewRecorder()
	me.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status without cookie = %d", rec.Code)
	}

	// A stale cookie behaves like no session at all.
	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: middleware.CookieName, Value: "stale"})
	rec = httptest.NewRecorder()
	me.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status with stale cookie = %d", rec.Code)
	}
}
