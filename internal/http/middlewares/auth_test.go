package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	mw "github.com/dropDatabas3/backoffice/internal/http/middlewares"
	jwtx "github.com/dropDatabas3/backoffice/internal/jwt"
)

func testIssuer(t *testing.T) *jwtx.Issuer {
	t.Helper()
	issuer, err := jwtx.NewIssuer("backoffice-test", "secret", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	return issuer
}

func protectedHandler(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if mw.GetClaims(r.Context()) == nil {
			t.Error("claims missing in protected handler")
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestWithAuth(t *testing.T) {
	issuer := testIssuer(t)
	handler := mw.Chain(protectedHandler(t), mw.WithAuth(issuer))

	t.Run("no token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic abc123")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("valid token", func(t *testing.T) {
		token, _, err := issuer.Sign(uuid.New(), "a@example.com", nil)
		if err != nil {
			t.Fatal(err)
		}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
	})
}

func TestRequirePermission(t *testing.T) {
	issuer := testIssuer(t)
	handler := mw.Chain(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }),
		mw.WithAuth(issuer),
		mw.RequirePermission("roles:write"),
	)

	request := func(perms []string) int {
		token, _, err := issuer.Sign(uuid.New(), "a@example.com", perms)
		if err != nil {
			t.Fatal(err)
		}
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := request([]string{"roles:read"}); code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403 without the permission", code)
	}
	if code := request([]string{"roles:read", "roles:write"}); code != http.StatusOK {
		t.Fatalf("status = %d, want 200 with the permission", code)
	}
}

func TestWithRequestID(t *testing.T) {
	var seen string
	handler := mw.Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = mw.GetRequestID(r.Context())
	}), mw.WithRequestID())

	t.Run("generates one", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if seen == "" {
			t.Fatal("request id missing from context")
		}
		if got := rec.Header().Get("X-Request-ID"); got != seen {
			t.Fatalf("response header = %q, context = %q", got, seen)
		}
	})

	t.Run("respects inbound header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "req-123")
		handler.ServeHTTP(httptest.NewRecorder(), req)
		if seen != "req-123" {
			t.Fatalf("request id = %q, want req-123", seen)
		}
	})
}
