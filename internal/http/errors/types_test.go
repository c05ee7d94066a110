package errors_test

import (
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dropDatabas3/backoffice/internal/domain"
	"github.com/dropDatabas3/backoffice/internal/domain/repository"
	httperrors "github.com/dropDatabas3/backoffice/internal/http/errors"
)

func TestFromError_Mapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{"validation", domain.ErrNameRequired, "VALIDATION_FAILED", http.StatusBadRequest},
		{"wrapped validation", &wrapErr{domain.ErrNameTooLong}, "VALIDATION_FAILED", http.StatusBadRequest},
		{"duplicate permission", domain.ErrDuplicatePermission, "DUPLICATE_PERMISSION", http.StatusConflict},
		{"role deleted", domain.ErrRoleDeleted, "ALREADY_DELETED", http.StatusConflict},
		{"user deleted", domain.ErrUserDeleted, "ALREADY_DELETED", http.StatusConflict},
		{"role not assigned", domain.ErrRoleNotAssigned, "NOT_FOUND", http.StatusNotFound},
		{"repo not found", repository.ErrNotFound, "NOT_FOUND", http.StatusNotFound},
		{"repo conflict", repository.ErrConflict, "CONFLICT", http.StatusConflict},
		{"unknown", stderrors.New("boom"), "INTERNAL_ERROR", http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := httperrors.FromError(tc.err)
			if got.Code != tc.wantCode || got.HTTPStatus != tc.wantStatus {
				t.Fatalf("FromError(%v) = (%s, %d), want (%s, %d)",
					tc.err, got.Code, got.HTTPStatus, tc.wantCode, tc.wantStatus)
			}
		})
	}
}

func TestFromError_PassesThroughAppError(t *testing.T) {
	in := httperrors.ErrForbidden.WithDetail("missing permission")
	got := httperrors.FromError(in)
	if got != in {
		t.Fatalf("AppError must pass through unchanged")
	}
}

func TestWithDetail_DoesNotMutateBase(t *testing.T) {
	_ = httperrors.ErrNotFound.WithDetail("role 123")
	if httperrors.ErrNotFound.Detail != "" {
		t.Fatal("WithDetail mutated the shared base error")
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	httperrors.WriteError(rec, domain.ErrDuplicatePermission)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Fatalf("content-type = %q", ct)
	}
	if body := rec.Body.String(); !strings.Contains(body, "DUPLICATE_PERMISSION") {
		t.Fatalf("body = %q", body)
	}
}

type wrapErr struct{ inner error }

func (w *wrapErr) Error() string { return "wrap: " + w.inner.Error() }
func (w *wrapErr) Unwrap() error { return w.inner }
