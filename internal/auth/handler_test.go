package auth

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/vendaflow/vendaflow/internal/shared"
)

func newTestRouter(t *testing.T) (chi.Router, *fixture) {
	t.Helper()
	f := newFixture(t)
	handler := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), f.svc)
	r := chi.NewRouter()
	r.Route("/auth", handler.MountRoutes)
	return r, f
}

func doJSON(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestSignupEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/auth/signup",
		`{"name":"Test Owner","email":"owner@test.com","password":"password123","companyName":"Test Company"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var out SignupOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Equal(t, "Test Company", out.Company.Name)
	require.Equal(t, "owner@test.com", out.User.Email)
	require.NotContains(t, rec.Body.String(), "password", "hash must not be serialized")
}

func TestSignupValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/auth/signup", `{"email":"not-an-email"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginLogoutRefreshFlow(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/auth/signup",
		`{"name":"Test Owner","email":"owner@test.com","password":"password123","companyName":"Test Company"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/auth/login",
		`{"email":"owner@test.com","password":"password123"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var pair TokenPair
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pair))
	require.NotEmpty(t, pair.AccessToken)
	require.Equal(t, "1h", pair.ExpireIn)

	rec = doJSON(t, r, http.MethodPost, "/auth/refresh",
		`{"refreshToken":"`+pair.RefreshToken+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/auth/logout",
		`{"refreshToken":"`+pair.RefreshToken+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "User logged out successfully")

	rec = doJSON(t, r, http.MethodPost, "/auth/refresh",
		`{"refreshToken":"`+pair.RefreshToken+`"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "Invalid refresh token")
}

func TestLoginWrongPasswordEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	doJSON(t, r, http.MethodPost, "/auth/signup",
		`{"name":"Test Owner","email":"owner@test.com","password":"password123","companyName":"Test Company"}`)

	rec := doJSON(t, r, http.MethodPost, "/auth/login",
		`{"email":"owner@test.com","password":"wrongpass"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireUserMiddleware(t *testing.T) {
	_, f := newTestRouter(t)
	issuer := NewTokenIssuer("test-secret", f.svc.issuer.AccessTTL())

	var captured shared.UserContext
	protected := chi.NewRouter()
	protected.Use(RequireUser(issuer))
	protected.Get("/me", func(w http.ResponseWriter, r *http.Request) {
		captured, _ = shared.UserFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code, "missing token is rejected")

	token, err := issuer.Sign("u1", "c1", "admin", time.Now())
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "u1", captured.UserID)
	require.Equal(t, "c1", captured.CompanyID)
	require.Equal(t, "admin", captured.Role)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
