package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthRouter(t *testing.T, password string) *chi.Mux {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	issuer := newTokenIssuer("test-secret", time.Hour)
	h := newAuthHandler(issuer, hash)
	middleware := newAuthMiddleware(issuer)

	r := chi.NewRouter()
	r.Post("/auth/login", h.login())
	r.Group(func(r chi.Router) {
		r.Use(middleware.authenticate)
		r.Get("/auth/me", h.me())
		r.Post("/auth/logout", h.logout())
	})
	return r
}

func login(t *testing.T, router *chi.Mux, password string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/auth/login", jsonBody(t, map[string]string{
		"password": password,
	}))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestLoginSuccessIssuesToken(t *testing.T) {
	router := newAuthRouter(t, "correct horse")

	rec := login(t, router, "correct horse")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp loginResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEmpty(t, resp.Token)
	assert.True(t, resp.ExpiresAt.After(time.Now()))
}

func TestLoginWrongPassword(t *testing.T) {
	router := newAuthRouter(t, "correct horse")

	rec := login(t, router, "battery staple")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginBlankPassword(t *testing.T) {
	router := newAuthRouter(t, "correct horse")

	rec := login(t, router, "   ")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMeRequiresToken(t *testing.T) {
	router := newAuthRouter(t, "correct horse")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMeWithIssuedToken(t *testing.T) {
	router := newAuthRouter(t, "correct horse")

	rec := login(t, router, "correct horse")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp loginResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var me map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&me))
	assert.Equal(t, adminSubject, me["subject"])
}

func TestTokenFromDifferentSecretRejected(t *testing.T) {
	router := newAuthRouter(t, "correct horse")

	foreign := newTokenIssuer("other-secret", time.Hour)
	token, _, err := foreign.issue()
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestExpiredTokenRejected(t *testing.T) {
	issuer := newTokenIssuer("test-secret", -time.Minute)
	token, _, err := issuer.issue()
	require.NoError(t, err)

	_, err = issuer.verify(token)
	assert.Error(t, err)
}

func TestLogoutAcknowledges(t *testing.T) {
	router := newAuthRouter(t, "correct horse")

	rec := login(t, router, "correct horse")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp loginResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
