// file: internal/middleware/auth_test.go
package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"castnfish/internal/contextutils"
	"castnfish/internal/response"
	"castnfish/internal/services"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// fakeAuthService accepts exactly one token.
type fakeAuthService struct {
	token  string
	claims *services.TokenClaims
}

func (f *fakeAuthService) Register(context.Context, *services.RegisterRequest) (*services.AuthResponse, error) {
	panic("not used")
}

func (f *fakeAuthService) Login(context.Context, *services.LoginRequest) (*services.AuthResponse, error) {
	panic("not used")
}

func (f *fakeAuthService) VerifyToken(_ context.Context, token string) (*services.TokenClaims, error) {
	if token == f.token {
		return f.claims, nil
	}
	return nil, services.NewUnauthorizedError("invalid or expired token")
}

func newAuthFixture() (*fakeAuthService, *response.Builder) {
	auth := &fakeAuthService{
		token:  "good-token",
		claims: &services.TokenClaims{UserID: 42, Username: "angler"},
	}
	return auth, response.NewBuilder(response.DefaultConfig(), zap.NewNop())
}

func identityEcho(t *testing.T, gotUser *int64, gotName *string) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*gotUser = contextutils.GetUserID(r.Context())
		*gotName = contextutils.GetUsername(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthAcceptsBearerHeader(t *testing.T) {
	auth, builder := newAuthFixture()
	var userID int64
	var username string
	handler := Auth(auth, builder)(identityEcho(t, &userID, &username))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), userID)
	assert.Equal(t, "angler", username)
}

func TestAuthAcceptsQueryTokenFallback(t *testing.T) {
	auth, builder := newAuthFixture()
	var userID int64
	var username string
	handler := Auth(auth, builder)(identityEcho(t, &userID, &username))

	req := httptest.NewRequest(http.MethodGet, "/ws?token=good-token", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), userID)
}

func TestAuthRejectsMissingAndBadTokens(t *testing.T) {
	auth, builder := newAuthFixture()
	handler := Auth(auth, builder)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer wrong-token")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOptionalAuthLetsAnonymousThrough(t *testing.T) {
	auth, _ := newAuthFixture()
	var userID int64
	var username string
	handler := OptionalAuth(auth)(identityEcho(t, &userID, &username))

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, userID)
}

func TestOptionalAuthAttachesIdentityWhenValid(t *testing.T) {
	auth, _ := newAuthFixture()
	var userID int64
	var username string
	handler := OptionalAuth(auth)(identityEcho(t, &userID, &username))

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), userID)
	assert.Equal(t, "angler", username)
}
