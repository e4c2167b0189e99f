// file: internal/router/router_test.go
package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"castnfish/internal/config"
	"castnfish/internal/models"
	"castnfish/internal/pricewatch"
	"castnfish/internal/response"
	"castnfish/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testToken = "valid-token"

// stubAuthService accepts exactly one token.
type stubAuthService struct{}

func (s *stubAuthService) Register(context.Context, *services.RegisterRequest) (*services.AuthResponse, error) {
	return nil, errors.New("not used")
}

func (s *stubAuthService) Login(context.Context, *services.LoginRequest) (*services.AuthResponse, error) {
	return nil, errors.New("not used")
}

func (s *stubAuthService) VerifyToken(_ context.Context, token string) (*services.TokenClaims, error) {
	if token != testToken {
		return nil, errors.New("invalid token")
	}
	return &services.TokenClaims{UserID: 42, Username: "angler"}, nil
}

// stubGearService returns empty results so routing behavior can be asserted
// without a database.
type stubGearService struct{}

func (s *stubGearService) Products(context.Context) ([]*models.Product, error) { return nil, nil }

func (s *stubGearService) Product(context.Context, string) (*services.ProductDetail, error) {
	return nil, services.NewNotFoundError("product not found")
}

func (s *stubGearService) CreateProduct(_ context.Context, req *services.CreateProductRequest) (*models.Product, error) {
	return &models.Product{ID: req.ID, Name: req.Name}, nil
}

func (s *stubGearService) CreateAlert(context.Context, *services.CreateAlertRequest) (pricewatch.Alert, error) {
	return pricewatch.Alert{}, nil
}

func (s *stubGearService) DeleteAlert(context.Context, int64, int64) error { return nil }

func (s *stubGearService) ListAlerts(context.Context, int64) ([]pricewatch.Alert, error) {
	return nil, nil
}

func (s *stubGearService) RecordPrices(context.Context, string, []models.PriceRecord) error {
	return nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := zap.NewNop()
	cfg := &config.Config{
		Server: config.ServerConfig{
			AllowedOrigin: "*",
			RateLimiting:  false,
		},
	}
	return New(Dependencies{
		Config: cfg,
		Services: &services.Collection{
			Auth: &stubAuthService{},
			Gear: &stubGearService{},
		},
		Builder: response.NewBuilder(response.DefaultConfig(), logger),
		Logger:  logger,
	})
}

func TestGearMutationsRequireAuth(t *testing.T) {
	router := newTestRouter(t)

	cases := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodPost, "/api/v1/gear/products", `{"id":"rod-1","name":"Rod"}`},
		{http.MethodPut, "/api/v1/gear/products/rod-1/prices", `[{"price":10}]`},
		{http.MethodPost, "/api/v1/gear/alerts", `{"product_id":"rod-1"}`},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s without token", tc.method, tc.path)
	}

	// The same requests pass with a valid bearer token.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/gear/products", strings.NewReader(`{"id":"rod-1","name":"Rod"}`))
	req.Header.Set("Authorization", "Bearer "+testToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	req = httptest.NewRequest(http.MethodPut, "/api/v1/gear/products/rod-1/prices", strings.NewReader(`[{"price":10}]`))
	req.Header.Set("Authorization", "Bearer "+testToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestGearProductReadsArePublic(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/gear/products", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
