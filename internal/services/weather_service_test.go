// file: internal/services/weather_service_test.go
package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"castnfish/internal/cache"
	"castnfish/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestWeatherService(t *testing.T, baseURL, apiKey string) WeatherService {
	t.Helper()
	c, err := cache.New(cache.DefaultConfig(), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	return NewWeatherService(config.WeatherConfig{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Timeout: 5 * time.Second,
	}, c, zap.NewNop())
}

func TestCurrentFetchesConvertsAndCaches(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		assert.Equal(t, "/weather", r.URL.Path)
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		assert.Equal(t, "test-key", r.URL.Query().Get("appid"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"weather": [{"description": "light rain"}],
			"main": {"temp": 14.5},
			"wind": {"speed": 5.0}
		}`))
	}))
	defer server.Close()

	svc := newTestWeatherService(t, server.URL, "test-key")

	snap, err := svc.Current(context.Background(), 59.33, 18.07)
	require.NoError(t, err)
	assert.Equal(t, "light rain", snap.Summary)
	assert.InDelta(t, 14.5, snap.TemperatureC, 0.001)
	assert.InDelta(t, 18.0, snap.WindKph, 0.001) // 5 m/s

	// Same coordinates come from the cache.
	_, err = svc.Current(context.Background(), 59.33, 18.07)
	require.NoError(t, err)
	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))

	// Fresh coordinates go upstream again.
	_, err = svc.Current(context.Background(), 40.71, -74.01)
	require.NoError(t, err)
	assert.Equal(t, int64(2), atomic.LoadInt64(&calls))
}

func TestCurrentWithoutAPIKey(t *testing.T) {
	svc := newTestWeatherService(t, "http://unused.invalid", "")

	_, err := svc.Current(context.Background(), 1, 2)
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "SERVICE_UNAVAILABLE", svcErr.Type)
}

func TestCurrentSurfacesUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	svc := newTestWeatherService(t, server.URL, "test-key")

	_, err := svc.Current(context.Background(), 1, 2)
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "SERVICE_UNAVAILABLE", svcErr.Type)
}
