// file: internal/services/weather_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"castnfish/internal/cache"
	"castnfish/internal/config"

	"go.uber.org/zap"
)

// weatherService proxies the upstream weather provider with a short cache so
// the reports page never hammers the API.
type weatherService struct {
	client  *http.Client
	cache   cache.Cache
	logger  *zap.Logger
	baseURL string
	apiKey  string
}

const weatherCacheTTL = 10 * time.Minute

// NewWeatherService creates a new weather service.
func NewWeatherService(cfg config.WeatherConfig, c cache.Cache, logger *zap.Logger) WeatherService {
	return &weatherService{
		client:  &http.Client{Timeout: cfg.Timeout},
		cache:   c,
		logger:  logger,
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
	}
}

// upstreamWeather mirrors the subset of the OpenWeatherMap response we read.
type upstreamWeather struct {
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"` // m/s
	} `json:"wind"`
}

// Current returns the current conditions at the coordinates. One upstream
// failure is surfaced directly; there is no retry.
func (s *weatherService) Current(ctx context.Context, latitude, longitude float64) (*WeatherSnapshot, error) {
	if s.apiKey == "" {
		return nil, NewServiceUnavailableError("weather provider is not configured")
	}

	cacheKey := fmt.Sprintf("weather:%.2f:%.2f", latitude, longitude)
	if raw, ok := s.cache.Get(ctx, cacheKey); ok {
		var snap WeatherSnapshot
		if err := json.Unmarshal(raw, &snap); err == nil {
			return &snap, nil
		}
	}

	endpoint := fmt.Sprintf("%s/weather?lat=%s&lon=%s&units=metric&appid=%s",
		s.baseURL,
		url.QueryEscape(fmt.Sprintf("%f", latitude)),
		url.QueryEscape(fmt.Sprintf("%f", longitude)),
		url.QueryEscape(s.apiKey),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, WrapInternal("failed to build weather request", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn("Weather request failed", zap.Error(err))
		return nil, NewServiceUnavailableError("weather provider unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Warn("Weather provider returned error",
			zap.Int("status", resp.StatusCode),
		)
		return nil, NewServiceUnavailableError("weather provider returned an error")
	}

	var upstream upstreamWeather
	if err := json.NewDecoder(resp.Body).Decode(&upstream); err != nil {
		return nil, WrapInternal("failed to decode weather response", err)
	}

	snap := &WeatherSnapshot{
		TemperatureC: upstream.Main.Temp,
		WindKph:      upstream.Wind.Speed * 3.6,
		ObservedAt:   time.Now(),
	}
	if len(upstream.Weather) > 0 {
		snap.Summary = upstream.Weather[0].Description
	}

	if raw, err := json.Marshal(snap); err == nil {
		if err := s.cache.Set(ctx, cacheKey, raw, weatherCacheTTL); err != nil {
			s.logger.Debug("Failed to cache weather snapshot", zap.Error(err))
		}
	}
	return snap, nil
}
