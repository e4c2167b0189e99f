// file: internal/handlers/api/v1/weather/weather_controller.go
package weather

import (
	"net/http"
	"strconv"

	"castnfish/internal/response"
	"castnfish/internal/services"

	"go.uber.org/zap"
)

type WeatherController struct {
	services *services.Collection
	logger   *zap.Logger
	builder  *response.Builder
}

// NewWeatherController creates a new weather controller
func NewWeatherController(sc *services.Collection, logger *zap.Logger, builder *response.Builder) *WeatherController {
	return &WeatherController{services: sc, logger: logger, builder: builder}
}

// Current returns current conditions for a coordinate pair
func (c *WeatherController) Current(w http.ResponseWriter, r *http.Request) {
	lat, err := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if err != nil || lat < -90 || lat > 90 {
		c.builder.WriteError(w, r, services.NewValidationError("invalid latitude", err))
		return
	}
	lng, err := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if err != nil || lng < -180 || lng > 180 {
		c.builder.WriteError(w, r, services.NewValidationError("invalid longitude", err))
		return
	}

	snapshot, err := c.services.Weather.Current(r.Context(), lat, lng)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, snapshot)
}
