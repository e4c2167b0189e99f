// file: internal/handlers/api/v1/achievements/achievements_controller.go
package achievements

import (
	"net/http"

	"castnfish/internal/contextutils"
	"castnfish/internal/response"
	"castnfish/internal/services"

	"go.uber.org/zap"
)

type AchievementController struct {
	services *services.Collection
	logger   *zap.Logger
	builder  *response.Builder
}

// NewAchievementController creates a new achievement controller
func NewAchievementController(sc *services.Collection, logger *zap.Logger, builder *response.Builder) *AchievementController {
	return &AchievementController{services: sc, logger: logger, builder: builder}
}

// Summary returns the authenticated user's earned badges, points and level
func (c *AchievementController) Summary(w http.ResponseWriter, r *http.Request) {
	userID := contextutils.GetUserID(r.Context())
	if userID == 0 {
		c.builder.WriteUnauthorized(w, r, "user not authenticated")
		return
	}

	summary, err := c.services.Achievement.Summary(r.Context(), userID)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, summary)
}

// Catalog returns every badge definition grouped by category
func (c *AchievementController) Catalog(w http.ResponseWriter, r *http.Request) {
	c.builder.WriteSuccess(w, r, c.services.Achievement.Catalog())
}

// CheckAll sweeps every category for the authenticated user and returns
// any badges unlocked by the sweep.
func (c *AchievementController) CheckAll(w http.ResponseWriter, r *http.Request) {
	userID := contextutils.GetUserID(r.Context())
	if userID == 0 {
		c.builder.WriteUnauthorized(w, r, "user not authenticated")
		return
	}

	unlocked, err := c.services.Achievement.CheckAll(r.Context(), userID)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, unlocked)
}
