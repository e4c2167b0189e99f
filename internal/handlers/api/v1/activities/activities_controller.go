// file: internal/handlers/api/v1/activities/activities_controller.go
package activities

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"castnfish/internal/contextutils"
	"castnfish/internal/models"
	"castnfish/internal/response"
	"castnfish/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ActivityController struct {
	services *services.Collection
	logger   *zap.Logger
	builder  *response.Builder
}

// NewActivityController creates a new activity controller
func NewActivityController(sc *services.Collection, logger *zap.Logger, builder *response.Builder) *ActivityController {
	return &ActivityController{services: sc, logger: logger, builder: builder}
}

// LogCatch records a catch for the authenticated user
func (c *ActivityController) LogCatch(w http.ResponseWriter, r *http.Request) {
	userID := contextutils.GetUserID(r.Context())
	if userID == 0 {
		c.builder.WriteUnauthorized(w, r, "user not authenticated")
		return
	}

	var req services.LogCatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.builder.WriteError(w, r, services.NewValidationError("invalid request body", err))
		return
	}
	req.UserID = userID

	logged, err := c.services.Activity.LogCatch(r.Context(), &req)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteCreated(w, r, logged)
}

// LogTrip records a trip for the authenticated user
func (c *ActivityController) LogTrip(w http.ResponseWriter, r *http.Request) {
	userID := contextutils.GetUserID(r.Context())
	if userID == 0 {
		c.builder.WriteUnauthorized(w, r, "user not authenticated")
		return
	}

	var req services.LogTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.builder.WriteError(w, r, services.NewValidationError("invalid request body", err))
		return
	}
	req.UserID = userID

	trip, err := c.services.Activity.LogTrip(r.Context(), &req)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteCreated(w, r, trip)
}

// GetStats returns the authenticated user's running counters
func (c *ActivityController) GetStats(w http.ResponseWriter, r *http.Request) {
	userID := contextutils.GetUserID(r.Context())
	if userID == 0 {
		c.builder.WriteUnauthorized(w, r, "user not authenticated")
		return
	}

	stats, err := c.services.Activity.GetStats(r.Context(), userID)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, stats)
}

// History returns the authenticated user's combined catch and trip history
func (c *ActivityController) History(w http.ResponseWriter, r *http.Request) {
	userID := contextutils.GetUserID(r.Context())
	if userID == 0 {
		c.builder.WriteUnauthorized(w, r, "user not authenticated")
		return
	}

	req := &services.ActivityHistoryRequest{
		UserID:     userID,
		Type:       r.URL.Query().Get("type"),
		Location:   r.URL.Query().Get("location"),
		Pagination: paginationParams(r),
	}
	if since := r.URL.Query().Get("since"); since != "" {
		if t, err := time.Parse(time.RFC3339, since); err == nil {
			req.Since = &t
		}
	}
	if until := r.URL.Query().Get("until"); until != "" {
		if t, err := time.Parse(time.RFC3339, until); err == nil {
			req.Until = &t
		}
	}

	page, err := c.services.Activity.History(r.Context(), req)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WritePaginated(w, r, page.Items, page.Page, page.PageSize, page.TotalItems)
}

// LikeCatch records a like on a catch
func (c *ActivityController) LikeCatch(w http.ResponseWriter, r *http.Request) {
	userID := contextutils.GetUserID(r.Context())
	if userID == 0 {
		c.builder.WriteUnauthorized(w, r, "user not authenticated")
		return
	}

	catchID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || catchID <= 0 {
		c.builder.WriteError(w, r, services.NewValidationError("invalid catch ID", err))
		return
	}

	if err := c.services.Activity.LikeCatch(r.Context(), catchID, userID); err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteNoContent(w, r)
}

func paginationParams(r *http.Request) models.PaginationParams {
	params := models.PaginationParams{}
	if page, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		params.Page = page
	}
	if size, err := strconv.Atoi(r.URL.Query().Get("page_size")); err == nil {
		params.PageSize = size
	}
	params.Normalize()
	return params
}
