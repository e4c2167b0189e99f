// file: internal/handlers/api/v1/reports/reports_controller.go
package reports

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

type ReportController struct {
	services *services.Collection
	logger   *zap.Logger
	builder  *response.Builder
}

// NewReportController creates a new report controller
func NewReportController(sc *services.Collection, logger *zap.Logger, builder *response.Builder) *ReportController {
	return &ReportController{services: sc, logger: logger, builder: builder}
}

// CreateReport publishes a trip report for the authenticated user
func (c *ReportController) CreateReport(w http.ResponseWriter, r *http.Request) {
	userID := contextutils.GetUserID(r.Context())
	if userID == 0 {
		c.builder.WriteUnauthorized(w, r, "user not authenticated")
		return
	}

	var req services.CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.builder.WriteError(w, r, services.NewValidationError("invalid request body", err))
		return
	}
	req.UserID = userID

	report, err := c.services.Report.CreateReport(r.Context(), &req)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteCreated(w, r, report)
}

// GetReport returns a single trip report
func (c *ReportController) GetReport(w http.ResponseWriter, r *http.Request) {
	reportID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || reportID <= 0 {
		c.builder.WriteError(w, r, services.NewValidationError("invalid report ID", err))
		return
	}

	report, err := c.services.Report.GetReport(r.Context(), reportID)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, report)
}

// ListReports returns trip reports with filtering, sorting and paging
func (c *ReportController) ListReports(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &services.ListReportsRequest{
		Species:    query["species"],
		Locations:  query["location"],
		SortBy:     query.Get("sort_by"),
		Pagination: paginationParams(r),
	}
	if since := query.Get("since"); since != "" {
		if t, err := time.Parse(time.RFC3339, since); err == nil {
			req.Since = &t
		}
	}

	page, err := c.services.Report.ListReports(r.Context(), req)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WritePaginated(w, r, page.Items, page.Page, page.PageSize, page.TotalItems)
}

// Locations returns map markers for every report with coordinates
func (c *ReportController) Locations(w http.ResponseWriter, r *http.Request) {
	locations, err := c.services.Report.Locations(r.Context())
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, locations)
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
