// file: internal/handlers/api/v1/gear/gear_controller.go
package gear

import (
	"encoding/json"
	"net/http"
	"strconv"

	"castnfish/internal/contextutils"
	"castnfish/internal/models"
	"castnfish/internal/response"
	"castnfish/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type GearController struct {
	services *services.Collection
	logger   *zap.Logger
	builder  *response.Builder
}

// NewGearController creates a new gear controller
func NewGearController(sc *services.Collection, logger *zap.Logger, builder *response.Builder) *GearController {
	return &GearController{services: sc, logger: logger, builder: builder}
}

// ListProducts returns every tracked product with its latest price
func (c *GearController) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := c.services.Gear.Products(r.Context())
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, products)
}

// GetProduct returns a product with its full price history
func (c *GearController) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")
	if productID == "" {
		c.builder.WriteError(w, r, services.NewValidationError("invalid product ID", nil))
		return
	}

	detail, err := c.services.Gear.Product(r.Context(), productID)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, detail)
}

// CreateProduct registers a new product for price tracking
func (c *GearController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req services.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.builder.WriteError(w, r, services.NewValidationError("invalid request body", err))
		return
	}

	product, err := c.services.Gear.CreateProduct(r.Context(), &req)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteCreated(w, r, product)
}

// RecordPrices replaces a product's price series with fresh observations
func (c *GearController) RecordPrices(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")
	if productID == "" {
		c.builder.WriteError(w, r, services.NewValidationError("invalid product ID", nil))
		return
	}

	var records []models.PriceRecord
	if err := json.NewDecoder(r.Body).Decode(&records); err != nil {
		c.builder.WriteError(w, r, services.NewValidationError("invalid request body", err))
		return
	}

	if err := c.services.Gear.RecordPrices(r.Context(), productID, records); err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteNoContent(w, r)
}

// CreateAlert opens a price alert for the authenticated user
func (c *GearController) CreateAlert(w http.ResponseWriter, r *http.Request) {
	userID := contextutils.GetUserID(r.Context())
	if userID == 0 {
		c.builder.WriteUnauthorized(w, r, "user not authenticated")
		return
	}

	var req services.CreateAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.builder.WriteError(w, r, services.NewValidationError("invalid request body", err))
		return
	}
	req.UserID = userID

	alert, err := c.services.Gear.CreateAlert(r.Context(), &req)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteCreated(w, r, alert)
}

// ListAlerts returns the authenticated user's pending alerts
func (c *GearController) ListAlerts(w http.ResponseWriter, r *http.Request) {
	userID := contextutils.GetUserID(r.Context())
	if userID == 0 {
		c.builder.WriteUnauthorized(w, r, "user not authenticated")
		return
	}

	alerts, err := c.services.Gear.ListAlerts(r.Context(), userID)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, alerts)
}

// DeleteAlert removes one of the authenticated user's alerts
func (c *GearController) DeleteAlert(w http.ResponseWriter, r *http.Request) {
	userID := contextutils.GetUserID(r.Context())
	if userID == 0 {
		c.builder.WriteUnauthorized(w, r, "user not authenticated")
		return
	}

	alertID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || alertID <= 0 {
		c.builder.WriteError(w, r, services.NewValidationError("invalid alert ID", err))
		return
	}

	if err := c.services.Gear.DeleteAlert(r.Context(), alertID, userID); err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteNoContent(w, r)
}
