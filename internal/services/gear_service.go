// file: internal/services/gear_service.go
package services

import (
	"context"
	"errors"
	"sort"

	"castnfish/internal/models"
	"castnfish/internal/pricewatch"
	"castnfish/internal/repositories"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// gearService exposes tracked products and wires their price history into the
// alert tracker.
type gearService struct {
	productRepo repositories.ProductRepository
	tracker     *pricewatch.Tracker
	logger      *zap.Logger
	validate    *validator.Validate
}

// NewGearService creates a new gear service.
func NewGearService(
	productRepo repositories.ProductRepository,
	tracker *pricewatch.Tracker,
	logger *zap.Logger,
) GearService {
	return &gearService{
		productRepo: productRepo,
		tracker:     tracker,
		logger:      logger,
		validate:    validator.New(),
	}
}

func (s *gearService) Products(ctx context.Context) ([]*models.Product, error) {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, WrapInternal("failed to list products", err)
	}
	return products, nil
}

func (s *gearService) Product(ctx context.Context, productID string) (*ProductDetail, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, WrapInternal("failed to load product", err)
	}
	if product == nil {
		return nil, NewNotFoundError("product not found")
	}

	history, err := s.productRepo.PriceHistory(ctx, productID)
	if err != nil {
		return nil, WrapInternal("failed to load price history", err)
	}
	return &ProductDetail{Product: product, History: history}, nil
}

func (s *gearService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*models.Product, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, NewValidationError("invalid product data", err)
	}

	existing, err := s.productRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, WrapInternal("failed to check product", err)
	}
	if existing != nil {
		return nil, NewConflictError("product already exists", "PRODUCT_EXISTS")
	}

	product := &models.Product{
		ID:       req.ID,
		Name:     req.Name,
		Category: req.Category,
		ImageURL: req.ImageURL,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, WrapInternal("failed to create product", err)
	}
	return product, nil
}

// CreateAlert validates the product exists, resolves the current price for
// percent-drop targets and hands the rest to the tracker.
func (s *gearService) CreateAlert(ctx context.Context, req *CreateAlertRequest) (pricewatch.Alert, error) {
	if err := s.validate.Struct(req); err != nil {
		return pricewatch.Alert{}, NewValidationError("invalid alert data", err)
	}

	product, err := s.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		return pricewatch.Alert{}, WrapInternal("failed to load product", err)
	}
	if product == nil {
		return pricewatch.Alert{}, NewNotFoundError("product not found")
	}

	params := pricewatch.NewAlert{
		UserID:      req.UserID,
		ProductID:   req.ProductID,
		Kind:        req.Kind,
		TargetPrice: req.TargetPrice,
		PercentDrop: req.PercentDrop,
	}
	if req.Kind == pricewatch.KindPercentDrop {
		if product.CurrentPrice == nil {
			return pricewatch.Alert{}, NewBusinessError("product has no recorded price yet", "NO_PRICE_HISTORY")
		}
		params.CurrentPrice = *product.CurrentPrice
	}

	alert, err := s.tracker.CreateAlert(ctx, params)
	if err != nil {
		if errors.Is(err, pricewatch.ErrInvalidAlert) {
			return pricewatch.Alert{}, NewValidationError(err.Error(), err)
		}
		return pricewatch.Alert{}, WrapInternal("failed to save alert", err)
	}
	return alert, nil
}

// DeleteAlert removes the alert when it belongs to the user.
func (s *gearService) DeleteAlert(ctx context.Context, alertID, userID int64) error {
	for _, a := range s.tracker.AlertsForUser(userID) {
		if a.ID == alertID {
			if err := s.tracker.DeleteAlert(ctx, alertID); err != nil {
				return WrapInternal("failed to delete alert", err)
			}
			return nil
		}
	}
	return NewNotFoundError("alert not found")
}

func (s *gearService) ListAlerts(_ context.Context, userID int64) ([]pricewatch.Alert, error) {
	return s.tracker.AlertsForUser(userID), nil
}

// RecordPrices replaces the stored price series and re-evaluates open alerts
// against the newest observation. The database write happens first; the
// tracker only sees a series the store accepted.
func (s *gearService) RecordPrices(ctx context.Context, productID string, records []models.PriceRecord) error {
	if len(records) == 0 {
		return NewValidationError("price records are required", nil)
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return WrapInternal("failed to load product", err)
	}
	if product == nil {
		return NewNotFoundError("product not found")
	}

	sorted := make([]models.PriceRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ObservedAt.Before(sorted[j].ObservedAt)
	})

	if err := s.productRepo.ReplacePriceHistory(ctx, productID, sorted); err != nil {
		return WrapInternal("failed to store price history", err)
	}

	series := make(pricewatch.Series, 0, len(sorted))
	for _, rec := range sorted {
		series = append(series, pricewatch.PricePoint{Date: rec.ObservedAt, Price: rec.Price})
	}
	if err := s.tracker.UpdatePriceHistory(ctx, productID, series); err != nil {
		s.logger.Error("Failed to update tracker price history",
			zap.String("product_id", productID),
			zap.Error(err),
		)
		return WrapInternal("failed to re-evaluate alerts", err)
	}
	return nil
}
