// file: internal/services/report_service.go
package services

import (
	"context"
	"time"

	"castnfish/internal/models"
	"castnfish/internal/repositories"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// reportService handles trip reports. When a report carries coordinates the
// current weather is looked up once and frozen into the report; it is never
// refreshed afterwards.
type reportService struct {
	reportRepo     repositories.ReportRepository
	weatherService WeatherService
	logger         *zap.Logger
	validate       *validator.Validate
}

// NewReportService creates a new report service.
func NewReportService(
	reportRepo repositories.ReportRepository,
	weatherService WeatherService,
	logger *zap.Logger,
) ReportService {
	return &reportService{
		reportRepo:     reportRepo,
		weatherService: weatherService,
		logger:         logger,
		validate:       validator.New(),
	}
}

func (s *reportService) CreateReport(ctx context.Context, req *CreateReportRequest) (*models.Report, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, NewValidationError("invalid report data", err)
	}

	reportedAt := req.ReportedAt
	if reportedAt.IsZero() {
		reportedAt = time.Now()
	}

	report := &models.Report{
		UserID:     req.UserID,
		Title:      req.Title,
		Location:   req.Location,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		Species:    req.Species,
		Body:       req.Body,
		Photos:     req.Photos,
		ReportedAt: reportedAt,
	}

	// A weather failure never blocks the report; the snapshot fields stay
	// empty.
	if req.Latitude != nil && req.Longitude != nil {
		snap, err := s.weatherService.Current(ctx, *req.Latitude, *req.Longitude)
		if err != nil {
			s.logger.Warn("Weather snapshot unavailable for report",
				zap.Int64("user_id", req.UserID),
				zap.Error(err),
			)
		} else {
			report.WeatherSummary = &snap.Summary
			report.TemperatureC = &snap.TemperatureC
			report.WindKph = &snap.WindKph
		}
	}

	if err := s.reportRepo.Create(ctx, report); err != nil {
		s.logger.Error("Failed to create report",
			zap.Int64("user_id", req.UserID),
			zap.Error(err),
		)
		return nil, WrapInternal("failed to create report", err)
	}
	return report, nil
}

func (s *reportService) GetReport(ctx context.Context, reportID int64) (*models.Report, error) {
	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return nil, WrapInternal("failed to load report", err)
	}
	if report == nil {
		return nil, NewNotFoundError("report not found")
	}
	return report, nil
}

func (s *reportService) ListReports(ctx context.Context, req *ListReportsRequest) (*models.PaginatedResponse[*models.Report], error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, NewValidationError("invalid report filter", err)
	}

	filter := repositories.ReportFilter{
		Species:   req.Species,
		Locations: req.Locations,
		Since:     req.Since,
		SortBy:    req.SortBy,
	}
	page, err := s.reportRepo.List(ctx, filter, req.Pagination)
	if err != nil {
		return nil, WrapInternal("failed to list reports", err)
	}
	return page, nil
}

func (s *reportService) Locations(ctx context.Context) ([]*models.ReportLocation, error) {
	locations, err := s.reportRepo.Locations(ctx)
	if err != nil {
		return nil, WrapInternal("failed to list report locations", err)
	}
	return locations, nil
}
