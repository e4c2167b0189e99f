// internal/repositories/report_repository.go
package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"castnfish/internal/database"
	"castnfish/internal/models"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// reportRepository implements ReportRepository over PostgreSQL.
type reportRepository struct {
	*BaseRepository
}

// NewReportRepository creates a new ReportRepository.
func NewReportRepository(db *database.Manager, logger *zap.Logger) ReportRepository {
	return &reportRepository{BaseRepository: NewBaseRepository(db, logger)}
}

const reportColumns = `
	r.id, r.user_id, r.title, r.location, r.latitude, r.longitude, r.species, r.body,
	r.photos, r.weather_summary, r.temperature_c, r.wind_kph, r.reported_at, r.created_at`

func scanReportRow(row interface{ Scan(...interface{}) error }) (*models.Report, error) {
	var rep models.Report
	err := row.Scan(
		&rep.ID, &rep.UserID, &rep.Title, &rep.Location, &rep.Latitude, &rep.Longitude,
		pq.Array(&rep.Species), &rep.Body, pq.Array(&rep.Photos),
		&rep.WeatherSummary, &rep.TemperatureC, &rep.WindKph,
		&rep.ReportedAt, &rep.CreatedAt, &rep.Username,
	)
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

func (r *reportRepository) Create(ctx context.Context, report *models.Report) error {
	query := `
		INSERT INTO reports (
			user_id, title, location, latitude, longitude, species, body,
			photos, weather_summary, temperature_c, wind_kph, reported_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at`

	err := r.QueryRowContext(ctx, query,
		report.UserID, report.Title, report.Location, report.Latitude, report.Longitude,
		pq.Array(report.Species), report.Body, pq.Array(report.Photos),
		report.WeatherSummary, report.TemperatureC, report.WindKph, report.ReportedAt,
	).Scan(&report.ID, &report.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}

	r.GetLogger().Info("Trip report created",
		zap.Int64("report_id", report.ID),
		zap.Int64("user_id", report.UserID),
		zap.String("location", report.Location),
	)
	return nil
}

func (r *reportRepository) GetByID(ctx context.Context, id int64) (*models.Report, error) {
	query := fmt.Sprintf(`
		SELECT %s, u.username
		FROM reports r
		INNER JOIN users u ON r.user_id = u.id
		WHERE r.id = $1`, reportColumns)

	rep, err := scanReportRow(r.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report %d: %w", id, err)
	}
	return rep, nil
}

func (r *reportRepository) List(ctx context.Context, filter ReportFilter, params models.PaginationParams) (*models.PaginatedResponse[*models.Report], error) {
	params.Normalize()

	var conditions []string
	var args []interface{}
	argPos := 1

	if len(filter.Species) > 0 {
		conditions = append(conditions, fmt.Sprintf("r.species && $%d", argPos))
		args = append(args, pq.Array(filter.Species))
		argPos++
	}
	if len(filter.Locations) > 0 {
		conditions = append(conditions, fmt.Sprintf("r.location = ANY($%d)", argPos))
		args = append(args, pq.Array(filter.Locations))
		argPos++
	}
	if filter.Since != nil {
		conditions = append(conditions, fmt.Sprintf("r.reported_at >= $%d", argPos))
		args = append(args, *filter.Since)
		argPos++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	orderBy := "r.reported_at DESC"
	switch filter.SortBy {
	case "location":
		orderBy = "r.location ASC, r.reported_at DESC"
	case "species":
		orderBy = "r.species[1] ASC, r.reported_at DESC"
	}

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM reports r %s`, where)
	if err := r.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count reports: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s, u.username
		FROM reports r
		INNER JOIN users u ON r.user_id = u.id
		%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`, reportColumns, where, orderBy, argPos, argPos+1)
	args = append(args, params.PageSize, params.Offset())

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []*models.Report
	for rows.Next() {
		rep, err := scanReportRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		reports = append(reports, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate report rows: %w", err)
	}

	return models.NewPaginatedResponse(reports, params, total), nil
}

// Locations returns map markers for every report that carries coordinates.
func (r *reportRepository) Locations(ctx context.Context) ([]*models.ReportLocation, error) {
	query := `
		SELECT id, title, latitude, longitude, species, TO_CHAR(reported_at, 'YYYY-MM-DD')
		FROM reports
		WHERE latitude IS NOT NULL AND longitude IS NOT NULL
		ORDER BY reported_at DESC`

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list report locations: %w", err)
	}
	defer rows.Close()

	var locations []*models.ReportLocation
	for rows.Next() {
		loc := models.ReportLocation{Type: "report"}
		if err := rows.Scan(&loc.ID, &loc.Title, &loc.Latitude, &loc.Longitude, pq.Array(&loc.Species), &loc.Date); err != nil {
			return nil, fmt.Errorf("failed to scan location row: %w", err)
		}
		locations = append(locations, &loc)
	}
	return locations, rows.Err()
}
