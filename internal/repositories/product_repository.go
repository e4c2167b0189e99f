// internal/repositories/product_repository.go
package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"castnfish/internal/database"
	"castnfish/internal/models"

	"go.uber.org/zap"
)

// productRepository implements ProductRepository over PostgreSQL.
type productRepository struct {
	*BaseRepository
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *database.Manager, logger *zap.Logger) ProductRepository {
	return &productRepository{BaseRepository: NewBaseRepository(db, logger)}
}

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (id, name, category, image_url)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := r.QueryRowContext(ctx, query,
		product.ID, product.Name, product.Category, product.ImageURL,
	).Scan(&product.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create product %s: %w", product.ID, err)
	}

	r.GetLogger().Info("Product created",
		zap.String("product_id", product.ID),
		zap.String("category", product.Category),
	)
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	query := `
		SELECT p.id, p.name, p.category, p.image_url, p.created_at, lp.price
		FROM products p
		LEFT JOIN LATERAL (
			SELECT price FROM price_history
			WHERE product_id = p.id
			ORDER BY observed_at DESC
			LIMIT 1
		) lp ON TRUE
		WHERE p.id = $1`

	var p models.Product
	err := r.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Category, &p.ImageURL, &p.CreatedAt, &p.CurrentPrice,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product %s: %w", id, err)
	}
	return &p, nil
}

func (r *productRepository) List(ctx context.Context) ([]*models.Product, error) {
	query := `
		SELECT p.id, p.name, p.category, p.image_url, p.created_at, lp.price
		FROM products p
		LEFT JOIN LATERAL (
			SELECT price FROM price_history
			WHERE product_id = p.id
			ORDER BY observed_at DESC
			LIMIT 1
		) lp ON TRUE
		ORDER BY p.name ASC`

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.ImageURL, &p.CreatedAt, &p.CurrentPrice); err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		products = append(products, &p)
	}
	return products, rows.Err()
}

// ReplacePriceHistory swaps a product's whole price series in one
// transaction, matching how tracked listings are re-scraped wholesale.
func (r *productRepository) ReplacePriceHistory(ctx context.Context, productID string, records []models.PriceRecord) error {
	tx, err := r.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM price_history WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("failed to clear price history for %s: %w", productID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO price_history (product_id, price, observed_at)
		VALUES ($1, $2, $3)`)
	if err != nil {
		return fmt.Errorf("failed to prepare price insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx, productID, rec.Price, rec.ObservedAt); err != nil {
			return fmt.Errorf("failed to insert price record for %s: %w", productID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit price history for %s: %w", productID, err)
	}

	r.GetLogger().Info("Price history replaced",
		zap.String("product_id", productID),
		zap.Int("records", len(records)),
	)
	return nil
}

func (r *productRepository) PriceHistory(ctx context.Context, productID string) ([]models.PriceRecord, error) {
	query := `
		SELECT product_id, price, observed_at
		FROM price_history
		WHERE product_id = $1
		ORDER BY observed_at ASC`

	rows, err := r.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get price history for %s: %w", productID, err)
	}
	defer rows.Close()

	var records []models.PriceRecord
	for rows.Next() {
		var rec models.PriceRecord
		if err := rows.Scan(&rec.ProductID, &rec.Price, &rec.ObservedAt); err != nil {
			return nil, fmt.Errorf("failed to scan price record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
