package pricing

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/feirinha-app/feirinha-backend/pkg/db/models"
)

// Repository handles the append-only price history.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to price history operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Append records one price observation. Rows are never updated or deleted.
func (r *Repository) Append(ctx context.Context, entry *models.PriceHistory) error {
	if entry == nil {
		return errors.New("price history entry is required")
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

// LatestFor returns the most recent observation for a product, or
// gorm.ErrRecordNotFound when the product has no price yet.
func (r *Repository) LatestFor(ctx context.Context, productID uuid.UUID) (*models.PriceHistory, error) {
	var entry models.PriceHistory
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("observed_at DESC").
		First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListFor returns a product's observations, newest first.
func (r *Repository) ListFor(ctx context.Context, productID uuid.UUID, limit int) ([]models.PriceHistory, error) {
	q := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("observed_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var entries []models.PriceHistory
	err := q.Find(&entries).Error
	return entries, err
}
