package stores

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/feirinha-app/feirinha-backend/pkg/db/models"
	"github.com/feirinha-app/feirinha-backend/pkg/textutil"
)

// Repository handles store persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to store operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads a store by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).First(&store, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// FindOrCreateByName returns the store whose name matches case- and
// accent-insensitively, creating it on first sight. Stores are never merged
// automatically.
func (r *Repository) FindOrCreateByName(ctx context.Context, name string, taxID *string) (*models.Store, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, errors.New("store name is required")
	}
	normalized := textutil.Normalize(trimmed)

	var store models.Store
	err := r.db.WithContext(ctx).
		Where("normalized_name = ?", normalized).
		First(&store).Error
	if err == nil {
		if store.TaxID == nil && taxID != nil {
			store.TaxID = taxID
			if err := r.db.WithContext(ctx).Save(&store).Error; err != nil {
				return nil, err
			}
		}
		return &store, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	store = models.Store{
		ID:             uuid.New(),
		Name:           trimmed,
		NormalizedName: normalized,
		TaxID:          taxID,
	}
	if err := r.db.WithContext(ctx).Create(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}
