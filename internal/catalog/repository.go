package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/feirinha-app/feirinha-backend/pkg/db/models"
	"github.com/feirinha-app/feirinha-backend/pkg/textutil"
)

// Repository wires together product and synonym persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads the product without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDWithCategory loads the product with its category preloaded.
func (r *Repository) FindByIDWithCategory(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Preload("Category").
		First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByStoreCode returns the active product carrying the given store code.
func (r *Repository) FindByStoreCode(ctx context.Context, code string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Where("store_code = ? AND active = ?", code, true).
		First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindConfirmedByNormalizedName returns the confirmed product whose
// normalized name equals the provided key.
func (r *Repository) FindConfirmedByNormalizedName(ctx context.Context, normalized string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Where("normalized_name = ? AND active = ? AND needs_name_review = ?", normalized, true, false).
		First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindBySynonym resolves a normalized raw string through the synonym table.
func (r *Repository) FindBySynonym(ctx context.Context, normalized string) (*models.Product, error) {
	var synonym models.ProductSynonym
	if err := r.db.WithContext(ctx).
		Where("normalized_text = ?", normalized).
		First(&synonym).Error; err != nil {
		return nil, err
	}
	return r.FindByID(ctx, synonym.ProductID)
}

// ListConfirmed returns every active, name-confirmed product. The resolver
// ranks these by similarity for the fuzzy stage.
func (r *Repository) ListConfirmed(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("active = ? AND needs_name_review = ?", true, false).
		Find(&products).Error
	return products, err
}

// CreateSynonym inserts a learned alias, ignoring an already-present key so
// concurrent resolutions of the same raw string stay idempotent.
func (r *Repository) CreateSynonym(ctx context.Context, synonym *models.ProductSynonym) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "normalized_text"}},
			DoNothing: true,
		}).
		Create(synonym).Error
}

// Save persists the provided product.
func (r *Repository) Save(ctx context.Context, product *models.Product) error {
	if product == nil {
		return errors.New("product is required")
	}
	return r.db.WithContext(ctx).Save(product).Error
}

// TouchLastMatched stamps the product as most recently used for matching.
func (r *Repository) TouchLastMatched(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("last_matched_at", at).Error
}

// EnsurePendingProduct creates a pending product for the raw name, or
// returns the pending row another line already created for the same
// normalized key. Writes for one key are serialized so concurrent list
// processing cannot mint duplicate pending products.
func (r *Repository) EnsurePendingProduct(ctx context.Context, rawName string, storeCode *string) (*models.Product, error) {
	normalized := textutil.Normalize(rawName)

	var created *models.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tx.Dialector.Name() == "postgres" {
			if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", normalized).Error; err != nil {
				return err
			}
		}

		var existing models.Product
		err := tx.
			Where("normalized_name = ? AND active = ? AND needs_name_review = ?", normalized, true, true).
			First(&existing).Error
		if err == nil {
			created = &existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		product := &models.Product{
			ID:              uuid.New(),
			Name:            rawName,
			NormalizedName:  normalized,
			StoreCode:       storeCode,
			NeedsNameReview: true,
			Active:          true,
		}
		if err := tx.Create(product).Error; err != nil {
			return err
		}
		created = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ListNeedingReview returns products awaiting human confirmation, oldest
// first, for the catalog administration surface.
func (r *Repository) ListNeedingReview(ctx context.Context, limit int) ([]models.Product, error) {
	q := r.db.WithContext(ctx).
		Preload("Category").
		Where("active = ? AND (needs_name_review = ? OR needs_category_review = ?)", true, true, true).
		Order("created_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var products []models.Product
	err := q.Find(&products).Error
	return products, err
}

// CreateProduct inserts an admin-created, already-confirmed product.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) error {
	if product == nil {
		return errors.New("product is required")
	}
	if product.NormalizedName == "" {
		product.NormalizedName = textutil.Normalize(product.Name)
	}
	if product.Unit != nil && !product.Unit.IsValid() {
		return errors.New("invalid unit")
	}
	return r.db.WithContext(ctx).Create(product).Error
}
