package classifier

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/feirinha-app/feirinha-backend/pkg/db/models"
)

// Repository handles classification rule and category persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to classification storage.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListRules returns every rule in application order. Ordering is enforced
// here, never assumed from storage order.
func (r *Repository) ListRules(ctx context.Context) ([]models.CategoryRule, error) {
	var rules []models.CategoryRule
	err := r.db.WithContext(ctx).
		Order("priority DESC").
		Order("usage_count DESC").
		Find(&rules).Error
	return rules, err
}

// IncrementUsage bumps the rule's append-only usage counter.
func (r *Repository) IncrementUsage(ctx context.Context, ruleID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.CategoryRule{}).
		Where("id = ?", ruleID).
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1")).Error
}

// CreateRule inserts a freshly learned rule.
func (r *Repository) CreateRule(ctx context.Context, rule *models.CategoryRule) error {
	if rule == nil {
		return errors.New("rule is required")
	}
	return r.db.WithContext(ctx).Create(rule).Error
}

// FindCategory loads a category by id.
func (r *Repository) FindCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// DefaultCategory returns the designated fallback category.
func (r *Repository) DefaultCategory(ctx context.Context) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).
		Where("is_default = ?", true).
		First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}
