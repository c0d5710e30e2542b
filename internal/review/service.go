package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/feirinha-app/feirinha-backend/internal/catalog"
	"github.com/feirinha-app/feirinha-backend/internal/classifier"
	"github.com/feirinha-app/feirinha-backend/pkg/db/models"
	"github.com/feirinha-app/feirinha-backend/pkg/enums"
	pkgerrors "github.com/feirinha-app/feirinha-backend/pkg/errors"
	"github.com/feirinha-app/feirinha-backend/pkg/logger"
	"github.com/feirinha-app/feirinha-backend/pkg/textutil"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type categoryPredictor interface {
	Predict(ctx context.Context, name string) (*models.Category, error)
}

// Service applies human corrections to the catalog: confirming pending
// products and merging duplicates. It is the only path allowed to undo
// ambiguity created during resolution and classification.
type Service struct {
	db        txRunner
	products  *catalog.Repository
	rules     *classifier.Repository
	predictor categoryPredictor
	validate  *validator.Validate
	logg      *logger.Logger
}

// NewService wires the approval workflow over the catalog repositories.
func NewService(
	db txRunner,
	products *catalog.Repository,
	rules *classifier.Repository,
	predictor categoryPredictor,
	logg *logger.Logger,
) (*Service, error) {
	if db == nil {
		return nil, errors.New("transaction runner required")
	}
	if products == nil {
		return nil, errors.New("catalog repository required")
	}
	if rules == nil {
		return nil, errors.New("rule repository required")
	}
	if predictor == nil {
		return nil, errors.New("category predictor required")
	}
	if logg == nil {
		return nil, errors.New("logger required")
	}
	return &Service{
		db:        db,
		products:  products,
		rules:     rules,
		predictor: predictor,
		validate:  validator.New(),
		logg:      logg,
	}, nil
}

// ApproveInput carries a reviewer's corrections for a pending product.
type ApproveInput struct {
	ProductID  uuid.UUID   `validate:"required"`
	Name       *string     `validate:"omitempty,min=1"`
	CategoryID *uuid.UUID  `validate:"omitempty"`
	Unit       *enums.Unit `validate:"omitempty"`
}

// Approve confirms a pending product, applying the corrected name, unit and
// category. A corrected category the rule set would not have predicted
// becomes a new rule with priority 0 and usage 0, which is the classifier's
// only learning path. Renaming keeps the old raw name resolvable through a
// manual synonym.
func (s *Service) Approve(ctx context.Context, input ApproveInput) (*models.Product, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid approve input").WithDetails(err.Error())
	}
	ctx = s.logg.WithProductID(ctx, input.ProductID.String())

	// Predict with the corrected name before opening the transaction; the
	// prediction is advisory and must not read through the write lock.
	var predicted *models.Category
	if input.CategoryID != nil {
		current, err := s.products.FindByID(ctx, input.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}
		finalName := current.Name
		if input.Name != nil {
			finalName = *input.Name
		}
		predicted, err = s.predictor.Predict(ctx, finalName)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "predict category")
		}
	}

	var approved *models.Product
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		products := s.products.WithTx(tx)
		rules := s.rules.WithTx(tx)

		product, err := lockProduct(ctx, tx, input.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}
		if !product.Active || product.MergedIntoID != nil {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "product is inactive or merged")
		}
		if !product.NeedsNameReview && !product.NeedsCategoryReview {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "product is not pending review")
		}

		if input.Name != nil && *input.Name != product.Name {
			if err := s.rename(ctx, products, product, *input.Name); err != nil {
				return err
			}
		}
		product.NeedsNameReview = false

		if input.Unit != nil {
			if !input.Unit.IsValid() {
				return pkgerrors.New(pkgerrors.CodeValidation, "invalid unit")
			}
			product.Unit = input.Unit
		}

		if input.CategoryID != nil {
			if err := assignCategory(ctx, rules, product, *input.CategoryID, predicted); err != nil {
				return err
			}
		}

		if err := products.Save(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save approved product")
		}
		approved = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logg.Info(ctx, "product approved")
	return approved, nil
}

// rename swaps the canonical name, guarding against a collision with
// another confirmed product and keeping the old name as a manual synonym.
func (s *Service) rename(ctx context.Context, products *catalog.Repository, product *models.Product, name string) error {
	normalized := textutil.Normalize(name)
	if normalized == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is empty after normalization")
	}

	existing, err := products.FindConfirmedByNormalizedName(ctx, normalized)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check name collision")
	}
	if existing != nil && existing.ID != product.ID {
		return pkgerrors.New(pkgerrors.CodeConflict,
			fmt.Sprintf("another confirmed product already uses the name %q", name))
	}

	if product.NormalizedName != normalized {
		synonym := &models.ProductSynonym{
			ID:             uuid.New(),
			ProductID:      product.ID,
			RawText:        product.Name,
			NormalizedText: product.NormalizedName,
			Source:         enums.SynonymSourceManual,
		}
		if err := products.CreateSynonym(ctx, synonym); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record rename synonym")
		}
	}

	product.Name = name
	product.NormalizedName = normalized
	return nil
}

// assignCategory applies the reviewer's category and learns a rule when the
// existing rule set would have predicted something else.
func assignCategory(ctx context.Context, rules *classifier.Repository, product *models.Product, categoryID uuid.UUID, predicted *models.Category) error {
	category, err := rules.FindCategory(ctx, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}

	if (predicted == nil || predicted.ID != category.ID) && !category.IsDefault {
		rule := &models.CategoryRule{
			ID:         uuid.New(),
			Term:       textutil.Normalize(product.Name),
			Priority:   0,
			UsageCount: 0,
			CategoryID: category.ID,
		}
		if err := rules.CreateRule(ctx, rule); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "learn classification rule")
		}
	}

	product.CategoryID = &category.ID
	product.NeedsCategoryReview = false
	return nil
}

// Merge reassigns every line item, price observation and synonym from the
// source product to the target, then deactivates the source. The migration
// is all or nothing; a half-moved history must never be observable.
func (s *Service) Merge(ctx context.Context, sourceID, targetID uuid.UUID) error {
	if sourceID == targetID {
		return pkgerrors.New(pkgerrors.CodeValidation, "cannot merge a product into itself")
	}
	ctx = s.logg.WithProductID(ctx, sourceID.String())

	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		source, err := lockProduct(ctx, tx, sourceID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "source product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load source product")
		}
		target, err := lockProduct(ctx, tx, targetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "target product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load target product")
		}
		if !source.Active || source.MergedIntoID != nil {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "source product already merged or inactive")
		}
		if !target.Active || target.MergedIntoID != nil {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "target product is not an active merge target")
		}

		if err := tx.Model(&models.ListItem{}).
			Where("product_id = ?", sourceID).
			Update("product_id", targetID).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeIntegrity, err, "migrate line items")
		}
		if err := tx.Model(&models.PriceHistory{}).
			Where("product_id = ?", sourceID).
			Update("product_id", targetID).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeIntegrity, err, "migrate price history")
		}
		if err := tx.Model(&models.ProductSynonym{}).
			Where("product_id = ?", sourceID).
			Update("product_id", targetID).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeIntegrity, err, "migrate synonyms")
		}

		// The source's own name keeps resolving to the target.
		synonym := &models.ProductSynonym{
			ID:             uuid.New(),
			ProductID:      targetID,
			RawText:        source.Name,
			NormalizedText: source.NormalizedName,
			Source:         enums.SynonymSourceManual,
		}
		if err := s.products.WithTx(tx).CreateSynonym(ctx, synonym); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record merge synonym")
		}

		source.Active = false
		source.NeedsNameReview = false
		source.NeedsCategoryReview = false
		source.MergedIntoID = &targetID
		if err := s.products.WithTx(tx).Save(ctx, source); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate source product")
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logg.Info(s.logg.WithField(ctx, "merged_into", targetID.String()), "products merged")
	return nil
}

// lockProduct loads a product row, taking a row lock where the dialect
// supports it so merges and approvals of the same row cannot interleave.
func lockProduct(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Product, error) {
	q := tx.WithContext(ctx)
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var product models.Product
	if err := q.First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}
