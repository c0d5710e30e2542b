package classifier

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/feirinha-app/feirinha-backend/pkg/db/models"
	pkgerrors "github.com/feirinha-app/feirinha-backend/pkg/errors"
	"github.com/feirinha-app/feirinha-backend/pkg/logger"
	"github.com/feirinha-app/feirinha-backend/pkg/textutil"
)

type ruleRepository interface {
	ListRules(ctx context.Context) ([]models.CategoryRule, error)
	IncrementUsage(ctx context.Context, ruleID uuid.UUID) error
	FindCategory(ctx context.Context, id uuid.UUID) (*models.Category, error)
	DefaultCategory(ctx context.Context) (*models.Category, error)
}

type productSaver interface {
	Save(ctx context.Context, product *models.Product) error
}

// Classifier assigns categories to uncategorized products using the learned
// rule set, falling back to the default category under review.
type Classifier struct {
	rules    ruleRepository
	products productSaver
	logg     *logger.Logger
}

// NewClassifier builds a classifier over the provided repositories.
func NewClassifier(rules ruleRepository, products productSaver, logg *logger.Logger) (*Classifier, error) {
	if rules == nil {
		return nil, errors.New("rule repository required")
	}
	if products == nil {
		return nil, errors.New("product repository required")
	}
	if logg == nil {
		return nil, errors.New("logger required")
	}
	return &Classifier{rules: rules, products: products, logg: logg}, nil
}

// Classify assigns a category to a product that has none. The first rule
// whose term is contained in the normalized name wins and has its usage
// counter bumped. With no matching rule the product lands in the default
// category flagged for review. Finding no rule is not an error.
func (c *Classifier) Classify(ctx context.Context, product *models.Product) (*models.Category, error) {
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is required")
	}
	if product.CategoryID != nil {
		category, err := c.rules.FindCategory(ctx, *product.CategoryID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load existing category")
		}
		return category, nil
	}

	rule, err := c.matchRule(ctx, product.Name)
	if err != nil {
		return nil, err
	}

	if rule != nil {
		category, err := c.rules.FindCategory(ctx, rule.CategoryID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load rule category")
		}
		if err := c.rules.IncrementUsage(ctx, rule.ID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment rule usage")
		}
		product.CategoryID = &category.ID
		product.NeedsCategoryReview = false
		if err := c.products.Save(ctx, product); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save classified product")
		}
		return category, nil
	}

	fallback, err := c.rules.DefaultCategory(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load default category")
	}
	product.CategoryID = &fallback.ID
	product.NeedsCategoryReview = true
	if err := c.products.Save(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save unclassified product")
	}
	return fallback, nil
}

// Predict returns the category the rule set would pick for a name, without
// touching usage counters or the product. A nil category means no rule
// matches.
func (c *Classifier) Predict(ctx context.Context, name string) (*models.Category, error) {
	rule, err := c.matchRule(ctx, name)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, nil
	}
	category, err := c.rules.FindCategory(ctx, rule.CategoryID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load rule category")
	}
	return category, nil
}

func (c *Classifier) matchRule(ctx context.Context, name string) (*models.CategoryRule, error) {
	normalized := textutil.Normalize(name)
	if normalized == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is empty after normalization")
	}

	rules, err := c.rules.ListRules(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list classification rules")
	}
	for i := range rules {
		if strings.Contains(normalized, rules[i].Term) {
			return &rules[i], nil
		}
	}
	return nil, nil
}
