package classifier

import (
	"context"
	"io"
	"sort"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/feirinha-app/feirinha-backend/pkg/db/models"
	"github.com/feirinha-app/feirinha-backend/pkg/logger"
	"github.com/feirinha-app/feirinha-backend/pkg/textutil"
)

type fakeRuleRepo struct {
	rules      []models.CategoryRule
	categories map[uuid.UUID]*models.Category
	fallback   *models.Category
}

func (f *fakeRuleRepo) ListRules(_ context.Context) ([]models.CategoryRule, error) {
	out := make([]models.CategoryRule, len(f.rules))
	copy(out, f.rules)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].UsageCount > out[j].UsageCount
	})
	return out, nil
}

func (f *fakeRuleRepo) IncrementUsage(_ context.Context, ruleID uuid.UUID) error {
	for i := range f.rules {
		if f.rules[i].ID == ruleID {
			f.rules[i].UsageCount++
		}
	}
	return nil
}

func (f *fakeRuleRepo) FindCategory(_ context.Context, id uuid.UUID) (*models.Category, error) {
	if c, ok := f.categories[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRuleRepo) DefaultCategory(_ context.Context) (*models.Category, error) {
	if f.fallback == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.fallback, nil
}

type fakeProductSaver struct {
	saved []*models.Product
}

func (f *fakeProductSaver) Save(_ context.Context, product *models.Product) error {
	f.saved = append(f.saved, product)
	return nil
}

func newFixture(t *testing.T) (*fakeRuleRepo, *fakeProductSaver, *Classifier) {
	t.Helper()
	dairy := &models.Category{ID: uuid.New(), Name: "Laticinios"}
	grains := &models.Category{ID: uuid.New(), Name: "Graos"}
	fallback := &models.Category{ID: uuid.New(), Name: "Nao Classificado", IsDefault: true}
	repo := &fakeRuleRepo{
		categories: map[uuid.UUID]*models.Category{
			dairy.ID:    dairy,
			grains.ID:   grains,
			fallback.ID: fallback,
		},
		fallback: fallback,
		rules: []models.CategoryRule{
			{ID: uuid.New(), Term: "IOGURTE", Priority: 10, CategoryID: dairy.ID},
			{ID: uuid.New(), Term: "ARROZ", Priority: 5, CategoryID: grains.ID},
		},
	}
	saver := &fakeProductSaver{}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	c, err := NewClassifier(repo, saver, logg)
	if err != nil {
		t.Fatalf("new classifier: %v", err)
	}
	return repo, saver, c
}

func pendingProduct(name string) *models.Product {
	return &models.Product{
		ID:             uuid.New(),
		Name:           name,
		NormalizedName: textutil.Normalize(name),
		Active:         true,
	}
}

func TestClassifyMatchingRuleIncrementsUsage(t *testing.T) {
	repo, saver, c := newFixture(t)
	product := pendingProduct("IOGURTE NATURAL 170G")

	category, err := c.Classify(context.Background(), product)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if category.Name != "Laticinios" {
		t.Fatalf("expected dairy, got %s", category.Name)
	}
	if product.CategoryID == nil || *product.CategoryID != category.ID {
		t.Fatal("product category not assigned")
	}
	if product.NeedsCategoryReview {
		t.Fatal("rule-classified product must not need review")
	}
	if repo.rules[0].UsageCount != 1 {
		t.Fatalf("expected usage count 1, got %d", repo.rules[0].UsageCount)
	}
	if len(saver.saved) != 1 {
		t.Fatalf("expected one save, got %d", len(saver.saved))
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	_, _, c := newFixture(t)

	first, err := c.Predict(context.Background(), "Arroz Parboilizado")
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := c.Predict(context.Background(), "Arroz Parboilizado")
		if err != nil {
			t.Fatalf("predict: %v", err)
		}
		if again == nil || again.ID != first.ID {
			t.Fatal("prediction changed between identical calls")
		}
	}
}

func TestClassifyNoRuleFallsBackUnderReview(t *testing.T) {
	repo, _, c := newFixture(t)
	product := pendingProduct("Esponja de Aco")

	category, err := c.Classify(context.Background(), product)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if !category.IsDefault {
		t.Fatal("expected the default category")
	}
	if !product.NeedsCategoryReview {
		t.Fatal("fallback classification must flag category review")
	}
	for _, rule := range repo.rules {
		if rule.UsageCount != 0 {
			t.Fatal("no usage counter may move on fallback")
		}
	}
}

func TestClassifyHigherPriorityRuleWins(t *testing.T) {
	repo, _, c := newFixture(t)
	// Both terms are substrings of the name; the higher priority rule wins.
	repo.rules = append(repo.rules, models.CategoryRule{
		ID:         uuid.New(),
		Term:       "IOGURTE NATURAL",
		Priority:   1,
		CategoryID: repo.rules[1].CategoryID,
	})
	product := pendingProduct("IOGURTE NATURAL 170G")

	category, err := c.Classify(context.Background(), product)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if category.Name != "Laticinios" {
		t.Fatalf("expected highest priority rule to win, got %s", category.Name)
	}
}

func TestClassifyKeepsExistingCategory(t *testing.T) {
	repo, saver, c := newFixture(t)
	product := pendingProduct("IOGURTE GREGO")
	existing := repo.fallback.ID
	product.CategoryID = &existing

	category, err := c.Classify(context.Background(), product)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if category.ID != existing {
		t.Fatal("classify must not reassign an existing category")
	}
	if len(saver.saved) != 0 {
		t.Fatal("no save expected for an already categorized product")
	}
}

func TestPredictReturnsNilWithoutMatch(t *testing.T) {
	_, _, c := newFixture(t)
	category, err := c.Predict(context.Background(), "Sabao em Po")
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if category != nil {
		t.Fatalf("expected nil prediction, got %s", category.Name)
	}
}
