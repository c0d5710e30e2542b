package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/feirinha-app/feirinha-backend/pkg/db/models"
	"github.com/feirinha-app/feirinha-backend/pkg/enums"
	pkgerrors "github.com/feirinha-app/feirinha-backend/pkg/errors"
	"github.com/feirinha-app/feirinha-backend/pkg/logger"
	"github.com/feirinha-app/feirinha-backend/pkg/textutil"
)

// FuzzyThreshold is the minimum 0-100 similarity a candidate must reach
// before a fuzzy match is accepted.
const FuzzyThreshold = 80

// Query carries one raw name to resolve, plus the store code when the line
// came from an invoice.
type Query struct {
	RawName   string
	StoreCode *string
}

// Resolution is the outcome of running the fallback chain for one query.
type Resolution struct {
	Product *models.Product
	Status  enums.ResolutionStatus
	Score   int
}

type repository interface {
	FindByStoreCode(ctx context.Context, code string) (*models.Product, error)
	FindConfirmedByNormalizedName(ctx context.Context, normalized string) (*models.Product, error)
	FindBySynonym(ctx context.Context, normalized string) (*models.Product, error)
	ListConfirmed(ctx context.Context) ([]models.Product, error)
	CreateSynonym(ctx context.Context, synonym *models.ProductSynonym) error
	TouchLastMatched(ctx context.Context, id uuid.UUID, at time.Time) error
	EnsurePendingProduct(ctx context.Context, rawName string, storeCode *string) (*models.Product, error)
}

// stage attempts one strategy. A nil resolution with a nil error means the
// chain moves on to the next stage.
type stage func(ctx context.Context, q Query, normalized string) (*Resolution, error)

// Resolver maps raw names onto catalog products through an ordered chain of
// fallback stages, learning synonyms as it goes.
type Resolver struct {
	repo   repository
	logg   *logger.Logger
	now    func() time.Time
	stages []stage
}

// NewResolver builds a resolver over the provided repository.
func NewResolver(repo repository, logg *logger.Logger) (*Resolver, error) {
	if repo == nil {
		return nil, errors.New("catalog repository required")
	}
	if logg == nil {
		return nil, errors.New("logger required")
	}
	r := &Resolver{
		repo: repo,
		logg: logg,
		now:  time.Now,
	}
	r.stages = []stage{
		r.byStoreCode,
		r.byExactName,
		r.bySynonym,
		r.byFuzzyMatch,
		r.createPending,
	}
	return r, nil
}

// Resolve runs the fallback chain and returns the first stage's hit. Once a
// raw string has been fuzzy-accepted, the synonym stage answers for it on
// every later call.
func (r *Resolver) Resolve(ctx context.Context, q Query) (*Resolution, error) {
	raw := strings.TrimSpace(q.RawName)
	normalized := textutil.Normalize(raw)
	if normalized == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is empty after normalization")
	}
	q.RawName = raw

	for _, st := range r.stages {
		resolution, err := st(ctx, q, normalized)
		if err != nil {
			return nil, err
		}
		if resolution != nil {
			if err := r.repo.TouchLastMatched(ctx, resolution.Product.ID, r.now().UTC()); err != nil {
				r.logg.Warn(r.logg.WithProductID(ctx, resolution.Product.ID.String()), "failed to stamp last match")
			}
			return resolution, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "resolver chain produced no outcome")
}

func (r *Resolver) byStoreCode(ctx context.Context, q Query, _ string) (*Resolution, error) {
	if q.StoreCode == nil || strings.TrimSpace(*q.StoreCode) == "" {
		return nil, nil
	}
	product, err := r.repo.FindByStoreCode(ctx, strings.TrimSpace(*q.StoreCode))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup by store code")
	}
	return &Resolution{Product: product, Status: enums.ResolutionMatchedExact, Score: 100}, nil
}

func (r *Resolver) byExactName(ctx context.Context, _ Query, normalized string) (*Resolution, error) {
	product, err := r.repo.FindConfirmedByNormalizedName(ctx, normalized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup by normalized name")
	}
	return &Resolution{Product: product, Status: enums.ResolutionMatchedExact, Score: 100}, nil
}

func (r *Resolver) bySynonym(ctx context.Context, _ Query, normalized string) (*Resolution, error) {
	product, err := r.repo.FindBySynonym(ctx, normalized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup by synonym")
	}
	return &Resolution{Product: product, Status: enums.ResolutionMatchedSynonym, Score: 100}, nil
}

// byFuzzyMatch ranks every confirmed product by similarity and accepts the
// best candidate at or above the threshold. Acceptance writes a synonym so
// the cost of the scan is paid once per raw string.
func (r *Resolver) byFuzzyMatch(ctx context.Context, q Query, normalized string) (*Resolution, error) {
	candidates, err := r.repo.ListConfirmed(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list fuzzy candidates")
	}

	var best *models.Product
	bestScore := 0
	for i := range candidates {
		candidate := &candidates[i]
		key := candidate.NormalizedName
		if key == "" {
			key = textutil.Normalize(candidate.Name)
		}
		score := SimilarityRatio(normalized, key)
		if score < FuzzyThreshold {
			continue
		}
		if score > bestScore || (score == bestScore && moreRecentlyUsed(candidate, best)) {
			best = candidate
			bestScore = score
		}
	}
	if best == nil {
		return nil, nil
	}

	synonym := &models.ProductSynonym{
		ID:             uuid.New(),
		ProductID:      best.ID,
		RawText:        q.RawName,
		NormalizedText: normalized,
		Source:         enums.SynonymSourceFuzzy,
	}
	if err := r.repo.CreateSynonym(ctx, synonym); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record fuzzy synonym")
	}

	return &Resolution{Product: best, Status: enums.ResolutionMatchedFuzzy, Score: bestScore}, nil
}

func (r *Resolver) createPending(ctx context.Context, q Query, _ string) (*Resolution, error) {
	product, err := r.repo.EnsurePendingProduct(ctx, q.RawName, q.StoreCode)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create pending product")
	}
	return &Resolution{Product: product, Status: enums.ResolutionCreatedPending, Score: 0}, nil
}

func moreRecentlyUsed(candidate, current *models.Product) bool {
	if current == nil {
		return true
	}
	if candidate.LastMatchedAt == nil {
		return false
	}
	if current.LastMatchedAt == nil {
		return true
	}
	return candidate.LastMatchedAt.After(*current.LastMatchedAt)
}
