package lists

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/feirinha-app/feirinha-backend/internal/catalog"
	"github.com/feirinha-app/feirinha-backend/pkg/db/models"
	"github.com/feirinha-app/feirinha-backend/pkg/enums"
	pkgerrors "github.com/feirinha-app/feirinha-backend/pkg/errors"
	"github.com/feirinha-app/feirinha-backend/pkg/logger"
	"github.com/feirinha-app/feirinha-backend/pkg/metrics"
)

type listRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.ShoppingList, error)
	CompleteProcessing(ctx context.Context, list *models.ShoppingList, items []models.ListItem, prices []models.PriceHistory) error
	MarkFailed(ctx context.Context, id uuid.UUID, message string) error
}

type productResolver interface {
	Resolve(ctx context.Context, q catalog.Query) (*catalog.Resolution, error)
}

type productClassifier interface {
	Classify(ctx context.Context, product *models.Product) (*models.Category, error)
}

type storeFinder interface {
	FindOrCreateByName(ctx context.Context, name string, taxID *string) (*models.Store, error)
}

type priceReader interface {
	LatestFor(ctx context.Context, productID uuid.UUID) (*models.PriceHistory, error)
}

// Processor drives one shopping list from pending to a terminal state:
// parse, resolve, classify, price, persist.
type Processor struct {
	repo       listRepository
	resolver   productResolver
	classifier productClassifier
	stores     storeFinder
	prices     priceReader
	logg       *logger.Logger
	metrics    *metrics.ListMetrics
	now        func() time.Time
}

// NewProcessor wires the list processing pipeline.
func NewProcessor(
	repo listRepository,
	resolver productResolver,
	classifier productClassifier,
	stores storeFinder,
	prices priceReader,
	logg *logger.Logger,
	listMetrics *metrics.ListMetrics,
) (*Processor, error) {
	if repo == nil {
		return nil, errors.New("list repository required")
	}
	if resolver == nil {
		return nil, errors.New("resolver required")
	}
	if classifier == nil {
		return nil, errors.New("classifier required")
	}
	if stores == nil {
		return nil, errors.New("store repository required")
	}
	if prices == nil {
		return nil, errors.New("price repository required")
	}
	if logg == nil {
		return nil, errors.New("logger required")
	}
	return &Processor{
		repo:       repo,
		resolver:   resolver,
		classifier: classifier,
		stores:     stores,
		prices:     prices,
		logg:       logg,
		metrics:    listMetrics,
		now:        time.Now,
	}, nil
}

// Process runs one list end to end. Already terminal lists are a no-op.
// Cancellation between lines leaves the list pending, safe to retry. A
// structural failure (empty text, unreadable grammar, broken dependency)
// marks the list failed; a single line's failure only flags that line.
func (p *Processor) Process(ctx context.Context, listID uuid.UUID) error {
	ctx = p.logg.WithListID(ctx, listID.String())

	list, err := p.repo.FindByID(ctx, listID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "shopping list not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shopping list")
	}
	if list.Status.IsTerminal() {
		p.logg.Info(ctx, "list already in terminal state, skipping")
		return nil
	}

	items, prices, err := p.buildItems(ctx, list)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			p.logg.Info(ctx, "list processing cancelled, leaving pending")
			return err
		}
		p.fail(ctx, list.ID, err)
		return err
	}

	if err := p.repo.CompleteProcessing(ctx, list, items, prices); err != nil {
		p.fail(ctx, list.ID, err)
		return err
	}

	p.metrics.IncProcessed(enums.ListStatusProcessed.String())
	p.metrics.AddItems(len(items))
	p.logg.Info(ctx, fmt.Sprintf("list processed with %d items", len(items)))
	return nil
}

func (p *Processor) fail(ctx context.Context, listID uuid.UUID, cause error) {
	p.logg.Error(ctx, "list processing failed", cause)
	if err := p.repo.MarkFailed(ctx, listID, cause.Error()); err != nil {
		p.logg.Error(ctx, "could not mark list failed", err)
		return
	}
	p.metrics.IncProcessed(enums.ListStatusFailed.String())
}

func (p *Processor) buildItems(ctx context.Context, list *models.ShoppingList) ([]models.ListItem, []models.PriceHistory, error) {
	switch list.EntryType {
	case enums.ListEntryTypeSimpleList:
		return p.buildFromFreeText(ctx, list)
	case enums.ListEntryTypeInvoice:
		return p.buildFromInvoice(ctx, list)
	default:
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("unknown entry type %q", list.EntryType))
	}
}

func (p *Processor) buildFromFreeText(ctx context.Context, list *models.ShoppingList) ([]models.ListItem, []models.PriceHistory, error) {
	lines := AnalyzeFreeText(list.RawText)
	if len(lines) == 0 {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "list text has no parseable lines")
	}

	items := make([]models.ListItem, 0, len(lines))
	for i, line := range lines {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		item := models.ListItem{
			Position: i,
			Quantity: line.Quantity,
			Unit:     line.Unit,
			RawText:  line.RawText,
			RawName:  line.Name,
		}
		if err := p.resolveInto(ctx, &item, catalog.Query{RawName: line.Name}, list); err != nil {
			return nil, nil, err
		}

		// Simple lists carry no prices; reuse the latest known
		// observation without writing a new one.
		if item.ProductID != nil {
			latest, err := p.prices.LatestFor(ctx, *item.ProductID)
			if err == nil {
				price := latest.UnitPrice
				item.UnitPrice = &price
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up latest price")
			}
		}
		items = append(items, item)
	}
	return items, nil, nil
}

func (p *Processor) buildFromInvoice(ctx context.Context, list *models.ShoppingList) ([]models.ListItem, []models.PriceHistory, error) {
	issued := p.now().UTC()
	if list.PurchaseDate != nil {
		issued = *list.PurchaseDate
	}
	inv, err := ReadInvoice(list.RawText, issued)
	if err != nil {
		return nil, nil, err
	}

	store, err := p.stores.FindOrCreateByName(ctx, inv.CompanyName, nil)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve invoice store")
	}
	list.StoreID = &store.ID
	issueDate := inv.IssueDate
	list.PurchaseDate = &issueDate

	items := make([]models.ListItem, 0, len(inv.Lines)+len(inv.LineErrors))
	var prices []models.PriceHistory
	for i := range inv.Lines {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		line := inv.Lines[i]

		unit := line.Unit
		quantity := line.Quantity
		unitPrice := line.UnitPrice
		totalPrice := line.TotalPrice
		item := models.ListItem{
			Position:   line.Position,
			Quantity:   quantity,
			Unit:       &unit,
			UnitPrice:  &unitPrice,
			TotalPrice: &totalPrice,
			RawText:    line.RawText,
			RawName:    line.Name,
		}
		code := line.StoreCode
		if err := p.resolveInto(ctx, &item, catalog.Query{RawName: line.Name, StoreCode: &code}, list); err != nil {
			return nil, nil, err
		}

		if item.ProductID != nil {
			prices = append(prices, models.PriceHistory{
				ID:         uuid.New(),
				ProductID:  *item.ProductID,
				UnitPrice:  unitPrice,
				ObservedAt: issueDate,
				Source:     enums.PriceSourceInvoice,
				StoreID:    &store.ID,
			})
		}
		items = append(items, item)
	}

	// Unreadable lines still become items, flagged and priceless.
	for _, lineErr := range inv.LineErrors {
		list.Warnings = append(list.Warnings, fmt.Sprintf("line %d: %s", lineErr.Position+1, lineErr.Reason))
		items = append(items, models.ListItem{
			Position:         lineErr.Position,
			RawText:          lineErr.RawText,
			RawName:          lineErr.RawText,
			ResolutionStatus: enums.ResolutionFailed,
		})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Position < items[j].Position })
	return items, prices, nil
}

// resolveInto runs resolver and classifier for one line and records the
// outcome on the item. Validation problems flag the line; dependency
// problems bubble up and fail the list.
func (p *Processor) resolveInto(ctx context.Context, item *models.ListItem, q catalog.Query, list *models.ShoppingList) error {
	resolution, err := p.resolver.Resolve(ctx, q)
	if err != nil {
		typed := pkgerrors.As(err)
		if typed != nil && typed.Code() == pkgerrors.CodeValidation {
			list.Warnings = append(list.Warnings, fmt.Sprintf("line %d: %s", item.Position+1, typed.Message()))
			item.ResolutionStatus = enums.ResolutionFailed
			return nil
		}
		return err
	}

	product := resolution.Product
	item.ProductID = &product.ID
	item.ResolvedName = &product.Name
	item.ResolutionStatus = resolution.Status
	score := resolution.Score
	item.MatchScore = &score

	category, err := p.classifier.Classify(ctx, product)
	if err != nil {
		return err
	}
	if category != nil {
		name := category.Name
		item.ResolvedCategory = &name
	}
	return nil
}
