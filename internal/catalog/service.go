package catalog

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/salepoint/salepoint-backend/pkg/db"
	"github.com/salepoint/salepoint-backend/pkg/db/models"
	pkgerrors "github.com/salepoint/salepoint-backend/pkg/errors"
	"github.com/salepoint/salepoint-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// LookupState tags the outcome of a single-item lookup.
type LookupState string

const (
	LookupFound        LookupState = "found"
	LookupFoundRemoved LookupState = "found_removed"
	LookupNotFound     LookupState = "not_found"
)

// ItemLookup is the tagged result of GetItem: the item when found, with the
// removed flag folded into the state.
type ItemLookup struct {
	State LookupState
	Item  models.Item
}

// Service exposes catalog operations to the presentation layer.
type Service interface {
	AddItem(ctx context.Context, name, description string, value decimal.Decimal) (int64, error)
	EditItem(ctx context.Context, item models.Item) error
	RemoveItems(ctx context.Context, ids []int64) ([]int64, error)
	GetItems(ctx context.Context, opts ListOptions) ([]models.Item, error)
	GetItem(ctx context.Context, id int64) (ItemLookup, error)
}

type service struct {
	repo    *Repository
	tx      txRunner
	metrics *metrics.Registry
}

// NewService builds a catalog service backed by the provided stack.
func NewService(repo *Repository, tx txRunner, reg *metrics.Registry) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, metrics: reg}, nil
}

var (
	nameRe        = regexp.MustCompile(`^[a-zA-Z0-9 ]+$`)
	descriptionRe = regexp.MustCompile(`^[a-zA-Z0-9, ]*$`)
)

func validateItemFields(name, description string, value decimal.Decimal) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "item name is required")
	}
	if len(name) > models.ItemNameMaxLen {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("item name exceeds %d characters", models.ItemNameMaxLen))
	}
	if !nameRe.MatchString(name) {
		return pkgerrors.New(pkgerrors.CodeValidation, "item name must be alphanumeric")
	}
	if len(description) > models.ItemDescriptionMaxLen {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("item description exceeds %d characters", models.ItemDescriptionMaxLen))
	}
	if description != "" && !descriptionRe.MatchString(description) {
		return pkgerrors.New(pkgerrors.CodeValidation, "item description must be alphanumeric")
	}
	if !value.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "item value must be greater than zero")
	}
	return nil
}

// AddItem validates the fields, rejects duplicate names among non-removed
// items, and inserts the item inside one transaction so the uniqueness check
// and the insert cannot interleave.
func (s *service) AddItem(ctx context.Context, name, description string, value decimal.Decimal) (int64, error) {
	name = strings.TrimSpace(name)
	if err := validateItemFields(name, description, value); err != nil {
		return 0, err
	}

	item := &models.Item{Name: name, Description: description, Value: value}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		inUse, err := repo.NameInUse(ctx, name)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "checking item name")
		}
		if inUse {
			return pkgerrors.New(pkgerrors.CodeDuplicate, "an item with this name already exists").
				WithDetails(map[string]any{"name": name})
		}
		if err := repo.Create(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "inserting item")
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if s.metrics != nil {
		s.metrics.ItemsCreated.Inc()
	}
	return item.ID, nil
}

// EditItem rewrites name/description/value for an existing item ID.
func (s *service) EditItem(ctx context.Context, item models.Item) error {
	if item.ID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id must be positive")
	}
	if err := validateItemFields(item.Name, item.Description, item.Value); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, &item); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "updating item")
	}
	return nil
}

// RemoveItems soft-deletes the given IDs in one atomic unit. On any store
// failure the whole batch rolls back and an empty set is returned.
func (s *service) RemoveItems(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var modified []int64
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		var errs error
		for _, id := range ids {
			ok, err := repo.SoftDelete(ctx, id)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("item %d: %w", id, err))
				break
			}
			if ok {
				modified = append(modified, id)
			}
		}
		return errs
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "soft-deleting items")
	}

	if s.metrics != nil {
		s.metrics.ItemsSoftDeleted.Add(float64(len(modified)))
	}
	return modified, nil
}

// GetItems lists items in the requested order. Never returns nil.
func (s *service) GetItems(ctx context.Context, opts ListOptions) ([]models.Item, error) {
	items, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "listing items")
	}
	if items == nil {
		items = []models.Item{}
	}
	return items, nil
}

// GetItem resolves a single item into a tagged lookup result.
func (s *service) GetItem(ctx context.Context, id int64) (ItemLookup, error) {
	item, err := s.repo.Find(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return ItemLookup{State: LookupNotFound}, nil
		}
		return ItemLookup{}, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "loading item")
	}

	state := LookupFound
	if item.Removed {
		state = LookupFoundRemoved
	}
	return ItemLookup{State: state, Item: *item}, nil
}
