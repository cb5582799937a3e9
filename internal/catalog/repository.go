package catalog

import (
	"context"

	"gorm.io/gorm"

	"github.com/salepoint/salepoint-backend/pkg/db/models"
)

// ListOptions control ordering and visibility of catalog listings.
// Ordering priority mirrors the store: name+value, name, value, insertion ID.
type ListOptions struct {
	ByName         bool
	ByPrice        bool
	IncludeRemoved bool
}

// Repository owns persistence for catalog items.
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

// NameInUse reports whether a non-removed item already claims the name,
// compared case-insensitively.
func (r *Repository) NameInUse(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("LOWER(name) = LOWER(?) AND removed = ?", name, false).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a new item row; the store assigns the ID.
func (r *Repository) Create(ctx context.Context, item *models.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// Update rewrites name/description/value for an existing item.
// Returns gorm.ErrRecordNotFound when the ID matches nothing.
func (r *Repository) Update(ctx context.Context, item *models.Item) error {
	res := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("id = ?", item.ID).
		Updates(map[string]any{
			"name":        item.Name,
			"description": item.Description,
			"value":       item.Value,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SoftDelete flags the item as removed. The row stays so historical invoice
// rows keep resolving. Reports whether the row existed.
func (r *Repository) SoftDelete(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("id = ?", id).
		Update("removed", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// List returns all items in the requested order, optionally hiding removed ones.
func (r *Repository) List(ctx context.Context, opts ListOptions) ([]models.Item, error) {
	qb := r.db.WithContext(ctx).Model(&models.Item{})

	if !opts.IncludeRemoved {
		qb = qb.Where("removed = ?", false)
	}

	switch {
	case opts.ByName && opts.ByPrice:
		qb = qb.Order("name ASC").Order("value ASC")
	case opts.ByName:
		qb = qb.Order("name ASC")
	case opts.ByPrice:
		qb = qb.Order("value ASC")
	default:
		qb = qb.Order("id ASC")
	}

	var items []models.Item
	if err := qb.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Find loads a single item regardless of its removed flag.
func (r *Repository) Find(ctx context.Context, id int64) (*models.Item, error) {
	var item models.Item
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}
