package company

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/salepoint/salepoint-backend/pkg/db/models"
)

// Repository owns persistence for the singleton company profile.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Get loads the profile row.
func (r *Repository) Get(ctx context.Context) (*models.CompanyProfile, error) {
	var profile models.CompanyProfile
	err := r.db.WithContext(ctx).
		First(&profile, "id = ?", models.CompanyProfileID).
		Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Upsert writes the profile with replace-on-write semantics keyed by the
// fixed singleton ID.
func (r *Repository) Upsert(ctx context.Context, profile *models.CompanyProfile) error {
	profile.ID = models.CompanyProfileID
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(profile).
		Error
}

// UpdateColumn rewrites one column of the profile row.
// Returns gorm.ErrRecordNotFound when no profile exists yet.
func (r *Repository) UpdateColumn(ctx context.Context, column, value string) error {
	res := r.db.WithContext(ctx).
		Model(&models.CompanyProfile{}).
		Where("id = ?", models.CompanyProfileID).
		Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete drops the profile row, reporting whether it existed.
func (r *Repository) Delete(ctx context.Context) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ?", models.CompanyProfileID).
		Delete(&models.CompanyProfile{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
