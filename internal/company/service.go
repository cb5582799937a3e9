package company

import (
	"context"
	"fmt"
	"strings"

	"github.com/salepoint/salepoint-backend/pkg/db"
	"github.com/salepoint/salepoint-backend/pkg/db/models"
	pkgerrors "github.com/salepoint/salepoint-backend/pkg/errors"
)

// Fields that UpdateField may touch. Everything else on the row is managed
// through the full upsert.
var patchableFields = map[string]string{
	"name":    "name",
	"address": "address",
	"phone":   "phone",
	"tax_id":  "tax_id",
}

// Service exposes the company letterhead record.
type Service interface {
	Get(ctx context.Context) (*models.CompanyProfile, error)
	Upsert(ctx context.Context, profile models.CompanyProfile) (*models.CompanyProfile, error)
	UpdateField(ctx context.Context, field, value string) error
	Delete(ctx context.Context) error
}

type service struct {
	repo *Repository
}

// NewService builds the company profile service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("company repository required")
	}
	return &service{repo: repo}, nil
}

// Get loads the profile, reporting not found when none was ever saved.
func (s *service) Get(ctx context.Context) (*models.CompanyProfile, error) {
	profile, err := s.repo.Get(ctx)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "company profile not set")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "loading company profile")
	}
	return profile, nil
}

// Upsert replaces the profile wholesale.
func (s *service) Upsert(ctx context.Context, profile models.CompanyProfile) (*models.CompanyProfile, error) {
	if strings.TrimSpace(profile.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company name is required")
	}

	if err := s.repo.Upsert(ctx, &profile); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "saving company profile")
	}
	return &profile, nil
}

// UpdateField rewrites a single profile column.
func (s *service) UpdateField(ctx context.Context, field, value string) error {
	column, ok := patchableFields[field]
	if !ok {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown profile field").
			WithDetails(map[string]any{"field": field})
	}
	if column == "name" && strings.TrimSpace(value) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "company name cannot be blank")
	}

	if err := s.repo.UpdateColumn(ctx, column, value); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "company profile not set")
		}
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "updating company profile")
	}
	return nil
}

// Delete clears the profile.
func (s *service) Delete(ctx context.Context) error {
	existed, err := s.repo.Delete(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "deleting company profile")
	}
	if !existed {
		return pkgerrors.New(pkgerrors.CodeNotFound, "company profile not set")
	}
	return nil
}
