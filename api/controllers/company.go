package controllers

import (
	"net/http"

	"github.com/salepoint/salepoint-backend/api/responses"
	"github.com/salepoint/salepoint-backend/api/validators"
	"github.com/salepoint/salepoint-backend/internal/company"
	"github.com/salepoint/salepoint-backend/pkg/db/models"
	pkgerrors "github.com/salepoint/salepoint-backend/pkg/errors"
	"github.com/salepoint/salepoint-backend/pkg/logger"
)

type companyUpsertRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Address string `json:"address" validate:"max=200"`
	Phone   string `json:"phone" validate:"max=30"`
	TaxID   string `json:"tax_id" validate:"max=50"`
}

type companyPatchRequest struct {
	Field string `json:"field" validate:"required"`
	Value string `json:"value" validate:"max=200"`
}

// CompanyGet returns the letterhead profile.
func CompanyGet(svc company.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "company service unavailable"))
			return
		}

		profile, err := svc.Get(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, profile)
	}
}

// CompanyUpsert replaces the profile wholesale.
func CompanyUpsert(svc company.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "company service unavailable"))
			return
		}

		var payload companyUpsertRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.Upsert(r.Context(), models.CompanyProfile{
			Name:    validators.SanitizeString(payload.Name, 100),
			Address: validators.SanitizeString(payload.Address, 200),
			Phone:   validators.SanitizeString(payload.Phone, 30),
			TaxID:   validators.SanitizeString(payload.TaxID, 50),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, profile)
	}
}

// CompanyPatch rewrites one profile field.
func CompanyPatch(svc company.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "company service unavailable"))
			return
		}

		var payload companyPatchRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.UpdateField(r.Context(), payload.Field, payload.Value); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"field": payload.Field})
	}
}

// CompanyDelete clears the profile.
func CompanyDelete(svc company.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "company service unavailable"))
			return
		}

		if err := svc.Delete(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}
