package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/salepoint/salepoint-backend/api/responses"
	"github.com/salepoint/salepoint-backend/api/validators"
	"github.com/salepoint/salepoint-backend/internal/catalog"
	"github.com/salepoint/salepoint-backend/pkg/db/models"
	pkgerrors "github.com/salepoint/salepoint-backend/pkg/errors"
	"github.com/salepoint/salepoint-backend/pkg/logger"
)

type itemRequest struct {
	Name        string          `json:"name" validate:"required,max=50"`
	Description string          `json:"description" validate:"max=50"`
	Value       decimal.Decimal `json:"value" validate:"required"`
}

type removeItemsRequest struct {
	IDs []int64 `json:"ids" validate:"required,min=1,dive,min=1"`
}

func idParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "path id must be a positive integer").
			WithDetails(map[string]any{"param": name})
	}
	return id, nil
}

// ItemCreate handles catalog item insertion.
func ItemCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload itemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := svc.AddItem(r.Context(),
			validators.SanitizeString(payload.Name, models.ItemNameMaxLen),
			validators.SanitizeString(payload.Description, models.ItemDescriptionMaxLen),
			payload.Value)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]int64{"id": id})
	}
}

// ItemUpdate rewrites an existing item.
func ItemUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := idParam(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload itemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		err = svc.EditItem(r.Context(), models.Item{
			ID:          id,
			Name:        validators.SanitizeString(payload.Name, models.ItemNameMaxLen),
			Description: validators.SanitizeString(payload.Description, models.ItemDescriptionMaxLen),
			Value:       payload.Value,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]int64{"id": id})
	}
}

// ItemsRemove soft-deletes a batch of items and reports which IDs changed.
func ItemsRemove(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload removeItemsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		modified, err := svc.RemoveItems(r.Context(), payload.IDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if modified == nil {
			modified = []int64{}
		}

		responses.WriteSuccess(w, map[string]any{"removed": modified})
	}
}

// ItemList returns the catalog in the requested order.
func ItemList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		query := r.URL.Query()
		items, err := svc.GetItems(r.Context(), catalog.ListOptions{
			ByName:         query.Get("sort_name") == "true",
			ByPrice:        query.Get("sort_price") == "true",
			IncludeRemoved: query.Get("include_removed") == "true",
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, items)
	}
}

// ItemGet resolves one item with its removed state made explicit.
func ItemGet(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := idParam(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lookup, err := svc.GetItem(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if lookup.State == catalog.LookupNotFound {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "item not found"))
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"state": lookup.State,
			"item":  lookup.Item,
		})
	}
}
