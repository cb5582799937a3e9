package controllers

import (
	"net/http"

	"github.com/salepoint/salepoint-backend/api/responses"
	"github.com/salepoint/salepoint-backend/pkg/config"
	"github.com/salepoint/salepoint-backend/pkg/db"
	pkgerrors "github.com/salepoint/salepoint-backend/pkg/errors"
	"github.com/salepoint/salepoint-backend/pkg/logger"
	"github.com/salepoint/salepoint-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-SalePoint-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the store and, when wired, the report cache.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, cache redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-SalePoint-Env", cfg.App.Env)

		checks := map[string]string{"db": "ok"}
		if err := dbP.Ping(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeStorage, err, "database not ready"))
			return
		}
		if cache != nil {
			if err := cache.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeStorage, err, "cache not ready"))
				return
			}
			checks["cache"] = "ok"
		}

		responses.WriteSuccess(w, checks)
	}
}
