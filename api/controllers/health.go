package controllers

import (
	"net/http"

	"github.com/parcelpoint/courier-backend/api/responses"
	"github.com/parcelpoint/courier-backend/pkg/config"
	"github.com/parcelpoint/courier-backend/pkg/db"
	pkgerrors "github.com/parcelpoint/courier-backend/pkg/errors"
	"github.com/parcelpoint/courier-backend/pkg/logger"
	pkgredis "github.com/parcelpoint/courier-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Courier-Env", cfg.App.Env)
		responses.WriteSuccess(w, http.StatusOK, map[string]string{"status": "live"})
	}
}

// HealthReady fails when either backing store is unreachable.
func HealthReady(cfg *config.Config, database db.Pinger, cache pkgredis.Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Courier-Env", cfg.App.Env)

		if database != nil {
			if err := database.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable"))
				return
			}
		}
		if cache != nil {
			if err := cache.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unreachable"))
				return
			}
		}

		responses.WriteSuccess(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
